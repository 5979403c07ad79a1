package ir

// Op is an arithmetic, bitwise or comparison operation.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpNeg
	OpNot
)

var opNames = [...]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
	OpRem: "rem",
	OpAnd: "and",
	OpOr:  "or",
	OpXor: "xor",
	OpShl: "shl",
	OpShr: "shr",
	OpEq:  "eq",
	OpNe:  "ne",
	OpLt:  "lt",
	OpLe:  "le",
	OpGt:  "gt",
	OpGe:  "ge",
	OpNeg: "neg",
	OpNot: "not",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "op?"
	}
	return opNames[op]
}

// IsCompare reports whether op produces a bool.
func (op Op) IsCompare() bool {
	return op >= OpEq && op <= OpGe
}

// Instr is the base interface for IR instructions.
type Instr interface {
	irInstr()
	// Def returns the value defined by the instruction, or InvalidValue.
	Def() ValueID
	// Uses returns the operand values read by the instruction.
	Uses() []ValueID
}

// Const defines a typed constant. Value holds a bool, int64, float64 or
// string depending on the type's kind.
type Const struct {
	Result ValueID
	Type   Type
	Value  any
}

// Binary applies Op lane-wise to two operands of the same type.
type Binary struct {
	Result ValueID
	Op     Op
	Left   ValueID
	Right  ValueID
}

// Unary applies OpNeg or OpNot.
type Unary struct {
	Result ValueID
	Op     Op
	X      ValueID
}

// Cast converts X to type To. Vector casts convert lane-wise.
type Cast struct {
	Result ValueID
	X      ValueID
	To     Type
}

// Select yields True when Cond holds, False otherwise.
type Select struct {
	Result ValueID
	Cond   ValueID
	True   ValueID
	False  ValueID
}

// Alloca reserves a zeroed stack slot for a value of Type.
type Alloca struct {
	Result ValueID
	Type   Type
}

// Load reads a value from a pointer.
type Load struct {
	Result ValueID
	Addr   ValueID
}

// Store writes a value to a pointer.
type Store struct {
	Addr  ValueID
	Value ValueID
}

// Pack builds a vector from scalar lanes.
type Pack struct {
	Result ValueID
	Elems  []ValueID
}

// Extract reads lane Index of Vec.
type Extract struct {
	Result ValueID
	Vec    ValueID
	Index  ValueID
}

// Insert yields a copy of Vec with lane Index replaced by Elem.
type Insert struct {
	Result ValueID
	Vec    ValueID
	Index  ValueID
	Elem   ValueID
}

// Call represents a direct call to a native symbol. Result is InvalidValue
// for void calls.
type Call struct {
	Result ValueID
	Target string
	Args   []ValueID
	Type   Type
}

// ContextSlot yields the address of a named slot of the run-time context
// passed to the function.
type ContextSlot struct {
	Result ValueID
	Ctx    ValueID
	Name   string
	Type   Type
}

// PhiIncoming is one predecessor edge of a Phi.
type PhiIncoming struct {
	Block BlockID
	Value ValueID
}

// Phi merges values flowing in from predecessor blocks.
type Phi struct {
	Result   ValueID
	Incoming []PhiIncoming
}

func (*Const) irInstr()       {}
func (*Binary) irInstr()      {}
func (*Unary) irInstr()       {}
func (*Cast) irInstr()        {}
func (*Select) irInstr()      {}
func (*Alloca) irInstr()      {}
func (*Load) irInstr()        {}
func (*Store) irInstr()       {}
func (*Pack) irInstr()        {}
func (*Extract) irInstr()     {}
func (*Insert) irInstr()      {}
func (*Call) irInstr()        {}
func (*ContextSlot) irInstr() {}
func (*Phi) irInstr()         {}

func (i *Const) Def() ValueID       { return i.Result }
func (i *Binary) Def() ValueID      { return i.Result }
func (i *Unary) Def() ValueID       { return i.Result }
func (i *Cast) Def() ValueID        { return i.Result }
func (i *Select) Def() ValueID      { return i.Result }
func (i *Alloca) Def() ValueID      { return i.Result }
func (i *Load) Def() ValueID        { return i.Result }
func (i *Store) Def() ValueID       { return InvalidValue }
func (i *Pack) Def() ValueID        { return i.Result }
func (i *Extract) Def() ValueID     { return i.Result }
func (i *Insert) Def() ValueID      { return i.Result }
func (i *Call) Def() ValueID        { return i.Result }
func (i *ContextSlot) Def() ValueID { return i.Result }
func (i *Phi) Def() ValueID         { return i.Result }

func (i *Const) Uses() []ValueID       { return nil }
func (i *Binary) Uses() []ValueID      { return []ValueID{i.Left, i.Right} }
func (i *Unary) Uses() []ValueID       { return []ValueID{i.X} }
func (i *Cast) Uses() []ValueID        { return []ValueID{i.X} }
func (i *Select) Uses() []ValueID      { return []ValueID{i.Cond, i.True, i.False} }
func (i *Alloca) Uses() []ValueID      { return nil }
func (i *Load) Uses() []ValueID        { return []ValueID{i.Addr} }
func (i *Store) Uses() []ValueID       { return []ValueID{i.Addr, i.Value} }
func (i *Pack) Uses() []ValueID        { return i.Elems }
func (i *Extract) Uses() []ValueID     { return []ValueID{i.Vec, i.Index} }
func (i *Insert) Uses() []ValueID      { return []ValueID{i.Vec, i.Index, i.Elem} }
func (i *Call) Uses() []ValueID        { return i.Args }
func (i *ContextSlot) Uses() []ValueID { return []ValueID{i.Ctx} }
func (i *Phi) Uses() []ValueID {
	uses := make([]ValueID, len(i.Incoming))
	for n, in := range i.Incoming {
		uses[n] = in.Value
	}
	return uses
}
