// Package ir is a small typed SSA intermediate representation: functions
// made of basic blocks, each a list of instructions ending in a terminator.
package ir

// ValueID identifies a SSA value within a function.
type ValueID uint32

// BlockID identifies a basic block within a function.
type BlockID uint32

const (
	InvalidValue ValueID = 0
	InvalidBlock BlockID = 0
)

// Module is the IR root holding generated functions.
type Module struct {
	Name      string
	Functions []*Function
}

func NewModule(name string) *Module {
	return &Module{Name: name}
}

// Function returns the function called name, or nil.
func (m *Module) Function(name string) *Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Remove drops fn from the module.
func (m *Module) Remove(fn *Function) {
	for i, f := range m.Functions {
		if f == fn {
			m.Functions = append(m.Functions[:i], m.Functions[i+1:]...)
			return
		}
	}
}

// Param describes a function parameter value.
type Param struct {
	ID   ValueID
	Name string
	Type Type
}

// Function is a typed, SSA-based IR function. Blocks[0] is the entry block.
type Function struct {
	Name   string
	Params []Param
	Return Type
	Blocks []*Block

	types     []Type // indexed by ValueID
	pointee   map[ValueID]Type
	nextBlock BlockID
}

// NewFunction adds an empty function to the module. Parameter IDs are
// assigned here; the Param.ID fields passed in are ignored.
func (m *Module) NewFunction(name string, ret Type, params ...Param) *Function {
	fn := &Function{
		Name:    name,
		Return:  ret,
		types:   []Type{Void}, // ValueID 0 is invalid
		pointee: make(map[ValueID]Type),
	}
	for _, p := range params {
		p.ID = fn.newValue(p.Type)
		fn.Params = append(fn.Params, p)
	}
	m.Functions = append(m.Functions, fn)
	return fn
}

func (f *Function) newValue(t Type) ValueID {
	f.types = append(f.types, t)
	return ValueID(len(f.types) - 1)
}

// TypeOf returns the type of v, or Void for unknown values.
func (f *Function) TypeOf(v ValueID) Type {
	if int(v) >= len(f.types) {
		return Void
	}
	return f.types[v]
}

// PointeeOf returns the type stored behind the pointer v.
func (f *Function) PointeeOf(v ValueID) (Type, bool) {
	t, ok := f.pointee[v]
	return t, ok
}

// Block returns the block with the given ID, or nil.
func (f *Function) Block(id BlockID) *Block {
	for _, b := range f.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// NumValues is the number of value IDs allocated, including the invalid one.
func (f *Function) NumValues() int {
	return len(f.types)
}

// Block is a basic block with a list of instructions and a terminator.
type Block struct {
	ID     BlockID
	Name   string
	Instrs []Instr
	Term   Term
}
