package ir

import "fmt"

// Builder appends instructions to a function, one current block at a time.
// Emitting into a block that already has a terminator is a programming
// error and panics.
type Builder struct {
	fn      *Function
	entry   *Block
	current *Block
}

// NewBuilder creates the entry block of fn and positions the builder there.
func NewBuilder(fn *Function) *Builder {
	b := &Builder{fn: fn}
	b.entry = b.NewBlock("entry")
	b.current = b.entry
	return b
}

func (b *Builder) Function() *Function { return b.fn }

// Block returns the block instructions are currently emitted into.
func (b *Builder) Block() *Block { return b.current }

func (b *Builder) Entry() *Block { return b.entry }

// NewBlock adds an empty block to the function without moving the builder.
func (b *Builder) NewBlock(name string) *Block {
	b.fn.nextBlock++
	blk := &Block{ID: b.fn.nextBlock, Name: name}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

func (b *Builder) SetBlock(blk *Block) {
	b.current = blk
}

// Terminated reports whether the current block already ends in a terminator.
func (b *Builder) Terminated() bool {
	return b.current.Term != nil
}

func (b *Builder) emit(in Instr) {
	if b.current.Term != nil {
		panic(fmt.Sprintf("ir: emit into terminated block %s%d", b.current.Name, b.current.ID))
	}
	b.current.Instrs = append(b.current.Instrs, in)
}

func (b *Builder) terminate(t Term) {
	if b.current.Term != nil {
		panic(fmt.Sprintf("ir: block %s%d already terminated", b.current.Name, b.current.ID))
	}
	b.current.Term = t
}

func (b *Builder) Const(t Type, v any) ValueID {
	id := b.fn.newValue(t)
	b.emit(&Const{Result: id, Type: t, Value: v})
	return id
}

func (b *Builder) ConstBool(v bool) ValueID { return b.Const(Bool, v) }

func (b *Builder) ConstInt(t Type, v int64) ValueID { return b.Const(t, v) }

func (b *Builder) ConstFloat(t Type, v float64) ValueID { return b.Const(t, v) }

func (b *Builder) ConstString(v string) ValueID { return b.Const(String, v) }

// Binary emits op on two operands of the same type. Comparisons yield Bool.
func (b *Builder) Binary(op Op, left, right ValueID) ValueID {
	t := b.fn.TypeOf(left)
	if op.IsCompare() {
		t = Bool
	}
	id := b.fn.newValue(t)
	b.emit(&Binary{Result: id, Op: op, Left: left, Right: right})
	return id
}

func (b *Builder) Unary(op Op, x ValueID) ValueID {
	id := b.fn.newValue(b.fn.TypeOf(x))
	b.emit(&Unary{Result: id, Op: op, X: x})
	return id
}

// Cast converts x to t. Casting to the value's own type returns x.
func (b *Builder) Cast(x ValueID, t Type) ValueID {
	if b.fn.TypeOf(x) == t {
		return x
	}
	id := b.fn.newValue(t)
	b.emit(&Cast{Result: id, X: x, To: t})
	return id
}

func (b *Builder) Select(cond, ifTrue, ifFalse ValueID) ValueID {
	id := b.fn.newValue(b.fn.TypeOf(ifTrue))
	b.emit(&Select{Result: id, Cond: cond, True: ifTrue, False: ifFalse})
	return id
}

// Alloca reserves a stack slot in the entry block, wherever the builder is.
func (b *Builder) Alloca(t Type) ValueID {
	id := b.fn.newValue(Ptr)
	b.fn.pointee[id] = t
	b.entry.Instrs = append(b.entry.Instrs, &Alloca{Result: id, Type: t})
	return id
}

func (b *Builder) Load(addr ValueID) ValueID {
	t, ok := b.fn.pointee[addr]
	if !ok {
		panic(fmt.Sprintf("ir: load from non-pointer %%%d", addr))
	}
	id := b.fn.newValue(t)
	b.emit(&Load{Result: id, Addr: addr})
	return id
}

func (b *Builder) Store(addr, v ValueID) {
	b.emit(&Store{Addr: addr, Value: v})
}

func (b *Builder) Pack(t Type, elems ...ValueID) ValueID {
	id := b.fn.newValue(t)
	b.emit(&Pack{Result: id, Elems: elems})
	return id
}

func (b *Builder) Extract(vec, index ValueID) ValueID {
	id := b.fn.newValue(b.fn.TypeOf(vec).ElemType())
	b.emit(&Extract{Result: id, Vec: vec, Index: index})
	return id
}

func (b *Builder) Insert(vec, index, elem ValueID) ValueID {
	id := b.fn.newValue(b.fn.TypeOf(vec))
	b.emit(&Insert{Result: id, Vec: vec, Index: index, Elem: elem})
	return id
}

// Call emits a call to a native symbol. Void calls return InvalidValue.
func (b *Builder) Call(target string, ret Type, args ...ValueID) ValueID {
	id := InvalidValue
	if ret != Void {
		id = b.fn.newValue(ret)
	}
	b.emit(&Call{Result: id, Target: target, Args: args, Type: ret})
	return id
}

// ContextSlot yields a pointer to the named slot of the context ctx. Like
// Alloca it is placed in the entry block, so ctx must be a parameter.
func (b *Builder) ContextSlot(ctx ValueID, name string, t Type) ValueID {
	id := b.fn.newValue(Ptr)
	b.fn.pointee[id] = t
	b.entry.Instrs = append(b.entry.Instrs, &ContextSlot{Result: id, Ctx: ctx, Name: name, Type: t})
	return id
}

func (b *Builder) Phi(t Type, incoming ...PhiIncoming) ValueID {
	id := b.fn.newValue(t)
	b.emit(&Phi{Result: id, Incoming: incoming})
	return id
}

func (b *Builder) Br(target *Block) {
	b.terminate(&Br{Target: target.ID})
}

func (b *Builder) CondBr(cond ValueID, then, els *Block) {
	b.terminate(&CondBr{Cond: cond, Then: then.ID, Else: els.ID})
}

func (b *Builder) Ret() {
	b.terminate(&Ret{})
}

func (b *Builder) RetValue(v ValueID) {
	b.terminate(&Ret{Value: v, HasValue: true})
}

func (b *Builder) Unreachable() {
	b.terminate(&Unreachable{})
}
