package ir

// Term is the base interface for IR terminators.
type Term interface {
	irTerm()
	// Successors lists the blocks control may transfer to.
	Successors() []BlockID
}

// Ret exits the current function.
type Ret struct {
	Value    ValueID
	HasValue bool
}

// Br jumps unconditionally to another block.
type Br struct {
	Target BlockID
}

// CondBr jumps based on a boolean condition.
type CondBr struct {
	Cond ValueID
	Then BlockID
	Else BlockID
}

// Unreachable marks an invalid control-flow path.
type Unreachable struct{}

func (*Ret) irTerm()         {}
func (*Br) irTerm()          {}
func (*CondBr) irTerm()      {}
func (*Unreachable) irTerm() {}

func (*Ret) Successors() []BlockID         { return nil }
func (t *Br) Successors() []BlockID        { return []BlockID{t.Target} }
func (t *CondBr) Successors() []BlockID    { return []BlockID{t.Then, t.Else} }
func (*Unreachable) Successors() []BlockID { return nil }
