package ir

import "github.com/pkg/errors"

// Verify checks the structural invariants of fn: every block is terminated,
// branches name existing blocks, operands are defined and operand types
// agree.
func Verify(fn *Function) error {
	if len(fn.Blocks) == 0 {
		return errors.Errorf("%s: function has no blocks", fn.Name)
	}

	defined := make(map[ValueID]bool, fn.NumValues())
	for _, p := range fn.Params {
		defined[p.ID] = true
	}
	blocks := make(map[BlockID]bool, len(fn.Blocks))
	for _, b := range fn.Blocks {
		blocks[b.ID] = true
		for _, in := range b.Instrs {
			if d := in.Def(); d != InvalidValue {
				if defined[d] {
					return errors.Errorf("%s: value %s defined twice", fn.Name, value(d))
				}
				defined[d] = true
			}
		}
	}

	for _, b := range fn.Blocks {
		label := blockLabel(fn, b.ID)
		for _, in := range b.Instrs {
			for _, u := range in.Uses() {
				if !defined[u] {
					return errors.Errorf("%s: %s: use of undefined value %s in %q", fn.Name, label, value(u), formatInstr(fn, in))
				}
			}
			if err := verifyInstr(fn, in); err != nil {
				return errors.Wrapf(err, "%s: %s", fn.Name, label)
			}
		}
		if b.Term == nil {
			return errors.Errorf("%s: block %s has no terminator", fn.Name, label)
		}
		for _, s := range b.Term.Successors() {
			if !blocks[s] {
				return errors.Errorf("%s: block %s branches to unknown block b%d", fn.Name, label, s)
			}
		}
		switch t := b.Term.(type) {
		case *CondBr:
			if !defined[t.Cond] {
				return errors.Errorf("%s: %s: branch on undefined value %s", fn.Name, label, value(t.Cond))
			}
			if fn.TypeOf(t.Cond) != Bool {
				return errors.Errorf("%s: %s: branch condition %s is %s, not i1", fn.Name, label, value(t.Cond), fn.TypeOf(t.Cond))
			}
		case *Ret:
			if t.HasValue != (fn.Return != Void) {
				return errors.Errorf("%s: %s: return does not match function result %s", fn.Name, label, fn.Return)
			}
			if t.HasValue && fn.TypeOf(t.Value) != fn.Return {
				return errors.Errorf("%s: %s: returning %s from %s function", fn.Name, label, fn.TypeOf(t.Value), fn.Return)
			}
		}
	}
	return nil
}

func verifyInstr(fn *Function, in Instr) error {
	switch i := in.(type) {
	case *Binary:
		l, r := fn.TypeOf(i.Left), fn.TypeOf(i.Right)
		if l != r {
			return errors.Errorf("%s operands have different types %s and %s", i.Op, l, r)
		}
	case *Select:
		if fn.TypeOf(i.Cond) != Bool {
			return errors.Errorf("select condition is %s, not i1", fn.TypeOf(i.Cond))
		}
		if fn.TypeOf(i.True) != fn.TypeOf(i.False) {
			return errors.Errorf("select arms have different types %s and %s", fn.TypeOf(i.True), fn.TypeOf(i.False))
		}
	case *Load:
		if _, ok := fn.pointee[i.Addr]; !ok {
			return errors.Errorf("load from non-pointer %s", value(i.Addr))
		}
	case *Store:
		t, ok := fn.pointee[i.Addr]
		if !ok {
			return errors.Errorf("store to non-pointer %s", value(i.Addr))
		}
		if vt := fn.TypeOf(i.Value); vt != t {
			return errors.Errorf("storing %s into %s slot %s", vt, t, value(i.Addr))
		}
	case *Pack:
		t := fn.TypeOf(i.Result)
		if !t.IsVector() || t.Len != len(i.Elems) {
			return errors.Errorf("pack of %d lanes into %s", len(i.Elems), t)
		}
		for _, e := range i.Elems {
			if fn.TypeOf(e) != t.ElemType() {
				return errors.Errorf("pack lane %s is %s, not %s", value(e), fn.TypeOf(e), t.ElemType())
			}
		}
	case *Extract:
		if !fn.TypeOf(i.Vec).IsVector() {
			return errors.Errorf("extract from non-vector %s", value(i.Vec))
		}
		if err := checkLaneIndex(fn, i.Index); err != nil {
			return err
		}
	case *Insert:
		vt := fn.TypeOf(i.Vec)
		if !vt.IsVector() {
			return errors.Errorf("insert into non-vector %s", value(i.Vec))
		}
		if err := checkLaneIndex(fn, i.Index); err != nil {
			return err
		}
		if fn.TypeOf(i.Elem) != vt.ElemType() {
			return errors.Errorf("insert of %s into %s", fn.TypeOf(i.Elem), vt)
		}
	case *Phi:
		t := fn.TypeOf(i.Result)
		for _, inc := range i.Incoming {
			if fn.Block(inc.Block) == nil {
				return errors.Errorf("phi names unknown block b%d", inc.Block)
			}
			if fn.TypeOf(inc.Value) != t {
				return errors.Errorf("phi incoming %s is %s, not %s", value(inc.Value), fn.TypeOf(inc.Value), t)
			}
		}
	}
	return nil
}

func checkLaneIndex(fn *Function, index ValueID) error {
	t := fn.TypeOf(index)
	if t.IsVector() || !t.IsInteger() {
		return errors.Errorf("lane index %s is %s, not an integer", value(index), t)
	}
	return nil
}
