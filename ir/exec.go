package ir

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Run-time values are plain Go values: bool, int16, int32, int64, float32,
// float64 and string for scalars, []any for vectors, *Slot for pointers
// and *Context for a context parameter.

// Native implements a call target. It receives the evaluated arguments and
// returns the result, or nil for void calls.
type Native func(args []any) (any, error)

// Slot is a typed memory cell addressed by a pointer value.
type Slot struct {
	Type  Type
	Value any
}

// Context holds the named slots reachable through ContextSlot.
type Context struct {
	slots map[string]*Slot
}

func NewContext() *Context {
	return &Context{slots: make(map[string]*Slot)}
}

// Set stores v in the named slot, converting it to t.
func (c *Context) Set(name string, t Type, v any) error {
	nv, err := Normalize(t, v)
	if err != nil {
		return errors.Wrapf(err, "setting %q", name)
	}
	c.slots[name] = &Slot{Type: t, Value: nv}
	return nil
}

// Get returns the current value of a slot.
func (c *Context) Get(name string) (any, bool) {
	s, ok := c.slots[name]
	if !ok {
		return nil, false
	}
	return s.Value, true
}

// Type returns the type of a slot.
func (c *Context) Type(name string) (Type, bool) {
	s, ok := c.slots[name]
	if !ok {
		return Void, false
	}
	return s.Type, true
}

// Names returns the slot names in sorted order.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.slots))
	for n := range c.slots {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Context) slot(name string, t Type) (*Slot, error) {
	s, ok := c.slots[name]
	if !ok {
		s = &Slot{Type: t, Value: Zero(t)}
		c.slots[name] = s
		return s, nil
	}
	if s.Type != t {
		return nil, errors.Errorf("context slot %q holds %s, accessed as %s", name, s.Type, t)
	}
	return s, nil
}

// RuntimeError reports a failure while executing a function.
type RuntimeError struct {
	Function string
	Block    string
	Message  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error in %s at %s: %s", e.Function, e.Block, e.Message)
}

// FormatValue renders a run-time value the way print shows it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case []any:
		lanes := make([]string, len(x))
		for i, l := range x {
			lanes[i] = FormatValue(l)
		}
		return "[" + strings.Join(lanes, ", ") + "]"
	}
	return fmt.Sprint(v)
}

// Zero returns the zero value of t.
func Zero(t Type) any {
	switch t.Kind {
	case KindBool:
		return false
	case KindInt16:
		return int16(0)
	case KindInt32:
		return int32(0)
	case KindInt64:
		return int64(0)
	case KindFloat32:
		return float32(0)
	case KindFloat64:
		return float64(0)
	case KindString:
		return ""
	case KindVector:
		lanes := make([]any, t.Len)
		for i := range lanes {
			lanes[i] = Zero(t.ElemType())
		}
		return lanes
	}
	return nil
}

// Normalize converts a Go value to the run-time representation of t.
func Normalize(t Type, v any) (any, error) {
	switch t.Kind {
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindInt16, KindInt32, KindInt64:
		if x, ok := asInt64(v); ok {
			return fromInt64(t.Kind, x), nil
		}
		if f, ok := v.(float64); ok {
			return fromInt64(t.Kind, int64(f)), nil
		}
	case KindFloat32, KindFloat64:
		if f, ok := asFloat64(v); ok {
			return fromFloat64(t.Kind, f), nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindVector:
		var lanes []any
		switch vv := v.(type) {
		case []any:
			lanes = vv
		case []float64:
			for _, f := range vv {
				lanes = append(lanes, f)
			}
		case []int64:
			for _, x := range vv {
				lanes = append(lanes, x)
			}
		}
		if lanes == nil || len(lanes) != t.Len {
			break
		}
		out := make([]any, t.Len)
		for i, l := range lanes {
			nl, err := Normalize(t.ElemType(), l)
			if err != nil {
				return nil, err
			}
			out[i] = nl
		}
		return out, nil
	}
	return nil, errors.Errorf("cannot use %v (%T) as %s", v, v, t)
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

func fromInt64(k Kind, x int64) any {
	switch k {
	case KindInt16:
		return int16(x)
	case KindInt32:
		return int32(x)
	case KindFloat32:
		return float32(x)
	case KindFloat64:
		return float64(x)
	case KindBool:
		return x != 0
	}
	return x
}

func fromFloat64(k Kind, f float64) any {
	switch k {
	case KindFloat32:
		return float32(f)
	case KindInt16:
		return int16(f)
	case KindInt32:
		return int32(f)
	case KindInt64:
		return int64(f)
	case KindBool:
		return f != 0
	}
	return f
}

type machine struct {
	fn      *Function
	natives map[string]Native
	blocks  map[BlockID]*Block
	vals    []any
	block   *Block
	prev    BlockID
}

// Exec interprets fn with the given arguments, calling natives for Call
// instructions, and returns the function's result (nil for void).
func Exec(fn *Function, natives map[string]Native, args ...any) (any, error) {
	if len(args) != len(fn.Params) {
		return nil, errors.Errorf("%s: expected %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	if len(fn.Blocks) == 0 {
		return nil, errors.Errorf("%s: function has no body", fn.Name)
	}
	m := &machine{
		fn:      fn,
		natives: natives,
		blocks:  make(map[BlockID]*Block, len(fn.Blocks)),
		vals:    make([]any, fn.NumValues()),
		block:   fn.Blocks[0],
	}
	for _, b := range fn.Blocks {
		m.blocks[b.ID] = b
	}
	for i, p := range fn.Params {
		m.vals[p.ID] = args[i]
	}

	for {
		for _, in := range m.block.Instrs {
			if err := m.step(in); err != nil {
				return nil, m.fail(err)
			}
		}
		switch t := m.block.Term.(type) {
		case *Ret:
			if t.HasValue {
				return m.vals[t.Value], nil
			}
			return nil, nil
		case *Br:
			m.jump(t.Target)
		case *CondBr:
			if m.vals[t.Cond].(bool) {
				m.jump(t.Then)
			} else {
				m.jump(t.Else)
			}
		case *Unreachable:
			return nil, m.fail(errors.New("reached unreachable code"))
		default:
			return nil, m.fail(errors.New("block has no terminator"))
		}
	}
}

func (m *machine) jump(target BlockID) {
	m.prev = m.block.ID
	m.block = m.blocks[target]
}

func (m *machine) fail(err error) error {
	return &RuntimeError{
		Function: m.fn.Name,
		Block:    blockLabel(m.fn, m.block.ID),
		Message:  err.Error(),
	}
}

func (m *machine) step(in Instr) error {
	switch i := in.(type) {
	case *Const:
		v, err := Normalize(i.Type, i.Value)
		if err != nil {
			return err
		}
		m.vals[i.Result] = v
	case *Binary:
		v, err := binary(i.Op, m.fn.TypeOf(i.Left), m.vals[i.Left], m.vals[i.Right])
		if err != nil {
			return err
		}
		m.vals[i.Result] = v
	case *Unary:
		v, err := unary(i.Op, m.fn.TypeOf(i.X), m.vals[i.X])
		if err != nil {
			return err
		}
		m.vals[i.Result] = v
	case *Cast:
		v, err := cast(m.vals[i.X], i.To)
		if err != nil {
			return err
		}
		m.vals[i.Result] = v
	case *Select:
		if m.vals[i.Cond].(bool) {
			m.vals[i.Result] = m.vals[i.True]
		} else {
			m.vals[i.Result] = m.vals[i.False]
		}
	case *Alloca:
		m.vals[i.Result] = &Slot{Type: i.Type, Value: Zero(i.Type)}
	case *Load:
		m.vals[i.Result] = m.vals[i.Addr].(*Slot).Value
	case *Store:
		m.vals[i.Addr].(*Slot).Value = m.vals[i.Value]
	case *Pack:
		lanes := make([]any, len(i.Elems))
		for n, e := range i.Elems {
			lanes[n] = m.vals[e]
		}
		m.vals[i.Result] = lanes
	case *Extract:
		lanes := m.vals[i.Vec].([]any)
		idx, err := laneIndex(m.vals[i.Index], len(lanes))
		if err != nil {
			return err
		}
		m.vals[i.Result] = lanes[idx]
	case *Insert:
		lanes := m.vals[i.Vec].([]any)
		idx, err := laneIndex(m.vals[i.Index], len(lanes))
		if err != nil {
			return err
		}
		out := make([]any, len(lanes))
		copy(out, lanes)
		out[idx] = m.vals[i.Elem]
		m.vals[i.Result] = out
	case *Call:
		native, ok := m.natives[i.Target]
		if !ok {
			return errors.Errorf("no native implementation for %q", i.Target)
		}
		args := make([]any, len(i.Args))
		for n, a := range i.Args {
			args[n] = m.vals[a]
		}
		res, err := native(args)
		if err != nil {
			return errors.Wrapf(err, "calling %s", i.Target)
		}
		if i.Result != InvalidValue {
			v, err := Normalize(i.Type, res)
			if err != nil {
				return errors.Wrapf(err, "result of %s", i.Target)
			}
			m.vals[i.Result] = v
		}
	case *ContextSlot:
		ctx, ok := m.vals[i.Ctx].(*Context)
		if !ok || ctx == nil {
			return errors.Errorf("%s is not a context", value(i.Ctx))
		}
		s, err := ctx.slot(i.Name, i.Type)
		if err != nil {
			return err
		}
		m.vals[i.Result] = s
	case *Phi:
		for _, inc := range i.Incoming {
			if inc.Block == m.prev {
				m.vals[i.Result] = m.vals[inc.Value]
				return nil
			}
		}
		return errors.Errorf("phi %s has no edge from b%d", value(i.Result), m.prev)
	default:
		return errors.Errorf("unknown instruction %T", in)
	}
	return nil
}

func laneIndex(v any, n int) (int, error) {
	idx, ok := asInt64(v)
	if !ok {
		return 0, errors.Errorf("lane index %v is not an integer", v)
	}
	if idx < 0 || idx >= int64(n) {
		return 0, errors.Errorf("index %d out of range for %d lanes", idx, n)
	}
	return int(idx), nil
}

func binary(op Op, t Type, a, b any) (any, error) {
	if !t.IsVector() {
		return binaryScalar(op, t.Kind, a, b)
	}
	la, lb := a.([]any), b.([]any)
	switch op {
	case OpEq, OpNe:
		equal := true
		for n := range la {
			eq, err := binaryScalar(OpEq, t.Elem, la[n], lb[n])
			if err != nil {
				return nil, err
			}
			equal = equal && eq.(bool)
		}
		return equal == (op == OpEq), nil
	case OpLt, OpLe, OpGt, OpGe:
		return nil, errors.Errorf("%s is not defined on %s", op, t)
	}
	out := make([]any, len(la))
	for n := range la {
		v, err := binaryScalar(op, t.Elem, la[n], lb[n])
		if err != nil {
			return nil, err
		}
		out[n] = v
	}
	return out, nil
}

func binaryScalar(op Op, k Kind, a, b any) (any, error) {
	switch k {
	case KindBool:
		x, y := a.(bool), b.(bool)
		switch op {
		case OpAnd:
			return x && y, nil
		case OpOr:
			return x || y, nil
		case OpXor, OpNe:
			return x != y, nil
		case OpEq:
			return x == y, nil
		}
	case KindInt16, KindInt32, KindInt64:
		x, _ := asInt64(a)
		y, _ := asInt64(b)
		if op.IsCompare() {
			return compareInts(op, x, y), nil
		}
		shift := uint64(y) & uint64(k.Bits()-1)
		var r int64
		switch op {
		case OpAdd:
			r = x + y
		case OpSub:
			r = x - y
		case OpMul:
			r = x * y
		case OpDiv, OpRem:
			if y == 0 {
				return nil, errors.New("integer division by zero")
			}
			if op == OpDiv {
				r = x / y
			} else {
				r = x % y
			}
		case OpAnd:
			r = x & y
		case OpOr:
			r = x | y
		case OpXor:
			r = x ^ y
		case OpShl:
			r = x << shift
		case OpShr:
			r = x >> shift
		default:
			return nil, errors.Errorf("%s is not defined on %s", op, k)
		}
		return fromInt64(k, r), nil
	case KindFloat32, KindFloat64:
		x, _ := asFloat64(a)
		y, _ := asFloat64(b)
		if op.IsCompare() {
			return compareFloats(op, x, y), nil
		}
		var r float64
		switch op {
		case OpAdd:
			r = x + y
		case OpSub:
			r = x - y
		case OpMul:
			r = x * y
		case OpDiv:
			r = x / y
		case OpRem:
			r = math.Mod(x, y)
		default:
			return nil, errors.Errorf("%s is not defined on %s", op, k)
		}
		return fromFloat64(k, r), nil
	case KindString:
		x, y := a.(string), b.(string)
		switch op {
		case OpAdd:
			return x + y, nil
		case OpEq:
			return x == y, nil
		case OpNe:
			return x != y, nil
		}
	}
	return nil, errors.Errorf("%s is not defined on %s", op, k)
}

func compareInts(op Op, x, y int64) bool {
	switch op {
	case OpEq:
		return x == y
	case OpNe:
		return x != y
	case OpLt:
		return x < y
	case OpLe:
		return x <= y
	case OpGt:
		return x > y
	}
	return x >= y
}

func compareFloats(op Op, x, y float64) bool {
	switch op {
	case OpEq:
		return x == y
	case OpNe:
		return x != y
	case OpLt:
		return x < y
	case OpLe:
		return x <= y
	case OpGt:
		return x > y
	}
	return x >= y
}

func unary(op Op, t Type, v any) (any, error) {
	if t.IsVector() {
		lanes := v.([]any)
		out := make([]any, len(lanes))
		for n, l := range lanes {
			r, err := unary(op, t.ElemType(), l)
			if err != nil {
				return nil, err
			}
			out[n] = r
		}
		return out, nil
	}
	switch {
	case t.Kind == KindBool && op == OpNot:
		return !v.(bool), nil
	case t.IsInteger():
		x, _ := asInt64(v)
		switch op {
		case OpNeg:
			return fromInt64(t.Kind, -x), nil
		case OpNot:
			return fromInt64(t.Kind, ^x), nil
		}
	case t.IsFloat() && op == OpNeg:
		f, _ := asFloat64(v)
		return fromFloat64(t.Kind, -f), nil
	}
	return nil, errors.Errorf("%s is not defined on %s", op, t)
}

func cast(v any, to Type) (any, error) {
	if to.IsVector() {
		lanes, ok := v.([]any)
		if !ok || len(lanes) != to.Len {
			return nil, errors.Errorf("cannot cast %v to %s", v, to)
		}
		out := make([]any, len(lanes))
		for n, l := range lanes {
			r, err := cast(l, to.ElemType())
			if err != nil {
				return nil, err
			}
			out[n] = r
		}
		return out, nil
	}
	switch x := v.(type) {
	case float32:
		return fromFloat64(to.Kind, float64(x)), nil
	case float64:
		return fromFloat64(to.Kind, x), nil
	case bool, int16, int32, int64:
		i, _ := asInt64(x)
		switch to.Kind {
		case KindBool, KindInt16, KindInt32, KindInt64, KindFloat32, KindFloat64:
			return fromInt64(to.Kind, i), nil
		}
	case string:
		if to.Kind == KindString {
			return x, nil
		}
	}
	return nil, errors.Errorf("cannot cast %v to %s", v, to)
}
