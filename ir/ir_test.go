package ir

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func newTestFunction(ret Type, params ...Param) (*Function, *Builder) {
	m := NewModule("test")
	fn := m.NewFunction("f", ret, params...)
	return fn, NewBuilder(fn)
}

func TestBuilderArithmetic(t *testing.T) {
	fn, b := newTestFunction(Int32)
	x := b.ConstInt(Int32, 40)
	y := b.ConstInt(Int32, 2)
	b.RetValue(b.Binary(OpAdd, x, y))

	be.Err(t, Verify(fn), nil)
	got, err := Exec(fn, nil)
	be.Err(t, err, nil)
	be.Equal(t, got, any(int32(42)))
}

func TestCompareYieldsBool(t *testing.T) {
	fn, b := newTestFunction(Bool)
	x := b.ConstFloat(Float64, 1.5)
	y := b.ConstFloat(Float64, 2)
	cmp := b.Binary(OpLt, x, y)
	be.Equal(t, fn.TypeOf(cmp), Bool)
	b.RetValue(cmp)

	got, err := Exec(fn, nil)
	be.Err(t, err, nil)
	be.Equal(t, got, any(true))
}

func TestIntegerWrapsToWidth(t *testing.T) {
	fn, b := newTestFunction(Int16)
	x := b.ConstInt(Int16, 32767)
	one := b.ConstInt(Int16, 1)
	b.RetValue(b.Binary(OpAdd, x, one))

	got, err := Exec(fn, nil)
	be.Err(t, err, nil)
	be.Equal(t, got, any(int16(-32768)))
}

func TestDivisionByZero(t *testing.T) {
	fn, b := newTestFunction(Int32)
	x := b.ConstInt(Int32, 1)
	zero := b.ConstInt(Int32, 0)
	b.RetValue(b.Binary(OpDiv, x, zero))

	_, err := Exec(fn, nil)
	be.Err(t, err, "integer division by zero")

	rerr, ok := err.(*RuntimeError)
	be.True(t, ok)
	be.Equal(t, rerr.Function, "f")
}

func TestAllocaGoesToEntry(t *testing.T) {
	fn, b := newTestFunction(Int64)
	body := b.NewBlock("body")
	b.Br(body)
	b.SetBlock(body)
	slot := b.Alloca(Int64)
	b.Store(slot, b.ConstInt(Int64, 7))
	b.RetValue(b.Load(slot))

	_, isAlloca := fn.Blocks[0].Instrs[0].(*Alloca)
	be.True(t, isAlloca)
	be.Err(t, Verify(fn), nil)

	got, err := Exec(fn, nil)
	be.Err(t, err, nil)
	be.Equal(t, got, any(int64(7)))
}

func TestPhiSelectsIncomingEdge(t *testing.T) {
	fn, b := newTestFunction(Int32, Param{Name: "c", Type: Bool})
	then := b.NewBlock("then")
	els := b.NewBlock("else")
	join := b.NewBlock("join")
	b.CondBr(fn.Params[0].ID, then, els)

	b.SetBlock(then)
	one := b.ConstInt(Int32, 1)
	b.Br(join)

	b.SetBlock(els)
	two := b.ConstInt(Int32, 2)
	b.Br(join)

	b.SetBlock(join)
	phi := b.Phi(Int32, PhiIncoming{Block: then.ID, Value: one}, PhiIncoming{Block: els.ID, Value: two})
	b.RetValue(phi)
	be.Err(t, Verify(fn), nil)

	got, err := Exec(fn, nil, true)
	be.Err(t, err, nil)
	be.Equal(t, got, any(int32(1)))

	got, err = Exec(fn, nil, false)
	be.Err(t, err, nil)
	be.Equal(t, got, any(int32(2)))
}

func TestVectorLanes(t *testing.T) {
	fn, b := newTestFunction(Float32)
	vt := Vec(KindFloat32, 3)
	v := b.Pack(vt, b.ConstFloat(Float32, 1), b.ConstFloat(Float32, 2), b.ConstFloat(Float32, 3))
	v = b.Insert(v, b.ConstInt(Int32, 1), b.ConstFloat(Float32, 5))
	sum := b.Binary(OpAdd, v, v)
	b.RetValue(b.Extract(sum, b.ConstInt(Int32, 1)))
	be.Err(t, Verify(fn), nil)

	got, err := Exec(fn, nil)
	be.Err(t, err, nil)
	be.Equal(t, got, any(float32(10)))
}

func TestExtractOutOfRange(t *testing.T) {
	fn, b := newTestFunction(Int32, Param{Name: "i", Type: Int32})
	v := b.Pack(Vec(KindInt32, 2), b.ConstInt(Int32, 1), b.ConstInt(Int32, 2))
	b.RetValue(b.Extract(v, fn.Params[0].ID))

	_, err := Exec(fn, nil, int32(2))
	be.Err(t, err, "out of range")
}

func TestExtractWideIndexOutOfRange(t *testing.T) {
	fn, b := newTestFunction(Int32, Param{Name: "i", Type: Int64})
	v := b.Pack(Vec(KindInt32, 2), b.ConstInt(Int32, 1), b.ConstInt(Int32, 2))
	b.RetValue(b.Extract(v, fn.Params[0].ID))
	be.Err(t, Verify(fn), nil)

	_, err := Exec(fn, nil, int64(1)<<32)
	be.Err(t, err, "index 4294967296 out of range for 2 lanes")

	got, err := Exec(fn, nil, int64(1))
	be.Err(t, err, nil)
	be.Equal(t, got, any(int32(2)))
}

func TestCastConvertsLanes(t *testing.T) {
	fn, b := newTestFunction(Vec(KindInt32, 2))
	v := b.Pack(Vec(KindFloat64, 2), b.ConstFloat(Float64, 1.9), b.ConstFloat(Float64, -2.5))
	b.RetValue(b.Cast(v, Vec(KindInt32, 2)))

	got, err := Exec(fn, nil)
	be.Err(t, err, nil)
	be.Equal(t, got, any([]any{int32(1), int32(-2)}))
}

func TestContextSlots(t *testing.T) {
	fn, b := newTestFunction(Void, Param{Name: "ctx", Type: Ptr})
	ctxArg := fn.Params[0].ID
	in := b.ContextSlot(ctxArg, "in", Float32)
	out := b.ContextSlot(ctxArg, "out", Float32)
	two := b.ConstFloat(Float32, 2)
	b.Store(out, b.Binary(OpMul, b.Load(in), two))
	b.Ret()
	be.Err(t, Verify(fn), nil)

	ctx := NewContext()
	be.Err(t, ctx.Set("in", Float32, 1.25), nil)
	_, err := Exec(fn, nil, ctx)
	be.Err(t, err, nil)

	got, ok := ctx.Get("out")
	be.True(t, ok)
	be.Equal(t, got, any(float32(2.5)))
	be.Equal(t, ctx.Names(), []string{"in", "out"})
}

func TestContextSlotTypeMismatch(t *testing.T) {
	fn, b := newTestFunction(Void, Param{Name: "ctx", Type: Ptr})
	b.ContextSlot(fn.Params[0].ID, "a", Int32)
	b.Ret()

	ctx := NewContext()
	be.Err(t, ctx.Set("a", Float32, 1), nil)
	_, err := Exec(fn, nil, ctx)
	be.Err(t, err, `context slot "a" holds f32, accessed as i32`)
}

func TestCallNative(t *testing.T) {
	fn, b := newTestFunction(Float64)
	r := b.Call("twice", Float64, b.ConstFloat(Float64, 4))
	b.RetValue(r)

	natives := map[string]Native{
		"twice": func(args []any) (any, error) { return args[0].(float64) * 2, nil },
	}
	got, err := Exec(fn, natives)
	be.Err(t, err, nil)
	be.Equal(t, got, any(float64(8)))

	_, err = Exec(fn, nil)
	be.Err(t, err, `no native implementation for "twice"`)
}

func TestEmitAfterTerminatorPanics(t *testing.T) {
	_, b := newTestFunction(Void)
	b.Ret()
	defer func() {
		be.True(t, recover() != nil)
	}()
	b.ConstBool(true)
}

func TestVerifyRejects(t *testing.T) {
	t.Run("missing terminator", func(t *testing.T) {
		fn, b := newTestFunction(Void)
		b.ConstBool(true)
		be.Err(t, Verify(fn), "has no terminator")
	})
	t.Run("non-bool branch", func(t *testing.T) {
		fn, b := newTestFunction(Void)
		next := b.NewBlock("next")
		b.CondBr(b.ConstInt(Int32, 1), next, next)
		b.SetBlock(next)
		b.Ret()
		be.Err(t, Verify(fn), "not i1")
	})
	t.Run("mixed operands", func(t *testing.T) {
		fn, b := newTestFunction(Void)
		b.Binary(OpAdd, b.ConstInt(Int32, 1), b.ConstFloat(Float32, 1))
		b.Ret()
		be.Err(t, Verify(fn), "different types")
	})
	t.Run("float lane index", func(t *testing.T) {
		fn, b := newTestFunction(Void)
		v := b.Pack(Vec(KindInt32, 2), b.ConstInt(Int32, 1), b.ConstInt(Int32, 2))
		b.Extract(v, b.ConstFloat(Float32, 1))
		b.Ret()
		be.Err(t, Verify(fn), "not an integer")
	})
	t.Run("store type", func(t *testing.T) {
		fn, b := newTestFunction(Void)
		slot := b.Alloca(Int32)
		b.Store(slot, b.ConstBool(false))
		b.Ret()
		be.Err(t, Verify(fn), "storing i1 into i32 slot")
	})
	t.Run("bad return", func(t *testing.T) {
		fn, b := newTestFunction(Int32)
		b.Ret()
		be.Err(t, Verify(fn), "return does not match")
	})
}

func TestFormatFunction(t *testing.T) {
	fn, b := newTestFunction(Void, Param{Name: "ctx", Type: Ptr})
	slot := b.ContextSlot(fn.Params[0].ID, "a", Int32)
	b.Store(slot, b.ConstInt(Int32, 3))
	b.Ret()

	want := strings.Join([]string{
		"fn f(ctx %1: ptr) -> void {",
		"entry1:",
		`  %2: ptr = slot %1, "a": i32`,
		"  %3: i32 = const 3",
		"  store %3, %2",
		"  ret",
		"}",
		"",
	}, "\n")
	be.Equal(t, FormatFunction(fn), want)
}

func TestModuleRemove(t *testing.T) {
	m := NewModule("m")
	a := m.NewFunction("a", Void)
	m.NewFunction("b", Void)
	m.Remove(a)
	be.True(t, m.Function("a") == nil)
	be.True(t, m.Function("b") != nil)
	be.Equal(t, len(m.Functions), 1)
}
