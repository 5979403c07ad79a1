package codegen

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/strager/axc/ast"
	"github.com/strager/axc/ir"
)

// StringEqualFunction is the internal function string == and != lower to.
const StringEqualFunction = "__string_eq"

var (
	floatingTypes = []ast.Type{ast.TypeFloat, ast.TypeDouble}
	numberTypes   = []ast.Type{ast.TypeInt32, ast.TypeInt64, ast.TypeFloat, ast.TypeDouble}
	floatVectors  = []ast.Type{
		ast.TypeVec2f, ast.TypeVec3f, ast.TypeVec4f,
		ast.TypeVec2d, ast.TypeVec3d, ast.TypeVec4d,
	}
	allVectors = []ast.Type{
		ast.TypeVec2i, ast.TypeVec3i, ast.TypeVec4i,
		ast.TypeVec2f, ast.TypeVec3f, ast.TypeVec4f,
		ast.TypeVec2d, ast.TypeVec3d, ast.TypeVec4d,
	}
)

// nativeSymbol names the native implementation of fn for lane type t,
// e.g. "sqrt.f32".
func nativeSymbol(fn string, t ast.Type) string {
	return fn + "." + IRType(t.Elem()).String()
}

func printSymbol(t ast.Type) string {
	return "__print_" + t.Name()
}

func constOf(b *ir.Builder, t ast.Type, n int64) ir.ValueID {
	if t.Category() == ast.CategoryFloating {
		return b.ConstFloat(IRType(t), float64(n))
	}
	return b.ConstInt(IRType(t), n)
}

func genAbs(t ast.Type) GenFunc {
	return func(b *ir.Builder, args []ir.ValueID) ir.ValueID {
		x := args[0]
		negative := b.Binary(ir.OpLt, x, constOf(b, t, 0))
		return b.Select(negative, b.Unary(ir.OpNeg, x), x)
	}
}

func genPick(op ir.Op) GenFunc {
	return func(b *ir.Builder, args []ir.ValueID) ir.ValueID {
		return b.Select(b.Binary(op, args[0], args[1]), args[0], args[1])
	}
}

func genClamp(b *ir.Builder, args []ir.ValueID) ir.ValueID {
	x, lo, hi := args[0], args[1], args[2]
	upper := b.Select(b.Binary(ir.OpLt, x, hi), x, hi)
	return b.Select(b.Binary(ir.OpGt, upper, lo), upper, lo)
}

func emitDot(b *ir.Builder, t ast.Type, l, r ir.ValueID) ir.ValueID {
	var sum ir.ValueID
	for i := 0; i < t.Len(); i++ {
		lane := b.ConstInt(ir.Int32, int64(i))
		prod := b.Binary(ir.OpMul, b.Extract(l, lane), b.Extract(r, lane))
		if i == 0 {
			sum = prod
		} else {
			sum = b.Binary(ir.OpAdd, sum, prod)
		}
	}
	return sum
}

func emitLength(b *ir.Builder, t ast.Type, v ir.ValueID) ir.ValueID {
	return b.Call(nativeSymbol("sqrt", t), IRType(t.Elem()), emitDot(b, t, v, v))
}

// NewStandardRegistry returns a registry with the built-in functions.
func NewStandardRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()

	abs := &FunctionGroup{Name: "abs", Doc: "Absolute value of a number."}
	for _, t := range numberTypes {
		sig := &Signature{Params: []ast.Type{t}, Return: t, Gen: genAbs(t)}
		if t.Category() == ast.CategoryFloating {
			sig.Symbol = nativeSymbol("abs", t)
		}
		abs.Signatures = append(abs.Signatures, sig)
	}
	r.Insert(abs)

	minGroup := &FunctionGroup{Name: "min", Doc: "Smaller of two numbers."}
	maxGroup := &FunctionGroup{Name: "max", Doc: "Larger of two numbers."}
	clamp := &FunctionGroup{Name: "clamp", Doc: "Restrict a number to the range [min, max]."}
	for _, t := range numberTypes {
		minGroup.Signatures = append(minGroup.Signatures, &Signature{Params: []ast.Type{t, t}, Return: t, Gen: genPick(ir.OpLt)})
		maxGroup.Signatures = append(maxGroup.Signatures, &Signature{Params: []ast.Type{t, t}, Return: t, Gen: genPick(ir.OpGt)})
		clamp.Signatures = append(clamp.Signatures, &Signature{Params: []ast.Type{t, t, t}, Return: t, Gen: genClamp})
	}
	r.Insert(minGroup)
	r.Insert(maxGroup)
	r.Insert(clamp)

	for _, fn := range []struct{ name, doc string }{
		{"sqrt", "Square root."},
		{"sin", "Sine of an angle in radians."},
		{"cos", "Cosine of an angle in radians."},
		{"floor", "Largest integral value not greater than the argument."},
		{"ceil", "Smallest integral value not less than the argument."},
	} {
		group := &FunctionGroup{Name: fn.name, Doc: fn.doc}
		for _, t := range floatingTypes {
			group.Signatures = append(group.Signatures, &Signature{Params: []ast.Type{t}, Return: t, Symbol: nativeSymbol(fn.name, t)})
		}
		r.Insert(group)
	}

	pow := &FunctionGroup{Name: "pow", Doc: "Base raised to the power exponent."}
	for _, t := range floatingTypes {
		pow.Signatures = append(pow.Signatures, &Signature{Params: []ast.Type{t, t}, Return: t, Symbol: nativeSymbol("pow", t)})
	}
	r.Insert(pow)

	dot := &FunctionGroup{Name: "dot", Doc: "Dot product of two vectors."}
	for _, t := range allVectors {
		t := t
		dot.Signatures = append(dot.Signatures, &Signature{
			Params: []ast.Type{t, t},
			Return: t.Elem(),
			Gen: func(b *ir.Builder, args []ir.ValueID) ir.ValueID {
				return emitDot(b, t, args[0], args[1])
			},
		})
	}
	r.Insert(dot)

	length := &FunctionGroup{Name: "length", Doc: "Euclidean length of a vector."}
	normalize := &FunctionGroup{Name: "normalize", Doc: "Vector scaled to unit length."}
	for _, t := range floatVectors {
		t := t
		length.Signatures = append(length.Signatures, &Signature{
			Params: []ast.Type{t},
			Return: t.Elem(),
			Gen: func(b *ir.Builder, args []ir.ValueID) ir.ValueID {
				return emitLength(b, t, args[0])
			},
		})
		normalize.Signatures = append(normalize.Signatures, &Signature{
			Params: []ast.Type{t},
			Return: t,
			Gen: func(b *ir.Builder, args []ir.ValueID) ir.ValueID {
				l := emitLength(b, t, args[0])
				lanes := make([]ir.ValueID, t.Len())
				for i := range lanes {
					lanes[i] = l
				}
				return b.Binary(ir.OpDiv, args[0], b.Pack(IRType(t), lanes...))
			},
		})
	}
	r.Insert(length)
	r.Insert(normalize)

	printGroup := &FunctionGroup{Name: "print", Doc: "Print a value followed by a newline."}
	printable := append([]ast.Type{ast.TypeBool, ast.TypeString}, numberTypes...)
	for _, t := range append(printable, allVectors...) {
		printGroup.Signatures = append(printGroup.Signatures, &Signature{Params: []ast.Type{t}, Return: ast.TypeInvalid, Symbol: printSymbol(t)})
	}
	r.Insert(printGroup)

	r.Insert(&FunctionGroup{
		Name:     StringEqualFunction,
		Doc:      "String equality, used by == and != on strings.",
		Internal: true,
		Signatures: []*Signature{
			{Params: []ast.Type{ast.TypeString, ast.TypeString}, Return: ast.TypeBool, Symbol: StringEqualFunction},
		},
	})
	return r
}

func floatArg(v any) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	}
	return 0, errors.Errorf("expected a floating point argument, got %T", v)
}

func unaryNative(f func(float64) float64) ir.Native {
	return func(args []any) (any, error) {
		x, err := floatArg(args[0])
		if err != nil {
			return nil, err
		}
		return f(x), nil
	}
}

// StandardNatives returns the native implementations of the standard
// registry's symbols. print writes to w.
func StandardNatives(w io.Writer) map[string]ir.Native {
	natives := map[string]ir.Native{
		StringEqualFunction: func(args []any) (any, error) {
			l, lok := args[0].(string)
			r, rok := args[1].(string)
			if !lok || !rok {
				return nil, errors.New("expected string arguments")
			}
			return l == r, nil
		},
	}

	unary := map[string]func(float64) float64{
		"abs":   math.Abs,
		"sqrt":  math.Sqrt,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"floor": math.Floor,
		"ceil":  math.Ceil,
	}
	for _, t := range floatingTypes {
		for name, f := range unary {
			natives[nativeSymbol(name, t)] = unaryNative(f)
		}
		natives[nativeSymbol("pow", t)] = func(args []any) (any, error) {
			x, err := floatArg(args[0])
			if err != nil {
				return nil, err
			}
			y, err := floatArg(args[1])
			if err != nil {
				return nil, err
			}
			return math.Pow(x, y), nil
		}
	}

	printable := append([]ast.Type{ast.TypeBool, ast.TypeString}, numberTypes...)
	for _, t := range append(printable, allVectors...) {
		natives[printSymbol(t)] = func(args []any) (any, error) {
			_, err := fmt.Fprintln(w, ir.FormatValue(args[0]))
			return nil, err
		}
	}
	return natives
}
