package codegen

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/axc/ast"
)

func TestMatchPrefersExact(t *testing.T) {
	g := NewStandardRegistry().Get("sqrt", DefaultFunctionOptions(), false)
	sig, kind := g.Match([]ast.Type{ast.TypeDouble})
	be.Equal(t, kind, Exact)
	be.Equal(t, sig.Symbol, "sqrt.f64")
}

func TestMatchPicksCheapestConversion(t *testing.T) {
	g := NewStandardRegistry().Get("sqrt", DefaultFunctionOptions(), false)
	sig, kind := g.Match([]ast.Type{ast.TypeInt32})
	be.Equal(t, kind, Implicit)
	be.Equal(t, sig.Symbol, "sqrt.f32")

	// The same arguments always resolve to the same signature.
	again, _ := g.Match([]ast.Type{ast.TypeInt32})
	be.True(t, sig == again)
}

func TestMatchNone(t *testing.T) {
	g := NewStandardRegistry().Get("sqrt", DefaultFunctionOptions(), false)
	sig, kind := g.Match([]ast.Type{ast.TypeString})
	be.Equal(t, kind, None)
	be.True(t, sig == nil)

	_, kind = g.Match([]ast.Type{ast.TypeFloat, ast.TypeFloat})
	be.Equal(t, kind, None)
}

func TestMatchAmbiguous(t *testing.T) {
	g := &FunctionGroup{Name: "f", Signatures: []*Signature{
		{Params: []ast.Type{ast.TypeFloat, ast.TypeInt32}, Return: ast.TypeFloat},
		{Params: []ast.Type{ast.TypeInt32, ast.TypeFloat}, Return: ast.TypeFloat},
	}}
	sig, kind := g.Match([]ast.Type{ast.TypeInt32, ast.TypeInt32})
	be.Equal(t, kind, Ambiguous)
	be.True(t, sig == nil)
}

func TestMatchNarrowingCostsMore(t *testing.T) {
	g := &FunctionGroup{Name: "f", Signatures: []*Signature{
		{Params: []ast.Type{ast.TypeInt16}, Return: ast.TypeInt16},
		{Params: []ast.Type{ast.TypeDouble}, Return: ast.TypeDouble},
	}}
	sig, kind := g.Match([]ast.Type{ast.TypeInt32})
	be.Equal(t, kind, Implicit)
	be.Equal(t, sig.Return, ast.TypeDouble)
}

func TestRegistryGet(t *testing.T) {
	r := NewStandardRegistry()
	be.True(t, r.Get("sqrt", DefaultFunctionOptions(), false) != nil)
	be.True(t, r.Get("missing", DefaultFunctionOptions(), false) == nil)
	be.True(t, r.Get(StringEqualFunction, DefaultFunctionOptions(), false) == nil)
	be.True(t, r.Get(StringEqualFunction, DefaultFunctionOptions(), true) != nil)
	be.True(t, r.Get("sqrt", FunctionOptions{Disabled: []string{"sqrt"}}, false) == nil)
}

func TestRegistryNamesHideInternal(t *testing.T) {
	names := NewStandardRegistry().Names()
	be.Equal(t, names, []string{
		"abs", "ceil", "clamp", "cos", "dot", "floor", "length",
		"max", "min", "normalize", "pow", "print", "sin", "sqrt",
	})
}

func TestRegistryInsertTwicePanics(t *testing.T) {
	r := NewFunctionRegistry()
	r.Insert(&FunctionGroup{Name: "f"})
	defer func() {
		be.True(t, recover() != nil)
	}()
	r.Insert(&FunctionGroup{Name: "f"})
}

func TestSignatureString(t *testing.T) {
	sig := &Signature{Params: []ast.Type{ast.TypeVec3f, ast.TypeInt32}, Return: ast.TypeFloat}
	be.Equal(t, sig.String(), "float(vec3f, int)")
	be.Equal(t, (&Signature{Params: []ast.Type{ast.TypeBool}}).String(), "void(bool)")
}

func TestStandardNativesCoverRegistry(t *testing.T) {
	natives := StandardNatives(nil)
	r := NewStandardRegistry()
	for _, name := range append(r.Names(), StringEqualFunction) {
		g, _ := r.lookup(name)
		for _, sig := range g.Signatures {
			if sig.Symbol == "" {
				continue
			}
			_, ok := natives[sig.Symbol]
			be.True(t, ok)
		}
	}
}

func TestSymbolTableBlocks(t *testing.T) {
	blocks := NewSymbolTableBlocks()
	be.Equal(t, blocks.Depth(), 0)
	blocks.Globals().Declare(&Symbol{Name: "@a", Type: ast.TypeFloat})

	outer := blocks.Push()
	be.True(t, outer.Declare(&Symbol{Name: "x", Type: ast.TypeInt32, Value: 1}))
	be.True(t, !outer.Declare(&Symbol{Name: "x", Type: ast.TypeFloat}))

	blocks.Push().Declare(&Symbol{Name: "x", Type: ast.TypeDouble, Value: 2})
	be.Equal(t, blocks.Depth(), 2)
	be.Equal(t, blocks.Find("x").Type, ast.TypeDouble)
	be.Equal(t, blocks.Visible(), []string{"@a", "x"})

	blocks.Pop()
	be.Equal(t, blocks.Find("x").Type, ast.TypeInt32)
	blocks.Pop()
	be.True(t, blocks.Find("x") == nil)
	be.True(t, blocks.Find("@a") != nil)

	defer func() {
		be.True(t, recover() != nil)
	}()
	blocks.Pop()
}

func TestClosestMatch(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"cont", []string{"count", "total"}, "count"},
		{"lenght", []string{"length", "dot", "normalize"}, "length"},
		{"sqr", []string{"sqrt", "sin"}, "sqrt"},
		{"zzzzzz", []string{"sqrt", "sin"}, ""},
		{"x", nil, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, closestMatch(test.name, test.candidates), test.want)
		})
	}
}

func TestLogger(t *testing.T) {
	l := NewLogger()
	be.True(t, !l.HasErrors())
	l.Warning("narrowing %s", "double")
	l.Error(&Error{Kind: ScopeError, Message: "'y' was not declared in this scope", Hint: "x"})
	be.True(t, l.HasErrors())
	be.Equal(t, l.String(), "scope error: 'y' was not declared in this scope (did you mean 'x'?)\nwarning: narrowing double\n")

	l.Reset()
	be.True(t, !l.HasErrors())
	be.Equal(t, len(l.Warnings()), 0)
}
