package compiler

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/pkg/errors"
	"github.com/strager/axc/ast"
	"github.com/strager/axc/codegen"
	"github.com/strager/axc/ir"
	"github.com/strager/axc/parser"
)

func TestCompile(t *testing.T) {
	result, err := Compile("float@out = $in * 2; i@n += 1;", DefaultOptions())
	be.Err(t, err, nil)
	be.Equal(t, result.Module.Name, DefaultModuleName)
	be.Equal(t, result.Function.Name, codegen.ComputeKernelName)
	be.Equal(t, len(result.Tree.Statements), 2)
	be.Equal(t, len(result.Warnings), 0)

	var globals []string
	for _, sym := range result.Globals {
		globals = append(globals, sym.Name+" "+sym.Type.Name())
	}
	be.Equal(t, globals, []string{"$in float", "@n int", "@out float"})
}

func TestCompileModuleName(t *testing.T) {
	options := DefaultOptions()
	options.ModuleName = "volume"
	result, err := Compile("", options)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(ir.FormatModule(result.Module), "module volume\n"))

	result, err = Compile("", Options{})
	be.Err(t, err, nil)
	be.Equal(t, result.Module.Name, DefaultModuleName)
}

func TestCompileVerboseWritesToOutput(t *testing.T) {
	var out strings.Builder
	options := DefaultOptions()
	options.Verbose = true
	options.Output = &out
	_, err := Compile("int@n = 1;", options)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(out.String(), "AST: (tree (assign \"=\" (attribute \"n\" int) (int 1)))\nmodule ax\n"))
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("int x = ;", DefaultOptions())
	var syntaxErr *parser.SyntaxError
	be.True(t, errors.As(err, &syntaxErr))
	be.Equal(t, syntaxErr.Line, 1)
	be.Equal(t, syntaxErr.Column, 9)
	be.Err(t, err, "parse: 1:9")
}

func TestCompileLexicalError(t *testing.T) {
	_, err := Compile(`string s = "open`, DefaultOptions())
	_, ok := errors.Cause(err).(*parser.LexicalError)
	be.True(t, ok)
}

func TestCompileGenerationError(t *testing.T) {
	_, err := Compile("int a; float a; break;", DefaultOptions())
	genErr, ok := errors.Cause(err).(*GenerationError)
	be.True(t, ok)
	be.Equal(t, len(genErr.Errors), 1)
	be.Equal(t, genErr.Errors[0].Kind, codegen.ScopeError)
	be.Err(t, err, "generate: scope error: local variable 'a' has already been declared")
}

func TestCompileFunctionOptions(t *testing.T) {
	options := DefaultOptions()
	options.Function.Disabled = []string{"print"}
	_, err := Compile("print(1);", options)
	be.Err(t, err, "function 'print' has been disabled")
}

func TestRun(t *testing.T) {
	result, err := Compile(`print("x = " + "1"); float@out = $in + 0.5;`, DefaultOptions())
	be.Err(t, err, nil)

	ctx := ir.NewContext()
	a, err := ParseAssignment("f$in=2")
	be.Err(t, err, nil)
	be.Err(t, a.Apply(ctx), nil)

	var stdout strings.Builder
	be.Err(t, Run(result, ctx, &stdout), nil)
	be.Equal(t, stdout.String(), "x = 1\n")
	be.Equal(t, FormatSlots(ctx), "$in: f32 = 2\n@out: f32 = 2.5\n")
}

func TestRunRuntimeError(t *testing.T) {
	result, err := Compile("int zero = 0; int@out = 1 / zero;", DefaultOptions())
	be.Err(t, err, nil)

	err = Run(result, ir.NewContext(), nil)
	runtimeErr, ok := errors.Cause(err).(*ir.RuntimeError)
	be.True(t, ok)
	be.Equal(t, runtimeErr.Function, codegen.ComputeKernelName)
	be.Err(t, err, "run: runtime error")
	be.Err(t, err, "integer division by zero")
}

func TestRunContextTypeMismatch(t *testing.T) {
	result, err := Compile("int@n += 1;", DefaultOptions())
	be.Err(t, err, nil)

	ctx := ir.NewContext()
	be.Err(t, ctx.Set("@n", ir.Float32, 1.0), nil)
	err = Run(result, ctx, nil)
	be.Err(t, err, `context slot "@n" holds f32, accessed as i32`)
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		input string
		slot  string
		typ   ast.Type
		value any
	}{
		{"float@density=0.25", "@density", ast.TypeFloat, 0.25},
		{"f$scale=2", "$scale", ast.TypeFloat, 2.0},
		{"i@count=-3", "@count", ast.TypeInt32, int64(-3)},
		{"short@s=0x10", "@s", ast.TypeInt16, int64(16)},
		{"bool@on=true", "@on", ast.TypeBool, true},
		{"s@name=a=b", "@name", ast.TypeString, "a=b"},
		{"vec3f@p=1, 2,3.5", "@p", ast.TypeVec3f, []any{1.0, 2.0, 3.5}},
		{"vec2i$v=1,2", "$v", ast.TypeVec2i, []any{int64(1), int64(2)}},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			a, err := ParseAssignment(test.input)
			be.Err(t, err, nil)
			be.Equal(t, a.Slot, test.slot)
			be.Equal(t, a.Type, test.typ)
			be.Equal(t, a.Value, test.value)
		})
	}
}

func TestParseAssignmentErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"float@x", "expected type@name=value"},
		{"x=1", "expected type@name or type$name"},
		{"@x=1", "expected type@name or type$name"},
		{"float@=1", "expected type@name or type$name"},
		{"matrix@m=1", `unknown type "matrix"`},
		{"int@n=1.5", "invalid syntax"},
		{"short@n=70000", "out of range"},
		{"vec3f@p=1,2", "vec3f needs 3 comma separated lanes, got 2"},
		{"bool@b=maybe", "invalid syntax"},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			_, err := ParseAssignment(test.input)
			be.Err(t, err, test.want)
		})
	}
}

func TestApplyConvertsToSlotType(t *testing.T) {
	ctx := ir.NewContext()
	a, err := ParseAssignment("vec2i@v=3,4")
	be.Err(t, err, nil)
	be.Err(t, a.Apply(ctx), nil)

	v, _ := ctx.Get("@v")
	be.Equal(t, v, any([]any{int32(3), int32(4)}))
	typ, _ := ctx.Type("@v")
	be.Equal(t, typ, ir.Vec(ir.KindInt32, 2))
}
