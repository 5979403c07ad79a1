package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/axc/ast"
	"github.com/strager/axc/ir"
	"github.com/strager/axc/parser"
	"github.com/strager/axc/sexy"
)

func TestGolden(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		testName := strings.TrimSuffix(filepath.Base(testFile), ".md")
		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := sexy.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					runTestCase(t, tc)
				})
			}
		})
	}
}

func runTestCase(t *testing.T, tc sexy.TestCase) {
	if tc.InputType == sexy.InputTypeExpression {
		expr, err := parser.ParseExpression(tc.Input)
		be.Err(t, err, nil)
		for _, assertion := range tc.Assertions {
			if assertion.Type != sexy.AssertionTypeAST {
				t.Fatalf("%s assertion on an expression input", assertion.Type)
			}
			assertSExpr(t, assertion.ParsedSexy, ast.ToSExpr(expr))
		}
		return
	}

	result, compileErr := Compile(tc.Input, DefaultOptions())

	var stdout strings.Builder
	var ctx *ir.Context
	execute := func() {
		if ctx != nil {
			return
		}
		be.Err(t, compileErr, nil)
		ctx = ir.NewContext()
		for _, line := range tc.Set {
			a, err := ParseAssignment(line)
			be.Err(t, err, nil)
			be.Err(t, a.Apply(ctx), nil)
		}
		be.Err(t, Run(result, ctx, &stdout), nil)
	}

	for _, assertion := range tc.Assertions {
		switch assertion.Type {
		case sexy.AssertionTypeAST:
			tree, err := parser.Parse(tc.Input)
			be.Err(t, err, nil)
			assertSExpr(t, assertion.ParsedSexy, ast.ToSExpr(tree))
		case sexy.AssertionTypeCompileError:
			be.Err(t, compileErr, assertion.Content)
		case sexy.AssertionTypeWarnings:
			be.Err(t, compileErr, nil)
			be.Equal(t, strings.Join(result.Warnings, "\n"), assertion.Content)
		case sexy.AssertionTypeExecute:
			execute()
			be.Equal(t, strings.TrimRight(stdout.String(), "\n"), assertion.Content)
		case sexy.AssertionTypeSlots:
			execute()
			be.Equal(t, strings.TrimRight(FormatSlots(ctx), "\n"), assertion.Content)
		default:
			t.Fatalf("unsupported assertion type %s", assertion.Type)
		}
	}
}

func assertSExpr(t *testing.T, pattern *sexy.Node, actual string) {
	t.Helper()
	node, err := sexy.Parse(actual)
	be.Err(t, err, nil)
	if err := sexy.Match(pattern, node); err != nil {
		t.Errorf("%v\nwant: %s\ngot:  %s", err, pattern, actual)
	}
}
