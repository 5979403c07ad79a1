// Package compiler drives source text through parsing, kernel generation
// and verification, and executes the resulting kernel.
package compiler

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/strager/axc/ast"
	"github.com/strager/axc/codegen"
	"github.com/strager/axc/ir"
	"github.com/strager/axc/parser"
)

const DefaultModuleName = "ax"

type Options struct {
	Function   codegen.FunctionOptions
	ModuleName string
	// Verbose prints the tree and the generated IR to Output, or to
	// os.Stdout when Output is nil.
	Verbose bool
	Output  io.Writer
}

func (o Options) output() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

func DefaultOptions() Options {
	return Options{Function: codegen.DefaultFunctionOptions(), ModuleName: DefaultModuleName}
}

type Result struct {
	Tree     *ast.Tree
	Module   *ir.Module
	Function *ir.Function
	// Globals lists the attributes and external variables the kernel
	// accesses, by slot name.
	Globals  []*codegen.Symbol
	Warnings []string
}

// GenerationError carries every error logged while generating a kernel.
type GenerationError struct {
	Errors []*codegen.Error
}

func (e *GenerationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Compile parses source and generates its compute kernel. Parse failures
// have a *parser.SyntaxError or *parser.LexicalError cause, generation
// failures a *GenerationError.
func Compile(source string, options Options) (*Result, error) {
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	if options.Verbose {
		fmt.Fprintf(options.output(), "AST: %s\n", ast.ToSExpr(tree))
	}
	return Generate(tree, options)
}

// Generate builds the kernel of an already parsed tree.
func Generate(tree *ast.Tree, options Options) (*Result, error) {
	name := options.ModuleName
	if name == "" {
		name = DefaultModuleName
	}
	module := ir.NewModule(name)
	logger := codegen.NewLogger()
	gen := codegen.NewComputeGenerator(module, options.Function, codegen.NewStandardRegistry(), logger)
	if !gen.Generate(tree) {
		return nil, errors.Wrap(&GenerationError{Errors: logger.Errors()}, "generate")
	}

	fn := gen.Function()
	if err := ir.Verify(fn); err != nil {
		return nil, errors.Wrapf(err, "verify %s", fn.Name)
	}
	if options.Verbose {
		fmt.Fprint(options.output(), ir.FormatModule(module))
	}

	result := &Result{
		Tree:     tree,
		Module:   module,
		Function: fn,
		Warnings: logger.Warnings(),
	}
	globals := gen.Globals()
	for _, name := range globals.Names() {
		result.Globals = append(result.Globals, globals.Lookup(name))
	}
	return result, nil
}

// Run executes the kernel of result against ctx. print output goes to
// stdout.
func Run(result *Result, ctx *ir.Context, stdout io.Writer) error {
	if _, err := ir.Exec(result.Function, codegen.StandardNatives(stdout), ctx); err != nil {
		return errors.Wrap(err, "run")
	}
	return nil
}
