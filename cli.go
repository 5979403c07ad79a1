package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/strager/axc/ast"
	"github.com/strager/axc/codegen"
	"github.com/strager/axc/compiler"
	"github.com/strager/axc/ir"
	"github.com/strager/axc/parser"
)

func showUsage(w io.Writer) {
	fmt.Fprintf(w, `axc - compiler for AX style attribute expressions

Usage:
    axc <command> [arguments]

Commands:
    run <file>      Compile and execute an .ax file
    build <file>    Compile an .ax file and write its IR
    eval <code>     Evaluate inline AX code
    check <file>    Parse and generate an .ax file without running it
    ast <file>      Print the syntax tree of an .ax file
    repl            Start an interactive session
    functions       List the callable functions
    help            Show this help message

Examples:
    axc run -set 'float$scale=2' examples/scale.ax
    axc build -o scale.ir examples/scale.ax
    axc eval 'print(sqrt(2.0));'
    axc check myfile.ax

Use "axc <command> -h" for more information about a command.
`)
}

// assignmentList collects repeated -set flags.
type assignmentList []compiler.Assignment

func (l *assignmentList) String() string {
	parts := make([]string, len(*l))
	for i, a := range *l {
		parts[i] = fmt.Sprintf("%s%s=%v", a.Type, a.Slot, a.Value)
	}
	return strings.Join(parts, " ")
}

func (l *assignmentList) Set(s string) error {
	a, err := compiler.ParseAssignment(s)
	if err != nil {
		return err
	}
	*l = append(*l, a)
	return nil
}

// functionFlags are the function generation flags shared by every command
// that generates a kernel.
type functionFlags struct {
	disable      string
	prioritiseIR bool
}

func addFunctionFlags(fs *flag.FlagSet) *functionFlags {
	f := &functionFlags{}
	fs.StringVar(&f.disable, "disable", "", "Comma separated functions that may not be called")
	fs.BoolVar(&f.prioritiseIR, "prioritise-ir", true, "Inline IR implementations over native calls")
	return f
}

func (f *functionFlags) options(verbose bool) compiler.Options {
	options := compiler.DefaultOptions()
	options.Verbose = verbose
	options.Function.PrioritiseIR = f.prioritiseIR
	for _, name := range strings.Split(f.disable, ",") {
		if name = strings.TrimSpace(name); name != "" {
			options.Function.Disabled = append(options.Function.Disabled, name)
		}
	}
	return options
}

func newFlagSet(name, usage, summary string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: axc %s\n", usage)
		fmt.Fprintf(stderr, "%s\n\n", summary)
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// oneArg parses args and returns the single positional argument.
func oneArg(fs *flag.FlagSet, args []string, what string, stderr io.Writer) (string, bool) {
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: expected exactly one %s argument\n", what)
		fs.Usage()
		return "", false
	}
	return fs.Arg(0), true
}

func readSource(filename string, stderr io.Writer) (string, bool) {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading file %s: %v\n", filename, err)
		return "", false
	}
	return string(source), true
}

// execute compiles and runs source with the given context assignments.
func execute(source string, options compiler.Options, sets assignmentList, stdout, stderr io.Writer) int {
	options.Output = stdout
	result, err := compiler.Compile(source, options)
	if err != nil {
		fmt.Fprintf(stderr, "Compilation failed: %v\n", err)
		return 1
	}
	printWarnings(result, stderr)

	ctx := ir.NewContext()
	for _, a := range sets {
		if err := a.Apply(ctx); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if options.Verbose {
		fmt.Fprintf(stdout, "Executing...\n")
	}
	if err := compiler.Run(result, ctx, stdout); err != nil {
		fmt.Fprintf(stderr, "Execution failed: %v\n", err)
		return 1
	}
	if options.Verbose {
		fmt.Fprint(stdout, compiler.FormatSlots(ctx))
	}
	return 0
}

func printWarnings(result *compiler.Result, stderr io.Writer) {
	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}
}

func runCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("run", "run [-v] [-set type@name=value]... <file>", "Compile and execute an .ax file", stderr)
	verbose := fs.Bool("v", false, "Show verbose compilation details and the final context")
	var sets assignmentList
	fs.Var(&sets, "set", "Initial context slot value, e.g. float@density=0.5 (repeatable)")
	functions := addFunctionFlags(fs)

	filename, ok := oneArg(fs, args, "file", stderr)
	if !ok {
		return 1
	}
	if *verbose {
		fmt.Fprintf(stdout, "Compiling %s...\n", filename)
	}
	source, ok := readSource(filename, stderr)
	if !ok {
		return 1
	}
	return execute(source, functions.options(*verbose), sets, stdout, stderr)
}

func buildCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("build", "build [-o output] [-v] <file>", "Compile an .ax file and write its IR", stderr)
	output := fs.String("o", "", "Output file path (default: <filename>.ir)")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	functions := addFunctionFlags(fs)

	filename, ok := oneArg(fs, args, "file", stderr)
	if !ok {
		return 1
	}

	outputFile := *output
	if outputFile == "" {
		outputFile = strings.TrimSuffix(filename, ".ax") + ".ir"
	}
	if *verbose {
		fmt.Fprintf(stdout, "Compiling %s to %s...\n", filename, outputFile)
	}

	source, ok := readSource(filename, stderr)
	if !ok {
		return 1
	}
	options := functions.options(*verbose)
	options.ModuleName = strings.TrimSuffix(filepath.Base(filename), ".ax")
	options.Output = stdout
	result, err := compiler.Compile(source, options)
	if err != nil {
		fmt.Fprintf(stderr, "Compilation failed: %v\n", err)
		return 1
	}
	printWarnings(result, stderr)

	text := ir.FormatModule(result.Module)
	if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
		fmt.Fprintf(stderr, "Error writing IR file %s: %v\n", outputFile, err)
		return 1
	}
	fmt.Fprintf(stdout, "Generated %s (%d blocks)\n", outputFile, len(result.Function.Blocks))
	return 0
}

func evalCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("eval", "eval [-v] [-set type@name=value]... <code>", "Evaluate inline AX code", stderr)
	verbose := fs.Bool("v", false, "Show verbose compilation details and the final context")
	var sets assignmentList
	fs.Var(&sets, "set", "Initial context slot value (repeatable)")
	functions := addFunctionFlags(fs)

	code, ok := oneArg(fs, args, "code", stderr)
	if !ok {
		return 1
	}
	if *verbose {
		fmt.Fprintf(stdout, "Evaluating: %s\n", code)
	}
	return execute(code, functions.options(*verbose), sets, stdout, stderr)
}

func checkCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("check", "check [-v] <file>", "Parse and generate an .ax file without running it", stderr)
	verbose := fs.Bool("v", false, "Show the attributes and external variables the file accesses")
	functions := addFunctionFlags(fs)

	filename, ok := oneArg(fs, args, "file", stderr)
	if !ok {
		return 1
	}
	source, ok := readSource(filename, stderr)
	if !ok {
		return 1
	}

	tree, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintf(stdout, "Parsing errors in %s:\n%v\n", filename, err)
		return 1
	}
	result, err := compiler.Generate(tree, functions.options(false))
	if err != nil {
		var genErr *compiler.GenerationError
		if errors.As(err, &genErr) {
			fmt.Fprintf(stdout, "Generation errors in %s:\n%v\n", filename, genErr)
		} else {
			fmt.Fprintf(stdout, "Errors in %s:\n%v\n", filename, err)
		}
		return 1
	}
	printWarnings(result, stderr)

	fmt.Fprintf(stdout, "%s: no errors found\n", filename)
	if *verbose {
		for _, sym := range result.Globals {
			access := "read/write"
			if sym.ReadOnly {
				access = "read-only"
			}
			fmt.Fprintf(stdout, "  %s %s (%s)\n", sym.Type, sym.Name, access)
		}
	}
	return 0
}

func astCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("ast", "ast <file>", "Print the syntax tree of an .ax file", stderr)
	filename, ok := oneArg(fs, args, "file", stderr)
	if !ok {
		return 1
	}
	source, ok := readSource(filename, stderr)
	if !ok {
		return 1
	}
	tree, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintf(stderr, "Parsing failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, ast.ToSExpr(tree))
	return 0
}

func functionsCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("functions", "functions", "List the callable functions", stderr)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	registry := codegen.NewStandardRegistry()
	for _, name := range registry.Names() {
		group := registry.Get(name, codegen.DefaultFunctionOptions(), false)
		fmt.Fprintf(stdout, "%s: %s\n", name, group.Doc)
		for _, sig := range group.Signatures {
			fmt.Fprintf(stdout, "    %s\n", strings.Replace(sig.String(), "(", " "+name+"(", 1))
		}
	}
	return 0
}

func dispatch(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		showUsage(stderr)
		return 1
	}

	command, rest := args[0], args[1:]
	switch command {
	case "run":
		return runCommand(rest, stdout, stderr)
	case "build":
		return buildCommand(rest, stdout, stderr)
	case "eval":
		return evalCommand(rest, stdout, stderr)
	case "check":
		return checkCommand(rest, stdout, stderr)
	case "ast":
		return astCommand(rest, stdout, stderr)
	case "functions":
		return functionsCommand(rest, stdout, stderr)
	case "repl":
		return replCommand(rest, stdout, stderr)
	case "help", "-h", "--help":
		showUsage(stdout)
		return 0
	}
	fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
	showUsage(stderr)
	return 1
}
