package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/strager/axc/ast"
	"github.com/strager/axc/compiler"
	"github.com/strager/axc/ir"
	"github.com/strager/axc/parser"
)

const (
	historyFile = ".axc_history"
	promptMain  = "ax> "
	promptCont  = "... "
)

const replHelp = `Statements run as soon as they are complete. Attributes and external
variables keep their values between inputs; locals do not.

    :slots          Show the context slots
    :set type@name=value
                    Set a context slot
    :ast <code>     Show the syntax tree of code
    :reset          Clear the context
    :quit           Leave
`

// session is the state a REPL keeps between inputs.
type session struct {
	options compiler.Options
	ctx     *ir.Context
	stdout  io.Writer
	stderr  io.Writer
}

func newSession(options compiler.Options, stdout, stderr io.Writer) *session {
	return &session{options: options, ctx: ir.NewContext(), stdout: stdout, stderr: stderr}
}

// eval handles one complete input. It reports false when the session
// should end.
func (s *session) eval(input string) bool {
	code := strings.TrimSpace(input)
	if code == "" {
		return true
	}

	if strings.HasPrefix(code, ":") {
		command, arg, _ := strings.Cut(code, " ")
		arg = strings.TrimSpace(arg)
		switch command {
		case ":quit", ":q":
			return false
		case ":help":
			fmt.Fprint(s.stdout, replHelp)
		case ":slots":
			fmt.Fprint(s.stdout, compiler.FormatSlots(s.ctx))
		case ":reset":
			s.ctx = ir.NewContext()
		case ":set":
			a, err := compiler.ParseAssignment(arg)
			if err == nil {
				err = a.Apply(s.ctx)
			}
			if err != nil {
				fmt.Fprintf(s.stderr, "%v\n", err)
			}
		case ":ast":
			tree, err := parser.Parse(arg)
			if err != nil {
				fmt.Fprintf(s.stderr, "%v\n", err)
				break
			}
			fmt.Fprintln(s.stdout, ast.ToSExpr(tree))
		default:
			fmt.Fprintf(s.stdout, "unknown command %s. Type :help for a list.\n", command)
		}
		return true
	}

	result, err := compiler.Compile(code, s.options)
	if err != nil {
		fmt.Fprintf(s.stderr, "%v\n", err)
		return true
	}
	printWarnings(result, s.stderr)
	if err := compiler.Run(result, s.ctx, s.stdout); err != nil {
		fmt.Fprintf(s.stderr, "%v\n", err)
	}
	return true
}

// readInput reads lines until they form a complete program or fail for
// some reason other than ending early.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the pending input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := parser.Parse(src); err == nil || !parser.IsIncomplete(err) {
			return src, true
		}
	}
}

func replCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("repl", "repl", "Start an interactive session", stderr)
	functions := addFunctionFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	fmt.Fprintln(stdout, "axc interactive session. Type :help for commands.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := newSession(functions.options(false), stdout, stderr)
	for {
		input, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}
		if !s.eval(input) {
			return 0
		}
	}
}
