package codegen

import (
	"fmt"
	"strings"
)

// ErrorKind classifies generation failures.
type ErrorKind int

const (
	ScopeError ErrorKind = iota
	TypeError
	ResolutionError
	IndexError
)

func (k ErrorKind) String() string {
	switch k {
	case ScopeError:
		return "scope error"
	case TypeError:
		return "type error"
	case ResolutionError:
		return "resolution error"
	case IndexError:
		return "index error"
	}
	return "error"
}

// Error is a generation failure. Hint, when set, names a close match for a
// misspelled symbol.
type Error struct {
	Kind    ErrorKind
	Message string
	Hint    string
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (did you mean '%s'?)", e.Kind, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Logger collects the errors and warnings of generation runs. Warnings
// never abort generation.
type Logger struct {
	errors   []*Error
	warnings []string
}

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Error(e *Error) {
	l.errors = append(l.errors, e)
}

func (l *Logger) Warning(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *Logger) HasErrors() bool {
	return len(l.errors) > 0
}

func (l *Logger) Errors() []*Error {
	return l.errors
}

func (l *Logger) Warnings() []string {
	return l.warnings
}

// Reset clears all collected diagnostics.
func (l *Logger) Reset() {
	l.errors = nil
	l.warnings = nil
}

// String renders every diagnostic, errors first, one per line.
func (l *Logger) String() string {
	var sb strings.Builder
	for _, e := range l.errors {
		sb.WriteString(e.Error())
		sb.WriteString("\n")
	}
	for _, w := range l.warnings {
		sb.WriteString("warning: ")
		sb.WriteString(w)
		sb.WriteString("\n")
	}
	return sb.String()
}
