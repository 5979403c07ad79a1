package parser

import "fmt"

// SyntaxError is returned when the grammar rejects the input. Line and
// Column locate the first character of the offending token (both 1-based).
type SyntaxError struct {
	Line    int
	Column  int
	Message string

	// AtEOF is set when the parser ran out of input, i.e. the source is a
	// prefix of a valid program.
	AtEOF bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d '%s'", e.Line, e.Column, e.Message)
}

// LexicalError is returned when the scanner hits input it cannot tokenize.
// It aborts the parse immediately and is not routed through the syntax
// error sink.
type LexicalError struct {
	Line    int
	Column  int
	Message string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error: %s (line %d, column %d)", e.Message, e.Line, e.Column)
}

// IsIncomplete reports whether err means the source ended too early.
func IsIncomplete(err error) bool {
	se, ok := err.(*SyntaxError)
	return ok && se.AtEOF
}

// reportSyntaxError is the grammar engine's error callback. It formats msg
// against the current token location and unwinds to the entry point.
func reportSyntaxError(msg string) {
	panic(&SyntaxError{
		Line:    tokLine,
		Column:  tokColumn,
		Message: msg,
		AtEOF:   currType == EOF,
	})
}

func lexicalError(msg string) {
	lexicalErrorAt(tokLine, tokColumn, msg)
}

func lexicalErrorAt(l, c int, msg string) {
	panic(&LexicalError{Line: l, Column: c, Message: msg})
}
