// Package parser turns source text into an ast.Tree.
//
// The scanner and parser keep their state (scan buffer, location, current
// token) in package variables and are not reentrant. Every entry point takes
// parseMu for the whole parse, so concurrent callers are serialized; callers
// wanting parallelism should parallelize over parsed trees instead.
package parser

import (
	"sync"

	"github.com/strager/axc/ast"
)

var parseMu sync.Mutex

// Parse parses a complete program. It returns either a tree or an error,
// never both: a *SyntaxError when the grammar rejects the input, or a
// *LexicalError when the scanner cannot tokenize it.
func Parse(source string) (*ast.Tree, error) {
	return parseWith(source, parseTree)
}

// parseWith runs grammar over source and enforces that success always comes
// with a tree.
func parseWith(source string, grammar func() *ast.Tree) (*ast.Tree, error) {
	var tree *ast.Tree
	err := locked(source, func() {
		tree = grammar()
	})
	if err != nil {
		return nil, err
	}
	if tree == nil {
		panic("parser: parse reported success without a tree")
	}
	return tree, nil
}

// ParseExpression parses source as a single expression (a trailing ';' is
// allowed).
func ParseExpression(source string) (ast.Expression, error) {
	var expr ast.Expression
	err := locked(source, func() {
		expr = parseExpressions()
		if currType == SEMICOLON {
			skipToken(SEMICOLON)
		}
		if currType != EOF {
			reportSyntaxError(unexpected() + ", expecting end of file")
		}
	})
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// locked runs fn against source inside the critical section. The scan
// buffer is released before the lock on every path.
func locked(source string, fn func()) (err error) {
	parseMu.Lock()
	defer parseMu.Unlock()

	resetLocation()
	openBuffer(source)
	defer closeBuffer()

	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *SyntaxError:
				err = e
			case *LexicalError:
				err = e
			default:
				panic(r)
			}
		}
	}()

	nextToken()
	fn()
	return nil
}
