package parser

import (
	"strconv"
	"strings"

	"github.com/strager/axc/ast"
)

// Global lexer input state. Only touched while parseMu is held.
var (
	input []byte
	pos   int // current reading position in input

	// location of the next unread character
	line   int
	column int
)

// Global “current token” state
var (
	currType    TokenType
	currLiteral string
	currNumber  ast.NumericValue // only meaningful when currType == NUMBER
	currTypeTok ast.Type         // only meaningful when currType == TYPE

	// currNegOnly marks an integral literal whose magnitude fits only when
	// negated; currNumber already holds the negative value.
	currNegOnly bool

	tokLine   int
	tokColumn int
)

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

// Definition of token types
const (
	EOF = "EOF"

	IDENT  = "IDENT"
	NUMBER = "NUMBER"
	STRING = "STRING"
	TYPE   = "TYPE"

	TRUE     = "TRUE"
	FALSE    = "FALSE"
	IF       = "IF"
	ELSE     = "ELSE"
	FOR      = "FOR"
	WHILE    = "WHILE"
	DO       = "DO"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	RETURN   = "RETURN"

	ASSIGN       = "="
	PLUS_ASSIGN  = "+="
	MINUS_ASSIGN = "-="
	MUL_ASSIGN   = "*="
	DIV_ASSIGN   = "/="
	MOD_ASSIGN   = "%="
	AND_ASSIGN   = "&="
	OR_ASSIGN    = "|="
	XOR_ASSIGN   = "^="
	SHL_ASSIGN   = "<<="
	SHR_ASSIGN   = ">>="
	PLUS         = "+"
	MINUS        = "-"
	ASTERISK     = "*"
	SLASH        = "/"
	PERCENT      = "%"
	BANG         = "!"
	TILDE        = "~"
	LT           = "<"
	GT           = ">"
	EQ           = "=="
	NOT_EQ       = "!="
	LE           = "<="
	GE           = ">="
	AND          = "&&"
	OR           = "||"
	BIT_AND      = "&"
	BIT_OR       = "|"
	XOR          = "^"
	SHL          = "<<"
	SHR          = ">>"
	PLUS_PLUS    = "++"
	MINUS_MINUS  = "--"
	QUESTION     = "?"
	COLON        = ":"
	COMMA        = ","
	SEMICOLON    = ";"
	DOT          = "."
	AT           = "@"
	DOLLAR       = "$"
	LPAREN       = "("
	RPAREN       = ")"
	LBRACE       = "{"
	RBRACE       = "}"
	LBRACKET     = "["
	RBRACKET     = "]"
)

var keywords = map[string]TokenType{
	"true":     TRUE,
	"false":    FALSE,
	"if":       IF,
	"else":     ELSE,
	"for":      FOR,
	"while":    WHILE,
	"do":       DO,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
}

// Operators ordered longest first so the scanner is greedy.
var operators = []TokenType{
	SHL_ASSIGN, SHR_ASSIGN,
	PLUS_ASSIGN, MINUS_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN,
	AND_ASSIGN, OR_ASSIGN, XOR_ASSIGN,
	EQ, NOT_EQ, LE, GE, AND, OR, SHL, SHR, PLUS_PLUS, MINUS_MINUS,
	ASSIGN, PLUS, MINUS, ASTERISK, SLASH, PERCENT, BANG, TILDE, LT, GT,
	BIT_AND, BIT_OR, XOR, QUESTION, COLON, COMMA, SEMICOLON, DOT, AT, DOLLAR,
	LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
}

// openBuffer installs a NUL-terminated copy of source as the scan buffer.
func openBuffer(source string) {
	input = make([]byte, len(source)+1)
	copy(input, source)
	pos = 0
}

// closeBuffer releases the scan buffer.
func closeBuffer() {
	input = nil
	pos = 0
	currType = EOF
	currLiteral = ""
	currNegOnly = false
}

// resetLocation puts location tracking back at the start of the input.
func resetLocation() {
	line = 1
	column = 0
	tokLine = 1
	tokColumn = 0
}

func advance() {
	if input[pos] == '\n' {
		line++
		column = 0
	} else {
		column++
	}
	pos++
}

// NextToken scans the next token and stores it in the globals.
func nextToken() {
	skipWhitespaceAndComments()

	tokLine = line
	tokColumn = column + 1
	currNumber = ast.NumericValue{}
	currTypeTok = ast.TypeInvalid
	currNegOnly = false

	c := input[pos]
	switch {
	case c == 0:
		if pos != len(input)-1 {
			lexicalError("unexpected NUL character")
		}
		currType = EOF
		currLiteral = ""

	case isLetter(c):
		lit := readIdentifier()
		currLiteral = lit
		if kw, ok := keywords[lit]; ok {
			currType = kw
		} else if t, ok := ast.TypeFromName(lit); ok {
			currType = TYPE
			currTypeTok = t
		} else {
			currType = IDENT
		}

	case isDigit(c) || (c == '.' && isDigit(input[pos+1])):
		readNumber()

	case c == '"':
		currType = STRING
		currLiteral = readString()

	default:
		for _, op := range operators {
			if hasPrefixAt(string(op)) {
				currType = op
				currLiteral = string(op)
				for range len(op) {
					advance()
				}
				return
			}
		}
		lexicalError("invalid character " + strconv.QuoteRune(rune(c)))
	}
}

// peekToken returns the next token type without advancing the lexer.
func peekToken() TokenType {
	savedPos, savedLine, savedColumn := pos, line, column
	savedType, savedLiteral := currType, currLiteral
	savedNumber, savedTypeTok, savedNegOnly := currNumber, currTypeTok, currNegOnly
	savedTokLine, savedTokColumn := tokLine, tokColumn

	nextToken()
	nextType := currType

	// Restore state
	pos, line, column = savedPos, savedLine, savedColumn
	currType, currLiteral = savedType, savedLiteral
	currNumber, currTypeTok, currNegOnly = savedNumber, savedTypeTok, savedNegOnly
	tokLine, tokColumn = savedTokLine, savedTokColumn

	return nextType
}

func hasPrefixAt(s string) bool {
	if pos+len(s) > len(input) {
		return false
	}
	return string(input[pos:pos+len(s)]) == s
}

func skipWhitespaceAndComments() {
	for {
		c := input[pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			advance()
		} else if c == '/' && input[pos+1] == '/' {
			for input[pos] != '\n' && input[pos] != 0 {
				advance()
			}
		} else if c == '/' && input[pos+1] == '*' {
			startLine, startColumn := line, column+1
			advance()
			advance()
			for !(input[pos] == '*' && input[pos+1] == '/') {
				if input[pos] == 0 {
					lexicalErrorAt(startLine, startColumn, "unterminated comment")
				}
				advance()
			}
			advance()
			advance()
		} else {
			return
		}
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func readIdentifier() string {
	start := pos
	for isLetter(input[pos]) || isDigit(input[pos]) {
		advance()
	}
	return string(input[start:pos])
}

// readNumber scans integer and floating literals with their optional
// suffixes: s (short), l (long), f (float).
func readNumber() {
	start := pos
	floating := false
	for isDigit(input[pos]) {
		advance()
	}
	if input[pos] == '.' && !isLetter(input[pos+1]) {
		floating = true
		advance()
		for isDigit(input[pos]) {
			advance()
		}
	}
	if input[pos] == 'e' || input[pos] == 'E' {
		next := input[pos+1]
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(input[pos+2])) {
			floating = true
			advance()
			if input[pos] == '+' || input[pos] == '-' {
				advance()
			}
			for isDigit(input[pos]) {
				advance()
			}
		}
	}
	text := string(input[start:pos])

	typ := ast.TypeInt32
	if floating {
		typ = ast.TypeDouble
	}
	switch input[pos] {
	case 'f':
		typ = ast.TypeFloat
		advance()
	case 's':
		if !floating {
			typ = ast.TypeInt16
			advance()
		}
	case 'l':
		if !floating {
			typ = ast.TypeInt64
			advance()
		}
	}
	if isLetter(input[pos]) || isDigit(input[pos]) {
		lexicalError("invalid suffix on numeric literal " + strconv.Quote(string(input[start:pos+1])))
	}

	currType = NUMBER
	currLiteral = string(input[start:pos])
	currNumber.Type = typ
	if typ.Category() == ast.CategoryFloating {
		f, err := strconv.ParseFloat(text, 64)
		if err == nil && typ == ast.TypeFloat {
			_, err = strconv.ParseFloat(text, 32)
		}
		if isRangeError(err) {
			lexicalError("floating literal " + strconv.Quote(text) + " out of range for " + typ.Name())
		}
		if err != nil {
			lexicalError("malformed floating literal " + strconv.Quote(text))
		}
		currNumber.Float = f
		return
	}
	bits := 32
	switch typ {
	case ast.TypeInt16:
		bits = 16
	case ast.TypeInt64:
		bits = 64
	}
	// The magnitude of the most negative value is only valid under a unary
	// minus, which the parser folds into the literal.
	v, err := strconv.ParseUint(text, 10, bits)
	limit := uint64(1) << (bits - 1)
	if err != nil || v > limit {
		integerRangeError(text, typ)
	}
	currNegOnly = v == limit
	currNumber.Int = int64(v)
	if currNegOnly {
		currNumber.Int = -int64(v - 1) - 1
	}
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func integerRangeError(literal string, typ ast.Type) {
	digits := strings.TrimRight(literal, "sl")
	lexicalError("integer literal " + strconv.Quote(digits) + " out of range for " + typ.Name())
}

func readString() string {
	startLine, startColumn := line, column+1
	advance() // skip opening "
	var b strings.Builder
	for input[pos] != '"' {
		c := input[pos]
		if c == 0 || c == '\n' {
			lexicalErrorAt(startLine, startColumn, "unterminated string literal")
		}
		if c == '\\' {
			advance()
			switch input[pos] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				lexicalError("invalid escape sequence \\" + string(rune(input[pos])))
			}
			advance()
			continue
		}
		b.WriteByte(c)
		advance()
	}
	advance() // skip closing "
	return b.String()
}
