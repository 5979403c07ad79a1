package parser

import (
	"github.com/strager/axc/ast"
)

// skipToken advances past the current token, reporting a syntax error if it
// doesn't match the expected type.
func skipToken(expectedType TokenType) {
	if currType != expectedType {
		reportSyntaxError(unexpected() + ", expecting " + describe(expectedType))
	}
	nextToken()
}

func unexpected() string {
	return "syntax error, unexpected " + describe(currType)
}

func describe(t TokenType) string {
	switch t {
	case EOF:
		return "end of file"
	case IDENT:
		if t == currType {
			return "identifier " + currLiteral
		}
		return "identifier"
	case NUMBER:
		if t == currType {
			return "number " + currLiteral
		}
		return "number"
	case STRING:
		return "string literal"
	case TYPE:
		if t == currType {
			return "type " + currLiteral
		}
		return "type"
	case TRUE, FALSE, IF, ELSE, FOR, WHILE, DO, BREAK, CONTINUE, RETURN:
		if t == currType {
			return currLiteral
		}
	}
	return string(t)
}

// precedence returns the precedence level for a given binary operator token
func precedence(tokenType TokenType) int {
	switch tokenType {
	case OR:
		return 1
	case AND:
		return 2
	case BIT_OR:
		return 3
	case XOR:
		return 4
	case BIT_AND:
		return 5
	case EQ, NOT_EQ:
		return 6
	case LT, GT, LE, GE:
		return 7
	case SHL, SHR:
		return 8
	case PLUS, MINUS:
		return 9
	case ASTERISK, SLASH, PERCENT:
		return 10
	default:
		return 0 // not a binary operator
	}
}

var binaryOperators = map[TokenType]ast.Operator{
	OR:       ast.OpOr,
	AND:      ast.OpAnd,
	BIT_OR:   ast.OpBitOr,
	XOR:      ast.OpBitXor,
	BIT_AND:  ast.OpBitAnd,
	EQ:       ast.OpEqualsEquals,
	NOT_EQ:   ast.OpNotEquals,
	LT:       ast.OpLessThan,
	GT:       ast.OpMoreThan,
	LE:       ast.OpLessThanOrEqual,
	GE:       ast.OpMoreThanOrEqual,
	SHL:      ast.OpShiftLeft,
	SHR:      ast.OpShiftRight,
	PLUS:     ast.OpPlus,
	MINUS:    ast.OpMinus,
	ASTERISK: ast.OpMultiply,
	SLASH:    ast.OpDivide,
	PERCENT:  ast.OpModulo,
}

var unaryOperators = map[TokenType]ast.Operator{
	MINUS: ast.OpMinus,
	PLUS:  ast.OpPlus,
	BANG:  ast.OpNot,
	TILDE: ast.OpBitNot,
}

var assignOperators = map[TokenType]ast.Operator{
	ASSIGN:       ast.OpEquals,
	PLUS_ASSIGN:  ast.OpPlus,
	MINUS_ASSIGN: ast.OpMinus,
	MUL_ASSIGN:   ast.OpMultiply,
	DIV_ASSIGN:   ast.OpDivide,
	MOD_ASSIGN:   ast.OpModulo,
	AND_ASSIGN:   ast.OpBitAnd,
	OR_ASSIGN:    ast.OpBitOr,
	XOR_ASSIGN:   ast.OpBitXor,
	SHL_ASSIGN:   ast.OpShiftLeft,
	SHR_ASSIGN:   ast.OpShiftRight,
}

var components = map[string]int64{
	"x": 0, "y": 1, "z": 2, "w": 3,
	"r": 0, "g": 1, "b": 2, "a": 3,
}

// parseTree parses statements until EOF.
func parseTree() *ast.Tree {
	tree := &ast.Tree{}
	for currType != EOF {
		if stmt := parseStatement(); stmt != nil {
			tree.Statements = append(tree.Statements, stmt)
		}
	}
	return tree
}

// parseStatement parses a statement and returns an AST node. Empty
// statements yield nil.
func parseStatement() ast.Statement {
	switch currType {
	case SEMICOLON:
		skipToken(SEMICOLON)
		return nil

	case LBRACE:
		return parseBlock()

	case IF:
		skipToken(IF)
		skipToken(LPAREN)
		cond := parseExpressions()
		skipToken(RPAREN)
		stmt := &ast.ConditionalStatement{Condition: cond, Then: parseBody()}
		if currType == ELSE {
			skipToken(ELSE)
			stmt.Else = parseBody()
		}
		return stmt

	case FOR:
		skipToken(FOR)
		skipToken(LPAREN)
		loop := &ast.Loop{Loop: ast.LoopFor}
		if currType != SEMICOLON {
			if currType == TYPE && !startsTypedExpression() {
				loop.Init = parseDeclarations()
			} else {
				loop.Init = parseExpressions()
			}
		}
		skipToken(SEMICOLON)
		if currType != SEMICOLON {
			loop.Condition = parseExpressions()
		}
		skipToken(SEMICOLON)
		if currType != RPAREN {
			loop.Iteration = parseExpressions()
		}
		skipToken(RPAREN)
		loop.Body = parseBody()
		return loop

	case WHILE:
		skipToken(WHILE)
		skipToken(LPAREN)
		cond := parseExpressions()
		skipToken(RPAREN)
		return &ast.Loop{Loop: ast.LoopWhile, Condition: cond, Body: parseBody()}

	case DO:
		skipToken(DO)
		body := parseBody()
		skipToken(WHILE)
		skipToken(LPAREN)
		cond := parseExpressions()
		skipToken(RPAREN)
		skipToken(SEMICOLON)
		return &ast.Loop{Loop: ast.LoopDo, Condition: cond, Body: body}

	case BREAK, CONTINUE, RETURN:
		kw := ast.KeywordBreak
		if currType == CONTINUE {
			kw = ast.KeywordContinue
		} else if currType == RETURN {
			kw = ast.KeywordReturn
		}
		nextToken()
		skipToken(SEMICOLON)
		return &ast.Keyword{Keyword: kw}

	case TYPE:
		if !startsTypedExpression() {
			decls := parseDeclarations()
			skipToken(SEMICOLON)
			return decls
		}
	}

	// Expression statement
	expr := parseExpressions()
	skipToken(SEMICOLON)
	return expr
}

// startsTypedExpression reports whether the current TYPE token begins a
// cast, attribute or external variable rather than a declaration.
func startsTypedExpression() bool {
	switch peekToken() {
	case LPAREN, AT, DOLLAR:
		return true
	}
	return false
}

func parseBlock() *ast.Block {
	skipToken(LBRACE)
	block := &ast.Block{}
	for currType != RBRACE && currType != EOF {
		if stmt := parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	skipToken(RBRACE)
	return block
}

// parseBody parses the body of an if or loop. A single statement is wrapped
// in its own block.
func parseBody() *ast.Block {
	if currType == LBRACE {
		return parseBlock()
	}
	block := &ast.Block{}
	if stmt := parseStatement(); stmt != nil {
		block.Statements = append(block.Statements, stmt)
	}
	return block
}

// parseDeclarations parses `type name [= init] {, name [= init]}`.
func parseDeclarations() ast.Statement {
	typ := currTypeTok
	skipToken(TYPE)

	var decls []ast.Statement
	for {
		if currType != IDENT {
			reportSyntaxError(unexpected() + ", expecting identifier")
		}
		decl := &ast.DeclareLocal{Type: typ, Local: &ast.Local{Name: currLiteral}}
		skipToken(IDENT)
		if currType == ASSIGN {
			skipToken(ASSIGN)
			decl.Init = parseAssignment()
		}
		decls = append(decls, decl)
		if currType != COMMA {
			break
		}
		skipToken(COMMA)
	}
	if len(decls) == 1 {
		return decls[0]
	}
	return &ast.StatementList{Statements: decls}
}

// parseExpressions parses a comma separated expression list.
func parseExpressions() ast.Expression {
	first := parseAssignment()
	if currType != COMMA {
		return first
	}
	exprs := []ast.Expression{first}
	for currType == COMMA {
		skipToken(COMMA)
		exprs = append(exprs, parseAssignment())
	}
	return &ast.CommaOperator{Expressions: exprs}
}

func parseAssignment() ast.Expression {
	target := parseTernary()
	op, ok := assignOperators[currType]
	if !ok {
		return target
	}
	if !isAssignable(target) {
		reportSyntaxError(unexpected())
	}
	nextToken()
	value := parseAssignment() // right-associative
	return &ast.AssignExpression{Op: op, Target: target, Value: value}
}

func isAssignable(e ast.Expression) bool {
	switch e := e.(type) {
	case *ast.Local, *ast.Attribute, *ast.ExternalVariable:
		return true
	case *ast.ArrayUnpack:
		return isAssignable(e.Expr)
	}
	return false
}

func parseTernary() ast.Expression {
	cond := parseBinary(1)
	if currType != QUESTION {
		return cond
	}
	skipToken(QUESTION)
	tern := &ast.TernaryOperator{Condition: cond}
	if currType != COLON {
		tern.True = parseAssignment()
	}
	skipToken(COLON)
	tern.False = parseTernary()
	return tern
}

// parseBinary implements precedence climbing
func parseBinary(minPrec int) ast.Expression {
	left := parseUnary()
	for {
		prec := precedence(currType)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := binaryOperators[currType]
		nextToken()
		right := parseBinary(prec + 1) // left-associative
		left = &ast.BinaryOperator{Op: op, Left: left, Right: right}
	}
}

func parseUnary() ast.Expression {
	switch currType {
	case MINUS, PLUS, BANG, TILDE:
		op := unaryOperators[currType]
		nextToken()
		if op == ast.OpMinus && currType == NUMBER && currNegOnly {
			node := currNumber
			skipToken(NUMBER)
			return parsePostfix(&node)
		}
		return &ast.UnaryOperator{Op: op, Expr: parseUnary()}
	case PLUS_PLUS, MINUS_MINUS:
		decrement := currType == MINUS_MINUS
		nextToken()
		operand := parseUnary()
		if !isAssignable(operand) {
			reportSyntaxError(unexpected())
		}
		return &ast.Crement{Decrement: decrement, Expr: operand}
	}
	return parsePostfix(parsePrimary())
}

func parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch currType {
		case LBRACKET:
			skipToken(LBRACKET)
			index := parseExpressions()
			skipToken(RBRACKET)
			expr = &ast.ArrayUnpack{Expr: expr, Index: index}

		case DOT:
			skipToken(DOT)
			lane, ok := components[currLiteral]
			if currType != IDENT || !ok {
				reportSyntaxError(unexpected() + ", expecting component")
			}
			skipToken(IDENT)
			expr = &ast.ArrayUnpack{
				Expr:  expr,
				Index: &ast.NumericValue{Type: ast.TypeInt32, Int: lane},
			}

		case PLUS_PLUS, MINUS_MINUS:
			if !isAssignable(expr) {
				reportSyntaxError(unexpected())
			}
			expr = &ast.Crement{Decrement: currType == MINUS_MINUS, Post: true, Expr: expr}
			nextToken()

		default:
			return expr
		}
	}
}

// parsePrimary handles primary expressions (literals, identifiers, parentheses)
func parsePrimary() ast.Expression {
	switch currType {
	case NUMBER:
		if currNegOnly {
			integerRangeError(currLiteral, currNumber.Type)
		}
		node := currNumber
		skipToken(NUMBER)
		return &node

	case TRUE, FALSE:
		node := &ast.BoolValue{Value: currType == TRUE}
		nextToken()
		return node

	case STRING:
		node := &ast.StringValue{Value: currLiteral}
		skipToken(STRING)
		return node

	case LPAREN:
		skipToken(LPAREN)
		expr := parseExpressions()
		skipToken(RPAREN)
		return expr

	case LBRACE:
		skipToken(LBRACE)
		pack := &ast.ArrayPack{}
		for {
			pack.Elements = append(pack.Elements, parseAssignment())
			if currType != COMMA {
				break
			}
			skipToken(COMMA)
		}
		skipToken(RBRACE)
		return pack

	case TYPE:
		typ := currTypeTok
		skipToken(TYPE)
		if currType == AT || currType == DOLLAR {
			return parseBinding(typ, false)
		}
		skipToken(LPAREN)
		expr := parseAssignment()
		skipToken(RPAREN)
		return &ast.Cast{Type: typ, Expr: expr}

	case AT, DOLLAR:
		return parseBinding(ast.TypeFloat, true)

	case IDENT:
		name := currLiteral
		next := peekToken()
		if next == AT || next == DOLLAR {
			typ, ok := ast.TypeFromPrefix(name)
			skipToken(IDENT)
			if !ok {
				reportSyntaxError(unexpected())
			}
			return parseBinding(typ, false)
		}
		skipToken(IDENT)
		if currType != LPAREN {
			return &ast.Local{Name: name}
		}
		skipToken(LPAREN)
		call := &ast.FunctionCall{Name: name}
		for currType != RPAREN {
			call.Args = append(call.Args, parseAssignment())
			if currType != COMMA {
				break
			}
			skipToken(COMMA)
		}
		skipToken(RPAREN)
		return call
	}

	reportSyntaxError(unexpected())
	return nil
}

// parseBinding parses the `@name` or `$name` tail of an attribute or
// external variable reference.
func parseBinding(typ ast.Type, inferred bool) ast.Expression {
	external := currType == DOLLAR
	nextToken()
	if currType != IDENT && currType != TYPE {
		reportSyntaxError(unexpected() + ", expecting identifier")
	}
	name := currLiteral
	nextToken()
	if external {
		return &ast.ExternalVariable{Name: name, Type: typ}
	}
	return &ast.Attribute{Name: name, Type: typ, Inferred: inferred}
}
