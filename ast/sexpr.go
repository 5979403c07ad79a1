package ast

import (
	"strconv"
	"strings"
)

// ToSExpr converts an AST node to s-expression string representation
func ToSExpr(node Node) string {
	if node == nil {
		return "nil"
	}

	switch node := node.(type) {
	case *Tree:
		return list("tree", statements(node.Statements)...)
	case *StatementList:
		return list("statements", statements(node.Statements)...)
	case *Block:
		if node == nil {
			return "nil"
		}
		return list("block", statements(node.Statements)...)
	case *ConditionalStatement:
		parts := []string{ToSExpr(node.Condition), ToSExpr(node.Then)}
		if node.Else != nil {
			parts = append(parts, ToSExpr(node.Else))
		}
		return list("if", parts...)
	case *Loop:
		switch node.Loop {
		case LoopFor:
			return list("for", optional(node.Init), optional(node.Condition), optional(node.Iteration), ToSExpr(node.Body))
		case LoopWhile:
			return list("while", optional(node.Condition), ToSExpr(node.Body))
		default:
			return list("do", ToSExpr(node.Body), optional(node.Condition))
		}
	case *Keyword:
		return "(" + node.Keyword.String() + ")"
	case *CommaOperator:
		var parts []string
		for _, e := range node.Expressions {
			parts = append(parts, ToSExpr(e))
		}
		return list("comma", parts...)
	case *AssignExpression:
		op := "="
		if node.Op != OpEquals {
			op = node.Op.String() + "="
		}
		return list("assign", quote(op), ToSExpr(node.Target), ToSExpr(node.Value))
	case *Crement:
		op := "++"
		if node.Decrement {
			op = "--"
		}
		form := "pre"
		if node.Post {
			form = "post"
		}
		return list("crement", quote(op), form, ToSExpr(node.Expr))
	case *UnaryOperator:
		return list("unary", quote(node.Op.String()), ToSExpr(node.Expr))
	case *BinaryOperator:
		return list("binary", quote(node.Op.String()), ToSExpr(node.Left), ToSExpr(node.Right))
	case *TernaryOperator:
		return list("ternary", ToSExpr(node.Condition), optional(node.True), ToSExpr(node.False))
	case *Cast:
		return list("cast", node.Type.Name(), ToSExpr(node.Expr))
	case *FunctionCall:
		parts := []string{quote(node.Name)}
		for _, a := range node.Args {
			parts = append(parts, ToSExpr(a))
		}
		return list("call", parts...)
	case *Attribute:
		return list("attribute", quote(node.Name), node.Type.Name())
	case *ExternalVariable:
		return list("external", quote(node.Name), node.Type.Name())
	case *DeclareLocal:
		parts := []string{node.Type.Name(), ToSExpr(node.Local)}
		if node.Init != nil {
			parts = append(parts, ToSExpr(node.Init))
		}
		return list("declare", parts...)
	case *Local:
		return list("local", quote(node.Name))
	case *ArrayPack:
		var parts []string
		for _, e := range node.Elements {
			parts = append(parts, ToSExpr(e))
		}
		return list("pack", parts...)
	case *ArrayUnpack:
		return list("unpack", ToSExpr(node.Expr), ToSExpr(node.Index))
	case *BoolValue:
		return list("bool", strconv.FormatBool(node.Value))
	case *NumericValue:
		if node.Category() == CategoryFloating {
			return list(node.Type.Name(), strconv.FormatFloat(node.Float, 'g', -1, 64))
		}
		return list(node.Type.Name(), strconv.FormatInt(node.Int, 10))
	case *StringValue:
		return list("string", quote(node.Value))
	default:
		return ""
	}
}

func list(head string, parts ...string) string {
	if len(parts) == 0 {
		return "(" + head + ")"
	}
	return "(" + head + " " + strings.Join(parts, " ") + ")"
}

func statements(stmts []Statement) []string {
	var parts []string
	for _, s := range stmts {
		parts = append(parts, ToSExpr(s))
	}
	return parts
}

// optional renders absent children of loops and ternaries as nil.
func optional(n Node) string {
	if n == nil {
		return "nil"
	}
	return ToSExpr(n)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return "\"" + s + "\""
}
