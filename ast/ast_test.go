package ast

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestToSExpr(t *testing.T) {
	a := &Local{Name: "a"}
	one := &NumericValue{Type: TypeInt32, Int: 1}
	half := &NumericValue{Type: TypeFloat, Float: 0.5}

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"nil", nil, "nil"},
		{"empty tree", &Tree{}, "(tree)"},
		{"declare", &DeclareLocal{Type: TypeInt32, Local: a, Init: one}, `(declare int (local "a") (int 1))`},
		{"declare without init", &DeclareLocal{Type: TypeVec3f, Local: a}, `(declare vec3f (local "a"))`},
		{"float literal", half, "(float 0.5)"},
		{"long literal", &NumericValue{Type: TypeInt64, Int: -7}, "(long -7)"},
		{"string", &StringValue{Value: `say "hi"`}, `(string "say \"hi\"")`},
		{"bool", &BoolValue{Value: true}, "(bool true)"},
		{"assign", &AssignExpression{Op: OpEquals, Target: a, Value: one}, `(assign "=" (local "a") (int 1))`},
		{"compound assign", &AssignExpression{Op: OpShiftLeft, Target: a, Value: one}, `(assign "<<=" (local "a") (int 1))`},
		{"post increment", &Crement{Post: true, Expr: a}, `(crement "++" post (local "a"))`},
		{"pre decrement", &Crement{Decrement: true, Expr: a}, `(crement "--" pre (local "a"))`},
		{"binary", &BinaryOperator{Op: OpAnd, Left: a, Right: one}, `(binary "&&" (local "a") (int 1))`},
		{"unary", &UnaryOperator{Op: OpBitNot, Expr: a}, `(unary "~" (local "a"))`},
		{"ternary", &TernaryOperator{Condition: a, True: one, False: half}, `(ternary (local "a") (int 1) (float 0.5))`},
		{"short ternary", &TernaryOperator{Condition: a, False: half}, `(ternary (local "a") nil (float 0.5))`},
		{"cast", &Cast{Type: TypeDouble, Expr: one}, "(cast double (int 1))"},
		{"call", &FunctionCall{Name: "max", Args: []Expression{a, one}}, `(call "max" (local "a") (int 1))`},
		{"call without args", &FunctionCall{Name: "rand"}, `(call "rand")`},
		{"attribute", &Attribute{Name: "P", Type: TypeVec3f}, `(attribute "P" vec3f)`},
		{"external", &ExternalVariable{Name: "scale", Type: TypeFloat}, `(external "scale" float)`},
		{"pack", &ArrayPack{Elements: []Expression{one, half}}, "(pack (int 1) (float 0.5))"},
		{"unpack", &ArrayUnpack{Expr: a, Index: one}, `(unpack (local "a") (int 1))`},
		{"comma", &CommaOperator{Expressions: []Expression{a, one}}, `(comma (local "a") (int 1))`},
		{"keyword", &Keyword{Keyword: KeywordContinue}, "(continue)"},
		{"if", &ConditionalStatement{Condition: a, Then: &Block{}}, `(if (local "a") (block))`},
		{"if else", &ConditionalStatement{Condition: a, Then: &Block{}, Else: &Block{Statements: []Statement{one}}}, `(if (local "a") (block) (block (int 1)))`},
		{"for", &Loop{Loop: LoopFor, Body: &Block{}}, "(for nil nil nil (block))"},
		{"while", &Loop{Loop: LoopWhile, Condition: a, Body: &Block{}}, `(while (local "a") (block))`},
		{"do", &Loop{Loop: LoopDo, Condition: a, Body: &Block{}}, `(do (block) (local "a"))`},
		{"statements", &StatementList{Statements: []Statement{&DeclareLocal{Type: TypeInt32, Local: a}}}, `(statements (declare int (local "a")))`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, ToSExpr(test.node), test.want)
		})
	}
}

func TestChildren(t *testing.T) {
	a := &Local{Name: "a"}
	one := &NumericValue{Type: TypeInt32, Int: 1}
	body := &Block{}

	be.Equal(t, Children(&BinaryOperator{Op: OpPlus, Left: a, Right: one}), []Node{a, one})
	be.Equal(t, Children(&TernaryOperator{Condition: a, False: one}), []Node{a, one})
	be.Equal(t, Children(&Loop{Loop: LoopWhile, Condition: a, Body: body}), []Node{a, body})
	be.Equal(t, Children(&DeclareLocal{Type: TypeInt32, Local: a}), []Node{a})
	be.Equal(t, Children(&ConditionalStatement{Condition: a, Then: body}), []Node{a, body})
	be.Equal(t, len(Children(a)), 0)
	be.Equal(t, len(Children(&Keyword{})), 0)
}

func TestOperators(t *testing.T) {
	be.Equal(t, OpMoreThanOrEqual.String(), ">=")
	be.Equal(t, Operator(-1).String(), "?")

	be.True(t, OpNotEquals.IsComparison())
	be.True(t, !OpPlus.IsComparison())
	be.True(t, OpBitXor.IsBitwise())
	be.True(t, OpShiftRight.IsBitwise())
	be.True(t, !OpModulo.IsBitwise())
	be.True(t, OpOr.IsLogical())
	be.True(t, !OpBitOr.IsLogical())
}

func TestKinds(t *testing.T) {
	seen := map[NodeKind]bool{}
	for _, k := range AllKinds {
		be.True(t, !seen[k])
		seen[k] = true
	}
	be.Equal(t, len(AllKinds), 23)
	be.Equal(t, (&Crement{}).Kind(), NodeCrement)
	be.Equal(t, LoopDo.String(), "do")
	be.Equal(t, KeywordReturn.String(), "return")
}
