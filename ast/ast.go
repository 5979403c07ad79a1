package ast

// NodeKind represents different types of AST nodes
type NodeKind string

const (
	NodeTree          NodeKind = "NodeTree"
	NodeStatementList NodeKind = "NodeStatementList"
	NodeBlock         NodeKind = "NodeBlock"
	NodeConditional   NodeKind = "NodeConditional"
	NodeLoop          NodeKind = "NodeLoop"
	NodeKeyword       NodeKind = "NodeKeyword"
	NodeComma         NodeKind = "NodeComma"
	NodeAssign        NodeKind = "NodeAssign"
	NodeCrement       NodeKind = "NodeCrement"
	NodeUnary         NodeKind = "NodeUnary"
	NodeBinary        NodeKind = "NodeBinary"
	NodeTernary       NodeKind = "NodeTernary"
	NodeCast          NodeKind = "NodeCast"
	NodeCall          NodeKind = "NodeCall"
	NodeAttribute     NodeKind = "NodeAttribute"
	NodeExternal      NodeKind = "NodeExternal"
	NodeDeclareLocal  NodeKind = "NodeDeclareLocal"
	NodeLocal         NodeKind = "NodeLocal"
	NodeArrayPack     NodeKind = "NodeArrayPack"
	NodeArrayUnpack   NodeKind = "NodeArrayUnpack"
	NodeBool          NodeKind = "NodeBool"
	NodeNumeric       NodeKind = "NodeNumeric"
	NodeString        NodeKind = "NodeString"
)

// AllKinds lists every node kind. Dispatchers are tested against it.
var AllKinds = []NodeKind{
	NodeTree, NodeStatementList, NodeBlock, NodeConditional, NodeLoop,
	NodeKeyword, NodeComma, NodeAssign, NodeCrement, NodeUnary, NodeBinary,
	NodeTernary, NodeCast, NodeCall, NodeAttribute, NodeExternal,
	NodeDeclareLocal, NodeLocal, NodeArrayPack, NodeArrayUnpack, NodeBool,
	NodeNumeric, NodeString,
}

// Node is implemented only by the node types in this package.
type Node interface {
	Kind() NodeKind
	node()
}

// Statement is any node that may appear in a statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression nodes produce a value. Every expression is also a statement.
type Expression interface {
	Statement
	expressionNode()
}

// Operator is an operator token.
type Operator int

const (
	OpInvalid Operator = iota
	OpPlus
	OpMinus
	OpMultiply
	OpDivide
	OpModulo
	OpAnd
	OpOr
	OpNot
	OpEqualsEquals
	OpNotEquals
	OpMoreThan
	OpLessThan
	OpMoreThanOrEqual
	OpLessThanOrEqual
	OpShiftLeft
	OpShiftRight
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpEquals
)

var operatorNames = [...]string{
	OpInvalid:         "?",
	OpPlus:            "+",
	OpMinus:           "-",
	OpMultiply:        "*",
	OpDivide:          "/",
	OpModulo:          "%",
	OpAnd:             "&&",
	OpOr:              "||",
	OpNot:             "!",
	OpEqualsEquals:    "==",
	OpNotEquals:       "!=",
	OpMoreThan:        ">",
	OpLessThan:        "<",
	OpMoreThanOrEqual: ">=",
	OpLessThanOrEqual: "<=",
	OpShiftLeft:       "<<",
	OpShiftRight:      ">>",
	OpBitAnd:          "&",
	OpBitOr:           "|",
	OpBitXor:          "^",
	OpBitNot:          "~",
	OpEquals:          "=",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorNames) {
		return "?"
	}
	return operatorNames[op]
}

// IsComparison reports whether op yields a bool from two operands.
func (op Operator) IsComparison() bool {
	switch op {
	case OpEqualsEquals, OpNotEquals, OpMoreThan, OpLessThan, OpMoreThanOrEqual, OpLessThanOrEqual:
		return true
	}
	return false
}

// IsBitwise reports whether op only applies to integral operands.
func (op Operator) IsBitwise() bool {
	switch op {
	case OpShiftLeft, OpShiftRight, OpBitAnd, OpBitOr, OpBitXor, OpBitNot:
		return true
	}
	return false
}

// IsLogical reports whether op is && or ||.
func (op Operator) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// KeywordKind identifies a jump statement.
type KeywordKind int

const (
	KeywordBreak KeywordKind = iota
	KeywordContinue
	KeywordReturn
)

func (k KeywordKind) String() string {
	switch k {
	case KeywordBreak:
		return "break"
	case KeywordContinue:
		return "continue"
	case KeywordReturn:
		return "return"
	}
	return "?"
}

// LoopKind distinguishes loop shapes.
type LoopKind int

const (
	LoopFor LoopKind = iota
	LoopWhile
	LoopDo
)

func (k LoopKind) String() string {
	switch k {
	case LoopFor:
		return "for"
	case LoopWhile:
		return "while"
	case LoopDo:
		return "do"
	}
	return "?"
}

// Tree is the root of a parsed program.
type Tree struct {
	Statements []Statement
}

// StatementList groups the declarations of a single declaration statement
// such as `int a = 1, b;`. It does not open a scope.
type StatementList struct {
	Statements []Statement
}

// Block is a braced statement sequence and opens a new scope.
type Block struct {
	Statements []Statement
}

// ConditionalStatement is an if statement. Else may be nil.
type ConditionalStatement struct {
	Condition Expression
	Then      *Block
	Else      *Block
}

// Loop covers for, while and do-while loops. Init, Condition and Iteration
// may be nil; a missing condition loops forever.
type Loop struct {
	Loop      LoopKind
	Init      Statement
	Condition Expression
	Iteration Expression
	Body      *Block
}

type Keyword struct {
	Keyword KeywordKind
}

// CommaOperator evaluates each expression in order and yields the last.
type CommaOperator struct {
	Expressions []Expression
}

// AssignExpression is `Target = Value` when Op is OpEquals, otherwise the
// compound form `Target op= Value`.
type AssignExpression struct {
	Op     Operator
	Target Expression
	Value  Expression
}

type Crement struct {
	Decrement bool
	Post      bool
	Expr      Expression
}

type UnaryOperator struct {
	Op   Operator
	Expr Expression
}

type BinaryOperator struct {
	Op    Operator
	Left  Expression
	Right Expression
}

// TernaryOperator is `Condition ? True : False`. True is nil for the
// `Condition ?: False` form, which yields the condition when it holds.
type TernaryOperator struct {
	Condition Expression
	True      Expression
	False     Expression
}

type Cast struct {
	Type Type
	Expr Expression
}

type FunctionCall struct {
	Name string
	Args []Expression
}

// Attribute references per-element data bound by the caller. Inferred is set
// when no type prefix was written and Type defaulted to float.
type Attribute struct {
	Name     string
	Type     Type
	Inferred bool
}

// ExternalVariable references read-only data bound by the caller.
type ExternalVariable struct {
	Name string
	Type Type
}

type DeclareLocal struct {
	Type  Type
	Local *Local
	Init  Expression
}

type Local struct {
	Name string
}

type ArrayPack struct {
	Elements []Expression
}

// ArrayUnpack extracts the lane Index of Expr.
type ArrayUnpack struct {
	Expr  Expression
	Index Expression
}

type BoolValue struct {
	Value bool
}

// NumericValue is an integral or floating literal. Int holds the value for
// integral types and Float for floating ones.
type NumericValue struct {
	Type  Type
	Int   int64
	Float float64
}

// Category reports whether the literal is integral or floating.
func (v *NumericValue) Category() Category {
	return v.Type.Category()
}

type StringValue struct {
	Value string
}

func (*Tree) Kind() NodeKind                 { return NodeTree }
func (*StatementList) Kind() NodeKind        { return NodeStatementList }
func (*Block) Kind() NodeKind                { return NodeBlock }
func (*ConditionalStatement) Kind() NodeKind { return NodeConditional }
func (*Loop) Kind() NodeKind                 { return NodeLoop }
func (*Keyword) Kind() NodeKind              { return NodeKeyword }
func (*CommaOperator) Kind() NodeKind        { return NodeComma }
func (*AssignExpression) Kind() NodeKind     { return NodeAssign }
func (*Crement) Kind() NodeKind              { return NodeCrement }
func (*UnaryOperator) Kind() NodeKind        { return NodeUnary }
func (*BinaryOperator) Kind() NodeKind       { return NodeBinary }
func (*TernaryOperator) Kind() NodeKind      { return NodeTernary }
func (*Cast) Kind() NodeKind                 { return NodeCast }
func (*FunctionCall) Kind() NodeKind         { return NodeCall }
func (*Attribute) Kind() NodeKind            { return NodeAttribute }
func (*ExternalVariable) Kind() NodeKind     { return NodeExternal }
func (*DeclareLocal) Kind() NodeKind         { return NodeDeclareLocal }
func (*Local) Kind() NodeKind                { return NodeLocal }
func (*ArrayPack) Kind() NodeKind            { return NodeArrayPack }
func (*ArrayUnpack) Kind() NodeKind          { return NodeArrayUnpack }
func (*BoolValue) Kind() NodeKind            { return NodeBool }
func (*NumericValue) Kind() NodeKind         { return NodeNumeric }
func (*StringValue) Kind() NodeKind          { return NodeString }

func (*Tree) node()                 {}
func (*StatementList) node()        {}
func (*Block) node()                {}
func (*ConditionalStatement) node() {}
func (*Loop) node()                 {}
func (*Keyword) node()              {}
func (*CommaOperator) node()        {}
func (*AssignExpression) node()     {}
func (*Crement) node()              {}
func (*UnaryOperator) node()        {}
func (*BinaryOperator) node()       {}
func (*TernaryOperator) node()      {}
func (*Cast) node()                 {}
func (*FunctionCall) node()         {}
func (*Attribute) node()            {}
func (*ExternalVariable) node()     {}
func (*DeclareLocal) node()         {}
func (*Local) node()                {}
func (*ArrayPack) node()            {}
func (*ArrayUnpack) node()          {}
func (*BoolValue) node()            {}
func (*NumericValue) node()         {}
func (*StringValue) node()          {}

func (*StatementList) statementNode()        {}
func (*Block) statementNode()                {}
func (*ConditionalStatement) statementNode() {}
func (*Loop) statementNode()                 {}
func (*Keyword) statementNode()              {}
func (*DeclareLocal) statementNode()         {}
func (*CommaOperator) statementNode()        {}
func (*AssignExpression) statementNode()     {}
func (*Crement) statementNode()              {}
func (*UnaryOperator) statementNode()        {}
func (*BinaryOperator) statementNode()       {}
func (*TernaryOperator) statementNode()      {}
func (*Cast) statementNode()                 {}
func (*FunctionCall) statementNode()         {}
func (*Attribute) statementNode()            {}
func (*ExternalVariable) statementNode()     {}
func (*Local) statementNode()                {}
func (*ArrayPack) statementNode()            {}
func (*ArrayUnpack) statementNode()          {}
func (*BoolValue) statementNode()            {}
func (*NumericValue) statementNode()         {}
func (*StringValue) statementNode()          {}

func (*CommaOperator) expressionNode()    {}
func (*AssignExpression) expressionNode() {}
func (*Crement) expressionNode()          {}
func (*UnaryOperator) expressionNode()    {}
func (*BinaryOperator) expressionNode()   {}
func (*TernaryOperator) expressionNode()  {}
func (*Cast) expressionNode()             {}
func (*FunctionCall) expressionNode()     {}
func (*Attribute) expressionNode()        {}
func (*ExternalVariable) expressionNode() {}
func (*Local) expressionNode()            {}
func (*ArrayPack) expressionNode()        {}
func (*ArrayUnpack) expressionNode()      {}
func (*BoolValue) expressionNode()        {}
func (*NumericValue) expressionNode()     {}
func (*StringValue) expressionNode()      {}

// Children returns the direct children of n in evaluation order. Absent
// optional children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c == nil {
			return
		}
		out = append(out, c)
	}

	switch n := n.(type) {
	case *Tree:
		for _, s := range n.Statements {
			add(s)
		}
	case *StatementList:
		for _, s := range n.Statements {
			add(s)
		}
	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *ConditionalStatement:
		add(n.Condition)
		if n.Then != nil {
			add(n.Then)
		}
		if n.Else != nil {
			add(n.Else)
		}
	case *Loop:
		if n.Init != nil {
			add(n.Init)
		}
		if n.Condition != nil {
			add(n.Condition)
		}
		if n.Iteration != nil {
			add(n.Iteration)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *CommaOperator:
		for _, e := range n.Expressions {
			add(e)
		}
	case *AssignExpression:
		add(n.Target)
		add(n.Value)
	case *Crement:
		add(n.Expr)
	case *UnaryOperator:
		add(n.Expr)
	case *BinaryOperator:
		add(n.Left)
		add(n.Right)
	case *TernaryOperator:
		add(n.Condition)
		if n.True != nil {
			add(n.True)
		}
		add(n.False)
	case *Cast:
		add(n.Expr)
	case *FunctionCall:
		for _, a := range n.Args {
			add(a)
		}
	case *DeclareLocal:
		add(n.Local)
		if n.Init != nil {
			add(n.Init)
		}
	case *ArrayPack:
		for _, e := range n.Elements {
			add(e)
		}
	case *ArrayUnpack:
		add(n.Expr)
		add(n.Index)
	}
	return out
}
