// Package codegen lowers an ast.Tree into a single IR kernel function.
//
// The ComputeGenerator walks the tree in post order: the operands of a node
// are generated before the node itself, and every expression leaves exactly
// one value on the generator's value stack. Blocks, conditionals, ternaries,
// loops and local declarations are traversed by hand, since they open scopes
// or create branches before their children can be generated.
package codegen

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/strager/axc/ast"
	"github.com/strager/axc/ir"
)

// ComputeKernelName is the name of the generated function. It takes the
// parameters named by ComputeKernelArgs and returns nothing.
const ComputeKernelName = "ax.compute"

// ComputeKernelArgs names the kernel parameters. The only one is an opaque
// pointer to the run-time context holding attributes and external variables.
var ComputeKernelArgs = []string{"ctx"}

// value is an entry of the value stack. Values read from storage remember
// the storage address so that they can be assigned to.
type value struct {
	id  ir.ValueID
	typ ast.Type // ast.TypeInvalid for calls without a result

	addr     ir.ValueID
	lane     ir.ValueID
	hasLane  bool
	readOnly bool
	name     string

	constant bool
	constInt int64
}

func (v value) rvalue() value {
	return value{id: v.id, typ: v.typ, constant: v.constant, constInt: v.constInt}
}

type loopTargets struct {
	breakTo    *ir.Block
	continueTo *ir.Block
}

// generationError carries the error that abandons generation up to
// Generate.
type generationError struct {
	err *Error
}

// ComputeGenerator generates the kernel function for a tree. An instance
// keeps mutable per-run state and must not be used concurrently; the
// registry and options are only read.
type ComputeGenerator struct {
	module     *ir.Module
	options    FunctionOptions
	registry   *FunctionRegistry
	logger     *Logger
	attributes Binding
	externals  Binding

	fn     *ir.Function
	b      *ir.Builder
	ctx    ir.ValueID
	values []value
	loops  []loopTargets
	scopes *SymbolTableBlocks
}

func NewComputeGenerator(module *ir.Module, options FunctionOptions, registry *FunctionRegistry, logger *Logger) *ComputeGenerator {
	if logger == nil {
		logger = NewLogger()
	}
	return &ComputeGenerator{
		module:     module,
		options:    options,
		registry:   registry,
		logger:     logger,
		attributes: defaultAttributeBinding(),
		externals:  defaultExternalBinding(),
		scopes:     NewSymbolTableBlocks(),
	}
}

// SetBindings replaces the attribute and external variable bindings. A nil
// binding keeps the current one.
func (g *ComputeGenerator) SetBindings(attributes, externals Binding) {
	if attributes != nil {
		g.attributes = attributes
	}
	if externals != nil {
		g.externals = externals
	}
}

// Globals holds a symbol for every attribute ("@name") and external
// variable ("$name") the last generated kernel accesses.
func (g *ComputeGenerator) Globals() *SymbolTable {
	return g.scopes.Globals()
}

// Function returns the kernel built by the last successful Generate.
func (g *ComputeGenerator) Function() *ir.Function {
	return g.fn
}

// Generate builds the kernel for tree into the module, replacing any kernel
// already there. On failure the error is logged, the partial function is
// removed from the module and false is returned.
func (g *ComputeGenerator) Generate(tree *ast.Tree) (ok bool) {
	if existing := g.module.Function(ComputeKernelName); existing != nil {
		g.module.Remove(existing)
	}
	g.fn = g.module.NewFunction(ComputeKernelName, ir.Void, ir.Param{Name: ComputeKernelArgs[0], Type: ir.Ptr})
	g.b = ir.NewBuilder(g.fn)
	g.ctx = g.fn.Params[0].ID
	g.values = nil
	g.loops = nil
	g.scopes = NewSymbolTableBlocks()

	defer func() {
		if r := recover(); r != nil {
			ge, isGenerationError := r.(generationError)
			if !isGenerationError {
				panic(r)
			}
			g.logger.Error(ge.err)
			g.module.Remove(g.fn)
			g.fn = nil
			ok = false
		}
	}()

	g.visit(tree)
	if !g.b.Terminated() {
		g.b.Ret()
	}
	if len(g.values) != 0 || g.scopes.Depth() != 0 || len(g.loops) != 0 {
		panic(fmt.Sprintf("codegen: unbalanced state after generation: %d values, %d scopes, %d loops",
			len(g.values), g.scopes.Depth(), len(g.loops)))
	}
	return true
}

func (g *ComputeGenerator) fail(kind ErrorKind, format string, args ...any) {
	g.failHint(kind, "", format, args...)
}

func (g *ComputeGenerator) failHint(kind ErrorKind, hint string, format string, args ...any) {
	panic(generationError{&Error{Kind: kind, Message: fmt.Sprintf(format, args...), Hint: hint}})
}

func (g *ComputeGenerator) push(v value) {
	g.values = append(g.values, v)
}

func (g *ComputeGenerator) pop() value {
	if len(g.values) == 0 {
		panic("codegen: value stack underflow")
	}
	v := g.values[len(g.values)-1]
	g.values = g.values[:len(g.values)-1]
	return v
}

// popN pops n values and returns them in push order.
func (g *ComputeGenerator) popN(n int) []value {
	if len(g.values) < n {
		panic("codegen: value stack underflow")
	}
	vals := make([]value, n)
	copy(vals, g.values[len(g.values)-n:])
	g.values = g.values[:len(g.values)-n]
	return vals
}

func (g *ComputeGenerator) requireValue(v value) {
	if v.typ == ast.TypeInvalid {
		g.fail(TypeError, "void value used in expression")
	}
}

// branchTo jumps to target unless the current block already ended.
func (g *ComputeGenerator) branchTo(target *ir.Block) {
	if !g.b.Terminated() {
		g.b.Br(target)
	}
}

// visit generates n. Nodes with custom traversal are handled first; all
// others have their children generated and then their own operation
// applied.
func (g *ComputeGenerator) visit(n ast.Node) {
	switch n := n.(type) {
	case *ast.Tree:
		g.scopes.Push()
		g.statements(n.Statements)
		g.scopes.Pop()
		return
	case *ast.StatementList:
		g.statements(n.Statements)
		return
	case *ast.Block:
		g.block(n)
		return
	case *ast.ConditionalStatement:
		g.conditional(n)
		return
	case *ast.TernaryOperator:
		g.ternary(n)
		return
	case *ast.Loop:
		g.loop(n)
		return
	case *ast.DeclareLocal:
		g.declareLocal(n)
		return
	}

	for _, child := range ast.Children(n) {
		g.visit(child)
	}
	g.apply(n)
}

// statement generates s and drops the value an expression statement leaves
// behind, restoring the value stack to its depth before s.
func (g *ComputeGenerator) statement(s ast.Statement) {
	if s == nil {
		return
	}
	depth := len(g.values)
	g.visit(s)
	want := depth
	if _, isExpression := s.(ast.Expression); isExpression {
		want++
	}
	if len(g.values) != want {
		panic(fmt.Sprintf("codegen: %s left %d values on the stack, want %d", s.Kind(), len(g.values)-depth, want-depth))
	}
	g.values = g.values[:depth]
}

func (g *ComputeGenerator) statements(list []ast.Statement) {
	for _, s := range list {
		g.statement(s)
	}
}

func (g *ComputeGenerator) block(n *ast.Block) {
	if n == nil {
		return
	}
	g.scopes.Push()
	g.statements(n.Statements)
	g.scopes.Pop()
}

func (g *ComputeGenerator) condition(e ast.Expression) ir.ValueID {
	g.visit(e)
	v := g.pop()
	g.requireValue(v)
	return g.truthy(v)
}

func (g *ComputeGenerator) conditional(n *ast.ConditionalStatement) {
	cond := g.condition(n.Condition)

	thenBlock := g.b.NewBlock("if.then")
	var elseBlock *ir.Block
	if n.Else != nil {
		elseBlock = g.b.NewBlock("if.else")
	}
	endBlock := g.b.NewBlock("if.end")
	if elseBlock == nil {
		g.b.CondBr(cond, thenBlock, endBlock)
	} else {
		g.b.CondBr(cond, thenBlock, elseBlock)
	}

	g.b.SetBlock(thenBlock)
	g.block(n.Then)
	g.branchTo(endBlock)

	if elseBlock != nil {
		g.b.SetBlock(elseBlock)
		g.block(n.Else)
		g.branchTo(endBlock)
	}
	g.b.SetBlock(endBlock)
}

// ternary branches on the condition and merges the two arms, converted to
// their common type, with a phi. `c ?: f` yields c itself when it holds.
func (g *ComputeGenerator) ternary(n *ast.TernaryOperator) {
	g.visit(n.Condition)
	condValue := g.pop()
	g.requireValue(condValue)
	cond := g.truthy(condValue)

	trueBlock := g.b.NewBlock("ternary.true")
	falseBlock := g.b.NewBlock("ternary.false")
	endBlock := g.b.NewBlock("ternary.end")
	g.b.CondBr(cond, trueBlock, falseBlock)

	g.b.SetBlock(trueBlock)
	tv := condValue.rvalue()
	if n.True != nil {
		g.visit(n.True)
		tv = g.pop()
	}
	trueEnd := g.b.Block()

	g.b.SetBlock(falseBlock)
	g.visit(n.False)
	fv := g.pop()
	falseEnd := g.b.Block()

	if tv.typ == ast.TypeInvalid && fv.typ == ast.TypeInvalid {
		g.b.SetBlock(trueEnd)
		g.b.Br(endBlock)
		g.b.SetBlock(falseEnd)
		g.b.Br(endBlock)
		g.b.SetBlock(endBlock)
		g.push(value{})
		return
	}
	g.requireValue(tv)
	g.requireValue(fv)
	typ, ok := commonType(tv.typ, fv.typ)
	if !ok {
		g.fail(TypeError, "ternary operands '%s' and '%s' have no common type", tv.typ, fv.typ)
	}

	g.b.SetBlock(trueEnd)
	tid := g.convert(tv, typ)
	g.b.Br(endBlock)
	g.b.SetBlock(falseEnd)
	fid := g.convert(fv, typ)
	g.b.Br(endBlock)

	g.b.SetBlock(endBlock)
	phi := g.b.Phi(IRType(typ),
		ir.PhiIncoming{Block: trueEnd.ID, Value: tid},
		ir.PhiIncoming{Block: falseEnd.ID, Value: fid},
	)
	g.push(value{id: phi, typ: typ})
}

// loop lowers for, while and do-while loops. The initializer gets its own
// scope, which lives until the whole loop has been generated.
func (g *ComputeGenerator) loop(n *ast.Loop) {
	g.scopes.Push()
	defer g.scopes.Pop()

	g.statement(n.Init)

	name := n.Loop.String()
	condBlock := g.b.NewBlock(name + ".cond")
	bodyBlock := g.b.NewBlock(name + ".body")
	var iterBlock *ir.Block
	if n.Loop == ast.LoopFor {
		iterBlock = g.b.NewBlock(name + ".iter")
	}
	endBlock := g.b.NewBlock(name + ".end")

	continueTo := condBlock
	if iterBlock != nil {
		continueTo = iterBlock
	}

	if n.Loop == ast.LoopDo {
		g.b.Br(bodyBlock)
	} else {
		g.b.Br(condBlock)
	}

	g.b.SetBlock(condBlock)
	if n.Condition != nil {
		g.b.CondBr(g.condition(n.Condition), bodyBlock, endBlock)
	} else {
		g.b.Br(bodyBlock)
	}

	g.b.SetBlock(bodyBlock)
	g.loops = append(g.loops, loopTargets{breakTo: endBlock, continueTo: continueTo})
	g.block(n.Body)
	g.loops = g.loops[:len(g.loops)-1]
	g.branchTo(continueTo)

	if iterBlock != nil {
		g.b.SetBlock(iterBlock)
		if n.Iteration != nil {
			g.statement(n.Iteration)
		}
		g.b.Br(condBlock)
	}
	g.b.SetBlock(endBlock)
}

// declareLocal allocates a zeroed slot for the local. The initializer is
// generated before the name is bound, so it still sees any outer binding
// of the same name.
func (g *ComputeGenerator) declareLocal(n *ast.DeclareLocal) {
	name := n.Local.Name
	scope := g.scopes.Current()
	if scope.Lookup(name) != nil {
		g.fail(ScopeError, "local variable '%s' has already been declared", name)
	}

	// The local is bound before its initializer runs, so the initializer
	// reads the fresh zero value rather than an outer binding.
	ptr := g.b.Alloca(IRType(n.Type))
	g.b.Store(ptr, g.zero(n.Type))
	scope.Declare(&Symbol{Name: name, Value: ptr, Type: n.Type})

	if n.Init != nil {
		g.visit(n.Init)
		v := g.pop()
		g.requireValue(v)
		g.b.Store(ptr, g.assignConvert(v, n.Type))
	}
}

func (g *ComputeGenerator) zero(t ast.Type) ir.ValueID {
	switch {
	case t == ast.TypeString:
		return g.b.ConstString("")
	case t.IsVector():
		lane := g.zero(t.Elem())
		lanes := make([]ir.ValueID, t.Len())
		for i := range lanes {
			lanes[i] = lane
		}
		return g.b.Pack(IRType(t), lanes...)
	}
	return g.constNumber(t, 0)
}

func (g *ComputeGenerator) constNumber(t ast.Type, n int64) ir.ValueID {
	switch t.Category() {
	case ast.CategoryBoolean:
		return g.b.ConstBool(n != 0)
	case ast.CategoryFloating:
		return g.b.ConstFloat(IRType(t), float64(n))
	}
	return g.b.ConstInt(IRType(t), n)
}

// apply generates the operation of a post-order node whose children have
// already left their values on the stack.
func (g *ComputeGenerator) apply(n ast.Node) {
	switch n := n.(type) {
	case *ast.BoolValue:
		g.push(value{id: g.b.ConstBool(n.Value), typ: ast.TypeBool})
	case *ast.NumericValue:
		g.numeric(n)
	case *ast.StringValue:
		g.push(value{id: g.b.ConstString(n.Value), typ: ast.TypeString})
	case *ast.Local:
		g.local(n)
	case *ast.Attribute:
		g.binding(n.Name, n.Type, false)
	case *ast.ExternalVariable:
		g.binding(n.Name, n.Type, true)
	case *ast.CommaOperator:
		vals := g.popN(len(n.Expressions))
		g.push(vals[len(vals)-1])
	case *ast.AssignExpression:
		g.assign(n)
	case *ast.Crement:
		g.crement(n)
	case *ast.UnaryOperator:
		g.unary(n.Op, g.pop())
	case *ast.BinaryOperator:
		r := g.pop()
		l := g.pop()
		g.push(g.binary(n.Op, l, r))
	case *ast.Cast:
		g.cast(n)
	case *ast.FunctionCall:
		args := g.popN(len(n.Args))
		g.push(g.call(n.Name, args, false))
	case *ast.ArrayPack:
		g.arrayPack(g.popN(len(n.Elements)))
	case *ast.ArrayUnpack:
		idx := g.pop()
		vec := g.pop()
		g.arrayUnpack(vec, idx)
	case *ast.Keyword:
		g.keyword(n)
	default:
		panic(fmt.Sprintf("codegen: unhandled node kind %s", n.Kind()))
	}
}

// numeric generates integral and floating literals through one path per
// arithmetic category.
func (g *ComputeGenerator) numeric(n *ast.NumericValue) {
	switch n.Category() {
	case ast.CategoryIntegral:
		g.push(value{
			id:       g.b.ConstInt(IRType(n.Type), n.Int),
			typ:      n.Type,
			constant: true,
			constInt: n.Int,
		})
	case ast.CategoryFloating:
		g.push(value{id: g.b.ConstFloat(IRType(n.Type), n.Float), typ: n.Type})
	default:
		panic(fmt.Sprintf("codegen: numeric literal of type %s", n.Type))
	}
}

func (g *ComputeGenerator) local(n *ast.Local) {
	sym := g.scopes.Find(n.Name)
	if sym == nil || strings.HasPrefix(sym.Name, "@") || strings.HasPrefix(sym.Name, "$") {
		g.failHint(ScopeError, closestMatch(n.Name, g.localNames()), "'%s' was not declared in this scope", n.Name)
	}
	g.push(value{id: g.b.Load(sym.Value), typ: sym.Type, addr: sym.Value, name: n.Name})
}

func (g *ComputeGenerator) localNames() []string {
	var names []string
	for _, name := range g.scopes.Visible() {
		if !strings.HasPrefix(name, "@") && !strings.HasPrefix(name, "$") {
			names = append(names, name)
		}
	}
	return names
}

// binding loads an attribute or external variable. The storage is bound once
// per kernel and cached in the global symbol table.
func (g *ComputeGenerator) binding(name string, typ ast.Type, external bool) {
	key := SlotName(external, name)
	what := "attribute"
	if external {
		what = "external variable"
	}

	globals := g.scopes.Globals()
	sym := globals.Lookup(key)
	if sym == nil {
		binding := g.attributes
		if external {
			binding = g.externals
		}
		ptr, err := binding.Bind(g.b, g.ctx, name, typ)
		if err != nil {
			if errors.Is(err, ErrUnbound) {
				var candidates []string
				if lister, ok := binding.(interface{ Names() []string }); ok {
					candidates = lister.Names()
				}
				g.failHint(ScopeError, closestMatch(name, candidates), "%s '%s' is not bound", what, key)
			}
			g.fail(TypeError, "%s '%s': %v", what, key, err)
		}
		sym = &Symbol{Name: key, Value: ptr, Type: typ, ReadOnly: external}
		globals.Declare(sym)
	} else if sym.Type != typ {
		g.fail(TypeError, "%s '%s' is accessed as both '%s' and '%s'", what, key, sym.Type, typ)
	}

	g.push(value{
		id:       g.b.Load(sym.Value),
		typ:      typ,
		addr:     sym.Value,
		readOnly: sym.ReadOnly,
		name:     key,
	})
}

// store writes id, already converted to the target's type, to the target's
// storage.
func (g *ComputeGenerator) store(target value, id ir.ValueID) {
	if target.readOnly {
		g.fail(TypeError, "cannot assign to read-only '%s'", target.name)
	}
	if target.addr == ir.InvalidValue {
		g.fail(TypeError, "expression is not assignable")
	}
	if target.hasLane {
		vec := g.b.Load(target.addr)
		g.b.Store(target.addr, g.b.Insert(vec, target.lane, id))
		return
	}
	g.b.Store(target.addr, id)
}

func (g *ComputeGenerator) assign(n *ast.AssignExpression) {
	v := g.pop()
	target := g.pop()
	g.requireValue(v)
	if n.Op != ast.OpEquals {
		v = g.binary(n.Op, target, v)
	}
	id := g.assignConvert(v, target.typ)
	g.store(target, id)
	g.push(value{id: id, typ: target.typ})
}

func (g *ComputeGenerator) crement(n *ast.Crement) {
	v := g.pop()
	switch v.typ.Category() {
	case ast.CategoryIntegral, ast.CategoryFloating:
	default:
		op := "increment"
		if n.Decrement {
			op = "decrement"
		}
		g.fail(TypeError, "cannot %s a value of type '%s'", op, v.typ)
	}
	op := ir.OpAdd
	if n.Decrement {
		op = ir.OpSub
	}
	updated := g.b.Binary(op, v.id, g.constNumber(v.typ, 1))
	g.store(v, updated)
	if n.Post {
		g.push(value{id: v.id, typ: v.typ})
	} else {
		g.push(value{id: updated, typ: v.typ})
	}
}

func (g *ComputeGenerator) unary(op ast.Operator, v value) {
	g.requireValue(v)
	switch op {
	case ast.OpNot:
		g.push(value{id: g.b.Unary(ir.OpNot, g.truthy(v)), typ: ast.TypeBool})
		return
	case ast.OpPlus, ast.OpMinus, ast.OpBitNot:
	default:
		panic(fmt.Sprintf("codegen: unary operator %s", op))
	}

	if v.typ == ast.TypeString {
		g.fail(TypeError, "invalid operand to unary %s: '%s'", op, v.typ)
	}
	if op == ast.OpBitNot && v.typ.Elem().Category() == ast.CategoryFloating {
		g.fail(TypeError, "operator ~ requires an integer operand, not '%s'", v.typ)
	}
	if v.typ == ast.TypeBool {
		v = value{id: g.convert(v, ast.TypeInt32), typ: ast.TypeInt32}
	}

	switch op {
	case ast.OpPlus:
		g.push(v.rvalue())
	case ast.OpMinus:
		g.push(value{
			id:       g.b.Unary(ir.OpNeg, v.id),
			typ:      v.typ,
			constant: v.constant,
			constInt: -v.constInt,
		})
	case ast.OpBitNot:
		g.push(value{id: g.b.Unary(ir.OpNot, v.id), typ: v.typ})
	}
}

var binaryOps = map[ast.Operator]ir.Op{
	ast.OpPlus:            ir.OpAdd,
	ast.OpMinus:           ir.OpSub,
	ast.OpMultiply:        ir.OpMul,
	ast.OpDivide:          ir.OpDiv,
	ast.OpModulo:          ir.OpRem,
	ast.OpBitAnd:          ir.OpAnd,
	ast.OpBitOr:           ir.OpOr,
	ast.OpBitXor:          ir.OpXor,
	ast.OpShiftLeft:       ir.OpShl,
	ast.OpShiftRight:      ir.OpShr,
	ast.OpEqualsEquals:    ir.OpEq,
	ast.OpNotEquals:       ir.OpNe,
	ast.OpMoreThan:        ir.OpGt,
	ast.OpLessThan:        ir.OpLt,
	ast.OpMoreThanOrEqual: ir.OpGe,
	ast.OpLessThanOrEqual: ir.OpLe,
}

// binary applies op to l and r after promoting both to their common type.
// Both operands of && and || have already been evaluated.
func (g *ComputeGenerator) binary(op ast.Operator, l, r value) value {
	g.requireValue(l)
	g.requireValue(r)

	if op.IsLogical() {
		lc, rc := g.truthy(l), g.truthy(r)
		irOp := ir.OpAnd
		if op == ast.OpOr {
			irOp = ir.OpOr
		}
		return value{id: g.b.Binary(irOp, lc, rc), typ: ast.TypeBool}
	}

	if l.typ == ast.TypeString || r.typ == ast.TypeString {
		return g.stringBinary(op, l, r)
	}

	typ, ok := commonType(l.typ, r.typ)
	if !ok {
		g.fail(TypeError, "invalid operands to binary %s: '%s' and '%s'", op, l.typ, r.typ)
	}
	irOp, ok := binaryOps[op]
	if !ok {
		panic(fmt.Sprintf("codegen: binary operator %s", op))
	}

	switch {
	case op.IsBitwise():
		if typ.Elem().Category() == ast.CategoryFloating {
			g.fail(TypeError, "operator %s requires integer operands, not '%s' and '%s'", op, l.typ, r.typ)
		}
		if typ == ast.TypeBool && (op == ast.OpShiftLeft || op == ast.OpShiftRight) {
			typ = ast.TypeInt32
		}
	case op == ast.OpEqualsEquals || op == ast.OpNotEquals:
	case op.IsComparison():
		if typ.IsVector() {
			g.fail(TypeError, "operator %s is not defined for '%s'", op, typ)
		}
		if typ == ast.TypeBool {
			typ = ast.TypeInt32
		}
	default:
		if typ == ast.TypeBool {
			typ = ast.TypeInt32
		}
	}

	res := g.b.Binary(irOp, g.convert(l, typ), g.convert(r, typ))
	if op.IsComparison() {
		return value{id: res, typ: ast.TypeBool}
	}
	return value{id: res, typ: typ}
}

// stringBinary handles concatenation and (in)equality of strings. Equality
// goes through the internal __string_eq function.
func (g *ComputeGenerator) stringBinary(op ast.Operator, l, r value) value {
	if l.typ != r.typ {
		g.fail(TypeError, "invalid operands to binary %s: '%s' and '%s'", op, l.typ, r.typ)
	}
	switch op {
	case ast.OpPlus:
		return value{id: g.b.Binary(ir.OpAdd, l.id, r.id), typ: ast.TypeString}
	case ast.OpEqualsEquals:
		return g.call(StringEqualFunction, []value{l.rvalue(), r.rvalue()}, true)
	case ast.OpNotEquals:
		eq := g.call(StringEqualFunction, []value{l.rvalue(), r.rvalue()}, true)
		return value{id: g.b.Unary(ir.OpNot, eq.id), typ: ast.TypeBool}
	}
	g.fail(TypeError, "operator %s is not defined for strings", op)
	return value{}
}

// truthy converts a scalar to bool: numbers are true when non-zero.
func (g *ComputeGenerator) truthy(v value) ir.ValueID {
	switch v.typ.Category() {
	case ast.CategoryBoolean:
		return v.id
	case ast.CategoryIntegral, ast.CategoryFloating:
		return g.b.Binary(ir.OpNe, v.id, g.constNumber(v.typ, 0))
	}
	g.fail(TypeError, "cannot convert '%s' to bool", v.typ)
	return ir.InvalidValue
}

// convert emits the conversion of v to to. The caller has checked that the
// conversion is allowed.
func (g *ComputeGenerator) convert(v value, to ast.Type) ir.ValueID {
	if v.typ == to {
		return v.id
	}
	if to.IsVector() && !v.typ.IsVector() {
		lane := g.b.Cast(v.id, IRType(to.Elem()))
		lanes := make([]ir.ValueID, to.Len())
		for i := range lanes {
			lanes[i] = lane
		}
		return g.b.Pack(IRType(to), lanes...)
	}
	if to == ast.TypeBool && isScalarNumber(v.typ) {
		return g.truthy(v)
	}
	return g.b.Cast(v.id, IRType(to))
}

// assignConvert converts v for storage in a value of type to, warning when
// the conversion may lose information.
func (g *ComputeGenerator) assignConvert(v value, to ast.Type) ir.ValueID {
	if !implicitlyConvertible(v.typ, to) {
		g.fail(TypeError, "cannot convert '%s' to '%s'", v.typ, to)
	}
	if v.typ != to && narrows(v.typ, to) {
		g.logger.Warning("implicit conversion from '%s' to '%s' may lose information", v.typ, to)
	}
	return g.convert(v, to)
}

func (g *ComputeGenerator) cast(n *ast.Cast) {
	v := g.pop()
	g.requireValue(v)
	from, to := v.typ, n.Type
	valid := from == to
	switch {
	case from == ast.TypeString || to == ast.TypeString:
	case isScalarNumber(from) && isScalarNumber(to):
		valid = true
	case isScalarNumber(from) && to.IsVector():
		valid = true
	case from.IsVector() && to.IsVector():
		valid = from.Len() == to.Len()
	}
	if !valid {
		g.fail(TypeError, "invalid cast from '%s' to '%s'", from, to)
	}
	g.push(value{id: g.convert(v, to), typ: to})
}

// call resolves name against the registry for the argument types and emits
// the chosen signature, inline or as a native call.
func (g *ComputeGenerator) call(name string, args []value, allowInternal bool) value {
	group := g.registry.Get(name, g.options, allowInternal)
	if group == nil {
		if existing, ok := g.registry.lookup(name); ok {
			if existing.Internal && !allowInternal {
				g.fail(ResolutionError, "function '%s' is internal and cannot be called", name)
			}
			g.fail(ResolutionError, "function '%s' has been disabled", name)
		}
		g.failHint(ResolutionError, closestMatch(name, g.registry.Names()), "unknown function '%s'", name)
	}

	types := make([]ast.Type, len(args))
	for i, a := range args {
		g.requireValue(a)
		types[i] = a.typ
	}
	sig, kind := group.Match(types)
	switch kind {
	case None:
		g.fail(ResolutionError, "no overload of '%s' accepts (%s)", name, typeList(types))
	case Ambiguous:
		g.fail(ResolutionError, "call to '%s' with (%s) is ambiguous", name, typeList(types))
	}

	ids := make([]ir.ValueID, len(args))
	for i, a := range args {
		if kind == Implicit && narrows(a.typ, sig.Params[i]) {
			g.logger.Warning("argument %d of '%s' converted from '%s' to '%s'", i+1, name, a.typ, sig.Params[i])
		}
		ids[i] = g.convert(a, sig.Params[i])
	}

	var res ir.ValueID
	switch {
	case sig.Gen != nil && (g.options.PrioritiseIR || sig.Symbol == ""):
		res = sig.Gen(g.b, ids)
	case sig.Symbol != "":
		res = g.b.Call(sig.Symbol, IRType(sig.Return), ids...)
	default:
		panic(fmt.Sprintf("codegen: signature %s of %s has no implementation", sig, name))
	}
	return value{id: res, typ: sig.Return}
}

// arrayPack packs scalars into the vector type of their promoted element.
func (g *ComputeGenerator) arrayPack(elems []value) {
	if len(elems) < 2 || len(elems) > 4 {
		g.fail(TypeError, "cannot pack %d elements into a vector", len(elems))
	}
	elem := ast.TypeInt32
	for _, e := range elems {
		g.requireValue(e)
		if !isScalarNumber(e.typ) {
			g.fail(TypeError, "cannot pack a value of type '%s'", e.typ)
		}
		elem = higher(elem, e.typ)
	}
	if elem == ast.TypeInt64 {
		elem = ast.TypeDouble
	}
	typ := ast.VectorOf(elem, len(elems))
	ids := make([]ir.ValueID, len(elems))
	for i, e := range elems {
		ids[i] = g.convert(e, elem)
	}
	g.push(value{id: g.b.Pack(IRType(typ), ids...), typ: typ})
}

// arrayUnpack extracts one lane. Constant indices are range checked here;
// other indices are checked when the kernel runs.
func (g *ComputeGenerator) arrayUnpack(vec, idx value) {
	g.requireValue(vec)
	g.requireValue(idx)
	if !vec.typ.IsVector() {
		g.fail(TypeError, "cannot index a value of type '%s'", vec.typ)
	}
	if idx.typ.Category() != ast.CategoryIntegral {
		g.fail(TypeError, "index must be an integer, not '%s'", idx.typ)
	}
	if idx.constant && (idx.constInt < 0 || idx.constInt >= int64(vec.typ.Len())) {
		g.fail(IndexError, "index %d is out of range for '%s'", idx.constInt, vec.typ)
	}
	// The full index width reaches the run-time range check.
	lane := idx.id
	g.push(value{
		id:       g.b.Extract(vec.id, lane),
		typ:      vec.typ.Elem(),
		addr:     vec.addr,
		lane:     lane,
		hasLane:  vec.addr != ir.InvalidValue,
		readOnly: vec.readOnly,
		name:     vec.name,
	})
}

// keyword jumps out of the current path; anything generated after it goes
// into a fresh unreachable block.
func (g *ComputeGenerator) keyword(n *ast.Keyword) {
	switch n.Keyword {
	case ast.KeywordReturn:
		g.b.Ret()
	case ast.KeywordBreak, ast.KeywordContinue:
		if len(g.loops) == 0 {
			g.fail(ScopeError, "%s statement outside of a loop", n.Keyword)
		}
		top := g.loops[len(g.loops)-1]
		if n.Keyword == ast.KeywordBreak {
			g.b.Br(top.breakTo)
		} else {
			g.b.Br(top.continueTo)
		}
	}
	g.b.SetBlock(g.b.NewBlock("unreachable"))
}
