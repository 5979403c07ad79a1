package codegen

import (
	"fmt"
	"slices"
	"sort"

	"github.com/strager/axc/ast"
	"github.com/strager/axc/ir"
)

// GenFunc emits the inline IR implementation of a function signature.
type GenFunc func(b *ir.Builder, args []ir.ValueID) ir.ValueID

// Signature is one overload of a function. A signature is implemented by a
// native Symbol, by inline IR (Gen), or both. Return is ast.TypeInvalid for
// functions without a result.
type Signature struct {
	Params []ast.Type
	Return ast.Type
	Symbol string
	Gen    GenFunc
}

func (s *Signature) String() string {
	ret := "void"
	if s.Return != ast.TypeInvalid {
		ret = s.Return.Name()
	}
	return fmt.Sprintf("%s(%s)", ret, typeList(s.Params))
}

func typeList(types []ast.Type) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += ", "
		}
		out += t.Name()
	}
	return out
}

// FunctionGroup is a named set of overloads. Internal groups are only
// resolvable by the generator itself, never from user call sites.
type FunctionGroup struct {
	Name       string
	Doc        string
	Internal   bool
	Signatures []*Signature
}

// MatchKind describes how call arguments matched a group's signatures.
type MatchKind int

const (
	None MatchKind = iota
	Exact
	Implicit
	Ambiguous
)

func (k MatchKind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Implicit:
		return "implicit"
	case Ambiguous:
		return "ambiguous"
	}
	return "none"
}

// conversionCost scores an implicit argument conversion; -1 when none
// exists. Narrowing conversions cost more than any widening one.
func conversionCost(from, to ast.Type) int {
	if from == to {
		return 0
	}
	if !implicitlyConvertible(from, to) {
		return -1
	}
	cost := rank(to) - rank(from)
	if cost < 0 {
		cost = 100 - cost
	}
	if from.IsVector() != to.IsVector() {
		cost += 10
	}
	return cost + 1
}

// Match picks the signature for the argument types. An exact match always
// wins; otherwise the implicit match with the lowest total conversion cost
// is chosen, and a tie between the best candidates is ambiguous.
func (g *FunctionGroup) Match(args []ast.Type) (*Signature, MatchKind) {
	var best *Signature
	bestCost, tied := -1, false
	for _, sig := range g.Signatures {
		if len(sig.Params) != len(args) {
			continue
		}
		if slices.Equal(sig.Params, args) {
			return sig, Exact
		}
		total := 0
		for i, p := range sig.Params {
			c := conversionCost(args[i], p)
			if c < 0 {
				total = -1
				break
			}
			total += c
		}
		switch {
		case total < 0:
		case best == nil || total < bestCost:
			best, bestCost, tied = sig, total, false
		case total == bestCost:
			tied = true
		}
	}
	switch {
	case best == nil:
		return nil, None
	case tied:
		return nil, Ambiguous
	}
	return best, Implicit
}

// FunctionOptions configures which functions are resolvable and how they
// are emitted.
type FunctionOptions struct {
	// PrioritiseIR emits a signature's inline IR when it also has a native
	// symbol.
	PrioritiseIR bool
	// Disabled names groups that may not be called.
	Disabled []string
}

func DefaultFunctionOptions() FunctionOptions {
	return FunctionOptions{PrioritiseIR: true}
}

func (o FunctionOptions) disabled(name string) bool {
	return slices.Contains(o.Disabled, name)
}

// FunctionRegistry holds the callable function groups by name. It is not
// modified by generation and may be shared between generators.
type FunctionRegistry struct {
	groups map[string]*FunctionGroup
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{groups: make(map[string]*FunctionGroup)}
}

// Insert adds a group. Registering the same name twice panics.
func (r *FunctionRegistry) Insert(g *FunctionGroup) {
	if _, exists := r.groups[g.Name]; exists {
		panic(fmt.Sprintf("codegen: function %q registered twice", g.Name))
	}
	r.groups[g.Name] = g
}

// Get returns the named group, or nil when it does not exist, is disabled
// by options, or is internal and allowInternal is false.
func (r *FunctionRegistry) Get(name string, options FunctionOptions, allowInternal bool) *FunctionGroup {
	g, ok := r.groups[name]
	if !ok || options.disabled(name) {
		return nil
	}
	if g.Internal && !allowInternal {
		return nil
	}
	return g
}

// Names returns the user-callable group names in sorted order.
func (r *FunctionRegistry) Names() []string {
	var names []string
	for name, g := range r.groups {
		if !g.Internal {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *FunctionRegistry) lookup(name string) (*FunctionGroup, bool) {
	g, ok := r.groups[name]
	return g, ok
}
