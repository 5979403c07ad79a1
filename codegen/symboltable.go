package codegen

import (
	"sort"

	"github.com/strager/axc/ast"
	"github.com/strager/axc/ir"
)

// Symbol binds a name to the address of its storage.
type Symbol struct {
	Name     string
	Value    ir.ValueID // pointer to the storage
	Type     ast.Type
	ReadOnly bool
}

// SymbolTable maps names to symbols for a single scope.
type SymbolTable struct {
	symbols map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Declare adds sym. It returns false, leaving the table unchanged, when the
// name is already declared in this table.
func (st *SymbolTable) Declare(sym *Symbol) bool {
	if _, exists := st.symbols[sym.Name]; exists {
		return false
	}
	st.symbols[sym.Name] = sym
	return true
}

func (st *SymbolTable) Lookup(name string) *Symbol {
	return st.symbols[name]
}

// Names returns the declared names in sorted order.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.symbols))
	for name := range st.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// SymbolTableBlocks is the scope stack. Index 0 is the global table, which is
// never popped; each nested block pushes a table on top of it.
type SymbolTableBlocks struct {
	tables []*SymbolTable
}

func NewSymbolTableBlocks() *SymbolTableBlocks {
	return &SymbolTableBlocks{tables: []*SymbolTable{NewSymbolTable()}}
}

func (b *SymbolTableBlocks) Push() *SymbolTable {
	st := NewSymbolTable()
	b.tables = append(b.tables, st)
	return st
}

// Pop removes the innermost table. The global table cannot be popped.
func (b *SymbolTableBlocks) Pop() {
	if len(b.tables) == 1 {
		panic("codegen: pop of global symbol table")
	}
	b.tables = b.tables[:len(b.tables)-1]
}

// Depth is the number of tables above the global one.
func (b *SymbolTableBlocks) Depth() int {
	return len(b.tables) - 1
}

func (b *SymbolTableBlocks) Current() *SymbolTable {
	return b.tables[len(b.tables)-1]
}

func (b *SymbolTableBlocks) Globals() *SymbolTable {
	return b.tables[0]
}

// Find looks name up from the innermost table outwards.
func (b *SymbolTableBlocks) Find(name string) *Symbol {
	for i := len(b.tables) - 1; i >= 0; i-- {
		if sym := b.tables[i].Lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}

// Visible returns every name reachable from the innermost scope.
func (b *SymbolTableBlocks) Visible() []string {
	seen := make(map[string]bool)
	var names []string
	for i := len(b.tables) - 1; i >= 0; i-- {
		for _, name := range b.tables[i].Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
