package codegen

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/strager/axc/ast"
	"github.com/strager/axc/ir"
)

// ErrUnbound is returned by a Binding for names it does not provide.
var ErrUnbound = errors.New("unbound")

// Binding provides storage for attributes or external variables. Bind
// returns a pointer to the storage of name holding a value of typ, emitting
// whatever instructions that takes into b.
type Binding interface {
	Bind(b *ir.Builder, ctx ir.ValueID, name string, typ ast.Type) (ir.ValueID, error)
}

// ContextBinding maps names onto named slots of the run-time context passed
// to the kernel. Slot names are Prefix followed by the name.
type ContextBinding struct {
	Prefix string
	// Declared restricts the names that bind, and their types. A nil map
	// binds every name with any type.
	Declared map[string]ast.Type
}

func (c *ContextBinding) Bind(b *ir.Builder, ctx ir.ValueID, name string, typ ast.Type) (ir.ValueID, error) {
	if c.Declared != nil {
		declared, ok := c.Declared[name]
		if !ok {
			return ir.InvalidValue, ErrUnbound
		}
		if declared != typ {
			return ir.InvalidValue, errors.Errorf("%s%s is declared as %s, not %s", c.Prefix, name, declared, typ)
		}
	}
	return b.ContextSlot(ctx, c.Prefix+name, IRType(typ)), nil
}

// Names lists the declared names, for diagnostics.
func (c *ContextBinding) Names() []string {
	names := make([]string, 0, len(c.Declared))
	for name := range c.Declared {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SlotName is the context slot an attribute or external variable named
// name is stored under by the default bindings.
func SlotName(external bool, name string) string {
	if external {
		return fmt.Sprintf("$%s", name)
	}
	return fmt.Sprintf("@%s", name)
}

func defaultAttributeBinding() Binding {
	return &ContextBinding{Prefix: "@"}
}

func defaultExternalBinding() Binding {
	return &ContextBinding{Prefix: "$"}
}
