package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/strager/axc/ast"
	"github.com/strager/axc/codegen"
	"github.com/strager/axc/ir"
)

// Assignment is an initial value for a context slot.
type Assignment struct {
	Slot  string // "@name" or "$name"
	Type  ast.Type
	Value any
}

// ParseAssignment parses `type@name=value` or `type$name=value`, where type
// is a type name or one of the binding prefixes (f, i, s, v). Vector values
// separate their lanes with commas.
func ParseAssignment(s string) (Assignment, error) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return Assignment{}, errors.Errorf("%q: expected type@name=value", s)
	}
	lhs, raw := s[:eq], s[eq+1:]

	sigil := strings.IndexAny(lhs, "@$")
	if sigil <= 0 || sigil == len(lhs)-1 {
		return Assignment{}, errors.Errorf("%q: expected type@name or type$name before '='", s)
	}
	typ, ok := ast.TypeFromPrefix(lhs[:sigil])
	if !ok {
		return Assignment{}, errors.Errorf("%q: unknown type %q", s, lhs[:sigil])
	}

	value, err := parseValue(typ, raw)
	if err != nil {
		return Assignment{}, errors.Wrapf(err, "%q", s)
	}
	return Assignment{
		Slot:  codegen.SlotName(lhs[sigil] == '$', lhs[sigil+1:]),
		Type:  typ,
		Value: value,
	}, nil
}

func parseValue(t ast.Type, raw string) (any, error) {
	if t.IsVector() {
		parts := strings.Split(raw, ",")
		if len(parts) != t.Len() {
			return nil, errors.Errorf("%s needs %d comma separated lanes, got %d", t, t.Len(), len(parts))
		}
		lanes := make([]any, len(parts))
		for i, p := range parts {
			lane, err := parseValue(t.Elem(), strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			lanes[i] = lane
		}
		return lanes, nil
	}

	switch t.Category() {
	case ast.CategoryBoolean:
		return strconv.ParseBool(raw)
	case ast.CategoryIntegral:
		return strconv.ParseInt(raw, 0, codegen.IRType(t).Kind.Bits())
	case ast.CategoryFloating:
		return strconv.ParseFloat(raw, 64)
	}
	return raw, nil
}

// Apply stores the assignment in ctx.
func (a Assignment) Apply(ctx *ir.Context) error {
	return ctx.Set(a.Slot, codegen.IRType(a.Type), a.Value)
}

// FormatSlots renders every slot of ctx as `name: type = value`, one per
// line, in name order.
func FormatSlots(ctx *ir.Context) string {
	var sb strings.Builder
	for _, name := range ctx.Names() {
		t, _ := ctx.Type(name)
		v, _ := ctx.Get(name)
		fmt.Fprintf(&sb, "%s: %s = %s\n", name, t, ir.FormatValue(v))
	}
	return sb.String()
}
