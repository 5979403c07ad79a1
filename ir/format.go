package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatModule renders every function of m in a stable text form.
func FormatModule(m *Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", m.Name)
	for _, fn := range m.Functions {
		sb.WriteString("\n")
		sb.WriteString(FormatFunction(fn))
	}
	return sb.String()
}

// FormatFunction renders a function with one instruction per line.
func FormatFunction(fn *Function) string {
	var sb strings.Builder
	sb.WriteString("fn ")
	sb.WriteString(fn.Name)
	sb.WriteString("(")
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %%%d: %s", p.Name, p.ID, p.Type)
	}
	sb.WriteString(") -> ")
	sb.WriteString(fn.Return.String())
	sb.WriteString(" {\n")
	for _, b := range fn.Blocks {
		fmt.Fprintf(&sb, "%s:\n", blockLabel(fn, b.ID))
		for _, in := range b.Instrs {
			sb.WriteString("  ")
			sb.WriteString(formatInstr(fn, in))
			sb.WriteString("\n")
		}
		sb.WriteString("  ")
		sb.WriteString(formatTerm(fn, b.Term))
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func blockLabel(fn *Function, id BlockID) string {
	if b := fn.Block(id); b != nil && b.Name != "" {
		return fmt.Sprintf("%s%d", b.Name, id)
	}
	return fmt.Sprintf("b%d", id)
}

func value(v ValueID) string {
	return "%" + strconv.Itoa(int(v))
}

func values(vs []ValueID) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = value(v)
	}
	return strings.Join(parts, ", ")
}

func formatInstr(fn *Function, in Instr) string {
	def := func(v ValueID) string {
		return fmt.Sprintf("%s: %s = ", value(v), fn.TypeOf(v))
	}
	switch i := in.(type) {
	case *Const:
		lit := fmt.Sprint(i.Value)
		if s, ok := i.Value.(string); ok {
			lit = strconv.Quote(s)
		}
		return def(i.Result) + "const " + lit
	case *Binary:
		return def(i.Result) + fmt.Sprintf("%s %s, %s", i.Op, value(i.Left), value(i.Right))
	case *Unary:
		return def(i.Result) + fmt.Sprintf("%s %s", i.Op, value(i.X))
	case *Cast:
		return def(i.Result) + fmt.Sprintf("cast %s to %s", value(i.X), i.To)
	case *Select:
		return def(i.Result) + fmt.Sprintf("select %s, %s, %s", value(i.Cond), value(i.True), value(i.False))
	case *Alloca:
		return def(i.Result) + "alloca " + i.Type.String()
	case *Load:
		return def(i.Result) + "load " + value(i.Addr)
	case *Store:
		return fmt.Sprintf("store %s, %s", value(i.Value), value(i.Addr))
	case *Pack:
		return def(i.Result) + "pack " + values(i.Elems)
	case *Extract:
		return def(i.Result) + fmt.Sprintf("extract %s[%s]", value(i.Vec), value(i.Index))
	case *Insert:
		return def(i.Result) + fmt.Sprintf("insert %s[%s], %s", value(i.Vec), value(i.Index), value(i.Elem))
	case *Call:
		call := fmt.Sprintf("call %s(%s)", i.Target, values(i.Args))
		if i.Result == InvalidValue {
			return call
		}
		return def(i.Result) + call
	case *ContextSlot:
		return def(i.Result) + fmt.Sprintf("slot %s, %q: %s", value(i.Ctx), i.Name, i.Type)
	case *Phi:
		parts := make([]string, len(i.Incoming))
		for n, inc := range i.Incoming {
			parts[n] = fmt.Sprintf("[%s, %s]", blockLabel(fn, inc.Block), value(inc.Value))
		}
		return def(i.Result) + "phi " + strings.Join(parts, ", ")
	}
	return fmt.Sprintf("<unknown %T>", in)
}

func formatTerm(fn *Function, t Term) string {
	switch t := t.(type) {
	case nil:
		return "<no terminator>"
	case *Ret:
		if t.HasValue {
			return "ret " + value(t.Value)
		}
		return "ret"
	case *Br:
		return "br " + blockLabel(fn, t.Target)
	case *CondBr:
		return fmt.Sprintf("condbr %s, %s, %s", value(t.Cond), blockLabel(fn, t.Then), blockLabel(fn, t.Else))
	case *Unreachable:
		return "unreachable"
	}
	return fmt.Sprintf("<unknown %T>", t)
}
