package lsys

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind is the stable type tag of a module, used for rule matching.
//
// Kinds are compared by exact string equality. A module's kind is distinct
// from its display name: the kind identifies the symbol class, the name is
// presentation only.
type Kind string

// Value is a sealed interface over the scalar types a module may expose as
// diagnostic attributes. Only String, Int, Float, and Bool implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// String is a string-valued attribute scalar.
type String string

func (String) value() {}

// Int is an integer-valued attribute scalar. Always int64.
type Int int64

func (Int) value() {}

// Float is a floating-point attribute scalar.
type Float float64

func (Float) value() {}

// Bool is a boolean attribute scalar.
type Bool bool

func (Bool) value() {}

// Attr is one named diagnostic attribute. Modules declare their attributes
// as an explicit ordered list fixed at definition time; nothing is
// discovered by reflection at runtime.
type Attr struct {
	Name  string
	Value Value
}

// Module is a typed symbol occupying one position in a state sequence.
//
// Implementations must be immutable values: once constructed, a module is
// never mutated, only replaced by production. The engine matches on Kind
// alone; attributes are diagnostic payload.
type Module interface {
	// Kind returns the stable type tag used for rule matching.
	Kind() Kind
}

// Named is implemented by modules carrying a display label distinct from
// their kind. An empty label falls back to the kind.
type Named interface {
	DisplayName() string
}

// Attributed is implemented by modules exposing diagnostic attributes.
// The returned slice is the module's declared attribute list; callers must
// not mutate it.
type Attributed interface {
	Attrs() []Attr
}

// Renderable is implemented by modules that declare drawing commands for a
// downstream interpretation layer. The engine reads the list for display
// and tracing but never executes any command.
type Renderable interface {
	RenderCommands() []string
}

// reservedAttr reports whether name is a bookkeeping field excluded from
// diagnostic listings.
func reservedAttr(name string) bool {
	return name == "name"
}

// DisplayName returns the module's display label, falling back to its kind
// when the module declares none.
func DisplayName(m Module) string {
	if n, ok := m.(Named); ok && n.DisplayName() != "" {
		return n.DisplayName()
	}
	return string(m.Kind())
}

// DescribeModule renders a one-line description of a module for error
// messages and traces: the display name followed by the visible attributes
// in sorted order, e.g. "cell(age=3, size=0.5)".
func DescribeModule(m Module) string {
	if m == nil {
		return "<none>"
	}
	names := attrNames(m)
	if len(names) == 0 {
		return DisplayName(m)
	}

	var b strings.Builder
	b.WriteString(DisplayName(m))
	b.WriteByte('(')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := attrValue(m, name)
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(v)
	}
	b.WriteByte(')')
	return b.String()
}

// attrNames returns the visible attribute names of m in sorted order.
// Bookkeeping fields and modules without attributes yield nil.
func attrNames(m Module) []string {
	a, ok := m.(Attributed)
	if !ok {
		return nil
	}
	attrs := a.Attrs()
	if len(attrs) == 0 {
		return nil
	}

	names := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		if reservedAttr(attr.Name) {
			continue
		}
		names = append(names, attr.Name)
	}
	slices.Sort(names)
	return names
}

// attrValue renders the named visible attribute of m.
// Returns ok=false for bookkeeping fields and undeclared names.
func attrValue(m Module, name string) (string, bool) {
	if reservedAttr(name) {
		return "", false
	}
	a, ok := m.(Attributed)
	if !ok {
		return "", false
	}
	for _, attr := range a.Attrs() {
		if attr.Name == name {
			return FormatValue(attr.Value), true
		}
	}
	return "", false
}

// FormatValue renders a scalar for display. Numeric values use the bounded
// attribute precision: at most two integer digits and three fraction
// digits, with a minimum of one integer digit and trailing fraction zeros
// trimmed. Non-numeric values pass through unchanged.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case String:
		return string(val)
	case Bool:
		return strconv.FormatBool(bool(val))
	case Int:
		return boundNumeric(strconv.FormatInt(int64(val), 10))
	case Float:
		return boundNumeric(strconv.FormatFloat(float64(val), 'f', 3, 64))
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// boundNumeric applies the display bounds to a plain decimal string:
// integer digits past the second are dropped from the high end, fraction
// digits are already rounded to three by the caller and trailing zeros are
// trimmed here.
func boundNumeric(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(intPart) > 2 {
		intPart = strings.TrimLeft(intPart[len(intPart)-2:], "0")
		if intPart == "" {
			intPart = "0"
		}
	}

	fracPart = strings.TrimRight(fracPart, "0")
	if fracPart == "" {
		if intPart == "0" {
			return "0"
		}
		return sign + intPart
	}
	return sign + intPart + "." + fracPart
}
