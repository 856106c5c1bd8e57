package types

import (
	"strings"
)

// Method is a callable declaration as reported by the class model. For a
// variadic method the last entry of Params is the array type of the
// trailing parameter.
type Method struct {
	Name     string
	Owner    *Reference
	Params   []Type
	Return   Type
	Variadic bool
	Static   bool
	Public   bool
}

// FixedArity is the number of parameters that must be matched one to one.
func (m *Method) FixedArity() int {
	if m.Variadic {
		return len(m.Params) - 1
	}
	return len(m.Params)
}

// VariadicComponent returns the element type of the trailing variadic
// parameter.
func (m *Method) VariadicComponent() Type {
	if !m.Variadic || len(m.Params) == 0 {
		return nil
	}
	if arr, ok := m.Params[len(m.Params)-1].(*Array); ok {
		return arr.Component
	}
	return m.Params[len(m.Params)-1]
}

// AcceptsArity reports whether n arguments can bind to this declaration.
func (m *Method) AcceptsArity(n int) bool {
	if m.Variadic {
		return n >= m.FixedArity()
	}
	return n == len(m.Params)
}

func (m *Method) String() string {
	var sb strings.Builder
	if m.Static {
		sb.WriteString("static ")
	}
	if m.Return != nil {
		sb.WriteString(m.Return.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if m.Variadic && i == len(m.Params)-1 {
			sb.WriteString(m.VariadicComponent().String())
			sb.WriteString("...")
			continue
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
