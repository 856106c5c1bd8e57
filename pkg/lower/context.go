package lower

import (
	"strconv"

	"mvelc/pkg/parser"
	"mvelc/pkg/resolver"
	"mvelc/pkg/types"
)

// ContextKind is the shape of the container that backs input names.
type ContextKind int

const (
	MapContext ContextKind = iota
	ListContext
	PojoContext
)

func (k ContextKind) String() string {
	switch k {
	case MapContext:
		return "map"
	case ListContext:
		return "list"
	case PojoContext:
		return "pojo"
	}
	return "unknown"
}

// ParseContextKind reads "map", "list" or "pojo".
func ParseContextKind(s string) (ContextKind, bool) {
	switch s {
	case "map":
		return MapContext, true
	case "list":
		return ListContext, true
	case "pojo":
		return PojoContext, true
	}
	return 0, false
}

// Context describes the container that assignments to input names must be
// written back to.
type Context struct {
	Kind ContextKind
	Name string     // variable holding the container in emitted code
	Type types.Type // container type, used for accessor signatures
}

// writeBack makes an assignment to an input visible through the context.
// An assignment that is a whole statement is wrapped in put or set; one
// whose value is used, and every assignment in a POJO context, goes
// through a static contextSet accessor that returns the value written.
func (e *Engine) writeBack(n *parser.AssignmentExpression, b resolver.Binding, f *frame) (parser.Expression, types.Type, error) {
	tok := n.Token
	_, isStatement := f.parent.node.(*parser.ExpressionStatement)

	switch {
	case isStatement && e.context.Kind == MapContext:
		put := e.arena.NewMethodCall(tok, e.arena.Ident(tok, e.context.Name), "put",
			e.arena.StringLit(tok, b.Name), n)
		return put, b.Type, nil
	case isStatement && e.context.Kind == ListContext:
		set := e.arena.NewMethodCall(tok, e.arena.Ident(tok, e.context.Name), "set",
			e.arena.NumberLit(tok, strconv.Itoa(b.Index)), n)
		return set, b.Type, nil
	}

	acc, err := e.accessor(b, n)
	if err != nil {
		return nil, nil, err
	}
	value := n.Value
	if n.IsCompound() {
		value = e.arena.NewBinary(tok, e.arena.Clone(n.Target), n.BinaryOperator(), e.grouped(value))
		n.Operator = "="
	}
	n.Value = e.arena.NewMethodCall(tok, nil, acc.Name, e.arena.Ident(tok, e.context.Name), value)
	return n, b.Type, nil
}

// accessor returns the contextSet method for b, synthesizing it on first
// use. Each name gets at most one accessor per unit.
func (e *Engine) accessor(b resolver.Binding, at parser.Node) (*parser.MethodDeclaration, error) {
	if acc, ok := e.accessors[b.Name]; ok {
		return acc, nil
	}
	tok := at.GetToken()
	ctx := func() parser.Expression { return e.arena.Ident(tok, e.context.Name) }
	value := func() parser.Expression { return e.arena.Ident(tok, "value") }

	var write parser.Expression
	switch e.context.Kind {
	case MapContext:
		write = e.arena.NewMethodCall(tok, ctx(), "put", e.arena.StringLit(tok, b.Name), value())
	case ListContext:
		write = e.arena.NewMethodCall(tok, ctx(), "set", e.arena.NumberLit(tok, strconv.Itoa(b.Index)), value())
	case PojoContext:
		if setter, ok := e.resolver.FindSetter(e.context.Type, b.Name); ok {
			call := e.arena.NewMethodCall(tok, ctx(), setter.Name, value())
			call.Resolved = setter
			write = call
		} else if _, ok := e.resolver.FindPublicField(e.context.Type, b.Name); ok {
			write = e.arena.NewAssignment(tok, e.arena.NewFieldAccess(tok, ctx(), b.Name), "=", value())
		} else {
			return nil, unresolved(at, b.Name, e.context.Type)
		}
	}

	body := e.arena.NewBlock(tok,
		e.arena.NewExpressionStatement(tok, write),
		e.arena.NewReturn(tok, value()))
	params := []parser.Parameter{
		{TypeName: e.context.Type.String(), Name: e.context.Name},
		{TypeName: b.Type.String(), Name: "value"},
	}
	acc := e.arena.NewMethodDeclaration(tok, b.Type.String(), resolver.AccessorName("contextSet", b.Name), params, body)
	e.accessors[b.Name] = acc
	e.program.Accessors = append(e.program.Accessors, acc)
	debugPrintf("synthesized %s\n", acc.Signature())
	return acc, nil
}

// accessorType reports the return type of a synthesized accessor, so a
// second pass over a lowered unit leaves calls to it alone.
func (e *Engine) accessorType(name string) (types.Type, bool) {
	if e.program == nil {
		return nil, false
	}
	for _, acc := range e.program.Accessors {
		if acc.Name == name {
			t, err := e.resolver.ParseType(acc.ReturnType)
			return t, err == nil
		}
	}
	return nil, false
}
