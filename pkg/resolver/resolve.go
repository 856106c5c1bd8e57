package resolver

import (
	"fmt"

	"mvelc/pkg/coercion"
	"mvelc/pkg/errors"
	"mvelc/pkg/operators"
	"mvelc/pkg/parser"
	"mvelc/pkg/types"
)

// ResolveType computes the static type of expr from the bindings and the
// class model. A Name or a qualified FieldAccess chain that spells a class
// resolves to that class, for static member access.
func (r *Resolver) ResolveType(expr parser.Expression) (types.Type, error) {
	switch n := expr.(type) {
	case *parser.Literal:
		t, ok := coercion.LiteralType(n)
		if !ok {
			return nil, &errors.InternalError{Position: parser.PositionOf(n), Msg: fmt.Sprintf("malformed literal %q", n.Value)}
		}
		return t, nil

	case *parser.Name:
		if b, ok := r.Lookup(n.Value); ok {
			return b.Type, nil
		}
		if c, ok := r.model.Class(n.Value); ok {
			return c.Type(), nil
		}
		return nil, unresolved(n, n.Value, nil, nil)

	case *parser.FieldAccess:
		return r.resolveFieldAccess(n)

	case *parser.ArrayAccess:
		base, err := r.ResolveType(n.Base)
		if err != nil {
			return nil, err
		}
		if arr, ok := base.(*types.Array); ok {
			return arr.Component, nil
		}
		if view, ok := r.MapView(base); ok {
			return types.Erase(types.TypeArg(view, 1)), nil
		}
		if view, ok := r.ListView(base); ok {
			return types.Erase(types.TypeArg(view, 0)), nil
		}
		return nil, unresolved(n, "[]", base, nil)

	case *parser.MethodCall:
		return r.resolveCall(n)

	case *parser.ObjectCreation:
		t, err := r.ParseType(n.TypeName)
		if err != nil {
			return nil, unresolved(n, n.TypeName, nil, err)
		}
		return t, nil

	case *parser.ArrayCreation:
		elem, err := r.ParseType(n.ElementType)
		if err != nil {
			return nil, unresolved(n, n.ElementType, nil, err)
		}
		return &types.Array{Component: elem}, nil

	case *parser.CastExpression:
		t, err := r.ParseType(n.TypeName)
		if err != nil {
			return nil, unresolved(n, n.TypeName, nil, err)
		}
		return t, nil

	case *parser.VariableDeclaration:
		if n.TypeName == "var" {
			if n.Init == nil {
				return nil, unresolved(n, n.Name, nil, fmt.Errorf("var declaration without initializer"))
			}
			return r.ResolveType(n.Init)
		}
		t, err := r.ParseType(n.TypeName)
		if err != nil {
			return nil, unresolved(n, n.TypeName, nil, err)
		}
		return t, nil

	case *parser.AssignmentExpression:
		return r.ResolveType(n.Target)

	case *parser.BinaryExpression:
		return r.resolveBinary(n)

	case *parser.ParenExpression:
		return r.ResolveType(n.Inner)

	case *parser.UnaryExpression:
		if n.Operator == "!" {
			return types.Boolean, nil
		}
		t, err := r.ResolveType(n.Operand)
		if err != nil {
			return nil, err
		}
		if p, ok := types.Promote(t, types.Int); ok && !types.IsBigNumber(t) {
			return p, nil
		}
		return t, nil
	}
	return nil, &errors.InternalError{Position: parser.PositionOf(expr), Msg: fmt.Sprintf("cannot resolve type of %T", expr)}
}

func (r *Resolver) resolveFieldAccess(n *parser.FieldAccess) (types.Type, error) {
	scope, err := r.ResolveType(n.Scope)
	if err != nil {
		if qualified, ok := QualifiedName(n); ok {
			if c, ok := r.model.Class(qualified); ok {
				return c.Type(), nil
			}
		}
		return nil, err
	}
	if view, ok := r.MapView(scope); ok {
		return types.Erase(types.TypeArg(view, 1)), nil
	}
	if t, ok := r.FindPublicField(scope, n.Name); ok {
		return t, nil
	}
	if g, ok := r.FindGetter(scope, n.Name); ok {
		return g.Return, nil
	}
	return nil, unresolved(n, n.Name, scope, nil)
}

// QualifiedName spells a chain of names joined by '.', such as
// java.math.BigDecimal, or reports false when expr is not such a chain.
func QualifiedName(expr parser.Expression) (string, bool) {
	switch n := expr.(type) {
	case *parser.Name:
		return n.Value, true
	case *parser.FieldAccess:
		prefix, ok := QualifiedName(n.Scope)
		if !ok {
			return "", false
		}
		return prefix + "." + n.Name, true
	}
	return "", false
}

// ReceiverType resolves the receiver of a call: the root object for an
// implicit receiver, the boxed class for a primitive.
func (r *Resolver) ReceiverType(call *parser.MethodCall) (types.Type, error) {
	if call.Scope == nil {
		if r.root == nil {
			return nil, unresolved(call, call.Name, nil, nil)
		}
		return r.root, nil
	}
	t, err := r.ResolveType(call.Scope)
	if err != nil {
		return nil, err
	}
	if p, ok := t.(*types.Primitive); ok {
		if boxed, ok := types.Box(p); ok {
			return boxed, nil
		}
	}
	return t, nil
}

func (r *Resolver) resolveCall(n *parser.MethodCall) (types.Type, error) {
	recv, err := r.ReceiverType(n)
	if err != nil {
		return nil, err
	}
	if n.Resolved != nil {
		return r.bind(n.Resolved, recv).Return, nil
	}
	candidates := r.FindCandidateMethods(recv, n.Name)
	if len(candidates) == 0 {
		return nil, unresolved(n, n.Name, recv, nil)
	}

	args := make([]types.Type, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i], _ = r.ResolveType(a)
	}
	var fallback *types.Method
	for _, c := range candidates {
		if !c.AcceptsArity(len(args)) {
			continue
		}
		bound := r.bind(c, recv)
		if fallback == nil {
			fallback = bound
		}
		if r.accepts(bound, args) {
			return bound.Return, nil
		}
	}
	if fallback == nil {
		return nil, unresolved(n, n.Name, recv, fmt.Errorf("no declaration takes %d arguments", len(args)))
	}
	return fallback.Return, nil
}

func (r *Resolver) accepts(m *types.Method, args []types.Type) bool {
	for i, a := range args {
		var param types.Type
		if i < m.FixedArity() {
			param = m.Params[i]
		} else {
			param = m.VariadicComponent()
		}
		if !types.IsAssignable(a, param, r) {
			return false
		}
	}
	return true
}

func (r *Resolver) resolveBinary(n *parser.BinaryExpression) (types.Type, error) {
	switch n.Operator {
	case "&&", "||", "==", "!=", "<", "<=", ">", ">=":
		return types.Boolean, nil
	}
	left, err := r.ResolveType(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := r.ResolveType(n.Right)
	if err != nil {
		return nil, err
	}
	if n.Operator == "+" && (types.IsString(left) || types.IsString(right)) {
		return types.String, nil
	}
	if subject, ok := operators.SubjectOf(left, right); ok {
		return operators.ResultType(subject, n.Operator), nil
	}
	if p, ok := types.Promote(left, right); ok {
		return p, nil
	}
	return nil, &errors.NoCoercionError{Position: parser.PositionOf(n), From: right.String(), To: left.String()}
}
