package lower

import (
	"mvelc/pkg/errors"
	"mvelc/pkg/parser"
	"mvelc/pkg/resolver"
	"mvelc/pkg/types"
)

// candidate is one declaration that survived scoring for a call site.
type candidate struct {
	method *types.Method
	args   []parser.Expression // arguments with coercions applied
	cost   int                 // number of coerced arguments
}

// lowerMethodCall boxes a primitive receiver and resolves the overload.
func (e *Engine) lowerMethodCall(n *parser.MethodCall) (parser.Expression, types.Type, error) {
	var recv types.Type
	if n.Scope == nil {
		if t, ok := e.accessorType(n.Name); ok {
			return n, t, nil
		}
	}
	if n.Scope == nil {
		recv = e.resolver.RootType()
		if recv == nil {
			return nil, nil, unresolved(n, n.Name, nil)
		}
	} else {
		t, err := e.resolver.ResolveType(n.Scope)
		if err != nil {
			return nil, nil, err
		}
		recv = t
		if p, ok := t.(*types.Primitive); ok {
			boxed, ok := types.Box(p)
			if !ok {
				return nil, nil, unresolved(n, n.Name, t)
			}
			n.Scope = e.arena.StaticCall(n.Scope.GetToken(), boxed.SimpleName(), "valueOf", parser.Unparen(n.Scope))
			recv = boxed
		}
	}
	t, err := e.resolveCall(n, recv)
	if err != nil {
		return nil, nil, err
	}
	return n, t, nil
}

// lowerObjectCreation resolves the constructor overload.
func (e *Engine) lowerObjectCreation(n *parser.ObjectCreation) (parser.Expression, types.Type, error) {
	t, err := e.resolver.ParseType(n.TypeName)
	if err != nil {
		return nil, nil, unresolved(n, n.TypeName, nil)
	}
	if len(e.resolver.FindCandidateMethods(t, resolver.ConstructorName)) == 0 && len(n.Arguments) == 0 {
		return n, t, nil // implicit default constructor
	}
	best, err := e.selectOverload(n, t, resolver.ConstructorName, n.Arguments)
	if err != nil {
		return nil, nil, err
	}
	n.Arguments = best.args
	n.Resolved = best.method
	return n, t, nil
}

// resolveCall picks the overload for call on recv, splices the coerced
// arguments into the call and records the declaration on it. It returns
// the call's type.
func (e *Engine) resolveCall(call *parser.MethodCall, recv types.Type) (types.Type, error) {
	best, err := e.selectOverload(call, recv, call.Name, call.Arguments)
	if err != nil {
		return nil, err
	}
	call.Arguments = best.args
	call.Resolved = best.method
	debugPrintf("resolved %s -> %s (cost %d)\n", call, best.method, best.cost)
	return types.Erase(e.resolver.SubstituteTypeVariable(best.method.Return, recv)), nil
}

// selectOverload scores every same-name declaration whose arity fits and
// returns the cheapest. A declaration that needs no coercion ends the
// search; otherwise the first declaration with the lowest cost wins.
func (e *Engine) selectOverload(at parser.Node, recv types.Type, name string, args []parser.Expression) (*candidate, error) {
	decls := e.resolver.FindCandidateMethods(recv, name)
	if len(decls) == 0 {
		return nil, unresolved(at, name, recv)
	}

	argTypes := make([]types.Type, len(args))
	for i, a := range args {
		t, err := e.resolver.ResolveType(a)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}

	var best *candidate
	for _, d := range decls {
		if !d.AcceptsArity(len(args)) {
			continue
		}
		c, ok := e.score(d, recv, args, argTypes)
		if !ok {
			continue
		}
		if c.cost == 0 {
			return c, nil
		}
		if best == nil || c.cost < best.cost {
			best = c
		}
	}
	if best != nil {
		return best, nil
	}

	err := &errors.NoViableOverloadError{Position: parser.PositionOf(at), Method: name, Receiver: recv.String()}
	for _, t := range argTypes {
		err.ArgTypes = append(err.ArgTypes, t.String())
	}
	for _, d := range decls {
		err.Signatures = append(err.Signatures, d.String())
	}
	return nil, err
}

// score matches args against d. Arguments past the fixed arity of a
// variadic declaration bind to its component type, except that a single
// trailing array may be passed as the array itself.
func (e *Engine) score(d *types.Method, recv types.Type, args []parser.Expression, argTypes []types.Type) (*candidate, bool) {
	param := func(i int) types.Type {
		return types.Erase(e.resolver.SubstituteTypeVariable(d.Params[i], recv))
	}

	passArray := false
	if d.Variadic && len(args) == len(d.Params) {
		passArray = types.IsAssignable(argTypes[len(args)-1], param(len(d.Params)-1), e.resolver)
	}

	c := &candidate{method: d, args: make([]parser.Expression, len(args))}
	for i, arg := range args {
		var p types.Type
		switch {
		case i < d.FixedArity() || passArray:
			p = param(i)
		default:
			p = types.Erase(e.resolver.SubstituteTypeVariable(d.VariadicComponent(), recv))
		}
		if types.IsAssignable(argTypes[i], p, e.resolver) {
			c.args[i] = arg
			continue
		}
		coerced, ok := e.coercions.Coerce(e.arena, argTypes[i], arg, p)
		if !ok {
			return nil, false
		}
		c.args[i] = coerced
		c.cost++
	}
	return c, true
}
