package lower

import (
	"mvelc/pkg/parser"
	"mvelc/pkg/types"
)

// lowerVariableDeclaration coerces the initializer to the declared type
// and declares the local. "var" takes the initializer's type.
func (e *Engine) lowerVariableDeclaration(n *parser.VariableDeclaration) (parser.Expression, types.Type, error) {
	var initType types.Type
	if n.Init != nil {
		t, err := e.resolver.ResolveType(n.Init)
		if err != nil {
			return nil, nil, err
		}
		initType = t
	}

	declared := initType
	if n.TypeName != "var" {
		t, err := e.resolver.ParseType(n.TypeName)
		if err != nil {
			return nil, nil, unresolved(n, n.TypeName, nil)
		}
		declared = t
	} else if declared == nil || types.IsNull(declared) {
		return nil, nil, unresolved(n, n.Name, nil)
	}

	if n.Init != nil && !types.MutuallyNumeric(declared, initType) {
		init, err := e.convert(n.Init, initType, declared, n)
		if err != nil {
			return nil, nil, err
		}
		n.Init = init
	}
	e.resolver.DeclareLocal(n.Name, declared)
	return n, declared, nil
}

// lowerCast keeps casts the target language accepts and replaces the ones
// it does not with a coercion, so (BigDecimal) 10 becomes
// BigDecimal.valueOf(10).
func (e *Engine) lowerCast(n *parser.CastExpression) (parser.Expression, types.Type, error) {
	target, err := e.resolver.ParseType(n.TypeName)
	if err != nil {
		return nil, nil, unresolved(n, n.TypeName, nil)
	}
	source, err := e.resolver.ResolveType(n.Expression)
	if err != nil {
		return nil, nil, err
	}
	if types.MutuallyNumeric(source, target) ||
		types.IsAssignable(source, target, e.resolver) ||
		types.IsAssignable(target, source, e.resolver) {
		return n, target, nil
	}
	if coerced, ok := e.coercions.Coerce(e.arena, source, n.Expression, target); ok {
		return coerced, target, nil
	}
	return n, target, nil
}

// lowerArrayCreation coerces the size to int and every element to the
// component type.
func (e *Engine) lowerArrayCreation(n *parser.ArrayCreation) (parser.Expression, types.Type, error) {
	elem, err := e.resolver.ParseType(n.ElementType)
	if err != nil {
		return nil, nil, unresolved(n, n.ElementType, nil)
	}
	if n.Size != nil {
		st, err := e.resolver.ResolveType(n.Size)
		if err != nil {
			return nil, nil, err
		}
		if !types.IsIntegral(st) {
			if n.Size, err = e.convert(n.Size, st, types.Int, n.Size); err != nil {
				return nil, nil, err
			}
		}
	}
	for i, el := range n.Elements {
		et, err := e.resolver.ResolveType(el)
		if err != nil {
			return nil, nil, err
		}
		if types.MutuallyNumeric(et, elem) {
			continue
		}
		if n.Elements[i], err = e.convert(el, et, elem, el); err != nil {
			return nil, nil, err
		}
	}
	return n, &types.Array{Component: elem}, nil
}

// lowerUnary turns negation of an arbitrary-precision value into negate().
func (e *Engine) lowerUnary(n *parser.UnaryExpression) (parser.Expression, types.Type, error) {
	if n.Operator == "!" {
		return n, types.Boolean, nil
	}
	t, err := e.resolver.ResolveType(n.Operand)
	if err != nil {
		return nil, nil, err
	}
	if n.Operator == "-" && types.IsBigNumber(t) {
		return e.arena.NewMethodCall(n.Token, e.grouped(n.Operand), "negate"), t, nil
	}
	if p, ok := types.Promote(t, types.Int); ok {
		return n, p, nil
	}
	return n, t, nil
}
