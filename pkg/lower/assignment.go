package lower

import (
	"fmt"

	"mvelc/pkg/errors"
	"mvelc/pkg/parser"
	"mvelc/pkg/resolver"
	"mvelc/pkg/types"
)

// lowerAssignment dispatches on the shape of the target. The value has
// already been lowered.
func (e *Engine) lowerAssignment(n *parser.AssignmentExpression, f *frame) (parser.Expression, types.Type, error) {
	valueType, err := e.resolver.ResolveType(n.Value)
	if err != nil {
		return nil, nil, err
	}
	switch target := n.Target.(type) {
	case *parser.ArrayAccess:
		baseType, err := e.resolver.ResolveType(target.Base)
		if err != nil {
			return nil, nil, err
		}
		return e.assignIndexed(n, target.Base, baseType, target.Index, valueType)
	case *parser.FieldAccess:
		scopeType, err := e.resolver.ResolveType(target.Scope)
		if err != nil {
			return nil, nil, err
		}
		return e.assignProperty(n, target.Scope, scopeType, target.Name, valueType)
	case *parser.Name:
		return e.assignName(n, target, valueType, f)
	}
	return nil, nil, &errors.InternalError{Position: parser.PositionOf(n), Msg: fmt.Sprintf("invalid assignment target %T", n.Target)}
}

// assignIndexed lowers base[index] = value. Arrays keep bracket syntax;
// maps become put and lists become set. A compound operator reads the
// current element with get first.
func (e *Engine) assignIndexed(n *parser.AssignmentExpression, base parser.Expression, baseType types.Type, index parser.Expression, valueType types.Type) (parser.Expression, types.Type, error) {
	if arr, ok := baseType.(*types.Array); ok {
		return e.assignInPlace(n, arr.Component, valueType)
	}
	var setName string
	switch {
	case e.isMapLike(baseType):
		setName = "put"
	case e.isListLike(baseType):
		setName = "set"
	default:
		return nil, nil, unresolved(n.Target, "[]", baseType)
	}

	tok := n.Token
	read := e.arena.NewMethodCall(tok, e.arena.Clone(base), "get", e.arena.Clone(index))
	elemType, err := e.resolveCall(read, baseType)
	if err != nil {
		return nil, nil, err
	}

	value, vt := n.Value, valueType
	if n.IsCompound() {
		if value, vt, err = e.accumulate(tok, read, elemType, n.BinaryOperator(), value, vt); err != nil {
			return nil, nil, err
		}
	}
	if value, err = e.convert(value, vt, elemType, n); err != nil {
		return nil, nil, err
	}

	write := e.arena.NewMethodCall(tok, base, setName, index, value)
	if _, err := e.resolveCall(write, baseType); err != nil {
		return nil, nil, err
	}
	return write, elemType, nil
}

// assignProperty lowers scope.name = value through the setter, or keeps a
// direct write to a public field. scope is nil for a property of the
// implicit root object.
func (e *Engine) assignProperty(n *parser.AssignmentExpression, scope parser.Expression, scopeType types.Type, name string, valueType types.Type) (parser.Expression, types.Type, error) {
	tok := n.Token
	if scope != nil && e.isMapLike(scopeType) {
		return e.assignIndexed(n, scope, scopeType, e.arena.StringLit(tok, name), valueType)
	}

	if setter, ok := e.resolver.FindSetter(scopeType, name); ok {
		paramType := setter.Params[0]
		value, vt := n.Value, valueType
		var err error
		if n.IsCompound() {
			getter, ok := e.resolver.FindGetter(scopeType, name)
			if !ok {
				return nil, nil, unresolved(n.Target, resolver.AccessorName("get", name), scopeType)
			}
			read := e.arena.NewMethodCall(tok, e.arena.Clone(scope), getter.Name)
			read.Resolved = getter
			if value, vt, err = e.accumulate(tok, read, getter.Return, n.BinaryOperator(), value, vt); err != nil {
				return nil, nil, err
			}
		}
		if value, err = e.convert(value, vt, paramType, n); err != nil {
			return nil, nil, err
		}
		call := e.arena.NewMethodCall(tok, scope, setter.Name, value)
		call.Resolved = setter
		return call, paramType, nil
	}

	if fieldType, ok := e.resolver.FindPublicField(scopeType, name); ok {
		return e.assignInPlace(n, fieldType, valueType)
	}
	return nil, nil, unresolved(n.Target, name, scopeType)
}

// assignName lowers an assignment to a bare name. Root-object properties
// go through their setter; inputs are written back to the context.
func (e *Engine) assignName(n *parser.AssignmentExpression, target *parser.Name, valueType types.Type, f *frame) (parser.Expression, types.Type, error) {
	b, ok := e.resolver.Lookup(target.Value)
	if !ok {
		return nil, nil, unresolved(target, target.Value, nil)
	}
	if b.Kind == resolver.RootFieldBinding {
		return e.assignProperty(n, nil, e.resolver.RootType(), target.Value, valueType)
	}

	result, t, err := e.assignInPlace(n, b.Type, valueType)
	if err != nil {
		return nil, nil, err
	}
	if b.Kind == resolver.InputBinding && e.context != nil {
		return e.writeBack(n, b, f)
	}
	return result, t, nil
}

// assignInPlace handles targets that stay a target-language assignment: a
// variable, a public field or an array element. String targets and
// numeric pairs keep their operator; other compound operators are expanded
// to target = target <op> value so the arithmetic can be lowered.
func (e *Engine) assignInPlace(n *parser.AssignmentExpression, targetType, valueType types.Type) (parser.Expression, types.Type, error) {
	if types.MutuallyNumeric(targetType, valueType) {
		return n, targetType, nil
	}
	if n.IsCompound() && types.IsString(targetType) {
		return n, targetType, nil
	}

	value, vt := n.Value, valueType
	if n.IsCompound() {
		var err error
		read := e.arena.Clone(n.Target)
		if value, vt, err = e.accumulate(n.Token, read, targetType, n.BinaryOperator(), value, vt); err != nil {
			return nil, nil, err
		}
		n.Operator = "="
	}
	value, err := e.convert(value, vt, targetType, n)
	if err != nil {
		return nil, nil, err
	}
	n.Value = value
	return n, targetType, nil
}
