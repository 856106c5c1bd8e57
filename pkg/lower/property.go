package lower

import (
	"mvelc/pkg/errors"
	"mvelc/pkg/parser"
	"mvelc/pkg/resolver"
	"mvelc/pkg/types"
)

// lowerName turns a bare root-object property into an implicit-receiver
// getter call. Locals, inputs, class names and public root fields stay.
func (e *Engine) lowerName(n *parser.Name, f *frame) (parser.Expression, types.Type, error) {
	if b, ok := e.resolver.Lookup(n.Value); ok {
		if b.Kind != resolver.RootFieldBinding {
			return n, b.Type, nil
		}
		root := e.resolver.RootType()
		if t, ok := e.resolver.FindPublicField(root, n.Value); ok {
			return n, t, nil
		}
		getter, ok := e.resolver.FindGetter(root, n.Value)
		if !ok {
			return nil, nil, unresolved(n, n.Value, root)
		}
		call := e.arena.NewMethodCall(n.Token, nil, getter.Name)
		call.Resolved = getter
		return call, getter.Return, nil
	}

	t, err := e.resolver.ResolveType(n)
	if err == nil {
		return n, t, nil // class name used as a static qualifier
	}
	if isScopeOf(f.parent, n) {
		return n, nil, nil // leading segment of a qualified name
	}
	return nil, nil, unresolved(n, n.Value, nil)
}

// lowerFieldAccess rewrites scope.name into a map lookup or a getter call.
// Public fields are kept as direct access.
func (e *Engine) lowerFieldAccess(n *parser.FieldAccess, f *frame) (parser.Expression, types.Type, error) {
	scopeType, err := e.resolver.ResolveType(n.Scope)
	if err != nil {
		if t, qualifiedErr := e.resolver.ResolveType(n); qualifiedErr == nil {
			return n, t, nil // the whole chain names a class
		}
		if isScopeOf(f.parent, n) {
			return n, nil, nil
		}
		e.notice(&errors.AmbiguousPrefixError{Position: parser.PositionOf(n), Prefix: n.Scope.String(), Cause: err})
		return n, nil, nil
	}

	if e.isMapLike(scopeType) {
		get := e.arena.NewMethodCall(n.Token, n.Scope, "get", e.arena.StringLit(n.Token, n.Name))
		t, err := e.resolveCall(get, scopeType)
		if err != nil {
			return nil, nil, err
		}
		return get, t, nil
	}
	if t, ok := e.resolver.FindPublicField(scopeType, n.Name); ok {
		return n, t, nil
	}
	getter, ok := e.resolver.FindGetter(scopeType, n.Name)
	if !ok {
		return nil, nil, unresolved(n, n.Name, scopeType)
	}
	call := e.arena.NewMethodCall(n.Token, n.Scope, getter.Name)
	call.Resolved = getter
	return call, getter.Return, nil
}

// lowerArrayAccess keeps bracket syntax on arrays and turns indexing of
// maps and lists into get calls.
func (e *Engine) lowerArrayAccess(n *parser.ArrayAccess) (parser.Expression, types.Type, error) {
	baseType, err := e.resolver.ResolveType(n.Base)
	if err != nil {
		return nil, nil, err
	}
	if arr, ok := baseType.(*types.Array); ok {
		return n, arr.Component, nil
	}
	if !e.isMapLike(baseType) && !e.isListLike(baseType) {
		return nil, nil, unresolved(n, "[]", baseType)
	}
	get := e.arena.NewMethodCall(n.Token, n.Base, "get", n.Index)
	t, err := e.resolveCall(get, baseType)
	if err != nil {
		return nil, nil, err
	}
	return get, t, nil
}
