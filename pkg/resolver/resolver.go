// Package resolver answers the type questions the lowering pass asks about
// a compilation unit: what type an expression has, which members a class
// declares, and what a bare name is bound to.
package resolver

import (
	"mvelc/pkg/errors"
	"mvelc/pkg/parser"
	"mvelc/pkg/types"
)

// BindingKind classifies what a bare name refers to.
type BindingKind int

const (
	// LocalBinding is a variable declared in the unit itself.
	LocalBinding BindingKind = iota
	// InputBinding is an external input that must be written back through
	// the context container on assignment.
	InputBinding
	// RootFieldBinding is a property of the implicit root object.
	RootFieldBinding
)

func (k BindingKind) String() string {
	switch k {
	case LocalBinding:
		return "local"
	case InputBinding:
		return "input"
	case RootFieldBinding:
		return "root field"
	}
	return "unknown"
}

// Binding is what Lookup reports for a bare name.
type Binding struct {
	Name  string
	Type  types.Type
	Kind  BindingKind
	Index int // position of an input in a list-backed context
}

// TypeResolver is the contract the lowering pass relies on.
type TypeResolver interface {
	types.Hierarchy

	// ResolveType returns the static type of expr. It fails when a name or
	// member along the way cannot be resolved.
	ResolveType(expr parser.Expression) (types.Type, error)
	// ParseType resolves a source-level type name.
	ParseType(name string) (types.Type, error)

	FindPublicField(t types.Type, name string) (types.Type, bool)
	FindGetter(t types.Type, name string) (*types.Method, bool)
	FindSetter(t types.Type, name string) (*types.Method, bool)
	// FindCandidateMethods lists the declarations named name visible on t,
	// in declaration order, subclass first. Constructors are listed under
	// ConstructorName.
	FindCandidateMethods(t types.Type, name string) []*types.Method
	// SubstituteTypeVariable binds the class type variables in param using
	// the generic arguments of receiver.
	SubstituteTypeVariable(param, receiver types.Type) types.Type

	Lookup(name string) (Binding, bool)
	DeclareLocal(name string, t types.Type)
	// RootType is the type of the implicit root object, nil when the unit
	// has none.
	RootType() types.Type
}

// Resolver is the TypeResolver backed by a class model.
type Resolver struct {
	model  *Model
	root   types.Type
	inputs map[string]Binding
	locals map[string]types.Type
}

var _ TypeResolver = (*Resolver)(nil)

// New creates a resolver for one unit. root may be nil.
func New(model *Model, root types.Type, inputs ...Binding) *Resolver {
	r := &Resolver{
		model:  model,
		root:   root,
		inputs: make(map[string]Binding, len(inputs)),
		locals: make(map[string]types.Type),
	}
	for _, in := range inputs {
		in.Kind = InputBinding
		r.inputs[in.Name] = in
	}
	return r
}

// Model returns the class model the resolver reads.
func (r *Resolver) Model() *Model { return r.model }

func (r *Resolver) RootType() types.Type { return r.root }

func (r *Resolver) IsSubtype(sub, super types.Type) bool {
	return r.model.IsSubtype(sub, super)
}

func (r *Resolver) ParseType(name string) (types.Type, error) {
	return r.model.ParseType(name)
}

// --- Bindings ---

func (r *Resolver) Lookup(name string) (Binding, bool) {
	if t, ok := r.locals[name]; ok {
		return Binding{Name: name, Type: t, Kind: LocalBinding}, true
	}
	if b, ok := r.inputs[name]; ok {
		return b, true
	}
	if r.root != nil {
		if t, ok := r.FindPublicField(r.root, name); ok {
			return Binding{Name: name, Type: t, Kind: RootFieldBinding}, true
		}
		if g, ok := r.FindGetter(r.root, name); ok {
			return Binding{Name: name, Type: g.Return, Kind: RootFieldBinding}, true
		}
	}
	return Binding{}, false
}

func (r *Resolver) DeclareLocal(name string, t types.Type) {
	debugPrintf("DeclareLocal: %s %s\n", t, name)
	r.locals[name] = t
}

// --- Members ---

// reference returns the class type behind t, boxing primitives.
func reference(t types.Type) (*types.Reference, bool) {
	switch tt := t.(type) {
	case *types.Reference:
		return tt, true
	case *types.Primitive:
		return types.Box(tt)
	case *types.Array, *types.TypeVariable:
		return types.Object, true
	}
	return nil, false
}

func (r *Resolver) FindPublicField(t types.Type, name string) (types.Type, bool) {
	if _, ok := t.(*types.Array); ok {
		return types.Int, name == "length"
	}
	ref, ok := t.(*types.Reference)
	if !ok {
		return nil, false
	}
	f, ok := r.model.field(ref, name)
	if !ok || !f.Public {
		return nil, false
	}
	return types.Erase(f.Type), true
}

func (r *Resolver) FindCandidateMethods(t types.Type, name string) []*types.Method {
	ref, ok := reference(t)
	if !ok {
		return nil
	}
	if name == ConstructorName {
		c, ok := r.model.Class(ref.Name)
		if !ok {
			return nil
		}
		return c.Constructors
	}
	return r.model.methods(ref, name)
}

func (r *Resolver) SubstituteTypeVariable(param, receiver types.Type) types.Type {
	ref, ok := receiver.(*types.Reference)
	if !ok || len(ref.Args) == 0 {
		return param
	}
	c, ok := r.model.Class(ref.Name)
	if !ok {
		return param
	}
	return types.Substitute(param, c.TypeParams, ref.Args)
}

// bind returns meth with its parameter and return types bound to receiver
// and any leftover type variables erased.
func (r *Resolver) bind(meth *types.Method, receiver types.Type) *types.Method {
	cp := *meth
	cp.Params = make([]types.Type, len(meth.Params))
	for i, p := range meth.Params {
		cp.Params[i] = types.Erase(r.SubstituteTypeVariable(p, receiver))
	}
	if meth.Return != nil {
		cp.Return = types.Erase(r.SubstituteTypeVariable(meth.Return, receiver))
	}
	return &cp
}

// FindGetter finds getName(), or isName() returning boolean or Boolean.
func (r *Resolver) FindGetter(t types.Type, name string) (*types.Method, bool) {
	for _, m := range r.FindCandidateMethods(t, AccessorName("get", name)) {
		if len(m.Params) == 0 && !m.Static && m.Public && !m.Return.Equals(types.Void) {
			return r.bind(m, t), true
		}
	}
	for _, m := range r.FindCandidateMethods(t, AccessorName("is", name)) {
		if len(m.Params) == 0 && !m.Static && m.Public && types.IsBoolean(m.Return) {
			return r.bind(m, t), true
		}
	}
	return nil, false
}

// FindSetter finds setName(x). When overloaded, the setter taking the
// getter's type is preferred.
func (r *Resolver) FindSetter(t types.Type, name string) (*types.Method, bool) {
	var setters []*types.Method
	for _, m := range r.FindCandidateMethods(t, AccessorName("set", name)) {
		if len(m.Params) == 1 && !m.Static && m.Public {
			setters = append(setters, r.bind(m, t))
		}
	}
	if len(setters) == 0 {
		return nil, false
	}
	if g, ok := r.FindGetter(t, name); ok {
		for _, s := range setters {
			if s.Params[0].Equals(g.Return) {
				return s, true
			}
		}
	}
	return setters[0], true
}

// MapView returns t seen as java.util.Map, when it is one.
func (r *Resolver) MapView(t types.Type) (*types.Reference, bool) {
	return r.view(t, types.Map.Name)
}

// ListView returns t seen as java.util.List, when it is one.
func (r *Resolver) ListView(t types.Type) (*types.Reference, bool) {
	return r.view(t, types.List.Name)
}

func (r *Resolver) view(t types.Type, super string) (*types.Reference, bool) {
	ref, ok := t.(*types.Reference)
	if !ok {
		return nil, false
	}
	return r.model.AsSuper(ref, super)
}

func unresolved(n parser.Node, symbol string, receiver types.Type, cause error) *errors.UnresolvedSymbolError {
	e := &errors.UnresolvedSymbolError{Position: parser.PositionOf(n), Symbol: symbol, Cause: cause}
	if receiver != nil {
		e.Receiver = receiver.String()
	}
	return e
}
