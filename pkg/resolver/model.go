package resolver

import (
	"fmt"
	"strings"

	"mvelc/pkg/types"
)

const resolverDebug = false

func debugPrintf(format string, args ...interface{}) {
	if resolverDebug {
		fmt.Printf("[Resolver] "+format, args...)
	}
}

// Field is a declared field of a class.
type Field struct {
	Name   string
	Type   types.Type
	Public bool
	Static bool
}

// Class is the reflection metadata of one host class: its fields, methods
// and constructors, in declaration order.
type Class struct {
	Name         string // canonical name
	TypeParams   []string
	Supertypes   []*types.Reference // expressed in this class's type parameters
	Fields       []*Field
	Methods      []*types.Method
	Constructors []*types.Method // named "<init>"
}

// Type returns the raw reference type of the class.
func (c *Class) Type() *types.Reference {
	return types.NewReference(c.Name)
}

// Model is the class model the resolver consults. Classes are looked up by
// canonical name or by simple name; the first class registered under a
// simple name keeps it.
type Model struct {
	classes map[string]*Class
	simple  map[string]string
	order   []string
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		classes: make(map[string]*Class),
		simple:  make(map[string]string),
	}
}

// Add registers a class, replacing any class with the same canonical name.
func (m *Model) Add(c *Class) {
	if _, exists := m.classes[c.Name]; !exists {
		m.order = append(m.order, c.Name)
	}
	m.classes[c.Name] = c
	simple := types.SimpleName(c.Name)
	if _, taken := m.simple[simple]; !taken {
		m.simple[simple] = c.Name
	}
	debugPrintf("Add: %s (%d fields, %d methods)\n", c.Name, len(c.Fields), len(c.Methods))
}

// Class looks a class up by canonical or simple name.
func (m *Model) Class(name string) (*Class, bool) {
	if c, ok := m.classes[name]; ok {
		return c, true
	}
	if canonical, ok := m.simple[name]; ok {
		return m.classes[canonical], true
	}
	return nil, false
}

// Classes returns the registered classes in registration order.
func (m *Model) Classes() []*Class {
	out := make([]*Class, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.classes[name])
	}
	return out
}

// Canonical maps a simple or qualified class name to its canonical form.
// Unknown names are returned unchanged.
func (m *Model) Canonical(name string) string {
	if c, ok := m.Class(name); ok {
		return c.Name
	}
	return name
}

// ParseType reads a source-level type name against the model. Every class
// it names must be known.
func (m *Model) ParseType(s string, typeParams ...string) (types.Type, error) {
	t, err := types.Parse(strings.TrimSpace(s), m.Canonical, typeParams...)
	if err != nil {
		return nil, err
	}
	if missing := m.firstUnknown(t); missing != "" {
		return nil, fmt.Errorf("unknown class %s", missing)
	}
	return t, nil
}

func (m *Model) firstUnknown(t types.Type) string {
	switch tt := t.(type) {
	case *types.Array:
		return m.firstUnknown(tt.Component)
	case *types.Reference:
		if _, ok := m.classes[tt.Name]; !ok {
			return tt.Name
		}
		for _, arg := range tt.Args {
			if missing := m.firstUnknown(arg); missing != "" {
				return missing
			}
		}
	}
	return ""
}

// --- Hierarchy ---

// IsSubtype reports whether sub is super or one of its transitive
// supertypes. Erased names are compared; every reference is an Object.
func (m *Model) IsSubtype(sub, super types.Type) bool {
	sr, ok := sub.(*types.Reference)
	if !ok {
		return false
	}
	if super.Equals(types.Object) || sr.Key() == super.Key() {
		return true
	}
	_, found := m.AsSuper(sr, super.Key())
	return found
}

// AsSuper views t as its supertype named super, with the generic arguments
// carried through the inheritance chain. HashMap<String,Integer> viewed as
// java.util.Map is Map<String,Integer>.
func (m *Model) AsSuper(t *types.Reference, super string) (*types.Reference, bool) {
	return m.asSuper(t, super, make(map[string]bool))
}

func (m *Model) asSuper(t *types.Reference, super string, seen map[string]bool) (*types.Reference, bool) {
	if t.Name == super {
		return t, true
	}
	if seen[t.Name] {
		return nil, false
	}
	seen[t.Name] = true
	c, ok := m.classes[t.Name]
	if !ok {
		return nil, false
	}
	for _, st := range c.Supertypes {
		bound, ok := types.Substitute(st, c.TypeParams, t.Args).(*types.Reference)
		if !ok {
			continue
		}
		if view, ok := m.asSuper(bound, super, seen); ok {
			return view, true
		}
	}
	return nil, false
}

// methods collects the declarations named name visible on t, subclass
// declarations first. Inherited declarations are re-expressed in t's own
// type parameters, so one substitution against the receiver binds them.
func (m *Model) methods(t *types.Reference, name string) []*types.Method {
	var out []*types.Method
	seen := make(map[string]bool)
	m.collectMethods(types.NewReference(t.Name, m.selfArgs(t.Name)...), name, seen, make(map[string]bool), &out)
	return out
}

func (m *Model) selfArgs(name string) []types.Type {
	c, ok := m.classes[name]
	if !ok {
		return nil
	}
	args := make([]types.Type, len(c.TypeParams))
	for i, p := range c.TypeParams {
		args[i] = &types.TypeVariable{Name: p}
	}
	return args
}

func (m *Model) collectMethods(view *types.Reference, name string, signatures, visited map[string]bool, out *[]*types.Method) {
	if visited[view.Name] {
		return
	}
	visited[view.Name] = true
	c, ok := m.classes[view.Name]
	if !ok {
		return
	}
	for _, meth := range c.Methods {
		if meth.Name != name {
			continue
		}
		bound := bindMethod(meth, c.TypeParams, view.Args)
		sig := erasedSignature(bound)
		if signatures[sig] {
			continue // overridden further down
		}
		signatures[sig] = true
		*out = append(*out, bound)
	}
	for _, st := range c.Supertypes {
		if next, ok := types.Substitute(st, c.TypeParams, view.Args).(*types.Reference); ok {
			m.collectMethods(next, name, signatures, visited, out)
		}
	}
	if view.Name != types.Object.Name && len(c.Supertypes) == 0 {
		m.collectMethods(types.Object, name, signatures, visited, out)
	}
}

// bindMethod returns a copy of meth with params substituted by args.
func bindMethod(meth *types.Method, params []string, args []types.Type) *types.Method {
	if len(params) == 0 || len(args) == 0 {
		return meth
	}
	cp := *meth
	cp.Params = make([]types.Type, len(meth.Params))
	for i, p := range meth.Params {
		cp.Params[i] = types.Substitute(p, params, args)
	}
	if meth.Return != nil {
		cp.Return = types.Substitute(meth.Return, params, args)
	}
	return &cp
}

func erasedSignature(meth *types.Method) string {
	var sb strings.Builder
	sb.WriteString(meth.Name)
	for _, p := range meth.Params {
		sb.WriteByte(',')
		sb.WriteString(types.Erase(p).Key())
	}
	return sb.String()
}

// field finds a field on t or its supertypes, with its type bound to t's
// generic arguments.
func (m *Model) field(t *types.Reference, name string) (*Field, bool) {
	visited := make(map[string]bool)
	var walk func(view *types.Reference) (*Field, bool)
	walk = func(view *types.Reference) (*Field, bool) {
		if visited[view.Name] {
			return nil, false
		}
		visited[view.Name] = true
		c, ok := m.classes[view.Name]
		if !ok {
			return nil, false
		}
		for _, f := range c.Fields {
			if f.Name == name {
				cp := *f
				cp.Type = types.Substitute(f.Type, c.TypeParams, view.Args)
				return &cp, true
			}
		}
		for _, st := range c.Supertypes {
			if next, ok := types.Substitute(st, c.TypeParams, view.Args).(*types.Reference); ok {
				if f, ok := walk(next); ok {
					return f, true
				}
			}
		}
		return nil, false
	}
	return walk(t)
}
