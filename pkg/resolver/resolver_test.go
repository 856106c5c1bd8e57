package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvelc/pkg/errors"
	"mvelc/pkg/parser"
	"mvelc/pkg/types"
)

const personModel = `
classes:
  - name: org.acme.Person
    fields:
      - {name: nickname, type: String}
      - {name: secret, type: String, private: true}
    methods:
      - {name: getName, returns: String}
      - {name: setName, params: [String]}
      - {name: getSalary, returns: BigDecimal}
      - {name: setSalary, params: [BigDecimal]}
      - {name: getAge, returns: int}
      - {name: setAge, params: [int]}
      - {name: setAge, params: [String]}
      - {name: isActive, returns: boolean}
      - {name: getTags, returns: "List<String>"}
      - {name: getScores, returns: "Map<String, Integer>"}
      - {name: getFriends, returns: "Person[]"}
      - {name: greet, params: [String, "Object..."], returns: String}
  - name: org.acme.Employee
    supertypes: [Person]
    constructors: [[], [String]]
    methods:
      - {name: getBadge, returns: int}
`

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	m := BuiltinModel()
	require.NoError(t, LoadModel(m, []byte(personModel)))
	person, _ := m.Class("Person")
	return New(m, person.Type(),
		Binding{Name: "$p", Type: types.NewReference("org.acme.Person")},
		Binding{Name: "map", Type: types.NewReference("java.util.Map", types.String, types.BigDecimal), Index: 1},
		Binding{Name: "cache", Type: types.NewReference("java.util.HashMap", types.String, types.BoxedInt), Index: 2},
	)
}

func parseExpr(t *testing.T, src string) parser.Expression {
	t.Helper()
	program, _, errs := parser.ParseString(src)
	require.Empty(t, errs)
	require.Len(t, program.Statements, 1)
	stmt, ok := program.Statements[0].(*parser.ExpressionStatement)
	require.True(t, ok)
	return stmt.Expression
}

func TestBuiltinModelLoads(t *testing.T) {
	m := BuiltinModel()
	for _, name := range []string{"String", "Integer", "BigDecimal", "BigInteger", "MathContext", "Date", "Objects", "Map", "HashMap", "List", "ArrayList"} {
		_, ok := m.Class(name)
		assert.True(t, ok, name)
	}
	assert.Equal(t, "java.math.BigDecimal", m.Canonical("BigDecimal"))
	assert.Equal(t, "Unknown", m.Canonical("Unknown"))
}

func TestLoadModelErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "classes: [ {name: "},
		{"missing name", "classes:\n  - fields: []\n"},
		{"unknown field type", "classes:\n  - name: a.B\n    fields:\n      - {name: x, type: Nope}\n"},
		{"variadic not last", "classes:\n  - name: a.B\n    methods:\n      - {name: m, params: [\"int...\", int]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, LoadModel(BuiltinModel(), []byte(tt.yaml)))
		})
	}
}

func TestSubtyping(t *testing.T) {
	r := newTestResolver(t)
	employee := types.NewReference("org.acme.Employee")
	person := types.NewReference("org.acme.Person")
	assert.True(t, r.IsSubtype(employee, person))
	assert.False(t, r.IsSubtype(person, employee))
	assert.True(t, r.IsSubtype(types.BigDecimal, types.Number))
	assert.True(t, r.IsSubtype(types.NewReference("java.util.HashMap", types.String, types.BoxedInt), types.Map))
	assert.True(t, r.IsSubtype(types.NewReference("java.util.ArrayList"), types.NewReference("java.util.Collection")))
	assert.True(t, r.IsSubtype(person, types.Object))

	view, ok := r.MapView(types.NewReference("java.util.HashMap", types.String, types.BoxedInt))
	require.True(t, ok)
	assert.Equal(t, "java.util.Map<java.lang.String,java.lang.Integer>", view.String())
}

func TestLookup(t *testing.T) {
	r := newTestResolver(t)

	b, ok := r.Lookup("$p")
	require.True(t, ok)
	assert.Equal(t, InputBinding, b.Kind)

	b, ok = r.Lookup("salary")
	require.True(t, ok)
	assert.Equal(t, RootFieldBinding, b.Kind)
	assert.True(t, b.Type.Equals(types.BigDecimal))

	b, ok = r.Lookup("nickname")
	require.True(t, ok)
	assert.Equal(t, RootFieldBinding, b.Kind)

	_, ok = r.Lookup("secret")
	assert.False(t, ok)

	r.DeclareLocal("salary", types.Int)
	b, ok = r.Lookup("salary")
	require.True(t, ok)
	assert.Equal(t, LocalBinding, b.Kind, "locals shadow root fields")

	b, ok = r.Lookup("cache")
	require.True(t, ok)
	assert.Equal(t, 2, b.Index)
}

func TestAccessors(t *testing.T) {
	r := newTestResolver(t)
	person := types.NewReference("org.acme.Person")
	employee := types.NewReference("org.acme.Employee")

	g, ok := r.FindGetter(person, "name")
	require.True(t, ok)
	assert.Equal(t, "getName", g.Name)

	g, ok = r.FindGetter(person, "active")
	require.True(t, ok)
	assert.Equal(t, "isActive", g.Name)

	g, ok = r.FindGetter(employee, "salary")
	require.True(t, ok, "inherited getter")
	assert.True(t, g.Return.Equals(types.BigDecimal))

	s, ok := r.FindSetter(person, "age")
	require.True(t, ok)
	assert.True(t, s.Params[0].Equals(types.Int), "setter matching the getter wins")

	_, ok = r.FindSetter(person, "tags")
	assert.False(t, ok)

	_, ok = r.FindPublicField(person, "nickname")
	assert.True(t, ok)
	_, ok = r.FindPublicField(person, "secret")
	assert.False(t, ok)
	ft, ok := r.FindPublicField(&types.Array{Component: types.Int}, "length")
	require.True(t, ok)
	assert.True(t, ft.Equals(types.Int))
	ft, ok = r.FindPublicField(types.BoxedInt, "MAX_VALUE")
	require.True(t, ok)
	assert.True(t, ft.Equals(types.Int))
}

func TestCandidatesAndSubstitution(t *testing.T) {
	r := newTestResolver(t)
	recv := types.NewReference("java.util.HashMap", types.String, types.BoxedInt)

	puts := r.FindCandidateMethods(recv, "put")
	require.Len(t, puts, 1)
	assert.True(t, r.SubstituteTypeVariable(puts[0].Params[1], recv).Equals(types.BoxedInt))

	adds := r.FindCandidateMethods(types.BigDecimal, "add")
	require.Len(t, adds, 2)
	assert.Len(t, adds[0].Params, 1, "declaration order is preserved")

	ctors := r.FindCandidateMethods(types.NewReference("org.acme.Employee"), ConstructorName)
	assert.Len(t, ctors, 2)

	cmp := r.FindCandidateMethods(types.String, "compareTo")
	require.Len(t, cmp, 1)
	assert.True(t, cmp[0].Params[0].Equals(types.String))

	assert.NotEmpty(t, r.FindCandidateMethods(types.Int, "toString"), "primitives are boxed")
}

func TestResolveType(t *testing.T) {
	r := newTestResolver(t)
	r.DeclareLocal("nums", &types.Array{Component: types.Int})
	r.DeclareLocal("words", types.NewReference("java.util.List", types.String))

	tests := []struct {
		src      string
		expected string
	}{
		{`$p.salary`, "java.math.BigDecimal"},
		{`$p.active`, "boolean"},
		{`$p.nickname`, "java.lang.String"},
		{`$p.getTags().get(0)`, "java.lang.String"},
		{`$p.scores["k"]`, "java.lang.Integer"},
		{`map["k"]`, "java.math.BigDecimal"},
		{`map.k`, "java.math.BigDecimal"},
		{`cache.get("k")`, "java.lang.Integer"},
		{`nums[0]`, "int"},
		{`nums.length`, "int"},
		{`words[0]`, "java.lang.String"},
		{`$p.friends[0].name`, "java.lang.String"},
		{`Integer.MAX_VALUE`, "int"},
		{`java.math.BigDecimal.ONE`, "java.math.BigDecimal"},
		{`BigDecimal.valueOf(10)`, "java.math.BigDecimal"},
		{`10B`, "java.math.BigDecimal"},
		{`10I * 2`, "java.math.BigInteger"},
		{`10B > 2`, "boolean"},
		{`"a" + 1`, "java.lang.String"},
		{`1 + 2L`, "long"},
		{`1 + 2.0`, "double"},
		{`-1L`, "long"},
		{`!true`, "boolean"},
		{`(String) $p.tags`, "java.lang.String"},
		{`new Employee("x")`, "org.acme.Employee"},
		{`new int[3]`, "int[]"},
		{`salary`, "java.math.BigDecimal"},
		{`getAge()`, "int"},
		{`$p.greet("x", 1, 2)`, "java.lang.String"},
		{`String.format("%d", 1)`, "java.lang.String"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := r.ResolveType(parseExpr(t, tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestResolveTypeFailures(t *testing.T) {
	r := newTestResolver(t)
	for _, src := range []string{`nope`, `$p.nope`, `java.math.Nope.ONE`, `$p.missing()`, `new Nope()`} {
		t.Run(src, func(t *testing.T) {
			_, err := r.ResolveType(parseExpr(t, src))
			require.Error(t, err)
			var unresolvedErr *errors.UnresolvedSymbolError
			assert.ErrorAs(t, err, &unresolvedErr)
		})
	}
}

func TestAccessorName(t *testing.T) {
	assert.Equal(t, "getFirstName", AccessorName("get", "firstName"))
	assert.Equal(t, "isActive", AccessorName("is", "active"))
	assert.Equal(t, "contextSetX", AccessorName("contextSet", "x"))
	assert.Equal(t, "setURL", AccessorName("set", "URL"))
	assert.Equal(t, "set_x", AccessorName("set", "_x"))
	assert.Equal(t, "", Capitalize(""))
}
