// Package coercion holds the value conversions the lowering pass may insert
// between a declared and an actual type.
package coercion

import (
	"sync"

	"mvelc/pkg/parser"
	"mvelc/pkg/types"
)

// Rule rewrites expr, a value of the rule's source type, into an equivalent
// expression of the rule's target type. Rules only build new nodes around
// expr; they never look at its surroundings.
type Rule func(a *parser.Arena, expr parser.Expression) parser.Expression

type pair struct {
	from, to string
}

// Table maps (source key, target key) to a conversion rule. A Table is
// immutable once built and safe for concurrent use.
type Table struct {
	rules map[pair]Rule
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide coercion table.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = build()
	})
	return defaultTable
}

// Lookup returns the rule registered for the exact pair.
func (t *Table) Lookup(from, to types.Type) (Rule, bool) {
	if from == nil || to == nil {
		return nil, false
	}
	r, ok := t.rules[pair{from.Key(), to.Key()}]
	return r, ok
}

// CanCoerce reports whether Coerce would succeed for the pair.
func (t *Table) CanCoerce(from, to types.Type) bool {
	if from == nil || to == nil || types.IsNull(from) || from.Equals(to) {
		return false
	}
	_, ok := t.Lookup(from, to)
	return ok
}

// Coerce converts expr from source to target. It reports false when source
// is the null type, when both keys are identical, or when no rule exists.
func (t *Table) Coerce(a *parser.Arena, source types.Type, expr parser.Expression, target types.Type) (parser.Expression, bool) {
	if !t.CanCoerce(source, target) {
		return expr, false
	}
	rule, _ := t.Lookup(source, target)
	return rule(a, expr), true
}

// Len returns the number of registered pairs.
func (t *Table) Len() int {
	return len(t.rules)
}

func (t *Table) add(from, to types.Type, r Rule) {
	t.rules[pair{from.Key(), to.Key()}] = r
}

// withBoxed lists each primitive followed by its wrapper class.
func withBoxed(prims ...*types.Primitive) []types.Type {
	out := make([]types.Type, 0, 2*len(prims))
	for _, p := range prims {
		out = append(out, p)
		if boxed, ok := types.Box(p); ok {
			out = append(out, boxed)
		}
	}
	return out
}

var (
	integerFamily = withBoxed(types.Byte, types.Short, types.Int, types.Long)
	floatFamily   = withBoxed(types.Float, types.Double)
	allPrimitives = withBoxed(types.Boolean, types.Byte, types.Short, types.Char,
		types.Int, types.Long, types.Float, types.Double)
)

var parseMethods = map[*types.Primitive]string{
	types.Boolean: "parseBoolean",
	types.Byte:    "parseByte",
	types.Short:   "parseShort",
	types.Int:     "parseInt",
	types.Long:    "parseLong",
	types.Float:   "parseFloat",
	types.Double:  "parseDouble",
}

func build() *Table {
	t := &Table{rules: make(map[pair]Rule)}

	for _, src := range integerFamily {
		t.add(src, types.BigDecimal, valueOf(types.BigDecimal))
		t.add(src, types.BigInteger, valueOf(types.BigInteger))
		t.add(src, types.Date, construct(types.Date))
	}
	for _, src := range floatFamily {
		t.add(src, types.BigDecimal, valueOf(types.BigDecimal))
	}
	t.add(types.BigInteger, types.BigDecimal, construct(types.BigDecimal))

	for _, big := range []*types.Reference{types.BigDecimal, types.BigInteger} {
		for _, dst := range withBoxed(types.Byte, types.Short, types.Int, types.Long, types.Float, types.Double) {
			prim, _ := types.Unbox(dst)
			t.add(big, dst, call(prim.Name+"Value"))
		}
		t.add(big, types.String, nullSafeString)
		t.add(types.String, big, parseBig(big))
	}

	for _, src := range allPrimitives {
		t.add(src, types.String, static(types.String, "valueOf"))
	}

	for prim, method := range parseMethods {
		t.add(types.String, prim, static(boxOf(prim), method))
		t.add(types.String, boxOf(prim), static(boxOf(prim), "valueOf"))
	}
	// char never goes through Character.valueOf: a boxed Character cannot
	// be the accumulator of an in-place compound operator.
	t.add(types.String, types.Char, call("charAt", "0"))
	t.add(types.String, types.BoxedChar, call("charAt", "0"))

	t.add(types.Date, types.Long, call("getTime"))
	t.add(types.Date, types.BoxedLong, call("getTime"))

	return t
}

func boxOf(p *types.Primitive) *types.Reference {
	r, _ := types.Box(p)
	return r
}

// receiver makes expr usable on the left of a '.'.
func receiver(a *parser.Arena, expr parser.Expression) parser.Expression {
	if parser.IsPrimary(expr) {
		return expr
	}
	return a.NewParen(expr.GetToken(), expr)
}

// call builds expr.<method>(<int literal args>).
func call(method string, intArgs ...string) Rule {
	return func(a *parser.Arena, expr parser.Expression) parser.Expression {
		tok := expr.GetToken()
		args := make([]parser.Expression, len(intArgs))
		for i, s := range intArgs {
			args[i] = a.NumberLit(tok, s)
		}
		return a.NewMethodCall(tok, receiver(a, expr), method, args...)
	}
}

// static builds <Class>.<method>(expr).
func static(class *types.Reference, method string) Rule {
	return func(a *parser.Arena, expr parser.Expression) parser.Expression {
		return a.StaticCall(expr.GetToken(), class.SimpleName(), method, parser.Unparen(expr))
	}
}

// construct builds new <Class>(expr).
func construct(class *types.Reference) Rule {
	return func(a *parser.Arena, expr parser.Expression) parser.Expression {
		return a.NewObjectCreation(expr.GetToken(), class.SimpleName(), parser.Unparen(expr))
	}
}

func nullSafeString(a *parser.Arena, expr parser.Expression) parser.Expression {
	tok := expr.GetToken()
	return a.StaticCall(tok, types.Objects.SimpleName(), "toString",
		parser.Unparen(expr), a.NewLiteral(tok, parser.NullLiteral, "null"))
}
