// Package operators lowers arithmetic and comparison on arbitrary-precision
// numbers into explicit method calls.
package operators

import (
	"sync"

	"mvelc/pkg/coercion"
	"mvelc/pkg/parser"
	"mvelc/pkg/types"
)

// Operand is one side of a binary expression together with its resolved
// type.
type Operand struct {
	Expr parser.Expression
	Type types.Type
}

// rule describes how one subject type spells its operators.
type rule struct {
	subject     *types.Reference
	mathContext bool // append MathContext.DECIMAL128 to arithmetic calls
}

var arithmetic = map[string]string{
	"+": "add",
	"-": "subtract",
	"*": "multiply",
	"/": "divide",
	"%": "remainder",
}

var comparisons = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

// Table maps a subject type key to its lowering rule. It is immutable once
// built and safe for concurrent use.
type Table struct {
	rules     map[string]rule
	coercions *coercion.Table
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide operator table, backed by
// coercion.Default.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = New(coercion.Default())
	})
	return defaultTable
}

// New builds an operator table that coerces non-subject operands with c.
func New(c *coercion.Table) *Table {
	return &Table{
		coercions: c,
		rules: map[string]rule{
			types.BigDecimal.Key(): {subject: types.BigDecimal, mathContext: true},
			types.BigInteger.Key(): {subject: types.BigInteger},
		},
	}
}

// SubjectOf returns the arbitrary-precision side of a binary expression.
// BigDecimal wins when both sides are arbitrary-precision of different
// kinds.
func SubjectOf(left, right types.Type) (types.Type, bool) {
	switch {
	case isKey(left, types.BigDecimal) || isKey(right, types.BigDecimal):
		return types.BigDecimal, true
	case isKey(left, types.BigInteger) || isKey(right, types.BigInteger):
		return types.BigInteger, true
	}
	return nil, false
}

func isKey(t types.Type, r *types.Reference) bool {
	return t != nil && t.Key() == r.Key()
}

// ResultType is the type of the expression Lower builds for op.
func ResultType(subject types.Type, op string) types.Type {
	if comparisons[op] {
		return types.Boolean
	}
	return subject
}

// Supports reports whether op has a method form.
func Supports(op string) bool {
	_, ok := arithmetic[op]
	return ok || comparisons[op]
}

// Lower rewrites left <op> right as a method call on the subject type. It
// reports false, leaving the caller to keep the expression as is, when
// neither side is arbitrary-precision, when op has no method form, when
// the expression is a string concatenation, or when the other operand is
// null or cannot be coerced to the subject type.
func (t *Table) Lower(a *parser.Arena, op string, left, right Operand) (parser.Expression, types.Type, bool) {
	if op == "+" && (types.IsString(left.Type) || types.IsString(right.Type)) {
		return nil, nil, false
	}
	subject, ok := SubjectOf(left.Type, right.Type)
	if !ok || !Supports(op) {
		return nil, nil, false
	}
	r, ok := t.rules[subject.Key()]
	if !ok {
		return nil, nil, false
	}

	lhs, ok := t.toSubject(a, left, subject)
	if !ok {
		return nil, nil, false
	}
	rhs, ok := t.toSubject(a, right, subject)
	if !ok {
		return nil, nil, false
	}

	tok := left.Expr.GetToken()
	recv := parser.Unparen(lhs)
	if !parser.IsPrimary(recv) {
		recv = a.NewParen(recv.GetToken(), recv)
	}
	arg := parser.Unparen(rhs)

	if comparisons[op] {
		cmp := a.NewMethodCall(tok, recv, "compareTo", arg)
		return a.NewBinary(tok, cmp, op, a.NumberLit(tok, "0")), types.Boolean, true
	}

	args := []parser.Expression{arg}
	if r.mathContext {
		mc := types.MathContext.SimpleName()
		args = append(args, a.NewFieldAccess(tok, a.Ident(tok, mc), "DECIMAL128"))
	}
	return a.NewMethodCall(tok, recv, arithmetic[op], args...), r.subject, true
}

func (t *Table) toSubject(a *parser.Arena, o Operand, subject types.Type) (parser.Expression, bool) {
	if o.Type == nil || types.IsNull(o.Type) {
		return nil, false
	}
	if o.Type.Equals(subject) {
		return o.Expr, true
	}
	return t.coercions.Coerce(a, o.Type, o.Expr, subject)
}
