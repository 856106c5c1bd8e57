package coercion

import (
	"strconv"

	"mvelc/pkg/lexer"
	"mvelc/pkg/parser"
	"mvelc/pkg/types"
)

// valueOf builds <Class>.valueOf(expr). Numeric literals lose their type
// suffix; an integral literal that does not fit in int gets an L so the
// long overload is selected, and one that does not fit in long falls back
// to the string constructor.
func valueOf(class *types.Reference) Rule {
	return func(a *parser.Arena, expr parser.Expression) parser.Expression {
		tok := expr.GetToken()
		inner := parser.Unparen(expr)
		if lit, ok := inner.(*parser.Literal); ok && lit.Kind == parser.NumberLiteral {
			if n, ok := lexer.SplitNumber(lit.Value); ok {
				return integralValueOf(a, tok, class, n)
			}
		}
		return a.StaticCall(tok, class.SimpleName(), "valueOf", inner)
	}
}

func integralValueOf(a *parser.Arena, tok lexer.Token, class *types.Reference, n lexer.Number) parser.Expression {
	if !n.IsIntegral() {
		return a.StaticCall(tok, class.SimpleName(), "valueOf", a.NumberLit(tok, n.Digits))
	}
	digits, ok := digitsFor(n.Digits)
	if !ok {
		return a.NewObjectCreation(tok, class.SimpleName(), a.StringLit(tok, n.Digits))
	}
	return a.StaticCall(tok, class.SimpleName(), "valueOf", a.NumberLit(tok, digits))
}

// digitsFor returns the literal text to pass to a long parameter, or false
// when the value is outside the long range.
func digitsFor(digits string) (string, bool) {
	if _, err := strconv.ParseInt(digits, 10, 32); err == nil {
		return digits, true
	}
	if _, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return digits + "L", true
	}
	return "", false
}

// parseBig builds new <Class>(expr). A string literal argument has any
// numeric type suffix stripped from its content.
func parseBig(class *types.Reference) Rule {
	return func(a *parser.Arena, expr parser.Expression) parser.Expression {
		tok := expr.GetToken()
		inner := parser.Unparen(expr)
		if lit, ok := inner.(*parser.Literal); ok && lit.Kind == parser.StringLiteral {
			if n, ok := lexer.SplitNumber(lit.Value); ok {
				inner = a.StringLit(tok, n.Digits)
			}
		}
		return a.NewObjectCreation(tok, class.SimpleName(), inner)
	}
}

// MaterializeLiteral rewrites an arbitrary-precision literal such as 10B,
// 10.5B or 7I into a constructor or factory call and returns it with its
// type. Any other literal is reported as false.
func MaterializeLiteral(a *parser.Arena, lit *parser.Literal) (parser.Expression, types.Type, bool) {
	if lit.Kind != parser.NumberLiteral {
		return lit, nil, false
	}
	n, ok := lexer.SplitNumber(lit.Value)
	if !ok {
		return lit, nil, false
	}
	tok := lit.GetToken()
	switch n.Kind {
	case lexer.NumberBigDecimal:
		if !n.IsIntegral() {
			return a.NewObjectCreation(tok, types.BigDecimal.SimpleName(), a.StringLit(tok, n.Digits)), types.BigDecimal, true
		}
		return integralValueOf(a, tok, types.BigDecimal, n), types.BigDecimal, true
	case lexer.NumberBigInteger:
		return integralValueOf(a, tok, types.BigInteger, n), types.BigInteger, true
	}
	return lit, nil, false
}

// LiteralType returns the type a literal denotes in source, big-number
// suffixes included.
func LiteralType(lit *parser.Literal) (types.Type, bool) {
	switch lit.Kind {
	case parser.StringLiteral:
		return types.String, true
	case parser.BooleanLiteral:
		return types.Boolean, true
	case parser.NullLiteral:
		return types.Null, true
	}
	n, ok := lexer.SplitNumber(lit.Value)
	if !ok {
		return nil, false
	}
	switch n.Kind {
	case lexer.NumberLong:
		return types.Long, true
	case lexer.NumberFloat:
		return types.Float, true
	case lexer.NumberDouble:
		return types.Double, true
	case lexer.NumberBigDecimal:
		return types.BigDecimal, true
	case lexer.NumberBigInteger:
		return types.BigInteger, true
	}
	return types.Int, true
}
