package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvelc/pkg/lexer"
)

func parseOne(t *testing.T, src string) Statement {
	t.Helper()
	program, _, errs := ParseString(src)
	require.Empty(t, errs, "parse errors in %q", src)
	require.Len(t, program.Statements, 1)
	return program.Statements[0]
}

func parseExpr(t *testing.T, src string) Expression {
	t.Helper()
	stmt, ok := parseOne(t, src).(*ExpressionStatement)
	require.True(t, ok)
	return stmt.Expression
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{`$p.salary += 20 + 20 + 40B`, `$p.salary += 20 + 20 + 40B;`},
		{`map["k"]`, `map["k"];`},
		{`'single'`, `"single";`},
		{`a.b.c(1, x)`, `a.b.c(1, x);`},
		{`process("a", 1)`, `process("a", 1);`},
		{`-d`, `-d;`},
		{`!flag`, `!flag;`},
		{`(x + 1) * 2`, `(x + 1) * 2;`},
		{`(BigDecimal) 10`, `(BigDecimal) 10;`},
		{`(int) -x`, `(int) -x;`},
		{`(String[]) values`, `(String[]) values;`},
		{`new Date(1L)`, `new Date(1L);`},
		{`new java.math.BigDecimal("1")`, `new java.math.BigDecimal("1");`},
		{`new int[3]`, `new int[3];`},
		{`new String[] {"a", "b"}`, `new String[] {"a", "b"};`},
		{`BigDecimal d = 1`, `BigDecimal d = 1;`},
		{`Map<String, List<Integer>> m = null`, `Map<String, List<Integer>> m = null;`},
		{`int[] xs = nums`, `int[] xs = nums;`},
		{`var v = 1B`, `var v = 1B;`},
		{`java.util.Date when`, `java.util.Date when;`},
		{`return x`, `return x;`},
		{`if (a) b = 1; else { c = 2; }`, `if (a) b = 1; else { c = 2; }`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseOne(t, tt.input).String())
		})
	}
}

func TestOperatorPrecedence(t *testing.T) {
	expr := parseExpr(t, `1 + 2 * 3 > 4 && ok`)

	and, ok := expr.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Operator)

	gt := and.Left.(*BinaryExpression)
	assert.Equal(t, ">", gt.Operator)

	plus := gt.Left.(*BinaryExpression)
	assert.Equal(t, "+", plus.Operator)
	mul, ok := plus.Right.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Operator)
}

func TestLeftAssociativity(t *testing.T) {
	expr := parseExpr(t, `a - b - c`).(*BinaryExpression)
	inner, ok := expr.Left.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "a - b", inner.String())
	assert.Equal(t, "c", expr.Right.String())
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	outer := parseExpr(t, `a = b += 1`).(*AssignmentExpression)
	assert.Equal(t, "=", outer.Operator)
	inner, ok := outer.Value.(*AssignmentExpression)
	require.True(t, ok)
	assert.True(t, inner.IsCompound())
	assert.Equal(t, "+", inner.BinaryOperator())

	decl := parseExpr(t, `int y = x = 5`).(*VariableDeclaration)
	_, ok = decl.Init.(*AssignmentExpression)
	assert.True(t, ok)
}

func TestMemberExpressions(t *testing.T) {
	call := parseExpr(t, `$p.getTags().get(0).length()`).(*MethodCall)
	assert.Equal(t, "length", call.Name)
	assert.Empty(t, call.Arguments)

	rootCall := parseExpr(t, `total()`).(*MethodCall)
	assert.Nil(t, rootCall.Scope)

	access := parseExpr(t, `names[i + 1].size`).(*FieldAccess)
	index, ok := access.Scope.(*ArrayAccess)
	require.True(t, ok)
	assert.Equal(t, "i + 1", index.Index.String())
}

func TestCastOrGrouping(t *testing.T) {
	_, isGrouping := parseExpr(t, `(x) + 1`).(*BinaryExpression)
	assert.True(t, isGrouping, "lower-case name in parens is a grouping")

	_, isCast := parseExpr(t, `(Integer) x`).(*CastExpression)
	assert.True(t, isCast)

	_, isBinary := parseExpr(t, `(Total) - 1`).(*BinaryExpression)
	assert.True(t, isBinary, "minus after a class name is subtraction")
}

func TestDeclarationNeedsTypeName(t *testing.T) {
	tests := []struct {
		input, typeName string
	}{
		{`int i = 1`, "int"},
		{`Total t`, "Total"},
		{`java.util.Date when = null`, "java.util.Date"},
		{`List<String> xs = names`, "List<String>"},
		{`BigDecimal[] ds = null`, "BigDecimal[]"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			decl, ok := parseExpr(t, tt.input).(*VariableDeclaration)
			require.True(t, ok, "%q should parse as a declaration", tt.input)
			assert.Equal(t, tt.typeName, decl.TypeName)
		})
	}

	for _, input := range []string{`count total`, `x y = 1`, `int.x y`} {
		program, _, errs := ParseString(input)
		require.NotEmpty(t, errs, "%q", input)
		for _, stmt := range program.Statements {
			if es, ok := stmt.(*ExpressionStatement); ok {
				_, isDecl := es.Expression.(*VariableDeclaration)
				assert.False(t, isDecl, "%q parsed as a declaration", input)
			}
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input, contains string
	}{
		{`1 +`, "no prefix parse function"},
		{`a b`, "expected ';'"},
		{`count total`, "expected ';'"},
		{`a.b c = 1`, "expected ';'"},
		{`1 = 2`, "invalid assignment target"},
		{`f(1)(2)`, "is not callable"},
		{`new Date`, "expected '(' or '['"},
		{`x = #`, "illegal token"},
		{`"open`, "unterminated string literal"},
		{`{ a = 1;`, "expected '}'"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, _, errs := ParseString(tt.input)
			require.NotEmpty(t, errs)
			assert.Equal(t, "Syntax", errs[0].Kind())
			assert.Contains(t, errs[0].Message(), tt.contains)
		})
	}
}

func TestErrorRecovery(t *testing.T) {
	program, _, errs := ParseString("a = ; b = 2; c = 3")
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Pos().Line)
	assert.Equal(t, 5, errs[0].Pos().Column)
	assert.Len(t, program.Statements, 2)
}

func TestArenaIDs(t *testing.T) {
	program, arena, errs := ParseString(`a + b`)
	require.Empty(t, errs)
	bin := program.Statements[0].(*ExpressionStatement).Expression.(*BinaryExpression)

	assert.Same(t, bin, arena.Node(bin.ID()).(*BinaryExpression))
	assert.NotEqual(t, bin.Left.ID(), bin.Right.ID())
	assert.Nil(t, arena.Node(NodeID(arena.Len())))
	assert.Nil(t, arena.Node(-1))
}

func TestReplaceChild(t *testing.T) {
	program, arena, _ := ParseString(`f(a, b)`)
	call := program.Statements[0].(*ExpressionStatement).Expression.(*MethodCall)
	b := call.Arguments[1]
	tok := lexer.Token{}

	assert.True(t, ReplaceChild(call, b, arena.StringLit(tok, "x")))
	assert.Equal(t, `f(a, "x")`, call.String())
	assert.False(t, ReplaceChild(call, b, arena.Ident(tok, "y")), "old child is gone")

	stmt := program.Statements[0]
	assert.True(t, ReplaceChild(stmt, call, arena.Ident(tok, "z")))
	assert.Equal(t, "z;", stmt.String())
}

func TestClone(t *testing.T) {
	program, arena, _ := ParseString(`map["k"].add(x * 2)`)
	original := program.Statements[0].(*ExpressionStatement).Expression
	copied := arena.Clone(original)

	assert.Equal(t, original.String(), copied.String())
	assert.NotEqual(t, original.ID(), copied.ID())

	ReplaceChild(copied.(*MethodCall), copied.(*MethodCall).Arguments[0], arena.NumberLit(lexer.Token{}, "1"))
	assert.Equal(t, `map["k"].add(x * 2)`, original.String())
	assert.Equal(t, `map["k"].add(1)`, copied.String())
}

func TestHelpers(t *testing.T) {
	expr := parseExpr(t, `((a))`)
	assert.Equal(t, "a", Unparen(expr).String())
	assert.True(t, IsPrimary(expr))
	assert.False(t, IsPrimary(parseExpr(t, `a + b`)))
	assert.False(t, IsPrimary(parseExpr(t, `-a`)))
}

func TestJavaEmitter(t *testing.T) {
	program, arena, errs := ParseString(`if (a) { b = 1; } else if (c) d = 2; else { return e; }`)
	require.Empty(t, errs)
	tok := lexer.Token{}
	body := arena.NewBlock(tok,
		arena.NewExpressionStatement(tok, arena.NewMethodCall(tok, arena.Ident(tok, "ctx"), "setX", arena.Ident(tok, "value"))),
		arena.NewReturn(tok, arena.Ident(tok, "value")))
	program.Accessors = append(program.Accessors, arena.NewMethodDeclaration(tok, "int", "contextSetX",
		[]Parameter{{TypeName: "Ctx", Name: "ctx"}, {TypeName: "int", Name: "value"}}, body))

	assert.Equal(t, `if (a) {
    b = 1;
} else if (c) {
    d = 2;
} else {
    return e;
}

private static int contextSetX(Ctx ctx, int value) {
    ctx.setX(value);
    return value;
}
`, NewJavaEmitter().Emit(program))
}
