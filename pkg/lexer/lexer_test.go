package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	input := `$p.salary += 20 + 40B;
BigDecimal d = map["k"] * 10.5B;
if (d >= 1 && !done) { return 'x'; } else { x -= 1; }
// comment
names[0] != null /* block */ || a <= b % 2`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{IDENT, "$p", 1},
		{DOT, ".", 1},
		{IDENT, "salary", 1},
		{PLUS_ASSIGN, "+=", 1},
		{NUMBER, "20", 1},
		{PLUS, "+", 1},
		{NUMBER, "40B", 1},
		{SEMICOLON, ";", 1},
		{IDENT, "BigDecimal", 2},
		{IDENT, "d", 2},
		{ASSIGN, "=", 2},
		{IDENT, "map", 2},
		{LBRACKET, "[", 2},
		{STRING, "k", 2},
		{RBRACKET, "]", 2},
		{ASTERISK, "*", 2},
		{NUMBER, "10.5B", 2},
		{SEMICOLON, ";", 2},
		{IF, "if", 3},
		{LPAREN, "(", 3},
		{IDENT, "d", 3},
		{GE, ">=", 3},
		{NUMBER, "1", 3},
		{LOGICAL_AND, "&&", 3},
		{BANG, "!", 3},
		{IDENT, "done", 3},
		{RPAREN, ")", 3},
		{LBRACE, "{", 3},
		{RETURN, "return", 3},
		{STRING, "x", 3},
		{SEMICOLON, ";", 3},
		{RBRACE, "}", 3},
		{ELSE, "else", 3},
		{LBRACE, "{", 3},
		{IDENT, "x", 3},
		{MINUS_ASSIGN, "-=", 3},
		{NUMBER, "1", 3},
		{SEMICOLON, ";", 3},
		{RBRACE, "}", 3},
		{IDENT, "names", 5},
		{LBRACKET, "[", 5},
		{NUMBER, "0", 5},
		{RBRACKET, "]", 5},
		{NOT_EQ, "!=", 5},
		{NULL, "null", 5},
		{LOGICAL_OR, "||", 5},
		{IDENT, "a", 5},
		{LE, "<=", 5},
		{IDENT, "b", 5},
		{PERCENT, "%", 5},
		{NUMBER, "2", 5},
		{EOF, "", 5},
	}

	l := NewLexer(input)
	for i, tt := range tests {
		tok := l.NextToken()
		require.Equal(t, tt.expectedType, tok.Type, "token %d: %s", i, tok)
		assert.Equal(t, tt.expectedLiteral, tok.Literal, "token %d", i)
		assert.Equal(t, tt.expectedLine, tok.Line, "token %d", i)
	}
}

func TestTokenPositions(t *testing.T) {
	l := NewLexer("a +\n  bb")
	a, plus, bb := l.NextToken(), l.NextToken(), l.NextToken()

	assert.Equal(t, 1, a.Column)
	assert.Equal(t, 3, plus.Column)
	assert.Equal(t, 2, bb.Line)
	assert.Equal(t, 3, bb.Column)
	assert.Equal(t, 6, bb.StartPos)
	assert.Equal(t, 8, bb.EndPos)
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		input, literal string
		typ            TokenType
	}{
		{`"plain"`, "plain", STRING},
		{`'single'`, "single", STRING},
		{`"a\"b"`, `a"b`, STRING},
		{`"tab\there"`, "tab\there", STRING},
		{`"open`, "unterminated string literal", ILLEGAL},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := NewLexer(tt.input).NextToken()
			assert.Equal(t, tt.typ, tok.Type)
			assert.Equal(t, tt.literal, tok.Literal)
		})
	}
}

func TestIllegalCharacters(t *testing.T) {
	for _, input := range []string{"&", "|", "#", "@"} {
		assert.Equal(t, ILLEGAL, NewLexer(input).NextToken().Type, input)
	}
}

func TestCompoundOperator(t *testing.T) {
	op, ok := CompoundOperator(ASTERISK_ASSIGN)
	assert.True(t, ok)
	assert.Equal(t, "*", op)

	_, ok = CompoundOperator(ASSIGN)
	assert.False(t, ok)
}
