package errors

import (
	"bytes"
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvelc/pkg/source"
)

func TestErrorKinds(t *testing.T) {
	pos := Position{Line: 2, Column: 5}
	tests := []struct {
		err     MvelcError
		kind    string
		fatal   bool
		message string
	}{
		{&SyntaxError{Position: pos, Msg: "expected ';'"}, "Syntax", true, "expected ';'"},
		{&UnresolvedSymbolError{Position: pos, Symbol: "x"}, "UnresolvedSymbol", true, "cannot resolve symbol 'x'"},
		{&UnresolvedSymbolError{Position: pos, Symbol: "age", Receiver: "org.acme.Person"}, "UnresolvedSymbol", true,
			"cannot resolve 'age' on type org.acme.Person"},
		{&NoCoercionError{Position: pos, From: "boolean", To: "java.math.BigDecimal"}, "NoCoercionAvailable", true,
			"no coercion from boolean to java.math.BigDecimal"},
		{&AmbiguousPrefixError{Position: pos, Prefix: "a.b"}, "AmbiguousPackagePrefix", false,
			"'a.b' does not resolve to a value; treated as a package or type qualifier"},
		{&InternalError{Position: pos, Msg: "boom"}, "Internal", true, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind())
			assert.Equal(t, tt.fatal, tt.err.Fatal())
			assert.Equal(t, tt.message, tt.err.Message())
			assert.Equal(t, pos, tt.err.Pos())
			assert.Contains(t, tt.err.Error(), "2:5")
		})
	}
}

func TestNoViableOverloadMessage(t *testing.T) {
	err := &NoViableOverloadError{
		Method:     "process",
		Receiver:   "org.acme.Unit",
		ArgTypes:   []string{"java.lang.String", "java.lang.String"},
		Signatures: []string{"void process(java.lang.String, java.lang.String, java.lang.String, int...)"},
	}
	assert.Equal(t, "no overload of org.acme.Unit.process matches call with arguments (java.lang.String, java.lang.String)."+
		" Available signatures:\n  void process(java.lang.String, java.lang.String, java.lang.String, int...)", err.Message())
}

func TestUnwrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	var err error = &UnresolvedSymbolError{Symbol: "x", Cause: cause}
	assert.True(t, stderrors.Is(err, cause))

	var mvelcErr MvelcError
	require.True(t, stderrors.As(err, &mvelcErr))
	assert.Equal(t, "UnresolvedSymbol", mvelcErr.Kind())
}

func TestDisplayErrors(t *testing.T) {
	src := "x = 1;\nd = true + \tfoo;"
	var buf bytes.Buffer
	DisplayErrors(&buf, src, []MvelcError{
		&NoCoercionError{Position: Position{Line: 2, Column: 5, StartPos: 11, EndPos: 15}, From: "boolean", To: "int"},
		&InternalError{Msg: "lost"},
	})

	assert.Equal(t, "NoCoercionAvailable Error at 2:5: no coercion from boolean to int\n"+
		"  d = true + \tfoo;\n"+
		"      ^~~~\n\n"+
		"Internal Error: lost\n"+
		"2 problems\n", buf.String())

	buf.Reset()
	DisplayErrors(&buf, src, nil)
	assert.Empty(t, buf.String())
}

func TestPosition(t *testing.T) {
	assert.True(t, Position{}.IsZero())
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())

	file := source.FromFile("rules/discount.mvel", "x")
	assert.Equal(t, "rules/discount.mvel:3:7", Position{Line: 3, Column: 7, Source: file}.String())
	assert.Equal(t, "discount.mvel", file.Name)
	assert.Equal(t, "<eval>:1:2", Position{Line: 1, Column: 2, Source: source.NewEvalSource("x")}.String())
}
