package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitNumber(t *testing.T) {
	tests := []struct {
		literal  string
		digits   string
		suffix   string
		kind     NumberKind
		integral bool
	}{
		{"10", "10", "", NumberInt, true},
		{"1_000", "1000", "", NumberInt, true},
		{"10L", "10", "L", NumberLong, true},
		{"10l", "10", "l", NumberLong, true},
		{"1.5", "1.5", "", NumberDouble, false},
		{".5", ".5", "", NumberDouble, false},
		{"1e3", "1e3", "", NumberDouble, false},
		{"1.5f", "1.5", "f", NumberFloat, false},
		{"2D", "2", "D", NumberDouble, true},
		{"40B", "40", "B", NumberBigDecimal, true},
		{"10.5B", "10.5", "B", NumberBigDecimal, false},
		{"7I", "7", "I", NumberBigInteger, true},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			n, ok := SplitNumber(tt.literal)
			if assert.True(t, ok) {
				assert.Equal(t, tt.digits, n.Digits)
				assert.Equal(t, tt.suffix, n.Suffix)
				assert.Equal(t, tt.kind, n.Kind)
				assert.Equal(t, tt.integral, n.IsIntegral())
			}
		})
	}
}

func TestSplitNumberRejects(t *testing.T) {
	for _, literal := range []string{"", ".", "1.5I", "1.5L", "abc", "10X", "1..2"} {
		_, ok := SplitNumber(literal)
		assert.False(t, ok, literal)
	}
}

func TestNumberKindString(t *testing.T) {
	assert.Equal(t, "BigDecimal", NumberBigDecimal.String())
	assert.Equal(t, "long", NumberLong.String())
}
