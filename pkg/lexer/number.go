package lexer

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// NumberKind classifies a numeric literal by its type suffix and shape.
type NumberKind int

const (
	NumberInt NumberKind = iota
	NumberLong
	NumberFloat
	NumberDouble
	NumberBigDecimal
	NumberBigInteger
)

func (k NumberKind) String() string {
	switch k {
	case NumberInt:
		return "int"
	case NumberLong:
		return "long"
	case NumberFloat:
		return "float"
	case NumberDouble:
		return "double"
	case NumberBigDecimal:
		return "BigDecimal"
	case NumberBigInteger:
		return "BigInteger"
	}
	return "unknown"
}

var numberPattern = regexp2.MustCompile(
	`^(?<digits>(?:\d[\d_]*)?(?<fraction>\.\d[\d_]*)?(?<exponent>[eE][+-]?\d+)?)(?<suffix>[BbIiLlDdFf])?$`,
	regexp2.None)

// Number is a numeric literal split into its digits and type suffix.
type Number struct {
	Digits string // literal text without suffix or '_' separators
	Suffix string // "" when absent
	Kind   NumberKind
}

// IsIntegral reports whether the digits carry no fraction or exponent.
func (n Number) IsIntegral() bool {
	return !strings.ContainsAny(n.Digits, ".eE")
}

// SplitNumber classifies a numeric literal. It returns false when the text
// is not a well-formed literal.
func SplitNumber(literal string) (Number, bool) {
	m, err := numberPattern.FindStringMatch(literal)
	if err != nil || m == nil {
		return Number{}, false
	}
	digits := m.GroupByName("digits").String()
	if digits == "" || digits == "." {
		return Number{}, false
	}
	n := Number{
		Digits: strings.ReplaceAll(digits, "_", ""),
		Suffix: m.GroupByName("suffix").String(),
	}
	hasFraction := m.GroupByName("fraction").Length > 0 || m.GroupByName("exponent").Length > 0

	switch strings.ToUpper(n.Suffix) {
	case "B":
		n.Kind = NumberBigDecimal
	case "I":
		if hasFraction {
			return Number{}, false
		}
		n.Kind = NumberBigInteger
	case "L":
		if hasFraction {
			return Number{}, false
		}
		n.Kind = NumberLong
	case "F":
		n.Kind = NumberFloat
	case "D":
		n.Kind = NumberDouble
	default:
		if hasFraction {
			n.Kind = NumberDouble
		} else {
			n.Kind = NumberInt
		}
	}
	return n, true
}
