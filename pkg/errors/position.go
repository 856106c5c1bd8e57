package errors

import (
	"fmt"

	"mvelc/pkg/source"
)

// Position represents a specific location in the source code.
// Line and Column are 1-based; StartPos/EndPos are 0-based byte offsets.
type Position struct {
	Line     int
	Column   int
	StartPos int
	EndPos   int
	Source   *source.SourceFile
}

// IsZero reports whether the position carries no location at all,
// which is the case for nodes synthesized during lowering.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

func (p Position) String() string {
	if p.Source != nil {
		return fmt.Sprintf("%s:%d:%d", p.Source.Label(), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
