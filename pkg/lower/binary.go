package lower

import (
	"fmt"

	"mvelc/pkg/errors"
	"mvelc/pkg/lexer"
	"mvelc/pkg/operators"
	"mvelc/pkg/parser"
	"mvelc/pkg/types"
)

// binaryState collects the lowered operands of one binary expression until
// both are known.
type binaryState struct {
	left, right *operators.Operand
}

// record stores expr, of type t, as the operand it occupies in the binary
// expression of f. When that completes the expression, the entry leaves the
// pending map and the expression fires; its result is then recorded in the
// next enclosing binary expression, and so on up the chain until an
// expression is still waiting for its other operand. It returns the type of
// the last result produced, or nil when nothing fired.
func (e *Engine) record(f *frame, expr parser.Expression, t types.Type) (types.Type, error) {
	var last types.Type
	for f != nil {
		bin, ok := f.node.(*parser.BinaryExpression)
		if !ok {
			return last, nil
		}
		st, ok := e.pending[bin.ID()]
		if !ok {
			st = &binaryState{}
			e.pending[bin.ID()] = st
		}
		op := &operators.Operand{Expr: expr, Type: t}
		switch expr {
		case bin.Left:
			st.left = op
		case bin.Right:
			st.right = op
		default:
			return nil, &errors.InternalError{Position: parser.PositionOf(bin),
				Msg: fmt.Sprintf("%s is not an operand of %s", expr, bin)}
		}
		if st.left == nil || st.right == nil {
			return last, nil
		}
		delete(e.pending, bin.ID())

		result, rt, err := e.fire(bin, *st.left, *st.right)
		if err != nil {
			return nil, err
		}
		if result != bin && !parser.ReplaceChild(f.parent.node, bin, result) {
			return nil, &errors.InternalError{Position: parser.PositionOf(bin),
				Msg: fmt.Sprintf("%s is not a child of %T", bin, f.parent.node)}
		}
		expr, t, last, f = result, rt, rt, f.parent
	}
	return last, nil
}

// fire makes the lowering decision for a binary expression whose operands
// are both lowered: an arbitrary-precision method call, or the expression
// unchanged.
func (e *Engine) fire(bin *parser.BinaryExpression, left, right operators.Operand) (parser.Expression, types.Type, error) {
	debugPrintf("fire %s (%s, %s)\n", bin, left.Type, right.Type)
	if bin.Operator == "+" && (types.IsString(left.Type) || types.IsString(right.Type)) {
		return bin, types.String, nil
	}
	if lowered, t, ok := e.operators.Lower(e.arena, bin.Operator, left, right); ok {
		return lowered, t, nil
	}

	switch bin.Operator {
	case "&&", "||", "==", "!=":
		return bin, types.Boolean, nil
	}
	if p, ok := types.Promote(left.Type, right.Type); ok {
		switch bin.Operator {
		case "<", "<=", ">", ">=":
			return bin, types.Boolean, nil
		}
		return bin, p, nil
	}
	return nil, nil, noCoercion(bin, right.Type, left.Type)
}

// accumulate builds read <op> value for a compound assignment and lowers it
// through the same accumulator as source expressions. Both operands are
// already lowered, so they are recorded directly instead of visited.
func (e *Engine) accumulate(tok lexer.Token, read parser.Expression, readType types.Type, op string, value parser.Expression, valueType types.Type) (parser.Expression, types.Type, error) {
	holder := e.arena.NewParen(tok, nil)
	bin := e.arena.NewBinary(tok, read, op, e.grouped(value))
	holder.Inner = bin

	bf := &frame{node: bin, parent: &frame{node: holder}}
	if _, err := e.record(bf, bin.Left, readType); err != nil {
		return nil, nil, err
	}
	t, err := e.record(bf, bin.Right, valueType)
	if err != nil {
		return nil, nil, err
	}
	return holder.Inner, t, nil
}
