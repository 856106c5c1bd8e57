package parser

// ReplaceChild installs replacement in the slot of parent that currently
// holds old. Slots are matched by identity against parent's current child
// pointers, so a child replaced earlier is found at its new value. It
// reports false when old is not a direct child of parent.
func ReplaceChild(parent Node, old, replacement Expression) bool {
	switch p := parent.(type) {
	case *ExpressionStatement:
		return swap(&p.Expression, old, replacement)
	case *IfStatement:
		return swap(&p.Condition, old, replacement)
	case *ReturnStatement:
		return swap(&p.ReturnValue, old, replacement)
	case *FieldAccess:
		return swap(&p.Scope, old, replacement)
	case *ArrayAccess:
		return swap(&p.Base, old, replacement) || swap(&p.Index, old, replacement)
	case *MethodCall:
		return swap(&p.Scope, old, replacement) || swapIn(p.Arguments, old, replacement)
	case *BinaryExpression:
		return swap(&p.Left, old, replacement) || swap(&p.Right, old, replacement)
	case *AssignmentExpression:
		return swap(&p.Target, old, replacement) || swap(&p.Value, old, replacement)
	case *VariableDeclaration:
		return swap(&p.Init, old, replacement)
	case *CastExpression:
		return swap(&p.Expression, old, replacement)
	case *ObjectCreation:
		return swapIn(p.Arguments, old, replacement)
	case *ArrayCreation:
		return swap(&p.Size, old, replacement) || swapIn(p.Elements, old, replacement)
	case *ParenExpression:
		return swap(&p.Inner, old, replacement)
	case *UnaryExpression:
		return swap(&p.Operand, old, replacement)
	}
	return false
}

func swap(slot *Expression, old, replacement Expression) bool {
	if *slot == nil || *slot != old {
		return false
	}
	*slot = replacement
	return true
}

func swapIn(slots []Expression, old, replacement Expression) bool {
	for i := range slots {
		if slots[i] == old {
			slots[i] = replacement
			return true
		}
	}
	return false
}
