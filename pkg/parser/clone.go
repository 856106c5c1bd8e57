package parser

// Clone deep-copies an expression subtree into fresh arena nodes, so the
// copy can be installed in a second parent slot. Resolved declarations are
// shared; they are immutable.
func (a *Arena) Clone(e Expression) Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *Name:
		return a.NewName(n.Token, n.Value)
	case *FieldAccess:
		return a.NewFieldAccess(n.Token, a.Clone(n.Scope), n.Name)
	case *ArrayAccess:
		return a.NewArrayAccess(n.Token, a.Clone(n.Base), a.Clone(n.Index))
	case *MethodCall:
		c := a.NewMethodCall(n.Token, a.Clone(n.Scope), n.Name, a.cloneList(n.Arguments)...)
		c.Resolved = n.Resolved
		return c
	case *BinaryExpression:
		return a.NewBinary(n.Token, a.Clone(n.Left), n.Operator, a.Clone(n.Right))
	case *AssignmentExpression:
		return a.NewAssignment(n.Token, a.Clone(n.Target), n.Operator, a.Clone(n.Value))
	case *VariableDeclaration:
		return a.NewVariableDeclaration(n.Token, n.TypeName, n.Name, a.Clone(n.Init))
	case *CastExpression:
		return a.NewCast(n.Token, n.TypeName, a.Clone(n.Expression))
	case *Literal:
		return a.NewLiteral(n.Token, n.Kind, n.Value)
	case *ObjectCreation:
		c := a.NewObjectCreation(n.Token, n.TypeName, a.cloneList(n.Arguments)...)
		c.Resolved = n.Resolved
		return c
	case *ArrayCreation:
		return a.NewArrayCreation(n.Token, n.ElementType, a.Clone(n.Size), a.cloneList(n.Elements))
	case *ParenExpression:
		return a.NewParen(n.Token, a.Clone(n.Inner))
	case *UnaryExpression:
		return a.NewUnary(n.Token, n.Operator, a.Clone(n.Operand))
	}
	return e
}

func (a *Arena) cloneList(list []Expression) []Expression {
	if list == nil {
		return nil
	}
	out := make([]Expression, len(list))
	for i, e := range list {
		out[i] = a.Clone(e)
	}
	return out
}
