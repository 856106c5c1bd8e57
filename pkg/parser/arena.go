package parser

import "mvelc/pkg/lexer"

// Arena allocates every node of one compilation unit and gives it a stable
// integer id. Side tables kept during lowering key on those ids rather than
// on pointer identity. An Arena belongs to a single unit and is not safe for
// concurrent use.
type Arena struct {
	nodes []Node
}

// NewArena creates a new arena with pre-allocated capacity.
func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 0, 256)}
}

// Node returns the node allocated with the given id, or nil.
func (a *Arena) Node(id NodeID) Node {
	if int(id) < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int {
	return len(a.nodes)
}

func (a *Arena) register(b *base, n Node, tok lexer.Token) {
	b.id = NodeID(len(a.nodes))
	b.Token = tok
	a.nodes = append(a.nodes, n)
}

// Allocation methods - each returns a fully initialized node with its id set.

func (a *Arena) NewName(tok lexer.Token, value string) *Name {
	n := &Name{Value: value}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewFieldAccess(tok lexer.Token, scope Expression, name string) *FieldAccess {
	n := &FieldAccess{Scope: scope, Name: name}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewArrayAccess(tok lexer.Token, base, index Expression) *ArrayAccess {
	n := &ArrayAccess{Base: base, Index: index}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewMethodCall(tok lexer.Token, scope Expression, name string, args ...Expression) *MethodCall {
	n := &MethodCall{Scope: scope, Name: name, Arguments: args}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewBinary(tok lexer.Token, left Expression, op string, right Expression) *BinaryExpression {
	n := &BinaryExpression{Left: left, Operator: op, Right: right}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewAssignment(tok lexer.Token, target Expression, op string, value Expression) *AssignmentExpression {
	n := &AssignmentExpression{Target: target, Operator: op, Value: value}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewVariableDeclaration(tok lexer.Token, typeName, name string, init Expression) *VariableDeclaration {
	n := &VariableDeclaration{TypeName: typeName, Name: name, Init: init}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewCast(tok lexer.Token, typeName string, expr Expression) *CastExpression {
	n := &CastExpression{TypeName: typeName, Expression: expr}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewLiteral(tok lexer.Token, kind LiteralKind, value string) *Literal {
	n := &Literal{Kind: kind, Value: value}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewObjectCreation(tok lexer.Token, typeName string, args ...Expression) *ObjectCreation {
	n := &ObjectCreation{TypeName: typeName, Arguments: args}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewArrayCreation(tok lexer.Token, elementType string, size Expression, elements []Expression) *ArrayCreation {
	n := &ArrayCreation{ElementType: elementType, Size: size, Elements: elements}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewParen(tok lexer.Token, inner Expression) *ParenExpression {
	n := &ParenExpression{Inner: inner}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewUnary(tok lexer.Token, op string, operand Expression) *UnaryExpression {
	n := &UnaryExpression{Operator: op, Operand: operand}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewExpressionStatement(tok lexer.Token, expr Expression) *ExpressionStatement {
	n := &ExpressionStatement{Expression: expr}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewBlock(tok lexer.Token, stmts ...Statement) *BlockStatement {
	n := &BlockStatement{Statements: stmts}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewIf(tok lexer.Token, cond Expression, cons, alt Statement) *IfStatement {
	n := &IfStatement{Condition: cond, Consequence: cons, Alternative: alt}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewReturn(tok lexer.Token, value Expression) *ReturnStatement {
	n := &ReturnStatement{ReturnValue: value}
	a.register(&n.base, n, tok)
	return n
}

func (a *Arena) NewMethodDeclaration(tok lexer.Token, returnType, name string, params []Parameter, body *BlockStatement) *MethodDeclaration {
	n := &MethodDeclaration{ReturnType: returnType, Name: name, Parameters: params, Body: body}
	a.register(&n.base, n, tok)
	return n
}

// --- Convenience constructors for synthesized code ---

// Ident is NewName for synthesized references such as class names.
func (a *Arena) Ident(tok lexer.Token, name string) *Name {
	return a.NewName(tok, name)
}

// StringLit builds a string literal.
func (a *Arena) StringLit(tok lexer.Token, value string) *Literal {
	return a.NewLiteral(tok, StringLiteral, value)
}

// NumberLit builds a number literal from its source text.
func (a *Arena) NumberLit(tok lexer.Token, text string) *Literal {
	return a.NewLiteral(tok, NumberLiteral, text)
}

// StaticCall builds <class>.<method>(<args>).
func (a *Arena) StaticCall(tok lexer.Token, class, method string, args ...Expression) *MethodCall {
	return a.NewMethodCall(tok, a.Ident(tok, class), method, args...)
}
