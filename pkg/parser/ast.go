package parser

import (
	"bytes"
	"strconv"
	"strings"

	"mvelc/pkg/lexer"
	"mvelc/pkg/types"
)

// --- Interfaces ---

// NodeID is the stable integer identity an Arena hands out to every node.
type NodeID int

// Node is the base interface for all AST nodes. The set of node kinds is
// closed: only types in this package implement it.
type Node interface {
	ID() NodeID
	GetToken() lexer.Token // Token the node was parsed from (or synthesized for)
	String() string        // Target-language rendering of the node
	node()
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode()
}

type base struct {
	id    NodeID
	Token lexer.Token
}

func (b *base) ID() NodeID            { return b.id }
func (b *base) GetToken() lexer.Token { return b.Token }
func (b *base) node()                 {}

type baseExpression struct{ base }

func (*baseExpression) expressionNode() {}

type baseStatement struct{ base }

func (*baseStatement) statementNode() {}

// --- Program Node ---

// Program is the root of one compilation unit.
type Program struct {
	Statements []Statement
	// Accessors are static helper methods synthesized during lowering.
	Accessors []*MethodDeclaration
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, s := range p.Statements {
		if i > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(s.String())
	}
	return out.String()
}

// --- Statement Nodes ---

// ExpressionStatement is an expression evaluated for its side effects.
type ExpressionStatement struct {
	baseStatement
	Expression Expression
}

func (es *ExpressionStatement) String() string {
	if es.Expression == nil {
		return ";"
	}
	return es.Expression.String() + ";"
}

// BlockStatement is a braced statement list.
type BlockStatement struct {
	baseStatement
	Statements []Statement
}

func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteByte(' ')
	}
	out.WriteString("}")
	return out.String()
}

// IfStatement: if (<Condition>) <Consequence> else <Alternative>
type IfStatement struct {
	baseStatement
	Condition   Expression
	Consequence Statement
	Alternative Statement // nil when absent
}

func (is *IfStatement) String() string {
	s := "if (" + is.Condition.String() + ") " + is.Consequence.String()
	if is.Alternative != nil {
		s += " else " + is.Alternative.String()
	}
	return s
}

// ReturnStatement: return <ReturnValue>;
type ReturnStatement struct {
	baseStatement
	ReturnValue Expression // nil for a bare return
}

func (rs *ReturnStatement) String() string {
	if rs.ReturnValue == nil {
		return "return;"
	}
	return "return " + rs.ReturnValue.String() + ";"
}

// Parameter is one formal parameter of a synthesized method.
type Parameter struct {
	TypeName string
	Name     string
}

// MethodDeclaration is a static helper method synthesized during lowering,
// such as a context write-back accessor.
type MethodDeclaration struct {
	baseStatement
	ReturnType string
	Name       string
	Parameters []Parameter
	Body       *BlockStatement
}

func (md *MethodDeclaration) Signature() string {
	params := make([]string, len(md.Parameters))
	for i, p := range md.Parameters {
		params[i] = p.TypeName + " " + p.Name
	}
	return "private static " + md.ReturnType + " " + md.Name + "(" + strings.Join(params, ", ") + ")"
}

func (md *MethodDeclaration) String() string {
	return md.Signature() + " " + md.Body.String()
}

// --- Expression Nodes ---

// Name is a bare identifier reference.
type Name struct {
	baseExpression
	Value string
}

func (n *Name) String() string { return n.Value }

// FieldAccess is <Scope>.<Name> without a call.
type FieldAccess struct {
	baseExpression
	Scope Expression
	Name  string
}

func (fa *FieldAccess) String() string { return fa.Scope.String() + "." + fa.Name }

// ArrayAccess is <Base>[<Index>].
type ArrayAccess struct {
	baseExpression
	Base  Expression
	Index Expression
}

func (aa *ArrayAccess) String() string {
	return aa.Base.String() + "[" + aa.Index.String() + "]"
}

// MethodCall is <Scope>.<Name>(<Arguments>); Scope is nil for a call on
// the implicit root object.
type MethodCall struct {
	baseExpression
	Scope     Expression
	Name      string
	Arguments []Expression
	// Resolved is the declaration picked by overload resolution.
	Resolved *types.Method
}

func (mc *MethodCall) String() string {
	var out bytes.Buffer
	if mc.Scope != nil {
		out.WriteString(mc.Scope.String())
		out.WriteByte('.')
	}
	out.WriteString(mc.Name)
	writeArguments(&out, mc.Arguments)
	return out.String()
}

// BinaryExpression is <Left> <Operator> <Right>.
type BinaryExpression struct {
	baseExpression
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpression) String() string {
	return be.Left.String() + " " + be.Operator + " " + be.Right.String()
}

// AssignmentExpression is <Target> <Operator> <Value> where Operator is "="
// or a compound operator such as "+=".
type AssignmentExpression struct {
	baseExpression
	Target   Expression
	Operator string
	Value    Expression
}

func (ae *AssignmentExpression) String() string {
	return ae.Target.String() + " " + ae.Operator + " " + ae.Value.String()
}

// IsCompound reports whether the operator is "op=" rather than "=".
func (ae *AssignmentExpression) IsCompound() bool {
	return ae.Operator != "="
}

// BinaryOperator returns "+" for "+=" and so on.
func (ae *AssignmentExpression) BinaryOperator() string {
	return strings.TrimSuffix(ae.Operator, "=")
}

// VariableDeclaration is <TypeName> <Name> = <Init>. TypeName is "var" when
// the type is taken from the initializer.
type VariableDeclaration struct {
	baseExpression
	TypeName string
	Name     string
	Init     Expression // nil when absent
}

func (vd *VariableDeclaration) String() string {
	s := vd.TypeName + " " + vd.Name
	if vd.Init != nil {
		s += " = " + vd.Init.String()
	}
	return s
}

// CastExpression is (<TypeName>) <Expression>.
type CastExpression struct {
	baseExpression
	TypeName   string
	Expression Expression
}

func (ce *CastExpression) String() string {
	return "(" + ce.TypeName + ") " + ce.Expression.String()
}

// LiteralKind distinguishes literal value classes.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BooleanLiteral
	NullLiteral
)

// Literal is a constant. Number literals keep their source text, suffix
// included.
type Literal struct {
	baseExpression
	Kind  LiteralKind
	Value string
}

func (l *Literal) String() string {
	if l.Kind == StringLiteral {
		return strconv.Quote(l.Value)
	}
	return l.Value
}

// ObjectCreation is new <TypeName>(<Arguments>).
type ObjectCreation struct {
	baseExpression
	TypeName  string
	Arguments []Expression
	Resolved  *types.Method
}

func (oc *ObjectCreation) String() string {
	var out bytes.Buffer
	out.WriteString("new ")
	out.WriteString(oc.TypeName)
	writeArguments(&out, oc.Arguments)
	return out.String()
}

// ArrayCreation is new <ElementType>[<Size>] or new <ElementType>[] {<Elements>}.
type ArrayCreation struct {
	baseExpression
	ElementType string
	Size        Expression   // nil when an initializer is given
	Elements    []Expression // initializer elements
}

func (ac *ArrayCreation) String() string {
	if ac.Size != nil {
		return "new " + ac.ElementType + "[" + ac.Size.String() + "]"
	}
	parts := make([]string, len(ac.Elements))
	for i, e := range ac.Elements {
		parts[i] = e.String()
	}
	return "new " + ac.ElementType + "[] {" + strings.Join(parts, ", ") + "}"
}

// ParenExpression is a source-level grouping (<Inner>).
type ParenExpression struct {
	baseExpression
	Inner Expression
}

func (pe *ParenExpression) String() string { return "(" + pe.Inner.String() + ")" }

// UnaryExpression is <Operator><Operand> for "-" and "!".
type UnaryExpression struct {
	baseExpression
	Operator string
	Operand  Expression
}

func (ue *UnaryExpression) String() string { return ue.Operator + ue.Operand.String() }

func writeArguments(out *bytes.Buffer, args []Expression) {
	out.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	out.WriteByte(')')
}

// --- Helpers ---

// Unparen strips any number of grouping parentheses.
func Unparen(e Expression) Expression {
	for {
		p, ok := e.(*ParenExpression)
		if !ok {
			return e
		}
		e = p.Inner
	}
}

// IsPrimary reports whether e binds tighter than any operator, so it can
// be used as a call receiver or binary operand without grouping.
func IsPrimary(e Expression) bool {
	switch e.(type) {
	case *Name, *FieldAccess, *ArrayAccess, *MethodCall, *Literal,
		*ObjectCreation, *ArrayCreation, *ParenExpression:
		return true
	}
	return false
}
