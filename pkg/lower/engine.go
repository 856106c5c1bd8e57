// Package lower rewrites a parsed unit of the dynamic expression language
// into explicit, fully typed target code. The rewrite is one depth-first
// pass that mutates the tree in place: every node is lowered after its
// children, and a lowered node replaces the original in its parent slot.
package lower

import (
	"fmt"

	"mvelc/pkg/coercion"
	"mvelc/pkg/errors"
	"mvelc/pkg/operators"
	"mvelc/pkg/parser"
	"mvelc/pkg/resolver"
	"mvelc/pkg/types"
)

const lowerDebug = false

func debugPrintf(format string, args ...interface{}) {
	if lowerDebug {
		fmt.Printf("[Lower] "+format, args...)
	}
}

// frame is one step of the path from a statement down to the node being
// visited. Frames are built once per visit and never mutated.
type frame struct {
	node   parser.Node
	parent *frame
}

// Engine lowers one compilation unit. It must not be reused for another
// unit; the coercion and operator tables it reads may be shared.
type Engine struct {
	arena     *parser.Arena
	resolver  resolver.TypeResolver
	coercions *coercion.Table
	operators *operators.Table
	context   *Context

	program   *parser.Program
	pending   map[parser.NodeID]*binaryState
	accessors map[string]*parser.MethodDeclaration
	notices   []errors.MvelcError
}

// Option configures an Engine.
type Option func(*Engine)

// WithContext makes assignments to input names visible through ctx.
func WithContext(ctx *Context) Option {
	return func(e *Engine) { e.context = ctx }
}

// WithTables replaces the default coercion and operator tables.
func WithTables(c *coercion.Table, o *operators.Table) Option {
	return func(e *Engine) {
		e.coercions = c
		e.operators = o
	}
}

// New creates an engine for the unit allocated in arena.
func New(arena *parser.Arena, res resolver.TypeResolver, opts ...Option) *Engine {
	e := &Engine{
		arena:     arena,
		resolver:  res,
		coercions: coercion.Default(),
		operators: operators.Default(),
		pending:   make(map[parser.NodeID]*binaryState),
		accessors: make(map[string]*parser.MethodDeclaration),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lower rewrites program in place. It stops at the first fatal error; the
// statements already rewritten are left as they are.
func (e *Engine) Lower(program *parser.Program) error {
	e.program = program
	for _, stmt := range program.Statements {
		if err := e.visitStatement(stmt, &frame{node: stmt}); err != nil {
			return err
		}
	}
	if len(e.pending) != 0 {
		return &errors.InternalError{Msg: fmt.Sprintf("%d binary expressions never fired", len(e.pending))}
	}
	return nil
}

// Notices returns the non-fatal problems found while lowering.
func (e *Engine) Notices() []errors.MvelcError {
	return e.notices
}

func (e *Engine) notice(err errors.MvelcError) {
	debugPrintf("notice: %s\n", err.Error())
	e.notices = append(e.notices, err)
}

// --- Statements ---

func (e *Engine) visitStatement(stmt parser.Statement, f *frame) error {
	switch s := stmt.(type) {
	case *parser.ExpressionStatement:
		if s.Expression == nil {
			return nil
		}
		return e.visitExpr(s.Expression, f)
	case *parser.BlockStatement:
		for _, inner := range s.Statements {
			if err := e.visitStatement(inner, &frame{node: inner, parent: f}); err != nil {
				return err
			}
		}
		return nil
	case *parser.IfStatement:
		if err := e.visitExpr(s.Condition, f); err != nil {
			return err
		}
		if err := e.visitStatement(s.Consequence, &frame{node: s.Consequence, parent: f}); err != nil {
			return err
		}
		if s.Alternative != nil {
			return e.visitStatement(s.Alternative, &frame{node: s.Alternative, parent: f})
		}
		return nil
	case *parser.ReturnStatement:
		if s.ReturnValue == nil {
			return nil
		}
		return e.visitExpr(s.ReturnValue, f)
	case *parser.MethodDeclaration:
		return nil // synthesized, already lowered
	}
	return &errors.InternalError{Position: parser.PositionOf(stmt), Msg: fmt.Sprintf("unhandled statement %T", stmt)}
}

// --- Expressions ---

// visitExpr lowers expr, whose parent is described by parent. Children are
// lowered first. When the rule for expr produces a different node, that
// node replaces expr in the parent slot. A non-binary result is then
// recorded with its type in an enclosing binary expression; binary
// expressions report themselves when they fire.
func (e *Engine) visitExpr(expr parser.Expression, parent *frame) error {
	f := &frame{node: expr, parent: parent}
	if err := e.visitChildren(expr, f); err != nil {
		return err
	}
	if _, isBinary := expr.(*parser.BinaryExpression); isBinary {
		return nil
	}

	result, t, err := e.lowerNode(expr, f)
	if err != nil {
		return err
	}
	if result != expr {
		debugPrintf("replace %s -> %s\n", expr, result)
		if !parser.ReplaceChild(parent.node, expr, result) {
			return &errors.InternalError{Position: parser.PositionOf(expr),
				Msg: fmt.Sprintf("%s is not a child of %T", expr, parent.node)}
		}
	}
	if _, ok := parent.node.(*parser.BinaryExpression); ok {
		if t == nil {
			if t, err = e.resolver.ResolveType(result); err != nil {
				return err
			}
		}
		_, err = e.record(parent, result, t)
		return err
	}
	return nil
}

func (e *Engine) visitChildren(expr parser.Expression, f *frame) error {
	visitAll := func(list []parser.Expression) error {
		for i := range list {
			if err := e.visitExpr(list[i], f); err != nil {
				return err
			}
		}
		return nil
	}

	switch n := expr.(type) {
	case *parser.Name, *parser.Literal:
		return nil
	case *parser.FieldAccess:
		return e.visitExpr(n.Scope, f)
	case *parser.ArrayAccess:
		if err := e.visitExpr(n.Base, f); err != nil {
			return err
		}
		return e.visitExpr(n.Index, f)
	case *parser.MethodCall:
		if n.Scope != nil {
			if err := e.visitExpr(n.Scope, f); err != nil {
				return err
			}
		}
		return visitAll(n.Arguments)
	case *parser.BinaryExpression:
		if err := e.visitExpr(n.Left, f); err != nil {
			return err
		}
		return e.visitExpr(n.Right, f)
	case *parser.AssignmentExpression:
		if err := e.visitTarget(n.Target, f); err != nil {
			return err
		}
		return e.visitExpr(n.Value, f)
	case *parser.VariableDeclaration:
		if n.Init == nil {
			return nil
		}
		return e.visitExpr(n.Init, f)
	case *parser.CastExpression:
		return e.visitExpr(n.Expression, f)
	case *parser.ObjectCreation:
		return visitAll(n.Arguments)
	case *parser.ArrayCreation:
		if n.Size != nil {
			if err := e.visitExpr(n.Size, f); err != nil {
				return err
			}
		}
		return visitAll(n.Elements)
	case *parser.ParenExpression:
		return e.visitExpr(n.Inner, f)
	case *parser.UnaryExpression:
		return e.visitExpr(n.Operand, f)
	}
	return &errors.InternalError{Position: parser.PositionOf(expr), Msg: fmt.Sprintf("unhandled expression %T", expr)}
}

// visitTarget lowers the subexpressions of an assignment target but not
// the target itself; assignment lowering decides its final shape.
func (e *Engine) visitTarget(target parser.Expression, assign *frame) error {
	tf := &frame{node: target, parent: assign}
	switch t := target.(type) {
	case *parser.Name:
		return nil
	case *parser.FieldAccess:
		return e.visitExpr(t.Scope, tf)
	case *parser.ArrayAccess:
		if err := e.visitExpr(t.Base, tf); err != nil {
			return err
		}
		return e.visitExpr(t.Index, tf)
	}
	return &errors.InternalError{Position: parser.PositionOf(target), Msg: fmt.Sprintf("invalid assignment target %T", target)}
}

// lowerNode applies the rule for one node whose children are already
// lowered. It returns the node to keep in the parent slot and, when known,
// its type.
func (e *Engine) lowerNode(expr parser.Expression, f *frame) (parser.Expression, types.Type, error) {
	switch n := expr.(type) {
	case *parser.Name:
		return e.lowerName(n, f)
	case *parser.FieldAccess:
		return e.lowerFieldAccess(n, f)
	case *parser.ArrayAccess:
		return e.lowerArrayAccess(n)
	case *parser.MethodCall:
		return e.lowerMethodCall(n)
	case *parser.AssignmentExpression:
		return e.lowerAssignment(n, f)
	case *parser.VariableDeclaration:
		return e.lowerVariableDeclaration(n)
	case *parser.CastExpression:
		return e.lowerCast(n)
	case *parser.Literal:
		if big, t, ok := coercion.MaterializeLiteral(e.arena, n); ok {
			return big, t, nil
		}
		t, _ := coercion.LiteralType(n)
		return n, t, nil
	case *parser.ObjectCreation:
		return e.lowerObjectCreation(n)
	case *parser.ArrayCreation:
		return e.lowerArrayCreation(n)
	case *parser.ParenExpression:
		return n, nil, nil
	case *parser.UnaryExpression:
		return e.lowerUnary(n)
	case *parser.BinaryExpression:
		return n, nil, nil
	}
	return nil, nil, &errors.InternalError{Position: parser.PositionOf(expr), Msg: fmt.Sprintf("unhandled expression %T", expr)}
}

// --- Shared helpers ---

// convert makes value, of type from, acceptable where to is expected.
func (e *Engine) convert(value parser.Expression, from, to types.Type, at parser.Node) (parser.Expression, error) {
	if to == nil || types.IsAssignable(from, to, e.resolver) {
		return value, nil
	}
	if coerced, ok := e.coercions.Coerce(e.arena, from, value, to); ok {
		return coerced, nil
	}
	return nil, noCoercion(at, from, to)
}

func noCoercion(at parser.Node, from, to types.Type) *errors.NoCoercionError {
	return &errors.NoCoercionError{Position: parser.PositionOf(at), From: typeName(from), To: typeName(to)}
}

func typeName(t types.Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.String()
}

func unresolved(at parser.Node, symbol string, receiver types.Type) *errors.UnresolvedSymbolError {
	e := &errors.UnresolvedSymbolError{Position: parser.PositionOf(at), Symbol: symbol}
	if receiver != nil {
		e.Receiver = receiver.String()
	}
	return e
}

func (e *Engine) isMapLike(t types.Type) bool {
	_, ok := t.(*types.Reference)
	return ok && e.resolver.IsSubtype(t, types.Map)
}

func (e *Engine) isListLike(t types.Type) bool {
	_, ok := t.(*types.Reference)
	return ok && e.resolver.IsSubtype(t, types.List)
}

// isScopeOf reports whether expr is the receiver slot of the node in f.
func isScopeOf(f *frame, expr parser.Expression) bool {
	if f == nil {
		return false
	}
	switch p := f.node.(type) {
	case *parser.FieldAccess:
		return p.Scope == expr
	case *parser.MethodCall:
		return p.Scope == expr
	}
	return false
}

// grouped wraps expr in parentheses unless it already binds tighter than
// any operator.
func (e *Engine) grouped(expr parser.Expression) parser.Expression {
	if parser.IsPrimary(expr) {
		return expr
	}
	return e.arena.NewParen(expr.GetToken(), expr)
}
