package parser

import (
	"fmt"
	"strings"

	"mvelc/pkg/errors"
	"mvelc/pkg/lexer"
	"mvelc/pkg/source"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// Parser takes the token stream of one unit and builds an AST whose nodes
// are all allocated from the parser's Arena.
type Parser struct {
	source *source.SourceFile
	arena  *Arena
	errors []errors.MvelcError

	// Tokens are buffered up front so declarations and casts can be told
	// apart from expressions with arbitrary lookahead.
	tokens []lexer.Token
	pos    int

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// Parsing functions types for Pratt parser
type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// Precedence levels for VALUE operators
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // =, +=, -=, *=, /=, %=
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // ==, !=
	LESSGREATER // <, >, <=, >=
	SUM         // +, -
	PRODUCT     // *, /, %
	PREFIX      // -x, !x, casts
	POSTFIX     // a.b, a[b], a(b)
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:          ASSIGNMENT,
	lexer.PLUS_ASSIGN:     ASSIGNMENT,
	lexer.MINUS_ASSIGN:    ASSIGNMENT,
	lexer.ASTERISK_ASSIGN: ASSIGNMENT,
	lexer.SLASH_ASSIGN:    ASSIGNMENT,
	lexer.PERCENT_ASSIGN:  ASSIGNMENT,
	lexer.LOGICAL_OR:      LOGICAL_OR,
	lexer.LOGICAL_AND:     LOGICAL_AND,
	lexer.EQ:              EQUALS,
	lexer.NOT_EQ:          EQUALS,
	lexer.LT:              LESSGREATER,
	lexer.GT:              LESSGREATER,
	lexer.LE:              LESSGREATER,
	lexer.GE:              LESSGREATER,
	lexer.PLUS:            SUM,
	lexer.MINUS:           SUM,
	lexer.ASTERISK:        PRODUCT,
	lexer.SLASH:           PRODUCT,
	lexer.PERCENT:         PRODUCT,
	lexer.DOT:             POSTFIX,
	lexer.LBRACKET:        POSTFIX,
	lexer.LPAREN:          POSTFIX,
}

// NewParser creates a parser over src, allocating nodes from arena.
func NewParser(src *source.SourceFile, arena *Arena) *Parser {
	p := &Parser{source: src, arena: arena}

	l := lexer.NewLexer(src.Content)
	for {
		tok := l.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:  p.parseName,
		lexer.NUMBER: p.parseNumberLiteral,
		lexer.STRING: p.parseStringLiteral,
		lexer.TRUE:   p.parseBooleanLiteral,
		lexer.FALSE:  p.parseBooleanLiteral,
		lexer.NULL:   p.parseNullLiteral,
		lexer.LPAREN: p.parseGroupedOrCast,
		lexer.MINUS:  p.parseUnaryExpression,
		lexer.BANG:   p.parseUnaryExpression,
		lexer.NEW:    p.parseNewExpression,
	}
	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for _, t := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT,
		lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.GT, lexer.LE, lexer.GE,
		lexer.LOGICAL_AND, lexer.LOGICAL_OR,
	} {
		p.infixParseFns[t] = p.parseInfixExpression
	}
	for _, t := range []lexer.TokenType{
		lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN,
		lexer.ASTERISK_ASSIGN, lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN,
	} {
		p.infixParseFns[t] = p.parseAssignmentExpression
	}
	p.infixParseFns[lexer.DOT] = p.parseMemberExpression
	p.infixParseFns[lexer.LBRACKET] = p.parseIndexExpression
	p.infixParseFns[lexer.LPAREN] = p.parseCallExpression

	// Read two tokens, so curToken and peekToken are both set
	p.curToken = p.tokens[0]
	p.peekToken = p.tokenAt(1)
	return p
}

// Errors returns the syntax errors collected so far.
func (p *Parser) Errors() []errors.MvelcError {
	return p.errors
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.tokenAt(p.pos + 1)
}

// ParseProgram parses the whole unit.
func (p *Parser) ParseProgram() (*Program, []errors.MvelcError) {
	program := &Program{}
	for p.curToken.Type != lexer.EOF {
		if p.curToken.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}
	return program, p.errors
}

// synchronize skips to the next statement boundary after an error.
func (p *Parser) synchronize() {
	for p.curToken.Type != lexer.EOF && p.curToken.Type != lexer.SEMICOLON && p.curToken.Type != lexer.RBRACE {
		p.nextToken()
	}
}

// --- Statements ---

func (p *Parser) parseStatement() Statement {
	debugPrint("parseStatement: cur=%s", p.curToken)
	switch p.curToken.Type {
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.VAR:
		return p.parseDeclarationStatement()
	case lexer.IDENT:
		if p.isDeclarationStart() {
			return p.parseDeclarationStatement()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlockStatement() *BlockStatement {
	block := p.arena.NewBlock(p.curToken)
	p.nextToken()
	for p.curToken.Type != lexer.RBRACE && p.curToken.Type != lexer.EOF {
		if p.curToken.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	if p.curToken.Type != lexer.RBRACE {
		p.addError(p.curToken, "expected '}' to close block")
	}
	return block
}

func (p *Parser) parseIfStatement() Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	cons := p.parseStatement()
	if cons == nil {
		return nil
	}
	var alt Statement
	if p.peekToken.Type == lexer.ELSE {
		p.nextToken()
		p.nextToken()
		alt = p.parseStatement()
	}
	return p.arena.NewIf(tok, cond, cons, alt)
}

func (p *Parser) parseReturnStatement() *ReturnStatement {
	tok := p.curToken
	var value Expression
	if p.peekToken.Type != lexer.SEMICOLON && p.peekToken.Type != lexer.EOF && p.peekToken.Type != lexer.RBRACE {
		p.nextToken()
		value = p.parseExpression(LOWEST)
	}
	p.endStatement()
	return p.arena.NewReturn(tok, value)
}

// isDeclarationStart looks ahead for: Type ('<' ... '>')? ('[' ']')* IDENT ('=' | ';' | '}' | EOF).
// Type must look like a type, so "a b" stays an expression statement and
// reports the missing ';'.
func (p *Parser) isDeclarationStart() bool {
	i := p.skipQualifiedName(p.pos)
	if i < 0 || !looksLikeType(p.tokenAt(p.pos).Literal, p.tokenAt(i-1).Literal, i == p.pos+1) {
		return false
	}
	if p.tokenAt(i).Type == lexer.LT {
		depth := 0
		for ; i < len(p.tokens); i++ {
			switch p.tokenAt(i).Type {
			case lexer.LT:
				depth++
			case lexer.GT:
				depth--
			case lexer.IDENT, lexer.COMMA, lexer.DOT, lexer.LBRACKET, lexer.RBRACKET:
			default:
				return false
			}
			if depth == 0 {
				i++
				break
			}
		}
	}
	for p.tokenAt(i).Type == lexer.LBRACKET && p.tokenAt(i+1).Type == lexer.RBRACKET {
		i += 2
	}
	if p.tokenAt(i).Type != lexer.IDENT {
		return false
	}
	switch p.tokenAt(i + 1).Type {
	case lexer.ASSIGN, lexer.SEMICOLON, lexer.RBRACE, lexer.EOF:
		return true
	}
	return false
}

// skipQualifiedName returns the index after IDENT ('.' IDENT)* starting at
// i, or -1 when no name starts there.
func (p *Parser) skipQualifiedName(i int) int {
	if p.tokenAt(i).Type != lexer.IDENT {
		return -1
	}
	i++
	for p.tokenAt(i).Type == lexer.DOT && p.tokenAt(i+1).Type == lexer.IDENT {
		i += 2
	}
	return i
}

// parseTypeName consumes a type starting at curToken and leaves curToken on
// its last token.
func (p *Parser) parseTypeName() string {
	var sb strings.Builder
	sb.WriteString(p.curToken.Literal)
	for p.peekToken.Type == lexer.DOT {
		p.nextToken()
		p.nextToken()
		sb.WriteByte('.')
		sb.WriteString(p.curToken.Literal)
	}
	if p.peekToken.Type == lexer.LT {
		depth := 0
		for {
			p.nextToken()
			switch p.curToken.Type {
			case lexer.LT:
				depth++
			case lexer.GT:
				depth--
			case lexer.EOF:
				p.addError(p.curToken, "unterminated type arguments")
				return sb.String()
			}
			sb.WriteString(p.curToken.Literal)
			if p.curToken.Type == lexer.COMMA {
				sb.WriteByte(' ')
			}
			if depth == 0 {
				break
			}
		}
	}
	for p.peekToken.Type == lexer.LBRACKET && p.tokenAt(p.pos+2).Type == lexer.RBRACKET {
		p.nextToken()
		p.nextToken()
		sb.WriteString("[]")
	}
	return sb.String()
}

func (p *Parser) parseDeclarationStatement() Statement {
	tok := p.curToken
	typeName := p.parseTypeName()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	var init Expression
	if p.peekToken.Type == lexer.ASSIGN {
		p.nextToken()
		p.nextToken()
		init = p.parseExpression(LOWEST)
	}
	decl := p.arena.NewVariableDeclaration(tok, typeName, name, init)
	p.endStatement()
	return p.arena.NewExpressionStatement(tok, decl)
}

func (p *Parser) parseExpressionStatement() Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	p.endStatement()
	return p.arena.NewExpressionStatement(tok, expr)
}

// endStatement consumes an optional ';'. Any other token that cannot follow
// a statement is an error.
func (p *Parser) endStatement() {
	switch p.peekToken.Type {
	case lexer.SEMICOLON:
		p.nextToken()
	case lexer.EOF, lexer.RBRACE:
	default:
		p.addError(p.peekToken, fmt.Sprintf("expected ';' but found '%s'", p.peekToken.Literal))
	}
}

// --- Expressions ---

func (p *Parser) parseExpression(precedence int) Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && p.peekToken.Type != lexer.SEMICOLON && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

func (p *Parser) parseName() Expression {
	return p.arena.NewName(p.curToken, p.curToken.Literal)
}

func (p *Parser) parseNumberLiteral() Expression {
	if _, ok := lexer.SplitNumber(p.curToken.Literal); !ok {
		p.addError(p.curToken, fmt.Sprintf("malformed number literal '%s'", p.curToken.Literal))
		return nil
	}
	return p.arena.NewLiteral(p.curToken, NumberLiteral, p.curToken.Literal)
}

func (p *Parser) parseStringLiteral() Expression {
	return p.arena.NewLiteral(p.curToken, StringLiteral, p.curToken.Literal)
}

func (p *Parser) parseBooleanLiteral() Expression {
	return p.arena.NewLiteral(p.curToken, BooleanLiteral, p.curToken.Literal)
}

func (p *Parser) parseNullLiteral() Expression {
	return p.arena.NewLiteral(p.curToken, NullLiteral, "null")
}

func (p *Parser) parseUnaryExpression() Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return p.arena.NewUnary(tok, tok.Literal, operand)
}

// parseGroupedOrCast handles '(' which starts either a cast or a grouping.
func (p *Parser) parseGroupedOrCast() Expression {
	tok := p.curToken
	if p.isCastAhead() {
		p.nextToken()
		typeName := p.parseTypeName()
		p.nextToken() // ')'
		p.nextToken()
		operand := p.parseExpression(PREFIX)
		if operand == nil {
			return nil
		}
		return p.arena.NewCast(tok, typeName, operand)
	}

	p.nextToken()
	inner := p.parseExpression(LOWEST)
	if inner == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return p.arena.NewParen(tok, inner)
}

// isCastAhead reports whether '(' Type ')' is followed by an operand and
// Type looks like a type (a primitive or a capitalized class name).
func (p *Parser) isCastAhead() bool {
	i := p.skipQualifiedName(p.pos + 1)
	if i < 0 {
		return false
	}
	for p.tokenAt(i).Type == lexer.LBRACKET && p.tokenAt(i+1).Type == lexer.RBRACKET {
		i += 2
	}
	if p.tokenAt(i).Type != lexer.RPAREN {
		return false
	}
	first := p.tokenAt(p.pos + 1).Literal
	last := p.tokenAt(i - 1).Literal
	if p.tokenAt(i-1).Type == lexer.RBRACKET {
		last = p.tokenAt(i - 3).Literal
	}
	isPrimitive := isPrimitiveName(first) && i == p.pos+2
	if !looksLikeType(first, last, i == p.pos+2) {
		return false
	}
	switch p.tokenAt(i + 1).Type {
	case lexer.IDENT, lexer.NUMBER, lexer.STRING, lexer.LPAREN, lexer.NEW,
		lexer.TRUE, lexer.FALSE, lexer.NULL, lexer.BANG:
		return true
	case lexer.MINUS:
		return isPrimitive
	}
	return false
}

// looksLikeType reports whether a name is a primitive keyword (simple only)
// or a class name, whose last segment is capitalized.
func looksLikeType(first, last string, simple bool) bool {
	if simple && isPrimitiveName(first) {
		return true
	}
	return len(last) > 0 && last[0] >= 'A' && last[0] <= 'Z'
}

func isPrimitiveName(s string) bool {
	switch s {
	case "boolean", "byte", "short", "char", "int", "long", "float", "double":
		return true
	}
	return false
}

func (p *Parser) parseNewExpression() Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	typeName := p.curToken.Literal
	for p.peekToken.Type == lexer.DOT {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		typeName += "." + p.curToken.Literal
	}

	switch p.peekToken.Type {
	case lexer.LPAREN:
		p.nextToken()
		args := p.parseExpressionList(lexer.RPAREN)
		return p.arena.NewObjectCreation(tok, typeName, args...)
	case lexer.LBRACKET:
		p.nextToken()
		if p.peekToken.Type == lexer.RBRACKET {
			p.nextToken()
			if !p.expectPeek(lexer.LBRACE) {
				return nil
			}
			elements := p.parseExpressionList(lexer.RBRACE)
			return p.arena.NewArrayCreation(tok, typeName, nil, elements)
		}
		p.nextToken()
		size := p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.RBRACKET) {
			return nil
		}
		return p.arena.NewArrayCreation(tok, typeName, size, nil)
	}
	p.addError(p.peekToken, fmt.Sprintf("expected '(' or '[' after 'new %s'", typeName))
	return nil
}

func (p *Parser) parseInfixExpression(left Expression) Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return p.arena.NewBinary(tok, left, tok.Literal, right)
}

func (p *Parser) parseAssignmentExpression(left Expression) Expression {
	tok := p.curToken
	switch left.(type) {
	case *Name, *FieldAccess, *ArrayAccess:
	default:
		p.addError(tok, fmt.Sprintf("invalid assignment target '%s'", left.String()))
		return nil
	}
	p.nextToken()
	// Right-associative: a = b = c
	value := p.parseExpression(ASSIGNMENT - 1)
	if value == nil {
		return nil
	}
	return p.arena.NewAssignment(tok, left, tok.Literal, value)
}

func (p *Parser) parseMemberExpression(left Expression) Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if p.peekToken.Type == lexer.LPAREN {
		p.nextToken()
		args := p.parseExpressionList(lexer.RPAREN)
		return p.arena.NewMethodCall(tok, left, name, args...)
	}
	return p.arena.NewFieldAccess(tok, left, name)
}

func (p *Parser) parseIndexExpression(left Expression) Expression {
	tok := p.curToken
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if index == nil || !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return p.arena.NewArrayAccess(tok, left, index)
}

// parseCallExpression handles name(args): a call on the implicit root object.
func (p *Parser) parseCallExpression(left Expression) Expression {
	name, ok := left.(*Name)
	if !ok {
		p.addError(p.curToken, fmt.Sprintf("'%s' is not callable", left.String()))
		return nil
	}
	args := p.parseExpressionList(lexer.RPAREN)
	return p.arena.NewMethodCall(name.Token, nil, name.Value, args...)
}

// parseExpressionList parses a comma separated list; curToken is the
// opening delimiter and is left on the closing one.
func (p *Parser) parseExpressionList(end lexer.TokenType) []Expression {
	var list []Expression
	if p.peekToken.Type == end {
		p.nextToken()
		return list
	}
	p.nextToken()
	if e := p.parseExpression(LOWEST); e != nil {
		list = append(list, e)
	}
	for p.peekToken.Type == lexer.COMMA {
		p.nextToken()
		p.nextToken()
		if e := p.parseExpression(LOWEST); e != nil {
			list = append(list, e)
		}
	}
	p.expectPeek(end)
	return list
}

// --- Helpers ---

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.addError(p.peekToken, fmt.Sprintf("expected next token to be %s, got %s ('%s') instead",
		t, p.peekToken.Type, p.peekToken.Literal))
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	if tok.Type == lexer.ILLEGAL {
		p.addError(tok, fmt.Sprintf("illegal token '%s'", tok.Literal))
		return
	}
	p.addError(tok, fmt.Sprintf("no prefix parse function for %s found", tok.Type))
}

func (p *Parser) addError(tok lexer.Token, msg string) {
	pos := TokenPosition(tok)
	pos.Source = p.source
	p.errors = append(p.errors, &errors.SyntaxError{Position: pos, Msg: msg})
}

// TokenPosition converts a token's location into an error position.
func TokenPosition(tok lexer.Token) errors.Position {
	return errors.Position{
		Line:     tok.Line,
		Column:   tok.Column,
		StartPos: tok.StartPos,
		EndPos:   tok.EndPos,
	}
}

// PositionOf returns the source position of a node.
func PositionOf(n Node) errors.Position {
	return TokenPosition(n.GetToken())
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseString is a convenience wrapper used by tests and the REPL.
func ParseString(input string) (*Program, *Arena, []errors.MvelcError) {
	arena := NewArena()
	program, errs := NewParser(source.NewEvalSource(input), arena).ParseProgram()
	return program, arena, errs
}
