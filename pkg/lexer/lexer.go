package lexer

import "fmt"

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // The actual text of the token (lexeme)
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Literal, t.Line, t.Column)
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + Literals
	IDENT  TokenType = "IDENT"  // $p, salary, BigDecimal
	NUMBER TokenType = "NUMBER" // 10, 10L, 1.5d, 40B, 7I
	STRING TokenType = "STRING" // "text" or 'text'

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	BANG     TokenType = "!"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	LT       TokenType = "<"
	GT       TokenType = ">"
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "!="
	LE       TokenType = "<="
	GE       TokenType = ">="
	DOT      TokenType = "."

	LOGICAL_AND TokenType = "&&"
	LOGICAL_OR  TokenType = "||"

	// Compound Assignment
	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="
	PERCENT_ASSIGN  TokenType = "%="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	NEW    TokenType = "NEW"
	NULL   TokenType = "NULL"
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"
	VAR    TokenType = "VAR"
	IF     TokenType = "IF"
	ELSE   TokenType = "ELSE"
	RETURN TokenType = "RETURN"
)

var keywords = map[string]TokenType{
	"new":    NEW,
	"null":   NULL,
	"true":   TRUE,
	"false":  FALSE,
	"var":    VAR,
	"if":     IF,
	"else":   ELSE,
	"return": RETURN,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// CompoundOperator maps a compound assignment token to its binary operator.
func CompoundOperator(t TokenType) (string, bool) {
	switch t {
	case PLUS_ASSIGN:
		return "+", true
	case MINUS_ASSIGN:
		return "-", true
	case ASTERISK_ASSIGN:
		return "*", true
	case SLASH_ASSIGN:
		return "/", true
	case PERCENT_ASSIGN:
		return "%", true
	}
	return "", false
}

// Lexer holds the state of the scanner.
type Lexer struct {
	input        string
	position     int  // byte offset of ch
	readPosition int  // byte offset after ch
	ch           byte // current char under examination
	line         int
	column       int
}

// NewLexer creates a new Lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	startLine, startCol, startPos := l.line, l.column, l.position
	make1 := func(t TokenType) Token {
		l.readChar()
		return Token{Type: t, Literal: l.input[startPos:l.position], Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}
	// make2 consumes a two-character operator when the next char matches.
	make2 := func(next byte, two, one TokenType) Token {
		if l.peekChar() == next {
			l.readChar()
			return make1(two)
		}
		return make1(one)
	}

	switch l.ch {
	case 0:
		return Token{Type: EOF, Line: startLine, Column: startCol, StartPos: startPos, EndPos: startPos}
	case '=':
		return make2('=', EQ, ASSIGN)
	case '!':
		return make2('=', NOT_EQ, BANG)
	case '+':
		return make2('=', PLUS_ASSIGN, PLUS)
	case '-':
		return make2('=', MINUS_ASSIGN, MINUS)
	case '*':
		return make2('=', ASTERISK_ASSIGN, ASTERISK)
	case '/':
		return make2('=', SLASH_ASSIGN, SLASH)
	case '%':
		return make2('=', PERCENT_ASSIGN, PERCENT)
	case '<':
		return make2('=', LE, LT)
	case '>':
		return make2('=', GE, GT)
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			return make1(LOGICAL_AND)
		}
		return make1(ILLEGAL)
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			return make1(LOGICAL_OR)
		}
		return make1(ILLEGAL)
	case '.':
		if isDigit(l.peekChar()) {
			break
		}
		return make1(DOT)
	case ',':
		return make1(COMMA)
	case ';':
		return make1(SEMICOLON)
	case '(':
		return make1(LPAREN)
	case ')':
		return make1(RPAREN)
	case '{':
		return make1(LBRACE)
	case '}':
		return make1(RBRACE)
	case '[':
		return make1(LBRACKET)
	case ']':
		return make1(RBRACKET)
	case '"', '\'':
		value, ok := l.readString(l.ch)
		tok := Token{Type: STRING, Literal: value, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
		if !ok {
			tok.Type = ILLEGAL
			tok.Literal = "unterminated string literal"
		}
		return tok
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return Token{Type: LookupIdent(ident), Literal: ident, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}
	if isDigit(l.ch) || l.ch == '.' {
		num := l.readNumber()
		return Token{Type: NUMBER, Literal: num, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}
	return make1(ILLEGAL)
}

// readIdentifier reads letters, digits, '_' and '$'.
func (l *Lexer) readIdentifier() string {
	startPos := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// readNumber reads digits, an optional fraction and exponent, and a single
// trailing type suffix letter. Validation of the shape is left to SplitNumber.
func (l *Lexer) readNumber() string {
	startPos := l.position
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		if p := l.peekChar(); isDigit(p) || p == '+' || p == '-' {
			l.readChar()
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	if isSuffix(l.ch) {
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// readString reads a quoted literal and returns its unescaped content.
func (l *Lexer) readString(quote byte) (string, bool) {
	l.readChar() // opening quote
	var out []byte
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			return string(out), false
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				out = append(out, l.ch)
			}
			l.readChar()
			continue
		}
		out = append(out, l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return string(out), true
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSuffix(ch byte) bool {
	switch ch {
	case 'B', 'b', 'I', 'i', 'L', 'l', 'D', 'd', 'F', 'f':
		return true
	}
	return false
}
