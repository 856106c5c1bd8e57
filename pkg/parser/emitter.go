package parser

import (
	"bytes"
	"fmt"
)

// JavaEmitter renders a lowered unit as target-language source: the unit's
// statements as a method body followed by any synthesized accessors.
type JavaEmitter struct {
	indentLevel int
	buffer      bytes.Buffer
}

// NewJavaEmitter creates a new emitter
func NewJavaEmitter() *JavaEmitter {
	return &JavaEmitter{}
}

// Emit converts a program AST to target source.
func (e *JavaEmitter) Emit(program *Program) string {
	e.buffer.Reset()
	e.indentLevel = 0

	for _, stmt := range program.Statements {
		e.emitStatement(stmt)
	}
	for _, acc := range program.Accessors {
		e.buffer.WriteString("\n")
		e.emitStatement(acc)
	}
	return e.buffer.String()
}

// Helper methods

func (e *JavaEmitter) indent() {
	e.indentLevel++
}

func (e *JavaEmitter) dedent() {
	if e.indentLevel > 0 {
		e.indentLevel--
	}
}

func (e *JavaEmitter) writeIndent() {
	for i := 0; i < e.indentLevel; i++ {
		e.buffer.WriteString("    ")
	}
}

func (e *JavaEmitter) writeLine(format string, args ...interface{}) {
	e.writeIndent()
	fmt.Fprintf(&e.buffer, format, args...)
	e.buffer.WriteString("\n")
}

func (e *JavaEmitter) emitStatement(stmt Statement) {
	switch s := stmt.(type) {
	case *ExpressionStatement:
		e.writeLine("%s", s.String())
	case *ReturnStatement:
		e.writeLine("%s", s.String())
	case *BlockStatement:
		e.writeLine("{")
		e.emitBody(s)
		e.writeLine("}")
	case *IfStatement:
		e.emitIf(s)
	case *MethodDeclaration:
		e.writeLine("%s {", s.Signature())
		e.emitBody(s.Body)
		e.writeLine("}")
	default:
		e.writeLine("/* unsupported statement %T */", s)
	}
}

func (e *JavaEmitter) emitBody(block *BlockStatement) {
	e.indent()
	for _, inner := range block.Statements {
		e.emitStatement(inner)
	}
	e.dedent()
}

func (e *JavaEmitter) emitIf(s *IfStatement) {
	e.writeLine("if (%s) {", s.Condition.String())
	e.emitBranch(s.Consequence)
	for s.Alternative != nil {
		if next, ok := s.Alternative.(*IfStatement); ok {
			e.writeLine("} else if (%s) {", next.Condition.String())
			e.emitBranch(next.Consequence)
			s = next
			continue
		}
		e.writeLine("} else {")
		e.emitBranch(s.Alternative)
		break
	}
	e.writeLine("}")
}

func (e *JavaEmitter) emitBranch(stmt Statement) {
	if block, ok := stmt.(*BlockStatement); ok {
		e.emitBody(block)
		return
	}
	e.indent()
	e.emitStatement(stmt)
	e.dedent()
}
