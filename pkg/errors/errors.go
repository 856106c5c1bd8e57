package errors

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MvelcError is the interface implemented by all errors raised while
// parsing or lowering a compilation unit.
type MvelcError interface {
	error
	Pos() Position
	Kind() string // e.g., "Syntax", "UnresolvedSymbol", "NoViableOverload"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
	// Fatal reports whether the error aborts the rewrite of the unit.
	Fatal() bool
}

// --- Concrete Error Types ---

// SyntaxError represents an error during lexing or parsing.
type SyntaxError struct {
	Position
	Msg   string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) Fatal() bool     { return true }

// UnresolvedSymbolError is raised when a property, field, getter or call
// name has no resolvable target on the receiver type.
type UnresolvedSymbolError struct {
	Position
	Symbol   string
	Receiver string // Canonical receiver type, empty for bare names
	Cause    error
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("UnresolvedSymbol Error at %d:%d: %s", e.Line, e.Column, e.Message())
}
func (e *UnresolvedSymbolError) Pos() Position { return e.Position }
func (e *UnresolvedSymbolError) Kind() string  { return "UnresolvedSymbol" }
func (e *UnresolvedSymbolError) Message() string {
	if e.Receiver == "" {
		return fmt.Sprintf("cannot resolve symbol '%s'", e.Symbol)
	}
	return fmt.Sprintf("cannot resolve '%s' on type %s", e.Symbol, e.Receiver)
}
func (e *UnresolvedSymbolError) Unwrap() error { return e.Cause }
func (e *UnresolvedSymbolError) Fatal() bool   { return true }

// NoCoercionError is raised when a required value conversion has neither a
// coercion rule nor an assignable fallback.
type NoCoercionError struct {
	Position
	From string
	To   string
}

func (e *NoCoercionError) Error() string {
	return fmt.Sprintf("NoCoercionAvailable Error at %d:%d: %s", e.Line, e.Column, e.Message())
}
func (e *NoCoercionError) Pos() Position { return e.Position }
func (e *NoCoercionError) Kind() string  { return "NoCoercionAvailable" }
func (e *NoCoercionError) Message() string {
	return fmt.Sprintf("no coercion from %s to %s", e.From, e.To)
}
func (e *NoCoercionError) Unwrap() error { return nil }
func (e *NoCoercionError) Fatal() bool   { return true }

// NoViableOverloadError is raised when every candidate declaration of a call
// was eliminated by arity or by a missing coercion.
type NoViableOverloadError struct {
	Position
	Method     string
	Receiver   string
	ArgTypes   []string
	Signatures []string
}

func (e *NoViableOverloadError) Error() string {
	return fmt.Sprintf("NoViableOverload Error at %d:%d: %s", e.Line, e.Column, e.Message())
}
func (e *NoViableOverloadError) Pos() Position { return e.Position }
func (e *NoViableOverloadError) Kind() string  { return "NoViableOverload" }
func (e *NoViableOverloadError) Message() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "no overload of %s.%s matches call with arguments (%s)",
		e.Receiver, e.Method, strings.Join(e.ArgTypes, ", "))
	if len(e.Signatures) > 0 {
		sb.WriteString(". Available signatures:")
		for _, sig := range e.Signatures {
			sb.WriteString("\n  ")
			sb.WriteString(sig)
		}
	}
	return sb.String()
}
func (e *NoViableOverloadError) Unwrap() error { return nil }
func (e *NoViableOverloadError) Fatal() bool   { return true }

// AmbiguousPrefixError records a scope that failed to resolve and was taken
// to be a package or static qualifier. The node is left unrewritten.
type AmbiguousPrefixError struct {
	Position
	Prefix string
	Cause  error
}

func (e *AmbiguousPrefixError) Error() string {
	return fmt.Sprintf("AmbiguousPackagePrefix at %d:%d: %s", e.Line, e.Column, e.Message())
}
func (e *AmbiguousPrefixError) Pos() Position { return e.Position }
func (e *AmbiguousPrefixError) Kind() string  { return "AmbiguousPackagePrefix" }
func (e *AmbiguousPrefixError) Message() string {
	return fmt.Sprintf("'%s' does not resolve to a value; treated as a package or type qualifier", e.Prefix)
}
func (e *AmbiguousPrefixError) Unwrap() error { return e.Cause }
func (e *AmbiguousPrefixError) Fatal() bool   { return false }

// InternalError reports a broken invariant inside the rewrite engine.
type InternalError struct {
	Position
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("Internal Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *InternalError) Pos() Position   { return e.Position }
func (e *InternalError) Kind() string    { return "Internal" }
func (e *InternalError) Message() string { return e.Msg }
func (e *InternalError) Unwrap() error   { return nil }
func (e *InternalError) Fatal() bool     { return true }

// --- Error Reporting ---

const summaryKey = "%d problem(s)"

func init() {
	message.Set(language.English, summaryKey,
		plural.Selectf(1, "%d",
			plural.One, "1 problem",
			plural.Other, "%d problems"))
}

// DisplayErrors writes errs to w in a user-friendly format, including the
// source line and a position marker, followed by a summary line.
func DisplayErrors(w io.Writer, src string, errs []MvelcError) {
	if len(errs) == 0 {
		return
	}
	lines := strings.Split(src, "\n")

	for _, err := range errs {
		pos := err.Pos()
		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintf(w, "%s Error: %s\n", err.Kind(), err.Message())
			continue
		}

		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", err.Kind(), pos.Line, pos.Column, err.Message())
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(lines[lineIdx], "\r\n\t "))

		marker := strings.Repeat(" ", max(pos.Column-1, 0)) + "^"
		if span := pos.EndPos - pos.StartPos; span > 1 {
			marker += strings.Repeat("~", span-1)
		}
		fmt.Fprintf(w, "  %s\n\n", marker)
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(w, summaryKey, len(errs))
	fmt.Fprintln(w)
}
