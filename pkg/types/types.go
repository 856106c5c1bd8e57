package types

import (
	"strings"
)

// Type is a resolved type descriptor. Descriptors are compared through
// their canonical Key, which is also what the coercion and operator tables
// are indexed by.
type Type interface {
	// String returns the display form, including generic arguments.
	String() string
	// Key returns the canonical lookup form. Reference keys are erased.
	Key() string
	// Equals checks whether both descriptors have the same canonical key.
	Equals(other Type) bool

	// typeNode() is a marker method to ensure only types defined in this package
	// can be assigned to the Type interface.
	typeNode()
}

// --- Primitive Types ---

// Primitive is a Java primitive kind. Keys are upper-cased so that "int"
// never collides with a reference type of the same textual root.
type Primitive struct {
	Name string
}

func (p *Primitive) String() string { return p.Name }
func (p *Primitive) Key() string    { return strings.ToUpper(p.Name) }
func (p *Primitive) typeNode()      {}
func (p *Primitive) Equals(other Type) bool {
	return other != nil && p.Key() == other.Key()
}

// Pre-defined primitive instances. Null is the type of the null literal.
var (
	Boolean = &Primitive{Name: "boolean"}
	Byte    = &Primitive{Name: "byte"}
	Short   = &Primitive{Name: "short"}
	Char    = &Primitive{Name: "char"}
	Int     = &Primitive{Name: "int"}
	Long    = &Primitive{Name: "long"}
	Float   = &Primitive{Name: "float"}
	Double  = &Primitive{Name: "double"}
	Void    = &Primitive{Name: "void"}
	Null    = &Primitive{Name: "null"}
)

var primitivesByName = map[string]*Primitive{
	"boolean": Boolean,
	"byte":    Byte,
	"short":   Short,
	"char":    Char,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"void":    Void,
}

// PrimitiveByName returns the primitive with the given source name.
func PrimitiveByName(name string) (*Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

// --- Reference Types ---

// Reference is a class or interface type, optionally parameterized.
type Reference struct {
	Name string // canonical (fully qualified) name
	Args []Type // generic arguments, nil when raw
}

// NewReference creates a reference type.
func NewReference(name string, args ...Type) *Reference {
	return &Reference{Name: name, Args: args}
}

func (r *Reference) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	parts := make([]string, len(r.Args))
	for i, a := range r.Args {
		parts[i] = a.String()
	}
	return r.Name + "<" + strings.Join(parts, ",") + ">"
}
func (r *Reference) Key() string { return r.Name }
func (r *Reference) typeNode()   {}
func (r *Reference) Equals(other Type) bool {
	return other != nil && r.Key() == other.Key()
}

// SimpleName is the unqualified class name, used when printing target code.
func (r *Reference) SimpleName() string {
	return SimpleName(r.Name)
}

// SimpleName strips the package qualifier from a canonical name.
func SimpleName(canonical string) string {
	if i := strings.LastIndexByte(canonical, '.'); i >= 0 {
		return canonical[i+1:]
	}
	return canonical
}

// Well-known reference types.
var (
	Object      = NewReference("java.lang.Object")
	String      = NewReference("java.lang.String")
	BoxedBool   = NewReference("java.lang.Boolean")
	BoxedByte   = NewReference("java.lang.Byte")
	BoxedShort  = NewReference("java.lang.Short")
	BoxedChar   = NewReference("java.lang.Character")
	BoxedInt    = NewReference("java.lang.Integer")
	BoxedLong   = NewReference("java.lang.Long")
	BoxedFloat  = NewReference("java.lang.Float")
	BoxedDouble = NewReference("java.lang.Double")
	Number      = NewReference("java.lang.Number")
	BigDecimal  = NewReference("java.math.BigDecimal")
	BigInteger  = NewReference("java.math.BigInteger")
	MathContext = NewReference("java.math.MathContext")
	Date        = NewReference("java.util.Date")
	Map         = NewReference("java.util.Map")
	List        = NewReference("java.util.List")
	Objects     = NewReference("java.util.Objects")
)

// --- Array Types ---

// Array is a true (bracket-indexed) array type.
type Array struct {
	Component Type
}

func (a *Array) String() string { return a.Component.String() + "[]" }
func (a *Array) Key() string    { return a.Component.Key() + "[]" }
func (a *Array) typeNode()      {}
func (a *Array) Equals(other Type) bool {
	return other != nil && a.Key() == other.Key()
}

// --- Type Variables ---

// TypeVariable is an unsubstituted generic parameter such as T or V.
type TypeVariable struct {
	Name string
}

func (tv *TypeVariable) String() string { return tv.Name }
func (tv *TypeVariable) Key() string    { return "?" + tv.Name }
func (tv *TypeVariable) typeNode()      {}
func (tv *TypeVariable) Equals(other Type) bool {
	return other != nil && tv.Key() == other.Key()
}
