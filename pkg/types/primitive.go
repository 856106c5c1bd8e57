package types

// --- Boxing and numeric classification ---

var boxes = map[*Primitive]*Reference{
	Boolean: BoxedBool,
	Byte:    BoxedByte,
	Short:   BoxedShort,
	Char:    BoxedChar,
	Int:     BoxedInt,
	Long:    BoxedLong,
	Float:   BoxedFloat,
	Double:  BoxedDouble,
}

var unboxes = func() map[string]*Primitive {
	m := make(map[string]*Primitive, len(boxes))
	for p, r := range boxes {
		m[r.Key()] = p
	}
	return m
}()

// Box returns the wrapper class of a primitive kind.
func Box(p *Primitive) (*Reference, bool) {
	r, ok := boxes[primitivesByName[p.Name]]
	return r, ok
}

// Unbox returns the primitive behind t: t itself when it is a primitive,
// the wrapped kind when it is a boxed reference.
func Unbox(t Type) (*Primitive, bool) {
	switch tt := t.(type) {
	case *Primitive:
		p, ok := primitivesByName[tt.Name]
		return p, ok && p != Void
	case *Reference:
		p, ok := unboxes[tt.Key()]
		return p, ok
	}
	return nil, false
}

// IsPrimitive reports whether t is a primitive kind (not null, not void).
func IsPrimitive(t Type) bool {
	p, ok := t.(*Primitive)
	if !ok {
		return false
	}
	_, known := primitivesByName[p.Name]
	return known && p.Name != "void"
}

// IsBoxed reports whether t is one of the primitive wrapper classes.
func IsBoxed(t Type) bool {
	r, ok := t.(*Reference)
	if !ok {
		return false
	}
	_, boxed := unboxes[r.Key()]
	return boxed
}

// IsNumeric reports whether t is a primitive or boxed numeric kind,
// char included.
func IsNumeric(t Type) bool {
	p, ok := Unbox(t)
	return ok && p != Boolean
}

// IsIntegral reports whether t is a primitive or boxed integer kind.
func IsIntegral(t Type) bool {
	p, ok := Unbox(t)
	if !ok {
		return false
	}
	switch p {
	case Byte, Short, Char, Int, Long:
		return true
	}
	return false
}

// IsBigNumber reports whether t is an arbitrary-precision numeric type.
func IsBigNumber(t Type) bool {
	return t != nil && (t.Key() == BigDecimal.Key() || t.Key() == BigInteger.Key())
}

// IsString reports whether t is java.lang.String.
func IsString(t Type) bool {
	return t != nil && t.Key() == String.Key()
}

// IsBoolean reports whether t is boolean or Boolean.
func IsBoolean(t Type) bool {
	p, ok := Unbox(t)
	return ok && p == Boolean
}

// IsNull reports whether t is the type of the null literal.
func IsNull(t Type) bool {
	return t != nil && t.Key() == Null.Key()
}

// IsReferenceLike reports whether values of t are object references.
func IsReferenceLike(t Type) bool {
	switch t.(type) {
	case *Reference, *Array, *TypeVariable:
		return true
	}
	return false
}
