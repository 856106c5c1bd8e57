package types

// Hierarchy answers subtype questions about reference types. The resolver
// implements it from its class model.
type Hierarchy interface {
	IsSubtype(sub, super Type) bool
}

// HierarchyFunc adapts a plain function to Hierarchy.
type HierarchyFunc func(sub, super Type) bool

func (f HierarchyFunc) IsSubtype(sub, super Type) bool { return f(sub, super) }

// IsAssignable checks if a value of type source can be assigned to a
// variable of type target without an explicit conversion: identity,
// primitive widening, boxing and unboxing, null to reference, and
// reference subtyping as answered by h.
func IsAssignable(source, target Type, h Hierarchy) bool {
	if source == nil || target == nil {
		return false
	}
	if source.Equals(target) {
		return true
	}
	if target.Equals(Void) || source.Equals(Void) {
		return false
	}

	if IsNull(source) {
		return IsReferenceLike(target)
	}

	// Unsubstituted type variables accept any value (boxing primitives).
	if _, ok := target.(*TypeVariable); ok {
		return true
	}

	sp, sourcePrim := source.(*Primitive)
	tp, targetPrim := target.(*Primitive)
	switch {
	case sourcePrim && targetPrim:
		return Widens(sp, tp)
	case sourcePrim:
		boxed, ok := Box(sp)
		return ok && IsAssignable(boxed, target, h)
	case targetPrim:
		unboxed, ok := Unbox(source)
		return ok && Widens(unboxed, tp)
	}

	if target.Equals(Object) {
		return true
	}

	switch st := source.(type) {
	case *Array:
		tt, ok := target.(*Array)
		if !ok {
			return false
		}
		if IsPrimitive(st.Component) || IsPrimitive(tt.Component) {
			return st.Component.Equals(tt.Component)
		}
		return IsAssignable(st.Component, tt.Component, h)
	case *Reference:
		if _, ok := target.(*Reference); !ok {
			return false
		}
		return h != nil && h.IsSubtype(source, target)
	}
	return false
}

// MutuallyNumeric reports whether both types are primitive or boxed numeric
// kinds, so Java arithmetic and compound assignment apply without lowering.
func MutuallyNumeric(a, b Type) bool {
	return IsNumeric(a) && IsNumeric(b)
}
