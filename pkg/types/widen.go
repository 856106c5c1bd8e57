package types

// --- Primitive widening and binary numeric promotion ---

var widenings = map[*Primitive][]*Primitive{
	Byte:  {Short, Int, Long, Float, Double},
	Short: {Int, Long, Float, Double},
	Char:  {Int, Long, Float, Double},
	Int:   {Long, Float, Double},
	Long:  {Float, Double},
	Float: {Double},
}

// Widens reports whether a value of primitive kind from converts to kind to
// without a cast.
func Widens(from, to *Primitive) bool {
	from, to = primitivesByName[from.Name], primitivesByName[to.Name]
	if from == nil || to == nil {
		return false
	}
	if from == to {
		return true
	}
	for _, w := range widenings[from] {
		if w == to {
			return true
		}
	}
	return false
}

// Promote applies binary numeric promotion to two numeric operand types.
// It returns false when either operand is not numeric.
func Promote(a, b Type) (*Primitive, bool) {
	pa, okA := Unbox(a)
	pb, okB := Unbox(b)
	if !okA || !okB || pa == Boolean || pb == Boolean {
		return nil, false
	}
	switch {
	case pa == Double || pb == Double:
		return Double, true
	case pa == Float || pb == Float:
		return Float, true
	case pa == Long || pb == Long:
		return Long, true
	}
	return Int, true
}
