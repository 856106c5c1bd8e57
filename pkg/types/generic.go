package types

// Substitute replaces the type variables named in params by the matching
// entries of args, recursing into arrays and generic arguments. Variables
// without a binding are left in place.
func Substitute(t Type, params []string, args []Type) Type {
	if len(params) == 0 || len(args) == 0 {
		return t
	}
	switch tt := t.(type) {
	case *TypeVariable:
		for i, name := range params {
			if name == tt.Name && i < len(args) && args[i] != nil {
				return args[i]
			}
		}
		return tt
	case *Array:
		return &Array{Component: Substitute(tt.Component, params, args)}
	case *Reference:
		if len(tt.Args) == 0 {
			return tt
		}
		newArgs := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			newArgs[i] = Substitute(a, params, args)
		}
		return &Reference{Name: tt.Name, Args: newArgs}
	}
	return t
}

// Erase replaces remaining type variables by Object, so a parameter that
// could not be substituted still accepts any reference.
func Erase(t Type) Type {
	switch tt := t.(type) {
	case *TypeVariable:
		return Object
	case *Array:
		return &Array{Component: Erase(tt.Component)}
	}
	return t
}

// TypeArg returns the i-th generic argument of a reference type, or Object
// when the type is raw or not a reference.
func TypeArg(t Type, i int) Type {
	if r, ok := t.(*Reference); ok && i < len(r.Args) {
		return r.Args[i]
	}
	return Object
}
