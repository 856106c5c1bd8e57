package resolver

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConstructorName is the method name under which constructors are listed.
const ConstructorName = "<init>"

// Capitalize upper-cases the first letter of name and leaves the rest as
// written, so "firstName" becomes "FirstName".
func Capitalize(name string) string {
	if name == "" {
		return name
	}
	_, size := utf8.DecodeRuneInString(name)
	// A Caser carries state, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(name[:size]) + name[size:]
}

// AccessorName joins a prefix such as "get", "is" or "contextSet" with a
// capitalized property name.
func AccessorName(prefix, name string) string {
	return prefix + Capitalize(name)
}
