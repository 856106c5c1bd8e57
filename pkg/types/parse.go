package types

import (
	"fmt"
	"strings"
)

// Parse reads a source-level type such as "int", "String[]",
// "Map<String, BigDecimal>" or "T". canonical maps a simple or qualified
// class name to its canonical form; names listed in typeParams become type
// variables.
func Parse(s string, canonical func(string) string, typeParams ...string) (Type, error) {
	p := &typeParser{src: s, canonical: canonical, typeParams: typeParams}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected %q in type %q", p.src[p.pos:], s)
	}
	return t, nil
}

type typeParser struct {
	src        string
	pos        int
	canonical  func(string) string
	typeParams []string
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) parse() (Type, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, fmt.Errorf("expected type name in %q", p.src)
	}

	var t Type
	if prim, ok := PrimitiveByName(name); ok {
		t = prim
	} else if p.isTypeParam(name) {
		t = &TypeVariable{Name: name}
	} else {
		ref := &Reference{Name: name}
		if p.canonical != nil {
			ref.Name = p.canonical(name)
		}
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '<' {
			p.pos++
			for {
				arg, err := p.parse()
				if err != nil {
					return nil, err
				}
				ref.Args = append(ref.Args, arg)
				p.skipSpace()
				if p.pos < len(p.src) && p.src[p.pos] == ',' {
					p.pos++
					continue
				}
				if p.pos < len(p.src) && p.src[p.pos] == '>' {
					p.pos++
					break
				}
				return nil, fmt.Errorf("unterminated type arguments in %q", p.src)
			}
		}
		t = ref
	}

	for {
		p.skipSpace()
		if !strings.HasPrefix(p.src[p.pos:], "[]") {
			return t, nil
		}
		p.pos += 2
		t = &Array{Component: t}
	}
}

func (p *typeParser) isTypeParam(name string) bool {
	for _, tp := range p.typeParams {
		if tp == name {
			return true
		}
	}
	return false
}

func isNameChar(c byte) bool {
	return c == '.' || c == '_' || c == '$' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
