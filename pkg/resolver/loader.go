package resolver

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"mvelc/pkg/types"
)

//go:embed builtin.yaml
var builtinYAML []byte

// ClassSpec is the YAML form of a class declaration.
type ClassSpec struct {
	Name         string       `yaml:"name"`
	TypeParams   []string     `yaml:"typeParams,omitempty"`
	Supertypes   []string     `yaml:"supertypes,omitempty"`
	Fields       []FieldSpec  `yaml:"fields,omitempty"`
	Methods      []MethodSpec `yaml:"methods,omitempty"`
	Constructors [][]string   `yaml:"constructors,omitempty"`
}

// FieldSpec declares a field. Fields are public unless marked private.
type FieldSpec struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Static  bool   `yaml:"static,omitempty"`
	Private bool   `yaml:"private,omitempty"`
}

// MethodSpec declares a method. A trailing parameter written "T..." makes
// the method variadic.
type MethodSpec struct {
	Name       string   `yaml:"name"`
	TypeParams []string `yaml:"typeParams,omitempty"`
	Params     []string `yaml:"params,omitempty"`
	Returns    string   `yaml:"returns,omitempty"`
	Static     bool     `yaml:"static,omitempty"`
	Private    bool     `yaml:"private,omitempty"`
}

type modelFile struct {
	Classes []ClassSpec `yaml:"classes"`
}

// BuiltinModel returns a fresh model holding the java.lang, java.math and
// java.util subset every unit can see.
func BuiltinModel() *Model {
	m := NewModel()
	if err := LoadModel(m, builtinYAML); err != nil {
		panic(fmt.Sprintf("resolver: invalid builtin model: %v", err))
	}
	return m
}

// LoadModel decodes a YAML class list and adds it to m.
func LoadModel(m *Model, data []byte) error {
	var file modelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decoding class model: %w", err)
	}
	return AddClasses(m, file.Classes)
}

// LoadModelFile reads a YAML class list from disk into m.
func LoadModelFile(m *Model, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := LoadModel(m, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// AddClasses declares every class first and then resolves member types, so
// specs may refer to each other in any order.
func AddClasses(m *Model, specs []ClassSpec) error {
	classes := make([]*Class, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return fmt.Errorf("class #%d has no name", i+1)
		}
		classes[i] = &Class{Name: spec.Name, TypeParams: spec.TypeParams}
		m.Add(classes[i])
	}
	for i, spec := range specs {
		if err := fillClass(m, classes[i], spec); err != nil {
			return fmt.Errorf("class %s: %w", spec.Name, err)
		}
	}
	return nil
}

func fillClass(m *Model, c *Class, spec ClassSpec) error {
	owner := c.Type()
	for _, s := range spec.Supertypes {
		t, err := m.ParseType(s, c.TypeParams...)
		if err != nil {
			return err
		}
		ref, ok := t.(*types.Reference)
		if !ok {
			return fmt.Errorf("supertype %q is not a class", s)
		}
		c.Supertypes = append(c.Supertypes, ref)
	}
	for _, f := range spec.Fields {
		t, err := m.ParseType(f.Type, c.TypeParams...)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		c.Fields = append(c.Fields, &Field{Name: f.Name, Type: t, Public: !f.Private, Static: f.Static})
	}
	for _, ms := range spec.Methods {
		typeParams := append(append([]string(nil), c.TypeParams...), ms.TypeParams...)
		meth, err := buildMethod(m, owner, ms.Name, ms.Params, typeParams)
		if err != nil {
			return fmt.Errorf("method %s: %w", ms.Name, err)
		}
		meth.Static = ms.Static
		meth.Public = !ms.Private
		meth.Return = types.Void
		if ms.Returns != "" {
			if meth.Return, err = m.ParseType(ms.Returns, typeParams...); err != nil {
				return fmt.Errorf("method %s: %w", ms.Name, err)
			}
		}
		c.Methods = append(c.Methods, meth)
	}
	for _, params := range spec.Constructors {
		ctor, err := buildMethod(m, owner, ConstructorName, params, c.TypeParams)
		if err != nil {
			return fmt.Errorf("constructor: %w", err)
		}
		ctor.Public = true
		ctor.Return = owner
		c.Constructors = append(c.Constructors, ctor)
	}
	return nil
}

func buildMethod(m *Model, owner *types.Reference, name string, params []string, typeParams []string) (*types.Method, error) {
	meth := &types.Method{Name: name, Owner: owner}
	for i, p := range params {
		spelled := strings.TrimSpace(p)
		if strings.HasSuffix(spelled, "...") {
			if i != len(params)-1 {
				return nil, fmt.Errorf("only the last parameter may be variadic")
			}
			spelled = strings.TrimSuffix(spelled, "...") + "[]"
			meth.Variadic = true
		}
		t, err := m.ParseType(spelled, typeParams...)
		if err != nil {
			return nil, err
		}
		meth.Params = append(meth.Params, t)
	}
	return meth, nil
}
