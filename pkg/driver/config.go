package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mvelc/pkg/lower"
	"mvelc/pkg/resolver"
	"mvelc/pkg/types"
)

// Config describes the environment a unit is compiled against: the type of
// the implicit root object, the declared inputs, where writes to inputs go,
// and any user classes beyond the builtin model.
type Config struct {
	RootObject string               `yaml:"rootObject,omitempty"`
	Context    *ContextConfig       `yaml:"context,omitempty"`
	Inputs     []InputConfig        `yaml:"inputs,omitempty"`
	Classes    []resolver.ClassSpec `yaml:"classes,omitempty"`
	// ModelFiles are extra YAML class lists, relative to the config file.
	ModelFiles []string `yaml:"modelFiles,omitempty"`

	dir string
}

// ContextConfig is the YAML form of lower.Context.
type ContextConfig struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// InputConfig declares one input name. Index is its slot in a list context
// and defaults to the declaration order.
type InputConfig struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Index *int   `yaml:"index,omitempty"`
}

// DefaultConfig compiles against a java.lang.Object root with no inputs.
func DefaultConfig() *Config {
	return &Config{RootObject: "java.lang.Object"}
}

// ParseConfig decodes a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.RootObject == "" {
		cfg.RootObject = "java.lang.Object"
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration from disk.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// environment is a Config resolved against a class model.
type environment struct {
	model   *resolver.Model
	root    types.Type
	inputs  []resolver.Binding
	context *lower.Context
}

func (cfg *Config) build() (*environment, error) {
	model := resolver.BuiltinModel()
	for _, file := range cfg.ModelFiles {
		if !filepath.IsAbs(file) && cfg.dir != "" {
			file = filepath.Join(cfg.dir, file)
		}
		if err := resolver.LoadModelFile(model, file); err != nil {
			return nil, err
		}
	}
	if err := resolver.AddClasses(model, cfg.Classes); err != nil {
		return nil, err
	}

	env := &environment{model: model}
	root, err := model.ParseType(cfg.RootObject)
	if err != nil {
		return nil, fmt.Errorf("rootObject: %w", err)
	}
	env.root = root

	seen := make(map[string]bool, len(cfg.Inputs))
	for i, in := range cfg.Inputs {
		if in.Name == "" {
			return nil, fmt.Errorf("input %d: missing name", i)
		}
		if seen[in.Name] {
			return nil, fmt.Errorf("input %q declared twice", in.Name)
		}
		seen[in.Name] = true
		t, err := model.ParseType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Name, err)
		}
		index := i
		if in.Index != nil {
			index = *in.Index
		}
		env.inputs = append(env.inputs, resolver.Binding{Name: in.Name, Type: t, Kind: resolver.InputBinding, Index: index})
	}

	if cfg.Context != nil {
		kind, ok := lower.ParseContextKind(cfg.Context.Kind)
		if !ok {
			return nil, fmt.Errorf("context: unknown kind %q (want map, list or pojo)", cfg.Context.Kind)
		}
		if cfg.Context.Name == "" {
			return nil, fmt.Errorf("context: missing name")
		}
		t, err := model.ParseType(cfg.Context.Type)
		if err != nil {
			return nil, fmt.Errorf("context: %w", err)
		}
		env.context = &lower.Context{Kind: kind, Name: cfg.Context.Name, Type: t}
	}
	return env, nil
}
