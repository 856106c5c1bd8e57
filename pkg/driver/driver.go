package driver

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"mvelc/pkg/errors"
	"mvelc/pkg/lower"
	"mvelc/pkg/parser"
	"mvelc/pkg/resolver"
	"mvelc/pkg/source"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// Result is one compiled unit.
type Result struct {
	Program *parser.Program
	// Output is the emitted target source, accessors included.
	Output string
	// Notices are non-fatal problems, such as unresolvable package prefixes.
	Notices []errors.MvelcError
}

// Mvelc is a compilation session bound to one configuration. Every call
// compiles an independent unit: locals and synthesized accessors do not
// carry over between units.
type Mvelc struct {
	env *environment
}

// NewMvelc builds a session from cfg; a nil cfg means DefaultConfig.
func NewMvelc(cfg *Config) (*Mvelc, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	env, err := cfg.build()
	if err != nil {
		return nil, err
	}
	debugPrintf("// [Driver] root %s, %d inputs, context %v\n", env.root, len(env.inputs), env.context)
	return &Mvelc{env: env}, nil
}

// Model returns the class model units are resolved against.
func (m *Mvelc) Model() *resolver.Model {
	return m.env.model
}

// CompileString compiles source given as a string.
func (m *Mvelc) CompileString(src string) (*Result, []errors.MvelcError) {
	return m.compile(source.NewEvalSource(src))
}

// CompileFile reads and compiles a source file.
func (m *Mvelc) CompileFile(filename string) (*Result, []errors.MvelcError) {
	data, err := os.ReadFile(filename)
	if err != nil {
		readErr := &errors.InternalError{Msg: fmt.Sprintf("failed to read file '%s': %s", filename, err)}
		return nil, []errors.MvelcError{readErr}
	}
	return m.compile(source.FromFile(filename, string(data)))
}

func (m *Mvelc) compile(src *source.SourceFile) (*Result, []errors.MvelcError) {
	arena := parser.NewArena()
	program, parseErrs := parser.NewParser(src, arena).ParseProgram()
	if len(parseErrs) > 0 {
		return nil, parseErrs
	}

	res := resolver.New(m.env.model, m.env.root, m.env.inputs...)
	var opts []lower.Option
	if m.env.context != nil {
		opts = append(opts, lower.WithContext(m.env.context))
	}
	engine := lower.New(arena, res, opts...)
	if err := engine.Lower(program); err != nil {
		return nil, []errors.MvelcError{asMvelcError(err)}
	}

	out := parser.NewJavaEmitter().Emit(program)
	debugPrintf("// [Driver] %s: %d statements, %d accessors\n", src.Label(), len(program.Statements), len(program.Accessors))
	return &Result{Program: program, Output: out, Notices: engine.Notices()}, nil
}

func asMvelcError(err error) errors.MvelcError {
	var mvelcErr errors.MvelcError
	if stderrors.As(err, &mvelcErr) {
		return mvelcErr
	}
	return &errors.InternalError{Msg: err.Error()}
}

// DisplayResult writes the emitted source to out, or the errors to errOut.
// Notices are reported to errOut either way. It reports whether the unit
// compiled.
func DisplayResult(out, errOut io.Writer, src string, res *Result, errs []errors.MvelcError) bool {
	if len(errs) > 0 {
		errors.DisplayErrors(errOut, src, errs)
		return false
	}
	if len(res.Notices) > 0 {
		errors.DisplayErrors(errOut, src, res.Notices)
	}
	fmt.Fprint(out, res.Output)
	return true
}
