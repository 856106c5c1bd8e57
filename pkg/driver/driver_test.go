package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payrollConfig = `
rootObject: org.acme.Payroll
context:
  kind: map
  name: context
  type: "Map<String, Object>"
inputs:
  - {name: rate, type: BigDecimal}
  - {name: hours, type: int}
classes:
  - name: org.acme.Payroll
    methods:
      - {name: getTotal, returns: BigDecimal}
      - {name: setTotal, params: [BigDecimal]}
`

func newSession(t *testing.T, yamlConfig string) *Mvelc {
	t.Helper()
	cfg, err := ParseConfig([]byte(yamlConfig))
	require.NoError(t, err)
	m, err := NewMvelc(cfg)
	require.NoError(t, err)
	return m
}

func TestCompileString(t *testing.T) {
	m := newSession(t, payrollConfig)

	res, errs := m.CompileString(`total = rate * hours; hours += 1; int h = hours = 2`)
	require.Empty(t, errs)
	assert.Equal(t, `setTotal(rate.multiply(BigDecimal.valueOf(hours), MathContext.DECIMAL128));
context.put("hours", hours += 1);
int h = hours = contextSetHours(context, 2);

private static int contextSetHours(java.util.Map<java.lang.String,java.lang.Object> context, int value) {
    context.put("hours", value);
    return value;
}
`, res.Output)
	assert.Empty(t, res.Notices)
}

func TestUnitsAreIndependent(t *testing.T) {
	m := newSession(t, payrollConfig)

	_, errs := m.CompileString(`int h = 1`)
	require.Empty(t, errs)
	_, errs = m.CompileString(`h + 1`)
	require.Len(t, errs, 1)
	assert.Equal(t, "UnresolvedSymbol", errs[0].Kind())
}

func TestCompileErrors(t *testing.T) {
	m := newSession(t, payrollConfig)

	_, errs := m.CompileString(`rate = `)
	require.NotEmpty(t, errs)
	assert.Equal(t, "Syntax", errs[0].Kind())

	_, errs = m.CompileString(`hours rate`)
	require.NotEmpty(t, errs)
	assert.Equal(t, "Syntax", errs[0].Kind())
	assert.Contains(t, errs[0].Message(), "expected ';'")

	_, errs = m.CompileString(`rate = true`)
	require.Len(t, errs, 1)
	assert.Equal(t, "NoCoercionAvailable", errs[0].Kind())
}

func TestDisplayResult(t *testing.T) {
	m := newSession(t, payrollConfig)
	var out, errOut bytes.Buffer

	res, errs := m.CompileString(`hours > 1`)
	assert.True(t, DisplayResult(&out, &errOut, `hours > 1`, res, errs))
	assert.Equal(t, "hours > 1;\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	src := `rate + missing`
	res, errs = m.CompileString(src)
	assert.False(t, DisplayResult(&out, &errOut, src, res, errs))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "UnresolvedSymbol Error at 1:")
	assert.Contains(t, errOut.String(), "1 problem")

	errOut.Reset()
	out.Reset()
	src = `java.util.Nope.X`
	res, errs = m.CompileString(src)
	assert.True(t, DisplayResult(&out, &errOut, src, res, errs))
	assert.Equal(t, "java.util.Nope.X;\n", out.String())
	assert.Contains(t, errOut.String(), "AmbiguousPackagePrefix")
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name, config, want string
	}{
		{"unknown root", `rootObject: org.acme.Missing`, "rootObject"},
		{"unknown input type", "inputs:\n  - {name: a, type: Nope}", `input "a"`},
		{"duplicate input", "inputs:\n  - {name: a, type: int}\n  - {name: a, type: long}", "declared twice"},
		{"bad context kind", "context: {kind: set, name: c, type: Object}", "unknown kind"},
		{"unnamed context", "context: {kind: map, type: Object}", "missing name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.config))
			require.NoError(t, err)
			_, err = NewMvelc(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ParseConfig([]byte("inputs: [unterminated"))
	assert.Error(t, err)
}

func TestListContextIndexes(t *testing.T) {
	m := newSession(t, `
context: {kind: list, name: args, type: "List<Object>"}
inputs:
  - {name: a, type: int}
  - {name: b, type: String, index: 4}
`)
	res, errs := m.CompileString(`a = 1; b = "x"`)
	require.Empty(t, errs)
	assert.Equal(t, "args.set(0, a = 1);\nargs.set(4, b = \"x\");\n", res.Output)
}

func TestLoadConfigWithModelFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.yaml"), []byte(`
classes:
  - name: org.acme.Order
    methods:
      - {name: getAmount, returns: BigDecimal}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mvelc.yaml"), []byte(`
rootObject: org.acme.Order
modelFiles: [model.yaml]
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rule.mvel"), []byte("amount > 100\n"), 0o644))

	cfg, err := LoadConfig(filepath.Join(dir, "mvelc.yaml"))
	require.NoError(t, err)
	m, err := NewMvelc(cfg)
	require.NoError(t, err)

	res, errs := m.CompileFile(filepath.Join(dir, "rule.mvel"))
	require.Empty(t, errs)
	assert.Equal(t, "getAmount().compareTo(BigDecimal.valueOf(100)) > 0;\n", res.Output)

	_, errs = m.CompileFile(filepath.Join(dir, "missing.mvel"))
	require.Len(t, errs, 1)
	assert.Equal(t, "Internal", errs[0].Kind())
}

func TestDefaultConfig(t *testing.T) {
	m, err := NewMvelc(nil)
	require.NoError(t, err)
	res, errs := m.CompileString(`BigDecimal d = 1; d * 2`)
	require.Empty(t, errs)
	assert.Equal(t, "BigDecimal d = BigDecimal.valueOf(1);\nd.multiply(BigDecimal.valueOf(2), MathContext.DECIMAL128);\n", res.Output)
}
