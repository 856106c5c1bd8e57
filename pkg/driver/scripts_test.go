package driver

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scriptDir = "testdata/scripts"

var expectPattern = regexp2.MustCompile(`^//\s?(?<kind>expect(?:_error)?):(?: (?<value>.*))?$`, regexp2.None)

// expectation is read from a script's leading comments:
//
//	// expect: <one line of emitted output>
//	// expect_error: <error kind>
type expectation struct {
	output    []string
	errorKind string
}

func parseExpectation(t *testing.T, script string) expectation {
	t.Helper()
	var exp expectation
	scanner := bufio.NewScanner(strings.NewReader(script))
	for scanner.Scan() {
		m, err := expectPattern.FindStringMatch(scanner.Text())
		require.NoError(t, err)
		if m == nil {
			continue
		}
		value := m.GroupByName("value").String()
		switch m.GroupByName("kind").String() {
		case "expect":
			exp.output = append(exp.output, value)
		case "expect_error":
			exp.errorKind = strings.TrimSpace(value)
		}
	}
	require.NoError(t, scanner.Err())
	require.True(t, len(exp.output) > 0 || exp.errorKind != "", "no expectation comment found (e.g., // expect: ...)")
	return exp
}

func TestScripts(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(scriptDir, "mvelc.yaml"))
	require.NoError(t, err)
	session, err := NewMvelc(cfg)
	require.NoError(t, err)

	paths, err := FindUnits(os.DirFS(scriptDir), ".")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, name := range paths {
		t.Run(name, func(t *testing.T) {
			scriptPath := filepath.Join(scriptDir, name)
			content, err := os.ReadFile(scriptPath)
			require.NoError(t, err)
			exp := parseExpectation(t, string(content))

			res, errs := session.CompileFile(scriptPath)
			if exp.errorKind != "" {
				require.NotEmpty(t, errs, "expected %s error", exp.errorKind)
				assert.Equal(t, exp.errorKind, errs[0].Kind(), errs[0].Error())
				return
			}
			require.Empty(t, errs)
			assert.Equal(t, strings.Join(exp.output, "\n")+"\n", res.Output)
		})
	}
}
