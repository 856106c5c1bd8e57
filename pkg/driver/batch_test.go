package driver

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rulesFS() fstest.MapFS {
	return fstest.MapFS{
		"rules/a.mvel":        {Data: []byte("total = rate * 2")},
		"rules/b.mvel":        {Data: []byte("hours += 1")},
		"rules/nested/c.mvel": {Data: []byte("rate = true")},
		"rules/readme.txt":    {Data: []byte("not a unit")},
	}
}

func TestFindUnits(t *testing.T) {
	paths, err := FindUnits(rulesFS(), "rules")
	require.NoError(t, err)
	assert.Equal(t, []string{"rules/a.mvel", "rules/b.mvel", "rules/nested/c.mvel"}, paths)

	_, err = FindUnits(rulesFS(), "missing")
	assert.Error(t, err)
}

func TestCompileAll(t *testing.T) {
	m := newSession(t, payrollConfig)
	fsys := rulesFS()
	paths, err := FindUnits(fsys, "rules")
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 3} {
		results, stats, err := m.CompileAll(context.Background(), fsys, paths, workers)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "rules/a.mvel", results[0].Path)
		assert.True(t, results[0].OK())
		assert.Equal(t, "setTotal(rate.multiply(BigDecimal.valueOf(2), MathContext.DECIMAL128));\n", results[0].Result.Output)

		assert.True(t, results[1].OK())
		assert.Equal(t, "context.put(\"hours\", hours += 1);\n", results[1].Result.Output)

		assert.False(t, results[2].OK())
		assert.Equal(t, "NoCoercionAvailable", results[2].Errors[0].Kind())
		assert.Equal(t, "rate = true", results[2].Source)

		assert.Equal(t, 3, stats.Units)
		assert.Equal(t, 1, stats.Failed)
		assert.LessOrEqual(t, stats.WorkerCount, 3)
	}
}

func TestCompileAllMissingFile(t *testing.T) {
	m := newSession(t, payrollConfig)
	results, stats, err := m.CompileAll(context.Background(), rulesFS(), []string{"rules/gone.mvel"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, "Internal", results[0].Errors[0].Kind())
}

func TestCompileAllCancelled(t *testing.T) {
	m := newSession(t, payrollConfig)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := m.CompileAll(ctx, rulesFS(), []string{"rules/a.mvel", "rules/b.mvel"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
