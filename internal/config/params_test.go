package config_test

import (
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/trajmap/internal/config"
	"github.com/UnknownOlympus/trajmap/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeParams(t *testing.T, name, content string) string {
	t.Helper()
	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, name)
	filet.File(t, path, content)
	return path
}

func TestLoadParameterOverrides(t *testing.T) {
	defer filet.CleanUp(t)

	t.Run("sectioned toml", func(t *testing.T) {
		path := writeParams(t, "params.toml", `
[run]
num_runs = 200
time_step_main = 0.5

[errors]
initial_pos_error = 25.0
`)

		overrides, err := config.LoadParameterOverrides(path)
		require.NoError(t, err)

		assert.Len(t, overrides, 3)
		assert.Contains(t, overrides, "num_runs")
		assert.Contains(t, overrides, "time_step_main")
		assert.Contains(t, overrides, "initial_pos_error")

		set := params.NewDefaultSet()
		require.NoError(t, set.ApplyOverrides(overrides))

		numRuns, err := set.Value("num_runs")
		require.NoError(t, err)
		assert.InDelta(t, 200.0, numRuns.Value, 0)
	})

	t.Run("flat yaml", func(t *testing.T) {
		path := writeParams(t, "params.yaml", "num_runs: 12\nreentry_vel: 7000.5\n")

		overrides, err := config.LoadParameterOverrides(path)
		require.NoError(t, err)

		set := params.NewDefaultSet()
		require.NoError(t, set.ApplyOverrides(overrides))
		vel, err := set.Value("reentry_vel")
		require.NoError(t, err)
		assert.InDelta(t, 7000.5, vel.Value, 1e-9)
	})

	t.Run("numeric strings are accepted", func(t *testing.T) {
		path := writeParams(t, "params.json", `{"run": {"num_runs": "64"}}`)

		overrides, err := config.LoadParameterOverrides(path)
		require.NoError(t, err)
		assert.InDelta(t, 64.0, overrides["num_runs"], 0)
	})

	t.Run("non numeric string", func(t *testing.T) {
		path := writeParams(t, "params.json", `{"num_runs": "many"}`)

		_, err := config.LoadParameterOverrides(path)
		require.ErrorContains(t, err, "num_runs")
	})

	t.Run("same name in two sections", func(t *testing.T) {
		path := writeParams(t, "params.toml", "[a]\nnum_runs = 1\n[b]\nnum_runs = 2\n")

		_, err := config.LoadParameterOverrides(path)
		require.ErrorContains(t, err, "set twice")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadParameterOverrides(filepath.Join(t.TempDir(), "absent.toml"))
		require.ErrorContains(t, err, "failed to read parameter file")
	})
}
