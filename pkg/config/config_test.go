package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "clingo", cfg.Solver.ClingoPath)
	assert.Equal(t, 5*time.Second, cfg.Solver.CancelGrace)
	assert.Equal(t, "results", cfg.Output.Dir)
}

func TestLoadFile(t *testing.T) {
	//** Arrange
	file := filepath.Join(t.TempDir(), FileName)
	content := `{
		"instanceDir": "instances",
		"solver": {"clingoPath": "/opt/clingo", "encodingPath": "rules.lp", "cancelGrace": "250ms"},
		"output": {"dir": "out", "snapshots": true},
		"log": {"level": "debug", "format": "json"}
	}`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	//** Act
	cfg, err := Load(file)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "instances", cfg.InstanceDir)
	assert.Equal(t, "/opt/clingo", cfg.Solver.ClingoPath)
	assert.Equal(t, "rules.lp", cfg.Solver.EncodingPath)
	assert.Equal(t, 250*time.Millisecond, cfg.Solver.CancelGrace)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.True(t, cfg.Output.Snapshots)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LZCUP_CLINGO_PATH", "/usr/local/bin/clingo")
	t.Setenv("LZCUP_CANCEL_GRACE", "2s")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/clingo", cfg.Solver.ClingoPath)
	assert.Equal(t, 2*time.Second, cfg.Solver.CancelGrace)
}

func TestLoadInvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0644))

	_, err := Load(file)

	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidConfig))
}

func TestLocateExplicit(t *testing.T) {
	assert.Equal(t, "custom.json", Locate("custom.json"))
}
