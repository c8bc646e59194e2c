package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultsFileMatchesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", DefaultConfigPath))
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("%s differs from Default() (-want +got):\n%s", DefaultConfigPath, diff)
	}
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()
	a.Grid.Sizes[0] = 9
	a.Policy.MinAbsZ = 100

	assert.Equal(t, 19, b.Grid.Sizes[0])
	assert.Equal(t, 2.5, b.Policy.MinAbsZ)
}

func TestLoadPartialFile(t *testing.T) {
	path := writeConfig(t, "tuning.yaml", `
grid:
  snap_tolerance: 0.2
  sizes: [9]
policy:
  min_abs_z: 3
refine:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.Grid.SnapTolerance)
	assert.Equal(t, []int{9}, cfg.Grid.Sizes)
	assert.Equal(t, 3.0, cfg.Policy.MinAbsZ)
	assert.False(t, cfg.Refine.Enabled)

	// untouched keys keep their defaults
	assert.Equal(t, Default().Grid.SpacingBinWidth, cfg.Grid.SpacingBinWidth)
	assert.Equal(t, Default().Calibration, cfg.Calibration)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"scoring": {"base_margin": 2.5}, "workers": 4}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Scoring.BaseMargin)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"missing file", "", "", "failed to read config file"},
		{"invalid value", "bad.yaml", "grid:\n  snap_tolerance: 0.9\n", "grid.snap_tolerance"},
		{"unsupported size", "size.yaml", "grid:\n  sizes: [9, 15]\n", "unsupported board size 15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.file != "" {
				path = writeConfig(t, tt.file, tt.body)
			}
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Grid.MinSpacing = 0
	cfg.Features.MinBackgroundSamples = 9
	cfg.Scoring.BaseMargin = -1

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, key := range []string{"grid.min_spacing", "features.min_background_samples", "scoring.base_margin"} {
		assert.True(t, strings.Contains(msg, key), "expected %q in %q", key, msg)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default().Geometry, cfg.Geometry)
}
