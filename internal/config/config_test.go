package config

import (
	"os"
	"path/filepath"
	"testing"

	"survivalvolume/domain/survival"
	"survivalvolume/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 700.0, cfg.Analysis.Endpoint)
	assert.Equal(t, 2, cfg.Analysis.Threshold)
	assert.Equal(t, 0.95, cfg.Analysis.CI)
	assert.Equal(t, survival.MethodT, cfg.Analysis.Method)
	assert.Equal(t, "PrismRaw", cfg.Layout.PrismSheet)
	assert.Equal(t, 5, cfg.Layout.AbsoluteHeaderRow)
	assert.True(t, cfg.Layout.StandardiseDays)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SV_ENDPOINT", "1000")
	t.Setenv("SV_THRESHOLD", "1")
	t.Setenv("SV_INTERVAL_METHOD", "Normal")
	t.Setenv("SV_STANDARDISE_DAYS", "false")
	t.Setenv("SV_REPORT_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000.0, cfg.Analysis.Endpoint)
	assert.Equal(t, 1, cfg.Analysis.Threshold)
	assert.Equal(t, survival.MethodNormal, cfg.Analysis.Method)
	assert.False(t, cfg.Layout.StandardiseDays)
	assert.Equal(t, "json", cfg.Report.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SV_CI":              "1.5",
		"SV_ALPHA":           "0",
		"SV_THRESHOLD":       "-1",
		"SV_INTERVAL_METHOD": "bootstrap",
		"SV_REPORT_FORMAT":   "pdf",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SV_PRISM_SHEET=Custom\n"), 0o600))

	t.Setenv("SV_PRISM_SHEET", "")
	os.Unsetenv("SV_PRISM_SHEET")
	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	t.Cleanup(func() { os.Unsetenv("SV_PRISM_SHEET") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Custom", cfg.Layout.PrismSheet)
}

func TestLoadDotEnvRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SV_PRISM-SHEET=Custom\n"), 0o600))

	err := LoadDotEnv(path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), path)
}
