package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), c)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := Defaults()
	c.TotalName = "All"
	c.UseLabels = true
	c.BatchJobs = 8
	c.OutputFormat = "csv"
	require.NoError(t, Save(c, path))
	_, err := os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("total_name: Sum\nbatch_jobs: 2\n"), 0o644))
	t.Setenv("RAPPORT_TOTAL_NAME", "Overall")
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Overall", c.TotalName)
	require.Equal(t, 2, c.BatchJobs)
}

func TestValidateRejectsBadValues(t *testing.T) {
	c := Defaults()
	c.OutputFormat = "pdf"
	require.Error(t, c.Validate())
	require.Error(t, Save(c, filepath.Join(t.TempDir(), "c.yaml")))

	c = Defaults()
	c.BatchJobs = 0
	require.Error(t, c.Validate())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: xml\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
