package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/dbmetatool/pkg/config"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Script is a test script, Path being relative to the scripts directory.
type Script struct {
	Path string
	SQL  string
}

// WriteScripts creates a scripts directory under t.TempDir() holding the
// given scripts and returns its path.
func WriteScripts(t *testing.T, scripts ...Script) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "scripts")
	require.NoError(t, os.MkdirAll(dir, consts.ModeDir), "Failed to create scripts directory")

	for _, s := range scripts {
		path := filepath.Join(dir, filepath.FromSlash(s.Path))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), consts.ModeDir), "Failed to create directory for %s", s.Path)
		require.NoError(t, os.WriteFile(path, []byte(s.SQL), consts.ModeFile), "Failed to write script: %s", s.Path)
	}

	return dir
}

// TestConfig returns the default configuration.
func TestConfig() *config.Config {
	return config.Default()
}

// WriteConfig writes cfg as YAML under t.TempDir() and returns the file path.
func WriteConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err, "Failed to marshal config")

	path := filepath.Join(t.TempDir(), consts.DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, data, consts.ModeFile), "Failed to write config file")

	return path
}
