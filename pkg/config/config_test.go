package config_test

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/pseudomuto/dbmetatool/pkg/config"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/dbmetatool.yaml
var testConfigYAML string

func TestLoadConfig(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader(testConfigYAML))
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("error", func(t *testing.T) {
		// Invalid YAML
		config, err := LoadConfig(strings.NewReader("invalid: yaml: ["))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal config")

		// Empty input
		config, err = LoadConfig(strings.NewReader(""))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal config")

		// Valid YAML with no known fields
		config, err = LoadConfig(strings.NewReader("other_key: value"))
		require.NoError(t, err)
		require.Equal(t, Default(), config)
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), consts.DefaultConfigFile)
		require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), consts.ModeFile))

		config, err := LoadConfigFile(path)
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("error", func(t *testing.T) {
		config, err := LoadConfigFile("nonexistent.yaml")
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to open file")

		// Directory instead of file
		config, err = LoadConfigFile(t.TempDir())
		require.Error(t, err)
		require.Nil(t, config)
		require.True(t, strings.Contains(err.Error(), "failed to open file") ||
			strings.Contains(err.Error(), "failed to unmarshal config"))
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, consts.DefaultFirebirdHost, cfg.Firebird.Host)
	require.Equal(t, 3050, cfg.Firebird.Port)
	require.Equal(t, "SYSDBA", cfg.Firebird.User)
	require.Equal(t, "masterkey", cfg.Firebird.Password)
	require.Equal(t, "UTF8", cfg.Firebird.Charset)
	require.Equal(t, "database.fdb", cfg.Firebird.DatabaseFile)
	require.True(t, cfg.Firebird.Overwrite)
	require.False(t, cfg.Firebird.Remote)

	require.Equal(t, consts.DefaultDevImage, cfg.Dev.Image)
	require.Equal(t, consts.DefaultDevContainerName, cfg.Dev.ContainerName)
	require.Equal(t, 3050, cfg.Dev.HostPort)
	require.Equal(t, consts.DefaultDevDataDir, cfg.Dev.DataDir)
	require.Empty(t, cfg.Dev.Volume)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Run("sets default values when empty", func(t *testing.T) {
		yamlData := `
firebird:
  host: ""
  user: ""
  charset: ""
`
		config, err := LoadConfig(strings.NewReader(yamlData))
		require.NoError(t, err)
		require.Equal(t, consts.DefaultFirebirdHost, config.Firebird.Host)
		require.Equal(t, consts.DefaultFirebirdUser, config.Firebird.User)
		require.Equal(t, consts.DefaultFirebirdCharset, config.Firebird.Charset)
	})

	t.Run("keeps boolean defaults when not specified", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader("firebird:\n  port: 3051\n"))
		require.NoError(t, err)
		require.Equal(t, 3051, config.Firebird.Port)
		require.Equal(t, 3051, config.Dev.HostPort)
		require.True(t, config.Firebird.Overwrite)
	})
}

// validateTestConfig validates that a config contains the expected test data
func validateTestConfig(t *testing.T, config *Config) {
	t.Helper()
	require.NotNil(t, config)

	require.Equal(t, "fb.internal", config.Firebird.Host)
	require.Equal(t, 3051, config.Firebird.Port)
	require.Equal(t, "ADMIN", config.Firebird.User)
	require.Equal(t, "s3cret", config.Firebird.Password)
	require.Equal(t, "WIN1250", config.Firebird.Charset)
	require.False(t, config.Firebird.Overwrite)
	require.Equal(t, "app.fdb", config.Firebird.DatabaseFile)
	require.True(t, config.Firebird.Remote)

	require.Equal(t, "firebirdsql/firebird:4", config.Dev.Image)
	require.Equal(t, "fb-dev", config.Dev.ContainerName)
	require.Equal(t, 13050, config.Dev.HostPort)
	require.Equal(t, "/firebird/data", config.Dev.DataDir)
	require.Equal(t, "./fbdata", config.Dev.Volume)
	require.Equal(t, "debug", config.LogLevel)
}
