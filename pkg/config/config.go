package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"gopkg.in/yaml.v3"
)

type (
	// Firebird represents the server and database creation settings.
	//
	// Every value that used to be baked into the tool (superuser identity,
	// server port, charset) lives here with a documented default so that
	// operators can see and override what the tool assumes.
	Firebird struct {
		// Host is the Firebird server used for remote targets and for
		// connection strings that omit a data source (default: localhost)
		Host string `yaml:"host,omitempty"`

		// Port is the Firebird server port (default: 3050)
		Port int `yaml:"port,omitempty"`

		// User is the account used to create databases (default: SYSDBA)
		User string `yaml:"user,omitempty"`

		// Password for User (default: masterkey)
		Password string `yaml:"password,omitempty"`

		// Charset is the connection character set (default: UTF8)
		Charset string `yaml:"charset,omitempty"`

		// Overwrite lets build-db replace an existing database. When false,
		// build-db fails if the target already exists (default: true)
		Overwrite bool `yaml:"overwrite"`

		// DatabaseFile is the file name created inside --db-dir (default: database.fdb)
		DatabaseFile string `yaml:"database_file,omitempty"`

		// Remote makes build-db treat --db-dir as a path on the server
		Remote bool `yaml:"remote"`
	}

	// Dev configures the local development server started by `dev up`.
	Dev struct {
		// Image is the Firebird docker image (default: firebirdsql/firebird:5)
		Image string `yaml:"image,omitempty"`

		// ContainerName is the name given to the dev container
		ContainerName string `yaml:"container_name,omitempty"`

		// HostPort publishes the server port on the host (0 uses Firebird.Port)
		HostPort int `yaml:"host_port,omitempty"`

		// DataDir is the directory inside the container holding databases
		DataDir string `yaml:"data_dir,omitempty"`

		// Volume is an optional host directory mounted at DataDir so that
		// databases survive `dev down`
		Volume string `yaml:"volume,omitempty"`
	}

	// Config represents the dbmetatool configuration file.
	Config struct {
		// Firebird contains server and creation settings
		Firebird Firebird `yaml:"firebird"`

		// Dev contains development server settings
		Dev Dev `yaml:"dev"`

		// LogLevel is the slog level (debug, info, warn, error)
		LogLevel string `yaml:"log_level,omitempty"`
	}
)

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := newConfig()
	cfg.setDefaults()
	return cfg
}

// newConfig holds the boolean defaults, which can't be told apart from unset
// values after decoding.
func newConfig() *Config {
	return &Config{
		Firebird: Firebird{
			Overwrite: true,
		},
	}
}

// LoadConfig parses a configuration from the provided io.Reader.
//
// Values that are missing or empty are filled in from the defaults in
// pkg/consts. Boolean settings keep their defaults unless they are set
// explicitly.
//
// Example:
//
//	yamlData := `
//	firebird:
//	  host: db.internal
//	  password: s3cret
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Server: %s:%d\n", cfg.Firebird.Host, cfg.Firebird.Port)
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := newConfig()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.setDefaults()
	return cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

func (c *Config) setDefaults() {
	fb := &c.Firebird
	if fb.Host == "" {
		fb.Host = consts.DefaultFirebirdHost
	}
	if fb.Port == 0 {
		fb.Port = consts.DefaultFirebirdPort
	}
	if fb.User == "" {
		fb.User = consts.DefaultFirebirdUser
	}
	if fb.Password == "" {
		fb.Password = consts.DefaultFirebirdPassword
	}
	if fb.Charset == "" {
		fb.Charset = consts.DefaultFirebirdCharset
	}
	if fb.DatabaseFile == "" {
		fb.DatabaseFile = consts.DefaultDatabaseFile
	}

	if c.Dev.Image == "" {
		c.Dev.Image = consts.DefaultDevImage
	}
	if c.Dev.ContainerName == "" {
		c.Dev.ContainerName = consts.DefaultDevContainerName
	}
	if c.Dev.HostPort == 0 {
		c.Dev.HostPort = fb.Port
	}
	if c.Dev.DataDir == "" {
		c.Dev.DataDir = consts.DefaultDevDataDir
	}

	if c.LogLevel == "" {
		c.LogLevel = consts.DefaultLogLevel
	}
}
