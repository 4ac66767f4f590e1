package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)
)

const (
	// DefaultConfigFile is the configuration file looked up in the working directory
	DefaultConfigFile = "dbmetatool.yaml"

	// ConfigEnvVar overrides the configuration file location
	ConfigEnvVar = "DBMETATOOL_CONFIG"

	// DefaultLogLevel keeps normal runs quiet apart from the script report
	DefaultLogLevel = "warn"
)

// Firebird server and database creation defaults.
const (
	DefaultFirebirdHost     = "localhost"
	DefaultFirebirdPort     = 3050
	DefaultFirebirdUser     = "SYSDBA"
	DefaultFirebirdPassword = "masterkey"
	DefaultFirebirdCharset  = "UTF8"

	// DefaultDatabaseFile is the file created inside the --db-dir directory
	DefaultDatabaseFile = "database.fdb"

	// DatabaseFileExt marks remote paths that already name a database file
	DatabaseFileExt = ".fdb"
)

// Export output files, written in this order.
const (
	DomainsFile    = "01_domains.sql"
	TablesFile     = "02_tables.sql"
	ProceduresFile = "03_procedures.sql"
)

// ScriptExt is the extension of script files picked up by build-db and update-db
const ScriptExt = ".sql"

// Development server defaults used by `dev up`.
const (
	DefaultDevImage         = "firebirdsql/firebird:5"
	DefaultDevContainerName = "dbmetatool-dev"
	DefaultDevDataDir       = "/var/lib/firebird/data"
)
