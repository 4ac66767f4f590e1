package firebird

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
)

type (
	// TargetKind tells whether a database path lives on this machine or on
	// the server.
	TargetKind int

	// Target identifies a database file and the server that serves it.
	//
	// Local targets name a file on this machine; the directory is created by
	// the tool and the server is expected to share the filesystem (usually a
	// server on localhost). Remote targets name a path on the server's
	// filesystem that the tool never touches directly.
	Target struct {
		Kind TargetKind
		Host string
		Port int
		Path string
	}

	// Connection is a Target plus the credentials used to attach to it.
	Connection struct {
		Target

		User     string
		Password string
		Charset  string
		Role     string
	}
)

const (
	LocalTarget TargetKind = iota
	RemoteTarget
)

func (k TargetKind) String() string {
	if k == RemoteTarget {
		return "remote"
	}

	return "local"
}

// NewLocalTarget returns a target for file inside dir on this machine. The
// directory path is made absolute since the server resolves relative paths
// against its own working directory.
func NewLocalTarget(host string, port int, dir, file string) (Target, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Target{}, errors.Wrapf(err, "failed to resolve database directory: %s", dir)
	}

	return Target{
		Kind: LocalTarget,
		Host: host,
		Port: port,
		Path: filepath.Join(abs, file),
	}, nil
}

// NewRemoteTarget returns a target for a path on the server. When path
// already names a database file (ends in .fdb) it is used as-is, otherwise
// file is appended to it.
//
// Example:
//
//	t := firebird.NewRemoteTarget("localhost", 3050, "/var/lib/firebird/data", "database.fdb")
//	fmt.Println(t.Path) // /var/lib/firebird/data/database.fdb
func NewRemoteTarget(host string, port int, path, file string) Target {
	if !strings.HasSuffix(strings.ToLower(path), consts.DatabaseFileExt) {
		path = strings.TrimRight(path, "/") + "/" + file
	}

	return Target{
		Kind: RemoteTarget,
		Host: host,
		Port: port,
		Path: path,
	}
}

// String returns host:port/path.
func (t Target) String() string {
	return fmt.Sprintf("%s:%d/%s", t.Host, t.Port, strings.TrimPrefix(t.Path, "/"))
}

// Dir returns the directory part of a local target path.
func (t Target) Dir() string {
	return filepath.Dir(t.Path)
}

// DSN renders the connection in the driver's format:
//
//	user:password@host:port/path?charset=UTF8[&role=...]
//
// params are appended to the query string.
func (c Connection) DSN(params ...string) string {
	return c.dsn(url.UserPassword(c.User, c.Password), params)
}

// Redacted is the DSN with the password masked, suitable for logs.
func (c Connection) Redacted() string {
	return c.dsn(url.UserPassword(c.User, "xxxxx"), nil)
}

func (c Connection) dsn(user *url.Userinfo, params []string) string {
	q := url.Values{}
	if c.Charset != "" {
		q.Set("charset", c.Charset)
	}
	if c.Role != "" {
		q.Set("role", c.Role)
	}
	for i := 0; i+1 < len(params); i += 2 {
		q.Set(params[i], params[i+1])
	}

	path := filepath.ToSlash(c.Path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := url.URL{
		User:     user,
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     path,
		RawQuery: q.Encode(),
	}

	return strings.TrimPrefix(u.String(), "//")
}

// ParseConnectionString parses either a driver DSN
//
//	SYSDBA:masterkey@localhost:3050/var/lib/firebird/data/app.fdb?charset=UTF8
//
// or a key/value connection string as used by other Firebird clients
//
//	DataSource=localhost;Port=3050;Database=/data/app.fdb;User=SYSDBA;Password=masterkey;Charset=UTF8
//
// Anything the string leaves out is taken from defaults. The resulting
// target is remote unless the string asks for an embedded server.
func ParseConnectionString(s string, defaults Connection) (Connection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Connection{}, errors.New("connection string is empty")
	}

	conn := defaults
	conn.Kind = RemoteTarget
	conn.Path = ""

	var err error
	if isKeyValue(s) {
		err = parseKeyValue(s, &conn)
	} else {
		err = parseDSN(s, &conn)
	}
	if err != nil {
		return Connection{}, err
	}

	if conn.Path == "" {
		return Connection{}, errors.Errorf("connection string has no database: %s", conn.Redacted())
	}

	return conn, nil
}

var connectionKeys = map[string]bool{
	"datasource":     true,
	"server":         true,
	"host":           true,
	"port":           true,
	"database":       true,
	"initialcatalog": true,
	"user":           true,
	"userid":         true,
	"username":       true,
	"uid":            true,
	"password":       true,
	"pwd":            true,
	"charset":        true,
	"characterset":   true,
	"role":           true,
	"rolename":       true,
	"servertype":     true,
	"dialect":        true,
	"pooling":        true,
}

// isKeyValue reports whether s starts with a known key. A DSN may carry '='
// in its credentials or query string but never begins with "key=".
func isKeyValue(s string) bool {
	first, _, _ := strings.Cut(s, ";")
	key, _, ok := strings.Cut(first, "=")
	return ok && connectionKeys[normalizeKey(key)]
}

func parseKeyValue(s string, conn *Connection) error {
	for i, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return errors.Errorf("invalid connection string segment %d: missing '='", i+1)
		}

		value = strings.TrimSpace(value)
		switch normalizeKey(key) {
		case "datasource", "server", "host":
			conn.Host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return errors.Wrapf(err, "invalid port: %s", value)
			}
			conn.Port = port
		case "database", "initialcatalog":
			conn.Path = value
		case "user", "userid", "username", "uid":
			conn.User = value
		case "password", "pwd":
			conn.Password = value
		case "charset", "characterset":
			conn.Charset = value
		case "role", "rolename":
			conn.Role = value
		case "servertype":
			if value == "1" || strings.EqualFold(value, "embedded") {
				conn.Kind = LocalTarget
			}
		}
	}

	return nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), " ", ""))
}

func parseDSN(s string, conn *Connection) error {
	u, err := url.Parse("firebird://" + s)
	if err != nil {
		// url.Error echoes the input, password included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return errors.Wrap(err, "invalid connection string")
	}

	if u.User != nil {
		conn.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			conn.Password = pw
		}
	}

	if host := u.Hostname(); host != "" {
		conn.Host = host
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return errors.Wrapf(err, "invalid port: %s", p)
		}
		conn.Port = port
	}

	conn.Path = u.Path
	if isWindowsPath(strings.TrimPrefix(conn.Path, "/")) {
		conn.Path = strings.TrimPrefix(conn.Path, "/")
	}

	q := u.Query()
	if v := q.Get("charset"); v != "" {
		conn.Charset = v
	}
	if v := q.Get("role"); v != "" {
		conn.Role = v
	}

	return nil
}

func isWindowsPath(p string) bool {
	return len(p) >= 2 && p[1] == ':'
}
