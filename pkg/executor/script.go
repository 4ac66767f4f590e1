package executor

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
)

// Script is a SQL file discovered under a scripts directory.
type Script struct {
	// Path is the slash separated path relative to the scripts directory
	Path string

	fsys fs.FS
}

// Name returns the file name of the script.
func (s *Script) Name() string {
	return path.Base(s.Path)
}

// SQL reads the full text of the script.
func (s *Script) SQL() (string, error) {
	data, err := fs.ReadFile(s.fsys, s.Path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read script: %s", s.Path)
	}

	return string(data), nil
}

// LoadScriptDir finds every *.sql file under dir, recursively, sorted by
// path. A missing directory is an error.
//
// Ordering is lexicographic on the relative path, so numeric prefixes need
// to be zero padded: 01_a.sql, 02_b.sql, 10_c.sql.
func LoadScriptDir(dir string) ([]*Script, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "scripts directory does not exist: %s", dir)
		}

		return nil, errors.Wrapf(err, "failed to access scripts directory: %s", dir)
	}

	if !info.IsDir() {
		return nil, errors.Errorf("scripts directory is not a directory: %s", dir)
	}

	return LoadScripts(os.DirFS(dir))
}

// LoadScripts finds every *.sql file in fsys, recursively, sorted by path.
func LoadScripts(fsys fs.FS) ([]*Script, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(path.Ext(p), consts.ScriptExt) {
			return nil
		}

		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list scripts")
	}

	sort.Strings(paths)

	scripts := make([]*Script, len(paths))
	for i, p := range paths {
		scripts[i] = &Script{Path: p, fsys: fsys}
	}

	return scripts, nil
}
