package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"github.com/pseudomuto/dbmetatool/pkg/firebird"
)

type (
	// Catalog is the set of catalog queries an export needs. It is satisfied
	// by *firebird.Client.
	Catalog interface {
		Domains(context.Context) ([]firebird.Domain, error)
		Tables(context.Context) ([]firebird.Table, error)
		Procedures(context.Context) ([]firebird.Procedure, error)
	}

	// Exporter writes creation scripts for everything in a Catalog.
	Exporter struct {
		catalog Catalog
		out     io.Writer
	}

	section struct {
		kind  string
		file  string
		write func(context.Context, io.Writer) error
	}
)

// New creates an Exporter reading from catalog. Progress lines are written
// to out, which may be nil.
func New(catalog Catalog, out io.Writer) *Exporter {
	if out == nil {
		out = io.Discard
	}

	return &Exporter{catalog: catalog, out: out}
}

// Export creates dir if needed and writes the domains, tables and procedures
// scripts into it, in that order. The first failing catalog query aborts the
// export; scripts written before it are left in place.
func (e *Exporter) Export(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, consts.ModeDir); err != nil {
		return errors.Wrapf(err, "failed to create output directory: %s", dir)
	}

	for _, s := range e.sections() {
		path := filepath.Join(dir, s.file)
		if err := writeFile(ctx, path, s.write); err != nil {
			return errors.Wrapf(err, "failed to export %s", s.kind)
		}

		slog.Info("Exported catalog objects", "kind", s.kind, "path", path)
		fmt.Fprintf(e.out, "  Exported %s: %s\n", s.kind, path)
	}

	return nil
}

func (e *Exporter) sections() []section {
	return []section{
		{
			kind: "domains",
			file: consts.DomainsFile,
			write: func(ctx context.Context, w io.Writer) error {
				domains, err := e.catalog.Domains(ctx)
				if err != nil {
					return err
				}

				return WriteDomains(w, domains)
			},
		},
		{
			kind: "tables",
			file: consts.TablesFile,
			write: func(ctx context.Context, w io.Writer) error {
				tables, err := e.catalog.Tables(ctx)
				if err != nil {
					return err
				}

				return WriteTables(w, tables)
			},
		},
		{
			kind: "procedures",
			file: consts.ProceduresFile,
			write: func(ctx context.Context, w io.Writer) error {
				procs, err := e.catalog.Procedures(ctx)
				if err != nil {
					return err
				}

				return WriteProcedures(w, procs)
			},
		},
	}
}

// writeFile creates path and hands it to write. The file is created before
// the catalog is queried, so a failed query leaves an empty or partial file.
func writeFile(ctx context.Context, path string, write func(context.Context, io.Writer) error) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, consts.ModeFile)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", path)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close file: %s", path)
		}
	}()

	return write(ctx, f)
}
