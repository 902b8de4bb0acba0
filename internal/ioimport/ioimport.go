// Package ioimport implements lifecycle.Importer. It builds the images
// table of a gallery-dl dataset from the JSON metadata files gallery-dl
// writes next to every image.
package ioimport

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/dscurate/dscurate/internal/iofs"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/dscurate/dscurate/pkg/db"
	"github.com/dscurate/dscurate/pkg/lifecycle"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/afero"
)

const imagesDDL = `CREATE TABLE IF NOT EXISTS images (
  id INTEGER PRIMARY KEY,
  created_at DATETIME NOT NULL,
  filename TEXT NOT NULL,
  extension TEXT NOT NULL,
  md5 TEXT NOT NULL,
  width INTEGER NOT NULL,
  height INTEGER NOT NULL,
  rating TEXT NOT NULL,
  tags TEXT NOT NULL
)`

const insertImage = `INSERT OR REPLACE INTO images
  (id, created_at, filename, extension, md5, width, height, rating, tags)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type importer struct {
	cfg *config.Config
	fs  afero.Fs
	op  db.Operator
}

// New creates an Importer. JSON files are read through fs, the database
// is opened through op.
func New(cfg *config.Config, fs afero.Fs, op db.Operator) lifecycle.Importer {
	return &importer{cfg: cfg, fs: fs, op: op}
}

// Import stores every *.json file of imgDir in the images table of
// dbPath within a single transaction. Nothing is stored when any file
// fails.
func (im *importer) Import(
	ctx context.Context,
	imgDir, dbPath string,
) (int, error) {
	startTime := time.Now()

	files, err := afero.Glob(im.fs, filepath.Join(imgDir, "*.json"))
	if err != nil {
		return 0, iofs.ReadDirError(imgDir, err)
	}
	if len(files) == 0 {
		return 0, NoFilesError(imgDir)
	}
	slices.Sort(files)

	if dir := filepath.Dir(dbPath); dir != "" {
		if err = iofs.EnsureDir(dir); err != nil {
			return 0, err
		}
	}

	if err = im.op.Open(ctx, dbPath, false); err != nil {
		return 0, err
	}
	defer im.op.Close()

	sdb := im.op.DB()
	if _, err = sdb.ExecContext(ctx, imagesDDL); err != nil {
		return 0, CreateTableError(err)
	}

	n, err := im.insert(ctx, sdb, files)
	if err != nil {
		slog.Error("Import rolled back", "db", dbPath, "error", err)
		return 0, err
	}

	elapsed := gnfmt.TimeString(time.Since(startTime).Seconds())
	slog.Info("Import complete",
		"img_dir", imgDir, "db", dbPath, "rows", n, "duration", elapsed)
	gn.Info("Imported <em>%s</em> records into %s in %s",
		humanize.Comma(int64(n)), dbPath, elapsed)
	return n, nil
}

func (im *importer) insert(
	ctx context.Context,
	sdb *sql.DB,
	files []string,
) (int, error) {
	tx, err := sdb.BeginTx(ctx, nil)
	if err != nil {
		return 0, InsertError("", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertImage)
	if err != nil {
		return 0, InsertError("", err)
	}
	defer stmt.Close()

	for _, path := range files {
		data, err := afero.ReadFile(im.fs, path)
		if err != nil {
			return 0, iofs.ReadFileError(path, err)
		}
		m, err := parseMeta(data)
		if err != nil {
			return 0, DecodeError(path, err)
		}
		if field := m.missing(); field != "" {
			return 0, MissingFieldError(path, field)
		}

		_, err = stmt.ExecContext(ctx,
			*m.ID, m.CreatedAt, m.Filename, m.Extension, m.MD5,
			m.Width, m.Height, m.Rating, string(m.Tags),
		)
		if err != nil {
			return 0, InsertError(path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, InsertError("", err)
	}
	return len(files), nil
}
