// Package iotesting provides shared test utilities: quiet configuration
// and SQLite dataset fixtures in both supported layouts.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"testing"

	"github.com/dscurate/dscurate/internal/iodb"
	"github.com/dscurate/dscurate/pkg/config"
)

// Config returns default settings without progress bars, updated with
// opts.
func Config(opts ...config.Option) *config.Config {
	cfg := config.New()
	cfg.Update(append([]config.Option{config.OptWithProgress(false)}, opts...))
	return cfg
}

// Post is a row of a Danbooru posts table.
type Post struct {
	ID     int
	MD5    string
	Ext    string
	Tags   string
	Rating string
	Width  int
	Height int
}

// Image is a row of a gallery-dl images table.
type Image struct {
	ID       int
	Filename string
	Ext      string
	Tags     string
	Rating   string
	Width    int
	Height   int
	MD5      string
}

const postsDDL = `CREATE TABLE posts (
  id INTEGER PRIMARY KEY,
  md5 TEXT,
  file_ext TEXT,
  tag_string TEXT,
  rating TEXT,
  width INTEGER,
  height INTEGER
)`

const imagesDDL = `CREATE TABLE images (
  id INTEGER PRIMARY KEY,
  created_at DATETIME,
  filename TEXT,
  extension TEXT,
  md5 TEXT,
  width INTEGER,
  height INTEGER,
  rating TEXT,
  tags TEXT
)`

// CreateDanbooru writes a Danbooru database with the given posts to path.
func CreateDanbooru(t *testing.T, path string, posts []Post) {
	t.Helper()
	rows := make([][]any, len(posts))
	for i, p := range posts {
		rows[i] = []any{p.ID, p.MD5, p.Ext, p.Tags, p.Rating, p.Width, p.Height}
	}
	create(t, path, postsDDL, `INSERT INTO posts
  (id, md5, file_ext, tag_string, rating, width, height)
  VALUES (?, ?, ?, ?, ?, ?, ?)`, rows)
}

// CreateGalleryDL writes a gallery-dl database with the given images to
// path.
func CreateGalleryDL(t *testing.T, path string, images []Image) {
	t.Helper()
	rows := make([][]any, len(images))
	for i, im := range images {
		rows[i] = []any{
			im.ID, "2024-01-01 00:00:00", im.Filename, im.Ext, nullable(im.MD5),
			im.Width, im.Height, nullable(im.Rating), im.Tags,
		}
	}
	create(t, path, imagesDDL, `INSERT INTO images
  (id, created_at, filename, extension, md5, width, height, rating, tags)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, rows)
}

func create(t *testing.T, path, ddl, insert string, rows [][]any) {
	t.Helper()
	ctx := context.Background()

	op := iodb.NewOperator()
	if err := op.Open(ctx, path, false); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer op.Close()

	sdb := op.DB()
	if _, err := sdb.ExecContext(ctx, ddl); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	tx, err := sdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		t.Fatalf("Failed to prepare insert: %v", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			t.Fatalf("Failed to insert %v: %v", row, err)
		}
	}
	if err = tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
