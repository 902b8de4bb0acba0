package ioimport_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dscurate/dscurate/internal/iodb"
	"github.com/dscurate/dscurate/internal/ioimport"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meta1 = `{
  "id": 42, "created_at": "2024-01-02 03:04:05", "filename": "img001",
  "extension": "png", "md5": "ff00", "width": 800, "height": 600,
  "rating": "s", "tags": "cat solo", "category": "myfeed"
}`

const meta2 = `{
  "id": 43, "created_at": "2024-01-03 03:04:05", "filename": "img002",
  "extension": "jpg", "md5": "ff01", "width": 1024, "height": 1024,
  "rating": "g", "tags": ["cat", "dog"]
}`

type row struct {
	id        int64
	filename  string
	extension string
	width     int
	tags      string
}

func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func readRows(t *testing.T, path string) []row {
	t.Helper()
	op := iodb.NewOperator()
	require.NoError(t, op.Open(context.Background(), path, true))
	defer op.Close()

	rows, err := op.DB().Query(
		"SELECT id, filename, extension, width, tags FROM images ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var res []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.id, &r.filename, &r.extension, &r.width, &r.tags))
		res = append(res, r)
	}
	require.NoError(t, rows.Err())
	return res
}

func TestImport(t *testing.T) {
	imgDir := writeDir(t, map[string]string{
		"myfeed_42_img001.png.json": meta1,
		"myfeed_43_img002.jpg.json": meta2,
		"myfeed_42_img001.png":      "img",
	})
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "gallery.sqlite")

	im := ioimport.New(config.New(), afero.NewOsFs(), iodb.NewOperator())
	n, err := im.Import(context.Background(), imgDir, dbPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, []row{
		{42, "img001", "png", 800, "cat solo"},
		{43, "img002", "jpg", 1024, "cat dog"},
	}, readRows(t, dbPath))
}

func TestImport_Twice(t *testing.T) {
	imgDir := writeDir(t, map[string]string{"a.json": meta1})
	dbPath := filepath.Join(t.TempDir(), "gallery.sqlite")

	im := ioimport.New(config.New(), afero.NewOsFs(), iodb.NewOperator())
	for range 2 {
		_, err := im.Import(context.Background(), imgDir, dbPath)
		require.NoError(t, err)
	}
	assert.Len(t, readRows(t, dbPath), 1)
}

func TestImport_RollsBack(t *testing.T) {
	tests := []struct {
		msg  string
		bad  string
		code gn.ErrorCode
	}{
		{"malformed", `{"id": 44, "filename": `, errcode.ImportDecodeError},
		{"no id", `{"filename": "x", "extension": "png"}`, errcode.ImportMissingFieldError},
		{"bad tags", `{"id": 45, "filename": "x", "extension": "png", "tags": 7}`,
			errcode.ImportDecodeError},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			imgDir := writeDir(t, map[string]string{
				"a.json": meta1,
				"b.json": meta2,
				"c.json": tt.bad,
			})
			dbPath := filepath.Join(t.TempDir(), "gallery.sqlite")

			im := ioimport.New(config.New(), afero.NewOsFs(), iodb.NewOperator())
			_, err := im.Import(context.Background(), imgDir, dbPath)
			require.Error(t, err)

			gnErr, ok := err.(*gn.Error)
			require.True(t, ok, "Error should be of type *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.Empty(t, readRows(t, dbPath))
		})
	}
}

func TestImport_NoFiles(t *testing.T) {
	imgDir := writeDir(t, map[string]string{"a.png": "img"})
	dbPath := filepath.Join(t.TempDir(), "gallery.sqlite")

	im := ioimport.New(config.New(), afero.NewOsFs(), iodb.NewOperator())
	_, err := im.Import(context.Background(), imgDir, dbPath)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ImportNoFilesError, gnErr.Code)

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
}
