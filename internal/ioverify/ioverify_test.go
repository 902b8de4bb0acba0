package ioverify_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/dscurate/dscurate/internal/iotesting"
	"github.com/dscurate/dscurate/internal/ioverify"
	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := range 16 {
		for y := range 16 {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 0, 255})
		}
	}
	return img
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sample()))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, sample(), nil))
	return buf.Bytes()
}

func fixture(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	good := pngBytes(t)
	files := map[string][]byte{
		"/img/ok.png":           good,
		"/img/ok.jpg":           jpegBytes(t),
		"/img/ab/truncated.png": good[:len(good)/2],
		"/img/ab/garbage.JPG":   []byte("not an image"),
		"/img/notes.txt":        []byte("not an image"),
		"/img/ab/cd/deep.gif":   []byte("GIF89a broken"),
	}
	for path, data := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, data, 0644))
	}
	return fs
}

func paths(t *testing.T, fs afero.Fs, patterns []string) []string {
	t.Helper()
	v := ioverify.New(iotesting.Config(), fs)
	res, err := v.Broken(context.Background(), "/img", patterns)
	require.NoError(t, err)
	var ps []string
	for _, b := range res {
		assert.Error(t, b.Err)
		ps = append(ps, b.Path)
	}
	return ps
}

func TestBroken_DefaultPatterns(t *testing.T) {
	fs := fixture(t)
	assert.Equal(t, []string{
		"/img/ab/garbage.JPG",
		"/img/ab/truncated.png",
	}, paths(t, fs, nil))
}

func TestBroken_CustomPatterns(t *testing.T) {
	fs := fixture(t)

	tests := []struct {
		msg      string
		patterns []string
		want     []string
	}{
		{"gif only", []string{"**/*.gif"}, []string{"/img/ab/cd/deep.gif"}},
		{"top level", []string{"*.png", "*.jpg"}, nil},
		{"subdir", []string{"ab/*.png"}, []string{"/img/ab/truncated.png"}},
		{"blank uses default", []string{" "},
			[]string{"/img/ab/garbage.JPG", "/img/ab/truncated.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, paths(t, fs, tt.patterns))
		})
	}
}

func TestBroken_BadPattern(t *testing.T) {
	v := ioverify.New(iotesting.Config(), fixture(t))
	_, err := v.Broken(context.Background(), "/img", []string{"[a-"})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.VerifyPatternError, gnErr.Code)
}

func TestBroken_MissingDir(t *testing.T) {
	v := ioverify.New(iotesting.Config(), afero.NewMemMapFs())
	_, err := v.Broken(context.Background(), "/nope", nil)
	assert.Error(t, err)
}
