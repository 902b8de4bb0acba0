package iofs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// CopySidecars copies every file of srcDir whose name belongs to the stem
// of filename (the image itself, captions, tag lists) into dstDir.
// available must be sorted, as returned by Snapshot.Files.
// It returns the names of copied files; an empty result means nothing
// matched.
func CopySidecars(
	fs afero.Fs,
	filename, srcDir, dstDir string,
	available []string,
	mode string,
) ([]string, error) {
	names := Match(available, Stem(filename), mode)
	for _, name := range names {
		src := filepath.Join(srcDir, name)
		dst := filepath.Join(dstDir, name)
		if err := CopyFile(fs, src, dst); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// CopyFile copies src to dst keeping permission bits and modification
// time. An existing dst is overwritten.
func CopyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return CopyFileError(src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return CopyFileError(src, err)
	}

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return CopyFileError(src, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return CopyFileError(src, err)
	}
	if err = out.Close(); err != nil {
		return CopyFileError(src, err)
	}

	if err = fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return CopyFileError(src, err)
	}
	mtime := info.ModTime()
	if err = fs.Chtimes(dst, mtime, mtime); err != nil {
		return CopyFileError(src, err)
	}
	return nil
}

// WriteTags writes the raw tag string to {stem}.txt in dir.
func WriteTags(fs afero.Fs, dir, filename, tags string) error {
	path := filepath.Join(dir, Stem(filename)+".txt")
	if err := afero.WriteFile(fs, path, []byte(tags), 0644); err != nil {
		return WriteFileError(path, err)
	}
	return nil
}
