package iofs

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/dscurate/dscurate/pkg/config"
	"github.com/spf13/afero"
)

// Snapshot is a point-in-time listing of an image directory: files at
// the root and, unless taken with NewRootSnapshot, files of every
// immediate subdirectory. It is never refreshed, so it is safe to share
// between goroutines.
type Snapshot struct {
	root  string
	dirs  map[string][]string
	total int
}

// NewSnapshot lists root and its immediate subdirectories.
// Hash-sharded dumps keep images one level down.
func NewSnapshot(fs afero.Fs, root string) (*Snapshot, error) {
	return newSnapshot(fs, root, true)
}

// NewRootSnapshot lists the files of root only. Subdirectories are not
// read.
func NewRootSnapshot(fs afero.Fs, root string) (*Snapshot, error) {
	return newSnapshot(fs, root, false)
}

func newSnapshot(fs afero.Fs, root string, withSubdirs bool) (*Snapshot, error) {
	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, ReadDirError(root, err)
	}

	res := &Snapshot{root: root, dirs: make(map[string][]string)}
	var rootFiles []string
	for _, e := range entries {
		if !e.IsDir() {
			rootFiles = append(rootFiles, e.Name())
			continue
		}
		if !withSubdirs {
			continue
		}

		sub := filepath.Join(root, e.Name())
		subEntries, err := afero.ReadDir(fs, sub)
		if err != nil {
			return nil, ReadDirError(sub, err)
		}
		var files []string
		for _, se := range subEntries {
			if !se.IsDir() {
				files = append(files, se.Name())
			}
		}
		res.add(e.Name(), files)
	}
	res.add("", rootFiles)
	return res, nil
}

func (s *Snapshot) add(dir string, files []string) {
	if len(files) == 0 {
		return
	}
	slices.Sort(files)
	s.dirs[dir] = files
	s.total += len(files)
}

// Root returns the directory the snapshot was taken of.
func (s *Snapshot) Root() string {
	return s.root
}

// Len returns the number of files in the snapshot.
func (s *Snapshot) Len() int {
	return s.total
}

// Files returns the sorted file names of a subdirectory ("" for root).
// The slice must not be modified.
func (s *Snapshot) Files(subdir string) []string {
	return s.dirs[subdir]
}

// Match returns names from a sorted list that belong to the given stem.
func Match(sorted []string, stem, mode string) []string {
	if stem == "" {
		return nil
	}
	var res []string
	i := sort.SearchStrings(sorted, stem)
	for ; i < len(sorted); i++ {
		name := sorted[i]
		if !strings.HasPrefix(name, stem) {
			break
		}
		if mode == config.MatchStem && !isStemOf(name, stem) {
			continue
		}
		res = append(res, name)
	}
	return res
}

func isStemOf(name, stem string) bool {
	return name == stem || strings.HasPrefix(name, stem+".")
}

// Stem returns a file name without its last extension.
func Stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
