// Package lifecycle defines the operations dscurate runs over a dataset:
// copying a filtered subset, copying by captions, finding broken images
// and building an index database.
package lifecycle

import (
	"context"

	"github.com/dscurate/dscurate/pkg/dataset"
	"github.com/dscurate/dscurate/pkg/filter"
)

// CopyJob describes one database-driven copy run.
type CopyJob struct {
	Convention dataset.Convention
	Filter     filter.Filter
	// DBPath is the SQLite file with dataset metadata.
	DBPath string
	// ImageDir is the root of the image tree.
	ImageDir string
	// OutDir receives the copied files. It is created when missing.
	OutDir string
	// OutputTags writes the raw tag string of every record to
	// {stem}.txt next to the copied image.
	OutputTags bool
}

// CopyStats summarizes a copy run or a part of it.
type CopyStats struct {
	// Records is the number of processed records.
	Records int
	// Copied is the number of records with at least one copied file.
	Copied int
	// Files is the number of files copied, sidecars included.
	Files int
	// Missing is the number of records without any file on disk.
	Missing int
	// Failed is the number of records that failed with an I/O error.
	Failed int
}

// Add accumulates other into s.
func (s *CopyStats) Add(other CopyStats) {
	s.Records += other.Records
	s.Copied += other.Copied
	s.Files += other.Files
	s.Missing += other.Missing
	s.Failed += other.Failed
}

// Copier copies images selected by a tag filter from the dataset
// database into an output directory.
type Copier interface {
	// Copy streams matching records in batches and copies each batch in
	// parallel. Configuration errors are returned before any I/O.
	Copy(ctx context.Context, job CopyJob) (CopyStats, error)
}

// CaptionCopier copies images whose caption files contain every one of
// the given captions.
type CaptionCopier interface {
	CopyByCaptions(
		ctx context.Context,
		inDir, outDir string,
		captions []string,
	) (CopyStats, error)
}

// BrokenImage is an image file that could not be decoded.
type BrokenImage struct {
	Path string
	Err  error
}

// Verifier finds image files that fail to decode.
type Verifier interface {
	// Broken returns undecodable files under dir, sorted by path.
	Broken(ctx context.Context, dir string, patterns []string) ([]BrokenImage, error)
}

// Importer builds a SQLite index from gallery-dl JSON metadata.
type Importer interface {
	// Import reads every JSON file of imgDir and stores it in dbPath.
	// It returns the number of imported rows.
	Import(ctx context.Context, imgDir, dbPath string) (int, error)
}
