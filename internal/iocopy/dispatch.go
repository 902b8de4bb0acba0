package iocopy

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/dscurate/dscurate/internal/iofs"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/dscurate/dscurate/pkg/dataset"
	"github.com/dscurate/dscurate/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// BatchStats summarizes the outcome of one dispatched batch.
type BatchStats = lifecycle.CopyStats

// Dispatcher copies batches of records on a bounded pool of workers.
// A call to Dispatch returns only after every record of the batch is
// done, so batches never overlap.
type Dispatcher struct {
	fs         afero.Fs
	conv       dataset.Convention
	snap       *iofs.Snapshot
	outDir     string
	outputTags bool
	jobs       int
	onError    string
	match      string
}

// NewDispatcher creates a Dispatcher that copies from the snapshot root
// into outDir.
func NewDispatcher(
	cfg *config.Config,
	fs afero.Fs,
	conv dataset.Convention,
	snap *iofs.Snapshot,
	outDir string,
	outputTags bool,
) *Dispatcher {
	jobs := cfg.JobsNumber
	if jobs < 1 {
		jobs = 1
	}
	return &Dispatcher{
		fs:         fs,
		conv:       conv,
		snap:       snap,
		outDir:     outDir,
		outputTags: outputTags,
		jobs:       jobs,
		onError:    cfg.Copy.OnError,
		match:      cfg.Copy.SidecarMatch,
	}
}

// Dispatch copies every record of the batch. With the "continue" policy
// per-record failures are logged and counted; with "abort" the first
// failure cancels the remaining records and is returned.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	batch []dataset.Record,
) (BatchStats, error) {
	var mu sync.Mutex
	stats := BatchStats{Records: len(batch)}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(d.jobs)

	for _, rec := range batch {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			files, err := d.copyRecord(rec)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				stats.Copied++
				stats.Files += files
				return nil
			case files == 0 && isMissing(err):
				stats.Missing++
			default:
				stats.Failed++
			}

			if d.onError == config.OnErrorAbort {
				return err
			}
			slog.Warn("Record skipped", "id", rec.ID, "error", err)
			gn.Warn("Record <em>%d</em> skipped: %s", rec.ID, errMessage(err))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return stats, CancelledError(ctx.Err())
		}
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, CancelledError(err)
	}
	return stats, nil
}

// copyRecord copies the image of a record with its sidecars and writes
// the tag file. It returns the number of copied files.
func (d *Dispatcher) copyRecord(rec dataset.Record) (int, error) {
	subdir, filename := d.conv.Resolve(rec)
	srcDir := filepath.Join(d.snap.Root(), subdir)

	copied, err := iofs.CopySidecars(
		d.fs, filename, srcDir, d.outDir, d.snap.Files(subdir), d.match,
	)
	if err != nil {
		return 0, RecordError(rec.ID, err)
	}
	if len(copied) == 0 {
		return 0, SourceMissingError(rec.ID, filepath.Join(srcDir, filename))
	}

	// written last, so it replaces a copied caption with the same name
	if d.outputTags {
		if err = iofs.WriteTags(d.fs, d.outDir, filename, rec.Tags); err != nil {
			return 0, RecordError(rec.ID, err)
		}
	}
	return len(copied), nil
}
