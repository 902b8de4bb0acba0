// Package iocopy implements the lifecycle.Copier interface: it streams
// records selected by a tag filter from a SQLite dataset and copies
// their images with sidecar files into an output directory.
package iocopy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dscurate/dscurate/internal/iodb"
	"github.com/dscurate/dscurate/internal/iofs"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/dscurate/dscurate/pkg/dataset"
	"github.com/dscurate/dscurate/pkg/db"
	"github.com/dscurate/dscurate/pkg/lifecycle"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

type copier struct {
	cfg *config.Config
	fs  afero.Fs
	op  db.Operator
}

// New creates a Copier. The database is opened read-only for the time
// of each Copy call.
func New(cfg *config.Config, fs afero.Fs, op db.Operator) lifecycle.Copier {
	return &copier{cfg: cfg, fs: fs, op: op}
}

// Copy runs the whole pipeline: count, snapshot, paginate, dispatch.
func (c *copier) Copy(
	ctx context.Context,
	job lifecycle.CopyJob,
) (lifecycle.CopyStats, error) {
	var stats lifecycle.CopyStats
	if err := job.Filter.Validate(); err != nil {
		return stats, err
	}

	startTime := time.Now()
	log := slog.With("run_id", uuid.NewString())

	if err := c.op.Open(ctx, job.DBPath, true); err != nil {
		return stats, err
	}
	defer c.op.Close()

	snap, err := iofs.NewSnapshot(c.fs, job.ImageDir)
	if err != nil {
		return stats, err
	}
	if err = c.fs.MkdirAll(job.OutDir, 0755); err != nil {
		return stats, iofs.CreateDirError(job.OutDir, err)
	}

	total, err := iodb.Count(ctx, c.op.DB(), job.Convention.CountQuery(job.Filter))
	if err != nil {
		return stats, err
	}

	q := job.Convention.Query(job.Filter)
	log.Info("Starting copy",
		"mode", job.Convention.Kind().String(),
		"db", job.DBPath,
		"img_dir", job.ImageDir,
		"out_dir", job.OutDir,
		"files_on_disk", snap.Len(),
		"records", total,
	)
	log.Debug("Copy query", "sql", q.SQL, "args", q.Args)
	gn.Info("Found <em>%s</em> matching records, <em>%s</em> files on disk",
		humanize.Comma(int64(total)), humanize.Comma(int64(snap.Len())))

	var bar *pb.ProgressBar
	if c.cfg.WithProgress && total > 0 {
		bar = pb.Full.Start(total)
		bar.Set("prefix", "Copying images: ")
		bar.Set(pb.CleanOnFinish, true)
	}

	disp := NewDispatcher(c.cfg, c.fs, job.Convention, snap, job.OutDir, job.OutputTags)
	_, err = iodb.Scan(ctx, c.op.DB(), q, c.cfg.Copy.BatchSize,
		func(batch []dataset.Record) error {
			if bar == nil {
				gn.Info("Copying %s images and associated files...",
					humanize.Comma(int64(len(batch))))
			}
			bs, err := disp.Dispatch(ctx, batch)
			stats.Add(bs)
			if bar != nil {
				bar.Add(len(batch))
			}
			log.Info("Batch copied",
				"records", bs.Records,
				"files", bs.Files,
				"missing", bs.Missing,
				"failed", bs.Failed,
			)
			return err
		})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		err = asCancelled(ctx, err)
		log.Error("Copy stopped", "error", err, "records", stats.Records)
		return stats, err
	}

	elapsed := gnfmt.TimeString(time.Since(startTime).Seconds())
	log.Info("Copy complete",
		"records", stats.Records,
		"copied", stats.Copied,
		"files", stats.Files,
		"missing", stats.Missing,
		"failed", stats.Failed,
		"duration", elapsed,
	)
	gn.Info("%s", summary(stats, elapsed))
	return stats, nil
}

func summary(s lifecycle.CopyStats, elapsed string) string {
	res := fmt.Sprintf(
		"<em>%s</em> images and associated files copied (%s files)",
		humanize.Comma(int64(s.Copied)), humanize.Comma(int64(s.Files)),
	)
	if s.Missing > 0 || s.Failed > 0 {
		res += fmt.Sprintf(", missing: %s, failed: %s",
			humanize.Comma(int64(s.Missing)), humanize.Comma(int64(s.Failed)))
	}
	return res + fmt.Sprintf("\nElapsed time: <em>%s</em>", elapsed)
}
