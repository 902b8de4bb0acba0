// Package iocaptions implements lifecycle.CaptionCopier. It selects
// images by the text of their caption files instead of a database.
package iocaptions

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dscurate/dscurate/internal/iofs"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/dscurate/dscurate/pkg/lifecycle"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// CaptionExt is the extension of caption files.
const CaptionExt = ".txt"

type captionCopier struct {
	cfg *config.Config
	fs  afero.Fs
}

// New creates a CaptionCopier.
func New(cfg *config.Config, fs afero.Fs) lifecycle.CaptionCopier {
	return &captionCopier{cfg: cfg, fs: fs}
}

// CopyByCaptions copies every caption file of inDir that contains all
// captions as substrings, together with the files sharing its stem.
func (c *captionCopier) CopyByCaptions(
	ctx context.Context,
	inDir, outDir string,
	captions []string,
) (lifecycle.CopyStats, error) {
	var stats lifecycle.CopyStats
	captions = cleanCaptions(captions)
	if len(captions) == 0 {
		return stats, EmptyCaptionsError()
	}

	startTime := time.Now()
	snap, err := iofs.NewRootSnapshot(c.fs, inDir)
	if err != nil {
		return stats, err
	}
	if err = c.fs.MkdirAll(outDir, 0755); err != nil {
		return stats, iofs.CreateDirError(outDir, err)
	}

	available := snap.Files("")
	var texts []string
	for _, name := range available {
		if strings.EqualFold(filepath.Ext(name), CaptionExt) {
			texts = append(texts, name)
		}
	}
	slog.Info("Searching captions",
		"input", inDir, "files", len(texts), "captions", captions)

	var mu sync.Mutex
	stats.Records = len(texts)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.cfg.JobsNumber, 1))
	for _, name := range texts {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			ok, err := c.contains(filepath.Join(inDir, name), captions)
			if err != nil || !ok {
				if err != nil {
					slog.Warn("Cannot read caption file", "file", name, "error", err)
					mu.Lock()
					stats.Failed++
					mu.Unlock()
				}
				return nil
			}

			copied, err := iofs.CopySidecars(
				c.fs, name, inDir, outDir, available, c.cfg.Copy.SidecarMatch,
			)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("Cannot copy files", "file", name, "error", err)
				stats.Failed++
				return nil
			}
			stats.Copied++
			stats.Files += len(copied)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return stats, err
	}
	if err = ctx.Err(); err != nil {
		return stats, err
	}

	elapsed := gnfmt.TimeString(time.Since(startTime).Seconds())
	slog.Info("Caption copy complete",
		"scanned", stats.Records,
		"matched", stats.Copied,
		"files", stats.Files,
		"failed", stats.Failed,
		"duration", elapsed,
	)
	gn.Info("<em>%s</em> of %s caption files matched, %s files copied in %s",
		humanize.Comma(int64(stats.Copied)),
		humanize.Comma(int64(stats.Records)),
		humanize.Comma(int64(stats.Files)),
		elapsed,
	)
	return stats, nil
}

func (c *captionCopier) contains(path string, captions []string) (bool, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return false, iofs.ReadFileError(path, err)
	}
	text := string(data)
	for _, cpt := range captions {
		if !strings.Contains(text, cpt) {
			return false, nil
		}
	}
	return true, nil
}

func cleanCaptions(ss []string) []string {
	var res []string
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}
