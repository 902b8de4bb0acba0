// Package ioverify implements lifecycle.Verifier: it walks an image tree
// and fully decodes every selected file to find broken images.
package ioverify

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cheggaaa/pb/v3"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/dscurate/dscurate/pkg/lifecycle"
	"github.com/spf13/afero"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// DefaultPatterns select the files checked when no pattern is given.
var DefaultPatterns = []string{"**/*.{jpg,jpeg,png}"}

type verifier struct {
	cfg *config.Config
	fs  afero.Fs
}

// New creates a Verifier.
func New(cfg *config.Config, fs afero.Fs) lifecycle.Verifier {
	return &verifier{cfg: cfg, fs: fs}
}

// Broken decodes every file under dir whose slash-separated relative
// path matches one of the patterns. Matching ignores case.
func (v *verifier) Broken(
	ctx context.Context,
	dir string,
	patterns []string,
) ([]lifecycle.BrokenImage, error) {
	patterns, err := normPatterns(patterns)
	if err != nil {
		return nil, err
	}

	paths, err := v.collect(dir, patterns)
	if err != nil {
		return nil, err
	}
	slog.Info("Checking images", "dir", dir, "files", len(paths))

	var bar *pb.ProgressBar
	if v.cfg.WithProgress && len(paths) > 0 {
		bar = pb.Full.Start(len(paths))
		bar.Set("prefix", "Decoding images: ")
		bar.Set(pb.CleanOnFinish, true)
	}

	var mu sync.Mutex
	var res []lifecycle.BrokenImage

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(v.cfg.JobsNumber, 1))
	for _, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			err := v.decode(path)
			if bar != nil {
				bar.Increment()
			}
			if err == nil {
				return nil
			}
			slog.Debug("Broken image", "path", path, "error", err)
			mu.Lock()
			res = append(res, lifecycle.BrokenImage{Path: path, Err: err})
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(res, func(a, b lifecycle.BrokenImage) int {
		return strings.Compare(a.Path, b.Path)
	})
	slog.Info("Image check complete", "checked", len(paths), "broken", len(res))
	return res, nil
}

func (v *verifier) collect(dir string, patterns []string) ([]string, error) {
	var res []string
	err := afero.Walk(v.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if matchesAny(patterns, rel) {
			res = append(res, path)
		}
		return nil
	})
	if err != nil {
		return nil, WalkError(dir, err)
	}
	return res, nil
}

func (v *verifier) decode(path string) error {
	f, err := v.fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _, err = image.Decode(f)
	return err
}

func normPatterns(patterns []string) ([]string, error) {
	var res []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.ToLower(filepath.ToSlash(p))
		if !doublestar.ValidatePattern(p) {
			return nil, PatternError(p)
		}
		res = append(res, p)
	}
	if len(res) == 0 {
		return DefaultPatterns, nil
	}
	return res, nil
}

func matchesAny(patterns []string, rel string) bool {
	rel = strings.ToLower(filepath.ToSlash(rel))
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
