/*
Copyright © 2025 The dscurate Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"github.com/dscurate/dscurate/internal/iocopy"
	"github.com/dscurate/dscurate/internal/iodb"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/dscurate/dscurate/pkg/dataset"
	"github.com/dscurate/dscurate/pkg/filter"
	"github.com/dscurate/dscurate/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// copyFlags keeps values of the copy command flags.
type copyFlags struct {
	dbPath     string
	imgDir     string
	outDir     string
	mode       string
	category   string
	tags       []string
	ngTags     []string
	ratings    []string
	extensions []string
	size       int
	md5        []string
	outputTags bool
	onError    string
	match      string
	batchSize  int
	jobs       int
}

// getCopyCmd returns the copy command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCopyCmd() *cobra.Command {
	var flags copyFlags

	copyCmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy images selected by tags from a dataset database",
		Long: `Copy images and their sidecar files selected by a tag filter.

This command:
  1. Opens the dataset SQLite database read-only
  2. Lists the image directory and its immediate subdirectories
  3. Streams matching records in batches (copy.batch_size)
  4. Copies every batch in parallel (jobs_number workers): the image
     and all files sharing its base name, keeping modification times
  5. Optionally writes the raw tag string to {name}.txt

Tags match as substrings of the tag column: --tags cat matches
"cat" and "cat_ears". Every --tags value must match, no --ng-tags value
may match. Repeat a flag to give several values; a value is taken whole,
commas included.

A record without files on disk is reported. With copy.on_error set to
"continue" (default) the run goes on, with "abort" it stops.

Examples:
  # Danbooru dump, safe rated cats, with tag files
  dscurate copy --db danbooru.sqlite --img-dir original --out-dir cats \
    --mode danbooru --tags cat --ratings s --output-tags

  # gallery-dl mirror, large images only
  dscurate copy --db feed.sqlite --img-dir feed --out-dir big \
    --mode gallery-dl --category myfeed --tags cat --tags solo --size 1024`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCopy(cmd, flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fl := copyCmd.Flags()
	fl.StringVar(&flags.dbPath, "db", "", "database file of the dataset")
	fl.StringVar(&flags.imgDir, "img-dir", "", "image directory")
	fl.StringVar(&flags.outDir, "out-dir", "", "output directory")
	fl.StringVarP(&flags.mode, "mode", "m", "",
		"dataset mode (danbooru or gallery-dl)")
	fl.StringVarP(&flags.category, "category", "c", "",
		"gallery-dl category name")
	fl.StringArrayVarP(&flags.tags, "tags", "t", nil, "tags to be included")
	fl.StringArrayVar(&flags.ngTags, "ng-tags", nil, "tags to be excluded")
	fl.StringArrayVar(&flags.ratings, "ratings", nil, "allowed ratings")
	fl.StringArrayVar(&flags.extensions, "extensions", nil, "allowed extensions")
	fl.IntVar(&flags.size, "size", 0,
		"minimum image size (width and height)")
	fl.StringArrayVar(&flags.md5, "md5", nil, "allowed MD5 prefixes")
	fl.BoolVar(&flags.outputTags, "output-tags", false,
		"output tags to a text file")
	fl.StringVar(&flags.onError, "on-error", "",
		"what to do when a record fails: continue or abort")
	fl.StringVar(&flags.match, "sidecar-match", "",
		"sidecar association: prefix or stem")
	fl.IntVarP(&flags.batchSize, "batch-size", "b", 0,
		"number of records per batch")
	fl.IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers")

	for _, name := range []string{"db", "img-dir", "out-dir", "mode", "tags"} {
		_ = copyCmd.MarkFlagRequired(name)
	}

	return copyCmd
}

func runCopy(cmd *cobra.Command, flags copyFlags) error {
	cfg.Update(copyOptions(cmd, flags))

	// configuration problems are reported before any I/O
	fl := cmd.Flags()
	if fl.Changed("on-error") && cfg.Copy.OnError != normValue(flags.onError) {
		return InvalidOptionError("on-error", flags.onError)
	}
	if fl.Changed("sidecar-match") && cfg.Copy.SidecarMatch != normValue(flags.match) {
		return InvalidOptionError("sidecar-match", flags.match)
	}

	conv, err := dataset.New(flags.mode, flags.category)
	if err != nil {
		return err
	}
	f := filter.New(
		flags.tags, flags.ngTags, flags.ratings, flags.extensions,
		flags.size, flags.md5,
	)
	if err = f.Validate(); err != nil {
		return err
	}

	job := lifecycle.CopyJob{
		Convention: conv,
		Filter:     f,
		DBPath:     flags.dbPath,
		ImageDir:   flags.imgDir,
		OutDir:     flags.outDir,
		OutputTags: flags.outputTags,
	}

	copier := iocopy.New(cfg, afero.NewOsFs(), iodb.NewOperator())
	_, err = copier.Copy(cmd.Context(), job)
	return err
}

// copyOptions converts explicitly set flags to config options.
func copyOptions(cmd *cobra.Command, flags copyFlags) []config.Option {
	var res []config.Option
	fl := cmd.Flags()
	if fl.Changed("on-error") {
		res = append(res, config.OptCopyOnError(flags.onError))
	}
	if fl.Changed("sidecar-match") {
		res = append(res, config.OptCopySidecarMatch(flags.match))
	}
	if fl.Changed("batch-size") {
		res = append(res, config.OptCopyBatchSize(flags.batchSize))
	}
	if fl.Changed("jobs") {
		res = append(res, config.OptJobsNumber(flags.jobs))
	}
	return res
}
