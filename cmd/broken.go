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
	"fmt"

	"github.com/dscurate/dscurate/internal/ioverify"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// getBrokenCmd returns the broken command.
func getBrokenCmd() *cobra.Command {
	var patterns []string

	brokenCmd := &cobra.Command{
		Use:   "broken DIR",
		Short: "List image files that cannot be decoded",
		Long: `Walk DIR recursively and fully decode every image file.
Files that fail are printed as "path: error", sorted by path.

By default *.jpg, *.jpeg and *.png files are checked. Patterns use
doublestar syntax relative to DIR and ignore case.

Examples:
  dscurate broken original
  dscurate broken feed --pattern '**/*.webp' --pattern '**/*.png'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runBroken(cmd, args[0], patterns)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	brokenCmd.Flags().StringArrayVarP(&patterns, "pattern", "p", nil,
		"glob pattern of files to check (default **/*.{jpg,jpeg,png})")

	return brokenCmd
}

func runBroken(cmd *cobra.Command, dir string, patterns []string) error {
	v := ioverify.New(cfg, afero.NewOsFs())
	res, err := v.Broken(cmd.Context(), dir, patterns)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, b := range res {
		fmt.Fprintf(out, "%s: %s\n", b.Path, b.Err)
	}
	gn.Info("Found <em>%s</em> broken images", humanize.Comma(int64(len(res))))
	return nil
}
