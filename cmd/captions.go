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
	"github.com/dscurate/dscurate/internal/iocaptions"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// getCaptionsCmd returns the captions command.
func getCaptionsCmd() *cobra.Command {
	var (
		input    string
		output   string
		captions []string
		match    string
	)

	captionsCmd := &cobra.Command{
		Use:   "captions",
		Short: "Copy images whose caption files contain all given captions",
		Long: `Search caption text files (*.txt) of a directory and copy the
ones that contain every given caption, together with the images and other
files sharing their base name. Every --captions value is matched whole,
so a caption may contain commas.

Examples:
  dscurate captions --input tagged --output redhair \
    --captions "red hair, smile" --captions 1girl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("sidecar-match") {
				cfg.Update([]config.Option{config.OptCopySidecarMatch(match)})
				if cfg.Copy.SidecarMatch != normValue(match) {
					err := InvalidOptionError("sidecar-match", match)
					gn.PrintErrorMessage(err)
					return err
				}
			}

			cc := iocaptions.New(cfg, afero.NewOsFs())
			_, err := cc.CopyByCaptions(cmd.Context(), input, output, captions)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	captionsCmd.Flags().StringVarP(&input, "input", "i", "",
		"directory with images and their caption files")
	captionsCmd.Flags().StringVarP(&output, "output", "o", "",
		"directory for matched images and caption files")
	captionsCmd.Flags().StringArrayVarP(&captions, "captions", "c", nil,
		"captions that must all be present in a caption file")
	captionsCmd.Flags().StringVar(&match, "sidecar-match", "",
		"sidecar association: prefix or stem")
	for _, name := range []string{"input", "output", "captions"} {
		_ = captionsCmd.MarkFlagRequired(name)
	}

	return captionsCmd
}
