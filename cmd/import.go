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
	"github.com/dscurate/dscurate/internal/iodb"
	"github.com/dscurate/dscurate/internal/ioimport"
	"github.com/gnames/gn"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	var imgDir, dbPath string

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Build a SQLite index from gallery-dl metadata files",
		Long: `Read every *.json metadata file gallery-dl wrote into an image
directory and store it in the images table of a SQLite database.

The database and its directory are created when missing. Records with
the same id are replaced. All files are imported in one transaction:
when any of them is broken nothing is stored.

The resulting database is used by 'dscurate copy --mode gallery-dl'.

Examples:
  dscurate import --img feed --out db/feed.sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			im := ioimport.New(cfg, afero.NewOsFs(), iodb.NewOperator())
			_, err := im.Import(cmd.Context(), imgDir, dbPath)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	importCmd.Flags().StringVarP(&imgDir, "img", "i", "",
		"gallery-dl image directory")
	importCmd.Flags().StringVarP(&dbPath, "out", "o", "", "output database file")
	_ = importCmd.MarkFlagRequired("img")
	_ = importCmd.MarkFlagRequired("out")

	return importCmd
}
