package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brushwork/psd"
)

var mergedCmd = &cobra.Command{
	Use:   "merged <file.psd> <output>",
	Short: "Export the flattened composite Photoshop stored at save time",
	Args:  cobra.ExactArgs(2),
	RunE:  runMerged,
}

var (
	mergedOverwrite bool
	mergedFormat    string
)

func init() {
	mergedCmd.Flags().BoolVarP(&mergedOverwrite, "overwrite", "f", false, "overwrite an existing output file")
	mergedCmd.Flags().StringVar(&mergedFormat, "format", "", "output format (png, bmp, tiff); default from extension")
}

func runMerged(cmd *cobra.Command, args []string) error {
	err := psd.Open(args[0], func(p *psd.PSD) error {
		img, err := p.RenderMerged()
		if err != nil {
			return err
		}
		return psd.WriteImage(img, args[1], mergedFormat, mergedOverwrite)
	})
	if err != nil {
		return fail(err)
	}

	printGreen(fmt.Sprintf("exported %s -> %s", args[0], args[1]))
	return nil
}
