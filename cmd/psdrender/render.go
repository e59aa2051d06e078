package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brushwork/psd"
)

var renderCmd = &cobra.Command{
	Use:   "render <file.psd> <output>",
	Short: "Flatten the document's layers to a single image",
	Args:  cobra.ExactArgs(2),
	RunE:  runRender,
}

var (
	renderOverwrite bool
	renderFormat    string
)

func init() {
	renderCmd.Flags().BoolVarP(&renderOverwrite, "overwrite", "f", false, "overwrite an existing output file")
	renderCmd.Flags().StringVar(&renderFormat, "format", "", "output format (png, bmp, tiff); default from extension")
}

func runRender(cmd *cobra.Command, args []string) error {
	err := psd.Open(args[0], func(p *psd.PSD) error {
		img, err := p.Render()
		if err != nil {
			return err
		}
		return psd.WriteImage(img, args[1], renderFormat, renderOverwrite)
	})
	if err != nil {
		return fail(err)
	}

	printGreen(fmt.Sprintf("rendered %s -> %s", args[0], args[1]))
	return nil
}
