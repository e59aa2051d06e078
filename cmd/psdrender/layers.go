package main

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/brushwork/psd"
)

var layersCmd = &cobra.Command{
	Use:   "layers <file.psd> <folder>",
	Short: "Render each layer to its own image in a folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runLayers,
}

var (
	layersOverwrite  bool
	layersFormat     string
	layersSkipHidden bool
	layersMasks      bool
)

func init() {
	layersCmd.Flags().BoolVarP(&layersOverwrite, "overwrite", "f", false, "overwrite existing output files")
	layersCmd.Flags().StringVar(&layersFormat, "format", "png", "output format (png, bmp, tiff)")
	layersCmd.Flags().BoolVar(&layersSkipHidden, "skip-hidden", true, "skip layers that are not visible")
	layersCmd.Flags().BoolVar(&layersMasks, "masks", false, "also write layer masks")
}

var unsafeName = regexp.MustCompile(`[^~A-Za-z0-9_\s-]+`)

func runLayers(cmd *cobra.Command, args []string) error {
	folder := args[1]
	if err := ensureOutputDir(folder); err != nil {
		return fail(err)
	}

	err := psd.Open(args[0], func(p *psd.PSD) error {
		for _, layer := range p.IterLayers() {
			if layersSkipHidden && !layer.Visible() {
				continue
			}

			name := unsafeName.ReplaceAllString(layer.Name, "")
			path := filepath.Join(folder, fmt.Sprintf("%s.%s", name, layersFormat))
			if err := psd.WriteImage(layer.ImageData(), path, layersFormat, layersOverwrite); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)

			if layersMasks && layer.Mask != nil {
				mask, err := layer.MaskData()
				if err != nil {
					return err
				}
				maskPath := filepath.Join(folder, fmt.Sprintf("%s_mask.%s", name, layersFormat))
				if err := psd.WriteImage(mask, maskPath, layersFormat, layersOverwrite); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", maskPath)
			}
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	printGreen("done")
	return nil
}
