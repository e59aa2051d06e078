package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "psdrender",
	Short: "Flatten Photoshop documents to images",
	Long: `psdrender reads Adobe Photoshop (PSD) files and renders them to flat
raster images: the full layered composite, individual layers, or the
merged preview Photoshop stored at save time.

Supported output formats: png, bmp, tiff.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(layersCmd)
	rootCmd.AddCommand(mergedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
