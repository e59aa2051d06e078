package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brushwork/psd"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.psd>",
	Short: "Print summary information about a PSD file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var infoTree bool

func init() {
	infoCmd.Flags().BoolVar(&infoTree, "tree", false, "print the layer tree")
}

func runInfo(cmd *cobra.Command, args []string) error {
	return psd.Open(args[0], func(p *psd.PSD) error {
		h := p.Header()
		fmt.Printf("%s %s\n", bold("path:"), p.Path())
		fmt.Printf("%s %dx%d\n", bold("resolution:"), h.Width(), h.Height())
		fmt.Printf("%s %d\n", bold("channels:"), h.Channels)
		fmt.Printf("%s %d\n", bold("bits per channel:"), h.Depth)
		fmt.Printf("%s %s\n", bold("color mode:"), h.Mode)
		fmt.Printf("%s %d\n", bold("layers:"), len(p.IterLayers()))
		fmt.Printf("%s %d\n", bold("groups:"), len(p.IterGroups()))

		if infoTree {
			fmt.Println()
			printTree(p.Root(), 0)
		}
		return nil
	})
}

func printTree(layer *psd.Layer, depth int) {
	for _, child := range layer.Children {
		indent := strings.Repeat("  ", depth)
		name := child.Name
		if child.IsGroup() {
			name = cyan(name + "/")
		}
		marker := ""
		if !child.Visible() {
			marker = yellow(" (hidden)")
		}
		fmt.Printf("%s%s  [%s, opacity %d]%s\n", indent, name, child.Blend.Name, child.Opacity, marker)
		printTree(child, depth+1)
	}
}
