package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/venuemap/pkg/anchors"
	"github.com/matzehuels/venuemap/pkg/render/hierarchy"
)

// hierarchyCommand draws the room → zone → marker tree.
func (c *CLI) hierarchyCommand() *cobra.Command {
	var (
		venuePath   string
		output      string
		dotOnly     bool
		noMarkers   bool
		autoAnchors bool
	)

	cmd := &cobra.Command{
		Use:   "hierarchy",
		Short: "Draw the venue hierarchy (rooms, zones, markers) with Graphviz",
		Long: `Draw the venue hierarchy with Graphviz.

Zones hang off their parent room; pins and anchors hang off the room they
name, or the smallest room containing them. Zones whose parent is missing
are attached to the venue root with a dashed edge.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadVenue(venuePath)
			if err != nil {
				return err
			}
			if autoAnchors {
				v = anchors.Augment(v)
			}

			dot := hierarchy.ToDOT(v, hierarchy.Options{Detailed: true, Markers: !noMarkers})
			data := []byte(dot)
			if !dotOnly {
				if data, err = hierarchy.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			}

			if output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&venuePath, "venue", "", "venue file (TOML); default is the built-in venue")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "emit DOT source instead of SVG")
	cmd.Flags().BoolVar(&noMarkers, "no-markers", false, "leave pins and anchors out")
	cmd.Flags().BoolVar(&autoAnchors, "auto-anchors", false, "include recommended anchors")

	return cmd
}
