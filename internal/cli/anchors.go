package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/venuemap/pkg/anchors"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// anchorsCommand lists recommended anchor positions.
func (c *CLI) anchorsCommand() *cobra.Command {
	var (
		venuePath string
		asTOML    bool
	)

	cmd := &cobra.Command{
		Use:   "anchors",
		Short: "Recommend positioning anchors for every room",
		Long: `Recommend positioning anchors for every room.

Rooms under 60 m² get one anchor at their center, rooms under 150 m² two
and larger rooms three, offset by a quarter of the room size (clamped to
1-4 m). With --toml the suggestions are printed as [[anchors]] tables that
can be appended to a venue file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadVenue(venuePath)
			if err != nil {
				return err
			}
			suggested := anchors.Recommend(v.Rooms)
			if asTOML {
				return writeAnchorsTOML(os.Stdout, suggested)
			}
			printAnchors(v, suggested)
			return nil
		},
	}

	cmd.Flags().StringVar(&venuePath, "venue", "", "venue file (TOML); default is the built-in venue")
	cmd.Flags().BoolVar(&asTOML, "toml", false, "print suggestions as TOML")

	return cmd
}

func printAnchors(v *venue.Venue, suggested []venue.Anchor) {
	if len(suggested) == 0 {
		printInfo("No rooms with a positive area")
		return
	}

	rows := make([][]string, 0, len(suggested))
	for _, a := range suggested {
		rows = append(rows, []string{a.ID, a.Room, num(a.X), num(a.Y)})
	}
	fmt.Println(renderTable([]string{"ID", "Room", "X (m)", "Y (m)"}, rows))

	cov := anchors.Coverage(v)
	rooms := make([]string, 0, len(cov))
	for id := range cov {
		rooms = append(rooms, id)
	}
	sort.Strings(rooms)
	for _, id := range rooms {
		if cov[id] == 0 {
			printDetail("%s has no declared anchors", id)
		}
	}
	printSuccess("%d anchors suggested for %d rooms", len(suggested), len(v.Rooms))
}

// anchorTOML is the subset of anchor fields a suggestion carries.
type anchorTOML struct {
	ID        string  `toml:"id"`
	Name      string  `toml:"name"`
	X         float64 `toml:"x"`
	Y         float64 `toml:"y"`
	Kind      string  `toml:"kind"`
	Color     string  `toml:"color"`
	Room      string  `toml:"room"`
	Suggested bool    `toml:"suggested"`
}

// writeAnchorsTOML encodes anchors as an array of tables.
func writeAnchorsTOML(w io.Writer, list []venue.Anchor) error {
	doc := struct {
		Anchors []anchorTOML `toml:"anchors"`
	}{Anchors: make([]anchorTOML, 0, len(list))}
	for _, a := range list {
		doc.Anchors = append(doc.Anchors, anchorTOML{
			ID: a.ID, Name: a.Name, X: a.X, Y: a.Y,
			Kind: a.Kind, Color: a.Color, Room: a.Room, Suggested: a.Suggested,
		})
	}
	return toml.NewEncoder(w).Encode(doc)
}
