package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/venuemap/pkg/errors"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// locateCommand reports the rooms containing a point.
func (c *CLI) locateCommand() *cobra.Command {
	var venuePath string

	cmd := &cobra.Command{
		Use:   "locate X Y",
		Short: "List the rooms containing a point (meters)",
		Long: `List the rooms containing a point given in venue meters.

Rooms are listed from the smallest to the largest, so the first line is the
room an anchor at that point would be assigned to.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePoint(args[0], args[1])
			if err != nil {
				return err
			}
			v, err := loadVenue(venuePath)
			if err != nil {
				return err
			}

			rooms := locateRooms(v, x, y)
			if len(rooms) == 0 {
				printWarning("(%s, %s) lies outside every room", num(x), num(y))
				return nil
			}
			for i, r := range rooms {
				label := r.ID
				if r.Name != "" {
					label += " " + StyleDim.Render("("+r.Name+")")
				}
				if i == 0 {
					printSuccess("%s", label)
				} else {
					printDetail("%s", label)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&venuePath, "venue", "", "venue file (TOML); default is the built-in venue")
	return cmd
}

func parsePoint(xs, ys string) (x, y float64, err error) {
	if x, err = strconv.ParseFloat(xs, 64); err == nil {
		y, err = strconv.ParseFloat(ys, 64)
	}
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "point must be two numbers")
	}
	if err := errors.ValidateFinite("x", x); err != nil {
		return 0, 0, err
	}
	if err := errors.ValidateFinite("y", y); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func locateRooms(v *venue.Venue, x, y float64) []venue.Room {
	return venue.NewRoomIndex(v.Rooms).Locate(x, y)
}
