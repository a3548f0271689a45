package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/spf13/cobra"

	"github.com/matzehuels/venuemap/pkg/anchors"
	"github.com/matzehuels/venuemap/pkg/cache"
	"github.com/matzehuels/venuemap/pkg/venue"
)

// inspectCommand summarizes a venue file.
func (c *CLI) inspectCommand() *cobra.Command {
	var venuePath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a venue: bounds, counts, areas and containment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadVenue(venuePath)
			if err != nil {
				return err
			}
			report, err := inspectVenue(v)
			if err != nil {
				return err
			}
			printInspect(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&venuePath, "venue", "", "venue file (TOML); default is the built-in venue")
	return cmd
}

// inspectReport is everything inspect prints.
type inspectReport struct {
	Name     string
	Hash     string
	Origin   string
	Bounds   venue.Bounds
	Counts   venue.Counts
	Rooms    [][]string // id, size, area, anchors
	Polygons [][]string // id, vertices, area
	Issues   []venue.Issue
}

func inspectVenue(v *venue.Venue) (inspectReport, error) {
	bounds, err := v.Bounds()
	if err != nil {
		return inspectReport{}, err
	}
	fp, err := venue.Fingerprint(v)
	if err != nil {
		return inspectReport{}, err
	}
	r := inspectReport{
		Name:   v.Name,
		Hash:   cache.Hash(fp)[:12],
		Origin: num(v.Origin.Lat) + ", " + num(v.Origin.Lon),
		Bounds: bounds,
		Counts: v.Counts(),
		Issues: venue.CheckContainment(v),
	}

	cov := anchors.Coverage(v)
	for _, room := range v.Rooms {
		r.Rooms = append(r.Rooms, []string{
			room.ID,
			num(room.W) + " × " + num(room.H),
			num(room.Area()),
			strconv.Itoa(cov[room.ID]),
		})
	}
	for _, p := range v.Polygons {
		r.Polygons = append(r.Polygons, []string{
			p.ID,
			strconv.Itoa(len(p.Points)),
			num(polygonArea(p)),
		})
	}
	return r, nil
}

// polygonArea returns the unsigned planar area of a polygon in m².
func polygonArea(p venue.Polygon) float64 {
	a := planar.Area(orb.Polygon{p.Ring()})
	if a < 0 {
		return -a
	}
	return a
}

func printInspect(r inspectReport) {
	name := r.Name
	if name == "" {
		name = "(unnamed venue)"
	}
	fmt.Println(StyleTitle.Render(name))
	printKeyValue("hash", r.Hash)
	printKeyValue("origin", r.Origin)
	printKeyValue("bounds", meters(r.Bounds.WidthM)+" × "+meters(r.Bounds.HeightM))
	printStats(r.Counts, false)
	printNewline()

	if len(r.Rooms) > 0 {
		fmt.Println(renderTable([]string{"Room", "Size (m)", "Area (m²)", "Anchors"}, r.Rooms))
	}
	if len(r.Polygons) > 0 {
		fmt.Println(renderTable([]string{"Polygon", "Vertices", "Area (m²)"}, r.Polygons))
	}

	if len(r.Issues) == 0 {
		printSuccess("No containment issues")
		return
	}
	for _, issue := range r.Issues {
		printWarning("%s", issue.Message)
	}
}

// num formats a value with at most two decimals.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
