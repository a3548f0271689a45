package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/venuemap/pkg/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		venuePath string
		addr      string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve floor plans and GeoJSON over HTTP",
		Long: `Serve floor plans and GeoJSON over HTTP.

GET /v1/venue/diagram.svg and /v1/venue/features.geojson render the venue
given with --venue; POST /v1/render renders a TOML venue from the request
body. Query parameters mirror the generate flags (no-labels=true,
auto-anchors=true, ...).

Set VENUEMAP_REDIS_URL or VENUEMAP_MONGO_URI to share the cache between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := loadVenue(venuePath)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache, "api:")
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Serving %s on %s", venueLabel(venuePath), StyleHighlight.Render("http://"+displayAddr(addr)))
			printNextStep("Try", "curl http://"+displayAddr(addr)+"/v1/venue")
			return server.New(runner, v, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&venuePath, "venue", "", "venue file (TOML); default is the built-in venue")
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func venueLabel(path string) string {
	if path == "" {
		return "the built-in venue"
	}
	return path
}

// displayAddr turns ":8080" into "localhost:8080" for printing.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
