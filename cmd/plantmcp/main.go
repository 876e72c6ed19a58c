// plantmcp: water-plant hierarchy MCP server
//
// Serves a read-only Location > Application > Module > Instrumentation >
// Asset hierarchy to any MCP-capable AI tool over stdio, and offers the
// same renderings on the command line.
//
// Usage:
//
//	plantmcp serve                 # Start MCP server (stdio transport)
//	plantmcp render --markdown     # Print the hierarchy tree
//	plantmcp summary               # Print entity counts
//	plantmcp stats                 # Print detailed statistics as JSON
//	plantmcp usage                 # Print recorded tool calls
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nwater/plantmcp/internal/config"
	"github.com/nwater/plantmcp/internal/hierarchy"
	"github.com/nwater/plantmcp/internal/plantdata"
	plantserver "github.com/nwater/plantmcp/internal/server"
)

// exitIntegrity is the exit status when the plant document loads but is
// not a valid hierarchy.
const exitIntegrity = 2

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hierarchy.IsIntegrity(err) {
			os.Exit(exitIntegrity)
		}
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	dataFile   string
}

// config resolves the configuration; --data overrides data_file.
func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dataFile != "" {
		cfg.DataFile = o.dataFile
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "plantmcp",
		Short: "Water-plant hierarchy MCP server",
		Long: `plantmcp exposes a water-treatment plant hierarchy
(Location > Application > Module > Instrumentation > Asset) as MCP tools.

Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "plant": {
        "command": "plantmcp",
        "args": ["serve"]
      }
    }
  }`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./"+config.FileName+" if present)")
	root.PersistentFlags().StringVar(&opts.dataFile, "data", "", "plant document (default: embedded plant)")

	root.AddCommand(
		newServeCmd(opts),
		newRenderCmd(opts),
		newSummaryCmd(opts),
		newStatsCmd(opts),
		newUsageCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", plantserver.Name, plantserver.Version)
		},
	}
}

// loadStore reads the configured plant document and builds the hierarchy.
func loadStore(cfg *config.Config) (*hierarchy.Store, error) {
	raw, err := plantdata.Load(cfg.DataFile)
	if err != nil {
		return nil, err
	}
	return hierarchy.Load(raw)
}
