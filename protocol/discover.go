package protocol

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/spf13/cobra"
)

// discoverCmd prints the catalog of every stream the source can sync
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "discover command",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := connector.Setup(cmd.Context()); err != nil {
			return err
		}

		streams, err := connector.Discover(cmd.Context())
		if err != nil {
			return err
		}
		if len(streams) == 0 {
			return fmt.Errorf("no streams found in connector")
		}

		types.LogCatalog(streams)
		return printJSON(types.GetWrappedCatalog(streams))
	},
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
