package protocol

import (
	"context"
	"fmt"
	"os"

	"github.com/singer-io/tap-amazon-sp/constants"
	"github.com/singer-io/tap-amazon-sp/destination"
	"github.com/singer-io/tap-amazon-sp/telemetry"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// syncCmd emits the selected streams of the catalog as singer messages on stdout
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "sync command",
	Long:  `Sync command reads the selected streams of the catalog and writes SCHEMA, RECORD and STATE messages to stdout`,
	Example: `
// Base command, syncing every discovered stream:
tap-amazon-sp sync --config path/to/config

// With a catalog:
tap-amazon-sp sync --config path/to/config --catalog path/to/catalog

// With State:
tap-amazon-sp sync --config path/to/config --catalog path/to/catalog --state /path/to/state

// With a SQLite checkpoint store:
tap-amazon-sp sync --config path/to/config --catalog path/to/catalog --state-db /path/to/state.db
`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		defer func() {
			telemetry.TrackSyncResult(syncID, err)
			if path := viper.GetString(constants.MetricsPath); path != "" {
				if ferr := telemetry.Flush(path); ferr != nil {
					logger.Warnf("failed to write metrics: %s", ferr)
				}
			}
		}()

		if err := connector.Setup(cmd.Context()); err != nil {
			return err
		}

		catalog, err := resolveCatalog(cmd.Context())
		if err != nil {
			return err
		}

		store, state, err := openStateStore()
		if err != nil {
			return err
		}
		defer store.Close()

		logger.Infof("Starting sync[%s]", syncID)
		return connector.Sync(cmd.Context(), catalog, state, destination.NewSingerWriter(os.Stdout), store)
	},
}

// resolveCatalog reads the catalog passed with --catalog. Without one every
// discovered stream is selected.
func resolveCatalog(ctx context.Context) (*types.Catalog, error) {
	if catalogPath != "" {
		catalog := &types.Catalog{}
		if err := utils.UnmarshalFile(catalogPath, catalog, false); err != nil {
			return nil, fmt.Errorf("failed to read catalog: %s", err)
		}
		return catalog, nil
	}

	logger.Infof("No catalog passed, syncing every discovered stream")
	streams, err := connector.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return types.GetWrappedCatalog(streams), nil
}

// openStateStore picks the checkpoint store and loads the state to resume from. A state
// file passed with --state takes precedence over the content of the SQLite store.
func openStateStore() (destination.StateStore, *types.State, error) {
	var store destination.StateStore
	if path := viper.GetString(constants.StateDBPath); path != "" {
		sqliteStore, err := destination.OpenSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		store = sqliteStore
	} else {
		store = destination.NewFileStore(viper.GetString(constants.StatePath))
	}

	loader := store
	if statePath != "" {
		loader = destination.NewFileStore(statePath)
	}

	state, err := loader.Load()
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load state: %s", err)
	}

	return store, state, nil
}
