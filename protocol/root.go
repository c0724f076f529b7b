package protocol

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/singer-io/tap-amazon-sp/constants"
	"github.com/singer-io/tap-amazon-sp/drivers/abstract"
	"github.com/singer-io/tap-amazon-sp/utils"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const notSet = "not-set"

var (
	configPath  string
	statePath   string
	catalogPath string
	stateDBPath string
	metricsPath string
	syncID      string
	noSave      bool

	commands  = []*cobra.Command{}
	connector *abstract.AbstractDriver
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tap-amazon-sp",
	Short: "Singer tap for the Amazon Selling Partner API",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// set global variables
		viper.SetEnvPrefix(constants.EnvPrefix)
		viper.AutomaticEnv()
		viper.SetDefault(constants.ConfigFolder, os.TempDir())
		viper.SetDefault(constants.StatePath, filepath.Join(os.TempDir(), constants.StateFile+constants.JSONExtension))
		viper.SetDefault(constants.StreamsPath, filepath.Join(os.TempDir(), constants.StreamsFile+constants.JSONExtension))

		if configPath != notSet {
			viper.Set(constants.ConfigFolder, filepath.Dir(configPath))
			viper.Set(constants.StreamsPath, filepath.Join(filepath.Dir(configPath), constants.StreamsFile+constants.JSONExtension))
			viper.Set(constants.StatePath, filepath.Join(filepath.Dir(configPath), constants.StateFile+constants.JSONExtension))
		}
		if statePath != "" {
			viper.Set(constants.StatePath, statePath)
		}
		if stateDBPath != "" {
			viper.Set(constants.StateDBPath, stateDBPath)
		}
		if metricsPath != "" {
			viper.Set(constants.MetricsPath, metricsPath)
		}
		viper.Set(constants.NoSave, noSave || viper.GetBool(constants.NoSave))

		if syncID == "" {
			syncID = utils.ULID()
		}
		viper.Set(constants.SyncID, syncID)

		// logger uses CONFIG_FOLDER
		logger.Init()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		if ok := utils.IsValidSubcommand(commands, args[0]); !ok {
			return fmt.Errorf("'%s' is an invalid command. Use 'tap-amazon-sp --help' to display usage guide", args[0])
		}

		return nil
	},
}

func CreateRootCommand(driver abstract.DriverInterface) *cobra.Command {
	connector = abstract.NewAbstractDriver(RootCmd.Context(), driver)
	return RootCmd
}

// loadConfig reads the connector config; required fields are checked in Setup
func loadConfig() error {
	if configPath == notSet {
		return fmt.Errorf("--config not passed")
	}

	return utils.UnmarshalFile(configPath, connector.GetConfigRef(), false)
}

func init() {
	commands = append(commands, specCmd, checkCmd, discoverCmd, syncCmd)
	RootCmd.AddCommand(commands...)

	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "", notSet, "(Required) Config for connector")
	RootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "", "", "Path to the catalog of the streams to sync")
	RootCmd.PersistentFlags().StringVarP(&statePath, "state", "", "", "(Optional) State of the previous sync")
	RootCmd.PersistentFlags().StringVarP(&stateDBPath, "state-db", "", "", "(Optional) SQLite database keeping the state instead of the state file")
	RootCmd.PersistentFlags().StringVarP(&metricsPath, "metrics", "", "", "(Optional) Path of the prometheus textfile written after a sync")
	RootCmd.PersistentFlags().StringVarP(&syncID, "sync-id", "", "", "(Optional) Identifier of the sync in logs and metrics")
	RootCmd.PersistentFlags().BoolVarP(&noSave, "no-save", "", false, "(Optional) Flag to skip logging artifacts in file")
	// Disable Cobra CLI's built-in usage and error handling
	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true
}
