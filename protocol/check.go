package protocol

import (
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"github.com/spf13/cobra"
)

// checkCmd validates the config and the credentials against the API
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "check command",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		status := &types.StatusRow{Status: types.ConnectionSucceed}
		if err := connector.Check(cmd.Context()); err != nil {
			status.Status = types.ConnectionFailed
			status.Message = err.Error()
			logger.Errorf("connection check failed: %s", err)
		}

		return printJSON(status)
	},
}
