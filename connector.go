package tapamazonsp

import (
	"os"

	"github.com/singer-io/tap-amazon-sp/drivers/abstract"
	"github.com/singer-io/tap-amazon-sp/protocol"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"github.com/singer-io/tap-amazon-sp/utils/safego"
)

func RegisterDriver(driver abstract.DriverInterface) {
	defer safego.Recovery(true)

	// Execute the root command
	err := protocol.CreateRootCommand(driver).Execute()
	if err != nil {
		logger.Fatal(err)
	}

	os.Exit(0)
}
