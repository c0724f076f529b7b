package safego

import (
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/singer-io/tap-amazon-sp/utils/logger"
)

var startTime = time.Now()

// Recovery logs a recovered panic with its stack trace; with exit set the process
// terminates with status 1 after reporting the run duration
func Recovery(exit bool) {
	if err := recover(); err != nil {
		logger.Error(err)
		for _, str := range strings.Split(string(debug.Stack()), "\n") {
			logger.Error(strings.ReplaceAll(str, "\t", ""))
		}
		if exit {
			logger.Infof("Time of execution %v", time.Since(startTime).String())
			os.Exit(1)
		}
	}
}
