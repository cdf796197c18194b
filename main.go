package main

import (
	"os"

	"github.com/sourcepack/sourcepack/cli"
	"github.com/sourcepack/sourcepack/internal/errors"
	"github.com/sourcepack/sourcepack/pkg/log"
)

// The main entrypoint for sourcepack.
func main() {
	logger := log.Default()

	defer errors.Recover(checkForErrorsAndExit(logger))

	app := cli.NewApp(logger)
	err := app.Run(os.Args)

	checkForErrorsAndExit(logger)(err)
}

// If there is an error, display it in the console and exit with a non-zero exit code. Otherwise, exit 0.
func checkForErrorsAndExit(logger log.Logger) func(error) {
	return func(err error) {
		if err == nil {
			os.Exit(0)
		}

		logger.Error(err.Error())

		if errStack := errors.ErrorStack(err); errStack != "" {
			logger.Trace(errStack)
		}

		exitCode := 1

		var exitCodeErr errors.ErrorWithExitCode
		if errors.As(err, &exitCodeErr) {
			exitCode = exitCodeErr.ExitCode
		}

		os.Exit(exitCode)
	}
}
