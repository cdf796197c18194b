// Package cli wires the consumer-facing commands over the resolver and the
// component set.
package cli

import (
	"os"
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/urfave/cli/v2"

	"github.com/sourcepack/sourcepack/internal/errors"
	"github.com/sourcepack/sourcepack/pkg/log"
)

// NewApp creates the sourcepack CLI app.
func NewApp(logger log.Logger) *cli.App {
	app := cli.NewApp()
	app.Name = "sourcepack"
	app.Usage = "Catalog metadata components from a source tree and build package manifests."
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	app.ExitErrHandler = func(_ *cli.Context, _ error) {
		// Errors are handled by the caller so they pass through Recover.
	}
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: " + log.AllLevels.String() + ".",
			EnvVars: []string{"SOURCEPACK_LOG_LEVEL"},
		},
	}
	app.Before = func(c *cli.Context) error {
		if level := c.String("log-level"); level != "" {
			return logger.SetLevel(level)
		}

		return nil
	}
	app.Commands = []*cli.Command{
		newListCommand(logger),
		newManifestCommand(logger),
	}

	return app
}

// expandPaths resolves glob patterns in the arguments to concrete paths.
// Arguments without glob metacharacters pass through untouched, so missing
// paths still surface as path-not-found errors during resolution.
func expandPaths(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}

		matches, err := zglob.Glob(arg)
		if err != nil {
			return nil, errors.WithStackTraceAndPrefix(err, "could not expand pattern %q", arg)
		}

		paths = append(paths, matches...)
	}

	return paths, nil
}
