package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sourcepack/sourcepack/internal/errors"
	"github.com/sourcepack/sourcepack/pkg/log"
)

const manifestFileMode = 0644

func newManifestCommand(logger log.Logger) *cli.Command {
	return &cli.Command{
		Name:      "manifest",
		Usage:     "Build a package manifest from the components resolved from the given paths.",
		ArgsUsage: "<path|glob>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the manifest to `FILE` instead of stdout.",
			},
			&cli.StringFlag{
				Name:  "api-version",
				Usage: "Override the API version stamped on the manifest.",
			},
		},
		Action: errors.WithPanicHandling(func(c *cli.Context) error {
			return runManifest(c, logger)
		}),
	}
}

func runManifest(c *cli.Context, logger log.Logger) error {
	set, err := resolvePaths(c.Args().Slice(), logger)
	if err != nil {
		return err
	}

	if version := c.String("api-version"); version != "" {
		set = set.WithAPIVersion(version)
	}

	data, err := set.PackageXML()
	if err != nil {
		return err
	}

	output := c.String("output")
	if output == "" {
		fmt.Fprint(c.App.Writer, string(data))
		return nil
	}

	if err := os.WriteFile(output, data, manifestFileMode); err != nil {
		return errors.WithStackTraceAndPrefix(err, "could not write manifest to %q", output)
	}

	logger.Infof("Wrote manifest with %d members to %s", set.Size(), output)

	return nil
}
