package cli

import (
	"fmt"

	gotree "github.com/disiqueira/gotree/v3"
	"github.com/urfave/cli/v2"

	"github.com/sourcepack/sourcepack/internal/collections"
	"github.com/sourcepack/sourcepack/internal/component"
	"github.com/sourcepack/sourcepack/internal/errors"
	"github.com/sourcepack/sourcepack/internal/registry"
	"github.com/sourcepack/sourcepack/internal/vfs"
	"github.com/sourcepack/sourcepack/pkg/log"
)

func newListCommand(logger log.Logger) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "Resolve metadata components from the given paths and list them.",
		ArgsUsage: "<path|glob>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "flat",
				Usage: "Print one component per line instead of a tree.",
			},
		},
		Action: errors.WithPanicHandling(func(c *cli.Context) error {
			return runList(c, logger)
		}),
	}
}

func runList(c *cli.Context, logger log.Logger) error {
	set, err := resolvePaths(c.Args().Slice(), logger)
	if err != nil {
		return err
	}

	if set.Size() == 0 {
		logger.Warn("No metadata components found.")
		return nil
	}

	if c.Bool("flat") {
		for _, item := range set.All() {
			line := item.Type().Name + ": " + item.FullName()

			if sc, ok := item.(*component.SourceComponent); ok {
				line += describePaths(sc)
			}

			fmt.Fprintln(c.App.Writer, line)
		}

		return nil
	}

	fmt.Fprint(c.App.Writer, renderTree(set))

	return nil
}

// resolvePaths expands the arguments and resolves each against the local
// filesystem into a fresh component set.
func resolvePaths(args []string, logger log.Logger) (*collections.Set, error) {
	if len(args) == 0 {
		return nil, errors.ErrorWithExitCode{
			Err:      errors.Errorf("at least one path is required"),
			ExitCode: 1,
		}
	}

	paths, err := expandPaths(args)
	if err != nil {
		return nil, err
	}

	reg := registry.Default()
	tree := vfs.NewLocalTree()
	set := collections.NewSet(reg)

	var errs *errors.MultiError

	for _, path := range paths {
		added, err := set.ResolveSourceComponents(path, collections.ResolveOptions{
			Tree:   tree,
			Logger: logger,
		})
		if err != nil {
			errs = errs.Append(err)
			continue
		}

		logger.Debugf("Resolved %d components from %s", len(added), path)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return set, nil
}

// renderTree prints the set grouped by type.
func renderTree(set *collections.Set) string {
	root := gotree.New("components")

	branches := make(map[string]gotree.Tree)

	for _, item := range set.All() {
		typeName := item.Type().Name

		branch, ok := branches[typeName]
		if !ok {
			branch = root.Add(typeName)
			branches[typeName] = branch
		}

		name := item.FullName()
		if sc, ok := item.(*component.SourceComponent); ok {
			name += describePaths(sc)
		}

		branch.Add(name)
	}

	return root.Print()
}

func describePaths(sc *component.SourceComponent) string {
	switch {
	case sc.XMLPath() != "" && sc.ContentPath() != "":
		return " (" + sc.XMLPath() + ", " + sc.ContentPath() + ")"
	case sc.XMLPath() != "":
		return " (" + sc.XMLPath() + ")"
	case sc.ContentPath() != "":
		return " (" + sc.ContentPath() + ")"
	default:
		return ""
	}
}
