package app

import (
	"fmt"
	"strings"

	"github.com/kbukum/datafixture/config"
	"github.com/kbukum/datafixture/fixture"
	"github.com/kbukum/datafixture/util"
)

// Selection is the outcome of path resolution for one command.
type Selection struct {
	// Paths are the files and directories to discover.
	Paths []string
	// Group, when set, keeps only fixtures tagged with it (and their
	// dependencies) after discovery.
	Group string
	// Label describes where the paths came from; empty for explicit flags.
	Label string
}

// ResolvePaths decides which paths a command loads.
//
// Explicit fixture flags always win and the group is ignored. Otherwise a
// named group uses its configured paths; a group with no path mapping
// falls back to the default paths and selects fixtures tagged with the
// group. With no group the "default" group is used when configured, then
// the plain configured paths.
func ResolvePaths(flags []string, group string, cfg config.FixturesConfig) (Selection, error) {
	if paths := cleanPaths(flags); len(paths) > 0 {
		return Selection{Paths: paths}, nil
	}

	group = strings.TrimSpace(group)
	if group != "" {
		if paths, ok := cfg.Group(group); ok {
			return Selection{Paths: cleanPaths(paths), Label: groupLabel(group)}, nil
		}
		base, err := defaultSelection(cfg)
		if err != nil {
			return Selection{}, err
		}
		base.Group = group
		base.Label = groupLabel(group)
		return base, nil
	}

	return defaultSelection(cfg)
}

func defaultSelection(cfg config.FixturesConfig) (Selection, error) {
	if paths, ok := cfg.Group(config.DefaultGroup); ok {
		return Selection{Paths: cleanPaths(paths), Label: groupLabel(config.DefaultGroup)}, nil
	}
	if paths := cleanPaths(cfg.Paths); len(paths) > 0 {
		return Selection{Paths: paths, Label: "Loading path from configuration file."}, nil
	}
	return Selection{}, &fixture.NoFixturesFoundError{}
}

func groupLabel(group string) string {
	return fmt.Sprintf("Loading [ %s ] group.", group)
}

func cleanPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return util.Unique(out)
}
