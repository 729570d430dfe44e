package cli

import (
	"cmp"
	"context"
	"maps"
	"slices"

	flag "github.com/spf13/pflag"
)

// StatsCmd returns the stats command.
func StatsCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("stats", flag.ContinueOnError),
		Usage: "stats",
		Short: "Show launch counts",
		Long:  "Print the recorded launch count per application id, highest first.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			a.logToStderr()

			counts := a.usage().Counts()

			ids := slices.SortedFunc(maps.Keys(counts), func(x, y string) int {
				return cmp.Or(cmp.Compare(counts[y], counts[x]), cmp.Compare(x, y))
			})

			for _, id := range ids {
				o.Printf("%d %s\n", counts[id], id)
			}

			return nil
		},
	}
}
