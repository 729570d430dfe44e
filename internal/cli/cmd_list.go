package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/calvinalkan/shofi/internal/rank"

	flag "github.com/spf13/pflag"
)

// ListCmd returns the list command.
func ListCmd(a *app) *Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.Int("limit", 0, "Maximum results to show (0 = no limit)")

	return &Command{
		Flags: fs,
		Usage: "list [query] [flags]",
		Short: "Print ranked applications",
		Long: "Print the applications ranked for query, one per line as\n" +
			"<id> [<usage>] - <name>. Without a query the most used are shown.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			limit, _ := fs.GetInt("limit")
			if limit < 0 {
				return errors.New("--limit must be non-negative")
			}

			a.logToStderr()

			reg, err := a.registry()
			if err != nil {
				return err
			}

			store := a.usage()

			results := rank.Rank(reg.Entries(), store, strings.Join(args, " "))
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			for _, e := range results {
				o.Printf("%s [%d] - %s\n", e.ID, store.Count(e.ID), e.Name)
			}

			return nil
		},
	}
}
