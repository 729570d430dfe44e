package cli

import (
	"context"

	"github.com/calvinalkan/shofi/internal/tui"

	flag "github.com/spf13/pflag"
)

// UICmd returns the ui command, the default when no command is given.
func UICmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ui", flag.ContinueOnError),
		Usage: "ui",
		Short: "Open the launcher (default)",
		Long: "Open the interactive launcher. Type to filter, Up/Down to move,\n" +
			"Enter to launch, Escape to close. Logs go to the log file.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			a.logToFile(o)
			defer a.close()

			s, _, err := a.session()
			if err != nil {
				return err
			}

			if err := tui.Run(ctx, s, a.logger); err != nil {
				return err
			}

			reportOutcome(o, s.Outcome())

			return nil
		},
	}
}
