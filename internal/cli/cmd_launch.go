package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/calvinalkan/shofi/internal/session"

	flag "github.com/spf13/pflag"
)

// LaunchCmd returns the launch command.
func LaunchCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("launch", flag.ContinueOnError),
		Usage: "launch <id>",
		Short: "Launch an application by id",
		Long:  "Launch the application with the given desktop file id and record the launch.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return errors.New("launch requires exactly one <id>")
			}

			a.logToStderr()

			reg, err := a.registry()
			if err != nil {
				return err
			}

			entry, ok := reg.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", errUnknownID, args[0])
			}

			s := session.New(reg.Entries(), a.usage(), a.launcher(), a.logger)

			out := s.Launch(entry)
			if out.LaunchErr != nil {
				return out.LaunchErr
			}

			reportOutcome(o, out)
			o.Println("launched", entry.Name)

			return nil
		},
	}
}
