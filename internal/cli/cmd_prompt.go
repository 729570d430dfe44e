package cli

import (
	"context"

	"github.com/calvinalkan/shofi/internal/prompt"

	flag "github.com/spf13/pflag"
)

// PromptCmd returns the prompt command.
func PromptCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("prompt", flag.ContinueOnError),
		Usage: "prompt",
		Short: "Line-mode launcher with completion and history",
		Long: "Read queries line by line. A query prints numbered results,\n" +
			"a number launches that result. Tab completes names, Ctrl+D exits.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			a.logToFile(o)
			defer a.close()

			s, _, err := a.session()
			if err != nil {
				return err
			}

			err = prompt.Run(s, prompt.Options{
				Out:         o.out,
				FS:          a.fs,
				HistoryFile: a.cfg.HistoryFile,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}

			reportOutcome(o, s.Outcome())

			return nil
		},
	}
}
