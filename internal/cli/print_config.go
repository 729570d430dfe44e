package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			data, err := json.MarshalIndent(a.cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format config: %w", err)
			}

			o.Println(string(data))
			o.Println("")
			o.Println("# Sources:")

			files := a.cfg.Files
			if files.Global != "" {
				o.Println("#   global:", files.Global)
			}

			if files.Explicit != "" {
				o.Println("#   explicit:", files.Explicit)
			}

			if files.Global == "" && files.Explicit == "" {
				o.Println("#   (using defaults only)")
			}

			return nil
		},
	}
}
