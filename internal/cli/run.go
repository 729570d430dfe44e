package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calvinalkan/shofi/internal/config"

	flag "github.com/spf13/pflag"
)

const defaultCommand = "ui"

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. A signal received on it cancels the running command.
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("shofi", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	flagHelp := globals.BoolP("help", "h", false, "Show help")
	flagConfig := globals.StringP("config", "c", "", "Use specified config file")
	flagDataDir := globals.String("data-dir", "", "Directory holding usage.json")
	flagLogFile := globals.String("log-file", "", "Write logs to this file")
	flagLogLevel := globals.String("log-level", "", "Log level: debug, info, warn or error")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globals.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, nil)

		return 1
	}

	if globals.Changed("data-dir") && *flagDataDir == "" {
		fprintln(errOut, "error:", config.ErrDataDirEmpty)
		printUsage(errOut, globals, nil)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		ConfigPath:       *flagConfig,
		DataDirOverride:  *flagDataDir,
		LogFileOverride:  *flagLogFile,
		LogLevelOverride: *flagLogLevel,
		Env:              env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, nil)

		return 1
	}

	a := newApp(&cfg, errOut)
	commands := allCommands(a)

	if *flagHelp {
		printUsage(out, globals, commands)

		return 0
	}

	rest := globals.Args()

	name := defaultCommand
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}

	cmd := findCommand(commands, name)
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		printUsage(errOut, globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	if sigCh != nil {
		go func() {
			select {
			case sig := <-sigCh:
				cancel(fmt.Errorf("%w: %v", errInterrupted, sig))
			case <-ctx.Done():
			}
		}()
	}

	o := NewIO(out, errOut)

	code := cmd.Run(ctx, o, rest)

	o.Finish()

	return code
}

var errInterrupted = errors.New("interrupted")

func allCommands(a *app) []*Command {
	return []*Command{
		UICmd(a),
		ListCmd(a),
		LaunchCmd(a),
		StatsCmd(a),
		PromptCmd(a),
		PrintConfigCmd(a),
	}
}

func findCommand(commands []*Command, name string) *Command {
	for _, c := range commands {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands []*Command) {
	fprintln(w, "shofi - application launcher")
	fprintln(w)
	fprintln(w, "Usage: shofi [global flags] [command] [args]")
	fprintln(w)
	fprintln(w, "Global flags:")
	fprintln(w, strings.TrimRight(globals.FlagUsages(), "\n"))

	if len(commands) == 0 {
		return
	}

	fprintln(w)
	fprintln(w, "Commands:")

	for _, c := range commands {
		fprintln(w, c.HelpLine())
	}

	fprintln(w)
	fprintln(w, "Run 'shofi <command> --help' for details. Without a command, ui runs.")
}
