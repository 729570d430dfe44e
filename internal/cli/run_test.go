package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/shofi/internal/cli"
)

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("--invalid-flag", "list")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")

	// Should show valid global options
	cli.AssertContains(t, stderr, "Global flags:")
	cli.AssertContains(t, stderr, "--help")
	cli.AssertContains(t, stderr, "--config")
	cli.AssertContains(t, stderr, "--data-dir")
	cli.AssertContains(t, stderr, "--log-level")
}

func Test_Empty_Data_Dir_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--data-dir=", "list")

	cli.AssertContains(t, stderr, "data_dir cannot be empty")
	cli.AssertContains(t, stderr, "Global flags:")
}

func Test_Invalid_Log_Level_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--log-level", "loud", "stats")

	cli.AssertContains(t, stderr, "invalid log_level")
	cli.AssertContains(t, stderr, `"loud"`)
}

func Test_Missing_Explicit_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("-c", filepath.Join(c.Dir, "nope.json"), "list")

	cli.AssertContains(t, stderr, "config file not found")
}

func Test_Invalid_Global_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteConfig(`{"log_level": `)

	stderr := c.MustFail("list")

	cli.AssertContains(t, stderr, "invalid config file")
	cli.AssertContains(t, stderr, c.ConfigPath())
}

func Test_Main_Help_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		args []string
	}{
		{name: "long flag", args: []string{"--help"}},
		{name: "short flag", args: []string{"-h"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stdout, stderr, exitCode := c.Run(tt.args...)

			if got, want := exitCode, 0; got != want {
				t.Errorf("exitCode=%d, want=%d", got, want)
			}

			if got, want := stderr, ""; got != want {
				t.Errorf("stderr=%q, want=%q", got, want)
			}

			cli.AssertContains(t, stdout, "shofi - application launcher")
			cli.AssertContains(t, stdout, "Global flags:")
			cli.AssertContains(t, stdout, "Commands:")
			cli.AssertContains(t, stdout, "launch <id>")
			cli.AssertContains(t, stdout, "list [query]")
			cli.AssertContains(t, stdout, "print-config")
		})
	}
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("frobnicate")

	cli.AssertContains(t, stderr, "unknown command: frobnicate")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Command_Help_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"ui", "list", "launch", "stats", "prompt", "print-config"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stdout := c.MustRun(name, "--help")

			cli.AssertContains(t, stdout, "Usage: shofi "+name)
		})
	}
}

func Test_Invalid_Command_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("list", "--bogus")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag: --bogus")
	cli.AssertContains(t, stdout, "Usage: shofi list")
}

func Test_Run_With_Signal_Channel_Exits_Normally(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDesktop("a.desktop", "Alpha", "", "true")

	sigCh := make(chan os.Signal, 1)

	var stdout, stderr bytes.Buffer

	exitCode := cli.Run(nil, &stdout, &stderr, []string{"shofi", "list"}, c.Env, sigCh)

	if got, want := exitCode, 0; got != want {
		t.Errorf("exitCode=%d, want=%d (stderr=%s)", got, want, stderr.String())
	}

	cli.AssertContains(t, stdout.String(), "a.desktop [0] - Alpha")
}
