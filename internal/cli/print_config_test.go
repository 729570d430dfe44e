package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/calvinalkan/shofi/internal/cli"
)

func Test_Print_Config_Shows_Effective_Values(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"data_dir": "`+filepath.Join(c.Env["XDG_DATA_HOME"], "shofi")+`"`)
	cli.AssertContains(t, stdout, `"log_level": "info"`)
	cli.AssertContains(t, stdout, `"dir": "`+c.AppsDir()+`"`)
	cli.AssertContains(t, stdout, `"xterm"`)
	cli.AssertContains(t, stdout, "# Sources:")
	cli.AssertContains(t, stdout, "#   global: "+c.ConfigPath())
}

func Test_Print_Config_Layers_Explicit_File_And_Flags(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	explicit := filepath.Join(c.Dir, "extra.json")
	c.WriteFile(explicit, `{
  // comments and trailing commas are fine
  "log_level": "debug",
  "terminal": ["foot", "-e"],
}`)

	stdout := c.MustRun("-c", explicit, "--data-dir", "/tmp/shofi-data", "print-config")

	cli.AssertContains(t, stdout, `"data_dir": "/tmp/shofi-data"`)
	cli.AssertContains(t, stdout, `"log_level": "debug"`)
	cli.AssertContains(t, stdout, `"foot"`)
	cli.AssertContains(t, stdout, "#   explicit: "+explicit)
}

func Test_Print_Config_Defaults_Only(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["XDG_CONFIG_HOME"] = filepath.Join(c.Dir, "empty-config")

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "#   (using defaults only)")
	cli.AssertNotContains(t, stdout, c.AppsDir())
}
