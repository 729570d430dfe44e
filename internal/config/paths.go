package config

import (
	"path/filepath"
	"strings"

	"github.com/calvinalkan/shofi/internal/registry"
)

// AppName names the per-user directories.
const AppName = "shofi"

// xdgDir returns $<key> if set and absolute, else $HOME/<fallback>.
// Returns "" when neither is available.
func xdgDir(env map[string]string, key, fallback string) string {
	if dir := env[key]; dir != "" && filepath.IsAbs(dir) {
		return dir
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, fallback)
	}

	return ""
}

// DataHome returns $XDG_DATA_HOME or ~/.local/share.
func DataHome(env map[string]string) string {
	return xdgDir(env, "XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateHome returns $XDG_STATE_HOME or ~/.local/state.
func StateHome(env map[string]string) string {
	return xdgDir(env, "XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome(env map[string]string) string {
	return xdgDir(env, "XDG_CONFIG_HOME", ".config")
}

// GlobalConfigPath returns the path of the global config file, "" when no
// home directory is known.
func GlobalConfigPath(env map[string]string) string {
	home := ConfigHome(env)
	if home == "" {
		return ""
	}

	return filepath.Join(home, AppName, "config.json")
}

// DefaultLocations returns the application directories to scan, highest
// priority first: the user's data home, the system data dirs, then the
// Flatpak and Snap export directories with the user Flatpak dir last.
func DefaultLocations(env map[string]string) []registry.Location {
	var locs []registry.Location

	dataHome := DataHome(env)
	if dataHome != "" {
		locs = append(locs, registry.Location{Dir: filepath.Join(dataHome, "applications")})
	}

	dataDirs := []string{"/usr/share", "/usr/local/share"}
	if v := env["XDG_DATA_DIRS"]; v != "" {
		dataDirs = nil

		for _, dir := range strings.Split(v, ":") {
			if dir != "" && filepath.IsAbs(dir) {
				dataDirs = append(dataDirs, dir)
			}
		}
	}

	for _, dir := range dataDirs {
		locs = append(locs, registry.Location{Dir: filepath.Join(dir, "applications")})
	}

	locs = append(locs,
		registry.Location{Dir: "/var/lib/flatpak/exports/share/applications", Channel: "Flatpak"},
		registry.Location{Dir: "/var/lib/snapd/desktop/applications", Channel: "Snap"},
	)

	if dataHome != "" {
		locs = append(locs, registry.Location{
			Dir:     filepath.Join(dataHome, "flatpak", "exports", "share", "applications"),
			Channel: "Flatpak",
		})
	}

	return dedupLocations(locs)
}

func dedupLocations(locs []registry.Location) []registry.Location {
	seen := make(map[string]bool, len(locs))
	out := locs[:0]

	for _, loc := range locs {
		dir := filepath.Clean(loc.Dir)
		if seen[dir] {
			continue
		}

		seen[dir] = true
		loc.Dir = dir
		out = append(out, loc)
	}

	return out
}

// DefaultTerminal returns the argv prefix for terminal applications:
// "$TERMINAL -e" when TERMINAL is set, else "xterm -e".
func DefaultTerminal(env map[string]string) []string {
	if term := env["TERMINAL"]; term != "" {
		return []string{term, "-e"}
	}

	return []string{"xterm", "-e"}
}

// expandHome replaces a leading "~/" with $HOME.
func expandHome(path string, env map[string]string) string {
	if path == "~" {
		return env["HOME"]
	}

	if rest, ok := strings.CutPrefix(path, "~/"); ok && env["HOME"] != "" {
		return filepath.Join(env["HOME"], rest)
	}

	return path
}
