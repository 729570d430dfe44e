package desktop

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"golang.org/x/sys/unix"
	"gopkg.in/ini.v1"

	"github.com/calvinalkan/shofi/internal/registry"
)

const (
	groupDesktopEntry = "Desktop Entry"
	typeApplication   = "Application"

	// valueGuard is prepended to values the ini reader would treat as
	// quoted (leading backtick or triple double quote). Desktop entries
	// have no such quoting.
	valueGuard = "\x00"
)

// ExecChecker reports whether a TryExec value names an executable.
type ExecChecker func(tryExec string) bool

// Parse parses the content of a .desktop file into a descriptor.
//
// id is the desktop file ID and path is where the file lives; both are
// copied into the descriptor. A file whose Type is not Application returns
// an error wrapping [ErrNotApplication]. check decides TryExec; nil uses
// [IsExecutable].
func Parse(data []byte, id, path string, check ExecChecker) (*registry.Descriptor, error) {
	if check == nil {
		check = IsExecutable
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreContinuation:      true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
		KeyValueDelimiters:      "=",
	}, guardQuotedValues(data))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	sec, err := file.GetSection(groupDesktopEntry)
	if err != nil {
		return nil, ErrNoDesktopGroup
	}

	if typ := sec.Key("Type").String(); typ != typeApplication {
		return nil, fmt.Errorf("%w: Type=%q", ErrNotApplication, typ)
	}

	desc := &registry.Descriptor{
		ID:          id,
		Name:        value(sec, "Name"),
		Description: value(sec, "Comment"),
		Exec:        value(sec, "Exec"),
		WorkDir:     value(sec, "Path"),
		Icon:        value(sec, "Icon"),
		File:        path,
	}

	if desc.Name == "" {
		return nil, ErrMissingName
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"NoDisplay", &desc.NoDisplay},
		{"Hidden", &desc.Hidden},
		{"Terminal", &desc.Terminal},
	}

	for _, b := range bools {
		v, err := boolKey(sec, b.key)
		if err != nil {
			return nil, err
		}

		*b.dst = v
	}

	dbus, err := boolKey(sec, "DBusActivatable")
	if err != nil {
		return nil, err
	}

	if desc.Exec == "" {
		if !dbus {
			return nil, ErrMissingExec
		}

		desc.Exec = "gapplication launch " + strings.TrimSuffix(id, ".desktop")
	}

	argv, err := shellquote.Split(desc.Exec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExec, err)
	}

	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrInvalidExec)
	}

	desc.Executable = argv[0]

	if tryExec := value(sec, "TryExec"); tryExec != "" && !check(tryExec) {
		desc.Unavailable = true
	}

	return desc, nil
}

// IsExecutable resolves name like a shell would: absolute paths are
// checked for the execute bit, bare names are looked up in $PATH.
func IsExecutable(name string) bool {
	if filepath.IsAbs(name) {
		return unix.Access(name, unix.X_OK) == nil
	}

	_, err := exec.LookPath(name)

	return err == nil
}

// value returns the unescaped value of key name.
func value(sec *ini.Section, name string) string {
	return unescape(strings.TrimPrefix(sec.Key(name).String(), valueGuard))
}

// guardQuotedValues marks values starting with a backtick or `"""` so the
// ini reader keeps them verbatim instead of parsing them as quoted.
func guardQuotedValues(data []byte) []byte {
	if !bytes.Contains(data, []byte("`")) && !bytes.Contains(data, []byte(`"""`)) {
		return data
	}

	lines := bytes.Split(data, []byte("\n"))

	for i, line := range lines {
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == 0 || trimmed[0] == '#' || trimmed[0] == '[' {
			continue
		}

		key, val, ok := bytes.Cut(line, []byte("="))
		if !ok {
			continue
		}

		val = bytes.TrimLeft(val, " \t")
		if !bytes.HasPrefix(val, []byte("`")) && !bytes.HasPrefix(val, []byte(`"""`)) {
			continue
		}

		guarded := make([]byte, 0, len(line)+len(valueGuard))
		guarded = append(guarded, key...)
		guarded = append(guarded, '=')
		guarded = append(guarded, valueGuard...)
		guarded = append(guarded, val...)
		lines[i] = guarded
	}

	return bytes.Join(lines, []byte("\n"))
}

func boolKey(sec *ini.Section, name string) (bool, error) {
	if !sec.HasKey(name) {
		return false, nil
	}

	v, err := sec.Key(name).Bool()
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidBool, name, sec.Key(name).String())
	}

	return v, nil
}

// unescape resolves the string escapes of the desktop entry format.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])

			continue
		}

		i++

		switch s[i] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}

	return b.String()
}
