package launch

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/calvinalkan/shofi/internal/registry"
)

// droppedCodes are field codes for files and URLs. A launcher starts the
// application without documents, so they expand to nothing.
var droppedCodes = map[byte]bool{
	'f': true, 'F': true,
	'u': true, 'U': true,
	'd': true, 'D': true,
	'n': true, 'N': true,
	'v': true, 'm': true,
}

// Argv returns the argument vector for entry.
//
// The Exec line is tokenized with shell quoting rules and its field codes
// are expanded: file and URL codes are removed, %i becomes "--icon <Icon>"
// (or nothing without an icon), %c the application name without a
// channel suffix, %k the descriptor path and
// %% a literal percent sign. Terminal entries are prefixed with terminal.
func Argv(entry registry.Entry, terminal []string) ([]string, error) {
	tokens, err := shellquote.Split(entry.Exec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidExec, entry.ID, err)
	}

	var argv []string

	for _, tok := range tokens {
		argv = append(argv, expand(tok, entry)...)
	}

	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCommand, entry.ID)
	}

	if entry.Terminal && len(terminal) > 0 {
		argv = append(append([]string(nil), terminal...), argv...)
	}

	return argv, nil
}

// expand expands the field codes in one token. A token consisting of a
// single dropped code disappears entirely.
func expand(tok string, entry registry.Entry) []string {
	if len(tok) == 2 && tok[0] == '%' {
		switch c := tok[1]; {
		case droppedCodes[c]:
			return nil
		case c == 'i':
			if entry.Icon == "" {
				return nil
			}

			return []string{"--icon", entry.Icon}
		}
	}

	if !strings.Contains(tok, "%") {
		return []string{tok}
	}

	var b strings.Builder

	for i := 0; i < len(tok); i++ {
		if tok[i] != '%' || i+1 == len(tok) {
			b.WriteByte(tok[i])

			continue
		}

		i++

		switch c := tok[i]; {
		case c == '%':
			b.WriteByte('%')
		case c == 'c':
			b.WriteString(appName(entry))
		case c == 'k':
			b.WriteString(entry.File)
		case c == 'i':
			b.WriteString(entry.Icon)
		case droppedCodes[c]:
		default:
			// Unknown codes are deprecated or invalid; drop them.
		}
	}

	if b.Len() == 0 {
		return nil
	}

	return []string{b.String()}
}

func appName(entry registry.Entry) string {
	if entry.AppName != "" {
		return entry.AppName
	}

	return entry.Name
}
