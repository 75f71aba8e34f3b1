// Package sigparse parses human-readable call signatures ("run(job, opts \\ [])")
// into a name and a flat argument list. It understands just enough of the
// Elixir/Erlang surface syntax to split arguments at the top level; each
// argument keeps its full source text, default values included.
package sigparse

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Call is a parsed call expression.
type Call struct {
	Name string
	Args []string
}

// ErrNotCall indicates the text is not a call expression the parser accepts.
var ErrNotCall = errors.New("sigparse: not a call expression")

// Parse splits a call signature into its name and top-level arguments.
// A bare identifier parses as a zero-argument call. Nested brackets and
// string/charlist literals are honoured when splitting on commas, so
// "insert(map, opts \\ [on_conflict: :raise])" yields exactly two arguments.
func Parse(text string) (Call, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Call{}, fmt.Errorf("%w: empty signature", ErrNotCall)
	}

	name, rest := scanName(s)
	if name == "" {
		return Call{}, fmt.Errorf("%w: %q", ErrNotCall, text)
	}
	if rest == "" {
		return Call{Name: name, Args: []string{}}, nil
	}
	if rest[0] != '(' {
		return Call{}, fmt.Errorf("%w: unexpected %q after name", ErrNotCall, rest[:1])
	}
	if !strings.HasSuffix(rest, ")") {
		return Call{}, fmt.Errorf("%w: unterminated argument list", ErrNotCall)
	}

	args, err := splitArgs(rest[1 : len(rest)-1])
	if err != nil {
		return Call{}, err
	}
	return Call{Name: name, Args: args}, nil
}

// scanName consumes a leading identifier, including the trailing ? or ! that
// Elixir permits, and returns it together with the unconsumed remainder.
func scanName(s string) (string, string) {
	var end int
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return "", s
			}
			end = i + len(string(r))
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			end = i + len(string(r))
			continue
		}
		if r == '?' || r == '!' {
			end = i + len(string(r))
		}
		break
	}
	return s[:end], s[end:]
}

// splitArgs splits the interior of an argument list on top-level commas.
func splitArgs(inner string) ([]string, error) {
	if strings.TrimSpace(inner) == "" {
		return []string{}, nil
	}

	var (
		args  []string
		depth int
		quote rune // active string delimiter, 0 when outside literals
		start int
	)

	runes := []rune(inner)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if quote != 0 {
			switch r {
			case '\\':
				i++ // skip the escaped rune
			case quote:
				quote = 0
			}
			continue
		}

		switch r {
		case '"', '\'':
			quote = r
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced brackets", ErrNotCall)
			}
		case ',':
			if depth == 0 {
				arg := strings.TrimSpace(string(runes[start:i]))
				if arg == "" {
					return nil, fmt.Errorf("%w: empty argument", ErrNotCall)
				}
				args = append(args, arg)
				start = i + 1
			}
		}
	}
	if depth != 0 || quote != 0 {
		return nil, fmt.Errorf("%w: unbalanced brackets", ErrNotCall)
	}

	last := strings.TrimSpace(string(runes[start:]))
	if last == "" {
		return nil, fmt.Errorf("%w: empty argument", ErrNotCall)
	}
	return append(args, last), nil
}
