package docs

import (
	"fmt"
	"strings"

	"github.com/smaximov/elixir-sense/internal/etf"
	"github.com/smaximov/elixir-sense/internal/sigparse"
)

// canonicalText collapses a documentation payload into canonical text under
// the given format tag. It is total over the three payload states; a payload
// outside them, or markdown content that is not a string, is a contract
// violation by the store and panics.
func (p *Provider) canonicalText(payload DocPayload, format string) DocText {
	switch payload.state {
	case payloadHidden:
		return HiddenText
	case payloadNone:
		return AbsentText
	case payloadLocalized:
		content, ok := payload.Locale("en")
		if !ok {
			return AbsentText
		}
		switch format {
		case FormatMarkdown:
			text, ok := content.(string)
			if !ok {
				panic(fmt.Sprintf("docs: text/markdown content is %T, not string", content))
			}
			return Present(text)
		case FormatErlangHTML:
			return Present(p.renderer.Render(content))
		default:
			// fetch gates formats before any payload reaches here.
			panic(fmt.Sprintf("docs: canonicalText called with unsupported format %q", format))
		}
	default:
		panic(fmt.Sprintf("docs: invalid documentation payload state %d", payload.state))
	}
}

// normalizeRecord converts one raw record into a canonical entry. Functions
// and macros additionally get their signature parsed into an argument list;
// parse failures degrade to an empty list, never an error.
func (p *Provider) normalizeRecord(rec DocRecord, format string) Entry {
	entry := Entry{
		ID:       rec.ID,
		Kind:     rec.Kind,
		Line:     lineOf(rec.Anno),
		Doc:      p.canonicalText(rec.Doc, format),
		Metadata: rec.Metadata,
	}
	if rec.Kind == KindFunction || rec.Kind == KindMacro {
		entry.Args = argsOf(rec)
	}
	return entry
}

// argsOf extracts the argument list from a record's signature fragments.
// The fragments are joined with a single space and parsed as a call
// expression; the result counts only when the parsed name matches the
// member's own name.
func argsOf(rec DocRecord) []string {
	call, err := sigparse.Parse(strings.Join(rec.Signatures, " "))
	if err != nil || call.Name != rec.ID.Name {
		return []string{}
	}
	return call.Args
}

// lineOf extracts a line number from the erl_anno shapes stores emit: a bare
// line, a {line, column} pair, or an annotation list carrying a location
// entry. Anything else yields 0, meaning unknown.
func lineOf(anno any) int {
	switch v := anno.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case etf.Tuple:
		if len(v) == 2 {
			if line, ok := v[0].(int64); ok {
				return int(line)
			}
		}
	case []etf.Term:
		for _, elem := range v {
			pair, ok := elem.(etf.Tuple)
			if !ok || len(pair) != 2 || pair[0] != etf.Atom("location") {
				continue
			}
			return lineOf(pair[1])
		}
	}
	return 0
}
