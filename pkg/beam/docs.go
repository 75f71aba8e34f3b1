package beam

import (
	"fmt"
	"strings"

	"github.com/smaximov/elixir-sense/internal/etf"
	"github.com/smaximov/elixir-sense/pkg/docs"
)

// DecodeDocs decodes an EEP-48 "Docs" chunk payload into the raw shape the
// docs package consumes. The chunk carries one term:
//
//	{docs_v1, Anno, Language, Format, ModuleDoc, Metadata, Docs}
//
// with Docs a list of {{Kind, Name, Arity}, Anno, Signatures, Doc, Metadata}
// entries. Entries with unrecognized kinds are skipped so chunks written by
// future producers still decode.
func DecodeDocs(chunk []byte) (*docs.ModuleDocs, error) {
	term, err := etf.Decode(chunk)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrMalformedChunk, DocsChunk, err)
	}

	root, ok := term.(etf.Tuple)
	if !ok || len(root) != 7 || root[0] != etf.Atom("docs_v1") {
		return nil, fmt.Errorf("%w %s: not a docs_v1 term", ErrMalformedChunk, DocsChunk)
	}

	format, ok := formatTag(root[3])
	if !ok {
		return nil, fmt.Errorf("%w %s: bad format tag %v", ErrMalformedChunk, DocsChunk, root[3])
	}
	moduleDoc, err := decodePayload(root[4])
	if err != nil {
		return nil, err
	}
	entries, ok := root[6].([]etf.Term)
	if !ok {
		return nil, fmt.Errorf("%w %s: docs entries are not a list", ErrMalformedChunk, DocsChunk)
	}

	md := &docs.ModuleDocs{
		Format:   format,
		Anno:     root[1],
		Doc:      moduleDoc,
		Metadata: decodeMetadata(root[5]),
	}
	for _, entry := range entries {
		rec, ok, err := decodeRecord(entry)
		if err != nil {
			return nil, err
		}
		if ok {
			md.Records = append(md.Records, rec)
		}
	}
	return md, nil
}

var knownKinds = map[etf.Atom]docs.Kind{
	"function":      docs.KindFunction,
	"macro":         docs.KindMacro,
	"callback":      docs.KindCallback,
	"macrocallback": docs.KindMacroCallback,
	"type":          docs.KindType,
}

func decodeRecord(term etf.Term) (docs.DocRecord, bool, error) {
	entry, ok := term.(etf.Tuple)
	if !ok || len(entry) != 5 {
		return docs.DocRecord{}, false, fmt.Errorf("%w %s: bad docs entry %v", ErrMalformedChunk, DocsChunk, term)
	}
	key, ok := entry[0].(etf.Tuple)
	if !ok || len(key) != 3 {
		return docs.DocRecord{}, false, fmt.Errorf("%w %s: bad entry key %v", ErrMalformedChunk, DocsChunk, entry[0])
	}

	kindAtom, _ := key[0].(etf.Atom)
	kind, known := knownKinds[kindAtom]
	if !known {
		return docs.DocRecord{}, false, nil
	}
	name, ok := key[1].(etf.Atom)
	if !ok {
		return docs.DocRecord{}, false, fmt.Errorf("%w %s: entry name is not an atom", ErrMalformedChunk, DocsChunk)
	}
	arity, ok := key[2].(int64)
	if !ok || arity < 0 {
		return docs.DocRecord{}, false, fmt.Errorf("%w %s: bad arity for %s", ErrMalformedChunk, DocsChunk, name)
	}

	signatures, err := decodeSignatures(entry[2])
	if err != nil {
		return docs.DocRecord{}, false, fmt.Errorf("%w %s: signatures of %s/%d: %w", ErrMalformedChunk, DocsChunk, name, arity, err)
	}
	payload, err := decodePayload(entry[3])
	if err != nil {
		return docs.DocRecord{}, false, err
	}

	return docs.DocRecord{
		ID:         docs.MemberID{Name: string(name), Arity: int(arity)},
		Kind:       kind,
		Anno:       entry[1],
		Signatures: signatures,
		Doc:        payload,
		Metadata:   decodeMetadata(entry[4]),
	}, true, nil
}

// decodePayload maps the three EEP-48 doc shapes onto docs.DocPayload:
// the atoms hidden and none, or a map of locale binaries to content.
func decodePayload(term etf.Term) (docs.DocPayload, error) {
	switch v := term.(type) {
	case etf.Atom:
		switch v {
		case "hidden":
			return docs.Hidden(), nil
		case "none":
			return docs.None(), nil
		}
	case map[etf.Term]etf.Term:
		locales := make(map[string]any, len(v))
		for key, content := range v {
			locale, ok := key.(string)
			if !ok {
				return docs.DocPayload{}, fmt.Errorf("%w %s: locale key %v is not a binary", ErrMalformedChunk, DocsChunk, key)
			}
			locales[locale] = content
		}
		return docs.Localized(locales), nil
	}
	return docs.DocPayload{}, fmt.Errorf("%w %s: unrecognized doc payload %v", ErrMalformedChunk, DocsChunk, term)
}

func decodeSignatures(term etf.Term) ([]string, error) {
	list, ok := term.([]etf.Term)
	if !ok {
		return nil, fmt.Errorf("not a list")
	}
	signatures := make([]string, 0, len(list))
	for _, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("element %v is not a binary", elem)
		}
		signatures = append(signatures, s)
	}
	return signatures, nil
}

// decodeMetadata converts the open metadata map, stringifying atom and
// binary keys. A payload that is not a map decodes as empty rather than
// failing the whole chunk.
func decodeMetadata(term etf.Term) map[string]any {
	m, ok := term.(map[etf.Term]etf.Term)
	if !ok {
		return map[string]any{}
	}
	meta := make(map[string]any, len(m))
	for key, value := range m {
		switch k := key.(type) {
		case etf.Atom:
			meta[string(k)] = value
		case string:
			meta[k] = value
		default:
			meta[fmt.Sprint(k)] = value
		}
	}
	return meta
}

func formatTag(term etf.Term) (string, bool) {
	switch v := term.(type) {
	case string:
		return v, true
	case etf.Atom:
		return string(v), true
	default:
		return "", false
	}
}

// moduleName strips the Elixir namespace prefix from an atom so callers deal
// in the names they write in source: 'Elixir.GenServer' becomes "GenServer",
// plain Erlang atoms pass through.
func moduleName(atom etf.Atom) string {
	return strings.TrimPrefix(string(atom), "Elixir.")
}
