// Package docs normalizes the documentation of a compiled BEAM module into a
// single canonical, markup-agnostic shape.
//
// Raw records come from an EEP-48 documentation store. The package collapses
// the supported markup encodings into canonical Markdown text, extracts
// per-member entries (functions, macros, types, callbacks), and resolves
// documentation for functions that implement a behaviour but carry no docs of
// their own by falling back to the behaviour's callback docs while keeping the
// function's own signature.
package docs

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Supported documentation formats. Any other format tag makes the whole
// module unavailable rather than risking mis-rendered text.
const (
	FormatMarkdown   = "text/markdown"
	FormatErlangHTML = "application/erlang+html"
)

// ErrUnavailable is returned when a module has no usable documentation:
// unknown module, compiled without a docs chunk, or an unsupported format.
var ErrUnavailable = errors.New("docs: documentation not available")

// MemberID identifies a function, macro, callback or type within a module.
type MemberID struct {
	Name  string `json:"name"`
	Arity int    `json:"arity"`
}

// String renders the conventional name/arity form, e.g. "map/2".
func (id MemberID) String() string {
	return fmt.Sprintf("%s/%d", id.Name, id.Arity)
}

// Kind tags a documentation record. The set is closed; stores may emit
// additional kinds, which readers skip.
type Kind string

const (
	KindFunction      Kind = "function"
	KindMacro         Kind = "macro"
	KindCallback      Kind = "callback"
	KindMacroCallback Kind = "macrocallback"
	KindType          Kind = "type"
)

// Category selects which slice of a module's documentation a caller wants.
type Category string

const (
	CategoryModule    Category = "module"
	CategoryFunctions Category = "functions"
	CategoryTypes     Category = "types"
	CategoryCallbacks Category = "callbacks"
)

// ParseCategory maps a user-supplied category name onto a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryModule, CategoryFunctions, CategoryTypes, CategoryCallbacks:
		return Category(s), nil
	default:
		return "", fmt.Errorf("docs: unknown category %q", s)
	}
}

type payloadState int

const (
	payloadLocalized payloadState = iota + 1
	payloadHidden
	payloadNone
)

// DocPayload is the raw documentation of one member as stored: a mapping from
// locale to content, the explicit-hidden marker, or the no-documentation
// marker. The zero value is invalid; use the constructors.
type DocPayload struct {
	state   payloadState
	locales map[string]any
}

// Localized builds a payload carrying per-locale content. For text/markdown
// the content values are strings; for application/erlang+html they are the
// decoded markup terms.
func Localized(locales map[string]any) DocPayload {
	return DocPayload{state: payloadLocalized, locales: locales}
}

// Hidden builds the payload marking documentation as intentionally hidden.
func Hidden() DocPayload { return DocPayload{state: payloadHidden} }

// None builds the payload marking documentation as never written.
func None() DocPayload { return DocPayload{state: payloadNone} }

// IsHidden reports whether the author suppressed this documentation.
func (p DocPayload) IsHidden() bool { return p.state == payloadHidden }

// IsNone reports whether no documentation was provided.
func (p DocPayload) IsNone() bool { return p.state == payloadNone }

// Locale returns the content stored under a locale code, if any.
func (p DocPayload) Locale(code string) (any, bool) {
	if p.state != payloadLocalized {
		return nil, false
	}
	v, ok := p.locales[code]
	return v, ok
}

type textState int

const (
	textAbsent textState = iota
	textPresent
	textHidden
)

// DocText is canonical documentation text in one of exactly three states:
// present, explicitly hidden, or absent. It marshals to a JSON string,
// false, or null respectively, matching the EEP-48 convention.
type DocText struct {
	state textState
	text  string
}

// Present wraps canonical text.
func Present(text string) DocText { return DocText{state: textPresent, text: text} }

// HiddenText is the canonical form of explicitly hidden documentation.
var HiddenText = DocText{state: textHidden}

// AbsentText is the canonical form of missing documentation.
var AbsentText = DocText{}

// Text returns the canonical text and whether any is present.
func (t DocText) Text() (string, bool) { return t.text, t.state == textPresent }

// IsHidden reports the explicit-hidden state.
func (t DocText) IsHidden() bool { return t.state == textHidden }

// IsAbsent reports the no-documentation state.
func (t DocText) IsAbsent() bool { return t.state == textAbsent }

// MarshalJSON encodes present text as a string, hidden as false and absent
// as null.
func (t DocText) MarshalJSON() ([]byte, error) {
	switch t.state {
	case textPresent:
		return json.Marshal(t.text)
	case textHidden:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (t DocText) MarshalYAML() (any, error) {
	switch t.state {
	case textPresent:
		return t.text, nil
	case textHidden:
		return false, nil
	default:
		return nil, nil
	}
}

// DocRecord is one raw per-member record as returned by the store.
type DocRecord struct {
	ID         MemberID
	Kind       Kind
	Anno       any // store position; see lineOf for the accepted shapes
	Signatures []string
	Doc        DocPayload
	Metadata   map[string]any
}

// ModuleDocs is the store's full response for one module.
type ModuleDocs struct {
	Format   string
	Anno     any
	Doc      DocPayload
	Metadata map[string]any
	Records  []DocRecord
}

// Entry is the normalized documentation of one member.
type Entry struct {
	ID       MemberID       `json:"id"`
	Kind     Kind           `json:"kind"`
	Line     int            `json:"line,omitempty"`
	Doc      DocText        `json:"doc"`
	Args     []string       `json:"args,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ModuleEntry is the normalized module-level documentation.
type ModuleEntry struct {
	Line     int            `json:"line,omitempty"`
	Doc      DocText        `json:"doc"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CallbackDoc is one behaviour callback's documentation, annotated with the
// behaviour that supplied it. Format is the behaviour module's own format
// tag; its payload is rendered under that tag, not the implementing
// module's.
type CallbackDoc struct {
	Signatures []string
	Doc        DocPayload
	Metadata   map[string]any
	Behaviour  string
	Format     string
}

// Documentation is the result of a category query.
type Documentation struct {
	Category Category     `json:"category"`
	Module   *ModuleEntry `json:"module,omitempty"`
	Entries  []Entry      `json:"entries,omitempty"`
}
