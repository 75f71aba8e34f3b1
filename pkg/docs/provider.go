package docs

import (
	"errors"
	"fmt"
)

// Store fetches the raw EEP-48 documentation of a module. Fetch returns
// ErrUnavailable when the module cannot be found or carries no docs chunk;
// any other error is an I/O or decoding failure.
type Store interface {
	Fetch(module string) (*ModuleDocs, error)
}

// Renderer converts one application/erlang+html content term into canonical
// Markdown. It must be pure and total over terms produced by a conforming
// store.
type Renderer interface {
	Render(content any) string
}

// BehaviourResolver lists the behaviours a module declares itself as
// implementing, in declaration order. Unknown modules yield an empty list.
type BehaviourResolver interface {
	BehavioursOf(module string) []string
}

// Provider normalizes module documentation using a store, a markup renderer
// and a behaviour resolver. It holds no mutable state and is safe for
// concurrent use.
type Provider struct {
	store    Store
	renderer Renderer
	resolver BehaviourResolver
}

// New builds a Provider from its three collaborators.
func New(store Store, renderer Renderer, resolver BehaviourResolver) *Provider {
	return &Provider{store: store, renderer: renderer, resolver: resolver}
}

// Docs returns the requested category of a module's documentation.
// It returns ErrUnavailable when the module has no usable docs.
func (p *Provider) Docs(module string, cat Category) (*Documentation, error) {
	switch cat {
	case CategoryModule:
		entry, err := p.ModuleDoc(module)
		if err != nil {
			return nil, err
		}
		return &Documentation{Category: cat, Module: entry}, nil
	case CategoryFunctions:
		entries, err := p.FunctionDocs(module)
		if err != nil {
			return nil, err
		}
		return &Documentation{Category: cat, Entries: entries}, nil
	case CategoryTypes:
		entries, err := p.TypeDocs(module)
		if err != nil {
			return nil, err
		}
		return &Documentation{Category: cat, Entries: entries}, nil
	case CategoryCallbacks:
		entries, err := p.CallbackDocs(module)
		if err != nil {
			return nil, err
		}
		return &Documentation{Category: cat, Entries: entries}, nil
	default:
		return nil, fmt.Errorf("docs: unknown category %q", cat)
	}
}

// ModuleDoc returns the module-level documentation entry.
func (p *Provider) ModuleDoc(module string) (*ModuleEntry, error) {
	md, err := p.fetch(module)
	if err != nil {
		return nil, err
	}
	return &ModuleEntry{
		Line:     lineOf(md.Anno),
		Doc:      p.canonicalText(md.Doc, md.Format),
		Metadata: md.Metadata,
	}, nil
}

// TypeDocs returns normalized entries for the module's type definitions.
func (p *Provider) TypeDocs(module string) ([]Entry, error) {
	return p.kindDocs(module, KindType)
}

// CallbackDocs returns normalized entries for the module's callback and
// macro-callback specifications.
func (p *Provider) CallbackDocs(module string) ([]Entry, error) {
	return p.kindDocs(module, KindCallback, KindMacroCallback)
}

func (p *Provider) kindDocs(module string, kinds ...Kind) ([]Entry, error) {
	md, err := p.fetch(module)
	if err != nil {
		return nil, err
	}
	entries := []Entry{}
	for _, rec := range md.Records {
		if !matchesKind(rec.Kind, kinds) {
			continue
		}
		entries = append(entries, p.normalizeRecord(rec, md.Format))
	}
	return entries, nil
}

func matchesKind(k Kind, kinds []Kind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// fetch pulls a module's docs from the store and applies the format gate:
// a response in any unsupported format is rejected as a whole. Presenting
// mis-rendered text would be worse than presenting nothing.
func (p *Provider) fetch(module string) (*ModuleDocs, error) {
	md, err := p.store.Fetch(module)
	if err != nil {
		return nil, err
	}
	if !supportedFormat(md.Format) {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrUnavailable, md.Format)
	}
	return md, nil
}

func supportedFormat(format string) bool {
	return format == FormatMarkdown || format == FormatErlangHTML
}

// Unavailable reports whether an error from a Provider lookup means the
// module simply has no documentation, as opposed to a real failure.
func Unavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
