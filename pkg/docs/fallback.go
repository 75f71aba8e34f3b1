package docs

import "errors"

// FunctionDocs returns normalized entries for the module's functions and
// macros, with behaviour fallback applied: a member without usable docs of
// its own inherits the docs of the matching callback from the first
// behaviour that defines it, while keeping its own signature.
func (p *Provider) FunctionDocs(module string) ([]Entry, error) {
	md, err := p.fetch(module)
	if err != nil {
		return nil, err
	}

	var records []DocRecord
	for _, rec := range md.Records {
		if rec.Kind == KindFunction || rec.Kind == KindMacro {
			records = append(records, rec)
		}
	}

	need := make(map[MemberID]bool)
	for _, rec := range records {
		if needsFallback(rec.Doc) {
			need[rec.ID] = true
		}
	}

	// Behaviour fallback formats are tracked per record: an inherited
	// payload is rendered under the behaviour's own format tag.
	formats := make([]string, len(records))
	for i := range formats {
		formats[i] = md.Format
	}

	// Behaviours are only consulted when at least one member needs them.
	if len(need) > 0 {
		candidates, err := p.BehaviourCallbackDocs(module)
		if err != nil {
			return nil, err
		}
		for i := range records {
			if !need[records[i].ID] {
				continue
			}
			cb, ok := candidates[records[i].ID]
			if !ok {
				continue
			}
			// The member's own Signatures stay in place: its declared
			// arguments take precedence over the behaviour's.
			records[i].Doc = cb.Doc
			records[i].Metadata = cb.Metadata
			formats[i] = cb.Format
		}
	}

	entries := make([]Entry, len(records))
	for i, rec := range records {
		entries[i] = p.normalizeRecord(rec, formats[i])
	}
	return entries, nil
}

// needsFallback reports whether a payload carries no usable documentation:
// hidden, none, or localized without an "en" entry.
func needsFallback(p DocPayload) bool {
	if p.IsHidden() || p.IsNone() {
		return true
	}
	_, ok := p.Locale("en")
	return !ok
}

// BehaviourCallbackDocs collects, per member identity, the callback docs of
// every behaviour the module declares. When several behaviours define the
// same callback, the first one in declaration order wins. Behaviours without
// docs, or with an unsupported format, are skipped.
func (p *Provider) BehaviourCallbackDocs(module string) (map[MemberID]CallbackDoc, error) {
	out := make(map[MemberID]CallbackDoc)
	for _, behaviour := range p.resolver.BehavioursOf(module) {
		md, err := p.store.Fetch(behaviour)
		if errors.Is(err, ErrUnavailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !supportedFormat(md.Format) {
			continue
		}
		for _, rec := range md.Records {
			if rec.Kind != KindCallback && rec.Kind != KindMacroCallback {
				continue
			}
			if _, taken := out[rec.ID]; taken {
				continue
			}
			meta := make(map[string]any, len(rec.Metadata)+1)
			for k, v := range rec.Metadata {
				meta[k] = v
			}
			meta["implementing"] = behaviour
			out[rec.ID] = CallbackDoc{
				Signatures: rec.Signatures,
				Doc:        rec.Doc,
				Metadata:   meta,
				Behaviour:  behaviour,
				Format:     md.Format,
			}
		}
	}
	return out, nil
}
