package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func behaviourDocs(records ...DocRecord) *ModuleDocs {
	return &ModuleDocs{Format: FormatMarkdown, Doc: None(), Records: records}
}

func TestFallbackInheritsDocKeepsOwnSignature(t *testing.T) {
	store := fakeStore{
		"MyServer": markdownDocs(DocRecord{
			ID:         MemberID{Name: "foo", Arity: 1},
			Kind:       KindFunction,
			Signatures: []string{"foo(bar)"},
			Doc:        None(),
		}),
		"MyBehaviour": behaviourDocs(DocRecord{
			ID:         MemberID{Name: "foo", Arity: 1},
			Kind:       KindCallback,
			Signatures: []string{"foo(x)"},
			Doc:        Localized(map[string]any{"en": "T"}),
			Metadata:   map[string]any{"since": "1.0.0"},
		}),
	}
	p := New(store, &fakeRenderer{}, fakeResolver{"MyServer": {"MyBehaviour"}})

	entries, err := p.FunctionDocs("MyServer")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	text, ok := entries[0].Doc.Text()
	require.True(t, ok)
	assert.Equal(t, "T", text)
	assert.Equal(t, "MyBehaviour", entries[0].Metadata["implementing"])
	assert.Equal(t, "1.0.0", entries[0].Metadata["since"])
	assert.Equal(t, []string{"bar"}, entries[0].Args, "own signature wins over the behaviour's")
}

func TestFallbackTriggersForHiddenAndUntranslated(t *testing.T) {
	tests := []struct {
		name string
		doc  DocPayload
	}{
		{"none", None()},
		{"hidden", Hidden()},
		{"no en locale", Localized(map[string]any{"ja": "docs"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fakeStore{
				"M": markdownDocs(DocRecord{
					ID:   MemberID{Name: "handle", Arity: 2},
					Kind: KindFunction,
					Doc:  tt.doc,
				}),
				"B": behaviourDocs(DocRecord{
					ID:   MemberID{Name: "handle", Arity: 2},
					Kind: KindCallback,
					Doc:  Localized(map[string]any{"en": "inherited"}),
				}),
			}
			p := New(store, &fakeRenderer{}, fakeResolver{"M": {"B"}})

			entries, err := p.FunctionDocs("M")
			require.NoError(t, err)
			require.Len(t, entries, 1)

			text, ok := entries[0].Doc.Text()
			require.True(t, ok)
			assert.Equal(t, "inherited", text)
		})
	}
}

func TestSelfDocumentedNeverTouchedByFallback(t *testing.T) {
	store := fakeStore{
		"M": markdownDocs(DocRecord{
			ID:   MemberID{Name: "foo", Arity: 0},
			Kind: KindFunction,
			Doc:  Localized(map[string]any{"en": "own docs"}),
		}),
		"B": behaviourDocs(DocRecord{
			ID:   MemberID{Name: "foo", Arity: 0},
			Kind: KindCallback,
			Doc:  Localized(map[string]any{"en": "behaviour docs"}),
		}),
	}
	p := New(store, &fakeRenderer{}, fakeResolver{"M": {"B"}})

	entries, err := p.FunctionDocs("M")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	text, ok := entries[0].Doc.Text()
	require.True(t, ok)
	assert.Equal(t, "own docs", text)
	assert.NotContains(t, entries[0].Metadata, "implementing")
}

func TestResolverNotConsultedWhenAllDocumented(t *testing.T) {
	store := fakeStore{"M": markdownDocs(
		DocRecord{ID: MemberID{Name: "a", Arity: 0}, Kind: KindFunction, Doc: Localized(map[string]any{"en": "a docs"})},
		DocRecord{ID: MemberID{Name: "b", Arity: 1}, Kind: KindMacro, Doc: Localized(map[string]any{"en": "b docs"})},
	)}
	p := New(store, &fakeRenderer{}, panicResolver{t: t})

	_, err := p.FunctionDocs("M")
	require.NoError(t, err)
}

func TestNonFunctionCategoriesNeverConsultBehaviours(t *testing.T) {
	store := fakeStore{"M": markdownDocs(
		DocRecord{ID: MemberID{Name: "t", Arity: 0}, Kind: KindType, Doc: None()},
		DocRecord{ID: MemberID{Name: "init", Arity: 1}, Kind: KindCallback, Doc: None()},
	)}
	p := New(store, &fakeRenderer{}, panicResolver{t: t})

	_, err := p.ModuleDoc("M")
	require.NoError(t, err)

	types, err := p.TypeDocs("M")
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.True(t, types[0].Doc.IsAbsent())

	callbacks, err := p.CallbackDocs("M")
	require.NoError(t, err)
	require.Len(t, callbacks, 1)
	assert.True(t, callbacks[0].Doc.IsAbsent())
}

func TestFallbackFirstBehaviourWins(t *testing.T) {
	store := fakeStore{
		"M": markdownDocs(DocRecord{
			ID:   MemberID{Name: "foo", Arity: 1},
			Kind: KindFunction,
			Doc:  None(),
		}),
		"First": behaviourDocs(DocRecord{
			ID:   MemberID{Name: "foo", Arity: 1},
			Kind: KindCallback,
			Doc:  Localized(map[string]any{"en": "first"}),
		}),
		"Second": behaviourDocs(DocRecord{
			ID:   MemberID{Name: "foo", Arity: 1},
			Kind: KindCallback,
			Doc:  Localized(map[string]any{"en": "second"}),
		}),
	}
	p := New(store, &fakeRenderer{}, fakeResolver{"M": {"First", "Second"}})

	entries, err := p.FunctionDocs("M")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	text, ok := entries[0].Doc.Text()
	require.True(t, ok)
	assert.Equal(t, "first", text)
	assert.Equal(t, "First", entries[0].Metadata["implementing"])
}

func TestUndocumentedAfterFallbackStaysAbsent(t *testing.T) {
	store := fakeStore{
		"M": markdownDocs(DocRecord{
			ID:         MemberID{Name: "orphan", Arity: 0},
			Kind:       KindFunction,
			Anno:       int64(17),
			Signatures: []string{"orphan()"},
			Doc:        None(),
		}),
		"B": behaviourDocs(), // declares nothing useful
	}
	p := New(store, &fakeRenderer{}, fakeResolver{"M": {"B", "Undocumented"}})

	entries, err := p.FunctionDocs("M")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Doc.IsAbsent())
	assert.Equal(t, 17, entries[0].Line)
	assert.Equal(t, []string{}, entries[0].Args)
}

func TestFallbackFromErlangHTMLBehaviour(t *testing.T) {
	store := fakeStore{
		"M": markdownDocs(DocRecord{
			ID:   MemberID{Name: "init", Arity: 1},
			Kind: KindFunction,
			Doc:  None(),
		}),
		"gen_server": {
			Format: FormatErlangHTML,
			Doc:    None(),
			Records: []DocRecord{{
				ID:   MemberID{Name: "init", Arity: 1},
				Kind: KindCallback,
				Doc:  Localized(map[string]any{"en": "tree"}),
			}},
		},
	}
	renderer := &fakeRenderer{}
	p := New(store, renderer, fakeResolver{"M": {"gen_server"}})

	entries, err := p.FunctionDocs("M")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The inherited payload is rendered under the behaviour's format.
	text, ok := entries[0].Doc.Text()
	require.True(t, ok)
	assert.Equal(t, "rendered(tree)", text)
	assert.Equal(t, 1, renderer.calls)
}

func TestBehaviourCallbackDocs(t *testing.T) {
	store := fakeStore{
		"A": behaviourDocs(
			DocRecord{ID: MemberID{Name: "start", Arity: 2}, Kind: KindCallback, Signatures: []string{"start(type, args)"}, Doc: Localized(map[string]any{"en": "starts"})},
			DocRecord{ID: MemberID{Name: "helper", Arity: 0}, Kind: KindFunction, Doc: Localized(map[string]any{"en": "not a callback"})},
		),
		"B": behaviourDocs(
			DocRecord{ID: MemberID{Name: "start", Arity: 2}, Kind: KindCallback, Doc: Localized(map[string]any{"en": "shadowed"})},
			DocRecord{ID: MemberID{Name: "expand", Arity: 1}, Kind: KindMacroCallback, Doc: Localized(map[string]any{"en": "expands"})},
		),
	}
	p := New(store, &fakeRenderer{}, fakeResolver{"M": {"A", "Missing", "B"}})

	candidates, err := p.BehaviourCallbackDocs("M")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	start := candidates[MemberID{Name: "start", Arity: 2}]
	assert.Equal(t, "A", start.Behaviour)
	assert.Equal(t, "A", start.Metadata["implementing"])
	assert.Equal(t, []string{"start(type, args)"}, start.Signatures)

	expand := candidates[MemberID{Name: "expand", Arity: 1}]
	assert.Equal(t, "B", expand.Behaviour)
}

func TestFallbackCandidateMetadataDoesNotLeakIntoBehaviourRecord(t *testing.T) {
	meta := map[string]any{"since": "2.0"}
	store := fakeStore{
		"M": markdownDocs(DocRecord{
			ID:   MemberID{Name: "foo", Arity: 0},
			Kind: KindFunction,
			Doc:  None(),
		}),
		"B": behaviourDocs(DocRecord{
			ID:       MemberID{Name: "foo", Arity: 0},
			Kind:     KindCallback,
			Doc:      Localized(map[string]any{"en": "docs"}),
			Metadata: meta,
		}),
	}
	p := New(store, &fakeRenderer{}, fakeResolver{"M": {"B"}})

	_, err := p.FunctionDocs("M")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"since": "2.0"}, meta, "behaviour record metadata must stay untouched")
}
