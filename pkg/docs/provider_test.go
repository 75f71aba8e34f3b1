package docs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaximov/elixir-sense/internal/etf"
)

// fakeStore serves canned module docs.
type fakeStore map[string]*ModuleDocs

func (s fakeStore) Fetch(module string) (*ModuleDocs, error) {
	md, ok := s[module]
	if !ok {
		return nil, ErrUnavailable
	}
	return md, nil
}

// fakeRenderer marks rendered content so tests can tell rendered text from
// pass-through text.
type fakeRenderer struct{ calls int }

func (r *fakeRenderer) Render(content any) string {
	r.calls++
	return fmt.Sprintf("rendered(%v)", content)
}

// fakeResolver returns canned behaviour lists.
type fakeResolver map[string][]string

func (r fakeResolver) BehavioursOf(module string) []string { return r[module] }

// panicResolver fails the test if the behaviour resolver is consulted.
type panicResolver struct{ t *testing.T }

func (r panicResolver) BehavioursOf(module string) []string {
	r.t.Fatalf("behaviour resolver consulted for %q", module)
	return nil
}

func markdownDocs(records ...DocRecord) *ModuleDocs {
	return &ModuleDocs{
		Format:  FormatMarkdown,
		Anno:    int64(1),
		Doc:     Localized(map[string]any{"en": "module doc"}),
		Records: records,
	}
}

func TestDocsUnsupportedFormatUnavailable(t *testing.T) {
	store := fakeStore{"MyModule": {Format: "text/asciidoc", Doc: None()}}
	p := New(store, &fakeRenderer{}, fakeResolver{})

	for _, cat := range []Category{CategoryModule, CategoryFunctions, CategoryTypes, CategoryCallbacks} {
		_, err := p.Docs("MyModule", cat)
		require.Error(t, err, "category %s", cat)
		assert.True(t, Unavailable(err), "category %s", cat)
	}
}

func TestDocsUnknownModuleUnavailable(t *testing.T) {
	p := New(fakeStore{}, &fakeRenderer{}, fakeResolver{})

	_, err := p.ModuleDoc("Nope")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDocsUnknownCategory(t *testing.T) {
	p := New(fakeStore{}, &fakeRenderer{}, fakeResolver{})

	_, err := p.Docs("MyModule", Category("everything"))
	require.Error(t, err)
	assert.False(t, Unavailable(err))
}

func TestModuleDocMarkdownPassthrough(t *testing.T) {
	store := fakeStore{"MyModule": {
		Format:   FormatMarkdown,
		Anno:     int64(3),
		Doc:      Localized(map[string]any{"en": "desc"}),
		Metadata: map[string]any{"authors": []string{"me"}},
	}}
	p := New(store, &fakeRenderer{}, fakeResolver{})

	entry, err := p.ModuleDoc("MyModule")
	require.NoError(t, err)

	text, ok := entry.Doc.Text()
	require.True(t, ok)
	assert.Equal(t, "desc", text)
	assert.Equal(t, 3, entry.Line)
	assert.Equal(t, map[string]any{"authors": []string{"me"}}, entry.Metadata)
}

func TestModuleDocErlangHTMLRendered(t *testing.T) {
	tree := etf.Tuple{etf.Atom("p"), []etf.Term{}, []etf.Term{"hello"}}
	store := fakeStore{"mod": {
		Format: FormatErlangHTML,
		Doc:    Localized(map[string]any{"en": tree}),
	}}
	renderer := &fakeRenderer{}
	p := New(store, renderer, fakeResolver{})

	entry, err := p.ModuleDoc("mod")
	require.NoError(t, err)

	text, ok := entry.Doc.Text()
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("rendered(%v)", tree), text)
	assert.Equal(t, 1, renderer.calls)
}

func TestCanonicalTextStates(t *testing.T) {
	p := New(fakeStore{}, &fakeRenderer{}, fakeResolver{})

	tests := []struct {
		name    string
		payload DocPayload
		format  string
		want    DocText
	}{
		{"markdown en", Localized(map[string]any{"en": "text"}), FormatMarkdown, Present("text")},
		{"hidden markdown", Hidden(), FormatMarkdown, HiddenText},
		{"hidden erlang+html", Hidden(), FormatErlangHTML, HiddenText},
		{"none", None(), FormatMarkdown, AbsentText},
		{"missing en locale", Localized(map[string]any{"de": "Text"}), FormatMarkdown, AbsentText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.canonicalText(tt.payload, tt.format))
		})
	}
}

func TestCanonicalTextContractViolationPanics(t *testing.T) {
	p := New(fakeStore{}, &fakeRenderer{}, fakeResolver{})

	assert.Panics(t, func() {
		p.canonicalText(Localized(map[string]any{"en": 42}), FormatMarkdown)
	})
	assert.Panics(t, func() {
		p.canonicalText(DocPayload{}, FormatMarkdown)
	})
}

func TestNormalizeRecordIdempotent(t *testing.T) {
	rec := DocRecord{
		ID:         MemberID{Name: "run", Arity: 2},
		Kind:       KindFunction,
		Anno:       int64(10),
		Signatures: []string{"run(job, opts)"},
		Doc:        Localized(map[string]any{"en": "Runs a job."}),
	}
	p := New(fakeStore{}, &fakeRenderer{}, fakeResolver{})

	first := p.normalizeRecord(rec, FormatMarkdown)
	second := p.normalizeRecord(rec, FormatMarkdown)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"job", "opts"}, first.Args)
}

func TestFunctionArgsDegradeGracefully(t *testing.T) {
	tests := []struct {
		name       string
		signatures []string
		want       []string
	}{
		{"parsed", []string{"insert(changeset, opts \\\\ [])"}, []string{"changeset", "opts \\\\ []"}},
		{"fragments joined", []string{"insert(a,", "b)"}, []string{"a", "b"}},
		{"name mismatch", []string{"other(a)"}, []string{}},
		{"unparsable", []string{"@spec insert ::"}, []string{}},
		{"no signature", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := DocRecord{
				ID:         MemberID{Name: "insert", Arity: 2},
				Kind:       KindFunction,
				Signatures: tt.signatures,
				Doc:        None(),
			}
			store := fakeStore{"Repo": markdownDocs(rec)}
			p := New(store, &fakeRenderer{}, fakeResolver{})

			entries, err := p.FunctionDocs("Repo")
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Args)
		})
	}
}

func TestTypeAndCallbackDocsCarryNoArgs(t *testing.T) {
	store := fakeStore{"M": markdownDocs(
		DocRecord{ID: MemberID{Name: "t", Arity: 0}, Kind: KindType, Anno: int64(4), Doc: Localized(map[string]any{"en": "a type"})},
		DocRecord{ID: MemberID{Name: "init", Arity: 1}, Kind: KindCallback, Anno: int64(9), Doc: None()},
		DocRecord{ID: MemberID{Name: "run", Arity: 0}, Kind: KindFunction, Doc: None()},
	)}
	p := New(store, &fakeRenderer{}, fakeResolver{})

	types, err := p.TypeDocs("M")
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, MemberID{Name: "t", Arity: 0}, types[0].ID)
	assert.Nil(t, types[0].Args)

	callbacks, err := p.CallbackDocs("M")
	require.NoError(t, err)
	require.Len(t, callbacks, 1)
	assert.Equal(t, 9, callbacks[0].Line)
	assert.True(t, callbacks[0].Doc.IsAbsent())
	assert.Nil(t, callbacks[0].Args)
}

func TestLineOfAnnoShapes(t *testing.T) {
	tests := []struct {
		name string
		anno any
		want int
	}{
		{"int64 line", int64(42), 42},
		{"int line", 7, 7},
		{"line column tuple", etf.Tuple{int64(12), int64(3)}, 12},
		{"annotation list", []etf.Term{etf.Tuple{etf.Atom("file"), "m.ex"}, etf.Tuple{etf.Atom("location"), int64(8)}}, 8},
		{"nested location tuple", []etf.Term{etf.Tuple{etf.Atom("location"), etf.Tuple{int64(5), int64(1)}}}, 5},
		{"unknown", "somewhere", 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lineOf(tt.anno))
		})
	}
}

func TestDocTextJSON(t *testing.T) {
	tests := []struct {
		name string
		text DocText
		want string
	}{
		{"present", Present("hi"), `"hi"`},
		{"hidden", HiddenText, "false"},
		{"absent", AbsentText, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.text.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, valid := range []string{"module", "functions", "types", "callbacks"} {
		cat, err := ParseCategory(valid)
		require.NoError(t, err)
		assert.Equal(t, Category(valid), cat)
	}

	_, err := ParseCategory("specs")
	assert.Error(t, err)
}

func TestStoreErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	p := New(errStore{err: boom}, &fakeRenderer{}, fakeResolver{})

	_, err := p.FunctionDocs("M")
	assert.ErrorIs(t, err, boom)
}

type errStore struct{ err error }

func (s errStore) Fetch(string) (*ModuleDocs, error) { return nil, s.err }
