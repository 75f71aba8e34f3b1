package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smaximov/elixir-sense/internal/etf"
)

func el(tag string, children ...etf.Term) etf.Tuple {
	return etf.Tuple{etf.Atom(tag), []etf.Term{}, children}
}

func elAttrs(tag string, attrs map[string]string, children ...etf.Term) etf.Tuple {
	var pairs []etf.Term
	for name, value := range attrs {
		pairs = append(pairs, etf.Tuple{etf.Atom(name), value})
	}
	return etf.Tuple{etf.Atom(tag), pairs, children}
}

func TestRender(t *testing.T) {
	var r Renderer

	tests := []struct {
		name    string
		content any
		want    string
	}{
		{
			"bare text",
			"just text",
			"just text",
		},
		{
			"paragraphs",
			[]etf.Term{el("p", "first"), el("p", "second")},
			"first\n\nsecond",
		},
		{
			"heading",
			[]etf.Term{el("h2", "Options"), el("p", "See below.")},
			"## Options\n\nSee below.",
		},
		{
			"inline markup",
			el("p", "use ", el("code", "start_link/2"), " with ", el("em", "care"), " and ", el("strong", "always"), " link"),
			"use `start_link/2` with *care* and **always** link",
		},
		{
			"link",
			el("p", "see ", elAttrs("a", map[string]string{"href": "https://hexdocs.pm"}, "the docs")),
			"see [the docs](https://hexdocs.pm)",
		},
		{
			"link without href",
			el("p", elAttrs("a", nil, "dangling")),
			"dangling",
		},
		{
			"fenced code with language",
			el("pre", elAttrs("code", map[string]string{"class": "language-elixir"}, "IO.puts(:hi)\n")),
			"```elixir\nIO.puts(:hi)\n```",
		},
		{
			"plain pre",
			el("pre", "a\nb"),
			"```\na\nb\n```",
		},
		{
			"unordered list",
			el("ul", el("li", "one"), el("li", "two")),
			"- one\n- two",
		},
		{
			"ordered list",
			el("ol", el("li", "first"), el("li", "second")),
			"1. first\n2. second",
		},
		{
			"nested list",
			el("ul", el("li", el("p", "outer"), el("ul", el("li", "inner")))),
			"- outer\n\n  - inner",
		},
		{
			"blockquote",
			el("blockquote", el("p", "be warned")),
			"> be warned",
		},
		{
			"definition list",
			el("dl", el("dt", "timeout"), el("dd", el("p", "how long to wait"))),
			"**timeout**\n\n  how long to wait",
		},
		{
			"horizontal rule",
			[]etf.Term{el("p", "above"), el("hr"), el("p", "below")},
			"above\n\n---\n\nbelow",
		},
		{
			"unknown tags render children",
			el("marquee", el("p", "still readable")),
			"still readable",
		},
		{
			"unknown inline tag",
			el("p", el("kbd", "Ctrl"), " to quit"),
			"Ctrl to quit",
		},
		{
			"empty paragraph dropped",
			[]etf.Term{el("p"), el("p", "kept")},
			"kept",
		},
		{
			"malformed node ignored",
			[]etf.Term{etf.Tuple{int64(1)}, el("p", "fine")},
			"fine",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Render(tt.content))
		})
	}
}

func TestRenderNeverPanics(t *testing.T) {
	var r Renderer

	inputs := []any{
		nil,
		int64(42),
		etf.Tuple{},
		etf.Tuple{etf.Atom("p")},
		etf.Tuple{etf.Atom("a"), "not attrs", "not children"},
		[]etf.Term{[]etf.Term{[]etf.Term{"deep"}}},
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { r.Render(input) })
	}
}
