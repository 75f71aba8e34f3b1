// Package markup renders application/erlang+html documentation terms into
// canonical Markdown.
//
// The input is the decoded form of the erlang+html AST: text is a string,
// an element is a {tag, attributes, children} tuple and children are a list.
// Rendering is total: unknown tags contribute their children, malformed
// nodes contribute nothing, and no input returns an error.
package markup

import (
	"fmt"
	"strings"

	"github.com/smaximov/elixir-sense/internal/etf"
)

// Renderer converts erlang+html terms to Markdown. The zero value is ready
// to use; it satisfies the docs package's Renderer interface.
type Renderer struct{}

// Render returns the Markdown form of one content term.
func (r Renderer) Render(content any) string {
	return strings.Join(blocks(asNodes(content)), "\n\n")
}

// asNodes lifts a content term into a node list: the chunk may be a single
// element or already a list of them.
func asNodes(content any) []etf.Term {
	if list, ok := content.([]etf.Term); ok {
		return list
	}
	return []etf.Term{content}
}

var blockTags = map[etf.Atom]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "ul": true, "ol": true,
	"pre": true, "blockquote": true, "dl": true, "hr": true,
}

var headingLevel = map[etf.Atom]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// blocks renders a node list as a sequence of Markdown blocks. Consecutive
// inline nodes coalesce into one paragraph.
func blocks(nodes []etf.Term) []string {
	var out []string
	var run strings.Builder
	flush := func() {
		if text := strings.TrimSpace(run.String()); text != "" {
			out = append(out, text)
		}
		run.Reset()
	}

	for _, node := range nodes {
		elem, tag, ok := element(node)
		if !ok || !blockTags[tag] {
			run.WriteString(inline(node))
			continue
		}
		flush()
		out = append(out, block(elem, tag)...)
	}
	flush()
	return out
}

func block(elem etf.Tuple, tag etf.Atom) []string {
	children := childNodes(elem)
	switch tag {
	case "p":
		if text := strings.TrimSpace(inlineAll(children)); text != "" {
			return []string{text}
		}
		return nil
	case "div", "blockquote":
		inner := blocks(children)
		if tag == "blockquote" {
			return []string{prefixLines(strings.Join(inner, "\n\n"), "> ")}
		}
		return inner
	case "h1", "h2", "h3", "h4", "h5", "h6":
		heading := strings.Repeat("#", headingLevel[tag]) + " " + strings.TrimSpace(inlineAll(children))
		return []string{heading}
	case "pre":
		return []string{codeBlock(children)}
	case "ul", "ol":
		return []string{list(children, tag == "ol")}
	case "dl":
		return definitionList(children)
	case "hr":
		return []string{"---"}
	default:
		return blocks(children)
	}
}

// codeBlock fences the raw text of a pre element. The code language, when
// the inner code element declares a class, becomes the fence info string.
func codeBlock(children []etf.Term) string {
	lang := ""
	if len(children) == 1 {
		if elem, tag, ok := element(children[0]); ok && tag == "code" {
			lang = strings.TrimPrefix(attr(elem, "class"), "language-")
			children = childNodes(elem)
		}
	}
	code := strings.TrimRight(rawText(children), "\n")
	return "```" + lang + "\n" + code + "\n```"
}

func list(children []etf.Term, ordered bool) string {
	var items []string
	n := 0
	for _, child := range children {
		elem, tag, ok := element(child)
		if !ok || tag != "li" {
			continue
		}
		n++
		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", n)
		}
		// Continuation lines align under the item text.
		pad := strings.Repeat(" ", len(marker))
		lines := strings.Split(strings.Join(blocks(childNodes(elem)), "\n\n"), "\n")
		for i := 1; i < len(lines); i++ {
			if lines[i] != "" {
				lines[i] = pad + lines[i]
			}
		}
		items = append(items, marker+strings.Join(lines, "\n"))
	}
	return strings.Join(items, "\n")
}

func definitionList(children []etf.Term) []string {
	var out []string
	for _, child := range children {
		elem, tag, ok := element(child)
		if !ok {
			continue
		}
		switch tag {
		case "dt":
			out = append(out, "**"+strings.TrimSpace(inlineAll(childNodes(elem)))+"**")
		case "dd":
			body := strings.Join(blocks(childNodes(elem)), "\n\n")
			out = append(out, prefixLines(body, "  "))
		}
	}
	return out
}

// inline renders a node in inline position.
func inline(node etf.Term) string {
	switch v := node.(type) {
	case string:
		return v
	case []etf.Term:
		return inlineAll(v)
	case etf.Tuple:
		elem, tag, ok := element(v)
		if !ok {
			return ""
		}
		children := childNodes(elem)
		switch tag {
		case "code":
			return "`" + rawText(children) + "`"
		case "em", "i":
			return "*" + inlineAll(children) + "*"
		case "strong", "b":
			return "**" + inlineAll(children) + "**"
		case "a":
			text := inlineAll(children)
			if href := attr(elem, "href"); href != "" {
				return "[" + text + "](" + href + ")"
			}
			return text
		case "br":
			return "\n"
		default:
			return inlineAll(children)
		}
	default:
		return ""
	}
}

func inlineAll(nodes []etf.Term) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(inline(node))
	}
	return b.String()
}

// rawText concatenates every text node in a subtree without any Markdown
// decoration. Used for code content.
func rawText(nodes []etf.Term) string {
	var b strings.Builder
	for _, node := range nodes {
		switch v := node.(type) {
		case string:
			b.WriteString(v)
		case []etf.Term:
			b.WriteString(rawText(v))
		case etf.Tuple:
			if elem, _, ok := element(v); ok {
				b.WriteString(rawText(childNodes(elem)))
			}
		}
	}
	return b.String()
}

// element recognizes a {tag, attributes, children} tuple.
func element(node etf.Term) (etf.Tuple, etf.Atom, bool) {
	elem, ok := node.(etf.Tuple)
	if !ok || len(elem) != 3 {
		return nil, "", false
	}
	tag, ok := elem[0].(etf.Atom)
	if !ok {
		return nil, "", false
	}
	return elem, tag, true
}

func childNodes(elem etf.Tuple) []etf.Term {
	children, ok := elem[2].([]etf.Term)
	if !ok {
		return nil
	}
	return children
}

// attr looks up an attribute value on an element; attributes are
// {name, value} pairs.
func attr(elem etf.Tuple, name string) string {
	attrs, ok := elem[1].([]etf.Term)
	if !ok {
		return ""
	}
	for _, a := range attrs {
		pair, ok := a.(etf.Tuple)
		if !ok || len(pair) != 2 || pair[0] != etf.Atom(name) {
			continue
		}
		if value, ok := pair[1].(string); ok {
			return value
		}
	}
	return ""
}

// prefixLines prepends a prefix to every line of a block, keeping blank
// lines inside the block prefixed too so quote blocks stay contiguous.
func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			if prefix == "> " {
				lines[i] = ">"
			}
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
