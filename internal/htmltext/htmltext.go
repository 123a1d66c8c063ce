// Package htmltext turns product-page markup into a plain-text transcript.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extract returns the visible text of markup. Script, style and head content
// is dropped. Block elements end a line; list items and table cells end with
// a comma, so an ingredient list marked up as <li> items still tokenizes as a
// list. Markup that fails to parse is returned unchanged.
func Extract(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipped(n.DataAtom) {
				return
			}
			if n.DataAtom == atom.Br {
				buf.WriteByte('\n')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch {
			case itemLike(n.DataAtom):
				buf.WriteString(", ")
			case blockLike(n.DataAtom):
				buf.WriteByte('\n')
			}
		}
	}
	walk(doc)

	return tidy(buf.String())
}

func skipped(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head, atom.Svg:
		return true
	}
	return false
}

func itemLike(a atom.Atom) bool {
	switch a {
	case atom.Li, atom.Td, atom.Th, atom.Dd:
		return true
	}
	return false
}

func blockLike(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Ul, atom.Ol, atom.Dl,
		atom.Table, atom.Tr, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Header, atom.Footer, atom.Dt:
		return true
	}
	return false
}

// tidy collapses blank runs within lines and drops empty lines.
func tidy(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		line = strings.TrimSuffix(line, ",")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
