package text

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteHTML writes the text of each page as an HTML document with one
// section per page and one paragraph per line. Empty lines are dropped.
func WriteHTML(w io.Writer, title string, pages []string) error {
	head := element(atom.Head,
		element(atom.Meta),
		element(atom.Title, textNode(title)),
	)
	head.FirstChild.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}

	body := element(atom.Body)
	for i, page := range pages {
		section := element(atom.Section)
		section.Attr = []html.Attribute{
			{Key: "class", Val: "page"},
			{Key: "id", Val: fmt.Sprintf("page-%d", i+1)},
		}
		for _, line := range strings.Split(page, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			section.AppendChild(element(atom.P, textNode(line)))
		}
		body.AppendChild(section)
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element(atom.Html, head, body))
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
