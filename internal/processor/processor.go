// Package processor turns scraped HTML fragments into catalog text.
package processor

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// Processor converts detail page markup.
type Processor struct {
	// TitleSeparators split a <title> such as "ChatGPT - Directory" so only
	// the leading part is kept as a tool name.
	TitleSeparators []string
}

// New creates a processor with the common title separators.
func New() *Processor {
	return &Processor{TitleSeparators: []string{" | ", " - ", " – "}}
}

// Markdown converts an HTML fragment to markdown with runs of blank lines
// collapsed.
func (p *Processor) Markdown(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", err
	}

	md = blankLines.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md), nil
}

// Title returns the document <title> with any site suffix removed.
func (p *Processor) Title(document string) string {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return ""
	}

	n := find(root, func(n *html.Node) bool { return n.DataAtom == atom.Title })
	if n == nil || n.FirstChild == nil {
		return ""
	}

	title := strings.TrimSpace(n.FirstChild.Data)
	for _, sep := range p.TitleSeparators {
		if head, _, ok := strings.Cut(title, sep); ok && strings.TrimSpace(head) != "" {
			title = strings.TrimSpace(head)
		}
	}
	return title
}

// MetaDescription returns the content of <meta name="description">, or of
// og:description when the former is absent.
func (p *Processor) MetaDescription(document string) string {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return ""
	}

	var og string
	var desc string
	find(root, func(n *html.Node) bool {
		if n.DataAtom != atom.Meta {
			return false
		}
		switch strings.ToLower(attr(n, "name") + attr(n, "property")) {
		case "description":
			desc = attr(n, "content")
		case "og:description":
			og = attr(n, "content")
		}
		return desc != ""
	})

	if desc != "" {
		return strings.TrimSpace(desc)
	}
	return strings.TrimSpace(og)
}

// find walks the tree depth-first and returns the first element match
// accepts.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
