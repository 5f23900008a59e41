package extract

import (
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/utils"
)

// DefaultMaxChars is the truncation budget for webpage reads.
const DefaultMaxChars = 3000

// Text is plain text derived from one HTML document.
type Text struct {
	SourceURL string `json:"source_url,omitempty" jsonschema:"description=URL the text was extracted from"`
	Text      string `json:"text" jsonschema:"description=Visible text of the page"`
	Truncated bool   `json:"truncated" jsonschema:"description=True when the text was cut at the character budget"`
}

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Canvas:   true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
}

// block elements are separated from their neighbours by whitespace so that
// <p>a</p><p>b</p> reads "a b" and not "ab".
var block = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Td: true, atom.Th: true, atom.Title: true,
	atom.Tr: true, atom.Ul: true, atom.Body: true, atom.Head: true, atom.Option: true,
}

// FromString extracts visible text from doc and truncates it to maxChars
// runes. A non-positive maxChars uses [DefaultMaxChars].
func FromString(doc string, maxChars int) (Text, error) {
	if strings.TrimSpace(doc) == "" {
		return Text{}, nil
	}
	return FromReader(strings.NewReader(doc), maxChars)
}

// FromReader is FromString for a stream. A stream that cannot be read or
// parsed yields an empty Text and a parse_error.
func FromReader(r io.Reader, maxChars int) (Text, error) {
	root, err := html.Parse(r)
	if err != nil {
		return Text{}, result.NewError(result.KindParse, fmt.Errorf("failed to parse HTML: %w", err))
	}

	var sb strings.Builder
	collect(root, &sb)

	return Bound(utils.CollapseWhitespace(sb.String()), maxChars), nil
}

// Markdown converts doc to Markdown and truncates it to maxChars runes.
// Script and style content is dropped by the converter.
func Markdown(doc string, maxChars int) (Text, error) {
	if strings.TrimSpace(doc) == "" {
		return Text{}, nil
	}
	md, err := htmltomarkdown.ConvertString(doc)
	if err != nil {
		return Text{}, result.NewError(result.KindParse, fmt.Errorf("failed to convert HTML to Markdown: %w", err))
	}
	return Bound(strings.TrimSpace(md), maxChars), nil
}

// Bound applies the truncation budget to already-extracted text.
func Bound(text string, maxChars int) Text {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if !utils.ExceedsRunes(text, maxChars) {
		return Text{Text: text}
	}
	return Text{Text: utils.TruncateRunes(text, maxChars), Truncated: true}
}

func collect(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skipped[n.DataAtom] || hidden(n) {
			return
		}
	}

	isBlock := n.Type == html.ElementNode && block[n.DataAtom]
	if isBlock {
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, sb)
	}
	if isBlock {
		sb.WriteByte(' ')
	}
}

// hidden reports elements the browser would not render.
func hidden(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch attr.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(strings.TrimSpace(attr.Val), "true") {
				return true
			}
		case "style":
			style := strings.ToLower(strings.ReplaceAll(attr.Val, " ", ""))
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}
