package htmlutil

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// GetText returns the concatenated text of every text node under node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// TextFragments returns the trimmed, non-empty text nodes under node in
// document order.
func TextFragments(node *html.Node) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				out = append(out, text)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return out
}

// Node is a read-only view over an *html.Node. The zero value is a missing
// node and every method on it is safe to call.
type Node struct {
	raw *html.Node
}

func Wrap(n *html.Node) Node {
	return Node{raw: n}
}

func (n Node) Exists() bool {
	return n.raw != nil
}

func (n Node) IsElement() bool {
	return n.raw != nil && n.raw.Type == html.ElementNode
}

func (n Node) IsText() bool {
	return n.raw != nil && n.raw.Type == html.TextNode
}

func (n Node) IsComment() bool {
	return n.raw != nil && n.raw.Type == html.CommentNode
}

// Tag returns the element name, or "" for anything that isn't an element.
func (n Node) Tag() string {
	if !n.IsElement() {
		return ""
	}
	return n.raw.Data
}

// Text returns the trimmed text content of the node and all its descendants.
func (n Node) Text() string {
	if n.raw == nil {
		return ""
	}
	return strings.TrimSpace(GetText(n.raw))
}

func (n Node) Attr(key string) (string, bool) {
	if n.raw == nil {
		return "", false
	}
	for _, a := range n.raw.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Children returns every direct child, including text and comment nodes.
func (n Node) Children() []Node {
	if n.raw == nil {
		return nil
	}
	var out []Node
	for child := n.raw.FirstChild; child != nil; child = child.NextSibling {
		out = append(out, Node{raw: child})
	}
	return out
}

// PrevSibling returns the immediately preceding sibling of any node type.
func (n Node) PrevSibling() Node {
	if n.raw == nil {
		return Node{}
	}
	return Node{raw: n.raw.PrevSibling}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// ExpandSelfClosing rewrites `<x/>` into `<x></x>` for every non-void
// element. The html5 parser ignores the trailing slash and would otherwise
// nest the following siblings inside x. Everything else is copied as-is.
func ExpandSelfClosing(src []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(src))

	z := html.NewTokenizer(bytes.NewReader(src))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				// the tokenizer only fails on reader errors, keep the input
				return src
			}
			return out.Bytes()
		}
		if tt != html.SelfClosingTagToken {
			out.Write(z.Raw())
			continue
		}

		raw := bytes.Clone(z.Raw())
		tok := z.Token()
		if voidElements[tok.Data] {
			out.Write(raw)
			continue
		}
		tok.Type = html.StartTagToken
		out.WriteString(tok.String())
		out.WriteString("</")
		out.WriteString(tok.Data)
		out.WriteString(">")
	}
}
