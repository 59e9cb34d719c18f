package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"keyraces-backend/lib/textutil"
)

// GetText flattens all text nodes under node into a single string.
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

// VisibleText flattens a selection's text with whitespace collapsed and
// non-printable runes removed, approximating what a reader sees.
func VisibleText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
		buffer.WriteByte(' ')
	}
	return textutil.CollapseWhitespace(removeNonPrintable(buffer.String()))
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || c == '\n' || c == '\t' {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors collects the href and cleaned display text of every anchor
// node in the selection.
func GetAnchors(sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	sel.Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		name := textutil.CollapseWhitespace(removeNonPrintable(a.Text()))
		anchors = append(anchors, Anchor{Name: name, Href: href})
	})
	return anchors
}

// NextInDocument walks forward from node in document order, skipping
// node's own subtree, and returns the first element matching any of the
// given tag names. Returns nil when the document ends first.
func NextInDocument(node *html.Node, tags ...string) *html.Node {
	for n := skipSubtree(node); n != nil; n = successor(n) {
		if n.Type != html.ElementNode {
			continue
		}
		for _, tag := range tags {
			if n.Data == tag {
				return n
			}
		}
	}
	return nil
}

func successor(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return skipSubtree(n)
}

func skipSubtree(n *html.Node) *html.Node {
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// ChildElements returns the direct element children of node with the
// given tag name.
func ChildElements(node *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}
