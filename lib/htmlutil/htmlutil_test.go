package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestVisibleText(t *testing.T) {
	doc := parse(t, `<p>  Hello <b>big</b>
		world </p>`)
	require.Equal(t, "Hello big world", VisibleText(doc.Find("p")))
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, `<div>
		<a href="https://example.org"> Example  Site </a>
		<a>no href</a>
	</div>`)

	anchors := GetAnchors(doc.Find("a"))
	require.Len(t, anchors, 2)
	require.Equal(t, Anchor{Name: "Example Site", Href: "https://example.org"}, anchors[0])
	require.Equal(t, Anchor{Name: "no href", Href: ""}, anchors[1])
}

func TestNextInDocument(t *testing.T) {
	doc := parse(t, `<body>
		<h2 id="h">Candidates</h2>
		<p>intro</p>
		<div><ul id="wrapped"><li>a</li></ul></div>
		<table id="late"><tr><td>b</td></tr></table>
	</body>`)

	heading := doc.Find("h2").Nodes[0]

	// descends into wrapper elements after the heading
	next := NextInDocument(heading, "ul", "ol", "table")
	require.NotNil(t, next)
	require.Equal(t, "ul", next.Data)

	// tag filter picks the first match in document order
	next = NextInDocument(heading, "table")
	require.NotNil(t, next)
	require.Equal(t, "table", next.Data)

	require.Nil(t, NextInDocument(heading, "blockquote"))
}

func TestNextInDocumentSkipsOwnSubtree(t *testing.T) {
	doc := parse(t, `<body>
		<div id="start"><ul id="inner"><li>x</li></ul></div>
		<ul id="after"><li>y</li></ul>
	</body>`)

	start := doc.Find("div#start").Nodes[0]
	next := NextInDocument(start, "ul")
	require.NotNil(t, next)
	for _, attr := range next.Attr {
		if attr.Key == "id" {
			require.Equal(t, "after", attr.Val)
		}
	}
}

func TestChildElements(t *testing.T) {
	doc := parse(t, `<ul id="l"><li>one</li><li>two<ul><li>nested</li></ul></li></ul>`)
	list := doc.Find("ul#l").Nodes[0]
	require.Len(t, ChildElements(list, "li"), 2)
}
