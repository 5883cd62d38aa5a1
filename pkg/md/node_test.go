package md

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStorage_Structure(t *testing.T) {
	doc, err := ParseStorage(`<p>Hello <strong>world</strong></p>`)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)

	p := doc.Children[0]
	assert.Equal(t, KindElement, p.Kind)
	assert.Equal(t, "p", p.Data)
	require.Len(t, p.Children, 2)

	assert.Equal(t, KindText, p.Children[0].Kind)
	assert.Equal(t, "Hello ", p.Children[0].Data)
	assert.Equal(t, "strong", p.Children[1].Data)
}

func TestParseStorage_NamespacedTagsAndAttrs(t *testing.T) {
	doc, err := ParseStorage(`<ac:structured-macro ac:name="Info" ac:schema-version="1">` +
		`<ac:parameter ac:name="title">T</ac:parameter></ac:structured-macro>`)
	require.NoError(t, err)

	macro := doc.Find("ac:structured-macro")
	require.NotNil(t, macro)
	assert.Equal(t, "Info", macro.Attr("ac:name"))
	assert.Equal(t, "1", macro.Attr("ac:schema-version"))

	param := macro.Find("ac:parameter")
	require.NotNil(t, param)
	assert.Equal(t, "title", param.Attr("ac:name"))
	assert.Equal(t, "T", param.RawText())
}

func TestParseStorage_DropsComments(t *testing.T) {
	doc, err := ParseStorage(`<p>keep<!-- drop --></p>`)
	require.NoError(t, err)
	assert.Equal(t, "keep", doc.RawText())
}

func TestParseStorage_Empty(t *testing.T) {
	doc, err := ParseStorage("")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Children)
}

func TestFindAll_DocumentOrder(t *testing.T) {
	doc := Elem("body",
		Elem("ul",
			Elem("li", Text("one")),
			Elem("li", Text("two")),
		),
		Elem("li", Text("three")),
	)

	items := doc.FindAll("li")
	require.Len(t, items, 3)
	assert.Equal(t, "one", items[0].RawText())
	assert.Equal(t, "two", items[1].RawText())
	assert.Equal(t, "three", items[2].RawText())
}

func TestFind_MissingReturnsNil(t *testing.T) {
	assert.Nil(t, Elem("p", Text("x")).Find("table"))
	var nilNode *Node
	assert.Nil(t, nilNode.Find("p"))
	assert.Equal(t, "", nilNode.Attr("x"))
	assert.Equal(t, "", nilNode.RawText())
}

func TestRawText_NoCollapsing(t *testing.T) {
	n := Elem("ac:plain-text-body", Text("a  b\n\tc"))
	assert.Equal(t, "a  b\n\tc", n.RawText())
}
