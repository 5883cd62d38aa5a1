// node.go defines the storage-format tree model the converter walks.
package md

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NodeKind discriminates the two node variants.
type NodeKind int

const (
	KindText    NodeKind = iota // character data, no children
	KindElement                 // named element with attributes and ordered children
)

// Node is a single node in a parsed storage-format document. Text nodes
// carry their content in Data and have no children; element nodes carry the
// tag name in Data (lowercase, namespace prefix included, e.g.
// "ac:structured-macro") and preserve source child order.
type Node struct {
	Kind     NodeKind
	Data     string
	Attrs    map[string]string
	Children []*Node
}

// Text returns a text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Data: s}
}

// Elem returns an element node with the given children.
func Elem(name string, children ...*Node) *Node {
	return &Node{Kind: KindElement, Data: name, Children: children}
}

// ElemAttrs returns an element node with attributes.
func ElemAttrs(name string, attrs map[string]string, children ...*Node) *Node {
	return &Node{Kind: KindElement, Data: name, Attrs: attrs, Children: children}
}

// Attr returns the named attribute value, or "" if absent.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// Find returns the first descendant element with the given name in document
// order, or nil. The receiver itself is not considered.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Kind == KindElement && child.Data == name {
			return child
		}
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant element with the given name in document order.
func (n *Node) FindAll(name string) []*Node {
	if n == nil {
		return nil
	}
	var found []*Node
	for _, child := range n.Children {
		if child.Kind == KindElement && child.Data == name {
			found = append(found, child)
		}
		found = append(found, child.FindAll(name)...)
	}
	return found
}

// RawText concatenates the text content of the subtree without any
// whitespace normalization. Code payloads are read through this.
func (n *Node) RawText() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Data
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.RawText())
	}
	return sb.String()
}

// hasBlockDescendant reports whether any descendant is a block-producing
// node (structured macro or image embed). Paragraph elision keys off this.
func (n *Node) hasBlockDescendant() bool {
	for _, child := range n.Children {
		if child.Kind == KindElement {
			if child.Data == "ac:structured-macro" || child.Data == "ac:image" {
				return true
			}
		}
		if child.hasBlockDescendant() {
			return true
		}
	}
	return false
}

// ParseStorage parses Confluence storage-format XHTML into a Node tree.
// Code payloads are entity-protected first so CDATA metacharacters cannot
// be misread as markup; the code macro handler reverses the encoding when
// it reads the payload back.
func ParseStorage(storage string) (*Node, error) {
	protected := protectCodePayloads(storage)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(protected))
	if err != nil {
		return nil, err
	}

	root := Elem("body")
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	for _, hn := range body.Nodes {
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if adapted := fromHTMLNode(c); adapted != nil {
				root.Children = append(root.Children, adapted)
			}
		}
	}
	return root, nil
}

// fromHTMLNode adapts one x/net/html node into the converter's tree model.
// Comments, doctypes and other non-content nodes are dropped.
func fromHTMLNode(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return Text(hn.Data)
	case html.ElementNode:
		n := Elem(strings.ToLower(hn.Data))
		if len(hn.Attr) > 0 {
			n.Attrs = make(map[string]string, len(hn.Attr))
			for _, a := range hn.Attr {
				n.Attrs[strings.ToLower(a.Key)] = a.Val
			}
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if adapted := fromHTMLNode(c); adapted != nil {
				n.Children = append(n.Children, adapted)
			}
		}
		return n
	}
	return nil
}
