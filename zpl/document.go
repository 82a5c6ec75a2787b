package zpl

import (
	"encoding/xml"
	"strings"
)

// Node is one element of a parsed settings document: a name, its character
// data, and its child elements in document order.
type Node struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Children []Node `xml:",any"`
}

// Name returns the element name of the node.
func (n *Node) Name() string { return n.XMLName.Local }

// Child returns the first child element with the given name.
func (n *Node) Child(name string) (*Node, bool) {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i], true
		}
	}

	return nil, false
}

// Lookup navigates a path of named child elements starting below n and
// returns the node at the end of the path.
func (n *Node) Lookup(path ...string) (*Node, bool) {
	cur := n
	for _, name := range path {
		next, ok := cur.Child(name)
		if !ok {
			return nil, false
		}
		cur = next
	}

	return cur, true
}

// Parser turns decoded reply text into a navigable document tree.
//
// GetSettings is agnostic to the concrete parsing facility; the default is
// XMLParser, and callers with devices that emit non-conforming dumps can
// substitute a more lenient implementation via WithParser.
type Parser interface {
	Parse(text string) (*Node, error)
}

// XMLParser parses replies as XML using the standard library decoder.
//
// Zebra configuration dumps are XML-like but not always well-formed; parse
// failures surface to the caller as a ParseError and are deliberately not
// remediated here.
type XMLParser struct{}

var _ Parser = XMLParser{}

// Parse decodes text into a Node tree rooted at the document's root element.
// Leading noise before the first '<' is dropped; some firmwares prefix the
// dump with stray control bytes that survive framing.
func (XMLParser) Parse(text string) (*Node, error) {
	if i := strings.IndexByte(text, '<'); i > 0 {
		text = text[i:]
	}

	var root Node
	if err := xml.Unmarshal([]byte(text), &root); err != nil {
		return nil, err
	}

	return &root, nil
}
