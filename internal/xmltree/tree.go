// Package xmltree turns a raw XML document into a generic element tree.
//
// The tree keeps attributes in document order and exposes children by tag
// name, which is all the forecast classifier needs. It is not a general
// purpose XML toolkit: namespaces are reduced to local names and comments,
// processing instructions and directives are dropped.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEmptyDocument is returned when the payload holds no root element.
	ErrEmptyDocument = errors.New("xmltree: document has no root element")
	// ErrMultipleRoots is returned when a second top-level element follows the root.
	ErrMultipleRoots = errors.New("xmltree: document has more than one root element")
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of the parsed document.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Parse reads a whole document from r. The underlying encoding/xml
// diagnostic is returned unchanged so callers can report it.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *Node
		stack []*Node
		text  []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}

			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			case root == nil:
				root = n
			default:
				return nil, ErrMultipleRoots
			}

			stack = append(stack, n)
			text = append(text, &strings.Builder{})

		case xml.EndElement:
			// The decoder already rejects mismatched end tags.
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first child element with the given tag, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child element with the given tag in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// HasChild reports whether n has at least one child element with the given tag.
func (n *Node) HasChild(name string) bool {
	return n.Child(name) != nil
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("<%s> (%d attrs, %d children)", n.Name, len(n.Attrs), len(n.Children))
}
