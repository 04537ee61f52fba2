package xmltree

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders the node the way simple XML-to-JSON converters do:
// attributes become string fields, repeated children with the same tag become
// arrays, and a text-only element collapses to its text. Text next to
// attributes or children is kept under "_Data".
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalDocument renders root wrapped in an object keyed by its own tag,
// preserving the document node.
func MarshalDocument(root *Node) ([]byte, error) {
	if root == nil {
		return nil, ErrEmptyDocument
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeKey(&buf, root.Name); err != nil {
		return nil, err
	}
	if err := root.writeJSON(&buf); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	if len(n.Attrs) == 0 && len(n.Children) == 0 {
		if n.Text == "" {
			buf.WriteString("{}")
			return nil
		}
		return writeString(buf, n.Text)
	}

	// Grouping keeps the position of the first child of each tag.
	var order []string
	groups := make(map[string][]*Node)
	for _, c := range n.Children {
		if _, seen := groups[c.Name]; !seen {
			order = append(order, c.Name)
		}
		groups[c.Name] = append(groups[c.Name], c)
	}

	buf.WriteByte('{')
	first := true
	sep := func() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
	}

	for _, a := range n.Attrs {
		if _, shadowed := groups[a.Name]; shadowed {
			continue
		}
		sep()
		if err := writeKey(buf, a.Name); err != nil {
			return err
		}
		if err := writeString(buf, a.Value); err != nil {
			return err
		}
	}

	for _, name := range order {
		sep()
		if err := writeKey(buf, name); err != nil {
			return err
		}

		nodes := groups[name]
		if len(nodes) == 1 {
			if err := nodes[0].writeJSON(buf); err != nil {
				return err
			}
			continue
		}

		buf.WriteByte('[')
		for i, c := range nodes {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := c.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}

	if n.Text != "" {
		sep()
		if err := writeKey(buf, "_Data"); err != nil {
			return err
		}
		if err := writeString(buf, n.Text); err != nil {
			return err
		}
	}

	buf.WriteByte('}')
	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeString(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
