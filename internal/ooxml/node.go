package ooxml

import (
	"encoding/xml"
	"strings"
)

// Node is a generic XML element tree, enough to walk DrawingML and
// WordprocessingML parts by local name.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Node     `xml:",any"`
	Content  string     `xml:",chardata"`
}

// ParseNode unmarshals a part into a tree.
func ParseNode(data []byte) (*Node, error) {
	var root Node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// Attr returns the value of the attribute with the given local name.
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Child returns the first direct child with the given local name.
func (n *Node) Child(local string) *Node {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

// All returns the direct children with the given local name.
func (n *Node) All(local string) []*Node {
	var result []*Node
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			result = append(result, &n.Children[i])
		}
	}
	return result
}

// Path follows a chain of direct children, returning nil if any step is missing.
func (n *Node) Path(locals ...string) *Node {
	cur := n
	for _, l := range locals {
		if cur = cur.Child(l); cur == nil {
			return nil
		}
	}
	return cur
}

// AllDeep returns every descendant with the given local name, in document order.
func (n *Node) AllDeep(local string) []*Node {
	var result []*Node
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			result = append(result, &n.Children[i])
		}
		result = append(result, n.Children[i].AllDeep(local)...)
	}
	return result
}

// Text concatenates all character data below n.
func (n *Node) Text() string {
	if n.Content != "" && len(n.Children) == 0 {
		return n.Content
	}
	var sb strings.Builder
	for i := range n.Children {
		sb.WriteString(n.Children[i].Text())
	}
	return sb.String()
}
