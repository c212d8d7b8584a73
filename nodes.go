package lax

import (
	"maps"
	"slices"
	"strings"
)

type NodeType int8

const (
	TypeCharData NodeType = 1 << iota
	TypeElement
)

func (n NodeType) String() string {
	switch n {
	default:
		return "<>"
	case TypeCharData:
		return "chardata"
	case TypeElement:
		return "element"
	}
}

// Node is either a CharData or an Element. Ownership runs strictly
// downward: a node belongs to the Nodes slice of its enclosing element
// and carries no reference back to it.
type Node interface {
	Type() NodeType
	Leaf() bool
	Value() string
}

type CharData struct {
	Content string
}

func NewCharData(content string) *CharData {
	return &CharData{
		Content: content,
	}
}

func (c *CharData) Type() NodeType {
	return TypeCharData
}

func (c *CharData) Leaf() bool {
	return true
}

func (c *CharData) Value() string {
	return c.Content
}

type Element struct {
	Name  string
	Attrs map[string]string
	Nodes []Node
}

func NewElement(name string) *Element {
	return &Element{
		Name:  name,
		Attrs: make(map[string]string),
	}
}

func (e *Element) Type() NodeType {
	return TypeElement
}

// Leaf reports whether the element has no element children.
func (e *Element) Leaf() bool {
	for _, n := range e.Nodes {
		if n.Type() == TypeElement {
			return false
		}
	}
	return true
}

// Value returns the text content of the element and all its descendants,
// in document order.
func (e *Element) Value() string {
	var str strings.Builder
	for _, n := range e.Nodes {
		str.WriteString(n.Value())
	}
	return str.String()
}

func (e *Element) Append(node Node) {
	e.Nodes = append(e.Nodes, node)
}

func (e *Element) Len() int {
	return len(e.Nodes)
}

func (e *Element) SetAttr(key, value string) {
	e.Attrs[strings.ToLower(key)] = value
}

func (e *Element) Attr(key string) string {
	return e.Attrs[strings.ToLower(key)]
}

func (e *Element) Children() NodeList {
	return NodeList(e.Nodes)
}

// Elements returns the element children only, in document order.
func (e *Element) Elements() ElementList {
	var list ElementList
	for _, n := range e.Nodes {
		if el, ok := n.(*Element); ok {
			list = append(list, el)
		}
	}
	return list
}

func (e *Element) Find(name string) *Element {
	return e.FindAll(name).First()
}

func (e *Element) FindAll(name string) ElementList {
	return e.Children().ByName(name)
}

// StripSpace removes, in place, every chardata child whose content is
// only whitespace and descends into the remaining elements. Text that
// survives keeps its original leading and trailing whitespace.
func (e *Element) StripSpace() {
	e.Nodes = slices.DeleteFunc(e.Nodes, func(n Node) bool {
		c, ok := n.(*CharData)
		return ok && strings.TrimSpace(c.Content) == ""
	})
	for _, n := range e.Nodes {
		if el, ok := n.(*Element); ok {
			el.StripSpace()
		}
	}
}

// TrimSpace rebuilds the tree bottom-up. Every retained chardata node is
// trimmed and those that become empty are dropped. The given tree is left
// untouched; see (*Element).StripSpace for the in-place variant that keeps
// retained text verbatim.
func TrimSpace(node Node) Node {
	switch node := node.(type) {
	case *CharData:
		return NewCharData(strings.TrimSpace(node.Content))
	case *Element:
		elem := NewElement(node.Name)
		maps.Copy(elem.Attrs, node.Attrs)
		for _, n := range node.Nodes {
			n = TrimSpace(n)
			if c, ok := n.(*CharData); ok && c.Content == "" {
				continue
			}
			elem.Append(n)
		}
		return elem
	default:
		return node
	}
}

func IsCharData(n Node) bool {
	_, ok := n.(*CharData)
	return ok
}

func IsElement(n Node) bool {
	_, ok := n.(*Element)
	return ok
}

func AsCharData(n Node) (*CharData, bool) {
	c, ok := n.(*CharData)
	return c, ok
}

func AsElement(n Node) (*Element, bool) {
	e, ok := n.(*Element)
	return e, ok
}

type Document struct {
	Version  int
	Encoding string
	Root     *Element
}

func NewDocument(root *Element) *Document {
	return &Document{
		Root: root,
	}
}

func (d *Document) Find(name string) *Element {
	if d.Root == nil {
		return nil
	}
	return d.Root.Find(name)
}

func (d *Document) FindAll(name string) ElementList {
	if d.Root == nil {
		return nil
	}
	return d.Root.FindAll(name)
}
