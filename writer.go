package lax

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

const (
	langle = '<'
	rangle = '>'
	slash  = '/'
	equal  = '='
	quote  = '"'
	apos   = '\''
)

// Writer serializes a tree back to the subset the parser accepts. Text
// holding markup characters is written as a CDATA section and entities
// are never emitted, so written output always parses back.
type Writer struct {
	writer *bufio.Writer

	Compact bool
	Indent  string
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: bufio.NewWriter(w),
		Indent: "  ",
	}
}

// WriteNode renders a single node on one line.
func WriteNode(node Node) string {
	var buf strings.Builder
	ws := NewWriter(&buf)
	ws.Compact = true
	ws.writeNode(node, -1)
	ws.writer.Flush()
	return buf.String()
}

func (w *Writer) Write(doc *Document) error {
	w.writeProlog(doc)
	w.writeNL()
	if err := w.writeNode(doc.Root, -1); err != nil {
		return err
	}
	return w.writer.Flush()
}

func (w *Writer) WriteElement(el *Element) error {
	if err := w.writeNode(el, -1); err != nil {
		return err
	}
	return w.writer.Flush()
}

func (w *Writer) writeNode(node Node, depth int) error {
	switch node := node.(type) {
	case *Element:
		return w.writeElement(node, depth+1)
	case *CharData:
		w.writeCharData(node)
		return nil
	default:
		return fmt.Errorf("node: unknown type (%T)", node)
	}
}

func (w *Writer) writeElement(node *Element, depth int) error {
	if depth > 0 {
		w.writeNL()
	}
	prefix := w.getIndent(depth)
	if prefix != "" {
		w.writer.WriteString(prefix)
	}
	w.writer.WriteRune(langle)
	w.writer.WriteString(node.Name)
	w.writeAttributes(node.Attrs)
	if len(node.Nodes) == 0 {
		w.writer.WriteRune(slash)
		w.writer.WriteRune(rangle)
		return nil
	}
	w.writer.WriteRune(rangle)
	for _, n := range node.Nodes {
		if err := w.writeNode(n, depth); err != nil {
			return err
		}
	}
	if !node.Leaf() {
		w.writeNL()
		w.writer.WriteString(prefix)
	}
	w.writer.WriteRune(langle)
	w.writer.WriteRune(slash)
	w.writer.WriteString(node.Name)
	w.writer.WriteRune(rangle)
	return nil
}

func (w *Writer) writeCharData(node *CharData) {
	if strings.ContainsAny(node.Content, "<>") {
		w.writer.WriteString("<![CDATA[")
		w.writer.WriteString(node.Content)
		w.writer.WriteString("]]>")
		return
	}
	w.writer.WriteString(node.Content)
}

func (w *Writer) writeAttributes(attrs map[string]string) {
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		value := attrs[key]
		delim := byte(quote)
		if strings.Contains(value, string(quote)) {
			delim = apos
		}
		w.writer.WriteByte(' ')
		w.writer.WriteString(key)
		w.writer.WriteByte(equal)
		w.writer.WriteByte(delim)
		w.writer.WriteString(value)
		w.writer.WriteByte(delim)
	}
}

func (w *Writer) writeProlog(doc *Document) {
	fmt.Fprintf(w.writer, `<?xml version="1.%d"`, doc.Version)
	if doc.Encoding != "" {
		fmt.Fprintf(w.writer, ` encoding=%q`, doc.Encoding)
	}
	w.writer.WriteString("?>")
}

func (w *Writer) writeNL() {
	if w.Compact {
		return
	}
	w.writer.WriteRune('\n')
}

func (w *Writer) getIndent(depth int) string {
	if w.Compact || depth <= 0 {
		return ""
	}
	return strings.Repeat(w.Indent, depth)
}
