package lax_test

import (
	"testing"

	"github.com/midbel/lax"
)

func sampleTree() *lax.Element {
	root := lax.NewElement("a")
	root.SetAttr("x", "1")
	root.Append(lax.NewCharData("  "))
	inner := lax.NewElement("b")
	inner.Append(lax.NewCharData("   "))
	root.Append(inner)
	root.Append(lax.NewCharData(" hi "))
	return root
}

func TestStripSpace(t *testing.T) {
	root := sampleTree()
	root.StripSpace()

	if root.Len() != 2 {
		t.Fatalf("children count mismatched! want 2, got %d", root.Len())
	}
	inner, ok := lax.AsElement(root.Children().First())
	if !ok || inner.Len() != 0 {
		t.Errorf("blank text should have been removed from nested element")
	}
	char, ok := lax.AsCharData(root.Children().Last())
	if !ok {
		t.Fatal("chardata child expected")
	}
	if char.Content != " hi " {
		t.Errorf("retained text should be verbatim! want %q, got %q", " hi ", char.Content)
	}
}

func TestTrimSpace(t *testing.T) {
	root := sampleTree()
	node := lax.TrimSpace(root)

	trimmed, ok := lax.AsElement(node)
	if !ok {
		t.Fatal("element expected")
	}
	if trimmed.Len() != 2 {
		t.Fatalf("children count mismatched! want 2, got %d", trimmed.Len())
	}
	char, ok := lax.AsCharData(trimmed.Children().Last())
	if !ok {
		t.Fatal("chardata child expected")
	}
	if char.Content != "hi" {
		t.Errorf("retained text should be trimmed! want hi, got %q", char.Content)
	}
	if trimmed.Attr("x") != "1" {
		t.Errorf("attributes should be carried over")
	}
	// the original tree is left untouched
	if root.Len() != 3 {
		t.Errorf("source tree was modified! want 3 children, got %d", root.Len())
	}
}

func TestNodeAccessors(t *testing.T) {
	var (
		elem lax.Node = lax.NewElement("e")
		char lax.Node = lax.NewCharData("text")
	)
	if !lax.IsElement(elem) || lax.IsElement(char) {
		t.Errorf("IsElement mismatched")
	}
	if !lax.IsCharData(char) || lax.IsCharData(elem) {
		t.Errorf("IsCharData mismatched")
	}
	if _, ok := lax.AsElement(char); ok {
		t.Errorf("chardata converted to element")
	}
	if c, ok := lax.AsCharData(char); !ok || c.Value() != "text" {
		t.Errorf("chardata value mismatched")
	}
	if elem.Type() != lax.TypeElement || char.Type() != lax.TypeCharData {
		t.Errorf("node type mismatched")
	}
}

func TestElementValue(t *testing.T) {
	root := lax.NewElement("p")
	root.Append(lax.NewCharData("one "))
	inner := lax.NewElement("em")
	inner.Append(lax.NewCharData("two"))
	root.Append(inner)
	root.Append(lax.NewCharData(" three"))

	if got := root.Value(); got != "one two three" {
		t.Errorf("value mismatched! want %q, got %q", "one two three", got)
	}
	if root.Leaf() {
		t.Errorf("element with element children reported as leaf")
	}
	if !inner.Leaf() {
		t.Errorf("element with only text reported as non leaf")
	}
}
