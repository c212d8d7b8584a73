package lax_test

import (
	"strings"
	"testing"

	"github.com/midbel/lax"
)

func TestWriterWrite(t *testing.T) {
	const str = `<?xml version="1.0" encoding="UTF-8"?><root id="1"><a attr="text">text</a><a attr="self"/></root>`

	doc := lax.NewParser().CompleteDocument(str)
	if doc == nil {
		t.Fatal("fail to parse input document")
	}

	data := []struct {
		Want    string
		Compact bool
	}{
		{
			Want:    str,
			Compact: true,
		},
		{
			Want: strings.Join([]string{
				`<?xml version="1.0" encoding="UTF-8"?>`,
				`<root id="1">`,
				`  <a attr="text">text</a>`,
				`  <a attr="self"/>`,
				`</root>`,
			}, "\n"),
		},
	}

	for _, d := range data {
		var (
			buf strings.Builder
			ws  = lax.NewWriter(&buf)
		)
		ws.Compact = d.Compact
		if err := ws.Write(doc); err != nil {
			t.Errorf("error writing document: %s", err)
			return
		}
		got := buf.String()
		if got != d.Want {
			t.Errorf("result mismatched")
			t.Logf("want: %s", d.Want)
			t.Logf("got : %s", got)
		}
	}
}

func TestWriteNode(t *testing.T) {
	elem := lax.NewElement("e")
	elem.SetAttr("b", "2")
	elem.SetAttr("a", "1")

	if got := lax.WriteNode(elem); got != `<e a="1" b="2"/>` {
		t.Errorf("result mismatched! got %s", got)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	elem := lax.NewElement("x")
	elem.Append(lax.NewCharData("a < b"))

	str := lax.WriteNode(elem)
	if str != `<x><![CDATA[a < b]]></x>` {
		t.Errorf("markup in text should be written as cdata, got %s", str)
	}
	back := lax.NewParser().CompleteElement(str)
	if back == nil {
		t.Fatal("written output does not parse back")
	}
	if back.Value() != "a < b" {
		t.Errorf("round trip mismatched! want %q, got %q", "a < b", back.Value())
	}
}
