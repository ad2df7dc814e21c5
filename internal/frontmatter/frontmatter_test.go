package frontmatter

import (
	"strings"
	"testing"
)

func TestParseAndRender(t *testing.T) {
	content := "---\ntitle: Alice Chen\ntype: people\nhyperspell_id: r1\n---\n\n# Alice Chen\n\nEngineer at Acme.\n"
	doc := Parse(content)

	if got := doc.Get("title"); got != "Alice Chen" {
		t.Errorf("title: expected 'Alice Chen', got %q", got)
	}
	if got := doc.Get("hyperspell_id"); got != "r1" {
		t.Errorf("hyperspell_id: expected 'r1', got %q", got)
	}
	if !strings.HasPrefix(doc.Body, "# Alice Chen") {
		t.Errorf("body should start with heading, got %q", doc.Body)
	}

	rendered := doc.Render()
	reparsed := Parse(rendered)
	if reparsed.Get("title") != "Alice Chen" || reparsed.Body != doc.Body {
		t.Errorf("round trip mismatch: %q", rendered)
	}
}

func TestParseNoFrontmatter(t *testing.T) {
	content := "# Just a note\n\nNo metadata here.\n"
	doc := Parse(content)

	if len(doc.Fields) != 0 {
		t.Errorf("expected no fields, got %d", len(doc.Fields))
	}
	if doc.Body != content {
		t.Errorf("body should be the whole file")
	}
}

func TestParseUnclosedFence(t *testing.T) {
	content := "---\ntitle: broken\nno closing fence"
	doc := Parse(content)

	if len(doc.Fields) != 0 {
		t.Errorf("unclosed fence should yield no fields")
	}
	if doc.Body != content {
		t.Errorf("body should be the whole file")
	}
}

func TestValueWithColons(t *testing.T) {
	doc := Parse("---\nurl: https://example.com/x\n---\nbody")
	if got := doc.Get("url"); got != "https://example.com/x" {
		t.Errorf("split must happen at the first colon only, got %q", got)
	}
}

func TestSetPreservesOrder(t *testing.T) {
	doc := Parse("---\na: 1\nb: 2\nc: 3\n---\nbody")
	doc.Set("b", "22")
	doc.Set("d", "4")

	want := []string{"a", "b", "c", "d"}
	for i, f := range doc.Fields {
		if f.Key != want[i] {
			t.Fatalf("field %d: expected key %q, got %q", i, want[i], f.Key)
		}
	}
	if doc.Get("b") != "22" {
		t.Errorf("set should update in place")
	}
}

func TestJSONFields(t *testing.T) {
	doc := &Doc{}
	doc.SetJSON("source_memories", map[string][]string{"slack": {"A", "B"}})

	out := map[string][]string{}
	doc.GetJSON("source_memories", &out)
	if len(out["slack"]) != 2 {
		t.Errorf("expected 2 slack ids, got %v", out)
	}
}

func TestMalformedJSONTolerated(t *testing.T) {
	doc := Parse("---\nsource_memories: {not json\n---\nbody")

	out := map[string][]string{}
	doc.GetJSON("source_memories", &out)
	if len(out) != 0 {
		t.Errorf("malformed JSON should decode to empty, got %v", out)
	}
}

func TestIsTrue(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{"true", true},
		{false, false},
		{"false", false},
		{"yes", false},
		{nil, false},
		{1, false},
	}
	for _, c := range cases {
		if got := IsTrue(c.in); got != c.want {
			t.Errorf("IsTrue(%v): expected %v, got %v", c.in, c.want, got)
		}
	}
}
