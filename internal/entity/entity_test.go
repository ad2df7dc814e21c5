package entity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/quietfold/memnet/internal/frontmatter"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Alice Chen", "alice-chen"},
		{"  Multi   Space--Name  ", "multi-space-name"},
		{"Acme, Inc.", "acme-inc"},
		{"alice-chen", "alice-chen"},
		{"--x--", "x"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q): expected %q, got %q", c.in, c.want, got)
		}
		// Idempotence.
		if got := Slugify(Slugify(c.in)); got != c.want {
			t.Errorf("Slugify not idempotent for %q: got %q", c.in, got)
		}
	}
}

func newTestWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	return NewWriter(dir, zap.NewNop()), dir
}

func readDoc(t *testing.T, path string) *frontmatter.Doc {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return frontmatter.Parse(string(b))
}

func TestWriteCreatesFile(t *testing.T) {
	w, dir := newTestWriter(t)

	path, err := w.Write(Spec{
		Type:        "people",
		Slug:        "Alice Chen",
		Name:        "Alice Chen",
		Description: "Engineer at Acme.",
		Email:       "alice@acme.com",
		SourceMemories: map[string][]string{
			"slack": {"A"},
		},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "people", "alice-chen.md") {
		t.Errorf("unexpected path %s", path)
	}

	doc := readDoc(t, path)
	if doc.Get("title") != "Alice Chen" {
		t.Errorf("title: got %q", doc.Get("title"))
	}
	if doc.Get("type") != "people" {
		t.Errorf("type should be directory name minus trailing 's', got %q", doc.Get("type"))
	}
	if doc.Get("graph_entity") != "true" {
		t.Error("graph_entity flag missing")
	}
	if doc.Get("last_extracted") == "" {
		t.Error("last_extracted missing")
	}
	if doc.Get("hyperspell_id") != "" {
		t.Error("hyperspell_id should be absent on first write")
	}
	if !strings.Contains(doc.Body, "# Alice Chen") {
		t.Error("body missing heading")
	}
	if !strings.Contains(doc.Body, "- Email: alice@acme.com") {
		t.Error("body missing contact section")
	}
}

func TestWriteMergesSourceMemories(t *testing.T) {
	w, _ := newTestWriter(t)

	_, err := w.Write(Spec{
		Type: "people", Slug: "alice-chen", Name: "Alice Chen",
		SourceMemories: map[string][]string{"slack": {"A"}},
	})
	if err != nil {
		t.Fatalf("first write: %v", err)
	}

	path, err := w.Write(Spec{
		Type: "people", Slug: "alice-chen", Name: "Alice Chen",
		SourceMemories: map[string][]string{"slack": {"B"}, "google_mail": {"C"}},
	})
	if err != nil {
		t.Fatalf("second write: %v", err)
	}

	doc := readDoc(t, path)
	sources := map[string][]string{}
	doc.GetJSON("source_memories", &sources)

	if len(sources["slack"]) != 2 {
		t.Errorf("slack ids should be the union {A, B}, got %v", sources["slack"])
	}
	if len(sources["google_mail"]) != 1 || sources["google_mail"][0] != "C" {
		t.Errorf("google_mail should hold {C}, got %v", sources["google_mail"])
	}

	// A third write with an already-seen id must not duplicate it.
	path, _ = w.Write(Spec{
		Type: "people", Slug: "alice-chen", Name: "Alice Chen",
		SourceMemories: map[string][]string{"slack": {"A"}},
	})
	doc = readDoc(t, path)
	sources = map[string][]string{}
	doc.GetJSON("source_memories", &sources)
	if len(sources["slack"]) != 2 {
		t.Errorf("re-write must not duplicate ids, got %v", sources["slack"])
	}
}

func TestWriteMergesRelationships(t *testing.T) {
	w, _ := newTestWriter(t)

	w.Write(Spec{
		Type: "people", Slug: "alice-chen", Name: "Alice Chen",
		Relationships: []string{"works_at:organizations/acme-corp"},
	})
	path, _ := w.Write(Spec{
		Type: "people", Slug: "alice-chen", Name: "Alice Chen",
		Relationships: []string{"works_at:organizations/acme-corp", "leads:projects/apollo"},
	})

	doc := readDoc(t, path)
	var rels []string
	doc.GetJSON("relationships", &rels)
	if len(rels) != 2 {
		t.Errorf("expected 2 unioned edges, got %v", rels)
	}
	if !strings.Contains(doc.Body, "- works_at: [acme corp](../organizations/acme-corp.md)") {
		t.Errorf("relationship link not rendered:\n%s", doc.Body)
	}
	if !strings.Contains(doc.Body, "- leads: [apollo](../projects/apollo.md)") {
		t.Errorf("second relationship link not rendered:\n%s", doc.Body)
	}
}

func TestWritePreservesHyperspellID(t *testing.T) {
	w, _ := newTestWriter(t)

	path, _ := w.Write(Spec{Type: "people", Slug: "alice-chen", Name: "Alice Chen"})

	// Simulate a sync having recorded the remote id.
	doc := readDoc(t, path)
	doc.Set("hyperspell_id", "r42")
	os.WriteFile(path, []byte(doc.Render()), 0o644)

	path, err := w.Write(Spec{Type: "people", Slug: "alice-chen", Name: "Alice Chen",
		Description: "Updated description."})
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	doc = readDoc(t, path)
	if doc.Get("hyperspell_id") != "r42" {
		t.Errorf("hyperspell_id must be preserved, got %q", doc.Get("hyperspell_id"))
	}
}

func TestWriteToleratesMalformedExistingJSON(t *testing.T) {
	w, dir := newTestWriter(t)

	path := filepath.Join(dir, "people", "alice-chen.md")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("---\ntitle: Alice\nsource_memories: {broken\nrelationships: [broken\n---\nbody"), 0o644)

	path, err := w.Write(Spec{
		Type: "people", Slug: "alice-chen", Name: "Alice Chen",
		SourceMemories: map[string][]string{"slack": {"A"}},
	})
	if err != nil {
		t.Fatalf("write over malformed file: %v", err)
	}

	doc := readDoc(t, path)
	sources := map[string][]string{}
	doc.GetJSON("source_memories", &sources)
	if len(sources["slack"]) != 1 {
		t.Errorf("expected fresh slack set after malformed base, got %v", sources)
	}
}

func TestBareRelationshipBullet(t *testing.T) {
	w, _ := newTestWriter(t)
	path, _ := w.Write(Spec{
		Type: "topics", Slug: "golang", Name: "Go",
		Relationships: []string{"mentioned with kubernetes"},
	})
	doc := readDoc(t, path)
	if !strings.Contains(doc.Body, "- mentioned with kubernetes") {
		t.Errorf("edge without type/slug target should render as bare bullet:\n%s", doc.Body)
	}
}

func TestEntityTypes(t *testing.T) {
	w, dir := newTestWriter(t)

	cases := []struct {
		typ, wantDir, wantType string
	}{
		{"person", "people", "people"},
		{"people", "people", "people"},
		{"project", "projects", "project"},
		{"organization", "organizations", "organization"},
		{"topics", "topics", "topic"},
	}
	for _, c := range cases {
		path, err := w.Write(Spec{Type: c.typ, Slug: "x", Name: "X"})
		if err != nil {
			t.Fatalf("write type %q: %v", c.typ, err)
		}
		if filepath.Dir(path) != filepath.Join(dir, c.wantDir) {
			t.Errorf("type %q: expected dir %s, got %s", c.typ, c.wantDir, filepath.Dir(path))
		}
		if got := readDoc(t, path).Get("type"); got != c.wantType {
			t.Errorf("type %q: expected frontmatter type %q, got %q", c.typ, c.wantType, got)
		}
	}

	if _, err := w.Write(Spec{Type: "animal", Slug: "x", Name: "X"}); err == nil {
		t.Error("unknown entity type should error")
	}
}
