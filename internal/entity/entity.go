// Package entity maintains the knowledge-graph markdown files derived
// from processed memories.
package entity

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quietfold/memnet/internal/frontmatter"
)

// dirs maps accepted entity type names to the plural directory each
// entity file lives under.
var dirs = map[string]string{
	"person":        "people",
	"people":        "people",
	"project":       "projects",
	"projects":      "projects",
	"organization":  "organizations",
	"organizations": "organizations",
	"topic":         "topics",
	"topics":        "topics",
}

// TypeDirs lists the entity directories under the memory root.
var TypeDirs = []string{"people", "projects", "organizations", "topics"}

// Dir resolves an entity type (singular or plural) to its directory name.
func Dir(entityType string) (string, error) {
	d, ok := dirs[strings.ToLower(strings.TrimSpace(entityType))]
	if !ok {
		return "", fmt.Errorf("unknown entity type %q (want person, project, organization, or topic)", entityType)
	}
	return d, nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a display name: lowercase,
// non-alphanumeric runs collapsed to single hyphens, leading and trailing
// hyphens stripped. Idempotent.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Spec describes one entity to write or merge.
type Spec struct {
	Type           string
	Slug           string
	Name           string
	Description    string
	Relationships  []string            // "relation:targetType/targetSlug" edges
	SourceMemories map[string][]string // source system -> contributing resource ids
	Email          string
	Phone          string
	Domain         string
}

// Writer merges entity specs into markdown files under the workspace
// memory directory.
type Writer struct {
	memoryDir string
	logger    *zap.Logger
}

// NewWriter returns a Writer rooted at the given memory directory.
func NewWriter(memoryDir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Writer{
		memoryDir: memoryDir,
		logger:    logger.With(zap.String("component", "entity")),
	}
}

// Write merges spec into its entity file and returns the path written.
// source_memories and relationships only ever grow: new values are
// unioned with whatever the file already holds, and an existing
// hyperspell_id is preserved verbatim.
func (w *Writer) Write(spec Spec) (string, error) {
	dir, err := Dir(spec.Type)
	if err != nil {
		return "", err
	}
	slug := Slugify(spec.Slug)
	if slug == "" {
		return "", fmt.Errorf("entity slug is empty after slugify (%q)", spec.Slug)
	}
	if spec.Name == "" {
		return "", fmt.Errorf("entity name is required")
	}

	target := filepath.Join(w.memoryDir, dir, slug+".md")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create entity dir: %w", err)
	}

	hyperspellID := ""
	existingSources := map[string][]string{}
	var existingRels []string
	if b, err := os.ReadFile(target); err == nil {
		doc := frontmatter.Parse(string(b))
		hyperspellID = doc.Get("hyperspell_id")
		doc.GetJSON("source_memories", &existingSources)
		doc.GetJSON("relationships", &existingRels)
	}

	sources := mergeSources(existingSources, spec.SourceMemories)
	rels := mergeStrings(existingRels, spec.Relationships)

	doc := &frontmatter.Doc{}
	doc.Set("title", spec.Name)
	doc.Set("type", strings.TrimSuffix(dir, "s"))
	doc.Set("graph_entity", "true")
	if hyperspellID != "" {
		doc.Set("hyperspell_id", hyperspellID)
	}
	doc.SetJSON("source_memories", sources)
	if len(rels) > 0 {
		doc.SetJSON("relationships", rels)
	}
	doc.Set("last_extracted", time.Now().UTC().Format(time.RFC3339))
	doc.Body = renderBody(spec, rels)

	if err := os.WriteFile(target, []byte(doc.Render()), 0o644); err != nil {
		return "", fmt.Errorf("write entity file: %w", err)
	}

	w.logger.Debug("entity written",
		zap.String("path", target),
		zap.Int("sources", len(sources)),
		zap.Int("relationships", len(rels)))
	return target, nil
}

// mergeSources unions per-source id sets. Keys and ids are sorted so
// repeated writes produce stable files.
func mergeSources(existing, incoming map[string][]string) map[string][]string {
	merged := map[string][]string{}
	for src, ids := range existing {
		merged[src] = append(merged[src], ids...)
	}
	for src, ids := range incoming {
		merged[src] = append(merged[src], ids...)
	}
	for src, ids := range merged {
		merged[src] = dedupSorted(ids)
	}
	return merged
}

func mergeStrings(existing, incoming []string) []string {
	return dedupSorted(append(append([]string{}, existing...), incoming...))
}

func dedupSorted(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func renderBody(spec Spec, rels []string) string {
	var b strings.Builder
	b.WriteString("# " + spec.Name + "\n")
	if spec.Description != "" {
		b.WriteString("\n" + strings.TrimSpace(spec.Description) + "\n")
	}

	var contact []string
	if spec.Email != "" {
		contact = append(contact, "- Email: "+spec.Email)
	}
	if spec.Phone != "" {
		contact = append(contact, "- Phone: "+spec.Phone)
	}
	if spec.Domain != "" {
		contact = append(contact, "- Domain: "+spec.Domain)
	}
	if len(contact) > 0 {
		b.WriteString("\n## Contact\n\n" + strings.Join(contact, "\n") + "\n")
	}

	if len(rels) > 0 {
		b.WriteString("\n## Relationships\n\n")
		for _, r := range rels {
			b.WriteString(renderRelationship(r) + "\n")
		}
	}
	return b.String()
}

// renderRelationship turns "relation:targetType/targetSlug" into a
// markdown link bullet. Edges without a type/slug-shaped target render
// as a bare bullet.
func renderRelationship(edge string) string {
	rel, target, ok := strings.Cut(edge, ":")
	if !ok {
		return "- " + edge
	}
	targetType, targetSlug, ok := strings.Cut(target, "/")
	if !ok || targetType == "" || targetSlug == "" {
		return "- " + edge
	}
	name := strings.ReplaceAll(targetSlug, "-", " ")
	return fmt.Sprintf("- %s: [%s](../%s/%s.md)", rel, name, targetType, targetSlug)
}
