// Package pusher uploads workspace markdown files into the remote memory
// store, keeping files and remote records linked by resource id.
package pusher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/quietfold/memnet/internal/frontmatter"
	"github.com/quietfold/memnet/internal/hyperspell"
)

// Collection is the fixed remote collection all synced files land in.
const Collection = "agent-memories"

// sourceTag attributes uploads to this subsystem in remote metadata.
const sourceTag = "memory-network"

// Client is the slice of the remote API the pusher needs.
type Client interface {
	AddMemory(ctx context.Context, p hyperspell.AddMemoryParams) (string, error)
}

// FileResult reports the outcome of syncing one file.
type FileResult struct {
	Path       string `json:"path"`
	Success    bool   `json:"success"`
	ResourceID string `json:"resource_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Result aggregates a SyncAll run.
type Result struct {
	Synced int      `json:"synced"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// Pusher uploads markdown files from a workspace memory directory.
type Pusher struct {
	client Client
	logger *zap.Logger
}

// New returns a Pusher using the given client.
func New(client Client, logger *zap.Logger) *Pusher {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Pusher{
		client: client,
		logger: logger.With(zap.String("component", "pusher")),
	}
}

// SyncFile uploads one markdown file. An existing hyperspell_id in the
// frontmatter is passed as the target resource id so the remote store
// updates in place instead of duplicating; when the store returns a
// different id (or the file had none) the frontmatter is rewritten with
// it, which is what makes repeated syncs idempotent after the first.
func (p *Pusher) SyncFile(ctx context.Context, path string) FileResult {
	b, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Error: fmt.Sprintf("read: %v", err)}
	}

	doc := frontmatter.Parse(string(b))
	body := strings.TrimSpace(doc.Body)
	if body == "" {
		return FileResult{Path: path, Error: "empty body, skipped"}
	}

	title := doc.Get("title")
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	meta := map[string]string{"agent_source": sourceTag}
	if frontmatter.IsTrue(doc.Get("graph_entity")) {
		meta["graph_entity"] = "true"
	}

	existingID := doc.Get("hyperspell_id")
	resourceID, err := p.client.AddMemory(ctx, hyperspell.AddMemoryParams{
		Text:       body,
		Title:      title,
		Collection: Collection,
		ResourceID: existingID,
		Metadata:   meta,
	})
	if err != nil {
		return FileResult{Path: path, Error: fmt.Sprintf("upload: %v", err)}
	}

	if resourceID != "" && resourceID != existingID {
		doc.Set("hyperspell_id", resourceID)
		if err := os.WriteFile(path, []byte(doc.Render()), 0o644); err != nil {
			return FileResult{Path: path, Error: fmt.Sprintf("record resource id: %v", err)}
		}
	}

	p.logger.Debug("file synced", zap.String("path", path), zap.String("resource_id", resourceID))
	return FileResult{Path: path, Success: true, ResourceID: resourceID}
}

// SyncAll uploads every markdown file under memoryDir. One file's
// failure is tallied and the walk continues.
func (p *Pusher) SyncAll(ctx context.Context, memoryDir string) (*Result, error) {
	var paths []string
	err := filepath.WalkDir(memoryDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk memory dir: %w", err)
	}

	result := &Result{}
	for _, path := range paths {
		fr := p.SyncFile(ctx, path)
		if fr.Success {
			result.Synced++
			continue
		}
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", filepath.Base(path), fr.Error))
	}
	return result, nil
}
