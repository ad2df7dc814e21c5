// Package scanner finds remote memories that have not yet been through
// entity extraction and produces bounded, summarized batches of them.
package scanner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quietfold/memnet/internal/hyperspell"
	"github.com/quietfold/memnet/internal/ledger"
)

// DefaultBatchSize bounds a scan when the caller passes no size.
const DefaultBatchSize = 20

const listPageSize = 50

// Client is the slice of the remote API the scanner needs.
type Client interface {
	ListMemories(ctx context.Context, cursor string, limit int) (*hyperspell.MemoryPage, error)
	GetDocument(ctx context.Context, resourceID string, source hyperspell.Source) (*hyperspell.Document, error)
}

// ScannedMemory is one unprocessed memory ready for extraction. It is
// ephemeral: consumed by the reasoning step, never persisted.
type ScannedMemory struct {
	ResourceID string            `json:"resource_id"`
	Source     hyperspell.Source `json:"source"`
	Title      string            `json:"title,omitempty"`
	Summary    string            `json:"summary"`
}

// Scanner walks the remote memory listing and filters out records the
// ledger already covers.
type Scanner struct {
	client Client
	ledger *ledger.Manager
	logger *zap.Logger
}

// New returns a Scanner over the given client and ledger.
func New(client Client, led *ledger.Manager, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Scanner{
		client: client,
		ledger: led,
		logger: logger.With(zap.String("component", "scanner")),
	}
}

// Scan collects up to batchSize unprocessed memories in the store's own
// listing order. A record is skipped if the ledger has it, if it is
// itself a synced graph entity, or if its remote ingestion status is not
// "completed". Content is fetched per record; a fetch failure keeps the
// record in the batch with a placeholder summary. Scan never marks
// anything processed — that is Complete's job, so extraction failures
// cannot silently lose records.
func (s *Scanner) Scan(ctx context.Context, batchSize int) ([]ScannedMemory, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var batch []ScannedMemory
	cursor := ""
	for {
		page, err := s.client.ListMemories(ctx, cursor, listPageSize)
		if err != nil {
			return nil, fmt.Errorf("list memories: %w", err)
		}

		for i := range page.Items {
			mem := &page.Items[i]
			if s.ledger.IsProcessed(mem.ResourceID) {
				continue
			}
			if mem.IsGraphEntity() {
				continue
			}
			if !mem.Completed() {
				continue
			}

			batch = append(batch, ScannedMemory{
				ResourceID: mem.ResourceID,
				Source:     mem.Source,
				Title:      mem.Title,
				Summary:    s.summarize(ctx, mem),
			})
			if len(batch) >= batchSize {
				return batch, nil
			}
		}

		if page.NextCursor == "" {
			return batch, nil
		}
		cursor = page.NextCursor
	}
}

func (s *Scanner) summarize(ctx context.Context, mem *hyperspell.Memory) string {
	doc, err := s.client.GetDocument(ctx, mem.ResourceID, mem.Source)
	if err != nil {
		s.logger.Warn("content fetch failed",
			zap.String("resource_id", mem.ResourceID),
			zap.String("source", string(mem.Source)),
			zap.Error(err))
		return "(content unavailable)"
	}
	return Summarize(doc)
}
