// Package recall assembles relevant remote memories into a budgeted
// context block for injection before an agent turn.
package recall

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quietfold/memnet/internal/hyperspell"
)

// Client is the slice of the remote API recall needs.
type Client interface {
	Search(ctx context.Context, p hyperspell.SearchParams) ([]hyperspell.SearchResult, error)
}

// Params holds parameters for context assembly.
type Params struct {
	Query  string
	Budget int // max tokens in output (rough proxy: 1 token ≈ 4 chars)
}

// Item is one scored memory included in the context.
type Item struct {
	ResourceID string  `json:"resource_id"`
	Source     string  `json:"source"`
	Title      string  `json:"title,omitempty"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	Excerpt    bool    `json:"excerpt,omitempty"`
}

// Result is the assembled context response.
type Result struct {
	Budget int    `json:"budget"`
	Used   int    `json:"used"`
	Items  []Item `json:"items"`
}

// Assembler searches the remote store and packs results into a budget.
type Assembler struct {
	client Client
	logger *zap.Logger
}

// New returns an Assembler over the given client.
func New(client Client, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Assembler{
		client: client,
		logger: logger.With(zap.String("component", "recall")),
	}
}

// Assemble searches, re-scores results client-side, and greedily packs
// them into the token budget. The last item that does not fit whole is
// excerpted on a block boundary when enough budget remains.
func (a *Assembler) Assemble(ctx context.Context, p Params) (*Result, error) {
	budget := p.Budget
	if budget <= 0 {
		budget = 4000
	}
	charBudget := budget * 4

	results, err := a.client.Search(ctx, hyperspell.SearchParams{
		Query: p.Query,
		Limit: 50,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if len(results) == 0 {
		return &Result{Budget: budget, Items: []Item{}}, nil
	}

	queryVec := termVector(p.Query)
	now := time.Now()

	type scored struct {
		result hyperspell.SearchResult
		score  float64
	}
	var candidates []scored
	for _, r := range results {
		// Relevance: term-vector cosine between query and snippet,
		// blended with the remote score when the API provides one.
		relevance := cosine(queryVec, termVector(r.Title+" "+r.Snippet))
		if r.Score > 0 {
			relevance = (relevance + r.Score) / 2
		}

		// Recency: exponential decay, half-life of 7 days.
		recency := 0.5
		if t, perr := time.Parse(time.RFC3339, r.CreatedAt); perr == nil {
			age := now.Sub(t).Hours() / 24.0
			recency = math.Exp(-0.1 * age)
		}

		score := relevance*0.7 + recency*0.3
		candidates = append(candidates, scored{result: r, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	result := &Result{Budget: budget, Items: []Item{}}
	used := 0
	for _, c := range candidates {
		content := strings.TrimSpace(c.result.Snippet)
		if content == "" {
			continue
		}

		item := Item{
			ResourceID: c.result.ResourceID,
			Source:     string(c.result.Source),
			Title:      c.result.Title,
			Score:      math.Round(c.score*100) / 100,
		}

		if used+len(content) <= charBudget {
			item.Content = content
			result.Items = append(result.Items, item)
			used += len(content)
			continue
		}

		if remaining := charBudget - used; remaining >= 100 {
			item.Content = excerpt(content, remaining)
			item.Excerpt = true
			result.Items = append(result.Items, item)
			used += len(item.Content)
		}
		break
	}

	result.Used = used / 4
	return result, nil
}

// RenderBlock formats a result as the text block injected ahead of an
// agent turn.
func RenderBlock(r *Result) string {
	if len(r.Items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Relevant context from connected sources:\n")
	for _, item := range r.Items {
		label := item.Title
		if label == "" {
			label = item.ResourceID
		}
		b.WriteString(fmt.Sprintf("\n[%s] %s\n%s\n", item.Source, label, item.Content))
	}
	return b.String()
}
