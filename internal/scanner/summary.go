package scanner

import (
	"strings"

	"github.com/quietfold/memnet/internal/hyperspell"
)

const (
	maxMessages     = 5
	messageTruncate = 200
	maxBlocks       = 10
	blockTruncate   = 300
	summaryCap      = 1000
)

// Summarize renders a fetched document into compact text for the
// extraction step. Conversational sources get a message digest plus a
// sender roster, Notion gets block-aware rendering, everything else is a
// plain text concatenation. The result is capped at summaryCap characters.
func Summarize(doc *hyperspell.Document) string {
	var sections []string

	if line := participantsLine(doc.Participants); line != "" {
		sections = append(sections, line)
	}

	switch {
	case doc.Source.Conversational():
		sections = append(sections, conversationSummary(doc)...)
	case doc.Source == hyperspell.SourceNotion:
		sections = append(sections, blockSummary(doc))
	default:
		sections = append(sections, textSummary(doc))
	}

	summary := strings.TrimSpace(strings.Join(sections, "\n"))
	return truncate(summary, summaryCap)
}

func participantsLine(ps []hyperspell.Participant) string {
	if len(ps) == 0 {
		return ""
	}
	var labels []string
	for _, p := range ps {
		if l := p.Label(); l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return ""
	}
	return "Participants: " + strings.Join(labels, ", ")
}

// conversationSummary digests chat and email content: up to maxMessages
// bodies, each truncated, plus a deduplicated sender roster.
func conversationSummary(doc *hyperspell.Document) []string {
	var messages []string
	var senders []string
	seen := map[string]bool{}

	for _, item := range doc.Data {
		if item.Author != nil {
			label := item.Author.Label()
			if label != "" && !seen[label] {
				seen[label] = true
				senders = append(senders, label)
			}
		}
		if len(messages) < maxMessages && strings.TrimSpace(item.Text) != "" {
			messages = append(messages, "- "+truncate(strings.TrimSpace(item.Text), messageTruncate))
		}
	}

	var sections []string
	if len(senders) > 0 {
		sections = append(sections, "Senders: "+strings.Join(senders, ", "))
	}
	if len(messages) > 0 {
		sections = append(sections, "Messages:\n"+strings.Join(messages, "\n"))
	}
	return sections
}

// blockSummary renders the first maxBlocks blocks of a structured
// document, keeping heading structure visible and showing only the
// header row of tables.
func blockSummary(doc *hyperspell.Document) string {
	var parts []string
	for i, item := range doc.Data {
		if i >= maxBlocks {
			break
		}
		switch {
		case strings.HasPrefix(item.Type, "heading"):
			parts = append(parts, "## "+strings.TrimSpace(item.Text))
		case len(item.Rows) > 0:
			parts = append(parts, strings.Join(item.Rows[0], " | "))
		case strings.TrimSpace(item.Text) != "":
			parts = append(parts, truncate(strings.TrimSpace(item.Text), blockTruncate))
		}
	}
	return strings.Join(parts, "\n")
}

func textSummary(doc *hyperspell.Document) string {
	var parts []string
	for i, item := range doc.Data {
		if i >= maxBlocks {
			break
		}
		if t := strings.TrimSpace(item.Text); t != "" {
			parts = append(parts, truncate(t, blockTruncate))
		}
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
