package hyperspell

import "github.com/quietfold/memnet/internal/frontmatter"

// Source identifies the origin system of a remote memory.
type Source string

const (
	SourceSlack          Source = "slack"
	SourceGoogleMail     Source = "google_mail"
	SourceGoogleCalendar Source = "google_calendar"
	SourceGoogleDrive    Source = "google_drive"
	SourceNotion         Source = "notion"
	SourceBox            Source = "box"
	SourceWebCrawler     Source = "web_crawler"
	SourceCollections    Source = "collections"
)

// conversational sources carry per-message author info and get the
// chat/email summary treatment.
func (s Source) Conversational() bool {
	return s == SourceSlack || s == SourceGoogleMail
}

// Memory is one record from the remote memory listing.
type Memory struct {
	ResourceID string         `json:"resource_id"`
	Source     Source         `json:"source"`
	Title      string         `json:"title,omitempty"`
	Status     string         `json:"status,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  string         `json:"created_at,omitempty"`
}

// IsGraphEntity reports whether this record was itself produced by the
// entity sync. Legacy records stored the flag as the string "true".
func (m *Memory) IsGraphEntity() bool {
	if m.Metadata == nil {
		return false
	}
	return frontmatter.IsTrue(m.Metadata["graph_entity"])
}

// Completed reports whether the remote store finished ingesting the record.
func (m *Memory) Completed() bool {
	return m.Status == "completed"
}

// Participant is a person attached to a document or message.
type Participant struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Label renders the participant as "name <email>", using whichever parts
// are present.
func (p Participant) Label() string {
	switch {
	case p.Name != "" && p.Email != "":
		return p.Name + " <" + p.Email + ">"
	case p.Name != "":
		return p.Name
	default:
		return p.Email
	}
}

// DocumentItem is one unit of fetched content: a chat/email message, a
// document block, or a generic text item.
type DocumentItem struct {
	Type   string       `json:"type,omitempty"`
	Text   string       `json:"text,omitempty"`
	Author *Participant `json:"author,omitempty"`
	Rows   [][]string   `json:"rows,omitempty"`
}

// Document is the full content of a remote memory.
type Document struct {
	ResourceID   string         `json:"resource_id"`
	Source       Source         `json:"source"`
	Title        string         `json:"title,omitempty"`
	Participants []Participant  `json:"participants,omitempty"`
	Data         []DocumentItem `json:"data,omitempty"`
}

// SearchResult is one hit from the remote search endpoint.
type SearchResult struct {
	ResourceID string  `json:"resource_id"`
	Source     Source  `json:"source"`
	Title      string  `json:"title,omitempty"`
	Snippet    string  `json:"snippet,omitempty"`
	Score      float64 `json:"score,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

// Connection describes one connected knowledge source.
type Connection struct {
	Provider string `json:"provider"`
	Status   string `json:"status"`
}

// MemoryPage is one page of the memory listing.
type MemoryPage struct {
	Items      []Memory `json:"items"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// AddMemoryParams holds parameters for storing (or updating) a memory.
type AddMemoryParams struct {
	Text       string            `json:"text"`
	Title      string            `json:"title,omitempty"`
	Collection string            `json:"collection,omitempty"`
	ResourceID string            `json:"resource_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SearchParams holds parameters for a remote search.
type SearchParams struct {
	Query   string   `json:"query"`
	Sources []Source `json:"sources,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}
