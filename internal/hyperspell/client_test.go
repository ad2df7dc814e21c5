package hyperspell

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthHeaders(t *testing.T) {
	var gotAuth, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUser = r.Header.Get("X-As-User")
		json.NewEncoder(w).Encode(map[string]any{"connections": []Connection{}})
	}))
	defer srv.Close()

	c := New("tok-123", srv.URL).WithAsUser("user-9")
	if _, err := c.ListConnections(context.Background()); err != nil {
		t.Fatalf("list connections: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
	if gotUser != "user-9" {
		t.Errorf("expected as-user header, got %q", gotUser)
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var p SearchParams
		json.NewDecoder(r.Body).Decode(&p)
		if p.Query != "deploy window" {
			t.Errorf("query not forwarded, got %q", p.Query)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []SearchResult{{ResourceID: "m1", Source: SourceSlack, Title: "deploys"}},
		})
	}))
	defer srv.Close()

	results, err := New("t", srv.URL).Search(context.Background(), SearchParams{Query: "deploy window"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ResourceID != "m1" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestAddMemoryReturnsResourceID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p AddMemoryParams
		json.NewDecoder(r.Body).Decode(&p)
		id := p.ResourceID
		if id == "" {
			id = "fresh-1"
		}
		json.NewEncoder(w).Encode(map[string]string{"resource_id": id})
	}))
	defer srv.Close()

	c := New("t", srv.URL)
	id, err := c.AddMemory(context.Background(), AddMemoryParams{Text: "hello"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id != "fresh-1" {
		t.Errorf("expected fresh-1, got %q", id)
	}

	id, err = c.AddMemory(context.Background(), AddMemoryParams{Text: "hello", ResourceID: "r7"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if id != "r7" {
		t.Errorf("update should echo the target id, got %q", id)
	}
}

func TestListMemoriesCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cursor") == "" {
			json.NewEncoder(w).Encode(MemoryPage{
				Items:      []Memory{{ResourceID: "m1", Source: SourceSlack}},
				NextCursor: "c2",
			})
			return
		}
		json.NewEncoder(w).Encode(MemoryPage{Items: []Memory{{ResourceID: "m2", Source: SourceSlack}}})
	}))
	defer srv.Close()

	c := New("t", srv.URL)
	page, err := c.ListMemories(context.Background(), "", 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.NextCursor != "c2" || page.Items[0].ResourceID != "m1" {
		t.Errorf("unexpected first page %+v", page)
	}

	page, err = c.ListMemories(context.Background(), page.NextCursor, 50)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if page.NextCursor != "" || page.Items[0].ResourceID != "m2" {
		t.Errorf("unexpected second page %+v", page)
	}
}

func TestErrorStatusSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New("t", srv.URL).Search(context.Background(), SearchParams{Query: "x"})
	if err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestIsGraphEntity(t *testing.T) {
	cases := []struct {
		meta map[string]any
		want bool
	}{
		{map[string]any{"graph_entity": true}, true},
		{map[string]any{"graph_entity": "true"}, true},
		{map[string]any{"graph_entity": false}, false},
		{map[string]any{"graph_entity": "false"}, false},
		{map[string]any{}, false},
		{nil, false},
	}
	for _, c := range cases {
		m := Memory{Metadata: c.meta}
		if got := m.IsGraphEntity(); got != c.want {
			t.Errorf("IsGraphEntity(%v): expected %v, got %v", c.meta, c.want, got)
		}
	}
}

func TestParticipantLabel(t *testing.T) {
	cases := []struct {
		p    Participant
		want string
	}{
		{Participant{Name: "Alice Chen", Email: "alice@acme.com"}, "Alice Chen <alice@acme.com>"},
		{Participant{Name: "Alice Chen"}, "Alice Chen"},
		{Participant{Email: "alice@acme.com"}, "alice@acme.com"},
		{Participant{}, ""},
	}
	for _, c := range cases {
		if got := c.p.Label(); got != c.want {
			t.Errorf("Label(%+v): expected %q, got %q", c.p, c.want, got)
		}
	}
}
