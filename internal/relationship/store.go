// Package relationship tracks the emotional relationship state between
// the agent and a user across sessions.
package relationship

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	baseline = 0.5
	// warmth and trust drift back toward the baseline with a 30-day
	// half-life when there are no interactions.
	decayHalfLifeDays = 30.0
	// familiarity saturates around 50 recorded interactions.
	familiaritySaturation = 50.0
)

// Sentiment deltas applied per recorded interaction.
var sentimentDeltas = map[string][2]float64{
	"positive": {0.05, 0.03},
	"negative": {-0.08, -0.05},
	"neutral":  {0.01, 0.01},
}

// State is the current relationship snapshot for one user.
type State struct {
	UserID            string     `json:"user_id"`
	Warmth            float64    `json:"warmth"`
	Trust             float64    `json:"trust"`
	Familiarity       float64    `json:"familiarity"`
	InteractionCount  int        `json:"interaction_count"`
	LastInteractionAt *time.Time `json:"last_interaction_at,omitempty"`
}

// Event is one recorded interaction.
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Sentiment   string    `json:"sentiment"`
	WarmthDelta float64   `json:"warmth_delta"`
	TrustDelta  float64   `json:"trust_delta"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordParams holds parameters for recording an interaction.
type RecordParams struct {
	UserID    string
	Sentiment string // positive, negative, or neutral
	Note      string
}

// Store persists relationship state in a local SQLite database.
type Store struct {
	db      *sql.DB
	entropy *rand.Rand
	logger  *zap.Logger
}

// NewStore opens or creates the relationship database at dbPath.
func NewStore(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  logger.With(zap.String("component", "relationship")),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS relationship_state (
		user_id             TEXT PRIMARY KEY,
		warmth              REAL NOT NULL DEFAULT 0.5,
		trust               REAL NOT NULL DEFAULT 0.5,
		interaction_count   INTEGER NOT NULL DEFAULT 0,
		last_interaction_at TEXT,
		updated_at          TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS relationship_events (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		sentiment    TEXT NOT NULL,
		warmth_delta REAL NOT NULL,
		trust_delta  REAL NOT NULL,
		note         TEXT,
		created_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_user ON relationship_events(user_id, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record applies one interaction to the user's state and appends it to
// the event log. Returns the updated (decayed) state.
func (s *Store) Record(ctx context.Context, p RecordParams) (*State, error) {
	if p.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	deltas, ok := sentimentDeltas[p.Sentiment]
	if !ok {
		return nil, fmt.Errorf("unknown sentiment %q (want positive, negative, or neutral)", p.Sentiment)
	}

	now := time.Now().UTC()
	cur, err := s.Current(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	warmth := clamp(cur.Warmth + deltas[0])
	trust := clamp(cur.Trust + deltas[1])

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO relationship_state (user_id, warmth, trust, interaction_count, last_interaction_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			warmth = excluded.warmth,
			trust = excluded.trust,
			interaction_count = interaction_count + 1,
			last_interaction_at = excluded.last_interaction_at,
			updated_at = excluded.updated_at`,
		p.UserID, warmth, trust, now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("update state: %w", err)
	}

	var note *string
	if p.Note != "" {
		note = &p.Note
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO relationship_events (id, user_id, sentiment, warmth_delta, trust_delta, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.newID(), p.UserID, p.Sentiment, deltas[0], deltas[1], note, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Debug("interaction recorded",
		zap.String("user_id", p.UserID),
		zap.String("sentiment", p.Sentiment))
	return s.Current(ctx, p.UserID)
}

// Current returns the user's relationship state with time decay applied.
// An unknown user gets the baseline state.
func (s *Store) Current(ctx context.Context, userID string) (*State, error) {
	st := &State{UserID: userID, Warmth: baseline, Trust: baseline}

	var warmth, trust float64
	var count int
	var lastAt sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT warmth, trust, interaction_count, last_interaction_at
		FROM relationship_state WHERE user_id = ?`, userID).
		Scan(&warmth, &trust, &count, &lastAt)
	if err == sql.ErrNoRows {
		return st, nil
	}
	if err != nil {
		return nil, err
	}

	st.InteractionCount = count
	st.Familiarity = familiarity(count)
	st.Warmth = warmth
	st.Trust = trust

	if lastAt.Valid {
		t, perr := time.Parse(time.RFC3339, lastAt.String)
		if perr == nil {
			st.LastInteractionAt = &t
			st.Warmth = decay(warmth, t)
			st.Trust = decay(trust, t)
		}
	}
	return st, nil
}

// History returns the most recent events for a user, newest first.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, sentiment, warmth_delta, trust_delta, note, created_at
		FROM relationship_events WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var note sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Sentiment, &e.WarmthDelta, &e.TrustDelta, &note, &createdAt); err != nil {
			return nil, err
		}
		if note.Valid {
			e.Note = note.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// decay drifts a score toward the baseline based on time since the last
// interaction.
func decay(score float64, lastInteraction time.Time) float64 {
	days := time.Since(lastInteraction).Hours() / 24.0
	if days <= 0 {
		return score
	}
	factor := math.Exp(-math.Ln2 * days / decayHalfLifeDays)
	return baseline + (score-baseline)*factor
}

// familiarity grows on a log scale with interaction count.
func familiarity(count int) float64 {
	if count <= 0 {
		return 0
	}
	f := math.Log(float64(count)+1) / math.Log(familiaritySaturation)
	if f > 1 {
		f = 1
	}
	return f
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
