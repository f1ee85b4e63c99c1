package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgPool is the slice of pgxpool.Pool this store needs. pgxmock satisfies it
// too, which keeps the tests off a live database.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore persists conversations in a single jsonb-backed table. The
// summary columns mirror the payload so listing never decodes full bodies.
type PostgresStore struct {
	pool pgPool
}

// NewPostgresStore builds a store on top of an existing connection pool.
func NewPostgresStore(pool pgPool) *PostgresStore {
	if pool == nil {
		panic("conversation: connection pool cannot be nil")
	}
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

// Get loads a conversation by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Conversation, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM conversations WHERE id = $1`, id,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to load %s: %w", id, err)
	}

	var conv Conversation
	if err := json.Unmarshal(payload, &conv); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode %s: %w", id, err)
	}
	return &conv, nil
}

// Create inserts a new conversation, refusing to overwrite an existing id.
func (s *PostgresStore) Create(ctx context.Context, conv *Conversation) error {
	payload, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal %s: %w", conv.ID, err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO conversations (id, payload, scam_detected, turn_count, intelligence_count, start_time, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (id) DO NOTHING`,
		conv.ID, payload, conv.ScamDetected, conv.TurnCount,
		conv.Intelligence.TotalRecords(), conv.StartTime.UTC(),
	)
	if err != nil {
		return fmt.Errorf("conversation: failed to create %s: %w", conv.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// Append upserts the updated conversation.
func (s *PostgresStore) Append(ctx context.Context, conv *Conversation) error {
	payload, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal %s: %w", conv.ID, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO conversations (id, payload, scam_detected, turn_count, intelligence_count, start_time, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (id) DO UPDATE SET
		   payload = EXCLUDED.payload,
		   scam_detected = EXCLUDED.scam_detected,
		   turn_count = EXCLUDED.turn_count,
		   intelligence_count = EXCLUDED.intelligence_count,
		   updated_at = now()`,
		conv.ID, payload, conv.ScamDetected, conv.TurnCount,
		conv.Intelligence.TotalRecords(), conv.StartTime.UTC(),
	)
	if err != nil {
		return fmt.Errorf("conversation: failed to persist %s: %w", conv.ID, err)
	}
	return nil
}

// List reads the summary columns of every conversation.
func (s *PostgresStore) List(ctx context.Context) ([]ListItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, scam_detected, turn_count, intelligence_count, start_time
		 FROM conversations
		 ORDER BY start_time ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to list: %w", err)
	}
	defer rows.Close()

	var items []ListItem
	for rows.Next() {
		var item ListItem
		var start time.Time
		if err := rows.Scan(&item.ConversationID, &item.ScamDetected, &item.TurnCount, &item.IntelligenceCount, &start); err != nil {
			return nil, fmt.Errorf("conversation: failed to scan row: %w", err)
		}
		item.StartTime = start
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation: failed to iterate rows: %w", err)
	}
	return items, nil
}
