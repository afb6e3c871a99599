// Package history archives completed turns into a DuckDB database.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"agentui/internal/session"
)

// schemaDDL holds the DuckDB schema definition.
//
//go:embed schema.sql
var schemaDDL string

// SchemaDDL returns the schema DDL used for initializing the database.
func SchemaDDL() string {
	return schemaDDL
}

// Turn is one archived prompt/answer exchange.
type Turn struct {
	ID        string
	SessionID string
	CreatedAt time.Time
	Prompt    string
	Answer    string
	Reasoning string
	Intent    string
	Model     string
	Usage     session.TokenUsage
}

// Store wraps a DuckDB connection with the transcript schema applied.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema. An
// empty path opens an in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	store, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection and applies the schema.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("history: db is nil")
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// AppendTurn archives one turn and returns its id. Missing ids and
// timestamps are filled in.
func (s *Store) AppendTurn(ctx context.Context, turn Turn) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("history: store is closed")
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.SessionID == "" {
		turn.SessionID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO turns (turn_id, session_id, created_at, prompt, answer, reasoning, intent, model, input_tokens, output_tokens, total_tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.ID,
		turn.SessionID,
		turn.CreatedAt,
		turn.Prompt,
		turn.Answer,
		turn.Reasoning,
		turn.Intent,
		turn.Model,
		turn.Usage.InputTokens,
		turn.Usage.OutputTokens,
		turn.Usage.TotalTokens,
	); err != nil {
		return "", fmt.Errorf("append turn: %w", err)
	}
	return turn.ID, nil
}

// RecentTurns returns up to limit turns, newest first.
func (s *Store) RecentTurns(ctx context.Context, limit int) ([]Turn, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history: store is closed")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT turn_id, session_id, created_at, prompt, answer, reasoning, intent, model, input_tokens, output_tokens, total_tokens
		 FROM turns
		 ORDER BY created_at DESC, turn_id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var turn Turn
		if err := rows.Scan(
			&turn.ID,
			&turn.SessionID,
			&turn.CreatedAt,
			&turn.Prompt,
			&turn.Answer,
			&turn.Reasoning,
			&turn.Intent,
			&turn.Model,
			&turn.Usage.InputTokens,
			&turn.Usage.OutputTokens,
			&turn.Usage.TotalTokens,
		); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
