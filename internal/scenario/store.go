package scenario

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when no scenario exists under the given id.
var ErrNotFound = errors.New("scenario not found")

// Store persists trainer-authored custom scenarios in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects, pings and applies the schema.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Save inserts or replaces a scenario and returns its id.
func (s *Store) Save(ctx context.Context, sc Scenario) (string, error) {
	sc = sc.Normalized()
	if sc.ID == "" {
		sc.ID = uuid.New().String()
	}
	data, err := json.Marshal(sc)
	if err != nil {
		return "", fmt.Errorf("marshal scenario: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO custom_scenarios (id, title, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, data = EXCLUDED.data`,
		sc.ID, sc.Title, data,
	)
	if err != nil {
		return "", fmt.Errorf("upsert scenario: %w", err)
	}
	return sc.ID, nil
}

// Get loads one scenario by id.
func (s *Store) Get(ctx context.Context, id string) (Scenario, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM custom_scenarios WHERE id = $1`, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return Scenario{}, ErrNotFound
	}
	if err != nil {
		return Scenario{}, fmt.Errorf("query scenario: %w", err)
	}
	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("unmarshal scenario: %w", err)
	}
	sc.ID = id
	return sc.Normalized(), nil
}

// List returns all scenarios, newest first.
func (s *Store) List(ctx context.Context) ([]Scenario, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, data FROM custom_scenarios ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	var out []Scenario
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan scenario row: %w", err)
		}
		var sc Scenario
		if err := json.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("unmarshal scenario %s: %w", id, err)
		}
		sc.ID = id
		out = append(out, sc.Normalized())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenario rows: %w", err)
	}
	return out, nil
}

// Delete removes a scenario by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM custom_scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
