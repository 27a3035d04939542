package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/strideworks/stride/internal/domain"
)

// SQLitePersonaRepo implements PersonaRepo using a SQLite database.
type SQLitePersonaRepo struct {
	db *sql.DB
}

// NewSQLitePersonaRepo creates a new SQLitePersonaRepo.
func NewSQLitePersonaRepo(db *sql.DB) *SQLitePersonaRepo {
	return &SQLitePersonaRepo{db: db}
}

func (r *SQLitePersonaRepo) Get(ctx context.Context, conversationID string) (*domain.PersonaProfile, error) {
	query := `SELECT conversation_id, level, score, tags, last_refreshed, updated_at
		FROM persona_profiles WHERE conversation_id = ?`
	row := r.db.QueryRowContext(ctx, query, conversationID)

	var p domain.PersonaProfile
	var level, tagsStr, updatedAtStr string
	var lastRefreshed sql.NullString

	err := row.Scan(&p.ConversationID, &level, &p.Score, &tagsStr, &lastRefreshed, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("persona profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning persona profile: %w", err)
	}

	p.Level = domain.Proficiency(level)
	if err := json.Unmarshal([]byte(tagsStr), &p.Tags); err != nil {
		return nil, fmt.Errorf("decoding persona tags: %w", err)
	}
	p.LastRefreshed = parseNullableTime(lastRefreshed, time.RFC3339)
	p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing persona updated_at: %w", err)
	}
	return &p, nil
}

func (r *SQLitePersonaRepo) Upsert(ctx context.Context, p *domain.PersonaProfile) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	query := `INSERT INTO persona_profiles (conversation_id, level, score, tags, last_refreshed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			level = excluded.level,
			score = excluded.score,
			tags = excluded.tags,
			last_refreshed = excluded.last_refreshed,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.ConversationID,
		string(p.Level),
		p.Score,
		marshalJSON(tags, "[]"),
		nullableTimeToString(p.LastRefreshed, time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting persona profile: %w", err)
	}
	return nil
}
