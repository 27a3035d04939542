package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/strideworks/stride/internal/domain"
)

// SQLiteConversationRepo implements ConversationRepo using a SQLite database.
type SQLiteConversationRepo struct {
	db *sql.DB
}

// NewSQLiteConversationRepo creates a new SQLiteConversationRepo.
func NewSQLiteConversationRepo(db *sql.DB) *SQLiteConversationRepo {
	return &SQLiteConversationRepo{db: db}
}

func (r *SQLiteConversationRepo) Create(ctx context.Context, c *domain.Conversation) error {
	query := `INSERT INTO conversations (id, summary, last_intent, last_agent, last_lat, last_lon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Summary,
		string(c.LastIntent),
		c.LastAgent,
		nullableFloat(c.LastLat),
		nullableFloat(c.LastLon),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}
	return nil
}

func (r *SQLiteConversationRepo) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	query := `SELECT id, summary, last_intent, last_agent, last_lat, last_lon, created_at, updated_at
		FROM conversations WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var c domain.Conversation
	var lastIntent string
	var lat, lon sql.NullFloat64
	var createdAtStr, updatedAtStr string

	err := row.Scan(&c.ID, &c.Summary, &lastIntent, &c.LastAgent, &lat, &lon, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("conversation: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}

	c.LastIntent = domain.IntentType(lastIntent)
	if lat.Valid {
		c.LastLat = &lat.Float64
	}
	if lon.Valid {
		c.LastLon = &lon.Float64
	}
	var parseErr error
	c.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	c.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &c, nil
}

func (r *SQLiteConversationRepo) Update(ctx context.Context, c *domain.Conversation) error {
	query := `UPDATE conversations
		SET summary = ?, last_intent = ?, last_agent = ?, last_lat = ?, last_lon = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Summary,
		string(c.LastIntent),
		c.LastAgent,
		nullableFloat(c.LastLat),
		nullableFloat(c.LastLon),
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating conversation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("conversation %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteConversationRepo) AppendMessage(ctx context.Context, m *domain.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting append transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Next sequence number under the transaction keeps arrival order even
	// when two requests for the same session race.
	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE conversation_id = ?`,
		m.ConversationID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("computing next message seq: %w", err)
	}
	m.Seq = next

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.ConversationID, string(m.Role), m.Content, m.Seq,
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		m.CreatedAt.Format(time.RFC3339), m.ConversationID,
	)
	if err != nil {
		return fmt.Errorf("touching conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing message append: %w", err)
	}
	committed = true
	return nil
}

func (r *SQLiteConversationRepo) ListMessages(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error) {
	query := `SELECT id, conversation_id, role, content, seq, created_at
		FROM messages WHERE conversation_id = ?
		ORDER BY seq DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var newestFirst []*domain.Message
	for rows.Next() {
		var m domain.Message
		var role, createdAtStr string
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.Seq, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		m.Role = domain.Role(role)
		m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing message created_at: %w", err)
		}
		newestFirst = append(newestFirst, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	// Reverse into chronological order.
	msgs := make([]*domain.Message, len(newestFirst))
	for i, m := range newestFirst {
		msgs[len(newestFirst)-1-i] = m
	}
	return msgs, nil
}
