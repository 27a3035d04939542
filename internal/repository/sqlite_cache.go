package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/strideworks/stride/internal/domain"
)

// SQLiteAnalysisCacheRepo implements AnalysisCacheRepo using a SQLite database.
// Staleness is judged by the caller; this repo only enforces the
// single-entry-per-key invariant via an upsert.
type SQLiteAnalysisCacheRepo struct {
	db *sql.DB
}

// NewSQLiteAnalysisCacheRepo creates a new SQLiteAnalysisCacheRepo.
func NewSQLiteAnalysisCacheRepo(db *sql.DB) *SQLiteAnalysisCacheRepo {
	return &SQLiteAnalysisCacheRepo{db: db}
}

func (r *SQLiteAnalysisCacheRepo) Put(ctx context.Context, a *domain.AnalysisResult) error {
	charts := a.Charts
	if charts == nil {
		charts = []domain.Chart{}
	}
	query := `INSERT INTO analysis_cache (conversation_id, intent, analysis, agent_name, charts, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id, intent) DO UPDATE SET
			analysis = excluded.analysis,
			agent_name = excluded.agent_name,
			charts = excluded.charts,
			created_at = excluded.created_at`
	_, err := r.db.ExecContext(ctx, query,
		a.ConversationID,
		string(a.Intent),
		a.Analysis,
		a.AgentName,
		marshalJSON(charts, "[]"),
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting analysis cache entry: %w", err)
	}
	return nil
}

func (r *SQLiteAnalysisCacheRepo) Get(ctx context.Context, conversationID string, intent domain.IntentType) (*domain.AnalysisResult, error) {
	query := `SELECT conversation_id, intent, analysis, agent_name, charts, created_at
		FROM analysis_cache WHERE conversation_id = ? AND intent = ?`
	row := r.db.QueryRowContext(ctx, query, conversationID, string(intent))

	var a domain.AnalysisResult
	var intentStr, chartsStr, createdAtStr string
	err := row.Scan(&a.ConversationID, &intentStr, &a.Analysis, &a.AgentName, &chartsStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("analysis cache entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning analysis cache entry: %w", err)
	}

	a.Intent = domain.IntentType(intentStr)
	if err := json.Unmarshal([]byte(chartsStr), &a.Charts); err != nil {
		return nil, fmt.Errorf("decoding cached charts: %w", err)
	}
	a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing cache created_at: %w", err)
	}
	return &a, nil
}
