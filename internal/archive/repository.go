// Package archive persists completed interview reports for later review.
// Live sessions never touch the database; only the final report is stored.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepvoice/backend/internal/models"
)

// Repository handles report persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a reports repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores one archived report.
func (r *Repository) Insert(ctx context.Context, rec *models.ArchivedReport) error {
	body, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	const query = `INSERT INTO reports
		(id, session_id, candidate_name, role, experience, duration_seconds, avg_score, total_questions, report)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		rec.SessionID, rec.CandidateName, rec.Role, rec.Experience,
		rec.DurationSeconds, rec.AverageScore, rec.TotalQuestions, body,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// ListRecent returns the most recently archived reports, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.ArchivedReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `SELECT id, session_id, candidate_name, role, experience,
		duration_seconds, avg_score, total_questions, report, created_at
		FROM reports ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ArchivedReport
	for rows.Next() {
		var rec models.ArchivedReport
		var body []byte
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.CandidateName, &rec.Role, &rec.Experience,
			&rec.DurationSeconds, &rec.AverageScore, &rec.TotalQuestions, &body, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &rec.Report); err != nil {
			return nil, fmt.Errorf("unmarshal report %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
