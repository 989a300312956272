package repository

import (
	"context"
	"fmt"

	"wikisearch/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type QueryLogRepository struct {
	db *pgxpool.Pool
}

func NewQueryLogRepository(db *pgxpool.Pool) domain.QueryLogRepository {
	return &QueryLogRepository{db: db}
}

func (r *QueryLogRepository) Insert(ctx context.Context, entry *domain.QueryLogEntry) error {
	query := `
		INSERT INTO query_log (id, query, lang, mode, top_n, result_count, answer_chars, elapsed_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.Query,
		entry.Lang,
		string(entry.Mode),
		entry.TopN,
		entry.ResultCount,
		entry.AnswerChars,
		entry.ElapsedMs,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert query log entry: %w", err)
	}
	return nil
}
