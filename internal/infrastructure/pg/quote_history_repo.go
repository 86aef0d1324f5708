package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"metalprice-service/internal/application"
	"metalprice-service/internal/domain"
	"metalprice-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

var _ application.QuoteHistory = (*QuoteHistoryRepo)(nil)

type QuoteHistoryRepo struct{ db *DB }

func NewQuoteHistoryRepo(db *DB) *QuoteHistoryRepo { return &QuoteHistoryRepo{db: db} }

func (r *QuoteHistoryRepo) Append(ctx context.Context, q domain.CachedQuote) error {
	const ins = `
        INSERT INTO quote_history(fetched_at, gold_price_per_gram_inr, silver_price_per_gram_inr, details)
        VALUES ($1, $2, $3, $4)`
	details, err := json.Marshal(q.Details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	log := logx.FromContext(ctx).With(
		zap.String("repo", "quote_history"),
		zap.String("operation", "Append"),
	)
	tag, err := r.db.Pool.Exec(ctx, ins, q.FetchedAt, q.Details.GoldPricePerGramInr, q.Details.SilverPricePerGramInr, details)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Debug("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

func (r *QuoteHistoryRepo) Recent(ctx context.Context, limit int) ([]domain.CachedQuote, error) {
	const q = `
        SELECT fetched_at, details
        FROM quote_history
        ORDER BY fetched_at DESC, id DESC
        LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.CachedQuote, 0, limit)
	for rows.Next() {
		var item domain.CachedQuote
		var raw []byte
		if err := rows.Scan(&item.FetchedAt, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &item.Details); err != nil {
			return nil, fmt.Errorf("decode details: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
