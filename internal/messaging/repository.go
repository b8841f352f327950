package messaging

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists message logs in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends a message log row. Logs are never updated or deleted.
func (r *Repository) Insert(ctx context.Context, input LogInput) (MessageLog, error) {
	var log MessageLog
	err := r.pool.QueryRow(ctx, `INSERT INTO message_logs (customer_phone, debt_id, body, provider_message_id, status)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, customer_phone, COALESCE(debt_id, 0), body, provider_message_id, status, created_at`,
		input.CustomerPhone, nullID(input.DebtID), input.Body, input.ProviderMessageID, input.Status).
		Scan(&log.ID, &log.CustomerPhone, &log.DebtID, &log.Body, &log.ProviderMessageID, &log.Status, &log.CreatedAt)
	if err != nil {
		return MessageLog{}, fmt.Errorf("messaging: insert log: %w", err)
	}
	return log, nil
}

// ListRecent returns the latest message logs, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]MessageLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `SELECT id, customer_phone, COALESCE(debt_id, 0), body, provider_message_id, status, created_at
FROM message_logs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("messaging: list logs: %w", err)
	}
	defer rows.Close()

	result := []MessageLog{}
	for rows.Next() {
		var log MessageLog
		if err := rows.Scan(&log.ID, &log.CustomerPhone, &log.DebtID, &log.Body, &log.ProviderMessageID, &log.Status, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("messaging: scan log: %w", err)
		}
		result = append(result, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("messaging: list logs: %w", err)
	}
	return result, nil
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
