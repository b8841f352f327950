package expenses

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukapos/dukapos/internal/shared"
)

// RepositoryPort abstracts expense persistence.
type RepositoryPort interface {
	Insert(ctx context.Context, input RecordInput) (Expense, error)
	ListRecent(ctx context.Context, limit int) ([]Expense, error)
}

// ReportCache invalidates cached report windows after a committed write.
type ReportCache interface {
	Bump(ctx context.Context) error
}

// Service validates and records expenses.
type Service struct {
	repo    RepositoryPort
	reports ReportCache
}

// NewService builds Service. reports may be nil.
func NewService(repo RepositoryPort, reports ReportCache) *Service {
	return &Service{repo: repo, reports: reports}
}

// Record appends an expense after validation.
func (s *Service) Record(ctx context.Context, input RecordInput) (Expense, error) {
	input.Category = strings.TrimSpace(input.Category)
	input.Note = strings.TrimSpace(input.Note)
	if input.Category == "" {
		return Expense{}, fmt.Errorf("expenses: category is required: %w", shared.ErrInvalidInput)
	}
	if !input.Amount.IsPositive() {
		return Expense{}, fmt.Errorf("expenses: amount must be greater than zero: %w", shared.ErrInvalidAmount)
	}
	expense, err := s.repo.Insert(ctx, input)
	if err != nil {
		return Expense{}, err
	}
	if s.reports != nil {
		// Best effort; a stale window expires with the cache TTL.
		_ = s.reports.Bump(ctx)
	}
	return expense, nil
}

// ListRecent returns the latest expenses.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Expense, error) {
	return s.repo.ListRecent(ctx, limit)
}
