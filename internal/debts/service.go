package debts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukapos/dukapos/internal/shared"
)

// PaymentMethodValid reports whether a settlement method is accepted.
// Debt payments are always immediate, so "deferred" is not an option here.
func PaymentMethodValid(method string) bool {
	return method == "cash" || method == "bank"
}

// RepositoryPort abstracts debt persistence for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	CreateManual(ctx context.Context, input ManualDebtInput) (Debt, error)
	Get(ctx context.Context, id int64) (Debt, error)
	Search(ctx context.Context, query string, limit int) ([]Debt, error)
	ListPayments(ctx context.Context, debtID int64) ([]Payment, error)
	ListUnsettled(ctx context.Context) ([]Debt, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// ReportCache invalidates cached report windows after a committed write.
type ReportCache interface {
	Bump(ctx context.Context) error
}

// Service implements debt settlement.
type Service struct {
	repo    RepositoryPort
	reports ReportCache
}

// NewService builds Service. reports may be nil.
func NewService(repo RepositoryPort, reports ReportCache) *Service {
	return &Service{repo: repo, reports: reports}
}

// bumpReports drops cached report windows after a write. Best effort: a
// failed bump only extends staleness until the TTL expires.
func (s *Service) bumpReports(ctx context.Context) {
	if s.reports != nil {
		_ = s.reports.Bump(ctx)
	}
}

// PayDebt appends a payment and recomputes the remaining balance inside one
// transaction. Overpayment is clamped at zero: the excess is absorbed with
// no refund record. That is long-standing shop behaviour, not a defect.
func (s *Service) PayDebt(ctx context.Context, debtID int64, amount decimal.Decimal, method string) (Settlement, error) {
	if debtID <= 0 {
		return Settlement{}, fmt.Errorf("debts: invalid debt id: %w", shared.ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return Settlement{}, fmt.Errorf("debts: payment: %w", shared.ErrInvalidAmount)
	}
	if !PaymentMethodValid(method) {
		return Settlement{}, fmt.Errorf("debts: unknown payment method %q: %w", method, shared.ErrInvalidInput)
	}

	var settlement Settlement
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		debt, err := tx.GetDebtForUpdate(ctx, debtID)
		if err != nil {
			return err
		}
		payment := Payment{DebtID: debtID, Amount: amount, PaymentMethod: method}
		if err := tx.InsertPayment(ctx, &payment); err != nil {
			return err
		}
		remaining := debt.RemainingAmount.Sub(amount)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		status := StatusPartial
		if remaining.IsZero() {
			status = StatusPaid
		}
		if err := tx.UpdateDebt(ctx, debtID, remaining, status); err != nil {
			return err
		}
		settlement = Settlement{Remaining: remaining, Status: status}
		return nil
	})
	if err != nil {
		return Settlement{}, err
	}
	s.bumpReports(ctx)
	return settlement, nil
}

// CreateManualDebt registers a debt that did not originate from a sale.
func (s *Service) CreateManualDebt(ctx context.Context, input ManualDebtInput) (Debt, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	if input.CustomerName == "" {
		return Debt{}, fmt.Errorf("debts: customer name required: %w", shared.ErrInvalidInput)
	}
	phone, err := shared.ValidatePhone(input.CustomerPhone)
	if err != nil {
		return Debt{}, fmt.Errorf("debts: customer phone %q: %w", input.CustomerPhone, err)
	}
	input.CustomerPhone = phone
	if !input.Amount.IsPositive() {
		return Debt{}, fmt.Errorf("debts: debt amount: %w", shared.ErrInvalidAmount)
	}
	debt, err := s.repo.CreateManual(ctx, input)
	if err != nil {
		return Debt{}, err
	}
	s.bumpReports(ctx)
	return debt, nil
}

// Get returns a single debt.
func (s *Service) Get(ctx context.Context, id int64) (Debt, error) {
	if id <= 0 {
		return Debt{}, fmt.Errorf("debts: invalid debt id: %w", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

// List searches debts by customer name or phone.
func (s *Service) List(ctx context.Context, query string, limit int) ([]Debt, error) {
	return s.repo.Search(ctx, strings.TrimSpace(query), limit)
}

// Payments lists the settlement history for a debt.
func (s *Service) Payments(ctx context.Context, debtID int64) ([]Payment, error) {
	if debtID <= 0 {
		return nil, fmt.Errorf("debts: invalid debt id: %w", shared.ErrInvalidInput)
	}
	if _, err := s.repo.Get(ctx, debtID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, debtID)
}

// ListUnsettled returns every debt that still carries a balance.
func (s *Service) ListUnsettled(ctx context.Context) ([]Debt, error) {
	return s.repo.ListUnsettled(ctx)
}

// MarkOverdue flips unsettled debts past their due date to OVERDUE.
func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	changed, err := s.repo.MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.bumpReports(ctx)
	}
	return changed, nil
}
