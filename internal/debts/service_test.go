package debts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/dukapos/internal/shared"
)

type memoryDebtRepo struct {
	debts    map[int64]*Debt
	payments []Payment
	nextID   int64
}

func newMemoryDebtRepo() *memoryDebtRepo {
	return &memoryDebtRepo{debts: make(map[int64]*Debt)}
}

func (r *memoryDebtRepo) seed(amount int64, phone string) *Debt {
	r.nextID++
	d := &Debt{
		ID:              r.nextID,
		CustomerName:    "Amina",
		CustomerPhone:   phone,
		OriginalAmount:  decimal.NewFromInt(amount),
		RemainingAmount: decimal.NewFromInt(amount),
		Status:          StatusOpen,
		CreatedAt:       time.Now(),
	}
	r.debts[d.ID] = d
	return d
}

func (r *memoryDebtRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryDebtTx{repo: r})
}

func (r *memoryDebtRepo) CreateManual(ctx context.Context, input ManualDebtInput) (Debt, error) {
	r.nextID++
	d := &Debt{
		ID:              r.nextID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		OriginalAmount:  input.Amount,
		RemainingAmount: input.Amount,
		DueDate:         input.DueDate,
		Status:          StatusOpen,
		CreatedAt:       time.Now(),
	}
	r.debts[d.ID] = d
	return *d, nil
}

func (r *memoryDebtRepo) Get(ctx context.Context, id int64) (Debt, error) {
	d, ok := r.debts[id]
	if !ok {
		return Debt{}, fmt.Errorf("debts: debt %d: %w", id, shared.ErrNotFound)
	}
	return *d, nil
}

func (r *memoryDebtRepo) Search(ctx context.Context, query string, limit int) ([]Debt, error) {
	result := []Debt{}
	for _, d := range r.debts {
		result = append(result, *d)
	}
	return result, nil
}

func (r *memoryDebtRepo) ListPayments(ctx context.Context, debtID int64) ([]Payment, error) {
	result := []Payment{}
	for _, p := range r.payments {
		if p.DebtID == debtID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *memoryDebtRepo) ListUnsettled(ctx context.Context) ([]Debt, error) {
	result := []Debt{}
	for _, d := range r.debts {
		if d.RemainingAmount.IsPositive() {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (r *memoryDebtRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var changed int64
	for _, d := range r.debts {
		if (d.Status == StatusOpen || d.Status == StatusPartial) &&
			!d.DueDate.IsZero() && d.DueDate.Before(asOf) && d.RemainingAmount.IsPositive() {
			d.Status = StatusOverdue
			changed++
		}
	}
	return changed, nil
}

type memoryDebtTx struct {
	repo *memoryDebtRepo
}

func (t *memoryDebtTx) GetDebtForUpdate(ctx context.Context, id int64) (Debt, error) {
	return t.repo.Get(ctx, id)
}

func (t *memoryDebtTx) InsertPayment(ctx context.Context, payment *Payment) error {
	payment.ID = int64(len(t.repo.payments) + 1)
	payment.CreatedAt = time.Now()
	t.repo.payments = append(t.repo.payments, *payment)
	return nil
}

func (t *memoryDebtTx) UpdateDebt(ctx context.Context, id int64, remaining decimal.Decimal, status Status) error {
	d, ok := t.repo.debts[id]
	if !ok {
		return fmt.Errorf("debts: debt %d: %w", id, shared.ErrNotFound)
	}
	d.RemainingAmount = remaining
	d.Status = status
	return nil
}

func TestPayDebtValidation(t *testing.T) {
	repo := newMemoryDebtRepo()
	repo.seed(40, "+254700000001")
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.PayDebt(ctx, 0, decimal.NewFromInt(10), "cash")
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.PayDebt(ctx, 1, decimal.Zero, "cash")
	require.ErrorIs(t, err, shared.ErrInvalidAmount)

	_, err = svc.PayDebt(ctx, 1, decimal.NewFromInt(10), "deferred")
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.PayDebt(ctx, 99, decimal.NewFromInt(10), "cash")
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.Empty(t, repo.payments)
}

func TestPayDebtPartialThenSettled(t *testing.T) {
	repo := newMemoryDebtRepo()
	repo.seed(40, "+254700000001")
	svc := NewService(repo, nil)
	ctx := context.Background()

	settlement, err := svc.PayDebt(ctx, 1, decimal.NewFromInt(30), "cash")
	require.NoError(t, err)
	require.True(t, settlement.Remaining.Equal(decimal.NewFromInt(10)))
	require.Equal(t, StatusPartial, settlement.Status)

	settlement, err = svc.PayDebt(ctx, 1, decimal.NewFromInt(20), "bank")
	require.NoError(t, err)
	require.True(t, settlement.Remaining.IsZero())
	require.Equal(t, StatusPaid, settlement.Status)

	// Both payments stay in the append-only log even though the second
	// overshot the balance.
	payments, err := svc.Payments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.True(t, payments[1].Amount.Equal(decimal.NewFromInt(20)))
}

func TestPayDebtOverpaymentClampsAtZero(t *testing.T) {
	repo := newMemoryDebtRepo()
	repo.seed(40, "+254700000001")
	svc := NewService(repo, nil)
	ctx := context.Background()

	settlement, err := svc.PayDebt(ctx, 1, decimal.NewFromInt(100), "cash")
	require.NoError(t, err)
	require.True(t, settlement.Remaining.IsZero())
	require.Equal(t, StatusPaid, settlement.Status)

	// A further payment still records but the balance stays at zero.
	settlement, err = svc.PayDebt(ctx, 1, decimal.NewFromInt(5), "cash")
	require.NoError(t, err)
	require.True(t, settlement.Remaining.IsZero())
	require.Equal(t, StatusPaid, settlement.Status)
	require.Len(t, repo.payments, 2)
}

func TestCreateManualDebtValidation(t *testing.T) {
	repo := newMemoryDebtRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateManualDebt(ctx, ManualDebtInput{CustomerName: " ", CustomerPhone: "+254700000001", Amount: decimal.NewFromInt(50)})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.CreateManualDebt(ctx, ManualDebtInput{CustomerName: "Amina", CustomerPhone: "0712345678", Amount: decimal.NewFromInt(50)})
	require.ErrorIs(t, err, shared.ErrInvalidPhone)

	_, err = svc.CreateManualDebt(ctx, ManualDebtInput{CustomerName: "Amina", CustomerPhone: "+254700000001", Amount: decimal.Zero})
	require.ErrorIs(t, err, shared.ErrInvalidAmount)

	debt, err := svc.CreateManualDebt(ctx, ManualDebtInput{CustomerName: "Amina", CustomerPhone: " +254700000001 ", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	require.Equal(t, "+254700000001", debt.CustomerPhone)
	require.Equal(t, StatusOpen, debt.Status)
	require.True(t, debt.RemainingAmount.Equal(debt.OriginalAmount))
}

func TestMarkOverdueFlipsOnlyDueUnsettled(t *testing.T) {
	repo := newMemoryDebtRepo()
	past := repo.seed(40, "+254700000001")
	past.DueDate = time.Now().Add(-48 * time.Hour)
	future := repo.seed(60, "+254700000002")
	future.DueDate = time.Now().Add(48 * time.Hour)
	settled := repo.seed(80, "+254700000003")
	settled.DueDate = time.Now().Add(-48 * time.Hour)
	settled.RemainingAmount = decimal.Zero
	settled.Status = StatusPaid

	svc := NewService(repo, nil)

	changed, err := svc.MarkOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, changed)
	require.Equal(t, StatusOverdue, repo.debts[past.ID].Status)
	require.Equal(t, StatusOpen, repo.debts[future.ID].Status)
	require.Equal(t, StatusPaid, repo.debts[settled.ID].Status)
}

type countingBumper struct {
	calls int
}

func (b *countingBumper) Bump(ctx context.Context) error {
	b.calls++
	return nil
}

func TestDebtWritesInvalidateReportCache(t *testing.T) {
	repo := newMemoryDebtRepo()
	repo.seed(40, "+254700000001")
	bumper := &countingBumper{}
	svc := NewService(repo, bumper)
	ctx := context.Background()

	_, err := svc.PayDebt(ctx, 1, decimal.NewFromInt(10), "cash")
	require.NoError(t, err)
	require.Equal(t, 1, bumper.calls)

	_, err = svc.CreateManualDebt(ctx, ManualDebtInput{CustomerName: "Amina", CustomerPhone: "+254700000002", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	require.Equal(t, 2, bumper.calls)

	// A rejected payment leaves the cache untouched.
	_, err = svc.PayDebt(ctx, 1, decimal.Zero, "cash")
	require.ErrorIs(t, err, shared.ErrInvalidAmount)
	require.Equal(t, 2, bumper.calls)
}
