package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/dukapos/internal/debts"
	"github.com/dukapos/dukapos/internal/messaging"
	"github.com/dukapos/dukapos/internal/shared"
)

type fakeReminderSender struct {
	sent []int64
	err  error
}

func (s *fakeReminderSender) SendDebtReminder(ctx context.Context, debtID int64) (messaging.MessageLog, error) {
	if s.err != nil {
		return messaging.MessageLog{}, s.err
	}
	s.sent = append(s.sent, debtID)
	return messaging.MessageLog{ID: 1, DebtID: debtID, Status: messaging.StatusSent, ProviderMessageID: "msg-1"}, nil
}

type fakeMarker struct {
	asOf    time.Time
	changed int64
}

func (m *fakeMarker) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	m.asOf = asOf
	return m.changed, nil
}

type fixedUnsettled []debts.Debt

func (d fixedUnsettled) ListUnsettled(ctx context.Context) ([]debts.Debt, error) {
	return d, nil
}

func TestDebtReminderHandler(t *testing.T) {
	sender := &fakeReminderSender{}
	handler := NewDebtReminderHandler(sender, slog.Default())

	task, err := NewDebtReminderTask(DebtReminderPayload{DebtID: 7})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	require.Equal(t, []int64{7}, sender.sent)
}

func TestDebtReminderHandlerSkipsBadPayload(t *testing.T) {
	handler := NewDebtReminderHandler(&fakeReminderSender{}, slog.Default())

	task := asynq.NewTask(TaskTypeDebtReminder, []byte("{broken"))
	err := handler(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestDebtReminderHandlerPropagatesSendError(t *testing.T) {
	sender := &fakeReminderSender{err: fmt.Errorf("messaging: refused: %w", shared.ErrMessagingRejected)}
	handler := NewDebtReminderHandler(sender, slog.Default())

	task, err := NewDebtReminderTask(DebtReminderPayload{DebtID: 7})
	require.NoError(t, err)

	err = handler(context.Background(), task)
	require.ErrorIs(t, err, shared.ErrMessagingRejected)
}

func TestOverdueScanHandler(t *testing.T) {
	marker := &fakeMarker{changed: 3}
	handler := NewOverdueScanHandler(marker, slog.Default())

	at := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)
	task, err := NewOverdueScanTask(at)
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	require.Equal(t, at, marker.asOf)
}

func TestReminderSweepEnqueuesPerDebt(t *testing.T) {
	mr := miniredis.RunT(t)
	redisOpts := asynq.RedisClientOpt{Addr: mr.Addr()}

	client, err := NewClient(redisOpts)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	unsettled := fixedUnsettled{
		{ID: 1, CustomerName: "Amina", CustomerPhone: "+254700000001", RemainingAmount: decimal.NewFromInt(100)},
		{ID: 2, CustomerName: "Brian", CustomerPhone: "", RemainingAmount: decimal.NewFromInt(50)},
		{ID: 3, CustomerName: "Chao", CustomerPhone: "+254700000003", RemainingAmount: decimal.NewFromInt(75)},
	}
	handler := NewReminderSweepHandler(unsettled, client, slog.Default())

	task, err := NewReminderSweepTask(time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))

	inspector := asynq.NewInspector(redisOpts)
	defer func() { _ = inspector.Close() }()

	pending, err := inspector.ListPendingTasks(QueueDefault)
	require.NoError(t, err)
	// The debt without a phone number is skipped.
	require.Len(t, pending, 2)

	var ids []int64
	for _, info := range pending {
		var payload DebtReminderPayload
		require.NoError(t, json.Unmarshal(info.Payload, &payload))
		ids = append(ids, payload.DebtID)
	}
	require.ElementsMatch(t, []int64{1, 3}, ids)
}
