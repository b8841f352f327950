package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dukapos/dukapos/internal/debts"
)

const (
	// TaskTypeReminderSweep fans out one reminder task per unsettled debt.
	TaskTypeReminderSweep = "debts:reminder-sweep"
)

// ReminderSweepPayload carries scheduling metadata.
type ReminderSweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewReminderSweepTask constructs the daily sweep task.
func NewReminderSweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ReminderSweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReminderSweep, body, asynq.Queue(QueueDefault)), nil
}

// UnsettledLister returns debts that still carry a balance.
type UnsettledLister interface {
	ListUnsettled(ctx context.Context) ([]debts.Debt, error)
}

// NewReminderSweepHandler enqueues one reminder task per unsettled
// debt. Debts without a usable phone number are skipped here; the
// per-debt handler validates again before sending.
func NewReminderSweepHandler(lister UnsettledLister, client *Client, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ReminderSweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		unsettled, err := lister.ListUnsettled(ctx)
		if err != nil {
			logger.Error("reminder sweep", slog.Any("error", err))
			return err
		}
		enqueued := 0
		for _, debt := range unsettled {
			if debt.CustomerPhone == "" {
				continue
			}
			if _, err := client.EnqueueDebtReminder(ctx, DebtReminderPayload{DebtID: debt.ID}); err != nil {
				logger.Error("enqueue debt reminder", slog.Any("error", err), slog.Int64("debt_id", debt.ID))
				continue
			}
			enqueued++
		}
		logger.Info("reminder sweep finished",
			slog.Int("debts_unsettled", len(unsettled)),
			slog.Int("reminders_enqueued", enqueued))
		return nil
	}
}
