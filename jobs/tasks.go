// Package jobs holds background task definitions and the Asynq worker
// that runs them.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/dukapos/dukapos/internal/messaging"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeDebtReminder sends one WhatsApp reminder for a debt.
	TaskTypeDebtReminder = "debts:reminder"
)

// DebtReminderPayload identifies the debt to remind about.
type DebtReminderPayload struct {
	DebtID int64 `json:"debt_id"`
}

// NewDebtReminderTask constructs an Asynq task for a single reminder.
func NewDebtReminderTask(payload DebtReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDebtReminder, data, asynq.Queue(QueueDefault)), nil
}

// ReminderSender delivers one debt reminder.
type ReminderSender interface {
	SendDebtReminder(ctx context.Context, debtID int64) (messaging.MessageLog, error)
}

// NewDebtReminderHandler processes TaskTypeDebtReminder tasks.
func NewDebtReminderHandler(sender ReminderSender, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload DebtReminderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		log, err := sender.SendDebtReminder(ctx, payload.DebtID)
		if err != nil {
			logger.Error("debt reminder", slog.Any("error", err), slog.Int64("debt_id", payload.DebtID))
			return err
		}
		logger.Info("debt reminder sent",
			slog.Int64("debt_id", payload.DebtID),
			slog.String("provider_message_id", log.ProviderMessageID))
		return nil
	}
}
