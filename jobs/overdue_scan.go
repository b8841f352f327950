package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskTypeOverdueScan marks unsettled debts past their due date.
	TaskTypeOverdueScan = "debts:overdue-scan"
)

// OverdueScanPayload carries scheduling metadata.
type OverdueScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewOverdueScanTask constructs an Asynq task for the nightly scan.
func NewOverdueScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(OverdueScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeOverdueScan, body, asynq.Queue(QueueDefault)), nil
}

// OverdueMarker flips overdue debts and reports how many changed.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// NewOverdueScanHandler processes TaskTypeOverdueScan tasks.
func NewOverdueScanHandler(marker OverdueMarker, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload OverdueScanPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		asOf := payload.ScheduledFor
		if asOf.IsZero() {
			asOf = time.Now().UTC()
		}
		changed, err := marker.MarkOverdue(ctx, asOf)
		if err != nil {
			logger.Error("overdue scan", slog.Any("error", err))
			return err
		}
		logger.Info("overdue scan finished", slog.Int64("debts_marked", changed))
		return nil
	}
}
