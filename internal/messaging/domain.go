package messaging

import "time"

// LogStatus marks whether a send attempt reached the provider.
type LogStatus string

const (
	// StatusSent means the provider accepted the message.
	StatusSent LogStatus = "SENT"
	// StatusFailed means the attempt was rejected or never delivered.
	StatusFailed LogStatus = "FAILED"
)

// MessageLog is an append-only record of one WhatsApp send attempt.
type MessageLog struct {
	ID                int64     `json:"id"`
	CustomerPhone     string    `json:"customer_phone"`
	DebtID            int64     `json:"debt_id,omitempty"`
	Body              string    `json:"body"`
	ProviderMessageID string    `json:"provider_message_id"`
	Status            LogStatus `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// LogInput describes a log entry to append. DebtID is zero for
// messages not tied to a debt.
type LogInput struct {
	CustomerPhone     string
	DebtID            int64
	Body              string
	ProviderMessageID string
	Status            LogStatus
}
