package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dukapos/dukapos/internal/debts"
	"github.com/dukapos/dukapos/internal/shared"
)

// Sender delivers a chat message and returns the provider message id.
type Sender interface {
	SendChat(ctx context.Context, to, body string) (string, error)
}

// LogPort abstracts message log persistence.
type LogPort interface {
	Insert(ctx context.Context, input LogInput) (MessageLog, error)
	ListRecent(ctx context.Context, limit int) ([]MessageLog, error)
}

// DebtPort exposes the debt lookups reminders need.
type DebtPort interface {
	Get(ctx context.Context, id int64) (debts.Debt, error)
}

// Service sends WhatsApp messages and records every attempt.
type Service struct {
	logger   *slog.Logger
	sender   Sender
	logs     LogPort
	debts    DebtPort
	shopName string
	printer  *message.Printer
}

// NewService builds Service.
func NewService(logger *slog.Logger, sender Sender, logs LogPort, debts DebtPort, shopName string) *Service {
	return &Service{
		logger:   logger,
		sender:   sender,
		logs:     logs,
		debts:    debts,
		shopName: shopName,
		printer:  message.NewPrinter(language.English),
	}
}

// Send delivers a free-form message to a phone number. The attempt is
// logged whether or not the provider accepts it.
func (s *Service) Send(ctx context.Context, phone, body string) (MessageLog, error) {
	phone, err := shared.ValidatePhone(phone)
	if err != nil {
		return MessageLog{}, err
	}
	if strings.TrimSpace(body) == "" {
		return MessageLog{}, fmt.Errorf("messaging: message body is required: %w", shared.ErrInvalidInput)
	}
	return s.deliver(ctx, phone, body, 0)
}

// SendDebtReminder composes and delivers a balance reminder for the
// given debt.
func (s *Service) SendDebtReminder(ctx context.Context, debtID int64) (MessageLog, error) {
	debt, err := s.debts.Get(ctx, debtID)
	if err != nil {
		return MessageLog{}, err
	}
	if debt.Status == debts.StatusPaid {
		return MessageLog{}, fmt.Errorf("messaging: debt %d is already settled: %w", debtID, shared.ErrInvalidInput)
	}
	phone, err := shared.ValidatePhone(debt.CustomerPhone)
	if err != nil {
		return MessageLog{}, err
	}
	body := s.reminderBody(debt)
	return s.deliver(ctx, phone, body, debt.ID)
}

func (s *Service) reminderBody(debt debts.Debt) string {
	remaining := s.printer.Sprintf("%.2f", debt.RemainingAmount.InexactFloat64())
	body := s.printer.Sprintf("Hello %s, this is a friendly reminder from %s. Your outstanding balance is %s.",
		debt.CustomerName, s.shopName, remaining)
	if !debt.DueDate.IsZero() {
		body += s.printer.Sprintf(" It is due on %s.", debt.DueDate.Format(shared.DateLayout))
	}
	return body + " Thank you."
}

func (s *Service) deliver(ctx context.Context, phone, body string, debtID int64) (MessageLog, error) {
	providerID, sendErr := s.sender.SendChat(ctx, phone, body)

	status := StatusSent
	if sendErr != nil {
		status = StatusFailed
	}
	log, logErr := s.logs.Insert(ctx, LogInput{
		CustomerPhone:     phone,
		DebtID:            debtID,
		Body:              body,
		ProviderMessageID: providerID,
		Status:            status,
	})
	if logErr != nil {
		s.logger.Error("append message log", slog.Any("error", logErr), slog.String("phone", phone))
	}
	if sendErr != nil {
		return log, sendErr
	}
	if logErr != nil {
		return MessageLog{}, logErr
	}
	return log, nil
}

// Logs returns the most recent send attempts.
func (s *Service) Logs(ctx context.Context, limit int) ([]MessageLog, error) {
	return s.logs.ListRecent(ctx, limit)
}
