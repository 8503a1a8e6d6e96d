// Package service dispatches tenant-facing payment messages. Dispatch never
// returns an error: delivery is best-effort and failures are only logged.
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindReminder     Kind = "payment_reminder"
	KindConfirmation Kind = "payment_confirmation"
	KindOverdue      Kind = "payment_overdue"
	KindFailed       Kind = "payment_failed"
	KindCancelled    Kind = "payment_cancelled"
)

type Recipient struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone,omitempty"`
	Email    string    `json:"email,omitempty"`
}

type PaymentSummary struct {
	PaymentID   uuid.UUID       `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Type        string          `json:"type"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	DueDate     time.Time       `json:"due_date"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CheckoutURL string          `json:"checkout_url,omitempty"`
}

type Notification struct {
	Kind      Kind           `json:"kind"`
	Recipient Recipient      `json:"recipient"`
	Payment   PaymentSummary `json:"payment"`
	CreatedAt time.Time      `json:"created_at"`
}

type Notifier interface {
	Dispatch(ctx context.Context, n Notification)
}

// LogNotifier dipakai bila Kafka tidak dikonfigurasi.
type LogNotifier struct{}

func (LogNotifier) Dispatch(ctx context.Context, n Notification) {
	log.Printf("[NOTIFY] kind=%s tenant=%s payment=%s status=%s",
		n.Kind, n.Recipient.TenantID, n.Payment.PaymentID, n.Payment.Status)
}
