package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"kostku_backend/internals/features/finance/payments/model"
	notif "kostku_backend/internals/features/notifications/service"
	tenantModel "kostku_backend/internals/features/tenants/tenants/model"
)

type TenantLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*tenantModel.Tenant, error)
}

// paymentNotifier menyusun pesan notifikasi dari payment + kontak tenant.
// Tidak pernah mengembalikan error ke pemanggil.
type paymentNotifier struct {
	tenants  TenantLookup
	notifier notif.Notifier
}

func (n paymentNotifier) send(ctx context.Context, kind notif.Kind, p *model.Payment) {
	if n.notifier == nil || p == nil {
		return
	}
	rcpt := notif.Recipient{TenantID: p.PaymentTenantID}
	if n.tenants != nil {
		if t, err := n.tenants.FindByID(ctx, p.PaymentTenantID); err != nil {
			log.Printf("[NOTIFY] tenant %s lookup failed: %v", p.PaymentTenantID, err)
		} else {
			rcpt.Name = t.TenantFullName
			rcpt.Phone = t.ContactPhone()
			rcpt.Email = t.ContactEmail()
		}
	}

	summary := notif.PaymentSummary{
		PaymentID: p.PaymentID,
		Amount:    p.PaymentAmount,
		Currency:  p.PaymentCurrency,
		Type:      string(p.PaymentType),
		Method:    string(p.PaymentMethod),
		Status:    string(p.PaymentStatus),
		DueDate:   p.PaymentDueDate,
		PaidAt:    p.PaymentPaidAt,
	}
	if p.PaymentCheckoutURL != nil {
		summary.CheckoutURL = *p.PaymentCheckoutURL
	}

	n.notifier.Dispatch(ctx, notif.Notification{
		Kind:      kind,
		Recipient: rcpt,
		Payment:   summary,
		CreatedAt: time.Now().UTC(),
	})
}

// statusChanged dipanggil hanya bila transisi benar-benar terjadi.
func (n paymentNotifier) statusChanged(ctx context.Context, p *model.Payment) {
	switch p.PaymentStatus {
	case model.PaymentStatusPaid:
		n.send(ctx, notif.KindConfirmation, p)
	case model.PaymentStatusOverdue:
		n.send(ctx, notif.KindOverdue, p)
	case model.PaymentStatusFailed:
		n.send(ctx, notif.KindFailed, p)
	case model.PaymentStatusCancelled:
		n.send(ctx, notif.KindCancelled, p)
	}
}
