package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"kostku_backend/internals/features/finance/payments/gateway"
	"kostku_backend/internals/features/finance/payments/model"
	notif "kostku_backend/internals/features/notifications/service"
	"kostku_backend/internals/helpers/apperr"
)

// WebhookService = reconciler: verifikasi → catat event → cari payment →
// map status → transisi bersyarat (+ promosi billing) → notifikasi bila berubah.
type WebhookService struct {
	Store    *PaymentStore
	Gateways *gateway.Registry
	notify   paymentNotifier
}

func NewWebhookService(store *PaymentStore, gateways *gateway.Registry, tenants TenantLookup, notifier notif.Notifier) *WebhookService {
	return &WebhookService{
		Store:    store,
		Gateways: gateways,
		notify:   paymentNotifier{tenants: tenants, notifier: notifier},
	}
}

type WebhookResult struct {
	Ignored        bool
	PaymentID      uuid.UUID
	Status         model.PaymentStatus
	Changed        bool
	BillingSettled bool
}

func (s *WebhookService) HandleWebhook(ctx context.Context, provider model.PaymentMethod, payload []byte, header func(string) string) (*WebhookResult, error) {
	verifier, err := s.Gateways.Verifier(provider)
	if err != nil {
		return nil, apperr.NotFound("no webhook for provider %q", provider)
	}

	n, err := verifier.ParseWebhook(payload, header)
	switch {
	case err == nil:
	case errors.Is(err, gateway.ErrIgnoredEvent):
		return &WebhookResult{Ignored: true}, nil
	case errors.Is(err, gateway.ErrInvalidSignature):
		log.Printf("[WEBHOOK] invalid signature provider=%s: %v", provider, err)
		return nil, apperr.Wrap(apperr.KindAuthenticationFailed, err, "invalid signature")
	case errors.Is(err, gateway.ErrMalformedPayload):
		log.Printf("[WEBHOOK] malformed payload provider=%s: %v", provider, err)
		return nil, apperr.Wrap(apperr.KindValidation, err, "malformed payload")
	default:
		return nil, apperr.Internal(err, "parse webhook")
	}

	ev := s.recordEvent(ctx, n)

	p, err := s.lookup(ctx, n)
	if err != nil {
		log.Printf("[WEBHOOK] payment lookup failed provider=%s external=%s order=%s signal=%s: %v",
			n.Provider, n.ExternalID, n.OrderID, n.Signal, err)
		s.markEvent(ctx, ev, model.GatewayEventStatusFailed, nil, err.Error())
		return nil, err
	}

	target := MapGatewaySignal(n.Signal)
	if !KnownGatewaySignal(n.Signal) {
		log.Printf("[WEBHOOK] unknown signal provider=%s external=%s signal=%s → %s",
			n.Provider, n.ExternalID, n.Signal, target)
	}

	signal := n.Signal
	res, err := s.Store.ApplyTransition(ctx, p.PaymentID, Transition{
		To:            target,
		PaidAt:        n.EventTime,
		GatewayStatus: &signal,
	})
	if err != nil {
		log.Printf("[WEBHOOK] apply failed provider=%s external=%s signal=%s: %v", n.Provider, n.ExternalID, n.Signal, err)
		s.markEvent(ctx, ev, model.GatewayEventStatusFailed, &p.PaymentID, err.Error())
		return nil, err
	}

	current := res.Payment.PaymentStatus
	switch {
	case res.Changed:
		log.Printf("[WEBHOOK] payment=%s %s -> %s provider=%s signal=%s billing_settled=%v",
			p.PaymentID, res.From, current, n.Provider, n.Signal, res.BillingSettled)
		s.notify.statusChanged(ctx, res.Payment)
		s.markEvent(ctx, ev, model.GatewayEventStatusProcessed, &p.PaymentID, "")
	case target == model.PaymentStatusPaid && current.IsTerminal() && current != model.PaymentStatusPaid:
		// uang diterima gateway tapi payment sudah ditutup: rekonsiliasi manual
		msg := fmt.Sprintf("paid signal for %s payment, needs manual reconciliation", current)
		log.Printf("[WEBHOOK] %s payment=%s provider=%s external=%s order=%s signal=%s",
			msg, p.PaymentID, n.Provider, n.ExternalID, n.OrderID, n.Signal)
		s.markEvent(ctx, ev, model.GatewayEventStatusFailed, &p.PaymentID, msg)
	default:
		s.markEvent(ctx, ev, model.GatewayEventStatusIgnored, &p.PaymentID, "")
	}

	return &WebhookResult{
		PaymentID:      p.PaymentID,
		Status:         current,
		Changed:        res.Changed,
		BillingSettled: res.BillingSettled,
	}, nil
}

// lookup: correlation id dulu; bila tidak ada, pakai order id (payment id kita)
// untuk payment orphan yang belum sempat menyimpan correlation.
func (s *WebhookService) lookup(ctx context.Context, n *gateway.Notification) (*model.Payment, error) {
	p, err := s.Store.FindByExternalID(ctx, n.Provider, n.ExternalID)
	if err == nil || !apperr.Is(err, apperr.KindNotFound) {
		return p, err
	}

	id, perr := uuid.Parse(n.OrderID)
	if perr != nil {
		return nil, err
	}
	orphan, ferr := s.Store.FindByID(ctx, id)
	if ferr != nil || orphan.PaymentMethod != n.Provider || orphan.HasCorrelation() {
		return nil, err
	}
	if _, aerr := s.Store.AttachCorrelation(ctx, orphan.PaymentID, n.ExternalID); aerr != nil {
		return nil, aerr
	}
	ext := n.ExternalID
	orphan.PaymentExternalID = &ext
	log.Printf("[WEBHOOK] orphan payment=%s correlated to %s", orphan.PaymentID, ext)
	return orphan, nil
}

func (s *WebhookService) recordEvent(ctx context.Context, n *gateway.Notification) *model.PaymentGatewayEvent {
	ev := &model.PaymentGatewayEvent{
		GatewayEventProvider:   n.Provider,
		GatewayEventExternalID: n.ExternalID,
		GatewayEventSignal:     n.Signal,
		GatewayEventStatus:     model.GatewayEventStatusReceived,
		GatewayEventOccurredAt: n.EventTime,
	}
	if n.EventType != "" {
		et := n.EventType
		ev.GatewayEventType = &et
	}
	if n.Signature != "" {
		sig := n.Signature
		ev.GatewayEventSignature = &sig
	}
	if json.Valid(n.Payload) {
		ev.GatewayEventPayload = datatypes.JSON(n.Payload)
	}
	if err := s.Store.RecordEvent(ctx, ev); err != nil {
		log.Printf("[WEBHOOK] audit insert failed provider=%s external=%s: %v", n.Provider, n.ExternalID, err)
		return nil
	}
	return ev
}

func (s *WebhookService) markEvent(ctx context.Context, ev *model.PaymentGatewayEvent, st model.GatewayEventStatus, paymentID *uuid.UUID, msg string) {
	if err := s.Store.MarkEvent(ctx, ev, st, paymentID, msg); err != nil {
		log.Printf("[WEBHOOK] audit update failed: %v", err)
	}
}
