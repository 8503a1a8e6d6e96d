package service

import (
	"strings"

	"kostku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Taksonomi status gateway → status internal
   Satu tabel untuk Midtrans & Stripe, satu default (pending).
========================================================= */

var gatewaySignalTable = map[string]model.PaymentStatus{
	// lunas
	"capture":    model.PaymentStatusPaid,
	"settlement": model.PaymentStatusPaid,
	"succeeded":  model.PaymentStatusPaid,

	// belum final
	"pending":                   model.PaymentStatusPending,
	"processing":                model.PaymentStatusPending,
	"requires_payment_method":   model.PaymentStatusPending,
	"requires_confirmation":     model.PaymentStatusPending,
	"requires_action":           model.PaymentStatusPending,
	"requires_capture":          model.PaymentStatusPending,
	"created":                   model.PaymentStatusPending,
	"amount_capturable_updated": model.PaymentStatusPending,

	// dibatalkan / ditolak / kedaluwarsa
	"deny":      model.PaymentStatusCancelled,
	"cancel":    model.PaymentStatusCancelled,
	"expire":    model.PaymentStatusCancelled,
	"canceled":  model.PaymentStatusCancelled,
	"cancelled": model.PaymentStatusCancelled,

	// gagal
	"failure":        model.PaymentStatusFailed,
	"payment_failed": model.PaymentStatusFailed,
	"failed":         model.PaymentStatusFailed,
}

// DefaultGatewayStatus dipakai untuk sinyal yang tidak dikenal.
const DefaultGatewayStatus = model.PaymentStatusPending

// NormalizeSignal: lowercase, trim, dan buang prefix event Stripe.
func NormalizeSignal(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.TrimPrefix(s, "payment_intent.")
}

// MapGatewaySignal mengembalikan status internal untuk sinyal gateway apa pun.
func MapGatewaySignal(raw string) model.PaymentStatus {
	if st, ok := gatewaySignalTable[NormalizeSignal(raw)]; ok {
		return st
	}
	return DefaultGatewayStatus
}

// KnownGatewaySignal: true bila sinyal ada di tabel (bukan hasil default).
func KnownGatewaySignal(raw string) bool {
	_, ok := gatewaySignalTable[NormalizeSignal(raw)]
	return ok
}
