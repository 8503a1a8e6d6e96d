package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kostku_backend/internals/features/finance/payments/model"
)

func TestMapGatewaySignal(t *testing.T) {
	cases := []struct {
		raw  string
		want model.PaymentStatus
	}{
		// midtrans
		{"capture", model.PaymentStatusPaid},
		{"settlement", model.PaymentStatusPaid},
		{"pending", model.PaymentStatusPending},
		{"deny", model.PaymentStatusCancelled},
		{"cancel", model.PaymentStatusCancelled},
		{"expire", model.PaymentStatusCancelled},
		{"failure", model.PaymentStatusFailed},
		// stripe
		{"succeeded", model.PaymentStatusPaid},
		{"payment_intent.succeeded", model.PaymentStatusPaid},
		{"processing", model.PaymentStatusPending},
		{"requires_payment_method", model.PaymentStatusPending},
		{"requires_action", model.PaymentStatusPending},
		{"payment_intent.payment_failed", model.PaymentStatusFailed},
		{"canceled", model.PaymentStatusCancelled},
		{"payment_intent.canceled", model.PaymentStatusCancelled},
		// normalisasi
		{"  SETTLEMENT ", model.PaymentStatusPaid},
		{"Payment_Intent.Succeeded", model.PaymentStatusPaid},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapGatewaySignal(tc.raw), tc.raw)
		assert.True(t, KnownGatewaySignal(tc.raw), tc.raw)
	}
}

func TestMapGatewaySignal_UnknownFallsBackToPending(t *testing.T) {
	for _, raw := range []string{"", "refund", "partial_refund", "chargeback", "authorize", "???"} {
		assert.Equal(t, DefaultGatewayStatus, MapGatewaySignal(raw), raw)
		assert.False(t, KnownGatewaySignal(raw), raw)
	}
}

func TestGatewaySignalTableTargetsAreValid(t *testing.T) {
	for raw, st := range gatewaySignalTable {
		assert.True(t, st.IsValid(), raw)
		assert.NotEqual(t, model.PaymentStatusOverdue, st, "overdue is decided locally, never by a gateway: %s", raw)
	}
}
