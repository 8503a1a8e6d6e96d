package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"kostku_backend/internals/features/finance/payments/model"
)

type PaymentGatewayEventResponse struct {
	GatewayEventID         uuid.UUID      `json:"gateway_event_id"`
	GatewayEventPaymentID  *uuid.UUID     `json:"gateway_event_payment_id,omitempty"`
	GatewayEventProvider   string         `json:"gateway_event_provider"`
	GatewayEventType       *string        `json:"gateway_event_type,omitempty"`
	GatewayEventExternalID string         `json:"gateway_event_external_id"`
	GatewayEventSignal     string         `json:"gateway_event_signal"`
	GatewayEventPayload    datatypes.JSON `json:"gateway_event_payload,omitempty"`
	GatewayEventStatus     string         `json:"gateway_event_status"`
	GatewayEventError      *string        `json:"gateway_event_error,omitempty"`

	GatewayEventOccurredAt  *time.Time `json:"gateway_event_occurred_at,omitempty"`
	GatewayEventReceivedAt  time.Time  `json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `json:"gateway_event_processed_at,omitempty"`
}

func FromGatewayEventModel(m *model.PaymentGatewayEvent) PaymentGatewayEventResponse {
	return PaymentGatewayEventResponse{
		GatewayEventID:          m.GatewayEventID,
		GatewayEventPaymentID:   m.GatewayEventPaymentID,
		GatewayEventProvider:    string(m.GatewayEventProvider),
		GatewayEventType:        m.GatewayEventType,
		GatewayEventExternalID:  m.GatewayEventExternalID,
		GatewayEventSignal:      m.GatewayEventSignal,
		GatewayEventPayload:     m.GatewayEventPayload,
		GatewayEventStatus:      string(m.GatewayEventStatus),
		GatewayEventError:       m.GatewayEventError,
		GatewayEventOccurredAt:  m.GatewayEventOccurredAt,
		GatewayEventReceivedAt:  m.GatewayEventReceivedAt,
		GatewayEventProcessedAt: m.GatewayEventProcessedAt,
	}
}

func FromGatewayEventModels(rows []model.PaymentGatewayEvent) []PaymentGatewayEventResponse {
	out := make([]PaymentGatewayEventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromGatewayEventModel(&rows[i]))
	}
	return out
}
