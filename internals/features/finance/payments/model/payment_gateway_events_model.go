package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
  payment_gateway_events = LOG WEBHOOK dari gateway
  - Bisa banyak row per 1 payment (tiap notifikasi)
  - Hanya webhook yang lolos verifikasi signature yang dicatat.
*/

type PaymentGatewayEvent struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`

	GatewayEventPaymentID *uuid.UUID `gorm:"column:gateway_event_payment_id;type:uuid;index" json:"gateway_event_payment_id,omitempty"`

	GatewayEventProvider   PaymentMethod `gorm:"column:gateway_event_provider;type:varchar(16);not null;index" json:"gateway_event_provider"`
	GatewayEventType       *string       `gorm:"column:gateway_event_type;type:varchar(80)" json:"gateway_event_type,omitempty"`
	GatewayEventExternalID string        `gorm:"column:gateway_event_external_id;type:varchar(120);not null;index" json:"gateway_event_external_id"`
	GatewayEventSignal     string        `gorm:"column:gateway_event_signal;type:varchar(64);not null" json:"gateway_event_signal"`

	GatewayEventPayload   datatypes.JSON `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload,omitempty"`
	GatewayEventSignature *string        `gorm:"column:gateway_event_signature;type:text" json:"-"`

	GatewayEventStatus GatewayEventStatus `gorm:"column:gateway_event_status;type:varchar(16);not null" json:"gateway_event_status"`
	GatewayEventError  *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`

	GatewayEventOccurredAt  *time.Time `gorm:"column:gateway_event_occurred_at" json:"gateway_event_occurred_at,omitempty"`
	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null;index" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`
}

func (PaymentGatewayEvent) TableName() string { return "payment_gateway_events" }

func (e *PaymentGatewayEvent) BeforeCreate(tx *gorm.DB) error {
	if e.GatewayEventID == uuid.Nil {
		e.GatewayEventID = uuid.New()
	}
	if e.GatewayEventStatus == "" {
		e.GatewayEventStatus = GatewayEventStatusReceived
	}
	if e.GatewayEventReceivedAt.IsZero() {
		e.GatewayEventReceivedAt = time.Now().UTC()
	}
	return nil
}
