package model

type PaymentStatus string
type PaymentMethod string
type PaymentType string
type GatewayEventStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusOverdue   PaymentStatus = "overdue"
)

// manual = dicatat staff; midtrans = hosted checkout (Snap); stripe = PaymentIntent
const (
	PaymentMethodManual   PaymentMethod = "manual"
	PaymentMethodMidtrans PaymentMethod = "midtrans"
	PaymentMethodStripe   PaymentMethod = "stripe"
)

const (
	PaymentTypeRent    PaymentType = "rent"
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeUtility PaymentType = "utility"
	PaymentTypeOther   PaymentType = "other"
)

const (
	GatewayEventStatusReceived  GatewayEventStatus = "received"
	GatewayEventStatusProcessed GatewayEventStatus = "processed"
	GatewayEventStatusIgnored   GatewayEventStatus = "ignored"
	GatewayEventStatusFailed    GatewayEventStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusOverdue:
		return true
	}
	return false
}

// IsTerminal: paid, failed, cancelled tidak boleh berubah lagi.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// IsOpen: masih menunggu pembayaran (pending atau overdue).
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentStatusPending || s == PaymentStatusOverdue
}

// CanTransitionTo: satu-satunya aturan transisi status payment.
// Status yang sama = no-op; status terminal tidak bisa diubah; tidak ada yang kembali ke pending.
func (s PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	if s == to || s.IsTerminal() || !to.IsValid() {
		return false
	}
	switch to {
	case PaymentStatusPending:
		return false
	case PaymentStatusOverdue:
		return s == PaymentStatusPending
	default:
		return true
	}
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodManual, PaymentMethodMidtrans, PaymentMethodStripe:
		return true
	}
	return false
}

func (m PaymentMethod) IsGateway() bool {
	return m == PaymentMethodMidtrans || m == PaymentMethodStripe
}

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeRent, PaymentTypeDeposit, PaymentTypeUtility, PaymentTypeOther:
		return true
	}
	return false
}
