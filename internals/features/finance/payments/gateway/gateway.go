// Package gateway wraps each external payment processor behind one adapter
// shape. Adapters are stateless; the caller owns the at-most-one-create rule.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"kostku_backend/internals/features/finance/payments/model"
)

var (
	// ErrUnavailable: transport error, timeout, atau non-2xx dari gateway.
	ErrUnavailable = errors.New("gateway unavailable")
	// ErrInvalidSignature: webhook gagal verifikasi.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedPayload: body webhook tidak bisa dibaca.
	ErrMalformedPayload = errors.New("malformed webhook payload")
	// ErrNotFound: gateway tidak mengenal transaksi tsb.
	ErrNotFound = errors.New("gateway transaction not found")
	// ErrUnsupported: kapabilitas tidak tersedia di adapter ini.
	ErrUnsupported = errors.New("operation not supported by gateway")
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

type CreateRequest struct {
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Customer    Customer
}

type CreateResult struct {
	ExternalID  string
	Token       string // snap token / client secret
	RedirectURL string
	RawStatus   string
}

type Adapter interface {
	Method() model.PaymentMethod
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	// Retrieve mengembalikan kosakata status gateway apa adanya.
	Retrieve(ctx context.Context, externalID string) (string, error)
	Cancel(ctx context.Context, externalID string) error
}

// Notification = isi webhook yang sudah terverifikasi dan dinormalisasi.
type Notification struct {
	Provider   model.PaymentMethod
	ExternalID string
	// OrderID = payment id kita bila gateway mengirimkannya (order_id / metadata).
	OrderID   string
	Signal    string
	EventType string
	EventTime *time.Time
	Signature string
	Payload   []byte
}

type WebhookVerifier interface {
	ParseWebhook(payload []byte, header func(string) string) (*Notification, error)
}

// OrderIDCorrelated ditandai adapter yang external id-nya ditentukan oleh kita
// (order id = payment id), sehingga transaksi bisa dicari walau create-nya
// tidak pernah mengembalikan respons.
type OrderIDCorrelated interface {
	ExternalIDFor(orderID string) string
}

// OrderLookup: adapter yang bisa mencari transaksi lewat order id kita walau
// correlation id-nya ditentukan gateway. ErrNotFound bila tidak ada.
type OrderLookup interface {
	LookupOrder(ctx context.Context, orderID string) (*CreateResult, error)
}

// call menjalankan fn dengan batas waktu ctx. SDK gateway tidak menerima
// context, jadi timeout ditegakkan dari luar dan dianggap ErrUnavailable.
func call[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}
