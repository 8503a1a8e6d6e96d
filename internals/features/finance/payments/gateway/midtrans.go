package gateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"kostku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Midtrans: hosted checkout (Snap) + Core API status/cancel
========================================================= */

// waktu di notifikasi Midtrans selalu WIB tanpa offset
var midtransTZ = time.FixedZone("WIB", 7*60*60)

const midtransTimeLayout = "2006-01-02 15:04:05"

type MidtransAdapter struct {
	serverKey string
	snap      snap.Client
	core      coreapi.Client
	timeout   time.Duration
}

// NewMidtransAdapter: useProduction=true untuk Production, false untuk Sandbox.
func NewMidtransAdapter(serverKey string, useProduction bool, timeout time.Duration) *MidtransAdapter {
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	a := &MidtransAdapter{serverKey: serverKey, timeout: timeout}
	a.snap.New(serverKey, env)
	a.core.New(serverKey, env)
	return a
}

func (a *MidtransAdapter) Method() model.PaymentMethod { return model.PaymentMethodMidtrans }

// ExternalIDFor: order_id Midtrans = payment id.
func (a *MidtransAdapter) ExternalIDFor(orderID string) string { return orderID }

func (a *MidtransAdapter) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("midtrans: gross amount must be positive")
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, fmt.Errorf("midtrans: order id is required")
	}

	// IDR di Midtrans tanpa desimal; dibulatkan = nominal tercatat tidak cocok
	if !req.Amount.Equal(req.Amount.Truncate(0)) {
		return nil, fmt.Errorf("midtrans: gross amount %s must be a whole number", req.Amount)
	}

	gross := req.Amount.IntPart()
	first, last := splitName(req.Customer.Name)
	sr := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.OrderID,
				Price: gross,
				Qty:   1,
				Name:  truncate(defaultString(req.Description, "Pembayaran Kos"), 50),
			},
		},
	}

	resp, err := call(ctx, a.timeout, func() (*snap.Response, error) {
		r, mErr := a.snap.CreateTransaction(sr)
		if mErr != nil {
			return nil, mErr
		}
		return r, nil
	})
	if err != nil {
		return nil, wrapMidtrans("snap create", err)
	}
	return &CreateResult{
		ExternalID:  req.OrderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		RawStatus:   "pending",
	}, nil
}

func (a *MidtransAdapter) Retrieve(ctx context.Context, externalID string) (string, error) {
	resp, err := call(ctx, a.timeout, func() (*coreapi.TransactionStatusResponse, error) {
		r, mErr := a.core.CheckTransaction(externalID)
		if mErr != nil {
			return nil, mErr
		}
		return r, nil
	})
	if err != nil {
		return "", wrapMidtrans("check transaction", err)
	}
	if resp.StatusCode == "404" {
		return "", fmt.Errorf("%w: midtrans order %s", ErrNotFound, externalID)
	}
	return midtransSignal(resp.TransactionStatus, resp.FraudStatus), nil
}

func (a *MidtransAdapter) Cancel(ctx context.Context, externalID string) error {
	_, err := call(ctx, a.timeout, func() (*coreapi.CancelResponse, error) {
		r, mErr := a.core.CancelTransaction(externalID)
		if mErr != nil {
			return nil, mErr
		}
		return r, nil
	})
	if err != nil {
		return wrapMidtrans("cancel transaction", err)
	}
	return nil
}

/* =========================================================
   Webhook
========================================================= */

type midtransNotif struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
}

// ParseWebhook memverifikasi SHA512(order_id + status_code + gross_amount + server_key).
func (a *MidtransAdapter) ParseWebhook(payload []byte, header func(string) string) (*Notification, error) {
	var n midtransNotif
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if n.SignatureKey == "" || n.OrderID == "" {
		return nil, ErrInvalidSignature
	}
	want := MidtransSignature(n.OrderID, n.StatusCode, n.GrossAmount, a.serverKey)
	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(n.SignatureKey))) != 1 {
		return nil, ErrInvalidSignature
	}

	out := &Notification{
		Provider:   model.PaymentMethodMidtrans,
		ExternalID: n.OrderID,
		OrderID:    n.OrderID,
		Signal:     midtransSignal(n.TransactionStatus, n.FraudStatus),
		EventType:  n.PaymentType,
		Signature:  n.SignatureKey,
		Payload:    payload,
	}
	for _, raw := range []string{n.SettlementTime, n.TransactionTime} {
		if t, err := time.ParseInLocation(midtransTimeLayout, strings.TrimSpace(raw), midtransTZ); err == nil {
			t = t.UTC()
			out.EventTime = &t
			break
		}
	}
	return out, nil
}

func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// midtransSignal melipat fraud_status ke transaction_status:
// capture+challenge belum final, capture+deny ditolak.
func midtransSignal(transactionStatus, fraudStatus string) string {
	ts := strings.ToLower(strings.TrimSpace(transactionStatus))
	if ts == "capture" {
		switch strings.ToLower(strings.TrimSpace(fraudStatus)) {
		case "challenge":
			return "pending"
		case "deny":
			return "deny"
		}
	}
	return ts
}

func wrapMidtrans(op string, err error) error {
	if me, ok := err.(*midtrans.Error); ok {
		if me.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: midtrans %s: %s", ErrNotFound, op, me.Message)
		}
		return fmt.Errorf("%w: midtrans %s: %s", ErrUnavailable, op, me.Message)
	}
	return fmt.Errorf("%w: midtrans %s: %v", ErrUnavailable, op, err)
}

/* =========================================================
   Utils
========================================================= */

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func defaultString(s string, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, " "); i > 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}
