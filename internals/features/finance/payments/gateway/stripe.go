package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"kostku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Stripe: PaymentIntent (intent-based)
========================================================= */

// ErrIgnoredEvent: event Stripe valid tapi bukan tentang PaymentIntent.
var ErrIgnoredEvent = errors.New("webhook event ignored")

var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

type StripeAdapter struct {
	api           *client.API
	webhookSecret string
	currency      string
	timeout       time.Duration
}

func NewStripeAdapter(secretKey, webhookSecret, currency string, timeout time.Duration) *StripeAdapter {
	return newStripeAdapter(secretKey, webhookSecret, currency, timeout, nil)
}

// newStripeAdapter: apiURL != nil mengarahkan API backend ke server lain (test).
func newStripeAdapter(secretKey, webhookSecret, currency string, timeout time.Duration, apiURL *string) *StripeAdapter {
	httpClient := &http.Client{Timeout: timeout}
	apiCfg := &stripe.BackendConfig{HTTPClient: httpClient, URL: apiURL}
	if apiURL != nil {
		apiCfg.MaxNetworkRetries = stripe.Int64(0)
		apiCfg.LeveledLogger = &stripe.LeveledLogger{Level: stripe.LevelNull}
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, apiCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, &stripe.BackendConfig{HTTPClient: httpClient}),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, &stripe.BackendConfig{HTTPClient: httpClient}),
	}
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeAdapter{
		api:           api,
		webhookSecret: webhookSecret,
		currency:      strings.ToLower(currency),
		timeout:       timeout,
	}
}

func (a *StripeAdapter) Method() model.PaymentMethod { return model.PaymentMethodStripe }

func (a *StripeAdapter) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	currency := a.currency
	if req.Currency != "" {
		currency = strings.ToLower(req.Currency)
	}
	amount := ToMinorUnit(req.Amount, currency)
	if amount <= 0 {
		return nil, fmt.Errorf("stripe: amount must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.Customer.Email != "" {
		params.ReceiptEmail = stripe.String(req.Customer.Email)
	}
	params.Context = ctx
	params.AddMetadata("payment_id", req.OrderID)
	// satu payment = satu intent, walau request diulang oleh retry jaringan
	params.SetIdempotencyKey("payment-create-" + req.OrderID)

	pi, err := a.api.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapStripe("create intent", err)
	}
	return &CreateResult{
		ExternalID: pi.ID,
		Token:      pi.ClientSecret,
		RawStatus:  string(pi.Status),
	}, nil
}

func (a *StripeAdapter) Retrieve(ctx context.Context, externalID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := a.api.PaymentIntents.Get(externalID, params)
	if err != nil {
		return "", wrapStripe("get intent", err)
	}
	return string(pi.Status), nil
}

func (a *StripeAdapter) Cancel(ctx context.Context, externalID string) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := a.api.PaymentIntents.Cancel(externalID, params); err != nil {
		return wrapStripe("cancel intent", err)
	}
	return nil
}

// LookupOrder mencari intent lewat metadata payment_id. Dipakai untuk payment
// orphan: create yang timeout bisa saja sudah membuat intent di Stripe.
func (a *StripeAdapter) LookupOrder(ctx context.Context, orderID string) (*CreateResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" || strings.ContainsAny(orderID, `'\`) {
		return nil, fmt.Errorf("stripe: invalid order id %q", orderID)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	params := &stripe.PaymentIntentSearchParams{}
	params.Context = ctx
	params.Query = fmt.Sprintf("metadata['payment_id']:'%s'", orderID)
	params.Limit = stripe.Int64(10)
	params.Single = true

	var found *stripe.PaymentIntent
	iter := a.api.PaymentIntents.Search(params)
	for iter.Next() {
		pi := iter.PaymentIntent()
		// intent yang masih hidup didahulukan dari yang sudah dibatalkan
		if found == nil || (found.Status == stripe.PaymentIntentStatusCanceled && pi.Status != stripe.PaymentIntentStatusCanceled) {
			found = pi
		}
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripe("search intent", err)
	}
	if found == nil {
		return nil, fmt.Errorf("%w: stripe intent for order %s", ErrNotFound, orderID)
	}
	return &CreateResult{
		ExternalID: found.ID,
		Token:      found.ClientSecret,
		RawStatus:  string(found.Status),
	}, nil
}

/* =========================================================
   Webhook
========================================================= */

func (a *StripeAdapter) ParseWebhook(payload []byte, header func(string) string) (*Notification, error) {
	sig := header("Stripe-Signature")
	if a.webhookSecret == "" {
		// tanpa secret, HMAC dengan key kosong bisa dipalsukan siapa saja
		return nil, fmt.Errorf("%w: stripe webhook secret is not configured", ErrInvalidSignature)
	}
	event, err := webhook.ConstructEvent(payload, sig, a.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	eventType := string(event.Type)
	if !strings.HasPrefix(eventType, "payment_intent.") || event.Data == nil {
		return nil, ErrIgnoredEvent
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil || pi.ID == "" {
		return nil, fmt.Errorf("%w: payment intent object", ErrMalformedPayload)
	}

	occurred := time.Unix(event.Created, 0).UTC()
	return &Notification{
		Provider:   model.PaymentMethodStripe,
		ExternalID: pi.ID,
		OrderID:    pi.Metadata["payment_id"],
		Signal:     strings.TrimPrefix(eventType, "payment_intent."),
		EventType:  eventType,
		EventTime:  &occurred,
		Signature:  sig,
		Payload:    payload,
	}, nil
}

// ToMinorUnit: Stripe menerima nominal dalam unit terkecil mata uang.
func ToMinorUnit(amount decimal.Decimal, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return amount.Round(0).IntPart()
	}
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func wrapStripe(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.HTTPStatusCode == http.StatusNotFound || se.Code == stripe.ErrorCodeResourceMissing {
			return fmt.Errorf("%w: stripe %s: %s", ErrNotFound, op, se.Msg)
		}
		return fmt.Errorf("%w: stripe %s: %s", ErrUnavailable, op, se.Msg)
	}
	return fmt.Errorf("%w: stripe %s: %v", ErrUnavailable, op, err)
}
