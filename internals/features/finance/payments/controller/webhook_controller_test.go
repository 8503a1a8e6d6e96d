package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	billingModel "kostku_backend/internals/features/finance/billings/model"
	billingService "kostku_backend/internals/features/finance/billings/service"
	"kostku_backend/internals/features/finance/payments/gateway"
	"kostku_backend/internals/features/finance/payments/model"
	"kostku_backend/internals/features/finance/payments/service"
	notif "kostku_backend/internals/features/notifications/service"
	tenantRepository "kostku_backend/internals/features/tenants/tenants/repository"
)

const serverKey = "SB-Mid-server-ctl"

type webhookApp struct {
	app   *fiber.App
	store *service.PaymentStore
}

func newWebhookApp(t *testing.T) *webhookApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&billingModel.Billing{}, &model.Payment{}, &model.PaymentGatewayEvent{}))

	store := service.NewPaymentStore(db, billingService.NewBillingService(db))
	reg := gateway.NewRegistry(gateway.NewMidtransAdapter(serverKey, false, time.Second))
	svc := service.NewWebhookService(store, reg, tenantRepository.NewTenantRepository(db), notif.LogNotifier{})

	ctl := NewWebhookController(svc)
	app := fiber.New()
	app.Post("/api/webhooks/midtrans", ctl.Midtrans)
	app.Post("/api/webhooks/stripe", ctl.Stripe)
	return &webhookApp{app: app, store: store}
}

func (w *webhookApp) post(t *testing.T, path string, body []byte) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func midtransPayload(t *testing.T, orderID, status string) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       "750000.00",
		"transaction_status": status,
		"transaction_time":   "2026-10-18 12:00:00",
		"signature_key":      gateway.MidtransSignature(orderID, "200", "750000.00", serverKey),
	})
	require.NoError(t, err)
	return b
}

func TestWebhookController_Midtrans(t *testing.T) {
	w := newWebhookApp(t)
	id := uuid.New()
	ext := id.String()
	require.NoError(t, w.store.Create(t.Context(), &model.Payment{
		PaymentID:         id,
		PaymentTenantID:   uuid.New(),
		PaymentPropertyID: uuid.New(),
		PaymentAmount:     decimal.NewFromInt(750000),
		PaymentCurrency:   "IDR",
		PaymentType:       model.PaymentTypeRent,
		PaymentMethod:     model.PaymentMethodMidtrans,
		PaymentStatus:     model.PaymentStatusPending,
		PaymentDueDate:    time.Now().UTC().Add(24 * time.Hour),
		PaymentExternalID: &ext,
	}))

	status, body := w.post(t, "/api/webhooks/midtrans", midtransPayload(t, ext, "settlement"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["received"])
	assert.Equal(t, "paid", body["status"])
	assert.Equal(t, true, body["changed"])

	// duplikat tetap 200 supaya gateway berhenti retry
	status, body = w.post(t, "/api/webhooks/midtrans", midtransPayload(t, ext, "settlement"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["changed"])
}

func TestWebhookController_Errors(t *testing.T) {
	w := newWebhookApp(t)

	status, body := w.post(t, "/api/webhooks/midtrans", midtransPayload(t, "ORDER-UNKNOWN", "settlement"))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])

	forged := midtransPayload(t, "ORDER-1", "settlement")
	forged = bytes.Replace(forged, []byte("750000.00"), []byte("1.00"), 1)
	status, _ = w.post(t, "/api/webhooks/midtrans", forged)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = w.post(t, "/api/webhooks/midtrans", []byte("not-json"))
	assert.Equal(t, fiber.StatusBadRequest, status)

	// stripe tidak dikonfigurasi di registry
	status, _ = w.post(t, "/api/webhooks/stripe", []byte("{}"))
	assert.Equal(t, fiber.StatusNotFound, status)
}
