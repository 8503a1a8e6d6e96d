package gateway

import (
	"context"

	"kostku_backend/internals/features/finance/payments/model"
)

// ManualAdapter: pembayaran tunai/transfer yang dikonfirmasi staff.
type ManualAdapter struct{}

func NewManualAdapter() *ManualAdapter { return &ManualAdapter{} }

func (ManualAdapter) Method() model.PaymentMethod { return model.PaymentMethodManual }

func (ManualAdapter) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	return &CreateResult{}, nil
}

func (ManualAdapter) Retrieve(ctx context.Context, externalID string) (string, error) {
	return "", ErrUnsupported
}

func (ManualAdapter) Cancel(ctx context.Context, externalID string) error { return nil }
