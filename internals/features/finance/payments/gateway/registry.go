package gateway

import (
	"fmt"

	"kostku_backend/internals/features/finance/payments/model"
)

// Registry dibangun sekali saat bootstrap lalu di-inject ke service.
type Registry struct {
	adapters map[model.PaymentMethod]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[model.PaymentMethod]Adapter, len(adapters))}
	for _, a := range adapters {
		if a != nil {
			r.adapters[a.Method()] = a
		}
	}
	return r
}

func (r *Registry) Adapter(m model.PaymentMethod) (Adapter, error) {
	a, ok := r.adapters[m]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter configured for method %q", ErrUnsupported, m)
	}
	return a, nil
}

func (r *Registry) Verifier(m model.PaymentMethod) (WebhookVerifier, error) {
	a, err := r.Adapter(m)
	if err != nil {
		return nil, err
	}
	v, ok := a.(WebhookVerifier)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no webhook", ErrUnsupported, m)
	}
	return v, nil
}

func (r *Registry) Has(m model.PaymentMethod) bool {
	_, ok := r.adapters[m]
	return ok
}
