package fraud

import (
	"context"
	"sync"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
	"bankbuddy/pkg/platform/sentinel"
)

// InMemoryStore keeps address bindings in process.
type InMemoryStore struct {
	mu       sync.RWMutex
	bindings map[id.PaymentAddress]models.AddressBinding
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{bindings: make(map[id.PaymentAddress]models.AddressBinding)}
}

func (s *InMemoryStore) Resolve(_ context.Context, address id.PaymentAddress) (*models.AddressBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	binding, ok := s.bindings[address]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &binding, nil
}

// SetFraud flags an address. The flag only ever moves false→true; flagging
// twice is a no-op success.
func (s *InMemoryStore) SetFraud(_ context.Context, address id.PaymentAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	binding, ok := s.bindings[address]
	if !ok {
		return sentinel.ErrNotFound
	}
	binding.IsFraud = true
	s.bindings[address] = binding
	return nil
}

func (s *InMemoryStore) Save(_ context.Context, binding *models.AddressBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[binding.Address] = *binding
	return nil
}
