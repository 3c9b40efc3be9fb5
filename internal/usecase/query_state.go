package usecase

import (
	"sync"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
)

// QueryStore holds the current QueryState. Every mutation replaces the
// snapshot; readers always get a value copy.
type QueryStore struct {
	mu       sync.RWMutex
	current  models.QueryState
	defaults models.QueryState
}

// NewQueryStore starts at defaults.
func NewQueryStore(defaults models.QueryState) *QueryStore {
	return &QueryStore{current: defaults, defaults: defaults}
}

func (s *QueryStore) Current() models.QueryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update normalizes rawValue into field. On error the current snapshot is
// kept and returned alongside the error.
func (s *QueryStore) Update(field models.QueryField, rawValue string) (models.QueryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.current.With(field, rawValue)
	if err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

// Reset restores the default snapshot.
func (s *QueryStore) Reset() models.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.defaults
	return s.current
}
