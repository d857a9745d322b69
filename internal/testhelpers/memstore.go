package testhelpers

import (
	"context"
	"sync"

	"inmoscan/internal/models"

	"github.com/pkg/errors"
)

// MemoryStore is an in-memory db.AuctionStore.
type MemoryStore struct {
	mutex   sync.Mutex
	rows    []models.Auction
	nextID  uint
	inserts int

	// FailInsertOn makes the n-th Insert call (1-based, counted across the
	// store's lifetime) return an error.
	FailInsertOn map[int]bool
	DeleteErr    error
	AllErr       error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{FailInsertOn: map[int]bool{}}
}

func (s *MemoryStore) All(ctx context.Context) ([]models.Auction, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.AllErr != nil {
		return nil, s.AllErr
	}
	out := make([]models.Auction, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.rows = nil
	return nil
}

func (s *MemoryStore) Insert(ctx context.Context, auction *models.Auction) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.inserts++
	if s.FailInsertOn[s.inserts] {
		return errors.Wrapf(ErrInjected, "insert %d", s.inserts)
	}
	s.nextID++
	auction.ID = s.nextID
	s.rows = append(s.rows, *auction)
	return nil
}

// Seed stores rows without counting them as inserts.
func (s *MemoryStore) Seed(rows ...models.Auction) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, r := range rows {
		s.nextID++
		r.ID = s.nextID
		s.rows = append(s.rows, r)
	}
}

// ErrInjected is returned by failures configured on MemoryStore.
var ErrInjected = errors.New("injected store failure")
