package saves

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
)

// MemoryStore is a Store kept in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (s *MemoryStore) Put(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Payload = slices.Clone(record.Payload)
	s.records[record.ID] = record
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return Record{}, errors.Wrap(ErrSaveNotFound, "get record", slog.String("slot", id))
	}
	record.Payload = slices.Clone(record.Payload)
	return record, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return errors.Wrap(ErrSaveNotFound, "delete record", slog.String("slot", id))
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.SaveSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]models.SaveSummary, 0, len(s.records))
	for _, r := range s.records {
		summaries = append(summaries, r.SaveSummary)
	}
	return summaries, nil
}
