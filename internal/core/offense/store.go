package offense

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Record is one detected offense; immutable once stored
type Record struct {
	UserID  string
	GuildID string
	At      time.Time
	Note    string
}

// Store persists offense records for the sliding window
type Store interface {
	Add(ctx context.Context, r Record) error
	// Count returns records for (user, guild) at or after since
	Count(ctx context.Context, userID, guildID string, since time.Time) (int, error)
	// Prune drops records older than before and reports how many went
	Prune(ctx context.Context, before time.Time) (int, error)
	// Totals reports all stored records and those at or after since
	Totals(ctx context.Context, since time.Time) (total, active int, err error)
	Reset(ctx context.Context) error
}

// MemStore is an in-process append-only log guarded by a mutex
type MemStore struct {
	mu      sync.Mutex
	records []Record
}

// NewMemStore returns an empty MemStore
func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Add(_ context.Context, r Record) error {
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Count(_ context.Context, userID, guildID string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.records {
		if r.UserID == userID && r.GuildID == guildID && !r.At.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) Prune(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.records)
	s.records = slices.DeleteFunc(s.records, func(r Record) bool { return r.At.Before(before) })
	return n - len(s.records), nil
}

func (s *MemStore) Totals(_ context.Context, since time.Time) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := 0
	for _, r := range s.records {
		if !r.At.Before(since) {
			active++
		}
	}
	return len(s.records), active, nil
}

func (s *MemStore) Reset(context.Context) error {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
	return nil
}
