package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	val     []byte
	members map[string]int64
	expires time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// DefaultSweepInterval is how often the fallback store drops expired keys.
const DefaultSweepInterval = time.Minute

// MemoryStore is the single-process fallback. Expired keys are dropped lazily
// and by Sweep.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]*entry
	now  func() time.Time
}

func NewMemory() *MemoryStore {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock reads the current time from now; tests use it to expire keys.
func NewMemoryWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{data: map[string]*entry{}, now: now}
}

// live returns the entry for key or nil; callers hold mu.
func (s *MemoryStore) live(key string) *entry {
	e, ok := s.data[key]
	if !ok {
		return nil
	}
	if e.expired(s.now()) {
		delete(s.data, key)
		return nil
	}
	return e
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil || e.val == nil {
		return nil, ErrMiss
	}
	out := make([]byte, len(e.val))
	copy(out, e.val)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &entry{val: append([]byte{}, val...)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *MemoryStore) AddToSet(_ context.Context, key, member string, ttl time.Duration) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e := s.live(key)
	if e == nil || e.members == nil {
		e = &entry{members: map[string]int64{}}
		s.data[key] = e
	}
	if _, ok := e.members[member]; ok {
		return false, int64(len(e.members)), nil
	}
	e.members[member] = now.UnixMilli()
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	return true, int64(len(e.members)), nil
}

func (s *MemoryStore) SetMembers(_ context.Context, key string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int64{}
	if e := s.live(key); e != nil {
		for m, at := range e.members {
			out[m] = at
		}
	}
	return out, nil
}

// Sweep drops every expired key and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for k, e := range s.data {
		if e.expired(now) {
			delete(s.data, k)
			n++
		}
	}
	return n
}

// StartSweeper calls Sweep every interval until ctx is done, so keys nobody
// reads again do not pile up.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
