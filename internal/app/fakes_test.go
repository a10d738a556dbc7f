package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"hotels_merge/internal/domain"
)

// ---- fakes ----

type fakeSupplier struct {
	name   string
	hotels []domain.Hotel
	err    error
	delay  time.Duration
	// sawCancel is set when the fetch was abandoned because ctx ended.
	sawCancel bool
}

func (f *fakeSupplier) Name() string { return f.name }

func (f *fakeSupplier) FetchHotels(ctx context.Context) ([]domain.Hotel, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			f.sawCancel = true
			return nil, &domain.FetchError{Supplier: f.name, Err: ctx.Err()}
		}
	}
	if f.err != nil {
		return nil, &domain.FetchError{Supplier: f.name, Err: f.err}
	}
	return f.hotels, nil
}

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu     sync.Mutex
	store  map[string][]byte
	ttls   map[string]time.Duration
	setErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
		c.ttls = map[string]time.Duration{}
	}
	c.store[key] = b
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

type fakeStore struct {
	replaced   [][]domain.Hotel
	runs       []domain.RefreshRun
	replaceErr error
}

func (s *fakeStore) ReplaceCatalog(ctx context.Context, cycleID string, hotels []domain.Hotel) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = append(s.replaced, hotels)
	return nil
}

func (s *fakeStore) RecordRun(ctx context.Context, run domain.RefreshRun) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *fakeStore) ListRuns(ctx context.Context, limit int) ([]domain.RefreshRun, error) {
	out := make([]domain.RefreshRun, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }
