package domain

import (
	"context"
	"time"
)

// Supplier fetches one supplier's payload and maps it to canonical stubs.
type Supplier interface {
	Name() string
	FetchHotels(ctx context.Context) ([]Hotel, error)
}

// Merger folds per-supplier batches into the canonical catalog.
type Merger interface {
	Merge(batches []SupplierBatch) []Hotel
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CatalogStore mirrors the latest published catalog and keeps a log of cycles.
type CatalogStore interface {
	// Write paths
	ReplaceCatalog(ctx context.Context, cycleID string, hotels []Hotel) error
	RecordRun(ctx context.Context, run RefreshRun) error

	// Read paths
	ListRuns(ctx context.Context, limit int) ([]RefreshRun, error)
}

type RefreshRun struct {
	CycleID    string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string // ok|failed
	Hotels     int
	Error      *string
}

// Read models & queries
type HotelsQuery struct {
	DestinationID *int
	HotelIDs      []string
}
