package app

import (
	"context"
	"fmt"
	"slices"

	"hotels_merge/internal/domain"
)

// QueryService answers catalog lookups from the published snapshot. It never
// triggers a refresh.
type QueryService struct {
	cache domain.Cache
	key   string
	runs  domain.CatalogStore // optional
}

func NewQueryService(c domain.Cache, catalogKey string, runs domain.CatalogStore) *QueryService {
	return &QueryService{cache: c, key: catalogKey, runs: runs}
}

// Catalog returns the whole published catalog, or domain.ErrNotReady when
// nothing has been published (or the snapshot expired).
func (s *QueryService) Catalog(ctx context.Context) ([]domain.Hotel, error) {
	var hotels []domain.Hotel
	ok, err := s.cache.Get(ctx, s.key, &hotels)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotReady
	}
	return hotels, nil
}

// FindHotels filters by destination equality and id membership; when both are
// given a hotel must match both. An empty result is domain.ErrNotFound.
func (s *QueryService) FindHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Hotel, 0)
	for _, h := range all {
		if q.DestinationID != nil && h.DestinationID != *q.DestinationID {
			continue
		}
		if len(q.HotelIDs) > 0 && !slices.Contains(q.HotelIDs, h.ID) {
			continue
		}
		out = append(out, h)
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return domain.Hotel{}, err
	}
	for _, h := range all {
		if h.ID == id {
			return h, nil
		}
	}
	return domain.Hotel{}, domain.ErrNotFound
}

// RecentRuns lists the latest refresh cycles, newest first. Without a run log
// it returns an empty list.
func (s *QueryService) RecentRuns(ctx context.Context, limit int) ([]domain.RefreshRun, error) {
	if s.runs == nil {
		return []domain.RefreshRun{}, nil
	}
	return s.runs.ListRuns(ctx, limit)
}

func (s *QueryService) RunLogEnabled() bool { return s.runs != nil }
