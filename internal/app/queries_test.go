package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotels_merge/internal/app"
	"hotels_merge/internal/domain"
)

func seeded(t *testing.T) *app.QueryService {
	t.Helper()
	cache := &fakeCache{}
	_ = cache.Set(context.Background(), key, []domain.Hotel{
		{ID: "iJhz", DestinationID: 5432, Name: "Beach Villas Singapore"},
		{ID: "SjyX", DestinationID: 5432, Name: "InterContinental"},
		{ID: "f8c9", DestinationID: 1122, Name: "Hilton Tokyo"},
	}, 600*time.Second)
	return app.NewQueryService(cache, key, nil)
}

func ids(hs []domain.Hotel) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.ID)
	}
	return out
}

func TestFindHotels_NotReady(t *testing.T) {
	q := app.NewQueryService(&fakeCache{}, key, nil)
	if _, err := q.FindHotels(context.Background(), domain.HotelsQuery{DestinationID: ptr(1)}); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, err := q.GetHotel(context.Background(), "x"); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestFindHotels_Filters(t *testing.T) {
	q := seeded(t)
	cases := []struct {
		name  string
		query domain.HotelsQuery
		want  []string
	}{
		{"destination", domain.HotelsQuery{DestinationID: ptr(5432)}, []string{"iJhz", "SjyX"}},
		{"ids", domain.HotelsQuery{HotelIDs: []string{"f8c9", "iJhz"}}, []string{"iJhz", "f8c9"}},
		{"both", domain.HotelsQuery{DestinationID: ptr(5432), HotelIDs: []string{"SjyX", "f8c9"}}, []string{"SjyX"}},
		{"none", domain.HotelsQuery{}, []string{"iJhz", "SjyX", "f8c9"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := q.FindHotels(context.Background(), tc.query)
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if g := ids(got); len(g) != len(tc.want) {
				t.Fatalf("got %v want %v", g, tc.want)
			} else {
				for i := range g {
					if g[i] != tc.want[i] {
						t.Fatalf("got %v want %v", g, tc.want)
					}
				}
			}
		})
	}
}

func TestFindHotels_EmptyResultIsNotFound(t *testing.T) {
	q := seeded(t)
	_, err := q.FindHotels(context.Background(), domain.HotelsQuery{DestinationID: ptr(1)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, err = q.FindHotels(context.Background(), domain.HotelsQuery{HotelIDs: []string{"ijhz"}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ids match exactly; expected ErrNotFound, got %v", err)
	}
}

func TestGetHotel(t *testing.T) {
	q := seeded(t)
	h, err := q.GetHotel(context.Background(), "f8c9")
	if err != nil || h.Name != "Hilton Tokyo" {
		t.Fatalf("h=%+v err=%v", h, err)
	}
	if _, err := q.GetHotel(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentRuns(t *testing.T) {
	q := app.NewQueryService(&fakeCache{}, key, nil)
	runs, err := q.RecentRuns(context.Background(), 5)
	if err != nil || len(runs) != 0 || q.RunLogEnabled() {
		t.Fatalf("runs=%v err=%v", runs, err)
	}

	store := &fakeStore{runs: []domain.RefreshRun{{CycleID: "a"}, {CycleID: "b"}, {CycleID: "c"}}}
	q = app.NewQueryService(&fakeCache{}, key, store)
	runs, err = q.RecentRuns(context.Background(), 2)
	if err != nil || len(runs) != 2 || runs[0].CycleID != "c" {
		t.Fatalf("runs=%v err=%v", runs, err)
	}
}
