package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotels_merge/internal/app"
	"hotels_merge/internal/domain"
	"hotels_merge/internal/reconcile"
)

const key = "mergedHotels"

func opts() app.RefreshOptions {
	return app.RefreshOptions{CatalogKey: key, CatalogTTL: 600 * time.Second, Workers: 4}
}

func readCatalog(t *testing.T, c *fakeCache) []domain.Hotel {
	t.Helper()
	var out []domain.Hotel
	ok, err := c.Get(context.Background(), key, &out)
	if err != nil || !ok {
		t.Fatalf("catalog not published: ok=%v err=%v", ok, err)
	}
	return out
}

func TestRunCycle_PublishesInSupplierOrder(t *testing.T) {
	// first supplier finishes last; its record must still anchor the merge
	acme := &fakeSupplier{name: "acme", delay: 30 * time.Millisecond, hotels: []domain.Hotel{
		{ID: "h1", DestinationID: 1, Name: "Acme Name", Description: "acme desc"},
	}}
	paperflies := &fakeSupplier{name: "paperflies", hotels: []domain.Hotel{
		{ID: "h1", DestinationID: 1, Name: "Paperflies Name", Description: "paperflies desc",
			BookingConditions: []string{"no pets"}},
		{ID: "h2", DestinationID: 2, Name: "Other"},
	}}
	cache := &fakeCache{}
	store := &fakeStore{}
	svc := app.NewRefreshService([]domain.Supplier{acme, paperflies},
		reconcile.NewEngine(reconcile.DefaultRules()), cache, store, opts())

	res, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Hotels != 2 || res.CycleID == "" {
		t.Fatalf("unexpected result: %+v", res)
	}

	got := readCatalog(t, cache)
	if len(got) != 2 || got[0].ID != "h1" || got[1].ID != "h2" {
		t.Fatalf("unexpected catalog order: %+v", got)
	}
	if got[0].Name != "Acme Name" {
		t.Fatalf("name: got %q want acme's", got[0].Name)
	}
	if got[0].Description != "paperflies desc" {
		t.Fatalf("description: got %q want paperflies'", got[0].Description)
	}
	if len(got[0].BookingConditions) != 1 {
		t.Fatalf("booking conditions: %+v", got[0].BookingConditions)
	}
	if cache.ttls[key] != 600*time.Second {
		t.Fatalf("ttl: %v", cache.ttls[key])
	}

	if len(store.replaced) != 1 || len(store.replaced[0]) != 2 {
		t.Fatalf("mirror not replaced: %+v", store.replaced)
	}
	if len(store.runs) != 1 || store.runs[0].Status != app.RunStatusOK || store.runs[0].CycleID != res.CycleID {
		t.Fatalf("run log: %+v", store.runs)
	}
}

func TestRunCycle_FailureKeepsPreviousCatalog(t *testing.T) {
	cache := &fakeCache{}
	previous := []domain.Hotel{{ID: "old"}}
	_ = cache.Set(context.Background(), key, previous, 600*time.Second)

	slow := &fakeSupplier{name: "acme", delay: 5 * time.Second}
	broken := &fakeSupplier{name: "patagonia", err: errBoom}
	store := &fakeStore{}
	svc := app.NewRefreshService([]domain.Supplier{slow, broken},
		reconcile.NewEngine(reconcile.DefaultRules()), cache, store, opts())

	start := time.Now()
	_, err := svc.RunCycle(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("siblings were not cancelled")
	}
	if !slow.sawCancel {
		t.Fatalf("slow supplier did not observe cancellation")
	}
	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.Supplier != "patagonia" || !errors.Is(err, errBoom) {
		t.Fatalf("unexpected error: %v", err)
	}

	got := readCatalog(t, cache)
	if len(got) != 1 || got[0].ID != "old" {
		t.Fatalf("previous catalog overwritten: %+v", got)
	}
	if len(store.replaced) != 0 {
		t.Fatalf("mirror must not change on failure")
	}
	if len(store.runs) != 1 || store.runs[0].Status != app.RunStatusFailed || store.runs[0].Error == nil {
		t.Fatalf("failed run not recorded: %+v", store.runs)
	}
}

func TestRunCycle_PassesTTLThrough(t *testing.T) {
	cache := &fakeCache{}
	o := opts()
	o.CatalogTTL = 500 * time.Millisecond
	svc := app.NewRefreshService(nil, reconcile.NewEngine(reconcile.DefaultRules()), cache, nil, o)

	if _, err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := cache.ttls[key]; got != 500*time.Millisecond {
		t.Fatalf("sub-second ttl must not be truncated, got %v", got)
	}
}

func TestRunCycle_PublishErrorFailsCycle(t *testing.T) {
	cache := &fakeCache{setErr: errBoom}
	svc := app.NewRefreshService([]domain.Supplier{&fakeSupplier{name: "acme"}},
		reconcile.NewEngine(reconcile.DefaultRules()), cache, nil, opts())

	if _, err := svc.RunCycle(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestRunCycle_MirrorErrorDoesNotFailCycle(t *testing.T) {
	cache := &fakeCache{}
	store := &fakeStore{replaceErr: errBoom}
	svc := app.NewRefreshService([]domain.Supplier{&fakeSupplier{name: "acme", hotels: []domain.Hotel{{ID: "a"}}}},
		reconcile.NewEngine(reconcile.DefaultRules()), cache, store, opts())

	if _, err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(readCatalog(t, cache)) != 1 {
		t.Fatal("catalog not published")
	}
	if len(store.runs) != 1 || store.runs[0].Status != app.RunStatusOK {
		t.Fatalf("run log: %+v", store.runs)
	}
}

func TestRunCycle_NoSuppliersPublishesEmptyCatalog(t *testing.T) {
	cache := &fakeCache{}
	svc := app.NewRefreshService(nil, reconcile.NewEngine(reconcile.DefaultRules()), cache, nil, opts())

	res, err := svc.RunCycle(context.Background())
	if err != nil || res.Hotels != 0 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	if got := readCatalog(t, cache); len(got) != 0 {
		t.Fatalf("expected empty catalog, got %+v", got)
	}
}
