package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotels_merge/internal/adapters/observability"
	"hotels_merge/internal/domain"
)

const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

type RefreshOptions struct {
	CatalogKey string
	CatalogTTL time.Duration
	// Workers bounds concurrent supplier fetches; <= 0 means one per supplier.
	Workers int
}

// RefreshService runs one cycle: fetch every supplier, reconcile, publish.
type RefreshService struct {
	suppliers []domain.Supplier
	merger    domain.Merger
	cache     domain.Cache
	store     domain.CatalogStore // optional
	opts      RefreshOptions
	now       func() time.Time
}

func NewRefreshService(s []domain.Supplier, m domain.Merger, c domain.Cache, store domain.CatalogStore, opts RefreshOptions) *RefreshService {
	return &RefreshService{suppliers: s, merger: m, cache: c, store: store, opts: opts, now: time.Now}
}

type CycleResult struct {
	CycleID  string
	Hotels   int
	Duration time.Duration
}

// RunCycle fetches all suppliers in parallel and publishes the merged catalog
// under the catalog key. Any fetch failure abandons the cycle and leaves the
// previously published catalog in place.
func (s *RefreshService) RunCycle(ctx context.Context) (CycleResult, error) {
	res := CycleResult{CycleID: uuid.NewString()}
	started := s.now()
	l := log.With().Str("cycle_id", res.CycleID).Logger()

	hotels, err := s.reconcile(ctx)
	if err == nil {
		res.Hotels = len(hotels)
		err = s.cache.Set(ctx, s.opts.CatalogKey, hotels, s.opts.CatalogTTL)
		if err != nil {
			err = fmt.Errorf("publish catalog: %w", err)
		}
	}
	res.Duration = s.now().Sub(started)
	observability.ObserveCycle(err == nil, res.Hotels, res.Duration)

	if err != nil {
		l.Error().Err(err).Str("error_type", observability.LabelErr(err)).
			Dur("duration", res.Duration).Msg("refresh cycle failed")
		s.record(ctx, res, started, err)
		return res, err
	}

	if s.store != nil {
		if merr := s.store.ReplaceCatalog(ctx, res.CycleID, hotels); merr != nil {
			// publication already happened; the mirror catches up next cycle
			l.Warn().Err(merr).Msg("catalog mirror update failed")
		}
	}
	s.record(ctx, res, started, nil)
	l.Info().Int("hotels", res.Hotels).Dur("duration", res.Duration).Msg("catalog published")
	return res, nil
}

func (s *RefreshService) reconcile(ctx context.Context) ([]domain.Hotel, error) {
	batches, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.merger.Merge(batches), nil
}

// fetchAll keeps batch order equal to supplier order regardless of which
// fetch finishes first; merge results depend on it.
func (s *RefreshService) fetchAll(ctx context.Context) ([]domain.SupplierBatch, error) {
	g, gctx := errgroup.WithContext(ctx)
	if s.opts.Workers > 0 {
		g.SetLimit(s.opts.Workers)
	}
	batches := make([]domain.SupplierBatch, len(s.suppliers))
	for i, sup := range s.suppliers {
		i, sup := i, sup
		g.Go(func() error {
			start := time.Now()
			hotels, err := sup.FetchHotels(gctx)
			if err != nil {
				return err
			}
			log.Debug().Str("supplier", sup.Name()).Int("hotels", len(hotels)).
				Dur("duration", time.Since(start)).Msg("supplier fetched")
			batches[i] = domain.SupplierBatch{Supplier: sup.Name(), Hotels: hotels}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func (s *RefreshService) record(ctx context.Context, res CycleResult, started time.Time, cycleErr error) {
	if s.store == nil {
		return
	}
	run := domain.RefreshRun{
		CycleID:    res.CycleID,
		StartedAt:  started.UTC(),
		FinishedAt: started.Add(res.Duration).UTC(),
		Status:     RunStatusOK,
		Hotels:     res.Hotels,
	}
	if cycleErr != nil {
		msg := cycleErr.Error()
		run.Status, run.Hotels, run.Error = RunStatusFailed, 0, &msg
	}
	// the run log must not depend on the cycle's (possibly cancelled) context
	if err := s.store.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		log.Warn().Err(err).Str("cycle_id", res.CycleID).Msg("record refresh run failed")
	}
}
