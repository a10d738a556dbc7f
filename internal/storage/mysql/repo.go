package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"hotels_merge/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// Repo mirrors the published catalog into MySQL and keeps the refresh run log.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ReplaceCatalog swaps the stored snapshot for hotels in one transaction.
// Readers see either the old snapshot or the new one.
func (r *Repo) ReplaceCatalog(ctx context.Context, cycleID string, hotels []domain.Hotel) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteCatalogSQL); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	for start := 0; start < len(hotels); start += insertCatalogBatch {
		end := min(start+insertCatalogBatch, len(hotels))
		if err = insertCatalog(ctx, tx, cycleID, hotels[start:end]); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertCatalog(ctx context.Context, tx *sql.Tx, cycleID string, hotels []domain.Hotel) error {
	values := make([]string, 0, len(hotels))
	args := make([]any, 0, len(hotels)*5) // 5 params per row
	for _, h := range hotels {
		payload, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("encode hotel %s: %w", h.ID, err)
		}
		values = append(values, "(?,?,?,?,?)")
		args = append(args, h.ID, h.DestinationID, h.Name, string(payload), cycleID)
	}
	if _, err := tx.ExecContext(ctx, insertCatalogPrefix+strings.Join(values, ","), args...); err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}
	return nil
}

func (r *Repo) RecordRun(ctx context.Context, run domain.RefreshRun) error {
	_, err := r.db.ExecContext(ctx, insertRunSQL,
		run.CycleID,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.Status,
		run.Hotels,
		valStr(run.Error),
	)
	return err
}

func (r *Repo) ListRuns(ctx context.Context, limit int) ([]domain.RefreshRun, error) {
	rows, err := r.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.RefreshRun, 0, limit)
	for rows.Next() {
		var run domain.RefreshRun
		var msg sql.NullString
		if err := rows.Scan(&run.CycleID, &run.StartedAt, &run.FinishedAt, &run.Status, &run.Hotels, &msg); err != nil {
			return nil, err
		}
		if msg.Valid {
			s := msg.String
			run.Error = &s
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
