package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"appcatalog/internal/domain"
)

// batchSize keeps one statement well under max_allowed_packet and the
// 65535 placeholder limit.
const batchSize = 500

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valNonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var _ domain.CategoryCounter = (*Repo)(nil)

// UpsertApps writes apps keyed by (source, name). Batches are committed in
// one transaction.
func (r *Repo) UpsertApps(ctx context.Context, runID string, apps []domain.App) error {
	if len(apps) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	for start := 0; start < len(apps); start += batchSize {
		end := min(start+batchSize, len(apps))
		chunk := apps[start:end]

		values := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*appsColumnsPerRow)
		for _, a := range chunk {
			values = append(values, appsRowPlaceholder)
			args = append(args,
				a.Source,
				a.Name,
				runID,
				valNonEmpty(a.Category),
				valF64(a.Rating),
				valInt64(a.ReviewCount),
				valInt64(a.Installs),
				valStr(a.Type),
				valF64(a.Price),
				valStr(a.ContentRating),
				valF64(a.SizeBytes),
				valStr(a.RequiredAndroidVersion),
				valStr(a.LastUpdatedDate),
				valF64(a.AvgSentimentPolarity),
			)
		}
		q := upsertAppsPrefix + strings.Join(values, ",") + upsertAppsOnDup
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("upsert apps [%d:%d]: %w", start, end, err)
		}
	}
	return tx.Commit()
}

func (r *Repo) RecordRun(ctx context.Context, s domain.RunSummary) error {
	_, err := r.db.ExecContext(ctx, insertRunSQL,
		s.RunID,
		s.StartedAt.UTC(),
		s.FinishedAt.UTC(),
		s.CleanedRows,
		s.CombinedRows,
		s.CacheHits,
		s.NewFetches,
		s.Failed,
		s.Mock,
	)
	return err
}

// CountByCategory reports how many rows a run stored per source and category.
func (r *Repo) CountByCategory(ctx context.Context, runID string) ([]domain.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, countByCategorySQL, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Source, &c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
