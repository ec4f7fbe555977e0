package postgres

import (
	"context"
	"database/sql"

	"userfeed/internal/model"
	"userfeed/internal/repository"
)

// FetchRunPostgres is a PostgreSQL implementation of repository.FetchRunRepository.
type FetchRunPostgres struct {
	db *sql.DB
}

// NewFetchRunPostgres creates a new FetchRunPostgres repository.
func NewFetchRunPostgres(db *sql.DB) *FetchRunPostgres {
	return &FetchRunPostgres{db: db}
}

var _ repository.FetchRunRepository = (*FetchRunPostgres)(nil)

const fetchRunColumns = `id, started_at, duration_ms, outcome, status_code, user_count, snapshot_key`

type scanner interface {
	Scan(dest ...any) error
}

func scanFetchRun(s scanner) (model.FetchRun, error) {
	var r model.FetchRun
	err := s.Scan(
		&r.ID,
		&r.StartedAt,
		&r.DurationMS,
		&r.Outcome,
		&r.StatusCode,
		&r.UserCount,
		&r.SnapshotKey,
	)
	return r, err
}

// Create inserts a run row and returns it as stored.
func (r *FetchRunPostgres) Create(ctx context.Context, run *model.FetchRun) (*model.FetchRun, error) {
	const q = `
		INSERT INTO fetch_runs (` + fetchRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + fetchRunColumns
	row := r.db.QueryRowContext(ctx, q,
		run.ID,
		run.StartedAt,
		run.DurationMS,
		run.Outcome,
		run.StatusCode,
		run.UserCount,
		run.SnapshotKey,
	)
	out, err := scanFetchRun(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns runs using LIMIT/OFFSET pagination and a total count.
func (r *FetchRunPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.FetchRun], error) {
	const qCount = `SELECT COUNT(*) FROM fetch_runs`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + fetchRunColumns + `
		FROM fetch_runs
		ORDER BY started_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FetchRun, 0)
	for rows.Next() {
		run, err := scanFetchRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.FetchRun]{
		Items: items,
		Total: total,
	}, nil
}
