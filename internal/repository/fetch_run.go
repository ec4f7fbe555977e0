// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"context"

	"userfeed/internal/model"
)

// FetchRunRepository persists fetch history rows. No business logic here.
type FetchRunRepository interface {
	// Create inserts a run and returns the stored row.
	Create(ctx context.Context, run *model.FetchRun) (*model.FetchRun, error)

	// List returns runs newest first with the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.FetchRun], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
