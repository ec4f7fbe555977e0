package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"userfeed/internal/model"
	"userfeed/internal/repository"
	"userfeed/internal/storage"
)

var ErrIDRequired = errors.New("id is required")

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// FetchRunListResult is the service-level DTO for paginated fetch history.
type FetchRunListResult struct {
	Items []model.FetchRun `json:"data"`
	Total int              `json:"total"`
}

// FetchHistory records fetch attempts and lists them back.
type FetchHistory interface {
	// Record archives payload (when non-empty and a store is configured) under
	// snapshots/<run id>.json, then saves the run. The archive is removed again if the save fails.
	Record(ctx context.Context, run model.FetchRun, payload []byte) (*model.FetchRun, error)

	// List returns runs newest first using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*FetchRunListResult, error)
}

type fetchHistory struct {
	store storage.Storage
	repo  repository.FetchRunRepository
}

// NewFetchHistory constructs a FetchHistory. store may be nil to skip payload archiving.
func NewFetchHistory(store storage.Storage, repo repository.FetchRunRepository) FetchHistory {
	return &fetchHistory{store: store, repo: repo}
}

func snapshotKey(runID string) string {
	return "snapshots/" + runID + ".json"
}

func (h *fetchHistory) Record(ctx context.Context, run model.FetchRun, payload []byte) (*model.FetchRun, error) {
	if run.ID == "" {
		return nil, ErrIDRequired
	}

	archived := false
	if h.store != nil && len(payload) > 0 {
		key := snapshotKey(run.ID)
		info, err := h.store.Put(ctx, key, bytes.NewReader(payload), storage.PutObjectOptions{
			Size:        int64(len(payload)),
			ContentType: "application/json",
			Metadata:    map[string]string{"fetch-run-id": run.ID},
		})
		if err != nil {
			return nil, fmt.Errorf("archive payload: %w", err)
		}
		run.SnapshotKey = info.Key
		archived = true
	}

	stored, err := h.repo.Create(ctx, &run)
	if err != nil {
		if archived {
			if delErr := h.store.Delete(ctx, run.SnapshotKey); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (h *fetchHistory) List(ctx context.Context, limit, offset int) (*FetchRunListResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := h.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &FetchRunListResult{Items: res.Items, Total: res.Total}, nil
}
