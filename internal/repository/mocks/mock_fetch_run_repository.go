package mocks

import (
	"context"

	"userfeed/internal/model"
	"userfeed/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockFetchRunRepository struct {
	mock.Mock
}

func (m *MockFetchRunRepository) Create(ctx context.Context, run *model.FetchRun) (*model.FetchRun, error) {
	args := m.Called(ctx, run)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FetchRun), args.Error(1)
}

func (m *MockFetchRunRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.FetchRun], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.FetchRun]), args.Error(1)
}
