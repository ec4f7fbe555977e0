package mocks

import (
	"context"

	"userfeed/internal/model"
	"userfeed/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) FetchUsers(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockFeed) State() service.State {
	args := m.Called()
	return args.Get(0).(service.State)
}

type MockFetchHistory struct {
	mock.Mock
}

func (m *MockFetchHistory) Record(ctx context.Context, run model.FetchRun, payload []byte) (*model.FetchRun, error) {
	args := m.Called(ctx, run, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FetchRun), args.Error(1)
}

func (m *MockFetchHistory) List(ctx context.Context, limit, offset int) (*service.FetchRunListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FetchRunListResult), args.Error(1)
}
