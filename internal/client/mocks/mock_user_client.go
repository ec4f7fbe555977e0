package mocks

import (
	"context"

	"userfeed/internal/client"

	"github.com/stretchr/testify/mock"
)

type MockUserClient struct {
	mock.Mock
}

func (m *MockUserClient) FetchUsers(ctx context.Context) (*client.Result, error) {
	args := m.Called(ctx)
	if f, ok := args.Get(0).(func(context.Context) *client.Result); ok {
		return f(ctx), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Result), args.Error(1)
}
