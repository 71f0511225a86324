package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/byronwade/rebuzzle/internal/generator"
)

// MockProvider is a mock implementation of generator.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Complete(ctx context.Context, system, user string) (*generator.Completion, error) {
	args := m.Called(ctx, system, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generator.Completion), args.Error(1)
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Model() string {
	args := m.Called()
	return args.String(0)
}
