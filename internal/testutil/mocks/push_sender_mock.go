package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/byronwade/rebuzzle/internal/models"
)

// MockPushSender is a mock implementation of push.Sender
type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) Send(ctx context.Context, sub models.PushSubscription, payload []byte) error {
	args := m.Called(ctx, sub, payload)
	return args.Error(0)
}
