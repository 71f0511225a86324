package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/byronwade/rebuzzle/internal/models"
)

// MockQueue is a mock implementation of jobs.Queue
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) EnqueueGenerationLog(rec models.GenerationRecord) bool {
	args := m.Called(rec)
	return args.Bool(0)
}

func (m *MockQueue) EnqueuePush(sub models.PushSubscription, payload []byte) bool {
	args := m.Called(sub, payload)
	return args.Bool(0)
}
