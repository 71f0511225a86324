package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/byronwade/rebuzzle/internal/models"
)

// MockGenerationRepository is a mock implementation of repository.GenerationRepository
type MockGenerationRepository struct {
	mock.Mock
}

func (m *MockGenerationRepository) Insert(ctx context.Context, rec models.GenerationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockGenerationRepository) ListByDay(ctx context.Context, day string) ([]models.GenerationRecord, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GenerationRecord), args.Error(1)
}
