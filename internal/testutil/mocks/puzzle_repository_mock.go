package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/byronwade/rebuzzle/internal/models"
)

// MockPuzzleRepository is a mock implementation of repository.PuzzleRepository
type MockPuzzleRepository struct {
	mock.Mock
}

func (m *MockPuzzleRepository) InsertIfAbsent(ctx context.Context, p models.Puzzle) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPuzzleRepository) Get(ctx context.Context, id string) (*models.Puzzle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Puzzle), args.Error(1)
}

func (m *MockPuzzleRepository) GetByDay(ctx context.Context, day string) (*models.Puzzle, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Puzzle), args.Error(1)
}

func (m *MockPuzzleRepository) AttachEmbedding(ctx context.Context, id string, embedding []byte) error {
	args := m.Called(ctx, id, embedding)
	return args.Error(0)
}

func (m *MockPuzzleRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
