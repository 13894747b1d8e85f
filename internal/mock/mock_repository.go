package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pagerank-bench/pkg/model"
)

// MockRunRepository is a mock implementation of the repository.RunRepository
// interface.
type MockRunRepository struct {
	mock.Mock
}

// CreateRun mocks the CreateRun method.
func (m *MockRunRepository) CreateRun(ctx context.Context, run *model.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// GetRunByUUID mocks the GetRunByUUID method.
func (m *MockRunRepository) GetRunByUUID(ctx context.Context, runUUID string) (*model.Run, error) {
	args := m.Called(ctx, runUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

// GetPendingRuns mocks the GetPendingRuns method.
func (m *MockRunRepository) GetPendingRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Run), args.Error(1)
}

// ListRunsByGraph mocks the ListRunsByGraph method.
func (m *MockRunRepository) ListRunsByGraph(ctx context.Context, graphName string, limit int) ([]*model.Run, error) {
	args := m.Called(ctx, graphName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Run), args.Error(1)
}

// ListRecentRuns mocks the ListRecentRuns method.
func (m *MockRunRepository) ListRecentRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Run), args.Error(1)
}

// ClaimRun mocks the ClaimRun method.
func (m *MockRunRepository) ClaimRun(ctx context.Context, runUUID string) (bool, error) {
	args := m.Called(ctx, runUUID)
	return args.Bool(0), args.Error(1)
}

// CompleteRun mocks the CompleteRun method.
func (m *MockRunRepository) CompleteRun(ctx context.Context, runUUID string, res *model.Run) error {
	args := m.Called(ctx, runUUID, res)
	return args.Error(0)
}

// FailRun mocks the FailRun method.
func (m *MockRunRepository) FailRun(ctx context.Context, runUUID string, reason string) error {
	args := m.Called(ctx, runUUID, reason)
	return args.Error(0)
}

// ExpectGetPendingRuns sets up an expectation for GetPendingRuns.
func (m *MockRunRepository) ExpectGetPendingRuns(limit int, runs []*model.Run, err error) *mock.Call {
	return m.On("GetPendingRuns", mock.Anything, limit).Return(runs, err)
}

// ExpectClaimRun sets up an expectation for ClaimRun.
func (m *MockRunRepository) ExpectClaimRun(runUUID string, success bool, err error) *mock.Call {
	return m.On("ClaimRun", mock.Anything, runUUID).Return(success, err)
}

// ExpectCompleteRun sets up an expectation for CompleteRun.
func (m *MockRunRepository) ExpectCompleteRun(runUUID string, err error) *mock.Call {
	return m.On("CompleteRun", mock.Anything, runUUID, mock.Anything).Return(err)
}
