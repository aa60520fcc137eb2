package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"formsapi/internal/model"
	repoMocks "formsapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
)

func TestFormsLogService_FindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockFormsLogRepository)
		svc := NewFormsLogService(mRepo)

		mRepo.On("List", ctx).Return([]model.FormsLog{
			{ID: "log-1", FormID: 1, OperationType: model.OperationInsert, PerformedBy: "u1"},
		}, nil)

		logs, err := svc.FindAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, logs, 1)
		mRepo.AssertExpectations(t)
	})

	t.Run("query failure", func(t *testing.T) {
		mRepo := new(repoMocks.MockFormsLogRepository)
		svc := NewFormsLogService(mRepo)

		mRepo.On("List", ctx).Return(nil, errors.New("db fail"))

		_, err := svc.FindAll(ctx)
		assert.Error(t, err)
	})
}

func TestFormsLogService_FindOne(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockFormsLogRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "log-1",
			setupMocks: func(mRepo *repoMocks.MockFormsLogRepository) {
				mRepo.On("FindByID", ctx, "log-1").
					Return(&model.FormsLog{ID: "log-1", OperationType: model.OperationUpdate}, nil)
			},
		},
		{
			name:    "validation - empty id",
			id:      "",
			wantErr: ErrIDRequired,
		},
		{
			name: "missing row maps to not found",
			id:   "missing",
			setupMocks: func(mRepo *repoMocks.MockFormsLogRepository) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "other query failures stay generic",
			id:   "log-1",
			setupMocks: func(mRepo *repoMocks.MockFormsLogRepository) {
				mRepo.On("FindByID", ctx, "log-1").Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockFormsLogRepository)
			svc := NewFormsLogService(mRepo)

			if tt.setupMocks != nil {
				tt.setupMocks(mRepo)
			}

			l, err := svc.FindOne(ctx, tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
					// Not-found must stay distinguishable from generic failures.
					if errors.Is(tt.wantErr, ErrNotFound) {
						assert.NotErrorIs(t, err, ErrIDRequired)
					}
				} else {
					assert.Error(t, err)
					assert.NotErrorIs(t, err, ErrNotFound)
				}
				assert.Nil(t, l)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, l)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestFormsLogService_FindUserLogs(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockFormsLogRepository)
	svc := NewFormsLogService(mRepo)

	mRepo.On("ListByPerformer", ctx, "u2").Return([]model.FormsLog{
		{ID: "log-1", PerformedBy: "u2"},
	}, nil)

	logs, err := svc.FindUserLogs(ctx, "u2")

	assert.NoError(t, err)
	assert.Len(t, logs, 1)

	_, err = svc.FindUserLogs(ctx, "")
	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestFormsLogService_FindFormLogs(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockFormsLogRepository)
	svc := NewFormsLogService(mRepo)

	mRepo.On("ListByForm", ctx, int64(7)).Return([]model.FormsLog{
		{ID: "log-1", FormID: 7},
	}, nil)

	logs, err := svc.FindFormLogs(ctx, 7)

	assert.NoError(t, err)
	assert.Len(t, logs, 1)
	mRepo.AssertExpectations(t)
}

func TestFormsLogService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockFormsLogRepository)
		svc := NewFormsLogService(mRepo)

		mRepo.On("Delete", ctx, "log-1").Return(nil)

		assert.NoError(t, svc.Remove(ctx, "log-1"))
		mRepo.AssertExpectations(t)
	})

	t.Run("delete failure is fatal to the request", func(t *testing.T) {
		mRepo := new(repoMocks.MockFormsLogRepository)
		svc := NewFormsLogService(mRepo)

		mRepo.On("Delete", ctx, "log-1").Return(errors.New("db fail"))

		assert.Error(t, svc.Remove(ctx, "log-1"))
	})

	t.Run("validation - empty id", func(t *testing.T) {
		svc := NewFormsLogService(new(repoMocks.MockFormsLogRepository))
		assert.ErrorIs(t, svc.Remove(ctx, ""), ErrIDRequired)
	})
}
