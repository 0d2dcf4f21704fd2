package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fanlist/internal/models"
	services "github.com/magabrotheeeer/fanlist/internal/services/points"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

type PointsRepoMock struct {
	mock.Mock
}

func (m *PointsRepoMock) GetUserPoints(ctx context.Context, userUID, creatorUID string) (*models.UserPoints, error) {
	args := m.Called(ctx, userUID, creatorUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPoints), args.Error(1)
}

func (m *PointsRepoMock) UpdateUserPoints(ctx context.Context, tx models.PointTransaction) (*models.UserPoints, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPoints), args.Error(1)
}

func (m *PointsRepoMock) GetUserPointTransactions(ctx context.Context, userUID string, limit int) ([]*models.PointTransaction, error) {
	args := m.Called(ctx, userUID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PointTransaction), args.Error(1)
}

func TestPointsService_Balance(t *testing.T) {
	repo := new(PointsRepoMock)
	svc := services.NewPointsService(repo)

	want := &models.UserPoints{UserUID: "viewer-1", CreatorUID: "creator-1", TotalPoints: 12, PointsEarned: 15, PointsSpent: 3}
	repo.On("GetUserPoints", mock.Anything, "viewer-1", "creator-1").Return(want, nil).Once()

	got, err := svc.Balance(context.Background(), "viewer-1", "creator-1")
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestPointsService_Post(t *testing.T) {
	tests := []struct {
		name       string
		tx         models.PointTransaction
		setupMocks func(r *PointsRepoMock)
		wantTotal  int
		wantErr    error
	}{
		{
			name: "earned transaction",
			tx: models.PointTransaction{
				UserUID:    "viewer-1",
				CreatorUID: "creator-1",
				Type:       models.PointTypeEarned,
				Amount:     1,
				Reason:     models.PointReasonVote,
			},
			setupMocks: func(r *PointsRepoMock) {
				r.On("UpdateUserPoints", mock.Anything, mock.Anything).
					Return(&models.UserPoints{TotalPoints: 1, PointsEarned: 1}, nil).Once()
			},
			wantTotal: 1,
		},
		{
			name: "zero amount rejected before storage",
			tx: models.PointTransaction{
				UserUID:    "viewer-1",
				CreatorUID: "creator-1",
				Type:       models.PointTypeEarned,
				Amount:     0,
			},
			setupMocks: func(_ *PointsRepoMock) {},
			wantErr:    services.ErrInvalidAmount,
		},
		{
			name: "negative amount rejected",
			tx: models.PointTransaction{
				UserUID:    "viewer-1",
				CreatorUID: "creator-1",
				Type:       models.PointTypeSpent,
				Amount:     -3,
			},
			setupMocks: func(_ *PointsRepoMock) {},
			wantErr:    services.ErrInvalidAmount,
		},
		{
			name: "overspend propagates storage error",
			tx: models.PointTransaction{
				UserUID:    "viewer-1",
				CreatorUID: "creator-1",
				Type:       models.PointTypeSpent,
				Amount:     100,
				Reason:     models.PointReasonStoreRedemption,
			},
			setupMocks: func(r *PointsRepoMock) {
				r.On("UpdateUserPoints", mock.Anything, mock.Anything).
					Return(nil, storage.ErrInsufficientPoints).Once()
			},
			wantErr: storage.ErrInsufficientPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(PointsRepoMock)
			svc := services.NewPointsService(repo)

			tt.setupMocks(repo)

			got, err := svc.Post(context.Background(), tt.tx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, got.TotalPoints)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestPointsService_History(t *testing.T) {
	t.Run("explicit limit", func(t *testing.T) {
		repo := new(PointsRepoMock)
		svc := services.NewPointsService(repo)

		txs := []*models.PointTransaction{{ID: 1}, {ID: 2}}
		repo.On("GetUserPointTransactions", mock.Anything, "viewer-1", 10).Return(txs, nil).Once()

		got, err := svc.History(context.Background(), "viewer-1", 10)
		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("default limit when omitted", func(t *testing.T) {
		repo := new(PointsRepoMock)
		svc := services.NewPointsService(repo)

		repo.On("GetUserPointTransactions", mock.Anything, "viewer-1", services.DefaultHistoryLimit).
			Return([]*models.PointTransaction{}, nil).Once()

		_, err := svc.History(context.Background(), "viewer-1", 0)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
