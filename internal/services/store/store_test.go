package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fanlist/internal/models"
	services "github.com/magabrotheeeer/fanlist/internal/services/store"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

type StoreRepoMock struct {
	mock.Mock
}

func (m *StoreRepoMock) GetStoreItems(ctx context.Context, creatorUID string) ([]*models.StoreItem, error) {
	args := m.Called(ctx, creatorUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StoreItem), args.Error(1)
}

func (m *StoreRepoMock) GetStoreItem(ctx context.Context, id int) (*models.StoreItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoreItem), args.Error(1)
}

func (m *StoreRepoMock) CreateStoreItem(ctx context.Context, item models.StoreItem) (int, error) {
	args := m.Called(ctx, item)
	return args.Int(0), args.Error(1)
}

func (m *StoreRepoMock) UpdateStoreItem(ctx context.Context, item models.StoreItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *StoreRepoMock) DeleteStoreItem(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *StoreRepoMock) CountActiveStoreItems(ctx context.Context, creatorUID string) (int, error) {
	args := m.Called(ctx, creatorUID)
	return args.Int(0), args.Error(1)
}

func (m *StoreRepoMock) CreateStoreRedemption(ctx context.Context, storeItemID int, userUID string) (*models.StoreRedemption, error) {
	args := m.Called(ctx, storeItemID, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoreRedemption), args.Error(1)
}

func (m *StoreRepoMock) GetStoreRedemptions(ctx context.Context, creatorUID string, limit, offset int) ([]*models.StoreRedemption, error) {
	args := m.Called(ctx, creatorUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StoreRedemption), args.Error(1)
}

func (m *StoreRepoMock) UpdateRedemptionStatus(ctx context.Context, redemptionID int, status, creatorUID string) (*models.StoreRedemption, error) {
	args := m.Called(ctx, redemptionID, status, creatorUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoreRedemption), args.Error(1)
}

func newTestService(repo *StoreRepoMock) *services.StoreService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewStoreService(repo, nil, nil, log)
}

func TestStoreService_CreateItem(t *testing.T) {
	req := models.DummyStoreItem{Title: "Shoutout", PointsCost: 10}

	tests := []struct {
		name       string
		req        models.DummyStoreItem
		setupMocks func(r *StoreRepoMock)
		wantID     int
		wantErr    error
	}{
		{
			name: "creates active item under limit",
			req:  req,
			setupMocks: func(r *StoreRepoMock) {
				r.On("CountActiveStoreItems", mock.Anything, "creator-1").Return(2, nil).Once()
				r.On("CreateStoreItem", mock.Anything, mock.MatchedBy(func(item models.StoreItem) bool {
					return item.CreatorUID == "creator-1" && item.IsActive && item.PointsCost == 10
				})).Return(3, nil).Once()
			},
			wantID: 3,
		},
		{
			name: "active item limit reached",
			req:  req,
			setupMocks: func(r *StoreRepoMock) {
				r.On("CountActiveStoreItems", mock.Anything, "creator-1").Return(services.MaxActiveItems, nil).Once()
			},
			wantErr: storage.ErrQuotaExceeded,
		},
		{
			name: "inactive item skips the limit",
			req: models.DummyStoreItem{
				Title:      "Backlog reward",
				PointsCost: 10,
				IsActive:   func() *bool { v := false; return &v }(),
			},
			setupMocks: func(r *StoreRepoMock) {
				r.On("CreateStoreItem", mock.Anything, mock.MatchedBy(func(item models.StoreItem) bool {
					return !item.IsActive
				})).Return(4, nil).Once()
			},
			wantID: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(StoreRepoMock)
			svc := newTestService(repo)

			tt.setupMocks(repo)

			id, err := svc.CreateItem(context.Background(), "creator-1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestStoreService_UpdateItem(t *testing.T) {
	item := &models.StoreItem{ID: 1, CreatorUID: "creator-1", Title: "Shoutout", PointsCost: 10, IsActive: true}

	t.Run("foreign item forbidden", func(t *testing.T) {
		repo := new(StoreRepoMock)
		svc := newTestService(repo)

		repo.On("GetStoreItem", mock.Anything, 1).Return(item, nil).Once()

		_, err := svc.UpdateItem(context.Background(), 1, "creator-2", models.DummyStoreItem{Title: "Hijack", PointsCost: 1})
		assert.ErrorIs(t, err, storage.ErrForbidden)
	})

	t.Run("reactivation counts against the limit", func(t *testing.T) {
		repo := new(StoreRepoMock)
		svc := newTestService(repo)

		inactive := *item
		inactive.IsActive = false
		active := true

		repo.On("GetStoreItem", mock.Anything, 1).Return(&inactive, nil).Once()
		repo.On("CountActiveStoreItems", mock.Anything, "creator-1").Return(services.MaxActiveItems, nil).Once()

		_, err := svc.UpdateItem(context.Background(), 1, "creator-1", models.DummyStoreItem{
			Title:      "Shoutout",
			PointsCost: 10,
			IsActive:   &active,
		})
		assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
	})

	t.Run("successful update", func(t *testing.T) {
		repo := new(StoreRepoMock)
		svc := newTestService(repo)

		fresh := *item
		repo.On("GetStoreItem", mock.Anything, 1).Return(&fresh, nil).Once()
		repo.On("UpdateStoreItem", mock.Anything, mock.MatchedBy(func(i models.StoreItem) bool {
			return i.Title == "Big shoutout" && i.PointsCost == 20
		})).Return(nil).Once()

		got, err := svc.UpdateItem(context.Background(), 1, "creator-1", models.DummyStoreItem{
			Title:      "Big shoutout",
			PointsCost: 20,
		})
		assert.NoError(t, err)
		assert.Equal(t, "Big shoutout", got.Title)
		repo.AssertExpectations(t)
	})
}

func TestStoreService_Redeem(t *testing.T) {
	t.Run("successful redemption", func(t *testing.T) {
		repo := new(StoreRepoMock)
		svc := newTestService(repo)

		redemption := &models.StoreRedemption{
			ID:          1,
			StoreItemID: 5,
			UserUID:     "viewer-1",
			CreatorUID:  "creator-1",
			PointsSpent: 10,
			Status:      models.RedemptionPending,
		}
		repo.On("CreateStoreRedemption", mock.Anything, 5, "viewer-1").Return(redemption, nil).Once()

		got, err := svc.Redeem(context.Background(), 5, "viewer-1")
		assert.NoError(t, err)
		assert.Equal(t, models.RedemptionPending, got.Status)
		repo.AssertExpectations(t)
	})

	t.Run("insufficient points", func(t *testing.T) {
		repo := new(StoreRepoMock)
		svc := newTestService(repo)

		repo.On("CreateStoreRedemption", mock.Anything, 5, "viewer-1").
			Return(nil, storage.ErrInsufficientPoints).Once()

		_, err := svc.Redeem(context.Background(), 5, "viewer-1")
		assert.ErrorIs(t, err, storage.ErrInsufficientPoints)
	})

	t.Run("unavailable item", func(t *testing.T) {
		repo := new(StoreRepoMock)
		svc := newTestService(repo)

		repo.On("CreateStoreRedemption", mock.Anything, 5, "viewer-1").
			Return(nil, storage.ErrUnavailable).Once()

		_, err := svc.Redeem(context.Background(), 5, "viewer-1")
		assert.ErrorIs(t, err, storage.ErrUnavailable)
	})
}

func TestStoreService_CompleteRedemption(t *testing.T) {
	repo := new(StoreRepoMock)
	svc := newTestService(repo)

	completed := &models.StoreRedemption{ID: 1, Status: models.RedemptionCompleted}
	repo.On("UpdateRedemptionStatus", mock.Anything, 1, models.RedemptionCompleted, "creator-1").
		Return(completed, nil).Once()

	got, err := svc.CompleteRedemption(context.Background(), 1, "creator-1")
	assert.NoError(t, err)
	assert.Equal(t, models.RedemptionCompleted, got.Status)
	repo.AssertExpectations(t)
}

func TestStoreService_Redemptions(t *testing.T) {
	repo := new(StoreRepoMock)
	svc := newTestService(repo)

	repo.On("GetStoreRedemptions", mock.Anything, "creator-1", services.DefaultRedemptionsLimit, 0).
		Return([]*models.StoreRedemption{}, nil).Once()

	_, err := svc.Redemptions(context.Background(), "creator-1", 0, -5)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
