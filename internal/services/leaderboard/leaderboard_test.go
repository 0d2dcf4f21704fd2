package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fanlist/internal/models"
	services "github.com/magabrotheeeer/fanlist/internal/services/leaderboard"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

type LeaderboardRepoMock struct {
	mock.Mock
}

func (m *LeaderboardRepoMock) GetIdeasWithPositions(ctx context.Context, creatorUID string) ([]*models.RankedIdea, error) {
	args := m.Called(ctx, creatorUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RankedIdea), args.Error(1)
}

func (m *LeaderboardRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *LeaderboardRepoMock) GetPublicLinkByToken(ctx context.Context, token string) (*models.PublicLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicLink), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if args.Bool(0) {
		if ideas, ok := args.Get(2).([]*models.RankedIdea); ok {
			*(result.(*[]*models.RankedIdea)) = ideas
		}
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newTestService(repo *LeaderboardRepoMock, cache *CacheMock) *services.LeaderboardService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewLeaderboardService(repo, cache, log)
}

func rankedFixture() []*models.RankedIdea {
	one, two := 1, 2
	return []*models.RankedIdea{
		{Idea: &models.Idea{ID: 10, Votes: 7}, Position: models.Position{Current: &one}},
		{Idea: &models.Idea{ID: 11, Votes: 3}, Position: models.Position{Current: &two}},
	}
}

func TestLeaderboardService_Get(t *testing.T) {
	t.Run("cache miss falls back to storage", func(t *testing.T) {
		repo := new(LeaderboardRepoMock)
		cache := new(CacheMock)
		svc := newTestService(repo, cache)

		ideas := rankedFixture()
		cache.On("Get", "leaderboard:creator-1", mock.Anything).Return(false, nil, nil).Once()
		repo.On("GetIdeasWithPositions", mock.Anything, "creator-1").Return(ideas, nil).Once()
		cache.On("Set", "leaderboard:creator-1", ideas, mock.Anything).Return(nil).Once()

		got, err := svc.Get(context.Background(), "creator-1")
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		repo := new(LeaderboardRepoMock)
		cache := new(CacheMock)
		svc := newTestService(repo, cache)

		ideas := rankedFixture()
		cache.On("Get", "leaderboard:creator-1", mock.Anything).Return(true, nil, ideas).Once()

		got, err := svc.Get(context.Background(), "creator-1")
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertNotCalled(t, "GetIdeasWithPositions")
	})

	t.Run("cache error is not fatal", func(t *testing.T) {
		repo := new(LeaderboardRepoMock)
		cache := new(CacheMock)
		svc := newTestService(repo, cache)

		ideas := rankedFixture()
		cache.On("Get", "leaderboard:creator-1", mock.Anything).Return(false, assert.AnError, nil).Once()
		repo.On("GetIdeasWithPositions", mock.Anything, "creator-1").Return(ideas, nil).Once()
		cache.On("Set", "leaderboard:creator-1", ideas, mock.Anything).Return(nil).Once()

		got, err := svc.Get(context.Background(), "creator-1")
		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestLeaderboardService_GetByToken(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	t.Run("usable link resolves to creator leaderboard", func(t *testing.T) {
		repo := new(LeaderboardRepoMock)
		cache := new(CacheMock)
		svc := newTestService(repo, cache)

		link := &models.PublicLink{CreatorUID: "creator-1", Token: "tok", IsActive: true, ExpiresAt: &future}
		ideas := rankedFixture()

		repo.On("GetPublicLinkByToken", mock.Anything, "tok").Return(link, nil).Once()
		cache.On("Get", "leaderboard:creator-1", mock.Anything).Return(false, nil, nil).Once()
		repo.On("GetIdeasWithPositions", mock.Anything, "creator-1").Return(ideas, nil).Once()
		cache.On("Set", "leaderboard:creator-1", ideas, mock.Anything).Return(nil).Once()

		creatorUID, got, err := svc.GetByToken(context.Background(), "tok")
		assert.NoError(t, err)
		assert.Equal(t, "creator-1", creatorUID)
		assert.Len(t, got, 2)
	})

	t.Run("inactive link behaves as missing", func(t *testing.T) {
		repo := new(LeaderboardRepoMock)
		svc := newTestService(repo, new(CacheMock))

		link := &models.PublicLink{CreatorUID: "creator-1", Token: "tok", IsActive: false}
		repo.On("GetPublicLinkByToken", mock.Anything, "tok").Return(link, nil).Once()

		_, _, err := svc.GetByToken(context.Background(), "tok")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("expired link behaves as missing", func(t *testing.T) {
		repo := new(LeaderboardRepoMock)
		svc := newTestService(repo, new(CacheMock))

		link := &models.PublicLink{CreatorUID: "creator-1", Token: "tok", IsActive: true, ExpiresAt: &expired}
		repo.On("GetPublicLinkByToken", mock.Anything, "tok").Return(link, nil).Once()

		_, _, err := svc.GetByToken(context.Background(), "tok")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
