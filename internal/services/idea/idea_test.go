package services_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fanlist/internal/models"
	services "github.com/magabrotheeeer/fanlist/internal/services/idea"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

type IdeaRepoMock struct {
	mock.Mock
}

func (m *IdeaRepoMock) CreateIdea(ctx context.Context, idea models.Idea) (int, error) {
	args := m.Called(ctx, idea)
	return args.Int(0), args.Error(1)
}

func (m *IdeaRepoMock) SuggestIdea(ctx context.Context, idea models.Idea) (int, error) {
	args := m.Called(ctx, idea)
	return args.Int(0), args.Error(1)
}

func (m *IdeaRepoMock) ApproveIdea(ctx context.Context, id int) (*models.Idea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *IdeaRepoMock) GetIdea(ctx context.Context, id int) (*models.Idea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *IdeaRepoMock) GetIdeas(ctx context.Context, creatorUID string) ([]*models.Idea, error) {
	args := m.Called(ctx, creatorUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Idea), args.Error(1)
}

func (m *IdeaRepoMock) GetPendingIdeas(ctx context.Context, creatorUID string) ([]*models.Idea, error) {
	args := m.Called(ctx, creatorUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Idea), args.Error(1)
}

func (m *IdeaRepoMock) UpdateIdea(ctx context.Context, id int, title, description string) (*models.Idea, error) {
	args := m.Called(ctx, id, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *IdeaRepoMock) DeleteIdea(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *IdeaRepoMock) CountIdeas(ctx context.Context, creatorUID string) (int, error) {
	args := m.Called(ctx, creatorUID)
	return args.Int(0), args.Error(1)
}

type VoteRepoMock struct {
	mock.Mock
}

func (m *VoteRepoMock) GetVote(ctx context.Context, ideaID int, voterUID string) (*models.Vote, error) {
	args := m.Called(ctx, ideaID, voterUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

func (m *VoteRepoMock) CreateVote(ctx context.Context, ideaID int, voterUID string) error {
	args := m.Called(ctx, ideaID, voterUID)
	return args.Error(0)
}

func (m *VoteRepoMock) IncrementVote(ctx context.Context, ideaID int) (int, error) {
	args := m.Called(ctx, ideaID)
	return args.Int(0), args.Error(1)
}

type PointsRepoMock struct {
	mock.Mock
}

func (m *PointsRepoMock) UpdateUserPoints(ctx context.Context, tx models.PointTransaction) (*models.UserPoints, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPoints), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newTestService(ideas *IdeaRepoMock, votes *VoteRepoMock, points *PointsRepoMock, cache *CacheMock) *services.IdeaService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var inv services.CacheInvalidator
	if cache != nil {
		inv = cache
	}
	return services.NewIdeaService(ideas, votes, points, nil, inv, nil, log)
}

func TestIdeaService_Create(t *testing.T) {
	req := models.DummyIdea{Title: "Stream speedrun", Description: "One sitting"}

	tests := []struct {
		name       string
		hasPremium bool
		setupMocks func(r *IdeaRepoMock, c *CacheMock)
		wantID     int
		wantErr    error
	}{
		{
			name: "free creator under limit",
			setupMocks: func(r *IdeaRepoMock, c *CacheMock) {
				r.On("CountIdeas", mock.Anything, "creator-1").Return(3, nil).Once()
				r.On("CreateIdea", mock.Anything, mock.MatchedBy(func(idea models.Idea) bool {
					return idea.CreatorUID == "creator-1" && idea.Status == models.IdeaStatusApproved
				})).Return(7, nil).Once()
				c.On("Invalidate", "leaderboard:creator-1").Return(nil).Once()
			},
			wantID: 7,
		},
		{
			name: "free creator at limit",
			setupMocks: func(r *IdeaRepoMock, _ *CacheMock) {
				r.On("CountIdeas", mock.Anything, "creator-1").Return(5, nil).Once()
			},
			wantErr: storage.ErrQuotaExceeded,
		},
		{
			name:       "premium creator bypasses limit",
			hasPremium: true,
			setupMocks: func(r *IdeaRepoMock, c *CacheMock) {
				r.On("CreateIdea", mock.Anything, mock.Anything).Return(8, nil).Once()
				c.On("Invalidate", "leaderboard:creator-1").Return(nil).Once()
			},
			wantID: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ideas := new(IdeaRepoMock)
			cache := new(CacheMock)
			svc := newTestService(ideas, new(VoteRepoMock), new(PointsRepoMock), cache)

			tt.setupMocks(ideas, cache)

			id, err := svc.Create(context.Background(), "creator-1", req, tt.hasPremium)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			ideas.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestIdeaService_Suggest(t *testing.T) {
	req := models.DummyIdea{Title: "Collab video"}

	t.Run("charges suggestion cost", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		points := new(PointsRepoMock)
		svc := newTestService(ideas, new(VoteRepoMock), points, nil)

		ideas.On("SuggestIdea", mock.Anything, mock.MatchedBy(func(idea models.Idea) bool {
			return idea.Status == models.IdeaStatusPending &&
				idea.SuggestedBy != nil && *idea.SuggestedBy == "viewer-1"
		})).Return(42, nil).Once()
		points.On("UpdateUserPoints", mock.Anything, mock.MatchedBy(func(tx models.PointTransaction) bool {
			return tx.UserUID == "viewer-1" &&
				tx.CreatorUID == "creator-1" &&
				tx.Type == models.PointTypeSpent &&
				tx.Amount == services.SuggestionCost &&
				tx.Reason == models.PointReasonSuggestionCost &&
				tx.RelatedID != nil && *tx.RelatedID == 42
		})).Return(&models.UserPoints{TotalPoints: 1}, nil).Once()

		id, err := svc.Suggest(context.Background(), "creator-1", "viewer-1", req)
		assert.NoError(t, err)
		assert.Equal(t, 42, id)
		ideas.AssertExpectations(t)
		points.AssertExpectations(t)
	})

	t.Run("insufficient points rolls suggestion back", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		points := new(PointsRepoMock)
		svc := newTestService(ideas, new(VoteRepoMock), points, nil)

		ideas.On("SuggestIdea", mock.Anything, mock.Anything).Return(42, nil).Once()
		points.On("UpdateUserPoints", mock.Anything, mock.Anything).
			Return(nil, storage.ErrInsufficientPoints).Once()
		ideas.On("DeleteIdea", mock.Anything, 42).Return(nil).Once()

		_, err := svc.Suggest(context.Background(), "creator-1", "viewer-1", req)
		assert.ErrorIs(t, err, storage.ErrInsufficientPoints)
		ideas.AssertExpectations(t)
		points.AssertExpectations(t)
	})
}

func TestIdeaService_Approve(t *testing.T) {
	suggester := "viewer-1"
	pending := &models.Idea{
		ID:          42,
		CreatorUID:  "creator-1",
		Title:       "Collab video",
		Status:      models.IdeaStatusPending,
		SuggestedBy: &suggester,
	}

	t.Run("awards bonus to suggester", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		points := new(PointsRepoMock)
		cache := new(CacheMock)
		svc := newTestService(ideas, new(VoteRepoMock), points, cache)

		approved := *pending
		approved.Status = models.IdeaStatusApproved

		ideas.On("GetIdea", mock.Anything, 42).Return(pending, nil).Once()
		ideas.On("ApproveIdea", mock.Anything, 42).Return(&approved, nil).Once()
		points.On("UpdateUserPoints", mock.Anything, mock.MatchedBy(func(tx models.PointTransaction) bool {
			return tx.UserUID == "viewer-1" &&
				tx.Type == models.PointTypeEarned &&
				tx.Amount == services.ApprovalBonus &&
				tx.Reason == models.PointReasonSuggestionApproved
		})).Return(&models.UserPoints{TotalPoints: 2}, nil).Once()
		cache.On("Invalidate", "leaderboard:creator-1").Return(nil).Once()

		got, err := svc.Approve(context.Background(), 42, "creator-1")
		assert.NoError(t, err)
		assert.Equal(t, models.IdeaStatusApproved, got.Status)
		ideas.AssertExpectations(t)
		points.AssertExpectations(t)
	})

	t.Run("foreign creator forbidden", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		svc := newTestService(ideas, new(VoteRepoMock), new(PointsRepoMock), nil)

		ideas.On("GetIdea", mock.Anything, 42).Return(pending, nil).Once()

		_, err := svc.Approve(context.Background(), 42, "creator-2")
		assert.ErrorIs(t, err, storage.ErrForbidden)
	})

	t.Run("already approved", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		svc := newTestService(ideas, new(VoteRepoMock), new(PointsRepoMock), nil)

		approved := *pending
		approved.Status = models.IdeaStatusApproved
		ideas.On("GetIdea", mock.Anything, 42).Return(&approved, nil).Once()

		_, err := svc.Approve(context.Background(), 42, "creator-1")
		assert.ErrorIs(t, err, storage.ErrInvalidTransition)
	})
}

func TestIdeaService_Update(t *testing.T) {
	req := models.DummyIdea{Title: "New title", Description: "New description"}

	t.Run("edit allowed below vote lock", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		svc := newTestService(ideas, new(VoteRepoMock), new(PointsRepoMock), nil)

		idea := &models.Idea{ID: 1, CreatorUID: "creator-1", Votes: services.EditLockVotes - 1}
		updated := &models.Idea{ID: 1, CreatorUID: "creator-1", Title: "New title"}

		ideas.On("GetIdea", mock.Anything, 1).Return(idea, nil).Once()
		ideas.On("UpdateIdea", mock.Anything, 1, "New title", "New description").Return(updated, nil).Once()

		got, err := svc.Update(context.Background(), 1, "creator-1", req)
		assert.NoError(t, err)
		assert.Equal(t, "New title", got.Title)
	})

	t.Run("edit locked at vote threshold", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		svc := newTestService(ideas, new(VoteRepoMock), new(PointsRepoMock), nil)

		idea := &models.Idea{ID: 1, CreatorUID: "creator-1", Votes: services.EditLockVotes}
		ideas.On("GetIdea", mock.Anything, 1).Return(idea, nil).Once()

		_, err := svc.Update(context.Background(), 1, "creator-1", req)
		assert.ErrorIs(t, err, services.ErrEditLocked)
	})
}

func TestIdeaService_Vote(t *testing.T) {
	idea := &models.Idea{ID: 1, CreatorUID: "creator-1", Status: models.IdeaStatusApproved, Votes: 4}

	t.Run("vote increments counter and awards point", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		votes := new(VoteRepoMock)
		points := new(PointsRepoMock)
		cache := new(CacheMock)
		svc := newTestService(ideas, votes, points, cache)

		ideas.On("GetIdea", mock.Anything, 1).Return(idea, nil).Once()
		votes.On("CreateVote", mock.Anything, 1, "viewer-1").Return(nil).Once()
		votes.On("IncrementVote", mock.Anything, 1).Return(5, nil).Once()
		points.On("UpdateUserPoints", mock.Anything, mock.MatchedBy(func(tx models.PointTransaction) bool {
			return tx.UserUID == "viewer-1" &&
				tx.CreatorUID == "creator-1" &&
				tx.Type == models.PointTypeEarned &&
				tx.Amount == services.VoteAward &&
				tx.Reason == models.PointReasonVote
		})).Return(&models.UserPoints{TotalPoints: 1}, nil).Once()
		cache.On("Invalidate", "leaderboard:creator-1").Return(nil).Once()

		count, err := svc.Vote(context.Background(), 1, "viewer-1")
		assert.NoError(t, err)
		assert.Equal(t, 5, count)
		votes.AssertExpectations(t)
		points.AssertExpectations(t)
	})

	t.Run("duplicate vote", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		votes := new(VoteRepoMock)
		svc := newTestService(ideas, votes, new(PointsRepoMock), nil)

		ideas.On("GetIdea", mock.Anything, 1).Return(idea, nil).Once()
		votes.On("CreateVote", mock.Anything, 1, "viewer-1").Return(storage.ErrConflict).Once()

		_, err := svc.Vote(context.Background(), 1, "viewer-1")
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("pending idea is not votable", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		svc := newTestService(ideas, new(VoteRepoMock), new(PointsRepoMock), nil)

		pending := &models.Idea{ID: 2, CreatorUID: "creator-1", Status: models.IdeaStatusPending}
		ideas.On("GetIdea", mock.Anything, 2).Return(pending, nil).Once()

		_, err := svc.Vote(context.Background(), 2, "viewer-1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestIdeaService_Quota(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  services.QuotaStatus
	}{
		{
			name:  "under limit",
			count: 2,
			want:  services.QuotaStatus{Count: 2, Limit: services.FreeIdeaLimit, HasReachedLimit: false},
		},
		{
			name:  "at limit",
			count: 5,
			want:  services.QuotaStatus{Count: 5, Limit: services.FreeIdeaLimit, HasReachedLimit: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ideas := new(IdeaRepoMock)
			svc := newTestService(ideas, new(VoteRepoMock), new(PointsRepoMock), nil)

			ideas.On("CountIdeas", mock.Anything, "creator-1").Return(tt.count, nil).Once()

			got, err := svc.Quota(context.Background(), "creator-1")
			assert.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestIdeaService_ImportCSV(t *testing.T) {
	t.Run("imports rows and skips header", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		cache := new(CacheMock)
		svc := newTestService(ideas, new(VoteRepoMock), new(PointsRepoMock), cache)

		input := "title,description\nSpeedrun,One sitting\nQ&A stream,\n"
		ideas.On("CreateIdea", mock.Anything, mock.MatchedBy(func(idea models.Idea) bool {
			return idea.Title == "Speedrun" && idea.Description == "One sitting"
		})).Return(1, nil).Once()
		ideas.On("CreateIdea", mock.Anything, mock.MatchedBy(func(idea models.Idea) bool {
			return idea.Title == "Q&A stream" && idea.Description == ""
		})).Return(2, nil).Once()
		cache.On("Invalidate", "leaderboard:creator-1").Return(nil).Once()

		created, err := svc.ImportCSV(context.Background(), "creator-1", strings.NewReader(input))
		assert.NoError(t, err)
		assert.Equal(t, 2, created)
		ideas.AssertExpectations(t)
	})

	t.Run("empty input creates nothing", func(t *testing.T) {
		ideas := new(IdeaRepoMock)
		svc := newTestService(ideas, new(VoteRepoMock), new(PointsRepoMock), nil)

		created, err := svc.ImportCSV(context.Background(), "creator-1", strings.NewReader(""))
		assert.NoError(t, err)
		assert.Equal(t, 0, created)
	})
}
