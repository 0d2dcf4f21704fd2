package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fanlist/internal/models"
	services "github.com/magabrotheeeer/fanlist/internal/services/idea"
	"github.com/magabrotheeeer/fanlist/internal/storage"
	"github.com/magabrotheeeer/fanlist/internal/storage/memory"
)

// Сквозные сценарии: сервис идей поверх реального in-memory хранилища,
// без моков. Проверяется согласованность рейтинга и журнала баллов
// после цепочек операций, а не отдельные вызовы.

func newScenarioService(mem *memory.Storage) *services.IdeaService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewIdeaService(mem, mem, mem, mem, nil, nil, log)
}

func rankOf(t *testing.T, mem *memory.Storage, creatorUID string, ideaID int) models.Position {
	t.Helper()
	ranked, err := mem.GetIdeasWithPositions(context.Background(), creatorUID)
	require.NoError(t, err)
	for _, r := range ranked {
		if r.Idea.ID == ideaID {
			return r.Position
		}
	}
	t.Fatalf("idea %d not found in ranking of %s", ideaID, creatorUID)
	return models.Position{}
}

func TestScenario_VoteAwardsPointAndDuplicateConflicts(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := newScenarioService(mem)

	const creator = "creator-a"
	const viewer = "viewer-u"

	ideaID, err := svc.Create(ctx, creator, models.DummyIdea{Title: "Stream marathon"}, false)
	require.NoError(t, err)

	pos := rankOf(t, mem, creator, ideaID)
	require.NotNil(t, pos.Current)
	assert.Equal(t, 1, *pos.Current)

	balance, err := mem.GetUserPoints(ctx, viewer, creator)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.TotalPoints)

	votes, err := svc.Vote(ctx, ideaID, viewer)
	require.NoError(t, err)
	assert.Equal(t, 1, votes)

	balance, err = mem.GetUserPoints(ctx, viewer, creator)
	require.NoError(t, err)
	assert.Equal(t, 1, balance.TotalPoints)
	assert.Equal(t, 1, balance.PointsEarned)

	_, err = svc.Vote(ctx, ideaID, viewer)
	assert.ErrorIs(t, err, storage.ErrConflict)

	idea, err := mem.GetIdea(ctx, ideaID)
	require.NoError(t, err)
	assert.Equal(t, 1, idea.Votes)

	balance, err = mem.GetUserPoints(ctx, viewer, creator)
	require.NoError(t, err)
	assert.Equal(t, 1, balance.TotalPoints)
}

func TestScenario_TieKeepsEarlierIdeaOnTop(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := newScenarioService(mem)

	const creator = "creator-b"
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// I2 создана раньше и лидирует с 5 голосами, у I1 — 3.
	i2, err := mem.CreateIdea(ctx, models.Idea{
		CreatorUID: creator, Title: "Older idea", CreatedAt: base,
	})
	require.NoError(t, err)
	i1, err := mem.CreateIdea(ctx, models.Idea{
		CreatorUID: creator, Title: "Newer idea", CreatedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	voters := []string{"v1", "v2", "v3", "v4", "v5"}
	for _, v := range voters {
		_, err := svc.Vote(ctx, i2, v)
		require.NoError(t, err)
	}
	for _, v := range voters[:3] {
		_, err := svc.Vote(ctx, i1, v)
		require.NoError(t, err)
	}

	// Догоняем лидера до равенства 5:5.
	for _, v := range []string{"v6", "v7"} {
		_, err := svc.Vote(ctx, i1, v)
		require.NoError(t, err)
	}

	leader := rankOf(t, mem, creator, i2)
	require.NotNil(t, leader.Current)
	assert.Equal(t, 1, *leader.Current, "при равенстве голосов выше созданная раньше")
	assert.Equal(t, 0, leader.Change)

	runnerUp := rankOf(t, mem, creator, i1)
	require.NotNil(t, runnerUp.Current)
	assert.Equal(t, 2, *runnerUp.Current)
}

func TestScenario_SuggestionRequiresFullCost(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := newScenarioService(mem)

	const creator = "creator-c"
	const viewer = "viewer-w"

	_, err := mem.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID: viewer, CreatorUID: creator,
		Type: models.PointTypeEarned, Amount: services.SuggestionCost - 1,
		Reason: models.PointReasonVote,
	})
	require.NoError(t, err)

	req := models.DummyIdea{Title: "Collab episode"}
	_, err = svc.Suggest(ctx, creator, viewer, req)
	assert.ErrorIs(t, err, storage.ErrInsufficientPoints)

	// Неудачное предложение не оставляет следов ни в идеях, ни в балансе.
	count, err := mem.CountIdeas(ctx, creator)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	balance, err := mem.GetUserPoints(ctx, viewer, creator)
	require.NoError(t, err)
	assert.Equal(t, services.SuggestionCost-1, balance.TotalPoints)

	_, err = mem.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID: viewer, CreatorUID: creator,
		Type: models.PointTypeEarned, Amount: 1,
		Reason: models.PointReasonVote,
	})
	require.NoError(t, err)

	ideaID, err := svc.Suggest(ctx, creator, viewer, req)
	require.NoError(t, err)

	idea, err := mem.GetIdea(ctx, ideaID)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusPending, idea.Status)
	require.NotNil(t, idea.SuggestedBy)
	assert.Equal(t, viewer, *idea.SuggestedBy)

	balance, err = mem.GetUserPoints(ctx, viewer, creator)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.TotalPoints)
	assert.Equal(t, services.SuggestionCost, balance.PointsSpent)
}

func TestScenario_ApprovalEntersRankingAndPaysBonus(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := newScenarioService(mem)

	const creator = "creator-d"
	const viewer = "viewer-v"

	_, err := mem.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID: viewer, CreatorUID: creator,
		Type: models.PointTypeEarned, Amount: services.SuggestionCost,
		Reason: models.PointReasonVote,
	})
	require.NoError(t, err)

	ideaID, err := svc.Suggest(ctx, creator, viewer, models.DummyIdea{Title: "Q&A special"})
	require.NoError(t, err)

	ranked, err := mem.GetIdeasWithPositions(ctx, creator)
	require.NoError(t, err)
	assert.Empty(t, ranked, "pending предложение не попадает в рейтинг")

	approved, err := svc.Approve(ctx, ideaID, creator)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusApproved, approved.Status)

	pos := rankOf(t, mem, creator, ideaID)
	require.NotNil(t, pos.Current)
	assert.Equal(t, 1, *pos.Current)

	balance, err := mem.GetUserPoints(ctx, viewer, creator)
	require.NoError(t, err)
	assert.Equal(t, services.ApprovalBonus, balance.TotalPoints)
	assert.Equal(t, services.SuggestionCost+services.ApprovalBonus, balance.PointsEarned)
}
