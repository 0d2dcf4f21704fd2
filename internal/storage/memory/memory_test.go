package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
	"github.com/magabrotheeeer/fanlist/internal/storage/memory"
)

func newIdea(creatorUID, title string, createdAt time.Time) models.Idea {
	return models.Idea{
		CreatorUID:  creatorUID,
		Title:       title,
		Description: "описание",
		CreatedAt:   createdAt,
	}
}

// voteTimes накручивает идее нужное число голосов через IncrementVote.
func voteTimes(t *testing.T, st *memory.Storage, ideaID, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_, err := st.IncrementVote(ctx, ideaID)
		require.NoError(t, err)
	}
}

func positions(t *testing.T, st *memory.Storage, creatorUID string) map[string]int {
	t.Helper()
	ranked, err := st.GetIdeasWithPositions(context.Background(), creatorUID)
	require.NoError(t, err)
	out := make(map[string]int, len(ranked))
	for _, r := range ranked {
		require.NotNil(t, r.Position.Current)
		out[r.Idea.Title] = *r.Position.Current
	}
	return out
}

func TestRecomputePositions_OrderAndDensity(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	idA, err := st.CreateIdea(ctx, newIdea("creator", "A", base))
	require.NoError(t, err)
	idB, err := st.CreateIdea(ctx, newIdea("creator", "B", base.Add(time.Hour)))
	require.NoError(t, err)
	idC, err := st.CreateIdea(ctx, newIdea("creator", "C", base.Add(2*time.Hour)))
	require.NoError(t, err)

	voteTimes(t, st, idA, 2)
	voteTimes(t, st, idB, 5)
	voteTimes(t, st, idC, 2)

	pos := positions(t, st, "creator")
	// B впереди по голосам; A и C равны, но A создана раньше.
	assert.Equal(t, 1, pos["B"])
	assert.Equal(t, 2, pos["A"])
	assert.Equal(t, 3, pos["C"])

	// Позиции — плотная перестановка 1..N без дыр.
	seen := make(map[int]bool)
	for _, p := range pos {
		assert.False(t, seen[p], "position %d assigned twice", p)
		seen[p] = true
	}
	for p := 1; p <= len(pos); p++ {
		assert.True(t, seen[p], "position %d missing", p)
	}
}

func TestRecomputePositions_PendingExcluded(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	_, err := st.CreateIdea(ctx, newIdea("creator", "A", base))
	require.NoError(t, err)

	suggester := "uid-fan"
	pendingIdea := newIdea("creator", "P", base.Add(time.Minute))
	pendingIdea.SuggestedBy = &suggester
	pendingID, err := st.SuggestIdea(ctx, pendingIdea)
	require.NoError(t, err)

	pos := positions(t, st, "creator")
	assert.Len(t, pos, 1)
	assert.NotContains(t, pos, "P")

	// Одобрение вводит предложение в рейтинг.
	_, err = st.ApproveIdea(ctx, pendingID)
	require.NoError(t, err)

	pos = positions(t, st, "creator")
	assert.Len(t, pos, 2)
	assert.Equal(t, 2, pos["P"])
}

func TestDeleteIdea_Recomputes(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	idA, err := st.CreateIdea(ctx, newIdea("creator", "A", base))
	require.NoError(t, err)
	idB, err := st.CreateIdea(ctx, newIdea("creator", "B", base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = st.CreateIdea(ctx, newIdea("creator", "C", base.Add(2*time.Hour)))
	require.NoError(t, err)

	voteTimes(t, st, idA, 3)
	voteTimes(t, st, idB, 2)

	require.NoError(t, st.DeleteIdea(ctx, idA))

	pos := positions(t, st, "creator")
	assert.Equal(t, map[string]int{"B": 1, "C": 2}, pos)
}

func TestCreateVote_Duplicate(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	id, err := st.CreateIdea(ctx, newIdea("creator", "A", time.Now()))
	require.NoError(t, err)

	require.NoError(t, st.CreateVote(ctx, id, "uid-fan"))
	err = st.CreateVote(ctx, id, "uid-fan")
	assert.ErrorIs(t, err, storage.ErrConflict)

	// Другому пользователю голосовать можно.
	assert.NoError(t, st.CreateVote(ctx, id, "uid-other"))
}

func TestUpdateUserPoints_LedgerConservation(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	_, err := st.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID:    "uid-fan",
		CreatorUID: "creator",
		Type:       models.PointTypeEarned,
		Amount:     5,
		Reason:     models.PointReasonVote,
	})
	require.NoError(t, err)

	balance, err := st.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID:    "uid-fan",
		CreatorUID: "creator",
		Type:       models.PointTypeSpent,
		Amount:     3,
		Reason:     models.PointReasonSuggestionCost,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, balance.TotalPoints)
	assert.Equal(t, 5, balance.PointsEarned)
	assert.Equal(t, 3, balance.PointsSpent)
	assert.Equal(t, balance.TotalPoints, balance.PointsEarned-balance.PointsSpent)

	txs, err := st.GetUserPointTransactions(ctx, "uid-fan", 10)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestUpdateUserPoints_InsufficientLeavesStateIntact(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	_, err := st.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID:    "uid-fan",
		CreatorUID: "creator",
		Type:       models.PointTypeEarned,
		Amount:     2,
		Reason:     models.PointReasonVote,
	})
	require.NoError(t, err)

	_, err = st.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID:    "uid-fan",
		CreatorUID: "creator",
		Type:       models.PointTypeSpent,
		Amount:     3,
		Reason:     models.PointReasonSuggestionCost,
	})
	assert.ErrorIs(t, err, storage.ErrInsufficientPoints)

	balance, err := st.GetUserPoints(ctx, "uid-fan", "creator")
	require.NoError(t, err)
	assert.Equal(t, 2, balance.TotalPoints)
	assert.Equal(t, 0, balance.PointsSpent)

	txs, err := st.GetUserPointTransactions(ctx, "uid-fan", 10)
	require.NoError(t, err)
	assert.Len(t, txs, 1, "failed spend must not be journaled")
}

func TestUpdateUserPoints_BalancesAreScopedToCreator(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	_, err := st.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID:    "uid-fan",
		CreatorUID: "creator-one",
		Type:       models.PointTypeEarned,
		Amount:     4,
		Reason:     models.PointReasonVote,
	})
	require.NoError(t, err)

	other, err := st.GetUserPoints(ctx, "uid-fan", "creator-two")
	require.NoError(t, err)
	assert.Equal(t, 0, other.TotalPoints)
}

func TestCreateStoreRedemption_Atomic(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	maxQty := 1
	itemID, err := st.CreateStoreItem(ctx, models.StoreItem{
		CreatorUID:  "creator",
		Title:       "Стикерпак",
		PointsCost:  10,
		MaxQuantity: &maxQty,
		IsActive:    true,
	})
	require.NoError(t, err)

	// Недостаточно баллов: выкуп не проходит и количество не растет.
	_, err = st.CreateStoreRedemption(ctx, itemID, "uid-poor")
	assert.ErrorIs(t, err, storage.ErrInsufficientPoints)

	item, err := st.GetStoreItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 0, item.CurrentQuantity)

	_, err = st.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID:    "uid-fan",
		CreatorUID: "creator",
		Type:       models.PointTypeEarned,
		Amount:     25,
		Reason:     models.PointReasonVote,
	})
	require.NoError(t, err)

	redemption, err := st.CreateStoreRedemption(ctx, itemID, "uid-fan")
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionPending, redemption.Status)
	assert.Equal(t, 10, redemption.PointsSpent)

	balance, err := st.GetUserPoints(ctx, "uid-fan", "creator")
	require.NoError(t, err)
	assert.Equal(t, 15, balance.TotalPoints)

	// Тираж исчерпан: второй выкуп невозможен даже с баллами.
	_, err = st.CreateStoreRedemption(ctx, itemID, "uid-fan")
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	balance, err = st.GetUserPoints(ctx, "uid-fan", "creator")
	require.NoError(t, err)
	assert.Equal(t, 15, balance.TotalPoints, "failed redemption must not spend points")
}

func TestUpdateRedemptionStatus_Transitions(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	itemID, err := st.CreateStoreItem(ctx, models.StoreItem{
		CreatorUID: "creator",
		Title:      "Разбор канала",
		PointsCost: 5,
		IsActive:   true,
	})
	require.NoError(t, err)

	_, err = st.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID:    "uid-fan",
		CreatorUID: "creator",
		Type:       models.PointTypeEarned,
		Amount:     5,
		Reason:     models.PointReasonVote,
	})
	require.NoError(t, err)

	redemption, err := st.CreateStoreRedemption(ctx, itemID, "uid-fan")
	require.NoError(t, err)

	// Завершить может только автор товара.
	_, err = st.UpdateRedemptionStatus(ctx, redemption.ID, models.RedemptionCompleted, "uid-other")
	assert.ErrorIs(t, err, storage.ErrForbidden)

	completed, err := st.UpdateRedemptionStatus(ctx, redemption.ID, models.RedemptionCompleted, "creator")
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Повторный переход запрещен.
	_, err = st.UpdateRedemptionStatus(ctx, redemption.ID, models.RedemptionCompleted, "creator")
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)
}

func TestStartUserTrial_Monotonic(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	uid, err := st.CreateUser(ctx, models.User{
		Email:              "user@example.com",
		Username:           "user",
		PasswordHash:       "hash",
		Role:               models.RoleCreator,
		SubscriptionStatus: models.SubscriptionFree,
	})
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, st.StartUserTrial(ctx, uid, start, start.AddDate(0, 0, 14)))

	err = st.StartUserTrial(ctx, uid, start, start.AddDate(0, 0, 14))
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestCreateUser_UniqueUsernameAndEmail(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	_, err := st.CreateUser(ctx, models.User{Email: "a@example.com", Username: "alice"})
	require.NoError(t, err)

	_, err = st.CreateUser(ctx, models.User{Email: "b@example.com", Username: "alice"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = st.CreateUser(ctx, models.User{Email: "a@example.com", Username: "bob"})
	assert.ErrorIs(t, err, storage.ErrConflict)
}
