// Package memory реализует контракт storage.Storage на картах в памяти.
// Бэкенд используется в юнит-тестах и в режиме разработки без базы данных
// и обязан вести себя точно так же, как реализация на PostgreSQL.
//
// Все операции выполняются под одним мьютексом, поэтому составные блоки
// (выкуп товара, голос с пересчетом позиций) атомарны по построению.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

type voteKey struct {
	ideaID   int
	voterUID string
}

type pointsKey struct {
	userUID    string
	creatorUID string
}

// Storage — in-memory хранилище Fanlist.
type Storage struct {
	mu sync.Mutex

	users map[string]*models.User
	ideas map[int]*models.Idea
	votes map[voteKey]*models.Vote

	points       map[pointsKey]*models.UserPoints
	transactions []*models.PointTransaction

	items       map[int]*models.StoreItem
	redemptions map[int]*models.StoreRedemption
	links       map[int]*models.PublicLink

	ideaSeq       int
	voteSeq       int
	txSeq         int
	itemSeq       int
	redemptionSeq int
	linkSeq       int
}

var _ storage.Storage = (*Storage)(nil)

// New создает пустое in-memory хранилище.
func New() *Storage {
	return &Storage{
		users:       make(map[string]*models.User),
		ideas:       make(map[int]*models.Idea),
		votes:       make(map[voteKey]*models.Vote),
		points:      make(map[pointsKey]*models.UserPoints),
		items:       make(map[int]*models.StoreItem),
		redemptions: make(map[int]*models.StoreRedemption),
		links:       make(map[int]*models.PublicLink),
	}
}

// --- Пользователи ---

// CreateUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) CreateUser(_ context.Context, user models.User) (string, error) {
	const op = "memory.CreateUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return "", fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}
	}
	if user.UID == "" {
		user.UID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	u := user
	s.users[u.UID] = &u
	return u.UID, nil
}

// GetUser возвращает пользователя по UID.
func (s *Storage) GetUser(_ context.Context, uid string) (*models.User, error) {
	const op = "memory.GetUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

// GetUserByUsername возвращает пользователя по username.
func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	const op = "memory.GetUserByUsername"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	const op = "memory.GetUserByEmail"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// GetUserByStripeCustomerID возвращает пользователя по идентификатору
// клиента платежной системы.
func (s *Storage) GetUserByStripeCustomerID(_ context.Context, customerID string) (*models.User, error) {
	const op = "memory.GetUserByStripeCustomerID"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// UpdateUserProfile обновляет email и username пользователя.
func (s *Storage) UpdateUserProfile(_ context.Context, uid, email, username string) error {
	const op = "memory.UpdateUserProfile"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	for otherUID, other := range s.users {
		if otherUID == uid {
			continue
		}
		if other.Username == username || other.Email == email {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}
	}
	u.Email = email
	u.Username = username
	return nil
}

// UpdateUserPassword обновляет хэш пароля пользователя.
func (s *Storage) UpdateUserPassword(_ context.Context, uid, passwordHash string) error {
	const op = "memory.UpdateUserPassword"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

// UpdateUserSubscription применяет изменение подписочных полей.
func (s *Storage) UpdateUserSubscription(_ context.Context, uid string, upd models.SubscriptionUpdate) error {
	const op = "memory.UpdateUserSubscription"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	u.SubscriptionStatus = upd.Status
	u.SubscriptionPlan = upd.Plan
	u.SubscriptionStartDate = upd.StartDate
	u.SubscriptionEndDate = upd.EndDate
	u.SubscriptionCanceledAt = upd.CanceledAt
	if upd.StripeCustomerID != nil {
		u.StripeCustomerID = upd.StripeCustomerID
	}
	if upd.StripeSubscriptionID != nil {
		u.StripeSubscriptionID = upd.StripeSubscriptionID
	}
	return nil
}

// StartUserTrial включает пробный период, если он еще не был использован.
func (s *Storage) StartUserTrial(_ context.Context, uid string, start, end time.Time) error {
	const op = "memory.StartUserTrial"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if u.HasUsedTrial {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	u.HasUsedTrial = true
	u.SubscriptionStatus = models.SubscriptionTrial
	u.TrialStartDate = &start
	u.TrialEndDate = &end
	return nil
}

// --- Идеи и рейтинг ---

// CreateIdea создает идею автора в статусе approved и пересчитывает позиции.
func (s *Storage) CreateIdea(_ context.Context, idea models.Idea) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.insertIdea(idea, models.IdeaStatusApproved)
	s.recomputePositions()
	return id, nil
}

// SuggestIdea создает предложение зрителя в статусе pending.
// Пересчет позиций не выполняется: pending идеи в рейтинг не входят.
func (s *Storage) SuggestIdea(_ context.Context, idea models.Idea) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertIdea(idea, models.IdeaStatusPending), nil
}

func (s *Storage) insertIdea(idea models.Idea, status string) int {
	s.ideaSeq++
	idea.ID = s.ideaSeq
	idea.Status = status
	idea.Votes = 0
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = time.Now()
	}
	cp := idea
	s.ideas[cp.ID] = &cp
	return cp.ID
}

// ApproveIdea переводит предложение в approved и пересчитывает позиции.
func (s *Storage) ApproveIdea(_ context.Context, id int) (*models.Idea, error) {
	const op = "memory.ApproveIdea"
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	idea.Status = models.IdeaStatusApproved
	s.recomputePositions()
	cp := *idea
	return &cp, nil
}

// GetIdea возвращает идею по ID.
func (s *Storage) GetIdea(_ context.Context, id int) (*models.Idea, error) {
	const op = "memory.GetIdea"
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	cp := *idea
	return &cp, nil
}

// GetIdeas возвращает одобренные идеи автора, отсортированные по позиции.
func (s *Storage) GetIdeas(_ context.Context, creatorUID string) ([]*models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.approvedIdeas(creatorUID)
	out := make([]*models.Idea, 0, len(result))
	for _, idea := range result {
		cp := *idea
		out = append(out, &cp)
	}
	return out, nil
}

// GetPendingIdeas возвращает предложения зрителей, ожидающие модерации.
func (s *Storage) GetPendingIdeas(_ context.Context, creatorUID string) ([]*models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Idea
	for _, idea := range s.ideas {
		if idea.CreatorUID == creatorUID && idea.Status == models.IdeaStatusPending {
			cp := *idea
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// UpdateIdea меняет заголовок и описание идеи, не трогая голоса и позицию.
func (s *Storage) UpdateIdea(_ context.Context, id int, title, description string) (*models.Idea, error) {
	const op = "memory.UpdateIdea"
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	idea.Title = title
	idea.Description = description
	cp := *idea
	return &cp, nil
}

// DeleteIdea удаляет идею вместе с голосами и пересчитывает позиции.
func (s *Storage) DeleteIdea(_ context.Context, id int) error {
	const op = "memory.DeleteIdea"
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ideas[id]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	delete(s.ideas, id)
	for key := range s.votes {
		if key.ideaID == id {
			delete(s.votes, key)
		}
	}
	s.recomputePositions()
	return nil
}

// GetIdeasWithPositions возвращает одобренные идеи автора с позициями
// и динамикой перемещения.
func (s *Storage) GetIdeasWithPositions(_ context.Context, creatorUID string) ([]*models.RankedIdea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ideas := s.approvedIdeas(creatorUID)
	out := make([]*models.RankedIdea, 0, len(ideas))
	for _, idea := range ideas {
		cp := *idea
		change := 0
		if cp.CurrentPosition != nil && cp.PreviousPosition != nil && *cp.CurrentPosition != *cp.PreviousPosition {
			change = *cp.PreviousPosition - *cp.CurrentPosition
		}
		out = append(out, &models.RankedIdea{
			Idea: &cp,
			Position: models.Position{
				Current:  cp.CurrentPosition,
				Previous: cp.PreviousPosition,
				Change:   change,
			},
		})
	}
	return out, nil
}

// RecomputePositions пересчитывает позиции всех одобренных идей.
func (s *Storage) RecomputePositions(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recomputePositions()
	return nil
}

// CountIdeas считает все идеи автора, включая pending. Используется квотой.
func (s *Storage) CountIdeas(_ context.Context, creatorUID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, idea := range s.ideas {
		if idea.CreatorUID == creatorUID {
			count++
		}
	}
	return count, nil
}

// approvedIdeas возвращает одобренные идеи автора по возрастанию позиции.
// Вызывается только под мьютексом.
func (s *Storage) approvedIdeas(creatorUID string) []*models.Idea {
	var result []*models.Idea
	for _, idea := range s.ideas {
		if idea.CreatorUID == creatorUID && idea.Status == models.IdeaStatusApproved {
			result = append(result, idea)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		pi, pj := result[i].CurrentPosition, result[j].CurrentPosition
		if pi != nil && pj != nil {
			return *pi < *pj
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// recomputePositions сортирует все одобренные идеи по голосам по убыванию,
// при равенстве раньше созданная выше, и назначает плотные позиции 1..N.
// Вызывается только под мьютексом.
func (s *Storage) recomputePositions() {
	var ranked []*models.Idea
	for _, idea := range s.ideas {
		if idea.Status == models.IdeaStatusApproved {
			ranked = append(ranked, idea)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Votes != ranked[j].Votes {
			return ranked[i].Votes > ranked[j].Votes
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})
	now := time.Now()
	for i, idea := range ranked {
		pos := i + 1
		idea.PreviousPosition = idea.CurrentPosition
		idea.CurrentPosition = &pos
		idea.LastPositionUpdate = &now
	}
}

// --- Голоса ---

// GetVote возвращает голос пары (идея, пользователь).
func (s *Storage) GetVote(_ context.Context, ideaID int, voterUID string) (*models.Vote, error) {
	const op = "memory.GetVote"
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.votes[voteKey{ideaID: ideaID, voterUID: voterUID}]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	cp := *v
	return &cp, nil
}

// CreateVote регистрирует голос, при дубликате возвращает ErrConflict.
func (s *Storage) CreateVote(_ context.Context, ideaID int, voterUID string) error {
	const op = "memory.CreateVote"
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ideas[ideaID]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	key := voteKey{ideaID: ideaID, voterUID: voterUID}
	if _, ok := s.votes[key]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	s.voteSeq++
	s.votes[key] = &models.Vote{
		ID:        s.voteSeq,
		IdeaID:    ideaID,
		VoterUID:  voterUID,
		CreatedAt: time.Now(),
	}
	return nil
}

// IncrementVote увеличивает счетчик голосов идеи и пересчитывает позиции.
func (s *Storage) IncrementVote(_ context.Context, ideaID int) (int, error) {
	const op = "memory.IncrementVote"
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[ideaID]
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	idea.Votes++
	s.recomputePositions()
	return idea.Votes, nil
}

// --- Баллы ---

// GetUserPoints возвращает баланс пары (пользователь, автор).
func (s *Storage) GetUserPoints(_ context.Context, userUID, creatorUID string) (*models.UserPoints, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.points[pointsKey{userUID: userUID, creatorUID: creatorUID}]
	if !ok {
		return &models.UserPoints{UserUID: userUID, CreatorUID: creatorUID}, nil
	}
	cp := *p
	return &cp, nil
}

// UpdateUserPoints добавляет запись журнала и применяет её к балансу.
func (s *Storage) UpdateUserPoints(_ context.Context, tx models.PointTransaction) (*models.UserPoints, error) {
	const op = "memory.UpdateUserPoints"
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.postTransaction(op, tx)
}

// postTransaction — единая точка изменения баланса. Вызывается только
// под мьютексом, в том числе из атомарного блока выкупа.
func (s *Storage) postTransaction(op string, tx models.PointTransaction) (*models.UserPoints, error) {
	if tx.Amount <= 0 {
		return nil, fmt.Errorf("%s: amount must be positive", op)
	}
	if tx.Type != models.PointTypeEarned && tx.Type != models.PointTypeSpent {
		return nil, fmt.Errorf("%s: unknown transaction type %q", op, tx.Type)
	}

	key := pointsKey{userUID: tx.UserUID, creatorUID: tx.CreatorUID}
	p, ok := s.points[key]
	if !ok {
		p = &models.UserPoints{UserUID: tx.UserUID, CreatorUID: tx.CreatorUID}
		s.points[key] = p
	}
	if tx.Type == models.PointTypeSpent && p.TotalPoints < tx.Amount {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInsufficientPoints)
	}

	s.txSeq++
	tx.ID = s.txSeq
	tx.CreatedAt = time.Now()
	cp := tx
	s.transactions = append(s.transactions, &cp)

	switch tx.Type {
	case models.PointTypeEarned:
		p.TotalPoints += tx.Amount
		p.PointsEarned += tx.Amount
	case models.PointTypeSpent:
		p.TotalPoints -= tx.Amount
		p.PointsSpent += tx.Amount
	}
	p.UpdatedAt = tx.CreatedAt
	res := *p
	return &res, nil
}

// GetUserPointTransactions возвращает последние записи журнала пользователя.
func (s *Storage) GetUserPointTransactions(_ context.Context, userUID string, limit int) ([]*models.PointTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.PointTransaction
	for i := len(s.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if s.transactions[i].UserUID == userUID {
			cp := *s.transactions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- Магазин ---

// GetStoreItems возвращает товары автора.
func (s *Storage) GetStoreItems(_ context.Context, creatorUID string) ([]*models.StoreItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.StoreItem
	for _, item := range s.items {
		if item.CreatorUID == creatorUID {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetStoreItem возвращает товар по ID.
func (s *Storage) GetStoreItem(_ context.Context, id int) (*models.StoreItem, error) {
	const op = "memory.GetStoreItem"
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	cp := *item
	return &cp, nil
}

// CreateStoreItem сохраняет новый товар и возвращает его ID.
func (s *Storage) CreateStoreItem(_ context.Context, item models.StoreItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.itemSeq++
	item.ID = s.itemSeq
	item.CurrentQuantity = 0
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	cp := item
	s.items[cp.ID] = &cp
	return cp.ID, nil
}

// UpdateStoreItem обновляет данные товара.
func (s *Storage) UpdateStoreItem(_ context.Context, item models.StoreItem) error {
	const op = "memory.UpdateStoreItem"
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[item.ID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	existing.Title = item.Title
	existing.Description = item.Description
	existing.PointsCost = item.PointsCost
	existing.MaxQuantity = item.MaxQuantity
	existing.IsActive = item.IsActive
	return nil
}

// DeleteStoreItem удаляет товар.
func (s *Storage) DeleteStoreItem(_ context.Context, id int) error {
	const op = "memory.DeleteStoreItem"
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

// CountActiveStoreItems считает активные товары автора.
func (s *Storage) CountActiveStoreItems(_ context.Context, creatorUID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		if item.CreatorUID == creatorUID && item.IsActive {
			count++
		}
	}
	return count, nil
}

// CreateStoreRedemption выполняет выкуп товара одним атомарным блоком.
func (s *Storage) CreateStoreRedemption(_ context.Context, storeItemID int, userUID string) (*models.StoreRedemption, error) {
	const op = "memory.CreateStoreRedemption"
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[storeItemID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if !item.IsAvailable() {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUnavailable)
	}

	relatedID := item.ID
	if _, err := s.postTransaction(op, models.PointTransaction{
		UserUID:    userUID,
		CreatorUID: item.CreatorUID,
		Type:       models.PointTypeSpent,
		Amount:     item.PointsCost,
		Reason:     models.PointReasonStoreRedemption,
		RelatedID:  &relatedID,
	}); err != nil {
		return nil, err
	}

	s.redemptionSeq++
	redemption := &models.StoreRedemption{
		ID:          s.redemptionSeq,
		StoreItemID: item.ID,
		UserUID:     userUID,
		CreatorUID:  item.CreatorUID,
		PointsSpent: item.PointsCost,
		Status:      models.RedemptionPending,
		CreatedAt:   time.Now(),
	}
	s.redemptions[redemption.ID] = redemption
	item.CurrentQuantity++

	cp := *redemption
	return &cp, nil
}

// GetStoreRedemptions возвращает выдачи автора с пагинацией, новые первыми.
func (s *Storage) GetStoreRedemptions(_ context.Context, creatorUID string, limit, offset int) ([]*models.StoreRedemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*models.StoreRedemption
	for _, r := range s.redemptions {
		if r.CreatorUID == creatorUID {
			all = append(all, r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	var out []*models.StoreRedemption
	for i := offset; i < len(all) && len(out) < limit; i++ {
		cp := *all[i]
		out = append(out, &cp)
	}
	return out, nil
}

// UpdateRedemptionStatus выполняет переход pending -> completed.
func (s *Storage) UpdateRedemptionStatus(_ context.Context, redemptionID int, status, creatorUID string) (*models.StoreRedemption, error) {
	const op = "memory.UpdateRedemptionStatus"
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.redemptions[redemptionID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if r.CreatorUID != creatorUID {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrForbidden)
	}
	if r.Status != models.RedemptionPending || status != models.RedemptionCompleted {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidTransition)
	}
	now := time.Now()
	r.Status = models.RedemptionCompleted
	r.CompletedAt = &now
	cp := *r
	return &cp, nil
}

// --- Публичные ссылки ---

// CreatePublicLink сохраняет новую публичную ссылку.
func (s *Storage) CreatePublicLink(_ context.Context, link models.PublicLink) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.linkSeq++
	link.ID = s.linkSeq
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	cp := link
	s.links[cp.ID] = &cp
	return cp.ID, nil
}

// GetPublicLinkByToken возвращает ссылку по токену.
func (s *Storage) GetPublicLinkByToken(_ context.Context, token string) (*models.PublicLink, error) {
	const op = "memory.GetPublicLinkByToken"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.links {
		if l.Token == token {
			cp := *l
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// GetUserPublicLinks возвращает все ссылки автора.
func (s *Storage) GetUserPublicLinks(_ context.Context, creatorUID string) ([]*models.PublicLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.PublicLink
	for _, l := range s.links {
		if l.CreatorUID == creatorUID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// TogglePublicLinkStatus переключает активность ссылки.
func (s *Storage) TogglePublicLinkStatus(_ context.Context, id int, creatorUID string) (*models.PublicLink, error) {
	const op = "memory.TogglePublicLinkStatus"
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.links[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if l.CreatorUID != creatorUID {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrForbidden)
	}
	l.IsActive = !l.IsActive
	cp := *l
	return &cp, nil
}

// DeletePublicLink удаляет ссылку автора.
func (s *Storage) DeletePublicLink(_ context.Context, id int, creatorUID string) error {
	const op = "memory.DeletePublicLink"
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.links[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if l.CreatorUID != creatorUID {
		return fmt.Errorf("%s: %w", op, storage.ErrForbidden)
	}
	delete(s.links, id)
	return nil
}
