// Package services содержит бизнес-логику жизненного цикла идей:
// создание, предложения зрителей, модерацию, голосование и квоты.
package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/fanlist/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// Правила баллов и лимитов.
const (
	// FreeIdeaLimit — максимум идей автора на бесплатном тарифе.
	FreeIdeaLimit = 5
	// SuggestionCost — списание за отправку предложения.
	SuggestionCost = 3
	// ApprovalBonus — начисление автору предложения при одобрении.
	ApprovalBonus = 2
	// VoteAward — начисление за голос.
	VoteAward = 1
	// EditLockVotes — порог голосов, после которого идею нельзя редактировать.
	EditLockVotes = 10
)

// ErrEditLocked возвращается при попытке изменить идею, набравшую
// достаточно голосов, чтобы правки вводили проголосовавших в заблуждение.
var ErrEditLocked = errors.New("idea is locked for editing")

// IdeaRepository описывает операции хранилища над идеями.
type IdeaRepository interface {
	CreateIdea(ctx context.Context, idea models.Idea) (int, error)
	SuggestIdea(ctx context.Context, idea models.Idea) (int, error)
	ApproveIdea(ctx context.Context, id int) (*models.Idea, error)
	GetIdea(ctx context.Context, id int) (*models.Idea, error)
	GetIdeas(ctx context.Context, creatorUID string) ([]*models.Idea, error)
	GetPendingIdeas(ctx context.Context, creatorUID string) ([]*models.Idea, error)
	UpdateIdea(ctx context.Context, id int, title, description string) (*models.Idea, error)
	DeleteIdea(ctx context.Context, id int) error
	CountIdeas(ctx context.Context, creatorUID string) (int, error)
}

// VoteRepository описывает операции хранилища над голосами.
type VoteRepository interface {
	GetVote(ctx context.Context, ideaID int, voterUID string) (*models.Vote, error)
	CreateVote(ctx context.Context, ideaID int, voterUID string) error
	IncrementVote(ctx context.Context, ideaID int) (int, error)
}

// PointsRepository описывает журнал баллов со стороны сервиса идей.
type PointsRepository interface {
	UpdateUserPoints(ctx context.Context, tx models.PointTransaction) (*models.UserPoints, error)
}

// UserGetter возвращает пользователя по UID, нужен для адресата уведомления.
type UserGetter interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// CacheInvalidator удаляет закешированные выдачи лидерборда.
type CacheInvalidator interface {
	Invalidate(key string) error
}

// QuotaStatus описывает использование квоты идей автора.
type QuotaStatus struct {
	Count           int  `json:"count"`
	Limit           int  `json:"limit"`
	HasReachedLimit bool `json:"has_reached_limit"`
}

// SuggestionApprovedEvent публикуется при одобрении предложения зрителя.
type SuggestionApprovedEvent struct {
	IdeaID         int    `json:"idea_id"`
	IdeaTitle      string `json:"idea_title"`
	CreatorUID     string `json:"creator_uid"`
	SuggestedBy    string `json:"suggested_by"`
	SuggesterEmail string `json:"suggester_email"`
	PointsBonus    int    `json:"points_bonus"`
}

// IdeaService реализует жизненный цикл идей поверх хранилища.
type IdeaService struct {
	ideas   IdeaRepository
	votes   VoteRepository
	points  PointsRepository
	users   UserGetter
	cache   CacheInvalidator
	channel *amqp.Channel
	log     *slog.Logger
}

// NewIdeaService создает новый экземпляр IdeaService.
// channel может быть nil, тогда события уведомлений не публикуются.
func NewIdeaService(ideas IdeaRepository, votes VoteRepository, points PointsRepository,
	users UserGetter, cache CacheInvalidator, channel *amqp.Channel, log *slog.Logger) *IdeaService {
	return &IdeaService{
		ideas:   ideas,
		votes:   votes,
		points:  points,
		users:   users,
		cache:   cache,
		channel: channel,
		log:     log,
	}
}

// Create создает идею автора сразу в статусе approved.
// На бесплатном тарифе действует лимит FreeIdeaLimit, премиум снимает его.
func (s *IdeaService) Create(ctx context.Context, creatorUID string, req models.DummyIdea, hasPremium bool) (int, error) {
	if !hasPremium {
		count, err := s.ideas.CountIdeas(ctx, creatorUID)
		if err != nil {
			return 0, err
		}
		if count >= FreeIdeaLimit {
			return 0, storage.ErrQuotaExceeded
		}
	}
	id, err := s.ideas.CreateIdea(ctx, models.Idea{
		CreatorUID:  creatorUID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.IdeaStatusApproved,
	})
	if err != nil {
		return 0, err
	}
	s.invalidateLeaderboard(creatorUID)
	return id, nil
}

// Suggest создает предложение зрителя в статусе pending и списывает
// SuggestionCost баллов со счета зрителя у этого автора. Если баллов
// не хватает, предложение удаляется и возвращается ErrInsufficientPoints.
func (s *IdeaService) Suggest(ctx context.Context, creatorUID, suggesterUID string, req models.DummyIdea) (int, error) {
	id, err := s.ideas.SuggestIdea(ctx, models.Idea{
		CreatorUID:  creatorUID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.IdeaStatusPending,
		SuggestedBy: &suggesterUID,
	})
	if err != nil {
		return 0, err
	}
	relatedID := id
	_, err = s.points.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID:    suggesterUID,
		CreatorUID: creatorUID,
		Type:       models.PointTypeSpent,
		Amount:     SuggestionCost,
		Reason:     models.PointReasonSuggestionCost,
		RelatedID:  &relatedID,
	})
	if err != nil {
		if delErr := s.ideas.DeleteIdea(ctx, id); delErr != nil {
			s.log.Error("failed to delete suggestion after charge failure",
				slog.Int("idea_id", id), sl.Err(delErr))
		}
		return 0, err
	}
	return id, nil
}

// Approve переводит предложение в approved, начисляет бонус автору
// предложения и публикует событие уведомления.
func (s *IdeaService) Approve(ctx context.Context, ideaID int, creatorUID string) (*models.Idea, error) {
	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.CreatorUID != creatorUID {
		return nil, storage.ErrForbidden
	}
	if idea.Status != models.IdeaStatusPending {
		return nil, storage.ErrInvalidTransition
	}

	approved, err := s.ideas.ApproveIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	if approved.SuggestedBy != nil {
		relatedID := approved.ID
		_, err = s.points.UpdateUserPoints(ctx, models.PointTransaction{
			UserUID:    *approved.SuggestedBy,
			CreatorUID: approved.CreatorUID,
			Type:       models.PointTypeEarned,
			Amount:     ApprovalBonus,
			Reason:     models.PointReasonSuggestionApproved,
			RelatedID:  &relatedID,
		})
		if err != nil {
			s.log.Error("failed to award approval bonus",
				slog.Int("idea_id", approved.ID), sl.Err(err))
		}
		s.publishSuggestionApproved(ctx, approved)
	}

	s.invalidateLeaderboard(approved.CreatorUID)
	return approved, nil
}

// Update изменяет заголовок и описание идеи. Идеи с EditLockVotes и более
// голосами заблокированы для правок.
func (s *IdeaService) Update(ctx context.Context, ideaID int, creatorUID string, req models.DummyIdea) (*models.Idea, error) {
	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.CreatorUID != creatorUID {
		return nil, storage.ErrForbidden
	}
	if idea.Votes >= EditLockVotes {
		return nil, ErrEditLocked
	}
	return s.ideas.UpdateIdea(ctx, ideaID, req.Title, req.Description)
}

// Delete удаляет идею вместе с голосами. Этим же путем автор
// отклоняет pending предложения.
func (s *IdeaService) Delete(ctx context.Context, ideaID int, creatorUID string) error {
	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return err
	}
	if idea.CreatorUID != creatorUID {
		return storage.ErrForbidden
	}
	if err := s.ideas.DeleteIdea(ctx, ideaID); err != nil {
		return err
	}
	s.invalidateLeaderboard(creatorUID)
	return nil
}

// List возвращает идеи автора.
func (s *IdeaService) List(ctx context.Context, creatorUID string) ([]*models.Idea, error) {
	return s.ideas.GetIdeas(ctx, creatorUID)
}

// Pending возвращает неразобранные предложения автора.
func (s *IdeaService) Pending(ctx context.Context, creatorUID string) ([]*models.Idea, error) {
	return s.ideas.GetPendingIdeas(ctx, creatorUID)
}

// Vote регистрирует голос зрителя за идею: создает запись голоса,
// увеличивает счетчик и начисляет VoteAward баллов голосовавшему.
// Повторный голос той же пары (идея, пользователь) — ErrConflict.
func (s *IdeaService) Vote(ctx context.Context, ideaID int, voterUID string) (int, error) {
	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return 0, err
	}
	if idea.Status != models.IdeaStatusApproved {
		return 0, storage.ErrNotFound
	}
	if err := s.votes.CreateVote(ctx, ideaID, voterUID); err != nil {
		return 0, err
	}
	votes, err := s.votes.IncrementVote(ctx, ideaID)
	if err != nil {
		return 0, err
	}
	relatedID := ideaID
	_, err = s.points.UpdateUserPoints(ctx, models.PointTransaction{
		UserUID:    voterUID,
		CreatorUID: idea.CreatorUID,
		Type:       models.PointTypeEarned,
		Amount:     VoteAward,
		Reason:     models.PointReasonVote,
		RelatedID:  &relatedID,
	})
	if err != nil {
		s.log.Error("failed to award vote points",
			slog.Int("idea_id", ideaID), sl.Err(err))
	}
	s.invalidateLeaderboard(idea.CreatorUID)
	return votes, nil
}

// Quota возвращает использование лимита идей бесплатного тарифа.
func (s *IdeaService) Quota(ctx context.Context, creatorUID string) (*QuotaStatus, error) {
	count, err := s.ideas.CountIdeas(ctx, creatorUID)
	if err != nil {
		return nil, err
	}
	return &QuotaStatus{
		Count:           count,
		Limit:           FreeIdeaLimit,
		HasReachedLimit: count >= FreeIdeaLimit,
	}, nil
}

// ImportCSV создает идеи из CSV вида "title,description" (заголовок
// допускается). Доступно только при активном премиуме, проверка
// выполняется на уровне маршрутов. Возвращает число созданных идей.
func (s *IdeaService) ImportCSV(ctx context.Context, creatorUID string, r io.Reader) (int, error) {
	const op = "services.idea.ImportCSV"
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	created := 0
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return created, fmt.Errorf("%s: line %d: %w", op, line+1, err)
		}
		line++
		if len(record) == 0 {
			continue
		}
		title := strings.TrimSpace(record[0])
		if title == "" || (line == 1 && strings.EqualFold(title, "title")) {
			continue
		}
		description := ""
		if len(record) > 1 {
			description = strings.TrimSpace(record[1])
		}
		_, err = s.ideas.CreateIdea(ctx, models.Idea{
			CreatorUID:  creatorUID,
			Title:       title,
			Description: description,
			Status:      models.IdeaStatusApproved,
		})
		if err != nil {
			return created, fmt.Errorf("%s: line %d: %w", op, line, err)
		}
		created++
	}
	if created > 0 {
		s.invalidateLeaderboard(creatorUID)
	}
	return created, nil
}

func (s *IdeaService) invalidateLeaderboard(creatorUID string) {
	if s.cache == nil {
		return
	}
	key := fmt.Sprintf("leaderboard:%s", creatorUID)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate leaderboard cache",
			slog.String("key", key), sl.Err(err))
	}
}

func (s *IdeaService) publishSuggestionApproved(ctx context.Context, idea *models.Idea) {
	if s.channel == nil || idea.SuggestedBy == nil {
		return
	}
	event := SuggestionApprovedEvent{
		IdeaID:      idea.ID,
		IdeaTitle:   idea.Title,
		CreatorUID:  idea.CreatorUID,
		SuggestedBy: *idea.SuggestedBy,
		PointsBonus: ApprovalBonus,
	}
	if suggester, err := s.users.GetUser(ctx, *idea.SuggestedBy); err == nil {
		event.SuggesterEmail = suggester.Email
	}
	if err := rabbitmq.PublishMessage(s.channel, "notifications", "suggestion.approved", event); err != nil {
		s.log.Error("failed to publish message", sl.Err(err))
	}
}
