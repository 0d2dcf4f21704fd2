// Package services содержит бизнес-логику выдачи лидерборда идей
// с кешированием и доступом по публичным ссылкам.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// Время жизни кеша лидерборда. Короткое: выдача инвалидируется при каждой
// мутации, TTL лишь страхует от потерянной инвалидации.
const cacheTTL = time.Minute

// LeaderboardRepository описывает операции чтения лидерборда.
type LeaderboardRepository interface {
	GetIdeasWithPositions(ctx context.Context, creatorUID string) ([]*models.RankedIdea, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetPublicLinkByToken(ctx context.Context, token string) (*models.PublicLink, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// LeaderboardService отдает ранжированные идеи автора, используя кеш.
type LeaderboardService struct {
	repo  LeaderboardRepository
	cache Cache
	log   *slog.Logger
}

// NewLeaderboardService создает новый экземпляр LeaderboardService.
func NewLeaderboardService(repo LeaderboardRepository, cache Cache, log *slog.Logger) *LeaderboardService {
	return &LeaderboardService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Get возвращает идеи автора с позициями и динамикой, из кеша или хранилища.
func (s *LeaderboardService) Get(ctx context.Context, creatorUID string) ([]*models.RankedIdea, error) {
	cacheKey := fmt.Sprintf("leaderboard:%s", creatorUID)

	var cached []*models.RankedIdea
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read leaderboard cache",
			slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	ideas, err := s.repo.GetIdeasWithPositions(ctx, creatorUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, ideas, cacheTTL); err != nil {
		s.log.Warn("failed to cache leaderboard",
			slog.String("key", cacheKey), sl.Err(err))
	}
	return ideas, nil
}

// GetByUsername возвращает лидерборд по имени автора.
func (s *LeaderboardService) GetByUsername(ctx context.Context, username string) ([]*models.RankedIdea, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, user.UID)
}

// GetByToken возвращает лидерборд по публичной ссылке. Неактивная
// или истекшая ссылка неотличима от несуществующей.
func (s *LeaderboardService) GetByToken(ctx context.Context, token string) (string, []*models.RankedIdea, error) {
	link, err := s.repo.GetPublicLinkByToken(ctx, token)
	if err != nil {
		return "", nil, err
	}
	if !link.IsUsable(time.Now()) {
		return "", nil, storage.ErrNotFound
	}
	ideas, err := s.Get(ctx, link.CreatorUID)
	if err != nil {
		return "", nil, err
	}
	return link.CreatorUID, ideas, nil
}
