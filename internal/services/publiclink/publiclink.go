// Package services содержит бизнес-логику публичных ссылок на лидерборд.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/fanlist/internal/models"
)

// PublicLinkRepository описывает операции публичных ссылок в хранилище.
type PublicLinkRepository interface {
	CreatePublicLink(ctx context.Context, link models.PublicLink) (int, error)
	GetPublicLinkByToken(ctx context.Context, token string) (*models.PublicLink, error)
	GetUserPublicLinks(ctx context.Context, creatorUID string) ([]*models.PublicLink, error)
	TogglePublicLinkStatus(ctx context.Context, id int, creatorUID string) (*models.PublicLink, error)
	DeletePublicLink(ctx context.Context, id int, creatorUID string) error
}

// PublicLinkService управляет ссылками автора.
type PublicLinkService struct {
	repo PublicLinkRepository
}

// NewPublicLinkService создает новый экземпляр PublicLinkService.
func NewPublicLinkService(repo PublicLinkRepository) *PublicLinkService {
	return &PublicLinkService{repo: repo}
}

// Create выпускает новую активную ссылку со случайным токеном.
func (s *PublicLinkService) Create(ctx context.Context, creatorUID string, expiresAt *time.Time) (*models.PublicLink, error) {
	link := models.PublicLink{
		CreatorUID: creatorUID,
		Token:      uuid.NewString(),
		IsActive:   true,
		ExpiresAt:  expiresAt,
	}
	id, err := s.repo.CreatePublicLink(ctx, link)
	if err != nil {
		return nil, err
	}
	link.ID = id
	return &link, nil
}

// List возвращает все ссылки автора.
func (s *PublicLinkService) List(ctx context.Context, creatorUID string) ([]*models.PublicLink, error) {
	return s.repo.GetUserPublicLinks(ctx, creatorUID)
}

// Toggle переключает активность ссылки и возвращает новое состояние.
func (s *PublicLinkService) Toggle(ctx context.Context, id int, creatorUID string) (*models.PublicLink, error) {
	return s.repo.TogglePublicLinkStatus(ctx, id, creatorUID)
}

// Delete удаляет ссылку автора.
func (s *PublicLinkService) Delete(ctx context.Context, id int, creatorUID string) error {
	return s.repo.DeletePublicLink(ctx, id, creatorUID)
}
