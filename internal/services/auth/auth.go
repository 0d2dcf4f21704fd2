// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и управления подпиской пользователей.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/magabrotheeeer/fanlist/internal/lib/jwt"
	"github.com/magabrotheeeer/fanlist/internal/lib/password"
	"github.com/magabrotheeeer/fanlist/internal/models"
)

// Длительность пробного периода.
const trialDuration = 14 * 24 * time.Hour

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByStripeCustomerID находит пользователя по идентификатору
	// клиента платежной системы.
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	// UpdateUserProfile обновляет email и имя пользователя.
	UpdateUserProfile(ctx context.Context, uid, email, username string) error
	// UpdateUserPassword заменяет хэш пароля.
	UpdateUserPassword(ctx context.Context, uid, passwordHash string) error
	// UpdateUserSubscription применяет изменение подписочных полей.
	UpdateUserSubscription(ctx context.Context, uid string, upd models.SubscriptionUpdate) error
	// StartUserTrial включает пробный период, повторно — ошибка.
	StartUserTrial(ctx context.Context, uid string, start, end time.Time) error
}

// AuthService отвечает за регистрацию, авторизацию и подписочный статус.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Роль по умолчанию — audience, подписка — free.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	role := req.Role
	if role == "" {
		role = models.RoleAudience
	}
	user := models.User{
		Email:              req.Email,
		Username:           req.Username,
		PasswordHash:       hashed,
		Role:               role,
		SubscriptionStatus: models.SubscriptionFree,
	}
	return s.users.CreateUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", false, err
	}
	user := &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}
	return user, claims.Role, true, nil
}

// Profile возвращает пользователя по UID.
func (s *AuthService) Profile(ctx context.Context, uid string) (*models.User, error) {
	return s.users.GetUser(ctx, uid)
}

// UpdateProfile обновляет email и имя пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, uid, email, username string) error {
	return s.users.UpdateUserProfile(ctx, uid, email, username)
}

// ChangePassword проверяет старый пароль и устанавливает новый.
func (s *AuthService) ChangePassword(ctx context.Context, uid, oldPassword, newPassword string) error {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdateUserPassword(ctx, uid, hashed)
}

// StartTrial включает четырнадцатидневный пробный период.
// Хранилище отвечает за то, что пробный период дается один раз.
func (s *AuthService) StartTrial(ctx context.Context, uid string) (time.Time, error) {
	start := time.Now().UTC()
	end := start.Add(trialDuration)
	if err := s.users.StartUserTrial(ctx, uid, start, end); err != nil {
		return time.Time{}, err
	}
	return end, nil
}

// UpdateSubscription применяет изменение подписки, пришедшее из платежного слоя.
func (s *AuthService) UpdateSubscription(ctx context.Context, uid string, upd models.SubscriptionUpdate) error {
	return s.users.UpdateUserSubscription(ctx, uid, upd)
}

// FindByStripeCustomerID находит пользователя по идентификатору клиента
// платежной системы, используется при обработке вебхуков.
func (s *AuthService) FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	return s.users.GetUserByStripeCustomerID(ctx, customerID)
}
