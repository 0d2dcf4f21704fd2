// Package balance реализует HTTP-обработчик получения баланса баллов
// пользователя у конкретного автора.
package balance

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// Handler обрабатывает HTTP-запросы баланса баллов.
type Handler struct {
	log     *slog.Logger
	service Service
	users   UserProvider
}

// Service описывает интерфейс бизнес-логики баллов.
type Service interface {
	Balance(ctx context.Context, userUID, creatorUID string) (*models.UserPoints, error)
}

// UserProvider отдает пользователя по его username.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, users UserProvider) *Handler {
	return &Handler{log: log, service: service, users: users}
}

// ServeHTTP godoc
// @Summary Баланс баллов у автора
// @Description Возвращает баланс баллов текущего пользователя у указанного автора.
// @Tags Points
// @Produce  json
// @Security BearerAuth
// @Param username path string true "Username автора"
// @Success 200 {object} map[string]any "Баланс баллов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Автор не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /creators/{username}/points [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.points.balance"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || uid == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	username := chi.URLParam(r, "username")
	creator, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		log.Error("creator not found", slog.String("username", username), sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("creator not found"))
		return
	}

	points, err := h.service.Balance(r.Context(), uid, creator.UID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Error("failed to get points balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get points balance"))
		return
	}

	// Пользователь без единой транзакции у автора имеет нулевой баланс.
	if points == nil {
		points = &models.UserPoints{UserUID: uid, CreatorUID: creator.UID}
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"creator_uid":   points.CreatorUID,
		"total_points":  points.TotalPoints,
		"points_earned": points.PointsEarned,
		"points_spent":  points.PointsSpent,
	}))
}
