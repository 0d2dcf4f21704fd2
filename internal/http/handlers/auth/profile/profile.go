// Package profile реализует HTTP-обработчик чтения профиля текущего пользователя.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
)

// Handler обрабатывает HTTP-запросы чтения профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профиля.
type Service interface {
	Profile(ctx context.Context, uid string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает профиль авторизованного пользователя без пароля.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

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

	user, err := h.service.Profile(r.Context(), uid)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load profile"))
		return
	}

	// пароль и платежные идентификаторы наружу не отдаются
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":                   user.UID,
		"email":                 user.Email,
		"username":              user.Username,
		"role":                  user.Role,
		"subscription_status":   user.SubscriptionStatus,
		"subscription_plan":     user.SubscriptionPlan,
		"has_used_trial":        user.HasUsedTrial,
		"trial_end_date":        user.TrialEndDate,
		"subscription_end_date": user.SubscriptionEndDate,
		"created_at":            user.CreatedAt,
	}))
}
