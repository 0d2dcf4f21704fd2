// Package create реализует HTTP-обработчик создания идей автором.
//
// Идея автора сразу попадает в рейтинг. На бесплатном тарифе действует
// лимит идей, активный премиум-доступ снимает его.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
	accesssvc "github.com/magabrotheeeer/fanlist/internal/services/access"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// Handler обрабатывает HTTP-запросы создания идей.
type Handler struct {
	log      *slog.Logger
	service  Service
	users    UserProvider
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания идеи.
type Service interface {
	Create(ctx context.Context, creatorUID string, req models.DummyIdea, hasPremium bool) (int, error)
}

// UserProvider загружает пользователя для проверки премиум-доступа.
type UserProvider interface {
	Profile(ctx context.Context, uid string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, users UserProvider) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		users:    users,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать идею
// @Description Создает идею автора. На бесплатном тарифе лимит 5 идей.
// @Tags Ideas
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyIdea true "Данные новой идеи"
// @Success 200 {object} map[string]any "Идея создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Исчерпан лимит идей"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ideas [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.idea.create"

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

	var req models.DummyIdea
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("title", req.Title))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	hasPremium := false
	if user, err := h.users.Profile(r.Context(), uid); err == nil {
		hasPremium = accesssvc.HasActivePremiumAccess(user, time.Now())
	}

	id, err := h.service.Create(r.Context(), uid, req, hasPremium)
	if err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			log.Error("idea quota exceeded", slog.String("uid", uid))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("idea quota exceeded"))
			return
		}
		log.Error("failed to create idea", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create idea"))
		return
	}

	log.Info("idea created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
