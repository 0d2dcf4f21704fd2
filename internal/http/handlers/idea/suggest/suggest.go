// Package suggest реализует HTTP-обработчик предложения идеи зрителем.
//
// Предложение создается в статусе pending и списывает баллы зрителя
// на счете этого автора.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// Handler обрабатывает HTTP-запросы предложений идей.
type Handler struct {
	log      *slog.Logger
	service  Service
	users    UserProvider
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики предложения идеи.
type Service interface {
	Suggest(ctx context.Context, creatorUID, suggesterUID string, req models.DummyIdea) (int, error)
}

// UserProvider находит автора по имени из URL.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
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
// @Summary Предложить идею автору
// @Description Создает предложение в статусе pending и списывает 3 балла.
// @Tags Ideas
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param username path string true "Имя автора"
// @Param request body models.DummyIdea true "Данные предложения"
// @Success 200 {object} map[string]any "Предложение создано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} response.ErrorResponse "Недостаточно баллов"
// @Failure 404 {object} response.ErrorResponse "Автор не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /creators/{username}/suggestions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.idea.suggest"

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
		log.Error("creator not found", slog.String("username", username))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("creator not found"))
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

	id, err := h.service.Suggest(r.Context(), creator.UID, uid, req)
	if err != nil {
		if errors.Is(err, storage.ErrInsufficientPoints) {
			log.Error("insufficient points", slog.String("uid", uid))
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("insufficient points"))
			return
		}
		log.Error("failed to suggest idea", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to suggest idea"))
		return
	}

	log.Info("suggestion created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
