// Package approve реализует HTTP-обработчик одобрения предложения.
package approve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// Handler обрабатывает HTTP-запросы одобрения предложений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики одобрения.
type Service interface {
	Approve(ctx context.Context, ideaID int, creatorUID string) (*models.Idea, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Одобрить предложение
// @Description Переводит предложение в approved, начисляет бонус предложившему.
// @Tags Ideas
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID идеи"
// @Success 200 {object} map[string]any "Предложение одобрено"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужое предложение"
// @Failure 404 {object} response.ErrorResponse "Предложение не найдено"
// @Failure 409 {object} response.ErrorResponse "Идея уже одобрена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ideas/{id}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.idea.approve"

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

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid idea id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid idea id"))
		return
	}

	idea, err := h.service.Approve(r.Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("idea not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("idea not found"))
		case errors.Is(err, storage.ErrForbidden):
			log.Error("idea belongs to another creator", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, storage.ErrInvalidTransition):
			log.Error("idea is not pending", slog.Int("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("idea is not pending"))
		default:
			log.Error("failed to approve idea", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to approve idea"))
		}
		return
	}

	log.Info("idea approved", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"idea": idea,
	}))
}
