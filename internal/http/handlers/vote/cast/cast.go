// Package cast реализует HTTP-обработчик голосования за идею.
package cast

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
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// Handler обрабатывает HTTP-запросы голосования.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики голосования.
type Service interface {
	Vote(ctx context.Context, ideaID int, voterUID string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Проголосовать за идею
// @Description Добавляет один голос за одобренную идею. Повторное голосование запрещено.
// @Tags Votes
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID идеи"
// @Success 200 {object} map[string]any "Новый счетчик голосов"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Идея не найдена"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже голосовал за эту идею"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ideas/{id}/votes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vote.cast"

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

	votes, err := h.service.Vote(r.Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("idea not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("idea not found"))
		case errors.Is(err, storage.ErrConflict):
			log.Error("duplicate vote", slog.Int("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("already voted for this idea"))
		default:
			log.Error("failed to cast vote", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to cast vote"))
		}
		return
	}

	log.Info("vote casted", slog.Int("id", id), slog.Int("votes", votes))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"idea_id": id,
		"votes":   votes,
	}))
}
