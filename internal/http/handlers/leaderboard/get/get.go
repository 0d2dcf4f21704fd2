// Package get реализует публичный HTTP-обработчик лидерборда автора.
// Авторизация не требуется: лидерборд по username открыт всем.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// Handler обрабатывает HTTP-запросы лидерборда.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики лидерборда.
type Service interface {
	GetByUsername(ctx context.Context, username string) ([]*models.RankedIdea, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Лидерборд автора
// @Description Возвращает одобренные идеи автора, отсортированные по голосам с плотными позициями 1..N.
// @Tags Leaderboard
// @Produce  json
// @Param username path string true "Username автора"
// @Success 200 {object} map[string]any "Ранжированный список идей"
// @Failure 404 {object} response.ErrorResponse "Автор не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /leaderboard/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.leaderboard.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")

	ideas, err := h.service.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("creator not found", slog.String("username", username))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("creator not found"))
			return
		}
		log.Error("failed to get leaderboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get leaderboard"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"ideas": ideas,
		"count": len(ideas),
	}))
}
