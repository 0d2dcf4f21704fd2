// Package linkresolve реализует публичный HTTP-обработчик просмотра
// лидерборда по токену публичной ссылки. Авторизация не требуется.
package linkresolve

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

// Handler обрабатывает публичные HTTP-запросы по токену ссылки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики лидерборда.
type Service interface {
	GetByToken(ctx context.Context, token string) (string, []*models.RankedIdea, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Лидерборд по публичной ссылке
// @Description Возвращает ранжированный лидерборд автора по токену. Неактивные и истекшие ссылки не раскрываются.
// @Tags Leaderboard
// @Produce  json
// @Param token path string true "Токен публичной ссылки"
// @Success 200 {object} map[string]any "Ранжированный список идей"
// @Failure 404 {object} response.ErrorResponse "Ссылка не найдена или недействительна"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /l/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.publiclink.linkresolve"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")

	creatorUID, ideas, err := h.service.GetByToken(r.Context(), token)
	if err != nil {
		// Недействительная ссылка неотличима от несуществующей.
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("public link not usable")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("not found"))
			return
		}
		log.Error("failed to resolve public link", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to resolve public link"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"creator_uid": creatorUID,
		"ideas":       ideas,
		"count":       len(ideas),
	}))
}
