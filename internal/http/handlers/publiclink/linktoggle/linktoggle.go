// Package linktoggle реализует HTTP-обработчик включения и выключения
// публичной ссылки.
package linktoggle

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

// Handler обрабатывает HTTP-запросы переключения ссылок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики публичных ссылок.
type Service interface {
	Toggle(ctx context.Context, id int, creatorUID string) (*models.PublicLink, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Переключить публичную ссылку
// @Description Инвертирует флаг активности ссылки текущего автора.
// @Tags PublicLinks
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID ссылки"
// @Success 200 {object} map[string]any "Обновленная ссылка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужая ссылка"
// @Failure 404 {object} response.ErrorResponse "Ссылка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /links/{id}/toggle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.publiclink.linktoggle"

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
		log.Error("invalid link id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid link id"))
		return
	}

	link, err := h.service.Toggle(r.Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("public link not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("public link not found"))
		case errors.Is(err, storage.ErrForbidden):
			log.Error("public link belongs to another creator", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to toggle public link", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to toggle public link"))
		}
		return
	}

	log.Info("public link toggled", slog.Int("id", id), slog.Bool("is_active", link.IsActive))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"link": link,
	}))
}
