// Package linkcreate реализует HTTP-обработчик создания публичной ссылки
// на лидерборд автора.
package linkcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
)

// Handler обрабатывает HTTP-запросы создания публичных ссылок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики публичных ссылок.
type Service interface {
	Create(ctx context.Context, creatorUID string, expiresAt *time.Time) (*models.PublicLink, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать публичную ссылку
// @Description Создает публичную ссылку на лидерборд текущего автора, опционально с датой истечения.
// @Tags PublicLinks
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPublicLink false "Параметры ссылки"
// @Success 200 {object} map[string]any "Созданная ссылка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /links [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.publiclink.linkcreate"

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

	// Тело опционально: ссылка без expires_at бессрочная.
	var req models.DummyPublicLink
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
	}

	link, err := h.service.Create(r.Context(), uid, req.ExpiresAt)
	if err != nil {
		log.Error("failed to create public link", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create public link"))
		return
	}

	log.Info("public link created", slog.Int("id", link.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"link": link,
	}))
}
