// Package quota реализует HTTP-обработчик отчета по лимиту идей.
package quota

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	ideasvc "github.com/magabrotheeeer/fanlist/internal/services/idea"
)

// Handler обрабатывает HTTP-запросы отчета по квоте.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики квоты.
type Service interface {
	Quota(ctx context.Context, creatorUID string) (*ideasvc.QuotaStatus, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Квота идей
// @Description Возвращает использование лимита идей бесплатного тарифа.
// @Tags Ideas
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Состояние квоты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ideas/quota [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.idea.quota"

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

	quota, err := h.service.Quota(r.Context(), uid)
	if err != nil {
		log.Error("failed to get idea quota", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get idea quota"))
		return
	}

	render.JSON(w, r, response.OKWithData(quota))
}
