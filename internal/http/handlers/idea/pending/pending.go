// Package pending реализует HTTP-обработчик списка неразобранных предложений.
package pending

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

// Handler обрабатывает HTTP-запросы списка предложений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка предложений.
type Service interface {
	Pending(ctx context.Context, creatorUID string) ([]*models.Idea, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Неразобранные предложения
// @Description Возвращает pending предложения зрителей для текущего автора.
// @Tags Ideas
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список предложений"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ideas/pending [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.idea.pending"

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

	ideas, err := h.service.Pending(r.Context(), uid)
	if err != nil {
		log.Error("failed to list pending ideas", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list pending ideas"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"ideas": ideas,
		"count": len(ideas),
	}))
}
