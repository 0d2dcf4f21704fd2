// Package csvimport реализует HTTP-обработчик массового импорта идей из CSV.
//
// Тело запроса — CSV вида "title,description", первая строка-заголовок
// допускается. Endpoint закрыт премиум-гейтом на уровне маршрутов.
package csvimport

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы импорта идей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики импорта.
type Service interface {
	ImportCSV(ctx context.Context, creatorUID string, r io.Reader) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Импорт идей из CSV
// @Description Создает идеи из CSV-файла. Требуется активный премиум-доступ.
// @Tags Ideas
// @Accept  text/csv
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Число созданных идей"
// @Failure 400 {object} response.ErrorResponse "Некорректный CSV"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет премиум-доступа"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ideas/import [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.idea.csvimport"

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

	created, err := h.service.ImportCSV(r.Context(), uid, r.Body)
	if err != nil {
		log.Error("failed to import ideas", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to import ideas"))
		return
	}

	log.Info("ideas imported", slog.Int("created", created))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"created": created,
	}))
}
