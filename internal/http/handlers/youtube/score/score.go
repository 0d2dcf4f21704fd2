// Package score реализует HTTP-обработчик оценки потенциала темы видео.
//
// Endpoint закрыт премиум-гейтом на уровне маршрутов.
package score

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	youtubesvc "github.com/magabrotheeeer/fanlist/internal/services/youtube"
)

// Handler обрабатывает HTTP-запросы оценки тем.
type Handler struct {
	log      *slog.Logger
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log:      log,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оценить потенциал темы видео
// @Description Считает балл 0..100 по статистике канала и видео и возвращает категорию low/medium/high.
// @Tags YouTube
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body youtubesvc.ChannelStats true "Статистика канала и видео"
// @Success 200 {object} map[string]any "Оценка потенциала"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет премиум-доступа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /youtube/score [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.youtube.score"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var stats youtubesvc.ChannelStats
	if err := json.NewDecoder(r.Body).Decode(&stats); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(stats); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	opportunity := youtubesvc.Score(stats, time.Now())

	render.JSON(w, r, response.OKWithData(map[string]any{
		"opportunity": opportunity,
	}))
}
