// Package redemptionstatus реализует HTTP-обработчик перевода заявки на
// выдачу товара в статус completed. Единственный допустимый переход —
// pending -> completed, выполнить его может только автор товара.
package redemptionstatus

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

// Handler обрабатывает HTTP-запросы смены статуса заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики магазина.
type Service interface {
	CompleteRedemption(ctx context.Context, redemptionID int, creatorUID string) (*models.StoreRedemption, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Завершить выдачу товара
// @Description Переводит заявку из pending в completed. Доступно только автору товара.
// @Tags Store
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} map[string]any "Обновленная заявка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужая заявка"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Заявка уже завершена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /store/redemptions/{id}/complete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.redemptionstatus"

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
		log.Error("invalid redemption id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid redemption id"))
		return
	}

	redemption, err := h.service.CompleteRedemption(r.Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("redemption not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("redemption not found"))
		case errors.Is(err, storage.ErrForbidden):
			log.Error("redemption belongs to another creator", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, storage.ErrInvalidTransition):
			log.Error("redemption already completed", slog.Int("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("redemption already completed"))
		default:
			log.Error("failed to complete redemption", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to complete redemption"))
		}
		return
	}

	log.Info("redemption completed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"redemption": redemption,
	}))
}
