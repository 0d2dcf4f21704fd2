// Package itemlist реализует HTTP-обработчик списка товаров магазина автора.
package itemlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
)

// Handler обрабатывает HTTP-запросы списка товаров.
type Handler struct {
	log     *slog.Logger
	service Service
	users   UserProvider
}

// Service описывает интерфейс бизнес-логики магазина.
type Service interface {
	Items(ctx context.Context, creatorUID string) ([]*models.StoreItem, error)
}

// UserProvider отдает пользователя по его username.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, users UserProvider) *Handler {
	return &Handler{log: log, service: service, users: users}
}

// ServeHTTP godoc
// @Summary Товары магазина автора
// @Description Возвращает список товаров магазина указанного автора.
// @Tags Store
// @Produce  json
// @Security BearerAuth
// @Param username path string true "Username автора"
// @Success 200 {object} map[string]any "Список товаров"
// @Failure 404 {object} response.ErrorResponse "Автор не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /creators/{username}/store/items [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.itemlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	creator, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		log.Error("creator not found", slog.String("username", username), sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("creator not found"))
		return
	}

	items, err := h.service.Items(r.Context(), creator.UID)
	if err != nil {
		log.Error("failed to list store items", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list store items"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": items,
		"count": len(items),
	}))
}
