package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fanlist/internal/http/response"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
	accesssvc "github.com/magabrotheeeer/fanlist/internal/services/access"
)

// UserProvider загружает пользователя по UID для проверки подписки.
type UserProvider interface {
	Profile(ctx context.Context, uid string) (*models.User, error)
}

// PremiumMiddleware пускает дальше только пользователей с активным
// премиум-доступом: оплаченная подписка, триал или отмененная,
// но не истекшая подписка. Остальным возвращается 403 с причиной
// из статуса доступа.
func PremiumMiddleware(users UserProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.PremiumMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			uid, ok := r.Context().Value(UserUID).(string)
			if !ok || uid == "" {
				log.Error("user uid not found in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			user, err := users.Profile(r.Context(), uid)
			if err != nil {
				log.Error("failed to load user", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			status := accesssvc.PremiumAccessStatus(user, timeNow())
			if !status.HasAccess {
				log.Info("premium access denied", slog.String("reason", status.Reason))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(status.Reason))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
