package fanlist

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/fanlist/docs"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/auth/passwordchange"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/auth/profileupdate"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/health"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/idea/approve"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/idea/create"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/idea/csvimport"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/idea/list"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/idea/pending"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/idea/quota"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/idea/remove"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/idea/suggest"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/idea/update"
	leaderboardget "github.com/magabrotheeeer/fanlist/internal/http/handlers/leaderboard/get"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/points/balance"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/points/history"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/publiclink/linkcreate"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/publiclink/linklist"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/publiclink/linkremove"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/publiclink/linkresolve"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/publiclink/linktoggle"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/store/itemcreate"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/store/itemlist"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/store/itemremove"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/store/itemupdate"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/store/redeem"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/store/redemptionlist"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/store/redemptionstatus"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/subscription/accessstatus"
	"github.com/magabrotheeeer/fanlist/internal/http/handlers/subscription/trialstart"
	votecast "github.com/magabrotheeeer/fanlist/internal/http/handlers/vote/cast"
	youtubescore "github.com/magabrotheeeer/fanlist/internal/http/handlers/youtube/score"
	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/fanlist/internal/services/auth"
	ideaservice "github.com/magabrotheeeer/fanlist/internal/services/idea"
	leaderboardservice "github.com/magabrotheeeer/fanlist/internal/services/leaderboard"
	pointsservice "github.com/magabrotheeeer/fanlist/internal/services/points"
	publiclinkservice "github.com/magabrotheeeer/fanlist/internal/services/publiclink"
	storeservice "github.com/magabrotheeeer/fanlist/internal/services/store"
	"github.com/magabrotheeeer/fanlist/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.AuthService,
	ideaService *ideaservice.IdeaService,
	pointsService *pointsservice.PointsService,
	storeService *storeservice.StoreService,
	leaderboardService *leaderboardservice.LeaderboardService,
	publicLinkService *publiclinkservice.PublicLinkService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/leaderboard/{username}", leaderboardget.New(logger, leaderboardService).ServeHTTP)
		r.Get("/l/{token}", linkresolve.New(logger, leaderboardService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/profile", profile.New(logger, authService).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, authService).ServeHTTP)
			r.Post("/profile/password", passwordchange.New(logger, authService).ServeHTTP)
			r.Post("/subscription/trial", trialstart.New(logger, authService).ServeHTTP)
			r.Get("/subscription/access", accessstatus.New(logger, authService).ServeHTTP)

			r.Post("/ideas", create.New(logger, ideaService, authService).ServeHTTP)
			r.Get("/ideas", list.New(logger, ideaService).ServeHTTP)
			r.Get("/ideas/pending", pending.New(logger, ideaService).ServeHTTP)
			r.Get("/ideas/quota", quota.New(logger, ideaService).ServeHTTP)
			r.Put("/ideas/{id}", update.New(logger, ideaService).ServeHTTP)
			r.Delete("/ideas/{id}", remove.New(logger, ideaService).ServeHTTP)
			r.Post("/ideas/{id}/approve", approve.New(logger, ideaService).ServeHTTP)
			r.Post("/ideas/{id}/votes", votecast.New(logger, ideaService).ServeHTTP)
			r.Post("/creators/{username}/suggestions", suggest.New(logger, ideaService, db).ServeHTTP)

			r.Get("/creators/{username}/points", balance.New(logger, pointsService, db).ServeHTTP)
			r.Get("/points/history", history.New(logger, pointsService).ServeHTTP)

			r.Get("/creators/{username}/store/items", itemlist.New(logger, storeService, db).ServeHTTP)
			r.Post("/store/items/{id}/redemptions", redeem.New(logger, storeService).ServeHTTP)
			r.Get("/store/redemptions", redemptionlist.New(logger, storeService).ServeHTTP)
			r.Post("/store/redemptions/{id}/complete", redemptionstatus.New(logger, storeService).ServeHTTP)

			r.Post("/links", linkcreate.New(logger, publicLinkService).ServeHTTP)
			r.Get("/links", linklist.New(logger, publicLinkService).ServeHTTP)
			r.Post("/links/{id}/toggle", linktoggle.New(logger, publicLinkService).ServeHTTP)
			r.Delete("/links/{id}", linkremove.New(logger, publicLinkService).ServeHTTP)

			// Группа с премиум-доступом
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PremiumMiddleware(authService, logger))
				r.Post("/ideas/import", csvimport.New(logger, ideaService).ServeHTTP)
				r.Post("/store/items", itemcreate.New(logger, storeService).ServeHTTP)
				r.Put("/store/items/{id}", itemupdate.New(logger, storeService).ServeHTTP)
				r.Delete("/store/items/{id}", itemremove.New(logger, storeService).ServeHTTP)
				r.Post("/youtube/score", youtubescore.New(logger).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
