package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"travel-service/configs"
	"travel-service/internal/guide"
	"travel-service/internal/live"
	"travel-service/internal/media"
	"travel-service/internal/metrics"
	"travel-service/internal/notification"
	"travel-service/internal/post"
	"travel-service/internal/profile"
	"travel-service/internal/ratelimit"
	"travel-service/internal/shared/httpx"
	"travel-service/internal/shared/logging"
	"travel-service/internal/user"
	"travel-service/internal/video"
)

type api struct {
	tokens        httpx.TokenParser
	limiter       *ratelimit.Limiter
	live          *live.Handler
	users         *user.Handler
	profiles      *profile.Handler
	posts         *post.Handler
	guides        *guide.Handler
	videos        *video.Handler
	notifications *notification.Handler
	media         *media.Handler
	ping          func(context.Context) error
}

func (a *api) router(cfg *configs.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Long-lived and operational endpoints stay outside the request timeout.
	r.Handle("/ws", a.live)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", a.health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
		r.Use(middleware.RequestSize(cfg.Server.BodyLimit))
		r.Route("/api", a.mount)
		a.mount(r)
	})
	return r
}

// mount registers the REST surface. It is mounted twice: under /api and at
// the root for older clients.
func (a *api) mount(r chi.Router) {
	r.Method(http.MethodPost, "/auth/register", httpx.Wrap(a.users.Register))
	r.Method(http.MethodPost, "/auth/login", httpx.Wrap(a.users.Login))
	r.Method(http.MethodGet, "/profiles/{userId}", httpx.Wrap(a.profiles.Get))

	r.Group(func(r chi.Router) {
		r.Use(httpx.OptionalAuth(a.tokens))
		r.Method(http.MethodPost, "/videos/{videoId}/view", httpx.Wrap(a.videos.View))
	})

	r.Group(func(r chi.Router) {
		r.Use(httpx.AuthMiddleware(a.tokens))

		r.Method(http.MethodGet, "/auth/me", httpx.Wrap(a.users.Me))

		r.Method(http.MethodPut, "/profiles/update", httpx.Wrap(a.profiles.Update))
		r.Method(http.MethodPut, "/profiles/stats", httpx.Wrap(a.profiles.RefreshStats))

		// Posts
		r.Method(http.MethodGet, "/posts", httpx.Wrap(a.posts.List))
		r.Method(http.MethodPost, "/posts", httpx.Wrap(a.posts.Create))
		r.Method(http.MethodGet, "/posts/saved", httpx.Wrap(a.posts.ListSaved))
		r.Method(http.MethodGet, "/posts/user/{userId}", httpx.Wrap(a.posts.ListByUser))
		r.Method(http.MethodGet, "/posts/{postId}", httpx.Wrap(a.posts.Get))
		r.Method(http.MethodDelete, "/posts/{postId}", httpx.Wrap(a.posts.Delete))
		r.Method(http.MethodDelete, "/posts/{postId}/comment/{commentId}", httpx.Wrap(a.posts.DeleteComment))

		// Guides
		r.Method(http.MethodGet, "/guides", httpx.Wrap(a.guides.List))
		r.Method(http.MethodPost, "/guides", httpx.Wrap(a.guides.Create))
		r.Method(http.MethodGet, "/guides/user/{userId}", httpx.Wrap(a.guides.ListByUser))
		r.Method(http.MethodDelete, "/guides/{guideId}", httpx.Wrap(a.guides.Delete))

		// Videos
		r.Method(http.MethodGet, "/videos", httpx.Wrap(a.videos.List))
		r.Method(http.MethodPost, "/videos", httpx.Wrap(a.videos.Create))
		r.Method(http.MethodGet, "/videos/user/{userId}", httpx.Wrap(a.videos.ListByUser))
		r.Method(http.MethodDelete, "/videos/{videoId}", httpx.Wrap(a.videos.Delete))
		r.Method(http.MethodDelete, "/videos/{videoId}/comment/{commentId}", httpx.Wrap(a.videos.DeleteComment))

		// Interactions, rate limited per user
		r.Group(func(r chi.Router) {
			r.Use(a.limiter.Middleware)
			r.Method(http.MethodPost, "/posts/{postId}/like", httpx.Wrap(a.posts.Like))
			r.Method(http.MethodPost, "/posts/{postId}/save", httpx.Wrap(a.posts.Save))
			r.Method(http.MethodPost, "/posts/{postId}/comment", httpx.Wrap(a.posts.Comment))
			r.Method(http.MethodPost, "/guides/{guideId}/like", httpx.Wrap(a.guides.Like))
			r.Method(http.MethodPost, "/guides/{guideId}/dislike", httpx.Wrap(a.guides.Dislike))
			r.Method(http.MethodPost, "/videos/{videoId}/like", httpx.Wrap(a.videos.Like))
			r.Method(http.MethodPost, "/videos/{videoId}/comment", httpx.Wrap(a.videos.Comment))
		})

		// Notifications
		r.Method(http.MethodGet, "/notifications", httpx.Wrap(a.notifications.List))
		r.Method(http.MethodPut, "/notifications/read-all", httpx.Wrap(a.notifications.MarkAllRead))
		r.Method(http.MethodPut, "/notifications/{notificationId}/read", httpx.Wrap(a.notifications.MarkRead))

		// Media
		r.Method(http.MethodPost, "/media/upload", httpx.Wrap(a.media.Upload))
		r.Method(http.MethodPost, "/media/presign", httpx.Wrap(a.media.Presign))
	})
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.ping(ctx); err != nil {
		httpx.WriteJSON(w, map[string]string{"status": "unavailable", "mongo": err.Error()}, http.StatusServiceUnavailable)
		return
	}
	httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
