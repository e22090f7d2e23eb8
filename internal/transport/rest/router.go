package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/workhub/workspace-portal/internal/auth"
	"github.com/workhub/workspace-portal/internal/board"
	"github.com/workhub/workspace-portal/internal/event"
	"github.com/workhub/workspace-portal/internal/permission"
	"github.com/workhub/workspace-portal/internal/post"
	"github.com/workhub/workspace-portal/internal/role"
	"github.com/workhub/workspace-portal/internal/transport/middleware"
	"github.com/workhub/workspace-portal/internal/transport/swagger"
	"github.com/workhub/workspace-portal/internal/user"
)

type Handlers struct {
	Auth       *auth.Handler
	Authorizer *auth.Authorizer
	Board      *board.Handler
	Post       *post.Handler
	Event      *event.Handler
	User       *user.Handler
	Role       *role.Handler
	Permission *permission.Handler
}

// RegisterAllRoutes wires the two-stage pipeline: AuthMiddleware settles who
// is asking, the Authorizer guards settle what they may touch.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/refresh", h.Auth.Refresh)
			pr.Post("/auth/password", h.Auth.ChangePassword)
			pr.Get("/auth/permissions", h.Auth.GetPermissions)

			pr.Get("/boards", h.Board.ListVisible)

			pr.Route("/boards/{boardID}/posts", func(br chi.Router) {
				br.Group(func(gr chi.Router) {
					gr.Use(h.Authorizer.RequireBoard(auth.ActionRead))
					gr.Get("/", h.Post.List)
				})
				br.Group(func(gr chi.Router) {
					gr.Use(h.Authorizer.RequireBoard(auth.ActionWrite))
					gr.Post("/", h.Post.Create)
				})
				br.Group(func(gr chi.Router) {
					gr.Use(h.Authorizer.RequireBoard(auth.ActionDelete))
					gr.Delete("/{postID}", h.Post.Delete)
				})
			})

			pr.Route("/events", func(er chi.Router) {
				er.Group(func(gr chi.Router) {
					gr.Use(h.Authorizer.RequireEvent(auth.ActionRead))
					gr.Get("/", h.Event.List)
					gr.Get("/{eventID}", h.Event.Get)
				})
				er.Group(func(gr chi.Router) {
					gr.Use(h.Authorizer.RequireEvent(auth.ActionCreate))
					gr.Post("/", h.Event.Create)
				})
				er.Group(func(gr chi.Router) {
					gr.Use(h.Authorizer.RequireEvent(auth.ActionUpdate))
					gr.Put("/{eventID}", h.Event.Update)
				})
				er.Group(func(gr chi.Router) {
					gr.Use(h.Authorizer.RequireEvent(auth.ActionDelete))
					gr.Delete("/{eventID}", h.Event.Delete)
				})
			})

			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(h.Authorizer.RequireAdmin())

				ar.Get("/users", h.User.List)
				ar.Post("/users", h.User.Create)
				ar.Put("/users/{userID}", h.User.Update)
				ar.Delete("/users/{userID}", h.User.Delete)
				ar.Post("/users/{userID}/reset-password", h.User.ResetPassword)

				ar.Get("/boards", h.Board.AdminList)
				ar.Post("/boards", h.Board.Create)
				ar.Put("/boards/{boardID}", h.Board.Update)
				ar.Delete("/boards/{boardID}", h.Board.Delete)

				ar.Get("/boards/{boardID}/access", h.Permission.GetBoardAccess)
				ar.Put("/boards/{boardID}/access", h.Permission.PutBoardAccess)

				ar.Get("/roles", h.Role.List)
				ar.Post("/roles", h.Role.Create)
				ar.Put("/roles/{roleID}", h.Role.Update)
				ar.Delete("/roles/{roleID}", h.Role.Delete)

				ar.Get("/event-permissions", h.Permission.GetEventPermissions)
				ar.Put("/event-permissions", h.Permission.PutEventPermissions)

				ar.Get("/events", h.Event.AdminList)
				ar.Put("/events/{eventID}", h.Event.Update)
				ar.Delete("/events/{eventID}", h.Event.Delete)
			})
		})
	})
}
