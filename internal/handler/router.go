package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hammall/hamra/backend/internal/handler/chat"
	"github.com/hammall/hamra/backend/internal/handler/health"
	"github.com/hammall/hamra/backend/internal/handler/stream"
	"github.com/hammall/hamra/backend/internal/handler/ws"
	middlewarePkg "github.com/hammall/hamra/backend/internal/middleware"
	chatService "github.com/hammall/hamra/backend/internal/service/chat"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, checks map[string]health.Check, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.NewCORS(allowedOrigins))

	health.New(checks).RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		api.Route("/chat", chat.New(chatSvc).RegisterRoutes)
		stream.New(chatSvc).RegisterRoutes(api)
		ws.New(chatSvc).RegisterRoutes(api)
	})

	return r
}
