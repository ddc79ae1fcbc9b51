package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/crud-games/backend/internal/errs"
	"github.com/zhouzirui/crud-games/backend/internal/handler/events"
	"github.com/zhouzirui/crud-games/backend/internal/handler/games"
	middlewarePkg "github.com/zhouzirui/crud-games/backend/internal/middleware"
	eventsService "github.com/zhouzirui/crud-games/backend/internal/service/events"
	gamesService "github.com/zhouzirui/crud-games/backend/internal/service/games"
	"github.com/zhouzirui/crud-games/backend/pkg/utils"
)

const greeting = "Hello world 🤣🤣!"

var routeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Options carries the cross-cutting settings the router needs.
type Options struct {
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
}

// NewRouter wires HTTP routes to core services. hub may be nil, in which
// case the change feeds are not mounted.
func NewRouter(opts Options, gameSvc *gamesService.Service, hub *eventsService.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(opts.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, errs.NewNotFoundError(http.StatusText(http.StatusNotFound)))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		allowed := allowedMethods(r, req.URL.Path)
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		if req.Method == http.MethodOptions && len(allowed) > 0 {
			w.WriteHeader(http.StatusOK)
			return
		}
		utils.RespondError(w, errs.NewMethodNotAllowedError())
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondMessage(w, http.StatusOK, greeting)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"games":  gameSvc.Count(),
		})
	})

	// Register game routes
	games.New(gameSvc).RegisterRoutes(r)

	// Register change feed routes
	if hub != nil {
		events.New(hub).RegisterRoutes(r)
	}

	return r
}

// allowedMethods lists the verbs routed for path, in routeMethods order.
func allowedMethods(routes chi.Routes, path string) []string {
	var allowed []string
	for _, method := range routeMethods {
		if routes.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
