package service

import (
	"classquest/internal/app"
	"classquest/internal/gamebridge"
	"classquest/internal/models"
	"classquest/internal/pkg/auth"
	"classquest/internal/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// signalSubscription names the bridge subscription owned by the panel
// endpoints. The bridge rejects a second subscription under the same
// purpose, so repeated router initialization cannot double-credit signals.
const signalSubscription = "panel-game-signals"

// Service encapsulates the HTTP server configuration, including the
// application's business logic, HTTP handlers, the game-signal bridge, the
// server's run address, and a logger for event and error logging.
type Service struct {
	handlers   *handlers
	app        *app.App
	bridge     *gamebridge.Bridge
	runAddress string
	log        *logger.Logger
}

// NewService creates and initializes a new Service instance. It sets up the
// handlers using the provided application, bridge and logger, and configures
// the server's run address.
func NewService(app *app.App, bridge *gamebridge.Bridge, runAddress string, l *logger.Logger) *Service {
	handlers := newHandlers(app, bridge, l)
	return &Service{handlers: handlers, app: app, bridge: bridge, runAddress: runAddress, log: l}
}

// NewRouter sets up and returns a new chi.Router instance with the necessary
// middleware and routes. It applies logging middleware globally, JWT
// authentication for protected routes and role checks for the student and
// teacher subtrees. The game-signal handler is attached to the bridge here,
// guarded against duplicate subscription.
func (service *Service) NewRouter() chi.Router {
	service.bridge.Subscribe(signalSubscription, service.app.HandleGameSignal)

	router := chi.NewRouter()
	router.Use(service.log.WithLogging())
	router.Post("/api/register", service.handlers.registerHandler)
	router.Post("/api/login", service.handlers.loginHandler)
	router.Group(func(r chi.Router) {
		r.Use(auth.CheckJWTMiddleware())
		r.Post("/api/logout", service.handlers.logoutHandler)
		r.Get("/api/session", service.handlers.sessionHandler)
		r.Get("/api/shop", service.handlers.shopHandler)
		r.Get("/api/leaderboard/{class}", service.handlers.leaderboardHandler)
		r.Get("/api/lesson/{lessonID}", service.handlers.lessonHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleStudent))
			r.Get("/api/panel/student", service.handlers.studentPanelHandler)
			r.Post("/api/buy", service.handlers.buyHandler)
			r.Post("/api/game/signal", service.handlers.gameSignalHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleTeacher))
			r.Get("/api/panel/teacher", service.handlers.teacherPanelHandler)
			r.Get("/api/teacher/classes/{class}", service.handlers.leaderboardHandler)
			r.Get("/api/teacher/students/{studentID}", service.handlers.studentProfileHandler)
			r.Put("/api/teacher/students/{studentID}/gold", service.handlers.goldOverrideHandler)
			r.Put("/api/teacher/shop/{itemID}/price", service.handlers.priceUpdateHandler)
			r.Put("/api/teacher/lesson/{lessonID}", service.handlers.lessonUpdateHandler)
		})
	})
	return router
}
