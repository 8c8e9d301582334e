package api

import (
	"net/http"
	"os"

	"botdock/internal/auth"
	"botdock/internal/db"
	"botdock/internal/pubsub"
	"botdock/internal/schema"
	"botdock/internal/service"
	"botdock/internal/ws"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Dependencies struct {
	DB            *db.Pool
	Bus           *pubsub.Bus
	Hub           *ws.Hub
	Log           *zap.Logger
	Schemas       *schema.Compiler
	Bots          *service.BotService
	Incidents     *service.IncidentService
	Tickets       *service.TicketService
	Notifications *service.NotificationService
	Activity      *service.ActivityService
	Team          *service.TeamService
	Account       *service.AccountService
}

func Routes(d Dependencies) http.Handler {
	r := chi.NewRouter()

	// Add request logging middleware
	r.Use(RequestLogger(d.Log))

	// Add JWT authentication middleware (optional - allows anonymous access)
	jwtSecret := os.Getenv("JWT_SECRET")
	jwtConfig := auth.NewJWTConfig(jwtSecret)
	r.Use(jwtConfig.Middleware)

	r.Get("/healthz", d.health)

	// WebSocket endpoint
	r.Get("/ws", d.wsHandler)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)

		// Bot endpoints
		r.Get("/bots", d.listBots)
		r.Post("/bots", d.createBot)
		r.Get("/bots/{id}", d.getBot)
		r.Put("/bots/{id}", d.updateBot)
		r.Delete("/bots/{id}", d.deleteBot)
		r.Post("/bots/{id}/toggle", d.toggleBot)
		r.Post("/bots/{id}/restart", d.restartBot)

		// Maintenance endpoints
		r.Get("/maintenance", d.listIncidents)
		r.Get("/maintenance/{id}", d.getIncident)

		// Ticket endpoints
		r.Get("/tickets", d.listTickets)
		r.Post("/tickets", d.createTicket)
		r.Get("/tickets/{id}", d.getTicket)
		r.Get("/tickets/{id}/replies", d.listReplies)
		r.Post("/tickets/{id}/replies", d.createReply)

		// Notification endpoints
		r.Get("/notifications", d.listNotifications)
		r.Post("/notifications/{id}/read", d.markNotificationRead)
		r.Post("/notifications/read_all", d.markAllNotificationsRead)

		// Account endpoints
		r.Get("/account/me", d.getProfile)
		r.Get("/account/limits", d.getLimits)
		r.Get("/account/keys", d.listAPIKeys)
		r.Post("/account/keys", d.createAPIKey)
		r.Delete("/account/keys/{id}", d.deleteAPIKey)
		r.Post("/account/login", d.recordLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Use(auth.RequireStaff)

		// Staff-only maintenance management
		r.Post("/maintenance", d.createIncident)
		r.Put("/maintenance/{id}", d.updateIncident)
		r.Delete("/maintenance/{id}", d.deleteIncident)

		// Staff-only ticket workflow
		r.Post("/tickets/{id}/status", d.changeTicketStatus)
		r.Post("/tickets/{id}/assign", d.assignTicket)
		r.Put("/tickets/{id}/notes", d.saveTicketNotes)
		r.Delete("/tickets/{id}", d.deleteTicket)

		// Activity log endpoints
		r.Get("/logs", d.listActivity)
		r.Delete("/logs", d.deleteActivity)
		r.Get("/logs/export", d.exportActivity)

		// Team endpoints
		r.Get("/team", d.listTeam)
		r.Get("/team/staff", d.listStaff)
		r.Put("/team/{id}/role", d.changeRole)
		r.Put("/team/{id}/ban", d.setBanned)

		// Admin statistics
		r.Get("/admin/stats", d.adminStats)
	})

	return r
}

func (d Dependencies) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
