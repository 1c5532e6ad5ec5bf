package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventinvites/internal/delivery/http/controllers"
	"eventinvites/internal/delivery/http/middleware"
	"eventinvites/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Host-facing routes require a Bearer token; guest-facing routes (RSVP and
// calendar download) are reachable with the ticket link alone.
func NewRouter(eventController *controllers.EventController, inviteController *controllers.InviteController, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Events (host)
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", auth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEventByID))
	mux.HandleFunc("GET /events/{eventID}/ical", auth(eventController.DownloadEventICal))

	// Invites (host)
	mux.HandleFunc("POST /events/{eventID}/invites", auth(inviteController.CreateInvite))
	mux.HandleFunc("POST /events/{eventID}/invites/bulk", auth(inviteController.CreateBulkInvites))
	mux.HandleFunc("GET /events/{eventID}/invites", auth(inviteController.ListInvites))
	mux.HandleFunc("POST /invites/{inviteID}/share", auth(inviteController.ShareInvite))

	// Invites (guest)
	mux.HandleFunc("POST /invites/{inviteID}/rsvp", inviteController.SubmitRSVP)
	mux.HandleFunc("GET /invites/{inviteID}/ical", inviteController.DownloadInviteICal)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
