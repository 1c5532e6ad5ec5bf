package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"eventinvites/internal/delivery/http/helpers"
	"eventinvites/internal/delivery/http/middleware"
	"eventinvites/internal/domain"
	"eventinvites/internal/services"
)

type InviteController struct {
	Logger   *slog.Logger
	Invites  domain.InviteService
	Events   domain.EventService
	Notifier domain.NotificationService
	Exporter domain.CalendarExporter
}

func NewInviteController(logger *slog.Logger, invites domain.InviteService, events domain.EventService, notifier domain.NotificationService, exporter domain.CalendarExporter) *InviteController {
	return &InviteController{
		Logger:   logger,
		Invites:  invites,
		Events:   events,
		Notifier: notifier,
		Exporter: exporter,
	}
}

// CreateInviteRequest is the request body for POST /events/{eventID}/invites.
type CreateInviteRequest struct {
	InviteeDetails   domain.InviteeDetails `json:"invitee_details"`
	TicketLinkExpiry time.Time             `json:"ticket_link_expiry"`
}

// Validate implements helpers.Validator.
func (c CreateInviteRequest) Validate() []string {
	var errs []string
	if c.TicketLinkExpiry.IsZero() {
		errs = append(errs, "ticket_link_expiry is required")
	}
	return errs
}

// CreateInviteSuccessResponse is the success envelope for POST /events/{eventID}/invites (201).
type CreateInviteSuccessResponse struct {
	Data  *domain.Invite    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateInvite godoc
// @Summary Create an individual invite for an event
// @Description Create a single-guest invite with a freshly minted ticket link and QR code. The ticket link expiry must lie strictly between now and the event start.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param invite body CreateInviteRequest true "Invite data"
// @Success 201 {object} controllers.CreateInviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invites [post]
func (c *InviteController) CreateInvite(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req CreateInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	invite, err := c.Invites.CreateIndividual(r.Context(), eventID, req.InviteeDetails, req.TicketLinkExpiry)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, invite)
}

// CreateBulkInvitesRequest is the request body for POST /events/{eventID}/invites/bulk.
// Rows come from an uploaded guest table; recognized columns are
// number_of_guests, name, email, and phone. Setting default_missing_to_one
// confirms that rows without a guest count should mean one guest.
type CreateBulkInvitesRequest struct {
	Rows                []domain.RawGuestRow `json:"rows"`
	DefaultMissingToOne bool                 `json:"default_missing_to_one"`
}

// Validate implements helpers.Validator.
func (c CreateBulkInvitesRequest) Validate() []string {
	var errs []string
	if len(c.Rows) == 0 {
		errs = append(errs, "rows is required and must not be empty")
	}
	return errs
}

// BulkInvitesResult is the outcome of a bulk creation: created invites, rows
// returned for resubmission, and row-scoped failures.
type BulkInvitesResult struct {
	Invites       []*domain.Invite     `json:"invites"`
	DefectiveRows []domain.RawGuestRow `json:"defective_rows,omitempty"`
	RowErrors     []domain.RowError    `json:"row_errors,omitempty"`
}

// CreateBulkInvitesSuccessResponse is the success envelope for POST /events/{eventID}/invites/bulk (201).
type CreateBulkInvitesSuccessResponse struct {
	Data  *BulkInvitesResult `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// CreateBulkInvites godoc
// @Summary Create bulk invites from uploaded guest rows
// @Description Reconcile uploaded guest rows into invites. Rows missing a guest count are returned as defective_rows unless default_missing_to_one is set; rows with an unparsable or non-positive count are reported in row_errors. Valid rows each become one invite with a shared guest allotment.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param payload body CreateBulkInvitesRequest true "Uploaded rows"
// @Success 201 {object} controllers.CreateBulkInvitesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invites/bulk [post]
func (c *InviteController) CreateBulkInvites(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req CreateBulkInvitesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reconciled := services.ReconcileRows(req.Rows, req.DefaultMissingToOne)
	invites, rowErrs, err := c.Invites.CreateBulk(r.Context(), eventID, reconciled.Drafts)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, &BulkInvitesResult{
		Invites:       invites,
		DefectiveRows: reconciled.Defective,
		RowErrors:     append(reconciled.RowErrors, rowErrs...),
	})
}

// ListInvitesSuccessResponse is the success envelope for GET /events/{eventID}/invites (200).
type ListInvitesSuccessResponse struct {
	Data  []*domain.Invite  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListInvites godoc
// @Summary List invites for an event
// @Description List all invites for an event. Only the event host may list invites.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.ListInvitesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invites [get]
func (c *InviteController) ListInvites(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invites, err := c.Invites.ListByEventID(r.Context(), eventID, hostID)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invites)
}

// SubmitRSVPRequest is the request body for POST /invites/{inviteID}/rsvp.
// full means the guest attends the whole event; otherwise start_time plus
// exactly one of duration_hours or end_time selects a sub-window.
type SubmitRSVPRequest struct {
	Full          bool       `json:"full"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	DurationHours *float64   `json:"duration_hours,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
}

// Validate implements helpers.Validator.
func (c SubmitRSVPRequest) Validate() []string {
	var errs []string
	if !c.Full && c.StartTime == nil {
		errs = append(errs, "start_time is required unless full is true")
	}
	return errs
}

// SubmitRSVPSuccessResponse is the success envelope for POST /invites/{inviteID}/rsvp (200).
type SubmitRSVPSuccessResponse struct {
	Data  *domain.Invite    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SubmitRSVP godoc
// @Summary Submit or update an RSVP for an invite
// @Description Record the guest's attendance window. The window must lie within the event window, else the RSVP is rejected with range_error and the stored status is unchanged. Resubmitting overwrites the previous RSVP.
// @Tags invites
// @Accept json
// @Produce json
// @Param inviteID path string true "Invite ID"
// @Param rsvp body SubmitRSVPRequest true "Attendance window"
// @Success 200 {object} controllers.SubmitRSVPSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or range_error"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{inviteID}/rsvp [post]
func (c *InviteController) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	inviteID := r.PathValue("inviteID")
	if inviteID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing inviteID")
		return
	}
	var req SubmitRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	invite, err := c.Invites.SubmitRSVP(r.Context(), inviteID, domain.AttendanceSpec{
		Full:          req.Full,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		EndTime:       req.EndTime,
	})
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// DownloadInviteICal godoc
// @Summary Download a personalized iCalendar file for an invite
// @Description Render the guest's calendar entry for the event. If the guest has RSVP'd with a sub-window, the entry spans that window; otherwise it spans the full event.
// @Tags invites
// @Produce text/calendar
// @Param inviteID path string true "Invite ID"
// @Success 200 {string} string "iCalendar document"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{inviteID}/ical [get]
func (c *InviteController) DownloadInviteICal(w http.ResponseWriter, r *http.Request) {
	inviteID := r.PathValue("inviteID")
	if inviteID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing inviteID")
		return
	}
	invite, event, err := c.inviteWithEvent(r, inviteID)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	doc, err := c.Exporter.RenderGuestInvite(invite, event)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invite_%s.ics", inviteID))
	_, _ = w.Write(doc)
}

// ShareInviteRequest is the request body for POST /invites/{inviteID}/share.
type ShareInviteRequest struct {
	Channel string `json:"channel"`
}

// Validate implements helpers.Validator.
func (c ShareInviteRequest) Validate() []string {
	if c.Channel != "email" && c.Channel != "whatsapp" {
		return []string{"channel must be one of: email, whatsapp"}
	}
	return nil
}

// ShareInvite godoc
// @Summary Deliver an invite's ticket link to the guest
// @Description Send the guest their ticket link over the chosen channel. Email delivery attaches the personalized iCalendar file. Delivery failures do not affect the stored invite.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param inviteID path string true "Invite ID"
// @Param payload body ShareInviteRequest true "Delivery channel"
// @Success 204 "Delivered"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: delivery_error"
// @Router /invites/{inviteID}/share [post]
func (c *InviteController) ShareInvite(w http.ResponseWriter, r *http.Request) {
	inviteID := r.PathValue("inviteID")
	if inviteID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing inviteID")
		return
	}
	var req ShareInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	invite, event, err := c.inviteWithEvent(r, inviteID)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}

	switch req.Channel {
	case "email":
		doc, renderErr := c.Exporter.RenderGuestInvite(invite, event)
		if renderErr != nil {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", renderErr)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, renderErr.Error())
			return
		}
		err = c.Notifier.ShareByEmail(r.Context(), invite, event, doc)
	case "whatsapp":
		err = c.Notifier.ShareByWhatsApp(r.Context(), invite, event)
	}
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// inviteWithEvent loads an invite and its event in one place for the
// handlers that need both.
func (c *InviteController) inviteWithEvent(r *http.Request, inviteID string) (*domain.Invite, *domain.Event, error) {
	invite, err := c.Invites.GetByID(r.Context(), inviteID)
	if err != nil {
		return nil, nil, err
	}
	event, err := c.Events.GetEventByID(r.Context(), invite.EventID)
	if err != nil {
		return nil, nil, err
	}
	return invite, event, nil
}

// writeInviteError maps domain errors onto the API error taxonomy.
func (c *InviteController) writeInviteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrWindowOutOfRange):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeRangeError, err.Error())
	case errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrAmbiguousWindow),
		errors.Is(err, domain.ErrInvalidExpiry),
		errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrDeliveryFailed):
		helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeDeliveryError, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
