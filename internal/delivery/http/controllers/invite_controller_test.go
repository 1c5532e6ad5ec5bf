package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventinvites/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInviteService implements domain.InviteService for handler tests.
type fakeInviteService struct {
	createErr  error
	bulkErr    error
	rsvpErr    error
	getErr     error
	listErr    error
	invite     *domain.Invite
	invites    []*domain.Invite
	bulkRowErr []domain.RowError

	lastEventID string
	lastHostID  string
	lastDrafts  []domain.InviteDraft
	lastSpec    domain.AttendanceSpec
}

func (f *fakeInviteService) CreateIndividual(ctx context.Context, eventID string, details domain.InviteeDetails, ticketLinkExpiry time.Time) (*domain.Invite, error) {
	f.lastEventID = eventID
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.invite, nil
}

func (f *fakeInviteService) CreateBulk(ctx context.Context, eventID string, drafts []domain.InviteDraft) ([]*domain.Invite, []domain.RowError, error) {
	f.lastEventID = eventID
	f.lastDrafts = drafts
	if f.bulkErr != nil {
		return nil, nil, f.bulkErr
	}
	return f.invites, f.bulkRowErr, nil
}

func (f *fakeInviteService) SubmitRSVP(ctx context.Context, inviteID string, spec domain.AttendanceSpec) (*domain.Invite, error) {
	f.lastSpec = spec
	if f.rsvpErr != nil {
		return nil, f.rsvpErr
	}
	return f.invite, nil
}

func (f *fakeInviteService) GetByID(ctx context.Context, inviteID string) (*domain.Invite, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.invite, nil
}

func (f *fakeInviteService) ListByEventID(ctx context.Context, eventID, hostID string) ([]*domain.Invite, error) {
	f.lastEventID = eventID
	f.lastHostID = hostID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.invites, nil
}

// fakeNotificationService implements domain.NotificationService for handler tests.
type fakeNotificationService struct {
	emailErr    error
	whatsappErr error

	emailCalls    int
	whatsappCalls int
	lastICS       []byte
}

func (f *fakeNotificationService) ShareByEmail(ctx context.Context, invite *domain.Invite, event *domain.Event, icsDocument []byte) error {
	f.emailCalls++
	f.lastICS = icsDocument
	return f.emailErr
}

func (f *fakeNotificationService) ShareByWhatsApp(ctx context.Context, invite *domain.Invite, event *domain.Event) error {
	f.whatsappCalls++
	return f.whatsappErr
}

func sampleInvite() *domain.Invite {
	email := "guest@example.com"
	return &domain.Invite{
		ID:         "inv-1",
		EventID:    "ev-1",
		Kind:       domain.InviteKindIndividual,
		TicketLink: "http://localhost:8080/ticket/abc",
		InviteeDetails: domain.InviteeDetails{
			Email: &email,
		},
	}
}

func newInviteController(invites *fakeInviteService, events *fakeEventService, notifier *fakeNotificationService, exporter *fakeCalendarExporter) *InviteController {
	if events == nil {
		events = &fakeEventService{event: &domain.Event{ID: "ev-1", HostID: "host-1", Type: "wedding"}}
	}
	if notifier == nil {
		notifier = &fakeNotificationService{}
	}
	if exporter == nil {
		exporter = &fakeCalendarExporter{doc: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")}
	}
	return NewInviteController(testLogger(), invites, events, notifier, exporter)
}

func TestInviteController_CreateInvite(t *testing.T) {
	tests := []struct {
		name           string
		eventID        string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			eventID:    "ev-1",
			body:       `{"invitee_details":{"name":"Asha"},"ticket_link_expiry":"2025-05-30T00:00:00Z"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "missing expiry",
			eventID:        "ev-1",
			body:           `{"invitee_details":{"name":"Asha"}}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "ticket_link_expiry is required",
		},
		{
			name:           "expiry out of range",
			eventID:        "ev-1",
			body:           `{"invitee_details":{},"ticket_link_expiry":"2030-01-01T00:00:00Z"}`,
			fakeErr:        domain.ErrInvalidExpiry,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "bad_request",
		},
		{
			name:           "event not found",
			eventID:        "ev-404",
			body:           `{"invitee_details":{},"ticket_link_expiry":"2025-05-30T00:00:00Z"}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeInviteService{createErr: tt.fakeErr, invite: sampleInvite()}
			ctrl := newInviteController(fake, nil, nil, nil)
			req := authedRequest(http.MethodPost, "/events/"+tt.eventID+"/invites", tt.body)
			req.SetPathValue("eventID", tt.eventID)
			rr := httptest.NewRecorder()

			ctrl.CreateInvite(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr, "response body")
			}
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "ev-1", fake.lastEventID)
				var out struct {
					Data domain.Invite `json:"data"`
				}
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
				assert.Equal(t, "inv-1", out.Data.ID)
			}
		})
	}
}

func TestInviteController_CreateBulkInvites(t *testing.T) {
	t.Run("valid rows become drafts", func(t *testing.T) {
		fake := &fakeInviteService{invites: []*domain.Invite{sampleInvite()}}
		ctrl := newInviteController(fake, nil, nil, nil)
		body := `{"rows":[{"number_of_guests":"3","name":"Asha","email":"asha@example.com"}]}`
		req := authedRequest(http.MethodPost, "/events/ev-1/invites/bulk", body)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.CreateBulkInvites(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.Len(t, fake.lastDrafts, 1)
		assert.Equal(t, 3, fake.lastDrafts[0].GuestsAllowed)
		require.NotNil(t, fake.lastDrafts[0].InviteeDetails.Name)
		assert.Equal(t, "Asha", *fake.lastDrafts[0].InviteeDetails.Name)
	})

	t.Run("missing guest count returned as defective", func(t *testing.T) {
		fake := &fakeInviteService{}
		ctrl := newInviteController(fake, nil, nil, nil)
		body := `{"rows":[{"name":"No Count"}]}`
		req := authedRequest(http.MethodPost, "/events/ev-1/invites/bulk", body)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.CreateBulkInvites(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var out struct {
			Data BulkInvitesResult `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
		require.Len(t, out.Data.DefectiveRows, 1)
		assert.Equal(t, "No Count", out.Data.DefectiveRows[0]["name"])
		assert.Empty(t, fake.lastDrafts)
	})

	t.Run("default_missing_to_one maps missing counts to one guest", func(t *testing.T) {
		fake := &fakeInviteService{invites: []*domain.Invite{sampleInvite()}}
		ctrl := newInviteController(fake, nil, nil, nil)
		body := `{"rows":[{"name":"No Count"}],"default_missing_to_one":true}`
		req := authedRequest(http.MethodPost, "/events/ev-1/invites/bulk", body)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.CreateBulkInvites(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.Len(t, fake.lastDrafts, 1)
		assert.Equal(t, 1, fake.lastDrafts[0].GuestsAllowed)
	})

	t.Run("unparsable guest count reported as row error", func(t *testing.T) {
		fake := &fakeInviteService{}
		ctrl := newInviteController(fake, nil, nil, nil)
		body := `{"rows":[{"number_of_guests":"many"}]}`
		req := authedRequest(http.MethodPost, "/events/ev-1/invites/bulk", body)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.CreateBulkInvites(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var out struct {
			Data BulkInvitesResult `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
		require.Len(t, out.Data.RowErrors, 1)
		assert.Contains(t, out.Data.RowErrors[0].Message, "number_of_guests")
	})

	t.Run("empty rows rejected", func(t *testing.T) {
		ctrl := newInviteController(&fakeInviteService{}, nil, nil, nil)
		req := authedRequest(http.MethodPost, "/events/ev-1/invites/bulk", `{"rows":[]}`)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.CreateBulkInvites(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "rows is required")
	})

	t.Run("event not found", func(t *testing.T) {
		fake := &fakeInviteService{bulkErr: domain.ErrNotFound}
		ctrl := newInviteController(fake, nil, nil, nil)
		body := `{"rows":[{"number_of_guests":"2"}]}`
		req := authedRequest(http.MethodPost, "/events/ev-404/invites/bulk", body)
		req.SetPathValue("eventID", "ev-404")
		rr := httptest.NewRecorder()

		ctrl.CreateBulkInvites(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestInviteController_ListInvites(t *testing.T) {
	t.Run("host lists invites", func(t *testing.T) {
		fake := &fakeInviteService{invites: []*domain.Invite{sampleInvite()}}
		ctrl := newInviteController(fake, nil, nil, nil)
		req := authedRequest(http.MethodGet, "/events/ev-1/invites", "")
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.ListInvites(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ev-1", fake.lastEventID)
		assert.Equal(t, "host-1", fake.lastHostID)
	})

	t.Run("non-host forbidden", func(t *testing.T) {
		fake := &fakeInviteService{listErr: domain.ErrForbidden}
		ctrl := newInviteController(fake, nil, nil, nil)
		req := authedRequest(http.MethodGet, "/events/ev-1/invites", "")
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.ListInvites(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "forbidden")
	})
}

func TestInviteController_SubmitRSVP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		checkSpec      func(t *testing.T, spec domain.AttendanceSpec)
	}{
		{
			name:       "full attendance",
			body:       `{"full":true}`,
			wantStatus: http.StatusOK,
			checkSpec: func(t *testing.T, spec domain.AttendanceSpec) {
				assert.True(t, spec.Full)
			},
		},
		{
			name:       "partial window with duration",
			body:       `{"start_time":"2025-06-01T11:00:00Z","duration_hours":1}`,
			wantStatus: http.StatusOK,
			checkSpec: func(t *testing.T, spec domain.AttendanceSpec) {
				require.NotNil(t, spec.StartTime)
				require.NotNil(t, spec.DurationHours)
				assert.Equal(t, 1.0, *spec.DurationHours)
			},
		},
		{
			name:           "partial window missing start",
			body:           `{"duration_hours":1}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "start_time is required",
		},
		{
			name:           "window out of range",
			body:           `{"start_time":"2025-06-01T09:00:00Z","duration_hours":1}`,
			fakeErr:        domain.ErrWindowOutOfRange,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "range_error",
		},
		{
			name:           "invite not found",
			body:           `{"full":true}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeInviteService{rsvpErr: tt.fakeErr, invite: sampleInvite()}
			ctrl := newInviteController(fake, nil, nil, nil)
			req := authedRequest(http.MethodPost, "/invites/inv-1/rsvp", tt.body)
			req.SetPathValue("inviteID", "inv-1")
			rr := httptest.NewRecorder()

			ctrl.SubmitRSVP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr, "response body")
			}
			if tt.checkSpec != nil && rr.Code == http.StatusOK {
				tt.checkSpec(t, fake.lastSpec)
			}
		})
	}
}

func TestInviteController_DownloadInviteICal(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeInviteService{invite: sampleInvite()}
		ctrl := newInviteController(fake, nil, nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/invites/inv-1/ical", nil)
		req.SetPathValue("inviteID", "inv-1")
		rr := httptest.NewRecorder()

		ctrl.DownloadInviteICal(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/calendar", rr.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=invite_inv-1.ics", rr.Header().Get("Content-Disposition"))
		assert.Contains(t, rr.Body.String(), "BEGIN:VCALENDAR")
	})

	t.Run("invite not found", func(t *testing.T) {
		fake := &fakeInviteService{getErr: domain.ErrNotFound}
		ctrl := newInviteController(fake, nil, nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/invites/inv-404/ical", nil)
		req.SetPathValue("inviteID", "inv-404")
		rr := httptest.NewRecorder()

		ctrl.DownloadInviteICal(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestInviteController_ShareInvite(t *testing.T) {
	t.Run("share by email attaches calendar", func(t *testing.T) {
		notifier := &fakeNotificationService{}
		fake := &fakeInviteService{invite: sampleInvite()}
		ctrl := newInviteController(fake, nil, notifier, nil)
		req := authedRequest(http.MethodPost, "/invites/inv-1/share", `{"channel":"email"}`)
		req.SetPathValue("inviteID", "inv-1")
		rr := httptest.NewRecorder()

		ctrl.ShareInvite(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, 1, notifier.emailCalls)
		assert.Contains(t, string(notifier.lastICS), "BEGIN:VCALENDAR")
	})

	t.Run("share by whatsapp", func(t *testing.T) {
		notifier := &fakeNotificationService{}
		fake := &fakeInviteService{invite: sampleInvite()}
		ctrl := newInviteController(fake, nil, notifier, nil)
		req := authedRequest(http.MethodPost, "/invites/inv-1/share", `{"channel":"whatsapp"}`)
		req.SetPathValue("inviteID", "inv-1")
		rr := httptest.NewRecorder()

		ctrl.ShareInvite(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, 1, notifier.whatsappCalls)
	})

	t.Run("unknown channel rejected", func(t *testing.T) {
		ctrl := newInviteController(&fakeInviteService{invite: sampleInvite()}, nil, nil, nil)
		req := authedRequest(http.MethodPost, "/invites/inv-1/share", `{"channel":"carrier_pigeon"}`)
		req.SetPathValue("inviteID", "inv-1")
		rr := httptest.NewRecorder()

		ctrl.ShareInvite(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "channel must be one of")
	})

	t.Run("delivery failure maps to 502", func(t *testing.T) {
		notifier := &fakeNotificationService{emailErr: fmt.Errorf("%w: ses down", domain.ErrDeliveryFailed)}
		fake := &fakeInviteService{invite: sampleInvite()}
		ctrl := newInviteController(fake, nil, notifier, nil)
		req := authedRequest(http.MethodPost, "/invites/inv-1/share", `{"channel":"email"}`)
		req.SetPathValue("inviteID", "inv-1")
		rr := httptest.NewRecorder()

		ctrl.ShareInvite(rr, req)

		require.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "delivery_error")
	})
}
