package domain

import (
	"context"
	"time"
)

// InviteKind distinguishes a shared-allotment bulk invite from a single-guest
// individual invite.
type InviteKind string

const (
	InviteKindBulk       InviteKind = "bulk"
	InviteKindIndividual InviteKind = "individual"
)

// InviteeDetails holds the optional, sparse contact details for a guest.
// Absent values are nil, never empty-string sentinels.
// swagger:model InviteeDetails
type InviteeDetails struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	WhatsAppNumber *string `json:"whatsapp_number,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Age            *int    `json:"age,omitempty"`
	HouseAddress   *string `json:"house_address,omitempty"`
}

// RSVPStatus records a guest's confirmation. Window is nil until the guest has
// RSVP'd; when Attending is true the window lies within the event window.
// swagger:model RSVPStatus
type RSVPStatus struct {
	Attending bool        `json:"attending"`
	Window    *TimeWindow `json:"window,omitempty"`
}

// Invite represents one invitation belonging to an event. TicketLink is unique
// per invite and immutable after creation; QRCode is derived from it.
// swagger:model Invite
type Invite struct {
	ID               string         `json:"id"`
	EventID          string         `json:"event_id"`
	Kind             InviteKind     `json:"kind"`
	GuestsAllowed    *int           `json:"guests_allowed,omitempty"`
	InviteeDetails   InviteeDetails `json:"invitee_details"`
	RSVPStatus       RSVPStatus     `json:"rsvp_status"`
	TicketLink       string         `json:"ticket_link"`
	QRCode           string         `json:"qr_code"`
	TicketLinkExpiry *time.Time     `json:"ticket_link_expiry,omitempty"`
}

// RawGuestRow is one uploaded table row, column name to raw cell value.
// Transient: consumed once by reconciliation and discarded.
type RawGuestRow map[string]string

// InviteDraft is a validated bulk row awaiting persistence.
type InviteDraft struct {
	GuestsAllowed  int
	InviteeDetails InviteeDetails
}

// RowError records a row-scoped failure during bulk reconciliation or creation.
// Failures are collected per row; the batch is never aborted as a whole.
type RowError struct {
	Row     RawGuestRow `json:"row,omitempty"`
	Index   int         `json:"index"`
	Message string      `json:"message"`
}

// ReconcileResult partitions uploaded rows into invite drafts and defective
// rows. Defective rows are returned verbatim so the caller can resubmit them.
type ReconcileResult struct {
	Drafts    []InviteDraft
	Defective []RawGuestRow
	RowErrors []RowError
}

// AttendanceSpec describes an RSVP request: Full means the guest attends the
// entire event; otherwise StartTime plus exactly one of DurationHours or
// EndTime selects a sub-window.
type AttendanceSpec struct {
	Full          bool
	StartTime     *time.Time
	DurationHours *float64
	EndTime       *time.Time
}

// InviteRepository defines storage operations for invites.
type InviteRepository interface {
	Create(ctx context.Context, inv *Invite) error
	GetByID(ctx context.Context, id string) (*Invite, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Invite, error)
	// UpdateRSVP overwrites the invite's RSVP status (last-write-wins).
	UpdateRSVP(ctx context.Context, id string, status RSVPStatus) (*Invite, error)
}

// InviteService owns the invite lifecycle: creation, RSVP transitions, and
// ticket identity minting.
type InviteService interface {
	// CreateIndividual creates an individual invite. Expiry must satisfy
	// now < expiry < event.StartTime, else ErrInvalidExpiry.
	CreateIndividual(ctx context.Context, eventID string, details InviteeDetails, ticketLinkExpiry time.Time) (*Invite, error)
	// CreateBulk creates one invite per draft against a single event lookup.
	// Per-draft failures are collected as RowErrors; successes are returned.
	CreateBulk(ctx context.Context, eventID string, drafts []InviteDraft) ([]*Invite, []RowError, error)
	// SubmitRSVP validates the requested window against the event window and
	// overwrites the invite's RSVP status.
	SubmitRSVP(ctx context.Context, inviteID string, spec AttendanceSpec) (*Invite, error)
	GetByID(ctx context.Context, inviteID string) (*Invite, error)
	ListByEventID(ctx context.Context, eventID, hostID string) ([]*Invite, error)
}

// TicketMinter mints unforgeable ticket links and derives QR payloads.
type TicketMinter interface {
	// Mint returns a new unpredictable URL-safe ticket link.
	Mint() (string, error)
	// EncodeQR deterministically encodes a ticket link as a scannable payload.
	EncodeQR(ticketLink string) (string, error)
}

// CalendarExporter renders iCalendar documents. Implementations are pure:
// no persistence or network access.
type CalendarExporter interface {
	RenderEvent(event *Event) ([]byte, error)
	RenderGuestInvite(invite *Invite, event *Event) ([]byte, error)
}
