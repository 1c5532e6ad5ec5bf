package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventinvites/internal/domain"
)

type inviteRepository struct {
	DB *sql.DB
}

func NewInviteRepository(db *sql.DB) domain.InviteRepository {
	return &inviteRepository{
		DB: db,
	}
}

const inviteColumns = `id, event_id, kind, guests_allowed,
		name, email, whatsapp_number, phone_number, age, house_address,
		attending, rsvp_start_time, rsvp_end_time,
		ticket_link, qr_code, ticket_link_expiry`

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	query := `
		INSERT INTO invites (event_id, kind, guests_allowed,
			name, email, whatsapp_number, phone_number, age, house_address,
			attending, rsvp_start_time, rsvp_end_time,
			ticket_link, qr_code, ticket_link_expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	d := inv.InviteeDetails
	var rsvpStart, rsvpEnd *time.Time
	if inv.RSVPStatus.Window != nil {
		rsvpStart = &inv.RSVPStatus.Window.Start
		rsvpEnd = &inv.RSVPStatus.Window.End
	}
	return r.DB.QueryRowContext(ctx, query,
		inv.EventID, string(inv.Kind), inv.GuestsAllowed,
		d.Name, d.Email, d.WhatsAppNumber, d.PhoneNumber, d.Age, d.HouseAddress,
		inv.RSVPStatus.Attending, rsvpStart, rsvpEnd,
		inv.TicketLink, inv.QRCode, inv.TicketLinkExpiry,
	).Scan(&inv.ID)
}

func (r *inviteRepository) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM invites
		WHERE id = $1
	`
	inv, err := scanInvite(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *inviteRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Invite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM invites
		WHERE event_id = $1
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := make([]*domain.Invite, 0)
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *inviteRepository) UpdateRSVP(ctx context.Context, id string, status domain.RSVPStatus) (*domain.Invite, error) {
	query := `
		UPDATE invites
		SET attending = $2, rsvp_start_time = $3, rsvp_end_time = $4
		WHERE id = $1
		RETURNING ` + inviteColumns + `
	`
	var rsvpStart, rsvpEnd *time.Time
	if status.Window != nil {
		rsvpStart = &status.Window.Start
		rsvpEnd = &status.Window.End
	}
	inv, err := scanInvite(r.DB.QueryRowContext(ctx, query, id, status.Attending, rsvpStart, rsvpEnd))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvite(row rowScanner) (*domain.Invite, error) {
	inv := &domain.Invite{}
	var kind string
	var guestsNull sql.NullInt64
	var nameNull, emailNull, whatsappNull, phoneNull, addressNull sql.NullString
	var ageNull sql.NullInt64
	var rsvpStartNull, rsvpEndNull, expiryNull sql.NullTime

	if err := row.Scan(
		&inv.ID, &inv.EventID, &kind, &guestsNull,
		&nameNull, &emailNull, &whatsappNull, &phoneNull, &ageNull, &addressNull,
		&inv.RSVPStatus.Attending, &rsvpStartNull, &rsvpEndNull,
		&inv.TicketLink, &inv.QRCode, &expiryNull,
	); err != nil {
		return nil, err
	}

	inv.Kind = domain.InviteKind(kind)
	if guestsNull.Valid {
		guests := int(guestsNull.Int64)
		inv.GuestsAllowed = &guests
	}
	if nameNull.Valid {
		inv.InviteeDetails.Name = &nameNull.String
	}
	if emailNull.Valid {
		inv.InviteeDetails.Email = &emailNull.String
	}
	if whatsappNull.Valid {
		inv.InviteeDetails.WhatsAppNumber = &whatsappNull.String
	}
	if phoneNull.Valid {
		inv.InviteeDetails.PhoneNumber = &phoneNull.String
	}
	if ageNull.Valid {
		age := int(ageNull.Int64)
		inv.InviteeDetails.Age = &age
	}
	if addressNull.Valid {
		inv.InviteeDetails.HouseAddress = &addressNull.String
	}
	if rsvpStartNull.Valid && rsvpEndNull.Valid {
		inv.RSVPStatus.Window = &domain.TimeWindow{
			Start: rsvpStartNull.Time,
			End:   rsvpEndNull.Time,
		}
	}
	if expiryNull.Valid {
		inv.TicketLinkExpiry = &expiryNull.Time
	}
	return inv, nil
}
