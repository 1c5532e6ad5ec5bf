package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventinvites/internal/domain"
)

type inviteService struct {
	inviteRepo     domain.InviteRepository
	eventRepo      domain.EventRepository
	minter         domain.TicketMinter
	contextTimeout time.Duration
	now            func() time.Time
}

// NewInviteService creates an InviteService. Ticket links and QR codes are
// minted here, at construction time, never in a persistence hook.
func NewInviteService(
	inviteRepo domain.InviteRepository,
	eventRepo domain.EventRepository,
	minter domain.TicketMinter,
	timeout time.Duration,
) domain.InviteService {
	return &inviteService{
		inviteRepo:     inviteRepo,
		eventRepo:      eventRepo,
		minter:         minter,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *inviteService) CreateIndividual(ctx context.Context, eventID string, details domain.InviteeDetails, ticketLinkExpiry time.Time) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := s.now()
	if !ticketLinkExpiry.After(now) || !ticketLinkExpiry.Before(event.StartTime) {
		return nil, domain.ErrInvalidExpiry
	}

	invite, err := s.newInvite(event.ID, domain.InviteKindIndividual, nil, details)
	if err != nil {
		return nil, err
	}
	expiry := ticketLinkExpiry.UTC()
	invite.TicketLinkExpiry = &expiry

	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}
	return invite, nil
}

func (s *inviteService) CreateBulk(ctx context.Context, eventID string, drafts []domain.InviteDraft) ([]*domain.Invite, []domain.RowError, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// One lookup for the whole batch; every draft targets the same event.
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}

	var invites []*domain.Invite
	var rowErrs []domain.RowError
	for i, draft := range drafts {
		guests := draft.GuestsAllowed
		invite, err := s.newInvite(event.ID, domain.InviteKindBulk, &guests, draft.InviteeDetails)
		if err != nil {
			rowErrs = append(rowErrs, domain.RowError{Index: i, Message: err.Error()})
			continue
		}
		if err := s.inviteRepo.Create(ctx, invite); err != nil {
			rowErrs = append(rowErrs, domain.RowError{Index: i, Message: fmt.Sprintf("create invite: %v", err)})
			continue
		}
		invites = append(invites, invite)
	}
	return invites, rowErrs, nil
}

func (s *inviteService) SubmitRSVP(ctx context.Context, inviteID string, spec domain.AttendanceSpec) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, invite.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	window, err := s.candidateWindow(event, spec)
	if err != nil {
		return nil, err
	}
	if !event.Window().Contains(window) {
		return nil, domain.ErrWindowOutOfRange
	}

	// Overwrite atomically: a repeated RSVP replaces the prior window
	// (last-write-wins, no decline transition).
	status := domain.RSVPStatus{Attending: true, Window: &window}
	updated, err := s.inviteRepo.UpdateRSVP(ctx, invite.ID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update rsvp: %w", err)
	}
	return updated, nil
}

// candidateWindow computes the guest's requested window. Full maps to the
// event window verbatim; otherwise a start plus exactly one of duration or
// end is required.
func (s *inviteService) candidateWindow(event *domain.Event, spec domain.AttendanceSpec) (domain.TimeWindow, error) {
	if spec.Full {
		return event.Window(), nil
	}
	if spec.StartTime == nil {
		return domain.TimeWindow{}, domain.ErrAmbiguousWindow
	}
	return domain.WindowFromSpec(spec.StartTime.UTC(), spec.DurationHours, utcOrNil(spec.EndTime))
}

func (s *inviteService) GetByID(ctx context.Context, inviteID string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return invite, nil
}

func (s *inviteService) ListByEventID(ctx context.Context, eventID, hostID string) ([]*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, domain.ErrForbidden
	}

	invites, err := s.inviteRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	if invites == nil {
		invites = []*domain.Invite{}
	}
	return invites, nil
}

// newInvite assembles an invite with a freshly minted ticket identity.
func (s *inviteService) newInvite(eventID string, kind domain.InviteKind, guestsAllowed *int, details domain.InviteeDetails) (*domain.Invite, error) {
	link, err := s.minter.Mint()
	if err != nil {
		return nil, fmt.Errorf("mint ticket link: %w", err)
	}
	qr, err := s.minter.EncodeQR(link)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return &domain.Invite{
		EventID:        eventID,
		Kind:           kind,
		GuestsAllowed:  guestsAllowed,
		InviteeDetails: details,
		TicketLink:     link,
		QRCode:         qr,
	}, nil
}
