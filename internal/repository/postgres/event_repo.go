package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventinvites/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (host_id, type, start_time, end_time, location_lat, location_lng, additional_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.HostID, e.Type, e.StartTime, e.EndTime, e.LocationLat, e.LocationLng, e.AdditionalDetails,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, host_id, type, start_time, end_time, location_lat, location_lng, additional_details
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var detailsNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.HostID, &e.Type, &e.StartTime, &e.EndTime, &e.LocationLat, &e.LocationLng, &detailsNull,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if detailsNull.Valid {
		e.AdditionalDetails = &detailsNull.String
	}
	return e, nil
}

func (r *eventRepository) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	query := `
		SELECT id, host_id, type, start_time, end_time, location_lat, location_lng, additional_details
		FROM events
		WHERE host_id = $1
		ORDER BY start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var detailsNull sql.NullString
		if err := rows.Scan(
			&e.ID, &e.HostID, &e.Type, &e.StartTime, &e.EndTime, &e.LocationLat, &e.LocationLng, &detailsNull,
		); err != nil {
			return nil, err
		}
		if detailsNull.Valid {
			e.AdditionalDetails = &detailsNull.String
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
