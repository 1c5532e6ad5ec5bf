package domain

import (
	"context"
	"time"
)

// Event represents a hosted event. Times are stored in UTC; EndTime is always
// after StartTime.
// swagger:model Event
type Event struct {
	ID                string    `json:"id"`
	HostID            string    `json:"host_id"`
	Type              string    `json:"type"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	LocationLat       float64   `json:"location_lat"`
	LocationLng       float64   `json:"location_lng"`
	AdditionalDetails *string   `json:"additional_details,omitempty"`
}

// NewEvent returns a new Event spanning the given window. ID is set by the
// repository on create.
func NewEvent(hostID, eventType string, window TimeWindow, lat, lng float64, additionalDetails *string) *Event {
	return &Event{
		HostID:            hostID,
		Type:              eventType,
		StartTime:         window.Start,
		EndTime:           window.End,
		LocationLat:       lat,
		LocationLng:       lng,
		AdditionalDetails: additionalDetails,
	}
}

// Window returns the event's time window.
func (e *Event) Window() TimeWindow {
	return TimeWindow{Start: e.StartTime, End: e.EndTime}
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByHostID(ctx context.Context, hostID string) ([]*Event, error)
}

// EventService defines host-facing event operations.
type EventService interface {
	// CreateEvent validates the window spec (exactly one of durationHours or
	// endTime) and that the event starts in the future, then persists the event.
	CreateEvent(ctx context.Context, hostID, eventType string, startTime time.Time, durationHours *float64, endTime *time.Time, lat, lng float64, additionalDetails *string) (*Event, error)
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	ListEventsByHost(ctx context.Context, hostID string) ([]*Event, error)
}
