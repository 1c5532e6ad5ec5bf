package calendar

import (
	"bytes"
	"fmt"

	"github.com/emersion/go-ical"

	"eventinvites/internal/domain"
)

const (
	prodID = "-//eventinvites//EN"
	// uidDomain suffixes generated UIDs so they are globally unique yet
	// reproducible for the same entity.
	uidDomain = "eventinvites"

	// defaultDescription is used when an event has no additional details.
	defaultDescription = "No additional details provided."
)

type exporter struct{}

// NewExporter returns a CalendarExporter that renders iCalendar documents with
// one VEVENT each. Rendering is a pure function of its inputs: DTSTAMP is
// pinned to the entry's start time so the same inputs always produce the same
// bytes.
func NewExporter() domain.CalendarExporter {
	return &exporter{}
}

func (e *exporter) RenderEvent(event *domain.Event) ([]byte, error) {
	ve := newVEvent(fmt.Sprintf("event-%s@%s", event.ID, uidDomain), event, event.Window())
	return encode(ve)
}

func (e *exporter) RenderGuestInvite(invite *domain.Invite, event *domain.Event) ([]byte, error) {
	// The guest's reconciled RSVP window wins; fall back to the event window
	// when the guest has not chosen one.
	window := event.Window()
	if invite.RSVPStatus.Window != nil {
		window = *invite.RSVPStatus.Window
	}

	ve := newVEvent(fmt.Sprintf("invite-%s@%s", invite.ID, uidDomain), event, window)
	urlProp := ical.NewProp(ical.PropURL)
	urlProp.SetText(invite.TicketLink)
	ve.Props.Add(urlProp)
	return encode(ve)
}

func newVEvent(uid string, event *domain.Event, window domain.TimeWindow) *ical.Component {
	description := defaultDescription
	if event.AdditionalDetails != nil && *event.AdditionalDetails != "" {
		description = *event.AdditionalDetails
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, window.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, window.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, window.End.UTC())
	ve.Props.SetText(ical.PropSummary, event.Type)
	ve.Props.SetText(ical.PropDescription, description)
	ve.Props.SetText(ical.PropLocation, fmt.Sprintf("%v, %v", event.LocationLat, event.LocationLng))
	return ve
}

func encode(ve *ical.Component) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Children = append(cal.Children, ve)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
