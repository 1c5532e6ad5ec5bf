package services

import (
	"fmt"
	"strconv"
	"strings"

	"eventinvites/internal/domain"
)

// Recognized column names in uploaded guest tables. Unrecognized columns are
// ignored; missing ones leave the detail absent.
const (
	colGuests = "number_of_guests"
	colName   = "name"
	colEmail  = "email"
	colPhone  = "phone"
)

// ReconcileRows converts raw uploaded rows into bulk invite drafts.
//
// Rows with a missing or empty guest-count column are returned as defective,
// never silently defaulted: defaultMissingToOne is the caller's explicit
// confirmation (from a resubmit) to map those rows to a single guest. A
// guest count that is present but unparsable or non-positive is a row-scoped
// error; the rest of the batch continues.
func ReconcileRows(rows []domain.RawGuestRow, defaultMissingToOne bool) domain.ReconcileResult {
	result := domain.ReconcileResult{}

	for i, row := range rows {
		raw := strings.TrimSpace(row[colGuests])

		guests := 0
		switch {
		case raw == "" && defaultMissingToOne:
			guests = 1
		case raw == "":
			result.Defective = append(result.Defective, row)
			continue
		default:
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				result.RowErrors = append(result.RowErrors, domain.RowError{
					Row:     row,
					Index:   i,
					Message: fmt.Sprintf("%s must be a positive integer, got %q", colGuests, raw),
				})
				continue
			}
			guests = n
		}

		result.Drafts = append(result.Drafts, domain.InviteDraft{
			GuestsAllowed:  guests,
			InviteeDetails: detailsFromRow(row),
		})
	}

	return result
}

// detailsFromRow maps recognized columns into invitee details. The phone
// column feeds the WhatsApp number, matching how uploads are produced.
func detailsFromRow(row domain.RawGuestRow) domain.InviteeDetails {
	details := domain.InviteeDetails{}
	if v := strings.TrimSpace(row[colName]); v != "" {
		details.Name = &v
	}
	if v := strings.TrimSpace(row[colEmail]); v != "" {
		details.Email = &v
	}
	if v := strings.TrimSpace(row[colPhone]); v != "" {
		details.WhatsAppNumber = &v
	}
	return details
}
