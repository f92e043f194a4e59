package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

// Free-text length caps applied by the input guards.
const (
	maxNameLen   = 200
	maxReasonLen = 200
	maxNotesLen  = 2000
)

var (
	emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneShape = regexp.MustCompile(`^\+?[0-9()\-\s.]{7,20}$`)
)

// CreateBookingInput lists exactly the fields createBooking may touch.
// Each field is validated independently before any persistent read.
type CreateBookingInput struct {
	CaptainID           uint64
	VesselID            *uint64
	TripTypeID          *uint64
	Start               time.Time
	End                 time.Time
	PartySize           int
	GuestName           string
	GuestEmail          string
	GuestPhone          *string
	SpecialRequests     *string
	TotalPriceCents     *int64
	InternalNotes       *string
	CaptainInstructions *string
}

// UpdateBookingInput lists the fields updateBooking may touch.  Nil
// means "leave unchanged"; there is no clearing semantics through this
// command.
type UpdateBookingInput struct {
	VesselID            *uint64
	TripTypeID          *uint64
	Start               *time.Time
	End                 *time.Time
	PartySize           *int
	GuestCount          *int
	GuestName           *string
	GuestEmail          *string
	GuestPhone          *string
	SpecialRequests     *string
	InternalNotes       *string
	CaptainInstructions *string
}

// validateCreate normalizes and validates a create command.  It returns
// a VALIDATION fault naming the first failing field.  The guards run
// before any read of persistent state.
func validateCreate(in *CreateBookingInput, now time.Time) *Fault {
	if in.CaptainID == 0 {
		return Faultf(KindValidation, "captain_id is required")
	}
	if in.VesselID != nil && *in.VesselID == 0 {
		return Faultf(KindValidation, "vessel_id is malformed")
	}
	if in.TripTypeID != nil && *in.TripTypeID == 0 {
		return Faultf(KindValidation, "trip_type_id is malformed")
	}
	if f := validateRange(in.Start, in.End, now); f != nil {
		return f
	}
	if in.PartySize < 1 {
		return Faultf(KindValidation, "party_size must be a positive integer")
	}
	if in.PartySize > model.MaxPartySize {
		return Faultf(KindCapacity, "party_size exceeds the maximum of %d", model.MaxPartySize)
	}
	in.GuestName = strings.TrimSpace(in.GuestName)
	if in.GuestName == "" || len(in.GuestName) > maxNameLen {
		return Faultf(KindValidation, "guest_name is required and must not exceed %d characters", maxNameLen)
	}
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	if !emailShape.MatchString(in.GuestEmail) {
		return Faultf(KindValidation, "guest_email is malformed")
	}
	if f := trimOptional(&in.GuestPhone, maxNameLen, "guest_phone"); f != nil {
		return f
	}
	if in.GuestPhone != nil && !phoneShape.MatchString(*in.GuestPhone) {
		return Faultf(KindValidation, "guest_phone is malformed")
	}
	for _, fv := range []struct {
		p    **string
		name string
	}{
		{&in.SpecialRequests, "special_requests"},
		{&in.InternalNotes, "internal_notes"},
		{&in.CaptainInstructions, "captain_instructions"},
	} {
		if f := trimOptional(fv.p, maxNotesLen, fv.name); f != nil {
			return f
		}
	}
	if in.TotalPriceCents != nil && *in.TotalPriceCents <= 0 {
		return Faultf(KindValidation, "total_price_cents must be a positive integer")
	}
	return nil
}

// validateUpdate validates the fields present on an update command.
// Schedule changes require both endpoints so the end-after-start rule
// can be enforced without a read.
func validateUpdate(in *UpdateBookingInput) *Fault {
	if (in.Start == nil) != (in.End == nil) {
		return Faultf(KindValidation, "scheduled_start and scheduled_end must be supplied together")
	}
	if in.Start != nil && !in.End.After(*in.Start) {
		return Faultf(KindValidation, "scheduled_end must be after scheduled_start")
	}
	if in.VesselID != nil && *in.VesselID == 0 {
		return Faultf(KindValidation, "vessel_id is malformed")
	}
	if in.TripTypeID != nil && *in.TripTypeID == 0 {
		return Faultf(KindValidation, "trip_type_id is malformed")
	}
	if in.PartySize != nil {
		if *in.PartySize < 1 {
			return Faultf(KindValidation, "party_size must be a positive integer")
		}
		if *in.PartySize > model.MaxPartySize {
			return Faultf(KindCapacity, "party_size exceeds the maximum of %d", model.MaxPartySize)
		}
	}
	if in.GuestCount != nil && *in.GuestCount < 0 {
		return Faultf(KindValidation, "guest_count must not be negative")
	}
	if in.GuestName != nil {
		trimmed := strings.TrimSpace(*in.GuestName)
		if trimmed == "" || len(trimmed) > maxNameLen {
			return Faultf(KindValidation, "guest_name must not be empty or exceed %d characters", maxNameLen)
		}
		*in.GuestName = trimmed
	}
	if in.GuestEmail != nil {
		trimmed := strings.TrimSpace(*in.GuestEmail)
		if !emailShape.MatchString(trimmed) {
			return Faultf(KindValidation, "guest_email is malformed")
		}
		*in.GuestEmail = trimmed
	}
	if f := trimOptional(&in.GuestPhone, maxNameLen, "guest_phone"); f != nil {
		return f
	}
	if in.GuestPhone != nil && !phoneShape.MatchString(*in.GuestPhone) {
		return Faultf(KindValidation, "guest_phone is malformed")
	}
	for _, fv := range []struct {
		p    **string
		name string
	}{
		{&in.SpecialRequests, "special_requests"},
		{&in.InternalNotes, "internal_notes"},
		{&in.CaptainInstructions, "captain_instructions"},
	} {
		if f := trimOptional(fv.p, maxNotesLen, fv.name); f != nil {
			return f
		}
	}
	return nil
}

// validateRange enforces the shared timestamp rules for new schedules:
// both endpoints set, end strictly after start, start in the future.
func validateRange(start, end, now time.Time) *Fault {
	if start.IsZero() || end.IsZero() {
		return Faultf(KindValidation, "scheduled_start and scheduled_end are required")
	}
	if !end.After(start) {
		return Faultf(KindValidation, "scheduled_end must be after scheduled_start")
	}
	if !start.After(now) {
		return Faultf(KindValidation, "scheduled_start must be in the future")
	}
	return nil
}

// trimOptional trims an optional free-text field in place and enforces
// its length cap.  Empty strings collapse to nil.
func trimOptional(p **string, maxLen int, field string) *Fault {
	if *p == nil {
		return nil
	}
	trimmed := strings.TrimSpace(**p)
	if trimmed == "" {
		*p = nil
		return nil
	}
	if len(trimmed) > maxLen {
		return Faultf(KindValidation, "%s must not exceed %d characters", field, maxLen)
	}
	**p = trimmed
	return nil
}
