// Package service implements the booking lifecycle and availability core:
// input guards, the availability engine, the booking state machine, the
// weather-hold reschedule workflow and the payment state tracker.  Every
// command returns either its result or a single *Fault carrying one kind
// from the taxonomy below; persistence-layer failures never escape as
// anything other than KindUnknown.
package service

import (
	"errors"
	"fmt"
	"log"
)

// FaultKind enumerates the stable error kinds callers map to messages
// and HTTP statuses.
type FaultKind string

const (
	KindValidation        FaultKind = "VALIDATION"
	KindNotFound          FaultKind = "NOT_FOUND"
	KindConflict          FaultKind = "CONFLICT"
	KindCapacity          FaultKind = "CAPACITY"
	KindInvalidTransition FaultKind = "INVALID_TRANSITION"
	KindBlackout          FaultKind = "BLACKOUT"
	KindOutsideHours      FaultKind = "OUTSIDE_HOURS"
	KindHibernating       FaultKind = "HIBERNATING"
	KindUnauthorized      FaultKind = "UNAUTHORIZED"
	KindUnknown           FaultKind = "UNKNOWN"
)

// Fault is the discriminated failure result of a command.  It carries
// exactly one kind plus a human-readable message.
type Fault struct {
	Kind    FaultKind
	Message string
}

// Error satisfies the error interface.
func (f *Fault) Error() string { return string(f.Kind) + ": " + f.Message }

// Faultf builds a Fault with a formatted message.
func Faultf(kind FaultKind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the fault kind from an error.  Non-fault errors are
// classified as KindUnknown.
func KindOf(err error) FaultKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

// internalFault logs a low-level error and translates it into a
// KindUnknown fault so infrastructure details never leak to callers.
func internalFault(op string, err error) *Fault {
	log.Printf("booking-core: %s failed: %v", op, err)
	return &Fault{Kind: KindUnknown, Message: "internal error"}
}
