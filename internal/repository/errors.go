// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let the service layer distinguish
// failure scenarios without inspecting driver errors: ErrNotFound covers
// absent rows, and ErrOverlap reports that the transactional overlap
// check found a competing active booking at commit time.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist.  The
// service layer translates it into a NOT_FOUND fault.
var ErrNotFound = errors.New("not found")

// ErrOverlap is returned by the transactional insert and reschedule
// paths when another active booking occupies the requested range.  The
// service layer translates it into a CONFLICT fault.
var ErrOverlap = errors.New("overlapping booking")
