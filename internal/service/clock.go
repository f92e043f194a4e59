package service

import "time"

// Clock abstracts "now" so expiration and advance-horizon logic is
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// UTCClock is the production clock; it always reports UTC time.
type UTCClock struct{}

// Now returns the current UTC time.
func (UTCClock) Now() time.Time { return time.Now().UTC() }
