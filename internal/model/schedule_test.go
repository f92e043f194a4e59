package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowContains(t *testing.T) {
	w := AvailabilityWindow{Weekday: time.Saturday, StartMinute: 8 * 60, EndMinute: 20 * 60, Active: true}

	assert.True(t, w.Contains(8*60, 20*60), "exact bounds fit")
	assert.True(t, w.Contains(9*60, 13*60))
	assert.False(t, w.Contains(7*60+59, 12*60), "starts before opening")
	assert.False(t, w.Contains(18*60, 20*60+1), "ends after closing")

	w.Active = false
	assert.False(t, w.Contains(9*60, 13*60), "inactive windows never match")
}

func TestOfferUsable(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	o := RescheduleOffer{ExpiresAt: now.Add(OfferTTL)}

	assert.True(t, o.Usable(now))
	assert.True(t, o.Usable(o.ExpiresAt), "usable up to and including the expiry instant")
	assert.False(t, o.Usable(o.ExpiresAt.Add(time.Second)))

	o.Selected = true
	assert.False(t, o.Usable(now))
}
