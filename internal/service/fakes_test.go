package service

import (
	"context"
	"time"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/queue"
	"github.com/ericfaux/dockslot-app-sub004/internal/repository"
)

// fixedClock pins time for deterministic tests.  Advance moves it.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time          { return c.t }
func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *fixedClock) AdvanceDays(days int)    { c.t = c.t.AddDate(0, 0, days) }

// memStore is an in-memory stand-in for every repository the booking
// core talks to.  Its Insert and Reschedule mirror the transactional
// overlap re-check of the MySQL layer so the conflict paths can be
// exercised without a database.
type memStore struct {
	bookings    map[uint64]*model.Booking
	nextBooking uint64
	offers      map[uint64]*model.RescheduleOffer
	nextOffer   uint64
	payments    []model.Payment
	tokens      map[string]uint64
	logs        []model.BookingLogEntry
	captains    map[uint64]*model.Captain
	vessels     map[uint64]*model.Vessel
	tripTypes   map[uint64]*model.TripType
	windows     map[uint64][]model.AvailabilityWindow
	blackouts   map[uint64]map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		bookings:  map[uint64]*model.Booking{},
		offers:    map[uint64]*model.RescheduleOffer{},
		tokens:    map[string]uint64{},
		captains:  map[uint64]*model.Captain{},
		vessels:   map[uint64]*model.Vessel{},
		tripTypes: map[uint64]*model.TripType{},
		windows:   map[uint64][]model.AvailabilityWindow{},
		blackouts: map[uint64]map[string]bool{},
	}
}

func (s *memStore) overlapping(captainID uint64, vesselID *uint64, start, end time.Time, bufferMin int, excludeID uint64) int {
	pad := time.Duration(bufferMin) * time.Minute
	lo, hi := start.Add(-pad), end.Add(pad)
	n := 0
	for _, b := range s.bookings {
		if b.ID == excludeID || !b.Status.IsActive() {
			continue
		}
		if vesselID != nil {
			if b.VesselID == nil || *b.VesselID != *vesselID {
				continue
			}
		} else if b.CaptainID != captainID {
			continue
		}
		if bufferMin > 0 {
			if !b.ScheduledEnd.Before(lo) && !b.ScheduledStart.After(hi) {
				n++
			}
		} else if lo.Before(b.ScheduledEnd) && hi.After(b.ScheduledStart) {
			n++
		}
	}
	return n
}

func (s *memStore) Insert(_ context.Context, b *model.Booking, bufferMin int) error {
	if s.overlapping(b.CaptainID, b.VesselID, b.ScheduledStart, b.ScheduledEnd, bufferMin, 0) > 0 {
		return repository.ErrOverlap
	}
	s.nextBooking++
	b.ID = s.nextBooking
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) GetByTokenHash(_ context.Context, hash string) (*model.Booking, error) {
	id, ok := s.tokens[hash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.GetByID(nil, id)
}

func (s *memStore) ListByCaptain(_ context.Context, captainID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range s.bookings {
		if b.CaptainID == captainID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, b *model.Booking) error {
	if _, ok := s.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memStore) CountOverlapping(_ context.Context, captainID uint64, vesselID *uint64, start, end time.Time, bufferMin int, excludeID uint64) (int, error) {
	return s.overlapping(captainID, vesselID, start, end, bufferMin, excludeID), nil
}

func (s *memStore) Reschedule(_ context.Context, b *model.Booking, offerID uint64, bufferMin int) error {
	offer, ok := s.offers[offerID]
	if !ok || offer.Selected {
		return repository.ErrNotFound
	}
	if b.VesselID != nil &&
		s.overlapping(b.CaptainID, b.VesselID, b.ScheduledStart, b.ScheduledEnd, bufferMin, b.ID) > 0 {
		return repository.ErrOverlap
	}
	offer.Selected = true
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memStore) WindowsForWeekday(_ context.Context, captainID uint64, weekday time.Weekday) ([]model.AvailabilityWindow, error) {
	var out []model.AvailabilityWindow
	for _, w := range s.windows[captainID] {
		if w.Weekday == weekday && w.Active {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memStore) IsBlackout(_ context.Context, captainID uint64, localDate string) (bool, error) {
	return s.blackouts[captainID][localDate], nil
}

func (s *memStore) GetCaptain(_ context.Context, id uint64) (*model.Captain, error) {
	c, ok := s.captains[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) GetVessel(_ context.Context, id uint64) (*model.Vessel, error) {
	v, ok := s.vessels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *memStore) GetTripType(_ context.Context, id uint64) (*model.TripType, error) {
	tt, ok := s.tripTypes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *tt
	return &cp, nil
}

func (s *memStore) InsertBatch(_ context.Context, offers []model.RescheduleOffer) error {
	for i := range offers {
		s.nextOffer++
		offers[i].ID = s.nextOffer
		cp := offers[i]
		s.offers[cp.ID] = &cp
	}
	return nil
}

func (s *memStore) ListByBooking(_ context.Context, bookingID uint64) ([]model.RescheduleOffer, error) {
	var out []model.RescheduleOffer
	for _, o := range s.offers {
		if o.BookingID == bookingID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *memStore) GetByIDOffer(id uint64) (*model.RescheduleOffer, bool) {
	o, ok := s.offers[id]
	return o, ok
}

func (s *memStore) insertPayment(p *model.Payment) {
	p.ID = uint64(len(s.payments) + 1)
	s.payments = append(s.payments, *p)
}

func (s *memStore) lastLog() *model.BookingLogEntry {
	if len(s.logs) == 0 {
		return nil
	}
	return &s.logs[len(s.logs)-1]
}

// offerStoreView adapts memStore to the OfferStore interface; GetByID
// clashes with the booking method name, so the view disambiguates.
type offerStoreView struct{ s *memStore }

func (v offerStoreView) InsertBatch(ctx context.Context, offers []model.RescheduleOffer) error {
	return v.s.InsertBatch(ctx, offers)
}

func (v offerStoreView) ListByBooking(ctx context.Context, bookingID uint64) ([]model.RescheduleOffer, error) {
	return v.s.ListByBooking(ctx, bookingID)
}

func (v offerStoreView) GetByID(_ context.Context, id uint64) (*model.RescheduleOffer, error) {
	o, ok := v.s.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

type paymentStoreView struct{ s *memStore }

func (v paymentStoreView) Record(_ context.Context, p *model.Payment, b *model.Booking) error {
	if _, ok := v.s.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	v.s.insertPayment(p)
	cp := *b
	v.s.bookings[b.ID] = &cp
	return nil
}

type tokenStoreView struct{ s *memStore }

func (v tokenStoreView) Insert(_ context.Context, t *model.GuestToken) error {
	v.s.tokens[t.TokenHash] = t.BookingID
	return nil
}

type auditStoreView struct{ s *memStore }

func (v auditStoreView) Insert(_ context.Context, e *model.BookingLogEntry) error {
	v.s.logs = append(v.s.logs, *e)
	return nil
}

// fakeNotifier records every notification request.
type fakeNotifier struct {
	events []queue.NotificationEvent
}

func (n *fakeNotifier) Notify(_ context.Context, ev queue.NotificationEvent) error {
	n.events = append(n.events, ev)
	return nil
}

func (n *fakeNotifier) eventNames() []string {
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Event)
	}
	return out
}

// fixture bundles a fully wired service over in-memory stores with one
// captain, one vessel and an all-week 08:00-20:00 window.
type fixture struct {
	svc      *BookingService
	store    *memStore
	notifier *fakeNotifier
	clock    *fixedClock
}

const (
	testCaptainID = uint64(1)
	testVesselID  = uint64(1)
)

// newFixture pins the clock to Monday 2026-06-01 12:00 UTC.
func newFixture() *fixture {
	clock := &fixedClock{t: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := newMemStore()
	store.captains[testCaptainID] = &model.Captain{
		ID:             testCaptainID,
		Name:           "Dawn Patrol Charters",
		TimeZone:       "UTC",
		BufferMinutes:  30,
		MaxAdvanceDays: 90,
	}
	store.vessels[testVesselID] = &model.Vessel{
		ID:        testVesselID,
		CaptainID: testCaptainID,
		Name:      "Reel Deal",
		Capacity:  6,
		IsActive:  true,
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		store.windows[testCaptainID] = append(store.windows[testCaptainID], model.AvailabilityWindow{
			CaptainID:   testCaptainID,
			Weekday:     wd,
			StartMinute: 8 * 60,
			EndMinute:   20 * 60,
			Active:      true,
		})
	}
	notifier := &fakeNotifier{}
	svc := NewBookingService(
		store, store, offerStoreView{store}, paymentStoreView{store},
		tokenStoreView{store}, auditStoreView{store}, store,
		notifier, nil, clock,
	)
	return &fixture{svc: svc, store: store, notifier: notifier, clock: clock}
}

// vid returns a pointer to the fixture vessel id.
func vid() *uint64 {
	v := testVesselID
	return &v
}

// createInput builds a valid create command on the fixture vessel for
// Saturday 2026-06-06, 09:00-13:00 UTC.
func createInput() *CreateBookingInput {
	price := int64(45000)
	return &CreateBookingInput{
		CaptainID:       testCaptainID,
		VesselID:        vid(),
		Start:           time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC),
		End:             time.Date(2026, 6, 6, 13, 0, 0, 0, time.UTC),
		PartySize:       4,
		GuestName:       "Jamie Rivera",
		GuestEmail:      "jamie@example.com",
		TotalPriceCents: &price,
	}
}

// mustCreate inserts a booking through the service and fails the test
// helper chain on error.
func (f *fixture) mustCreate(in *CreateBookingInput) *CreatedBooking {
	created, err := f.svc.Create(context.Background(), CaptainActor(testCaptainID), in)
	if err != nil {
		panic(err)
	}
	return created
}
