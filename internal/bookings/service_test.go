package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"quickshow/internal/movies"
	"quickshow/internal/shows"

	"github.com/google/uuid"
)

// memRepo reimplements the repository contract over in-memory maps so the
// service's orchestration can be exercised without Postgres.
type memRepo struct {
	shows    map[uuid.UUID]*shows.Show
	bookings map[uuid.UUID]*Booking
}

func newMemRepo() *memRepo {
	return &memRepo{
		shows:    make(map[uuid.UUID]*shows.Show),
		bookings: make(map[uuid.UUID]*Booking),
	}
}

func (m *memRepo) addShow(price float64) *shows.Show {
	show := &shows.Show{
		ID:            uuid.New(),
		MovieID:       "324544",
		ShowDateTime:  time.Now().Add(24 * time.Hour),
		ShowPrice:     price,
		OccupiedSeats: shows.SeatMap{},
		Movie:         &movies.Movie{ID: "324544", Title: "In the Lost Lands"},
	}
	m.shows[show.ID] = show
	return show
}

func (m *memRepo) ReserveSeats(ctx context.Context, userID string, showID uuid.UUID, seats []string) (*Booking, *shows.Show, error) {
	show, ok := m.shows[showID]
	if !ok {
		return nil, nil, ErrShowNotFound
	}
	if taken := show.OccupiedSeats.Taken(seats); len(taken) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrSeatsTaken, strings.Join(taken, ", "))
	}
	booking := &Booking{
		ID:          uuid.New(),
		UserID:      userID,
		ShowID:      showID,
		BookedSeats: SeatList(seats),
		Amount:      show.ShowPrice * float64(len(seats)),
		CreatedAt:   time.Now(),
	}
	m.bookings[booking.ID] = booking
	show.OccupiedSeats.Assign(seats, booking.ID)
	return booking, show, nil
}

func (m *memRepo) MarkPaid(ctx context.Context, bookingID uuid.UUID) (*Booking, bool, error) {
	booking, ok := m.bookings[bookingID]
	if !ok {
		return nil, false, ErrBookingNotFound
	}
	if booking.IsPaid {
		return booking, false, nil
	}
	booking.IsPaid = true
	booking.IsBooked = true
	booking.PaymentLink = ""
	return booking, true, nil
}

func (m *memRepo) ReleaseIfUnpaid(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	booking, ok := m.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	if booking.IsPaid {
		return nil, nil
	}
	if show, ok := m.shows[booking.ShowID]; ok {
		show.OccupiedSeats.Release(booking.BookedSeats)
	}
	delete(m.bookings, bookingID)
	return booking, nil
}

func (m *memRepo) ListExpiredUnpaid(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, b := range m.bookings {
		if len(ids) == limit {
			break
		}
		if !b.IsPaid && b.CreatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memRepo) SetPaymentLink(ctx context.Context, bookingID uuid.UUID, link string) error {
	if booking, ok := m.bookings[bookingID]; ok {
		booking.PaymentLink = link
	}
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	booking, ok := m.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (m *memRepo) GetOccupiedSeats(ctx context.Context, showID uuid.UUID) ([]string, error) {
	show, ok := m.shows[showID]
	if !ok {
		return nil, ErrShowNotFound
	}
	return show.OccupiedSeats.Labels(), nil
}

func (m *memRepo) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	var result []Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, nil
}

type fakePayments struct {
	url       string
	err       error
	seen      []uuid.UUID
	seenShows []*shows.Show
}

func (f *fakePayments) CreateCheckoutSession(ctx context.Context, booking *Booking, show *shows.Show) (string, error) {
	f.seen = append(f.seen, booking.ID)
	f.seenShows = append(f.seenShows, show)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeScheduler struct {
	scheduled map[uuid.UUID]time.Time
	err       error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: make(map[uuid.UUID]time.Time)}
}

func (f *fakeScheduler) Schedule(ctx context.Context, bookingID uuid.UUID, due time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.scheduled[bookingID] = due
	return nil
}

func (f *fakeScheduler) ClaimDue(ctx context.Context, now time.Time, limit int64) ([]uuid.UUID, error) {
	var due []uuid.UUID
	for id, t := range f.scheduled {
		if !t.After(now) {
			due = append(due, id)
			delete(f.scheduled, id)
		}
	}
	return due, nil
}

type fakeNotifier struct {
	created   int
	confirmed int
	expired   int
}

func (f *fakeNotifier) BookingCreated(ctx context.Context, booking *Booking)   { f.created++ }
func (f *fakeNotifier) PaymentConfirmed(ctx context.Context, booking *Booking) { f.confirmed++ }
func (f *fakeNotifier) BookingExpired(ctx context.Context, booking *Booking)   { f.expired++ }

// passthroughCache skips Redis and always runs the fetcher.
type passthroughCache struct{}

func (passthroughCache) Get(ctx context.Context, key string, dest interface{}) error { return nil }
func (passthroughCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (passthroughCache) Delete(ctx context.Context, key string) error        { return nil }
func (passthroughCache) DeletePattern(ctx context.Context, key string) error { return nil }
func (passthroughCache) Ping(ctx context.Context) error                      { return nil }
func (passthroughCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	value, err := fetcher()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func newTestService(repo *memRepo, payments *fakePayments, scheduler *fakeScheduler, notifier *fakeNotifier) Service {
	return NewService(repo, payments, scheduler, notifier, passthroughCache{}, 10*time.Minute)
}

func TestCreateBookingHoldsSeatsAndReturnsLink(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(50)
	payments := &fakePayments{url: "https://checkout.example/session/cs_123"}
	scheduler := newFakeScheduler()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, payments, scheduler, notifier)

	result, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"A1", "A2"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if result.PaymentURL != payments.url {
		t.Errorf("payment url = %q, want %q", result.PaymentURL, payments.url)
	}

	booking := repo.bookings[result.BookingID]
	if booking == nil {
		t.Fatal("booking not persisted")
	}
	if booking.Amount != 100 {
		t.Errorf("amount = %v, want 100", booking.Amount)
	}
	if booking.IsPaid {
		t.Error("new booking must start unpaid")
	}
	if booking.PaymentLink != payments.url {
		t.Errorf("payment link not stored on booking")
	}

	for _, seat := range []string{"A1", "A2"} {
		if show.OccupiedSeats[seat] != booking.ID {
			t.Errorf("seat %s not held by booking", seat)
		}
	}

	// The checkout session names the movie, so the show handed to the
	// payment provider must carry its metadata.
	if len(payments.seenShows) != 1 || payments.seenShows[0].Movie == nil {
		t.Error("checkout session created without movie metadata")
	}

	due, ok := scheduler.scheduled[booking.ID]
	if !ok {
		t.Fatal("release check not scheduled")
	}
	if remaining := time.Until(due); remaining < 9*time.Minute || remaining > 11*time.Minute {
		t.Errorf("release due in %v, want about 10m", remaining)
	}

	if notifier.created != 1 {
		t.Errorf("created notifications = %d, want 1", notifier.created)
	}
}

func TestCreateBookingRejectsTakenSeats(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(50)
	svc := newTestService(repo, &fakePayments{url: "https://checkout.example/a"}, newFakeScheduler(), &fakeNotifier{})

	_, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"B1", "B2"},
	})
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// Overlap on B2 only; the whole request must fail and hold nothing.
	_, err = svc.CreateBooking(context.Background(), "user_2", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"B2", "B3"},
	})
	if !errors.Is(err, ErrSeatsTaken) {
		t.Fatalf("expected ErrSeatsTaken, got %v", err)
	}
	if _, held := show.OccupiedSeats["B3"]; held {
		t.Error("failed request must not hold any seat")
	}
}

func TestCreateBookingRejectsDuplicateSeats(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(50)
	svc := newTestService(repo, &fakePayments{url: "https://checkout.example/a"}, newFakeScheduler(), &fakeNotifier{})

	_, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"C1", "C1"},
	})
	if err == nil {
		t.Fatal("expected error for duplicate seats")
	}
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(40)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakePayments{url: "https://checkout.example/a"}, newFakeScheduler(), notifier)

	result, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"D4"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if err := svc.ConfirmPayment(context.Background(), result.BookingID); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	// Replayed webhook delivery.
	if err := svc.ConfirmPayment(context.Background(), result.BookingID); err != nil {
		t.Fatalf("replayed ConfirmPayment: %v", err)
	}

	booking := repo.bookings[result.BookingID]
	if !booking.IsPaid || !booking.IsBooked {
		t.Error("booking not marked paid and booked")
	}
	if booking.PaymentLink != "" {
		t.Error("payment link must be cleared once paid")
	}
	if notifier.confirmed != 1 {
		t.Errorf("confirmed notifications = %d, want 1", notifier.confirmed)
	}
}

func TestExpireBookingReleasesUnpaidSeats(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(40)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakePayments{url: "https://checkout.example/a"}, newFakeScheduler(), notifier)

	result, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"E1", "E2"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if err := svc.ExpireBooking(context.Background(), result.BookingID); err != nil {
		t.Fatalf("ExpireBooking: %v", err)
	}

	if len(show.OccupiedSeats) != 0 {
		t.Errorf("seats still held after expiry: %v", show.OccupiedSeats.Labels())
	}
	if _, exists := repo.bookings[result.BookingID]; exists {
		t.Error("expired booking must be deleted")
	}
	if notifier.expired != 1 {
		t.Errorf("expired notifications = %d, want 1", notifier.expired)
	}
}

func TestExpireBookingLeavesPaidBookingsAlone(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(40)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakePayments{url: "https://checkout.example/a"}, newFakeScheduler(), notifier)

	result, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"F1"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if err := svc.ConfirmPayment(context.Background(), result.BookingID); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if err := svc.ExpireBooking(context.Background(), result.BookingID); err != nil {
		t.Fatalf("ExpireBooking: %v", err)
	}

	if _, held := show.OccupiedSeats["F1"]; !held {
		t.Error("paid booking's seat must stay held")
	}
	if _, exists := repo.bookings[result.BookingID]; !exists {
		t.Error("paid booking must not be deleted")
	}
	if notifier.expired != 0 {
		t.Errorf("expired notifications = %d, want 0", notifier.expired)
	}
}

func TestExpireBookingIgnoresMissingBooking(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &fakePayments{}, newFakeScheduler(), &fakeNotifier{})

	// A member can outlive its booking when the webhook and the worker
	// race; the worker must treat that as done.
	if err := svc.ExpireBooking(context.Background(), uuid.New()); err != nil {
		t.Fatalf("ExpireBooking on missing booking: %v", err)
	}
}

func TestCreateBookingSurfacesCheckoutFailure(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(40)
	payments := &fakePayments{err: errors.New("stripe unavailable")}
	svc := newTestService(repo, payments, newFakeScheduler(), &fakeNotifier{})

	_, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"G1"},
	})
	if err == nil {
		t.Fatal("expected checkout failure to surface")
	}
	// The hold stays; the release worker cleans it up later.
	if _, held := show.OccupiedSeats["G1"]; !held {
		t.Error("seat hold must survive a checkout failure")
	}
}

func TestReleaseOverdueFreesUnscheduledHolds(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(40)
	scheduler := newFakeScheduler()
	scheduler.err = errors.New("redis unavailable")
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakePayments{url: "https://checkout.example/a"}, scheduler, notifier)

	// Scheduling fails, so the hold never reaches the due queue.
	result, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"J1"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if len(scheduler.scheduled) != 0 {
		t.Fatal("hold unexpectedly queued")
	}

	repo.bookings[result.BookingID].CreatedAt = time.Now().Add(-11 * time.Minute)

	released, err := svc.ReleaseOverdue(context.Background(), 100)
	if err != nil {
		t.Fatalf("ReleaseOverdue: %v", err)
	}
	if released != 1 {
		t.Fatalf("released = %d, want 1", released)
	}
	if _, held := show.OccupiedSeats["J1"]; held {
		t.Error("overdue hold must be freed by the sweep")
	}
	if _, exists := repo.bookings[result.BookingID]; exists {
		t.Error("overdue booking must be deleted")
	}
}

func TestReleaseOverdueSkipsPaidAndFreshHolds(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(40)
	svc := newTestService(repo, &fakePayments{url: "https://checkout.example/a"}, newFakeScheduler(), &fakeNotifier{})

	paid, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"K1"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := svc.ConfirmPayment(context.Background(), paid.BookingID); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	repo.bookings[paid.BookingID].CreatedAt = time.Now().Add(-time.Hour)

	fresh, err := svc.CreateBooking(context.Background(), "user_2", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"K2"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	released, err := svc.ReleaseOverdue(context.Background(), 100)
	if err != nil {
		t.Fatalf("ReleaseOverdue: %v", err)
	}
	if released != 0 {
		t.Fatalf("released = %d, want 0", released)
	}
	if _, exists := repo.bookings[paid.BookingID]; !exists {
		t.Error("paid booking must survive the sweep")
	}
	if _, exists := repo.bookings[fresh.BookingID]; !exists {
		t.Error("hold inside the window must survive the sweep")
	}
}

func TestGetOccupiedSeats(t *testing.T) {
	repo := newMemRepo()
	show := repo.addShow(40)
	svc := newTestService(repo, &fakePayments{url: "https://checkout.example/a"}, newFakeScheduler(), &fakeNotifier{})

	_, err := svc.CreateBooking(context.Background(), "user_1", CreateBookingRequest{
		ShowID: show.ID.String(),
		Seats:  []string{"H1", "H2"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	seats, err := svc.GetOccupiedSeats(context.Background(), show.ID)
	if err != nil {
		t.Fatalf("GetOccupiedSeats: %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("occupied seats = %v, want 2 labels", seats)
	}
}
