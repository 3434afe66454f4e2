package bookings

import (
	"context"
	"fmt"
	"time"

	"quickshow/internal/shared/constants"
	"quickshow/internal/shows"
	"quickshow/pkg/cache"
	"quickshow/pkg/logger"

	"github.com/google/uuid"
)

// PaymentProvider creates a hosted checkout session for a booking. Implemented
// by the payments package; defined here so bookings stays decoupled from the
// processor SDK.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, booking *Booking, show *shows.Show) (string, error)
}

// Notifier receives booking lifecycle events. Implementations must not block
// the booking path; publish failures are logged, not returned.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *Booking)
	PaymentConfirmed(ctx context.Context, booking *Booking)
	BookingExpired(ctx context.Context, booking *Booking)
}

type Service interface {
	// CreateBooking holds the seats, creates the checkout session and
	// schedules the release check for when the hold window lapses.
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*CreateBookingResponse, error)

	// ConfirmPayment marks the booking paid. Safe to call more than once
	// for the same booking; replays are acknowledged without effect.
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error

	// ExpireBooking releases the booking's seats if it is still unpaid.
	// Paid or already-released bookings are left alone.
	ExpireBooking(ctx context.Context, bookingID uuid.UUID) error

	// ReleaseOverdue expires unpaid bookings whose hold window lapsed
	// without their queue entry ever firing. Returns how many were
	// released.
	ReleaseOverdue(ctx context.Context, limit int) (int, error)

	GetOccupiedSeats(ctx context.Context, showID uuid.UUID) ([]string, error)
	ListUserBookings(ctx context.Context, userID string) ([]Booking, error)
}

type service struct {
	repo       Repository
	payments   PaymentProvider
	scheduler  ReleaseScheduler
	notifier   Notifier
	cache      cache.Service
	holdWindow time.Duration
	logger     *logger.Logger
}

func NewService(repo Repository, payments PaymentProvider, scheduler ReleaseScheduler, notifier Notifier, cacheService cache.Service, holdWindow time.Duration) Service {
	return &service{
		repo:       repo,
		payments:   payments,
		scheduler:  scheduler,
		notifier:   notifier,
		cache:      cacheService,
		holdWindow: holdWindow,
		logger:     logger.GetDefault(),
	}
}

func (s *service) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*CreateBookingResponse, error) {
	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, fmt.Errorf("invalid show id: %w", err)
	}

	seats, err := normalizeSeats(req.Seats)
	if err != nil {
		return nil, err
	}

	booking, show, err := s.repo.ReserveSeats(ctx, userID, showID, seats)
	if err != nil {
		return nil, err
	}

	s.logger.LogBookingCreated(ctx, booking.ID.String(), showID.String(), userID, seats)

	paymentURL, err := s.payments.CreateCheckoutSession(ctx, booking, show)
	if err != nil {
		// Seats stay held; the release worker frees them if the user never
		// retries and pays.
		s.logger.WithError(err).Error("failed to create checkout session", "booking_id", booking.ID.String())
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.repo.SetPaymentLink(ctx, booking.ID, paymentURL); err != nil {
		s.logger.WithError(err).Error("failed to store payment link", "booking_id", booking.ID.String())
	}
	booking.PaymentLink = paymentURL

	if err := s.scheduler.Schedule(ctx, booking.ID, time.Now().Add(s.holdWindow)); err != nil {
		// The overdue sweep in the release worker still expires the hold;
		// a lost queue entry must not fail the booking.
		s.logger.WithError(err).Error("failed to schedule booking release", "booking_id", booking.ID.String())
	}

	s.invalidateShowCaches(ctx, showID, userID)
	s.notifier.BookingCreated(ctx, booking)

	return &CreateBookingResponse{
		BookingID:  booking.ID,
		PaymentURL: paymentURL,
	}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error {
	booking, transitioned, err := s.repo.MarkPaid(ctx, bookingID)
	if err != nil {
		return err
	}
	if !transitioned {
		return nil
	}

	s.logger.LogPaymentConfirmed(ctx, bookingID.String())
	s.invalidateShowCaches(ctx, booking.ShowID, booking.UserID)
	s.notifier.PaymentConfirmed(ctx, booking)

	return nil
}

func (s *service) ExpireBooking(ctx context.Context, bookingID uuid.UUID) error {
	released, err := s.repo.ReleaseIfUnpaid(ctx, bookingID)
	if err != nil {
		return err
	}
	if released == nil {
		// Paid, or already settled by another path. Either way there is
		// nothing to free.
		s.logger.Debug("no release needed", "booking_id", bookingID.String())
		return nil
	}

	s.logger.LogBookingExpired(ctx, released.ID.String(), released.ShowID.String(), released.BookedSeats)
	s.invalidateShowCaches(ctx, released.ShowID, released.UserID)
	s.notifier.BookingExpired(ctx, released)

	return nil
}

func (s *service) ReleaseOverdue(ctx context.Context, limit int) (int, error) {
	cutoff := time.Now().Add(-s.holdWindow)
	ids, err := s.repo.ListExpiredUnpaid(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, id := range ids {
		if err := s.ExpireBooking(ctx, id); err != nil {
			s.logger.WithError(err).Error("failed to expire overdue booking", "booking_id", id.String())
			continue
		}
		released++
	}
	return released, nil
}

func (s *service) GetOccupiedSeats(ctx context.Context, showID uuid.UUID) ([]string, error) {
	var seats []string
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_SHOW_OCCUPANCY+showID.String(), constants.TTL_SHOW_OCCUPANCY,
		func() (interface{}, error) {
			return s.repo.GetOccupiedSeats(ctx, showID)
		}, &seats)
	if err != nil {
		return nil, err
	}
	return seats, nil
}

func (s *service) ListUserBookings(ctx context.Context, userID string) ([]Booking, error) {
	var result []Booking
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_USER_BOOKINGS+userID, constants.TTL_USER_BOOKINGS,
		func() (interface{}, error) {
			return s.repo.ListByUser(ctx, userID)
		}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return result, nil
}

func (s *service) invalidateShowCaches(ctx context.Context, showID uuid.UUID, userID string) {
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_SHOW_OCCUPANCY+showID.String())
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_USER_BOOKINGS+userID)
}

// normalizeSeats rejects duplicate labels and empty labels.
func normalizeSeats(seats []string) ([]string, error) {
	seen := make(map[string]bool, len(seats))
	for _, seat := range seats {
		if seat == "" {
			return nil, fmt.Errorf("empty seat label")
		}
		if seen[seat] {
			return nil, fmt.Errorf("duplicate seat label %s", seat)
		}
		seen[seat] = true
	}
	return seats, nil
}
