package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickshow/internal/shows"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSeatsTaken is returned when any requested seat is already held or
	// confirmed on the show.
	ErrSeatsTaken = errors.New("seats are not available")

	// ErrShowNotFound is returned when the show id resolves to nothing.
	ErrShowNotFound = errors.New("show not found")

	// ErrBookingNotFound is returned when the booking id resolves to nothing.
	ErrBookingNotFound = errors.New("booking not found")
)

type Repository interface {
	// ReserveSeats atomically checks availability on the show, creates the
	// booking and writes the seats into the show's occupancy map. All
	// requested seats are assigned or none are.
	ReserveSeats(ctx context.Context, userID string, showID uuid.UUID, seats []string) (*Booking, *shows.Show, error)

	// MarkPaid flips the booking to paid under a row lock. Returns the
	// booking and whether this call performed the transition; a booking
	// that is already paid reports false with no error.
	MarkPaid(ctx context.Context, bookingID uuid.UUID) (*Booking, bool, error)

	// ReleaseIfUnpaid frees the booking's seats and deletes the booking if
	// it is still unpaid. Returns the released booking, or nil when the
	// booking is paid or already gone.
	ReleaseIfUnpaid(ctx context.Context, bookingID uuid.UUID) (*Booking, error)

	// ListExpiredUnpaid returns ids of unpaid bookings created before
	// cutoff, oldest first.
	ListExpiredUnpaid(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)

	SetPaymentLink(ctx context.Context, bookingID uuid.UUID, link string) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	GetOccupiedSeats(ctx context.Context, showID uuid.UUID) ([]string, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
}

// lockForUpdate adds SELECT ... FOR UPDATE to the query so concurrent
// writers on the same row serialize at the database.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ReserveSeats(ctx context.Context, userID string, showID uuid.UUID, seats []string) (*Booking, *shows.Show, error) {
	var booking *Booking
	var show shows.Show

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the show row so concurrent requests for the same seats
		// serialize here.
		if err := lockForUpdate(tx).
			Preload("Movie").
			Where("id = ?", showID).
			First(&show).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShowNotFound
			}
			return fmt.Errorf("failed to lock show: %w", err)
		}

		if show.OccupiedSeats == nil {
			show.OccupiedSeats = shows.SeatMap{}
		}
		if taken := show.OccupiedSeats.Taken(seats); len(taken) > 0 {
			return fmt.Errorf("%w: %s", ErrSeatsTaken, strings.Join(taken, ", "))
		}

		booking = &Booking{
			ID:          uuid.New(),
			UserID:      userID,
			ShowID:      showID,
			BookedSeats: SeatList(seats),
			Amount:      show.ShowPrice * float64(len(seats)),
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		show.OccupiedSeats.Assign(seats, booking.ID)
		if err := tx.Model(&shows.Show{}).
			Where("id = ?", showID).
			Update("occupied_seats", show.OccupiedSeats).Error; err != nil {
			return fmt.Errorf("failed to update show occupancy: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return booking, &show, nil
}

func (r *repository) MarkPaid(ctx context.Context, bookingID uuid.UUID) (*Booking, bool, error) {
	var booking Booking
	transitioned := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the booking so the payment webhook and the release worker
		// cannot interleave on the same row.
		if err := lockForUpdate(tx).
			Where("id = ?", bookingID).
			First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.IsPaid {
			// Replayed webhook delivery. Nothing to do.
			return nil
		}

		if err := tx.Model(&Booking{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"is_paid":      true,
				"is_booked":    true,
				"payment_link": "",
			}).Error; err != nil {
			return fmt.Errorf("failed to mark booking paid: %w", err)
		}

		booking.IsPaid = true
		booking.IsBooked = true
		booking.PaymentLink = ""
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &booking, transitioned, nil
}

func (r *repository) ReleaseIfUnpaid(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	var released *Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking Booking
		if err := lockForUpdate(tx).
			Where("id = ?", bookingID).
			First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Already released, or never existed. Not an error for
				// the caller.
				return nil
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.IsPaid {
			return nil
		}

		// Lock the show in the same transaction before mutating occupancy.
		var show shows.Show
		if err := lockForUpdate(tx).
			Where("id = ?", booking.ShowID).
			First(&show).Error; err != nil {
			return fmt.Errorf("failed to lock show: %w", err)
		}

		if show.OccupiedSeats != nil {
			show.OccupiedSeats.Release(booking.BookedSeats)
			if err := tx.Model(&shows.Show{}).
				Where("id = ?", show.ID).
				Update("occupied_seats", show.OccupiedSeats).Error; err != nil {
				return fmt.Errorf("failed to release show seats: %w", err)
			}
		}

		if err := tx.Delete(&Booking{}, "id = ?", booking.ID).Error; err != nil {
			return fmt.Errorf("failed to delete expired booking: %w", err)
		}

		released = &booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	return released, nil
}

func (r *repository) ListExpiredUnpaid(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("is_paid = ? AND created_at < ?", false, cutoff).
		Order("created_at").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired bookings: %w", err)
	}
	return ids, nil
}

func (r *repository) SetPaymentLink(ctx context.Context, bookingID uuid.UUID, link string) error {
	return r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", bookingID).
		Update("payment_link", link).Error
}

func (r *repository) GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Where("id = ?", bookingID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetOccupiedSeats(ctx context.Context, showID uuid.UUID) ([]string, error) {
	var show shows.Show
	err := r.db.WithContext(ctx).
		Where("id = ?", showID).
		First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return show.OccupiedSeats.Labels(), nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	var result []Booking
	err := r.db.WithContext(ctx).
		Preload("Show").
		Preload("Show.Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&result).Error
	return result, err
}
