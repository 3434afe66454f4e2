package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"quickshow/internal/bookings"
	"quickshow/internal/shared/config"
	"quickshow/internal/shows"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// ErrSessionNotFound is returned when no checkout session matches a payment
// intent.
var ErrSessionNotFound = errors.New("checkout session not found")

// Stripe refuses sessions expiring sooner than 30 minutes out, so the
// session outlives the seat hold. A session paid after the hold lapsed
// targets a deleted booking and the webhook handler ignores it.
const sessionLifetime = 30 * time.Minute

const metadataBookingID = "bookingId"

// SessionLookup resolves the booking a completed payment belongs to.
type SessionLookup interface {
	BookingIDForPaymentIntent(ctx context.Context, paymentIntentID string) (uuid.UUID, error)
}

// StripeClient creates hosted checkout sessions and resolves completed
// payments back to bookings. Implements bookings.PaymentProvider and
// SessionLookup.
type StripeClient struct {
	api *client.API
	cfg config.StripeConfig
}

func NewStripeClient(cfg config.StripeConfig) *StripeClient {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeClient{api: api, cfg: cfg}
}

// checkoutProductName labels the checkout line item with the movie when the
// show carries its metadata.
func checkoutProductName(show *shows.Show) string {
	if show.Movie != nil {
		return show.Movie.Title + " Tickets"
	}
	return "Movie tickets"
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, booking *bookings.Booking, show *shows.Show) (string, error) {
	name := checkoutProductName(show)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(c.cfg.SuccessURL),
		CancelURL:  stripe.String(c.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(c.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
					UnitAmount: stripe.Int64(int64(math.Round(booking.Amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		ExpiresAt: stripe.Int64(time.Now().Add(sessionLifetime).Unix()),
	}
	params.Context = ctx
	params.AddMetadata(metadataBookingID, booking.ID.String())

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, nil
}

func (c *StripeClient) BookingIDForPaymentIntent(ctx context.Context, paymentIntentID string) (uuid.UUID, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx

	iter := c.api.CheckoutSessions.List(params)
	for iter.Next() {
		sess := iter.CheckoutSession()
		raw, ok := sess.Metadata[metadataBookingID]
		if !ok {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("malformed %s metadata %q: %w", metadataBookingID, raw, err)
		}
		return id, nil
	}
	if err := iter.Err(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to list checkout sessions: %w", err)
	}

	return uuid.Nil, ErrSessionNotFound
}
