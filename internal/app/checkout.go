package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"wanderlust_travel/internal/catalog"
	"wanderlust_travel/internal/domain"
	"wanderlust_travel/internal/pricing"
)

const (
	orderDescription = "Wanderlust Travel Booking"
	upiPayee         = "merchant@upi"
	upiPayeeName     = "Wanderlust"
)

// EventBookingCompleted is the routing key of the completed-booking event.
const EventBookingCompleted = "booking.completed"

// Order is what the payment collaborator needs to collect the money.
type Order struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type pendingOrder struct {
	id      string
	version uint64
}

// Quote is the checkout summary shown before payment.
type Quote struct {
	domain.Aggregate
	Items      int    `json:"items"`
	UPIPayload string `json:"upiPayload"`
}

// BookingCompleted is published once per successful payment.
type BookingCompleted struct {
	Session     string            `json:"session"`
	Items       []domain.LineItem `json:"items"`
	GrandTotal  float64           `json:"grandTotal"`
	Coupon      string            `json:"coupon,omitempty"`
	CompletedAt time.Time         `json:"completedAt"`
}

func upiPayload(amount float64) string {
	q := url.Values{}
	q.Set("pa", upiPayee)
	q.Set("pn", upiPayeeName)
	q.Set("am", fmt.Sprintf("%.2f", amount))
	q.Set("cu", "INR")
	q.Set("tn", "Wanderlust Booking")
	return "upi://pay?" + q.Encode()
}

func (s *Session) Quote() (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.Len() == 0 {
		return Quote{}, domain.ErrEmptyCart
	}
	agg := s.cart.Aggregate()
	return Quote{Aggregate: agg, Items: s.cart.Len(), UPIPayload: upiPayload(agg.GrandTotal)}, nil
}

// ApplyCoupon looks the code up in the offers table. An unknown code clears any
// coupon that was applied before.
func (s *Session) ApplyCoupon(ctx context.Context, code string) ([]domain.Event, error) {
	return s.turn(func() error {
		code = strings.TrimSpace(code)
		if code == "" {
			s.fail("Enter a coupon code")
			return domain.ErrEmptyCoupon
		}
		c, ok := catalog.FindCoupon(code)
		if !ok {
			s.cart.SetCoupon(ctx, nil)
			s.fail("Invalid coupon code")
			return fmt.Errorf("%w: %s", domain.ErrInvalidCoupon, strings.ToUpper(code))
		}
		s.cart.SetCoupon(ctx, &c)
		s.message(fmt.Sprintf("Applied %s: %s", c.Code, c.Description))
		return nil
	})
}

func (s *Session) ClearCoupon(ctx context.Context) []domain.Event {
	ev, _ := s.turn(func() error {
		s.cart.SetCoupon(ctx, nil)
		return nil
	})
	return ev
}

// PaymentSucceeded commits the whole cart to history.
func (s *Session) PaymentSucceeded(ctx context.Context) ([]domain.Event, error) {
	var done *BookingCompleted
	ev, err := s.turn(func() error {
		var err error
		done, err = s.commitPayment(ctx)
		return err
	})
	s.publish(ctx, done)
	return ev, err
}

// PaymentFailed leaves the cart untouched.
func (s *Session) PaymentFailed(ctx context.Context, reason string) []domain.Event {
	ev, _ := s.turn(func() error {
		s.log.Info().Str("reason", reason).Msg("payment failed")
		s.fail("Payment failed. Please try again.")
		return nil
	})
	return ev
}

// CreateOrder prices the cart for the order/capture flow. Capturing fails if the cart
// changes in between.
func (s *Session) CreateOrder(ctx context.Context) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.Len() == 0 {
		return Order{}, domain.ErrEmptyCart
	}
	s.order = &pendingOrder{id: newID(), version: s.cart.Version()}
	return Order{
		ID:          s.order.id,
		Amount:      fmt.Sprintf("%.2f", s.cart.Aggregate().GrandTotal),
		Description: orderDescription,
	}, nil
}

func (s *Session) CaptureOrder(ctx context.Context, id string) ([]domain.Event, error) {
	var done *BookingCompleted
	ev, err := s.turn(func() error {
		if s.order == nil || s.order.id != id {
			s.fail("Payment failed. Please try again.")
			return fmt.Errorf("%w: order %s", domain.ErrStaleReference, id)
		}
		if s.order.version != s.cart.Version() {
			s.order = nil
			s.fail("Your cart changed after the order was created. Please review it and pay again.")
			return fmt.Errorf("%w: cart changed", domain.ErrStaleReference)
		}
		var err error
		done, err = s.commitPayment(ctx)
		return err
	})
	s.publish(ctx, done)
	return ev, err
}

// ConfirmManualPayment simulates the out-of-band (QR) confirmation: it waits for the
// configured delay without holding the session, then commits if the cart is unchanged.
func (s *Session) ConfirmManualPayment(ctx context.Context) ([]domain.Event, error) {
	s.mu.Lock()
	if s.cart.Len() == 0 {
		s.mu.Unlock()
		return nil, domain.ErrEmptyCart
	}
	version := s.cart.Version()
	s.mu.Unlock()

	t := time.NewTimer(s.deps.PaymentDelay)
	select {
	case <-ctx.Done():
		t.Stop()
		return nil, ctx.Err()
	case <-t.C:
	}

	var done *BookingCompleted
	ev, err := s.turn(func() error {
		if s.cart.Version() != version {
			s.fail("Your cart changed while we were verifying the payment. Please try again.")
			return fmt.Errorf("%w: cart changed", domain.ErrStaleReference)
		}
		var err error
		done, err = s.commitPayment(ctx)
		if err == nil {
			s.message("Payment received! Booking confirmed.")
		}
		return err
	})
	s.publish(ctx, done)
	return ev, err
}

// commitPayment must run under the session lock.
func (s *Session) commitPayment(ctx context.Context) (*BookingCompleted, error) {
	if s.cart.Len() == 0 {
		return nil, domain.ErrEmptyCart
	}
	now := s.now()
	items := s.cart.All()
	agg := s.cart.Aggregate()
	s.history.Commit(ctx, now, items...)
	for _, it := range items {
		s.history.RecordVisit(ctx, it.Destination, it.Image, now)
	}
	s.cart.Clear(ctx)
	s.order = nil
	s.log.Info().Int("items", len(items)).Float64("grand_total", agg.GrandTotal).Msg("payment committed")

	var b strings.Builder
	b.WriteString("Payment Successful!\n\nBooking Confirmed:\n")
	for _, it := range items {
		if it.PremiumLounge {
			fmt.Fprintf(&b, "%s\n", it.Destination)
			continue
		}
		fmt.Fprintf(&b, "%s (%s to %s) - %d guest(s)\n", it.Destination,
			domain.FormatDate(it.CheckIn), domain.FormatDate(it.CheckOut), it.Guests)
	}
	fmt.Fprintf(&b, "\nTotal Paid: $%s", pricing.FormatMoney(agg.GrandTotal))
	s.message(b.String())

	return &BookingCompleted{
		Session:     s.ID,
		Items:       items,
		GrandTotal:  agg.GrandTotal,
		Coupon:      agg.Coupon,
		CompletedAt: now.UTC(),
	}, nil
}

// publish is best effort and runs outside the session lock.
func (s *Session) publish(ctx context.Context, done *BookingCompleted) {
	if done == nil || s.deps.Publisher == nil {
		return
	}
	if err := s.deps.Publisher.PublishJSON(ctx, EventBookingCompleted, done); err != nil {
		s.log.Warn().Err(err).Msg("booking.completed publish failed")
	}
}
