package app

import (
	"context"
	"fmt"
	"time"

	"wanderlust_travel/internal/catalog"
	"wanderlust_travel/internal/domain"
	"wanderlust_travel/internal/pricing"
)

// BookingForm is the modal booking form. Dates are YYYY-MM-DD.
type BookingForm struct {
	Destination string `json:"destination"`
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	Guests      int    `json:"guests"`
	LocalGuide  bool   `json:"localGuide"`
}

// InlineForm is the date/guest form shown inside the chat.
type InlineForm struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Guests   int    `json:"guests"`
}

// inlineBooking is the single outstanding inline form; a newer one replaces it.
type inlineBooking struct {
	id   string
	dest domain.Destination
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := domain.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := domain.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, domain.ErrInvalidStay
	}
	return in, out, nil
}

func validGuests(n int) error {
	if n < 1 || n > MaxGuests {
		return fmt.Errorf("%w: %d", domain.ErrInvalidGuests, n)
	}
	return nil
}

// SubmitBookingForm adds a stay from the modal form. The price comes from the catalog.
func (s *Session) SubmitBookingForm(ctx context.Context, f BookingForm) ([]domain.Event, error) {
	return s.turn(func() error {
		d, ok := catalog.Lookup(f.Destination)
		if !ok {
			s.fail(fmt.Sprintf("Sorry, we don't offer trips to %q.", f.Destination))
			return domain.ErrUnknownDestination
		}
		in, out, err := parseStay(f.CheckIn, f.CheckOut)
		if err != nil {
			s.fail("Check-out date must be after check-in date!")
			return err
		}
		if err := validGuests(f.Guests); err != nil {
			s.fail(fmt.Sprintf("Please choose between 1 and %d guests.", MaxGuests))
			return err
		}
		item := domain.LineItem{
			Destination: d.Name, Price: d.Price, Image: d.Image,
			CheckIn: in, CheckOut: out, Guests: f.Guests,
		}
		if f.LocalGuide {
			item.LocalGuide = true
			item.LocalGuideFee = pricing.LocalGuideFee
			item.LocalGuideNumber = pricing.GuideNumber(s.now())
		}
		if _, err := s.cart.Add(ctx, item); err != nil {
			return err
		}
		s.message(fmt.Sprintf("Great! I've added %s to your cart! You now have %d trip(s) booked.", d.Name, s.cart.Len()))
		return nil
	})
}

// StartInlineBooking shows the inline form for a destination and returns its id.
func (s *Session) StartInlineBooking(ctx context.Context, destination string) (string, []domain.Event, error) {
	var id string
	ev, err := s.turn(func() error {
		d, ok := catalog.Lookup(destination)
		if !ok {
			s.fail(fmt.Sprintf("Sorry, we don't offer trips to %q.", destination))
			return domain.ErrUnknownDestination
		}
		id = newID()
		s.inline = &inlineBooking{id: id, dest: d}
		s.message(fmt.Sprintf("Great choice! Please provide your dates and guests below to add %s to your bookings:", d.Name))
		return nil
	})
	return id, ev, err
}

func (s *Session) ConfirmInlineBooking(ctx context.Context, id string, f InlineForm) ([]domain.Event, error) {
	return s.turn(func() error {
		if f.CheckIn == "" || f.CheckOut == "" {
			s.fail("Please select both check-in and check-out dates.")
			return domain.ErrInvalidDate
		}
		in, out, err := parseStay(f.CheckIn, f.CheckOut)
		if err != nil {
			s.fail("Check-out date must be after check-in date. Please correct the dates.")
			return err
		}
		if err := validGuests(f.Guests); err != nil {
			s.fail(fmt.Sprintf("Please choose between 1 and %d guests.", MaxGuests))
			return err
		}
		if s.inline == nil || s.inline.id != id {
			s.fail("Booking state expired. Please try again.")
			return domain.ErrStaleReference
		}
		d := s.inline.dest
		item := domain.LineItem{
			Destination: d.Name, Price: d.Price, Image: d.Image,
			CheckIn: in, CheckOut: out, Guests: f.Guests,
		}
		if _, err := s.cart.Add(ctx, item); err != nil {
			return err
		}
		s.inline = nil
		s.message(fmt.Sprintf("Done! I've added %s for %d guest(s) (%s -> %s) to your cart. You can checkout anytime from the cart.",
			d.Name, f.Guests, domain.FormatDate(in), domain.FormatDate(out)))
		return nil
	})
}

func (s *Session) CancelInlineBooking(ctx context.Context, id string) ([]domain.Event, error) {
	return s.turn(func() error {
		if s.inline == nil || s.inline.id != id {
			return domain.ErrStaleReference
		}
		s.inline = nil
		s.message("No problem, booking cancelled. Let me know if you want to try another destination!")
		return nil
	})
}

// AddPremiumLounge adds the flat-fee lounge product; a cart holds at most one.
func (s *Session) AddPremiumLounge(ctx context.Context) ([]domain.Event, error) {
	return s.turn(func() error {
		if s.cart.HasPremium() {
			s.fail("Premium Lounge Access is already in your cart!")
			return domain.ErrPremiumInCart
		}
		today := domain.Day(s.now())
		item := domain.LineItem{
			Destination:   catalog.PremiumLoungeName,
			Price:         catalog.PremiumLoungePrice,
			Image:         catalog.PremiumLoungeImage,
			CheckIn:       today,
			CheckOut:      today.AddDate(0, 0, 1),
			Guests:        1,
			PremiumLounge: true,
		}
		if _, err := s.cart.Add(ctx, item); err != nil {
			return err
		}
		s.message("Premium Lounge Access added to your cart!")
		return nil
	})
}

// AutoBook is the one-tap quick action: tomorrow for two nights, two guests.
func (s *Session) AutoBook(ctx context.Context, destination string) ([]domain.Event, error) {
	return s.turn(func() error {
		d, ok := catalog.Lookup(destination)
		if !ok {
			s.fail(fmt.Sprintf("Sorry, we don't offer trips to %q.", destination))
			return domain.ErrUnknownDestination
		}
		in := domain.Day(s.now()).AddDate(0, 0, 1)
		out := in.AddDate(0, 0, 2)
		item := domain.LineItem{Destination: d.Name, Price: d.Price, Image: d.Image, CheckIn: in, CheckOut: out, Guests: 2}
		if _, err := s.cart.Add(ctx, item); err != nil {
			return err
		}
		s.message(fmt.Sprintf("Perfect! I've automatically booked %s for you!\n\nCheck-in: %s\nCheck-out: %s\nGuests: 2\nPrice: $%s per guest, per day\n\nThe booking has been added to your cart. Ready to checkout anytime!",
			d.Name, domain.FormatDate(in), domain.FormatDate(out), money(d.Price)))
		return nil
	})
}

// RemoveFromCart drops the item at index; a stale index leaves the cart unchanged.
func (s *Session) RemoveFromCart(ctx context.Context, index int) ([]domain.Event, error) {
	return s.turn(func() error {
		if !s.cart.Remove(ctx, index) {
			s.fail("That item is no longer in your cart. Please try again.")
			return domain.ErrNotFound
		}
		return nil
	})
}
