package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wanderlust_travel/internal/domain"
	"wanderlust_travel/internal/pricing"
)

const MaxGuests = 10

// bookingStep is the closed set of conversation states. Each variant carries only the
// data that is valid at that step.
type bookingStep interface {
	step() domain.Step
}

type awaitingCheckIn struct{}

type awaitingCheckOut struct {
	checkIn time.Time
}

type awaitingGuests struct {
	checkIn, checkOut time.Time
}

type awaitingConfirmation struct {
	checkIn, checkOut time.Time
	guests, nights    int
	total             float64
}

func (awaitingCheckIn) step() domain.Step      { return domain.StepAwaitingCheckIn }
func (awaitingCheckOut) step() domain.Step     { return domain.StepAwaitingCheckOut }
func (awaitingGuests) step() domain.Step       { return domain.StepAwaitingGuestCount }
func (awaitingConfirmation) step() domain.Step { return domain.StepAwaitingConfirmation }

// Conversation is the multi-turn booking flow for one destination. Price is the
// catalog price at the moment the conversation started.
type Conversation struct {
	ID          string
	Destination string
	Price       float64
	Image       string
	StartedAt   time.Time

	state bookingStep
}

// ConversationView is a read-only snapshot for adapters.
type ConversationView struct {
	ID          string      `json:"id"`
	Destination string      `json:"destination"`
	Price       float64     `json:"price"`
	Step        domain.Step `json:"step"`
	CheckIn     *time.Time  `json:"checkIn,omitempty"`
	CheckOut    *time.Time  `json:"checkOut,omitempty"`
	Guests      int         `json:"guests,omitempty"`
	Nights      int         `json:"nights,omitempty"`
	Total       float64     `json:"total,omitempty"`
}

type turnOutcome int

const (
	turnReprompt turnOutcome = iota
	turnAdvanced
	turnConfirmed
	turnCancelled
)

func (o turnOutcome) String() string {
	switch o {
	case turnAdvanced:
		return "advanced"
	case turnConfirmed:
		return "confirmed"
	case turnCancelled:
		return "cancelled"
	}
	return "reprompt"
}

// turnResult is what one Advance produced. Item is set only on confirmation.
type turnResult struct {
	Outcome turnOutcome
	Text    string
	Step    domain.Step
	Item    *domain.LineItem
	Nights  int
	Total   float64
}

func newConversation(d domain.Destination, now time.Time) *Conversation {
	return &Conversation{
		ID:          newID(),
		Destination: d.Name,
		Price:       d.Price,
		Image:       d.Image,
		StartedAt:   now,
		state:       awaitingCheckIn{},
	}
}

func (c *Conversation) Step() domain.Step { return c.state.step() }

func (c *Conversation) Opening() string {
	return fmt.Sprintf("Great! Let's book %s for you!\n\nWhat's your check-in date? (Please type in format: YYYY-MM-DD, e.g., 2025-11-15)", c.Destination)
}

func (c *Conversation) View() ConversationView {
	v := ConversationView{ID: c.ID, Destination: c.Destination, Price: c.Price, Step: c.state.step()}
	switch st := c.state.(type) {
	case awaitingCheckOut:
		v.CheckIn = &st.checkIn
	case awaitingGuests:
		v.CheckIn, v.CheckOut = &st.checkIn, &st.checkOut
	case awaitingConfirmation:
		v.CheckIn, v.CheckOut = &st.checkIn, &st.checkOut
		v.Guests, v.Nights, v.Total = st.guests, st.nights, st.total
	}
	return v
}

// Advance consumes one user message. A rejected input leaves the state untouched.
func (c *Conversation) Advance(input string, today time.Time) turnResult {
	in := strings.TrimSpace(input)
	switch st := c.state.(type) {
	case awaitingCheckIn:
		d, err := domain.ParseDate(in)
		if err != nil {
			return c.reprompt("Please enter a valid date in format YYYY-MM-DD (e.g., 2025-11-15)")
		}
		if d.Before(domain.Day(today)) {
			return c.reprompt("Check-in date must be today or later. Please choose another date.")
		}
		c.state = awaitingCheckOut{checkIn: d}
		return c.advanced(fmt.Sprintf("Perfect! Check-in on %s.\n\nNow, what's your check-out date? (Format: YYYY-MM-DD)", domain.FormatDate(d)))

	case awaitingCheckOut:
		d, err := domain.ParseDate(in)
		if err != nil {
			return c.reprompt("Please enter a valid date in format YYYY-MM-DD (e.g., 2025-11-18)")
		}
		if !d.After(st.checkIn) {
			return c.reprompt("Check-out date must be after check-in date. Please try again.")
		}
		c.state = awaitingGuests{checkIn: st.checkIn, checkOut: d}
		return c.advanced(fmt.Sprintf("Great! Check-out on %s.\n\nHow many guests? (Enter a number, e.g., 2)", domain.FormatDate(d)))

	case awaitingGuests:
		n, err := strconv.Atoi(in)
		if err != nil || n < 1 || n > MaxGuests {
			return c.reprompt(fmt.Sprintf("Please enter a valid number of guests (1-%d).", MaxGuests))
		}
		nights, err := pricing.Nights(st.checkIn, st.checkOut)
		if err != nil {
			// unreachable: checkOut > checkIn was enforced on the previous step
			return c.reprompt("Check-out date must be after check-in date. Please try again.")
		}
		draft := domain.LineItem{Price: c.Price, Guests: n, CheckIn: st.checkIn, CheckOut: st.checkOut}
		next := awaitingConfirmation{checkIn: st.checkIn, checkOut: st.checkOut, guests: n, nights: nights, total: pricing.LineTotal(draft)}
		c.state = next
		return c.advanced(fmt.Sprintf(
			"Let me confirm your booking:\n\n%s\nCheck-in: %s\nCheck-out: %s\nGuests: %d\nNights: %d\nTotal: $%s\n\nType \"confirm\" to proceed or \"cancel\" to start over.",
			c.Destination, domain.FormatDate(next.checkIn), domain.FormatDate(next.checkOut), n, nights, pricing.FormatMoney(next.total)))

	case awaitingConfirmation:
		switch strings.ToLower(in) {
		case "confirm":
			item := domain.LineItem{
				Destination: c.Destination,
				Price:       c.Price,
				Image:       c.Image,
				CheckIn:     st.checkIn,
				CheckOut:    st.checkOut,
				Guests:      st.guests,
			}
			return turnResult{
				Outcome: turnConfirmed,
				Text:    confirmedSummary(item, st.nights, st.total),
				Item:    &item,
				Nights:  st.nights,
				Total:   st.total,
			}
		case "cancel":
			return turnResult{Outcome: turnCancelled, Text: "Booking cancelled. Let me know if you'd like to try again!"}
		}
		return c.reprompt(`Please type "confirm" to complete the booking or "cancel" to start over.`)
	}
	panic(fmt.Sprintf("app: unhandled booking step %T", c.state))
}

func (c *Conversation) reprompt(text string) turnResult {
	return turnResult{Outcome: turnReprompt, Text: text, Step: c.state.step()}
}

func (c *Conversation) advanced(text string) turnResult {
	return turnResult{Outcome: turnAdvanced, Text: text, Step: c.state.step()}
}

func confirmedSummary(item domain.LineItem, nights int, total float64) string {
	return fmt.Sprintf("Booking confirmed! I've added this to your cart.\n\n%s\n%s -> %s (%s)\n%s\nTotal: $%s\n\nReady to checkout anytime from your cart!",
		item.Destination, domain.FormatDate(item.CheckIn), domain.FormatDate(item.CheckOut),
		plural(nights, "night"), plural(item.Guests, "guest"), pricing.FormatMoney(total))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
