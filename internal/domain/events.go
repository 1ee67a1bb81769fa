package domain

// EventKind tells the presentation layer how to render an Event.
type EventKind string

const (
	EventMessage EventKind = "message"
	EventCart    EventKind = "cart"
	EventPrompt  EventKind = "prompt"
	EventError   EventKind = "error"
)

// Step is the presentation name of a conversation step.
type Step string

const (
	StepAwaitingCheckIn      Step = "awaiting_check_in"
	StepAwaitingCheckOut     Step = "awaiting_check_out"
	StepAwaitingGuestCount   Step = "awaiting_guest_count"
	StepAwaitingConfirmation Step = "awaiting_confirmation"
)

type Event struct {
	Kind EventKind `json:"kind"`
	Text string    `json:"text,omitempty"`
	Step Step      `json:"step,omitempty"`
	Cart *CartView `json:"cart,omitempty"`
}

// Aggregate is the computed order summary; values are unrounded.
type Aggregate struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	Net         float64 `json:"net"`
	PlatformFee float64 `json:"platformFee"`
	Taxes       float64 `json:"taxes"`
	GrandTotal  float64 `json:"grandTotal"`
	Coupon      string  `json:"coupon,omitempty"`
}

type CartView struct {
	Items     []LineItem `json:"items"`
	Aggregate Aggregate  `json:"aggregate"`
}
