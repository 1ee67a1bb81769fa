package domain

import "time"

// LineItem is one purchasable unit in the cart: a stay or a flat-fee product.
// Price is snapshotted when the item is created.
type LineItem struct {
	ID          string    `json:"id"`
	Destination string    `json:"destination"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	CheckIn     time.Time `json:"checkIn"`
	CheckOut    time.Time `json:"checkOut"`
	Guests      int       `json:"guests"`

	LocalGuide       bool    `json:"localGuide,omitempty"`
	LocalGuideFee    float64 `json:"localGuideFee,omitempty"`
	LocalGuideNumber string  `json:"localGuideNumber,omitempty"`

	PremiumLounge bool `json:"isPremiumLounge,omitempty"` // flat fee, no date pricing
}

// Validate checks the structural invariants of a line item.
func (li LineItem) Validate() error {
	if li.Destination == "" {
		return ErrUnknownDestination
	}
	if li.Guests < 1 {
		return ErrInvalidGuests
	}
	if li.Price < 0 || li.LocalGuideFee < 0 {
		return ErrInvalidPrice
	}
	if !li.PremiumLounge && !li.CheckOut.After(li.CheckIn) {
		return ErrInvalidStay
	}
	return nil
}

const StatusCompleted = "completed"

// HistoryEntry is a line item that went through a successful payment.
type HistoryEntry struct {
	LineItem
	CompletedOn time.Time `json:"completedOn"`
	Status      string    `json:"status"`
}

// VisitedPlace is keyed by destination name.
type VisitedPlace struct {
	Destination string    `json:"destination"`
	Image       string    `json:"image,omitempty"`
	VisitedOn   time.Time `json:"visitedOn"`
}

// Ticket is the detailed view of a completed booking.
type Ticket struct {
	Entry         HistoryEntry  `json:"entry"`
	Nights        int           `json:"nights"`
	Total         float64       `json:"total"`
	Accommodation Accommodation `json:"accommodation"`
}
