package app

import (
	"fmt"
	"strings"

	"wanderlust_travel/internal/catalog"
	"wanderlust_travel/internal/domain"
	"wanderlust_travel/internal/pricing"
)

const (
	assistantMaxTokens = 1000
	// older turns are dropped so requests stay bounded
	maxTranscript = 40
)

func money(v float64) string { return strings.TrimSuffix(pricing.FormatMoney(v), ".00") }

func systemPrompt(cartSize int, loc *domain.Location) string {
	var dests strings.Builder
	for _, d := range catalog.All() {
		fmt.Fprintf(&dests, "- %s: $%s (%s)\n", d.Name, money(d.Price), d.Region)
	}
	where := "Not available"
	if loc != nil {
		where = fmt.Sprintf("Lat: %v, Lon: %v", loc.Lat, loc.Lon)
	}
	return fmt.Sprintf(`You are Stella, a friendly AI travel assistant for Wanderlust Travel. Your role is to help users:

1. Find destinations based on their location and preferences
2. Sort and filter trips by price
3. Add bookings to their cart
4. Answer travel questions

Available destinations:
%s
Current cart: %d items

User location: %s

When users ask about:
- "near me" or location-based queries: Recommend destinations based on their region
- "cheapest" or budget queries: Sort by price (low to high) and recommend affordable options
- "expensive" or "luxury": Recommend premium destinations
- "book" queries: Guide them to book a specific destination

Always be friendly, concise, and helpful. When suggesting destinations, format as: "[Name] - $[price]"

If they want to book, you can trigger booking by saying: "I'll open the booking form for [destination name] now!"`,
		dests.String(), cartSize, where)
}

// bookingDirective finds "booking form for <destination>" in an assistant reply.
// The first destination in declared order wins.
func bookingDirective(reply string) (domain.Destination, bool) {
	lower := strings.ToLower(reply)
	for _, d := range catalog.All() {
		if strings.Contains(lower, "booking form for "+strings.ToLower(d.Name)) {
			return d, true
		}
	}
	return domain.Destination{}, false
}

func trimTranscript(msgs []domain.ChatMessage) []domain.ChatMessage {
	if len(msgs) <= maxTranscript {
		return msgs
	}
	out := msgs[len(msgs)-maxTranscript:]
	// the remote API wants the first message from the user
	for len(out) > 0 && out[0].Role != roleUser {
		out = out[1:]
	}
	return append([]domain.ChatMessage(nil), out...)
}

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)
