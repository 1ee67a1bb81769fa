package app

import (
	"fmt"
	"strings"

	"wanderlust_travel/internal/catalog"
	"wanderlust_travel/internal/domain"
)

// intent is the local keyword classifier's verdict, used when the remote assistant
// cannot answer.
type intent int

const (
	intentHelp intent = iota
	intentLocation
	intentCheapest
	intentLuxury
	intentBookNamed
	intentBookGeneric
	intentCart
	intentPriceList
)

func (i intent) String() string {
	switch i {
	case intentLocation:
		return "location"
	case intentCheapest:
		return "cheapest"
	case intentLuxury:
		return "luxury"
	case intentBookNamed:
		return "book_named"
	case intentBookGeneric:
		return "book_generic"
	case intentCart:
		return "cart"
	case intentPriceList:
		return "price_list"
	}
	return "help"
}

// classify checks keyword groups in priority order; the first group that matches wins.
func classify(message string) (intent, domain.Destination) {
	msg := strings.ToLower(message)
	switch {
	case containsAny(msg, "near", "location", "where"):
		return intentLocation, domain.Destination{}
	case containsAny(msg, "cheap", "budget", "affordable", "low price"):
		return intentCheapest, domain.Destination{}
	case containsAny(msg, "expensive", "luxury", "premium", "high"):
		return intentLuxury, domain.Destination{}
	case strings.Contains(msg, "book"):
		if d, ok := catalog.Match(msg); ok {
			return intentBookNamed, d
		}
		return intentBookGeneric, domain.Destination{}
	case containsAny(msg, "cart", "booking"):
		return intentCart, domain.Destination{}
	case containsAny(msg, "price", "cost", "how much"):
		return intentPriceList, domain.Destination{}
	}
	return intentHelp, domain.Destination{}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fallbackReply renders the canned answer for every intent except intentBookNamed,
// which starts a conversation instead.
func fallbackReply(in intent, message string, hasLocation bool, cart []domain.LineItem) string {
	var b strings.Builder
	list := func(ds []domain.Destination, withRegion bool) {
		for _, d := range ds {
			if withRegion {
				fmt.Fprintf(&b, "- %s - $%s (%s)\n", d.Name, money(d.Price), d.Region)
				continue
			}
			fmt.Fprintf(&b, "- %s - $%s\n", d.Name, money(d.Price))
		}
	}

	switch in {
	case intentLocation:
		if hasLocation {
			b.WriteString("Based on your location, I recommend these amazing destinations:\n\n")
			list(catalog.All()[:3], false)
			b.WriteString("\nWould you like to book any of these?")
		} else {
			b.WriteString("I don't have access to your location yet. Here are our popular destinations:\n\n")
			list(catalog.All(), true)
		}
	case intentCheapest:
		b.WriteString("Here are our most affordable destinations:\n\n")
		list(catalog.SortedByPrice(true), false)
		b.WriteString("\nGreat value for amazing experiences!")
	case intentLuxury:
		b.WriteString("Here are our luxury destinations:\n\n")
		list(catalog.SortedByPrice(false), false)
		b.WriteString("\nExperience the finest travel has to offer!")
	case intentBookGeneric:
		b.WriteString("I can help you book a trip! Here are our destinations:\n\n")
		list(catalog.All(), false)
		if strings.Contains(strings.ToLower(message), "book a trip") {
			b.WriteString("\nJust tell me which one: \"Book Paris\", \"Book Maldives\", etc. and we'll get your dates!")
		} else {
			b.WriteString("\nJust say \"Book [destination name]\" (e.g., \"Book Paris\") and we'll handle your dates!")
		}
	case intentCart:
		if len(cart) == 0 {
			b.WriteString("Your cart is empty. Let me show you our amazing destinations!\n\n")
			list(catalog.All(), false)
		} else {
			fmt.Fprintf(&b, "You have %d trip(s) in your cart!\n\n", len(cart))
			for _, it := range cart {
				fmt.Fprintf(&b, "- %s - %d guest(s)\n", it.Destination, it.Guests)
			}
			b.WriteString("\nReady to checkout?")
		}
	case intentPriceList:
		b.WriteString("Here's our complete price list:\n\n")
		for _, d := range catalog.All() {
			fmt.Fprintf(&b, "%s: $%s\n", d.Name, money(d.Price))
		}
		b.WriteString("\nAll prices are per person and include accommodation!")
	default:
		b.WriteString("I'm Stella, your AI travel assistant! I can help you:\n\n" +
			"- Find destinations near you\n" +
			"- Sort trips by price\n" +
			"- Book your dream vacation\n" +
			"- Manage your bookings\n\n" +
			"Try asking me: \"Show me cheap destinations\" or \"Book Paris\"!")
	}
	return strings.TrimRight(b.String(), "\n")
}
