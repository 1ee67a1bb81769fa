// Package catalog holds the static destination data, offers and the premium lounge product.
package catalog

import (
	"sort"
	"strings"

	"wanderlust_travel/internal/domain"
)

const (
	PremiumLoungeName  = "Premium Lounge Access"
	PremiumLoungePrice = 399.0
	PremiumLoungeImage = "https://images.unsplash.com/photo-1436491865332-7a61a109cc05?w=800"
)

// declared order matters: Match and listings use it
var destinations = []domain.Destination{
	{Name: "Paris, France", Price: 1299, Region: "Europe", Image: "https://images.unsplash.com/photo-1502602898657-3e91760cbb34?w=800"},
	{Name: "Santorini, Greece", Price: 1599, Region: "Europe", Image: "https://images.unsplash.com/photo-1523906834658-6e24ef2386f9?w=800"},
	{Name: "Swiss Alps", Price: 2199, Region: "Europe", Image: "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800"},
	{Name: "Dubai, UAE", Price: 1799, Region: "Middle East", Image: "https://images.unsplash.com/photo-1512453979798-5ea266f8880c?w=800"},
	{Name: "Maldives", Price: 2499, Region: "Asia", Image: "https://images.unsplash.com/photo-1493976040374-85c8e12f0c0e?w=800"},
	{Name: "Tokyo, Japan", Price: 1899, Region: "Asia", Image: "https://images.unsplash.com/photo-1524413840807-0c3cb6fa808d?w=800"},
}

var offers = []domain.Coupon{
	{Code: "WELCOME10", Discount: 0.1, Description: "10% off for new users"},
	{Code: "SUMMER20", Discount: 0.2, Description: "Summer Sale - 20% off"},
}

// All returns the destinations in declared order.
func All() []domain.Destination {
	out := make([]domain.Destination, len(destinations))
	copy(out, destinations)
	return out
}

func Lookup(name string) (domain.Destination, bool) {
	n := strings.TrimSpace(name)
	for _, d := range destinations {
		if strings.EqualFold(d.Name, n) {
			return d, true
		}
	}
	return domain.Destination{}, false
}

// Match finds the first destination whose full name or city part is contained in text.
func Match(text string) (domain.Destination, bool) {
	low := strings.ToLower(text)
	for _, d := range destinations {
		if strings.Contains(low, strings.ToLower(d.Name)) ||
			strings.Contains(low, strings.ToLower(d.City())) {
			return d, true
		}
	}
	return domain.Destination{}, false
}

func SortedByPrice(ascending bool) []domain.Destination {
	out := All()
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].Price < out[j].Price
		}
		return out[i].Price > out[j].Price
	})
	return out
}

func Offers() []domain.Coupon {
	out := make([]domain.Coupon, len(offers))
	copy(out, offers)
	return out
}

// FindCoupon trims and upper-cases code before matching.
func FindCoupon(code string) (domain.Coupon, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	for _, o := range offers {
		if o.Code == c {
			return o, true
		}
	}
	return domain.Coupon{}, false
}
