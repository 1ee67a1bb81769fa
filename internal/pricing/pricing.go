// Package pricing computes stay lengths, line totals and order aggregates.
// Values are never rounded here; use Round2 or FormatMoney at presentation time.
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"wanderlust_travel/internal/domain"
)

const (
	PlatformFeeRate = 0.01
	TaxRate         = 0.08
	LocalGuideFee   = 75.0
)

// Nights is the ceiling of the whole-day difference between the two dates.
func Nights(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, domain.ErrInvalidStay
	}
	return nights(checkIn, checkOut), nil
}

func nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// LineTotal prices a single cart entry. Date-based items with a non-positive stay
// contribute only their add-on fee; such items are rejected before reaching the cart.
func LineTotal(item domain.LineItem) float64 {
	if item.PremiumLounge {
		return item.Price
	}
	n := nights(item.CheckIn, item.CheckOut)
	if n < 0 {
		n = 0
	}
	total := item.Price * float64(item.Guests) * float64(n)
	if item.LocalGuide {
		total += item.LocalGuideFee
	}
	return total
}

func OrderAggregate(items []domain.LineItem, coupon *domain.Coupon) domain.Aggregate {
	var agg domain.Aggregate
	for _, it := range items {
		agg.Subtotal += LineTotal(it)
	}
	agg.Net = agg.Subtotal
	if coupon != nil {
		agg.Coupon = coupon.Code
		agg.Discount = agg.Subtotal * coupon.Discount
		agg.Net = agg.Subtotal - agg.Discount
	}
	agg.PlatformFee = agg.Net * PlatformFeeRate
	agg.Taxes = agg.Net * TaxRate
	agg.GrandTotal = agg.Net + agg.PlatformFee + agg.Taxes
	return agg
}

func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// FormatMoney renders v with two decimals and thousands separators: 7794 -> "7,794.00".
func FormatMoney(v float64) string {
	return humanize.FormatFloat("#,###.##", Round2(v))
}

// GuideNumber builds the mock local-guide contact from the last four digits of the
// current Unix-millisecond clock.
func GuideNumber(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	return fmt.Sprintf("+1-800-555-%s", ms[len(ms)-4:])
}
