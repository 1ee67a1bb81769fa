package app

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderlust_travel/internal/domain"
)

func TestClassify_Priority(t *testing.T) {
	cases := []struct {
		msg  string
		want intent
		dest string
	}{
		{"where can I book Paris?", intentLocation, ""},
		{"cheap luxury trips", intentCheapest, ""},
		{"high end", intentLuxury, ""},
		{"Book Santorini please", intentBookNamed, "Santorini, Greece"},
		{"book the swiss alps", intentBookNamed, "Swiss Alps"},
		{"Book a trip", intentBookGeneric, ""},
		{"show my cart", intentCart, ""},
		{"my bookings", intentBookGeneric, ""},
		{"how much is it", intentPriceList, ""},
		{"hello", intentHelp, ""},
	}
	for _, c := range cases {
		got, d := classify(c.msg)
		assert.Equal(t, c.want, got, c.msg)
		assert.Equal(t, c.dest, d.Name, c.msg)
	}
}

func TestFallbackReply_Sorting(t *testing.T) {
	cheap := fallbackReply(intentCheapest, "", false, nil)
	assert.Less(t, strings.Index(cheap, "Paris"), strings.Index(cheap, "Maldives"))

	lux := fallbackReply(intentLuxury, "", false, nil)
	assert.Less(t, strings.Index(lux, "Maldives"), strings.Index(lux, "Paris"))

	cart := fallbackReply(intentCart, "", false, []domain.LineItem{{Destination: "Maldives", Guests: 3}})
	assert.Contains(t, cart, "You have 1 trip(s) in your cart!")
	assert.Contains(t, cart, "Maldives - 3 guest(s)")

	assert.Contains(t, fallbackReply(intentBookGeneric, "book a trip", false, nil), `"Book Maldives"`)
	assert.Contains(t, fallbackReply(intentPriceList, "", false, nil), "Swiss Alps: $2,199")
}

func TestBookingDirective(t *testing.T) {
	d, ok := bookingDirective("Great! I'll open the Booking Form for Dubai, UAE now!")
	require.True(t, ok)
	assert.Equal(t, "Dubai, UAE", d.Name)

	_, ok = bookingDirective("Dubai is lovely this time of year.")
	assert.False(t, ok)
}

func TestTrimTranscript_StartsWithUser(t *testing.T) {
	var msgs []domain.ChatMessage
	for i := 0; i < maxTranscript+3; i++ {
		role := roleUser
		if i%2 == 1 {
			role = roleAssistant
		}
		msgs = append(msgs, domain.ChatMessage{Role: role, Content: fmt.Sprint(i)})
	}
	out := trimTranscript(msgs)
	require.NotEmpty(t, out)
	assert.LessOrEqual(t, len(out), maxTranscript)
	assert.Equal(t, roleUser, out[0].Role)
	assert.Equal(t, msgs[len(msgs)-1], out[len(out)-1])
}
