package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderlust_travel/internal/app"
)

func TestRun_CommandsAndChat(t *testing.T) {
	ctx := context.Background()
	s, err := app.NewSessions(app.Deps{
		Now: func() time.Time { return time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC) },
	}).New(ctx)
	require.NoError(t, err)

	var out bytes.Buffer
	for _, line := range []string{"/autobook Maldives", "/premium", "/coupon summer20", "/cart", "how much?"} {
		ev, _ := run(ctx, s, line)
		render(&out, ev)
	}
	text := out.String()
	assert.Contains(t, text, "[cart] 2 item(s)")
	assert.Contains(t, text, "Nov 2, 2025 -> Nov 4, 2025")
	assert.Contains(t, text, "coupon SUMMER20")
	assert.Contains(t, text, "Here's our complete price list")

	out.Reset()
	ev, err := run(ctx, s, "/remove x")
	assert.Error(t, err)
	render(&out, ev)

	ev, _ = run(ctx, s, "/pay")
	render(&out, ev)
	assert.Contains(t, out.String(), "Payment received!")
	assert.Contains(t, historyText(s.History()), "Visited: Maldives, Premium Lounge Access")
}
