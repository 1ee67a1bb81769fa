package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "wanderlust_travel/internal/adapters/http_server"
	redisad "wanderlust_travel/internal/adapters/redis"
	"wanderlust_travel/internal/app"
	"wanderlust_travel/internal/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	store := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	sessions := app.NewSessions(app.Deps{
		Store: store,
		Now:   func() time.Time { return time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC) },
	})
	s := httpserver.New(5 * time.Second)
	s.MountHandlers(&httpserver.Handlers{Sessions: sessions})
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decodeBody[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

type eventsBody struct {
	Events []domain.Event `json:"events"`
}

func TestDestinations_ETag(t *testing.T) {
	ts := newTestServer(t)

	res := do(t, http.MethodGet, ts.URL+"/v1/destinations?sort=price", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)
	ds := decodeBody[[]domain.Destination](t, res)
	require.Len(t, ds, 6)
	assert.Equal(t, "Paris, France", ds[0].Name)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/destinations?sort=price", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusNotModified, res2.StatusCode)

	res = do(t, http.MethodGet, ts.URL+"/v1/destinations?sort=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

type detailsBody struct {
	Name          string               `json:"name"`
	Accommodation domain.Accommodation `json:"accommodation"`
}

func TestDestinationDetails(t *testing.T) {
	ts := newTestServer(t)

	res := do(t, http.MethodGet, ts.URL+"/v1/destinations/Tokyo,%20Japan", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := decodeBody[detailsBody](t, res)
	assert.Equal(t, "Tokyo, Japan", body.Name)
	assert.NotEmpty(t, body.Accommodation.Residence)

	res = do(t, http.MethodGet, ts.URL+"/v1/destinations/Atlantis", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "application/problem+json", res.Header.Get("Content-Type"))
}

func TestSession_ChatBookingOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	res := do(t, http.MethodPost, ts.URL+"/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	sess := decodeBody[struct {
		ID string `json:"id"`
	}](t, res)
	base := ts.URL + "/v1/sessions/" + sess.ID

	for _, msg := range []string{"book santorini", "2025-11-15", "2025-11-18", "2"} {
		res = do(t, http.MethodPost, base+"/messages", map[string]string{"text": msg})
		require.Equal(t, http.StatusOK, res.StatusCode, msg)
	}
	res = do(t, http.MethodGet, base+"/conversation", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	conv := decodeBody[app.ConversationView](t, res)
	assert.Equal(t, domain.StepAwaitingConfirmation, conv.Step)

	res = do(t, http.MethodPost, base+"/messages", map[string]string{"text": "confirm"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	ev := decodeBody[eventsBody](t, res)
	require.NotEmpty(t, ev.Events)
	assert.Equal(t, domain.EventCart, ev.Events[0].Kind)

	res = do(t, http.MethodGet, base+"/cart", nil)
	cart := decodeBody[domain.CartView](t, res)
	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 1599*2*3, cart.Aggregate.Subtotal, 1e-9)

	res = do(t, http.MethodPut, base+"/coupon", map[string]string{"code": "welcome10"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = do(t, http.MethodGet, base+"/checkout/quote", nil)
	q := decodeBody[app.Quote](t, res)
	assert.InDelta(t, 1599*2*3*0.9, q.Net, 1e-9)

	res = do(t, http.MethodPost, base+"/payments/orders", nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	order := decodeBody[app.Order](t, res)
	res = do(t, http.MethodPost, base+"/payments/orders/"+order.ID+"/capture", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = do(t, http.MethodGet, base+"/history", nil)
	hist := decodeBody[app.HistoryView](t, res)
	assert.Len(t, hist.Entries, 1)
	assert.Equal(t, 2, hist.Count)

	res = do(t, http.MethodGet, base+"/history/0/ticket", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	tk := decodeBody[domain.Ticket](t, res)
	assert.Equal(t, 3, tk.Nights)
}

func TestSession_Problems(t *testing.T) {
	ts := newTestServer(t)

	res := do(t, http.MethodGet, ts.URL+"/v1/sessions/not-a-uuid/cart", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, http.MethodPost, ts.URL+"/v1/sessions", nil)
	sess := decodeBody[struct {
		ID string `json:"id"`
	}](t, res)
	base := ts.URL + "/v1/sessions/" + sess.ID

	res = do(t, http.MethodPost, base+"/cart/premium", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = do(t, http.MethodPost, base+"/cart/premium", nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "application/problem+json", res.Header.Get("Content-Type"))

	res = do(t, http.MethodPost, base+"/cart/items", app.BookingForm{Destination: "Maldives", CheckIn: "2025-11-20", CheckOut: "2025-11-19", Guests: 2})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	res = do(t, http.MethodPost, base+"/cart/items", map[string]any{"destination": "Maldives", "unknown": true})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, http.MethodDelete, base+"/cart/items/9", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = do(t, http.MethodPost, base+"/inline-bookings/nope/confirm", app.InlineForm{CheckIn: "2025-11-20", CheckOut: "2025-11-22", Guests: 1})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	p := decodeBody[struct {
		Events []domain.Event `json:"events"`
	}](t, res)
	require.NotEmpty(t, p.Events)
	assert.Equal(t, "Booking state expired. Please try again.", p.Events[0].Text)
}
