package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wanderlust_travel/internal/app"
	"wanderlust_travel/internal/catalog"
	"wanderlust_travel/internal/domain"
)

type Handlers struct{ Sessions *app.Sessions }

type problem struct {
	Type   string         `json:"type"`
	Title  string         `json:"title"`
	Status int            `json:"status"`
	Detail string         `json:"detail,omitempty"`
	Events []domain.Event `json:"events,omitempty"`
}

// eventsResponse is the body of every session mutation.
type eventsResponse struct {
	Events []domain.Event `json:"events"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/destinations", h.listDestinations)
		r.Get("/destinations/{name}", h.getDestination)
		r.Get("/offers", h.listOffers)

		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Post("/messages", h.sendMessage)
			r.Put("/location", h.setLocation)

			r.Get("/conversation", h.getConversation)
			r.Post("/conversation", h.startConversation)
			r.Delete("/conversation", h.cancelConversation)

			r.Get("/cart", h.getCart)
			r.Post("/cart/items", h.addItem)
			r.Delete("/cart/items/{index}", h.removeItem)
			r.Post("/cart/premium", h.addPremium)
			r.Post("/cart/autobook", h.autoBook)

			r.Post("/inline-bookings", h.startInline)
			r.Post("/inline-bookings/{bid}/confirm", h.confirmInline)
			r.Delete("/inline-bookings/{bid}", h.cancelInline)

			r.Put("/coupon", h.applyCoupon)
			r.Delete("/coupon", h.clearCoupon)
			r.Get("/checkout/quote", h.quote)
			r.Post("/payments/orders", h.createOrder)
			r.Post("/payments/orders/{oid}/capture", h.captureOrder)
			r.Post("/payments/manual", h.confirmManual)
			r.Post("/payments/success", h.paymentSucceeded)
			r.Post("/payments/failure", h.paymentFailed)

			r.Get("/history", h.getHistory)
			r.Get("/history/{index}/ticket", h.getTicket)
			r.Delete("/history/{index}", h.deleteHistory)
			r.Delete("/visited/{index}", h.deleteVisited)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, events ...domain.Event) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Events: events}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeResult renders the events of a session operation, or the problem its error maps to.
func writeResult(w http.ResponseWriter, events []domain.Event, err error) {
	if err != nil {
		status, title := errStatus(err)
		writeProblem(w, status, title, err.Error(), events...)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events})
}

func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownDestination):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrInvalidStay),
		errors.Is(err, domain.ErrInvalidGuests), errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidCoupon), errors.Is(err, domain.ErrEmptyCoupon):
		return http.StatusUnprocessableEntity, "Invalid Input"
	case errors.Is(err, domain.ErrConversationActive), errors.Is(err, domain.ErrStaleReference),
		errors.Is(err, domain.ErrPremiumInCart), errors.Is(err, domain.ErrEmptyCart):
		return http.StatusConflict, "Conflict"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeCacheable serves static catalog data with a weak ETag.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cacheable body")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Index", "index must be an integer")
		return 0, false
	}
	return i, true
}

// session resolves {sid}, rehydrating unknown ids from the state store.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*app.Session, bool) {
	sid := chi.URLParam(r, "sid")
	if _, err := uuid.Parse(sid); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Session", "session id must be a UUID")
		return nil, false
	}
	s, err := h.Sessions.Get(r.Context(), sid)
	if err != nil {
		log.Error().Err(err).Str("session", sid).Msg("session load failed")
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "session state could not be loaded")
		return nil, false
	}
	return s, true
}

// ---- catalog ----

func (h *Handlers) listDestinations(w http.ResponseWriter, r *http.Request) {
	sort := r.URL.Query().Get("sort")
	switch sort {
	case "", "declared":
		writeCacheable(w, r, catalog.All())
	case "price":
		writeCacheable(w, r, catalog.SortedByPrice(true))
	case "-price":
		writeCacheable(w, r, catalog.SortedByPrice(false))
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid sort", "sort must be price or -price")
	}
}

type destinationResponse struct {
	domain.Destination
	Details       domain.DestinationDetails `json:"details"`
	Accommodation domain.Accommodation      `json:"accommodation"`
}

func (h *Handlers) getDestination(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Name", err.Error())
		return
	}
	d, ok := catalog.Lookup(name)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "destination not found")
		return
	}
	det, _ := catalog.Details(d.Name)
	writeCacheable(w, r, destinationResponse{Destination: d, Details: det, Accommodation: catalog.Accommodation(d.Name)})
}

func (h *Handlers) listOffers(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, catalog.Offers())
}

// ---- session ----

type sessionResponse struct {
	ID           string                `json:"id"`
	Cart         domain.CartView       `json:"cart"`
	Conversation *app.ConversationView `json:"conversation,omitempty"`
	HistoryCount int                   `json:"historyCount"`
}

func snapshot(s *app.Session) sessionResponse {
	out := sessionResponse{ID: s.ID, Cart: s.Cart(), HistoryCount: s.History().Count}
	if v, ok := s.Conversation(); ok {
		out.Conversation = &v
	}
	return out
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.New(r.Context())
	if err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "session could not be created")
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+s.ID)
	writeJSON(w, http.StatusCreated, snapshot(s))
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		writeJSON(w, http.StatusOK, snapshot(s))
	}
}

type messageRequest struct {
	Text string `json:"text"`
}

func (h *Handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in messageRequest
	if !decode(w, r, &in) {
		return
	}
	writeResult(w, s.Send(r.Context(), in.Text), nil)
}

func (h *Handlers) setLocation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var loc domain.Location
	if !decode(w, r, &loc) {
		return
	}
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Input", "lat/lon out of range")
		return
	}
	s.SetLocation(loc)
	w.WriteHeader(http.StatusNoContent)
}

type destinationRequest struct {
	Destination string `json:"destination"`
}

func (h *Handlers) getConversation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, active := s.Conversation()
	if !active {
		writeProblem(w, http.StatusNotFound, "Not Found", "no booking conversation in progress")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) startConversation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in destinationRequest
	if !decode(w, r, &in) {
		return
	}
	respond(w)(s.StartBooking(r.Context(), in.Destination))
}

func (h *Handlers) cancelConversation(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		respond(w)(s.CancelConversation(r.Context()))
	}
}

// ---- cart ----

func (h *Handlers) getCart(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		writeJSON(w, http.StatusOK, s.Cart())
	}
}

func (h *Handlers) addItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in app.BookingForm
	if !decode(w, r, &in) {
		return
	}
	respond(w)(s.SubmitBookingForm(r.Context(), in))
}

func (h *Handlers) removeItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	i, ok := indexParam(w, r)
	if !ok {
		return
	}
	respond(w)(s.RemoveFromCart(r.Context(), i))
}

func (h *Handlers) addPremium(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		respond(w)(s.AddPremiumLounge(r.Context()))
	}
}

func (h *Handlers) autoBook(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in destinationRequest
	if !decode(w, r, &in) {
		return
	}
	respond(w)(s.AutoBook(r.Context(), in.Destination))
}

// ---- inline bookings ----

type inlineResponse struct {
	ID     string         `json:"id"`
	Events []domain.Event `json:"events"`
}

func (h *Handlers) startInline(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in destinationRequest
	if !decode(w, r, &in) {
		return
	}
	id, events, err := s.StartInlineBooking(r.Context(), in.Destination)
	if err != nil {
		writeResult(w, events, err)
		return
	}
	writeJSON(w, http.StatusCreated, inlineResponse{ID: id, Events: events})
}

func (h *Handlers) confirmInline(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in app.InlineForm
	if !decode(w, r, &in) {
		return
	}
	respond(w)(s.ConfirmInlineBooking(r.Context(), chi.URLParam(r, "bid"), in))
}

func (h *Handlers) cancelInline(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		respond(w)(s.CancelInlineBooking(r.Context(), chi.URLParam(r, "bid")))
	}
}

// ---- checkout ----

type couponRequest struct {
	Code string `json:"code"`
}

func (h *Handlers) applyCoupon(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in couponRequest
	if !decode(w, r, &in) {
		return
	}
	respond(w)(s.ApplyCoupon(r.Context(), in.Code))
}

func (h *Handlers) clearCoupon(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		writeResult(w, s.ClearCoupon(r.Context()), nil)
	}
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	q, err := s.Quote()
	if err != nil {
		writeResult(w, nil, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	o, err := s.CreateOrder(r.Context())
	if err != nil {
		writeResult(w, nil, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handlers) captureOrder(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		respond(w)(s.CaptureOrder(r.Context(), chi.URLParam(r, "oid")))
	}
}

func (h *Handlers) confirmManual(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		respond(w)(s.ConfirmManualPayment(r.Context()))
	}
}

func (h *Handlers) paymentSucceeded(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		respond(w)(s.PaymentSucceeded(r.Context()))
	}
}

type failureRequest struct {
	Reason string `json:"reason"`
}

func (h *Handlers) paymentFailed(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in failureRequest
	if !decode(w, r, &in) {
		return
	}
	writeResult(w, s.PaymentFailed(r.Context(), in.Reason), nil)
}

// ---- history ----

func (h *Handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		writeJSON(w, http.StatusOK, s.History())
	}
}

func (h *Handlers) getTicket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	i, ok := indexParam(w, r)
	if !ok {
		return
	}
	t, err := s.Ticket(i)
	if err != nil {
		writeResult(w, nil, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) deleteHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if i, ok := indexParam(w, r); ok {
		respond(w)(s.DeleteHistoryEntry(r.Context(), i))
	}
}

func (h *Handlers) deleteVisited(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if i, ok := indexParam(w, r); ok {
		respond(w)(s.DeleteVisited(r.Context(), i))
	}
}

// respond adapts writeResult to the (events, error) pair session operations return.
func respond(w http.ResponseWriter) func([]domain.Event, error) {
	return func(events []domain.Event, err error) { writeResult(w, events, err) }
}
