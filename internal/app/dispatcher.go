package app

import (
	"context"
	"fmt"
	"strings"

	"wanderlust_travel/internal/adapters/observability"
	"wanderlust_travel/internal/catalog"
	"wanderlust_travel/internal/domain"
)

// Send routes one chat message. An active conversation consumes it; otherwise it goes
// to the remote assistant and, if that fails, to the local keyword classifier.
func (s *Session) Send(ctx context.Context, text string) []domain.Event {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	s.events = nil
	if s.conv != nil {
		observability.ObserveDispatch("conversation")
		s.advanceConversation(ctx, text)
		ev := s.flush()
		s.mu.Unlock()
		return ev
	}
	s.transcript = trimTranscript(append(s.transcript, domain.ChatMessage{Role: roleUser, Content: text}))
	epoch := s.epoch
	req := domain.AssistantRequest{
		Model:     s.deps.Model,
		MaxTokens: assistantMaxTokens,
		System:    systemPrompt(s.cart.Len(), s.location),
		Messages:  append([]domain.ChatMessage(nil), s.transcript...),
	}
	s.mu.Unlock()

	reply := s.ask(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	if s.epoch != epoch {
		// a conversation started or ended while we waited; the reply no longer applies
		observability.ObserveDispatch("stale")
		s.log.Info().Str("status", reply.Status.String()).Msg("dropping stale assistant reply")
		return nil
	}
	if !reply.OK() {
		s.log.Debug().Err(reply.Err).Str("status", reply.Status.String()).Msg("assistant fallback")
		s.fallback(ctx, text)
		return s.flush()
	}

	observability.ObserveDispatch("assistant")
	s.transcript = trimTranscript(append(s.transcript, domain.ChatMessage{Role: roleAssistant, Content: reply.Text}))
	s.message(reply.Text)
	if d, ok := bookingDirective(reply.Text); ok {
		_ = s.startConversation(d)
	}
	return s.flush()
}

func (s *Session) ask(ctx context.Context, req domain.AssistantRequest) domain.AssistantReply {
	if s.deps.Assistant == nil {
		return domain.AssistantReply{Status: domain.ReplyUnavailable}
	}
	return s.deps.Assistant.Ask(ctx, req)
}

func (s *Session) fallback(ctx context.Context, text string) {
	in, dest := classify(text)
	observability.ObserveDispatch("fallback_" + in.String())
	if in == intentBookNamed {
		s.message(fmt.Sprintf("Great choice! Starting booking for %s...", dest.Name))
		_ = s.startConversation(dest)
		return
	}
	s.message(fallbackReply(in, text, s.location != nil, s.cart.All()))
}

// StartBooking opens a booking conversation for a catalog destination.
func (s *Session) StartBooking(ctx context.Context, destination string) ([]domain.Event, error) {
	return s.turn(func() error {
		d, ok := catalog.Lookup(destination)
		if !ok {
			s.fail(fmt.Sprintf("Sorry, we don't offer trips to %q.", destination))
			return domain.ErrUnknownDestination
		}
		return s.startConversation(d)
	})
}

// CancelConversation abandons the active conversation without touching the cart.
func (s *Session) CancelConversation(ctx context.Context) ([]domain.Event, error) {
	return s.turn(func() error {
		if s.conv == nil {
			return domain.ErrNotFound
		}
		observability.ObserveConversation("cancelled")
		s.endConversation()
		s.message("Booking cancelled. Let me know if you'd like to try again!")
		return nil
	})
}

// startConversation refuses to replace a conversation that is already running.
func (s *Session) startConversation(d domain.Destination) error {
	if s.conv != nil {
		observability.ObserveConversation("rejected")
		s.fail(fmt.Sprintf("Finish or cancel your current booking for %s first.", s.conv.Destination))
		return domain.ErrConversationActive
	}
	s.conv = newConversation(d, s.now())
	s.epoch++
	observability.ObserveConversation("started")
	s.prompt(s.conv.Step(), s.conv.Opening())
	return nil
}

func (s *Session) endConversation() {
	s.conv = nil
	s.epoch++
}

func (s *Session) advanceConversation(ctx context.Context, text string) {
	res := s.conv.Advance(text, s.now())
	observability.ObserveConversation(res.Outcome.String())
	switch res.Outcome {
	case turnReprompt, turnAdvanced:
		s.prompt(res.Step, res.Text)
	case turnCancelled:
		s.endConversation()
		s.message(res.Text)
	case turnConfirmed:
		item := *res.Item
		s.endConversation()
		if _, err := s.cart.Add(ctx, item); err != nil {
			s.log.Error().Err(err).Str("destination", item.Destination).Msg("confirmed booking rejected by cart")
			s.fail("Sorry, that booking could not be added. Please try again.")
			return
		}
		s.history.RecordVisit(ctx, item.Destination, item.Image, s.now())
		s.message(res.Text)
	}
}
