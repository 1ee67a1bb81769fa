package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"

	"wanderlust_travel/internal/adapters/assistant"
	"wanderlust_travel/internal/adapters/observability"
	redisad "wanderlust_travel/internal/adapters/redis"
	"wanderlust_travel/internal/app"
	"wanderlust_travel/internal/domain"
	"wanderlust_travel/internal/pricing"
	"wanderlust_travel/internal/shared"
)

const help = `Commands:
  /cart                 show the cart
  /remove N             remove cart item N (1-based)
  /premium              add Premium Lounge Access
  /autobook NAME        book NAME for tomorrow, 2 nights, 2 guests
  /coupon CODE          apply a coupon (/coupon - clears it)
  /pay                  pay for everything in the cart
  /history              show completed trips and visited places
  /location LAT LON     share your location
  /cancel               abandon the booking in progress
  /quit                 leave
Anything else is sent to Stella.`

func main() {
	sessionID := flag.String("session", "", "resume a saved session (requires redis)")
	persist := flag.Bool("persist", false, "keep session state in redis")
	flag.Parse()

	cfg := shared.Load()
	// stdout belongs to the conversation
	log.Logger = observability.NewLoggerTo(cfg.AppEnv, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps := app.Deps{Model: cfg.AssistantModel, PaymentDelay: cfg.PaymentConfirmDelay}
	if *persist || *sessionID != "" {
		st := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.StateTTL)
		if err := st.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		defer st.Close()
		deps.Store = st
	}
	if cfg.AssistantKey != "" {
		client, err := assistant.New(cfg.AssistantBase, cfg.AssistantKey, cfg.AssistantRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize assistant client")
		}
		deps.Assistant = client
	}

	sessions := app.NewSessions(deps)
	var (
		s   *app.Session
		err error
	)
	if *sessionID != "" {
		s, err = sessions.Get(ctx, *sessionID)
	} else {
		s, err = sessions.New(ctx)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("session could not be opened")
	}
	log.Info().Str("session", s.ID).Msg("chat session ready")

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	out := os.Stdout
	fmt.Fprintln(out, "Hi! I'm Stella, your travel assistant. Type /help for commands.")

	in := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return
		}
		events, err := run(ctx, s, line)
		render(out, events)
		if err != nil {
			log.Debug().Err(err).Str("input", line).Msg("command failed")
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func run(ctx context.Context, s *app.Session, line string) ([]domain.Event, error) {
	if !strings.HasPrefix(line, "/") {
		return s.Send(ctx, line), nil
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/help":
		return []domain.Event{{Kind: domain.EventMessage, Text: help}}, nil
	case "/cart":
		v := s.Cart()
		return []domain.Event{{Kind: domain.EventCart, Cart: &v}}, nil
	case "/remove":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}
		return s.RemoveFromCart(ctx, n-1)
	case "/premium":
		return s.AddPremiumLounge(ctx)
	case "/autobook":
		return s.AutoBook(ctx, arg)
	case "/coupon":
		if arg == "-" {
			return s.ClearCoupon(ctx), nil
		}
		return s.ApplyCoupon(ctx, arg)
	case "/pay":
		return s.ConfirmManualPayment(ctx)
	case "/history":
		return []domain.Event{{Kind: domain.EventMessage, Text: historyText(s.History())}}, nil
	case "/location":
		var lat, lon float64
		if _, err := fmt.Sscan(arg, &lat, &lon); err != nil {
			return []domain.Event{{Kind: domain.EventError, Text: "usage: /location LAT LON"}}, err
		}
		s.SetLocation(domain.Location{Lat: lat, Lon: lon})
		return []domain.Event{{Kind: domain.EventMessage, Text: "Thanks! I'll use your location for recommendations."}}, nil
	case "/cancel":
		return s.CancelConversation(ctx)
	}
	return []domain.Event{{Kind: domain.EventError, Text: "unknown command; try /help"}}, nil
}

func render(w io.Writer, events []domain.Event) {
	for _, e := range events {
		switch e.Kind {
		case domain.EventCart:
			fmt.Fprint(w, cartText(e.Cart))
		case domain.EventError:
			fmt.Fprintf(w, "! %s\n", e.Text)
		default:
			fmt.Fprintf(w, "Stella: %s\n", e.Text)
		}
	}
}

func cartText(v *domain.CartView) string {
	if v == nil || len(v.Items) == 0 {
		return "[cart] empty\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[cart] %d item(s)\n", len(v.Items))
	for i, it := range v.Items {
		line := pricing.LineTotal(it)
		if it.PremiumLounge {
			fmt.Fprintf(&b, "  %d. %s  $%s\n", i+1, it.Destination, pricing.FormatMoney(line))
			continue
		}
		fmt.Fprintf(&b, "  %d. %s  %s -> %s  %d guest(s)  $%s\n", i+1, it.Destination,
			domain.FormatDate(it.CheckIn), domain.FormatDate(it.CheckOut), it.Guests, pricing.FormatMoney(line))
	}
	a := v.Aggregate
	if a.Coupon != "" {
		fmt.Fprintf(&b, "  coupon %s  -$%s\n", a.Coupon, pricing.FormatMoney(a.Discount))
	}
	fmt.Fprintf(&b, "  total $%s (fee $%s, taxes $%s)\n",
		pricing.FormatMoney(a.GrandTotal), pricing.FormatMoney(a.PlatformFee), pricing.FormatMoney(a.Taxes))
	return b.String()
}

func historyText(h app.HistoryView) string {
	if h.Count == 0 {
		return "No trips yet."
	}
	var b strings.Builder
	for i, e := range h.Entries {
		fmt.Fprintf(&b, "%d. %s, completed %s\n", i+1, e.Destination, domain.FormatDate(e.CompletedOn))
	}
	if len(h.Visited) > 0 {
		names := make([]string, len(h.Visited))
		for i, v := range h.Visited {
			names[i] = v.Destination
		}
		fmt.Fprintf(&b, "Visited: %s", strings.Join(names, ", "))
	}
	return strings.TrimSpace(b.String())
}
