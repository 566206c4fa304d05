package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oep_client/internal/api"
	"oep_client/internal/app"
	"oep_client/internal/domain"
	"oep_client/internal/infra"
	"oep_client/internal/session"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	configPath := os.Getenv("OEP_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Stats Hub (optional websocket observers)
	var hub *api.Hub
	if cfg.Stats.Enabled {
		hub = api.NewHub()
		go hub.Run()
		mux := http.NewServeMux()
		mux.HandleFunc("/ws/stats", hub.ServeWS)
		go func() {
			slog.Info("✅ Stats endpoint listening", slog.String("addr", cfg.Stats.ListenAddr))
			if err := http.ListenAndServe(cfg.Stats.ListenAddr, mux); err != nil {
				slog.Error("Stats server failed", slog.Any("error", err))
			}
		}()
	}

	// 5. Dial the gateway with backoff; the session itself never reconnects.
	addr := fmt.Sprintf("%s:%d", cfg.Gateway.Address, cfg.Gateway.Port)
	conn, err := dialGateway(ctx, addr, cfg.Gateway.DialRetries)
	if err != nil {
		slog.Error("❌ Could not reach the gateway", slog.String("addr", addr), slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()
	slog.Info("✅ Connected to gateway", slog.String("addr", addr))

	// 6. Session Engine
	sideByte, _ := cfg.SideByte()
	lowTicks, highTicks, _ := cfg.BandTicks() // validated at load time
	scfg := session.Config{
		Identity: domain.SessionIdentity{
			Participant: cfg.Gateway.Participant,
			SessionID:   cfg.Gateway.SessionID,
			GatewayID:   cfg.Gateway.GatewayID,
		},
		Credentials: domain.Credentials{
			Username: cfg.Gateway.Username,
			Password: cfg.Gateway.Password,
		},
		BookID:            cfg.Trading.BookID,
		Quantity:          cfg.Trading.Quantity,
		Side:              domain.Side(sideByte),
		PriceLowTicks:     lowTicks,
		PriceHighTicks:    highTicks,
		MaxOrdersInFlight: cfg.Trading.MaxOrdersInFlight,
		ClientOrderIDBase: cfg.Trading.ClientOrderIDBase,
	}

	metrics := infra.NewMetrics()
	var onSnapshot func(session.Snapshot)
	if hub != nil {
		onSnapshot = func(s session.Snapshot) { hub.Broadcast(s) }
	}

	engine := session.New(conn, scfg, metrics, bootstrap.Journal, onSnapshot)
	if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
		final := metrics.Snapshot()
		slog.Error("Session ended with error",
			slog.Any("error", err),
			slog.Uint64("orders_submitted", final.OrdersSubmitted))
		os.Exit(1)
	}

	slog.Info("👋 Shutting down gracefully...")
}

func dialGateway(ctx context.Context, addr string, retries int) (net.Conn, error) {
	if retries < 1 {
		retries = 1
	}
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		slog.Warn("Gateway dial failed",
			slog.Int("attempt", attempt+1), slog.Int("max", retries), slog.Any("error", err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(infra.CalculateBackoff(attempt)):
		}
	}
	return nil, lastErr
}
