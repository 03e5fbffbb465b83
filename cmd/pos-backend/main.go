package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/warung-alinaldi/pos-backend/internal/api/handlers"
	"github.com/warung-alinaldi/pos-backend/internal/api/middleware"
	"github.com/warung-alinaldi/pos-backend/internal/cache"
	"github.com/warung-alinaldi/pos-backend/internal/cart"
	"github.com/warung-alinaldi/pos-backend/internal/checkout"
	"github.com/warung-alinaldi/pos-backend/internal/config"
	"github.com/warung-alinaldi/pos-backend/internal/health"
	"github.com/warung-alinaldi/pos-backend/internal/metrics"
	repository "github.com/warung-alinaldi/pos-backend/internal/repositories"
	"github.com/warung-alinaldi/pos-backend/internal/scanner"
	service "github.com/warung-alinaldi/pos-backend/internal/services"
	"github.com/warung-alinaldi/pos-backend/internal/tracing"
)

func main() {
	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Otel)
	if err != nil {
		slog.Error("Failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}

	// Database setup
	db, productRepo, orderRepo, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.Any("error", err))
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	if err := db.Migrate(); err != nil {
		slog.Error("Failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", slog.Any("error", err))
		os.Exit(1)
	}

	defer redisClient.Close()

	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	catalogService := service.NewCatalogService(productRepo, catalogCache, cfg.Cache.CatalogTTL)
	orderService := service.NewOrderService(orderRepo, cfg.Store.Location())
	terminals := service.NewTerminalService(
		catalogService,
		orderService,
		func(terminalID string) cart.Persister {
			return cache.NewCartPersister(redisClient, terminalID, cfg.Cache.CartTTL)
		},
		service.TerminalOptions{
			ScanThreshold: cfg.Scanner.InterCharThreshold,
			Checkout: checkout.Options{
				AckDelay:      cfg.Checkout.AckDelay,
				SubmitTimeout: cfg.Checkout.SubmitTimeout,
			},
			MaxTerminals: cfg.Store.MaxTerminals,
		},
		logger,
	)
	defer terminals.Close()

	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(terminals)
	checkoutHandler := handlers.NewCheckoutHandler(terminals)
	orderHandler := handlers.NewOrderHandler(orderService)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Failed to set up health checks", slog.Any("error", err))
		os.Exit(1)
	}

	listener := attachScanner(ctx, cfg, terminals, logger)

	slog.Info("Storage initialized", slog.String("env", cfg.Env), slog.String("store", cfg.Store.Name), slog.String("version", health.Version))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/categories", catalogHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/cart/items", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("POST /api/v1/cart/scan", cartHandler.Scan())
	routerMux.HandleFunc("POST /api/v1/scanner/keys", cartHandler.KeyEvents())
	routerMux.HandleFunc("GET /api/v1/checkout", checkoutHandler.GetCheckout())
	routerMux.HandleFunc("POST /api/v1/checkout/open", checkoutHandler.Transition(service.CheckoutOpen))
	routerMux.HandleFunc("POST /api/v1/checkout/confirm", checkoutHandler.Transition(service.CheckoutConfirm))
	routerMux.HandleFunc("POST /api/v1/checkout/back", checkoutHandler.Transition(service.CheckoutBack))
	routerMux.HandleFunc("POST /api/v1/checkout/cancel", checkoutHandler.Transition(service.CheckoutCancel))
	routerMux.HandleFunc("POST /api/v1/checkout/ack", checkoutHandler.Transition(service.CheckoutAcknowledge))
	routerMux.HandleFunc("POST /api/v1/checkout/submit", checkoutHandler.Submit())
	routerMux.HandleFunc("POST /api/v1/orders", orderHandler.SubmitOrder())
	routerMux.HandleFunc("GET /api/v1/orders", orderHandler.ListOrders())
	routerMux.HandleFunc("GET /api/v1/orders/{id}/lines", orderHandler.GetOrderLines())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining, metrics innermost so the matched pattern is visible
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.Any("error", err))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

	if listener != nil {
		if err := listener.Detach(); err != nil {
			slog.Error("Failed to detach scanner", slog.Any("error", err))
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("Failed to flush traces", slog.Any("error", err))
	}
}

// attachScanner feeds a keyboard-wedge device into the default terminal.
// It returns nil when no device is configured or it cannot be opened.
func attachScanner(ctx context.Context, cfg *config.Config, terminals service.TerminalService, logger *slog.Logger) *scanner.Listener {
	if cfg.Scanner.Device == "" {
		return nil
	}

	device, err := os.Open(cfg.Scanner.Device)
	if err != nil {
		slog.Warn("Scanner device unavailable, scans only over HTTP", slog.String("device", cfg.Scanner.Device), slog.Any("error", err))
		return nil
	}

	scanCtx := context.WithoutCancel(ctx)
	listener := scanner.NewListener(scanner.NewDecoder(cfg.Scanner.InterCharThreshold), func(code string) {
		result, _, err := terminals.Scan(scanCtx, service.DefaultTerminalID, code)
		if err != nil {
			logger.Error("Failed to resolve scanned code", slog.String("code", code), slog.Any("error", err))
			return
		}

		if result.Notice != "" {
			logger.Warn("Scan notice", slog.String("code", code), slog.String("notice", result.Notice))
		}
	}, logger)

	if err := listener.Attach(device); err != nil {
		slog.Error("Failed to attach scanner", slog.Any("error", err))
		device.Close()
		return nil
	}

	slog.Info("Scanner attached", slog.String("device", cfg.Scanner.Device))

	return listener
}
