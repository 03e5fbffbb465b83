package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warung-alinaldi/pos-backend/internal/api/middleware"
	"github.com/warung-alinaldi/pos-backend/internal/cart"
	"github.com/warung-alinaldi/pos-backend/internal/checkout"
	"github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/metrics"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	"github.com/warung-alinaldi/pos-backend/internal/scanner"
)

const DefaultTerminalID = "default"

type CheckoutAction string

const (
	CheckoutOpen        CheckoutAction = "open"
	CheckoutConfirm     CheckoutAction = "confirm"
	CheckoutBack        CheckoutAction = "back"
	CheckoutCancel      CheckoutAction = "cancel"
	CheckoutAcknowledge CheckoutAction = "ack"
)

// CheckoutView is a checkout status together with the cart it refers to.
type CheckoutView struct {
	checkout.Status
	Cart models.CartView `json:"cart"`
}

type TerminalService interface {
	Cart(ctx context.Context, terminalID string) (models.CartView, error)
	AddItem(ctx context.Context, terminalID string, productID int64) (models.CartView, error)
	UpdateQuantity(ctx context.Context, terminalID string, productID int64, quantity int) (models.CartView, error)
	RemoveItem(ctx context.Context, terminalID string, productID int64) (models.CartView, error)
	ClearCart(ctx context.Context, terminalID string) (models.CartView, error)
	Scan(ctx context.Context, terminalID, code string) (*models.ScanResult, models.CartView, error)
	KeyEvents(ctx context.Context, terminalID string, events []models.KeyEventRequest) (*models.KeyEventsResponse, error)
	Checkout(ctx context.Context, terminalID string) (CheckoutView, error)
	Transition(ctx context.Context, terminalID string, action CheckoutAction) (CheckoutView, error)
	SubmitCheckout(ctx context.Context, terminalID string, method models.PaymentMethod) (CheckoutView, error)
	Close()
}

// PersisterFactory returns the cart storage for a terminal.
type PersisterFactory func(terminalID string) cart.Persister

// DefaultMaxTerminals bounds the terminals kept in memory. Carts of evicted
// terminals stay in their persister and are rehydrated on the next request.
const DefaultMaxTerminals = 64

type TerminalOptions struct {
	ScanThreshold time.Duration
	Checkout      checkout.Options
	MaxTerminals  int
}

type terminal struct {
	cart     *cart.Store
	decoder  *scanner.Decoder
	checkout *checkout.Orchestrator
	lastUsed uint64
}

type terminalService struct {
	catalog    CatalogService
	writer     checkout.OrderWriter
	persisters PersisterFactory
	opts       TerminalOptions
	logger     *slog.Logger

	mu        sync.Mutex
	terminals map[string]*terminal
	clock     uint64
}

func NewTerminalService(catalog CatalogService, writer checkout.OrderWriter, persisters PersisterFactory, opts TerminalOptions, logger *slog.Logger) TerminalService {
	if logger == nil {
		logger = slog.Default()
	}

	if opts.MaxTerminals <= 0 {
		opts.MaxTerminals = DefaultMaxTerminals
	}

	return &terminalService{
		catalog:    catalog,
		writer:     writer,
		persisters: persisters,
		opts:       opts,
		logger:     logger,
		terminals:  make(map[string]*terminal),
	}
}

// terminal returns the state of terminalID, rehydrating its cart on first
// use. A terminal whose cart cannot be loaded is not kept, so the next
// request tries again instead of overwriting the saved cart.
func (s *terminalService) terminal(ctx context.Context, terminalID string) (*terminal, error) {
	if terminalID == "" {
		terminalID = DefaultTerminalID
	}

	s.mu.Lock()
	if t, ok := s.terminals[terminalID]; ok {
		s.touchLocked(t)
		s.mu.Unlock()
		return t, nil
	}
	s.mu.Unlock()

	logger := s.logger.With(slog.String("terminal_id", terminalID))

	store, err := cart.NewStore(context.WithoutCancel(ctx), s.persisters(terminalID), logger)
	if err != nil {
		logger.Error("Failed to rehydrate cart", slog.Any("error", err))
		return nil, errors.CartUnavailableError().WithError(err)
	}

	t := &terminal{
		cart:     store,
		decoder:  scanner.NewDecoder(s.opts.ScanThreshold),
		checkout: checkout.NewOrchestrator(store, s.writer, s.opts.Checkout, logger),
	}
	t.checkout.OnSuccess(func(models.SubmitOrderResult, int64) {
		metrics.RecordCheckout(true)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	// another request rehydrated the same terminal meanwhile
	if existing, ok := s.terminals[terminalID]; ok {
		t.checkout.Close()
		s.touchLocked(existing)
		return existing, nil
	}

	s.evictLocked()
	s.touchLocked(t)
	s.terminals[terminalID] = t

	logger.Info("Terminal initialized", slog.Int("cart_lines", store.Len()))

	return t, nil
}

func (s *terminalService) touchLocked(t *terminal) {
	s.clock++
	t.lastUsed = s.clock
}

// evictLocked makes room for one more terminal by dropping the least
// recently used ones, idle terminals first. A terminal with a submission in
// flight is never dropped.
func (s *terminalService) evictLocked() {
	for len(s.terminals) >= s.opts.MaxTerminals {
		victim := s.leastRecentLocked(func(state checkout.State) bool { return state == checkout.StateIdle })
		if victim == "" {
			victim = s.leastRecentLocked(func(state checkout.State) bool { return state != checkout.StateSubmitting })
		}

		if victim == "" {
			return
		}

		s.terminals[victim].checkout.Close()
		delete(s.terminals, victim)
		s.logger.Debug("Terminal evicted", slog.String("terminal_id", victim))
	}
}

func (s *terminalService) leastRecentLocked(eligible func(checkout.State) bool) string {
	var (
		victim string
		oldest uint64
	)

	for id, t := range s.terminals {
		if !eligible(t.checkout.State()) {
			continue
		}

		if victim == "" || t.lastUsed < oldest {
			victim, oldest = id, t.lastUsed
		}
	}

	return victim
}

func (s *terminalService) Cart(ctx context.Context, terminalID string) (models.CartView, error) {
	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return models.CartView{}, err
	}

	return t.cart.View(), nil
}

func (s *terminalService) AddItem(ctx context.Context, terminalID string, productID int64) (models.CartView, error) {
	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return models.CartView{}, err
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return t.cart.View(), err
	}

	t.cart.Add(ctx, *product)

	return t.cart.View(), nil
}

func (s *terminalService) UpdateQuantity(ctx context.Context, terminalID string, productID int64, quantity int) (models.CartView, error) {
	if quantity > models.MaxLineQuantity {
		return models.CartView{}, errors.AddValidationError("quantity", fmt.Sprintf("must be at most %d", models.MaxLineQuantity))
	}

	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return models.CartView{}, err
	}

	t.cart.UpdateQuantity(ctx, productID, quantity)

	return t.cart.View(), nil
}

func (s *terminalService) RemoveItem(ctx context.Context, terminalID string, productID int64) (models.CartView, error) {
	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return models.CartView{}, err
	}

	t.cart.Remove(ctx, productID)

	return t.cart.View(), nil
}

func (s *terminalService) ClearCart(ctx context.Context, terminalID string) (models.CartView, error) {
	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return models.CartView{}, err
	}

	t.cart.Clear(ctx)

	return t.cart.View(), nil
}

// Scan adds the product matching code. An unknown code leaves the cart as is
// and is reported as a notice, not an error.
func (s *terminalService) Scan(ctx context.Context, terminalID, code string) (*models.ScanResult, models.CartView, error) {
	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return nil, models.CartView{}, err
	}

	result, err := s.scan(ctx, t, code)
	if err != nil {
		return nil, t.cart.View(), err
	}

	return result, t.cart.View(), nil
}

// KeyEvents feeds raw keystrokes to the terminal decoder and resolves every
// completed code.
func (s *terminalService) KeyEvents(ctx context.Context, terminalID string, events []models.KeyEventRequest) (*models.KeyEventsResponse, error) {
	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return nil, err
	}

	scans := []models.ScanResult{}

	for _, ev := range events {
		code, ok := t.decoder.FeedAt(ev.Key, scanner.FromOffset(ev.OffsetMS))
		if !ok {
			continue
		}

		result, err := s.scan(ctx, t, code)
		if err != nil {
			return nil, err
		}

		scans = append(scans, *result)
	}

	return &models.KeyEventsResponse{Scans: scans, Cart: t.cart.View()}, nil
}

func (s *terminalService) scan(ctx context.Context, t *terminal, code string) (*models.ScanResult, error) {
	logger := middleware.LoggerFromContext(ctx)

	product, err := s.catalog.Resolve(ctx, code)
	if err != nil {
		if stdErrors.Is(err, errors.ErrProductNotFound) {
			metrics.RecordScan(false)
			logger.Info("Scanned code has no product", slog.String("code", code))

			notice := err.Error()
			if appErr, ok := errors.IsAppError(err); ok {
				notice = appErr.Message
			}

			return &models.ScanResult{Code: code, Notice: notice}, nil
		}

		return nil, err
	}

	t.cart.Add(ctx, *product)
	metrics.RecordScan(true)
	logger.Debug("Scanned product added", slog.String("code", code), slog.Int64("product_id", product.ID))

	return &models.ScanResult{Code: code, Product: product}, nil
}

func (s *terminalService) Checkout(ctx context.Context, terminalID string) (CheckoutView, error) {
	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return CheckoutView{Status: checkout.Status{State: checkout.StateIdle}}, err
	}

	return CheckoutView{Status: t.checkout.Status(), Cart: t.cart.View()}, nil
}

func (s *terminalService) Transition(ctx context.Context, terminalID string, action CheckoutAction) (CheckoutView, error) {
	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return CheckoutView{Status: checkout.Status{State: checkout.StateIdle}}, err
	}

	var status checkout.Status

	switch action {
	case CheckoutOpen:
		status, err = t.checkout.Open()
	case CheckoutConfirm:
		status, err = t.checkout.ConfirmReview()
	case CheckoutBack:
		status, err = t.checkout.Back()
	case CheckoutCancel:
		status, err = t.checkout.Cancel()
	case CheckoutAcknowledge:
		status, err = t.checkout.Acknowledge()
	default:
		return CheckoutView{Status: t.checkout.Status(), Cart: t.cart.View()},
			errors.BadRequestError("Unknown checkout action '" + string(action) + "'")
	}

	return CheckoutView{Status: status, Cart: t.cart.View()}, err
}

// SubmitCheckout submits the cart. Successful checkouts are counted by the
// orchestrator observer registered in terminal.
func (s *terminalService) SubmitCheckout(ctx context.Context, terminalID string, method models.PaymentMethod) (CheckoutView, error) {
	t, err := s.terminal(ctx, terminalID)
	if err != nil {
		return CheckoutView{Status: checkout.Status{State: checkout.StateIdle}}, err
	}

	status, err := t.checkout.Submit(ctx, method)
	if stdErrors.Is(err, errors.ErrOrderSubmissionFailed) {
		metrics.RecordCheckout(false)
	}

	return CheckoutView{Status: status, Cart: t.cart.View()}, err
}

func (s *terminalService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.terminals {
		t.checkout.Close()
	}
}
