// Package checkout drives a terminal through review, payment and submission
// of its cart.
package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	appErrors "github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/models"
)

type State string

const (
	StateIdle             State = "idle"
	StateReviewingOrder   State = "reviewing_order"
	StateSelectingPayment State = "selecting_payment"
	StateSubmitting       State = "submitting"
	StateSuccess          State = "success"
	StateFailed           State = "failed"
)

const (
	DefaultAckDelay      = 2 * time.Second
	DefaultSubmitTimeout = 10 * time.Second
)

// OrderWriter records a completed sale.
type OrderWriter interface {
	SubmitOrder(ctx context.Context, req *models.SubmitOrderRequest) (*models.SubmitOrderResult, error)
}

// Cart is the part of cart.Store the orchestrator needs.
type Cart interface {
	View() models.CartView
	Clear(ctx context.Context)
}

// Status is the externally visible state of a checkout.
type Status struct {
	State         State                `json:"state"`
	PaymentMethod models.PaymentMethod `json:"payment_method,omitempty"`
	OrderID       *uuid.UUID           `json:"order_id,omitempty"`
	Error         string               `json:"error,omitempty"`
}

type Options struct {
	AckDelay      time.Duration
	SubmitTimeout time.Duration
}

type Orchestrator struct {
	cart   Cart
	writer OrderWriter
	logger *slog.Logger

	ackDelay      time.Duration
	submitTimeout time.Duration

	mu         sync.Mutex
	state      State
	method     models.PaymentMethod
	orderID    *uuid.UUID
	lastError  string
	ackTimer   *time.Timer
	generation uint64
	observers  []func(models.SubmitOrderResult, int64)
}

func NewOrchestrator(cart Cart, writer OrderWriter, opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	if opts.AckDelay <= 0 {
		opts.AckDelay = DefaultAckDelay
	}

	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = DefaultSubmitTimeout
	}

	return &Orchestrator{
		cart:          cart,
		writer:        writer,
		logger:        logger,
		ackDelay:      opts.AckDelay,
		submitTimeout: opts.SubmitTimeout,
		state:         StateIdle,
	}
}

// OnSuccess registers fn to run after every successful submission, with the
// order result and the submitted total.
func (o *Orchestrator) OnSuccess(fn func(result models.SubmitOrderResult, total int64)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.observers = append(o.observers, fn)
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.statusLocked()
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

// Open starts a checkout. An empty cart cannot be checked out.
func (o *Orchestrator) Open() (Status, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateIdle {
		return o.statusLocked(), appErrors.InvalidTransitionError(string(o.state), "open checkout")
	}

	if len(o.cart.View().Lines) == 0 {
		return o.statusLocked(), appErrors.EmptyCartCheckoutError()
	}

	o.resetLocked()
	o.state = StateReviewingOrder

	return o.statusLocked(), nil
}

func (o *Orchestrator) ConfirmReview() (Status, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateReviewingOrder {
		return o.statusLocked(), appErrors.InvalidTransitionError(string(o.state), "confirm review")
	}

	o.state = StateSelectingPayment

	return o.statusLocked(), nil
}

// Back steps from payment selection to review, or from a failure back to
// payment selection.
func (o *Orchestrator) Back() (Status, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateSelectingPayment:
		o.state = StateReviewingOrder
	case StateFailed:
		o.state = StateSelectingPayment
		o.lastError = ""
	default:
		return o.statusLocked(), appErrors.InvalidTransitionError(string(o.state), "go back")
	}

	return o.statusLocked(), nil
}

// Cancel abandons the checkout. The cart is kept.
func (o *Orchestrator) Cancel() (Status, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateReviewingOrder, StateSelectingPayment, StateFailed:
		o.resetLocked()
		o.state = StateIdle
	default:
		return o.statusLocked(), appErrors.InvalidTransitionError(string(o.state), "cancel checkout")
	}

	return o.statusLocked(), nil
}

// Acknowledge dismisses the success screen before the delay elapses.
func (o *Orchestrator) Acknowledge() (Status, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateSuccess {
		return o.statusLocked(), appErrors.InvalidTransitionError(string(o.state), "acknowledge")
	}

	o.returnToIdleLocked()

	return o.statusLocked(), nil
}

// Submit snapshots the cart and hands it to the OrderWriter. The cart is only
// cleared when the writer reports success.
func (o *Orchestrator) Submit(ctx context.Context, method models.PaymentMethod) (Status, error) {
	if !method.Valid() {
		return o.Status(), appErrors.AddValidationError("payment_method", "must be one of cash, qr")
	}

	o.mu.Lock()

	switch o.state {
	case StateSelectingPayment, StateFailed:
	case StateSubmitting:
		status := o.statusLocked()
		o.mu.Unlock()
		return status, appErrors.SubmissionInFlightError()
	default:
		status := o.statusLocked()
		o.mu.Unlock()
		return status, appErrors.InvalidTransitionError(string(o.state), "submit")
	}

	view := o.cart.View()
	if len(view.Lines) == 0 {
		status := o.statusLocked()
		o.mu.Unlock()
		return status, appErrors.EmptyCartCheckoutError()
	}

	req := buildRequest(view, method)
	o.state = StateSubmitting
	o.method = method
	o.lastError = ""
	o.mu.Unlock()

	submitCtx, cancel := context.WithTimeout(ctx, o.submitTimeout)
	defer cancel()

	result, err := o.writer.SubmitOrder(submitCtx, req)

	o.mu.Lock()

	if err != nil || result == nil || !result.Success {
		failure := submissionFailure(err)
		o.state = StateFailed
		o.lastError = failure.Message
		status := o.statusLocked()
		o.mu.Unlock()

		o.logger.Warn("Order submission failed",
			slog.String("payment_method", string(method)),
			slog.Int64("total", req.TotalAmount),
			slog.Any("error", err))

		return status, failure
	}

	o.cart.Clear(context.WithoutCancel(ctx))

	orderID := result.OrderID
	o.orderID = &orderID
	o.state = StateSuccess
	o.scheduleAckLocked()

	status := o.statusLocked()
	observers := append([]func(models.SubmitOrderResult, int64){}, o.observers...)
	o.mu.Unlock()

	o.logger.Info("Order submitted",
		slog.String("order_id", orderID.String()),
		slog.String("payment_method", string(method)),
		slog.Int64("total", req.TotalAmount))

	for _, fn := range observers {
		fn(*result, req.TotalAmount)
	}

	return status, nil
}

// Close stops a pending acknowledgment timer.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ackTimer != nil {
		o.ackTimer.Stop()
		o.ackTimer = nil
	}
}

func buildRequest(view models.CartView, method models.PaymentMethod) *models.SubmitOrderRequest {
	lines := make([]models.OrderLineRequest, 0, len(view.Lines))
	for _, line := range view.Lines {
		lines = append(lines, models.OrderLineRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		})
	}

	return &models.SubmitOrderRequest{
		Lines:         lines,
		TotalAmount:   view.Total,
		PaymentMethod: method,
	}
}

func submissionFailure(err error) *appErrors.AppError {
	failure := appErrors.OrderSubmissionFailedError("Failed to submit order")
	if err == nil {
		return failure
	}

	if appErr, ok := appErrors.IsAppError(err); ok && appErr.Code != appErrors.ErrCodeOrderSubmissionFailed {
		failure.WithDetail(appErr.Message)
	}

	return failure.WithError(err)
}

func (o *Orchestrator) scheduleAckLocked() {
	o.generation++
	gen := o.generation

	o.ackTimer = time.AfterFunc(o.ackDelay, func() {
		o.mu.Lock()
		defer o.mu.Unlock()

		if o.state == StateSuccess && o.generation == gen {
			o.returnToIdleLocked()
		}
	})
}

func (o *Orchestrator) returnToIdleLocked() {
	o.resetLocked()
	o.state = StateIdle
}

func (o *Orchestrator) resetLocked() {
	if o.ackTimer != nil {
		o.ackTimer.Stop()
		o.ackTimer = nil
	}

	o.generation++
	o.method = ""
	o.orderID = nil
	o.lastError = ""
}

func (o *Orchestrator) statusLocked() Status {
	return Status{
		State:         o.state,
		PaymentMethod: o.method,
		OrderID:       o.orderID,
		Error:         o.lastError,
	}
}
