// Package cart holds the in-progress order of a terminal. Every mutation is
// written through to a Persister so the cart survives restarts.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	appErrors "github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/models"
)

const snapshotVersion = 1

// Persister is the durable storage behind a Store. Load returns nil data and
// a nil error when nothing has been saved yet.
type Persister interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

type snapshot struct {
	Version int               `json:"version"`
	Lines   []models.CartLine `json:"lines"`
}

type Store struct {
	mu        sync.Mutex
	lines     []models.CartLine
	persister Persister
	logger    *slog.Logger
}

// NewStore rehydrates the cart from the persister. Missing or invalid data
// yields an empty cart. A failing persister is an error: starting empty would
// overwrite the saved cart on the next mutation.
func NewStore(ctx context.Context, persister Persister, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{persister: persister, logger: logger}

	data, err := persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted cart: %w", err)
	}

	if data == nil {
		return s, nil
	}

	lines, err := Decode(data)
	if err != nil {
		logger.Warn("Discarding persisted cart", slog.Any("error", err))
		s.persist(ctx)
		return s, nil
	}

	s.lines = lines
	logger.Debug("Cart rehydrated", slog.Int("lines", len(lines)))

	return s, nil
}

// Decode parses and validates a serialized cart.
func Decode(data []byte) ([]models.CartLine, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, appErrors.InvalidCartStateError("Persisted cart is not valid JSON").WithError(err)
	}

	seen := make(map[int64]struct{}, len(snap.Lines))
	lines := make([]models.CartLine, 0, len(snap.Lines))

	for i, line := range snap.Lines {
		switch {
		case line.ProductID <= 0:
			return nil, appErrors.InvalidCartStateError(fmt.Sprintf("line %d has no product", i))
		case line.Quantity < 1:
			return nil, appErrors.InvalidCartStateError(fmt.Sprintf("line %d has quantity %d", i, line.Quantity))
		case line.UnitPrice < 0:
			return nil, appErrors.InvalidCartStateError(fmt.Sprintf("line %d has negative price", i))
		}

		if _, dup := seen[line.ProductID]; dup {
			return nil, appErrors.InvalidCartStateError(fmt.Sprintf("product %d appears twice", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}

		lines = append(lines, line)
	}

	return lines, nil
}

// Encode serializes lines in the persisted format.
func Encode(lines []models.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []models.CartLine{}
	}

	return json.Marshal(snapshot{Version: snapshotVersion, Lines: lines})
}

// Add increments the line for product or appends a new one at quantity 1,
// snapshotting the current price. Stock is not checked.
func (s *Store) Add(ctx context.Context, product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  1,
			UnitPrice: product.Price,
		})
	}

	s.persist(ctx)
}

// UpdateQuantity sets the quantity exactly. Anything below 1 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) {
	if quantity < 1 {
		s.Remove(ctx, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}

	s.lines[i].Quantity = quantity
	s.persist(ctx)
}

func (s *Store) Remove(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}

	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persist(ctx)
}

func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return total(s.lines)
}

// Lines returns a copy in display order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.CartLine{}, s.lines...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lines)
}

// View returns lines and total read under one lock.
func (s *Store) View() models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.CartView{
		Lines: append([]models.CartLine{}, s.lines...),
		Total: total(s.lines),
	}
}

func (s *Store) indexOf(productID int64) int {
	for i, line := range s.lines {
		if line.ProductID == productID {
			return i
		}
	}

	return -1
}

// persist must be called with mu held. Storage is best-effort.
func (s *Store) persist(ctx context.Context) {
	data, err := Encode(s.lines)
	if err != nil {
		s.logger.Error("Failed to encode cart", slog.Any("error", err))
		return
	}

	if err := s.persister.Save(ctx, data); err != nil {
		s.logger.Warn("Failed to persist cart", slog.Any("error", err))
	}
}

func total(lines []models.CartLine) int64 {
	var sum int64
	for _, line := range lines {
		sum += line.Subtotal()
	}

	return sum
}
