// internal/domain/wishlist/state.go
package wishlist

import (
	"context"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/auth"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
)

// Item is a wishlisted product
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

// OpResult is the outcome of a wishlist mutation, same fail-soft
// convention as the cart: transport failures fold into Success=false.
type OpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Items   []Item `json:"items,omitempty"`
}

// State mirrors the shopper's wishlist. De-duplication is enforced
// upstream by a unique index; the local mirror only short-circuits
// duplicate adds to save the round trip.
type State struct {
	client *backend.Client
	auth   *auth.State
	logger *logrus.Logger

	mu    sync.Mutex
	items []Item
}

// NewState creates a wishlist state holder bound to an auth state
func NewState(client *backend.Client, authState *auth.State, log *logrus.Logger) *State {
	return &State{
		client: client,
		auth:   authState,
		logger: log,
		items:  []Item{},
	}
}

// Fetch refreshes the wishlist from upstream. Failures keep the previous
// mirror and are logged only.
func (s *State) Fetch(ctx context.Context) OpResult {
	tok, ok := s.auth.Token()
	if !ok {
		return OpResult{Success: false, Message: "Please log in to view your wishlist"}
	}

	var items []Item
	if err := s.client.Get(ctx, "/api/wishlist", tok, &items); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Wishlist fetch failed")
		return OpResult{Success: false, Message: backend.UserMessage(err)}
	}

	s.replace(items)
	return OpResult{Success: true, Items: s.Items()}
}

// Add puts a product on the wishlist. Adding a product already present
// succeeds without a network call.
func (s *State) Add(ctx context.Context, productID string) OpResult {
	tok, ok := s.auth.Token()
	if !ok {
		return OpResult{Success: false, Message: "Please log in to save items"}
	}

	if s.Has(productID) {
		return OpResult{Success: true, Message: "Already in wishlist", Items: s.Items()}
	}

	var items []Item
	body := map[string]string{"productId": productID}
	if err := s.client.Post(ctx, "/api/wishlist", tok, body, &items); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": productID,
			"error":      err.Error(),
		}).Warn("Wishlist add failed")
		return OpResult{Success: false, Message: backend.UserMessage(err)}
	}

	s.replace(items)
	return OpResult{Success: true, Message: "Added to wishlist", Items: s.Items()}
}

// Remove takes a product off the wishlist; removing an absent product
// returns whatever upstream reports.
func (s *State) Remove(ctx context.Context, productID string) OpResult {
	tok, ok := s.auth.Token()
	if !ok {
		return OpResult{Success: false, Message: "Please log in to manage your wishlist"}
	}

	var items []Item
	if err := s.client.Delete(ctx, "/api/wishlist/"+url.PathEscape(productID), tok, &items); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": productID,
			"error":      err.Error(),
		}).Warn("Wishlist remove failed")
		return OpResult{Success: false, Message: backend.UserMessage(err)}
	}

	s.replace(items)
	return OpResult{Success: true, Message: "Removed from wishlist", Items: s.Items()}
}

// Toggle adds the product when absent, removes it when present
func (s *State) Toggle(ctx context.Context, productID string) OpResult {
	if s.Has(productID) {
		return s.Remove(ctx, productID)
	}
	return s.Add(ctx, productID)
}

// Has reports whether a product is on the wishlist mirror
func (s *State) Has(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the wishlist mirror
func (s *State) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Reset drops the mirror. Called on logout.
func (s *State) Reset() {
	s.mu.Lock()
	s.items = []Item{}
	s.mu.Unlock()
}

func (s *State) replace(items []Item) {
	if items == nil {
		items = []Item{}
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}
