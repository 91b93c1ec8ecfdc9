// internal/domain/cart/state.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/auth"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
)

// State is the single source of truth for a shopper's cart and the only
// component authorized to mutate it. Every mutation calls upstream and
// replaces the local snapshot with the server's returned cart; there is
// no optimistic local mutation, so the snapshot can never diverge from
// server truth. The last-known snapshot is mirrored into Redis so a
// fresh session seeds without an upstream round trip.
type State struct {
	client      *backend.Client
	auth        *auth.State
	redisClient *redis.Client
	config      *config.Config
	logger      *logrus.Logger

	mu       sync.Mutex
	snapshot Snapshot
	inflight map[string]bool
}

// NewState creates a cart state holder bound to an auth state. The
// snapshot starts empty; Seed or FetchCart populates it.
func NewState(client *backend.Client, authState *auth.State, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *State {
	return &State{
		client:      client,
		auth:        authState,
		redisClient: redisClient,
		config:      cfg,
		logger:      log,
		snapshot:    Empty(),
		inflight:    make(map[string]bool),
	}
}

// addItemRequest is the upstream add-to-cart payload
type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// updateItemRequest is the upstream update-quantity payload
type updateItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Seed loads the cached snapshot from Redis, if any. Cache misses and
// decode failures leave the snapshot empty; the cache is advisory.
func (s *State) Seed(ctx context.Context) {
	userID, ok := s.auth.UserID()
	if !ok {
		return
	}

	data, err := s.redisClient.Get(ctx, s.cacheKey(userID)).Result()
	if err != nil {
		return
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Discarding undecodable cached cart")
		return
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
}

// FetchCart refreshes the snapshot from upstream. Requires an
// authenticated session. On failure the previous snapshot is left
// untouched and the error is logged only — the shopper sees stale data
// rather than an error page.
func (s *State) FetchCart(ctx context.Context) OpResult {
	tok, ok := s.auth.Token()
	if !ok {
		return notAuthenticated()
	}

	if !s.begin("fetch") {
		return busy()
	}
	defer s.end("fetch")

	var snapshot Snapshot
	if err := s.client.Get(ctx, "/api/cart", tok, &snapshot); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Cart fetch failed, keeping previous snapshot")
		return OpResult{Success: false, Message: backend.UserMessage(err)}
	}

	s.replace(ctx, snapshot)
	return s.ok("Cart refreshed")
}

// AddItem adds quantity of a product to the cart. Stock and duplicate
// handling are delegated entirely to the upstream response; its message
// is surfaced verbatim on rejection.
func (s *State) AddItem(ctx context.Context, productID string, quantity int) OpResult {
	tok, ok := s.auth.Token()
	if !ok {
		return notAuthenticated()
	}
	if quantity < 1 {
		quantity = 1
	}

	if !s.begin("add:" + productID) {
		return busy()
	}
	defer s.end("add:" + productID)

	var snapshot Snapshot
	req := addItemRequest{ProductID: productID, Quantity: quantity}
	if err := s.client.Post(ctx, "/api/cart/add", tok, req, &snapshot); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": productID,
			"error":      err.Error(),
		}).Warn("Add to cart failed")
		return OpResult{Success: false, Message: backend.UserMessage(err)}
	}

	s.replace(ctx, snapshot)
	return s.ok("Item added to cart")
}

// UpdateItemQuantity sets the quantity of a cart line. The floor lives
// here, not in the caller: zero routes to RemoveItem and negatives are
// rejected outright. Stock ceilings are enforced upstream and the
// rejection message passes through verbatim, never silently clamped.
func (s *State) UpdateItemQuantity(ctx context.Context, productID string, quantity int) OpResult {
	if quantity < 0 {
		return OpResult{Success: false, Message: "Quantity cannot be negative"}
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, productID)
	}

	tok, ok := s.auth.Token()
	if !ok {
		return notAuthenticated()
	}

	if !s.begin("update:" + productID) {
		return busy()
	}
	defer s.end("update:" + productID)

	var snapshot Snapshot
	req := updateItemRequest{ProductID: productID, Quantity: quantity}
	if err := s.client.Put(ctx, "/api/cart/update", tok, req, &snapshot); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": productID,
			"quantity":   quantity,
			"error":      err.Error(),
		}).Warn("Cart quantity update failed")
		return OpResult{Success: false, Message: backend.UserMessage(err)}
	}

	s.replace(ctx, snapshot)
	return s.ok("Cart updated")
}

// RemoveItem removes a product from the cart. Removing an absent item
// returns whatever upstream reports, so the operation is idempotent from
// the caller's perspective.
func (s *State) RemoveItem(ctx context.Context, productID string) OpResult {
	tok, ok := s.auth.Token()
	if !ok {
		return notAuthenticated()
	}

	if !s.begin("remove:" + productID) {
		return busy()
	}
	defer s.end("remove:" + productID)

	var snapshot Snapshot
	path := "/api/cart/remove/" + url.PathEscape(productID)
	if err := s.client.Delete(ctx, path, tok, &snapshot); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": productID,
			"error":      err.Error(),
		}).Warn("Cart item removal failed")
		return OpResult{Success: false, Message: backend.UserMessage(err)}
	}

	s.replace(ctx, snapshot)
	return s.ok("Item removed from cart")
}

// Clear empties the cart. Confirmation is a UI policy, not enforced here.
func (s *State) Clear(ctx context.Context) OpResult {
	tok, ok := s.auth.Token()
	if !ok {
		return notAuthenticated()
	}

	if !s.begin("clear") {
		return busy()
	}
	defer s.end("clear")

	var snapshot Snapshot
	if err := s.client.Delete(ctx, "/api/cart/clear", tok, &snapshot); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Cart clear failed")
		return OpResult{Success: false, Message: backend.UserMessage(err)}
	}

	s.replace(ctx, snapshot)
	return s.ok("Cart cleared")
}

// Reset drops the local snapshot and its cache entry. Called on logout.
func (s *State) Reset(ctx context.Context) {
	userID, hasUser := s.auth.UserID()

	s.mu.Lock()
	s.snapshot = Empty()
	s.mu.Unlock()

	if hasUser {
		if err := s.redisClient.Del(ctx, s.cacheKey(userID)).Err(); err != nil {
			s.logger.WithField("error", err.Error()).Warn("Failed to drop cached cart")
		}
	}
}

// Derived getters — pure reads over the current snapshot, no network.

// Snapshot returns a copy of the current snapshot
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Line, len(s.snapshot.Items))
	copy(items, s.snapshot.Items)

	return Snapshot{
		Items:       items,
		TotalItems:  s.snapshot.TotalItems,
		TotalAmount: s.snapshot.TotalAmount,
	}
}

// ItemCount returns the total quantity across all lines
func (s *State) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.snapshot.Items {
		count += line.Quantity
	}
	return count
}

// IsInCart reports whether a product is present in the cart
func (s *State) IsInCart(productID string) bool {
	return s.QuantityOf(productID) > 0
}

// QuantityOf returns the quantity of a product in the cart, 0 if absent
func (s *State) QuantityOf(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.snapshot.Items {
		if line.Product.ID == productID {
			return line.Quantity
		}
	}
	return 0
}

// Private helper methods

// begin marks an action in flight; a false return means the same action
// is already running and the duplicate must be dropped. This reproduces
// the per-control re-entrancy guard, scoped per action rather than as a
// global lock.
func (s *State) begin(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[action] {
		return false
	}
	s.inflight[action] = true
	return true
}

func (s *State) end(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, action)
}

// replace swaps in the server's snapshot and mirrors it to the cache
func (s *State) replace(ctx context.Context, snapshot Snapshot) {
	if snapshot.Items == nil {
		snapshot.Items = []Line{}
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	userID, ok := s.auth.UserID()
	if !ok {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, s.cacheKey(userID), data, s.config.Session.CartCacheTTL).Err(); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to cache cart snapshot")
	}
}

func (s *State) ok(message string) OpResult {
	snapshot := s.Snapshot()
	return OpResult{Success: true, Message: message, Cart: &snapshot}
}

func (s *State) cacheKey(userID string) string {
	return fmt.Sprintf("storefront:cart:%s", userID)
}

func notAuthenticated() OpResult {
	return OpResult{Success: false, Message: "Please log in to manage your cart"}
}

func busy() OpResult {
	return OpResult{Success: false, Message: "Previous request still in progress"}
}
