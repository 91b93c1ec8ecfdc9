// internal/domain/session/session.go
package session

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/auth"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/cart"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/checkout"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/order"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/pricing"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/wishlist"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
)

// Session aggregates one shopper's state holders. It is the Go analog of
// the SPA's context providers: populated when a token appears, torn down
// on logout or expiry. Each holder is explicitly injected, never looked
// up ambiently.
type Session struct {
	Auth     *auth.State
	Cart     *cart.State
	Checkout *checkout.Flow
	Wishlist *wishlist.State
	Orders   *order.StatusView
}

// Deps are the shared collaborators every session is built from
type Deps struct {
	Client      *backend.Client
	RedisClient *redis.Client
	Shipping    *pricing.Provider
	Config      *config.Config
	Logger      *logrus.Logger
}

// New builds a session around a bearer token. An empty token yields an
// anonymous session; every auth-gated holder then short-circuits. The
// cart seeds from its cache so a returning shopper sees their last
// snapshot without an upstream round trip.
func New(ctx context.Context, deps Deps, tok string) *Session {
	authState := auth.NewState(deps.Client, deps.Logger, tok)
	cartState := cart.NewState(deps.Client, authState, deps.RedisClient, deps.Config, deps.Logger)
	cartState.Seed(ctx)

	return &Session{
		Auth:     authState,
		Cart:     cartState,
		Checkout: checkout.NewFlow(deps.Client, authState, cartState, deps.Shipping, deps.Config, deps.Logger),
		Wishlist: wishlist.NewState(deps.Client, authState, deps.Logger),
		Orders:   order.NewStatusView(deps.Client, authState, deps.Logger),
	}
}

// Logout tears the session state down: upstream notified, token and
// cart snapshot dropped.
func (s *Session) Logout(ctx context.Context) {
	s.Cart.Reset(ctx)
	s.Wishlist.Reset()
	s.Auth.Logout(ctx)
}
