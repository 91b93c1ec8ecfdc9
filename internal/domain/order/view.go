// internal/domain/order/view.go
package order

import (
	"context"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/auth"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
)

// StatusView is the read model behind the order success and cancellation
// pages. It is read-only except for one compensating action: landing on
// the cancellation page with an abandoned PayOS payment issues a single
// cancel-order call so the order does not stay pending forever.
type StatusView struct {
	client *backend.Client
	auth   *auth.State
	logger *logrus.Logger

	mu        sync.Mutex
	cancelled map[string]bool
}

// NewStatusView creates an order status view bound to a session
func NewStatusView(client *backend.Client, authState *auth.State, log *logrus.Logger) *StatusView {
	return &StatusView{
		client:    client,
		auth:      authState,
		logger:    log,
		cancelled: make(map[string]bool),
	}
}

// Load fetches an order for display. A missing order surfaces as
// backend.ErrNotFound for the dedicated empty-state; nothing is retried
// automatically.
func (v *StatusView) Load(ctx context.Context, orderID string) (*Order, error) {
	tok, ok := v.auth.Token()
	if !ok {
		return nil, backend.ErrUnauthenticated
	}

	var o Order
	if err := v.client.Get(ctx, "/api/orders/"+url.PathEscape(orderID), tok, &o); err != nil {
		return nil, err
	}

	if !o.TotalsConsistent() {
		v.logger.WithFields(logrus.Fields{
			"order_id":    o.ID,
			"final_total": o.FinalTotal,
		}).Warn("Order totals do not add up")
	}

	return &o, nil
}

// LoadCancelled fetches an order for the cancellation page and performs
// the compensating cancel when the payment was abandoned. The cancel is
// issued at most once per order per session; the returned order already
// reflects the cancelled status without a second fetch. A failed cancel
// is logged only and the order is returned as fetched.
func (v *StatusView) LoadCancelled(ctx context.Context, orderID string) (*Order, error) {
	o, err := v.Load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.AwaitingPayOSPayment() {
		return o, nil
	}

	v.mu.Lock()
	alreadySent := v.cancelled[o.ID]
	v.mu.Unlock()
	if alreadySent {
		o.Status = StatusCancelled
		return o, nil
	}

	if err := v.Cancel(ctx, o.ID); err != nil {
		v.logger.WithFields(logrus.Fields{
			"order_id": o.ID,
			"error":    err.Error(),
		}).Warn("Compensating order cancel failed")
		return o, nil
	}

	o.Status = StatusCancelled
	return o, nil
}

// Cancel asks upstream to cancel a still-pending order. Cancelling an
// already-cancelled order is a server-enforced no-op; the view only
// avoids re-calling after the first success.
func (v *StatusView) Cancel(ctx context.Context, orderID string) error {
	tok, ok := v.auth.Token()
	if !ok {
		return backend.ErrUnauthenticated
	}

	if err := v.client.Put(ctx, "/api/orders/"+url.PathEscape(orderID)+"/cancel", tok, nil, nil); err != nil {
		return err
	}

	v.mu.Lock()
	v.cancelled[orderID] = true
	v.mu.Unlock()

	return nil
}

// List fetches the session's order history
func (v *StatusView) List(ctx context.Context) ([]Order, error) {
	tok, ok := v.auth.Token()
	if !ok {
		return nil, backend.ErrUnauthenticated
	}

	var orders []Order
	if err := v.client.Get(ctx, "/api/orders", tok, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
