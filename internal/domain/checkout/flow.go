// internal/domain/checkout/flow.go
package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/auth"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/cart"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/order"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/pricing"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
)

// FlowState is the checkout state machine position
type FlowState string

const (
	StateIdle        FlowState = "idle"
	StateValidating  FlowState = "validating"
	StateSubmitting  FlowState = "submitting"
	StateRedirecting FlowState = "redirecting"
	StateConfirmed   FlowState = "confirmed"
	StateFailed      FlowState = "failed"
)

// DirectItem is a "buy now" line submitted without touching the stored
// cart. It is supplied by the caller (router state in the original UI);
// when absent on a direct-buy submission the flow reports an empty
// checkout instead of crashing.
type DirectItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// SubmitRequest is a checkout submission: either the live cart
// (UseCartItems) or a direct-buy item list, plus address and payment
// method.
type SubmitRequest struct {
	UseCartItems    bool                  `json:"useCartItems"`
	Items           []DirectItem          `json:"items,omitempty"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   order.PaymentMethod   `json:"paymentMethod"`
}

// SubmitResult is the outcome of a submission. Exactly one of Order
// (cod path) or PaymentURL (payos path) is set on success.
type SubmitResult struct {
	Success    bool         `json:"success"`
	State      FlowState    `json:"state"`
	Message    string       `json:"message,omitempty"`
	Order      *order.Order `json:"order,omitempty"`
	PaymentURL string       `json:"paymentUrl,omitempty"`
	PaymentQR  []byte       `json:"paymentQr,omitempty"`
}

// Flow orchestrates checkout: validate the shipping form, submit the
// order upstream, and hand back either a confirmation or the gateway
// redirect. Failed submissions return to idle with the form preserved
// for retry.
type Flow struct {
	client   *backend.Client
	auth     *auth.State
	cart     *cart.State
	shipping *pricing.Provider
	config   *config.Config
	logger   *logrus.Logger

	mu      sync.Mutex
	state   FlowState
	form    SubmitRequest
	idemKey string
}

// NewFlow creates a checkout flow bound to a session
func NewFlow(client *backend.Client, authState *auth.State, cartState *cart.State, shipping *pricing.Provider, cfg *config.Config, log *logrus.Logger) *Flow {
	return &Flow{
		client:   client,
		auth:     authState,
		cart:     cartState,
		shipping: shipping,
		config:   cfg,
		logger:   log,
		state:    StateIdle,
	}
}

// createOrderRequest is the upstream order creation payload. The
// idempotency key survives retry cycles so a resubmitted form cannot
// double-create an order.
type createOrderRequest struct {
	UseCartItems    bool                  `json:"useCartItems"`
	Items           []DirectItem          `json:"items,omitempty"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   order.PaymentMethod   `json:"paymentMethod"`
	IdempotencyKey  string                `json:"idempotencyKey"`
}

// createOrderResponse is the upstream order creation result
type createOrderResponse struct {
	Order      *order.Order `json:"order,omitempty"`
	PaymentURL string       `json:"paymentUrl,omitempty"`
}

// State returns the current state machine position
func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns the last submitted form data, preserved across failures
func (f *Flow) Form() SubmitRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Quote derives the checkout pricing preview from the current cart and
// the live shipping config. It shares the cart view's calculator, so the
// two can never show different totals.
func (f *Flow) Quote(ctx context.Context) pricing.Quote {
	cfg := f.shipping.ShippingConfig(ctx)
	return pricing.Calculate(f.cart.Snapshot().Subtotal(), cfg)
}

// Submit runs the full checkout: Validating, then Submitting, then
// Redirecting (payos), Confirmed (cod), or Failed back to Idle.
// Validation failures and the empty-cart guard reject before any network
// call is made.
func (f *Flow) Submit(ctx context.Context, req SubmitRequest) SubmitResult {
	tok, ok := f.auth.Token()
	if !ok {
		return f.fail("Please log in to place an order")
	}

	if !f.enter(req) {
		return SubmitResult{Success: false, State: StateSubmitting, Message: "Order submission already in progress"}
	}

	if msg := f.validate(req); msg != "" {
		return f.fail(msg)
	}

	f.setState(StateSubmitting)

	f.mu.Lock()
	if f.idemKey == "" {
		f.idemKey = uuid.NewString()
	}
	key := f.idemKey
	f.mu.Unlock()

	payload := createOrderRequest{
		UseCartItems:    req.UseCartItems,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		IdempotencyKey:  key,
	}

	var resp createOrderResponse
	if err := f.client.Post(ctx, "/api/orders", tok, payload, &resp); err != nil {
		f.logger.WithFields(logrus.Fields{
			"payment_method": req.PaymentMethod,
			"error":          err.Error(),
		}).Warn("Order submission failed")
		return f.fail(backend.UserMessage(err))
	}

	switch req.PaymentMethod {
	case order.PaymentMethodPayOS:
		if resp.PaymentURL == "" {
			return f.fail("Payment gateway did not return a payment URL")
		}
		f.finish(StateRedirecting)
		return SubmitResult{
			Success:    true,
			State:      StateRedirecting,
			PaymentURL: resp.PaymentURL,
			PaymentQR:  f.paymentQR(resp.PaymentURL),
		}

	default: // cod
		if resp.Order == nil {
			return f.fail("Order confirmation was not returned")
		}
		f.finish(StateConfirmed)
		f.resyncCart(ctx, req)
		return SubmitResult{
			Success: true,
			State:   StateConfirmed,
			Order:   resp.Order,
		}
	}
}

// Private helper methods

// enter moves the settled states into Validating and stores the form.
// A false return means a submission is already running; Validating
// counts so a concurrent call cannot overwrite the form mid-flight.
func (f *Flow) enter(req SubmitRequest) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting || f.state == StateValidating {
		return false
	}
	f.state = StateValidating
	f.form = req
	return true
}

// validate checks the required fields and the item source. Returns an
// empty string when the submission may proceed.
func (f *Flow) validate(req SubmitRequest) string {
	addr := req.ShippingAddress
	required := map[string]string{
		"first name": addr.FirstName,
		"last name":  addr.LastName,
		"address":    addr.Address,
		"city":       addr.City,
		"state":      addr.State,
		"zip code":   addr.ZipCode,
		"phone":      addr.Phone,
	}
	var missing []string
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "Please fill in all required fields"
	}

	if !req.PaymentMethod.Valid() {
		return "Please select a valid payment method"
	}

	if req.UseCartItems {
		if f.cart.Snapshot().IsEmpty() {
			return "Your cart is empty"
		}
		return ""
	}

	if len(req.Items) == 0 {
		return "There is nothing to check out"
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			return "There is nothing to check out"
		}
	}
	return ""
}

// fail records a failure and settles back to Idle, keeping the form
func (f *Flow) fail(message string) SubmitResult {
	f.mu.Lock()
	f.state = StateIdle
	f.mu.Unlock()

	return SubmitResult{Success: false, State: StateFailed, Message: message}
}

// finish records a terminal success state and retires the idempotency key
func (f *Flow) finish(state FlowState) {
	f.mu.Lock()
	f.state = state
	f.idemKey = ""
	f.mu.Unlock()
}

func (f *Flow) setState(state FlowState) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
}

// resyncCart refreshes the cart after a cart-based order; upstream has
// already emptied it. Failures are logged only.
func (f *Flow) resyncCart(ctx context.Context, req SubmitRequest) {
	if !req.UseCartItems {
		return
	}
	if res := f.cart.FetchCart(ctx); !res.Success {
		f.logger.WithField("message", res.Message).Debug("Cart resync after order failed")
	}
}

// paymentQR renders the gateway payment URL as a PNG QR code. Shoppers
// on another device scan it instead of following the redirect. A render
// failure drops the QR, never the payment.
func (f *Flow) paymentQR(paymentURL string) []byte {
	png, err := qrcode.Encode(paymentURL, qrcode.Medium, f.config.Payment.QRSize)
	if err != nil {
		f.logger.WithField("error", err.Error()).Warn("Failed to render payment QR code")
		return nil
	}
	return png
}
