package checkout

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/auth"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/cart"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/order"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/pricing"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
	"github.com/sunflower003/cocktail-miami-storefront/internal/pkg/token"
)

// fakeUpstream scripts the order endpoint and records every create-order
// payload it receives. The cart endpoint serves a fixed one-line cart so
// cart-mode submissions pass the empty guard.
type fakeUpstream struct {
	mu           sync.Mutex
	orderCalls   []map[string]interface{}
	orderHandler func(w http.ResponseWriter)
	cartEmpty    bool
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/orders" && r.Method == http.MethodPost:
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		f.mu.Lock()
		f.orderCalls = append(f.orderCalls, payload)
		handler := f.orderHandler
		f.mu.Unlock()
		handler(w)
	case r.URL.Path == "/api/cart":
		if f.cartEmpty {
			w.Write([]byte(`{"success":true,"data":{"items":[],"totalItems":0,"totalAmount":0}}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{
			"items":[{"product":{"id":"p1","name":"Mojito","price":20,"stock":10},"quantity":2,"price":20}],
			"totalItems":2,"totalAmount":40}}`))
	case r.URL.Path == "/api/settings/shipping":
		w.Write([]byte(`{"success":true,"data":{"freeShippingThreshold":50,"shippingFee":5,"taxRate":0.08}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"not found"}`))
	}
}

func (f *fakeUpstream) orderCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orderCalls)
}

func (f *fakeUpstream) idempotencyKey(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, _ := f.orderCalls[i]["idempotencyKey"].(string)
	return key
}

func sessionToken(t *testing.T) string {
	t.Helper()

	claims := &token.Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func newTestFlow(t *testing.T, tok string, upstream *fakeUpstream) (*Flow, *cart.State) {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Upstream.BaseURL = srv.URL
	cfg.Upstream.RequestTimeout = 2 * time.Second
	cfg.Session.CartCacheTTL = time.Minute
	cfg.Payment.QRSize = 256
	cfg.Shipping.FreeShippingThreshold = 50
	cfg.Shipping.ShippingFee = 5
	cfg.Shipping.TaxRate = 0.08

	client := backend.NewClient(cfg, log)
	authState := auth.NewState(client, log, tok)
	redisClient := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	cartState := cart.NewState(client, authState, redisClient, cfg, log)
	shipping := pricing.NewProvider(client, redisClient, cfg, log)

	return NewFlow(client, authState, cartState, shipping, cfg, log), cartState
}

func validRequest() SubmitRequest {
	return SubmitRequest{
		UseCartItems: true,
		ShippingAddress: order.ShippingAddress{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Address:   "1 Ocean Drive",
			City:      "Miami",
			State:     "FL",
			ZipCode:   "33139",
			Phone:     "305-555-0100",
		},
		PaymentMethod: order.PaymentMethodCOD,
	}
}

func TestSubmitEmptyCartRejectsBeforeNetwork(t *testing.T) {
	upstream := &fakeUpstream{cartEmpty: true}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	result := flow.Submit(context.Background(), validRequest())

	assert.False(t, result.Success)
	assert.Equal(t, "Your cart is empty", result.Message)
	assert.Equal(t, 0, upstream.orderCallCount())
	assert.Equal(t, StateIdle, flow.State())
}

func TestSubmitMissingFieldsRejectsBeforeNetwork(t *testing.T) {
	upstream := &fakeUpstream{}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	req := validRequest()
	req.ShippingAddress.City = "   "
	result := flow.Submit(context.Background(), req)

	assert.False(t, result.Success)
	assert.Equal(t, "Please fill in all required fields", result.Message)
	assert.Equal(t, 0, upstream.orderCallCount())
}

func TestSubmitInvalidPaymentMethod(t *testing.T) {
	upstream := &fakeUpstream{}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	req := validRequest()
	req.PaymentMethod = "paypal"
	result := flow.Submit(context.Background(), req)

	assert.False(t, result.Success)
	assert.Equal(t, "Please select a valid payment method", result.Message)
	assert.Equal(t, 0, upstream.orderCallCount())
}

func TestSubmitDirectBuyWithoutItems(t *testing.T) {
	upstream := &fakeUpstream{}
	flow, _ := newTestFlow(t, sessionToken(t), upstream)

	req := validRequest()
	req.UseCartItems = false
	req.Items = nil
	result := flow.Submit(context.Background(), req)

	assert.False(t, result.Success)
	assert.Equal(t, "There is nothing to check out", result.Message)
	assert.Equal(t, 0, upstream.orderCallCount())
}

func TestSubmitUnauthenticated(t *testing.T) {
	upstream := &fakeUpstream{}
	flow, _ := newTestFlow(t, "", upstream)

	result := flow.Submit(context.Background(), validRequest())

	assert.False(t, result.Success)
	assert.Equal(t, "Please log in to place an order", result.Message)
	assert.Equal(t, 0, upstream.orderCallCount())
}

func TestSubmitCODConfirms(t *testing.T) {
	upstream := &fakeUpstream{orderHandler: func(w http.ResponseWriter) {
		w.Write([]byte(`{"success":true,"data":{"order":{
			"id":"ord-1","status":"pending","paymentMethod":"cod",
			"totalPrice":40,"shippingFee":5,"tax":3.2,"finalTotal":48.2}}}`))
	}}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	result := flow.Submit(context.Background(), validRequest())

	require.True(t, result.Success)
	assert.Equal(t, StateConfirmed, result.State)
	require.NotNil(t, result.Order)
	assert.Equal(t, "ord-1", result.Order.ID)
	assert.Empty(t, result.PaymentURL)
	assert.Equal(t, StateConfirmed, flow.State())
}

func TestSubmitPayOSRedirectsWithQR(t *testing.T) {
	upstream := &fakeUpstream{orderHandler: func(w http.ResponseWriter) {
		w.Write([]byte(`{"success":true,"data":{"paymentUrl":"https://pay.example.com/link/abc"}}`))
	}}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	req := validRequest()
	req.PaymentMethod = order.PaymentMethodPayOS
	result := flow.Submit(context.Background(), req)

	require.True(t, result.Success)
	assert.Equal(t, StateRedirecting, result.State)
	assert.Equal(t, "https://pay.example.com/link/abc", result.PaymentURL)
	assert.NotEmpty(t, result.PaymentQR)
	assert.Nil(t, result.Order)
}

func TestSubmitPayOSMissingPaymentURLFails(t *testing.T) {
	upstream := &fakeUpstream{orderHandler: func(w http.ResponseWriter) {
		w.Write([]byte(`{"success":true,"data":{}}`))
	}}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	req := validRequest()
	req.PaymentMethod = order.PaymentMethodPayOS
	result := flow.Submit(context.Background(), req)

	assert.False(t, result.Success)
	assert.Equal(t, "Payment gateway did not return a payment URL", result.Message)
	assert.Equal(t, StateIdle, flow.State())
}

func TestSubmitRejectionSurfacedVerbatimAndFormPreserved(t *testing.T) {
	upstream := &fakeUpstream{orderHandler: func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Some items are no longer in stock"}`))
	}}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	req := validRequest()
	result := flow.Submit(context.Background(), req)

	assert.False(t, result.Success)
	assert.Equal(t, "Some items are no longer in stock", result.Message)
	assert.Equal(t, StateIdle, flow.State())
	assert.Equal(t, req.ShippingAddress, flow.Form().ShippingAddress)
}

func TestIdempotencyKeySurvivesFailedRetry(t *testing.T) {
	failing := true
	upstream := &fakeUpstream{}
	upstream.orderHandler = func(w http.ResponseWriter) {
		if failing {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`upstream down`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"order":{"id":"ord-1","status":"pending","paymentMethod":"cod"}}}`))
	}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	require.False(t, flow.Submit(context.Background(), validRequest()).Success)
	failing = false
	require.True(t, flow.Submit(context.Background(), validRequest()).Success)

	require.Equal(t, 2, upstream.orderCallCount())
	assert.NotEmpty(t, upstream.idempotencyKey(0))
	assert.Equal(t, upstream.idempotencyKey(0), upstream.idempotencyKey(1), "retry after failure must reuse the key")
}

func TestIdempotencyKeyRotatesAfterSuccess(t *testing.T) {
	upstream := &fakeUpstream{orderHandler: func(w http.ResponseWriter) {
		w.Write([]byte(`{"success":true,"data":{"order":{"id":"ord-1","status":"pending","paymentMethod":"cod"}}}`))
	}}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	require.True(t, flow.Submit(context.Background(), validRequest()).Success)
	require.True(t, flow.Submit(context.Background(), validRequest()).Success)

	require.Equal(t, 2, upstream.orderCallCount())
	assert.NotEqual(t, upstream.idempotencyKey(0), upstream.idempotencyKey(1), "a new order must mint a new key")
}

func TestSubmitWhileSubmissionInFlightRejected(t *testing.T) {
	release := make(chan struct{})
	upstream := &fakeUpstream{}
	upstream.orderHandler = func(w http.ResponseWriter) {
		<-release
		w.Write([]byte(`{"success":true,"data":{"order":{"id":"ord-1","status":"pending","paymentMethod":"cod"}}}`))
	}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	done := make(chan SubmitResult, 1)
	go func() {
		done <- flow.Submit(context.Background(), validRequest())
	}()
	require.Eventually(t, func() bool {
		return flow.State() == StateSubmitting
	}, time.Second, 5*time.Millisecond)

	second := flow.Submit(context.Background(), validRequest())
	assert.False(t, second.Success)
	assert.Equal(t, "Order submission already in progress", second.Message)

	close(release)
	first := <-done
	assert.True(t, first.Success)
	assert.Equal(t, 1, upstream.orderCallCount())
}

func TestQuoteMatchesSharedCalculator(t *testing.T) {
	upstream := &fakeUpstream{}
	flow, cartState := newTestFlow(t, sessionToken(t), upstream)
	require.True(t, cartState.FetchCart(context.Background()).Success)

	quote := flow.Quote(context.Background())

	assert.Equal(t, 40.0, quote.Subtotal)
	assert.Equal(t, 5.0, quote.ShippingFee)
	assert.Equal(t, 3.20, quote.Tax)
	assert.Equal(t, 48.20, quote.Total)
}
