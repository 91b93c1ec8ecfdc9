package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/auth"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
	"github.com/sunflower003/cocktail-miami-storefront/internal/pkg/token"
)

// orderUpstream serves a single order and counts fetches and cancels
type orderUpstream struct {
	mu          sync.Mutex
	status      Status
	isPaid      bool
	method      PaymentMethod
	fetchCalls  int
	cancelCalls int
}

func (u *orderUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/orders/ord-1":
		u.fetchCalls++
		fmt.Fprintf(w, `{"success":true,"data":{
			"id":"ord-1","status":%q,"isPaid":%t,"paymentMethod":%q,
			"totalPrice":40,"shippingFee":5,"tax":3.2,"finalTotal":48.2}}`,
			u.status, u.isPaid, u.method)
	case r.Method == http.MethodPut && r.URL.Path == "/api/orders/ord-1/cancel":
		u.cancelCalls++
		u.status = StatusCancelled
		w.Write([]byte(`{"success":true,"message":"Order cancelled"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"order not found"}`))
	}
}

func (u *orderUpstream) counts() (int, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.fetchCalls, u.cancelCalls
}

func viewToken(t *testing.T) string {
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

func newTestView(t *testing.T, tok string, upstream http.Handler) *StatusView {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Upstream.BaseURL = srv.URL
	cfg.Upstream.RequestTimeout = 2 * time.Second

	client := backend.NewClient(cfg, log)
	return NewStatusView(client, auth.NewState(client, log, tok), log)
}

func TestLoadReturnsOrder(t *testing.T) {
	upstream := &orderUpstream{status: StatusProcessing, isPaid: true, method: PaymentMethodPayOS}
	view := newTestView(t, viewToken(t), upstream)

	o, err := view.Load(context.Background(), "ord-1")

	require.NoError(t, err)
	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, StatusProcessing, o.Status)
	assert.True(t, o.TotalsConsistent())
}

func TestLoadMissingOrder(t *testing.T) {
	upstream := &orderUpstream{}
	view := newTestView(t, viewToken(t), upstream)

	_, err := view.Load(context.Background(), "ord-missing")

	assert.True(t, errors.Is(err, backend.ErrNotFound))
}

func TestLoadUnauthenticated(t *testing.T) {
	view := newTestView(t, "", &orderUpstream{})

	_, err := view.Load(context.Background(), "ord-1")

	assert.True(t, errors.Is(err, backend.ErrUnauthenticated))
}

func TestLoadCancelledCompensatesAbandonedPayment(t *testing.T) {
	upstream := &orderUpstream{status: StatusPending, isPaid: false, method: PaymentMethodPayOS}
	view := newTestView(t, viewToken(t), upstream)

	o, err := view.LoadCancelled(context.Background(), "ord-1")

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status, "returned order reflects the cancel without a refetch")

	fetches, cancels := upstream.counts()
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 1, cancels)
}

func TestLoadCancelledIsExactlyOnce(t *testing.T) {
	upstream := &orderUpstream{status: StatusPending, isPaid: false, method: PaymentMethodPayOS}
	view := newTestView(t, viewToken(t), upstream)

	_, err := view.LoadCancelled(context.Background(), "ord-1")
	require.NoError(t, err)
	_, err = view.LoadCancelled(context.Background(), "ord-1")
	require.NoError(t, err)

	_, cancels := upstream.counts()
	assert.Equal(t, 1, cancels, "revisiting the cancellation page must not re-cancel")
}

func TestLoadCancelledLeavesPaidOrderAlone(t *testing.T) {
	upstream := &orderUpstream{status: StatusPending, isPaid: true, method: PaymentMethodPayOS}
	view := newTestView(t, viewToken(t), upstream)

	o, err := view.LoadCancelled(context.Background(), "ord-1")

	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	_, cancels := upstream.counts()
	assert.Equal(t, 0, cancels)
}

func TestLoadCancelledLeavesCODOrderAlone(t *testing.T) {
	upstream := &orderUpstream{status: StatusPending, isPaid: false, method: PaymentMethodCOD}
	view := newTestView(t, viewToken(t), upstream)

	o, err := view.LoadCancelled(context.Background(), "ord-1")

	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	_, cancels := upstream.counts()
	assert.Equal(t, 0, cancels)
}

func TestAwaitingPayOSPayment(t *testing.T) {
	awaiting := Order{Status: StatusPending, IsPaid: false, PaymentMethod: PaymentMethodPayOS}
	assert.True(t, awaiting.AwaitingPayOSPayment())

	paid := awaiting
	paid.IsPaid = true
	assert.False(t, paid.AwaitingPayOSPayment())

	cod := awaiting
	cod.PaymentMethod = PaymentMethodCOD
	assert.False(t, cod.AwaitingPayOSPayment())

	shipped := awaiting
	shipped.Status = StatusShipped
	assert.False(t, shipped.AwaitingPayOSPayment())
}

func TestTotalsConsistent(t *testing.T) {
	good := Order{TotalPrice: 40, ShippingFee: 5, Tax: 3.2, FinalTotal: 48.2}
	assert.True(t, good.TotalsConsistent())

	bad := good
	bad.FinalTotal = 50
	assert.False(t, bad.TotalsConsistent())
}
