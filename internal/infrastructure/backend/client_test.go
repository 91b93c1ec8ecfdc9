package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Upstream.BaseURL = baseURL
	cfg.Upstream.RequestTimeout = 2 * time.Second

	return NewClient(cfg, log)
}

func TestGetDecodesEnvelopeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"name":"Mojito","price":12.5}}`))
	}))
	defer srv.Close()

	var out struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	err := testClient(t, srv.URL).Get(context.Background(), "/api/products/1", "tok-123", &out)

	require.NoError(t, err)
	assert.Equal(t, "Mojito", out.Name)
	assert.Equal(t, 12.5, out.Price)
}

func TestServerRejectionPassesMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Only 3 items left in stock"}`))
	}))
	defer srv.Close()

	err := testClient(t, srv.URL).Post(context.Background(), "/api/cart/add", "tok", map[string]int{"quantity": 10}, nil)

	var sre *ServerRejectedError
	require.ErrorAs(t, err, &sre)
	assert.Equal(t, "Only 3 items left in stock", sre.Message)
	assert.Equal(t, "Only 3 items left in stock", UserMessage(err))
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"invalid token"}`))
	}))
	defer srv.Close()

	err := testClient(t, srv.URL).Get(context.Background(), "/api/cart", "stale", nil)

	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"order not found"}`))
	}))
	defer srv.Close()

	err := testClient(t, srv.URL).Get(context.Background(), "/api/orders/missing", "tok", nil)

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	// Nothing listens here; the dial fails immediately.
	err := testClient(t, "http://127.0.0.1:1").Get(context.Background(), "/api/cart", "tok", nil)

	assert.True(t, IsTransport(err))
	assert.Equal(t, "Something went wrong. Please try again.", UserMessage(err))
}

func TestNonEnvelopeBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer srv.Close()

	err := testClient(t, srv.URL).Get(context.Background(), "/api/cart", "tok", nil)

	assert.True(t, IsTransport(err))
}

func TestAnonymousRequestOmitsAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := testClient(t, srv.URL).Get(context.Background(), "/api/products", "", nil)
	assert.NoError(t, err)
}
