package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"liquidity-ticker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestWeiHexToGwei(t *testing.T) {
	cases := map[string]float64{
		"0x3B9ACA00":  1.0,
		"0x3b9aca00":  1.0,
		"0x0":         0,
		"0x4a817c800": 20.0,
		"0x1":         1e-9,
	}
	for in, want := range cases {
		got, err := WeiHexToGwei(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-12, in)
	}
}

func TestWeiHexToGweiRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "3B9ACA00", "0x", "0xzz"} {
		_, err := WeiHexToGwei(in)
		assert.Error(t, err, in)
	}
}

func newRPCServer(t *testing.T, result any, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eth_gasPrice", req.Method)

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
}

func TestGasProviderFetchGasPrice(t *testing.T) {
	srv := newRPCServer(t, "0x3B9ACA00", http.StatusOK)
	defer srv.Close()

	provider := NewGasProvider(trace.NewNoopTracerProvider().Tracer("test"), "", srv.URL)
	gwei, err := provider.FetchGasPrice(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, gwei, 1e-12)
}

func TestGasProviderFailures(t *testing.T) {
	cases := map[string]*httptest.Server{
		"http 500":    newRPCServer(t, nil, http.StatusInternalServerError),
		"null result": newRPCServer(t, nil, http.StatusOK),
		"bad hex":     newRPCServer(t, "not-hex", http.StatusOK),
	}
	for name, srv := range cases {
		t.Run(name, func(t *testing.T) {
			defer srv.Close()
			provider := NewGasProvider(trace.NewNoopTracerProvider().Tracer("test"), "", srv.URL)
			_, err := provider.FetchGasPrice(context.Background())
			require.Error(t, err)
			source, ok := domain.IsDataUnavailable(err)
			assert.True(t, ok)
			assert.Equal(t, domain.SourceGas, source)
		})
	}
}

func TestNewGasProviderBuildsAlchemyURL(t *testing.T) {
	provider := NewGasProvider(trace.NewNoopTracerProvider().Tracer("test"), "abc123", "")
	assert.Equal(t, "https://eth-mainnet.alchemyapi.io/v2/abc123", provider.rpcURL)
}
