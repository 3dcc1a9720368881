package settlement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"asset-marketplace/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Pay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transfers", r.URL.Path)

		var body struct {
			To     string `json:"to"`
			Amount uint64 `json:"amount"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0xseller", body.To)
		assert.Equal(t, uint64(5000), body.Amount)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.URL, server.Client(), zerolog.Nop())

	err := client.Pay(context.Background(), domain.NormalizeAddress("0xseller"), 5000)
	assert.NoError(t, err)
}

func TestClient_Pay_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.URL, server.Client(), zerolog.Nop())

	err := client.Pay(context.Background(), domain.NormalizeAddress("0xseller"), 5000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settlement returned 502")
}
