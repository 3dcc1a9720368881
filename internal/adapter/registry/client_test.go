package registry

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

func TestClient_OwnerOf(t *testing.T) {
	key := domain.NewAssetKey("0xregistry", "42")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/registries/0xregistry/tokens/42/owner", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"owner": "0xSELLER"})
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.URL, server.Client(), zerolog.Nop())

	owner, err := client.OwnerOf(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, domain.NormalizeAddress("0xseller"), owner)
}

func TestClient_OwnerOf_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.URL, server.Client(), zerolog.Nop())

	_, err := client.OwnerOf(context.Background(), domain.NewAssetKey("0xregistry", "42"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry returned 500")
}

func TestClient_IsApprovedForTransfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/registries/0xregistry/tokens/42/approval", r.URL.Path)
		assert.Equal(t, "0xmarketplace", r.URL.Query().Get("operator"))
		json.NewEncoder(w).Encode(map[string]bool{"approved": true})
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.URL, server.Client(), zerolog.Nop())

	approved, err := client.IsApprovedForTransfer(context.Background(),
		domain.NewAssetKey("0xregistry", "42"), domain.NormalizeAddress("0xmarketplace"))
	require.NoError(t, err)
	assert.True(t, approved)
}

func TestClient_TransferFrom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/registries/0xregistry/tokens/42/transfer", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0xseller", body["from"])
		assert.Equal(t, "0xbuyer", body["to"])
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.URL, server.Client(), zerolog.Nop())

	err := client.TransferFrom(context.Background(),
		domain.NormalizeAddress("0xseller"), domain.NormalizeAddress("0xbuyer"),
		domain.NewAssetKey("0xregistry", "42"))
	assert.NoError(t, err)
}

func TestClient_TransferFrom_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.URL, server.Client(), zerolog.Nop())

	err := client.TransferFrom(context.Background(),
		domain.NormalizeAddress("0xseller"), domain.NormalizeAddress("0xbuyer"),
		domain.NewAssetKey("0xregistry", "42"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry returned 409")
}
