package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyrng/internal/meter"
)

func TestSync_SendsSnapshotWithTimestampAndBearer(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/rng/sync", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(SyncAck{ReceivedAt: 123})
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	result := client.Sync(context.Background(), meter.PlayerRngData{
		MineshaftPity: &meter.MineshaftPity{PityValue: 42},
	}, "token-1")

	require.True(t, result.Ok)
	assert.Equal(t, int64(123), result.Ack.ReceivedAt)
	assert.Equal(t, "Bearer token-1", gotAuth)
	assert.NotZero(t, gotReq["timestamp"])
	pity, ok := gotReq["mineshaftPity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(42), pity["pityValue"])
}

func TestSync_ServerErrorCarriesStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	result := client.Sync(context.Background(), meter.PlayerRngData{}, "token-1")

	assert.False(t, result.Ok)
	assert.Equal(t, http.StatusBadGateway, result.StatusCode)
	assert.NotEmpty(t, result.Err)
}

func TestSync_TransportFailure(t *testing.T) {
	client := New("http://127.0.0.1:1", nil)
	result := client.Sync(context.Background(), meter.PlayerRngData{}, "token-1")

	assert.False(t, result.Ok)
	assert.Zero(t, result.StatusCode)
	assert.NotEmpty(t, result.Err)
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/link/verify", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Ab12Cd34", body["code"])
		json.NewEncoder(w).Encode(Credential{Token: "issued-token", Username: "Steve"})
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	cred, err := client.Verify(context.Background(), "Ab12Cd34")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", cred.Token)
	assert.Equal(t, "Steve", cred.Username)
}

func TestVerify_RejectedCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown code", http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	_, err := client.Verify(context.Background(), "Ab12Cd34")
	assert.Error(t, err)
}

func TestUnlink(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/link/revoke", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	require.NoError(t, client.Unlink(context.Background(), "tok"))
	assert.Equal(t, "Bearer tok", gotAuth)
}
