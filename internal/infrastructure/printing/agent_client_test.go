package printing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lcree/backend/internal/application/production"
	"github.com/lcree/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentClient_PrintLabels(t *testing.T) {
	t.Run("posts labels to the print endpoint", func(t *testing.T) {
		var received printJob
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/print-label", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewAgentClient(config.PrintConfig{AgentURL: server.URL, Timeout: 2 * time.Second})
		labels := []production.Label{
			{UID: "A1B2C3D4E5", FragranceName: "Aventus", ContainerName: "Parfum 50ml", QRURL: "https://lcree.example.com/p/A1B2C3D4E5"},
		}
		err := client.PrintLabels(context.Background(), labels)
		require.NoError(t, err)
		require.Len(t, received.Labels, 1)
		assert.Equal(t, "A1B2C3D4E5", received.Labels[0].UID)
	})

	t.Run("trailing slash on agent URL is tolerated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/print-label", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewAgentClient(config.PrintConfig{AgentURL: server.URL + "/", Timeout: 2 * time.Second})
		err := client.PrintLabels(context.Background(), []production.Label{{UID: "XXXXXXXXXX"}})
		assert.NoError(t, err)
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "printer offline", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewAgentClient(config.PrintConfig{AgentURL: server.URL, Timeout: 2 * time.Second})
		err := client.PrintLabels(context.Background(), []production.Label{{UID: "XXXXXXXXXX"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "printer offline")
	})

	t.Run("unreachable agent is an error", func(t *testing.T) {
		client := NewAgentClient(config.PrintConfig{AgentURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
		err := client.PrintLabels(context.Background(), []production.Label{{UID: "XXXXXXXXXX"}})
		assert.Error(t, err)
	})

	t.Run("empty label batch is a no-op", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))
		defer server.Close()

		client := NewAgentClient(config.PrintConfig{AgentURL: server.URL, Timeout: 2 * time.Second})
		err := client.PrintLabels(context.Background(), nil)
		assert.NoError(t, err)
		assert.Zero(t, calls)
	})
}

func TestNoopPrinter(t *testing.T) {
	err := NoopPrinter{}.PrintLabels(context.Background(), []production.Label{{UID: "XXXXXXXXXX"}})
	assert.NoError(t, err)
}
