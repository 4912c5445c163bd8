package line

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_PushMessage(t *testing.T) {
	var gotAuth string
	var gotBody pushRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/bot/message/push", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("channel-token", server.URL)
	err := client.PushMessage(context.Background(), "U123", "Task is due soon")
	require.NoError(t, err)

	require.Equal(t, "Bearer channel-token", gotAuth)
	require.Equal(t, "U123", gotBody.To)
	require.Len(t, gotBody.Messages, 1)
	require.Equal(t, "text", gotBody.Messages[0].Type)
	require.Equal(t, "Task is due soon", gotBody.Messages[0].Text)
}

func TestClient_PushMessage_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"monthly limit"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("channel-token", server.URL)
	err := client.PushMessage(context.Background(), "U123", "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
	require.Contains(t, err.Error(), "monthly limit")
}

func TestClient_PushMessage_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClientWithBaseURL("channel-token", server.URL)
	err := client.PushMessage(ctx, "U123", "hello")
	require.Error(t, err)
}
