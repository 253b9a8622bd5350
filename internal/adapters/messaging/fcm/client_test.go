package fcm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendPostsV1Message(t *testing.T) {
	var (
		gotPath string
		gotBody map[string]any
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"name":"projects/demo/messages/42"}`))
	}))
	defer ts.Close()

	c, err := NewWithHTTPClient("demo", ts.URL, ts.Client())
	require.NoError(t, err)

	name, err := c.Send(context.Background(), Message{Token: "tok", Title: "Medication Reminder", Body: "Time to take Aspirin"})
	require.NoError(t, err)
	assert.Equal(t, "projects/demo/messages/42", name)
	assert.Equal(t, "/v1/projects/demo/messages:send", gotPath)

	msg := gotBody["message"].(map[string]any)
	assert.Equal(t, "tok", msg["token"])
	n := msg["notification"].(map[string]any)
	assert.Equal(t, "Medication Reminder", n["title"])
	assert.Equal(t, "Time to take Aspirin", n["body"])
}

func TestClient_SendUnregisteredToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"NOT_FOUND"}}`, http.StatusNotFound)
	}))
	defer ts.Close()

	c, err := NewWithHTTPClient("demo", ts.URL, ts.Client())
	require.NoError(t, err)

	_, err = c.Send(context.Background(), Message{Token: "gone"})
	assert.ErrorIs(t, err, ErrUnregistered)
}

func TestClient_SendRequiresToken(t *testing.T) {
	c, err := NewWithHTTPClient("demo", "", &http.Client{})
	require.NoError(t, err)
	_, err = c.Send(context.Background(), Message{})
	assert.Error(t, err)
}

func TestNew_RequiresProject(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
