package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/events/react-summit-2025", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Event fetched successfully","event":{"title":"React Summit 2025","slug":"react-summit-2025","date":"2025-11-15","time":"09:00","tags":["react"]}}`))
	})
	mux.HandleFunc("/api/v1/events/react-summit-2025/similar", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"events":[{"slug":"vue-conf"}]}`))
	})
	mux.HandleFunc("/api/v1/events/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Failed to fetch event"}`))
	})
	mux.HandleFunc("/api/v1/events/garbled", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	mux.HandleFunc("/api/v1/events/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"event not found"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Event(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL+"/", nil)

	event, err := client.Event(context.Background(), " React-Summit-2025 ")

	require.NoError(t, err)
	assert.Equal(t, "React Summit 2025", event.Title)
	assert.Equal(t, "09:00", event.Time)
}

func TestClient_EventNotFoundIsDistinct(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, srv.Client())

	_, err := client.Event(context.Background(), "Does-Not-Exist")
	assert.ErrorIs(t, err, models.ErrEventNotFound)
	assert.EqualError(t, err, "Event with slug 'does-not-exist' not found")

	_, err = client.Event(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrEventNotFound)
	assert.Contains(t, err.Error(), "status 500")

	_, err = client.Event(context.Background(), "garbled")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrEventNotFound)

	_, err = client.Event(context.Background(), "  ")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestClient_SimilarEvents(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, nil)

	events, err := client.SimilarEvents(context.Background(), "react-summit-2025")

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "vue-conf", events[0].Slug)
}

func TestClient_Unreachable(t *testing.T) {
	srv := newTestServer(t)
	srv.Close()
	client := NewClient(srv.URL, nil)

	_, err := client.Event(context.Background(), "react-summit-2025")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrEventNotFound)
}
