package image

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gift-recommender/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsplashConfig(baseURL string) config.UnsplashConfig {
	return config.UnsplashConfig{
		AccessKey:       "access",
		BaseURL:         baseURL,
		PerPage:         3,
		Orientation:     "squarish",
		Timeout:         time.Second,
		RequestsPerHour: 3600,
		Burst:           10,
	}
}

func TestUnsplashSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "silk scarf gift", q.Get("query"))
		assert.Equal(t, "access", q.Get("client_id"))
		assert.Equal(t, "squarish", q.Get("orientation"))
		assert.Equal(t, "3", q.Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"urls":{"small":"https://img/first"}},{"urls":{"small":"https://img/second"}}]}`))
	}))
	defer server.Close()

	url, err := NewUnsplashClient(unsplashConfig(server.URL)).Search(context.Background(), "silk scarf gift")
	require.NoError(t, err)
	assert.Equal(t, "https://img/first", url)
}

func TestUnsplashSearchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"no results", http.StatusOK, `{"results":[]}`, ErrNoResults},
		{"server error", http.StatusInternalServerError, `{}`, nil},
		{"bad json", http.StatusOK, `not json`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewUnsplashClient(unsplashConfig(server.URL)).Search(context.Background(), "q")
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestUnsplashSearchWithoutKey(t *testing.T) {
	cfg := unsplashConfig("http://127.0.0.1:1")
	cfg.AccessKey = ""

	_, err := NewUnsplashClient(cfg).Search(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUnsplashSearchRateLimited(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[{"urls":{"small":"https://img/x"}}]}`))
	}))
	defer server.Close()

	cfg := unsplashConfig(server.URL)
	cfg.RequestsPerHour = 1
	cfg.Burst = 1
	cfg.Timeout = 50 * time.Millisecond
	client := NewUnsplashClient(cfg)

	_, err := client.Search(context.Background(), "q")
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "q")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(1), calls.Load())
}
