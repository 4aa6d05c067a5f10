package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8081/", "", nil)
	require.NotNil(t, client)
	assert.Equal(t, "http://localhost:8081", client.BaseURL)
	assert.Equal(t, "us", client.Country)
	assert.NotNil(t, client.client)
}

func TestClient_Search(t *testing.T) {
	tests := []struct {
		name       string
		term       string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantID     int64
		wantErr    bool
		wantNoHits bool
	}{
		{
			name: "first result wins",
			term: "gentler streak",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search" {
					t.Errorf("expected /search, got %s", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("term") != "gentler streak" || q.Get("entity") != "software" || q.Get("limit") != "10" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				_ = json.NewEncoder(w).Encode(response{
					ResultCount: 2,
					Results: []Entry{
						{TrackID: 1, TrackName: "Gentler Streak Workout Tracker"},
						{TrackID: 2, TrackName: "Streaks"},
					},
				})
			},
			wantID: 1,
		},
		{
			name: "no results",
			term: "zzzz",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"resultCount":0,"results":[]}`))
			},
			wantErr:    true,
			wantNoHits: true,
		},
		{
			name: "server error",
			term: "anything",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantErr: true,
		},
		{
			name: "invalid json",
			term: "anything",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "us", nil)
			entry, err := client.Search(context.Background(), tt.term)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantNoHits, errors.Is(err, ErrNoResults))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, entry.TrackID)
		})
	}
}

func TestClient_Search_EmptyTerm(t *testing.T) {
	client := NewClient("http://unused.invalid", "us", nil)
	_, err := client.Search(context.Background(), "   ")
	require.Error(t, err)
}

func TestClient_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup", r.URL.Path)
		assert.Equal(t, "1,22", r.URL.Query().Get("id"))
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		_, _ = w.Write([]byte(`{"resultCount":2,"results":[{"trackId":1,"trackName":"A"},{"trackId":22,"trackName":"B"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "us", nil)
	entries, err := client.Lookup(context.Background(), []int64{1, 22})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[1].TrackName)

	none, err := client.Lookup(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEntry_IconURL(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name:  "prefers 512",
			entry: Entry{ArtworkURL512: "https://a/512x512bb.jpg", ArtworkURL100: "https://a/100x100bb.jpg"},
			want:  "https://a/512x512bb.jpg",
		},
		{
			name:  "upscales 100",
			entry: Entry{ArtworkURL100: "https://a/100x100bb.jpg"},
			want:  "https://a/512x512bb.jpg",
		},
		{
			name:  "upscales 60",
			entry: Entry{ArtworkURL60: "https://a/60x60bb.jpg"},
			want:  "https://a/512x512bb.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IconURL())
		})
	}
}

func TestCacheTransport(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("id") == "500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"resultCount":1,"results":[{"trackId":7,"trackName":"Cached"}]}`))
	}))
	defer server.Close()

	transport := NewCacheTransport(nil, 16, time.Minute)
	client := NewClient(server.URL, "us", &http.Client{Transport: transport})

	for i := 0; i < 3; i++ {
		entries, err := client.Lookup(context.Background(), []int64{7})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Cached", entries[0].TrackName)
	}
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, transport.Len())

	// Failures are not cached.
	for i := 0; i < 2; i++ {
		_, err := client.Lookup(context.Background(), []int64{500})
		require.Error(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())
}
