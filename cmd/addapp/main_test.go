package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appshelf/internal/catalog"
	"appshelf/internal/config"
	"appshelf/internal/storage"
	"appshelf/internal/store"
)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			var results []catalog.Entry
			if r.URL.Query().Get("term") == "gentler streak" {
				results = append(results, catalog.Entry{
					TrackID:          1536346373,
					TrackName:        "Gentler Streak: Workout Tracker",
					PrimaryGenreName: "Health & Fitness",
					Description:      "Move kindly. Rest counts.",
					ArtworkURL512:    server.URL + "/art/512x512bb.jpg",
					ScreenshotURLs:   []string{server.URL + "/shots/1.png", server.URL + "/shots/2.png"},
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"resultCount": len(results), "results": results})
		case "/art/512x512bb.jpg", "/shots/1.png", "/shots/2.png":
			_, _ = w.Write([]byte("asset"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, baseURL, format string) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		CatalogBaseURL:  baseURL,
		CatalogCountry:  "us",
		StorePath:       filepath.Join(root, "apps."+format),
		StoreFormat:     format,
		AssetsDir:       filepath.Join(root, "appstore"),
		AssetsURLPrefix: "/appstore",
		LedgerDBPath:    filepath.Join(root, "appshelf.db"),
		CopyResetDelay:  2 * time.Second,
	}
}

// execute runs the command and returns the summary output and everything cobra printed.
func execute(cfg *config.Config, args ...string) (string, string, error) {
	var out, cobraOut bytes.Buffer
	cmd := newRootCommand(cfg, &out)
	cmd.SetOut(&cobraOut)
	cmd.SetErr(&cobraOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), cobraOut.String(), err
}

func TestRootCommand_MissingFlags(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0", "json")

	_, errOut, err := execute(cfg, "--dir", "gentler")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "search" not set`)
	assert.Contains(t, errOut, "Usage:")

	_, err = os.Stat(cfg.StorePath)
	assert.True(t, os.IsNotExist(err))
}

func TestRootCommand_AddsApp(t *testing.T) {
	server := catalogServer(t)
	cfg := testConfig(t, server.URL, "json")

	out, _, err := execute(cfg, "--dir", "Gentler", "--search", "gentler streak")
	require.NoError(t, err)

	assert.Contains(t, out, `Added "Gentler Streak"`)
	assert.Contains(t, out, "Category: Health & Fitness")
	assert.Contains(t, out, "Screenshots: 2 (downloaded from the catalog)")
	assert.Contains(t, out, "App Store ID: 1536346373")

	rec, err := store.NewJSONStore(cfg.StorePath).Get("gentler")
	require.NoError(t, err)
	assert.Equal(t, "/appstore/gentler/logo.jpg", rec.Icon)

	db, err := storage.New(cfg.LedgerDBPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	runs, err := storage.NewRunRepo(db).ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, storage.RunStatusSucceeded, runs[0].Status)
}

func TestRootCommand_SourceStore(t *testing.T) {
	server := catalogServer(t)
	cfg := testConfig(t, server.URL, "ts")
	require.NoError(t, os.WriteFile(cfg.StorePath, []byte("export const apps: App[] = [\n];\n"), 0644))

	_, _, err := execute(cfg, "--dir", "gentler", "--search", "gentler streak", "--color", "123abc")
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.StorePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `id: "gentler",`)
	assert.Contains(t, string(data), `accentColor: "#123abc",`)
}

func TestRootCommand_Failures(t *testing.T) {
	server := catalogServer(t)

	t.Run("no catalog results", func(t *testing.T) {
		cfg := testConfig(t, server.URL, "json")
		_, errOut, err := execute(cfg, "--dir", "ghost", "--search", "nothing here")
		require.Error(t, err)
		assert.NotContains(t, errOut, "Usage:")
		_, statErr := os.Stat(cfg.StorePath)
		assert.True(t, os.IsNotExist(statErr), "nothing is written on failure")
	})

	t.Run("invalid color prints usage", func(t *testing.T) {
		cfg := testConfig(t, server.URL, "json")
		_, errOut, err := execute(cfg, "--dir", "gentler", "--search", "gentler streak", "--color", "blue")
		require.Error(t, err)
		assert.Contains(t, errOut, "Usage:")
	})
}
