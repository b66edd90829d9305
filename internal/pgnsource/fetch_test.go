package pgnsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoad_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.pgn")
	if err := os.WriteFile(path, []byte(twoGamesPGN), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := Load(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != twoGamesPGN {
		t.Fatalf("unexpected file contents")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.pgn"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(twoGamesPGN))
	}))
	defer srv.Close()

	f := NewFetcher(WithTimeout(5*time.Second), WithRetry(3))
	data, err := Load(context.Background(), srv.URL+"/games.pgn", f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != twoGamesPGN {
		t.Fatalf("unexpected body")
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestFetcher_NotFoundIsFinal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewFetcher(WithRetry(3)).Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 404")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("404 should not be retried, got %d calls", n)
	}
}

func TestIsRemote(t *testing.T) {
	if !IsRemote("HTTPS://example.com/a.pgn") || IsRemote("games/a.pgn") {
		t.Fatalf("IsRemote misclassified input")
	}
}
