package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ncobase/screener/config"
	"github.com/sony/gobreaker"
)

func TestHTTPProviderFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows": [{"code": "110001", "price": 100}]}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, &Decoder{RecordsPath: []string{"rows"}}, time.Second, nil)
	bonds, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(bonds) != 1 || bonds[0].Code != "110001" {
		t.Errorf("unexpected bonds %+v", bonds)
	}
}

func TestHTTPProviderBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, nil, time.Second, &config.Breaker{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		MaxFailures: 2,
	})

	for i := 0; i < 2; i++ {
		_, err := p.Fetch(context.Background())
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("attempt %d: expected FetchError, got %v", i, err)
		}
	}

	_, err := p.Fetch(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected open breaker, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
	if p.State() != "open" {
		t.Errorf("State() = %q, want open", p.State())
	}
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bonds.json")
	if err := os.WriteFile(path, []byte(`[{"code": "110001"}, {"code": "110002"}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	bonds, err := NewFileProvider(path, nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(bonds) != 2 {
		t.Errorf("got %d bonds, want 2", len(bonds))
	}

	_, err = NewFileProvider(filepath.Join(t.TempDir(), "missing.json"), nil).Fetch(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Errorf("expected FetchError, got %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Market
		want    string
		wantErr bool
	}{
		{"file", &config.Market{Provider: "file", File: "bonds.json"}, "file", false},
		{"http", &config.Market{Provider: "http", URL: "http://localhost"}, "http", false},
		{"http without url", &config.Market{Provider: "http"}, "", true},
		{"file without path", &config.Market{Provider: "file"}, "", true},
		{"unknown", &config.Market{Provider: "ftp"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}
