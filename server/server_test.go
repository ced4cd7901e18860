package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/config"
	dc "github.com/ncobase/screener/data/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bondsJSON = `[
  {"code": "110001", "name": "Alpha", "price": 105, "premium_rate": 10, "credit_rating": "AA+"},
  {"code": "110002", "name": "Beta", "price": 98, "premium_rate": "30%", "credit_rating": "AA"}
]`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	file := filepath.Join(t.TempDir(), "bonds.json")
	require.NoError(t, os.WriteFile(file, []byte(bondsJSON), 0o600))

	return &config.Config{
		AppName: "screener",
		RunMode: "test",
		Server:  &config.Server{Host: "127.0.0.1", Port: 0, RateLimit: 0},
		Data: &dc.Config{
			Database: &dc.Database{Driver: "sqlite", Source: ":memory:", Migrate: true},
		},
		Messaging: &dc.Messaging{Driver: "memory"},
		Market:    &config.Market{Provider: "file", File: file},
		Screening: &config.Screening{DefaultPageSize: 10, MaxPageSize: 100, NormalizeOnSave: true},
	}
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRejectsMissingConfig(t *testing.T) {
	_, _, err := New(context.Background(), &config.Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestServerRoutes(t *testing.T) {
	s, cleanup, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	r := s.Engine()
	assert.Same(t, r, s.Engine())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/data/bonds", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Total int `json:"total"`
		Bonds []struct {
			Code        string  `json:"code"`
			PremiumRate float64 `json:"premium_rate"`
			DoubleLow   float64 `json:"double_low"`
		} `json:"bonds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 30.0, body.Bonds[1].PremiumRate)
	assert.Equal(t, 128.0, body.Bonds[1].DoubleLow)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	var fail struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fail))
	assert.Equal(t, -404, fail.Code)
	assert.Equal(t, "route not found: /api/nowhere", fail.Message)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	s, cleanup, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewCompiler(t *testing.T) {
	c := NewCompiler(&config.Screening{MaxFormulaLength: 10})
	t.Cleanup(c.Close)

	_, err := c.Compile("price > 100 AND ytm > 1")
	assert.Error(t, err)
	_, err = c.Compile("price > 1")
	assert.NoError(t, err)
}

func TestEventTopic(t *testing.T) {
	assert.Empty(t, eventTopic(nil))
	assert.Empty(t, eventTopic(&dc.Messaging{Driver: "rabbitmq"}))
	assert.Equal(t, "bonds.screened", eventTopic(&dc.Messaging{
		Driver: "kafka",
		Kafka:  &dc.Kafka{Topic: "bonds.screened"},
	}))
}
