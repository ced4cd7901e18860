package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type item struct {
	Code string `json:"code"`
}

func TestKey(t *testing.T) {
	if got := NewCache[item](nil, "screener:bonds").Key("all"); got != "screener:bonds:all" {
		t.Errorf("Key() = %q", got)
	}
	if got := NewCache[item](nil, "").Key("all"); got != "all" {
		t.Errorf("Key() = %q", got)
	}
}

func TestNilClient(t *testing.T) {
	ctx := context.Background()
	c := NewCache[item](nil, "p")

	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrNoClient) {
		t.Errorf("Get error = %v", err)
	}
	if err := c.Set(ctx, "a", &item{Code: "1"}); !errors.Is(err, ErrNoClient) {
		t.Errorf("Set error = %v", err)
	}
	if err := c.Delete(ctx, "a"); !errors.Is(err, ErrNoClient) {
		t.Errorf("Delete error = %v", err)
	}
	if _, err := c.Exists(ctx, "a"); !errors.Is(err, ErrNoClient) {
		t.Errorf("Exists error = %v", err)
	}
	if got := c.Stats().Errors; got != 4 {
		t.Errorf("Errors = %d, want 4", got)
	}
}

func TestUnreachableServer(t *testing.T) {
	rc := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rc.Close()

	c := NewCache[item](rc, "p")
	v, err := c.Get(context.Background(), "a")
	if err == nil || v != nil {
		t.Fatalf("Get = %v, %v; want error", v, err)
	}
	if c.Stats().Errors != 1 {
		t.Errorf("Errors = %d, want 1", c.Stats().Errors)
	}
}

func TestExpiration(t *testing.T) {
	if expiration(nil) != 0 {
		t.Error("expected no expiration")
	}
	if expiration([]time.Duration{time.Minute}) != time.Minute {
		t.Error("expected one minute")
	}
}
