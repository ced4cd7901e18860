package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ncobase/screener/config"
	"github.com/sony/gobreaker"
)

// Provider fetches a full market snapshot
type Provider interface {
	Name() string
	Fetch(ctx context.Context) ([]*Bond, error)
}

// FetchError reports a failure to obtain bond data from a source
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch bond data from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewProvider creates the provider selected by cfg.Provider
func NewProvider(cfg *config.Market) (Provider, error) {
	decoder := &Decoder{RecordsPath: cfg.RecordsPath, Mapping: cfg.Mapping}

	switch cfg.Provider {
	case "http":
		if cfg.URL == "" {
			return nil, errors.New("market: url is required for the http provider")
		}
		return NewHTTPProvider(cfg.URL, decoder, cfg.Timeout, cfg.Breaker), nil
	case "file", "":
		if cfg.File == "" {
			return nil, errors.New("market: file is required for the file provider")
		}
		return NewFileProvider(cfg.File, decoder), nil
	default:
		return nil, fmt.Errorf("market: unknown provider %q", cfg.Provider)
	}
}

// HTTPProvider downloads the snapshot from a JSON endpoint behind a
// circuit breaker
type HTTPProvider struct {
	url     string
	client  *http.Client
	decoder *Decoder
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPProvider creates an HTTP provider; a nil breaker config uses
// gobreaker defaults
func NewHTTPProvider(url string, decoder *Decoder, timeout time.Duration, bc *config.Breaker) *HTTPProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if decoder == nil {
		decoder = &Decoder{}
	}

	settings := gobreaker.Settings{Name: "market:" + url}
	if bc != nil {
		maxFailures := bc.MaxFailures
		settings.MaxRequests = bc.MaxRequests
		settings.Interval = bc.Interval
		settings.Timeout = bc.Timeout
		if maxFailures > 0 {
			settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			}
		}
	}

	return &HTTPProvider{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		decoder: decoder,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Name implements Provider
func (p *HTTPProvider) Name() string {
	return "http"
}

// State returns the circuit breaker state
func (p *HTTPProvider) State() string {
	return p.breaker.State().String()
}

// Fetch implements Provider
func (p *HTTPProvider) Fetch(ctx context.Context) ([]*Bond, error) {
	body, err := p.breaker.Execute(func() (any, error) {
		return p.download(ctx)
	})
	if err != nil {
		return nil, &FetchError{Source: p.url, Err: err}
	}

	bonds, err := p.decoder.Decode(body.([]byte))
	if err != nil {
		return nil, &FetchError{Source: p.url, Err: err}
	}
	return bonds, nil
}

func (p *HTTPProvider) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FileProvider reads the snapshot from a JSON file
type FileProvider struct {
	path    string
	decoder *Decoder
}

// NewFileProvider creates a file provider
func NewFileProvider(path string, decoder *Decoder) *FileProvider {
	if decoder == nil {
		decoder = &Decoder{}
	}
	return &FileProvider{path: path, decoder: decoder}
}

// Name implements Provider
func (p *FileProvider) Name() string {
	return "file"
}

// Fetch implements Provider
func (p *FileProvider) Fetch(ctx context.Context) ([]*Bond, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: p.path, Err: err}
	}

	body, err := os.ReadFile(p.path)
	if err != nil {
		return nil, &FetchError{Source: p.path, Err: err}
	}

	bonds, err := p.decoder.Decode(body)
	if err != nil {
		return nil, &FetchError{Source: p.path, Err: err}
	}
	return bonds, nil
}
