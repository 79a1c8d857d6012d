package httpx

// client.go: cliente JSON compartido por el market store y los feeds.
//
// Cada upstream tiene su propio Client con su propio rate limiter. No hay retries:
// una petición fallida se acepta tal cual y la siguiente ejecución la corrige.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 512
)

// StatusError es una respuesta HTTP fuera del rango 2xx.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// Options configura un Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration // timeout por petición (0 = 10s)
	RatePerSec float64       // 0 = sin límite
	Burst      int
	Headers    map[string]string
}

// Client es un HTTP client JSON con rate limiting.
type Client struct {
	http    *http.Client
	base    string
	limiter *rate.Limiter
	headers map[string]string
}

// New crea un Client para el base URL dado.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		if v != "" {
			headers[k] = v
		}
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		base:    strings.TrimRight(opts.BaseURL, "/"),
		limiter: rate.NewLimiter(limit, burst),
		headers: headers,
	}
}

// BaseURL devuelve el base URL sin "/" final.
func (c *Client) BaseURL() string {
	return c.base
}

// Get hace un GET a base+path y decodifica la respuesta JSON en out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post hace un POST JSON a base+path. Si out es nil el cuerpo de la respuesta se descarta.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	url := c.base + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return &StatusError{Method: method, URL: url, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
