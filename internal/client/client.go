// Package client is the caller side of the handwash API.  It posts
// observations and fetches stats, turning any transport failure into an
// *Error with a localized message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/iliyamo/handwash-service/internal/model"
)

// Default base URLs.  The Android emulator reaches the host loopback via
// 10.0.2.2.
const (
	AndroidDevURL = "http://10.0.2.2:3000/api"
	LocalDevURL   = "http://localhost:3000/api"
	ProductionURL = "https://handwash-backend.onrender.com/api"

	// BaseURLEnv overrides the base URL when no explicit value is given.
	BaseURLEnv = "HANDWASH_API_URL"
)

// Options configures a Client.  The zero value talks to ProductionURL in
// English with http.DefaultClient.
type Options struct {
	BaseURL    string       // explicit override, wins over everything
	Dev        bool         // use the platform local default instead of production
	GOOS       string       // platform for the dev default; runtime.GOOS when empty
	Locale     string       // "en" or "th"
	HTTPClient *http.Client // transport; http.DefaultClient when nil
	Logger     *log.Logger  // diagnostic log for transport causes; log.Default() when nil
}

// Client calls the submit and stats endpoints.
type Client struct {
	baseURL  string
	http     *http.Client
	messages Messages
	logger   *log.Logger
}

// Response is the decoded JSON envelope returned by the service.  Data is
// left raw; use DecodeData or the typed helpers to read it.
type Response struct {
	Status     string          `json:"status"`
	Message    string          `json:"message,omitempty"`
	InsertedID int64           `json:"insertedId,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Timestamp  string          `json:"timestamp,omitempty"`
}

// OK reports whether the server answered with a success envelope.
func (r *Response) OK() bool { return r.Status == "success" }

// DecodeData unmarshals Data into v.
func (r *Response) DecodeData(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(r.Data, v)
}

// ResolveBaseURL applies the precedence: explicit override, then the
// HANDWASH_API_URL environment variable, then the platform local default
// in dev mode, then the production URL.
func ResolveBaseURL(opts Options) string {
	if opts.BaseURL != "" {
		return strings.TrimRight(opts.BaseURL, "/")
	}
	if v := os.Getenv(BaseURLEnv); v != "" {
		return strings.TrimRight(v, "/")
	}
	if opts.Dev {
		goos := opts.GOOS
		if goos == "" {
			goos = runtime.GOOS
		}
		if goos == "android" {
			return AndroidDevURL
		}
		return LocalDevURL
	}
	return ProductionURL
}

// New creates a Client from opts.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:  ResolveBaseURL(opts),
		http:     hc,
		messages: MessagesFor(opts.Locale),
		logger:   logger,
	}
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Submit posts one observation to /submit and returns the parsed body.
// Error envelopes (400/500) are returned as a Response, not an error; only
// transport failures produce an *Error.
func (c *Client) Submit(ctx context.Context, in model.SubmitInput) (*Response, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, c.fail(OpSubmit, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit", bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(OpSubmit, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(OpSubmit, req)
}

// FetchStats gets /stats and returns the parsed body.
func (c *Client) FetchStats(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats", nil)
	if err != nil {
		return nil, c.fail(OpFetchStats, err)
	}
	return c.do(OpFetchStats, req)
}

// Stats fetches /stats and decodes the grouped counts.
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	resp, err := c.FetchStats(ctx)
	if err != nil {
		return stats, err
	}
	if !resp.OK() {
		return stats, fmt.Errorf("stats: %s", resp.Message)
	}
	if err := resp.DecodeData(&stats); err != nil {
		return stats, c.fail(OpFetchStats, err)
	}
	return stats, nil
}

func (c *Client) do(op Op, req *http.Request) (*Response, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(op, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.fail(op, err)
	}
	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, c.fail(op, fmt.Errorf("decode %d response: %w", res.StatusCode, err))
	}
	return &out, nil
}

func (c *Client) fail(op Op, cause error) error {
	c.logger.Printf("handwash client: %s failed: %v", op, cause)
	return &Error{Op: op, Message: c.messages.For(op), cause: cause}
}
