// Package hotelbeds talks to the Hotelbeds booking and content APIs.
package hotelbeds

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
)

const (
	serviceName      = "hotelbeds"
	availabilityPath = "/hotel-api/1.0/hotels"
	contentPath      = "/hotel-content-api/1.0/hotels"

	// DefaultMaxInFlight stays under the provider's concurrent-request quota.
	DefaultMaxInFlight = 45
	DefaultFields      = "all"
	DefaultLanguage    = "ENG"

	maxBodyBytes  = 32 << 20
	maxErrorBytes = 4096
)

var errInvalidJSON = errors.New("response is not valid json")

type Options struct {
	BaseURL     string
	APIKey      string
	Secret      string
	Language    string
	Fields      string
	RPS         int
	MaxInFlight int
	Timeout     time.Duration
}

type Client struct {
	base   string
	hc     *http.Client
	key    string
	secret string
	lang   string
	fields string
	rl     *rate.Limiter
	sem    *semaphore.Weighted
	now    func() time.Time
}

func New(o Options) (*Client, error) {
	if o.APIKey == "" || o.Secret == "" {
		return nil, fmt.Errorf("hotelbeds: API key and secret are required")
	}
	if o.BaseURL == "" {
		return nil, fmt.Errorf("hotelbeds: base URL is required")
	}
	if o.RPS <= 0 {
		o.RPS = 8
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = DefaultMaxInFlight
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Fields == "" {
		o.Fields = DefaultFields
	}
	return &Client{
		base:   strings.TrimRight(o.BaseURL, "/"),
		hc:     &http.Client{Timeout: o.Timeout},
		key:    o.APIKey,
		secret: o.Secret,
		lang:   o.Language,
		fields: o.Fields,
		rl:     rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
		sem:    semaphore.NewWeighted(int64(o.MaxInFlight)),
		now:    time.Now,
	}, nil
}

// Signature is hex(sha256(key + secret + unix seconds)), valid for a few minutes.
func Signature(key, secret string, unix int64) string {
	sum := sha256.Sum256([]byte(key + secret + strconv.FormatInt(unix, 10)))
	return hex.EncodeToString(sum[:])
}

type availabilityBody struct {
	Stay        stay          `json:"stay"`
	Occupancies []occupancy   `json:"occupancies"`
	Destination *destination  `json:"destination,omitempty"`
	Hotels      *hotelsFilter `json:"hotels,omitempty"`
}

type stay struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

type occupancy struct {
	Rooms    int `json:"rooms"`
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type destination struct {
	Code string `json:"code"`
}

type hotelsFilter struct {
	Hotel []any `json:"hotel"`
}

// Availability posts an availability search and returns the body untouched.
func (c *Client) Availability(ctx context.Context, req domain.AvailabilityRequest) (domain.RawAvailabilityDocument, error) {
	body := availabilityBody{
		Stay:        stay{CheckIn: req.CheckIn, CheckOut: req.CheckOut},
		Occupancies: []occupancy{{Rooms: req.Rooms, Adults: req.Adults, Children: req.Children}},
	}
	if req.Destination != "" {
		body.Destination = &destination{Code: req.Destination}
	}
	if len(req.HotelCodes) > 0 {
		body.Hotels = &hotelsFilter{Hotel: hotelCodes(req.HotelCodes)}
	}
	b, err := c.do(ctx, http.MethodPost, "availability", c.base+availabilityPath, body)
	if err != nil {
		return nil, err
	}
	return domain.RawAvailabilityDocument(b), nil
}

// HotelContent fetches static content for one batch of codes.
func (c *Client) HotelContent(ctx context.Context, codes []string) ([]map[string]any, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("fields", c.fields)
	q.Set("codes", strings.Join(codes, ","))
	q.Set("language", c.lang)
	q.Set("from", "1")
	q.Set("to", strconv.Itoa(len(codes)))
	q.Set("useSecondaryLanguage", "false")

	b, err := c.do(ctx, http.MethodGet, "content", c.base+contentPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: content response: %v", domain.ErrMalformedDocument, err)
	}
	raw, ok := doc["hotels"]
	if !ok || raw == nil {
		return []map[string]any{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: content hotels is %T, want array", domain.ErrMalformedDocument, raw)
	}
	out := make([]map[string]any, 0, len(list))
	for _, it := range list {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// do performs one signed call. It holds an admission slot for the whole round
// trip and never retries; retry policy belongs to the caller.
func (c *Client) do(ctx context.Context, method, endpoint, u string, payload any) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)
	observability.ProviderInFlight.Inc()
	defer observability.ProviderInFlight.Dec()

	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-key", c.key)
	req.Header.Set("X-Signature", Signature(c.key, c.secret, c.now().Unix()))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-finder/1.0")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(serviceName, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.ProviderError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal(serviceName, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, &domain.ProviderError{
			Service:    serviceName,
			Status:     resp.StatusCode,
			RawBody:    strings.TrimSpace(string(b)),
			RetryAfter: retryAfter(resp),
		}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.ProviderError{Service: serviceName, Status: resp.StatusCode, Err: err}
	}
	if !json.Valid(b) {
		snippet := b
		if len(snippet) > maxErrorBytes {
			snippet = snippet[:maxErrorBytes]
		}
		return nil, &domain.ProviderError{Service: serviceName, Status: resp.StatusCode, RawBody: string(snippet), Err: errInvalidJSON}
	}
	return b, nil
}

// hotelCodes sends numeric codes as numbers, which is what the API expects.
func hotelCodes(codes []string) []any {
	out := make([]any, 0, len(codes))
	for _, c := range codes {
		if n, err := strconv.Atoi(c); err == nil {
			out = append(out, n)
			continue
		}
		out = append(out, c)
	}
	return out
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
