// Package randomorg supplies secret codes from the random.org plain-text
// integer API.
package randomorg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"example.com/mastermind/internal/game"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.random.org"

type Config struct {
	BaseURL string
	// Timeout bounds each HTTP request. The game builder applies its own
	// overall deadline on top of it.
	Timeout time.Duration
	// RatePerSecond limits outbound requests; random.org asks clients not to
	// hammer the service. Zero disables the limiter.
	RatePerSecond float64
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	quota   QuotaCache
	log     *slog.Logger
}

// New returns a client. quota may be nil, in which case every supply checks
// the quota upstream.
func New(cfg Config, quota QuotaCache, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		quota:   quota,
		log:     log,
	}
}

// BitsNeeded is the quota cost of drawing codeLength integers from
// [0, numColors): each integer costs the bits needed to write numColors-1.
func BitsNeeded(codeLength, numColors int) int64 {
	return int64(codeLength) * int64(bits.Len(uint(numColors-1)))
}

// Supplier adapts the client to the game builder.
func (c *Client) Supplier(codeLength, numColors int) game.CodeSupplier {
	return game.SupplierFunc(func(ctx context.Context) ([]int, error) {
		return c.Integers(ctx, codeLength, numColors)
	})
}

// Integers draws n integers from [0, numColors) after checking that the
// remaining quota covers the request.
func (c *Client) Integers(ctx context.Context, n, numColors int) ([]int, error) {
	need := BitsNeeded(n, numColors)

	left, err := c.Quota(ctx)
	if err != nil {
		return nil, fmt.Errorf("random.org quota: %w", err)
	}
	if left < need {
		return nil, fmt.Errorf("%w: %d bits left, %d needed", game.ErrQuotaExceeded, left, need)
	}

	q := url.Values{}
	q.Set("num", strconv.Itoa(n))
	q.Set("min", "0")
	q.Set("max", strconv.Itoa(numColors-1))
	q.Set("col", "1")
	q.Set("base", "10")
	q.Set("format", "plain")
	q.Set("rnd", "new")

	body, err := c.get(ctx, "/integers/", q)
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, n)
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("random.org integers: malformed line %q: %w", line, err)
		}
		out = append(out, v)
	}

	if c.quota != nil {
		if err := c.quota.Consume(ctx, need); err != nil {
			c.log.Warn("quota cache consume failed", "err", err)
		}
	}
	c.log.Debug("random.org integers", "num", n, "max", numColors-1, "bits", need)
	return out, nil
}

// Quota returns the remaining bit allowance, from the cache when possible.
func (c *Client) Quota(ctx context.Context) (int64, error) {
	if c.quota != nil {
		bits, ok, err := c.quota.Get(ctx)
		if err != nil {
			c.log.Warn("quota cache read failed", "err", err)
		} else if ok {
			return bits, nil
		}
	}

	q := url.Values{}
	q.Set("format", "plain")
	body, err := c.get(ctx, "/quota/", q)
	if err != nil {
		return 0, err
	}
	bits, err := strconv.ParseInt(strings.TrimSpace(body), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("random.org quota: malformed body %q: %w", body, err)
	}

	if c.quota != nil {
		if err := c.quota.Set(ctx, bits); err != nil {
			c.log.Warn("quota cache write failed", "err", err)
		}
	}
	c.log.Debug("random.org quota", "bits", bits)
	return bits, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("random.org rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("random.org %s: %w", path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("random.org %s: read body: %w", path, err)
	}
	body := string(b)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(body)
		if strings.Contains(strings.ToLower(msg), "quota") {
			return "", fmt.Errorf("%w: %s", game.ErrQuotaExceeded, msg)
		}
		return "", fmt.Errorf("random.org %s: status %d: %s", path, resp.StatusCode, msg)
	}
	return body, nil
}
