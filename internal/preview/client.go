// Package preview fetches product pages and pulls a quick summary out of
// them: OpenGraph and price metadata plus a markdown rendition of the body.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"storefront-wizard/internal/model"
)

const maxBodyBytes = 5 << 20

type Config struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
	UserAgent         string
	MaxMarkdownChars  int
}

func DefaultConfig() Config {
	return Config{
		Timeout:           10 * time.Second,
		RequestsPerSecond: 2,
		MaxRetries:        3,
		UserAgent:         "Mozilla/5.0 (compatible; storefront-wizard/1.0)",
		MaxMarkdownChars:  12000,
	}
}

// Page is one fetched product page.
type Page struct {
	URL      string
	Preview  model.Preview
	Markdown string
}

type Client struct {
	cfg       Config
	http      *http.Client
	limiter   *rate.Limiter
	group     singleflight.Group
	converter *md.Converter
	retryWait time.Duration
	log       *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRetryWait sets the first backoff interval between attempts.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryWait = d
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.MaxMarkdownChars <= 0 {
		cfg.MaxMarkdownChars = def.MaxMarkdownChars
	}
	c := &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		converter: md.NewConverter("", true, nil),
		retryWait: 500 * time.Millisecond,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPreview is the best-effort summary call used while a storefront is
// being generated.
func (c *Client) FetchPreview(ctx context.Context, rawURL string) (model.Preview, error) {
	page, err := c.FetchPage(ctx, rawURL)
	if err != nil {
		return model.Preview{URL: rawURL}, err
	}
	return page.Preview, nil
}

// FetchPage downloads and extracts a product page. Concurrent calls for the
// same URL share one request. The shared request does not belong to any one
// caller: a caller whose ctx ends gets ctx.Err() and stops sharing, while the
// others keep waiting for the page.
func (c *Client) FetchPage(ctx context.Context, rawURL string) (Page, error) {
	target := RequestURL(rawURL)
	if target == "" {
		return Page{}, errors.New("empty url")
	}
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	ch := c.group.DoChan(target, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchBudget())
		defer cancel()
		return c.fetch(fetchCtx, target)
	})
	select {
	case <-ctx.Done():
		c.group.Forget(target)
		return Page{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Page{}, res.Err
		}
		if res.Shared {
			c.log.Debug("page fetch shared", zap.String("url", target))
		}
		return res.Val.(Page), nil
	}
}

// fetchBudget bounds a shared fetch once every caller has gone away.
func (c *Client) fetchBudget() time.Duration {
	return c.cfg.Timeout * time.Duration(c.cfg.MaxRetries+1)
}

func (c *Client) fetch(ctx context.Context, target string) (Page, error) {
	started := time.Now()
	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		body, err := c.get(ctx, target)
		if err == nil {
			return body, nil
		}
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && !httpErr.Retryable() {
			return nil, backoff.Permanent(err)
		}
		if errors.Is(err, ErrNotHTML) || ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		c.log.Debug("page fetch attempt failed",
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.MaxRetries)), ctx)

	body, err := backoff.RetryWithData[[]byte](op, policy)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", target, err)
	}

	p, markdown, err := Extract(target, body, c.converter)
	if err != nil {
		return Page{}, err
	}
	c.log.Debug("page fetched",
		zap.String("url", target),
		zap.Int("bytes", len(body)),
		zap.Int("attempts", attempt),
		zap.Duration("elapsed", time.Since(started)),
	)
	return Page{URL: target, Preview: p, Markdown: truncateRunes(markdown, c.cfg.MaxMarkdownChars)}, nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: target}
	}
	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, contentType)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", contentType, err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// RequestURL gives a scheme-less product link the https scheme needed to
// request it. The stored link is left as it was.
func RequestURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return "https://" + strings.TrimPrefix(s, "//")
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
