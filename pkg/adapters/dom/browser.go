package dom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrNotBrowser is returned when a Condition or Action gets a driver it cannot use.
	ErrNotBrowser = errors.New("driver does not expose a DOM surface")

	// ErrNoDocument is returned when an operation needs a loaded page.
	ErrNoDocument = errors.New("no document loaded")

	// ErrFormNotFound is returned by SubmitForm when the selector matches no form.
	ErrFormNotFound = errors.New("form not found")
)

// ErrInvalidURL is returned when a reference cannot be resolved to a URL.
var ErrInvalidURL = errors.New("invalid url")

// StatusError reports an HTTP error status for a fetched page.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: received status code %d", e.Method, e.URL, e.Code)
}

// Transient reports whether retrying the fetch later may succeed.
func (e *StatusError) Transient() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// Surface is the observable side of a DOM session.
type Surface interface {
	Document() *goquery.Document
	URL() string
}

// Navigator is the acting side of a DOM session.
type Navigator interface {
	Visit(ctx context.Context, ref string) error
	Refresh(ctx context.Context) error
	SubmitForm(ctx context.Context, selector string, values map[string]string) error
}

// Browser is an HTTP-backed DOM session.
type Browser struct {
	mu        sync.RWMutex
	client    *http.Client
	base      *url.URL
	current   *url.URL
	doc       *goquery.Document
	userAgent string
	logger    *slog.Logger

	// reloadable is false when the current document answered a non-GET request.
	reloadable bool
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithHTTPClient replaces the default client. A cookie jar is attached if it has none.
func WithHTTPClient(c *http.Client) BrowserOption {
	return func(b *Browser) {
		b.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) BrowserOption {
	return func(b *Browser) {
		b.userAgent = ua
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *slog.Logger) BrowserOption {
	return func(b *Browser) {
		b.logger = logger
	}
}

// NewBrowser creates a browser rooted at baseURL. Relative references are resolved against it.
func NewBrowser(baseURL string, opts ...BrowserOption) (*Browser, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	b := &Browser{
		base:      base,
		userAgent: "waypoint/1.0",
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.client == nil {
		b.client = &http.Client{Timeout: 15 * time.Second}
	}
	if b.client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		b.client.Jar = jar
	}
	return b, nil
}

// Document returns the last loaded document, or nil.
func (b *Browser) Document() *goquery.Document {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.doc
}

// URL returns the URL of the last loaded document, or "".
func (b *Browser) URL() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return ""
	}
	return b.current.String()
}

// Visit loads ref, resolved against the current page (or the base URL).
func (b *Browser) Visit(ctx context.Context, ref string) error {
	target, err := b.resolve(ref)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return b.load(req)
}

// Refresh reloads the current page. A page obtained by a non-GET request
// (a posted form that did not redirect) is not re-requested; the document in
// hand is kept as is.
func (b *Browser) Refresh(ctx context.Context) error {
	b.mu.RLock()
	current, reloadable := b.current, b.reloadable
	b.mu.RUnlock()

	if current == nil {
		return ErrNoDocument
	}
	if !reloadable {
		b.logger.Debug("refresh skipped for non-GET page", "url", current.String())
		return nil
	}
	return b.Visit(ctx, current.String())
}

// SubmitForm fills the first form matching selector with values (on top of the
// form's own defaults) and submits it, loading the response.
func (b *Browser) SubmitForm(ctx context.Context, selector string, values map[string]string) error {
	doc := b.Document()
	if doc == nil {
		return ErrNoDocument
	}

	form := doc.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == "form"
	}).First()
	if form.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrFormNotFound, selector)
	}

	fields := url.Values{}
	form.Find("input[name], textarea[name], select[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		typ, _ := s.Attr("type")
		switch strings.ToLower(typ) {
		case "checkbox", "radio":
			if _, checked := s.Attr("checked"); !checked {
				return
			}
		case "submit", "button", "reset":
			return
		}
		switch goquery.NodeName(s) {
		case "textarea":
			fields.Set(name, s.Text())
		case "select":
			fields.Set(name, s.Find("option[selected]").First().AttrOr("value", ""))
		default:
			fields.Set(name, s.AttrOr("value", ""))
		}
	})
	for k, v := range values {
		fields.Set(k, v)
	}

	target, err := b.resolve(form.AttrOr("action", ""))
	if err != nil {
		return err
	}

	var req *http.Request
	if strings.EqualFold(form.AttrOr("method", "get"), http.MethodPost) {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(fields.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		target.RawQuery = fields.Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return b.load(req)
}

func (b *Browser) resolve(ref string) (*url.URL, error) {
	b.mu.RLock()
	from := b.base
	if b.current != nil {
		from = b.current
	}
	b.mu.RUnlock()

	u, err := from.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidURL, ref, err)
	}
	return u, nil
}

// load performs req and replaces the current document with the response.
func (b *Browser) load(req *http.Request) error {
	req.Header.Set("User-Agent", b.userAgent)

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	b.logger.Debug("page fetched",
		"method", req.Method,
		"url", resp.Request.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode >= 400 {
		return &StatusError{Method: resp.Request.Method, URL: resp.Request.URL.String(), Code: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	b.mu.Lock()
	b.doc = doc
	b.current = resp.Request.URL
	// After a 303 redirect the final request is a GET and can be reloaded.
	b.reloadable = resp.Request.Method == http.MethodGet
	b.mu.Unlock()
	return nil
}
