package dom

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aretw0/waypoint/pkg/domain"
)

// Snapshot is a fixed, already-parsed page. It satisfies Surface and is
// handy for offline evaluation of recorded pages.
type Snapshot struct {
	doc *goquery.Document
	url string
}

// NewSnapshot parses r as HTML.
func NewSnapshot(r io.Reader, pageURL string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Snapshot{doc: doc, url: pageURL}, nil
}

func (s *Snapshot) Document() *goquery.Document { return s.doc }
func (s *Snapshot) URL() string                 { return s.url }

// observe runs fn against the driver's current document.
// No document loaded yet means "not ready", not an error.
func observe(d domain.Driver, fn func(doc *goquery.Document, pageURL string) bool) (bool, error) {
	s, ok := d.(Surface)
	if !ok {
		return false, ErrNotBrowser
	}
	doc := s.Document()
	if doc == nil {
		return false, nil
	}
	return fn(doc, s.URL()), nil
}

// Visible is ready when selector matches at least one element that is not hidden.
func Visible(selector string) domain.Page {
	return domain.ConditionFunc(func(_ context.Context, d domain.Driver) (bool, error) {
		return observe(d, func(doc *goquery.Document, _ string) bool {
			found := false
			doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if !hidden(s) {
					found = true
					return false
				}
				return true
			})
			return found
		})
	})
}

// TitleContains is ready when the document title contains substr.
func TitleContains(substr string) domain.Page {
	return domain.ConditionFunc(func(_ context.Context, d domain.Driver) (bool, error) {
		return observe(d, func(doc *goquery.Document, _ string) bool {
			title := strings.TrimSpace(doc.Find("title").First().Text())
			return strings.Contains(title, substr)
		})
	})
}

// TextContains is ready when the normalized text of any element matching
// selector contains substr. An empty selector means the whole body.
func TextContains(selector, substr string) domain.Page {
	if selector == "" {
		selector = "body"
	}
	return domain.ConditionFunc(func(_ context.Context, d domain.Driver) (bool, error) {
		return observe(d, func(doc *goquery.Document, _ string) bool {
			found := false
			doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				text := strings.Join(strings.Fields(s.Text()), " ")
				found = strings.Contains(text, substr)
				return !found
			})
			return found
		})
	})
}

// URLContains is ready when the current page URL contains substr.
func URLContains(substr string) domain.Page {
	return domain.ConditionFunc(func(_ context.Context, d domain.Driver) (bool, error) {
		return observe(d, func(_ *goquery.Document, pageURL string) bool {
			return strings.Contains(pageURL, substr)
		})
	})
}

// Refreshing reloads the current page before evaluating c, for surfaces that
// only change server side. A transient fetch failure (transport error, 5xx,
// 429) counts as "not ready yet"; any other failure is returned.
// Pages reached by a posted form are evaluated without reloading.
func Refreshing(c domain.Condition) domain.Page {
	return domain.ConditionFunc(func(ctx context.Context, d domain.Driver) (bool, error) {
		nav, ok := d.(Navigator)
		if !ok {
			return false, ErrNotBrowser
		}
		if err := nav.Refresh(ctx); err != nil {
			if transient(err) {
				return false, nil
			}
			return false, err
		}
		return domain.Evaluate(ctx, c, d)
	})
}

// transient reports whether a refresh failure may go away on the next pass:
// a retryable status or a transport error. Bad URLs, unparsable pages and
// cancellation are not.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrInvalidURL) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Transient()
	}
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr)
}

func hidden(s *goquery.Selection) bool {
	for n := s; n.Length() > 0; n = n.Parent() {
		if _, ok := n.Attr("hidden"); ok {
			return true
		}
		style := strings.ReplaceAll(strings.ToLower(n.AttrOr("style", "")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
	}
	return goquery.NodeName(s) == "input" && strings.EqualFold(s.AttrOr("type", ""), "hidden")
}
