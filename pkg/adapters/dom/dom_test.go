package dom_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aretw0/waypoint/pkg/adapters/dom"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `<html><head><title>Sign in</title></head><body>
<form id="login" method="post" action="/session">
  <input type="hidden" name="csrf" value="tok-1">
  <input type="text" name="user" value="">
  <input type="password" name="password">
  <input type="checkbox" name="remember" value="1">
  <input type="submit" name="go" value="Sign in">
</form>
<div class="alert" hidden>Bad credentials</div>
</body></html>`

// newSite serves a tiny login flow: /login -> POST /session -> /home.
func newSite(t *testing.T) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var lastForm atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginPage)
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		lastForm.Store(r.PostForm)
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc"})
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	})
	mux.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err != nil || c.Value != "abc" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		fmt.Fprint(w, `<html><head><title>Home - Billing</title></head><body><h1>Welcome   back</h1></body></html>`)
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &lastForm
}

func ready(t *testing.T, c domain.Condition, d domain.Driver) bool {
	t.Helper()
	ok, err := c.Ready(context.Background(), d)
	require.NoError(t, err)
	return ok
}

func TestBrowser_LoginFlow(t *testing.T) {
	srv, lastForm := newSite(t)
	b, err := dom.NewBrowser(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, ready(t, dom.Visible("form#login"), b), "nothing loaded yet")

	require.NoError(t, dom.VisitAction("/login")(ctx, b, nil))
	assert.True(t, ready(t, dom.Visible("form#login"), b))
	assert.False(t, ready(t, dom.Visible(".alert"), b), "hidden elements are not visible")
	assert.True(t, ready(t, dom.TitleContains("Sign"), b))
	assert.True(t, ready(t, dom.URLContains("/login"), b))

	require.NoError(t, dom.Submit("form#login", map[string]string{"user": "demo", "password": "pw"})(ctx, b, nil))

	form := lastForm.Load().(url.Values)
	assert.Equal(t, []string{"tok-1"}, form["csrf"], "form defaults are kept")
	assert.Equal(t, []string{"demo"}, form["user"])
	assert.NotContains(t, form, "remember", "unchecked boxes are not sent")
	assert.NotContains(t, form, "go")

	assert.True(t, ready(t, dom.TitleContains("Home"), b))
	assert.True(t, ready(t, dom.TextContains("h1", "Welcome back"), b))
	assert.True(t, ready(t, dom.URLContains("/home"), b))
}

func TestBrowser_SubmitErrors(t *testing.T) {
	srv, _ := newSite(t)
	b, err := dom.NewBrowser(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, b.SubmitForm(ctx, "form", nil), dom.ErrNoDocument)

	require.NoError(t, b.Visit(ctx, "/login"))
	assert.ErrorIs(t, b.SubmitForm(ctx, "form#missing", nil), dom.ErrFormNotFound)
}

func TestBrowser_StatusError(t *testing.T) {
	srv, _ := newSite(t)
	b, err := dom.NewBrowser(srv.URL)
	require.NoError(t, err)

	err = b.Visit(context.Background(), "/flaky")
	var status *dom.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusServiceUnavailable, status.Code)
	assert.True(t, status.Transient())
}

func TestNewBrowser_InvalidURL(t *testing.T) {
	_, err := dom.NewBrowser("not a url")
	assert.Error(t, err)
}

func TestRefreshing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		switch {
		case n == 2:
			w.WriteHeader(http.StatusBadGateway)
		case n >= 3:
			fmt.Fprint(w, `<html><body><p class="status">Statement ready</p></body></html>`)
		default:
			fmt.Fprint(w, `<html><body><p class="status">Processing</p></body></html>`)
		}
	}))
	defer srv.Close()

	b, err := dom.NewBrowser(srv.URL)
	require.NoError(t, err)
	require.NoError(t, b.Visit(context.Background(), "/statement"))

	cond := dom.Refreshing(dom.TextContains(".status", "ready"))
	assert.False(t, ready(t, cond, b), "502 while refreshing is not ready yet")
	assert.True(t, ready(t, cond, b))
	assert.Equal(t, int32(3), hits.Load())
}

func TestConditions_WrongDriver(t *testing.T) {
	for _, c := range []domain.Condition{
		dom.Visible("a"), dom.TitleContains("x"), dom.TextContains("", "x"), dom.URLContains("x"), dom.Refreshing(nil),
	} {
		_, err := c.Ready(context.Background(), "not a browser")
		assert.ErrorIs(t, err, dom.ErrNotBrowser)
	}
	assert.ErrorIs(t, dom.VisitAction("/")(context.Background(), 42, nil), dom.ErrNotBrowser)
	assert.ErrorIs(t, dom.Submit("form", nil)(context.Background(), 42, nil), dom.ErrNotBrowser)
}

func TestSnapshot_Conditions(t *testing.T) {
	snap, err := dom.NewSnapshot(strings.NewReader(`<html><head><title>Invoices</title></head><body>
		<div style="display: none" id="spinner">Loading</div>
		<table id="bills"><tr><td>March</td></tr></table>
	</body></html>`), "https://example.test/bills")
	require.NoError(t, err)

	tests := []struct {
		name string
		cond domain.Condition
		want bool
	}{
		{"visible table", dom.Visible("#bills"), true},
		{"inline hidden", dom.Visible("#spinner"), false},
		{"missing", dom.Visible("#nope"), false},
		{"title", dom.TitleContains("Invoices"), true},
		{"body text", dom.TextContains("", "March"), true},
		{"combined", domain.And(dom.Visible("#bills"), domain.Not(dom.Visible("#spinner"))), true},
		{"url", dom.URLContains("/bills"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ready(t, tt.cond, snap))
		})
	}
}

func TestSequence(t *testing.T) {
	var order []string
	step := func(name string) domain.Action {
		return func(context.Context, domain.Driver, domain.Page) error {
			order = append(order, name)
			return nil
		}
	}
	require.NoError(t, dom.Sequence(step("a"), nil, step("b"))(context.Background(), nil, nil))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRefreshing_AfterPostedForm(t *testing.T) {
	var gets atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Sign in</title></head><body>
<form id="login" method="post" action="/session"><input name="user"></form></body></html>`)
	})
	// Answers the POST in place and refuses GET, like many login endpoints.
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			gets.Add(1)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, `<html><head><title>Home</title></head><body></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	b, err := dom.NewBrowser(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, b.Visit(ctx, "/login"))
	require.NoError(t, b.SubmitForm(ctx, "form#login", map[string]string{"user": "demo"}))

	ok, err := dom.Refreshing(dom.TitleContains("Home")).Ready(ctx, b)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, gets.Load(), "a posted page must not be re-requested with GET")
}

func TestRefreshing_AfterRedirectReloads(t *testing.T) {
	srv, _ := newSite(t)
	b, err := dom.NewBrowser(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.Visit(ctx, "/login"))
	require.NoError(t, b.SubmitForm(ctx, "form#login", map[string]string{"user": "demo"}))
	require.Contains(t, b.URL(), "/home")

	assert.True(t, ready(t, dom.Refreshing(dom.TitleContains("Home")), b))
	assert.Contains(t, b.URL(), "/home")
}

func TestRefreshing_TransportErrorIsNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>up</body></html>`)
	}))
	b, err := dom.NewBrowser(srv.URL)
	require.NoError(t, err)
	require.NoError(t, b.Visit(context.Background(), "/"))
	srv.Close()

	ok, err := dom.Refreshing(dom.TextContains("", "up")).Ready(context.Background(), b)
	require.NoError(t, err)
	assert.False(t, ok)
}
