package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/devflow-dev/devflow/pkg/assets"
	"github.com/devflow-dev/devflow/pkg/authform"
	"github.com/devflow-dev/devflow/pkg/form"
	"github.com/devflow-dev/devflow/pkg/questions"
	"github.com/devflow-dev/devflow/pkg/routes"
)

// Metrics are registered once per process.
var testRegistry = prometheus.NewRegistry()

type recordingSubmit struct {
	mu     sync.Mutex
	calls  []form.FieldSet
	result form.Result
}

func (s *recordingSubmit) submit(_ context.Context, values form.FieldSet) (form.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, values)
	return s.result, nil
}

func (s *recordingSubmit) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := questions.NewStore(questions.Embedded(), questions.WithLogger(logger))
	base := []Option{WithLogger(logger), WithRegistry(testRegistry)}
	srv := New(DefaultConfig(), store, append(base, opts...)...)
	t.Cleanup(srv.Live().Close)
	return srv
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func post(t *testing.T, h http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// resultList returns the markup of the question list only, leaving out the
// sidebar that lists every title.
func resultList(t *testing.T, body string) string {
	t.Helper()
	start := strings.Index(body, "data-search-results")
	end := strings.Index(body, `class="right-sidebar"`)
	if start < 0 || end < start {
		t.Fatalf("result list not found in %s", body)
	}
	return body[start:end]
}

func TestHomeListsAllQuestions(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"All Questions",
		`href="/ask-a-question"`,
		`class="local-search flex-1"`,
		`placeholder="Search for Questions Here..."`,
		`src="/static/live.`,
		"Top Questions",
		"Popular Tags",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %s", want)
		}
	}
	if got := strings.Count(resultList(t, body), `class="question-card"`); got != 5 {
		t.Errorf("question cards = %d, want 5", got)
	}
}

func TestHomeFiltersByQuery(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		query string
		want  []string
		count int
	}{
		{query: "next.js", want: []string{"What is the difference between React and Next.js?", "What is the best way to learn Next.js?"}, count: 2},
		{query: "HOOKS", want: []string{"What are React Hooks"}, count: 1},
		{query: "rust", count: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, srv, "/?query="+url.QueryEscape(tt.query))
			list := resultList(t, rec.Body.String())
			if got := strings.Count(list, `class="question-card"`); got != tt.count {
				t.Errorf("cards = %d, want %d", got, tt.count)
			}
			for _, w := range tt.want {
				if !strings.Contains(list, w) {
					t.Errorf("list missing %q", w)
				}
			}
			if tt.count == 0 && !strings.Contains(list, "No questions match") {
				t.Errorf("empty list message missing")
			}
			if !strings.Contains(rec.Body.String(), `value="`+tt.query+`"`) {
				t.Errorf("search box not seeded with %q", tt.query)
			}
		})
	}
}

func TestHomeSourceFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	failing := questions.SourceFunc(func(context.Context) (questions.Dataset, error) {
		return questions.Dataset{}, io.ErrUnexpectedEOF
	})
	srv := New(DefaultConfig(), questions.NewStore(failing), WithLogger(logger), WithRegistry(testRegistry))
	defer srv.Live().Close()

	rec := get(t, srv, "/")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Questions are unavailable") {
		t.Error("missing unavailable notice")
	}
}

func TestQuestionPage(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, routes.Question(3))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "What is the difference between React and Next.js?") {
		t.Error("question title missing")
	}

	for _, target := range []string{routes.Question(999), "/question/abc"} {
		if rec := get(t, srv, target); rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, rec.Code)
		}
	}
}

func TestNavPages(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, routes.Tags)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "TAILWIND CSS") {
		t.Errorf("tags page: status %d", rec.Code)
	}

	rec = get(t, srv, routes.Community)
	if rec.Code != http.StatusOK {
		t.Fatalf("community: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `aria-current="page"`) {
		t.Error("active nav link not marked")
	}

	if rec := get(t, srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route: status = %d", rec.Code)
	}
}

func TestSignInPage(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, routes.SignIn)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Join The Flow",
		`action="/sign-in"`,
		`name="email"`,
		`type="password"`,
		"Sign in",
		`href="/sign-up"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sign-in page missing %s", want)
		}
	}
	if strings.Index(body, `name="email"`) > strings.Index(body, `name="password"`) {
		t.Error("email must render before password")
	}
}

func TestSignInInvalidSkipsCallback(t *testing.T) {
	sub := &recordingSubmit{result: form.Result{Success: true}}
	srv := newTestServer(t, WithSubmit(authform.SignIn, sub.submit))

	rec := post(t, srv, routes.SignIn, url.Values{"email": {"not-an-email"}, "password": {"secret1"}})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if sub.count() != 0 {
		t.Errorf("callback ran %d times for invalid input", sub.count())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Please enter a valid email address") {
		t.Error("email error missing")
	}
	if !strings.Contains(body, `value="not-an-email"`) {
		t.Error("submitted email not kept")
	}
	if strings.Contains(body, `value="secret1"`) {
		t.Error("password echoed back")
	}
}

func TestSignInSuccessRedirects(t *testing.T) {
	sub := &recordingSubmit{result: form.Result{Success: true}}
	srv := newTestServer(t, WithSubmit(authform.SignIn, sub.submit))

	rec := post(t, srv, routes.SignIn, url.Values{
		"email":    {"dev@example.com"},
		"password": {"secret1"},
		"admin":    {"true"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != routes.Home {
		t.Errorf("Location = %q", loc)
	}
	if sub.count() != 1 {
		t.Fatalf("callback calls = %d, want 1", sub.count())
	}
	got := sub.calls[0]
	if got.Get("email") != "dev@example.com" || got.Has("admin") {
		t.Errorf("callback values = %v", got.Pairs())
	}
}

func TestSignUpFailureShowsNotice(t *testing.T) {
	sub := &recordingSubmit{result: form.Result{Success: false, Error: "Username already taken"}}
	srv := newTestServer(t, WithSubmit(authform.SignUp, sub.submit))

	rec := post(t, srv, routes.SignUp, url.Values{
		"username": {"devflow"},
		"name":     {"Dev_Flow"},
		"email":    {"dev@example.com"},
		"password": {"Secret1!"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Username already taken") || !strings.Contains(body, `role="alert"`) {
		t.Errorf("failure notice missing in %s", body)
	}
	if !strings.Contains(body, "Sign up failed") {
		t.Error("notice title missing")
	}
}

func TestMetricsRecordsSubmissions(t *testing.T) {
	srv := newTestServer(t)
	post(t, srv, routes.SignIn, url.Values{"email": {""}, "password": {""}})

	rec := get(t, srv, routes.Metrics)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`devflow_form_submissions_total{form="sign-in",outcome="invalid"}`,
		`devflow_http_requests_total`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestHealthAndScript(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, routes.Health)
	var health healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" || health.LiveSessions != 0 {
		t.Errorf("health = %+v", health)
	}

	rec = get(t, srv, routes.LiveScript)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/_devflow/live") {
		t.Errorf("live script: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Errorf("Content-Type = %q", ct)
	}

	for _, path := range []string{
		"/static/devflow.css",
		"/static/icons/search.svg",
		"/static/images/site-logo.svg",
	} {
		if rec := get(t, srv, path); rec.Code != http.StatusOK {
			t.Errorf("%s: status %d", path, rec.Code)
		}
	}
}

func TestPagesLinkFingerprintedAssets(t *testing.T) {
	srv := newTestServer(t)

	body := get(t, srv, routes.Home).Body.String()
	css := srv.assets.Asset("devflow.css")
	js := srv.assets.Asset("live.js")
	if css == "/static/devflow.css" || js == "/static/live.js" {
		t.Fatalf("assets not fingerprinted: %s %s", css, js)
	}
	if !strings.Contains(body, `href="`+css+`"`) || !strings.Contains(body, `src="`+js+`"`) {
		t.Fatalf("home page does not link %s and %s", css, js)
	}

	rec := get(t, srv, css)
	if rec.Code != http.StatusOK {
		t.Fatalf("%s: status %d", css, rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != assets.ImmutableCacheControl {
		t.Errorf("Cache-Control = %q", cc)
	}
	if rec := get(t, srv, "/static/live.00000000.js"); rec.Code != http.StatusNotFound {
		t.Errorf("stale asset: status %d", rec.Code)
	}
}

func TestRecovererAnswers500(t *testing.T) {
	srv := newTestServer(t)
	h := srv.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	if rec := get(t, h, "/"); rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	addr := "http://" + ln.Addr().String()
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(addr + routes.Health)
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never answered: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
