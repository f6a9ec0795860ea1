package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"

	"github.com/devflow-dev/devflow/pkg/form"
)

func TestOpenTelemetryMiddleware_InjectsSpan(t *testing.T) {
	var extracted bool
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(OpenTelemetry(
		WithTracerName("devflow-test"),
		WithIncludeQuery(true),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			extracted = true
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if SpanFromContext(r.Context()) == nil {
			t.Error("expected a span in the request context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?query=go", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want the handler's status", rec.Code)
	}
	if !extracted {
		t.Error("attribute extractor was not called")
	}
}

func TestOpenTelemetryMiddleware_Filter(t *testing.T) {
	var extracted bool
	h := OpenTelemetry(
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			extracted = true
			return nil
		}),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if extracted {
		t.Error("filtered request was traced")
	}
}

func TestFormatSpanName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/sign-in", nil)
	if got := formatSpanName(req); got != "devflow POST /sign-in" {
		t.Errorf("formatSpanName = %q", got)
	}
}

func TestTraceSubmit_PassesThrough(t *testing.T) {
	values := form.NewFieldSet(form.P("email", "a@b.co"))

	ok := TraceSubmit("sign-in", func(ctx context.Context, v form.FieldSet) (form.Result, error) {
		return form.Result{Success: true, Data: v}, nil
	})
	res, err := ok(context.Background(), values)
	if err != nil || !res.Success || !res.Data.Equal(values) {
		t.Errorf("res=%+v err=%v", res, err)
	}

	boom := errors.New("backend down")
	failing := TraceSubmit("sign-in", func(ctx context.Context, v form.FieldSet) (form.Result, error) {
		return form.Result{}, boom
	})
	if _, err := failing(context.Background(), values); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
