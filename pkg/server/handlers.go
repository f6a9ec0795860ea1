package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/devflow-dev/devflow/pkg/assets"
	"github.com/devflow-dev/devflow/pkg/authform"
	"github.com/devflow-dev/devflow/pkg/form"
	"github.com/devflow-dev/devflow/pkg/middleware"
	"github.com/devflow-dev/devflow/pkg/notice"
	"github.com/devflow-dev/devflow/pkg/questions"
	"github.com/devflow-dev/devflow/pkg/render"
	"github.com/devflow-dev/devflow/pkg/routes"
	"github.com/devflow-dev/devflow/pkg/search"
)

//go:embed static
var staticFiles embed.FS

const (
	homeSearchIcon        = "/static/icons/search.svg"
	homeSearchPlaceholder = "Search for Questions Here..."
	staticPrefix          = "/static/"
)

// staticAssets fingerprints the embedded files. Pages fall back to the
// plain names when that fails.
func staticAssets() (fs.FS, *assets.Manifest, error) {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, nil, err
	}
	m, err := assets.Fingerprint(sub)
	if err != nil {
		return sub, nil, err
	}
	return sub, m, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	cfg := s.config.Search
	cfg.TargetRoute = routes.Home
	cfg.Icon = homeSearchIcon
	cfg.Placeholder = homeSearchPlaceholder
	cfg.ExtraClass = "flex-1"
	cfg.Logger = s.logger

	in := search.Mount(requestLocation{u: r.URL}, cfg)
	defer in.Unmount()
	query := search.QueryValue(r.URL.RawQuery, in.Config().Key)

	status := http.StatusOK
	var n *notice.Notice
	data, err := s.store.Dataset(r.Context())
	if err != nil {
		s.logger.Error("question dataset unavailable", "error", err, "request_id", chimw.GetReqID(r.Context()))
		middleware.RecordQuestionSourceError()
		status = http.StatusServiceUnavailable
		msg := notice.Error("Questions are unavailable right now. Please try again shortly.")
		n = &msg
	}

	body := rootLayout(r.URL.Path,
		homePage(in.Render(), questions.Filter(data.Questions, query), query, n),
		rightSidebar(data))
	s.writePage(w, r, status, render.PageData{
		Title:   "DevFlow",
		Body:    body,
		Scripts: []string{s.assets.Asset("live.js")},
	})
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.handleNotFound(w, r)
		return
	}

	q, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, questions.ErrNotFound):
		s.handleNotFound(w, r)
		return
	case err != nil:
		s.logger.Error("question lookup failed", "id", id, "error", err)
		middleware.RecordQuestionSourceError()
		s.writePage(w, r, http.StatusServiceUnavailable, render.PageData{
			Title: "DevFlow",
			Body:  rootLayout(r.URL.Path, messagePage("Unavailable", "Questions are unavailable right now."), nil),
		})
		return
	}

	s.writePage(w, r, http.StatusOK, render.PageData{
		Title:       q.Title + " | DevFlow",
		Description: questions.Excerpt(q, excerptLength),
		Body:        rootLayout(r.URL.Path, questionPage(q), nil),
	})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.Tags(r.Context())
	if err != nil {
		s.logger.Error("tag lookup failed", "error", err)
		middleware.RecordQuestionSourceError()
		s.writePage(w, r, http.StatusServiceUnavailable, render.PageData{
			Title: "Tags | DevFlow",
			Body:  rootLayout(r.URL.Path, messagePage("Tags", "Tags are unavailable right now."), nil),
		})
		return
	}
	s.writePage(w, r, http.StatusOK, render.PageData{
		Title: "Tags | DevFlow",
		Body:  rootLayout(r.URL.Path, tagsPage(tags), nil),
	})
}

func (s *Server) handlePlaceholder(link routes.NavLink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writePage(w, r, http.StatusOK, render.PageData{
			Title: link.Label + " | DevFlow",
			Body:  rootLayout(r.URL.Path, messagePage(link.Label, "This page is coming soon."), nil),
		})
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusNotFound, render.PageData{
		Title: "Not found | DevFlow",
		Body:  rootLayout(r.URL.Path, messagePage("Page not found", "The page you are looking for does not exist."), nil),
	})
}

// newAuthForm builds a fresh engine per request; engines hold the
// submission state of a single form instance.
func (s *Server) newAuthForm(kind authform.Kind) *form.Engine {
	name := strings.TrimPrefix(kind.Route(), "/")
	submit := middleware.TraceSubmit(name, s.submit[kind], middleware.WithTracerName(s.config.TracerName))
	return authform.New(kind, submit, form.WithLogger(s.logger))
}

func (s *Server) handleAuthPage(kind authform.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e := s.newAuthForm(kind)
		s.writeAuthPage(w, r, http.StatusOK, kind, e, nil)
	}
}

// handleAuthSubmit runs the engine on the posted values. Invalid input is
// answered with 422 and the field errors, a successful callback with a
// redirect home, and a failed one with the form and an error notice.
func (s *Server) handleAuthSubmit(kind authform.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form body", http.StatusBadRequest)
			return
		}

		e := s.newAuthForm(kind)
		e.Bind(r.PostForm)

		start := time.Now()
		outcome, err := e.Submit(r.Context())
		if errors.Is(err, form.ErrSubmitInFlight) {
			http.Error(w, "submission in flight", http.StatusConflict)
			return
		}
		if err != nil {
			s.logger.Error("form submit failed", "form", e.Name(), "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		middleware.RecordFormOutcome(e.Name(), outcome, time.Since(start))

		switch {
		case !outcome.Valid():
			s.writeAuthPage(w, r, http.StatusUnprocessableEntity, kind, e, nil)
		case outcome.Succeeded():
			http.Redirect(w, r, routes.Home, http.StatusSeeOther)
		default:
			msg := outcome.Result.Error
			if msg == "" {
				msg = "Something went wrong. Please try again."
			}
			n := notice.Error(msg).WithTitle(kind.Title() + " failed")
			s.writeAuthPage(w, r, http.StatusOK, kind, e, &n)
		}
	}
}

func (s *Server) writeAuthPage(w http.ResponseWriter, r *http.Request, status int, kind authform.Kind, e *form.Engine, n *notice.Notice) {
	s.writePage(w, r, status, render.PageData{
		Title: kind.Title() + " | DevFlow",
		Body:  authLayout(e.Render(), n),
	})
}

func handleLiveScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeFileFS(w, r, staticFiles, "static/live.js")
}

// staticHandler serves the embedded stylesheet and scripts under /static/.
func (s *Server) staticHandler() http.Handler {
	return http.StripPrefix(staticPrefix, assets.Handler(s.manifest, s.staticFS))
}

type healthResponse struct {
	Status       string `json:"status"`
	LiveSessions int    `json:"live_sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:       "ok",
		LiveSessions: s.live.SessionCount(),
	})
}

// writePage renders the page into a buffer first so a render error can
// still be answered with a 500.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, page render.PageData) {
	page.StyleSheets = append(page.StyleSheets, s.assets.Asset("devflow.css"))

	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf, page); err != nil {
		s.logger.Error("render failed", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// recoverer turns a handler panic into a 500 and logs the stack.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("handler panic",
					"path", r.URL.Path,
					"request_id", chimw.GetReqID(r.Context()),
					"panic", rec,
					"stack", string(debug.Stack()))
				if r.Header.Get("Connection") != "Upgrade" {
					w.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}
