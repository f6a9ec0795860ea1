package search

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/devflow-dev/devflow/pkg/debounce"
	"github.com/devflow-dev/devflow/pkg/urlquery"
	"github.com/devflow-dev/devflow/pkg/vdom"
)

const (
	// DefaultKey is the query parameter the input mirrors.
	DefaultKey = "query"

	// DefaultDelay is the quiet period before the URL is updated.
	DefaultDelay = 500 * time.Millisecond
)

// Location exposes the current route and query string.
type Location interface {
	Path() string
	RawQuery() string
}

// NavigateOptions describes how a navigation is applied.
type NavigateOptions struct {
	// Scroll resets the scroll position when true.
	Scroll bool

	// Replace updates the current history entry instead of pushing one.
	Replace bool
}

// Navigator requests a whole-URL navigation.
type Navigator interface {
	Navigate(target string, opts NavigateOptions)
}

// Router is what an Input needs from the navigation subsystem.
type Router interface {
	Location
	Navigator
}

// Action classifies the outcome of a debounced synchronization.
type Action string

const (
	// ActionMerge wrote the local value into the query.
	ActionMerge Action = "merge"

	// ActionStrip removed the key from the query.
	ActionStrip Action = "strip"

	// ActionForeign skipped removal because the route is owned elsewhere.
	ActionForeign Action = "foreign"

	// ActionUnchanged skipped a navigation to the URL already shown.
	ActionUnchanged Action = "unchanged"
)

// SyncEvent reports one debounced synchronization.
type SyncEvent struct {
	Action Action
	Value  string
	URL    string
}

// Config configures an Input.
type Config struct {
	// TargetRoute is the route whose query this input is responsible for.
	TargetRoute string

	// Icon is the image shown beside the input.
	Icon string

	// Placeholder is the input placeholder text.
	Placeholder string

	// ExtraClass is appended to the wrapper's class list.
	ExtraClass string

	// Key is the query parameter to synchronize. Default: "query".
	Key string

	// Delay is the debounce interval. Default: 500ms.
	Delay time.Duration

	// OwnsQueryOnRouteMismatch lets a cleared input remove the key even
	// when the current route differs from TargetRoute.
	OwnsQueryOnRouteMismatch bool

	// Clock overrides the debounce clock.
	Clock debounce.Clock

	// OnSync is called after every debounced synchronization.
	OnSync func(SyncEvent)

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.Delay == 0 {
		c.Delay = DefaultDelay
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Input is a text input mirrored into the URL query under a debounce
// policy. It only reads snapshots of the router's location and only ever
// requests whole-URL navigations.
type Input struct {
	cfg       Config
	router    Router
	debouncer *debounce.Debouncer

	mu    sync.Mutex
	value string
}

// Mount creates an Input seeded from the current value of the configured
// key (empty when absent).
func Mount(router Router, cfg Config) *Input {
	cfg = cfg.withDefaults()
	in := &Input{
		cfg:    cfg,
		router: router,
		value:  urlquery.Get(router.RawQuery(), cfg.Key),
	}

	var opts []debounce.Option
	if cfg.Clock != nil {
		opts = append(opts, debounce.WithClock(cfg.Clock))
	}
	in.debouncer = debounce.New(cfg.Delay, in.sync, opts...)
	return in
}

// Value returns the local input value.
func (in *Input) Value() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.value
}

// Config returns the effective configuration.
func (in *Input) Config() Config {
	return in.cfg
}

// Type records a keystroke: the local value changes immediately and the
// synchronization is rescheduled, cancelling any pending one.
func (in *Input) Type(value string) {
	in.mu.Lock()
	in.value = value
	in.mu.Unlock()

	in.debouncer.Trigger()
}

// Flush synchronizes a pending keystroke immediately, as when the user
// presses Enter. It reports whether a synchronization ran.
func (in *Input) Flush() bool {
	return in.debouncer.Flush()
}

// Pending reports whether a synchronization is scheduled.
func (in *Input) Pending() bool {
	return in.debouncer.Pending()
}

// Unmount cancels any pending synchronization. Later keystrokes update the
// local value but never navigate.
func (in *Input) Unmount() {
	in.debouncer.Stop()
}

// sync runs when the debounce interval elapses.
func (in *Input) sync() {
	value := in.Value()
	path := in.router.Path()
	rawQuery := in.router.RawQuery()
	current := urlquery.Build(path, urlquery.Parse(rawQuery))

	var (
		target string
		action Action
	)
	switch {
	case value != "":
		target = urlquery.MergeQueryKey(path, rawQuery, in.cfg.Key, value)
		action = ActionMerge
	case path == in.cfg.TargetRoute || in.cfg.OwnsQueryOnRouteMismatch:
		target = urlquery.StripQueryKeys(path, rawQuery, in.cfg.Key)
		action = ActionStrip
	default:
		in.report(SyncEvent{Action: ActionForeign, Value: value})
		return
	}

	if target == current {
		in.report(SyncEvent{Action: ActionUnchanged, Value: value, URL: target})
		return
	}

	in.cfg.Logger.Debug("search: sync query",
		"action", action, "route", path, "url", target)
	in.router.Navigate(target, NavigateOptions{Scroll: false})
	in.report(SyncEvent{Action: action, Value: value, URL: target})
}

func (in *Input) report(ev SyncEvent) {
	if in.cfg.OnSync != nil {
		in.cfg.OnSync(ev)
	}
}

// Render returns the search box: an icon followed by the text input.
func (in *Input) Render() *vdom.VNode {
	cfg := in.cfg
	var owns vdom.Attr
	if cfg.OwnsQueryOnRouteMismatch {
		owns = vdom.Data("search-owns", "true")
	}
	return vdom.Div(
		vdom.Class("local-search", cfg.ExtraClass),
		vdom.Data("search-route", cfg.TargetRoute),
		vdom.Data("search-key", cfg.Key),
		vdom.Data("search-debounce", strconv.FormatInt(cfg.Delay.Milliseconds(), 10)),
		owns,
		vdom.Img(
			vdom.Src(cfg.Icon),
			vdom.Alt("search"),
			vdom.Width(24),
			vdom.Height(24),
			vdom.Class("local-search-icon"),
		),
		vdom.Input(
			vdom.Type("text"),
			vdom.NameAttr(cfg.Key),
			vdom.Placeholder(cfg.Placeholder),
			vdom.Value(in.Value()),
			vdom.AutoComplete("off"),
			vdom.AriaLabel(cfg.Placeholder),
			vdom.Class("local-search-input"),
		),
	)
}

// QueryValue returns the value of key in rawQuery, or "" when absent. Pages
// filtering on the synchronized parameter read it through here.
func QueryValue(rawQuery, key string) string {
	if key == "" {
		key = DefaultKey
	}
	return urlquery.Get(rawQuery, key)
}
