package questions

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL reloads the dataset once it is older than ttl. Zero keeps the
// first successful load forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store caches the dataset of a Source. Concurrent loads are collapsed into
// one call. When a reload fails the previous dataset keeps being served.
type Store struct {
	source Source
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	data     *Dataset
	loadedAt time.Time
}

// NewStore creates a Store over source.
func NewStore(source Source, opts ...StoreOption) *Store {
	s := &Store{
		source: source,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dataset returns the cached dataset, loading it when missing or stale.
func (s *Store) Dataset(ctx context.Context) (Dataset, error) {
	s.mu.RLock()
	data, loadedAt := s.data, s.loadedAt
	s.mu.RUnlock()

	if s.fresh(data, loadedAt) {
		return *data, nil
	}

	v, err, _ := s.group.Do("load", func() (any, error) {
		s.mu.RLock()
		cached, at := s.data, s.loadedAt
		s.mu.RUnlock()
		if s.fresh(cached, at) {
			return *cached, nil
		}

		ds, err := s.source.Load(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.data = &ds
		s.loadedAt = s.now()
		s.mu.Unlock()
		s.logger.Debug("questions loaded", "questions", len(ds.Questions), "tags", len(ds.Tags))
		return ds, nil
	})
	if err != nil {
		if data != nil {
			s.logger.Warn("questions reload failed, serving cached dataset", "error", err)
			return *data, nil
		}
		return Dataset{}, err
	}
	return v.(Dataset), nil
}

func (s *Store) fresh(data *Dataset, loadedAt time.Time) bool {
	return data != nil && (s.ttl <= 0 || s.now().Sub(loadedAt) < s.ttl)
}

// Questions returns every question.
func (s *Store) Questions(ctx context.Context) ([]Question, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Questions, nil
}

// Tags returns the popular tags.
func (s *Store) Tags(ctx context.Context) ([]Tag, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Tags, nil
}

// Get returns the question with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int) (Question, error) {
	qs, err := s.Questions(ctx)
	if err != nil {
		return Question{}, err
	}
	for _, q := range qs {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, ErrNotFound
}

// Search returns the questions matching query, see Filter.
func (s *Store) Search(ctx context.Context, query string) ([]Question, error) {
	qs, err := s.Questions(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(qs, query), nil
}
