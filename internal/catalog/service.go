// Package catalog holds the movie collection shared by every view of the
// console.  The collection is fetched from the movie API on first use and
// kept until it is invalidated or grows older than its max age; mutations
// reconcile it in place.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/movie-console/internal/model"
)

// Fetcher loads the full movie collection.
type Fetcher interface {
	ListMovies(ctx context.Context) ([]model.Movie, error)
}

// Service is the shared catalog.  All methods are safe for concurrent use.
// Slices returned by the service are copies; callers may keep them.
type Service struct {
	fetcher  Fetcher
	snapshot SnapshotStore
	log      logrus.FieldLogger

	mu       sync.RWMutex
	movies   []model.Movie
	loaded   bool
	loadedAt time.Time
	maxAge   time.Duration // 0 keeps the in-memory copy until invalidated
	gen      uint64        // bumped by Invalidate; stale fetches are discarded
	now      func() time.Time

	flight singleflight.Group

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// Option configures a Service.
type Option func(*Service)

// WithSnapshot shares fetched catalogs through store.
func WithSnapshot(store SnapshotStore) Option {
	return func(s *Service) { s.snapshot = store }
}

// WithMaxAge bounds how long the in-memory copy is served before the next
// Get fetches again.
func WithMaxAge(d time.Duration) Option {
	return func(s *Service) { s.maxAge = d }
}

// WithLogger sets the logger used for snapshot errors.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// New returns an empty catalog backed by f.
func New(f Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher: f,
		log:     logrus.StandardLogger(),
		now:     time.Now,
		subs:    make(map[int]chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the catalog.  With a snapshot configured the snapshot is read
// on every call, so a change made by another replica is seen at once; a
// miss fetches from the API.  Without one, the in-memory copy is served
// until it is older than the max age.  A failed fetch is not remembered:
// the next Get tries again.
func (s *Service) Get(ctx context.Context) ([]model.Movie, error) {
	if s.snapshot != nil {
		s.mu.RLock()
		gen := s.gen
		s.mu.RUnlock()

		movies, ok, err := s.snapshot.Load(ctx)
		switch {
		case err != nil:
			s.log.WithError(err).Warn("catalog: snapshot load failed")
		case ok:
			s.mu.Lock()
			if s.gen == gen {
				s.movies, s.loaded, s.loadedAt = movies, true, s.now()
			}
			s.mu.Unlock()
			return clone(movies), nil
		default:
			return s.Fetch(ctx)
		}
	}

	s.mu.RLock()
	if s.fresh() {
		out := clone(s.movies)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()
	return s.Fetch(ctx)
}

// fresh reports whether the in-memory copy may be served.  Callers hold mu.
func (s *Service) fresh() bool {
	if !s.loaded {
		return false
	}
	return s.maxAge <= 0 || s.now().Sub(s.loadedAt) < s.maxAge
}

// Fetch loads the collection from the API regardless of what is cached.
// Concurrent callers share a single request.  The request is not tied to
// the cancellation of any one caller, so a caller that goes away does not
// fail the others; its result is simply discarded.
func (s *Service) Fetch(ctx context.Context) ([]model.Movie, error) {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	ch := s.flight.DoChan("movies", func() (any, error) {
		movies, err := s.fetcher.ListMovies(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		stored := s.gen == gen
		if stored {
			s.movies, s.loaded, s.loadedAt = movies, true, s.now()
		}
		s.mu.Unlock()
		if stored {
			s.saveSnapshot(ctx)
			s.notify()
		}
		return movies, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]model.Movie)), nil
	}
}

// Loaded reports whether a catalog is held in memory.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Invalidate drops the loaded catalog (and the shared snapshot).  The next
// Get fetches again.
func (s *Service) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.movies, s.loaded = nil, false
	s.gen++
	s.mu.Unlock()
	s.flight.Forget("movies")

	if s.snapshot != nil {
		if err := s.snapshot.Clear(ctx); err != nil {
			s.log.WithError(err).Warn("catalog: snapshot clear failed")
		}
	}
	s.notify()
}

// Find returns the first movie named name.
func (s *Service) Find(ctx context.Context, name string) (model.Movie, bool, error) {
	movies, err := s.Get(ctx)
	if err != nil {
		return model.Movie{}, false, err
	}
	for _, m := range movies {
		if m.Name == name {
			return m, true, nil
		}
	}
	return model.Movie{}, false, nil
}

// Patch applies d to every movie named name and reports how many matched.
// Nothing happens while the catalog is not loaded.
func (s *Service) Patch(ctx context.Context, name string, d model.EditDraft) int {
	s.mu.Lock()
	n := 0
	if s.loaded {
		next := make([]model.Movie, len(s.movies))
		for i, m := range s.movies {
			if m.Name == name {
				m = d.Apply(m)
				n++
			}
			next[i] = m
		}
		s.movies = next
	}
	s.mu.Unlock()

	if n > 0 {
		s.saveSnapshot(ctx)
		s.notify()
	}
	return n
}

// RemoveByName drops every movie named name and reports how many were
// removed.  Names are not unique, so this may remove more than one record.
func (s *Service) RemoveByName(ctx context.Context, name string) int {
	s.mu.Lock()
	n := 0
	if s.loaded {
		next := make([]model.Movie, 0, len(s.movies))
		for _, m := range s.movies {
			if m.Name == name {
				n++
				continue
			}
			next = append(next, m)
		}
		s.movies = next
	}
	s.mu.Unlock()

	if n > 0 {
		s.saveSnapshot(ctx)
		s.notify()
	}
	return n
}

// Subscribe returns a channel that receives a signal after every change of
// the catalog, and a function that cancels the subscription.  Signals are
// coalesced: a subscriber that is not ready misses intermediate ones but
// always sees at least one pending signal.
func (s *Service) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Service) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Service) saveSnapshot(ctx context.Context) {
	if s.snapshot == nil {
		return
	}
	s.mu.RLock()
	movies, loaded := clone(s.movies), s.loaded
	s.mu.RUnlock()
	if !loaded {
		return
	}
	if err := s.snapshot.Save(context.WithoutCancel(ctx), movies); err != nil {
		s.log.WithError(err).Warn("catalog: snapshot save failed")
	}
}

func clone(movies []model.Movie) []model.Movie {
	if movies == nil {
		return nil
	}
	out := make([]model.Movie, len(movies))
	copy(out, movies)
	return out
}
