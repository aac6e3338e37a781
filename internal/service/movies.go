// Package service implements the creator, editor and deleter use cases on
// top of the movie API, and keeps the shared catalog in step with what the
// API accepted.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-console/internal/catalog"
	"github.com/iliyamo/movie-console/internal/model"
	q "github.com/iliyamo/movie-console/internal/queue"
)

// MovieAPI is the subset of the movie API client the use cases need.
type MovieAPI interface {
	AddMovie(ctx context.Context, token string, d model.NewMovieDraft, img *model.CoverImage) error
	UpdateMovie(ctx context.Context, token, name string, d model.EditDraft) error
	DeleteMovie(ctx context.Context, token, name string) error
}

// Actor identifies who performs a mutation.
type Actor struct {
	Token  string
	UserID string
}

// MovieService runs the mutations.
type MovieService struct {
	api     MovieAPI
	catalog *catalog.Service
	events  EventPublisher
	origin  string
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewMovieService wires the use cases.  A nil publisher disables events.
func NewMovieService(api MovieAPI, cat *catalog.Service, events EventPublisher, origin string, log logrus.FieldLogger) *MovieService {
	if events == nil {
		events = nopPublisher{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MovieService{api: api, catalog: cat, events: events, origin: origin, log: log, now: time.Now}
}

// Create validates the draft and submits it.  Validation failures are
// returned as the model.Err* values and never reach the API.  The server
// assigns the identifier, so on success the catalog is invalidated rather
// than patched.
func (s *MovieService) Create(ctx context.Context, a Actor, d model.NewMovieDraft, img *model.CoverImage) error {
	if err := d.Validate(img); err != nil {
		return err
	}
	if err := s.api.AddMovie(ctx, a.Token, d, img); err != nil {
		return fmt.Errorf("add movie %q: %w", d.Name, err)
	}
	s.catalog.Invalidate(ctx)
	s.publish(ctx, a, q.ActionCreated, d.Name)
	return nil
}

// Update sends the edit draft for the movie named name.  On success every
// catalog entry with that name is patched from the draft; the catalog is
// not re-fetched, so it shows what was sent.
func (s *MovieService) Update(ctx context.Context, a Actor, name string, d model.EditDraft) error {
	if err := s.api.UpdateMovie(ctx, a.Token, name, d); err != nil {
		return fmt.Errorf("update movie %q: %w", name, err)
	}
	s.catalog.Patch(ctx, name, d)
	s.publish(ctx, a, q.ActionUpdated, name)
	return nil
}

// Delete removes the movie named name.  On success every catalog entry with
// that name is dropped.  On failure the catalog is left untouched.
func (s *MovieService) Delete(ctx context.Context, a Actor, name string) error {
	if err := s.api.DeleteMovie(ctx, a.Token, name); err != nil {
		return fmt.Errorf("delete movie %q: %w", name, err)
	}
	s.catalog.RemoveByName(ctx, name)
	s.publish(ctx, a, q.ActionDeleted, name)
	return nil
}

func (s *MovieService) publish(ctx context.Context, a Actor, action, name string) {
	ev := q.MovieChangedEvent{
		Action:     action,
		Name:       name,
		Origin:     s.origin,
		UserID:     a.UserID,
		OccurredAt: s.now().UTC().Format(time.RFC3339),
	}
	s.log.WithFields(logrus.Fields{"action": action, "movie": name, "user_id": a.UserID}).Info("movies: changed")
	// the publisher logs its own failures; the mutation already succeeded
	_ = s.events.PublishMovieChanged(context.WithoutCancel(ctx), ev)
}
