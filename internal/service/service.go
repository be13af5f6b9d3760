package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

// BlobStore keeps attachment content outside the database.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

type Service struct {
	store store.Store
	blobs BlobStore
	now   func() time.Time
	log   *slog.Logger
}

type Option func(*Service)

// WithClock replaces time.Now; tests use it to step through dwell limits.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func New(st store.Store, blobs BlobStore, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, ErrStoreNil
	}
	if blobs == nil {
		return nil, ErrBlobStoreNil
	}

	s := &Service{
		store: st,
		blobs: blobs,
		now:   time.Now,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// actor resolves the calling user. Unknown ids are treated as anonymous.
func actor(ctx context.Context, r store.Repository, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, ErrUnauthenticated
	}
	u, err := r.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUnauthenticated
	}
	return u, err
}

// ownProject loads a project owned by ownerID. Anonymous callers are
// rejected before the project is looked up; projects of other users are
// reported as missing.
func ownProject(ctx context.Context, r store.Repository, ownerID, projectID int64) (domain.Project, error) {
	if _, err := actor(ctx, r, ownerID); err != nil {
		return domain.Project{}, err
	}
	if projectID <= 0 {
		return domain.Project{}, ErrInvalidID
	}
	p, err := r.GetProject(ctx, projectID)
	if err != nil {
		return domain.Project{}, notFound(err, "project %d", projectID)
	}
	if p.OwnerID != ownerID {
		return domain.Project{}, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
	}
	return p, nil
}

// notFound rewrites store.ErrNotFound as the service sentinel.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// conflict rewrites store.ErrConflict as the service sentinel.
func conflict(err error) error {
	if errors.Is(err, store.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// subordinateIDs lists the users whose direct manager is managerID.
func subordinateIDs(ctx context.Context, r store.Repository, managerID int64) ([]int64, error) {
	subs, err := r.ListUsers(ctx, store.UserFilter{ManagerID: &managerID})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(subs))
	for _, u := range subs {
		ids = append(ids, u.ID)
	}
	return ids, nil
}
