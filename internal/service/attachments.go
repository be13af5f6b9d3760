package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

// Upload is one file received from a client.
type Upload struct {
	Name string
	Body io.Reader
}

func (s *Service) UploadAttachment(ctx context.Context, actorID, projectID int64, f Upload) (domain.Attachment, error) {
	var (
		out   domain.Attachment
		saved []string
	)
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		p, err := ownProject(ctx, r, actorID, projectID)
		if err != nil {
			return err
		}
		if p.ReviewStatus.Locked() {
			return ErrProjectLocked
		}
		out, err = s.attach(ctx, r, p.ID, actorID, f, s.clock())
		if err == nil {
			saved = append(saved, out.Path)
		}
		return err
	})
	if err != nil {
		s.discard(saved)
		return domain.Attachment{}, err
	}

	s.log.Info("attachment uploaded", "project_id", projectID, "attachment_id", out.ID, "size", out.Size)
	return out, nil
}

// OpenAttachment returns the attachment and its content. Access is limited
// to the project owner, the owner's direct manager, directors and
// superusers. The caller closes the reader.
func (s *Service) OpenAttachment(ctx context.Context, actorID, projectID, attachmentID int64) (domain.Attachment, io.ReadCloser, error) {
	if projectID <= 0 || attachmentID <= 0 {
		return domain.Attachment{}, nil, ErrInvalidID
	}
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return domain.Attachment{}, nil, err
	}

	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return domain.Attachment{}, nil, notFound(err, "project %d", projectID)
	}
	a, err := s.store.GetAttachment(ctx, attachmentID)
	if err != nil {
		return domain.Attachment{}, nil, notFound(err, "attachment %d", attachmentID)
	}
	if a.ProjectID != p.ID {
		return domain.Attachment{}, nil, fmt.Errorf("attachment %d: %w", attachmentID, ErrNotFound)
	}

	allowed := me.Superuser || p.OwnerID == me.ID || me.Profile.Role == domain.RoleDirector
	if !allowed && me.Profile.Role.IsManager() {
		owner, err := s.store.GetUser(ctx, p.OwnerID)
		if err != nil {
			return domain.Attachment{}, nil, notFound(err, "user %d", p.OwnerID)
		}
		allowed = owner.ManagedBy(me.ID)
	}
	if !allowed {
		return domain.Attachment{}, nil, ErrForbidden
	}

	rc, err := s.blobs.Open(a.Path)
	if err != nil {
		return domain.Attachment{}, nil, fmt.Errorf("open attachment %d: %w", a.ID, err)
	}
	return a, rc, nil
}

func (s *Service) attach(ctx context.Context, r store.Repository, projectID, uploaderID int64, f Upload, now time.Time) (domain.Attachment, error) {
	name := cleanFileName(f.Name)
	if name == "" || f.Body == nil {
		return domain.Attachment{}, fmt.Errorf("file name: %w", ErrInvalidInput)
	}

	path, size, err := s.blobs.Save(ctx, name, f.Body)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("save %s: %w", name, err)
	}
	a, err := r.CreateAttachment(ctx, domain.Attachment{
		ProjectID:  projectID,
		Name:       name,
		Size:       size,
		Path:       path,
		UploadedBy: uploaderID,
		UploadedAt: now,
	})
	if err != nil {
		s.discard([]string{path})
		return domain.Attachment{}, err
	}
	return a, nil
}

// discard removes blobs whose database rows were rolled back.
func (s *Service) discard(paths []string) {
	for _, p := range paths {
		if err := s.blobs.Remove(p); err != nil {
			s.log.Warn("orphaned attachment", "path", p, "err", err)
		}
	}
}

func cleanFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(filepath.Base(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
