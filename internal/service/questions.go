package service

import (
	"context"
	"strings"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

// AskQuestion files a message to the developers on behalf of the actor.
func (s *Service) AskQuestion(ctx context.Context, actorID int64, body string) (domain.Question, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.Question{}, ErrInvalidInput
	}

	var out domain.Question
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		me, err := actor(ctx, r, actorID)
		if err != nil {
			return err
		}
		out, err = r.CreateQuestion(ctx, domain.Question{
			UserID:    me.ID,
			Name:      me.FullName(),
			Email:     me.Email,
			Body:      body,
			CreatedAt: s.clock(),
		})
		return err
	})
	if err != nil {
		return domain.Question{}, err
	}

	s.log.Info("question received", "question_id", out.ID, "user_id", actorID)
	return out, nil
}
