package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	"github.com/zatekoja/doctorfinder/internal/domain/repositories"
)

// QuerySessionService manages the query parameters of directory views
type QuerySessionService struct {
	repo repositories.QuerySessionRepository
	now  func() time.Time
}

// NewQuerySessionService creates a new query session service
func NewQuerySessionService(repo repositories.QuerySessionRepository) *QuerySessionService {
	return &QuerySessionService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Start creates a session holding the default query parameters
func (s *QuerySessionService) Start(ctx context.Context) (*entities.QuerySession, error) {
	now := s.now()
	session := &entities.QuerySession{
		ID:        uuid.New().String(),
		Query:     entities.NewQueryParameters(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the session with the given id
func (s *QuerySessionService) Get(ctx context.Context, id string) (*entities.QuerySession, error) {
	return s.repo.Get(ctx, id)
}

// Update merges patch into the session's parameters and stores the result as a whole
func (s *QuerySessionService) Update(ctx context.Context, id string, patch entities.QueryPatch) (*entities.QuerySession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := &entities.QuerySession{
		ID:        session.ID,
		Query:     entities.Merge(session.Query, patch),
		CreatedAt: session.CreatedAt,
		UpdatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// End deletes the session
func (s *QuerySessionService) End(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
