package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	"github.com/zatekoja/doctorfinder/internal/domain/providers"
	"github.com/zatekoja/doctorfinder/internal/domain/repositories"
	apperrors "github.com/zatekoja/doctorfinder/pkg/errors"
)

const sessionKeyPrefix = "directory:session:"

// QuerySessionStore persists query sessions as JSON in a CacheProvider
type QuerySessionStore struct {
	cache providers.CacheProvider
	ttl   time.Duration
}

// NewQuerySessionStore creates a session store whose entries expire after ttl
func NewQuerySessionStore(cache providers.CacheProvider, ttl time.Duration) repositories.QuerySessionRepository {
	return &QuerySessionStore{cache: cache, ttl: ttl}
}

// SessionKey returns the cache key of a session id
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Get loads a session by id
func (s *QuerySessionStore) Get(ctx context.Context, id string) (*entities.QuerySession, error) {
	data, err := s.cache.Get(ctx, SessionKey(id))
	if errors.Is(err, providers.ErrCacheMiss) {
		return nil, apperrors.NewNotFoundError("session not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read session", err)
	}

	var session entities.QuerySession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.NewInternalError("failed to decode session", err)
	}
	if session.Query.Specialties == nil {
		session.Query.Specialties = []string{}
	}
	return &session, nil
}

// Save writes the session, replacing any previous value and restarting its TTL
func (s *QuerySessionStore) Save(ctx context.Context, session *entities.QuerySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewInternalError("failed to encode session", err)
	}
	if err := s.cache.Set(ctx, SessionKey(session.ID), data, int(s.ttl.Seconds())); err != nil {
		return apperrors.NewInternalError("failed to write session", fmt.Errorf("session %s: %w", session.ID, err))
	}
	return nil
}

// Delete removes a session; deleting an unknown id is not an error
func (s *QuerySessionStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, SessionKey(id)); err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}
	return nil
}
