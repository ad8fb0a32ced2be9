package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/zatekoja/doctorfinder/internal/adapters/urlstate"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	apperrors "github.com/zatekoja/doctorfinder/pkg/errors"
)

const maxPatchBodyBytes = 1 << 16

// QuerySessionService manages per-view query parameters
type QuerySessionService interface {
	Start(ctx context.Context) (*entities.QuerySession, error)
	Get(ctx context.Context, id string) (*entities.QuerySession, error)
	Update(ctx context.Context, id string, patch entities.QueryPatch) (*entities.QuerySession, error)
	End(ctx context.Context, id string) error
}

// SessionHandler handles query session HTTP requests
type SessionHandler struct {
	sessions     QuerySessionService
	queryService DirectoryQueryService
	validate     *validator.Validate
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions QuerySessionService, queryService DirectoryQueryService) *SessionHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &SessionHandler{
		sessions:     sessions,
		queryService: queryService,
		validate:     validate,
	}
}

type sessionResponse struct {
	ID          string                   `json:"id"`
	Query       entities.QueryParameters `json:"query"`
	QueryString string                   `json:"queryString"`
}

func newSessionResponse(session *entities.QuerySession) sessionResponse {
	return sessionResponse{
		ID:          session.ID,
		Query:       session.Query,
		QueryString: urlstate.Encode(session.Query).Encode(),
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Start(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newSessionResponse(session))
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newSessionResponse(session))
}

// UpdateSession handles PATCH /api/sessions/{id}
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	patch, err := h.decodePatch(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	session, err := h.sessions.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newSessionResponse(session))
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSessionProviders handles GET /api/sessions/{id}/providers
func (h *SessionHandler) ListSessionProviders(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithSearchResult(w, h.queryService.Search(r.Context(), session.Query))
}

func (h *SessionHandler) decodePatch(r *http.Request) (entities.QueryPatch, error) {
	var patch entities.QueryPatch

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxPatchBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		return patch, apperrors.NewValidationError("invalid request body", err)
	}

	if err := h.validate.Struct(patch); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return patch, apperrors.NewValidationError(
				fmt.Sprintf("invalid value for %s", fieldErrs[0].Field()), err)
		}
		return patch, apperrors.NewValidationError("invalid request body", err)
	}

	return patch, nil
}
