package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/doctorfinder/internal/adapters/urlstate"
	"github.com/zatekoja/doctorfinder/internal/application/services"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	queryservices "github.com/zatekoja/doctorfinder/internal/query/services"
)

// DirectoryQueryService is the read side used by the directory endpoints
type DirectoryQueryService interface {
	Search(ctx context.Context, params entities.QueryParameters) *queryservices.SearchResult
	Suggest(ctx context.Context, input string) []queryservices.ProviderSuggestion
	Specialties(ctx context.Context) []string
}

// DirectoryLoader reloads the provider directory
type DirectoryLoader interface {
	Load(ctx context.Context) (*services.LoadResult, error)
}

// DirectoryHandler handles provider directory HTTP requests
type DirectoryHandler struct {
	queryService DirectoryQueryService
	loader       DirectoryLoader
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(queryService DirectoryQueryService, loader DirectoryLoader) *DirectoryHandler {
	return &DirectoryHandler{
		queryService: queryService,
		loader:       loader,
	}
}

// ListProviders handles GET /api/providers
func (h *DirectoryHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	params := urlstate.Decode(r.URL.Query())
	respondWithSearchResult(w, h.queryService.Search(r.Context(), params))
}

// SuggestProviders handles GET /api/providers/suggest
func (h *DirectoryHandler) SuggestProviders(w http.ResponseWriter, r *http.Request) {
	suggestions := h.queryService.Suggest(r.Context(), r.URL.Query().Get("q"))

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// ListSpecialties handles GET /api/specialties
func (h *DirectoryHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties := h.queryService.Specialties(r.Context())

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specialties": specialties,
		"count":       len(specialties),
	})
}

// RefreshDirectory handles POST /api/directory/refresh
func (h *DirectoryHandler) RefreshDirectory(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		respondWithError(w, http.StatusServiceUnavailable, "directory refresh is not available")
		return
	}

	result, err := h.loader.Load(r.Context())
	if result == nil {
		respondWithAppError(w, r, err)
		return
	}

	body := map[string]interface{}{
		"count":    result.Count,
		"notice":   result.Notice,
		"fallback": result.Fallback,
		"stale":    result.Stale,
	}
	if err != nil {
		body["error"] = services.LoadFailureNotice
		respondWithJSON(w, http.StatusBadGateway, body)
		return
	}

	respondWithJSON(w, http.StatusOK, body)
}
