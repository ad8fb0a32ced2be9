package handlers

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/observability"
	queryservices "github.com/zatekoja/doctorfinder/internal/query/services"
	apperrors "github.com/zatekoja/doctorfinder/pkg/errors"
)

// SearchTimeHeader carries the derivation time in milliseconds.
// The JSON body omits it.
const SearchTimeHeader = "X-Search-Time-Ms"

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps err to a status and a client-safe message
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	respondWithError(w, status, apperrors.PublicMessage(err))
}

func respondWithSearchResult(w http.ResponseWriter, result *queryservices.SearchResult) {
	w.Header().Set(SearchTimeHeader, strconv.FormatFloat(result.SearchTime, 'f', 3, 64))
	respondWithJSON(w, http.StatusOK, result)
}
