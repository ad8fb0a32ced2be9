package services

import (
	"context"
	"time"

	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
)

// ProviderSource supplies the current directory snapshot
type ProviderSource interface {
	Snapshot() *entities.DirectorySnapshot
}

// DirectoryQueryService handles read-only directory operations
type DirectoryQueryService struct {
	source  ProviderSource
	metrics *observability.Metrics
}

// NewDirectoryQueryService creates a new directory query service
func NewDirectoryQueryService(source ProviderSource, metrics *observability.Metrics) *DirectoryQueryService {
	return &DirectoryQueryService{
		source:  source,
		metrics: metrics,
	}
}

// SearchResult represents a derived provider list with metadata
type SearchResult struct {
	Providers  []entities.Provider      `json:"providers"`
	Query      entities.QueryParameters `json:"query"`
	TotalCount int                      `json:"count"`
	Notice     string                   `json:"notice,omitempty"`
	SearchTime float64                  `json:"-"`
}

// ProviderSuggestion represents an autocomplete suggestion
type ProviderSuggestion struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Speciality string `json:"speciality"`
}

// Search derives the displayed list for params from the current snapshot
func (s *DirectoryQueryService) Search(ctx context.Context, params entities.QueryParameters) *SearchResult {
	ctx, span := observability.StartSpan(ctx, "directory.search")
	defer span.End()

	start := time.Now()
	snapshot := s.source.Snapshot()
	providers := Derive(snapshot.Providers, params)

	observability.RecordDerivation(ctx, s.metrics, string(params.SortKey), len(providers))
	observability.SetSpanAttributes(span,
		attribute.Int("directory.results", len(providers)),
		attribute.String("directory.sort_key", string(params.SortKey)),
	)

	if params.Specialties == nil {
		params.Specialties = []string{}
	}
	return &SearchResult{
		Providers:  providers,
		Query:      params,
		TotalCount: len(providers),
		Notice:     snapshot.Notice,
		SearchTime: float64(time.Since(start).Microseconds()) / 1000,
	}
}

// Suggest returns autocomplete suggestions over the full, unfiltered directory
func (s *DirectoryQueryService) Suggest(ctx context.Context, input string) []ProviderSuggestion {
	matches := Suggest(s.source.Snapshot().Providers, input)

	suggestions := make([]ProviderSuggestion, len(matches))
	for i, p := range matches {
		suggestions[i] = ProviderSuggestion{ID: p.ID, Name: p.Name, Speciality: p.Speciality}
	}

	observability.RecordSuggestion(ctx, s.metrics, len(suggestions))
	return suggestions
}

// Specialties returns the specialty filter options for the current directory
func (s *DirectoryQueryService) Specialties(_ context.Context) []string {
	return SpecialtyOptions(s.source.Snapshot().Providers)
}
