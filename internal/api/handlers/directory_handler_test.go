package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctorfinder/internal/api/handlers"
	"github.com/zatekoja/doctorfinder/internal/application/services"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	queryservices "github.com/zatekoja/doctorfinder/internal/query/services"
	apperrors "github.com/zatekoja/doctorfinder/pkg/errors"
)

type MockDirectoryQueryService struct {
	mock.Mock
}

func (m *MockDirectoryQueryService) Search(ctx context.Context, params entities.QueryParameters) *queryservices.SearchResult {
	args := m.Called(ctx, params)
	return args.Get(0).(*queryservices.SearchResult)
}

func (m *MockDirectoryQueryService) Suggest(ctx context.Context, input string) []queryservices.ProviderSuggestion {
	args := m.Called(ctx, input)
	return args.Get(0).([]queryservices.ProviderSuggestion)
}

func (m *MockDirectoryQueryService) Specialties(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

type MockDirectoryLoader struct {
	mock.Mock
}

func (m *MockDirectoryLoader) Load(ctx context.Context) (*services.LoadResult, error) {
	args := m.Called(ctx)
	if result := args.Get(0); result != nil {
		return result.(*services.LoadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDirectoryHandler_ListProvidersDecodesQuery(t *testing.T) {
	queryService := new(MockDirectoryQueryService)
	expected := entities.QueryParameters{
		SearchText:       "ali",
		ConsultationMode: entities.ConsultationModeVideo,
		Specialties:      []string{"Dentist", "ENT"},
		SortKey:          entities.SortByFees,
	}
	queryService.On("Search", mock.Anything, expected).Return(&queryservices.SearchResult{
		Providers:  []entities.Provider{{ID: "1", Name: "Alice Rao"}},
		Query:      expected,
		TotalCount: 1,
	})

	handler := handlers.NewDirectoryHandler(queryService, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/providers?search=ali&mode=video&specialties=Dentist,ENT&sort=fees", nil)
	rec := httptest.NewRecorder()

	handler.ListProviders(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	providers := body["providers"].([]interface{})
	require.Len(t, providers, 1)
	assert.Equal(t, "Alice Rao", providers[0].(map[string]interface{})["name"])
	queryService.AssertExpectations(t)
}

func TestDirectoryHandler_SuggestProviders(t *testing.T) {
	queryService := new(MockDirectoryQueryService)
	queryService.On("Suggest", mock.Anything, "ali").Return([]queryservices.ProviderSuggestion{
		{ID: "1", Name: "Alice Rao", Speciality: "Dentist"},
		{ID: "3", Name: "Alicia Mehta", Speciality: "Dentist"},
	})

	handler := handlers.NewDirectoryHandler(queryService, nil)
	rec := httptest.NewRecorder()
	handler.SuggestProviders(rec, httptest.NewRequest(http.MethodGet, "/api/providers/suggest?q=ali", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
	first := body["suggestions"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Alice Rao", first["name"])
	assert.Equal(t, "Dentist", first["speciality"])
}

func TestDirectoryHandler_ListSpecialties(t *testing.T) {
	queryService := new(MockDirectoryQueryService)
	queryService.On("Specialties", mock.Anything).Return([]string{"Cardiologist", "Dentist"})

	handler := handlers.NewDirectoryHandler(queryService, nil)
	rec := httptest.NewRecorder()
	handler.ListSpecialties(rec, httptest.NewRequest(http.MethodGet, "/api/specialties", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"Cardiologist", "Dentist"}, decodeBody(t, rec)["specialties"])
}

func TestDirectoryHandler_RefreshDirectory(t *testing.T) {
	loader := new(MockDirectoryLoader)
	loader.On("Load", mock.Anything).Return(&services.LoadResult{Count: 12}, nil)

	handler := handlers.NewDirectoryHandler(new(MockDirectoryQueryService), loader)
	rec := httptest.NewRecorder()
	handler.RefreshDirectory(rec, httptest.NewRequest(http.MethodPost, "/api/directory/refresh", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(12), body["count"])
	assert.Equal(t, false, body["fallback"])
	assert.NotContains(t, body, "error")
}

func TestDirectoryHandler_RefreshDirectoryFailure(t *testing.T) {
	loader := new(MockDirectoryLoader)
	loader.On("Load", mock.Anything).Return(&services.LoadResult{
		Count:    10,
		Notice:   services.LoadFailureNotice,
		Fallback: true,
	}, apperrors.NewExternalError("failed to load data", nil))

	handler := handlers.NewDirectoryHandler(new(MockDirectoryQueryService), loader)
	rec := httptest.NewRecorder()
	handler.RefreshDirectory(rec, httptest.NewRequest(http.MethodPost, "/api/directory/refresh", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "failed to load data", body["error"])
	assert.Equal(t, true, body["fallback"])
}

func TestDirectoryHandler_RefreshUnavailable(t *testing.T) {
	handler := handlers.NewDirectoryHandler(new(MockDirectoryQueryService), nil)
	rec := httptest.NewRecorder()
	handler.RefreshDirectory(rec, httptest.NewRequest(http.MethodPost, "/api/directory/refresh", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
