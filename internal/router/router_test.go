package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"claimassist/internal/domain"
	"claimassist/internal/handler"
	"claimassist/internal/metrics"
	"claimassist/internal/router"
	"claimassist/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter() (*gin.Engine, *mocks.MockAnalysisService) {
	svc := new(mocks.MockAnalysisService)
	r := router.Setup(
		[]string{"http://localhost:3000"},
		metrics.New(),
		handler.NewAnalysisHandler(svc),
		handler.NewHealthHandler(),
	)
	return r, svc
}

func TestRouter_StaticRoutesWinOverID(t *testing.T) {
	r, svc := setupRouter()
	svc.On("Stats", mock.Anything).Return(&domain.AnalysisStats{Total: 3}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/analyses/stats", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRouter_GetByID(t *testing.T) {
	r, svc := setupRouter()
	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(&domain.ClaimAnalysis{ID: id}, nil)
	svc.On("GetDownloadURL", mock.Anything, mock.Anything).Return("", nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/analyses/"+id.String(), http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Reanalyze(t *testing.T) {
	r, svc := setupRouter()
	id := uuid.New()
	svc.On("Reanalyze", mock.Anything, id).Return(&domain.ClaimAnalysis{ID: uuid.New()}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/analyses/"+id.String()+"/reanalyze", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "claimassist_http_requests_total"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	r, _ := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/unknown", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
