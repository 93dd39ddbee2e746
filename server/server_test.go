package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spektr-org/hrpulse/config"
	"github.com/spektr-org/hrpulse/dataset"
	"github.com/spektr-org/hrpulse/engine"
	"github.com/spektr-org/hrpulse/metrics"
	"github.com/spektr-org/hrpulse/report"
)

const hrCSV = `Age,Attrition,Department,EnvironmentSatisfaction,JobRole,JobSatisfaction,MonthlyIncome,YearsAtCompany
41,Yes,Sales,2,Sales Executive,4,5993,6
49,No,Research & Development,3,Research Scientist,2,5130,10
37,Yes,Research & Development,4,Laboratory Technician,3,2090,0
33,No,Research & Development,4,Research Scientist,3,2909,8
27,No,Research & Development,1,Laboratory Technician,2,3468,2
32,No,Sales,4,Sales Executive,4,3068,7
59,No,Human Resources,3,Human Resources,1,2670,1
`

func setupTestServer(t *testing.T, csvBody string) (http.Handler, *config.Config) {
	t.Helper()

	cfg := config.Default()
	cfg.Dataset.Path = filepath.Join(t.TempDir(), dataset.DefaultPath)
	cfg.Render.Width, cfg.Render.Height = 480, 320
	cfg.RateLimiter.Enabled = false
	if csvBody != "" {
		require.NoError(t, os.WriteFile(cfg.Dataset.Path, []byte(csvBody), 0o644))
	}

	logger := zap.NewNop()
	m := metrics.NewMetrics(nil)
	cache := dataset.NewCache(m, logger)
	gen := report.NewGenerator(cache, report.DefaultOptions(), m, logger)

	srv := NewServer(cfg, gen, m, logger)
	srv.SetupRoutes()
	return srv.GetHandler(), cfg
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	h, _ := setupTestServer(t, "")
	rec := get(h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReadyWithoutDataset(t *testing.T) {
	h, _ := setupTestServer(t, "")
	rec := get(h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReportJSON(t *testing.T) {
	h, _ := setupTestServer(t, hrCSV)
	rec := get(h, "/api/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		PageTitle string `json:"pageTitle"`
		Employees int    `json:"employees"`
		KPIs      struct {
			AttritionRate float64 `json:"attritionRate"`
		} `json:"kpis"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "HR Attrition Dashboard", body.PageTitle)
	assert.Equal(t, 7, body.Employees)
	assert.InDelta(t, 200.0/7.0, body.KPIs.AttritionRate, 1e-9)
}

func TestReportFormats(t *testing.T) {
	h, _ := setupTestServer(t, hrCSV)

	rec := get(h, "/api/report?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Metric,Value")

	rec = get(h, "/api/report?format=yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pageTitle: HR Attrition Dashboard")

	rec = get(h, "/api/report?format=xml")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportMissingDatasetIs503(t *testing.T) {
	h, _ := setupTestServer(t, "")
	rec := get(h, "/api/report")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrorCodeDatasetUnavailable, resp.ErrorCode)
	assert.NotEmpty(t, resp.RequestID)
}

func TestReportSchemaErrorIs422(t *testing.T) {
	h, _ := setupTestServer(t, "Attrition,JobRole,Age,YearsAtCompany,MonthlyIncome,JobSatisfaction,EnvironmentSatisfaction\nYes,A,30,1,1000,1,1\n")
	rec := get(h, "/api/report")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ErrorCodeSchemaMismatch, decodeError(t, rec).ErrorCode)
}

func TestReportEmptyDatasetIs422(t *testing.T) {
	h, _ := setupTestServer(t, "Attrition,YearsAtCompany,MonthlyIncome\n")
	rec := get(h, "/api/report")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ErrorCodeEmptyDataset, decodeError(t, rec).ErrorCode)
}

func TestKPIsAndJobRoles(t *testing.T) {
	h, _ := setupTestServer(t, hrCSV)

	rec := get(h, "/api/kpis")
	require.Equal(t, http.StatusOK, rec.Code)
	var kpis engine.KPISet
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&kpis))
	assert.Equal(t, "$ 3,618", kpis.Metrics[2].Value)

	rec = get(h, "/api/job-roles?sort=label_asc")
	require.Equal(t, http.StatusOK, rec.Code)
	var roles engine.JobRoleAttritionTable
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&roles))
	assert.Equal(t, "Human Resources", roles.Rows[0].JobRole)
	assert.Equal(t, 7, roles.TotalCount())
}

func TestChartEndpoints(t *testing.T) {
	h, _ := setupTestServer(t, hrCSV)

	rec := get(h, "/api/charts")
	require.Equal(t, http.StatusOK, rec.Code)
	var specs []engine.ChartSpec
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&specs))
	assert.Len(t, specs, 5)

	rec = get(h, "/api/charts/"+engine.ChartAttritionByJobRole)
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg engine.ChartConfig
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cfg))
	assert.Equal(t, "Rate (%)", cfg.YAxis)

	rec = get(h, "/api/charts/"+engine.ChartAttritionByDepartment+"?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Department,Yes,No")

	rec = get(h, "/api/charts/pie")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartPNGEndpoint(t *testing.T) {
	h, _ := setupTestServer(t, hrCSV)

	rec := get(h, "/charts/"+engine.ChartAgeDistribution+".png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 480, img.Bounds().Dx())
}

func TestDashboardPage(t *testing.T) {
	h, _ := setupTestServer(t, hrCSV)
	rec := get(h, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>HR Attrition Dashboard</title>")
	assert.Contains(t, body, "Employee Attrition and HR Insights Dashboard")
	assert.Contains(t, body, "Avg Monthly Income")
	assert.Contains(t, body, "/charts/income_vs_tenure.png")
	assert.Contains(t, body, "Research Scientist")
}

func TestDashboardPageShowsError(t *testing.T) {
	h, _ := setupTestServer(t, "")
	rec := get(h, "/")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "file not found")
	assert.NotContains(t, rec.Body.String(), "<img")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h, _ := setupTestServer(t, hrCSV)

	rec := get(h, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	resp := decodeError(t, rec)
	assert.Equal(t, ErrorCodeNotFound, resp.ErrorCode)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), resp.RequestID)

	for _, path := range []string{"/api/report", "/api/charts/" + engine.ChartAgeDistribution, "/health"} {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
		resp = decodeError(t, rec)
		assert.Equal(t, ErrorCodeInvalidRequest, resp.ErrorCode, path)
		assert.NotEmpty(t, resp.RequestID, path)
	}
}

func TestUnmatchedRequestsAreCounted(t *testing.T) {
	h, _ := setupTestServer(t, hrCSV)
	get(h, "/nope/1")
	get(h, "/nope/2")

	body := get(h, "/metrics").Body.String()
	assert.Contains(t, body, `route="unmatched"`)
	assert.NotContains(t, body, `route="/nope/1"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupTestServer(t, hrCSV)
	get(h, "/api/report")
	get(h, "/api/report")

	rec := get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "hrpulse_dataset_cache_hits_total 1")
	assert.Contains(t, body, "hrpulse_dataset_cache_misses_total 1")
	assert.Contains(t, body, `hrpulse_reports_total{result="ok"} 2`)
	assert.Contains(t, body, `route="/api/report"`)
}
