package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/moon-schumann-dashboard/internal/analyzer"
	"github.com/anime-shed/moon-schumann-dashboard/internal/config"
	apperrors "github.com/anime-shed/moon-schumann-dashboard/internal/errors"
	"github.com/anime-shed/moon-schumann-dashboard/internal/observer"
	"github.com/anime-shed/moon-schumann-dashboard/internal/storage"
	"github.com/anime-shed/moon-schumann-dashboard/pkg/models"
)

type fakeService struct {
	err      error
	lastCity string
}

func (f *fakeService) schumann() *models.SchumannReport {
	return &models.SchumannReport{
		ImagePath: SnapshotRoute,
		Width:     10,
		Height:    5,
		Bands: []models.BandReading{
			{Name: "Homeostasis/Calm (Blue)", Percentage: 42.126, Swatch: "#1919bf", Description: "Calm"},
			{Name: "5D Light Coding (White)", Percentage: 3.5, Swatch: "#e3e3e3"},
		},
		Sections: []models.SectionReading{
			{Index: 0, Label: "00:00", Bands: []models.BandReading{{Name: "Homeostasis/Calm (Blue)", Percentage: 40}}},
			{Index: 1, Label: "23:59", Bands: []models.BandReading{{Name: "Homeostasis/Calm (Blue)", Percentage: 44.25}}},
		},
		Trends: []models.TrendReading{{Name: "Homeostasis/Calm (Blue)", Mean: 42.126, PeakLabel: "23:59"}},
	}
}

func (f *fakeService) moon(city string) *models.MoonReport {
	return &models.MoonReport{
		City:            city,
		CityLabel:       "Toronto",
		CurrentPhase:    "Full Moon",
		Illumination:    "99.8%",
		CurrentReadings: []models.ArchetypeReading{{Archetype: "Witches", Reading: "Heightened intensity."}},
		Phases: []models.PhaseCard{{
			Title:    "New Moon",
			Date:     "Mar 10",
			Time:     "05:00",
			Readings: []models.ArchetypeReading{{Archetype: "Mystics", Reading: "Set intentions."}},
		}},
	}
}

func (f *fakeService) BuildDashboard(ctx context.Context, city string) (*models.Dashboard, error) {
	f.lastCity = city
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, apperrors.NewInternalError("missing deadline", nil)
	}
	return &models.Dashboard{
		GeneratedAt: time.Now(),
		City:        "toronto",
		Cities:      f.Cities("toronto"),
		Moon:        f.moon("toronto"),
		Schumann:    f.schumann(),
	}, nil
}

func (f *fakeService) AnalyzeSchumann(ctx context.Context) (*models.SchumannReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schumann(), nil
}

func (f *fakeService) MoonReport(ctx context.Context, city string) (*models.MoonReport, error) {
	f.lastCity = city
	if f.err != nil {
		return nil, f.err
	}
	return f.moon("toronto"), nil
}

func (f *fakeService) Cities(selected string) []models.CityOption {
	return []models.CityOption{
		{Slug: "campbellton", Label: "Campbellton", Selected: selected == "campbellton"},
		{Slug: "toronto", Label: "Toronto", Selected: selected == "toronto"},
	}
}

func (f *fakeService) Bands() []analyzer.ColorBand {
	return analyzer.DefaultBands()
}

func setupRouter(t *testing.T, svc *fakeService) (http.Handler, *observer.MetricsObserver, *storage.SnapshotStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	snapshots, err := storage.NewSnapshotStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, snapshots.Save([]byte("jpeg-bytes")))

	metrics := observer.NewMetricsObserver()
	h, err := NewHandler(svc, metrics, &config.Config{RequestTimeout: 5 * time.Second}, snapshots)
	require.NoError(t, err)
	return h, metrics, snapshots
}

func serve(h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	h, _, _ := setupRouter(t, &fakeService{})

	w := serve(h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "available", resp.Status)
	assert.Equal(t, version, resp.Version)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDPropagates(t *testing.T) {
	h, _, _ := setupRouter(t, &fakeService{})

	w := serve(h, http.MethodGet, "/health", map[string]string{requestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestDashboardPage(t *testing.T) {
	svc := &fakeService{}
	h, _, _ := setupRouter(t, svc)

	w := serve(h, http.MethodGet, "/?city=toronto", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "toronto", svc.lastCity)

	body := w.Body.String()
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<title>Moon &amp; Schumann Dashboard</title>")
	assert.Contains(t, body, `<option value="toronto" selected>Toronto</option>`)
	assert.Contains(t, body, "<strong>Current Phase:</strong> Full Moon")
	assert.Contains(t, body, "Homeostasis/Calm (Blue)")
	assert.Contains(t, body, "42.13%")
	assert.Contains(t, body, `src="/temp/schumann_image.jpg"`)
	assert.Contains(t, body, "background: #1919bf")
}

func TestSchumannPage(t *testing.T) {
	h, _, _ := setupRouter(t, &fakeService{})

	w := serve(h, http.MethodGet, "/schumann", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "width: 42.13%")
	assert.Contains(t, body, "Calm</p>")
	assert.Contains(t, body, "<td>23:59</td>")
	assert.Contains(t, body, "Trends Across the Day")
}

func TestMoonPage(t *testing.T) {
	svc := &fakeService{}
	h, _, _ := setupRouter(t, svc)

	w := serve(h, http.MethodGet, "/moon?city=Toronto", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Toronto", svc.lastCity)

	body := w.Body.String()
	assert.Contains(t, body, "Moon Phases in Toronto")
	assert.Contains(t, body, "<strong>Witches:</strong> Heightened intensity.")
	assert.Contains(t, body, "<strong>Mystics:</strong> Set intentions.")
}

func TestDashboardJSON(t *testing.T) {
	h, _, _ := setupRouter(t, &fakeService{})

	w := serve(h, http.MethodGet, "/api/dashboard?city=toronto", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var d models.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, "toronto", d.City)
	require.NotNil(t, d.Schumann)
	assert.Equal(t, 42.126, d.Schumann.Bands[0].Percentage)
	require.NotNil(t, d.Moon)
	assert.Equal(t, "Full Moon", d.Moon.CurrentPhase)
}

func TestSchumannJSON(t *testing.T) {
	h, _, _ := setupRouter(t, &fakeService{})

	w := serve(h, http.MethodGet, "/api/schumann", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report models.SchumannReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Len(t, report.Sections, 2)
	assert.Equal(t, "23:59", report.Trends[0].PeakLabel)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target string
		status int
		json   bool
	}{
		{"validation api", apperrors.NewValidationError(`unknown city "paris"`, nil), "/api/dashboard?city=paris", http.StatusBadRequest, true},
		{"network api", apperrors.NewNetworkError("failed to fetch Schumann image", nil), "/api/schumann", http.StatusBadGateway, true},
		{"timeout html", apperrors.NewTimeoutError("failed to fetch lunar data", context.DeadlineExceeded), "/moon", http.StatusGatewayTimeout, false},
		{"processing html", apperrors.NewProcessingError("failed to analyze Schumann image", nil), "/schumann", http.StatusUnprocessableEntity, false},
		{"plain error", assert.AnError, "/", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := setupRouter(t, &fakeService{err: tt.err})

			w := serve(h, http.MethodGet, tt.target, nil)
			require.Equal(t, tt.status, w.Code)

			if tt.json {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, http.StatusText(tt.status), resp.Error)
				assert.Equal(t, apperrors.AsAppError(tt.err).Message, resp.Message)
				assert.NotEmpty(t, resp.RequestID)
				return
			}
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, w.Body.String(), http.StatusText(tt.status))
		})
	}
}

func TestStats(t *testing.T) {
	h, metrics, _ := setupRouter(t, &fakeService{})
	metrics.OnEvent(context.Background(), observer.DashboardEvent{EventType: observer.ImageFetched})

	w := serve(h, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats observer.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.ImageFetches)
}

func TestStaticAssets(t *testing.T) {
	h, _, _ := setupRouter(t, &fakeService{})

	w := serve(h, http.MethodGet, SnapshotRoute, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg-bytes", w.Body.String())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = serve(h, http.MethodGet, "/static/dashboard.css", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".moon-phases")
}

func TestSnapshot_ServesLatestSave(t *testing.T) {
	h, _, snapshots := setupRouter(t, &fakeService{})
	require.NoError(t, snapshots.Save([]byte("newer-jpeg")))

	w := serve(h, http.MethodGet, SnapshotRoute, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "newer-jpeg", w.Body.String())
}

func TestSnapshot_NotFetchedYet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	snapshots, err := storage.NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	h, err := NewHandler(&fakeService{}, observer.NewMetricsObserver(), &config.Config{RequestTimeout: time.Second}, snapshots)
	require.NoError(t, err)

	w := serve(h, http.MethodGet, SnapshotRoute, map[string]string{"Accept": "application/json"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "no Schumann image")
}

func TestNotFound(t *testing.T) {
	h, _, _ := setupRouter(t, &fakeService{})

	w := serve(h, http.MethodGet, "/api/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	w = serve(h, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}
