package transport

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/moon-schumann-dashboard/internal/config"
	apperrors "github.com/anime-shed/moon-schumann-dashboard/internal/errors"
	"github.com/anime-shed/moon-schumann-dashboard/internal/logger"
	"github.com/anime-shed/moon-schumann-dashboard/internal/observer"
	"github.com/anime-shed/moon-schumann-dashboard/internal/service"
	"github.com/anime-shed/moon-schumann-dashboard/internal/storage"
	"github.com/anime-shed/moon-schumann-dashboard/pkg/models"
)

const version = "1.0.0"

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// SnapshotRoute is where the latest Schumann image is served
const SnapshotRoute = "/temp/" + storage.SnapshotFileName

var templateFuncs = template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"barWidth": func(v float64) string {
		return fmt.Sprintf("%.2f%%", max(0, min(100, v)))
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
}

// SnapshotLoader returns the most recently saved Schumann image
type SnapshotLoader interface {
	Load() ([]byte, error)
}

// NewHandler builds the gin router serving the dashboard pages and JSON API
func NewHandler(svc service.DashboardService, metrics *observer.MetricsObserver, cfg *config.Config, snapshots SnapshotLoader) (http.Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		requestID(),
		requestLogger(),
		gin.Recovery(),
	)

	h := &handler{svc: svc, metrics: metrics, snapshots: snapshots, timeout: cfg.RequestTimeout}

	r.GET("/", h.dashboardPage)
	r.GET("/schumann", h.schumannPage)
	r.GET("/moon", h.moonPage)

	api := r.Group("/api")
	api.GET("/dashboard", h.dashboardJSON)
	api.GET("/schumann", h.schumannJSON)
	api.GET("/stats", h.stats)

	r.GET("/health", healthCheck)
	r.GET(SnapshotRoute, h.snapshot)
	r.StaticFS("/static", http.FS(static))

	r.NoRoute(func(c *gin.Context) {
		respondError(c, apperrors.NewNotFoundError("page not found", nil))
	})

	return r, nil
}

type handler struct {
	svc       service.DashboardService
	metrics   *observer.MetricsObserver
	snapshots SnapshotLoader
	timeout   time.Duration
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *handler) dashboardPage(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	dashboard, err := h.svc.BuildDashboard(ctx, c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard", page("Moon & Schumann Dashboard", gin.H{
		"Dashboard": dashboard,
	}))
}

func (h *handler) schumannPage(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.svc.AnalyzeSchumann(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.HTML(http.StatusOK, "schumann", page("Schumann Resonance Dashboard", gin.H{
		"Schumann": report,
	}))
}

func (h *handler) moonPage(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.svc.MoonReport(ctx, c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.HTML(http.StatusOK, "moon", page("Moon Phases", gin.H{
		"Moon":   report,
		"Cities": h.svc.Cities(report.City),
	}))
}

func (h *handler) dashboardJSON(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	dashboard, err := h.svc.BuildDashboard(ctx, c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *handler) schumannJSON(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.svc.AnalyzeSchumann(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Stats())
}

func (h *handler) snapshot(c *gin.Context) {
	data, err := h.snapshots.Load()
	if errors.Is(err, fs.ErrNotExist) {
		respondError(c, apperrors.NewNotFoundError("no Schumann image has been fetched yet", err))
		return
	}
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to read Schumann image", err))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/jpeg", data)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "available",
		Version:   version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func page(title string, data gin.H) gin.H {
	data["Title"] = title
	data["GeneratedAt"] = time.Now().UTC().Format(time.RFC1123)
	return data
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// respondError renders err as JSON for API callers and as an HTML page otherwise
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	code := appErr.StatusCode
	requestID := c.GetString(requestIDKey)

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"error_type":  appErr.Type,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
		"request_id":  requestID,
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request failed")
	}

	if isAPIRequest(c) {
		c.AbortWithStatusJSON(code, models.ErrorResponse{
			Error:     http.StatusText(code),
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: requestID,
		})
		return
	}

	c.HTML(code, "error", page("Error", gin.H{
		"Status":     code,
		"StatusText": http.StatusText(code),
		"Message":    appErr.Message,
		"Details":    appErr.Details,
		"RequestID":  requestID,
	}))
	c.Abort()
}
