package container

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/anime-shed/moon-schumann-dashboard/internal/analyzer"
	"github.com/anime-shed/moon-schumann-dashboard/internal/config"
	"github.com/anime-shed/moon-schumann-dashboard/internal/factory"
	"github.com/anime-shed/moon-schumann-dashboard/internal/logger"
	"github.com/anime-shed/moon-schumann-dashboard/internal/observer"
	"github.com/anime-shed/moon-schumann-dashboard/internal/repository"
	"github.com/anime-shed/moon-schumann-dashboard/internal/service"
	"github.com/anime-shed/moon-schumann-dashboard/internal/storage"
	"github.com/anime-shed/moon-schumann-dashboard/internal/transport"
	"github.com/anime-shed/moon-schumann-dashboard/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config           *config.Config
	imageAnalyzer    analyzer.ImageAnalyzer
	metrics          *observer.MetricsObserver
	dashboardService service.DashboardService
	handler          http.Handler
}

// NewContainer builds the dependency graph from cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	if err := validateSources(cfg); err != nil {
		return nil, err
	}

	components := factory.NewComponentFactory(cfg)

	bands, err := components.Bands()
	if err != nil {
		return nil, fmt.Errorf("failed to load color bands: %w", err)
	}

	imageFetcher, err := components.ImageFetcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create image fetcher: %w", err)
	}

	snapshots, err := storage.NewSnapshotStore(cfg.SnapshotDir)
	if err != nil {
		return nil, err
	}

	events := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	imageURL := cfg.SchumannImageURL
	if cfg.ImageSource == config.ImageSourceAzure {
		imageURL = "" // the fetcher's configured container and blob
	}

	imageAnalyzer := components.Analyzer()
	dashboardService := service.NewDashboardService(
		repository.NewSchumannRepository(imageFetcher, snapshots, imageURL, cfg.ImageFetchTimeout),
		repository.NewLunarRepository(components.LunarFetcher()),
		imageAnalyzer,
		events,
		service.Options{
			Bands:       bands,
			Sections:    cfg.Sections,
			Cities:      cfg.Cities,
			DefaultCity: cfg.DefaultCity,
			SnapshotURL: transport.SnapshotRoute,
		},
	)

	handler, err := transport.NewHandler(dashboardService, metrics, cfg, snapshots)
	if err != nil {
		imageAnalyzer.Close()
		return nil, err
	}

	return &Container{
		config:           cfg,
		imageAnalyzer:    imageAnalyzer,
		metrics:          metrics,
		dashboardService: dashboardService,
		handler:          handler,
	}, nil
}

func validateSources(cfg *config.Config) error {
	v := validation.NewURLValidator()
	if cfg.ImageSource == config.ImageSourceHTTP {
		if err := v.ValidateSourceURL(cfg.SchumannImageURL); err != nil {
			return fmt.Errorf("SCHUMANN_IMAGE_URL: %w", err)
		}
	}
	if err := v.ValidateSourceURL(cfg.LunarSiteURL); err != nil {
		return fmt.Errorf("LUNAR_SITE_URL: %w", err)
	}

	// Phase images are resolved against the site URL, so the scraped pages must live on the same host.
	site, err := url.Parse(cfg.LunarSiteURL)
	if err != nil {
		return fmt.Errorf("LUNAR_SITE_URL: %w", err)
	}
	lunar := validation.NewURLValidatorWithOptions([]string{"http", "https"}, []string{site.Hostname()})
	if err := lunar.ValidateSourceURL(cfg.LunarBaseURL); err != nil {
		return fmt.Errorf("LUNAR_BASE_URL: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// DashboardService returns the dashboard service
func (c *Container) DashboardService() service.DashboardService {
	return c.dashboardService
}

// Metrics returns the event counters
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Close releases the analyzer worker pool
func (c *Container) Close() error {
	return c.imageAnalyzer.Close()
}
