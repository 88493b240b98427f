package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/anime-shed/moon-schumann-dashboard/internal/analyzer"
	"github.com/anime-shed/moon-schumann-dashboard/internal/config"
	apperrors "github.com/anime-shed/moon-schumann-dashboard/internal/errors"
	"github.com/anime-shed/moon-schumann-dashboard/internal/logger"
	"github.com/anime-shed/moon-schumann-dashboard/internal/lunar"
	"github.com/anime-shed/moon-schumann-dashboard/internal/observer"
	"github.com/anime-shed/moon-schumann-dashboard/internal/repository"
	"github.com/anime-shed/moon-schumann-dashboard/pkg/models"
	"github.com/anime-shed/moon-schumann-dashboard/pkg/validation"
)

// DashboardService assembles the moon and Schumann views
type DashboardService interface {
	// BuildDashboard fetches both sources concurrently for city
	BuildDashboard(ctx context.Context, city string) (*models.Dashboard, error)

	// AnalyzeSchumann fetches the current spectrogram and analyzes it
	AnalyzeSchumann(ctx context.Context) (*models.SchumannReport, error)

	// MoonReport fetches lunar data for city with archetype readings
	MoonReport(ctx context.Context, city string) (*models.MoonReport, error)

	// Cities lists the selectable cities, marking selected
	Cities(selected string) []models.CityOption

	// Bands returns the configured color bands
	Bands() []analyzer.ColorBand
}

// Options configures a DashboardService
type Options struct {
	Bands       []analyzer.ColorBand
	Sections    analyzer.SectionOptions
	Cities      []config.City
	DefaultCity string
	Archetypes  lunar.Archetypes
	SnapshotURL string // public path of the snapshot image
}

type dashboardService struct {
	schumann repository.SchumannRepository
	moon     repository.LunarRepository
	analyzer analyzer.ImageAnalyzer
	events   observer.Subject
	resolver *validation.CityResolver
	opts     Options
}

// NewDashboardService creates a dashboard service. A nil events subject disables events.
func NewDashboardService(
	schumannRepository repository.SchumannRepository,
	lunarRepository repository.LunarRepository,
	imageAnalyzer analyzer.ImageAnalyzer,
	events observer.Subject,
	opts Options,
) DashboardService {
	if len(opts.Bands) == 0 {
		opts.Bands = analyzer.DefaultBands()
	}
	if opts.Archetypes == nil {
		opts.Archetypes = lunar.DefaultArchetypes()
	}

	slugs := make([]string, len(opts.Cities))
	for i, c := range opts.Cities {
		slugs[i] = c.Slug
	}

	return &dashboardService{
		schumann: schumannRepository,
		moon:     lunarRepository,
		analyzer: imageAnalyzer,
		events:   events,
		resolver: validation.NewCityResolver(slugs, opts.DefaultCity),
		opts:     opts,
	}
}

func (s *dashboardService) BuildDashboard(ctx context.Context, city string) (*models.Dashboard, error) {
	slug, err := s.resolver.Resolve(city)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		GeneratedAt: time.Now(),
		City:        slug,
		Cities:      s.Cities(slug),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report, err := s.AnalyzeSchumann(gctx)
		if err != nil {
			return err
		}
		dashboard.Schumann = report
		return nil
	})
	g.Go(func() error {
		report, err := s.moonReport(gctx, slug)
		if err != nil {
			return err
		}
		dashboard.Moon = report
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

func (s *dashboardService) AnalyzeSchumann(ctx context.Context) (*models.SchumannReport, error) {
	snap, err := s.schumann.Fetch(ctx)
	if err != nil {
		s.publish(ctx, observer.DashboardEvent{EventType: observer.ImageFetchFailed, ErrorMessage: err.Error()})
		return nil, classify("failed to fetch Schumann image", err)
	}
	s.publish(ctx, observer.DashboardEvent{
		EventType: observer.ImageFetched,
		Source:    snap.Source,
		Success:   true,
		Metadata:  map[string]interface{}{"bytes": len(snap.Data)},
	})

	start := time.Now()
	report, err := s.analyze(snap)
	elapsed := time.Since(start)
	if err != nil {
		s.publish(ctx, observer.DashboardEvent{
			EventType:      observer.AnalysisFailed,
			Source:         snap.Source,
			ProcessingTime: elapsed,
			ErrorMessage:   err.Error(),
		})
		return nil, classify("failed to analyze Schumann image", err)
	}
	report.ProcessingTimeSec = elapsed.Seconds()

	bands := make(map[string]float64, len(report.Bands))
	for _, b := range report.Bands {
		bands[b.Name] = b.Percentage
	}
	s.publish(ctx, observer.DashboardEvent{
		EventType:      observer.AnalysisCompleted,
		Source:         snap.Source,
		ProcessingTime: elapsed,
		Success:        true,
		Metadata: map[string]interface{}{
			"bands":  bands,
			"width":  report.Width,
			"height": report.Height,
		},
	})
	return report, nil
}

func (s *dashboardService) analyze(snap *repository.Snapshot) (*models.SchumannReport, error) {
	grid, err := analyzer.Decode(snap.Data)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(grid, s.opts.Bands)
	if err != nil {
		return nil, err
	}

	report := &models.SchumannReport{
		ImagePath: s.opts.SnapshotURL,
		Source:    snap.Source,
		FetchedAt: snap.FetchedAt,
		Width:     result.Width,
		Height:    result.Height,
		Bands:     s.bandReadings(result),
	}

	if s.opts.Sections.Count > 0 {
		sections, err := s.analyzer.AnalyzeSections(grid, s.opts.Bands, s.opts.Sections)
		switch {
		case errors.Is(err, analyzer.ErrInvalidImage):
			// Narrower than the section count; the overall result still stands
			logger.WithFields(logrus.Fields{
				"width":    grid.Width(),
				"sections": s.opts.Sections.Count,
			}).Warn("Skipping time sections")
		case err != nil:
			return nil, err
		default:
			report.Sections = make([]models.SectionReading, len(sections))
			for i, sec := range sections {
				report.Sections[i] = models.SectionReading{
					Index: sec.Index,
					Label: sec.Label,
					Bands: s.bandReadings(sec.Result),
				}
			}
			for _, t := range analyzer.SummarizeTrends(sections) {
				report.Trends = append(report.Trends, models.TrendReading{
					Name:      t.Name,
					Mean:      t.Mean,
					StdDev:    t.StdDev,
					Min:       t.Min,
					Max:       t.Max,
					PeakLabel: t.PeakLabel,
				})
			}
		}
	}
	return report, nil
}

func (s *dashboardService) bandReadings(result analyzer.Result) []models.BandReading {
	readings := make([]models.BandReading, len(result.Bands))
	for i, share := range result.Bands {
		band := s.opts.Bands[i]
		readings[i] = models.BandReading{
			Name:        share.Name,
			Description: band.Description,
			Pixels:      share.Pixels,
			Percentage:  share.Percentage,
			Swatch:      swatch(band),
		}
	}
	return readings
}

func (s *dashboardService) MoonReport(ctx context.Context, city string) (*models.MoonReport, error) {
	slug, err := s.resolver.Resolve(city)
	if err != nil {
		return nil, err
	}
	return s.moonReport(ctx, slug)
}

func (s *dashboardService) moonReport(ctx context.Context, slug string) (*models.MoonReport, error) {
	start := time.Now()
	data, err := s.moon.Fetch(ctx, slug)
	if err != nil {
		s.publish(ctx, observer.DashboardEvent{
			EventType:      observer.LunarFetchFailed,
			City:           slug,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		return nil, classify("failed to fetch lunar data", err)
	}
	s.publish(ctx, observer.DashboardEvent{
		EventType:      observer.LunarFetched,
		City:           slug,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata:       map[string]interface{}{"phases": len(data.Phases)},
	})

	report := &models.MoonReport{
		City:            slug,
		CityLabel:       s.cityLabel(slug),
		CurrentPhase:    data.CurrentPhase,
		Illumination:    data.Illumination,
		MoonImage:       data.MoonImage,
		CurrentReadings: archetypeReadings(s.opts.Archetypes.ReadingsFor(data.CurrentPhase)),
		Phases:          make([]models.PhaseCard, len(data.Phases)),
	}
	for i, p := range data.Phases {
		report.Phases[i] = models.PhaseCard{
			Title:    p.Title,
			Date:     p.Date,
			Time:     p.Time,
			Image:    p.Image,
			Readings: archetypeReadings(s.opts.Archetypes.ReadingsFor(p.Title)),
		}
	}
	return report, nil
}

func (s *dashboardService) Cities(selected string) []models.CityOption {
	if selected == "" {
		selected = s.opts.DefaultCity
	}
	options := make([]models.CityOption, len(s.opts.Cities))
	for i, c := range s.opts.Cities {
		options[i] = models.CityOption{Slug: c.Slug, Label: c.Label, Selected: c.Slug == selected}
	}
	return options
}

func (s *dashboardService) Bands() []analyzer.ColorBand {
	out := make([]analyzer.ColorBand, len(s.opts.Bands))
	copy(out, s.opts.Bands)
	return out
}

func (s *dashboardService) cityLabel(slug string) string {
	for _, c := range s.opts.Cities {
		if c.Slug == slug {
			return c.Label
		}
	}
	return slug
}

func (s *dashboardService) publish(ctx context.Context, event observer.DashboardEvent) {
	if s.events == nil {
		return
	}
	event.Timestamp = time.Now()
	s.events.NotifyObservers(ctx, event)
}

func archetypeReadings(in []lunar.ArchetypeReading) []models.ArchetypeReading {
	out := make([]models.ArchetypeReading, len(in))
	for i, r := range in {
		out[i] = models.ArchetypeReading{Archetype: r.Archetype, Reading: r.Reading}
	}
	return out
}

func swatch(b analyzer.ColorBand) string {
	mid := func(lo, hi uint8) int { return (int(lo) + int(hi)) / 2 }
	return fmt.Sprintf("#%02x%02x%02x", mid(b.Lower.R, b.Upper.R), mid(b.Lower.G, b.Upper.G), mid(b.Lower.B, b.Upper.B))
}

// classify maps a failure onto the AppError taxonomy
func classify(message string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError(message, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return apperrors.NewTimeoutError(message, err)
	case errors.Is(err, analyzer.ErrDecode),
		errors.Is(err, analyzer.ErrInvalidImage),
		errors.Is(err, analyzer.ErrInvalidBand):
		return apperrors.NewProcessingError(message, err)
	case errors.Is(err, repository.ErrSourceUnavailable),
		errors.Is(err, repository.ErrEmptyImage):
		return apperrors.NewNetworkError(message, err)
	default:
		return apperrors.NewInternalError(message, err)
	}
}
