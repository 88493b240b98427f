package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DashboardEvent is published by the dashboard service as it fetches and analyzes
type DashboardEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Source         string                 `json:"source,omitempty"`
	City           string                 `json:"city,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of dashboard event
type EventType string

const (
	ImageFetched      EventType = "image_fetched"
	ImageFetchFailed  EventType = "image_fetch_failed"
	LunarFetched      EventType = "lunar_fetched"
	LunarFetchFailed  EventType = "lunar_fetch_failed"
	AnalysisCompleted EventType = "analysis_completed"
	AnalysisFailed    EventType = "analysis_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event DashboardEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event DashboardEvent)
}

// LoggingObserver logs dashboard events
type LoggingObserver struct {
	logger *logrus.Logger
}

func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent logs the event at a level matching its outcome
func (o *LoggingObserver) OnEvent(ctx context.Context, event DashboardEvent) {
	fields := logrus.Fields{
		"event_type":         event.EventType,
		"processing_time_ms": event.ProcessingTime.Milliseconds(),
		"success":            event.Success,
	}
	if event.Source != "" {
		fields["source"] = event.Source
	}
	if event.City != "" {
		fields["city"] = event.City
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case AnalysisCompleted:
		entry.Info("Schumann analysis completed")
	case AnalysisFailed:
		entry.Error("Schumann analysis failed")
	case ImageFetched:
		entry.Debug("Schumann image fetched")
	case ImageFetchFailed:
		entry.Error("Schumann image fetch failed")
	case LunarFetched:
		entry.Debug("Lunar data fetched")
	case LunarFetchFailed:
		entry.Error("Lunar data fetch failed")
	default:
		entry.Info("Dashboard event occurred")
	}
}

func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// Stats is a point-in-time view of the MetricsObserver counters
type Stats struct {
	ImageFetches        int64              `json:"image_fetches"`
	ImageFetchFailures  int64              `json:"image_fetch_failures"`
	LunarFetches        int64              `json:"lunar_fetches"`
	LunarFetchFailures  int64              `json:"lunar_fetch_failures"`
	Analyses            int64              `json:"analyses"`
	AnalysisFailures    int64              `json:"analysis_failures"`
	AvgAnalysisTimeMs   float64            `json:"avg_analysis_time_ms"`
	LastAnalysisAt      *time.Time         `json:"last_analysis_at,omitempty"`
	LastBandPercentages map[string]float64 `json:"last_band_percentages,omitempty"`
}

// MetricsObserver counts dashboard events
type MetricsObserver struct {
	mu                  sync.RWMutex
	imageFetches        int64
	imageFetchFailures  int64
	lunarFetches        int64
	lunarFetchFailures  int64
	analyses            int64
	analysisFailures    int64
	totalAnalysisTime   time.Duration
	lastAnalysisAt      time.Time
	lastBandPercentages map[string]float64
}

func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent updates counters. Completed analyses may carry a "bands" map[string]float64 metadata entry.
func (o *MetricsObserver) OnEvent(ctx context.Context, event DashboardEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ImageFetched:
		o.imageFetches++
	case ImageFetchFailed:
		o.imageFetchFailures++
	case LunarFetched:
		o.lunarFetches++
	case LunarFetchFailed:
		o.lunarFetchFailures++
	case AnalysisCompleted:
		o.analyses++
		o.totalAnalysisTime += event.ProcessingTime
		o.lastAnalysisAt = event.Timestamp
		if bands, ok := event.Metadata["bands"].(map[string]float64); ok {
			o.lastBandPercentages = make(map[string]float64, len(bands))
			for k, v := range bands {
				o.lastBandPercentages[k] = v
			}
		}
	case AnalysisFailed:
		o.analysisFailures++
	}
}

func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Stats returns the current counters
func (o *MetricsObserver) Stats() Stats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s := Stats{
		ImageFetches:       o.imageFetches,
		ImageFetchFailures: o.imageFetchFailures,
		LunarFetches:       o.lunarFetches,
		LunarFetchFailures: o.lunarFetchFailures,
		Analyses:           o.analyses,
		AnalysisFailures:   o.analysisFailures,
	}
	if o.analyses > 0 {
		avg := o.totalAnalysisTime / time.Duration(o.analyses)
		s.AvgAnalysisTimeMs = float64(avg) / float64(time.Millisecond)
		last := o.lastAnalysisAt
		s.LastAnalysisAt = &last
	}
	if o.lastBandPercentages != nil {
		s.LastBandPercentages = make(map[string]float64, len(o.lastBandPercentages))
		for k, v := range o.lastBandPercentages {
			s.LastBandPercentages[k] = v
		}
	}
	return s
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes the first observer with the same name
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer in subscription order.
// A panicking observer is logged and skipped.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event DashboardEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event DashboardEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
