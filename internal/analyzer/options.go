package analyzer

import (
	"fmt"
	"time"
)

// sequentialThreshold is the pixel count below which a scan stays on the calling goroutine
const sequentialThreshold = 64 * 1024

// AnalysisOptions configures a ColorAnalyzer
type AnalysisOptions struct {
	// MaxWorkers bounds the scan goroutines; 0 uses runtime.NumCPU()
	MaxWorkers int

	// UseWorkerPool disables parallel scanning when false
	UseWorkerPool bool
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		MaxWorkers:    0,
		UseWorkerPool: true,
	}
}

// SequentialOptions returns options for a single-goroutine analyzer
func SequentialOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.UseWorkerPool = false
	return opts
}

// WithWorkers returns options with an explicit worker count
func (opts AnalysisOptions) WithWorkers(n int) AnalysisOptions {
	opts.MaxWorkers = n
	opts.UseWorkerPool = true
	return opts
}

// SectionOptions controls how a spectrogram is split into time columns
type SectionOptions struct {
	Count int
	Start time.Duration // offset from midnight of the first column label
	End   time.Duration // offset from midnight of the last column label
}

// DefaultSectionOptions splits a day into 24 columns labelled 00:00 through 23:59
func DefaultSectionOptions() SectionOptions {
	return SectionOptions{
		Count: 24,
		Start: 0,
		End:   23*time.Hour + 59*time.Minute,
	}
}

// ParseClock parses an HH:MM clock time into an offset from midnight
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
