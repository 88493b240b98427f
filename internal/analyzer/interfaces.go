package analyzer

// ImageAnalyzer classifies pixels into color bands
type ImageAnalyzer interface {
	// Analyze reports the share of the whole grid matching each band
	Analyze(grid *PixelGrid, bands []ColorBand) (Result, error)

	// AnalyzeSections splits the grid into vertical time columns and analyzes each
	AnalyzeSections(grid *PixelGrid, bands []ColorBand, opts SectionOptions) ([]SectionResult, error)

	// Close releases the worker pool
	Close() error
}
