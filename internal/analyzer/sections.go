package analyzer

import (
	"fmt"
	"image"
	"time"
)

// AnalyzeSections runs a sequential section analysis
func AnalyzeSections(grid *PixelGrid, bands []ColorBand, opts SectionOptions) ([]SectionResult, error) {
	return (&colorAnalyzer{}).AnalyzeSections(grid, bands, opts)
}

// AnalyzeSections splits the grid into opts.Count columns of width/Count pixels. The last
// column absorbs the remainder. Columns are labelled with evenly spaced clock times from
// opts.Start to opts.End inclusive.
func (ca *colorAnalyzer) AnalyzeSections(grid *PixelGrid, bands []ColorBand, opts SectionOptions) ([]SectionResult, error) {
	if grid == nil || grid.Width() <= 0 || grid.Height() <= 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidImage)
	}
	if err := validateSectionOptions(opts); err != nil {
		return nil, err
	}
	if opts.Count > grid.Width() {
		return nil, fmt.Errorf("%w: %d sections exceed image width %d", ErrInvalidImage, opts.Count, grid.Width())
	}
	if err := ValidateBands(bands); err != nil {
		return nil, err
	}

	labels := SectionLabels(opts)
	interval := grid.Width() / opts.Count
	sections := make([]SectionResult, 0, opts.Count)

	for i := 0; i < opts.Count; i++ {
		startX := i * interval
		endX := (i + 1) * interval
		if i == opts.Count-1 {
			endX = grid.Width()
		}
		rect := image.Rect(startX, 0, endX, grid.Height())
		sections = append(sections, SectionResult{
			Index:  i,
			Label:  labels[i],
			StartX: startX,
			EndX:   endX,
			Result: newResult(bands, ca.scan(grid, bands, rect), rect),
		})
	}
	return sections, nil
}

func validateSectionOptions(opts SectionOptions) error {
	if opts.Count < 1 {
		return fmt.Errorf("section count must be >= 1 (got %d)", opts.Count)
	}
	if opts.Start < 0 || opts.End >= 24*time.Hour || opts.End < opts.Start {
		return fmt.Errorf("section clock range must satisfy 00:00 <= start <= end < 24:00 (got %s-%s)", opts.Start, opts.End)
	}
	return nil
}

// SectionLabels returns Count HH:MM labels evenly spaced from Start to End inclusive.
// Seconds are truncated.
func SectionLabels(opts SectionOptions) []string {
	if opts.Count <= 0 {
		return nil
	}
	midnight := time.Time{}
	labels := make([]string, opts.Count)
	if opts.Count == 1 {
		labels[0] = midnight.Add(opts.Start).Format("15:04")
		return labels
	}

	span := opts.End - opts.Start
	for i := 0; i < opts.Count; i++ {
		offset := opts.Start + time.Duration(float64(span)*float64(i)/float64(opts.Count-1))
		labels[i] = midnight.Add(offset).Format("15:04")
	}
	return labels
}
