package analyzer

import (
	"fmt"
	"image"
	"sync"
)

// colorAnalyzer implements ImageAnalyzer. A nil pool scans on the calling goroutine.
type colorAnalyzer struct {
	pool *WorkerPool
}

// NewImageAnalyzer creates an analyzer backed by a started worker pool
func NewImageAnalyzer(opts AnalysisOptions) ImageAnalyzer {
	if !opts.UseWorkerPool {
		return &colorAnalyzer{}
	}
	pool := NewWorkerPool(opts.MaxWorkers)
	pool.Start()
	return &colorAnalyzer{pool: pool}
}

// Analyze runs a sequential band analysis. It is a pure function of its inputs.
func Analyze(grid *PixelGrid, bands []ColorBand) (Result, error) {
	return (&colorAnalyzer{}).Analyze(grid, bands)
}

// DecodeAndAnalyze decodes a JPEG and analyzes it sequentially
func DecodeAndAnalyze(raw []byte, bands []ColorBand) (Result, error) {
	grid, err := Decode(raw)
	if err != nil {
		return Result{}, err
	}
	return Analyze(grid, bands)
}

func (ca *colorAnalyzer) Analyze(grid *PixelGrid, bands []ColorBand) (Result, error) {
	if grid == nil || grid.Width() <= 0 || grid.Height() <= 0 {
		w, h := 0, 0
		if grid != nil {
			w, h = grid.Width(), grid.Height()
		}
		return Result{}, fmt.Errorf("%w: %dx%d", ErrInvalidImage, w, h)
	}
	if err := ValidateBands(bands); err != nil {
		return Result{}, err
	}

	rect := image.Rect(0, 0, grid.Width(), grid.Height())
	return newResult(bands, ca.scan(grid, bands, rect), rect), nil
}

func (ca *colorAnalyzer) Close() error {
	if ca.pool != nil {
		ca.pool.Close()
	}
	return nil
}

// scan counts band members inside rect, splitting large regions into row strips
func (ca *colorAnalyzer) scan(grid *PixelGrid, bands []ColorBand, rect image.Rectangle) []int {
	counts := make([]int, len(bands))

	workers := 1
	if ca.pool != nil {
		workers = ca.pool.Workers()
	}
	height := rect.Dy()
	if workers > height {
		workers = height
	}
	if workers <= 1 || rect.Dx()*height < sequentialThreshold {
		countRegion(grid, bands, rect, counts)
		return counts
	}

	rowsPerWorker := (height + workers - 1) / workers // ceil division
	partials := make([][]int, workers)
	var wg sync.WaitGroup

	// Process image in horizontal strips for better cache locality
	for i := 0; i < workers; i++ {
		startY := rect.Min.Y + i*rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > rect.Max.Y {
			endY = rect.Max.Y
		}
		if startY >= endY {
			break
		}

		local := make([]int, len(bands))
		partials[i] = local
		strip := image.Rect(rect.Min.X, startY, rect.Max.X, endY)

		wg.Add(1)
		job := func() {
			defer wg.Done()
			countRegion(grid, bands, strip, local)
		}
		if !ca.pool.Submit(job) {
			job()
		}
	}
	wg.Wait()

	for _, local := range partials {
		for j, n := range local {
			counts[j] += n
		}
	}
	return counts
}

func countRegion(grid *PixelGrid, bands []ColorBand, rect image.Rectangle, counts []int) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := grid.row(y)[rect.Min.X:rect.Max.X]
		for _, px := range row {
			for j := range bands {
				if bands[j].Contains(px) {
					counts[j]++
				}
			}
		}
	}
}

func newResult(bands []ColorBand, counts []int, rect image.Rectangle) Result {
	total := rect.Dx() * rect.Dy()
	shares := make([]BandShare, len(bands))
	for i, b := range bands {
		shares[i] = BandShare{
			Name:       b.Name,
			Pixels:     counts[i],
			Percentage: float64(counts[i]) * 100.0 / float64(total),
		}
	}
	return Result{
		Width:       rect.Dx(),
		Height:      rect.Dy(),
		TotalPixels: total,
		Bands:       shares,
	}
}
