package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionLabels_DefaultDay(t *testing.T) {
	labels := SectionLabels(DefaultSectionOptions())
	require.Len(t, labels, 24)
	assert.Equal(t, "00:00", labels[0])
	assert.Equal(t, "01:02", labels[1])
	assert.Equal(t, "02:05", labels[2])
	assert.Equal(t, "23:59", labels[23])
}

func TestSectionLabels_SingleSection(t *testing.T) {
	labels := SectionLabels(SectionOptions{Count: 1, Start: 6 * time.Hour, End: 18 * time.Hour})
	assert.Equal(t, []string{"06:00"}, labels)
}

func TestAnalyzeSections_SplitsColumns(t *testing.T) {
	white := RGB{255, 255, 255}
	black := RGB{0, 0, 0}

	// 5 columns: two white then three black, 2 rows
	row := []RGB{white, white, black, black, black}
	grid, err := NewPixelGrid(5, 2, append(append([]RGB{}, row...), row...))
	require.NoError(t, err)

	bands := []ColorBand{{Name: "White", Lower: RGB{200, 200, 200}, Upper: RGB{255, 255, 255}}}
	sections, err := AnalyzeSections(grid, bands, SectionOptions{Count: 2, Start: 0, End: 12 * time.Hour})
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, "00:00", sections[0].Label)
	assert.Equal(t, 0, sections[0].StartX)
	assert.Equal(t, 2, sections[0].EndX)
	assert.Equal(t, 100.0, sections[0].Result.Bands[0].Percentage)

	// The last column absorbs the remainder
	assert.Equal(t, "12:00", sections[1].Label)
	assert.Equal(t, 2, sections[1].StartX)
	assert.Equal(t, 5, sections[1].EndX)
	assert.Equal(t, 6, sections[1].Result.TotalPixels)
	assert.Equal(t, 0.0, sections[1].Result.Bands[0].Percentage)
}

func TestAnalyzeSections_Errors(t *testing.T) {
	grid := createTestGrid(t, 4, 4, RGB{})

	_, err := AnalyzeSections(grid, DefaultBands(), SectionOptions{Count: 5, End: time.Hour})
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = AnalyzeSections(nil, DefaultBands(), DefaultSectionOptions())
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = AnalyzeSections(grid, DefaultBands(), SectionOptions{Count: 0})
	assert.Error(t, err)

	_, err = AnalyzeSections(grid, DefaultBands(), SectionOptions{Count: 2, Start: 2 * time.Hour, End: time.Hour})
	assert.Error(t, err)
}

func TestImageAnalyzer_SectionsParallelMatchesSequential(t *testing.T) {
	grid := createRandomGrid(t, 960, 240, 11)
	bands := DefaultBands()

	expected, err := AnalyzeSections(grid, bands, DefaultSectionOptions())
	require.NoError(t, err)

	a := NewImageAnalyzer(DefaultOptions().WithWorkers(4))
	defer a.Close()
	got, err := a.AnalyzeSections(grid, bands, DefaultSectionOptions())
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour+59*time.Minute, d)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}
