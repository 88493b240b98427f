package analyzer

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SummarizeTrends computes per-band statistics across time sections. Band order follows
// the first section.
func SummarizeTrends(sections []SectionResult) []BandTrend {
	if len(sections) == 0 {
		return nil
	}

	bandCount := len(sections[0].Result.Bands)
	trends := make([]BandTrend, 0, bandCount)
	series := make([]float64, len(sections))

	for j := 0; j < bandCount; j++ {
		for i, s := range sections {
			series[i] = s.Result.Bands[j].Percentage
		}

		mean, std := stat.MeanStdDev(series, nil)
		if len(series) < 2 {
			std = 0
		}
		trends = append(trends, BandTrend{
			Name:      sections[0].Result.Bands[j].Name,
			Mean:      mean,
			StdDev:    std,
			Min:       floats.Min(series),
			Max:       floats.Max(series),
			PeakLabel: sections[floats.MaxIdx(series)].Label,
		})
	}
	return trends
}
