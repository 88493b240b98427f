package analyzer

// BandShare is the share of one color band in an analyzed region
type BandShare struct {
	Name       string  `json:"name"`
	Pixels     int     `json:"pixels"`
	Percentage float64 `json:"percentage"`
}

// Result is the outcome of one analysis call. Bands keep configuration order.
type Result struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	TotalPixels int         `json:"total_pixels"`
	Bands       []BandShare `json:"bands"`
}

// Percentage returns the share of the named band
func (r Result) Percentage(name string) (float64, bool) {
	for _, b := range r.Bands {
		if b.Name == name {
			return b.Percentage, true
		}
	}
	return 0, false
}

// Map returns band name to percentage
func (r Result) Map() map[string]float64 {
	m := make(map[string]float64, len(r.Bands))
	for _, b := range r.Bands {
		m[b.Name] = b.Percentage
	}
	return m
}

// SectionResult is the analysis of one time column of a spectrogram
type SectionResult struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	StartX int    `json:"start_x"`
	EndX   int    `json:"end_x"`
	Result Result `json:"result"`
}

// BandTrend summarizes one band across time sections
type BandTrend struct {
	Name      string  `json:"name"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	PeakLabel string  `json:"peak_label"`
}
