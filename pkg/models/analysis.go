package models

import "time"

// BandReading is one color band row of a Schumann analysis
type BandReading struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Pixels      int     `json:"pixels"`
	Percentage  float64 `json:"percentage"`
	Swatch      string  `json:"swatch"` // hex color at the middle of the band
}

// SectionReading is the band breakdown of one time column
type SectionReading struct {
	Index int           `json:"index"`
	Label string        `json:"label"`
	Bands []BandReading `json:"bands"`
}

// TrendReading summarizes one band across the time columns
type TrendReading struct {
	Name      string  `json:"name"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	PeakLabel string  `json:"peak_label"`
}

// SchumannReport is the analysis of the latest Schumann spectrogram
type SchumannReport struct {
	ImagePath         string           `json:"image_path"`
	Source            string           `json:"source"`
	FetchedAt         time.Time        `json:"fetched_at"`
	ProcessingTimeSec float64          `json:"processing_time_sec"`
	Width             int              `json:"width"`
	Height            int              `json:"height"`
	Bands             []BandReading    `json:"bands"`
	Sections          []SectionReading `json:"sections,omitempty"`
	Trends            []TrendReading   `json:"trends,omitempty"`
}

// ArchetypeReading is one archetype's interpretation of a phase
type ArchetypeReading struct {
	Archetype string `json:"archetype"`
	Reading   string `json:"reading"`
}

// PhaseCard is an upcoming lunar phase
type PhaseCard struct {
	Title    string             `json:"title"`
	Date     string             `json:"date"`
	Time     string             `json:"time"`
	Image    string             `json:"image,omitempty"`
	Readings []ArchetypeReading `json:"readings,omitempty"`
}

// MoonReport is the lunar data of one city
type MoonReport struct {
	City            string             `json:"city"`
	CityLabel       string             `json:"city_label"`
	CurrentPhase    string             `json:"current_phase"`
	Illumination    string             `json:"illumination"`
	MoonImage       string             `json:"moon_image,omitempty"`
	CurrentReadings []ArchetypeReading `json:"current_readings,omitempty"`
	Phases          []PhaseCard        `json:"phases"`
}

// CityOption populates the city selector
type CityOption struct {
	Slug     string `json:"slug"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Dashboard combines the moon and Schumann reports
type Dashboard struct {
	GeneratedAt time.Time       `json:"generated_at"`
	City        string          `json:"city"`
	Cities      []CityOption    `json:"cities"`
	Moon        *MoonReport     `json:"moon"`
	Schumann    *SchumannReport `json:"schumann"`
}
