package lunar

// Phase is one upcoming moon phase card
type Phase struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Image string `json:"image,omitempty"`
}

// Data is the structured content of a lunar phase page
type Data struct {
	City         string  `json:"city"`
	CurrentPhase string  `json:"current_phase"`
	Illumination string  `json:"illumination"`
	MoonImage    string  `json:"moon_image,omitempty"`
	Phases       []Phase `json:"phases"`
}
