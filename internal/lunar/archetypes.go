package lunar

import (
	"strings"

	"github.com/arbovm/levenshtein"
)

// NotAvailable is returned for phases without an archetype reading
const NotAvailable = "N/A"

// maxTitleDistance is the edit distance tolerated when matching phase titles
const maxTitleDistance = 2

// Archetype is a named personality profile with a reading per moon phase
type Archetype struct {
	Name     string
	Readings map[string]string
}

// Archetypes is the ordered set of readings shown next to each phase
type Archetypes []Archetype

// DefaultArchetypes returns the Witches, Mystics and Androids readings
func DefaultArchetypes() Archetypes {
	return Archetypes{
		{
			Name: "Witches",
			Readings: map[string]string{
				"Full Moon":     "During the Full Moon, Witches experience heightened emotional intensity and creativity. Grounding routines and mindfulness are essential to balance this energy.",
				"New Moon":      "The New Moon invites introspection for Witches. A great time for journaling, setting intentions, and emotional healing.",
				"Third Quarter": "This phase encourages Witches to let go of emotional baggage and practice mindfulness.",
				"First Quarter": "A phase for action and creative expression. Witches thrive by channeling energy into artistic or spiritual pursuits.",
			},
		},
		{
			Name: "Mystics",
			Readings: map[string]string{
				"Full Moon":     "The Full Moon amplifies visionary thinking in Mystics, but grounding techniques are needed to avoid overstimulation.",
				"New Moon":      "An introspective time for Mystics, ideal for deep meditative practices and goal-setting.",
				"Third Quarter": "Mystics can focus on abstract problem-solving and reviewing past ideas to refine them.",
				"First Quarter": "This is a time for action-oriented thinking and structured philosophical exploration for Mystics.",
			},
		},
		{
			Name: "Androids",
			Readings: map[string]string{
				"Full Moon":     "Sensory sensitivity may peak during the Full Moon for Androids. Calming routines and mindfulness are beneficial.",
				"New Moon":      "The New Moon is a perfect time for Androids to engage in structured planning and goal-setting.",
				"Third Quarter": "Androids can declutter their thoughts and optimize routines during this phase.",
				"First Quarter": "Androids excel in detail-oriented tasks and logical planning during this phase.",
			},
		},
	}
}

// Reading returns the archetype's reading for a phase title, or NotAvailable
func (a Archetype) Reading(phaseTitle string) string {
	if text, ok := a.Readings[phaseTitle]; ok {
		return text
	}

	want := normalizeTitle(phaseTitle)
	if want == "" {
		return NotAvailable
	}

	best, bestDist := "", maxTitleDistance+1
	for title, text := range a.Readings {
		d := levenshtein.Distance(want, normalizeTitle(title))
		if d < bestDist || (d == bestDist && title < best) {
			best, bestDist = title, d
			if d == 0 {
				return text
			}
		}
	}
	if best == "" {
		return NotAvailable
	}
	return a.Readings[best]
}

// ArchetypeReading pairs an archetype name with its reading for one phase
type ArchetypeReading struct {
	Archetype string `json:"archetype"`
	Reading   string `json:"reading"`
}

// ReadingsFor returns every archetype's reading for a phase title, in archetype order
func (as Archetypes) ReadingsFor(phaseTitle string) []ArchetypeReading {
	out := make([]ArchetypeReading, len(as))
	for i, a := range as {
		out[i] = ArchetypeReading{Archetype: a.Name, Reading: a.Reading(phaseTitle)}
	}
	return out
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
