package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RGB is a color triple with 8-bit channels
type RGB struct {
	R, G, B uint8
}

// Triple returns the channels as a [r, g, b] array
func (c RGB) Triple() [3]int {
	return [3]int{int(c.R), int(c.G), int(c.B)}
}

func rgbFromTriple(triple []int) (RGB, error) {
	if len(triple) != 3 {
		return RGB{}, fmt.Errorf("expected [r, g, b], got %d values", len(triple))
	}
	for i, v := range triple {
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("channel %d out of range 0-255: %d", i, v)
		}
	}
	return RGB{R: uint8(triple[0]), G: uint8(triple[1]), B: uint8(triple[2])}, nil
}

// MarshalJSON encodes the color as [r, g, b]
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Triple())
}

// UnmarshalJSON decodes a [r, g, b] triple
func (c *RGB) UnmarshalJSON(data []byte) error {
	var triple []int
	if err := json.Unmarshal(data, &triple); err != nil {
		return err
	}
	parsed, err := rgbFromTriple(triple)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the color as a flow sequence [r, g, b]
func (c RGB) MarshalYAML() (interface{}, error) {
	t := c.Triple()
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(t[0])},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(t[1])},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(t[2])},
		},
	}, nil
}

// UnmarshalYAML decodes a [r, g, b] sequence
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	var triple []int
	if err := value.Decode(&triple); err != nil {
		return err
	}
	parsed, err := rgbFromTriple(triple)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// ColorBand is a named inclusive RGB box. A pixel belongs to the band when every
// channel lies within [Lower, Upper].
type ColorBand struct {
	Name        string `json:"name" yaml:"name"`
	Lower       RGB    `json:"lower" yaml:"lower"`
	Upper       RGB    `json:"upper" yaml:"upper"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Contains reports whether the color lies inside the band's box
func (b ColorBand) Contains(c RGB) bool {
	return c.R >= b.Lower.R && c.R <= b.Upper.R &&
		c.G >= b.Lower.G && c.G <= b.Upper.G &&
		c.B >= b.Lower.B && c.B <= b.Upper.B
}

// Validate checks the band invariants
func (b ColorBand) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidBand)
	}
	if b.Lower.R > b.Upper.R || b.Lower.G > b.Upper.G || b.Lower.B > b.Upper.B {
		return fmt.Errorf("%w: %q lower %v exceeds upper %v", ErrInvalidBand, b.Name, b.Lower.Triple(), b.Upper.Triple())
	}
	return nil
}

// ValidateBands validates every band and rejects duplicate names, since results are keyed by name
func ValidateBands(bands []ColorBand) error {
	seen := make(map[string]struct{}, len(bands))
	for _, b := range bands {
		if err := b.Validate(); err != nil {
			return err
		}
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidBand, b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return nil
}

// DefaultBands returns the four Schumann spectrogram bands. They do not cover the RGB
// cube, so their percentages rarely sum to 100.
func DefaultBands() []ColorBand {
	return []ColorBand{
		{
			Name:        "Homeostasis/Calm (Blue)",
			Lower:       RGB{0, 0, 128},
			Upper:       RGB{50, 50, 255},
			Description: "Promotes emotional stability, stress relief, and physical grounding.",
		},
		{
			Name:        "Density/Blockages (Red)",
			Lower:       RGB{128, 0, 0},
			Upper:       RGB{255, 50, 50},
			Description: "Indicates resistance or anxiety. May be linked to emotional or energetic blockages.",
		},
		{
			Name:        "3D Purge Energies (Green)",
			Lower:       RGB{0, 128, 0},
			Upper:       RGB{50, 255, 50},
			Description: "Represents detoxification and healing. Encourages renewal.",
		},
		{
			Name:        "5D Light Coding (White)",
			Lower:       RGB{200, 200, 200},
			Upper:       RGB{255, 255, 255},
			Description: "Symbolizes clarity, spiritual awakening, and higher consciousness.",
		},
	}
}

type bandFile struct {
	Bands []ColorBand `yaml:"bands"`
}

// ParseBands decodes a YAML band file and validates its contents
func ParseBands(data []byte) ([]ColorBand, error) {
	var f bandFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse bands: %w", err)
	}
	if len(f.Bands) == 0 {
		return nil, fmt.Errorf("%w: band file defines no bands", ErrInvalidBand)
	}
	if err := ValidateBands(f.Bands); err != nil {
		return nil, err
	}
	return f.Bands, nil
}

// LoadBands reads bands from a YAML file. An empty path yields DefaultBands.
func LoadBands(path string) ([]ColorBand, error) {
	if path == "" {
		return DefaultBands(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bands file: %w", err)
	}
	return ParseBands(data)
}

// MarshalBands encodes bands in the same YAML layout ParseBands reads
func MarshalBands(bands []ColorBand) ([]byte, error) {
	return yaml.Marshal(bandFile{Bands: bands})
}
