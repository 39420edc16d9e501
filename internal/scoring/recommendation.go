package scoring

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Band maps scores at or above Min (strictly above when Exclusive) to Text.
type Band struct {
	Min       float64 `yaml:"min"`
	Exclusive bool    `yaml:"exclusive"`
	Text      string  `yaml:"text"`
}

// Bands is evaluated from the highest Min down; Fallback covers what no band
// matches.
type Bands struct {
	Bands    []Band `yaml:"bands"`
	Fallback string `yaml:"fallback"`
}

func DefaultBands() Bands {
	return Bands{
		Bands: []Band{
			{Min: 4, Text: "Strong candidate. Recommend advancing to the next interview stage."},
			{Min: 3, Text: "Solid candidate. Recommend advancing with a follow-up on the weaker areas."},
			{Min: 2, Exclusive: true, Text: "Borderline candidate. Consider additional screening before deciding."},
		},
		Fallback: "Not recommended for this role at this time.",
	}
}

// LoadBands reads a YAML band file. An empty path yields the defaults.
func LoadBands(path string) (Bands, error) {
	if path == "" {
		return DefaultBands(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Bands{}, fmt.Errorf("read recommendation bands: %w", err)
	}

	var b Bands
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return Bands{}, fmt.Errorf("parse recommendation bands: %w", err)
	}
	if len(b.Bands) == 0 || b.Fallback == "" {
		return Bands{}, fmt.Errorf("recommendation bands in %s need at least one band and a fallback", path)
	}
	for i, band := range b.Bands {
		if band.Text == "" {
			return Bands{}, fmt.Errorf("recommendation band %d has no text", i)
		}
	}
	return b, nil
}

// Recommend picks the text for score. Ties between bands with equal Min go to
// the inclusive one.
func (b Bands) Recommend(score float64) string {
	bands := make([]Band, len(b.Bands))
	copy(bands, b.Bands)
	sort.SliceStable(bands, func(i, j int) bool {
		if bands[i].Min != bands[j].Min {
			return bands[i].Min > bands[j].Min
		}
		return !bands[i].Exclusive && bands[j].Exclusive
	})

	for _, band := range bands {
		if score > band.Min || (!band.Exclusive && score == band.Min) {
			return band.Text
		}
	}
	return b.Fallback
}
