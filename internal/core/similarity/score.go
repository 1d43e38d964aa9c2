package similarity

import (
	"math"

	"github.com/sifthq/corral/internal/core/model"
)

// Preset selects one of the two weighting schemes the corpus uses for what
// is nominally the same similarity concept. They are deliberately not
// unified: merging them would silently change scoring behavior.
type Preset int

const (
	// PresetCoordination weights weapon/target/region/country at
	// 0.35/0.35/0.15/0.15 and backs exploratory coordination reports.
	PresetCoordination Preset = iota
	// PresetEdge weights the same features 30/30/20/20 out of 100 and is
	// the scheme similarity edges are built with.
	PresetEdge
)

type weights struct {
	weapon  float64
	target  float64
	region  float64
	country float64
}

var presetWeights = map[Preset]weights{
	PresetCoordination: {weapon: 0.35, target: 0.35, region: 0.15, country: 0.15},
	PresetEdge:         {weapon: 0.30, target: 0.30, region: 0.20, country: 0.20},
}

// Matches records which features contributed to a score.
type Matches struct {
	Weapon  bool
	Target  bool
	Region  bool
	Country bool
}

// Labels returns the matched-criteria names in a fixed order.
func (m Matches) Labels() []string {
	var out []string
	if m.Weapon {
		out = append(out, "weapon")
	}
	if m.Target {
		out = append(out, "target")
	}
	if m.Region {
		out = append(out, "region")
	}
	if m.Country {
		out = append(out, "country")
	}
	return out
}

// Score computes the weighted similarity of two incidents in [0,1]. A
// feature contributes only when both sides carry a non-empty value and the
// values are equal; a missing side never counts as a match. Scoring is
// symmetric in its arguments.
func Score(a, b model.Incident, preset Preset) (float64, Matches) {
	w := presetWeights[preset]
	var s float64
	var m Matches

	if a.WeaponType != "" && a.WeaponType == b.WeaponType {
		s += w.weapon
		m.Weapon = true
	}
	if a.TargetType != "" && a.TargetType == b.TargetType {
		s += w.target
		m.Target = true
	}
	if a.Region != "" && a.Region == b.Region {
		s += w.region
		m.Region = true
	}
	if a.Country != "" && a.Country == b.Country {
		s += w.country
		m.Country = true
	}
	return s, m
}

// Round1 rounds a score to one decimal for presentation. Thresholding always
// uses the full-precision value.
func Round1(score float64) float64 {
	return math.Round(score*10) / 10
}
