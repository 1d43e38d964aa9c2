package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sifthq/corral/internal/core/model"
)

func TestScoreSymmetric(t *testing.T) {
	a := model.Incident{WeaponType: "Explosives", TargetType: "Police", Region: "South Asia", Country: "Afghanistan"}
	b := model.Incident{WeaponType: "Explosives", TargetType: "Military", Region: "South Asia", Country: "Pakistan"}

	for _, preset := range []Preset{PresetCoordination, PresetEdge} {
		ab, _ := Score(a, b, preset)
		ba, _ := Score(b, a, preset)
		assert.Equal(t, ab, ba)
	}
}

func TestScorePresetWeights(t *testing.T) {
	a := model.Incident{WeaponType: "Firearms", TargetType: "Police", Region: "South Asia", Country: "Afghanistan"}
	b := a

	s, m := Score(a, b, PresetCoordination)
	assert.InDelta(t, 1.0, s, 1e-9)
	assert.Equal(t, []string{"weapon", "target", "region", "country"}, m.Labels())

	s, _ = Score(a, b, PresetEdge)
	assert.InDelta(t, 1.0, s, 1e-9)

	// Weapon-only match differs per preset.
	b = model.Incident{WeaponType: "Firearms"}
	s, _ = Score(a, b, PresetCoordination)
	assert.InDelta(t, 0.35, s, 1e-9)
	s, _ = Score(a, b, PresetEdge)
	assert.InDelta(t, 0.30, s, 1e-9)
}

func TestScoreNullNeverMatches(t *testing.T) {
	a := model.Incident{WeaponType: "", TargetType: "Police"}
	b := model.Incident{WeaponType: "", TargetType: "Police"}

	s, m := Score(a, b, PresetCoordination)
	assert.InDelta(t, 0.35, s, 1e-9)
	assert.False(t, m.Weapon)
	assert.True(t, m.Target)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 0.7, Round1(0.65))
	assert.Equal(t, 0.3, Round1(0.34999))
	assert.Equal(t, 1.0, Round1(0.999))
}
