package island

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
)

// Terrain is the habitat kind of a cell, identified by its map letter.
type Terrain byte

const (
	Water    Terrain = 'W'
	Lowland  Terrain = 'L'
	Highland Terrain = 'H'
	Desert   Terrain = 'D'
)

// Configuration and map-format errors raised from this package.
var (
	ErrParam     = errors.New("invalid landscape parameter")
	ErrMapFormat = errors.New("invalid island map")
)

// String returns the terrain name.
func (t Terrain) String() string {
	switch t {
	case Water:
		return "Water"
	case Lowland:
		return "Lowland"
	case Highland:
		return "Highland"
	case Desert:
		return "Desert"
	}
	return fmt.Sprintf("Terrain(%c)", byte(t))
}

// ParseTerrain maps a map letter to its terrain kind.
func ParseTerrain(ch byte) (Terrain, error) {
	switch Terrain(ch) {
	case Water, Lowland, Highland, Desert:
		return Terrain(ch), nil
	}
	return 0, fmt.Errorf("%w: terrain letters must be one of W, L, H or D, got %q", ErrMapFormat, string(ch))
}

// fodderMax holds the per-terrain fodder ceilings. Water carries no fodder
// and has no entry; Desert's ceiling is fixed at zero.
var fodderMax = map[Terrain]float64{
	Lowland:  800.0,
	Highland: 300.0,
	Desert:   0.0,
}

// FMax returns the fodder ceiling for a terrain kind. Zero for Water.
func FMax(t Terrain) float64 {
	return fodderMax[t]
}

// SetTerrainParams updates the fodder ceiling for a terrain kind. Only
// Lowland and Highland are configurable; the only known key is "f_max".
func SetTerrainParams(t Terrain, params map[string]float64) error {
	if t != Lowland && t != Highland {
		return fmt.Errorf("%w: only Lowland and Highland parameters can be changed, got %s", ErrParam, t)
	}
	for key, value := range params {
		if key != "f_max" {
			if levenshtein.ComputeDistance(key, "f_max") <= 3 {
				return fmt.Errorf("%w: unknown key %q (did you mean %q?)", ErrParam, key, "f_max")
			}
			return fmt.Errorf("%w: unknown key %q", ErrParam, key)
		}
		if value < 0 {
			return fmt.Errorf("%w: f_max must be non-negative, got %v", ErrParam, value)
		}
	}
	if v, ok := params["f_max"]; ok {
		fodderMax[t] = v
	}
	return nil
}

// ResetTerrainParams restores the default fodder ceilings. Intended for test
// setup and between-run cleanup.
func ResetTerrainParams() {
	fodderMax = map[Terrain]float64{
		Lowland:  800.0,
		Highland: 300.0,
		Desert:   0.0,
	}
}
