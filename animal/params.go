package animal

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
)

// ErrParam is wrapped by every configuration error raised from this package.
var ErrParam = errors.New("invalid animal parameter")

// Params is the per-species parameter table. One table exists per species,
// shared by every animal of that species. Tables may only be changed between
// simulation runs.
type Params struct {
	WBirth     float64 // mean newborn weight
	SigmaBirth float64 // stddev of newborn weight
	Beta       float64 // weight gain per unit food
	Eta        float64 // yearly weight loss fraction
	AHalf      float64 // age at half fitness
	PhiAge     float64 // age fitness slope
	WHalf      float64 // weight at half fitness
	PhiWeight  float64 // weight fitness slope
	Mu         float64 // migration propensity
	Gamma      float64 // birth propensity
	Zeta       float64 // birth weight threshold factor
	Xi         float64 // mother weight cost per unit newborn weight
	Omega      float64 // death propensity
	F          float64 // yearly appetite

	// DeltaPhiMax caps the fitness-difference range over which a carnivore's
	// kill probability scales linearly. Carnivore only.
	DeltaPhiMax float64
}

var herbivoreDefaults = Params{
	WBirth:     8.0,
	SigmaBirth: 1.5,
	Beta:       0.9,
	Eta:        0.05,
	AHalf:      40.0,
	PhiAge:     0.6,
	WHalf:      10.0,
	PhiWeight:  0.1,
	Mu:         0.25,
	Gamma:      0.2,
	Zeta:       3.5,
	Xi:         1.2,
	Omega:      0.4,
	F:          10.0,
}

var carnivoreDefaults = Params{
	WBirth:      6.0,
	SigmaBirth:  1.0,
	Beta:        0.75,
	Eta:         0.125,
	AHalf:       40.0,
	PhiAge:      0.3,
	WHalf:       4.0,
	PhiWeight:   0.4,
	Mu:          0.4,
	Gamma:       0.8,
	Zeta:        3.5,
	Xi:          1.1,
	Omega:       0.8,
	F:           50.0,
	DeltaPhiMax: 10.0,
}

// tables holds the live parameter tables, indexed by Species.
var tables = [numSpecies]Params{herbivoreDefaults, carnivoreDefaults}

// ParamsFor returns a copy of the current parameter table for a species.
func ParamsFor(s Species) Params {
	return tables[s]
}

// ResetParams restores the default parameter tables for both species.
// Intended for test setup and between-run cleanup.
func ResetParams() {
	tables = [numSpecies]Params{herbivoreDefaults, carnivoreDefaults}
}

// paramKeys lists the accepted keys per species, in the original naming.
func paramKeys(s Species) []string {
	keys := []string{
		"w_birth", "sigma_birth", "beta", "eta", "a_half", "phi_age",
		"w_half", "phi_weight", "mu", "gamma", "zeta", "xi", "omega", "F",
	}
	if s == Carnivore {
		keys = append(keys, "DeltaPhiMax")
	}
	return keys
}

// SetParams updates the parameter table for a species. All keys are validated
// before anything is applied, so a failed call leaves the table untouched.
// Unknown keys and negative values are configuration errors.
func SetParams(s Species, params map[string]float64) error {
	keys := paramKeys(s)
	for key, value := range params {
		if !containsKey(keys, key) {
			return unknownKeyError(key, keys)
		}
		if value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrParam, key, value)
		}
	}

	p := tables[s]
	for key, value := range params {
		switch key {
		case "w_birth":
			p.WBirth = value
		case "sigma_birth":
			p.SigmaBirth = value
		case "beta":
			p.Beta = value
		case "eta":
			p.Eta = value
		case "a_half":
			p.AHalf = value
		case "phi_age":
			p.PhiAge = value
		case "w_half":
			p.WHalf = value
		case "phi_weight":
			p.PhiWeight = value
		case "mu":
			p.Mu = value
		case "gamma":
			p.Gamma = value
		case "zeta":
			p.Zeta = value
		case "xi":
			p.Xi = value
		case "omega":
			p.Omega = value
		case "F":
			p.F = value
		case "DeltaPhiMax":
			p.DeltaPhiMax = value
		}
	}
	tables[s] = p
	return nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// unknownKeyError builds the error for an unrecognized parameter key,
// suggesting the closest known key when one is plausibly intended.
func unknownKeyError(key string, known []string) error {
	best := ""
	bestDist := -1
	for _, k := range known {
		dist := levenshtein.ComputeDistance(key, k)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = k, dist
		}
	}
	if bestDist >= 0 && bestDist <= 3 {
		return fmt.Errorf("%w: unknown key %q (did you mean %q?)", ErrParam, key, best)
	}
	return fmt.Errorf("%w: unknown key %q", ErrParam, key)
}
