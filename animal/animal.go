// Package animal models the individual animals of the island ecosystem:
// their state (species, age, weight), the fitness function and the stochastic
// biological actions that drive the annual cycle.
//
// Every probability draw takes the caller's *rand.Rand so a whole simulation
// run is reproducible from a single seed.
package animal

import (
	"math"
	"math/rand"
)

// Animal is the per-individual state. Animals are owned by exactly one cell
// at a time; the cell layer stores them in an arena and passes pointers here.
type Animal struct {
	Species Species
	Age     int
	Weight  float64

	// HasMoved blocks a second relocation within one annual cycle. It is
	// cleared after the island-wide migration sweep completes.
	HasMoved bool
}

// New creates an animal with an explicit age and weight, as when loading an
// initial population from a snapshot.
func New(s Species, age int, weight float64) Animal {
	return Animal{Species: s, Age: age, Weight: weight}
}

// NewWithBirthWeight creates a newborn with a Gaussian-sampled weight.
func NewWithBirthWeight(rng *rand.Rand, s Species) Animal {
	return Animal{Species: s, Weight: BirthWeight(rng, s)}
}

// BirthWeight draws a newborn weight from Gaussian(w_birth, sigma_birth).
func BirthWeight(rng *rand.Rand, s Species) float64 {
	p := ParamsFor(s)
	return p.WBirth + p.SigmaBirth*rng.NormFloat64()
}

// q is the logistic term of the fitness product.
func q(sgn, x, xHalf, phi float64) float64 {
	return 1.0 / (1.0 + math.Exp(sgn*phi*(x-xHalf)))
}

// Fitness returns the animal's fitness in [0,1]. An animal with weight <= 0
// has fitness 0. Recomputed on every call; age and weight change too often
// within a cycle for caching to pay off.
func (a *Animal) Fitness() float64 {
	if a.Weight <= 0 {
		return 0
	}
	p := ParamsFor(a.Species)
	return q(+1, float64(a.Age), p.AHalf, p.PhiAge) * q(-1, a.Weight, p.WHalf, p.PhiWeight)
}

// Graze lets a herbivore consume min(F, available) fodder and returns the
// amount consumed, which the cell subtracts from its fodder. Weight grows by
// beta per unit consumed. No-op when the cell is out of fodder.
func (a *Animal) Graze(available float64) float64 {
	if available <= 0 {
		return 0
	}
	p := ParamsFor(a.Species)
	amount := math.Min(p.F, available)
	a.Weight += p.Beta * amount
	return amount
}

// Hunt walks prey from lowest to highest fitness and returns the indices of
// the prey killed. The kill probability for each prey is the predator/prey
// fitness difference scaled by DeltaPhiMax, clamped to [0,1]. Once the
// accumulated prey weight reaches F on entry to a prey, no further prey are
// considered. Consumption is capped at F; the predator's weight grows by
// beta times the consumed amount.
//
// The predator's fitness is evaluated once, before the walk, so kills within
// one hunt do not strengthen it against later prey.
func (a *Animal) Hunt(rng *rand.Rand, prey []*Animal) []int {
	p := ParamsFor(a.Species)
	fitness := a.Fitness()

	var killed []int
	consumed := 0.0
	for i, pr := range prey {
		if consumed >= p.F {
			break
		}

		diff := fitness - pr.Fitness()
		var kill bool
		switch {
		case diff <= 0:
			kill = false
		case diff >= p.DeltaPhiMax:
			kill = true
		default:
			kill = rng.Float64() < diff/p.DeltaPhiMax
		}

		if kill {
			consumed += pr.Weight
			killed = append(killed, i)
		}
	}

	if consumed > p.F {
		consumed = p.F
	}
	a.Weight += p.Beta * consumed

	return killed
}

// GiveBirth decides whether the animal gives birth given the number of
// same-species animals in its cell, and returns the newborn weight when it
// does. The mother must weigh at least zeta*(w_birth+sigma_birth); the birth
// probability gamma*fitness*(n-1) is clamped to [0,1]; and the birth is only
// realized when the sampled newborn weight is below the mother's own weight,
// in which case she pays xi times the newborn weight.
func (a *Animal) GiveBirth(rng *rand.Rand, nSame int) (float64, bool) {
	p := ParamsFor(a.Species)
	if a.Weight < p.Zeta*(p.WBirth+p.SigmaBirth) {
		return 0, false
	}

	prob := p.Gamma * a.Fitness() * float64(nSame-1)
	var give bool
	switch {
	case prob >= 1:
		give = true
	case prob > 0:
		give = rng.Float64() < prob
	}
	if !give {
		return 0, false
	}

	weight := BirthWeight(rng, a.Species)
	if weight >= a.Weight {
		return 0, false
	}
	a.Weight -= p.Xi * weight
	return weight, true
}

// WantsToMove draws the yearly migration decision with probability
// mu*fitness. The HasMoved flag is enforced by the cycle controller, not
// here.
func (a *Animal) WantsToMove(rng *rand.Rand) bool {
	p := ParamsFor(a.Species)
	return rng.Float64() < p.Mu*a.Fitness()
}

// Aging advances the animal's age by one year.
func (a *Animal) Aging() {
	a.Age++
}

// LoseWeight applies the yearly weight loss eta*weight.
func (a *Animal) LoseWeight() {
	p := ParamsFor(a.Species)
	a.Weight -= a.Weight * p.Eta
}

// Dies decides whether the animal dies this year: certain when weight <= 0,
// otherwise with probability omega*(1-fitness).
func (a *Animal) Dies(rng *rand.Rand) bool {
	if a.Weight <= 0 {
		return true
	}
	p := ParamsFor(a.Species)
	return rng.Float64() < p.Omega*(1-a.Fitness())
}
