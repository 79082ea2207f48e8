// Package sim is the public facade of the island ecosystem simulation: it
// owns the island, the single seeded random stream and the annual-cycle
// controller, and exposes the configuration calls and read-only snapshot
// queries used by drivers and visualization layers.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/rossumoya/biosim/animal"
	"github.com/rossumoya/biosim/island"
	"github.com/rossumoya/biosim/telemetry"
)

// DefaultSeed is used when Options.Seed is zero, so default-constructed
// simulations are reproducible.
const DefaultSeed int64 = 123

// AnimalSpec describes one animal of an initial population. Weight 0 means
// "sample a Gaussian birth weight".
type AnimalSpec struct {
	Species string
	Age     int
	Weight  float64
}

// PopulationEntry places a group of animals at one cell.
type PopulationEntry struct {
	Loc     island.Coord
	Animals []AnimalSpec
}

// Options configures a new simulation.
type Options struct {
	MapString         string
	InitialPopulation []PopulationEntry
	Seed              int64

	// Collector receives per-year events when set. Optional.
	Collector *telemetry.Collector
}

// Simulation drives one island through repeated annual cycles.
type Simulation struct {
	island    *island.Island
	rng       *rand.Rand
	year      int
	collector *telemetry.Collector
}

// New constructs a simulation from a map string, an optional initial
// population and a seed. Map and population errors surface here, before any
// cycle runs.
func New(opts Options) (*Simulation, error) {
	isl, err := island.New(opts.MapString)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	s := &Simulation{
		island:    isl,
		rng:       rand.New(rand.NewSource(seed)),
		collector: opts.Collector,
	}
	if err := s.AddPopulation(opts.InitialPopulation); err != nil {
		return nil, err
	}
	return s, nil
}

// AddPopulation places animals on the island. Unknown species names, unknown
// coordinates and Water targets are configuration errors.
func (s *Simulation) AddPopulation(entries []PopulationEntry) error {
	for _, entry := range entries {
		animals := make([]animal.Animal, 0, len(entry.Animals))
		for _, spec := range entry.Animals {
			sp, err := animal.ParseSpecies(spec.Species)
			if err != nil {
				return err
			}
			if spec.Age < 0 {
				return fmt.Errorf("%w: age must be non-negative, got %d", animal.ErrParam, spec.Age)
			}
			weight := spec.Weight
			if weight == 0 {
				weight = animal.BirthWeight(s.rng, sp)
			}
			animals = append(animals, animal.New(sp, spec.Age, weight))
		}
		if err := s.island.AddPopulation(entry.Loc, animals); err != nil {
			return err
		}
	}
	return nil
}

// SetAnimalParams replaces parameter values for a species. Only valid
// between runs.
func (s *Simulation) SetAnimalParams(species string, params map[string]float64) error {
	sp, err := animal.ParseSpecies(species)
	if err != nil {
		return err
	}
	return animal.SetParams(sp, params)
}

// SetLandscapeParams replaces the fodder ceiling for a terrain letter. Only
// valid between runs, and only for L and H.
func (s *Simulation) SetLandscapeParams(terrain string, params map[string]float64) error {
	if len(terrain) != 1 {
		return fmt.Errorf("%w: terrain must be a single letter, got %q", island.ErrParam, terrain)
	}
	t, err := island.ParseTerrain(terrain[0])
	if err != nil {
		return fmt.Errorf("%w: unknown terrain %q", island.ErrParam, terrain)
	}
	return island.SetTerrainParams(t, params)
}

// Year returns the number of years simulated so far.
func (s *Simulation) Year() int {
	return s.year
}

// Island exposes the island for read-only inspection.
func (s *Simulation) Island() *island.Island {
	return s.island
}

// MapString returns the raw map text for rendering.
func (s *Simulation) MapString() string {
	return s.island.MapString()
}

// NumAnimals returns the island-wide animal count.
func (s *Simulation) NumAnimals() int {
	return s.island.NumAnimals()
}

// NumAnimalsPerSpecies returns the per-species counts keyed by species name.
func (s *Simulation) NumAnimalsPerSpecies() map[string]int {
	return map[string]int{
		animal.Herbivore.String(): s.island.NumHerbivores(),
		animal.Carnivore.String(): s.island.NumCarnivores(),
	}
}

// PopMatrix returns the per-cell population counts of one species.
func (s *Simulation) PopMatrix(species string) ([][]int, error) {
	sp, err := animal.ParseSpecies(species)
	if err != nil {
		return nil, err
	}
	return s.island.PopMatrix(sp), nil
}

// AnimalWeights returns the flattened weight list for one species.
func (s *Simulation) AnimalWeights(species string) ([]float64, error) {
	sp, err := animal.ParseSpecies(species)
	if err != nil {
		return nil, err
	}
	return s.island.Weights(sp), nil
}

// AnimalAges returns the flattened age list for one species.
func (s *Simulation) AnimalAges(species string) ([]float64, error) {
	sp, err := animal.ParseSpecies(species)
	if err != nil {
		return nil, err
	}
	return s.island.Ages(sp), nil
}

// AnimalFitness returns the flattened fitness list for one species.
func (s *Simulation) AnimalFitness(species string) ([]float64, error) {
	sp, err := animal.ParseSpecies(species)
	if err != nil {
		return nil, err
	}
	return s.island.FitnessValues(sp), nil
}

// Snapshot gathers the year-end state the telemetry layer consumes.
func (s *Simulation) Snapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		Herbivores:  s.island.NumHerbivores(),
		Carnivores:  s.island.NumCarnivores(),
		HerbWeights: s.island.Weights(animal.Herbivore),
		CarnWeights: s.island.Weights(animal.Carnivore),
		HerbAges:    s.island.Ages(animal.Herbivore),
		CarnAges:    s.island.Ages(animal.Carnivore),
		HerbFitness: s.island.FitnessValues(animal.Herbivore),
		CarnFitness: s.island.FitnessValues(animal.Carnivore),
	}
}
