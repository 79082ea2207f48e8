package island

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/rossumoya/biosim/animal"
)

// ErrNotAnimal is returned when a cell mutator receives a handle that does
// not refer to a live animal.
var ErrNotAnimal = errors.New("list may only contain live animals")

// Cell is one habitat tile. It owns the animals currently standing on it,
// split per species, and knows its non-Water orthogonal neighbors.
type Cell struct {
	Terrain Terrain
	Loc     Coord

	fodder     float64
	herbivores []ecs.Entity
	carnivores []ecs.Entity
	neighbors  []*Cell

	arena *Arena
}

func newCell(t Terrain, loc Coord, ar *Arena) *Cell {
	return &Cell{Terrain: t, Loc: loc, fodder: FMax(t), arena: ar}
}

// IsLand reports whether the cell can hold animals.
func (c *Cell) IsLand() bool {
	return c.Terrain != Water
}

// Fodder returns the plant food currently available in the cell.
func (c *Cell) Fodder() float64 {
	return c.fodder
}

// SetFodder sets the available fodder. Negative values are rejected.
func (c *Cell) SetFodder(v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: fodder must be non-negative, got %v", ErrParam, v)
	}
	c.fodder = v
	return nil
}

// ResetFodder restores the cell's fodder to its terrain ceiling, as happens
// at the start of every feeding season.
func (c *Cell) ResetFodder() {
	c.fodder = FMax(c.Terrain)
}

// LandNeighbors returns the up-to-four orthogonally adjacent non-Water
// cells, precomputed at island construction.
func (c *Cell) LandNeighbors() []*Cell {
	return c.neighbors
}

// Herbivores returns the cell's herbivore handles. The slice is live; it must
// not be mutated by callers.
func (c *Cell) Herbivores() []ecs.Entity {
	return c.herbivores
}

// Carnivores returns the cell's carnivore handles. The slice is live; it must
// not be mutated by callers.
func (c *Cell) Carnivores() []ecs.Entity {
	return c.carnivores
}

// Animals returns a fresh slice of all animal handles in the cell,
// herbivores first.
func (c *Cell) Animals() []ecs.Entity {
	all := make([]ecs.Entity, 0, len(c.herbivores)+len(c.carnivores))
	all = append(all, c.herbivores...)
	all = append(all, c.carnivores...)
	return all
}

// HerbCount returns the number of herbivores in the cell.
func (c *Cell) HerbCount() int {
	return len(c.herbivores)
}

// CarnCount returns the number of carnivores in the cell.
func (c *Cell) CarnCount() int {
	return len(c.carnivores)
}

// AddAnimals places the given animals into the cell, dispatching each to its
// species collection. Water cells reject animals; handles that do not refer
// to live animals are a misuse error.
func (c *Cell) AddAnimals(list []ecs.Entity) error {
	if !c.IsLand() {
		return fmt.Errorf("%w: %s cells cannot hold animals", ErrParam, c.Terrain)
	}
	for _, e := range list {
		if !c.arena.Holds(e) {
			return fmt.Errorf("%w: stale handle %v", ErrNotAnimal, e)
		}
	}
	for _, e := range list {
		switch c.arena.Get(e).Species {
		case animal.Herbivore:
			c.herbivores = append(c.herbivores, e)
		case animal.Carnivore:
			c.carnivores = append(c.carnivores, e)
		}
	}
	return nil
}

// RemoveAnimals takes the given animals out of the cell. Every handle must be
// a live animal currently held by this cell.
func (c *Cell) RemoveAnimals(list []ecs.Entity) error {
	for _, e := range list {
		if !c.arena.Holds(e) {
			return fmt.Errorf("%w: stale handle %v", ErrNotAnimal, e)
		}
		var ok bool
		switch c.arena.Get(e).Species {
		case animal.Herbivore:
			c.herbivores, ok = removeHandle(c.herbivores, e)
		case animal.Carnivore:
			c.carnivores, ok = removeHandle(c.carnivores, e)
		}
		if !ok {
			return fmt.Errorf("%w: animal %v is not in cell (%d,%d)", ErrNotAnimal, e, c.Loc.Row, c.Loc.Col)
		}
	}
	return nil
}

func removeHandle(s []ecs.Entity, e ecs.Entity) ([]ecs.Entity, bool) {
	for i := range s {
		if s[i] == e {
			return append(s[:i], s[i+1:]...), true
		}
	}
	return s, false
}

// RandomizeHerbivores shuffles the herbivore feeding order to avoid
// positional bias before grazing.
func (c *Cell) RandomizeHerbivores(rng *rand.Rand) {
	rng.Shuffle(len(c.herbivores), func(i, j int) {
		c.herbivores[i], c.herbivores[j] = c.herbivores[j], c.herbivores[i]
	})
}

// SortedHerbivores returns the cell's herbivores ordered from lowest to
// highest fitness, the order in which predators consider them.
func (c *Cell) SortedHerbivores() []ecs.Entity {
	return c.sortedByFitness(c.herbivores, false)
}

// SortedCarnivores returns the cell's carnivores ordered from highest to
// lowest fitness, the order in which they hunt.
func (c *Cell) SortedCarnivores() []ecs.Entity {
	return c.sortedByFitness(c.carnivores, true)
}

func (c *Cell) sortedByFitness(handles []ecs.Entity, descending bool) []ecs.Entity {
	type ranked struct {
		e       ecs.Entity
		fitness float64
	}
	rs := make([]ranked, len(handles))
	for i, e := range handles {
		rs[i] = ranked{e: e, fitness: c.arena.Get(e).Fitness()}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if descending {
			return rs[i].fitness > rs[j].fitness
		}
		return rs[i].fitness < rs[j].fitness
	})
	out := make([]ecs.Entity, len(rs))
	for i, r := range rs {
		out[i] = r.e
	}
	return out
}

// ResetMoveFlags clears the per-cycle migration flag on every animal in the
// cell.
func (c *Cell) ResetMoveFlags() {
	for _, e := range c.Animals() {
		c.arena.Get(e).HasMoved = false
	}
}
