// Package island models the simulation landscape: a rectangular grid of
// terrain cells parsed from a map string, with precomputed land neighbors,
// per-cell animal ownership and island-wide population counters that are
// maintained incrementally by every mutation.
package island

import (
	"fmt"
	"strings"

	"github.com/mlange-42/ark/ecs"

	"github.com/rossumoya/biosim/animal"
)

// Coord addresses a cell. Coordinates are 1-based, with row 1 being the top
// line of the map string.
type Coord struct {
	Row, Col int
}

// Island is the full landscape grid plus the animal arena and the running
// population counters.
type Island struct {
	cells     map[Coord]*Cell
	landCells []*Cell // row-major order; the fixed cell iteration order
	rows      int
	cols      int
	mapStr    string

	arena *Arena

	numHerbs int
	numCarns int
}

// New parses a map string into an island. Rows must be of uniform length,
// consist only of the letters W, L, H and D, and every border cell must be
// Water.
func New(mapStr string) (*Island, error) {
	rawLines := strings.Split(strings.TrimSpace(mapStr), "\n")
	lines := make([]string, len(rawLines))
	for i, line := range rawLines {
		lines[i] = strings.TrimSpace(line)
	}
	if len(lines) == 0 || lines[0] == "" {
		return nil, fmt.Errorf("%w: map string is empty", ErrMapFormat)
	}
	cols := len(lines[0])
	for _, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: rows must have uniform length", ErrMapFormat)
		}
	}

	isl := &Island{
		cells:  make(map[Coord]*Cell, len(lines)*cols),
		rows:   len(lines),
		cols:   cols,
		mapStr: mapStr,
		arena:  NewArena(),
	}

	for r, line := range lines {
		for col := 0; col < cols; col++ {
			terrain, err := ParseTerrain(line[col])
			if err != nil {
				return nil, err
			}
			loc := Coord{Row: r + 1, Col: col + 1}
			cell := newCell(terrain, loc, isl.arena)
			isl.cells[loc] = cell
			if cell.IsLand() {
				if loc.Row == 1 || loc.Row == isl.rows || loc.Col == 1 || loc.Col == isl.cols {
					return nil, fmt.Errorf("%w: border cell (%d,%d) must be Water", ErrMapFormat, loc.Row, loc.Col)
				}
				isl.landCells = append(isl.landCells, cell)
			}
		}
	}

	isl.setNeighbors()
	return isl, nil
}

// setNeighbors precomputes each land cell's orthogonally adjacent non-Water
// cells. Runs once at construction; the lists are immutable afterwards.
func (isl *Island) setNeighbors() {
	for _, cell := range isl.landCells {
		loc := cell.Loc
		for _, nloc := range []Coord{
			{loc.Row - 1, loc.Col},
			{loc.Row, loc.Col + 1},
			{loc.Row + 1, loc.Col},
			{loc.Row, loc.Col - 1},
		} {
			if n, ok := isl.cells[nloc]; ok && n.IsLand() {
				cell.neighbors = append(cell.neighbors, n)
			}
		}
	}
}

// MapString returns the map text the island was constructed from.
func (isl *Island) MapString() string {
	return isl.mapStr
}

// Rows returns the number of map rows.
func (isl *Island) Rows() int {
	return isl.rows
}

// Cols returns the number of map columns.
func (isl *Island) Cols() int {
	return isl.cols
}

// CellAt returns the cell at a coordinate.
func (isl *Island) CellAt(loc Coord) (*Cell, bool) {
	c, ok := isl.cells[loc]
	return c, ok
}

// LandCells returns all non-Water cells in row-major order. The slice is
// fixed at construction; callers must not mutate it.
func (isl *Island) LandCells() []*Cell {
	return isl.landCells
}

// Arena returns the animal arena backing this island.
func (isl *Island) Arena() *Arena {
	return isl.arena
}

// CountAnimals adds explicit per-species deltas to the population counters.
func (isl *Island) CountAnimals(numHerbs, numCarns int) error {
	if numHerbs < 0 || numCarns < 0 {
		return fmt.Errorf("%w: counter deltas must be non-negative", ErrParam)
	}
	isl.numHerbs += numHerbs
	isl.numCarns += numCarns
	return nil
}

// DelAnimals subtracts explicit per-species deltas from the population
// counters.
func (isl *Island) DelAnimals(numHerbs, numCarns int) error {
	if numHerbs < 0 || numCarns < 0 {
		return fmt.Errorf("%w: counter deltas must be non-negative", ErrParam)
	}
	isl.numHerbs -= numHerbs
	isl.numCarns -= numCarns
	return nil
}

// CountAnimalList tallies a list of animals into the population counters by
// species.
func (isl *Island) CountAnimalList(list []ecs.Entity) {
	nh, nc := isl.tally(list)
	isl.numHerbs += nh
	isl.numCarns += nc
}

// DelAnimalList removes a list of animals from the population counters by
// species.
func (isl *Island) DelAnimalList(list []ecs.Entity) {
	nh, nc := isl.tally(list)
	isl.numHerbs -= nh
	isl.numCarns -= nc
}

func (isl *Island) tally(list []ecs.Entity) (numHerbs, numCarns int) {
	for _, e := range list {
		switch isl.arena.Get(e).Species {
		case animal.Herbivore:
			numHerbs++
		case animal.Carnivore:
			numCarns++
		}
	}
	return numHerbs, numCarns
}

// NumHerbivores returns the island-wide herbivore count.
func (isl *Island) NumHerbivores() int {
	return isl.numHerbs
}

// NumCarnivores returns the island-wide carnivore count.
func (isl *Island) NumCarnivores() int {
	return isl.numCarns
}

// NumAnimals returns the island-wide animal count.
func (isl *Island) NumAnimals() int {
	return isl.numHerbs + isl.numCarns
}

// AddPopulation spawns the given animals into the cell at loc and updates
// the population counters.
func (isl *Island) AddPopulation(loc Coord, animals []animal.Animal) error {
	cell, ok := isl.cells[loc]
	if !ok {
		return fmt.Errorf("%w: no cell at (%d,%d)", ErrParam, loc.Row, loc.Col)
	}
	if !cell.IsLand() {
		return fmt.Errorf("%w: cannot place animals on %s at (%d,%d)", ErrParam, cell.Terrain, loc.Row, loc.Col)
	}
	handles := make([]ecs.Entity, len(animals))
	for i, a := range animals {
		handles[i] = isl.arena.Spawn(a)
	}
	if err := cell.AddAnimals(handles); err != nil {
		return err
	}
	isl.CountAnimalList(handles)
	return nil
}

// PopMatrix returns the per-cell population counts of one species as a
// rows x cols matrix, for density heatmaps. Water cells are zero.
func (isl *Island) PopMatrix(sp animal.Species) [][]int {
	matrix := make([][]int, isl.rows)
	for r := range matrix {
		matrix[r] = make([]int, isl.cols)
	}
	for _, cell := range isl.landCells {
		n := cell.HerbCount()
		if sp == animal.Carnivore {
			n = cell.CarnCount()
		}
		matrix[cell.Loc.Row-1][cell.Loc.Col-1] = n
	}
	return matrix
}

// Weights returns the weight of every animal of one species, flattened over
// the land cells in iteration order. Snapshot for histogram consumers.
func (isl *Island) Weights(sp animal.Species) []float64 {
	return isl.collect(sp, func(a *animal.Animal) float64 { return a.Weight })
}

// Ages returns the age of every animal of one species, flattened over the
// land cells in iteration order.
func (isl *Island) Ages(sp animal.Species) []float64 {
	return isl.collect(sp, func(a *animal.Animal) float64 { return float64(a.Age) })
}

// FitnessValues returns the fitness of every animal of one species,
// flattened over the land cells in iteration order.
func (isl *Island) FitnessValues(sp animal.Species) []float64 {
	return isl.collect(sp, func(a *animal.Animal) float64 { return a.Fitness() })
}

func (isl *Island) collect(sp animal.Species, value func(*animal.Animal) float64) []float64 {
	var out []float64
	for _, cell := range isl.landCells {
		handles := cell.Herbivores()
		if sp == animal.Carnivore {
			handles = cell.Carnivores()
		}
		for _, e := range handles {
			out = append(out, value(isl.arena.Get(e)))
		}
	}
	return out
}
