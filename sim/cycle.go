package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/rossumoya/biosim/animal"
	"github.com/rossumoya/biosim/island"
)

// AdvanceOneYear applies the six seasonal phases to the island. Each phase
// sweeps the full land-cell list (row-major order, fixed at construction)
// before the next phase begins, so every animal is handled exactly once per
// year no matter where it migrates. Phase order is load-bearing: feeding
// precedes procreation (birth depends on post-feeding weight) and death runs
// last so a starved animal cannot age or reproduce further.
func (s *Simulation) AdvanceOneYear() {
	cells := s.island.LandCells()

	// 1. Feeding
	for _, c := range cells {
		s.feedCell(c)
	}

	// 2. Procreation
	for _, c := range cells {
		s.procreateCell(c)
	}

	// 3. Migration. Flags block a second move within the sweep and are
	// cleared only after the sweep has covered every cell; newborns carry a
	// pre-set flag so they sit out their birth year.
	for _, c := range cells {
		s.migrateCell(c)
	}
	for _, c := range cells {
		c.ResetMoveFlags()
	}

	// 4. Aging
	for _, c := range cells {
		for _, e := range c.Animals() {
			s.island.Arena().Get(e).Aging()
		}
	}

	// 5. Weight loss
	for _, c := range cells {
		for _, e := range c.Animals() {
			s.island.Arena().Get(e).LoseWeight()
		}
	}

	// 6. Death
	for _, c := range cells {
		s.deathSeason(c)
	}

	s.year++
}

// Run advances the simulation by numYears annual cycles. It mutates only the
// island and its counters; observers read snapshots between years.
func (s *Simulation) Run(numYears int) {
	for i := 0; i < numYears; i++ {
		s.AdvanceOneYear()
	}
}

// feedCell runs the feeding season for one cell: fodder is restored to the
// terrain ceiling, herbivores graze in shuffled order, then carnivores hunt
// strongest-first against the herbivores sorted weakest-first.
func (s *Simulation) feedCell(c *island.Cell) {
	arena := s.island.Arena()

	c.ResetFodder()
	c.RandomizeHerbivores(s.rng)
	for _, e := range c.Herbivores() {
		if c.Fodder() <= 0 {
			break
		}
		consumed := arena.Get(e).Graze(c.Fodder())
		_ = c.SetFodder(c.Fodder() - consumed)
	}

	for _, e := range c.SortedCarnivores() {
		prey := c.SortedHerbivores()
		preyAnimals := make([]*animal.Animal, len(prey))
		for i, pe := range prey {
			preyAnimals[i] = arena.Get(pe)
		}

		killedIdx := arena.Get(e).Hunt(s.rng, preyAnimals)
		if len(killedIdx) == 0 {
			continue
		}
		killed := make([]ecs.Entity, len(killedIdx))
		for i, idx := range killedIdx {
			killed[i] = prey[idx]
		}
		// The handles come straight from the cell, so removal cannot fail.
		_ = c.RemoveAnimals(killed)
		_ = s.island.DelAnimals(len(killed), 0)
		s.collector.RecordKills(len(killed))
		for _, ke := range killed {
			arena.Remove(ke)
		}
	}
}

// procreateCell runs the birth season for one cell. Births use the species
// counts as they stood after feeding; newborns are collected first and only
// join the cell once every existing animal has been evaluated, so a newborn
// never counts toward its own cohort's n_same.
func (s *Simulation) procreateCell(c *island.Cell) {
	arena := s.island.Arena()
	nHerbs, nCarns := c.HerbCount(), c.CarnCount()

	var newborns []ecs.Entity
	newHerbs, newCarns := 0, 0

	for _, e := range c.Herbivores() {
		if weight, ok := arena.Get(e).GiveBirth(s.rng, nHerbs); ok {
			newborns = append(newborns, s.spawnNewborn(animal.Herbivore, weight))
			newHerbs++
		}
	}
	for _, e := range c.Carnivores() {
		if weight, ok := arena.Get(e).GiveBirth(s.rng, nCarns); ok {
			newborns = append(newborns, s.spawnNewborn(animal.Carnivore, weight))
			newCarns++
		}
	}

	if len(newborns) == 0 {
		return
	}
	_ = c.AddAnimals(newborns)
	_ = s.island.CountAnimals(newHerbs, newCarns)
	s.collector.RecordBirths(animal.Herbivore, newHerbs)
	s.collector.RecordBirths(animal.Carnivore, newCarns)
}

// spawnNewborn creates a newborn in the arena. The moved flag starts set:
// newborns are not eligible to migrate in their birth year, and the flag
// clears with everyone else's after the migration sweep.
func (s *Simulation) spawnNewborn(sp animal.Species, weight float64) ecs.Entity {
	a := animal.New(sp, 0, weight)
	a.HasMoved = true
	return s.island.Arena().Spawn(a)
}

// migrateCell runs the migration season for one cell. Each animal that has
// not yet moved this year draws the migration decision; on success one land
// neighbor is chosen uniformly and ownership transfers there. Cells without
// land neighbors keep their animals.
func (s *Simulation) migrateCell(c *island.Cell) {
	arena := s.island.Arena()
	neighbors := c.LandNeighbors()

	var moved []ecs.Entity
	for _, e := range c.Animals() {
		a := arena.Get(e)
		if a.HasMoved || !a.WantsToMove(s.rng) {
			continue
		}
		if len(neighbors) == 0 {
			continue
		}
		dest := neighbors[s.rng.Intn(len(neighbors))]
		a.HasMoved = true
		_ = dest.AddAnimals([]ecs.Entity{e})
		moved = append(moved, e)
		s.collector.RecordMigration()
	}
	_ = c.RemoveAnimals(moved)
}

// deathSeason removes every animal whose death draw comes up, starved
// animals unconditionally among them.
func (s *Simulation) deathSeason(c *island.Cell) {
	arena := s.island.Arena()

	var dead []ecs.Entity
	for _, e := range c.Animals() {
		if arena.Get(e).Dies(s.rng) {
			dead = append(dead, e)
		}
	}
	if len(dead) == 0 {
		return
	}
	for _, e := range dead {
		s.collector.RecordDeath(arena.Get(e).Species)
	}
	_ = c.RemoveAnimals(dead)
	s.island.DelAnimalList(dead)
	for _, e := range dead {
		arena.Remove(e)
	}
}
