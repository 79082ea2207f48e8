package sim

import (
	"math"
	"testing"

	"github.com/rossumoya/biosim/animal"
	"github.com/rossumoya/biosim/island"
	"github.com/rossumoya/biosim/telemetry"
)

const twoCellMap = `WWWWW
WLLWW
WWWWW`

const desertMap = `WWW
WDW
WWW`

// freezePopulation turns off births, deaths and migration so a scenario can
// observe one phase in isolation.
func freezePopulation(t *testing.T) {
	t.Helper()
	for _, sp := range []animal.Species{animal.Herbivore, animal.Carnivore} {
		if err := animal.SetParams(sp, map[string]float64{
			"gamma": 0.0,
			"omega": 0.0,
			"mu":    0.0,
		}); err != nil {
			t.Fatal(err)
		}
	}
}

func recount(isl *island.Island) (numHerbs, numCarns int) {
	for _, c := range isl.LandCells() {
		numHerbs += c.HerbCount()
		numCarns += c.CarnCount()
	}
	return numHerbs, numCarns
}

func TestAgingAndWeightLossOncePerYear(t *testing.T) {
	animal.ResetParams()
	defer animal.ResetParams()
	island.ResetTerrainParams()
	freezePopulation(t)

	// Desert offers no fodder, so weight changes only through the annual loss.
	s, err := New(Options{
		MapString: desertMap,
		Seed:      1,
		InitialPopulation: []PopulationEntry{
			{Loc: island.Coord{Row: 2, Col: 2}, Animals: herd(10, 5, 20)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.AdvanceOneYear()

	ages, _ := s.AnimalAges("Herbivore")
	weights, _ := s.AnimalWeights("Herbivore")
	if len(ages) != 10 {
		t.Fatalf("herd shrank to %d with death disabled", len(ages))
	}
	for i := range ages {
		if ages[i] != 6 {
			t.Errorf("age[%d] = %v after one year, want 6", i, ages[i])
		}
		if math.Abs(weights[i]-20.0*(1-0.05)) > 1e-12 {
			t.Errorf("weight[%d] = %v after one year, want %v", i, weights[i], 20.0*(1-0.05))
		}
	}
}

func TestGrazingRestoresAndConsumesFodder(t *testing.T) {
	animal.ResetParams()
	defer animal.ResetParams()
	island.ResetTerrainParams()
	freezePopulation(t)

	s, err := New(Options{
		MapString: oneCellMap,
		Seed:      1,
		InitialPopulation: []PopulationEntry{
			{Loc: island.Coord{Row: 2, Col: 2}, Animals: herd(3, 5, 20)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.AdvanceOneYear()

	// Lowland restores 800 each year; 3 herbivores eat F = 10 apiece.
	c, _ := s.Island().CellAt(island.Coord{Row: 2, Col: 2})
	if c.Fodder() != 800-30 {
		t.Errorf("fodder after feeding = %v, want 770", c.Fodder())
	}
	// Each grazer gains beta * F on top of the annual loss.
	want := (20.0 + 0.9*10.0) * (1 - 0.05)
	weights, _ := s.AnimalWeights("Herbivore")
	for i, w := range weights {
		if math.Abs(w-want) > 1e-12 {
			t.Errorf("weight[%d] = %v, want %v", i, w, want)
		}
	}
}

func TestMigrationOnlyIntoLandNeighbors(t *testing.T) {
	animal.ResetParams()
	defer animal.ResetParams()
	island.ResetTerrainParams()
	freezePopulation(t)

	// Force every animal to attempt the move each year.
	for _, sp := range []animal.Species{animal.Herbivore, animal.Carnivore} {
		if err := animal.SetParams(sp, map[string]float64{"mu": 1000.0}); err != nil {
			t.Fatal(err)
		}
	}

	const n = 100
	s, err := New(Options{
		MapString: twoCellMap,
		Seed:      123,
		InitialPopulation: []PopulationEntry{
			{Loc: island.Coord{Row: 2, Col: 2}, Animals: herd(n, 5, 20)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.AdvanceOneYear()

	src, _ := s.Island().CellAt(island.Coord{Row: 2, Col: 2})
	dst, _ := s.Island().CellAt(island.Coord{Row: 2, Col: 3})
	if dst.HerbCount() == 0 {
		t.Error("no animal migrated despite forced migration")
	}
	if src.HerbCount()+dst.HerbCount() != n {
		t.Errorf("population leaked: %d + %d != %d", src.HerbCount(), dst.HerbCount(), n)
	}
	if got := s.NumAnimals(); got != n {
		t.Errorf("NumAnimals() = %d after migration, want %d", got, n)
	}

	// The single land neighbor is the only legal destination; everything else
	// stays empty.
	for r := 1; r <= s.Island().Rows(); r++ {
		for col := 1; col <= s.Island().Cols(); col++ {
			loc := island.Coord{Row: r, Col: col}
			if loc == src.Loc || loc == dst.Loc {
				continue
			}
			c, _ := s.Island().CellAt(loc)
			if c.HerbCount() != 0 {
				t.Errorf("cell %v holds %d animals, want 0", loc, c.HerbCount())
			}
		}
	}
}

func TestMoveFlagBlocksSecondMove(t *testing.T) {
	animal.ResetParams()
	defer animal.ResetParams()
	island.ResetTerrainParams()
	freezePopulation(t)
	if err := animal.SetParams(animal.Herbivore, map[string]float64{"mu": 1000.0}); err != nil {
		t.Fatal(err)
	}

	s, err := New(Options{
		MapString: twoCellMap,
		Seed:      1,
		InitialPopulation: []PopulationEntry{
			{Loc: island.Coord{Row: 2, Col: 2}, Animals: herd(1, 5, 20)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	src, _ := s.Island().CellAt(island.Coord{Row: 2, Col: 2})
	e := src.Herbivores()[0]
	s.island.Arena().Get(e).HasMoved = true

	for i := 0; i < 1000; i++ {
		s.migrateCell(src)
	}
	if src.HerbCount() != 1 {
		t.Error("animal with the moved flag set relocated anyway")
	}
}

func TestBlockedMigrationLeavesFlagClear(t *testing.T) {
	animal.ResetParams()
	defer animal.ResetParams()
	island.ResetTerrainParams()
	freezePopulation(t)
	if err := animal.SetParams(animal.Herbivore, map[string]float64{"mu": 1000.0}); err != nil {
		t.Fatal(err)
	}

	// The single land cell has no land neighbors, so the draw succeeds but no
	// move happens and the flag stays clear.
	s, err := New(Options{
		MapString: oneCellMap,
		Seed:      1,
		InitialPopulation: []PopulationEntry{
			{Loc: island.Coord{Row: 2, Col: 2}, Animals: herd(1, 5, 20)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	c, _ := s.Island().CellAt(island.Coord{Row: 2, Col: 2})
	e := c.Herbivores()[0]
	s.migrateCell(c)

	if c.HerbCount() != 1 {
		t.Error("animal left a cell with no land neighbors")
	}
	if s.island.Arena().Get(e).HasMoved {
		t.Error("blocked migration set the moved flag")
	}
}

func TestNewbornsSitOutBirthYear(t *testing.T) {
	animal.ResetParams()
	defer animal.ResetParams()
	island.ResetTerrainParams()

	// Guarantee births, forbid everything else.
	if err := animal.SetParams(animal.Herbivore, map[string]float64{
		"gamma": 1000.0,
		"omega": 0.0,
		"mu":    0.0,
	}); err != nil {
		t.Fatal(err)
	}

	s, err := New(Options{
		MapString: oneCellMap,
		Seed:      1,
		InitialPopulation: []PopulationEntry{
			{Loc: island.Coord{Row: 2, Col: 2}, Animals: herd(10, 5, 100)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	c, _ := s.Island().CellAt(island.Coord{Row: 2, Col: 2})
	s.procreateCell(c)

	if c.HerbCount() <= 10 {
		t.Fatal("no births despite clamped birth probability")
	}
	newborns := 0
	for _, e := range c.Herbivores() {
		a := s.island.Arena().Get(e)
		if a.Age == 0 {
			newborns++
			if !a.HasMoved {
				t.Error("newborn is eligible to migrate in its birth year")
			}
		}
	}
	if newborns == 0 {
		t.Fatal("no newborns found in the cell")
	}
	if s.NumAnimals() != c.HerbCount() {
		t.Errorf("counters = %d, cell holds %d", s.NumAnimals(), c.HerbCount())
	}
}

func TestPredationRemovesPreyEverywhere(t *testing.T) {
	animal.ResetParams()
	defer animal.ResetParams()
	island.ResetTerrainParams()
	freezePopulation(t)

	// Weak, certain-kill predators in a desert: no fodder softens the prey and
	// DeltaPhiMax near zero makes every positive fitness edge lethal.
	if err := animal.SetParams(animal.Carnivore, map[string]float64{"DeltaPhiMax": 0.001}); err != nil {
		t.Fatal(err)
	}

	s, err := New(Options{
		MapString: desertMap,
		Seed:      5,
		InitialPopulation: []PopulationEntry{
			{Loc: island.Coord{Row: 2, Col: 2}, Animals: herd(5, 100, 3)},
			{Loc: island.Coord{Row: 2, Col: 2}, Animals: pack(2, 5, 40)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	collector := telemetry.NewCollector()
	s.collector = collector
	s.AdvanceOneYear()

	counts := s.NumAnimalsPerSpecies()
	if counts["Herbivore"] != 0 {
		t.Errorf("herbivores left = %d, want 0 after certain-kill predation", counts["Herbivore"])
	}
	if counts["Carnivore"] != 2 {
		t.Errorf("carnivores = %d, want 2 with death disabled", counts["Carnivore"])
	}

	stats := collector.Flush(s.Year(), s.Snapshot())
	if stats.Kills != 5 {
		t.Errorf("recorded kills = %d, want 5", stats.Kills)
	}
	nh, nc := recount(s.Island())
	if nh != 0 || nc != 2 {
		t.Errorf("cell recount = %d/%d, want 0/2", nh, nc)
	}
}

func TestCountersConsistentOverManyYears(t *testing.T) {
	animal.ResetParams()
	island.ResetTerrainParams()

	s, err := New(Options{
		MapString: twoCellMap,
		Seed:      123,
		InitialPopulation: []PopulationEntry{
			{Loc: island.Coord{Row: 2, Col: 2}, Animals: herd(150, 5, 20)},
			{Loc: island.Coord{Row: 2, Col: 3}, Animals: pack(20, 3, 14)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	for year := 0; year < 20; year++ {
		s.AdvanceOneYear()
		nh, nc := recount(s.Island())
		if nh != s.Island().NumHerbivores() || nc != s.Island().NumCarnivores() {
			t.Fatalf("year %d: counters %d/%d, cells hold %d/%d",
				s.Year(), s.Island().NumHerbivores(), s.Island().NumCarnivores(), nh, nc)
		}
	}
	if s.Year() != 20 {
		t.Errorf("Year() = %d, want 20", s.Year())
	}
}
