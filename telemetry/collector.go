package telemetry

import "github.com/rossumoya/biosim/animal"

// Collector accumulates events within one simulated year and produces a
// YearStats row when flushed.
type Collector struct {
	herbBirths int
	carnBirths int
	herbDeaths int
	carnDeaths int
	kills      int
	migrations int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(sp animal.Species) {
	if c == nil {
		return
	}
	if sp == animal.Herbivore {
		c.herbBirths++
	} else {
		c.carnBirths++
	}
}

// RecordBirths records n birth events for one species.
func (c *Collector) RecordBirths(sp animal.Species, n int) {
	for i := 0; i < n; i++ {
		c.RecordBirth(sp)
	}
}

// RecordDeath records a death-season death.
func (c *Collector) RecordDeath(sp animal.Species) {
	if c == nil {
		return
	}
	if sp == animal.Herbivore {
		c.herbDeaths++
	} else {
		c.carnDeaths++
	}
}

// RecordKills records n herbivores killed by predation.
func (c *Collector) RecordKills(n int) {
	if c == nil {
		return
	}
	c.kills += n
	c.herbDeaths += n
}

// RecordMigration records one completed relocation.
func (c *Collector) RecordMigration() {
	if c == nil {
		return
	}
	c.migrations++
}

// Flush combines the accumulated events with a year-end snapshot into a
// YearStats row and resets the counters for the next year.
func (c *Collector) Flush(year int, snap Snapshot) YearStats {
	s := YearStats{
		Year:       year,
		Herbivores: snap.Herbivores,
		Carnivores: snap.Carnivores,
		Total:      snap.Herbivores + snap.Carnivores,
	}
	if c != nil {
		s.HerbBirths = c.herbBirths
		s.CarnBirths = c.carnBirths
		s.HerbDeaths = c.herbDeaths
		s.CarnDeaths = c.carnDeaths
		s.Kills = c.kills
		s.Migrations = c.migrations
		*c = Collector{}
	}

	s.HerbWeightMean, s.HerbWeightStd = MeanStd(snap.HerbWeights)
	s.CarnWeightMean, s.CarnWeightStd = MeanStd(snap.CarnWeights)
	s.HerbAgeMean = Mean(snap.HerbAges)
	s.CarnAgeMean = Mean(snap.CarnAges)
	s.HerbFitnessMean = Mean(snap.HerbFitness)
	s.CarnFitnessMean = Mean(snap.CarnFitness)

	return s
}
