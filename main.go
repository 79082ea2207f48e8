package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/integrii/flaggy"
	"github.com/logrusorgru/aurora"

	"github.com/rossumoya/biosim/config"
	"github.com/rossumoya/biosim/island"
	"github.com/rossumoya/biosim/sim"
	"github.com/rossumoya/biosim/telemetry"
)

func main() {
	var (
		configPath string
		years      int
		seed       int
		outputDir  string
		logStats   bool
	)

	flaggy.SetName("biosim")
	flaggy.SetDescription("Annual-cycle predator-prey simulation on an island grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&configPath, "c", "config", "Path to config.yaml (empty = embedded defaults)")
	flaggy.Int(&years, "y", "years", "Number of years to simulate (0 = use config)")
	flaggy.Int(&seed, "s", "seed", "RNG seed (0 = use config)")
	flaggy.String(&outputDir, "o", "output-dir", "Output directory for CSV logs and config snapshot")
	flaggy.Bool(&logStats, "l", "log-stats", "Output per-year stats via slog")
	flaggy.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if years == 0 {
		years = cfg.Years
	}
	rngSeed := int64(seed)
	if rngSeed == 0 {
		rngSeed = cfg.Seed
	}
	if outputDir == "" {
		outputDir = cfg.Telemetry.OutputDir
	}
	logStats = logStats || cfg.Telemetry.LogStats

	collector := telemetry.NewCollector()
	s, err := buildSimulation(cfg, rngSeed, collector)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"years", years,
		"herbivores", s.NumAnimalsPerSpecies()["Herbivore"],
		"carnivores", s.NumAnimalsPerSpecies()["Carnivore"],
	)

	for year := 0; year < years; year++ {
		s.AdvanceOneYear()
		stats := collector.Flush(s.Year(), s.Snapshot())
		if logStats {
			slog.Info("year", "stats", stats)
		}
		if err := out.WriteYearStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
			os.Exit(1)
		}
		if s.NumAnimals() == 0 {
			slog.Info("population extinct", "year", s.Year())
			break
		}
	}

	printSummary(s)
}

// buildSimulation wires the configured parameters, map and initial
// population into a simulation.
func buildSimulation(cfg *config.Config, seed int64, collector *telemetry.Collector) (*sim.Simulation, error) {
	s, err := sim.New(sim.Options{
		MapString: cfg.Map,
		Seed:      seed,
		Collector: collector,
	})
	if err != nil {
		return nil, err
	}

	if len(cfg.Species.Herbivore) > 0 {
		if err := s.SetAnimalParams("Herbivore", cfg.Species.Herbivore); err != nil {
			return nil, err
		}
	}
	if len(cfg.Species.Carnivore) > 0 {
		if err := s.SetAnimalParams("Carnivore", cfg.Species.Carnivore); err != nil {
			return nil, err
		}
	}
	for letter, params := range cfg.Landscape {
		if err := s.SetLandscapeParams(letter, params); err != nil {
			return nil, err
		}
	}

	entries := make([]sim.PopulationEntry, 0, len(cfg.Population))
	for _, pop := range cfg.Population {
		if len(pop.Loc) != 2 {
			return nil, fmt.Errorf("population loc must be [row, col], got %v", pop.Loc)
		}
		entry := sim.PopulationEntry{Loc: island.Coord{Row: pop.Loc[0], Col: pop.Loc[1]}}
		for _, a := range pop.Animals {
			count := a.Count
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				entry.Animals = append(entry.Animals, sim.AnimalSpec{
					Species: a.Species,
					Age:     a.Age,
					Weight:  a.Weight,
				})
			}
		}
		entries = append(entries, entry)
	}
	if err := s.AddPopulation(entries); err != nil {
		return nil, err
	}
	return s, nil
}

// printSummary writes a colored end-of-run summary for humans; the JSON log
// and CSV output carry the machine-readable record.
func printSummary(s *sim.Simulation) {
	counts := s.NumAnimalsPerSpecies()
	fmt.Fprintf(os.Stderr, "\n%s after %s years\n",
		aurora.Bold("Simulation complete"),
		aurora.Cyan(fmt.Sprintf("%d", s.Year())),
	)
	fmt.Fprintf(os.Stderr, "  %s %s\n",
		aurora.Green("Herbivores:"), speciesCount(counts["Herbivore"]))
	fmt.Fprintf(os.Stderr, "  %s %s\n",
		aurora.Red("Carnivores:"), speciesCount(counts["Carnivore"]))
}

func speciesCount(n int) string {
	if n == 0 {
		return aurora.Gray(12, "extinct").String()
	}
	return fmt.Sprintf("%d", n)
}
