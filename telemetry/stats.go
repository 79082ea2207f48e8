// Package telemetry collects per-year simulation events and turns read-only
// island snapshots into summary statistics for CSV output and structured
// logging. It observes the engine; nothing here feeds back into it.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// Snapshot is the read-only state the engine exposes at the end of a year.
type Snapshot struct {
	Herbivores int
	Carnivores int

	HerbWeights []float64
	CarnWeights []float64
	HerbAges    []float64
	CarnAges    []float64
	HerbFitness []float64
	CarnFitness []float64
}

// YearStats is one row of the population time series.
type YearStats struct {
	Year int `csv:"year"`

	Herbivores int `csv:"herbivores"`
	Carnivores int `csv:"carnivores"`
	Total      int `csv:"total"`

	// Events during the year
	HerbBirths int `csv:"herb_births"`
	CarnBirths int `csv:"carn_births"`
	HerbDeaths int `csv:"herb_deaths"`
	CarnDeaths int `csv:"carn_deaths"`
	Kills      int `csv:"kills"`
	Migrations int `csv:"migrations"`

	// Distributions sampled at year end
	HerbWeightMean  float64 `csv:"herb_weight_mean"`
	HerbWeightStd   float64 `csv:"herb_weight_std"`
	CarnWeightMean  float64 `csv:"carn_weight_mean"`
	CarnWeightStd   float64 `csv:"carn_weight_std"`
	HerbAgeMean     float64 `csv:"herb_age_mean"`
	CarnAgeMean     float64 `csv:"carn_age_mean"`
	HerbFitnessMean float64 `csv:"herb_fitness_mean"`
	CarnFitnessMean float64 `csv:"carn_fitness_mean"`
}

// Mean returns the arithmetic mean, or 0 for an empty sample.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// MeanStd returns mean and sample standard deviation. The deviation is 0 for
// samples smaller than two.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	return mean, std
}

// LogValue implements slog.LogValuer for structured logging.
func (s YearStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("year", s.Year),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("total", s.Total),
		slog.Int("herb_births", s.HerbBirths),
		slog.Int("carn_births", s.CarnBirths),
		slog.Int("herb_deaths", s.HerbDeaths),
		slog.Int("carn_deaths", s.CarnDeaths),
		slog.Int("kills", s.Kills),
		slog.Int("migrations", s.Migrations),
		slog.Float64("herb_weight_mean", s.HerbWeightMean),
		slog.Float64("herb_weight_std", s.HerbWeightStd),
		slog.Float64("carn_weight_mean", s.CarnWeightMean),
		slog.Float64("carn_weight_std", s.CarnWeightStd),
		slog.Float64("herb_age_mean", s.HerbAgeMean),
		slog.Float64("carn_age_mean", s.CarnAgeMean),
		slog.Float64("herb_fitness_mean", s.HerbFitnessMean),
		slog.Float64("carn_fitness_mean", s.CarnFitnessMean),
	)
}
