package evolve

import "math"

// GenerationStats is an immutable record of the fitness distribution over
// one population snapshot. One record is produced per generation and
// appended to the run's ordered, append-only log.
type GenerationStats struct {
	Generation int     `json:"generation"`
	Evaluated  int     `json:"evaluated"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

func newGenerationStats(generation, evaluated int, values []float64) GenerationStats {
	return GenerationStats{
		Generation: generation,
		Evaluated:  evaluated,
		Mean:       calculateMean(values),
		StdDev:     calculateStdDev(values),
		Min:        calculateMin(values),
		Max:        calculateMax(values),
	}
}

// Helper statistical functions.
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateStdDev returns the population standard deviation.
func calculateStdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0.0
	}
	mean := calculateMean(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func calculateMin(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func calculateMax(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
