package scoring

// Weights for the project success probability, in the order budget,
// schedule, quality, team. Loaded defaults match the published formula
// (30/30/20/20); the insights registry may override them from its rule file.
type SuccessWeights struct {
	Budget   float64 `yaml:"budget"`
	Schedule float64 `yaml:"schedule"`
	Quality  float64 `yaml:"quality"`
	Team     float64 `yaml:"team"`
}

// DefaultSuccessWeights returns the 30/30/20/20 weighting.
func DefaultSuccessWeights() SuccessWeights {
	return SuccessWeights{Budget: 0.3, Schedule: 0.3, Quality: 0.2, Team: 0.2}
}

// SuccessProbability combines the four 0-100 sub-scores into a weighted
// average, clamped to [0, 100].
func SuccessProbability(budget, schedule, quality, team float64, w SuccessWeights) float64 {
	p := budget*w.Budget + schedule*w.Schedule + quality*w.Quality + team*w.Team
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return Round2(p)
}
