package services

import "github.com/zacharydestefano89/travel-route-planner/internal/domain"

// RouteMetrics is the duration/distance pair of one route.
type RouteMetrics struct {
	DurationSeconds int
	DistanceMeters  int
}

// Summary aggregates a ranking for display next to the ranked list.
type Summary struct {
	Combinations            int
	Evaluated               int
	Fastest                 RouteMetrics
	Slowest                 RouteMetrics
	Baseline                RouteMetrics
	AverageDurationSeconds  float64
	AverageDistanceMeters   float64
	ShortestDistanceMeters  int
	LongestDistanceMeters   int
	MaxExtraDurationSeconds int
	MaxExtraDistanceMeters  int
}

// Summarize computes aggregate statistics over ranked results, which must be
// sorted fastest first. combinations is the number of planned subsets.
func Summarize(ranked []domain.RankedResult, baseline domain.RankedResult, combinations int) Summary {
	s := Summary{
		Combinations: combinations,
		Evaluated:    len(ranked),
		Baseline:     metricsOf(baseline),
	}
	if len(ranked) == 0 {
		return s
	}

	s.Fastest = metricsOf(ranked[0])
	s.Slowest = metricsOf(ranked[len(ranked)-1])
	s.ShortestDistanceMeters = ranked[0].DistanceMeters
	s.LongestDistanceMeters = ranked[0].DistanceMeters
	s.MaxExtraDurationSeconds = ranked[0].ExtraDurationSeconds
	s.MaxExtraDistanceMeters = ranked[0].ExtraDistanceMeters

	var sumDur, sumDist int
	for _, r := range ranked {
		sumDur += r.DurationSeconds
		sumDist += r.DistanceMeters
		s.ShortestDistanceMeters = min(s.ShortestDistanceMeters, r.DistanceMeters)
		s.LongestDistanceMeters = max(s.LongestDistanceMeters, r.DistanceMeters)
		s.MaxExtraDurationSeconds = max(s.MaxExtraDurationSeconds, r.ExtraDurationSeconds)
		s.MaxExtraDistanceMeters = max(s.MaxExtraDistanceMeters, r.ExtraDistanceMeters)
	}
	s.AverageDurationSeconds = float64(sumDur) / float64(len(ranked))
	s.AverageDistanceMeters = float64(sumDist) / float64(len(ranked))

	return s
}

func metricsOf(r domain.RankedResult) RouteMetrics {
	return RouteMetrics{DurationSeconds: r.DurationSeconds, DistanceMeters: r.DistanceMeters}
}
