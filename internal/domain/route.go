package domain

import (
	"slices"
	"strings"
)

// StopSet is the set of optional stops included in one evaluation.
// Mandatory stops are implied. IDs are kept sorted so two sets with the
// same members compare equal regardless of construction order.
type StopSet struct {
	IDs []string
}

func NewStopSet(ids ...string) StopSet {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return StopSet{IDs: slices.Compact(sorted)}
}

func (s StopSet) Len() int { return len(s.IDs) }

func (s StopSet) Equal(o StopSet) bool { return slices.Equal(s.IDs, o.IDs) }

func (s StopSet) Contains(id string) bool {
	_, ok := slices.BinarySearch(s.IDs, id)
	return ok
}

func (s StopSet) String() string { return "{" + strings.Join(s.IDs, ",") + "}" }

// Represents the optimal visiting order for one StopSet.
// Order lists stop IDs between origin and destination, which are implicit.
type RouteResult struct {
	StopSet         StopSet
	Order           []string
	DurationSeconds int
	DistanceMeters  int
}

// A RouteResult annotated with its rank and marginal cost over the baseline
// (mandatory-only) route.
type RankedResult struct {
	RouteResult
	Rank                 int
	Name                 string
	ExtraDurationSeconds int
	ExtraDistanceMeters  int
}
