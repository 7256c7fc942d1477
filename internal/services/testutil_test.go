package services

import (
	"math/rand"
	"testing"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

func loc(id string, lon, lat float64) domain.Location {
	return domain.Location{ID: id, Name: id, Coordinates: domain.Coordinates{Lon: lon, Lat: lat}}
}

func ptr(l domain.Location) *domain.Location { return &l }

type leg struct {
	from, to string
	seconds  int
	meters   int
}

func matrixOf(t *testing.T, legs []leg) *domain.CostMatrix {
	t.Helper()
	m := domain.NewCostMatrix()
	for _, l := range legs {
		if err := m.Set(l.from, l.to, domain.Cost{DurationSeconds: l.seconds, DistanceMeters: l.meters}); err != nil {
			t.Fatalf("set %s -> %s: %v", l.from, l.to, err)
		}
	}
	return m
}

// errandLegs is the O/D/M/P/Q trip: one mandatory stop, two optional ones.
func errandLegs() []leg {
	return []leg{
		{"O", "M", 10, 100}, {"M", "D", 10, 100},
		{"O", "P", 5, 60}, {"P", "D", 6, 70},
		{"O", "Q", 8, 90}, {"Q", "D", 7, 80},
		{"O", "D", 12, 150},
		{"M", "P", 3, 30}, {"P", "M", 4, 40},
		{"M", "Q", 6, 65}, {"Q", "M", 5, 55},
		{"P", "Q", 2, 20}, {"Q", "P", 3, 35},
	}
}

func errandTrip() TripInput {
	return TripInput{
		Origin:      ptr(loc("O", 0, 0)),
		Destination: ptr(loc("D", 1, 1)),
		Mandatory:   []domain.Location{loc("M", 2, 2)},
		Optional:    []domain.Location{loc("P", 3, 3), loc("Q", 4, 4)},
	}
}

func withoutLeg(legs []leg, from, to string) []leg {
	out := make([]leg, 0, len(legs))
	for _, l := range legs {
		if l.from == from && l.to == to {
			continue
		}
		out = append(out, l)
	}
	return out
}

// gridTrip places stops on an integer grid and uses Manhattan distance, so the
// matrix is complete, symmetric and satisfies the triangle inequality exactly.
func gridTrip(t *testing.T, rng *rand.Rand, mandatory, optional int) (TripInput, *domain.CostMatrix) {
	t.Helper()

	type point struct{ x, y int }
	used := map[point]bool{}
	var locs []domain.Location
	pts := map[string]point{}

	next := func(id string) domain.Location {
		for {
			p := point{rng.Intn(50), rng.Intn(50)}
			if used[p] {
				continue
			}
			used[p] = true
			pts[id] = p
			l := loc(id, float64(p.x)/10, float64(p.y)/10)
			locs = append(locs, l)
			return l
		}
	}

	in := TripInput{}
	in.Origin = ptr(next("origin"))
	in.Destination = ptr(next("dest"))
	for i := 0; i < mandatory; i++ {
		in.Mandatory = append(in.Mandatory, next(string(rune('a'+i))))
	}
	for i := 0; i < optional; i++ {
		in.Optional = append(in.Optional, next(string(rune('p'+i))))
	}

	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}

	m := domain.NewCostMatrix()
	for _, a := range locs {
		for _, b := range locs {
			if a.ID == b.ID {
				continue
			}
			pa, pb := pts[a.ID], pts[b.ID]
			d := abs(pa.x-pb.x) + abs(pa.y-pb.y)
			if err := m.Set(a.ID, b.ID, domain.Cost{DurationSeconds: d * 3, DistanceMeters: d * 100}); err != nil {
				t.Fatalf("set: %v", err)
			}
		}
	}
	return in, m
}
