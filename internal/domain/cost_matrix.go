package domain

import "fmt"

// Travel duration and distance for one directed leg.
type Cost struct {
	DurationSeconds int
	DistanceMeters  int
}

// Leg is one directed pair with its cost.
type Leg struct {
	From string
	To   string
	Cost
}

type legKey struct {
	from string
	to   string
}

// CostMatrix is a directed table of leg costs keyed by location ID.
//
// duration(A,B) need not equal duration(B,A). Self-pairs are never stored.
// A CostMatrix is not safe for concurrent writes; the optimizer only reads it.
type CostMatrix struct {
	legs map[legKey]Cost
}

func NewCostMatrix() *CostMatrix {
	return &CostMatrix{legs: make(map[legKey]Cost)}
}

// Set records the cost of travelling from -> to.
func (m *CostMatrix) Set(from, to string, c Cost) error {
	if from == "" || to == "" {
		return fmt.Errorf("cost matrix: leg %q -> %q: location ids must be non-empty", from, to)
	}
	if from == to {
		return fmt.Errorf("cost matrix: self-pair %q is undefined", from)
	}
	if c.DurationSeconds < 0 || c.DistanceMeters < 0 {
		return fmt.Errorf(
			"cost matrix: leg %q -> %q: negative cost (duration=%d distance=%d)",
			from, to, c.DurationSeconds, c.DistanceMeters,
		)
	}
	if m.legs == nil {
		m.legs = make(map[legKey]Cost)
	}
	m.legs[legKey{from: from, to: to}] = c
	return nil
}

// Get returns the cost of from -> to and whether the pair is present.
func (m *CostMatrix) Get(from, to string) (Cost, bool) {
	if m == nil || from == to {
		return Cost{}, false
	}
	c, ok := m.legs[legKey{from: from, to: to}]
	return c, ok
}

// Len returns the number of stored directed legs.
func (m *CostMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.legs)
}

// Missing lists every ordered pair among ids that has no cost, in id order.
func (m *CostMatrix) Missing(ids []string) [][2]string {
	var out [][2]string
	for _, from := range ids {
		for _, to := range ids {
			if from == to {
				continue
			}
			if _, ok := m.Get(from, to); !ok {
				out = append(out, [2]string{from, to})
			}
		}
	}
	return out
}
