package services

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

// legTable is a dense view of the cost matrix over universe indices.
// Absent pairs are remembered as such and reported on first use.
type legTable struct {
	ids     []string
	n       int
	cost    []domain.Cost
	present []bool
}

func newLegTable(u *Universe, m *domain.CostMatrix) *legTable {
	n := len(u.Stops)
	t := &legTable{
		ids:     u.IDs(),
		n:       n,
		cost:    make([]domain.Cost, n*n),
		present: make([]bool, n*n),
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			if a == b {
				continue
			}
			if c, ok := m.Get(t.ids[a], t.ids[b]); ok {
				t.cost[a*n+b] = c
				t.present[a*n+b] = true
			}
		}
	}
	return t
}

func (t *legTable) leg(a, b int) (domain.Cost, error) {
	if a == b || !t.present[a*t.n+b] {
		return domain.Cost{}, &domain.MissingEdgeCostError{From: t.ids[a], To: t.ids[b]}
	}
	return t.cost[a*t.n+b], nil
}

// memoEntry is g(mask, last): the best origin -> ... -> last path visiting
// exactly mask, with last's predecessor for reconstruction.
type memoEntry struct {
	duration int
	distance int
	pred     int
	ok       bool
}

// memoRow holds one entry per universe index for a single mask.
type memoRow []memoEntry

// memoTable caches rows keyed by mask. Rows in base are shared and never
// written; rows computed through this table go to local.
//
// The origin is fixed for a run, so a row depends only on its mask and can be
// reused by every required set that contains it.
type memoTable struct {
	base     map[uint32]memoRow
	local    map[uint32]memoRow
	computed int
}

func newMemoTable(base map[uint32]memoRow) *memoTable {
	return &memoTable{base: base, local: make(map[uint32]memoRow)}
}

func (t *memoTable) row(mask uint32) (memoRow, bool) {
	if r, ok := t.local[mask]; ok {
		return r, true
	}
	r, ok := t.base[mask]
	return r, ok
}

// freeze returns every row known to the table as a map that must no longer
// be written. Workers layer their own tables on top of it.
func (t *memoTable) freeze() map[uint32]memoRow {
	all := make(map[uint32]memoRow, len(t.base)+len(t.local))
	for k, v := range t.base {
		all[k] = v
	}
	for k, v := range t.local {
		all[k] = v
	}
	return all
}

// better reports whether (dur, dist, id) beats the current best.
func better(dur, dist int, id string, bestDur, bestDist int, bestID string, haveBest bool) bool {
	if !haveBest {
		return true
	}
	if dur != bestDur {
		return dur < bestDur
	}
	if dist != bestDist {
		return dist < bestDist
	}
	return id < bestID
}

// submasksByPopcount lists every non-empty submask of full, smallest first.
func submasksByPopcount(full uint32) []uint32 {
	subs := make([]uint32, 0, 1<<bits.OnesCount32(full))
	for sub := full; sub != 0; sub = (sub - 1) & full {
		subs = append(subs, sub)
	}
	slices.SortFunc(subs, func(a, b uint32) int {
		if ca, cb := bits.OnesCount32(a), bits.OnesCount32(b); ca != cb {
			return ca - cb
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})
	return subs
}

// heldKarp computes the minimum-duration order visiting every stop in
// required exactly once between the fixed origin and destination.
//
// Rows are filled iteratively by increasing mask size so every dependency is
// resolved before use; rows already present in the table are reused as is.
func heldKarp(table *memoTable, legs *legTable, required uint32) (order []int, c domain.Cost, err error) {
	if required == 0 {
		direct, err := legs.leg(originIndex, destinationIndex)
		if err != nil {
			return nil, domain.Cost{}, err
		}
		return []int{}, direct, nil
	}

	for _, sub := range submasksByPopcount(required) {
		if _, ok := table.row(sub); ok {
			continue
		}
		row, err := fillRow(table, legs, sub)
		if err != nil {
			return nil, domain.Cost{}, err
		}
		table.local[sub] = row
	}

	full, _ := table.row(required)

	// Close the path into the destination.
	var (
		bestDur, bestDist int
		last              = -1
	)
	for rest := required; rest != 0; rest &= rest - 1 {
		k := bits.TrailingZeros32(rest)
		toDest, err := legs.leg(k, destinationIndex)
		if err != nil {
			return nil, domain.Cost{}, err
		}
		dur := full[k].duration + toDest.DurationSeconds
		dist := full[k].distance + toDest.DistanceMeters
		bestID := ""
		if last >= 0 {
			bestID = legs.ids[last]
		}
		if better(dur, dist, legs.ids[k], bestDur, bestDist, bestID, last >= 0) {
			bestDur, bestDist, last = dur, dist, k
		}
	}

	order = make([]int, bits.OnesCount32(required))
	mask := required
	k := last
	for i := len(order) - 1; i >= 0; i-- {
		order[i] = k
		row, _ := table.row(mask)
		prev := row[k].pred
		mask &^= 1 << k
		k = prev
	}

	return order, domain.Cost{DurationSeconds: bestDur, DistanceMeters: bestDist}, nil
}

// fillRow computes g(sub, k) for every k in sub. All rows of sub's proper
// submasks of size |sub|-1 must already be in the table.
func fillRow(table *memoTable, legs *legTable, sub uint32) (memoRow, error) {
	row := make(memoRow, legs.n)
	table.computed += bits.OnesCount32(sub)

	for rest := sub; rest != 0; rest &= rest - 1 {
		k := bits.TrailingZeros32(rest)

		if sub == 1<<k {
			first, err := legs.leg(originIndex, k)
			if err != nil {
				return nil, err
			}
			row[k] = memoEntry{duration: first.DurationSeconds, distance: first.DistanceMeters, pred: originIndex, ok: true}
			continue
		}

		prevMask := sub &^ (1 << k)
		prevRow, ok := table.row(prevMask)
		if !ok {
			return nil, fmt.Errorf("held-karp: row for mask %b not computed before %b", prevMask, sub)
		}

		best := memoEntry{pred: -1}
		for prevRest := prevMask; prevRest != 0; prevRest &= prevRest - 1 {
			m := bits.TrailingZeros32(prevRest)
			step, err := legs.leg(m, k)
			if err != nil {
				return nil, err
			}
			dur := prevRow[m].duration + step.DurationSeconds
			dist := prevRow[m].distance + step.DistanceMeters
			bestID := ""
			if best.ok {
				bestID = legs.ids[best.pred]
			}
			if better(dur, dist, legs.ids[m], best.duration, best.distance, bestID, best.ok) {
				best = memoEntry{duration: dur, distance: dist, pred: m, ok: true}
			}
		}
		row[k] = best
	}

	return row, nil
}
