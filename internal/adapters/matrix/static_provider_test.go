package matrix

import (
	"context"
	"testing"
)

func TestStaticMatrixProviderFiltersToLocations(t *testing.T) {
	p := NewStaticMatrixProvider([]Pair{
		{From: "A", To: "B", Meters: 100, Seconds: 10},
		{From: "B", To: "A", Meters: 110, Seconds: 11},
		{From: "A", To: "Z", Meters: 900, Seconds: 90},
	})

	m, err := p.GetMatrix(context.Background(), locations("A", "B"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 legs, got %d", m.Len())
	}
	c, ok := m.Get("B", "A")
	if !ok || c.DurationSeconds != 11 || c.DistanceMeters != 110 {
		t.Fatalf("B->A = %+v, %v", c, ok)
	}
}

func TestStaticMatrixProviderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewStaticMatrixProvider(nil).GetMatrix(ctx, locations("A", "B")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestMatrixFromPairsRejectsSelfPair(t *testing.T) {
	if _, err := MatrixFromPairs([]Pair{{From: "A", To: "A"}}); err == nil {
		t.Fatalf("expected error")
	}
}
