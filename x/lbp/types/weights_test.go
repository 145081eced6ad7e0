package types

import (
	"testing"
)

func declinePool() *Pool {
	return &Pool{
		StartWeightBp: 9000,
		EndWeightBp:   1000,
		SaleStartTime: 0,
		SaleEndTime:   1000,
	}
}

func TestWeightAtBoundaries(t *testing.T) {
	pool := declinePool()

	w := pool.WeightAt(-50)
	if w.ShareWeightBp != 9000 || w.AssetWeightBp != 1000 {
		t.Errorf("before start: expected 9000/1000, got %d/%d", w.ShareWeightBp, w.AssetWeightBp)
	}

	w = pool.WeightAt(0)
	if w.ShareWeightBp != 9000 {
		t.Errorf("at start: expected 9000, got %d", w.ShareWeightBp)
	}

	w = pool.WeightAt(1000)
	if w.ShareWeightBp != 1000 || w.AssetWeightBp != 9000 {
		t.Errorf("at end: expected 1000/9000, got %d/%d", w.ShareWeightBp, w.AssetWeightBp)
	}

	w = pool.WeightAt(5000)
	if w.ShareWeightBp != 1000 {
		t.Errorf("after end: expected 1000, got %d", w.ShareWeightBp)
	}
}

func TestWeightAtMidpoint(t *testing.T) {
	pool := declinePool()

	w := pool.WeightAt(500)
	if w.ShareWeightBp != 5000 || w.AssetWeightBp != 5000 {
		t.Errorf("midpoint: expected 5000/5000, got %d/%d", w.ShareWeightBp, w.AssetWeightBp)
	}
}

func TestWeightSumInvariant(t *testing.T) {
	pool := declinePool()

	for now := int64(-10); now <= 1010; now += 7 {
		w := pool.WeightAt(now)
		if w.ShareWeightBp+w.AssetWeightBp != WeightBase {
			t.Fatalf("t=%d: weights sum to %d", now, w.ShareWeightBp+w.AssetWeightBp)
		}
	}
}

func TestWeightMonotonicity(t *testing.T) {
	// Declining schedule: share weight never increases over time
	pool := declinePool()
	prev := pool.WeightAt(0).ShareWeightBp
	for now := int64(1); now <= 1000; now++ {
		cur := pool.WeightAt(now).ShareWeightBp
		if cur > prev {
			t.Fatalf("t=%d: share weight rose from %d to %d", now, prev, cur)
		}
		prev = cur
	}

	// Rising schedule: the inverse holds
	pool = &Pool{StartWeightBp: 1000, EndWeightBp: 9000, SaleStartTime: 0, SaleEndTime: 1000}
	prev = pool.WeightAt(0).ShareWeightBp
	for now := int64(1); now <= 1000; now++ {
		cur := pool.WeightAt(now).ShareWeightBp
		if cur < prev {
			t.Fatalf("t=%d: share weight fell from %d to %d", now, prev, cur)
		}
		prev = cur
	}
}

func TestWeightRoundsTowardStart(t *testing.T) {
	// Truncation keeps the declining share weight at or above the exact
	// line: one second in, the exact value is 9000 - 8*1/1000 of the range.
	pool := declinePool()
	w := pool.WeightAt(1)
	if w.ShareWeightBp != 8992 {
		t.Errorf("t=1: expected 8992, got %d", w.ShareWeightBp)
	}

	// 9000 - 8000*999/1000 = 1008, not rounded down to 1007
	w = pool.WeightAt(999)
	if w.ShareWeightBp != 1008 {
		t.Errorf("t=999: expected 1008, got %d", w.ShareWeightBp)
	}
}

func TestWeightAtLongSaleWindow(t *testing.T) {
	// A multi-decade window makes deltaBp*elapsed exceed int64; the wide
	// interpolation must still land on the exact line
	pool := &Pool{
		StartWeightBp: 9000,
		EndWeightBp:   1000,
		SaleStartTime: 0,
		SaleEndTime:   1 << 61,
	}

	quarter := pool.SaleEndTime / 4
	cases := []struct {
		now  int64
		want uint64
	}{
		{quarter, 7000},
		{2 * quarter, 5000},
		{3 * quarter, 3000},
		// one tick before the end: truncation holds the weight at 1001
		{pool.SaleEndTime - 1, 1001},
	}
	for _, tc := range cases {
		if w := pool.WeightAt(tc.now); w.ShareWeightBp != tc.want {
			t.Errorf("t=%d: expected %d, got %d", tc.now, tc.want, w.ShareWeightBp)
		}
	}

	// The share weight never climbs back above the start weight
	for _, now := range []int64{1, 1 << 20, 1 << 50, 1 << 60} {
		if w := pool.WeightAt(now); w.ShareWeightBp > 9000 {
			t.Errorf("t=%d: share weight %d above the start weight", now, w.ShareWeightBp)
		}
	}
}

func TestConstantWeightSchedule(t *testing.T) {
	pool := &Pool{StartWeightBp: 5000, EndWeightBp: 5000, SaleStartTime: 0, SaleEndTime: 1000}
	for _, now := range []int64{0, 1, 333, 999, 1000} {
		if w := pool.WeightAt(now); w.ShareWeightBp != 5000 {
			t.Errorf("t=%d: expected constant 5000, got %d", now, w.ShareWeightBp)
		}
	}
}
