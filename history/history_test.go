package history

import (
	"testing"
)

func point(ts int64, price float64, volume uint64) *PricePoint {
	return &PricePoint{Timestamp: ts, SharePrice: price, Volume: volume}
}

func TestSeriesOrderedRange(t *testing.T) {
	s := NewSeries()
	s.Record(point(300, 3.0, 1))
	s.Record(point(100, 1.0, 1))
	s.Record(point(200, 2.0, 1))

	got := s.Range(100, 301, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	for i, want := range []int64{100, 200, 300} {
		if got[i].Timestamp != want {
			t.Errorf("point %d: timestamp %d, want %d", i, got[i].Timestamp, want)
		}
	}

	half := s.Range(150, 301, 0)
	if len(half) != 2 || half[0].Timestamp != 200 {
		t.Errorf("range [150,301) = %v, want timestamps 200,300", half)
	}

	// Upper bound is exclusive
	open := s.Range(100, 300, 0)
	if len(open) != 2 {
		t.Errorf("range [100,300) returned %d points, want 2", len(open))
	}

	limited := s.Range(100, 301, 1)
	if len(limited) != 1 || limited[0].Timestamp != 100 {
		t.Errorf("limit 1 returned %v", limited)
	}
}

func TestSeriesReplaceSameTimestamp(t *testing.T) {
	s := NewSeries()
	s.Record(point(100, 1.0, 5))
	s.Record(point(100, 2.0, 7))

	if s.Len() != 1 {
		t.Fatalf("expected 1 point after replacement, got %d", s.Len())
	}
	if latest := s.Latest(); latest.SharePrice != 2.0 || latest.Volume != 7 {
		t.Errorf("latest = %+v, want replaced sample", latest)
	}
}

func TestSeriesLatestEmpty(t *testing.T) {
	if got := NewSeries().Latest(); got != nil {
		t.Errorf("empty series latest = %+v, want nil", got)
	}
}

func TestCandleAggregation(t *testing.T) {
	c := NewCandleSeries()
	c.Update(point(10, 5.0, 100))
	c.Update(point(30, 9.0, 50))
	c.Update(point(50, 3.0, 25))
	c.Update(point(70, 4.0, 10))

	candles := c.Range(0, 120, 0)
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}

	first := candles[0]
	if first.OpenTime != 0 {
		t.Errorf("first candle open time %d, want 0", first.OpenTime)
	}
	if first.Open != 5.0 || first.High != 9.0 || first.Low != 3.0 || first.Close != 3.0 {
		t.Errorf("first candle OHLC = %f/%f/%f/%f, want 5/9/3/3",
			first.Open, first.High, first.Low, first.Close)
	}
	if first.Volume != 175 {
		t.Errorf("first candle volume %d, want 175", first.Volume)
	}

	second := candles[1]
	if second.OpenTime != 60 {
		t.Errorf("second candle open time %d, want 60", second.OpenTime)
	}
	if second.Open != 4.0 || second.Close != 4.0 {
		t.Errorf("second candle open/close = %f/%f, want 4/4", second.Open, second.Close)
	}
}

func TestCandleRangeBounds(t *testing.T) {
	c := NewCandleSeries()
	c.Update(point(0, 1.0, 1))
	c.Update(point(60, 2.0, 1))
	c.Update(point(120, 3.0, 1))

	got := c.Range(60, 120, 0)
	if len(got) != 1 || got[0].OpenTime != 60 {
		t.Errorf("range [60,120) = %v, want single candle at 60", got)
	}

	limited := c.Range(0, 200, 2)
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d candles", len(limited))
	}
}

func TestStoreIsolatesPools(t *testing.T) {
	store := NewStore()
	store.Record("pool-a", point(100, 1.0, 10))
	store.Record("pool-b", point(100, 2.0, 20))

	if got := store.Latest("pool-a"); got == nil || got.SharePrice != 1.0 {
		t.Errorf("pool-a latest = %+v", got)
	}
	if got := store.Latest("pool-b"); got == nil || got.SharePrice != 2.0 {
		t.Errorf("pool-b latest = %+v", got)
	}
	if got := store.Latest("pool-c"); got != nil {
		t.Errorf("unknown pool latest = %+v, want nil", got)
	}

	if got := store.PriceHistory("pool-c", 0, 200, 0); len(got) != 0 {
		t.Errorf("unknown pool history = %v, want empty", got)
	}
	if got := store.Candles("pool-a", 0, 200, 0); len(got) != 1 {
		t.Errorf("pool-a candles = %d, want 1", len(got))
	}
}
