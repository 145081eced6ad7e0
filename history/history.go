package history

import (
	"sync"

	"github.com/google/btree"
	"github.com/huandu/skiplist"
)

// CandleInterval is the fixed candle bucket width in seconds
const CandleInterval int64 = 60

const btreeDegree = 32

// PricePoint is one observed spot price sample for a pool
type PricePoint struct {
	Timestamp     int64   `json:"timestamp"`
	SharePrice    float64 `json:"share_price"`
	AssetReserve  uint64  `json:"asset_reserve"`
	ShareReserve  uint64  `json:"share_reserve"`
	ShareWeightBp uint64  `json:"share_weight_bp"`
	Volume        uint64  `json:"volume"`
}

// Candle is an aggregated OHLCV bucket
type Candle struct {
	OpenTime int64   `json:"open_time"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   uint64  `json:"volume"`
}

// timeKeyAsc is a comparator for ascending timestamp order
type timeKeyAsc struct{}

func (k timeKeyAsc) Compare(lhs, rhs interface{}) int {
	l := lhs.(int64)
	r := rhs.(int64)
	if l < r {
		return -1
	}
	if l > r {
		return 1
	}
	return 0
}

func (k timeKeyAsc) CalcScore(key interface{}) float64 {
	return float64(key.(int64))
}

// Series holds the raw price samples for one pool, ordered by timestamp.
// Insertion and range scans are O(log n).
type Series struct {
	points *skiplist.SkipList
	mu     sync.RWMutex
}

// NewSeries creates an empty price series
func NewSeries() *Series {
	return &Series{
		points: skiplist.New(timeKeyAsc{}),
	}
}

// Record inserts a sample; a sample at an existing timestamp replaces it
func (s *Series) Record(point *PricePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points.Set(point.Timestamp, point)
}

// Range returns up to limit samples with from <= timestamp < to
func (s *Series) Range(from, to int64, limit int) []*PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*PricePoint, 0)
	for elem := s.points.Find(from); elem != nil; elem = elem.Next() {
		point := elem.Value.(*PricePoint)
		if point.Timestamp >= to {
			break
		}
		result = append(result, point)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result
}

// Latest returns the most recent sample, or nil if the series is empty
func (s *Series) Latest() *PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elem := s.points.Back()
	if elem == nil {
		return nil
	}
	return elem.Value.(*PricePoint)
}

// Len returns the number of samples
func (s *Series) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.points.Len()
}

// candleItem wraps a candle for use in btree
// Implements btree.Item interface
type candleItem struct {
	candle *Candle
}

// Less implements btree.Item interface - ascending order by open time
func (a *candleItem) Less(b btree.Item) bool {
	return a.candle.OpenTime < b.(*candleItem).candle.OpenTime
}

// CandleSeries aggregates samples into fixed-width OHLCV buckets
type CandleSeries struct {
	tree *btree.BTree
	mu   sync.RWMutex
}

// NewCandleSeries creates an empty candle series
func NewCandleSeries() *CandleSeries {
	return &CandleSeries{
		tree: btree.New(btreeDegree),
	}
}

// Update folds a sample into its candle bucket
func (c *CandleSeries) Update(point *PricePoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	openTime := point.Timestamp - point.Timestamp%CandleInterval
	probe := &candleItem{candle: &Candle{OpenTime: openTime}}

	item := c.tree.Get(probe)
	if item == nil {
		c.tree.ReplaceOrInsert(&candleItem{candle: &Candle{
			OpenTime: openTime,
			Open:     point.SharePrice,
			High:     point.SharePrice,
			Low:      point.SharePrice,
			Close:    point.SharePrice,
			Volume:   point.Volume,
		}})
		return
	}

	candle := item.(*candleItem).candle
	if point.SharePrice > candle.High {
		candle.High = point.SharePrice
	}
	if point.SharePrice < candle.Low {
		candle.Low = point.SharePrice
	}
	candle.Close = point.SharePrice
	candle.Volume += point.Volume
}

// Range returns up to limit candles with from <= open time < to
func (c *CandleSeries) Range(from, to int64, limit int) []*Candle {
	c.mu.RLock()
	defer c.mu.RUnlock()

	minItem := &candleItem{candle: &Candle{OpenTime: from}}
	maxItem := &candleItem{candle: &Candle{OpenTime: to}}

	result := make([]*Candle, 0)
	c.tree.AscendRange(minItem, maxItem, func(item btree.Item) bool {
		copied := *item.(*candleItem).candle
		result = append(result, &copied)
		return limit <= 0 || len(result) < limit
	})
	return result
}

// Len returns the number of candle buckets
func (c *CandleSeries) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Len()
}

// Store keeps per-pool price and candle series
type Store struct {
	series  map[string]*Series
	candles map[string]*CandleSeries
	mu      sync.RWMutex
}

// NewStore creates an empty history store
func NewStore() *Store {
	return &Store{
		series:  make(map[string]*Series),
		candles: make(map[string]*CandleSeries),
	}
}

func (s *Store) pool(poolID string) (*Series, *CandleSeries) {
	s.mu.Lock()
	defer s.mu.Unlock()

	series, ok := s.series[poolID]
	if !ok {
		series = NewSeries()
		s.series[poolID] = series
		s.candles[poolID] = NewCandleSeries()
	}
	return series, s.candles[poolID]
}

// Record stores a sample and folds it into the pool's candles
func (s *Store) Record(poolID string, point *PricePoint) {
	series, candles := s.pool(poolID)
	series.Record(point)
	candles.Update(point)
}

// PriceHistory returns raw samples for a pool in [from, to)
func (s *Store) PriceHistory(poolID string, from, to int64, limit int) []*PricePoint {
	s.mu.RLock()
	series, ok := s.series[poolID]
	s.mu.RUnlock()
	if !ok {
		return []*PricePoint{}
	}
	return series.Range(from, to, limit)
}

// Candles returns aggregated candles for a pool in [from, to)
func (s *Store) Candles(poolID string, from, to int64, limit int) []*Candle {
	s.mu.RLock()
	candles, ok := s.candles[poolID]
	s.mu.RUnlock()
	if !ok {
		return []*Candle{}
	}
	return candles.Range(from, to, limit)
}

// Latest returns the most recent sample for a pool, or nil
func (s *Store) Latest(poolID string) *PricePoint {
	s.mu.RLock()
	series, ok := s.series[poolID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return series.Latest()
}
