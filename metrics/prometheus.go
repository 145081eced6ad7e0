package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LBP metrics collector for monitoring sales, swaps and the API surface

var (
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all lbp metrics
type Collector struct {
	// Swap metrics
	SwapsTotal  *prometheus.CounterVec
	SwapVolume  *prometheus.CounterVec
	SwapLatency *prometheus.HistogramVec

	// Fee metrics, labelled by fee component
	FeesCollected *prometheus.CounterVec

	// Preview metrics
	PreviewsTotal *prometheus.CounterVec

	// Pool metrics
	PoolsActive    prometheus.Gauge
	PoolReserve    *prometheus.GaugeVec
	ShareWeightBp  *prometheus.GaugeVec
	TotalPurchased *prometheus.GaugeVec

	// Redemption metrics
	RedemptionsTotal *prometheus.CounterVec
	SharesRedeemed   *prometheus.CounterVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec

	// WebSocket metrics
	WSConnectionsActive prometheus.Gauge
	WSMessagesTotal     *prometheus.CounterVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
		collector.registerAll()
	})
	return collector
}

func newCollector() *Collector {
	return &Collector{
		SwapsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lbp",
				Name:      "swaps_total",
				Help:      "Total number of committed swaps",
			},
			[]string{"pool_id", "direction"},
		),
		SwapVolume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lbp",
				Name:      "swap_volume_total",
				Help:      "Cumulative swap volume by token side",
			},
			[]string{"pool_id", "token"},
		),
		SwapLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lbp",
				Name:      "swap_latency_ms",
				Help:      "Swap processing latency in milliseconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100},
			},
			[]string{"direction"},
		),
		FeesCollected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lbp",
				Name:      "fees_collected_total",
				Help:      "Cumulative fees by component",
			},
			[]string{"pool_id", "component"},
		),
		PreviewsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lbp",
				Name:      "previews_total",
				Help:      "Total number of preview quotes served",
			},
			[]string{"pool_id", "side"},
		),
		PoolsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "lbp",
				Name:      "pools_active",
				Help:      "Number of pools currently inside their sale window",
			},
		),
		PoolReserve: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "lbp",
				Name:      "pool_reserve",
				Help:      "Current pool reserve by token side",
			},
			[]string{"pool_id", "token"},
		),
		ShareWeightBp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "lbp",
				Name:      "share_weight_bp",
				Help:      "Current share-side weight in basis points",
			},
			[]string{"pool_id"},
		),
		TotalPurchased: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "lbp",
				Name:      "total_purchased",
				Help:      "Outstanding purchased shares per pool",
			},
			[]string{"pool_id"},
		),
		RedemptionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lbp",
				Name:      "redemptions_total",
				Help:      "Total number of vesting redemptions",
			},
			[]string{"pool_id"},
		),
		SharesRedeemed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lbp",
				Name:      "shares_redeemed_total",
				Help:      "Cumulative shares released through vesting",
			},
			[]string{"pool_id"},
		),
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lbp",
				Name:      "api_requests_total",
				Help:      "Total API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lbp",
				Name:      "api_request_latency_ms",
				Help:      "API request latency in milliseconds",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"method", "path"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lbp",
				Name:      "api_errors_total",
				Help:      "Total API errors by status code",
			},
			[]string{"path", "status"},
		),
		WSConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "lbp",
				Name:      "ws_connections_active",
				Help:      "Active WebSocket connections",
			},
		),
		WSMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lbp",
				Name:      "ws_messages_total",
				Help:      "Total WebSocket messages sent",
			},
			[]string{"channel"},
		),
	}
}

func (c *Collector) registerAll() {
	prometheus.MustRegister(
		c.SwapsTotal,
		c.SwapVolume,
		c.SwapLatency,
		c.FeesCollected,
		c.PreviewsTotal,
		c.PoolsActive,
		c.PoolReserve,
		c.ShareWeightBp,
		c.TotalPurchased,
		c.RedemptionsTotal,
		c.SharesRedeemed,
		c.APIRequestsTotal,
		c.APIRequestLatency,
		c.APIErrorsTotal,
		c.WSConnectionsActive,
		c.WSMessagesTotal,
	)
}

// RecordSwap records one committed swap with its realized amounts
func (c *Collector) RecordSwap(poolID, direction string, assets, shares uint64) {
	c.SwapsTotal.WithLabelValues(poolID, direction).Inc()
	c.SwapVolume.WithLabelValues(poolID, "asset").Add(float64(assets))
	c.SwapVolume.WithLabelValues(poolID, "share").Add(float64(shares))
}

// RecordSwapLatency records swap processing time
func (c *Collector) RecordSwapLatency(direction string, latencyMs float64) {
	c.SwapLatency.WithLabelValues(direction).Observe(latencyMs)
}

// RecordFees records one swap's fee split
func (c *Collector) RecordFees(poolID string, platform, referral, swap uint64) {
	c.FeesCollected.WithLabelValues(poolID, "platform").Add(float64(platform))
	c.FeesCollected.WithLabelValues(poolID, "referral").Add(float64(referral))
	c.FeesCollected.WithLabelValues(poolID, "swap").Add(float64(swap))
}

// RecordPreview records one served quote
func (c *Collector) RecordPreview(poolID, side string) {
	c.PreviewsTotal.WithLabelValues(poolID, side).Inc()
}

// UpdatePoolState refreshes the per-pool gauges after a state change
func (c *Collector) UpdatePoolState(poolID string, assetReserve, shareReserve, shareWeightBp, totalPurchased uint64) {
	c.PoolReserve.WithLabelValues(poolID, "asset").Set(float64(assetReserve))
	c.PoolReserve.WithLabelValues(poolID, "share").Set(float64(shareReserve))
	c.ShareWeightBp.WithLabelValues(poolID).Set(float64(shareWeightBp))
	c.TotalPurchased.WithLabelValues(poolID).Set(float64(totalPurchased))
}

// RecordRedemption records one vesting release
func (c *Collector) RecordRedemption(poolID string, shares uint64) {
	c.RedemptionsTotal.WithLabelValues(poolID).Inc()
	c.SharesRedeemed.WithLabelValues(poolID).Add(float64(shares))
}

// RecordAPIRequest records an API request with latency
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
	if status[0] == '4' || status[0] == '5' {
		c.APIErrorsTotal.WithLabelValues(path, status).Inc()
	}
}

// RecordWSConnection adjusts the active connection gauge
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.Add(float64(delta))
}

// RecordWSMessage records one broadcast message
func (c *Collector) RecordWSMessage(channel string) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures elapsed time in milliseconds
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
