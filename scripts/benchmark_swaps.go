package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// CreatePoolRequest seeds the benchmark pool
type CreatePoolRequest struct {
	Creator        string `json:"creator"`
	AssetToken     string `json:"asset_token"`
	ShareToken     string `json:"share_token"`
	Assets         uint64 `json:"assets"`
	Shares         uint64 `json:"shares"`
	MaxSharePrice  uint64 `json:"max_share_price"`
	MaxSharesOut   uint64 `json:"max_shares_out"`
	MaxAssetsIn    uint64 `json:"max_assets_in"`
	StartWeightBp  uint64 `json:"start_weight_bp"`
	EndWeightBp    uint64 `json:"end_weight_bp"`
	SaleStartTime  int64  `json:"sale_start_time"`
	SaleEndTime    int64  `json:"sale_end_time"`
	VestCliff      int64  `json:"vest_cliff"`
	VestEnd        int64  `json:"vest_end"`
	SellingAllowed bool   `json:"selling_allowed"`
}

// SwapRequest is one trade against the pool
type SwapRequest struct {
	Caller string `json:"caller"`
	Side   string `json:"side"`
	Amount uint64 `json:"amount"`
	Limit  uint64 `json:"limit"`
}

// SwapResponse reports the realized amounts
type SwapResponse struct {
	Assets uint64 `json:"assets"`
	Shares uint64 `json:"shares"`
}

// ConfigRequest initializes the fee configuration
type ConfigRequest struct {
	Owner         string `json:"owner"`
	PlatformFeeBp uint64 `json:"platform_fee_bp"`
	ReferralFeeBp uint64 `json:"referral_fee_bp"`
	SwapFeeBp     uint64 `json:"swap_fee_bp"`
}

// BenchmarkResults holds all test results
type BenchmarkResults struct {
	Previews        int64
	PreviewSuccess  int64
	Swaps           int64
	SwapSuccess     int64
	SwapFailed      int64
	SharesPurchased int64
	PreviewLats     []time.Duration
	SwapLats        []time.Duration
	mu              sync.Mutex
}

func (r *BenchmarkResults) AddPreview(latency time.Duration, success bool) {
	atomic.AddInt64(&r.Previews, 1)
	if success {
		atomic.AddInt64(&r.PreviewSuccess, 1)
	}
	r.mu.Lock()
	r.PreviewLats = append(r.PreviewLats, latency)
	r.mu.Unlock()
}

func (r *BenchmarkResults) AddSwap(latency time.Duration, success bool, shares uint64) {
	atomic.AddInt64(&r.Swaps, 1)
	if success {
		atomic.AddInt64(&r.SwapSuccess, 1)
		atomic.AddInt64(&r.SharesPurchased, int64(shares))
	} else {
		atomic.AddInt64(&r.SwapFailed, 1)
	}
	r.mu.Lock()
	r.SwapLats = append(r.SwapLats, latency)
	r.mu.Unlock()
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func avg(latencies []time.Duration) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, l := range latencies {
		total += l
	}
	return total / time.Duration(len(latencies))
}

func post(client *http.Client, url string, req, out interface{}) (time.Duration, bool) {
	body, _ := json.Marshal(req)
	start := time.Now()

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	latency := time.Since(start)
	if err != nil {
		return latency, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return latency, false
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return latency, false
		}
	}
	return latency, true
}

func get(client *http.Client, url string) (time.Duration, bool) {
	start := time.Now()
	resp, err := client.Get(url)
	latency := time.Since(start)
	if err != nil {
		return latency, false
	}
	resp.Body.Close()
	return latency, resp.StatusCode == http.StatusOK
}

func setupPool(client *http.Client, baseURL string) (string, error) {
	cfg := &ConfigRequest{Owner: "bench-owner", PlatformFeeBp: 100, ReferralFeeBp: 50, SwapFeeBp: 30}
	if _, ok := post(client, baseURL+"/v1/config", cfg, nil); !ok {
		// Config may already exist from a previous run
		fmt.Println("Config init skipped (already initialized?)")
	}

	now := time.Now().Unix()
	req := &CreatePoolRequest{
		Creator:        fmt.Sprintf("bench-%d", now),
		AssetToken:     "uusdc",
		ShareToken:     "utoken",
		Assets:         1_000_000_000,
		Shares:         1_000_000_000,
		MaxSharePrice:  1 << 62,
		MaxSharesOut:   1 << 62,
		MaxAssetsIn:    1 << 62,
		StartWeightBp:  9000,
		EndWeightBp:    1000,
		SaleStartTime:  now - 10,
		SaleEndTime:    now + 86400,
		VestCliff:      now + 86400,
		VestEnd:        now + 86400,
		SellingAllowed: true,
	}

	var pool struct {
		PoolID string `json:"pool_id"`
	}
	if _, ok := post(client, baseURL+"/v1/pools", req, &pool); !ok {
		return "", fmt.Errorf("pool creation failed")
	}
	return pool.PoolID, nil
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	swapCount := flag.Int("n", 10000, "Number of swaps")
	concurrency := flag.Int("c", 100, "Concurrency level")
	amount := flag.Uint64("amount", 1000, "Assets spent per swap")
	outputFile := flag.String("o", "", "Output JSON report file")
	flag.Parse()

	fmt.Println("LBP Pricing Engine Benchmark")
	fmt.Printf("Target: %s, swaps: %d, concurrency: %d\n\n", *baseURL, *swapCount, *concurrency)

	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: *concurrency,
		},
	}

	poolID, err := setupPool(client, *baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Benchmark pool: %s\n\n", poolID)

	results := &BenchmarkResults{}
	jobs := make(chan int, *swapCount)
	for i := 0; i < *swapCount; i++ {
		jobs <- i
	}
	close(jobs)

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for range jobs {
				previewURL := fmt.Sprintf("%s/v1/pools/%s/preview?side=shares_out&amount=%d",
					*baseURL, poolID, *amount)
				lat, ok := get(client, previewURL)
				results.AddPreview(lat, ok)

				swap := &SwapRequest{
					Caller: fmt.Sprintf("trader-%d", worker),
					Side:   "shares_out",
					Amount: *amount,
					Limit:  0,
				}
				var resp SwapResponse
				lat, ok = post(client, fmt.Sprintf("%s/v1/pools/%s/swap", *baseURL, poolID), swap, &resp)
				results.AddSwap(lat, ok, resp.Shares)
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	tps := float64(results.SwapSuccess) / elapsed.Seconds()
	fmt.Printf("Elapsed:          %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Swaps:            %d (%d ok, %d failed)\n", results.Swaps, results.SwapSuccess, results.SwapFailed)
	fmt.Printf("Previews:         %d (%d ok)\n", results.Previews, results.PreviewSuccess)
	fmt.Printf("Shares purchased: %d\n", results.SharesPurchased)
	fmt.Printf("Swap TPS:         %.1f\n\n", tps)

	fmt.Printf("Swap latency:    avg %v  p50 %v  p95 %v  p99 %v\n",
		avg(results.SwapLats), percentile(results.SwapLats, 0.50),
		percentile(results.SwapLats, 0.95), percentile(results.SwapLats, 0.99))
	fmt.Printf("Preview latency: avg %v  p50 %v  p95 %v  p99 %v\n",
		avg(results.PreviewLats), percentile(results.PreviewLats, 0.50),
		percentile(results.PreviewLats, 0.95), percentile(results.PreviewLats, 0.99))

	if *outputFile != "" {
		report := map[string]interface{}{
			"elapsed_ms":       elapsed.Milliseconds(),
			"swaps":            results.Swaps,
			"swap_success":     results.SwapSuccess,
			"swap_failed":      results.SwapFailed,
			"shares_purchased": results.SharesPurchased,
			"tps":              tps,
			"swap_p50_us":      percentile(results.SwapLats, 0.50).Microseconds(),
			"swap_p95_us":      percentile(results.SwapLats, 0.95).Microseconds(),
			"swap_p99_us":      percentile(results.SwapLats, 0.99).Microseconds(),
		}
		raw, _ := json.MarshalIndent(report, "", "  ")
		if err := os.WriteFile(*outputFile, raw, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
		}
	}
}
