package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"go.uber.org/atomic"
)

const numUsers = 200

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type loadTest struct {
	baseURL  string
	workers  int
	duration time.Duration
	client   *http.Client

	// visits counts accepted POST /hosting per user, checked against the
	// stored visitCount at the end
	visits [numUsers]atomic.Int64
}

func main() {
	app := &cli.App{
		Name:  "loadtest",
		Usage: "drive mixed read/write load against a running statcache",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://127.0.0.1:8080", Usage: "base URL"},
			&cli.IntFlag{Name: "workers", Value: 50},
			&cli.DurationFlag{Name: "duration", Value: 10 * time.Second, Usage: "length of each phase"},
		},
		Action: func(c *cli.Context) error {
			lt := &loadTest{
				baseURL:  strings.TrimSuffix(c.String("url"), "/"),
				workers:  c.Int("workers"),
				duration: c.Duration("duration"),
				client: &http.Client{
					Timeout: 5 * time.Second,
					Transport: &http.Transport{
						MaxIdleConns:        200,
						MaxIdleConnsPerHost: 200,
						IdleConnTimeout:     30 * time.Second,
						DialContext: (&net.Dialer{
							Timeout:   2 * time.Second,
							KeepAlive: 30 * time.Second,
						}).DialContext,
					},
				},
			}
			return lt.run()
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (lt *loadTest) run() error {
	fmt.Println("=== StatCache Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Users: %d\n\n", lt.workers, lt.duration, numUsers)

	fmt.Print("Waiting for server... ")
	if err := lt.waitReady(); err != nil {
		fmt.Println("FAILED")
		return err
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Seeding (POST only) ---")
	lt.runPhase(func(rng *rand.Rand) result {
		switch rng.Intn(3) {
		case 0:
			return lt.postPractice(rng)
		case 1:
			return lt.postHosting(rng)
		default:
			return lt.postBlog(rng)
		}
	})

	fmt.Println("\n--- Phase 2: Mixed load (50% POST, 50% GET) ---")
	lt.runPhase(func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.20:
			return lt.postHosting(rng)
		case r < 0.35:
			return lt.postBlog(rng)
		case r < 0.50:
			return lt.postPractice(rng)
		default:
			return lt.get(rng)
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	lt.runPhase(func(rng *rand.Rand) result {
		if rng.Float64() < 0.10 {
			return lt.postHosting(rng)
		}
		return lt.get(rng)
	})

	return lt.verifyVisits()
}

func (lt *loadTest) waitReady() error {
	var lastErr error
	for i := 0; i < 30; i++ {
		resp, err := lt.client.Get(lt.baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("server not responding: %w", lastErr)
}

func (lt *loadTest) runPhase(workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < lt.workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(lt.duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, lt.duration)
}

// verifyVisits compares the visits the server acknowledged with the stored
// counters. A mismatch means lost increments.
func (lt *loadTest) verifyVisits() error {
	fmt.Println("\n--- Verifying visit counters ---")
	mismatches := 0
	for i := range lt.visits {
		want := lt.visits[i].Load()
		if want == 0 {
			continue
		}
		resp, err := lt.client.Get(fmt.Sprintf("%s/hosting?username=user%d&ttl=0", lt.baseURL, i))
		if err != nil {
			return err
		}
		var body struct {
			Record *struct {
				VisitCount int64 `json:"visitCount"`
			} `json:"record"`
		}
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return err
		}
		// counters from earlier runs only ever add to ours
		if body.Record == nil || body.Record.VisitCount < want {
			mismatches++
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d users lost visits", mismatches)
	}
	fmt.Println("  all counters consistent")
	return nil
}

func (lt *loadTest) postPractice(rng *rand.Rand) result {
	body := map[string]interface{}{
		"totalSolved":    rng.Intn(3000),
		"easySolved":     rng.Intn(1000),
		"mediumSolved":   rng.Intn(1500),
		"hardSolved":     rng.Intn(500),
		"ranking":        rng.Intn(1000000),
		"acceptanceRate": rng.Float64() * 100,
	}
	url := fmt.Sprintf("%s/practice?username=user%d", lt.baseURL, rng.Intn(numUsers))
	return lt.post("POST /practice", url, body)
}

func (lt *loadTest) postHosting(rng *rand.Rand) result {
	user := rng.Intn(numUsers)
	body := map[string]interface{}{"username": fmt.Sprintf("user%d", user)}
	if rng.Float64() < 0.2 {
		body["avatarUrl"] = fmt.Sprintf("https://avatars.example.com/u/%d?v=%d", user, rng.Intn(10))
	}
	r := lt.post("POST /hosting", lt.baseURL+"/hosting", body)
	if !r.err {
		lt.visits[user].Inc()
	}
	return r
}

func (lt *loadTest) postBlog(rng *rand.Rand) result {
	body := map[string]interface{}{}
	for _, field := range []string{"articleCount", "followers", "likes", "views", "comments", "points"} {
		if rng.Float64() < 0.5 {
			body[field] = rng.Intn(100000)
		}
	}
	url := fmt.Sprintf("%s/blog?userId=%d", lt.baseURL, rng.Intn(numUsers))
	return lt.post("POST /blog", url, body)
}

func (lt *loadTest) post(endpoint, url string, body map[string]interface{}) result {
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := lt.client.Post(url, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusNoContent}
}

func (lt *loadTest) get(rng *rand.Rand) result {
	var endpoint, url string
	user := rng.Intn(numUsers)
	switch rng.Intn(3) {
	case 0:
		endpoint, url = "GET /practice", fmt.Sprintf("%s/practice?username=user%d", lt.baseURL, user)
	case 1:
		endpoint, url = "GET /hosting", fmt.Sprintf("%s/hosting?username=user%d", lt.baseURL, user)
	default:
		endpoint, url = "GET /blog", fmt.Sprintf("%s/blog?userId=%d", lt.baseURL, user)
	}

	start := time.Now()
	resp, err := lt.client.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		fmt.Println("  no requests completed")
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
