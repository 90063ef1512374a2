// Package main is the observer load generator: it floods the websocket
// endpoint with concurrent read-only observers and reports whether the
// hub keeps broadcasting under load.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Config for the load run.
type Config struct {
	ServerURL    string
	NumObservers int
	TestDuration time.Duration
}

// Stats tracks what the observers saw.
type Stats struct {
	Connected         int64
	Rejected          int64
	SnapshotsReceived int64
	Disconnects       int64

	mu   sync.Mutex
	gaps []time.Duration
}

func main() {
	serverURL := flag.String("url", "ws://localhost:7777/ws", "observer endpoint URL")
	numObservers := flag.Int("observers", 50, "number of concurrent observers")
	duration := flag.Duration("duration", 60*time.Second, "test duration")
	flag.Parse()

	config := Config{
		ServerURL:    *serverURL,
		NumObservers: *numObservers,
		TestDuration: *duration,
	}

	fmt.Println("=========================================")
	fmt.Println("IDLERACK AGITATOR - observer load test")
	fmt.Println("=========================================")
	fmt.Printf("Server:    %s\n", config.ServerURL)
	fmt.Printf("Observers: %d\n", config.NumObservers)
	fmt.Printf("Duration:  %v\n", config.TestDuration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received, stopping...")
		cancel()
	}()

	stats := runLoadTest(ctx, config)
	printResults(stats, config)
}

func runLoadTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{gaps: make([]time.Duration, 0, 10000)}

	var wg sync.WaitGroup
	fmt.Println("\nStarting observers...")

	for i := 0; i < config.NumObservers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runObserver(ctx, id, config, stats)
		}(i)

		// Stagger starts to avoid thundering herd on the upgrader.
		time.Sleep(10 * time.Millisecond)
	}

	progress := time.NewTicker(5 * time.Second)
	defer progress.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-progress.C:
				fmt.Printf("progress: connected=%d snapshots=%d disconnects=%d\n",
					atomic.LoadInt64(&stats.Connected),
					atomic.LoadInt64(&stats.SnapshotsReceived),
					atomic.LoadInt64(&stats.Disconnects))
			}
		}
	}()

	wg.Wait()
	return stats
}

func runObserver(ctx context.Context, id int, config Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		log.Printf("observer %d: connection failed: %v", id, err)
		atomic.AddInt64(&stats.Rejected, 1)
		return
	}
	defer conn.Close()
	atomic.AddInt64(&stats.Connected, 1)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	last := time.Now()
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				atomic.AddInt64(&stats.Disconnects, 1)
			}
			return
		}
		now := time.Now()
		atomic.AddInt64(&stats.SnapshotsReceived, 1)

		stats.mu.Lock()
		stats.gaps = append(stats.gaps, now.Sub(last))
		stats.mu.Unlock()
		last = now
	}
}

func printResults(stats *Stats, config Config) {
	fmt.Println("\n=========================================")
	fmt.Println("LOAD TEST RESULTS")
	fmt.Println("=========================================")

	connected := atomic.LoadInt64(&stats.Connected)
	rejected := atomic.LoadInt64(&stats.Rejected)
	received := atomic.LoadInt64(&stats.SnapshotsReceived)
	disconnects := atomic.LoadInt64(&stats.Disconnects)

	fmt.Printf("Observers connected:  %d\n", connected)
	fmt.Printf("Connections rejected: %d\n", rejected)
	fmt.Printf("Snapshots received:   %d\n", received)
	fmt.Printf("Mid-run disconnects:  %d\n", disconnects)

	perObserver := float64(received) / float64(connected+1) / config.TestDuration.Seconds()
	fmt.Printf("Rate per observer:    %.2f snapshots/sec\n", perObserver)

	stats.mu.Lock()
	if len(stats.gaps) > 1 {
		// Skip the first gap per observer; it measures connect time.
		var total, max time.Duration
		for _, g := range stats.gaps[1:] {
			total += g
			if g > max {
				max = g
			}
		}
		avg := total / time.Duration(len(stats.gaps)-1)
		fmt.Printf("\nInter-snapshot gap:\n")
		fmt.Printf("  Avg: %v\n", avg)
		fmt.Printf("  Max: %v\n", max)
	}
	stats.mu.Unlock()

	fmt.Println("\n-----------------------------------------")
	switch {
	case disconnects == 0 && connected == int64(config.NumObservers):
		fmt.Println("PASS: hub held every observer for the full run")
	case disconnects < connected/20:
		fmt.Println("WARNING: some observers were dropped")
	default:
		fmt.Println("FAIL: hub shed a significant share of observers")
	}

	results := map[string]interface{}{
		"connected":          connected,
		"rejected":           rejected,
		"snapshots_received": received,
		"disconnects":        disconnects,
		"per_observer_rate":  perObserver,
		"config": map[string]interface{}{
			"observers": config.NumObservers,
			"duration":  config.TestDuration.String(),
		},
	}
	jsonData, _ := json.MarshalIndent(results, "", "  ")
	os.WriteFile("agitator_results.json", jsonData, 0644)
	fmt.Println("\nResults saved to agitator_results.json")
}
