// Package metrics provides observability for the game process. Counters
// are cheap enough to record from the dispatch loop; the HTTP handlers
// serve them in JSON and Prometheus form when --metrics-addr is set.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Simulation metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Dispatch metrics
	ActionsDispatched int64
	ActionsRejected   int64
	RendersCoalesced  int64

	// Persistence metrics
	SavesWritten    int64
	SaveLatencySum  int64
	SaveLatencyMax  int64
	SaveErrors      int64
	JournalsWritten int64
	JournalErrors   int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordDispatch records one handled action.
func (c *Collector) RecordDispatch(rejected bool) {
	atomic.AddInt64(&c.ActionsDispatched, 1)
	if rejected {
		atomic.AddInt64(&c.ActionsRejected, 1)
	}
}

// RecordRenderCoalesced records a render frame dropped under backpressure.
func (c *Collector) RecordRenderCoalesced() {
	atomic.AddInt64(&c.RendersCoalesced, 1)
}

// RecordSave records a save document write.
func (c *Collector) RecordSave(latency time.Duration, err error) {
	atomic.AddInt64(&c.SavesWritten, 1)
	atomic.AddInt64(&c.SaveLatencySum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.SaveLatencyMax) {
		atomic.StoreInt64(&c.SaveLatencyMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.SaveErrors, 1)
	}
}

// RecordJournalWrite records a journal entry write to the database.
func (c *Collector) RecordJournalWrite(err error) {
	atomic.AddInt64(&c.JournalsWritten, 1)
	if err != nil {
		atomic.AddInt64(&c.JournalErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records an outgoing WebSocket broadcast.
func (c *Collector) RecordWSMessage() {
	atomic.AddInt64(&c.WSMessagesOut, 1)
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	savesWritten := atomic.LoadInt64(&c.SavesWritten)

	var tickAvg, saveAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if savesWritten > 0 {
		saveAvg = float64(atomic.LoadInt64(&c.SaveLatencySum)) / float64(savesWritten) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"dispatch": map[string]interface{}{
			"actions":           atomic.LoadInt64(&c.ActionsDispatched),
			"rejected":          atomic.LoadInt64(&c.ActionsRejected),
			"renders_coalesced": atomic.LoadInt64(&c.RendersCoalesced),
		},

		"persistence": map[string]interface{}{
			"saves":           savesWritten,
			"avg_save_lat_ms": saveAvg,
			"max_save_lat_ms": float64(atomic.LoadInt64(&c.SaveLatencyMax)) / 1e6,
			"save_errors":     atomic.LoadInt64(&c.SaveErrors),
			"journal_writes":  atomic.LoadInt64(&c.JournalsWritten),
			"journal_errors":  atomic.LoadInt64(&c.JournalErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP idlerack_tick_count Total simulation ticks\n")
		fmt.Fprintf(w, "# TYPE idlerack_tick_count counter\n")
		fmt.Fprintf(w, "idlerack_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP idlerack_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE idlerack_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "idlerack_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP idlerack_actions_total Total dispatched actions\n")
		fmt.Fprintf(w, "# TYPE idlerack_actions_total counter\n")
		fmt.Fprintf(w, "idlerack_actions_total %d\n\n", atomic.LoadInt64(&c.ActionsDispatched))

		fmt.Fprintf(w, "# HELP idlerack_actions_rejected Total rejected actions\n")
		fmt.Fprintf(w, "# TYPE idlerack_actions_rejected counter\n")
		fmt.Fprintf(w, "idlerack_actions_rejected %d\n\n", atomic.LoadInt64(&c.ActionsRejected))

		fmt.Fprintf(w, "# HELP idlerack_renders_coalesced Render frames dropped under backpressure\n")
		fmt.Fprintf(w, "# TYPE idlerack_renders_coalesced counter\n")
		fmt.Fprintf(w, "idlerack_renders_coalesced %d\n\n", atomic.LoadInt64(&c.RendersCoalesced))

		fmt.Fprintf(w, "# HELP idlerack_saves_written Total save documents written\n")
		fmt.Fprintf(w, "# TYPE idlerack_saves_written counter\n")
		fmt.Fprintf(w, "idlerack_saves_written %d\n\n", atomic.LoadInt64(&c.SavesWritten))

		fmt.Fprintf(w, "# HELP idlerack_save_errors Total save write errors\n")
		fmt.Fprintf(w, "# TYPE idlerack_save_errors counter\n")
		fmt.Fprintf(w, "idlerack_save_errors %d\n\n", atomic.LoadInt64(&c.SaveErrors))

		fmt.Fprintf(w, "# HELP idlerack_journal_writes Total journal entries persisted\n")
		fmt.Fprintf(w, "# TYPE idlerack_journal_writes counter\n")
		fmt.Fprintf(w, "idlerack_journal_writes %d\n\n", atomic.LoadInt64(&c.JournalsWritten))

		fmt.Fprintf(w, "# HELP idlerack_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE idlerack_ws_connections gauge\n")
		fmt.Fprintf(w, "idlerack_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP idlerack_ws_messages_total Total WebSocket broadcasts\n")
		fmt.Fprintf(w, "# TYPE idlerack_ws_messages_total counter\n")
		fmt.Fprintf(w, "idlerack_ws_messages_total %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
