// Package tuning holds the concurrency knobs for the action pipeline and
// the observer hub.
package tuning

import "runtime"

// Config holds tuned channel and observer parameters.
type Config struct {
	// Action channel buffer between the producers and the dispatch loop.
	// Input and tick sends block when full; render sends are dropped.
	ActionChannelBuffer int

	// Observer hub
	ClientSendBuffer int
	MaxObservers     int

	// BroadcastPerSecond caps snapshot broadcasts to observers.
	BroadcastPerSecond float64
}

// DefaultConfig returns sensible defaults for an interactive session.
func DefaultConfig() *Config {
	return &Config{
		ActionChannelBuffer: 64,
		ClientSendBuffer:    16,
		MaxObservers:        32,
		BroadcastPerSecond:  4,
	}
}

// HeadlessConfig returns settings for headless runs, where observers are
// the only consumers and bursts come from offline catch-up.
func HeadlessConfig() *Config {
	numCPU := runtime.NumCPU()
	return &Config{
		ActionChannelBuffer: 256,
		ClientSendBuffer:    32,
		MaxObservers:        numCPU * 16,
		BroadcastPerSecond:  10,
	}
}

// Analyze inspects a metrics snapshot and suggests adjustments.
func Analyze(metrics map[string]interface{}) []string {
	var notes []string

	if tick, ok := metrics["tick"].(map[string]interface{}); ok {
		if maxLat, ok := tick["max_latency_ms"].(float64); ok && maxLat > 100 {
			notes = append(notes, "tick latency exceeds 100ms - reduce broadcast rate or observer count")
		}
	}
	if dispatch, ok := metrics["dispatch"].(map[string]interface{}); ok {
		if coalesced, ok := dispatch["renders_coalesced"].(int64); ok && coalesced > 1000 {
			notes = append(notes, "heavy render coalescing - dispatch loop is falling behind")
		}
	}
	if ws, ok := metrics["websocket"].(map[string]interface{}); ok {
		if errors, ok := ws["errors"].(int64); ok && errors > 0 {
			notes = append(notes, "websocket errors detected - increase client send buffer")
		}
	}
	return notes
}
