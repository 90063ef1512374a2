// Package ledger holds the resource vector every other part of the game
// trades in. Quantities are plain float64 and are never allowed to go
// negative or non-finite at any observable point.
package ledger

import (
	"math"
)

// Kind identifies one of the fixed resource columns.
type Kind string

const (
	Compute    Kind = "compute"
	Bandwidth  Kind = "bandwidth"
	Storage    Kind = "storage"
	Reputation Kind = "reputation"
	Crypto     Kind = "crypto"
)

// Kinds lists every resource kind in display order.
var Kinds = []Kind{Compute, Bandwidth, Storage, Reputation, Crypto}

// Resources is a fixed vector of resource quantities. The zero value is a
// valid, empty ledger.
type Resources struct {
	Compute    float64 `json:"compute"`
	Bandwidth  float64 `json:"bandwidth"`
	Storage    float64 `json:"storage"`
	Reputation float64 `json:"reputation"`
	Crypto     float64 `json:"crypto"`
}

// Get returns the quantity for a kind.
func (r *Resources) Get(k Kind) float64 {
	switch k {
	case Compute:
		return r.Compute
	case Bandwidth:
		return r.Bandwidth
	case Storage:
		return r.Storage
	case Reputation:
		return r.Reputation
	case Crypto:
		return r.Crypto
	}
	return 0
}

// Set assigns the quantity for a kind, clamping at zero and saturating at
// MaxFloat64 so state never carries negative, NaN or Inf values.
func (r *Resources) Set(k Kind, v float64) {
	v = sanitize(v)
	switch k {
	case Compute:
		r.Compute = v
	case Bandwidth:
		r.Bandwidth = v
	case Storage:
		r.Storage = v
	case Reputation:
		r.Reputation = v
	case Crypto:
		r.Crypto = v
	}
}

// Add accumulates another vector into this one, saturating at MaxFloat64.
func (r *Resources) Add(other Resources) {
	r.Compute = satAdd(r.Compute, other.Compute)
	r.Bandwidth = satAdd(r.Bandwidth, other.Bandwidth)
	r.Storage = satAdd(r.Storage, other.Storage)
	r.Reputation = satAdd(r.Reputation, other.Reputation)
	r.Crypto = satAdd(r.Crypto, other.Crypto)
}

// CanAfford reports whether every column covers the cost vector.
func (r *Resources) CanAfford(cost Resources) bool {
	return r.Compute >= cost.Compute &&
		r.Bandwidth >= cost.Bandwidth &&
		r.Storage >= cost.Storage &&
		r.Reputation >= cost.Reputation &&
		r.Crypto >= cost.Crypto
}

// Spend deducts the cost vector all-or-nothing. If any column is short the
// ledger is left untouched and Spend reports false.
func (r *Resources) Spend(cost Resources) bool {
	if !r.CanAfford(cost) {
		return false
	}
	r.Compute -= cost.Compute
	r.Bandwidth -= cost.Bandwidth
	r.Storage -= cost.Storage
	r.Reputation -= cost.Reputation
	r.Crypto -= cost.Crypto
	return true
}

// Drain removes up to amount of a kind, clamping at zero. Used for lossy
// incident effects where a partial drain is acceptable.
func (r *Resources) Drain(k Kind, amount float64) {
	r.Set(k, r.Get(k)-amount)
}

// Scale multiplies every column by f, saturating at MaxFloat64.
func (r *Resources) Scale(f float64) Resources {
	return Resources{
		Compute:    sanitize(r.Compute * f),
		Bandwidth:  sanitize(r.Bandwidth * f),
		Storage:    sanitize(r.Storage * f),
		Reputation: sanitize(r.Reputation * f),
		Crypto:     sanitize(r.Crypto * f),
	}
}

// IsValid reports whether every column is a finite non-negative number.
// Load-time structural validation depends on this.
func (r *Resources) IsValid() bool {
	for _, k := range Kinds {
		v := r.Get(k)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func satAdd(a, b float64) float64 {
	return sanitize(a + b)
}

// sanitize clamps a quantity into [0, MaxFloat64]. Growth past MaxFloat64
// saturates rather than overflowing to +Inf; the ledger never stores NaN.
func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if math.IsInf(v, 1) || v > math.MaxFloat64 {
		return math.MaxFloat64
	}
	return v
}
