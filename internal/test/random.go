package test

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomAmount returns a pseudo-random monetary value in [min, max) with two
// decimal places.
func RandomAmount(min, max float64) decimal.Decimal {
	if max <= min {
		max = min + 1
	}
	rngMu.Lock()
	v := min + rng.Float64()*(max-min)
	rngMu.Unlock()
	return decimal.NewFromFloat(v).Round(2)
}
