// Package service implements the commission calculation engine. The engine
// is pure: it reads immutable inputs, holds no state and performs no I/O, so
// batch calculation is safe to run sequentially or concurrently.
package service

import (
	"math"

	enginedomain "github.com/medirahq/commission/internal/engine/domain"
)

type Engine struct{}

func New() enginedomain.Service {
	return &Engine{}
}

// roundMoney rounds a raw commission to cents.
func roundMoney(raw float64) float64 {
	return math.Round(raw*100) / 100
}
