// AngelaMos | 2026
// latency.go

package dataservice

import (
	"context"
	"time"

	"github.com/carterperez-dev/neolab-storefront/internal/config"
)

type Latency struct {
	Products    time.Duration
	Product     time.Duration
	Login       time.Duration
	User        time.Duration
	CreateOrder time.Duration
	Orders      time.Duration
	Admin       time.Duration
}

func DefaultLatency() Latency {
	return Latency{
		Products:    500 * time.Millisecond,
		Product:     300 * time.Millisecond,
		Login:       800 * time.Millisecond,
		User:        300 * time.Millisecond,
		CreateOrder: time.Second,
		Orders:      500 * time.Millisecond,
		Admin:       500 * time.Millisecond,
	}
}

func LatencyFromConfig(cfg config.LatencyConfig) Latency {
	return Latency{
		Products:    cfg.Products,
		Product:     cfg.Product,
		Login:       cfg.Login,
		User:        cfg.User,
		CreateOrder: cfg.CreateOrder,
		Orders:      cfg.Orders,
		Admin:       cfg.Admin,
	}
}

// delay blocks for d or until ctx is done.
func delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
