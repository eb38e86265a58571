// AngelaMos | 2026
// health.go

package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type Check struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

type Report struct {
	Status string  `json:"status"`
	Checks []Check `json:"checks"`
}

// Run pings every checker concurrently and returns the results sorted by
// name. A nil checker is reported unhealthy.
func Run(ctx context.Context, checkers map[string]Checker) Report {
	var wg sync.WaitGroup
	checks := make([]Check, 0, len(checkers))
	results := make(chan Check, len(checkers))

	for name, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- runCheck(ctx, name, checker)
		}()
	}

	wg.Wait()
	close(results)

	allHealthy := true
	for check := range results {
		if !check.Healthy {
			allHealthy = false
		}
		checks = append(checks, check)
	}

	sort.Slice(checks, func(i, j int) bool {
		return checks[i].Name < checks[j].Name
	})

	status := "ok"
	if !allHealthy {
		status = "degraded"
	}

	return Report{Status: status, Checks: checks}
}

func (r Report) Healthy() bool {
	return r.Status == "ok"
}

func runCheck(ctx context.Context, name string, checker Checker) Check {
	check := Check{
		Name:    name,
		Healthy: true,
	}

	if checker == nil {
		check.Healthy = false
		check.Message = name + " checker not configured"
		return check
	}

	start := time.Now()
	err := checker.Ping(ctx)
	check.Latency = time.Since(start).String()

	if err != nil {
		check.Healthy = false
		check.Message = err.Error()
	}

	return check
}
