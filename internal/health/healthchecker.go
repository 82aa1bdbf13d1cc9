package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is implemented by component-level checkers (store, cache).
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// ServiceHealthChecker folds component checkers into one service flag and
// remembers which dependencies failed their last probe.
type ServiceHealthChecker struct {
	healthy atomic.Int32
	down    atomic.Value // []string
	deps    []HealthChecker
	log     zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	h := &ServiceHealthChecker{deps: deps, log: log}
	h.down.Store([]string{})
	return h
}

// IsHealthy returns cached service health.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Down lists the dependencies that failed their most recent probe.
func (h *ServiceHealthChecker) Down() []string { return h.down.Load().([]string) }

// Start re-evaluates dependency health on each tick and logs edge
// transitions with the names of the failing dependencies.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	wasHealthy := false
	eval := func() {
		var down []string
		for _, c := range h.deps {
			if !c.IsHealthy() {
				down = append(down, c.Name())
			}
		}
		if down == nil {
			down = []string{}
		}
		h.down.Store(down)

		ok := len(down) == 0
		if ok {
			h.healthy.Store(1)
		} else {
			h.healthy.Store(0)
		}
		if ok != wasHealthy {
			if ok {
				h.log.Info().Msg("service health: UP")
			} else {
				h.log.Error().Strs("down", down).Msg("service health: DOWN")
			}
			wasHealthy = ok
		}
	}

	eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			eval()
		}
	}
}
