package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/afterglow3292/portops/internal/metrics"
	"github.com/afterglow3292/portops/internal/model"
)

// Lock keys embed a type rank so that sorting them yields the fixed global
// acquisition order: ship, port, berth, voyage, cargo, warehouse, task, then
// ascending identifier within a type. Cross-entity operations acquire all
// their keys through one Acquire call to stay deadlock-free.
func ShipKey(id string) string { return "0:ship:" + id }
func PortKey(id string) string { return "1:port:" + id }
func BerthKey(portID, berthNumber string) string {
	return "2:berth:" + portID + "#" + berthNumber
}
func VoyageKey(id string) string    { return "3:voyage:" + id }
func CargoKey(id string) string     { return "4:cargo:" + id }
func WarehouseKey(id string) string { return "5:warehouse:" + id }
func TaskKey(id string) string      { return "6:task:" + id }

// UniqueKey serializes check-then-create sequences on a unique attribute
// value (ship IMO, port code, voyage number, task number) so two concurrent
// creates cannot both pass the duplicate check.
func UniqueKey(scope, value string) string { return "7:uniq:" + scope + ":" + value }

// LockTable serializes mutations per entity. Every mutating façade operation
// acquires the locks for the entities it touches before running rule checks,
// and releases them after commit or abort. Acquisition times out rather than
// queueing forever; callers receive a BusyError and retry.
type LockTable struct {
	mu      sync.Mutex
	slots   map[string]chan struct{}
	timeout time.Duration
}

// NewLockTable creates a lock table with the given acquisition timeout.
// A zero timeout falls back to 5 seconds.
func NewLockTable(timeout time.Duration) *LockTable {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LockTable{slots: make(map[string]chan struct{}), timeout: timeout}
}

func (lt *LockTable) slot(key string) chan struct{} {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	s, ok := lt.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		lt.slots[key] = s
	}
	return s
}

// Acquire takes exclusive locks on all keys, in the fixed global order, and
// returns a release function. On timeout it releases whatever it already
// holds and returns a BusyError naming the contended key.
func (lt *LockTable) Acquire(ctx context.Context, keys ...string) (func(), error) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	sort.Strings(uniq)

	deadline := time.NewTimer(lt.timeout)
	defer deadline.Stop()

	held := make([]chan struct{}, 0, len(uniq))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}
	for _, k := range uniq {
		s := lt.slot(k)
		select {
		case s <- struct{}{}:
			held = append(held, s)
		case <-deadline.C:
			release()
			metrics.LockWaitsTotal.Inc()
			return nil, model.NewBusyError(k)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}
	return release, nil
}
