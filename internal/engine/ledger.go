package engine

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/afterglow3292/portops/internal/model"
)

// Capacity arithmetic runs on scaled integers (one millionth of a capacity
// unit) so repeated reserve/release cycles cannot accumulate float drift.
// The 1e-6 tolerance matches the scale: quantities closer than one scaled
// unit compare equal.
const capacityScale = 1e6

func toScaled(v float64) int64   { return int64(math.Round(v * capacityScale)) }
func fromScaled(v int64) float64 { return float64(v) / capacityScale }

// Ledger validates and applies capacity changes on warehouses. It computes
// the new used value but does not persist it; the caller commits the updated
// record inside the same locked operation, or discards it on failure.
type Ledger struct {
	log zerolog.Logger
}

func NewLedger(log zerolog.Logger) *Ledger {
	return &Ledger{log: log}
}

// Reserve claims amount units on the warehouse. Fails with a ConflictError
// when used + amount would exceed total.
func (l *Ledger) Reserve(w *model.Warehouse, amount float64) (float64, error) {
	if amount < 0 {
		return w.UsedCapacity, model.NewValidationError("amount", "reserve amount must not be negative")
	}
	used := toScaled(w.UsedCapacity) + toScaled(amount)
	if used > toScaled(w.TotalCapacity) {
		return w.UsedCapacity, model.ConflictError{
			Resource:     "warehouse",
			Message:      "insufficient capacity",
			ConflictWith: w.WarehouseID,
		}
	}
	return fromScaled(used), nil
}

// Release returns amount units to the warehouse. Used capacity floors at
// zero: an over-release signals an upstream bookkeeping defect and is logged,
// not rejected, since refusing it would strand capacity forever.
func (l *Ledger) Release(w *model.Warehouse, amount float64) float64 {
	used := toScaled(w.UsedCapacity) - toScaled(amount)
	if used < 0 {
		l.log.Warn().
			Str("warehouseId", w.WarehouseID).
			Float64("used", w.UsedCapacity).
			Float64("release", amount).
			Msg("capacity release exceeds used amount, flooring at zero")
		used = 0
	}
	return fromScaled(used)
}

// WithinCapacity reports whether used fits in total under the ledger
// tolerance. Used by create/update validation on raw operator input.
func WithinCapacity(used, total float64) bool {
	return toScaled(used) <= toScaled(total)
}
