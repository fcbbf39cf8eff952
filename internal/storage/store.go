// Package storage defines the persistence adapter contract for cart and
// wishlist snapshots: durable key/value storage of serialized state on one
// device. Durability is best-effort; engines treat failures as non-fatal.
package storage

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store is the persistence adapter for serialized snapshots.
type Store interface {
	// Load returns the snapshot stored under key, or pkg/errors.ErrNotFound
	// (wrapped) when no snapshot exists.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save persists the snapshot under key, overwriting any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the snapshot under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
}

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "snapshot_store_operations_total",
		Help: "Total number of snapshot store operations",
	},
	[]string{"backend", "operation", "status"},
)

// ObserveOperation records a store operation outcome for metrics. Store
// implementations call this on every Load/Save/Delete.
func ObserveOperation(backend, operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	operationsTotal.WithLabelValues(backend, operation, status).Inc()
}
