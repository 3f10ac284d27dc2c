package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotPersists counts successful snapshot writes by the embedded store.
	SnapshotPersists = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trove_snapshot_persists_total",
		Help: "Total number of successful snapshot persist operations",
	})

	// SnapshotPersistFailures counts snapshot writes that failed and were
	// rolled back.
	SnapshotPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trove_snapshot_persist_failures_total",
		Help: "Total number of failed snapshot persist operations",
	})

	// ReconcileCorrections counts denormalized counters corrected by
	// reconciliation runs.
	ReconcileCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trove_reconcile_corrections_total",
		Help: "Total number of denormalized counters corrected by reconciliation",
	})

	// StorageMutations counts mutating facade operations by entity kind.
	StorageMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trove_storage_mutations_total",
		Help: "Total number of mutating storage operations by entity kind",
	}, []string{"kind"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trove_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
