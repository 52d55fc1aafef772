// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - recommendation requests per operation and engine
// - engine availability and fallbacks
// - factorization fitting and snapshot reuse
// - ratings ingestion and matrix size
// - result cache efficiency

var (
	// Request Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"operation", "engine", "outcome"},
	)

	RecommendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_request_duration_seconds",
			Help:    "Recommendation request duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation", "engine"},
	)

	// Engine Metrics
	EngineFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_engine_fallbacks_total",
			Help: "Total number of requests served by a different engine than requested",
		},
		[]string{"requested", "served"},
	)

	EngineAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierec_engine_available",
			Help: "Whether an engine is available (1) or not (0)",
		},
		[]string{"engine"},
	)

	EngineBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_engine_build_duration_seconds",
			Help:    "Time to construct an engine from the rating matrix",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"engine"},
	)

	// Factorization Metrics
	NMFIterations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_nmf_iterations",
			Help: "Coordinate descent iterations used by the last factorization fit",
		},
	)

	NMFReconstructionError = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_nmf_reconstruction_error",
			Help: "Frobenius norm of the residual of the last factorization fit",
		},
	)

	NMFConverged = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_nmf_converged",
			Help: "Whether the last factorization fit met its tolerance (1) or hit the iteration bound (0)",
		},
	)

	NMFSnapshotLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_nmf_snapshot_lookups_total",
			Help: "Factor snapshot lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	// Ratings Metrics
	RatingsRecordsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_ratings_records_loaded_total",
			Help: "Total number of rating records read",
		},
		[]string{"source"},
	)

	RatingsCoerced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_ratings_coerced_total",
			Help: "Rating cells that were missing or non-numeric and coerced to 0",
		},
		[]string{"source"},
	)

	RatingsDuplicates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_ratings_duplicates_total",
			Help: "Rating records collapsed into an existing (user, movie) cell",
		},
	)

	MatrixUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_matrix_users",
			Help: "Number of rows in the rating matrix",
		},
	)

	MatrixMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_matrix_movies",
			Help: "Number of columns in the rating matrix",
		},
	)

	// Cache Metrics
	ResultCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_result_cache_hits_total",
			Help: "Total number of result cache hits",
		},
	)

	ResultCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_result_cache_misses_total",
			Help: "Total number of result cache misses",
		},
	)
)

// RecordRequest records a completed recommendation request.
func RecordRequest(operation, engine, outcome string, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(operation, engine, outcome).Inc()
	RecommendRequestDuration.WithLabelValues(operation, engine).Observe(duration.Seconds())
}

// RecordFallback records a request served by a substitute engine.
func RecordFallback(requested, served string) {
	EngineFallbacksTotal.WithLabelValues(requested, served).Inc()
}

// SetEngineAvailable records whether an engine can serve requests.
func SetEngineAvailable(engine string, available bool) {
	EngineAvailable.WithLabelValues(engine).Set(boolToFloat(available))
}

// RecordEngineBuild records how long an engine took to construct.
func RecordEngineBuild(engine string, duration time.Duration) {
	EngineBuildDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// RecordNMFFit records the outcome of a factorization fit.
func RecordNMFFit(iterations int, reconstructionError float64, converged bool) {
	NMFIterations.Set(float64(iterations))
	NMFReconstructionError.Set(reconstructionError)
	NMFConverged.Set(boolToFloat(converged))
}

// RecordSnapshotLookup records a factor snapshot lookup: "hit", "miss" or "error".
func RecordSnapshotLookup(result string) {
	NMFSnapshotLookups.WithLabelValues(result).Inc()
}

// RecordRatingsLoad records a completed ratings read.
func RecordRatingsLoad(source string, records, coerced int) {
	RatingsRecordsLoaded.WithLabelValues(source).Add(float64(records))
	RatingsCoerced.WithLabelValues(source).Add(float64(coerced))
}

// RecordMatrix records the dimensions of the built rating matrix.
func RecordMatrix(users, movies, duplicates int) {
	MatrixUsers.Set(float64(users))
	MatrixMovies.Set(float64(movies))
	RatingsDuplicates.Add(float64(duplicates))
}

// RecordCacheLookup records a result cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		ResultCacheHits.Inc()
		return
	}
	ResultCacheMisses.Inc()
}

// WriteTextfile writes every registered metric to path in Prometheus text
// format, for pickup by the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
