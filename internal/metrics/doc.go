// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package metrics provides Prometheus instrumentation for Movierec.

Collectors are registered on the default registry at package init through
promauto. Callers use the Record* helpers rather than touching collectors
directly, so label sets stay consistent.

# Available Metrics

Request Metrics:
  - movierec_requests_total: requests (counter)
    Labels: operation (recommend, similar), engine, outcome
  - movierec_request_duration_seconds: latency (histogram)
    Labels: operation, engine

Engine Metrics:
  - movierec_engine_fallbacks_total: substitute engine served (counter)
    Labels: requested, served
  - movierec_engine_available: 1 when the engine can serve (gauge)
    Labels: engine
  - movierec_engine_build_duration_seconds: construction time (histogram)
    Labels: engine

Factorization Metrics:
  - movierec_nmf_iterations, movierec_nmf_reconstruction_error, movierec_nmf_converged (gauges)
  - movierec_nmf_snapshot_lookups_total: snapshot reuse (counter)
    Labels: result (hit, miss, error)

Ratings Metrics:
  - movierec_ratings_records_loaded_total, movierec_ratings_coerced_total (counters)
    Labels: source (csv, duckdb)
  - movierec_ratings_duplicates_total (counter)
  - movierec_matrix_users, movierec_matrix_movies (gauges)

Cache Metrics:
  - movierec_result_cache_hits_total, movierec_result_cache_misses_total (counters)

# Export

The CLI is short-lived, so metrics are exported by WriteTextfile into a file
scraped by the node_exporter textfile collector rather than over HTTP.
*/
package metrics
