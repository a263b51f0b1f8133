// Package observability provides Prometheus instrumentation for the
// Arbor engine: tick counters, stack depth, element churn and publish
// failures.
package observability
