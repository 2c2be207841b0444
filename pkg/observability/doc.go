/*
Package observability provides lifecycle hooks and Prometheus metrics for errand runs.

Hooks log every run with slog and record errand_runs_total and
errand_run_duration_seconds; the explorer reports each API operation through
ObserveOperation into errand_explorer_operations_total.
*/
package observability
