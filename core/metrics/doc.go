// Package metrics exposes Prometheus collectors for the link engine: decision
// and rejection counters, pass durations, swallowed filesystem errors and the
// registry size. Collectors register with the default registry and are served
// by the /metrics endpoint of the start command.
package metrics
