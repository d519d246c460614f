// Package metrics exposes the gateway's Prometheus metrics: validation
// outcomes per schema, failures per rule, validation latency and HTTP
// request counts. Each Metrics value owns its registry, so tests and
// multiple gateways in one process do not collide.
package metrics
