// Package observability provides Prometheus metrics for the resolver, the
// artifact store, and the HTTP surface, plus graceful shutdown handling for
// the server binary.
//
// # Overview
//
// All collectors live on a single Metrics struct registered against one
// registry, so the server can expose them on /metrics and tests can use a
// private registry without collisions. The Observe* helpers are nil-receiver
// safe; components that were built without metrics simply record nothing.
//
// The ShutdownManager waits for SIGINT/SIGTERM, drains the HTTP server, and
// runs registered shutdown functions under a single timeout.
package observability
