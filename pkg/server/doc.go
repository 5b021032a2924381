// Package server exposes workbook resolution over HTTP.
//
// # Overview
//
// The server wraps a resolver behind a small JSON API. A single POST
// endpoint runs a resolution; liveness and readiness probes and a
// Prometheus metrics endpoint round out the surface.
//
// Routes:
//
//	POST /api/v1/resolve   resolve workbooks into pinned requirements
//	GET  /healthz          liveness probe
//	GET  /readyz           readiness probe over registered checks
//	GET  /metrics          Prometheus metrics
//
// Every request passes through request-ID, panic-recovery, logging and
// metrics middleware.
package server
