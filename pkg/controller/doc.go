// Package controller contains HTTP middlewares and helper handlers used by the API server.
//
// Provided middlewares:
//   - WithCORS: Adds CORS headers for the allowed origins and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithRateLimit: Rejects clients that exceed their per-IP token bucket, the IP
//     being resolved by a ClientIPResolver that only believes trusted proxies.
//   - HTTPMetrics.Middleware: Counts requests and observes latency per route.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers.
package controller
