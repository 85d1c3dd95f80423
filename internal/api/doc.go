// Package api hosts the HTTP server, middleware, and REST handlers for the
// algorithm visualizer. Notable routes:
//   - GET /api/prime/check?n= returns a traced primality check.
//   - POST /api/sort/bubble takes a JSON array of integers and returns a traced
//     bubble sort.
//   - GET /healthz / readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//
// Each endpoint family carries its own CORS policy; see config.CORSConfig.
package api
