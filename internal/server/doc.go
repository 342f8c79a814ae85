// Package server exposes the crop predictor over HTTP.
//
// Endpoints:
//
//   - POST /predict, POST /v1/predict - rank crops for one sample
//   - GET /health - liveness probe
//   - GET /ready - readiness probe
//   - GET /metrics - Prometheus metrics
//   - GET /, GET /es, GET /static/ - web client, when a client directory is configured
//
// A prediction request is a JSON object. When it has a "sample" key the
// value must be a list of at least 7 numbers in the order nitrogen,
// phosphorus, potassium, temperature, humidity, ph, rainfall. Otherwise the
// features are read by name from a nested "features" object or from the
// top level, accepting the usual aliases (N, P, K, temp, rain, ...).
//
//	curl -s localhost:8000/predict -d '{"sample":[90,42,43,20.8,82,6.5,202.9],"lang":"es"}'
//
// The response maps crop names to probabilities, most likely first.
// Failures use the ErrorResponse envelope.
//
// The API endpoints run behind metrics, request ID, panic recovery, rate
// limiting and request logging middleware. CORS is open to every origin.
package server
