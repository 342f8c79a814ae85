// Package defaults holds the service-wide default values and timeouts.
package defaults

import "time"

const (
	// DatasetPath is where the public crop recommendation CSV (header
	// N,P,K,temperature,humidity,ph,rainfall,label) is expected relative to the
	// working directory. It is not bundled; override with --dataset or
	// CROPREC_DATASET.
	DatasetPath = "data/crop_recommendation.csv"

	// Neighbors is the default k for the classifier.
	Neighbors = 8

	// Distance is the default distance metric (Minkowski with p=2).
	Distance = "euclidean"

	// Scaling is the default feature transform.
	Scaling = "standard"

	// TestSize is the held-out fraction of each class.
	TestSize = 0.2

	// Seed makes the stratified split reproducible across runs.
	Seed int64 = 42

	// TopN is the maximum number of crops returned per query.
	TopN = 4
)

const (
	// ServerPort is the default HTTP port.
	ServerPort = 8000

	// ServerRateLimit is the sustained request rate per second.
	ServerRateLimit = 100

	// ServerRateBurst is the token bucket size.
	ServerRateBurst = 200

	// ServerMaxBodyBytes bounds the size of a prediction request body.
	ServerMaxBodyBytes = 1 << 20
)

const (
	// ServerReadTimeout is the maximum duration for reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

const (
	// TuneFolds is the number of cross-validation folds used by the k sweep.
	TuneFolds = 5

	// TuneMaxK is the largest k tried when no explicit list is configured.
	TuneMaxK = 20

	// TuneWorkers bounds concurrent fold evaluations.
	TuneWorkers = 4
)
