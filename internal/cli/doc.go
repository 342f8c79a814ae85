// Package cli implements the croprec command line.
//
// Every command trains the classifier from the configured dataset at start
// up; nothing is persisted between runs.
//
//	croprec serve --port 8000 --client-dir ./client
//	croprec predict 90 42 43 20.8 82 6.5 202.9
//	croprec predict N=90 P=42 K=43 temp=20.8 humidity=82 ph=6.5 rain=202.9 --lang es
//	croprec train --format json
//	croprec tune --k 1,3,5,7,9 --distances euclidean,manhattan
//
// Settings are read from an optional YAML file (--config), then the
// environment (PORT, LOG_LEVEL, CROPREC_DATASET, SHUTDOWN_TIMEOUT_SECONDS),
// then flags.
package cli
