// Package recommender trains the crop classifier once and answers top-N
// crop queries against the resulting immutable artifacts.
//
// Train loads the dataset, encodes labels, performs a seeded stratified
// split, fits the scaler on the training partition and fits a
// distance-weighted KNN. The held-out partition is scored into a
// TrainingReport that is informational only.
//
// A Predictor wraps the artifacts and is safe for concurrent use.
package recommender
