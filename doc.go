// Package titanic predicts passenger survival on the Titanic with a
// preprocessing and logistic regression pipeline.
//
// The repository provides a small scikit-learn-like library built on gonum:
// tabular frames, transformers with Fit/Transform, a classifier with
// Fit/Predict/PredictProba, and a Pipeline that chains them. The titanic
// pipeline is assembled from an explicit configuration:
//
//  1. categorical_imputation: fill missing categories with "Missing"
//  2. missing_indicator: add <var>_na columns for numerical variables
//  3. median_imputation: fill missing numbers with the training median
//  4. extract_letter: keep the first letter of the cabin
//  5. rare_label_encoder: group levels below 5% into "Rare"
//  6. categorical_encoder: one-hot encode into k-1 columns
//  7. scaler: standardize every column
//  8. Logit: L2 logistic regression with C=0.0005
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/titanic/config"
//	    "github.com/YuminosukeSato/titanic/dataset"
//	    "github.com/YuminosukeSato/titanic/pipeline"
//	)
//
//	func main() {
//	    cfg := config.Default()
//
//	    ds, err := dataset.LoadFile("raw.csv", cfg.Model)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    train, test, err := dataset.TrainTestSplit(ds, cfg.Model.TestSize, cfg.Model.RandomState)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    p, err := pipeline.NewTitanic(cfg.Model)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := p.Fit(train.X, train.Y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    acc, err := p.Score(test.X, test.Y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Accuracy:", acc)
//	}
//
// # Packages
//
//   - config: YAML configuration with an embedded default
//   - dataset: raw CSV loading and the deterministic train/test split
//   - core/frame: named columns with missing-value tracking
//   - core/model: estimator interfaces, fitted state and gob persistence
//   - core/parallel: row-range parallel loops
//   - preprocessing: imputers, encoders, the letter extractor and the scaler
//   - linear: LogisticRegression
//   - pipeline: step composition and the titanic pipeline
//   - metrics: accuracy, ROC-AUC and log loss
//   - report: Markdown training report and ROC curve plot
//   - pkg/errors, pkg/log: structured errors and zerolog logging
//
// The titanic command in cmd/titanic trains, saves and scores pipelines.
package titanic
