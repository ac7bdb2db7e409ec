// Package log defines standard attribute keys for machine learning operations.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that pipeline runs can be filtered and aggregated.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of estimator or transformer.
	// Examples: "Pipeline", "RareLabelEncoder", "LogisticRegression"
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies a training run. The CLI uses a UUID.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the machine learning operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// StepKey names the pipeline step being executed.
	StepKey = "ml.step"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of rows in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of columns in the dataset.
	FeaturesKey = "data.features"

	// DataFileKey records the path of the dataset being read.
	DataFileKey = "data.file"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records model accuracy.
	AccuracyKey = "metrics.accuracy"

	// ROCAUCKey records the area under the ROC curve.
	ROCAUCKey = "metrics.roc_auc"

	// IterationKey records the number of solver iterations.
	IterationKey = "training.iteration"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Hyperparameters and Configuration
const (
	// RegularizationKey records the inverse regularization strength C.
	RegularizationKey = "hyperparams.C"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ConfigVersionKey tracks the model version.
	ConfigVersionKey = "config.version"
)

// ErrAttrKey and StacktraceAttrKey carry an error and its stack trace.
const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"

	PhaseTraining      = "training"
	PhaseTesting       = "testing"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
)
