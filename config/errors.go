package config

import "github.com/YuminosukeSato/titanic/pkg/errors"

// Configuration validation errors.
// These errors are returned by Config.Validate(), possibly wrapped with the
// offending field, and can be matched with errors.Is().
var (
	// ErrConfigNotFound is returned when an explicitly given configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrNoTarget is returned when the target variable is not set.
	ErrNoTarget = errors.New("no target variable specified")

	// ErrNoFeatures is returned when the feature list is empty.
	ErrNoFeatures = errors.New("no features specified")

	// ErrEmptyRoleList is returned when one of numerical_vars, categorical_vars
	// or cabin_vars is empty.
	ErrEmptyRoleList = errors.New("variable role list must not be empty")

	// ErrUnknownVariable is returned when a role list names a variable that is
	// not among the features.
	ErrUnknownVariable = errors.New("variable is not a feature")

	// ErrOverlappingRoles is returned when a variable is both numerical and categorical,
	// or when the target is also listed as a feature.
	ErrOverlappingRoles = errors.New("variable has conflicting roles")

	// ErrCabinNotCategorical is returned when a cabin variable is not categorical.
	ErrCabinNotCategorical = errors.New("cabin variable must be categorical")

	// ErrInvalidTestSize is returned when test_size is outside (0, 1).
	ErrInvalidTestSize = errors.New("invalid test_size: must be in (0, 1)")

	// ErrInvalidC is returned when C is not positive.
	ErrInvalidC = errors.New("invalid C: must be positive")

	// ErrInvalidRareLabelTol is returned when rare_label_tol is outside [0, 1].
	ErrInvalidRareLabelTol = errors.New("invalid rare_label_tol: must be in [0, 1]")

	// ErrInvalidRareLabelNCategories is returned when rare_label_n_categories is negative.
	ErrInvalidRareLabelNCategories = errors.New("invalid rare_label_n_categories: must be non-negative")
)
