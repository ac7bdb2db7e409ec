package pipeline

import (
	"github.com/YuminosukeSato/titanic/config"
	"github.com/YuminosukeSato/titanic/linear"
	"github.com/YuminosukeSato/titanic/preprocessing"
)

// Step names of the titanic pipeline.
const (
	StepCategoricalImputation = "categorical_imputation"
	StepMissingIndicator      = "missing_indicator"
	StepMedianImputation      = "median_imputation"
	StepExtractLetter         = "extract_letter"
	StepRareLabelEncoder      = "rare_label_encoder"
	StepCategoricalEncoder    = "categorical_encoder"
	StepScaler                = "scaler"
	StepLogit                 = "Logit"
)

// NewTitanic builds the survival classification pipeline:
//
//  1. impute categorical variables with "Missing"
//  2. add missing indicators to numerical variables
//  3. impute numerical variables with the median
//  4. extract the first letter of cabin variables
//  5. group categories present in less than rare_label_tol of rows into "Rare"
//  6. one-hot encode categorical variables into k-1 columns
//  7. standardize every feature
//  8. logistic regression with C and random_state from cfg
func NewTitanic(cfg config.ModelConfig, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extractor, err := preprocessing.NewExtractLetterTransformer(cfg.CabinVars)
	if err != nil {
		return nil, err
	}

	rare := preprocessing.NewRareLabelEncoder(cfg.CategoricalVars)
	rare.Tol = cfg.RareLabelTol
	rare.NCategories = cfg.RareLabelNCategories

	steps := []Step{
		{StepCategoricalImputation, preprocessing.NewCategoricalImputer(cfg.CategoricalVars)},
		{StepMissingIndicator, preprocessing.NewAddMissingIndicator(cfg.NumericalVars)},
		{StepMedianImputation, preprocessing.NewMeanMedianImputer(cfg.NumericalVars)},
		{StepExtractLetter, extractor},
		{StepRareLabelEncoder, rare},
		{StepCategoricalEncoder, preprocessing.NewOneHotEncoder(cfg.CategoricalVars, true)},
		{StepScaler, preprocessing.NewStandardScalerDefault()},
	}

	logit := linear.NewLogisticRegression(
		linear.WithC(cfg.C),
		linear.WithRandomState(cfg.RandomState),
	)
	return New(steps, StepLogit, logit, opts...)
}
