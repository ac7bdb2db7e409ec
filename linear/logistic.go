package linear

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/YuminosukeSato/titanic/core/model"
	"github.com/YuminosukeSato/titanic/core/parallel"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// LogisticRegression implements binary L2-regularised logistic regression.
// Compatible with scikit-learn's LogisticRegression(penalty="l2", solver="lbfgs").
//
// Fit minimises
//
//	0.5*||w||^2 + C * sum_i log(1 + exp(-y_i * (x_i.w + b)))
//
// with L-BFGS. The intercept b is not penalised.
type LogisticRegression struct {
	model.StateManager

	// Hyperparameters
	C            float64 // Inverse regularization strength
	FitIntercept bool    // Whether to fit intercept
	RandomState  int64   // Seed for the initial weights; negative means unseeded
	MaxIter      int     // Maximum L-BFGS iterations
	Tol          float64 // Gradient norm threshold

	// Model parameters
	Coef        []float64 // Coefficients (n_features)
	Intercept   float64   // Intercept term
	ClassLabels []int     // Sorted class labels; ClassLabels[1] is the positive class
	NIter       int       // Iterations used by the last fit
}

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		C:            1.0,
		FitIntercept: true,
		RandomState:  -1,
		MaxIter:      100,
		Tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

func (lr *LogisticRegression) validateParams() error {
	if lr.C <= 0 || math.IsNaN(lr.C) || math.IsInf(lr.C, 0) {
		return errors.NewValidationError("C", "must be a positive finite number", lr.C)
	}
	if lr.MaxIter <= 0 {
		return errors.NewValidationError("max_iter", "must be positive", lr.MaxIter)
	}
	if lr.Tol <= 0 {
		return errors.NewValidationError("tol", "must be positive", lr.Tol)
	}
	return nil
}

// Fit trains the logistic regression model. y must be a column vector holding
// exactly two distinct integer labels.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	if err := lr.validateParams(); err != nil {
		return err
	}

	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}

	classes, err := extractClasses(y)
	if err != nil {
		return err
	}

	// Labels as +1 / -1
	target := make([]float64, nSamples)
	for i := range target {
		if int(y.At(i, 0)) == classes[1] {
			target[i] = 1
		} else {
			target[i] = -1
		}
	}

	Xd := mat.DenseCopyOf(X)
	dim := nFeatures
	if lr.FitIntercept {
		dim++
	}

	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			return lr.objective(Xd, target, w, nil)
		},
		Grad: func(grad, w []float64) {
			lr.objective(Xd, target, w, grad)
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: lr.Tol,
		MajorIterations:   lr.MaxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: lr.MaxIter,
		},
	}

	result, err := optimize.Minimize(problem, lr.initialWeights(dim), settings, &optimize.LBFGS{})
	if result == nil {
		return errors.NewModelError("LogisticRegression.Fit", "optimization failed", err)
	}
	if serr := errors.CheckNumericalStability("LogisticRegression.Fit", result.X); serr != nil {
		return serr
	}
	if err != nil {
		errors.Warn(errors.NewConvergenceWarning("lbfgs", result.MajorIterations, err.Error()))
	} else if result.Status == optimize.IterationLimit {
		errors.Warn(errors.NewConvergenceWarning("lbfgs", result.MajorIterations,
			fmt.Sprintf("iteration limit reached (max_iter=%d); increase max_iter or scale the data", lr.MaxIter)))
	}

	lr.Coef = append([]float64(nil), result.X[:nFeatures]...)
	lr.Intercept = 0
	if lr.FitIntercept {
		lr.Intercept = result.X[nFeatures]
	}
	lr.ClassLabels = classes
	lr.NIter = result.MajorIterations
	lr.SetDimensions(nFeatures, nSamples)
	lr.SetFitted()
	return nil
}

// objective returns the penalised loss at w divided by C*n_samples and, when
// grad is non-nil, stores its gradient. The scaling keeps Tol comparable with
// scikit-learn's lbfgs solver.
func (lr *LogisticRegression) objective(X *mat.Dense, target, w, grad []float64) float64 {
	nSamples, nFeatures := X.Dims()
	coef := w[:nFeatures]
	var b float64
	if lr.FitIntercept {
		b = w[nFeatures]
	}

	if grad != nil {
		for j := range grad {
			grad[j] = 0
		}
	}

	loss := 0.0
	for i := 0; i < nSamples; i++ {
		row := X.RawRowView(i)
		z := floats.Dot(row, coef) + b
		yz := target[i] * z
		loss += errors.Log1pExp(-yz)
		if grad != nil {
			// d/dz log(1+exp(-y z)) = -y * sigmoid(-y z)
			g := -target[i] * errors.Sigmoid(-yz) * lr.C
			floats.AddScaled(grad[:nFeatures], g, row)
			if lr.FitIntercept {
				grad[nFeatures] += g
			}
		}
	}

	scale := 1 / (lr.C * float64(nSamples))
	if grad != nil {
		floats.AddScaled(grad[:nFeatures], 1, coef)
		floats.Scale(scale, grad)
	}
	return scale * (0.5*floats.Dot(coef, coef) + lr.C*loss)
}

// initialWeights returns small random starting weights drawn from RandomState.
func (lr *LogisticRegression) initialWeights(dim int) []float64 {
	var rng *rand.Rand
	if lr.RandomState >= 0 {
		rng = rand.New(rand.NewSource(lr.RandomState))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	w := make([]float64, dim)
	for j := range w {
		w[j] = rng.NormFloat64() * 0.01
	}
	return w
}

// extractClasses identifies the two class labels in ascending order
func extractClasses(y mat.Matrix) ([]int, error) {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if v != math.Trunc(v) {
			return nil, errors.NewValueError("LogisticRegression.Fit", fmt.Sprintf("labels must be integers, got %v", v))
		}
		seen[int(v)] = true
	}
	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	if len(classes) != 2 {
		return nil, errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("binary classification requires exactly 2 classes, got %d: %v", len(classes), classes))
	}
	return classes, nil
}

// DecisionFunction returns the signed distance x.w + b for each sample
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if err := lr.RequireFitted("LogisticRegression", "DecisionFunction"); err != nil {
		return nil, err
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != len(lr.Coef) {
		return nil, errors.NewDimensionError("LogisticRegression.DecisionFunction", len(lr.Coef), nFeatures, 1)
	}
	scores := mat.NewVecDense(nSamples, nil)
	scores.MulVec(X, mat.NewVecDense(nFeatures, lr.Coef))
	for i := 0; i < nSamples; i++ {
		scores.SetVec(i, scores.AtVec(i)+lr.Intercept)
	}
	return scores, nil
}

// PredictProba returns class probabilities (n_samples x 2). Column j is the
// probability of ClassLabels[j].
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	n := scores.Len()
	proba := mat.NewDense(n, 2, nil)
	parallel.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			p := errors.Sigmoid(scores.AtVec(i))
			proba.Set(i, 0, 1-p)
			proba.Set(i, 1, p)
		}
	})
	return proba, nil
}

// Predict returns the predicted class label for each sample (n_samples x 1)
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.RequireFitted("LogisticRegression", "Predict"); err != nil {
		return nil, err
	}
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	n := scores.Len()
	pred := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		label := lr.ClassLabels[0]
		if scores.AtVec(i) > 0 {
			label = lr.ClassLabels[1]
		}
		pred.Set(i, 0, float64(label))
	}
	return pred, nil
}

// Classes returns the class labels seen during fit
func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.ClassLabels...)
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if yRows != nSamples {
		return 0, errors.NewDimensionError("LogisticRegression.Score", nSamples, yRows, 0)
	}
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       "l2",
		"C":             lr.C,
		"fit_intercept": lr.FitIntercept,
		"random_state":  lr.RandomState,
		"solver":        "lbfgs",
		"max_iter":      lr.MaxIter,
		"tol":           lr.Tol,
	}
}
