package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/titanic/pkg/errors"
)

func separable() (*mat.Dense, *mat.Dense) {
	// Class 0: points around (1, 1)
	// Class 1: points around (3, 3)
	X := mat.NewDense(6, 2, []float64{
		0.5, 0.5,
		1.0, 1.5,
		1.5, 1.0,
		3.0, 2.5,
		2.5, 3.0,
		3.5, 3.5,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})
	return X, y
}

func TestLogisticRegression_FitPredict_Binary(t *testing.T) {
	X, y := separable()

	lr := NewLogisticRegression(WithMaxIter(1000), WithRandomState(0))
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, []int{0, 1}, lr.Classes())

	pred, err := lr.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		assert.Equal(t, y.At(i, 0), pred.At(i, 0), "sample %d", i)
	}

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	XTest := mat.NewDense(2, 2, []float64{1, 1, 3, 3})
	testPred, err := lr.Predict(XTest)
	require.NoError(t, err)
	assert.Equal(t, 0.0, testPred.At(0, 0))
	assert.Equal(t, 1.0, testPred.At(1, 0))
}

func TestLogisticRegression_PredictProba(t *testing.T) {
	X, y := separable()
	lr := NewLogisticRegression(WithRandomState(0))
	require.NoError(t, lr.Fit(X, y))

	proba, err := lr.PredictProba(X)
	require.NoError(t, err)
	r, c := proba.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 2, c)

	scores, err := lr.DecisionFunction(X)
	require.NoError(t, err)
	for i := 0; i < r; i++ {
		assert.InDelta(t, 1.0, proba.At(i, 0)+proba.At(i, 1), 1e-12)
		assert.InDelta(t, 1/(1+math.Exp(-scores.AtVec(i))), proba.At(i, 1), 1e-12)
	}
	assert.Greater(t, proba.At(5, 1), proba.At(0, 1))
}

// 強い正則化では係数が 0 に近づき、切片はクラス比の対数オッズに近づく
func TestLogisticRegression_StrongRegularization(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{-2, -1, 0, 1, 2, 3, 4, 5})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 1, 1, 1, 1, 1})

	weak := NewLogisticRegression(WithC(1), WithRandomState(0))
	require.NoError(t, weak.Fit(X, y))
	strong := NewLogisticRegression(WithC(0.0005), WithRandomState(0))
	require.NoError(t, strong.Fit(X, y))

	assert.Less(t, math.Abs(strong.Coef[0]), math.Abs(weak.Coef[0]))
	assert.Less(t, math.Abs(strong.Coef[0]), 0.01)
	assert.Greater(t, strong.Intercept, 0.0)
}

// 最適解で勾配が 0 になることを数値微分で確認する
func TestLogisticRegression_Gradient(t *testing.T) {
	X, y := separable()
	lr := NewLogisticRegression(WithC(0.5))
	target := make([]float64, 6)
	for i := range target {
		target[i] = 2*y.At(i, 0) - 1
	}

	w := []float64{0.3, -0.2, 0.1}
	grad := make([]float64, 3)
	lr.objective(X, target, w, grad)

	const h = 1e-6
	for j := range w {
		plus := append([]float64(nil), w...)
		minus := append([]float64(nil), w...)
		plus[j] += h
		minus[j] -= h
		numeric := (lr.objective(X, target, plus, nil) - lr.objective(X, target, minus, nil)) / (2 * h)
		assert.InDelta(t, numeric, grad[j], 1e-5, "coordinate %d", j)
	}
}

func TestLogisticRegression_Deterministic(t *testing.T) {
	X, y := separable()
	a := NewLogisticRegression(WithC(0.0005), WithRandomState(0))
	b := NewLogisticRegression(WithC(0.0005), WithRandomState(0))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	assert.Equal(t, a.Coef, b.Coef)
	assert.Equal(t, a.Intercept, b.Intercept)
}

func TestLogisticRegression_Errors(t *testing.T) {
	X, y := separable()

	t.Run("not fitted", func(t *testing.T) {
		_, err := NewLogisticRegression().Predict(X)
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("single class", func(t *testing.T) {
		ones := mat.NewDense(6, 1, []float64{1, 1, 1, 1, 1, 1})
		err := NewLogisticRegression().Fit(X, ones)
		var ve *errors.ValueError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("three classes", func(t *testing.T) {
		labels := mat.NewDense(6, 1, []float64{0, 1, 2, 0, 1, 2})
		err := NewLogisticRegression().Fit(X, labels)
		var ve *errors.ValueError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("row mismatch", func(t *testing.T) {
		short := mat.NewDense(5, 1, []float64{0, 1, 0, 1, 0})
		err := NewLogisticRegression().Fit(X, short)
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))
	})

	t.Run("invalid C", func(t *testing.T) {
		err := NewLogisticRegression(WithC(0)).Fit(X, y)
		var ve *errors.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("feature mismatch", func(t *testing.T) {
		lr := NewLogisticRegression()
		require.NoError(t, lr.Fit(X, y))
		_, err := lr.Predict(mat.NewDense(1, 3, nil))
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))
	})
}

func TestLogisticRegression_ConvergenceWarning(t *testing.T) {
	X, y := separable()

	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	lr := NewLogisticRegression(WithC(1e4), WithMaxIter(1), WithTol(1e-12))
	require.NoError(t, lr.Fit(X, y))
	require.NotEmpty(t, warnings)
	var cw *errors.ConvergenceWarning
	assert.True(t, errors.As(warnings[0], &cw))
	assert.Equal(t, "lbfgs", cw.Algorithm)
}
