package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/titanic/config"
	"github.com/YuminosukeSato/titanic/core/frame"
	"github.com/YuminosukeSato/titanic/dataset"
	"github.com/YuminosukeSato/titanic/linear"
	"github.com/YuminosukeSato/titanic/metrics"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"github.com/YuminosukeSato/titanic/pkg/log"
	"github.com/YuminosukeSato/titanic/preprocessing"
)

func split(t *testing.T) (cfg config.ModelConfig, train, test *dataset.Dataset) {
	t.Helper()
	cfg = config.Default().Model
	ds, err := dataset.ReadCSV(dataset.Sample(), cfg)
	require.NoError(t, err)
	train, test, err = dataset.TrainTestSplit(ds, cfg.TestSize, cfg.RandomState)
	require.NoError(t, err)
	return cfg, train, test
}

func quietLogger() log.Logger {
	l, _ := log.NewTestLogger(log.LevelError)
	return l
}

func fitted(t *testing.T) (*Pipeline, *dataset.Dataset, *dataset.Dataset) {
	t.Helper()
	cfg, train, test := split(t)
	p, err := NewTitanic(cfg, WithLogger(quietLogger()), WithRunID("test-run"))
	require.NoError(t, err)
	require.NoError(t, p.Fit(train.X, train.Y))
	return p, train, test
}

func TestNewTitanic(t *testing.T) {
	cfg := config.Default().Model
	p, err := NewTitanic(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		StepCategoricalImputation,
		StepMissingIndicator,
		StepMedianImputation,
		StepExtractLetter,
		StepRareLabelEncoder,
		StepCategoricalEncoder,
		StepScaler,
		StepLogit,
	}, p.Names())
	assert.NotEmpty(t, p.RunID)

	lr := p.Final.(*linear.LogisticRegression)
	assert.Equal(t, 0.0005, lr.C)
	assert.Equal(t, int64(0), lr.RandomState)

	rare, ok := p.Step(StepRareLabelEncoder)
	require.True(t, ok)
	assert.Equal(t, 0.05, rare.(*preprocessing.RareLabelEncoder).Tol)
	assert.Equal(t, "Rare", rare.(*preprocessing.RareLabelEncoder).ReplaceWith)

	cfg.CabinVars = nil
	_, err = NewTitanic(cfg)
	assert.True(t, errors.Is(err, config.ErrEmptyRoleList))
}

func TestNew_Validation(t *testing.T) {
	imputer := preprocessing.NewCategoricalImputer([]string{"sex"})
	lr := linear.NewLogisticRegression()

	tests := []struct {
		name  string
		steps []Step
		final string
	}{
		{"empty step name", []Step{{"", imputer}}, "clf"},
		{"duplicate step name", []Step{{"a", imputer}, {"a", imputer}}, "clf"},
		{"final name collides", []Step{{"clf", imputer}}, "clf"},
		{"nil transformer", []Step{{"a", nil}}, "clf"},
		{"empty final name", []Step{{"a", imputer}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.steps, tt.final, lr)
			var ve *errors.ValidationError
			assert.True(t, errors.As(err, &ve), "got %v", err)
		})
	}
}

func TestFitPredict(t *testing.T) {
	p, train, test := fitted(t)

	pred, err := p.Predict(test.X)
	require.NoError(t, err)
	assert.Equal(t, test.Len(), pred.Len())
	for i := 0; i < pred.Len(); i++ {
		assert.Contains(t, []float64{0, 1}, pred.AtVec(i))
	}

	proba, err := p.PredictProba(test.X)
	require.NoError(t, err)
	r, c := proba.Dims()
	assert.Equal(t, test.Len(), r)
	assert.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		assert.InDelta(t, 1.0, proba.At(i, 0)+proba.At(i, 1), 1e-12)
		// 予測ラベルは確率と整合する
		assert.Equal(t, proba.At(i, 1) > 0.5, pred.AtVec(i) == 1)
	}
	assert.Equal(t, []int{0, 1}, p.Classes())

	score, err := p.PositiveProba(train.X)
	require.NoError(t, err)
	auc, err := metrics.ROCAUC(train.Y, score)
	require.NoError(t, err)
	assert.Greater(t, auc, 0.6)

	acc, err := p.Score(test.X, test.Y)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
}

func TestTransform_FeatureSpace(t *testing.T) {
	p, train, test := fitted(t)

	out, err := p.Transform(test.X)
	require.NoError(t, err)
	assert.Equal(t, p.OutputFeatures, out.Names())
	assert.Equal(t, test.X.Index(), out.Index())

	_, err = out.Matrix()
	require.NoError(t, err)

	// 欠損指標はデータに欠損のあった age だけに付く
	assert.Contains(t, out.Names(), "age_na")
	for _, v := range []string{"sex", "cabin", "embarked", "title"} {
		assert.NotContains(t, out.Names(), v)
	}

	// One-hot は各変数 k-1 列
	step, _ := p.Step(StepCategoricalEncoder)
	enc := step.(*preprocessing.OneHotEncoder)
	encoded := encoderInput(t, p, train.X)
	for _, v := range []string{"sex", "cabin", "embarked", "title"} {
		col, err := encoded.Column(v)
		require.NoError(t, err)
		values, _ := col.Strings()
		distinct := make(map[string]bool)
		for _, s := range values {
			distinct[s] = true
		}
		assert.Len(t, enc.EncoderDict[v], len(distinct)-1, v)
	}

	again, err := p.Transform(test.X)
	require.NoError(t, err)
	m1, _ := out.Matrix()
	m2, _ := again.Matrix()
	assert.True(t, mat.Equal(m1, m2))
}

// encoderInput runs the steps before the one-hot encoder on X.
func encoderInput(t *testing.T, p *Pipeline, X *frame.Frame) *frame.Frame {
	t.Helper()
	cur := X
	for _, s := range p.Steps {
		if s.Name == StepCategoricalEncoder {
			break
		}
		var err error
		cur, err = s.Transformer.Transform(cur)
		require.NoError(t, err)
	}
	return cur
}

func TestPredict_UnseenCategories(t *testing.T) {
	p, _, _ := fitted(t)

	in := `pclass,name,sex,age,sibsp,parch,fare,cabin,embarked
3,"Nobody, Sir. X",male,?,0,0,?,Z99,Z
1,"Somebody, Mrs. Y",female,40,1,0,80,B22,C
`
	ds, err := dataset.ReadCSV(strings.NewReader(in), config.Default().Model)
	require.NoError(t, err)

	pred, err := p.Predict(ds.X)
	require.NoError(t, err)
	assert.Equal(t, 2, pred.Len())
}

func TestDeterministic(t *testing.T) {
	a, _, test := fitted(t)
	b, _, _ := fitted(t)

	pa, err := a.PredictProba(test.X)
	require.NoError(t, err)
	pb, err := b.PredictProba(test.X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(pa, pb))

	la := a.Final.(*linear.LogisticRegression)
	lb := b.Final.(*linear.LogisticRegression)
	assert.Equal(t, la.Coef, lb.Coef)
	assert.Equal(t, la.Intercept, lb.Intercept)
}

func TestErrors(t *testing.T) {
	cfg, train, test := split(t)

	t.Run("predict before fit", func(t *testing.T) {
		p, err := NewTitanic(cfg, WithLogger(quietLogger()))
		require.NoError(t, err)
		_, err = p.Predict(test.X)
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("refit refused", func(t *testing.T) {
		p, _, _ := fitted(t)
		err := p.Fit(train.X, train.Y)
		assert.True(t, errors.Is(err, errors.ErrAlreadyFitted))
	})

	t.Run("row mismatch", func(t *testing.T) {
		p, err := NewTitanic(cfg, WithLogger(quietLogger()))
		require.NoError(t, err)
		err = p.Fit(train.X, test.Y)
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))
		assert.False(t, p.IsFitted())
	})

	t.Run("missing column at predict", func(t *testing.T) {
		p, _, _ := fitted(t)
		X := test.X.Copy()
		require.NoError(t, X.Drop("cabin"))
		_, err := p.Predict(X)
		var cnf *errors.ColumnNotFoundError
		require.True(t, errors.As(err, &cnf))
		assert.Equal(t, "cabin", cnf.Column)
	})

	t.Run("step error carries step name", func(t *testing.T) {
		p, err := NewTitanic(cfg, WithLogger(quietLogger()))
		require.NoError(t, err)
		X := train.X.Copy()
		require.NoError(t, X.Set(frame.NewNumeric("cabin", make([]float64, X.NRows()))))
		err = p.Fit(X, train.Y)
		require.Error(t, err)
		assert.Contains(t, err.Error(), StepCategoricalImputation)
	})
}

type panicking struct{}

func (panicking) Fit(*frame.Frame, mat.Vector) error { return nil }
func (panicking) Transform(*frame.Frame) (*frame.Frame, error) {
	panic("boom")
}

func TestPanicRecovered(t *testing.T) {
	_, train, _ := split(t)
	p, err := New([]Step{{"explode", panicking{}}}, "clf", linear.NewLogisticRegression(), WithLogger(quietLogger()))
	require.NoError(t, err)

	err = p.Fit(train.X, train.Y)
	var pe *errors.PanicError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Operation, "explode")
	assert.Contains(t, err.Error(), "explode")
}

func TestLogging(t *testing.T) {
	cfg, train, test := split(t)
	logger, _ := log.NewTestLogger(log.LevelDebug)

	p, err := NewTitanic(cfg, WithLogger(logger), WithRunID("run-42"))
	require.NoError(t, err)
	require.NoError(t, p.Fit(train.X, train.Y))
	_, err = p.Predict(test.X)
	require.NoError(t, err)

	done := logger.EntriesWithMessage("fit completed")
	require.Len(t, done, 1)
	assert.Equal(t, float64(train.Len()), done[0][log.SamplesKey])
	assert.Equal(t, "run-42", done[0][log.EstimatorIDKey])

	assert.Len(t, logger.EntriesWithMessage("step fitted"), 7)
	assert.True(t, logger.ContainsField(log.StepKey, StepScaler))
	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationPredict))
}

func TestSaveLoad(t *testing.T) {
	p, _, test := fitted(t)

	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	loaded.SetLogger(quietLogger())
	assert.Equal(t, p.Names(), loaded.Names())
	assert.Equal(t, "test-run", loaded.RunID)

	want, err := p.PredictProba(test.X)
	require.NoError(t, err)
	got, err := loaded.PredictProba(test.X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))

	// 読み込んだパイプラインも再学習できない
	assert.True(t, errors.Is(loaded.Fit(test.X, test.Y), errors.ErrAlreadyFitted))

	unfitted, _ := NewTitanic(config.Default().Model)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(unfitted.Save(&buf), &nf))
}

func TestSaveVersioned(t *testing.T) {
	p, _, test := fitted(t)
	dir := t.TempDir()
	prefix := config.Default().App.PipelineSaveFile

	old := filepath.Join(dir, prefix+"0.0.1.gob")
	require.NoError(t, os.WriteFile(old, []byte("stale"), 0o600))

	path, err := p.SaveVersioned(dir, prefix, config.Version)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, prefix+config.Version+".gob"), path)

	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	loaded.SetLogger(quietLogger())
	pred, err := loaded.Predict(test.X)
	require.NoError(t, err)
	assert.Equal(t, test.Len(), pred.Len())
}
