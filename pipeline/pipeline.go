// Package pipeline composes preprocessing steps and a final classifier into a
// single estimator with fit/transform/predict semantics.
//
// A Pipeline has two modes: untrained and fitted. Fit is the only transition;
// a fitted pipeline is read-only and refuses to be fitted again.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/titanic/core/frame"
	"github.com/YuminosukeSato/titanic/core/model"
	"github.com/YuminosukeSato/titanic/metrics"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"github.com/YuminosukeSato/titanic/pkg/log"
)

// Step is a named preprocessing stage.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// Pipeline applies its steps in declaration order and feeds the result to the
// final classifier.
type Pipeline struct {
	model.StateManager

	Steps     []Step
	FinalName string
	Final     model.Classifier

	// OutputFeatures are the column names the classifier was fitted on.
	OutputFeatures []string

	// RunID identifies the training run that produced the fitted parameters.
	RunID string

	logger log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for fit and predict events.
func WithLogger(l log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithRunID sets the run identifier. By default a random UUID is used.
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		p.RunID = id
	}
}

// New creates an untrained pipeline. Step names, including finalName, must be
// non-empty and unique.
func New(steps []Step, finalName string, final model.Classifier, opts ...Option) (*Pipeline, error) {
	names := make(map[string]bool, len(steps)+1)
	check := func(name string, isNil bool) error {
		if name == "" {
			return errors.NewValidationError("steps", "step name must not be empty", name)
		}
		if names[name] {
			return errors.NewValidationError("steps", "duplicate step name", name)
		}
		if isNil {
			return errors.NewValidationError("steps", "step has no estimator", name)
		}
		names[name] = true
		return nil
	}
	for _, s := range steps {
		if err := check(s.Name, s.Transformer == nil); err != nil {
			return nil, err
		}
	}
	if err := check(finalName, final == nil); err != nil {
		return nil, err
	}

	p := &Pipeline{
		Steps:     append([]Step(nil), steps...),
		FinalName: finalName,
		Final:     final,
		RunID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Pipeline) log() log.Logger {
	if p.logger == nil {
		p.logger = log.GetLogger()
	}
	return p.logger.With(log.ComponentKey, "pipeline", log.EstimatorIDKey, p.RunID)
}

// SetLogger replaces the logger, typically after Load.
func (p *Pipeline) SetLogger(l log.Logger) {
	p.logger = l
}

// Names returns the step names in order, ending with the classifier.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.Steps)+1)
	for _, s := range p.Steps {
		names = append(names, s.Name)
	}
	return append(names, p.FinalName)
}

// Step returns the named preprocessing step.
func (p *Pipeline) Step(name string) (model.Transformer, bool) {
	for _, s := range p.Steps {
		if s.Name == name {
			return s.Transformer, true
		}
	}
	return nil, false
}

// Fit fits every step on the output of the previous one, then fits the
// classifier on the final representation. X and y must describe the same rows
// in the same order.
func (p *Pipeline) Fit(X *frame.Frame, y mat.Vector) error {
	logger := p.log()
	if p.IsFitted() {
		return errors.Wrap(errors.ErrAlreadyFitted, "pipeline cannot be re-fitted")
	}
	if X == nil || X.NRows() == 0 {
		return errors.NewModelError("Pipeline.Fit", "empty data", errors.ErrEmptyData)
	}
	if y == nil {
		return errors.NewValueError("Pipeline.Fit", "labels are required")
	}
	if y.Len() != X.NRows() {
		return errors.NewDimensionError("Pipeline.Fit", X.NRows(), y.Len(), 0)
	}

	start := time.Now()
	logger.Info("fit started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, X.NRows(),
		log.FeaturesKey, X.NCols(),
	)

	cur := X
	for _, s := range p.Steps {
		stepStart := time.Now()
		out, err := runStep(s.Name, "Fit", func() (*frame.Frame, error) {
			return model.FitTransform(s.Transformer, cur, y)
		})
		if err == nil {
			err = checkRows(s.Name, X, out)
		}
		if err != nil {
			logger.Error("step failed", log.StepKey, s.Name, log.OperationKey, log.OperationFitTransform, log.ErrAttrKey, err)
			return err
		}
		logger.Debug("step fitted",
			log.StepKey, s.Name,
			log.FeaturesKey, out.NCols(),
			log.DurationMsKey, time.Since(stepStart).Milliseconds(),
		)
		cur = out
	}

	Xm, err := cur.Matrix()
	if err != nil {
		return errors.Wrapf(err, "pipeline step %q", p.FinalName)
	}
	yM := mat.NewDense(y.Len(), 1, nil)
	yM.SetCol(0, mat.Col(nil, 0, y))

	err = errors.SafeExecute("Pipeline.Fit/"+p.FinalName, func() error {
		return p.Final.Fit(Xm, yM)
	})
	if err != nil {
		logger.Error("step failed", log.StepKey, p.FinalName, log.OperationKey, log.OperationFit, log.ErrAttrKey, err)
		return errors.Wrapf(err, "pipeline step %q", p.FinalName)
	}

	p.OutputFeatures = cur.Names()
	p.SetFeatureNames(X.Names())
	p.SetDimensions(X.NCols(), X.NRows())
	p.SetFitted()

	logger.Info("fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, X.NRows(),
		log.FeaturesKey, len(p.OutputFeatures),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Transform applies the fitted preprocessing steps to X.
func (p *Pipeline) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := p.RequireFitted("Pipeline", "Transform"); err != nil {
		return nil, err
	}
	return p.transform(X)
}

func (p *Pipeline) transform(X *frame.Frame) (*frame.Frame, error) {
	if X == nil || X.NRows() == 0 {
		return nil, errors.NewModelError("Pipeline.Transform", "empty data", errors.ErrEmptyData)
	}
	for _, name := range p.FeatureNames {
		if !X.Has(name) {
			return nil, errors.NewColumnNotFoundError("Pipeline.Transform", name)
		}
	}
	cur := X
	for _, s := range p.Steps {
		out, err := runStep(s.Name, "Transform", func() (*frame.Frame, error) {
			return s.Transformer.Transform(cur)
		})
		if err == nil {
			err = checkRows(s.Name, X, out)
		}
		if err != nil {
			return nil, err
		}
		cur = out
	}
	return cur, nil
}

func (p *Pipeline) matrix(op string, X *frame.Frame) (*mat.Dense, error) {
	if err := p.RequireFitted("Pipeline", op); err != nil {
		return nil, err
	}
	out, err := p.transform(X)
	if err != nil {
		p.log().Error("transform failed", log.OperationKey, log.OperationPredict, log.ErrAttrKey, err)
		return nil, err
	}
	return out.Matrix()
}

// Predict returns the predicted class label for each row of X.
func (p *Pipeline) Predict(X *frame.Frame) (*mat.VecDense, error) {
	start := time.Now()
	Xm, err := p.matrix("Predict", X)
	if err != nil {
		return nil, err
	}
	var pred mat.Matrix
	err = errors.SafeExecute("Pipeline.Predict/"+p.FinalName, func() error {
		var perr error
		pred, perr = p.Final.Predict(Xm)
		return perr
	})
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline step %q", p.FinalName)
	}
	n, _ := pred.Dims()
	labels := mat.NewVecDense(n, mat.Col(nil, 0, pred))

	p.log().Info("predict completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, n,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return labels, nil
}

// PredictProba returns class probabilities, one column per entry of Classes().
func (p *Pipeline) PredictProba(X *frame.Frame) (mat.Matrix, error) {
	Xm, err := p.matrix("PredictProba", X)
	if err != nil {
		return nil, err
	}
	var proba mat.Matrix
	err = errors.SafeExecute("Pipeline.PredictProba/"+p.FinalName, func() error {
		var perr error
		proba, perr = p.Final.PredictProba(Xm)
		return perr
	})
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline step %q", p.FinalName)
	}
	return proba, nil
}

// PositiveProba returns the probability of the larger class label for each row.
func (p *Pipeline) PositiveProba(X *frame.Frame) (*mat.VecDense, error) {
	proba, err := p.PredictProba(X)
	if err != nil {
		return nil, err
	}
	_, c := proba.Dims()
	col := mat.Col(nil, c-1, proba)
	return mat.NewVecDense(len(col), col), nil
}

// Classes returns the labels seen by the classifier.
func (p *Pipeline) Classes() []int {
	return p.Final.Classes()
}

// Score returns the accuracy of Predict(X) against y.
func (p *Pipeline) Score(X *frame.Frame, y *mat.VecDense) (float64, error) {
	pred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, pred)
}

func runStep(name, method string, fn func() (*frame.Frame, error)) (out *frame.Frame, err error) {
	err = errors.SafeExecute(fmt.Sprintf("Pipeline.%s/%s", method, name), func() error {
		var ferr error
		out, ferr = fn()
		return ferr
	})
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline step %q", name)
	}
	return out, nil
}

// checkRows asserts that a step kept the rows of X in the same order.
func checkRows(step string, X, out *frame.Frame) error {
	if out == nil {
		return errors.NewValueError("Pipeline", fmt.Sprintf("step %q returned no data", step))
	}
	if out.NRows() != X.NRows() {
		return errors.Wrapf(errors.NewDimensionError("Pipeline", X.NRows(), out.NRows(), 0), "pipeline step %q", step)
	}
	in, got := X.Index(), out.Index()
	for i := range in {
		if in[i] != got[i] {
			return errors.NewValueError("Pipeline", fmt.Sprintf("step %q changed row order at position %d", step, i))
		}
	}
	return nil
}
