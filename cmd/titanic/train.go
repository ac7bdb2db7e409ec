package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/titanic/config"
	"github.com/YuminosukeSato/titanic/dataset"
	"github.com/YuminosukeSato/titanic/pipeline"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"github.com/YuminosukeSato/titanic/pkg/log"
	"github.com/YuminosukeSato/titanic/report"
)

// trainOptions holds the flags of the train command.
type trainOptions struct {
	data      string
	sample    bool
	outputDir string
	report    string
	plot      string
}

// NewTrainCmd creates the train command.
func NewTrainCmd() *cobra.Command {
	opts := &trainOptions{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the survival pipeline and save it",
		Long: `Train loads the raw titanic data, splits it into train and test sets,
fits the preprocessing and logistic regression pipeline on the train set,
evaluates it on both sets, and saves the fitted pipeline.

The pipeline is written to <trained_models_dir>/<pipeline_save_file><version>.gob.
Older versions in the same directory are removed.

Examples:
  # Train on the file named by training_data_file
  titanic train

  # Train on a specific file and write a report with a ROC curve
  titanic train --data raw.csv --report report.md --plot roc.png

  # Train on the bundled sample
  titanic train --sample -o ./models`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "Training data CSV (default: training_data_file from the configuration)")
	cmd.Flags().BoolVar(&opts.sample, "sample", false, "Train on the bundled sample data")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Directory to save the pipeline to (default: trained_models_dir or the XDG data directory)")
	cmd.Flags().StringVar(&opts.report, "report", "", "Write a Markdown training report to this file")
	cmd.Flags().StringVar(&opts.plot, "plot", "", "Write a ROC curve image to this file (format from extension, e.g. .png)")
	cmd.MarkFlagsMutuallyExclusive("data", "sample")

	return cmd
}

func runTrain(cmd *cobra.Command, opts *trainOptions) error {
	cfg, source, err := setup(cmd)
	if err != nil {
		return err
	}
	logger := log.GetLogger().With(log.ComponentKey, "train")

	ds, dataFile, err := loadTrainingData(cfg, opts)
	if err != nil {
		return err
	}
	logger.Info("data loaded", log.DataFileKey, dataFile, log.SamplesKey, ds.Len())

	train, test, err := dataset.TrainTestSplit(ds, cfg.Model.TestSize, cfg.Model.RandomState)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	p, err := pipeline.NewTitanic(cfg.Model, pipeline.WithRunID(runID))
	if err != nil {
		return err
	}
	if err := p.Fit(train.X, train.Y); err != nil {
		return errors.Wrap(err, "training failed")
	}

	trainEval, err := evaluate(p, "train", train)
	if err != nil {
		return err
	}
	testEval, err := evaluate(p, "test", test)
	if err != nil {
		return err
	}
	for _, e := range []report.Evaluation{trainEval, testEval} {
		logger.Info("evaluation",
			log.PhaseKey, e.Name,
			log.SamplesKey, e.Samples,
			log.AccuracyKey, e.Accuracy,
			log.ROCAUCKey, e.ROCAUC,
		)
	}

	dir := opts.outputDir
	if dir == "" {
		dir = cfg.ModelDir()
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}
	path, err := p.SaveVersioned(dir, cfg.App.PipelineSaveFile, config.Version)
	if err != nil {
		return err
	}

	if opts.report != "" {
		if err := writeReport(opts.report, &report.Training{
			RunID:       runID,
			Version:     config.Version,
			TrainedAt:   time.Now(),
			Config:      cfg,
			ConfigPath:  source,
			ModelPath:   path,
			Features:    p.OutputFeatures,
			Evaluations: []report.Evaluation{trainEval, testEval},
		}); err != nil {
			return err
		}
		logger.Info("report written", log.DataFileKey, opts.report)
	}

	if opts.plot != "" {
		if err := plotCurves(opts.plot, p, train, test); err != nil {
			return err
		}
		logger.Info("plot written", log.DataFileKey, opts.plot)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved pipeline: %s\n", path)
	fmt.Fprintf(cmd.OutOrStdout(), "  run:      %s\n", runID)
	fmt.Fprintf(cmd.OutOrStdout(), "  accuracy: train %.4f, test %.4f\n", trainEval.Accuracy, testEval.Accuracy)
	fmt.Fprintf(cmd.OutOrStdout(), "  roc-auc:  train %.4f, test %.4f\n", trainEval.ROCAUC, testEval.ROCAUC)
	return nil
}

func loadTrainingData(cfg *config.Config, opts *trainOptions) (*dataset.Dataset, string, error) {
	if opts.sample {
		ds, err := dataset.ReadCSV(dataset.Sample(), cfg.Model)
		return ds, "sample", err
	}
	path := opts.data
	if path == "" {
		path = cfg.App.TrainingDataFile
	}
	if path == "" {
		return nil, "", errors.New("no training data: set training_data_file or use --data")
	}
	ds, err := dataset.LoadFile(path, cfg.Model)
	if err != nil {
		return nil, "", err
	}
	if ds.Y == nil {
		return nil, "", errors.Newf("%s has no %q column", path, cfg.Model.Target)
	}
	return ds, path, nil
}

func evaluate(p *pipeline.Pipeline, name string, ds *dataset.Dataset) (report.Evaluation, error) {
	pred, err := p.Predict(ds.X)
	if err != nil {
		return report.Evaluation{}, err
	}
	proba, err := p.PositiveProba(ds.X)
	if err != nil {
		return report.Evaluation{}, err
	}
	return report.Evaluate(name, ds.Y, pred, proba)
}

func writeReport(path string, t *report.Training) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := report.NewMarkdownWriter(f).Write(t); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to write report")
	}
	return errors.Wrap(f.Close(), "failed to close report")
}

func plotCurves(path string, p *pipeline.Pipeline, sets ...*dataset.Dataset) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	names := []string{"train", "test"}
	curves := make([]report.ROCCurve, 0, len(sets))
	for i, ds := range sets {
		proba, err := p.PositiveProba(ds.X)
		if err != nil {
			return err
		}
		curves = append(curves, report.ROCCurve{Name: names[i], YTrue: ds.Y, YScore: proba})
	}
	return report.SaveROCPlot(path, curves...)
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return errors.Wrap(os.MkdirAll(dir, 0750), "failed to create directory")
}
