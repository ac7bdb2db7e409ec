package main

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/titanic/config"
	"github.com/YuminosukeSato/titanic/core/model"
	"github.com/YuminosukeSato/titanic/dataset"
	"github.com/YuminosukeSato/titanic/pipeline"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"github.com/YuminosukeSato/titanic/pkg/log"
)

// NewPredictCmd creates the predict command.
func NewPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [input.csv]",
		Short: "Score passenger records with a saved pipeline",
		Long: `Predict loads a fitted pipeline and writes one "prediction,probability" row
per input record, in input order. The input uses the raw titanic CSV format;
the survived column is optional and ignored.

If --model is not given, the current version saved by "titanic train" in the
model directory is used.

Examples:
  titanic predict passengers.csv
  titanic predict --model ./models/titanic_pipeline_output_v0.1.0.gob -o out.csv passengers.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runPredict,
	}

	cmd.Flags().StringP("model", "m", "", "Path to a saved pipeline")
	cmd.Flags().StringP("output", "o", "", "Output CSV file (default: stdout)")

	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	modelPath, err := cmd.Flags().GetString("model")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if modelPath == "" {
		modelPath = filepath.Join(cfg.ModelDir(), model.VersionedFileName(cfg.App.PipelineSaveFile, config.Version))
	}

	p, err := pipeline.LoadFile(modelPath)
	if err != nil {
		return err
	}
	ds, err := dataset.LoadFile(args[0], cfg.Model)
	if err != nil {
		return err
	}

	pred, err := p.Predict(ds.X)
	if err != nil {
		return err
	}
	proba, err := p.PositiveProba(ds.X)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", outputPath)
		}
		defer f.Close()
		out = f
	}
	if err := writePredictions(out, pred, proba); err != nil {
		return err
	}

	log.GetLogger().Info("predictions written",
		log.ComponentKey, "predict",
		log.EstimatorIDKey, p.RunID,
		log.SamplesKey, pred.Len(),
	)
	return nil
}

func writePredictions(w io.Writer, pred, proba *mat.VecDense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"prediction", "probability"}); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for i := 0; i < pred.Len(); i++ {
		rec := []string{
			strconv.Itoa(int(pred.AtVec(i))),
			strconv.FormatFloat(proba.AtVec(i), 'f', 6, 64),
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "failed to write prediction")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush predictions")
}
