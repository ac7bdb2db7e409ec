package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/titanic/config"
)

var (
	yTrue  = mat.NewVecDense(6, []float64{0, 0, 1, 1, 0, 1})
	yPred  = mat.NewVecDense(6, []float64{0, 1, 1, 1, 0, 0})
	yScore = mat.NewVecDense(6, []float64{0.1, 0.6, 0.8, 0.9, 0.2, 0.4})
)

func TestEvaluate(t *testing.T) {
	e, err := Evaluate("test", yTrue, yPred, yScore)
	require.NoError(t, err)

	assert.Equal(t, "test", e.Name)
	assert.Equal(t, 6, e.Samples)
	assert.Equal(t, 3, e.Positives)
	assert.InDelta(t, 4.0/6.0, e.Accuracy, 1e-12)
	assert.InDelta(t, 8.0/9.0, e.ROCAUC, 1e-12)
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	_, err := Evaluate("test", yTrue, mat.NewVecDense(2, []float64{0, 1}), yScore)
	assert.Error(t, err)
}

func TestMarkdownWriter(t *testing.T) {
	e, err := Evaluate("test", yTrue, yPred, yScore)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = NewMarkdownWriter(&buf).Write(&Training{
		RunID:       "2f1c7a9e-0000-4000-8000-000000000000",
		Version:     "0.1.0",
		TrainedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Config:      config.Default(),
		ModelPath:   "/tmp/titanic_pipeline_output_v0.1.0.gob",
		Features:    []string{"age", "fare", "sex_male"},
		Evaluations: []Evaluation{e},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# Titanic Survival Model")
	assert.Contains(t, out, "2f1c7a9e-0000-4000-8000-000000000000")
	assert.Contains(t, out, "2024-01-02 03:04:05 UTC")
	assert.Contains(t, out, "## Configuration")
	assert.Contains(t, out, "0.0005")
	assert.Contains(t, out, "0.6667")
	assert.Contains(t, out, "0.8889")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, `"Survived" : 3`)
	assert.Contains(t, out, "sex_male")
	assert.NotContains(t, out, "worse than random")
}

func TestMarkdownWriter_NoEvaluation(t *testing.T) {
	var buf bytes.Buffer
	err := NewMarkdownWriter(&buf).Write(&Training{RunID: "id", Version: "dev"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "No evaluation was run.")
	assert.Contains(t, out, "No features recorded.")
	assert.NotContains(t, out, "## Configuration")
}

func TestMarkdownWriter_PoorModelWarning(t *testing.T) {
	inverted := mat.NewVecDense(6, []float64{0.9, 0.6, 0.2, 0.1, 0.8, 0.4})
	e, err := Evaluate("test", yTrue, yPred, inverted)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownWriter(&buf).Write(&Training{RunID: "id", Evaluations: []Evaluation{e}}))
	assert.Contains(t, buf.String(), "worse than random guessing")
}

func TestWriteROCPlot(t *testing.T) {
	var buf bytes.Buffer
	err := WriteROCPlot(&buf, "png",
		ROCCurve{Name: "train", YTrue: yTrue, YScore: yScore},
		ROCCurve{Name: "test", YTrue: yTrue, YScore: yTrue},
	)
	require.NoError(t, err)
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), buf.Bytes()[:8])
}

func TestWriteROCPlot_SingleClass(t *testing.T) {
	ones := mat.NewVecDense(3, []float64{1, 1, 1})
	err := WriteROCPlot(&bytes.Buffer{}, "png", ROCCurve{Name: "bad", YTrue: ones, YScore: ones})
	assert.Error(t, err)
}

func TestSaveROCPlot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roc.png")
	require.NoError(t, SaveROCPlot(path, ROCCurve{Name: "test", YTrue: yTrue, YScore: yScore}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, SaveROCPlot(filepath.Join(dir, "roc"), ROCCurve{Name: "test", YTrue: yTrue, YScore: yScore}))
}
