package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/titanic/config"
	"github.com/YuminosukeSato/titanic/metrics"
)

// Evaluation holds the metrics of one data split.
type Evaluation struct {
	Name      string
	Samples   int
	Positives int
	Accuracy  float64
	ROCAUC    float64
}

// Evaluate computes accuracy and ROC-AUC of predictions against labels.
// yScore is the probability of the positive class.
func Evaluate(name string, yTrue, yPred, yScore *mat.VecDense) (Evaluation, error) {
	acc, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return Evaluation{}, err
	}
	auc, err := metrics.ROCAUC(yTrue, yScore)
	if err != nil {
		return Evaluation{}, err
	}
	positives := 0
	for i := 0; i < yTrue.Len(); i++ {
		if yTrue.AtVec(i) == 1 {
			positives++
		}
	}
	return Evaluation{
		Name:      name,
		Samples:   yTrue.Len(),
		Positives: positives,
		Accuracy:  acc,
		ROCAUC:    auc,
	}, nil
}

// Training describes a finished training run.
type Training struct {
	RunID       string
	Version     string
	TrainedAt   time.Time
	Config      *config.Config
	ConfigPath  string
	ModelPath   string
	Features    []string
	Evaluations []Evaluation
}

// MarkdownWriter outputs training reports in Markdown format.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs the report.
func (w *MarkdownWriter) Write(t *Training) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, t)
	w.writeConfig(md, t)
	w.writeEvaluation(md, t)
	w.writeFeatures(md, t)

	return md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, t *Training) {
	md.H1("Titanic Survival Model")
	md.PlainText("")

	rows := [][]string{
		{"Run ID", "`" + t.RunID + "`"},
		{"Version", t.Version},
		{"Trained At", t.TrainedAt.Format("2006-01-02 15:04:05 MST")},
	}
	if t.ConfigPath != "" {
		rows = append(rows, []string{"Configuration", t.ConfigPath})
	}
	if t.ModelPath != "" {
		rows = append(rows, []string{"Model File", "`" + t.ModelPath + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeConfig(md *markdown.Markdown, t *Training) {
	if t.Config == nil {
		return
	}
	m := t.Config.Model

	md.H2("Configuration")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Parameter", "Value"},
		Rows: [][]string{
			{"target", m.Target},
			{"numerical_vars", strings.Join(m.NumericalVars, ", ")},
			{"categorical_vars", strings.Join(m.CategoricalVars, ", ")},
			{"cabin_vars", strings.Join(m.CabinVars, ", ")},
			{"test_size", strconv.FormatFloat(m.TestSize, 'g', -1, 64)},
			{"random_state", strconv.FormatInt(m.RandomState, 10)},
			{"C", strconv.FormatFloat(m.C, 'g', -1, 64)},
			{"rare_label_tol", strconv.FormatFloat(m.RareLabelTol, 'g', -1, 64)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeEvaluation(md *markdown.Markdown, t *Training) {
	md.H2("Evaluation")
	md.PlainText("")

	if len(t.Evaluations) == 0 {
		md.PlainText("No evaluation was run.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(t.Evaluations))
	for _, e := range t.Evaluations {
		rows = append(rows, []string{
			e.Name,
			strconv.Itoa(e.Samples),
			strconv.Itoa(e.Positives),
			fmt.Sprintf("%.4f", e.Accuracy),
			fmt.Sprintf("%.4f", e.ROCAUC),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Split", "Samples", "Survived", "Accuracy", "ROC-AUC"},
		Rows:   rows,
	})
	md.PlainText("")

	first := t.Evaluations[0]
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(first.Name+" outcome distribution"),
		piechart.WithShowData(true),
	)
	chart.LabelAndIntValue("Survived", uint64(first.Positives))
	chart.LabelAndIntValue("Did not survive", uint64(first.Samples-first.Positives))
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	for _, e := range t.Evaluations {
		if e.ROCAUC < 0.5 {
			md.Warningf("%s ROC-AUC %.4f is worse than random guessing.", e.Name, e.ROCAUC)
			md.PlainText("")
		}
	}
}

func (w *MarkdownWriter) writeFeatures(md *markdown.Markdown, t *Training) {
	md.H2("Model Features")
	md.PlainText("")
	if len(t.Features) == 0 {
		md.PlainText("No features recorded.")
		md.PlainText("")
		return
	}
	md.BulletList(t.Features...)
	md.PlainText("")
}
