package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/titanic/metrics"
	"github.com/YuminosukeSato/titanic/pkg/errors"
)

// ROCCurve is a labelled set of scores to draw.
type ROCCurve struct {
	Name   string
	YTrue  *mat.VecDense
	YScore *mat.VecDense
}

// WriteROCPlot draws the ROC curves with the chance diagonal and writes the
// image to w. format is an image format understood by gonum/plot, e.g. "png".
func WriteROCPlot(w io.Writer, format string, curves ...ROCCurve) error {
	p := plot.New()
	p.Title.Text = "ROC curve"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return errors.Wrap(err, "failed to draw diagonal")
	}
	chance.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(chance)

	for i, c := range curves {
		fpr, tpr, _, err := metrics.ROCCurve(c.YTrue, c.YScore)
		if err != nil {
			return errors.Wrapf(err, "curve %q", c.Name)
		}
		auc, err := metrics.ROCAUC(c.YTrue, c.YScore)
		if err != nil {
			return errors.Wrapf(err, "curve %q", c.Name)
		}
		pts := make(plotter.XYs, len(fpr))
		for j := range fpr {
			pts[j] = plotter.XY{X: fpr[j], Y: tpr[j]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "curve %q", c.Name)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s (AUC %.3f)", c.Name, auc), line)
	}

	wt, err := p.WriterTo(5*vg.Inch, 5*vg.Inch, format)
	if err != nil {
		return errors.Wrap(err, "failed to render plot")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write plot")
	}
	return nil
}

// SaveROCPlot writes the ROC plot to a file. The image format is taken from
// the file extension.
func SaveROCPlot(path string, curves ...ROCCurve) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return errors.NewValidationError("path", "plot file needs an image extension", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := WriteROCPlot(f, format, curves...); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to close plot file")
}
