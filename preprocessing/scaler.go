package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/titanic/core/frame"
	"github.com/YuminosukeSato/titanic/core/model"
	"github.com/YuminosukeSato/titanic/core/parallel"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler はscikit-learn互換の標準化スケーラー
// 全ての数値列を平均0、標準偏差1に変換する
type StandardScaler struct {
	model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// パラメータ:
//   - withMean: 平均を引くかどうか (デフォルト: true)
//   - withStd: 標準偏差で割るかどうか (デフォルト: true)
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X, nil)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから統計情報（母平均、母標準偏差）を計算する
//
// 全ての列が欠損値を含まない数値列でなければならない。
// 標準偏差が 0 に近い列のスケールは 1 とする
func (s *StandardScaler) Fit(X *frame.Frame, _ mat.Vector) error {
	const op = "StandardScaler.Fit"

	r, c := X.NRows(), X.NCols()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	mean := make([]float64, c)
	scale := make([]float64, c)
	for j := 0; j < c; j++ {
		values, err := numericValues(op, X.ColumnAt(j))
		if err != nil {
			return err
		}
		m, std := stat.PopMeanStdDev(values, nil)
		if s.WithMean {
			mean[j] = m
		}
		scale[j] = 1.0
		// 標準偏差が0に近い場合は1のまま（ゼロ除算を避ける）
		if s.WithStd && math.Abs(std) >= 1e-8 {
			scale[j] = std
		}
	}

	s.Mean = mean
	s.Scale = scale
	s.SetFeatureNames(X.Names())
	s.SetDimensions(c, r)
	s.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する。
// 列は名前で照合され、出力は学習時の列順になる
func (s *StandardScaler) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := s.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}
	return s.apply("StandardScaler.Transform", X, func(x float64, j int) float64 {
		return (x - s.Mean[j]) / s.Scale[j]
	})
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X *frame.Frame) (*frame.Frame, error) {
	if err := s.RequireFitted("StandardScaler", "InverseTransform"); err != nil {
		return nil, err
	}
	return s.apply("StandardScaler.InverseTransform", X, func(x float64, j int) float64 {
		return x*s.Scale[j] + s.Mean[j]
	})
}

func (s *StandardScaler) apply(op string, X *frame.Frame, f func(x float64, j int) float64) (*frame.Frame, error) {
	if X.NCols() != len(s.FeatureNames) {
		return nil, errors.NewDimensionError(op, len(s.FeatureNames), X.NCols(), 1)
	}
	cols := make([]*frame.Column, len(s.FeatureNames))
	for j, name := range s.FeatureNames {
		col, err := X.Column(name)
		if err != nil {
			return nil, errors.NewColumnNotFoundError(op, name)
		}
		values, err := numericValues(op, col)
		if err != nil {
			return nil, err
		}
		parallel.For(len(values), func(start, end int) {
			for i := start; i < end; i++ {
				values[i] = f(values[i], j)
			}
		})
		cols[j] = frame.NewNumeric(name, values)
	}
	out, err := frame.New(cols...)
	if err != nil {
		return nil, err
	}
	return out.WithIndex(X.Index())
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, len(s.FeatureNames))
}

func numericValues(op string, col *frame.Column) ([]float64, error) {
	if col.Kind() != frame.Numeric {
		return nil, errors.NewColumnTypeError(op, col.Name(), -1, frame.Numeric.String(), col.Kind().String())
	}
	values := col.Floats()
	for i, x := range values {
		if math.IsNaN(x) {
			return nil, errors.NewColumnTypeError(op, col.Name(), i, "non-missing", "NaN")
		}
	}
	return values, nil
}
