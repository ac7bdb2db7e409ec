package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/titanic/core/frame"
	"github.com/YuminosukeSato/titanic/core/model"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultFillValue はカテゴリ列の欠損値を埋める既定の文字列
const DefaultFillValue = "Missing"

// CategoricalImputer はカテゴリ列の欠損値を固定の文字列で補完する
type CategoricalImputer struct {
	model.StateManager

	// Variables は補完対象の列名
	Variables []string

	// FillValue は欠損値の代わりに入れる文字列 (デフォルト: "Missing")
	FillValue string
}

// NewCategoricalImputer は新しいCategoricalImputerを作成する
//
// 使用例:
//
//	imputer := preprocessing.NewCategoricalImputer([]string{"sex", "cabin", "embarked", "title"})
//	out, err := model.FitTransform(imputer, X, nil)
func NewCategoricalImputer(variables []string) *CategoricalImputer {
	return &CategoricalImputer{Variables: copyStrings(variables), FillValue: DefaultFillValue}
}

// Fit は対象列が存在しカテゴリ列であることを確認する。学習するパラメータはない
func (c *CategoricalImputer) Fit(X *frame.Frame, _ mat.Vector) error {
	if err := checkVariables("variables", c.Variables); err != nil {
		return err
	}
	for _, v := range c.Variables {
		if _, err := columnOfKind("CategoricalImputer.Fit", X, v, frame.Categorical); err != nil {
			return err
		}
	}
	c.SetFeatureNames(X.Names())
	c.SetDimensions(X.NCols(), X.NRows())
	c.SetFitted()
	return nil
}

// Transform は欠損値を FillValue で置き換えた新しい Frame を返す
func (c *CategoricalImputer) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := c.RequireFitted("CategoricalImputer", "Transform"); err != nil {
		return nil, err
	}
	out := X.Copy()
	for _, v := range c.Variables {
		col, err := columnOfKind("CategoricalImputer.Transform", X, v, frame.Categorical)
		if err != nil {
			return nil, err
		}
		values, valid := col.Strings()
		for i := range values {
			if !valid[i] {
				values[i] = c.FillValue
			}
		}
		if err := out.Set(frame.NewCategorical(v, values, nil)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AddMissingIndicator は各変数に対して欠損なら 1、そうでなければ 0 となる
// "<変数名>_na" 列を追加する
type AddMissingIndicator struct {
	model.StateManager

	// Variables は対象の列名
	Variables []string

	// MissingOnly が true の場合、学習時に欠損値を含んでいた変数だけに指標列を追加する
	MissingOnly bool

	// Indicators は学習の結果、指標列を追加する変数
	Indicators []string
}

// IndicatorSuffix は欠損指標列の接尾辞
const IndicatorSuffix = "_na"

// NewAddMissingIndicator は新しいAddMissingIndicatorを作成する
func NewAddMissingIndicator(variables []string) *AddMissingIndicator {
	return &AddMissingIndicator{Variables: copyStrings(variables), MissingOnly: true}
}

// Fit は指標列を追加する変数を決定する
func (a *AddMissingIndicator) Fit(X *frame.Frame, _ mat.Vector) error {
	if err := checkVariables("variables", a.Variables); err != nil {
		return err
	}
	indicators := make([]string, 0, len(a.Variables))
	for _, v := range a.Variables {
		col, err := X.Column(v)
		if err != nil {
			return errors.NewColumnNotFoundError("AddMissingIndicator.Fit", v)
		}
		if a.MissingOnly && col.NullCount() == 0 {
			continue
		}
		if X.Has(v + IndicatorSuffix) {
			return errors.NewValueError("AddMissingIndicator.Fit", fmt.Sprintf("indicator column '%s' already exists", v+IndicatorSuffix))
		}
		indicators = append(indicators, v)
	}
	a.Indicators = indicators
	a.SetFeatureNames(X.Names())
	a.SetDimensions(X.NCols(), X.NRows())
	a.SetFitted()
	return nil
}

// Transform は指標列を末尾に追加した新しい Frame を返す
func (a *AddMissingIndicator) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := a.RequireFitted("AddMissingIndicator", "Transform"); err != nil {
		return nil, err
	}
	out := X.Copy()
	for _, v := range a.Indicators {
		col, err := X.Column(v)
		if err != nil {
			return nil, errors.NewColumnNotFoundError("AddMissingIndicator.Transform", v)
		}
		flags := make([]float64, col.Len())
		for i := range flags {
			if col.IsNull(i) {
				flags[i] = 1
			}
		}
		if err := out.Set(frame.NewNumeric(v+IndicatorSuffix, flags)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// 補完方法
const (
	ImputeMedian = "median"
	ImputeMean   = "mean"
)

// MeanMedianImputer は数値列の欠損値 (NaN) を訓練データの中央値または平均で補完する
type MeanMedianImputer struct {
	model.StateManager

	// Variables は補完対象の列名
	Variables []string

	// Method は "median" または "mean" (デフォルト: "median")
	Method string

	// ImputerDict は学習した列ごとの補完値
	ImputerDict map[string]float64
}

// NewMeanMedianImputer は中央値で補完するMeanMedianImputerを作成する
func NewMeanMedianImputer(variables []string) *MeanMedianImputer {
	return &MeanMedianImputer{Variables: copyStrings(variables), Method: ImputeMedian}
}

// Fit は各列の観測値から補完値を計算する。
// 観測値が1つもない列はエラーとなる
func (m *MeanMedianImputer) Fit(X *frame.Frame, _ mat.Vector) error {
	if err := checkVariables("variables", m.Variables); err != nil {
		return err
	}
	if m.Method != ImputeMedian && m.Method != ImputeMean {
		return errors.NewValidationError("method", "must be 'median' or 'mean'", m.Method)
	}

	dict := make(map[string]float64, len(m.Variables))
	for _, v := range m.Variables {
		col, err := columnOfKind("MeanMedianImputer.Fit", X, v, frame.Numeric)
		if err != nil {
			return err
		}
		observed := make([]float64, 0, col.Len())
		for _, x := range col.Floats() {
			if !math.IsNaN(x) {
				observed = append(observed, x)
			}
		}
		if len(observed) == 0 {
			return errors.NewValueError("MeanMedianImputer.Fit", fmt.Sprintf("column '%s' has no observed values", v))
		}
		if m.Method == ImputeMean {
			dict[v] = stat.Mean(observed, nil)
		} else {
			dict[v] = median(observed)
		}
	}

	m.ImputerDict = dict
	m.SetFeatureNames(X.Names())
	m.SetDimensions(X.NCols(), X.NRows())
	m.SetFitted()
	return nil
}

// Transform は NaN を学習した補完値で置き換えた新しい Frame を返す
func (m *MeanMedianImputer) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := m.RequireFitted("MeanMedianImputer", "Transform"); err != nil {
		return nil, err
	}
	out := X.Copy()
	for _, v := range m.Variables {
		col, err := columnOfKind("MeanMedianImputer.Transform", X, v, frame.Numeric)
		if err != nil {
			return nil, err
		}
		fill := m.ImputerDict[v]
		values := col.Floats()
		for i, x := range values {
			if math.IsNaN(x) {
				values[i] = fill
			}
		}
		if err := out.Set(frame.NewNumeric(v, values)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// median は偶数個の場合に中央2値の平均を返す。values は並べ替えられる
func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
