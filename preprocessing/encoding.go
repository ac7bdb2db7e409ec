package preprocessing

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/titanic/core/frame"
	"github.com/YuminosukeSato/titanic/core/model"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// RareLabelEncoder の既定値
const (
	DefaultRareTol         = 0.05
	DefaultRareNCategories = 1
	DefaultRareLabel       = "Rare"
)

// RareLabelEncoder は訓練データでの出現割合が Tol 未満のカテゴリを
// ReplaceWith にまとめる。変換時に未知のカテゴリも ReplaceWith になる
type RareLabelEncoder struct {
	model.StateManager

	// Variables は対象の列名
	Variables []string

	// Tol は頻出とみなす最小の出現割合 (デフォルト: 0.05)
	Tol float64

	// NCategories は置き換えを行う最小のカテゴリ数。
	// カテゴリ数がこれ以下の変数は全てのカテゴリを頻出として扱う (デフォルト: 1)
	NCategories int

	// ReplaceWith はまとめた後のカテゴリ名 (デフォルト: "Rare")
	ReplaceWith string

	// EncoderDict は学習した変数ごとの頻出カテゴリ（出現数の降順）
	EncoderDict map[string][]string
}

// NewRareLabelEncoder は既定値でRareLabelEncoderを作成する
func NewRareLabelEncoder(variables []string) *RareLabelEncoder {
	return &RareLabelEncoder{
		Variables:   copyStrings(variables),
		Tol:         DefaultRareTol,
		NCategories: DefaultRareNCategories,
		ReplaceWith: DefaultRareLabel,
	}
}

// Fit は各変数の頻出カテゴリを学習する
func (r *RareLabelEncoder) Fit(X *frame.Frame, _ mat.Vector) error {
	const op = "RareLabelEncoder.Fit"

	if err := checkVariables("variables", r.Variables); err != nil {
		return err
	}
	if r.Tol < 0 || r.Tol > 1 {
		return errors.NewValidationError("tol", "must be in [0, 1]", r.Tol)
	}
	if r.NCategories < 0 {
		return errors.NewValidationError("n_categories", "must be non-negative", r.NCategories)
	}
	if X.NRows() == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	dict := make(map[string][]string, len(r.Variables))
	for _, v := range r.Variables {
		col, err := columnOfKind(op, X, v, frame.Categorical)
		if err != nil {
			return err
		}
		if err := requireNoNulls(op, col); err != nil {
			return err
		}
		levels, counts := countLevels(col)

		// 出現数の降順、同数なら出現順
		order := make([]int, len(levels))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return counts[order[a]] > counts[order[b]] })

		frequent := make([]string, 0, len(levels))
		if len(levels) > r.NCategories {
			n := float64(col.Len())
			for _, i := range order {
				if float64(counts[i])/n >= r.Tol {
					frequent = append(frequent, levels[i])
				}
			}
		} else {
			for _, i := range order {
				frequent = append(frequent, levels[i])
			}
			errors.Warn(errors.NewCategoryWarning("RareLabelEncoder", v,
				fmt.Sprintf("has %d categories, not more than n_categories=%d; all categories are considered frequent", len(levels), r.NCategories)))
		}
		dict[v] = frequent
	}

	r.EncoderDict = dict
	r.SetFeatureNames(X.Names())
	r.SetDimensions(X.NCols(), X.NRows())
	r.SetFitted()
	return nil
}

// Transform は頻出でないカテゴリを ReplaceWith に置き換えた新しい Frame を返す
func (r *RareLabelEncoder) Transform(X *frame.Frame) (*frame.Frame, error) {
	const op = "RareLabelEncoder.Transform"

	if err := r.RequireFitted("RareLabelEncoder", "Transform"); err != nil {
		return nil, err
	}
	out := X.Copy()
	for _, v := range r.Variables {
		col, err := columnOfKind(op, X, v, frame.Categorical)
		if err != nil {
			return nil, err
		}
		if err := requireNoNulls(op, col); err != nil {
			return nil, err
		}
		frequent := make(map[string]bool, len(r.EncoderDict[v]))
		for _, level := range r.EncoderDict[v] {
			frequent[level] = true
		}
		values, _ := col.Strings()
		for i, s := range values {
			if !frequent[s] {
				values[i] = r.ReplaceWith
			}
		}
		if err := out.Set(frame.NewCategorical(v, values, nil)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// OneHotEncoder はカテゴリ列を "<変数名>_<カテゴリ>" の 0/1 列に展開する。
// 元の列は削除され、ダミー列は末尾に追加される
type OneHotEncoder struct {
	model.StateManager

	// Variables は対象の列名
	Variables []string

	// DropLast が true の場合、各変数の最後のカテゴリを落として k-1 列にする
	DropLast bool

	// EncoderDict は学習した変数ごとのダミー列にするカテゴリ（出現順）
	EncoderDict map[string][]string
}

// NewOneHotEncoder は新しいOneHotEncoderを作成する
func NewOneHotEncoder(variables []string, dropLast bool) *OneHotEncoder {
	return &OneHotEncoder{Variables: copyStrings(variables), DropLast: dropLast}
}

// Fit は各変数のカテゴリを出現順に学習する
func (o *OneHotEncoder) Fit(X *frame.Frame, _ mat.Vector) error {
	const op = "OneHotEncoder.Fit"

	if err := checkVariables("variables", o.Variables); err != nil {
		return err
	}
	if X.NRows() == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	dict := make(map[string][]string, len(o.Variables))
	for _, v := range o.Variables {
		col, err := columnOfKind(op, X, v, frame.Categorical)
		if err != nil {
			return err
		}
		if err := requireNoNulls(op, col); err != nil {
			return err
		}
		levels, _ := countLevels(col)
		if o.DropLast {
			levels = levels[:len(levels)-1]
		}
		dict[v] = levels
	}

	o.EncoderDict = dict
	o.SetFeatureNames(X.Names())
	o.SetDimensions(X.NCols(), X.NRows())
	o.SetFitted()
	return nil
}

// Transform はダミー列に展開した新しい Frame を返す。
// 学習時に存在しなかったカテゴリの行は全てのダミー列が 0 になる
func (o *OneHotEncoder) Transform(X *frame.Frame) (*frame.Frame, error) {
	const op = "OneHotEncoder.Transform"

	if err := o.RequireFitted("OneHotEncoder", "Transform"); err != nil {
		return nil, err
	}
	out := X.Copy()
	var dummies []*frame.Column
	for _, v := range o.Variables {
		col, err := columnOfKind(op, X, v, frame.Categorical)
		if err != nil {
			return nil, err
		}
		if err := requireNoNulls(op, col); err != nil {
			return nil, err
		}
		values, _ := col.Strings()
		for _, level := range o.EncoderDict[v] {
			flags := make([]float64, len(values))
			for i, s := range values {
				if s == level {
					flags[i] = 1
				}
			}
			dummies = append(dummies, frame.NewNumeric(DummyName(v, level), flags))
		}
	}
	if err := out.Drop(o.Variables...); err != nil {
		return nil, err
	}
	for _, d := range dummies {
		if out.Has(d.Name()) {
			return nil, errors.NewValueError(op, fmt.Sprintf("dummy column '%s' collides with an existing column", d.Name()))
		}
		if err := out.Set(d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DummyName はダミー列の名前を返す
func DummyName(variable, level string) string {
	return variable + "_" + level
}

// countLevels はカテゴリを出現順に並べ、それぞれの出現数を返す
func countLevels(col *frame.Column) ([]string, []int) {
	var levels []string
	var counts []int
	pos := make(map[string]int)
	values, _ := col.Strings()
	for _, s := range values {
		i, ok := pos[s]
		if !ok {
			i = len(levels)
			pos[s] = i
			levels = append(levels, s)
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return levels, counts
}
