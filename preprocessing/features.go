package preprocessing

import (
	"unicode/utf8"

	"github.com/YuminosukeSato/titanic/core/frame"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ExtractLetterTransformer は指定したカテゴリ列の各値を先頭1文字に置き換える。
// 例えば客室番号 "C85" は甲板を表す "C" になる。
//
// 学習するパラメータはなく、Fit は何もしない。
type ExtractLetterTransformer struct {
	// Variables は変換対象の列名
	Variables []string
}

// NewExtractLetterTransformer は新しいExtractLetterTransformerを作成する
//
// パラメータ:
//   - variables: 変換対象の列名のリスト。nil または空の場合は ValidationError
//
// 使用例:
//
//	extractor, err := preprocessing.NewExtractLetterTransformer([]string{"cabin"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := extractor.Transform(X)
func NewExtractLetterTransformer(variables []string) (*ExtractLetterTransformer, error) {
	if err := checkVariables("variables", variables); err != nil {
		return nil, err
	}
	return &ExtractLetterTransformer{Variables: copyStrings(variables)}, nil
}

// Fit は何もしない
func (e *ExtractLetterTransformer) Fit(_ *frame.Frame, _ mat.Vector) error {
	return nil
}

// Transform は対象列を先頭1文字に置き換えた新しい Frame を返す。
// 対象列以外はそのまま引き継がれる。
// 対象列が存在しない場合、カテゴリ列でない場合、欠損値や空文字列を含む場合はエラー
func (e *ExtractLetterTransformer) Transform(X *frame.Frame) (*frame.Frame, error) {
	const op = "ExtractLetterTransformer.Transform"

	out := X.Copy()
	for _, v := range e.Variables {
		col, err := columnOfKind(op, X, v, frame.Categorical)
		if err != nil {
			return nil, err
		}
		values, valid := col.Strings()
		for i, s := range values {
			if !valid[i] {
				return nil, errors.NewColumnTypeError(op, v, i, "string", "null")
			}
			if s == "" {
				return nil, errors.NewColumnTypeError(op, v, i, "non-empty string", "empty string")
			}
			_, size := utf8.DecodeRuneInString(s)
			values[i] = s[:size]
		}
		if err := out.Set(frame.NewCategorical(v, values, nil)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
