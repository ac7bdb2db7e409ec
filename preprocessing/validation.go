package preprocessing

import (
	"github.com/YuminosukeSato/titanic/core/frame"
	"github.com/YuminosukeSato/titanic/pkg/errors"
)

// checkVariables は変換対象の列名リストを検証する。
// nil、空、空文字列、重複はいずれも設定エラーとして扱う
func checkVariables(param string, variables []string) error {
	if variables == nil {
		return errors.NewValidationError(param, "must be a list of column names", variables)
	}
	if len(variables) == 0 {
		return errors.NewValidationError(param, "must contain at least one column name", variables)
	}
	seen := make(map[string]bool, len(variables))
	for _, v := range variables {
		if v == "" {
			return errors.NewValidationError(param, "column names must not be empty", variables)
		}
		if seen[v] {
			return errors.NewValidationError(param, "duplicate column name "+v, variables)
		}
		seen[v] = true
	}
	return nil
}

func columnOfKind(op string, X *frame.Frame, name string, kind frame.Kind) (*frame.Column, error) {
	col, err := X.Column(name)
	if err != nil {
		return nil, errors.NewColumnNotFoundError(op, name)
	}
	if col.Kind() != kind {
		return nil, errors.NewColumnTypeError(op, name, -1, kind.String(), col.Kind().String())
	}
	return col, nil
}

// requireNoNulls は列に欠損値があれば最初の欠損行を含むエラーを返す
func requireNoNulls(op string, col *frame.Column) error {
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			return errors.NewColumnTypeError(op, col.Name(), i, "non-missing", "null")
		}
	}
	return nil
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
