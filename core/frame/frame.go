// Package frame は名前付きの列を持つ表形式データを提供する。
//
// Frame は前処理パイプラインの各ステップ間で受け渡されるデータ構造で、
// 数値列とカテゴリ列を混在して保持できる。列は不変であり、変換は常に
// 新しい Frame を返すため入力が書き換えられることはない。
// 行の同一性は Index（元データの行番号）で追跡する。
package frame

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/titanic/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Frame は同じ長さの名前付き列の順序付き集合
type Frame struct {
	cols  []*Column
	pos   map[string]int
	index []int
	nRows int
}

// New は列から Frame を作成する。列名は一意で、全ての列が同じ長さでなければならない
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{pos: make(map[string]int, len(cols))}
	for _, c := range cols {
		if c == nil {
			return nil, errors.NewValueError("frame.New", "nil column")
		}
		if _, dup := f.pos[c.Name()]; dup {
			return nil, errors.NewValueError("frame.New", fmt.Sprintf("duplicate column '%s'", c.Name()))
		}
		if len(f.cols) > 0 && c.Len() != f.nRows {
			return nil, errors.NewDimensionError("frame.New", f.nRows, c.Len(), 0)
		}
		f.nRows = c.Len()
		f.pos[c.Name()] = len(f.cols)
		f.cols = append(f.cols, c)
	}
	f.index = make([]int, f.nRows)
	for i := range f.index {
		f.index[i] = i
	}
	return f, nil
}

// MustNew は New と同じだがエラー時に panic する。テストや固定データ向け
func MustNew(cols ...*Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// WithIndex は行識別子を置き換えた Frame を返す
func (f *Frame) WithIndex(index []int) (*Frame, error) {
	if len(index) != f.nRows {
		return nil, errors.NewDimensionError("Frame.WithIndex", f.nRows, len(index), 0)
	}
	out := f.Copy()
	copy(out.index, index)
	return out, nil
}

// NRows は行数を返す
func (f *Frame) NRows() int { return f.nRows }

// NCols は列数を返す
func (f *Frame) NCols() int { return len(f.cols) }

// Names は列名を順番通りに返す
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name()
	}
	return names
}

// Index は行識別子のコピーを返す
func (f *Frame) Index() []int {
	out := make([]int, len(f.index))
	copy(out, f.index)
	return out
}

// Has は列が存在するかどうかを返す
func (f *Frame) Has(name string) bool {
	_, ok := f.pos[name]
	return ok
}

// Column は名前で列を取得する。存在しない場合は ColumnNotFoundError を返す
func (f *Frame) Column(name string) (*Column, error) {
	j, ok := f.pos[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("Frame.Column", name)
	}
	return f.cols[j], nil
}

// ColumnAt は j 番目の列を返す
func (f *Frame) ColumnAt(j int) *Column { return f.cols[j] }

// Copy は Frame のコピーを返す。列は不変なので共有される
func (f *Frame) Copy() *Frame {
	out := &Frame{
		cols:  make([]*Column, len(f.cols)),
		pos:   make(map[string]int, len(f.pos)),
		index: make([]int, len(f.index)),
		nRows: f.nRows,
	}
	copy(out.cols, f.cols)
	copy(out.index, f.index)
	for k, v := range f.pos {
		out.pos[k] = v
	}
	return out
}

// Set は同名の列を同じ位置で置き換える。存在しない場合は末尾に追加する
func (f *Frame) Set(c *Column) error {
	if len(f.cols) > 0 && c.Len() != f.nRows {
		return errors.NewDimensionError("Frame.Set", f.nRows, c.Len(), 0)
	}
	if j, ok := f.pos[c.Name()]; ok {
		f.cols[j] = c
		return nil
	}
	if len(f.cols) == 0 && c.Len() != f.nRows {
		f.nRows = c.Len()
		f.index = make([]int, f.nRows)
		for i := range f.index {
			f.index[i] = i
		}
	}
	f.pos[c.Name()] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// Drop は指定した列を削除する。存在しない列がある場合は何も変更せずエラーを返す
func (f *Frame) Drop(names ...string) error {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if !f.Has(name) {
			return errors.NewColumnNotFoundError("Frame.Drop", name)
		}
		drop[name] = true
	}
	kept := f.cols[:0:0]
	for _, c := range f.cols {
		if !drop[c.Name()] {
			kept = append(kept, c)
		}
	}
	f.cols = kept
	f.pos = make(map[string]int, len(kept))
	for j, c := range kept {
		f.pos[c.Name()] = j
	}
	return nil
}

// Take は指定した行だけを持つ Frame を返す。行識別子は引き継がれる
func (f *Frame) Take(rows []int) (*Frame, error) {
	for _, r := range rows {
		if r < 0 || r >= f.nRows {
			return nil, errors.NewValueError("Frame.Take", fmt.Sprintf("row %d out of range [0, %d)", r, f.nRows))
		}
	}
	out := &Frame{
		cols:  make([]*Column, len(f.cols)),
		pos:   make(map[string]int, len(f.pos)),
		index: make([]int, len(rows)),
		nRows: len(rows),
	}
	for j, c := range f.cols {
		out.cols[j] = c.take(rows)
		out.pos[c.Name()] = j
	}
	for i, r := range rows {
		out.index[i] = f.index[r]
	}
	return out, nil
}

// Matrix は全て数値列の Frame を n_samples × n_features の行列に変換する。
// カテゴリ列や欠損値が残っている場合はエラーを返す
func (f *Frame) Matrix() (*mat.Dense, error) {
	if f.nRows == 0 || len(f.cols) == 0 {
		return nil, errors.NewModelError("Frame.Matrix", "empty data", errors.ErrEmptyData)
	}
	m := mat.NewDense(f.nRows, len(f.cols), nil)
	for j, c := range f.cols {
		if c.Kind() != Numeric {
			return nil, errors.NewColumnTypeError("Frame.Matrix", c.Name(), -1, Numeric.String(), c.Kind().String())
		}
		for i := 0; i < f.nRows; i++ {
			v := c.Float(i)
			if math.IsNaN(v) {
				return nil, errors.NewColumnTypeError("Frame.Matrix", c.Name(), i, "non-missing", "NaN")
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}
