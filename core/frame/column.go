package frame

import (
	"math"
)

// Kind は列の値の種類を表す
type Kind int

const (
	// Numeric は float64 の列。欠損値は NaN で表す
	Numeric Kind = iota
	// Categorical は文字列の列。欠損値は null マスクで表す
	Categorical
)

// String は Kind の文字列表現を返す
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column は名前付きの1列。生成後は変更されない
type Column struct {
	name  string
	kind  Kind
	nums  []float64
	strs  []string
	valid []bool
}

// NewNumeric は数値列を作成する。values はコピーされる
func NewNumeric(name string, values []float64) *Column {
	nums := make([]float64, len(values))
	copy(nums, values)
	return &Column{name: name, kind: Numeric, nums: nums}
}

// NewCategorical はカテゴリ列を作成する。
// valid が nil の場合は全ての値が有効、valid[i] が false の行は欠損値となる。
// values と valid の長さが異なる場合は panic する
func NewCategorical(name string, values []string, valid []bool) *Column {
	if valid != nil && len(valid) != len(values) {
		panic("frame: categorical values and validity mask length mismatch")
	}
	strs := make([]string, len(values))
	copy(strs, values)
	mask := make([]bool, len(values))
	for i := range mask {
		mask[i] = valid == nil || valid[i]
		if !mask[i] {
			strs[i] = ""
		}
	}
	return &Column{name: name, kind: Categorical, strs: strs, valid: mask}
}

// Name は列名を返す
func (c *Column) Name() string { return c.name }

// Kind は列の種類を返す
func (c *Column) Kind() Kind { return c.kind }

// Len は行数を返す
func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.nums)
	}
	return len(c.strs)
}

// Float は数値列の i 行目の値を返す。カテゴリ列では NaN を返す
func (c *Column) Float(i int) float64 {
	if c.kind != Numeric {
		return math.NaN()
	}
	return c.nums[i]
}

// String はカテゴリ列の i 行目の値と、その値が欠損でないかを返す
func (c *Column) String(i int) (string, bool) {
	if c.kind != Categorical {
		return "", false
	}
	return c.strs[i], c.valid[i]
}

// IsNull は i 行目が欠損値かどうかを返す
func (c *Column) IsNull(i int) bool {
	if c.kind == Numeric {
		return math.IsNaN(c.nums[i])
	}
	return !c.valid[i]
}

// NullCount は欠損値の数を返す
func (c *Column) NullCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// Floats は数値列の値のコピーを返す
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.nums))
	copy(out, c.nums)
	return out
}

// Strings はカテゴリ列の値と有効マスクのコピーを返す
func (c *Column) Strings() ([]string, []bool) {
	strs := make([]string, len(c.strs))
	copy(strs, c.strs)
	valid := make([]bool, len(c.valid))
	copy(valid, c.valid)
	return strs, valid
}

// Rename は同じ値を持つ別名の列を返す
func (c *Column) Rename(name string) *Column {
	out := *c
	out.name = name
	return &out
}

func (c *Column) take(rows []int) *Column {
	if c.kind == Numeric {
		nums := make([]float64, len(rows))
		for i, r := range rows {
			nums[i] = c.nums[r]
		}
		return &Column{name: c.name, kind: Numeric, nums: nums}
	}
	strs := make([]string, len(rows))
	valid := make([]bool, len(rows))
	for i, r := range rows {
		strs[i] = c.strs[r]
		valid[i] = c.valid[r]
	}
	return &Column{name: c.name, kind: Categorical, strs: strs, valid: valid}
}
