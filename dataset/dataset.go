package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/titanic/config"
	"github.com/YuminosukeSato/titanic/core/frame"
	"github.com/YuminosukeSato/titanic/pkg/errors"
)

var nan = math.NaN()

// MissingMarker は生データで欠損値を表す文字列
const MissingMarker = "?"

// 名前から派生する列
const (
	NameColumn  = "name"
	TitleColumn = "title"
)

// Dataset は説明変数と目的変数の組。Y は X と同じ行順を持つ。
// 予測用の入力では Y は nil
type Dataset struct {
	X *frame.Frame
	Y *mat.VecDense
}

// Validate は X と Y の行数が一致していることを確認する
func (d *Dataset) Validate() error {
	if d.X == nil {
		return errors.NewValueError("Dataset.Validate", "nil predictors")
	}
	if d.Y != nil && d.Y.Len() != d.X.NRows() {
		return errors.NewDimensionError("Dataset.Validate", d.X.NRows(), d.Y.Len(), 0)
	}
	return nil
}

// Len は行数を返す
func (d *Dataset) Len() int { return d.X.NRows() }

// LoadFile は CSV ファイルを読み込む
func LoadFile(path string, cfg config.ModelConfig) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided data path is intentional
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	ds, err := ReadCSV(f, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return ds, nil
}

// ReadCSV は titanic の生データを読み込み、cfg.Features の列を持つ Dataset を返す。
// 目的変数の列がヘッダにあれば Y に 0/1 で格納し、なければ Y は nil になる
func ReadCSV(r io.Reader, cfg config.ModelConfig) (*Dataset, error) {
	const op = "dataset.ReadCSV"

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
		}
		return nil, errors.Wrap(err, "failed to read header")
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read records")
	}
	if len(records) == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	cabin := make(map[string]bool, len(cfg.CabinVars))
	for _, v := range cfg.CabinVars {
		cabin[v] = true
	}

	cols := make([]*frame.Column, 0, len(cfg.Features))
	for _, feature := range cfg.Features {
		raw, err := rawColumn(op, feature, pos, records)
		if err != nil {
			return nil, err
		}
		if cabin[feature] {
			raw = mapPresent(raw, firstCabin)
		}
		if cfg.IsCategorical(feature) {
			cols = append(cols, categorical(feature, raw))
			continue
		}
		col, err := numeric(op, feature, raw)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	X, err := frame.New(cols...)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{X: X}

	if j, ok := pos[cfg.Target]; ok {
		y := make([]float64, len(records))
		for i, rec := range records {
			v, err := strconv.ParseFloat(strings.TrimSpace(field(rec, j)), 64)
			if err != nil || (v != 0 && v != 1) {
				return nil, errors.NewColumnTypeError(op, cfg.Target, i, "0/1 label", strconv.Quote(field(rec, j)))
			}
			y[i] = v
		}
		ds.Y = mat.NewVecDense(len(y), y)
	}
	return ds, ds.Validate()
}

// rawColumn は列の生の文字列を返す。欠損値は空文字列になる。
// title はヘッダになければ name から派生させる
func rawColumn(op, name string, pos map[string]int, records [][]string) ([]string, error) {
	j, ok := pos[name]
	if !ok && name == TitleColumn {
		nameCol, ok := pos[NameColumn]
		if !ok {
			return nil, errors.NewColumnNotFoundError(op, NameColumn)
		}
		return mapPresent(extract(records, nameCol), Title), nil
	}
	if !ok {
		return nil, errors.NewColumnNotFoundError(op, name)
	}
	return extract(records, j), nil
}

func extract(records [][]string, j int) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		v := strings.TrimSpace(field(rec, j))
		if v == MissingMarker {
			v = ""
		}
		out[i] = v
	}
	return out
}

func field(rec []string, j int) string {
	if j < len(rec) {
		return rec[j]
	}
	return ""
}

func mapPresent(values []string, f func(string) string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if v != "" {
			out[i] = f(v)
		}
	}
	return out
}

func categorical(name string, raw []string) *frame.Column {
	valid := make([]bool, len(raw))
	for i, v := range raw {
		valid[i] = v != ""
	}
	return frame.NewCategorical(name, raw, valid)
}

func numeric(op, name string, raw []string) (*frame.Column, error) {
	values := make([]float64, len(raw))
	for i, v := range raw {
		if v == "" {
			values[i] = nan
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.NewColumnTypeError(op, name, i, "number", fmt.Sprintf("%q", v))
		}
		values[i] = x
	}
	return frame.NewNumeric(name, values), nil
}

// firstCabin は空白区切りの客室リストの最初の客室を返す
func firstCabin(cabins string) string {
	fields := strings.Fields(cabins)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Title は乗客名から敬称を抽出する。
// Mrs, Mr, Miss, Master の順に部分一致を調べ、どれにも当たらなければ Other
func Title(name string) string {
	for _, t := range []string{"Mrs", "Mr", "Miss", "Master"} {
		if strings.Contains(name, t) {
			return t
		}
	}
	return "Other"
}
