package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/titanic/pkg/errors"
)

// TrainTestSplit は Dataset を訓練用とテスト用に分割する。
//
// 行は randomState で初期化した乱数で並べ替えられ、先頭 ceil(testSize*n) 行が
// テスト用になる。同じ入力と randomState からは常に同じ分割が得られる。
// X の行識別子 (Index) は元データの行番号を保持する
func TrainTestSplit(ds *Dataset, testSize float64, randomState int64) (train, test *Dataset, err error) {
	const op = "dataset.TrainTestSplit"

	if err := ds.Validate(); err != nil {
		return nil, nil, err
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NewValidationError("test_size", "must be in (0, 1)", testSize)
	}
	n := ds.Len()
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest >= n {
		return nil, nil, errors.NewValueError(op, fmt.Sprintf("test_size=%v leaves no training rows for %d samples", testSize, n))
	}

	perm := rand.New(rand.NewSource(randomState)).Perm(n)
	if test, err = ds.take(perm[:nTest]); err != nil {
		return nil, nil, err
	}
	if train, err = ds.take(perm[nTest:]); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func (d *Dataset) take(rows []int) (*Dataset, error) {
	X, err := d.X.Take(rows)
	if err != nil {
		return nil, err
	}
	out := &Dataset{X: X}
	if d.Y != nil {
		y := make([]float64, len(rows))
		for i, r := range rows {
			y[i] = d.Y.AtVec(r)
		}
		out.Y = mat.NewVecDense(len(y), y)
	}
	return out, nil
}
