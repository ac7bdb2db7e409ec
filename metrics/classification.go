// Package metrics は分類モデルの評価指標を提供する。
package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/titanic/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// logLossEps は log(0) を避けるための確率のクリップ幅
const logLossEps = 1e-15

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "nil vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

func checkBinary(op string, y *mat.VecDense) (nPos, nNeg int, err error) {
	for i := 0; i < y.Len(); i++ {
		switch y.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, 0, errors.NewValueError(op, fmt.Sprintf("labels must be 0 or 1, got %v at index %d", y.AtVec(i), i))
		}
	}
	return nPos, nNeg, nil
}

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ROCAUC は ROC 曲線下面積を計算する。
// yTrue は 0/1 のラベル、yScore は陽性クラスのスコア（確率など）。
// 片方のクラスしか含まれない場合は未定義なので 0.5 を返す。
// 同じスコアは平均順位として扱う
func ROCAUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n, err := checkPair("ROCAUC", yTrue, yScore)
	if err != nil {
		return 0, err
	}
	nPos, nNeg, err := checkBinary("ROCAUC", yTrue)
	if err != nil {
		return 0, err
	}
	if nPos == 0 || nNeg == 0 {
		return 0.5, nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return yScore.AtVec(idx[a]) < yScore.AtVec(idx[b]) })

	// Mann-Whitney U: 陽性サンプルの順位和から計算
	rankSum := 0.0
	for i := 0; i < n; {
		j := i
		for j+1 < n && yScore.AtVec(idx[j+1]) == yScore.AtVec(idx[i]) {
			j++
		}
		avgRank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			if yTrue.AtVec(idx[k]) == 1 {
				rankSum += avgRank
			}
		}
		i = j + 1
	}
	u := rankSum - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// ROCAUCMatrix は行列形式の入力に対して ROCAUC を計算する。先頭列のみを使う
func ROCAUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewValueError("ROCAUCMatrix", "nil matrix")
	}
	if d, ok := yTrue.(*mat.Dense); ok && d.IsEmpty() {
		return 0, errors.NewValueError("ROCAUCMatrix", "empty matrix")
	}
	if d, ok := yScore.(*mat.Dense); ok && d.IsEmpty() {
		return 0, errors.NewValueError("ROCAUCMatrix", "empty matrix")
	}
	return ROCAUC(firstColumn(yTrue), firstColumn(yScore))
}

func firstColumn(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}

// ROCCurve は閾値ごとの偽陽性率と真陽性率を返す。
// 閾値は降順で、先頭は全てを陰性とする +Inf
func ROCCurve(yTrue, yScore *mat.VecDense) (fpr, tpr, thresholds []float64, err error) {
	n, err := checkPair("ROCCurve", yTrue, yScore)
	if err != nil {
		return nil, nil, nil, err
	}
	nPos, nNeg, err := checkBinary("ROCCurve", yTrue)
	if err != nil {
		return nil, nil, nil, err
	}
	if nPos == 0 || nNeg == 0 {
		return nil, nil, nil, errors.NewValueError("ROCCurve", "both classes must be present")
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return yScore.AtVec(idx[a]) > yScore.AtVec(idx[b]) })

	fpr = []float64{0}
	tpr = []float64{0}
	thresholds = []float64{math.Inf(1)}
	tp, fp := 0, 0
	for i, k := range idx {
		if yTrue.AtVec(k) == 1 {
			tp++
		} else {
			fp++
		}
		if i+1 < n && yScore.AtVec(idx[i+1]) == yScore.AtVec(k) {
			continue
		}
		fpr = append(fpr, float64(fp)/float64(nNeg))
		tpr = append(tpr, float64(tp)/float64(nPos))
		thresholds = append(thresholds, yScore.AtVec(k))
	}
	return fpr, tpr, thresholds, nil
}

// BinaryLogLoss は2値分類の対数損失を計算する。yPred は陽性クラスの確率
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if _, _, err := checkBinary("BinaryLogLoss", yTrue); err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yPred.AtVec(i), logLossEps), 1-logLossEps)
		if yTrue.AtVec(i) == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}
