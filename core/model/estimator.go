// Package model はパイプラインを構成する推定器・変換器の共通インターフェースと
// 学習状態の管理、永続化を提供する。
package model

import (
	"github.com/YuminosukeSato/titanic/core/frame"
	"gonum.org/v1/gonum/mat"
)

// Transformer はパイプラインの1ステップ。独自の変換器もライブラリの変換器も
// 同じ契約を実装する
type Transformer interface {
	// Fit は訓練データから変換に必要なパラメータを学習する。
	// y は教師ラベルで、使わない変換器では nil でもよい
	Fit(X *frame.Frame, y mat.Vector) error

	// Transform は学習済みパラメータを使ってデータを変換し、新しい Frame を返す
	Transform(X *frame.Frame) (*frame.Frame, error)
}

// FitTransform は Fit と Transform を続けて実行する
func FitTransform(t Transformer, X *frame.Frame, y mat.Vector) (*frame.Frame, error) {
	if err := t.Fit(X, y); err != nil {
		return nil, err
	}
	return t.Transform(X)
}

// Classifier はパイプラインの最終ステップとなる分類器のインターフェース
type Classifier interface {
	// Fit はモデルを訓練データで学習させる。y は列ベクトル
	Fit(X, y mat.Matrix) error

	// Predict は各行のクラスラベルを n_samples × 1 で返す
	Predict(X mat.Matrix) (mat.Matrix, error)

	// PredictProba は各クラスの確率を n_samples × n_classes で返す
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes は学習時に観測したクラスラベルを昇順で返す
	Classes() []int
}
