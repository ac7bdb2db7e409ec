// Package dataset は titanic の生データ (CSV) の読み込みと、
// 再現可能な訓練・テスト分割を提供する。
//
// 生データの前処理は次の通り:
//   - "?" と空文字列は欠損値
//   - 客室 (cabin) は複数記載されている場合に最初の1つだけを残す
//   - 敬称 (title) は名前から Mrs, Mr, Miss, Master, Other のいずれかを抽出する
//   - 特徴量に含まれない列 (unused_fields など) は読み込まない
package dataset
