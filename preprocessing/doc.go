// Package preprocessing はパイプラインの前処理ステップとなる変換器を提供する。
//
// 全ての変換器は model.Transformer を実装し、frame.Frame を受け取って新しい
// frame.Frame を返す。入力の Frame が書き換えられることはない。
// 学習したパラメータ（補完値、頻出カテゴリ、ダミー列、平均・標準偏差）は
// エクスポートされたフィールドに保持され、gob で永続化できる。
//
// 提供する変換器:
//   - CategoricalImputer: カテゴリ列の欠損値を固定文字列で補完
//   - AddMissingIndicator: 欠損の有無を示す 0/1 列を追加
//   - MeanMedianImputer: 数値列の欠損値を中央値（または平均）で補完
//   - ExtractLetterTransformer: 文字列の先頭1文字を取り出す
//   - RareLabelEncoder: 出現頻度の低いカテゴリを1つにまとめる
//   - OneHotEncoder: カテゴリ列をダミー列に展開
//   - StandardScaler: 数値列を平均0、分散1に標準化
package preprocessing
