package model

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/titanic/pkg/errors"
)

// ModelFileExt は保存されるモデルファイルの拡張子
const ModelFileExt = ".gob"

// SaveModel はモデルをファイルに保存する
//
// パラメータ:
//   - model: 保存するモデル（インターフェース値を含む場合は gob.Register 済みであること）
//   - filename: 保存先のファイルパス
//
// 使用例:
//
//	err := model.SaveModel(pipe, "titanic_pipeline_v0.1.0.gob")
func SaveModel(model interface{}, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create file %s", filename)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close model file")
		}
	}()

	return SaveModelToWriter(model, file)
}

// LoadModel はファイルからモデルを読み込む
//
// パラメータ:
//   - model: 読み込み先のモデル（ポインタ）
//   - filename: 読み込み元のファイルパス
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %s", filename)
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter はモデルをio.Writerに保存する
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからモデルを読み込む
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}

// VersionedFileName はバージョン付きのモデルファイル名を返す
//
// 例: VersionedFileName("titanic_pipeline_v", "0.1.0") は "titanic_pipeline_v0.1.0.gob"
func VersionedFileName(prefix, version string) string {
	return fmt.Sprintf("%s%s%s", prefix, version, ModelFileExt)
}

// RemoveOldVersions は dir 内の prefix で始まるモデルファイルのうち、
// keep に含まれないものを削除する。削除したファイル名を返す
func RemoveOldVersions(dir, prefix string, keep ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model directory %s", dir)
	}

	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ModelFileExt) || keepSet[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, errors.Wrapf(err, "failed to remove old model %s", name)
		}
		removed = append(removed, name)
	}
	return removed, nil
}
