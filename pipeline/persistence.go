package pipeline

import (
	"encoding/gob"
	"io"
	"path/filepath"

	"github.com/YuminosukeSato/titanic/core/model"
	"github.com/YuminosukeSato/titanic/linear"
	"github.com/YuminosukeSato/titanic/pkg/errors"
	"github.com/YuminosukeSato/titanic/pkg/log"
	"github.com/YuminosukeSato/titanic/preprocessing"
)

func init() {
	gob.Register(&preprocessing.CategoricalImputer{})
	gob.Register(&preprocessing.AddMissingIndicator{})
	gob.Register(&preprocessing.MeanMedianImputer{})
	gob.Register(&preprocessing.ExtractLetterTransformer{})
	gob.Register(&preprocessing.RareLabelEncoder{})
	gob.Register(&preprocessing.OneHotEncoder{})
	gob.Register(&preprocessing.StandardScaler{})
	gob.Register(&linear.LogisticRegression{})
}

// Save writes the fitted pipeline to w.
func (p *Pipeline) Save(w io.Writer) error {
	if err := p.RequireFitted("Pipeline", "Save"); err != nil {
		return err
	}
	return model.SaveModelToWriter(p, w)
}

// Load reads a pipeline written by Save.
func Load(r io.Reader) (*Pipeline, error) {
	var p Pipeline
	if err := model.LoadModelFromReader(&p, r); err != nil {
		return nil, err
	}
	if !p.IsFitted() {
		return nil, errors.NewModelError("pipeline.Load", "invalid model", errors.New("pipeline is not fitted"))
	}
	return &p, nil
}

// SaveVersioned writes the fitted pipeline to dir as <prefix><version>.gob and
// removes every other version with the same prefix. It returns the written path.
func (p *Pipeline) SaveVersioned(dir, prefix, version string) (string, error) {
	if err := p.RequireFitted("Pipeline", "SaveVersioned"); err != nil {
		return "", err
	}
	name := model.VersionedFileName(prefix, version)
	path := filepath.Join(dir, name)
	if err := model.SaveModel(p, path); err != nil {
		return "", err
	}
	removed, err := model.RemoveOldVersions(dir, prefix, name)
	if err != nil {
		return path, err
	}
	p.log().Info("pipeline saved", log.DataFileKey, path, "removed", removed)
	return path, nil
}

// LoadFile reads a pipeline saved with SaveVersioned.
func LoadFile(path string) (*Pipeline, error) {
	var p Pipeline
	if err := model.LoadModel(&p, path); err != nil {
		return nil, err
	}
	if !p.IsFitted() {
		return nil, errors.NewModelError("pipeline.LoadFile", "invalid model", errors.New("pipeline is not fitted"))
	}
	return &p, nil
}
