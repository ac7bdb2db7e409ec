package config

import (
	_ "embed"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/YuminosukeSato/titanic/pkg/errors"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "titanic"

	// Version is the version of the trained pipeline format. Saved pipelines
	// carry it in their file name.
	Version = "0.1.0"
)

//go:embed config.yml
var defaultConfig []byte

// AppConfig holds application level settings.
type AppConfig struct {
	PackageName      string `yaml:"package_name"`
	TrainingDataFile string `yaml:"training_data_file"`
	TestDataFile     string `yaml:"test_data_file"`
	PipelineName     string `yaml:"pipeline_name"`
	PipelineSaveFile string `yaml:"pipeline_save_file"`

	// TrainedModelsDir overrides the directory trained pipelines are saved to.
	TrainedModelsDir string `yaml:"trained_models_dir"`

	LogLevel string `yaml:"log_level"`
}

// ModelConfig holds everything the pipeline needs to be built and trained.
// It is passed by value to the pipeline constructor.
type ModelConfig struct {
	Target          string   `yaml:"target"`
	Features        []string `yaml:"features"`
	UnusedFields    []string `yaml:"unused_fields"`
	NumericalVars   []string `yaml:"numerical_vars"`
	CategoricalVars []string `yaml:"categorical_vars"`
	CabinVars       []string `yaml:"cabin_vars"`

	TestSize    float64 `yaml:"test_size"`
	RandomState int64   `yaml:"random_state"`

	C                    float64 `yaml:"C"`
	RareLabelTol         float64 `yaml:"rare_label_tol"`
	RareLabelNCategories int     `yaml:"rare_label_n_categories"`
}

// Config is the master configuration object.
type Config struct {
	App   AppConfig   `yaml:",inline"`
	Model ModelConfig `yaml:",inline"`
}

// ModelDir returns the directory trained pipelines are saved to.
// On Linux the default is ~/.local/share/titanic.
func (c *Config) ModelDir() string {
	if c.App.TrainedModelsDir != "" {
		return c.App.TrainedModelsDir
	}
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	return c.Model.Validate()
}

// Validate checks the model configuration.
func (m *ModelConfig) Validate() error {
	if m.Target == "" {
		return ErrNoTarget
	}
	if len(m.Features) == 0 {
		return ErrNoFeatures
	}

	features := make(map[string]bool, len(m.Features))
	for _, f := range m.Features {
		features[f] = true
	}
	if features[m.Target] {
		return errors.Wrapf(ErrOverlappingRoles, "target %q is listed as a feature", m.Target)
	}

	roles := []struct {
		name string
		vars []string
	}{
		{"numerical_vars", m.NumericalVars},
		{"categorical_vars", m.CategoricalVars},
		{"cabin_vars", m.CabinVars},
	}
	for _, r := range roles {
		if len(r.vars) == 0 {
			return errors.Wrap(ErrEmptyRoleList, r.name)
		}
		for _, v := range r.vars {
			if !features[v] {
				return errors.Wrapf(ErrUnknownVariable, "%s: %q", r.name, v)
			}
		}
	}

	categorical := make(map[string]bool, len(m.CategoricalVars))
	for _, v := range m.CategoricalVars {
		categorical[v] = true
	}
	for _, v := range m.NumericalVars {
		if categorical[v] {
			return errors.Wrapf(ErrOverlappingRoles, "%q is both numerical and categorical", v)
		}
	}
	for _, v := range m.CabinVars {
		if !categorical[v] {
			return errors.Wrapf(ErrCabinNotCategorical, "%q", v)
		}
	}

	if m.TestSize <= 0 || m.TestSize >= 1 {
		return ErrInvalidTestSize
	}
	if m.C <= 0 {
		return ErrInvalidC
	}
	if m.RareLabelTol < 0 || m.RareLabelTol > 1 {
		return ErrInvalidRareLabelTol
	}
	if m.RareLabelNCategories < 0 {
		return ErrInvalidRareLabelNCategories
	}
	return nil
}

// IsCategorical reports whether the variable is declared categorical.
func (m *ModelConfig) IsCategorical(name string) bool {
	for _, v := range m.CategoricalVars {
		if v == name {
			return true
		}
	}
	return false
}
