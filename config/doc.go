// Package config provides the configuration of the titanic pipeline.
// It defines the application settings (data files, model output) and the
// model settings (variable roles, split and regularization parameters),
// loaded from YAML with an embedded default.
package config
