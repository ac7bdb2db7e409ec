package model

import (
	"sync"

	"github.com/YuminosukeSato/titanic/pkg/errors"
)

// StateManager tracks whether an estimator has been fitted together with the
// feature layout it was fitted on. Estimators embed it by value; exported
// fields are encoded by gob.
type StateManager struct {
	mu sync.RWMutex

	Fitted       bool
	NFeatures    int
	NSamples     int
	FeatureNames []string
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted marks the model as fitted.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NFeatures = 0
	s.NSamples = 0
	s.FeatureNames = nil
}

// SetDimensions records the number of features and samples seen during fitting.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// SetFeatureNames records the column names seen during fitting.
func (s *StateManager) SetFeatureNames(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FeatureNames = append([]string(nil), names...)
	s.NFeatures = len(names)
}

// GetDimensions returns the number of features and samples seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}

// RequireFitted returns a NotFittedError if the model has not been fitted.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
