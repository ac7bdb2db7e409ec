// Package report renders the result of a training run: a Markdown summary of
// the configuration and evaluation metrics, and a ROC curve image.
package report
