package linear

// Option configures a LogisticRegression.
type Option func(*LogisticRegression)

// WithC sets the inverse regularization strength
func WithC(c float64) Option {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithFitIntercept sets whether to fit intercept
func WithFitIntercept(fit bool) Option {
	return func(lr *LogisticRegression) {
		lr.FitIntercept = fit
	}
}

// WithMaxIter sets the maximum number of iterations
func WithMaxIter(maxIter int) Option {
	return func(lr *LogisticRegression) {
		lr.MaxIter = maxIter
	}
}

// WithTol sets the tolerance for stopping criteria
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) {
		lr.Tol = tol
	}
}

// WithRandomState sets the random seed
func WithRandomState(seed int64) Option {
	return func(lr *LogisticRegression) {
		lr.RandomState = seed
	}
}
