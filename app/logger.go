package app

import "go.uber.org/zap"

// NewLogger builds the run logger: human-readable development output
// when verbose, JSON production output otherwise.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
