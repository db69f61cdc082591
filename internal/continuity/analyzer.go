// Package continuity performs cross-scene continuity analysis by delegating to
// a generative model and turning its response into structured issues. The
// analyzer is the only network-dependent part of validation; callers are
// expected to degrade gracefully when it fails.
package continuity

import (
	"context"

	"scenevalidator/internal/scene"
)

// Severity classifies a continuity issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one continuity problem reported by the analyzer.
type Issue struct {
	Severity Severity
	Message  string
}

// Analyzer compares the current scene against its antecedents.
// Implementations must honor ctx cancellation and return an error (never
// panic) on transport or model failures.
type Analyzer interface {
	Analyze(ctx context.Context, current *scene.Scene, previous []*scene.Scene) ([]Issue, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, current *scene.Scene, previous []*scene.Scene) ([]Issue, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, current *scene.Scene, previous []*scene.Scene) ([]Issue, error) {
	return f(ctx, current, previous)
}
