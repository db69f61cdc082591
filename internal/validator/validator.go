// Package validator runs the four scene check categories and aggregates
// findings into a Result. Rule violations are findings, never errors: a
// Validate call fails only on unusable input. Each run is stateless, so one
// Validator may serve many scenes concurrently.
package validator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scenevalidator/internal/continuity"
	"scenevalidator/internal/logging"
	"scenevalidator/internal/rules"
	"scenevalidator/internal/scene"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Category identifies which check produced a finding.
type Category string

const (
	CategoryRequired    Category = "required"
	CategoryTechnical   Category = "technical"
	CategoryComposition Category = "composition"
	CategoryContinuity  Category = "continuity"
)

// Categories lists all check categories in execution and report order.
var Categories = []Category{
	CategoryRequired,
	CategoryTechnical,
	CategoryComposition,
	CategoryContinuity,
}

// Finding is a single reported issue.
type Finding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// Result captures the outcome of validating one scene.
type Result struct {
	SceneName   string        `json:"sceneName"`
	SceneNumber string        `json:"sceneNumber"`
	Findings    []Finding     `json:"findings"`
	Duration    time.Duration `json:"duration"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Valid reports overall pass/fail: true iff no error-severity finding exists.
// Warnings never fail a run.
func (r *Result) Valid() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

// ByCategory returns the findings for one category, preserving order.
func (r *Result) ByCategory(c Category) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// Counts returns the number of error and warning findings.
func (r *Result) Counts() (errors, warnings int) {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

func (r *Result) add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Validator validates scenes against one read-only rule set, optionally
// delegating continuity analysis to an injected Analyzer. A nil analyzer
// degrades the continuity check to a skipped warning.
type Validator struct {
	rules    *rules.RuleSet
	analyzer continuity.Analyzer
}

// New creates a Validator. A nil rule set means the compiled-in defaults.
func New(rs *rules.RuleSet, analyzer continuity.Analyzer) *Validator {
	if rs == nil {
		rs = rules.Defaults()
	}
	return &Validator{rules: rs, analyzer: analyzer}
}

// Validate runs all check categories against the scene. The returned error is
// non-nil only for unusable input; every rule violation is a finding.
func (v *Validator) Validate(ctx context.Context, s *scene.Scene) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("scene is nil")
	}

	start := time.Now()
	result := &Result{
		SceneName:   s.SceneName,
		SceneNumber: s.SceneNumber,
		Timestamp:   start,
	}

	v.checkRequired(s, result)
	v.checkTechnical(s, result)
	v.checkComposition(s, result)
	v.checkContinuity(ctx, s, result)

	result.Duration = time.Since(start)
	errs, warns := result.Counts()
	logging.Validator("validated %s: valid=%v errors=%d warnings=%d in %v",
		s.Label(), result.Valid(), errs, warns, result.Duration)
	return result, nil
}

// checkRequired verifies presence and non-emptiness of the mandatory
// top-level fields. One error finding per missing or empty field.
func (v *Validator) checkRequired(s *scene.Scene, result *Result) {
	for _, field := range v.rules.Required {
		var missing bool
		switch field {
		case "sceneName":
			missing = strings.TrimSpace(s.SceneName) == ""
		case "sceneNumber":
			missing = strings.TrimSpace(s.SceneNumber) == ""
		case "location":
			missing = strings.TrimSpace(s.Location) == ""
		case "timeOfDay":
			missing = strings.TrimSpace(s.TimeOfDay) == ""
		case "characters":
			missing = len(s.Characters) == 0
		case "props":
			missing = len(s.Props) == 0
		default:
			// Unknown names in a custom required list cannot be checked
			// against the typed scene; ignore them.
			continue
		}
		if missing {
			result.add(Finding{
				Severity: SeverityError,
				Category: CategoryRequired,
				Field:    field,
				Message:  fmt.Sprintf("missing required field: %s", field),
			})
		}
	}
}

// checkTechnical verifies each technical attribute the scene sets against the
// rule set's allowed values. An absent attribute or an empty allowed list
// means the check is skipped for that attribute.
func (v *Validator) checkTechnical(s *scene.Scene, result *Result) {
	if s.Technical == nil {
		return
	}
	t := s.Technical
	tr := v.rules.Technical

	if t.Resolution != "" && len(tr.Resolution) > 0 && !containsString(tr.Resolution, t.Resolution) {
		result.add(technicalFinding("resolution", t.Resolution, tr.Resolution))
	}
	if t.FrameRate != 0 && len(tr.FrameRate) > 0 && !containsFloat(tr.FrameRate, t.FrameRate) {
		result.add(technicalFinding("frameRate", t.FrameRate, tr.FrameRate))
	}
	if t.ColorSpace != "" && len(tr.ColorSpace) > 0 && !containsString(tr.ColorSpace, t.ColorSpace) {
		result.add(technicalFinding("colorSpace", t.ColorSpace, tr.ColorSpace))
	}
	if t.AudioChannels != 0 && len(tr.AudioChannels) > 0 && !containsFloat(tr.AudioChannels, t.AudioChannels) {
		result.add(technicalFinding("audioChannels", t.AudioChannels, tr.AudioChannels))
	}
	if t.AudioSampleRate != 0 && len(tr.AudioSampleRate) > 0 && !containsInt(tr.AudioSampleRate, t.AudioSampleRate) {
		result.add(technicalFinding("audioSampleRate", t.AudioSampleRate, tr.AudioSampleRate))
	}
}

func technicalFinding(field string, value, allowed interface{}) Finding {
	return Finding{
		Severity: SeverityError,
		Category: CategoryTechnical,
		Field:    field,
		Message:  fmt.Sprintf("invalid %s: %v (allowed: %v)", field, value, allowed),
	}
}

// checkComposition runs the advisory composition checks. Everything here is a
// warning; composition never fails a scene.
func (v *Validator) checkComposition(s *scene.Scene, result *Result) {
	cr := v.rules.Composition
	if !cr.EnforceRuleOfThirds && !cr.EnforceDepthOfField && !cr.EnforceFraming {
		return
	}

	if s.Composition == nil {
		result.add(Finding{
			Severity: SeverityWarning,
			Category: CategoryComposition,
			Field:    "composition",
			Message:  "scene has no composition block",
		})
		return
	}

	c := s.Composition
	if cr.EnforceRuleOfThirds {
		switch {
		case c.RuleOfThirds == nil:
			result.add(compositionFinding("ruleOfThirds", "rule of thirds not specified"))
		case !*c.RuleOfThirds:
			result.add(compositionFinding("ruleOfThirds", "scene does not follow rule of thirds"))
		}
	}
	if cr.EnforceDepthOfField && strings.TrimSpace(c.DepthOfField) == "" {
		result.add(compositionFinding("depthOfField", "depth of field not specified"))
	}
	if cr.EnforceFraming && strings.TrimSpace(c.Framing) == "" {
		result.add(compositionFinding("framing", "framing not specified"))
	}
}

func compositionFinding(field, message string) Finding {
	return Finding{
		Severity: SeverityWarning,
		Category: CategoryComposition,
		Field:    field,
		Message:  message,
	}
}

// checkContinuity delegates to the analyzer when previous scenes are present.
// Any analyzer failure degrades to a single skipped-continuity warning so the
// rest of the validation stands.
func (v *Validator) checkContinuity(ctx context.Context, s *scene.Scene, result *Result) {
	if !v.rules.Continuity.Enabled() || len(s.PreviousScenes) == 0 {
		return
	}

	if v.analyzer == nil {
		result.add(continuitySkipped("no continuity analyzer configured"))
		return
	}

	issues, err := v.analyzer.Analyze(ctx, s, s.PreviousScenes)
	if err != nil {
		logging.ContinuityError("analysis failed for %s: %v", s.Label(), err)
		result.add(continuitySkipped(err.Error()))
		return
	}

	for _, issue := range issues {
		sev := SeverityWarning
		if issue.Severity == continuity.SeverityError {
			sev = SeverityError
		}
		result.add(Finding{
			Severity: sev,
			Category: CategoryContinuity,
			Message:  issue.Message,
		})
	}
}

func continuitySkipped(reason string) Finding {
	return Finding{
		Severity: SeverityWarning,
		Category: CategoryContinuity,
		Message:  fmt.Sprintf("continuity check skipped: %s", reason),
	}
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsFloat(list []float64, v float64) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
