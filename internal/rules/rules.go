// Package rules loads the validation rule set: allowed technical values,
// composition enforcement flags, and continuity check toggles. Rule files are
// JSON and merge over compiled-in defaults key by key, so a partial file only
// overrides what it names.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
)

// TechnicalRules maps each technical attribute to its allowed values.
// An empty list disables the check for that attribute.
type TechnicalRules struct {
	Resolution      []string  `json:"resolution"`
	FrameRate       []float64 `json:"frameRate"`
	ColorSpace      []string  `json:"colorSpace"`
	AudioChannels   []float64 `json:"audioChannels"`
	AudioSampleRate []int     `json:"audioSampleRate"`
}

// CompositionRules gates the advisory composition checks.
type CompositionRules struct {
	EnforceRuleOfThirds bool `json:"enforceRuleOfThirds"`
	EnforceDepthOfField bool `json:"enforceDepthOfField"`
	EnforceFraming      bool `json:"enforceFraming"`
}

// ContinuityRules gates the cross-scene continuity analysis and configures the
// severity keyword tables used by the free-text response fallback parser.
type ContinuityRules struct {
	CheckProps     bool `json:"checkProps"`
	CheckWardrobe  bool `json:"checkWardrobe"`
	CheckLighting  bool `json:"checkLighting"`
	CheckTimeOfDay bool `json:"checkTimeOfDay"`

	ErrorKeywords   []string `json:"errorKeywords"`
	WarningKeywords []string `json:"warningKeywords"`
}

// Enabled reports whether any continuity aspect is switched on.
func (c ContinuityRules) Enabled() bool {
	return c.CheckProps || c.CheckWardrobe || c.CheckLighting || c.CheckTimeOfDay
}

// Aspects lists the enabled continuity aspects by name, in prompt order.
func (c ContinuityRules) Aspects() []string {
	var aspects []string
	if c.CheckProps {
		aspects = append(aspects, "props")
	}
	if c.CheckWardrobe {
		aspects = append(aspects, "wardrobe")
	}
	if c.CheckLighting {
		aspects = append(aspects, "lighting")
	}
	if c.CheckTimeOfDay {
		aspects = append(aspects, "time of day")
	}
	return aspects
}

// RuleSet is the full rule configuration for one validation run. It is loaded
// once and treated as read-only; concurrent validations may share it.
type RuleSet struct {
	Required    []string         `json:"required"`
	Technical   TechnicalRules   `json:"technical"`
	Composition CompositionRules `json:"composition"`
	Continuity  ContinuityRules  `json:"continuity"`
}

// Defaults returns the compiled-in rule set.
func Defaults() *RuleSet {
	return &RuleSet{
		Required: []string{
			"sceneName", "sceneNumber", "location", "timeOfDay", "characters", "props",
		},
		Technical: TechnicalRules{
			Resolution:      []string{"1920x1080", "3840x2160", "4096x2160"},
			FrameRate:       []float64{24, 25, 30, 60},
			ColorSpace:      []string{"Rec.709", "Rec.2020", "DCI-P3"},
			AudioChannels:   []float64{2, 5.1, 7.1},
			AudioSampleRate: []int{48000, 96000},
		},
		Composition: CompositionRules{
			EnforceRuleOfThirds: true,
			EnforceDepthOfField: true,
			EnforceFraming:      true,
		},
		Continuity: ContinuityRules{
			CheckProps:      true,
			CheckWardrobe:   true,
			CheckLighting:   true,
			CheckTimeOfDay:  true,
			ErrorKeywords:   []string{"error", "mismatch", "contradiction", "inconsistent"},
			WarningKeywords: []string{"warning", "may", "possible", "review"},
		},
	}
}

// Load reads a rule file and merges it over the defaults. Keys absent from the
// file keep their default values; keys present in the file win, including an
// explicit empty list (which disables that check).
func Load(path string) (*RuleSet, error) {
	rs := Defaults()
	if path == "" {
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	// Unmarshalling into the default set gives per-key merge for free: only
	// keys present in the document are overwritten.
	if err := json.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return rs, nil
}
