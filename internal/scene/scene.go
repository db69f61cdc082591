// Package scene defines the typed scene description format and its JSON parsing.
// A scene is one structured unit of production metadata; previousScenes nest
// recursively with the same shape for continuity comparison.
package scene

import (
	"encoding/json"
	"fmt"
)

// Character is one character appearing in a scene.
type Character struct {
	Name     string   `json:"name"`
	Wardrobe string   `json:"wardrobe,omitempty"`
	Props    []string `json:"props,omitempty"`
}

// Technical holds the technical delivery attributes of a scene.
// Zero values mean "not specified"; the validator skips unset attributes.
type Technical struct {
	Resolution      string  `json:"resolution,omitempty"`
	FrameRate       float64 `json:"frameRate,omitempty"`
	ColorSpace      string  `json:"colorSpace,omitempty"`
	AudioChannels   float64 `json:"audioChannels,omitempty"`
	AudioSampleRate int     `json:"audioSampleRate,omitempty"`
}

// Composition describes framing intent. RuleOfThirds is a pointer so an
// explicit false can be told apart from "not specified".
type Composition struct {
	RuleOfThirds *bool  `json:"ruleOfThirds,omitempty"`
	DepthOfField string `json:"depthOfField,omitempty"`
	Framing      string `json:"framing,omitempty"`
}

// Scene is one scene description.
type Scene struct {
	SceneName   string       `json:"sceneName"`
	SceneNumber string       `json:"sceneNumber"`
	Location    string       `json:"location"`
	TimeOfDay   string       `json:"timeOfDay"`
	Lighting    string       `json:"lighting,omitempty"`
	Characters  []Character  `json:"characters"`
	Props       []string     `json:"props"`
	Technical   *Technical   `json:"technical,omitempty"`
	Composition *Composition `json:"composition,omitempty"`

	// PreviousScenes is the ordered list of antecedent scenes used by the
	// continuity check. Nil means no continuity comparison is possible.
	PreviousScenes []*Scene `json:"previousScenes,omitempty"`
}

// Parse decodes a scene document. Only malformed JSON is an error; missing
// fields are the validator's business, not the parser's.
func Parse(data []byte) (*Scene, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty scene document")
	}

	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return &s, nil
}

// Label returns a short human-readable identifier for log lines and reports.
func (s *Scene) Label() string {
	switch {
	case s.SceneName != "" && s.SceneNumber != "":
		return fmt.Sprintf("%s (scene %s)", s.SceneName, s.SceneNumber)
	case s.SceneName != "":
		return s.SceneName
	case s.SceneNumber != "":
		return fmt.Sprintf("scene %s", s.SceneNumber)
	default:
		return "(unnamed scene)"
	}
}

// ContinuityView returns the subset of scene data the continuity analyzer
// compares across scenes. Keeping the prompt payload narrow avoids leaking
// unrelated fields into the model context.
type ContinuityView struct {
	SceneName  string      `json:"sceneName"`
	TimeOfDay  string      `json:"timeOfDay"`
	Lighting   string      `json:"lighting,omitempty"`
	Characters []Character `json:"characters"`
	Props      []string    `json:"props"`
}

// Continuity projects the scene onto its continuity-relevant fields.
func (s *Scene) Continuity() ContinuityView {
	return ContinuityView{
		SceneName:  s.SceneName,
		TimeOfDay:  s.TimeOfDay,
		Lighting:   s.Lighting,
		Characters: s.Characters,
		Props:      s.Props,
	}
}
