package scene

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return string(data)
}

func TestParse(t *testing.T) {
	data := []byte(`{
		"sceneName": "Café",
		"sceneNumber": "1A",
		"location": "Paris",
		"timeOfDay": "Night",
		"characters": [
			{"name": "Amélie", "wardrobe": "red coat", "props": ["umbrella"]}
		],
		"props": ["table", "espresso cup"],
		"technical": {"resolution": "1920x1080", "frameRate": 24},
		"composition": {"ruleOfThirds": true, "framing": "medium"},
		"previousScenes": [
			{"sceneName": "Street", "sceneNumber": "1", "timeOfDay": "Dusk", "characters": [], "props": []}
		]
	}`)

	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.SceneName != "Café" || s.SceneNumber != "1A" {
		t.Errorf("unexpected identity: %q / %q", s.SceneName, s.SceneNumber)
	}
	if len(s.Characters) != 1 || s.Characters[0].Wardrobe != "red coat" {
		t.Errorf("characters not parsed: %+v", s.Characters)
	}
	if s.Technical == nil || s.Technical.FrameRate != 24 {
		t.Errorf("technical block not parsed: %+v", s.Technical)
	}
	if s.Composition == nil || s.Composition.RuleOfThirds == nil || !*s.Composition.RuleOfThirds {
		t.Errorf("composition block not parsed: %+v", s.Composition)
	}
	if len(s.PreviousScenes) != 1 || s.PreviousScenes[0].SceneName != "Street" {
		t.Errorf("previousScenes not parsed: %+v", s.PreviousScenes)
	}
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte(`{"sceneName": "Minimal"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Technical != nil || s.Composition != nil {
		t.Errorf("optional blocks should default to nil")
	}
	if len(s.PreviousScenes) != 0 {
		t.Errorf("previousScenes should default to empty, got %d", len(s.PreviousScenes))
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated", []byte(`{"sceneName": "x"`)},
		{"not JSON", []byte(`INT. CAFÉ - NIGHT`)},
		{"wrong type", []byte(`{"characters": "Amélie"}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.data); err == nil {
				t.Errorf("expected parse error for %s", tc.name)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		scene Scene
		want  string
	}{
		{Scene{SceneName: "Café", SceneNumber: "1A"}, "Café (scene 1A)"},
		{Scene{SceneName: "Café"}, "Café"},
		{Scene{SceneNumber: "1A"}, "scene 1A"},
		{Scene{}, "(unnamed scene)"},
	}
	for _, tc := range cases {
		if got := tc.scene.Label(); got != tc.want {
			t.Errorf("Label() = %q, want %q", got, tc.want)
		}
	}
}

func TestContinuityView(t *testing.T) {
	s := &Scene{
		SceneName: "Café",
		Location:  "Paris",
		TimeOfDay: "Night",
		Lighting:  "practical lamps",
		Props:     []string{"umbrella"},
	}
	view := s.Continuity()
	if view.SceneName != "Café" || view.TimeOfDay != "Night" || view.Lighting != "practical lamps" {
		t.Errorf("projection lost fields: %+v", view)
	}
	// Location is not continuity-relevant and must not leak into the prompt payload.
	if strings.Contains(mustJSON(t, view), "Paris") {
		t.Errorf("location leaked into continuity view")
	}
}
