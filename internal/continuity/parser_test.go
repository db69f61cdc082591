package continuity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenevalidator/internal/rules"
)

func defaultParser() *Parser {
	c := rules.Defaults().Continuity
	return NewParser(c.ErrorKeywords, c.WarningKeywords)
}

func TestParseStructuredResponse(t *testing.T) {
	response := `{
		"continuityErrors": ["Umbrella present in scene 1 but missing in scene 2"],
		"continuityWarnings": ["Lighting changes from warm to cool", ""]
	}`

	issues := defaultParser().Parse(response)
	require.Len(t, issues, 2)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "Umbrella")
	assert.Equal(t, SeverityWarning, issues[1].Severity)
}

func TestParseFencedJSON(t *testing.T) {
	response := "```json\n{\"continuityErrors\": [], \"continuityWarnings\": [\"check the wardrobe\"]}\n```"

	issues := defaultParser().Parse(response)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestParseFreeTextFallback(t *testing.T) {
	response := `The scenes are mostly consistent.
- Wardrobe mismatch: the red coat becomes blue in the second scene
- The lamp position may have moved; worth a review
- Everything else looks fine`

	issues := defaultParser().Parse(response)
	require.Len(t, issues, 2)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "mismatch")
	assert.Equal(t, SeverityWarning, issues[1].Severity)
}

func TestParseCustomKeywords(t *testing.T) {
	p := NewParser([]string{"broken"}, []string{"suspicious"})

	issues := p.Parse("prop list is broken here\nsomething suspicious with the lighting\nmismatch ignored")
	require.Len(t, issues, 2)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, SeverityWarning, issues[1].Severity)
}

func TestParseEmptyAndNoise(t *testing.T) {
	p := defaultParser()
	assert.Empty(t, p.Parse(""))
	assert.Empty(t, p.Parse("   \n\n  "))
	assert.Empty(t, p.Parse("No continuity issues found."))
}
