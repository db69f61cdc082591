// Package report renders a validation Result as a Markdown document, grouped
// by check category with an overall pass/fail headline.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"scenevalidator/internal/logging"
	"scenevalidator/internal/validator"
)

var categoryTitles = map[validator.Category]string{
	validator.CategoryRequired:    "Required Fields",
	validator.CategoryTechnical:   "Technical",
	validator.CategoryComposition: "Composition",
	validator.CategoryContinuity:  "Continuity",
}

// Generate renders the result as Markdown.
func Generate(result *validator.Result) string {
	var b strings.Builder

	b.WriteString("# Scene Validation Report\n\n")
	if name := sceneTitle(result); name != "" {
		fmt.Fprintf(&b, "Scene: %s\n\n", name)
	}

	if result.Valid() {
		b.WriteString("## ✅ Scene is valid\n\n")
	} else {
		b.WriteString("## ❌ Scene is invalid\n\n")
	}

	for _, cat := range validator.Categories {
		findings := result.ByCategory(cat)
		if len(findings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", categoryTitles[cat])
		for _, f := range findings {
			marker := "⚠️"
			if f.Severity == validator.SeverityError {
				marker = "❌"
			}
			if f.Field != "" {
				fmt.Fprintf(&b, "- %s `%s`: %s\n", marker, f.Field, f.Message)
			} else {
				fmt.Fprintf(&b, "- %s %s\n", marker, f.Message)
			}
		}
		b.WriteString("\n")
	}

	errs, warns := result.Counts()
	fmt.Fprintf(&b, "---\n\n%d error(s), %d warning(s)\n", errs, warns)
	return b.String()
}

// Write renders the result and saves it to path.
func Write(result *validator.Result, path string) error {
	text := Generate(result)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logging.Report("saved validation report to %s", path)
	return nil
}

// RenderTerminal renders the Markdown report for terminal display. Falls back
// to the raw Markdown if the renderer cannot be built.
func RenderTerminal(markdown string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

func sceneTitle(result *validator.Result) string {
	switch {
	case result.SceneName != "" && result.SceneNumber != "":
		return fmt.Sprintf("%s (scene %s)", result.SceneName, result.SceneNumber)
	case result.SceneName != "":
		return result.SceneName
	case result.SceneNumber != "":
		return "scene " + result.SceneNumber
	default:
		return ""
	}
}
