package continuity

import (
	"encoding/json"
	"strings"
)

// continuityReply is the JSON shape the model is asked to produce.
// Matches the contract established in the analysis prompt.
type continuityReply struct {
	ContinuityErrors   []string `json:"continuityErrors"`
	ContinuityWarnings []string `json:"continuityWarnings"`
}

// Parser turns a model response into structured issues. The primary path
// expects the requested JSON object; anything else falls back to a
// line-by-line severity keyword scan. Keyword tables are injected so the
// heuristic stays configurable and independently testable.
type Parser struct {
	ErrorKeywords   []string
	WarningKeywords []string
}

// NewParser builds a parser with the given keyword tables.
func NewParser(errorKeywords, warningKeywords []string) *Parser {
	return &Parser{ErrorKeywords: errorKeywords, WarningKeywords: warningKeywords}
}

// Parse extracts issues from a model response.
func (p *Parser) Parse(response string) []Issue {
	text := stripFences(strings.TrimSpace(response))
	if text == "" {
		return nil
	}

	var reply continuityReply
	if err := json.Unmarshal([]byte(text), &reply); err == nil {
		var issues []Issue
		for _, msg := range reply.ContinuityErrors {
			if msg = strings.TrimSpace(msg); msg != "" {
				issues = append(issues, Issue{Severity: SeverityError, Message: msg})
			}
		}
		for _, msg := range reply.ContinuityWarnings {
			if msg = strings.TrimSpace(msg); msg != "" {
				issues = append(issues, Issue{Severity: SeverityWarning, Message: msg})
			}
		}
		return issues
	}

	return p.scanLines(text)
}

// scanLines classifies free text one line at a time. A line containing an
// error keyword becomes an error issue; otherwise a warning keyword makes it a
// warning. Lines matching neither table carry no signal and are dropped.
func (p *Parser) scanLines(text string) []Issue {
	var issues []Issue
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case containsAny(lower, p.ErrorKeywords):
			issues = append(issues, Issue{Severity: SeverityError, Message: line})
		case containsAny(lower, p.WarningKeywords):
			issues = append(issues, Issue{Severity: SeverityWarning, Message: line})
		}
	}
	return issues
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// stripFences removes a surrounding markdown code fence, which models add
// around JSON output despite instructions not to.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
