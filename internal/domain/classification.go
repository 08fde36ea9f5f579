package domain

import (
	"fmt"
	"strings"
	"time"
)

// AgentCategory is the verdict category produced by the classifier.
type AgentCategory string

const (
	AgentLaunch    AgentCategory = "LAUNCH"
	AgentTool      AgentCategory = "TOOL"
	AgentTechnique AgentCategory = "TECHNIQUE"
	AgentResearch  AgentCategory = "RESEARCH"
	AgentInsight   AgentCategory = "INSIGHT"
	AgentBuild     AgentCategory = "BUILD"
)

var agentCategories = map[AgentCategory]struct{}{
	AgentLaunch:    {},
	AgentTool:      {},
	AgentTechnique: {},
	AgentResearch:  {},
	AgentInsight:   {},
	AgentBuild:     {},
}

// ParseAgentCategory accepts any casing of a known category.
func ParseAgentCategory(value string) (AgentCategory, bool) {
	c := AgentCategory(strings.ToUpper(strings.TrimSpace(value)))
	_, ok := agentCategories[c]
	return c, ok
}

// ClassificationState tracks an item through the classification stage.
type ClassificationState string

const (
	StateUnclassified ClassificationState = "unclassified"
	StateClassified   ClassificationState = "classified"
	StateFailed       ClassificationState = "failed"
)

// ClassificationInput is what the external capability sees for one item.
type ClassificationInput struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	URL      string   `json:"url"`
	Source   string   `json:"source"`
	Category Category `json:"category"`
}

// InputFromItem projects a news item to the classifier contract.
func InputFromItem(item NewsItem) ClassificationInput {
	return ClassificationInput{
		ID:       item.ID,
		Title:    item.Title,
		Summary:  item.Summary,
		URL:      item.URL,
		Source:   item.Source,
		Category: item.Category,
	}
}

// Verdict is one classifier answer, matched back by ID.
type Verdict struct {
	ID            string        `json:"id"`
	AgentCategory AgentCategory `json:"agentCategory"`
	AgentScore    int           `json:"agentScore"`
	WhyItMatters  string        `json:"whyItMatters"`
	Action        string        `json:"action"`
}

// Validate checks the verdict against the output contract.
func (v Verdict) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("verdict without id")
	}
	if _, ok := agentCategories[v.AgentCategory]; !ok {
		return fmt.Errorf("verdict %s: unknown category %q", v.ID, v.AgentCategory)
	}
	if v.AgentScore < 1 || v.AgentScore > 100 {
		return fmt.Errorf("verdict %s: score %d out of range", v.ID, v.AgentScore)
	}
	if strings.TrimSpace(v.WhyItMatters) == "" {
		return fmt.Errorf("verdict %s: empty whyItMatters", v.ID)
	}
	return nil
}

// ClassifiedItem is a news item with its classification outcome.
type ClassifiedItem struct {
	NewsItem
	AgentCategory AgentCategory
	AgentScore    int
	WhyItMatters  string
	Action        string
	State         ClassificationState
	Attempts      int
	ClassifiedAt  time.Time
}

// Classified reports whether a verdict has been merged.
func (c ClassifiedItem) Classified() bool {
	return c.AgentCategory != ""
}
