package llm

import (
	"context"
	"fmt"
	"regexp"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/ports"
)

var (
	techniquePattern = regexp.MustCompile(`(?i)\b(how to|guide|tutorial|tips|prompting|best practices|lessons)\b`)
	buildPattern     = regexp.MustCompile(`(?i)\b(show hn|i built|we built|built with|side project|open[- ]sourced?)\b`)
)

type rule struct {
	category domain.AgentCategory
	score    int
	action   string
}

var categoryRules = map[domain.Category]rule{
	domain.CategoryModelRelease:      {domain.AgentLaunch, 75, "Try it on one of your own tasks"},
	domain.CategoryDeveloperPlatform: {domain.AgentTool, 60, "Check whether it replaces something in your stack"},
	domain.CategoryOfficialBlog:      {domain.AgentResearch, 65, "Skim the write-up"},
	domain.CategoryProductEcosystem:  {domain.AgentInsight, 45, ""},
}

// RuleClassifier maps heuristic categories to verdicts without any external call.
type RuleClassifier struct{}

var _ ports.Classifier = RuleClassifier{}

// Classify returns one verdict per item.
func (RuleClassifier) Classify(_ context.Context, batch []domain.ClassificationInput) ([]domain.Verdict, error) {
	out := make([]domain.Verdict, 0, len(batch))
	for _, item := range batch {
		r, ok := categoryRules[item.Category]
		if !ok {
			r = categoryRules[domain.CategoryProductEcosystem]
		}
		text := item.Title + " " + item.Summary
		switch {
		case techniquePattern.MatchString(text):
			r = rule{domain.AgentTechnique, 55, "Save it for your next related task"}
		case buildPattern.MatchString(text):
			r = rule{domain.AgentBuild, 50, "Look at how it is put together"}
		}
		out = append(out, domain.Verdict{
			ID:            item.ID,
			AgentCategory: r.category,
			AgentScore:    r.score,
			WhyItMatters:  fmt.Sprintf("%s item from %s", r.category, item.Source),
			Action:        r.action,
		})
	}
	return out, nil
}
