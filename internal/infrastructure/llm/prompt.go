package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"NewsCollector/internal/domain"
)

const defaultSystemPrompt = `You triage AI industry news for a newsletter read by software engineers.
For every item decide:
- agentCategory: one of LAUNCH, TOOL, TECHNIQUE, RESEARCH, INSIGHT, BUILD
- agentScore: integer 1-100, how much a practitioner should care this week
- whyItMatters: one sentence, concrete, no hype
- action: one short imperative a reader can take (may be empty)
Answer with a JSON array only, one object per input item, each carrying the input "id" unchanged.`

// SystemPrompt returns the configured prompt or the built-in one.
func SystemPrompt(custom string) string {
	if p := strings.TrimSpace(custom); p != "" {
		return p
	}
	return defaultSystemPrompt
}

// BuildUserPrompt renders the batch as the user message.
func BuildUserPrompt(batch []domain.ClassificationInput) (string, error) {
	payload, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal batch: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Classify these %d items. Return exactly %d entries.\n\n", len(batch), len(batch))
	b.Write(payload)
	return b.String(), nil
}
