package ai

import (
	"fmt"
	"strings"

	"github.com/trendformer/trendformer/internal/models"
)

var toneSystemPrompts = map[string]string{
	models.ToneDegen:      "You are a bold, unfiltered, hype Degen Twitter creator. You write punchy, meme-aware threads with high energy, crisp sentences, and occasional crypto slang. Never be offensive.",
	models.ToneContrarian: "You are a contrarian thinker. You challenge assumptions, provide spicy but reasoned hot takes, and back them with logic. Keep it concise and insightful.",
	models.ToneExpert:     "You are an expert educator. You write clean, structured, insight-first threads with clear takeaways and practical advice.",
}

const rankingSystemPrompt = "You are an expert content strategist. Analyze trends and return only valid JSON."

func buildRankingPrompt(niche string, trends []models.Trend) string {
	var list strings.Builder
	for i, t := range trends {
		score := "N/A"
		if t.Score != nil {
			score = fmt.Sprintf("%d", *t.Score)
		}
		context := t.Body
		if context == "" && t.TopComment != nil {
			context = *t.TopComment
		}
		if len(context) > 200 {
			context = context[:200]
		}
		fmt.Fprintf(&list, "%d: %q (%s, score: %s)\n   Context: %s...\n\n", i, t.Topic, t.Source, score, context)
	}

	return fmt.Sprintf(`You are an expert content strategist analyzing trending topics for the %s niche.

Analyze these %d trends and rank them by relevance and potential for viral Twitter content:

%s
Consider:
- Relevance to %s audience interests
- Timeliness and trending momentum
- Controversy/discussion potential
- Actionable insights for the audience
- Content creation opportunities

Return JSON with exactly this format:
{
  "rankings": [
    {
      "index": 0,
      "relevanceScore": 8.5,
      "reasoning": "Brief explanation of why this trend is highly relevant"
    }
  ]
}

Rank ALL trends provided. Sort by relevanceScore (highest first). Use scores 1-10 (decimals ok).`,
		niche, len(trends), list.String(), niche)
}

func buildThreadInstructions(niche, topic, context string) string {
	lines := []string{
		fmt.Sprintf("Niche: %s", niche),
		fmt.Sprintf("Trending topic: %s", topic),
	}
	if strings.TrimSpace(context) != "" {
		lines = append(lines, "Context (from Reddit/HN):", strings.TrimSpace(context))
	}
	lines = append(lines,
		"Return a JSON object with this exact shape (keys in lowerCamelCase):",
		`{ "title": string, "segments": string[], "cta"?: string, "quoteIdea"?: string }`,
		"Constraints:",
		"- Title/hook on first tweet",
		"- 5-8 numbered tweet segments in segments[], each < 280 chars",
		"- Choose the number of segments based on context richness: use ~5 if little context, up to 8 if context is rich and varied",
		"- Optional CTA or quote-tweet idea",
		"- Keep formatting clean. No hashtags unless natural. Avoid emojis unless tone strongly implies.",
		"Respond ONLY with valid JSON. No prose or Markdown.",
	)
	return strings.Join(lines, "\n")
}
