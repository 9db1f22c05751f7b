package niche

import "strings"

// Profile holds the provider-specific query parameters resolved for a niche:
// the subreddits the Reddit adapter should scan and the keywords the Hacker
// News adapter should filter titles on. An empty keyword list means no
// keyword filtering is applied.
type Profile struct {
	Subreddits []string
	Keywords   []string
}

// defaultSubreddits is used for any niche without a configured mapping.
// General-interest communities so an unrecognized niche still yields data.
var defaultSubreddits = []string{"popular", "news", "todayilearned", "AskReddit"}

var profiles = map[string]Profile{
	"ai": {
		Subreddits: []string{"artificial", "MachineLearning", "OpenAI", "singularity", "LocalLLaMA"},
		Keywords:   []string{"ai", "gpt", "llm", "openai", "machine learning", "model"},
	},
	"fitness": {
		Subreddits: []string{"Fitness", "bodyweightfitness", "loseit", "running", "nutrition"},
		Keywords:   []string{"fitness", "workout", "diet", "health", "exercise"},
	},
	"dating": {
		Subreddits: []string{"dating", "dating_advice", "relationships", "Tinder"},
		Keywords:   []string{"dating", "relationship", "tinder", "romance"},
	},
	"marketing": {
		Subreddits: []string{"marketing", "digital_marketing", "SEO", "socialmedia", "Entrepreneur"},
		Keywords:   []string{"marketing", "seo", "brand", "advertising", "growth"},
	},
	"crypto": {
		Subreddits: []string{"CryptoCurrency", "Bitcoin", "ethereum", "defi", "solana"},
		Keywords:   []string{"crypto", "bitcoin", "ethereum", "blockchain", "token", "defi"},
	},
	"freelancing": {
		Subreddits: []string{"freelance", "WorkOnline", "digitalnomad", "Upwork"},
		Keywords:   []string{"freelance", "remote", "client", "gig"},
	},
	"startups": {
		Subreddits: []string{"startups", "Entrepreneur", "SaaS", "smallbusiness", "ycombinator"},
		Keywords:   []string{"startup", "founder", "funding", "saas", "yc"},
	},
	"productivity": {
		Subreddits: []string{"productivity", "getdisciplined", "Notion", "selfimprovement"},
		Keywords:   []string{"productivity", "habit", "focus", "workflow", "notion"},
	},
}

// Resolve maps a free-text niche label to its query profile. Lookup is a
// case-insensitive exact match; an unrecognized niche falls back to the
// default subreddit list with no keyword filtering rather than failing, so
// an unknown niche never aborts the pipeline.
func Resolve(niche string) Profile {
	if p, ok := profiles[strings.ToLower(strings.TrimSpace(niche))]; ok {
		return p
	}
	return Profile{Subreddits: defaultSubreddits}
}
