package advisor

import (
	"regexp"
	"strings"

	"liquidity-ticker/internal/domain"
)

var bulletPrefix = regexp.MustCompile(`^-\s*`)

// ParseRecommendations turns generated text into display lines. The first
// non-blank line is always treated as a preamble and dropped, even when it
// carries content or cleans to nothing. Lines that clean to nothing after
// that are skipped.
func ParseRecommendations(raw string) domain.RecommendationSet {
	lines := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) <= 1 {
		return domain.RecommendationSet{}
	}

	lines = lines[1:]
	if len(lines) > domain.MaxRecommendations {
		lines = lines[:domain.MaxRecommendations]
	}

	out := make(domain.RecommendationSet, 0, len(lines))
	for _, line := range lines {
		if c := cleanLine(line); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = bulletPrefix.ReplaceAllString(line, "")
	line = strings.TrimPrefix(line, `"`)
	line = strings.TrimSuffix(line, `"`)
	return strings.TrimSpace(line)
}
