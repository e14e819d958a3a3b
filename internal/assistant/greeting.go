package assistant

import "strings"

// greetings recognized without going through the classifier. Matching is
// fuzzy so "helo" and "morninng" still land.
var greetings = []string{
	"hi", "hello", "hey", "hii",
	"good morning", "good afternoon", "good evening",
}

const greetingThreshold = 0.8

// IsGreeting reports whether text is close enough to a known greeting.
func IsGreeting(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return false
	}
	for _, g := range greetings {
		if similarity(normalized, g) >= greetingThreshold {
			return true
		}
	}
	return false
}

// similarity is 1 - normalized Levenshtein distance. No fuzzy-matching
// dependency carries its weight for a seven-entry list.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
