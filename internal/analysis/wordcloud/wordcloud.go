package wordcloud

import (
	"sort"
	"strings"
)

// Word is one ranked entry of the cloud.
type Word struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

const (
	// Tokens of this length or shorter carry no signal and are dropped.
	minTokenLength = 3

	// MaxWords caps the ranking to the most frequent entries.
	MaxWords = 50
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "as", "is", "was", "are", "were", "be",
		"been", "have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "must", "can", "this", "that",
		"these", "those", "i", "you", "he", "she", "it", "we", "they", "me",
		"him", "her", "us", "them", "my", "your", "his", "its", "our",
		"their", "what", "which", "who", "whom", "whose", "where", "when",
		"why", "how", "all", "each", "every", "both", "few", "more", "most",
		"other", "some", "such", "no", "nor", "not", "only", "own", "same",
		"so", "than", "too", "very", "just", "now",
	} {
		stopwords[w] = struct{}{}
	}
}

func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}

// Tokenize lowercases the text, treats every non-word character as a
// separator, and drops short tokens and common function words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordChar(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < minTokenLength {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Rank counts token occurrences across the recent chat window and every live
// suggestion text, then returns up to MaxWords entries ordered by descending
// count. Ties keep the order in which the words were first encountered.
func Rank(chatTexts, suggestionTexts []string) []Word {
	counts := make(map[string]int)
	order := make([]string, 0, 64)

	tally := func(text string) {
		for _, token := range Tokenize(text) {
			if _, seen := counts[token]; !seen {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	for _, text := range chatTexts {
		tally(text)
	}
	for _, text := range suggestionTexts {
		tally(text)
	}

	words := make([]Word, 0, len(order))
	for _, token := range order {
		words = append(words, Word{Text: token, Count: counts[token]})
	}

	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})

	if len(words) > MaxWords {
		words = words[:MaxWords]
	}
	return words
}
