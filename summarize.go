package newsreports

import (
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// sentenceTerminators covers Western and full-width CJK sentence punctuation.
var sentenceTerminators = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true,
}

// Summarize produces a short extractive summary of text. It strips markup,
// splits the text into sentences, scores each sentence by the summed
// frequency of its word tokens across the whole text, and keeps the
// maxSentences highest-scoring sentences in their original order. Texts with
// maxSentences or fewer sentences come back unchanged (minus markup). The
// function is pure: identical input always yields identical output.
func Summarize(text string, maxSentences int) string {
	if maxSentences < 1 {
		maxSentences = 1
	}

	clean := stripMarkup(text)
	sentences := splitSentences(clean)
	if len(sentences) <= maxSentences {
		return clean
	}

	freq := make(map[string]int)
	for _, tok := range tokenize(clean) {
		freq[tok]++
	}

	type scoredSentence struct {
		index int
		score int
		text  string
	}
	scored := make([]scoredSentence, len(sentences))
	for i, sentence := range sentences {
		score := 0
		for _, tok := range tokenize(sentence) {
			score += freq[tok]
		}
		scored[i] = scoredSentence{index: i, score: score, text: sentence}
	}

	// Stable sort keeps equal-score sentences in position order, so ties go
	// to the earlier sentence.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	top := scored[:maxSentences]

	// Selected sentences read in their original order, not score order.
	sort.Slice(top, func(i, j int) bool {
		return top[i].index < top[j].index
	})

	parts := make([]string, len(top))
	for i, s := range top {
		parts[i] = s.text
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// stripMarkup removes HTML tags from text. Feed descriptions are frequently
// HTML fragments; plain text passes through untouched.
func stripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return doc.Text()
}

// splitSentences breaks text after terminal punctuation followed by
// whitespace. The whitespace run is consumed; punctuation stays attached to
// its sentence. A trailing fragment without terminal punctuation is kept.
func splitSentences(text string) []string {
	var sentences []string
	var sb strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		sb.WriteRune(runes[i])
		if sentenceTerminators[runes[i]] && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sentences = append(sentences, sb.String())
			sb.Reset()
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}
	if sb.Len() > 0 {
		sentences = append(sentences, sb.String())
	}
	return sentences
}

// tokenize lowercases text and returns its runs of letters and digits.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	var tokens []string
	var sb strings.Builder
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
			continue
		}
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}
	if sb.Len() > 0 {
		tokens = append(tokens, sb.String())
	}
	return tokens
}
