// internal/nlu/tokenizer.go
package nlu

import (
	"strings"
	"unicode"
)

// Filler phrases are stripped before single-word filtering so that scaffolding
// like "who is" or "tell me about" disappears as a unit. Longest first.
var fillerPhrases = [][]string{
	{"tell", "me", "about"},
	{"what", "do", "you", "know", "about"},
	{"i", "want", "to", "know"},
	{"can", "you", "tell", "me"},
	{"who", "is"},
	{"who", "are"},
	{"what", "is"},
	{"what", "are"},
	{"whats"},
	{"whos"},
	{"how", "about"},
	{"for", "the"},
	{"of", "the"},
}

var fillerWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"who": true, "what": true, "when": true, "where": true, "how": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"can": true, "could": true, "should": true,
	"i": true, "me": true, "my": true, "you": true, "your": true,
	"please": true, "hey": true, "ok": true, "okay": true,
	"tell": true, "show": true, "give": true, "know": true, "want": true,
	"about": true, "for": true, "of": true, "on": true, "in": true,
	"at": true, "to": true, "with": true, "and": true,
	"this": true, "that": true, "it": true, "its": true,
}

// Tokenize turns a raw utterance into an ordered sequence of lowercase,
// punctuation-stripped tokens with filler phrases and stopwords removed.
// An empty result is a valid terminal state (all-filler input), not an error.
func Tokenize(raw string) []string {
	tokens := splitNormalized(raw)
	tokens = stripFillerPhrases(tokens)

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if fillerWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// NormalizePhrase lowercases, strips punctuation, and collapses whitespace.
// Alias index keys and fuzzy-match inputs go through the same normalization
// so lookups compare like with like.
func NormalizePhrase(s string) string {
	return strings.Join(splitNormalized(s), " ")
}

func splitNormalized(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'':
			// drop apostrophes entirely: "what's" -> "whats"
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

func stripFillerPhrases(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		matched := 0
		for _, phrase := range fillerPhrases {
			if matchesAt(tokens, i, phrase) {
				matched = len(phrase)
				break
			}
		}
		if matched > 0 {
			i += matched
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

func matchesAt(tokens []string, i int, phrase []string) bool {
	if i+len(phrase) > len(tokens) {
		return false
	}
	for j, p := range phrase {
		if tokens[i+j] != p {
			return false
		}
	}
	return true
}
