package searchindex

import "strings"

// tokenize implements spec.md §4.3's shared tokenizer: lowercase, then
// extract maximal matches of "ASCII letter followed by at least two ASCII
// letters/digits/underscores" — identifiers of length >= 3 starting with a
// letter. Shared by indexing and query time.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	var tokens []string
	var cur []byte

	flush := func() {
		if len(cur) >= 3 {
			tokens = append(tokens, string(cur))
		}
		cur = cur[:0]
	}

	for i := 0; i < len(lower); i++ {
		c := lower[i]
		switch {
		case isLetter(c):
			cur = append(cur, c)
		case isDigitOrUnderscore(c):
			if len(cur) > 0 {
				cur = append(cur, c)
			}
		default:
			flush()
		}
	}
	flush()

	return tokens
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isDigitOrUnderscore(c byte) bool {
	return (c >= '0' && c <= '9') || c == '_'
}
