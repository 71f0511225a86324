package game

import "strings"

// NormalizeAnswer reduces a guess or answer to its comparable form:
// lowercased, with all whitespace runs collapsed and punctuation
// commonly typed around answers stripped.
func NormalizeAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	lastSpace := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastSpace && sb.Len() > 0 {
				sb.WriteRune(' ')
				lastSpace = true
			}
		case r == '\'' || r == '"' || r == '.' || r == ',' || r == '!' || r == '?' || r == '-':
			// skip
		default:
			sb.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// CheckGuess reports whether a guess matches the stored answer. The
// server is the authority on correctness; client-reported flags are
// never trusted.
func CheckGuess(answer, guess string) bool {
	n := NormalizeAnswer(answer)
	if n == "" {
		return false
	}
	return n == NormalizeAnswer(guess)
}
