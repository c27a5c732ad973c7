package parser

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// leadingWord splits raw into its leading identifier and the rest of the
// line. The character right after the word is kept in rest unless it is
// whitespace, so "A:1 = 2" yields ("A", ":1 = 2").
func leadingWord(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) {
		r, n := utf8.DecodeRuneInString(raw[end:])
		if end == 0 && !isIdentStart(r) {
			break
		}
		if !isIdentPart(r) {
			break
		}
		end += n
	}
	return raw[:end], strings.TrimLeftFunc(raw[end:], unicode.IsSpace)
}

// keywordArg reports whether raw is keyword followed by whitespace or the
// end of the line, returning the trimmed argument text.
func keywordArg(raw, keyword string) (string, bool) {
	word, rest := leadingWord(raw)
	if !strings.EqualFold(word, keyword) {
		return "", false
	}
	if rest != "" && len(raw) > len(word) {
		r, _ := utf8.DecodeRuneInString(raw[len(word):])
		if !unicode.IsSpace(r) {
			return "", false
		}
	}
	return rest, true
}

// splitAssign finds the first top-level '=' that belongs to an assignment
// operator, skipping ==, !=, <= and >=. A preceding + - * / or | makes it a
// compound operator and is returned as op.
func splitAssign(raw string) (lhs, op, rhs string, ok bool) {
	depth := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(':
			depth++
			continue
		case ')':
			if depth > 0 {
				depth--
			}
			continue
		case '=':
		default:
			continue
		}
		if depth > 0 {
			continue
		}
		if i+1 < len(raw) && raw[i+1] == '=' {
			i++
			continue
		}
		if i > 0 {
			switch raw[i-1] {
			case '!', '<', '>', '=':
				continue
			case '+', '-', '*', '/', '|':
				return strings.TrimSpace(raw[:i-1]), raw[i-1 : i+1], strings.TrimSpace(raw[i+1:]), true
			}
		}
		return strings.TrimSpace(raw[:i]), "=", strings.TrimSpace(raw[i+1:]), true
	}
	return "", "", "", false
}
