package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

type token struct {
	text  string
	start int
	end   int
}

func tokenize(s string) []token {
	var tokens []token
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{text: s[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: s[start:], start: start, end: len(s)})
	}
	return tokens
}

// ParseTitle extracts the update described by a title following the
// convention "bump <package> from <from> to <to> [in <dir>]". Keywords are
// case-insensitive and the phrase may be preceded by anything, e.g. a
// conventional-commit prefix. Titles that do not follow the convention yield
// model.UnmatchedUpdate.
func ParseTitle(title string) model.ParsedUpdate {
	tokens := tokenize(title)

	for i := range tokens {
		// "bump" may close a longer token such as "deps-bump"
		if !hasFoldSuffix(tokens[i].text, "bump") {
			continue
		}
		if i+5 >= len(tokens) ||
			!strings.EqualFold(tokens[i+2].text, "from") ||
			!strings.EqualFold(tokens[i+4].text, "to") {
			continue
		}

		update := model.ParsedUpdate{
			Matched: true,
			Package: tokens[i+1].text,
			From:    tokens[i+3].text,
			To:      tokens[i+5].text,
		}
		if i+7 < len(tokens) && strings.EqualFold(tokens[i+6].text, "in") {
			update.Directory = restOfLine(title, tokens[i+7].start)
		}
		return update
	}

	return model.UnmatchedUpdate()
}

func hasFoldSuffix(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	return utf8.ValidString(tail) && strings.EqualFold(tail, suffix)
}

func restOfLine(s string, from int) string {
	rest := s[from:]
	if idx := strings.IndexAny(rest, "\r\n"); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}
