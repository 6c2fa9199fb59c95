package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"verdant/internal/diag"
)

// suppressionPrefixes are accepted in front of the directive; biome-ignore is
// kept for files migrated from Biome.
var suppressionPrefixes = []string{"verdant-ignore", "biome-ignore"}

var suppressionKinds = map[string]SuppressionKind{
	"":       SuppressLine,
	"-start": SuppressRangeStart,
	"-end":   SuppressRangeEnd,
	"-all":   SuppressAll,
}

var errNoExplanation = errors.New("suppression comments need an explanation after `:`")

// ParseDirective is the SuppressionParser of every built-in language. It
// understands
//
//	// verdant-ignore[-start|-end|-all] [category...]: explanation
//	/* verdant-ignore lint/style: explanation */
//
// Categories may carry a value in parentheses, `lint/style/useConst(x)`, which
// is accepted and ignored. No category means every rule.
func ParseDirective(comment string) ([]SuppressionComment, error) {
	body, line := strings.CutPrefix(comment, "//")
	if !line {
		body = strings.TrimPrefix(body, "/*")
		body = strings.TrimSuffix(body, "*/")
		body = strings.TrimLeft(body, "*")
	}
	body = strings.TrimSpace(body)

	var rest string
	matched := false
	for _, p := range suppressionPrefixes {
		if r, ok := strings.CutPrefix(body, p); ok {
			rest, matched = r, true
			break
		}
	}
	if !matched {
		return nil, nil
	}

	suffix := rest
	if i := strings.IndexAny(rest, " \t:"); i >= 0 {
		suffix, rest = rest[:i], rest[i:]
	} else {
		rest = ""
	}
	kind, ok := suppressionKinds[suffix]
	if !ok {
		// verdant-ignorefoo: не директива
		return nil, nil
	}

	head, why, found := strings.Cut(rest, ":")
	if !found || strings.TrimSpace(why) == "" {
		return nil, errNoExplanation
	}
	var cats []diag.Category
	for _, f := range strings.Fields(head) {
		name := f
		if i := strings.IndexByte(f, '('); i >= 0 {
			if !strings.HasSuffix(f, ")") {
				return nil, fmt.Errorf("unclosed value in %q", f)
			}
			name = f[:i]
		}
		if name == "" {
			return nil, fmt.Errorf("empty category in %q", f)
		}
		cats = append(cats, diag.Category(name))
	}
	return []SuppressionComment{{
		Kind:        kind,
		Categories:  cats,
		Explanation: strings.TrimSpace(why),
	}}, nil
}
