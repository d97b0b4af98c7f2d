package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// TrimAndNormalize trims the ends and collapses inner whitespace runs to one space.
func TrimAndNormalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

func truncate(limit int) Strategy {
	return func(s string) string {
		runes := []rune(s)
		if len(runes) <= limit {
			return s
		}
		return strings.TrimSpace(string(runes[:limit]))
	}
}

// SanitizeFreeText cleans guest messages and block reasons: control characters
// are removed, line breaks are kept, and the result is capped at limit runes.
func SanitizeFreeText(input string, limit int) string {
	p := Pipeline{
		stripControl,
		func(s string) string {
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				lines[i] = TrimAndNormalize(line)
			}
			return strings.TrimSpace(strings.Join(lines, "\n"))
		},
		truncate(limit),
	}
	return p.Apply(input)
}

// SanitizeLabel is used for short single-line values such as meal plan names
// and duration labels.
func SanitizeLabel(input string) string {
	return Pipeline{stripControl, TrimAndNormalize}.Apply(input)
}

func SanitizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
