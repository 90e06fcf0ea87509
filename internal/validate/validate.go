package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// defaultType wraps output that lacks a conventional-commit prefix. Fixed
// rather than inferred, so identical input always normalizes identically.
const defaultType = "chore"

// ErrMalformedResponse indicates the backend returned nothing usable.
var ErrMalformedResponse = errors.New("response is empty after normalization")

// conventionalPattern matches a conventional-commit subject line.
var conventionalPattern = regexp.MustCompile(`^\w+(\([\w./-]+\))?!?: .+`)

// typePrefix locates the first conventional type token in noisy output,
// so preambles like "Based on the changes..." can be dropped.
var typePrefix = regexp.MustCompile(`(?m)\b(feat|fix|docs|style|refactor|perf|test|chore|ci|build)(\([\w./-]+\))?!?:`)

// Candidate is a normalized generated message with its provenance.
type Candidate struct {
	Text      string
	Source    string
	Truncated bool
}

// Normalize cleans raw backend text into a Candidate. source names the
// backend that produced the text. Returns ErrMalformedResponse when
// nothing survives cleanup.
func Normalize(raw string, maxSubject int, source string) (Candidate, error) {
	text := strings.TrimSpace(raw)
	text = stripFences(text)
	text = stripQuotes(text)
	text = dropPreamble(text)
	text = strings.TrimSpace(text)

	if text == "" {
		return Candidate{}, ErrMalformedResponse
	}

	subject, body, _ := strings.Cut(text, "\n")
	subject = strings.TrimSpace(subject)

	if !conventionalPattern.MatchString(subject) {
		subject = defaultType + ": " + subject
	}

	c := Candidate{Source: source}
	if maxSubject > 0 && len(subject) > maxSubject {
		subject = cutAtWord(subject, maxSubject)
		c.Truncated = true
	}

	c.Text = subject
	if body = strings.TrimSpace(body); body != "" {
		c.Text = subject + "\n\n" + body
	}
	return c, nil
}

// NormalizeAll normalizes each raw text, dropping the unusable ones.
// Fails only when nothing survives.
func NormalizeAll(raws []string, maxSubject int, source string) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(raws))
	for _, raw := range raws {
		c, err := Normalize(raw, maxSubject, source)
		if err != nil {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, ErrMalformedResponse
	}
	return candidates, nil
}

// Dedupe removes exact-text duplicates, preserving first-seen order.
func Dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]bool, len(candidates))
	result := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Text] {
			continue
		}
		seen[c.Text] = true
		result = append(result, c)
	}
	return result
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}

func stripQuotes(text string) string {
	for _, q := range []string{`"`, "'", "`"} {
		if len(text) >= 2 && strings.HasPrefix(text, q) && strings.HasSuffix(text, q) {
			return text[1 : len(text)-1]
		}
	}
	return text
}

func dropPreamble(text string) string {
	loc := typePrefix.FindStringIndex(text)
	if loc == nil || loc[0] == 0 {
		return text
	}
	return text[loc[0]:]
}

// cutAtWord truncates s to at most limit bytes, breaking at the last space
// inside the limit when one exists. The cut never splits a rune.
func cutAtWord(s string, limit int) string {
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	cut := s[:limit]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:-")
}
