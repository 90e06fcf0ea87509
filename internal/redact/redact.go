package redact

import "regexp"

const mask = "[REDACTED]"

// patterns are heuristics for credentials that commonly end up in diffs.
// False positives cost a masked line in the prompt, false negatives leak a
// secret to a third party, so the patterns lean aggressive.
var patterns = []*regexp.Regexp{
	// assignments of key-like names to long values
	regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password|passwd|credential)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
	// AWS access key ids
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// bearer headers
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// private key headers
	regexp.MustCompile(`-----BEGIN\s+[A-Z ]*PRIVATE KEY-----`),
	// GitHub and Anthropic style tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`),
}

// Mask replaces detected secrets in the diff with a fixed placeholder.
func Mask(diff string) string {
	for _, pat := range patterns {
		diff = pat.ReplaceAllString(diff, mask)
	}
	return diff
}
