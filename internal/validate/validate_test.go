package validate

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalize_AlreadyConventional(t *testing.T) {
	c, err := Normalize("feat(core): add caching layer", 72, "relay")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if c.Text != "feat(core): add caching layer" {
		t.Errorf("Text = %q", c.Text)
	}
	if c.Source != "relay" {
		t.Errorf("Source = %q", c.Source)
	}
	if c.Truncated {
		t.Error("should not be truncated")
	}
}

func TestNormalize_WrapsMissingType(t *testing.T) {
	c, err := Normalize("Added new feature", 72, "anthropic")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	pattern := regexp.MustCompile(`^\w+(\([\w-]+\))?: .+`)
	if !pattern.MatchString(c.Text) {
		t.Errorf("Text = %q does not match conventional pattern", c.Text)
	}
	if c.Text != "chore: Added new feature" {
		t.Errorf("Text = %q, want deterministic chore wrapper", c.Text)
	}
}

func TestNormalize_StripsCodeFence(t *testing.T) {
	raw := "```\nfix(auth): reject expired tokens\n```"
	c, err := Normalize(raw, 72, "relay")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if c.Text != "fix(auth): reject expired tokens" {
		t.Errorf("Text = %q", c.Text)
	}
}

func TestNormalize_StripsQuotes(t *testing.T) {
	c, err := Normalize(`"docs: update install guide"`, 72, "relay")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if c.Text != "docs: update install guide" {
		t.Errorf("Text = %q", c.Text)
	}
}

func TestNormalize_DropsPreamble(t *testing.T) {
	raw := "Based on the changes, here is a commit message:\n\nfeat(api): add rate limiting"
	c, err := Normalize(raw, 72, "relay")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if c.Text != "feat(api): add rate limiting" {
		t.Errorf("Text = %q", c.Text)
	}
}

func TestNormalize_TruncatesSubjectAtWordBoundary(t *testing.T) {
	subject := "feat(core): " + strings.Repeat("implement extremely ", 5) + "verbose description"
	if len(subject) <= 72 {
		t.Fatal("test input should exceed the limit")
	}
	c, err := Normalize(subject, 72, "relay")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if !c.Truncated {
		t.Error("expected Truncated flag")
	}
	if len(c.Text) > 72 {
		t.Errorf("len = %d, want <= 72", len(c.Text))
	}
	if strings.HasSuffix(c.Text, " ") {
		t.Errorf("Text = %q has trailing space", c.Text)
	}
	// The cut must not split a word: the result plus a space must be a
	// prefix of the original.
	if !strings.HasPrefix(subject, c.Text+" ") && subject != c.Text {
		t.Errorf("Text = %q cut mid-word", c.Text)
	}
}

func TestCutAtWord_NeverSplitsRune(t *testing.T) {
	// No space inside the limit, multi-byte runes straddling it: the cut
	// must back up to a rune boundary instead of slicing mid-rune.
	s := "naïve" + strings.Repeat("ü", 50)
	for limit := 8; limit <= 20; limit++ {
		got := cutAtWord(s, limit)
		if !utf8.ValidString(got) {
			t.Errorf("cutAtWord(limit=%d) = %q is not valid UTF-8", limit, got)
		}
		if len(got) > limit {
			t.Errorf("cutAtWord(limit=%d) = %d bytes", limit, len(got))
		}
		if !strings.HasPrefix(s, got) {
			t.Errorf("cutAtWord(limit=%d) = %q is not a prefix of the input", limit, got)
		}
	}
}

func TestNormalize_KeepsBody(t *testing.T) {
	raw := "feat(core): add cache\n\nAdds an LRU cache for hot lookups."
	c, err := Normalize(raw, 72, "relay")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if !strings.Contains(c.Text, "LRU cache") {
		t.Errorf("body lost: %q", c.Text)
	}
	if !strings.HasPrefix(c.Text, "feat(core): add cache\n\n") {
		t.Errorf("Text = %q", c.Text)
	}
}

func TestNormalize_EmptyIsFatal(t *testing.T) {
	for _, raw := range []string{"", "   ", "```\n```", `""`} {
		if _, err := Normalize(raw, 72, "relay"); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("Normalize(%q) = %v, want ErrMalformedResponse", raw, err)
		}
	}
}

func TestNormalizeAll_DropsEmpties(t *testing.T) {
	got, err := NormalizeAll([]string{"feat: one", "", "fix: two"}, 72, "relay")
	if err != nil {
		t.Fatalf("NormalizeAll error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d candidates, want 2", len(got))
	}
}

func TestNormalizeAll_AllEmptyFails(t *testing.T) {
	if _, err := NormalizeAll([]string{"", "  "}, 72, "relay"); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestDedupe(t *testing.T) {
	in := []Candidate{
		{Text: "feat: one"},
		{Text: "fix: two"},
		{Text: "feat: one"},
		{Text: "chore: three"},
		{Text: "fix: two"},
	}
	got := Dedupe(in)
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	want := []string{"feat: one", "fix: two", "chore: three"}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("got[%d] = %q, want %q (order must be first-seen)", i, got[i].Text, w)
		}
	}
}
