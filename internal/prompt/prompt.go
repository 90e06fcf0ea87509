package prompt

import (
	"fmt"
	"strings"

	"github.com/dshills/gyst/internal/gitrepo"
)

const commitSystemPrompt = `You are an AI assistant that helps developers write clear and meaningful git commit messages.
Follow these rules:
1. Use the conventional commit format: <type>(<scope>): <description>
2. Keep the subject line under 72 characters
3. Use the imperative mood ("add" not "added")
4. Don't end the subject line with a period
5. Focus on WHY and WHAT, not HOW
6. If there are breaking changes, add BREAKING CHANGE: in the body

Types: feat, fix, docs, style, refactor, perf, test, chore, ci, build

Return ONLY the commit message, without any prefixes or explanations.`

const explainSystemPrompt = `You are a Git command suggestion assistant. Given a natural language description of what the user wants to do, suggest the appropriate Git command(s).

Rules:
1. Always provide clear, concise commands
2. Include a brief explanation of what each command does
3. If multiple steps are needed, number them
4. If there are alternative approaches, mention them
5. Include any relevant flags or options that might be helpful
6. Warn about any potential risks or things to be careful about

Format your response as:
COMMAND: <the command>
EXPLANATION: <brief explanation>
NOTE: <optional notes/warnings>`

// Kind identifies the generation task.
type Kind int

const (
	KindCommitMessage Kind = iota
	KindSuggestions
	KindExplain
)

// Task is a generation task with its parameters.
type Task struct {
	Kind        Kind
	Count       int
	Description string
}

// CommitMessage is the single-message task.
func CommitMessage() Task { return Task{Kind: KindCommitMessage, Count: 1} }

// Suggestions asks for count alternative messages.
func Suggestions(count int) Task { return Task{Kind: KindSuggestions, Count: count} }

// Explain asks for a git command matching a natural-language description.
func Explain(description string) Task {
	return Task{Kind: KindExplain, Count: 1, Description: description}
}

// Prompt is the provider-agnostic request payload. System and User carry
// the rendered text the direct backend sends; Changes and Diff carry the
// raw shapes the relay wire format needs.
type Prompt struct {
	System  string
	User    string
	Task    Task
	Changes gitrepo.ChangeSet
	Diff    gitrepo.DiffText
}

// Build renders a Prompt from the collected changes and task. It is
// deterministic: no timestamps, no randomness, no map iteration.
func Build(changes gitrepo.ChangeSet, diff gitrepo.DiffText, task Task) Prompt {
	p := Prompt{Task: task, Changes: changes, Diff: diff}

	if task.Kind == KindExplain {
		p.System = explainSystemPrompt
		p.User = task.Description
		return p
	}

	p.System = commitSystemPrompt

	var b strings.Builder
	b.WriteString("Here are the changes to commit:\n\n")

	if len(changes.Added) > 0 {
		b.WriteString("Added files:\n")
		for _, file := range changes.Added {
			fmt.Fprintf(&b, "  + %s\n", file)
		}
	}
	if len(changes.Modified) > 0 {
		b.WriteString("\nModified files:\n")
		for _, file := range changes.Modified {
			fmt.Fprintf(&b, "  * %s\n", file)
		}
	}
	if len(changes.Deleted) > 0 {
		b.WriteString("\nDeleted files:\n")
		for _, file := range changes.Deleted {
			fmt.Fprintf(&b, "  - %s\n", file)
		}
	}
	if len(changes.Renamed) > 0 {
		b.WriteString("\nRenamed files:\n")
		for _, r := range changes.Renamed {
			fmt.Fprintf(&b, "  %s -> %s\n", r.Old, r.New)
		}
	}

	fmt.Fprintf(&b, "\nStats: %d files changed, %d insertions(+), %d deletions(-)\n",
		changes.Stats.FilesChanged, changes.Stats.Insertions, changes.Stats.Deletions)

	if diff.Truncated {
		b.WriteString("\nNote: the diff below was cut at the configured line limit; not all changes are shown.\n")
	}

	b.WriteString("\nHere's the detailed diff:\n")
	b.WriteString(diff.Text)

	// Suggestions use the same single-message instruction: each backend
	// call yields one candidate, and variety comes from sampling, not
	// from asking for a list that would have to be split apart.
	b.WriteString("\nPlease generate a commit message following the conventional commit format.")

	p.User = b.String()
	return p
}
