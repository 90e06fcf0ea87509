package workflow

import (
	"context"

	"github.com/dshills/gyst/internal/prompt"
)

// RunSuggestions executes the multi-candidate workflow: same Collecting
// and Generating states as Run, then a single selection among Count
// candidates. Selecting none aborts with no mutation; a selection goes
// through the shared Committing state.
func (w *Workflow) RunSuggestions(ctx context.Context) Result {
	count := w.opts.Count
	if count < 1 {
		count = 3
	}

	changes, diff, res := w.collect()
	if res != nil {
		return *res
	}

	candidates, res := w.generate(ctx, changes, diff, prompt.Suggestions(count), count)
	if res != nil {
		return *res
	}

	w.transition(StatePresenting)

	items := make([]string, len(candidates))
	for i, c := range candidates {
		items[i] = c.Text
	}

	idx, ok, err := w.term.Select("Select a commit message", items)
	if err != nil {
		return *w.fail(err)
	}
	if !ok {
		w.term.Info("No message selected. You can still commit manually.")
		return *w.abort()
	}

	return w.commit(candidates[idx].Text)
}
