package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/gyst/internal/config"
	"github.com/dshills/gyst/internal/gitrepo"
	"github.com/dshills/gyst/internal/logx"
	"github.com/dshills/gyst/internal/prompt"
	"github.com/dshills/gyst/internal/provider"
	"github.com/dshills/gyst/internal/redact"
	"github.com/dshills/gyst/internal/ui"
	"github.com/dshills/gyst/internal/validate"
	"go.uber.org/zap"
)

// State is a phase of the commit state machine.
type State int

const (
	StateCollecting State = iota
	StateGenerating
	StatePresenting
	StateEditing
	StateCommitting
	StateCommitted
	StateAborted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateGenerating:
		return "generating"
	case StatePresenting:
		return "presenting"
	case StateEditing:
		return "editing"
	case StateCommitting:
		return "committing"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is a terminal state of a workflow run.
type Outcome int

const (
	// OutcomeCommitted means a commit was recorded.
	OutcomeCommitted Outcome = iota
	// OutcomeAborted means the user backed out; the repository is untouched.
	OutcomeAborted
	// OutcomeFailed means an error stopped the run before any mutation.
	OutcomeFailed
)

// Result is what a workflow run ends with.
type Result struct {
	Outcome Outcome
	Message string
	Err     error
}

// Repository is the slice of git operations the workflows need.
type Repository interface {
	Collect(maxDiffLines int) (gitrepo.ChangeSet, gitrepo.DiffText, error)
	StageAll() error
	Commit(message string) error
	Push() error
}

// Prompter is the interactive terminal surface.
type Prompter interface {
	Confirm(question string) (bool, error)
	AskDecision() (ui.Decision, error)
	Select(question string, items []string) (int, bool, error)
	ShowMessage(label, message string)
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// EditorFunc opens an editing session seeded with text and returns the
// edited result.
type EditorFunc func(seed string) (string, error)

// Options control a workflow run.
type Options struct {
	// Quick commits the first candidate without asking.
	Quick bool
	// Push runs a push after a successful commit.
	Push bool
	// Count is the number of suggestion candidates to request.
	Count int
}

// Workflow generates a commit message for staged changes and drives the
// interactive commit decision.
type Workflow struct {
	repo   Repository
	client provider.Client
	term   Prompter
	cfg    config.Config
	opts   Options
	editor EditorFunc
	log    *zap.Logger
	state  State
}

// New builds a Workflow. editor may be nil, in which case the external
// $EDITOR session is used.
func New(repo Repository, client provider.Client, term Prompter, cfg config.Config, opts Options) *Workflow {
	return &Workflow{
		repo:   repo,
		client: client,
		term:   term,
		cfg:    cfg,
		opts:   opts,
		editor: EditMessage,
		log:    logx.Debug(),
		state:  StateCollecting,
	}
}

// SetEditor replaces the editor session, used by tests and callers that
// cannot spawn a child process.
func (w *Workflow) SetEditor(editor EditorFunc) { w.editor = editor }

func (w *Workflow) transition(next State) {
	w.log.Debug("state transition",
		zap.Stringer("from", w.state),
		zap.Stringer("to", next))
	w.state = next
}

// Run executes the single-message commit workflow.
func (w *Workflow) Run(ctx context.Context) Result {
	changes, diff, res := w.collect()
	if res != nil {
		return *res
	}

	candidates, res := w.generate(ctx, changes, diff, prompt.CommitMessage(), 1)
	if res != nil {
		return *res
	}

	return w.present(ctx, candidates[0])
}

// collect runs the Collecting state: gathers staged changes, offering to
// stage everything when the index is empty.
func (w *Workflow) collect() (gitrepo.ChangeSet, gitrepo.DiffText, *Result) {
	changes, diff, err := w.repo.Collect(w.cfg.MaxDiffSize)
	if errors.Is(err, gitrepo.ErrNoStagedChanges) {
		w.term.Warn("No staged changes found.")
		stage, confirmErr := w.term.Confirm("Would you like to stage all changes?")
		if confirmErr != nil {
			return gitrepo.ChangeSet{}, gitrepo.DiffText{}, w.fail(confirmErr)
		}
		if !stage {
			w.term.Info("Nothing to commit. Stage your changes with 'git add' first.")
			return gitrepo.ChangeSet{}, gitrepo.DiffText{}, w.abort()
		}
		if err := w.repo.StageAll(); err != nil {
			return gitrepo.ChangeSet{}, gitrepo.DiffText{}, w.fail(err)
		}
		changes, diff, err = w.repo.Collect(w.cfg.MaxDiffSize)
		if errors.Is(err, gitrepo.ErrNoStagedChanges) {
			w.term.Info("Working tree is clean; nothing to commit.")
			return gitrepo.ChangeSet{}, gitrepo.DiffText{}, w.abort()
		}
	}
	if err != nil {
		return gitrepo.ChangeSet{}, gitrepo.DiffText{}, w.fail(err)
	}
	return changes, diff, nil
}

// generate runs the Generating state: redact, build the prompt, call the
// backend, normalize. Any unrecoverable error fails the run with no
// mutation performed.
func (w *Workflow) generate(ctx context.Context, changes gitrepo.ChangeSet, diff gitrepo.DiffText, task prompt.Task, count int) ([]validate.Candidate, *Result) {
	w.transition(StateGenerating)

	diff.Text = redact.Mask(diff.Text)
	p := prompt.Build(changes, diff, task)

	w.term.Info("Analyzing changes and generating commit message...")
	raws, err := w.client.Generate(ctx, p, count)
	if err != nil {
		return nil, w.fail(err)
	}

	candidates, err := validate.NormalizeAll(raws, w.cfg.MaxSubjectLength, w.client.Name())
	if err != nil {
		return nil, w.fail(err)
	}
	return validate.Dedupe(candidates), nil
}

// present runs the Presenting state for a single candidate.
func (w *Workflow) present(ctx context.Context, candidate validate.Candidate) Result {
	w.transition(StatePresenting)

	if w.opts.Quick {
		return w.commit(candidate.Text)
	}

	for {
		if err := ctx.Err(); err != nil {
			return *w.fail(err)
		}

		w.term.ShowMessage("Proposed commit message:", candidate.Text)
		if candidate.Truncated {
			w.term.Warn("subject was truncated to the configured length limit")
		}

		decision, err := w.term.AskDecision()
		if err != nil {
			return *w.fail(err)
		}

		switch decision {
		case ui.DecisionReject:
			w.term.Info("Commit aborted.")
			return *w.abort()
		case ui.DecisionEdit:
			w.transition(StateEditing)
			edited, err := w.editor(candidate.Text)
			if err != nil {
				return *w.fail(fmt.Errorf("editor session: %w", err))
			}
			if edited == "" {
				// An emptied buffer is a non-answer: ask again rather
				// than committing nothing.
				w.transition(StatePresenting)
				continue
			}
			return w.commit(edited)
		default:
			return w.commit(candidate.Text)
		}
	}
}

// commit runs the Committing state. This is the only place the repository
// is mutated. A push failure after a durable commit is a warning, not an
// error.
func (w *Workflow) commit(message string) Result {
	w.transition(StateCommitting)

	if err := w.repo.Commit(message); err != nil {
		if errors.Is(err, gitrepo.ErrIndexLocked) {
			w.term.Error("another git process is committing; try again")
		}
		return *w.fail(err)
	}

	w.term.Success("Commit created successfully!")
	w.term.ShowMessage("Commit Message:", message)

	if w.opts.Push {
		if err := w.repo.Push(); err != nil {
			w.term.Warn(fmt.Sprintf("commit succeeded but push failed: %v", err))
		} else {
			w.term.Success("Pushed to remote.")
		}
	}

	w.transition(StateCommitted)
	return Result{Outcome: OutcomeCommitted, Message: message}
}

func (w *Workflow) abort() *Result {
	w.transition(StateAborted)
	return &Result{Outcome: OutcomeAborted}
}

func (w *Workflow) fail(err error) *Result {
	w.transition(StateFailed)
	return &Result{Outcome: OutcomeFailed, Err: err}
}
