package gitrepo

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// renameThreshold is the similarity score git uses to pair a delete and an
// add into a rename. Below it, the two paths surface separately.
const renameThreshold = "-M50%"

// TruncationMarker is appended to a diff that was cut at the line limit.
const TruncationMarker = "... (diff truncated at line limit)"

var (
	// ErrNotRepository indicates the path is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")
	// ErrNoStagedChanges indicates the index holds nothing to commit.
	ErrNoStagedChanges = errors.New("no staged changes")
	// ErrIndexLocked indicates another git process holds the index lock.
	ErrIndexLocked = errors.New("index is locked by another git process")
)

// Repo is a handle to a discovered git repository.
type Repo struct {
	root string
}

// Open discovers the repository containing path.
func Open(path string) (*Repo, error) {
	out, err := git(path, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	return &Repo{root: strings.TrimSpace(out)}, nil
}

// Root returns the repository's top-level directory.
func (r *Repo) Root() string { return r.root }

// Collect categorizes the staged changes and gathers the staged diff,
// bounded to maxDiffLines lines. Returns ErrNoStagedChanges when the index
// matches HEAD.
func (r *Repo) Collect(maxDiffLines int) (ChangeSet, DiffText, error) {
	changes, err := r.stagedChanges()
	if err != nil {
		return ChangeSet{}, DiffText{}, err
	}
	if changes.Empty() {
		return ChangeSet{}, DiffText{}, ErrNoStagedChanges
	}

	raw, err := git(r.root, "diff", "--cached", renameThreshold)
	if err != nil {
		return ChangeSet{}, DiffText{}, fmt.Errorf("git diff --cached: %w", err)
	}

	return changes, BoundDiff(raw, maxDiffLines), nil
}

// stagedChanges builds the categorized ChangeSet from name-status and
// numstat output.
func (r *Repo) stagedChanges() (ChangeSet, error) {
	changes := ChangeSet{
		Added:    []string{},
		Modified: []string{},
		Deleted:  []string{},
		Renamed:  []Rename{},
	}

	out, err := git(r.root, "diff", "--cached", "--name-status", renameThreshold)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("git diff --cached --name-status: %w", err)
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		status := fields[0]
		switch {
		case status == "A" && len(fields) >= 2:
			changes.Added = append(changes.Added, fields[1])
		case status == "M" && len(fields) >= 2:
			changes.Modified = append(changes.Modified, fields[1])
		case status == "D" && len(fields) >= 2:
			changes.Deleted = append(changes.Deleted, fields[1])
		case strings.HasPrefix(status, "R") && len(fields) >= 3:
			changes.Renamed = append(changes.Renamed, Rename{Old: fields[1], New: fields[2]})
		case (status == "T" || status == "C") && len(fields) >= 2:
			// Type changes and copies count as modifications of the new path.
			changes.Modified = append(changes.Modified, fields[len(fields)-1])
		}
	}

	changes.Stats.FilesChanged = len(changes.Added) + len(changes.Modified) +
		len(changes.Deleted) + len(changes.Renamed)

	ins, del, err := r.stagedNumstat()
	if err != nil {
		return ChangeSet{}, err
	}
	changes.Stats.Insertions = ins
	changes.Stats.Deletions = del

	return changes, nil
}

func (r *Repo) stagedNumstat() (insertions, deletions int, err error) {
	out, err := git(r.root, "diff", "--cached", "--numstat", renameThreshold)
	if err != nil {
		return 0, 0, fmt.Errorf("git diff --cached --numstat: %w", err)
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		// Binary files report "-" and contribute nothing to line counts.
		if n, err := strconv.Atoi(fields[0]); err == nil {
			insertions += n
		}
		if n, err := strconv.Atoi(fields[1]); err == nil {
			deletions += n
		}
	}
	return insertions, deletions, nil
}

// BoundDiff enforces the line limit on a raw diff. A diff over the limit
// keeps exactly maxLines lines, gains the truncation marker as its final
// line, and is flagged Truncated.
func BoundDiff(raw string, maxLines int) DiffText {
	if maxLines <= 0 {
		return DiffText{Text: raw}
	}
	trimmed := strings.TrimSuffix(raw, "\n")
	if trimmed == "" {
		return DiffText{}
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) <= maxLines {
		return DiffText{Text: raw}
	}
	bounded := strings.Join(lines[:maxLines], "\n")
	return DiffText{
		Text:      bounded + "\n" + TruncationMarker + "\n",
		Truncated: true,
	}
}

// StageAll stages every tracked and untracked change in the work tree.
func (r *Repo) StageAll() error {
	if _, err := git(r.root, "add", "-A"); err != nil {
		return fmt.Errorf("git add -A: %w", err)
	}
	return nil
}

// Commit records the staged changes with the given message.
func (r *Repo) Commit(message string) error {
	if _, err := git(r.root, "commit", "-m", message); err != nil {
		if strings.Contains(err.Error(), "index.lock") {
			return fmt.Errorf("%w: %s", ErrIndexLocked, r.root)
		}
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

// Push pushes the current branch to its upstream.
func (r *Repo) Push() error {
	if _, err := git(r.root, "push"); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
