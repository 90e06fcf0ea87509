package gitrepo

import "encoding/json"

// Rename is an (old, new) staged rename pair. It marshals as a two-element
// JSON array to match the relay wire format.
type Rename struct {
	Old string
	New string
}

// MarshalJSON encodes the pair as ["old", "new"].
func (r Rename) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{r.Old, r.New})
}

// UnmarshalJSON decodes ["old", "new"].
func (r *Rename) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	r.Old, r.New = pair[0], pair[1]
	return nil
}

// DiffStats summarizes the staged diff.
type DiffStats struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// ChangeSet is the categorized summary of staged paths. A path appears in
// exactly one of Added, Modified, Deleted, or as the old side of a Rename.
type ChangeSet struct {
	Added    []string  `json:"added"`
	Modified []string  `json:"modified"`
	Deleted  []string  `json:"deleted"`
	Renamed  []Rename  `json:"renamed"`
	Stats    DiffStats `json:"stats"`
}

// Empty reports whether nothing is staged.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0 && len(c.Renamed) == 0
}

// DiffText is the unified diff for the staged changes, bounded by the
// configured line limit. When Truncated is set the text ends with an
// explicit truncation marker line.
type DiffText struct {
	Text      string
	Truncated bool
}
