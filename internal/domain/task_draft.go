package domain

// TaskDraft represents a task to be created from a batch file.
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	Title              string   `yaml:"title"`
	Description        string   `yaml:"description,omitempty"`
	Category           string   `yaml:"category,omitempty"`
	Priority           string   `yaml:"priority,omitempty"`
	Branch             string   `yaml:"branch,omitempty"` // Non-empty = new branch with this name
	TechnicalNotes     string   `yaml:"technicalNotes,omitempty"`
	RelatedFiles       []string `yaml:"relatedFiles,omitempty"`
	AcceptanceCriteria []string `yaml:"acceptanceCriteria,omitempty"`
}

// TaskDraftFile is the batch file layout.
type TaskDraftFile struct {
	Tasks []TaskDraft `yaml:"tasks"`
}

// BranchTarget returns the draft's branch target.
func (d TaskDraft) BranchTarget() BranchTarget {
	if d.Branch == "" {
		return CurrentBranch()
	}
	return NewBranch(d.Branch)
}
