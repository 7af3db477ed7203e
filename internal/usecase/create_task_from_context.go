package usecase

import (
	"context"
	"strings"
)

// CreateTaskFromContextInput extends CreateTaskInput with context that is
// rendered into the description as markdown sections.
// Fields are ordered to minimize memory padding.
type CreateTaskFromContextInput struct {
	RelatedFiles       []string // Rendered under "## Related Files"
	AcceptanceCriteria []string // Rendered as "- [ ]" items under "## Acceptance Criteria"
	TechnicalNotes     string   // Rendered under "## Technical Notes"
	CreateTaskInput
}

// CreateTaskFromContext is the use case for creating a task from agent context.
type CreateTaskFromContext struct {
	create *CreateTask
}

// NewCreateTaskFromContext creates a new CreateTaskFromContext use case.
func NewCreateTaskFromContext(create *CreateTask) *CreateTaskFromContext {
	return &CreateTaskFromContext{create: create}
}

// Execute renders the context into the description and creates the task.
func (uc *CreateTaskFromContext) Execute(ctx context.Context, in CreateTaskFromContextInput) (*CreateTaskOutput, error) {
	base := in.CreateTaskInput
	base.Description = RenderContextDescription(in.Description, in.RelatedFiles, in.AcceptanceCriteria, in.TechnicalNotes)
	return uc.create.Execute(ctx, base)
}

// RenderContextDescription concatenates the description with the non-empty
// context sections, separated by blank lines.
func RenderContextDescription(description string, relatedFiles, criteria []string, notes string) string {
	var sections []string
	if d := strings.TrimSpace(description); d != "" {
		sections = append(sections, d)
	}

	if files := nonEmpty(relatedFiles); len(files) > 0 {
		var b strings.Builder
		b.WriteString("## Related Files\n")
		for _, f := range files {
			b.WriteString("- " + f + "\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if items := nonEmpty(criteria); len(items) > 0 {
		var b strings.Builder
		b.WriteString("## Acceptance Criteria\n")
		for _, c := range items {
			b.WriteString("- [ ] " + c + "\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if n := strings.TrimSpace(notes); n != "" {
		sections = append(sections, "## Technical Notes\n"+n)
	}

	return strings.Join(sections, "\n\n")
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
