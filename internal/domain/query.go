package domain

import (
	"slices"
	"strings"
	"time"
)

// Query defaults.
const (
	DefaultPageSize  = 100
	DefaultLogWindow = 3
)

// TaskFilter specifies criteria for listing tasks.
// All fields are optional and combined with AND.
type TaskFilter struct {
	Statuses   []Status   // Status membership (empty = any)
	Categories []Category // Category membership (empty = any)
	Priorities []Priority // Priority membership (empty = any)
	Search     string     // Case-insensitive substring of title or description
}

// Matches returns true if the task satisfies every set criterion.
func (f TaskFilter) Matches(t *Task) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, t.Category) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, t.Priority) {
		return false
	}
	if q := strings.ToLower(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

// ParseTaskFilter builds a filter from loosely formatted strings
// ("in-progress", "high"). Empty strings are skipped.
func ParseTaskFilter(statuses, categories, priorities []string, search string) (TaskFilter, error) {
	f := TaskFilter{Search: search}
	for _, s := range statuses {
		if strings.TrimSpace(s) == "" {
			continue
		}
		st, err := ParseStatus(s)
		if err != nil {
			return TaskFilter{}, err
		}
		f.Statuses = append(f.Statuses, st)
	}
	var err error
	if f.Categories, err = ParseCategories(categories); err != nil {
		return TaskFilter{}, err
	}
	if f.Priorities, err = ParsePriorities(priorities); err != nil {
		return TaskFilter{}, err
	}
	return f, nil
}

// ParseCategories parses each non-empty value.
func ParseCategories(values []string) ([]Category, error) {
	var out []Category
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		c, err := ParseCategory(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParsePriorities parses each non-empty value.
func ParsePriorities(values []string) ([]Priority, error) {
	var out []Priority
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		p, err := ParsePriority(v)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Validate checks every enum value in the filter.
func (f TaskFilter) Validate() error {
	for _, s := range f.Statuses {
		if !s.IsValid() {
			return ErrInvalidStatus
		}
	}
	for _, c := range f.Categories {
		if !c.IsValid() {
			return ErrInvalidCategory
		}
	}
	for _, p := range f.Priorities {
		if !p.IsValid() {
			return ErrInvalidPriority
		}
	}
	return nil
}

// CompareTasks orders by priority rank, then createdAt ascending.
func CompareTasks(a, b *Task) int {
	if d := a.Priority.Rank() - b.Priority.Rank(); d != 0 {
		return d
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

// FilterAndSort returns the tasks matching f in queue order.
// The input slice is not modified.
func FilterAndSort(tasks []*Task, f TaskFilter) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, CompareTasks)
	return out
}

// PageRequest selects one page of a sorted result set.
type PageRequest struct {
	Cursor string // ID of the last item of the previous page
	Limit  int    // Page size (<= 0 = DefaultPageSize)
}

// Paginate returns the page following the cursor and the next cursor.
// An unknown cursor restarts from the beginning. The next cursor is
// nil when the page reaches the end of the result set.
func Paginate(sorted []*Task, req PageRequest) ([]*Task, *string) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	start := 0
	if req.Cursor != "" {
		for i, t := range sorted {
			if t.ID == req.Cursor {
				start = i + 1
				break
			}
		}
	}

	end := len(sorted)
	if limit < len(sorted)-start {
		end = start + limit
	}
	page := sorted[start:end]
	if end >= len(sorted) || len(page) == 0 {
		return page, nil
	}
	next := page[len(page)-1].ID
	return page, &next
}

// TaskSummary is the read-only list projection of a task.
// Fields are ordered to minimize memory padding.
type TaskSummary struct {
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	BranchTarget    BranchTarget `json:"branchTarget"`
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Category        Category     `json:"category"`
	Priority        Priority     `json:"priority"`
	Status          Status       `json:"status"`
	ActiveSessionID string       `json:"activeSessionId,omitempty"`
	RecentLogs      []LogEntry   `json:"recentLogs"`
	SessionCount    int          `json:"sessionCount"`
}

// Summarize builds the summary of a task with at most window recent log
// entries taken from the running session, or else from the latest session.
func Summarize(t *Task, window int) TaskSummary {
	if window <= 0 {
		window = DefaultLogWindow
	}
	s := TaskSummary{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Priority:     t.Priority,
		Status:       t.Status,
		BranchTarget: t.BranchTarget,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		SessionCount: len(t.RunSessions),
		RecentLogs:   []LogEntry{},
	}

	session := t.RunningSession()
	if session != nil {
		s.ActiveSessionID = session.SessionID
	} else {
		session = t.LatestSession()
	}
	if session != nil {
		logs := session.Logs
		if len(logs) > window {
			logs = logs[len(logs)-window:]
		}
		s.RecentLogs = append(s.RecentLogs, logs...)
	}
	return s
}

// ListQuery combines filtering and pagination.
type ListQuery struct {
	Filter    TaskFilter
	Page      PageRequest
	LogWindow int
}

// ListResult is one page of summaries.
type ListResult struct {
	NextCursor *string       `json:"nextCursor"`
	Items      []TaskSummary `json:"items"`
}

// List runs the query engine: filter, sort, paginate, summarize.
func List(tasks []*Task, q ListQuery) ListResult {
	sorted := FilterAndSort(tasks, q.Filter)
	page, next := Paginate(sorted, q.Page)
	items := make([]TaskSummary, 0, len(page))
	for _, t := range page {
		items = append(items, Summarize(t, q.LogWindow))
	}
	return ListResult{Items: items, NextCursor: next}
}

// NextBacklogTask returns the first backlog task in queue order that matches
// the optional category and priority filters, or nil.
func NextBacklogTask(tasks []*Task, categories []Category, priorities []Priority) *Task {
	sorted := FilterAndSort(tasks, TaskFilter{
		Statuses:   []Status{StatusBacklog},
		Categories: categories,
		Priorities: priorities,
	})
	if len(sorted) == 0 {
		return nil
	}
	return sorted[0]
}

// BoardColumn is one status column of the board.
type BoardColumn struct {
	Status Status        `json:"status"`
	Title  string        `json:"title"`
	Tasks  []TaskSummary `json:"tasks"`
}

// BoardState groups summaries into status columns, each in queue order.
type BoardState struct {
	Columns []BoardColumn `json:"columns"`
	Total   int           `json:"total"`
}

// NewBoardState builds the board from the full collection.
func NewBoardState(tasks []*Task, window int) BoardState {
	sorted := FilterAndSort(tasks, TaskFilter{})
	board := BoardState{Total: len(sorted)}
	for _, status := range AllStatuses() {
		col := BoardColumn{Status: status, Title: status.Display(), Tasks: []TaskSummary{}}
		for _, t := range sorted {
			if t.Status == status {
				col.Tasks = append(col.Tasks, Summarize(t, window))
			}
		}
		board.Columns = append(board.Columns, col)
	}
	return board
}
