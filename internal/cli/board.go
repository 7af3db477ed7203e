package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/domain"
)

// boardColors is the board palette.
var boardColors = struct {
	Muted      lipgloss.Color
	Title      lipgloss.Color
	Backlog    lipgloss.Color
	InProgress lipgloss.Color
	Waiting    lipgloss.Color
	Finished   lipgloss.Color
	High       lipgloss.Color
	Low        lipgloss.Color
}{
	Muted:      lipgloss.Color("#636E72"), // Gray
	Title:      lipgloss.Color("#DFE6E9"), // Light gray
	Backlog:    lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Waiting:    lipgloss.Color("#A29BFE"), // Lavender
	Finished:   lipgloss.Color("#00B894"), // Green
	High:       lipgloss.Color("#D63031"), // Red
	Low:        lipgloss.Color("#636E72"), // Gray
}

func statusColor(s domain.Status) lipgloss.Color {
	switch s {
	case domain.StatusInProgress:
		return boardColors.InProgress
	case domain.StatusWaitingApproval:
		return boardColors.Waiting
	case domain.StatusFinished:
		return boardColors.Finished
	default:
		return boardColors.Backlog
	}
}

func priorityColor(p domain.Priority) lipgloss.Color {
	switch p {
	case domain.PriorityHigh:
		return boardColors.High
	case domain.PriorityLow:
		return boardColors.Low
	default:
		return boardColors.Title
	}
}

// newBoardCommand creates the board command.
func newBoardCommand(c *app.Container) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Render the board as four columns",
		Long: `Render the board: one column per status, each in queue order.

Running tasks are marked with "*".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.BoardStateUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderBoard(out.Board, width))
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 30, "Column width")

	return cmd
}

// renderBoard lays the columns out side by side.
func renderBoard(board domain.BoardState, width int) string {
	if width < 12 {
		width = 12
	}
	// Border and padding take four cells.
	inner := width - 4

	columns := make([]string, 0, len(board.Columns))
	for _, col := range board.Columns {
		color := statusColor(col.Status)
		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(color).
			Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks)))

		lines := []string{header, ""}
		if len(col.Tasks) == 0 {
			lines = append(lines, lipgloss.NewStyle().Foreground(boardColors.Muted).Render("empty"))
		}
		for _, t := range col.Tasks {
			lines = append(lines, renderCard(t, inner))
		}

		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1).
			Width(width - 2).
			Render(strings.Join(lines, "\n"))
		columns = append(columns, box)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderCard(t domain.TaskSummary, width int) string {
	marker := " "
	if t.ActiveSessionID != "" {
		marker = "*"
	}
	id := lipgloss.NewStyle().Foreground(boardColors.Muted).Render(shortID(t.ID))
	prio := lipgloss.NewStyle().Foreground(priorityColor(t.Priority)).Render(string(t.Priority))
	title := lipgloss.NewStyle().
		Foreground(boardColors.Title).
		Width(width).
		Render(truncate(t.Title, width*2))
	return fmt.Sprintf("%s%s %s\n%s", marker, id, prio, title)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
