// Package cli provides the command-line interface for cursor-kanban.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/cursor-kanban/internal/app"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupTask  = "task"
	groupRun   = "run"
	groupServe = "serve"
)

// GlobalFlags are the persistent flags needed before the container exists.
type GlobalFlags struct {
	ProjectDir string
	Verbose    bool
}

// ParseGlobalFlags scans raw arguments for the persistent flags.
// Cobra parses them again later; this pass only decides which project to open.
func ParseGlobalFlags(args []string) GlobalFlags {
	var g GlobalFlags
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		switch {
		case arg == "--verbose":
			g.Verbose = true
		case arg == "--project-dir" || arg == "-C":
			if i+1 < len(args) {
				g.ProjectDir = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--project-dir="):
			g.ProjectDir = strings.TrimPrefix(arg, "--project-dir=")
		case strings.HasPrefix(arg, "-C") && len(arg) > 2:
			g.ProjectDir = strings.TrimPrefix(arg[2:], "=")
		}
	}
	return g
}

// NewRootCommand creates the root command for kanban.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var global GlobalFlags

	root := &cobra.Command{
		Use:   "kanban",
		Short: "File-backed kanban board for coding agents",
		Long: `kanban manages a per-project task board stored in .cursor-kanban/tasks.json.

Tasks move through BACKLOG, IN_PROGRESS, WAITING_APPROVAL and FINISHED.
Agents drive them through the MCP tool surface (kanban mcp); editors drive
them through the UI bridge (kanban ui). Every command here works on the same
document, so several processes can share one board safely.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&global.ProjectDir, "project-dir", "C", "", "Project directory (default: current directory)")
	root.PersistentFlags().BoolVar(&global.Verbose, "verbose", false, "Mirror log output to stderr")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupRun, Title: "Run Sessions:"},
		&cobra.Group{ID: groupServe, Title: "Servers:"},
	)

	add := func(group string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}

	add(groupSetup,
		newInitCommand(c),
		newConfigCommand(c),
		newProjectsCommand(c),
	)
	add(groupTask,
		newNewCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newEditCommand(c),
		newRmCommand(c),
		newMoveCommand(c),
		newFinishCommand(c),
		newBoardCommand(c),
	)
	add(groupRun,
		newStartCommand(c),
		newStopCommand(c),
		newLogCommand(c),
		newClaimCommand(c),
	)
	add(groupServe,
		newMCPCommand(c, version),
		newUICommand(c),
	)

	return root
}
