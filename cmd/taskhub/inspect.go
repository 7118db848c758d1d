// cmd/taskhub/inspect.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dalemusser/taskhub/internal/app/bootstrap"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInspectCmd(load configLoader) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the contents of the collection files",
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output format: table (default) or json")

	// The files are opened read-only; missing files are reported instead
	// of created.
	open := func(cmd *cobra.Command) (bootstrap.DBDeps, error) {
		cfg, err := load(cmd)
		if err != nil {
			return bootstrap.DBDeps{}, err
		}
		return bootstrap.ConnectDB(cfg, afero.NewReadOnlyFs(afero.NewOsFs()), zap.NewNop())
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := open(cmd)
			if err != nil {
				return err
			}
			users, err := deps.Users.List(context.Background())
			if err != nil {
				return err
			}
			return printUsers(cmd.OutOrStdout(), output, users)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "teams",
		Short: "List teams and their members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := open(cmd)
			if err != nil {
				return err
			}
			teams, err := deps.Teams.List(context.Background())
			if err != nil {
				return err
			}
			return printTeams(cmd.OutOrStdout(), output, teams)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "boards [team id]",
		Short: "List boards, optionally only those of one team",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := open(cmd)
			if err != nil {
				return err
			}
			teamID := ""
			if len(args) == 1 {
				teamID = args[0]
			}
			boards, err := deps.Boards.ListBoards(context.Background(), teamID)
			if err != nil {
				return err
			}
			return printBoards(cmd.OutOrStdout(), output, boards)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "tasks [board id]",
		Short: "List the tasks of a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := open(cmd)
			if err != nil {
				return err
			}
			tasks, err := deps.Boards.ListTasks(context.Background(), args[0])
			if err != nil {
				return err
			}
			return printTasks(cmd.OutOrStdout(), output, tasks)
		},
	})
	return cmd
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	return tw
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func formatTime(t models.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func printUsers(w io.Writer, output string, users []models.User) error {
	switch output {
	case "", "table":
		tw := newTable()
		tw.AppendHeader(table.Row{"ID", "NAME", "DISPLAY NAME", "CREATED AT"})
		for _, u := range users {
			tw.AppendRow(table.Row{u.ID, u.Name, u.DisplayName, formatTime(u.CreationTime)})
		}
		_, err := fmt.Fprintln(w, tw.Render())
		return err
	case "json":
		return printJSON(w, users)
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}

func printTeams(w io.Writer, output string, teams []models.Team) error {
	switch output {
	case "", "table":
		tw := newTable()
		tw.AppendHeader(table.Row{"ID", "NAME", "ADMIN", "MEMBERS", "CREATED AT"})
		for _, t := range teams {
			tw.AppendRow(table.Row{t.ID, t.Name, t.Admin, len(t.Users), formatTime(t.CreationTime)})
		}
		_, err := fmt.Fprintln(w, tw.Render())
		return err
	case "json":
		return printJSON(w, teams)
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}

func printBoards(w io.Writer, output string, boards []models.Board) error {
	switch output {
	case "", "table":
		tw := newTable()
		tw.AppendHeader(table.Row{"ID", "NAME", "TEAM", "TASKS", "CREATED AT"})
		for _, b := range boards {
			team := b.TeamID
			if team == "" {
				team = "-"
			}
			tw.AppendRow(table.Row{b.ID, b.Name, team, len(b.Tasks), formatTime(b.CreationTime)})
		}
		_, err := fmt.Fprintln(w, tw.Render())
		return err
	case "json":
		return printJSON(w, boards)
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}

func printTasks(w io.Writer, output string, tasks []models.Task) error {
	switch output {
	case "", "table":
		tw := newTable()
		tw.AppendHeader(table.Row{"ID", "TITLE", "STATUS", "ASSIGNEE", "CREATED AT"})
		for _, t := range tasks {
			tw.AppendRow(table.Row{t.ID, t.Title, string(t.Status), t.Assignee, formatTime(t.CreationTime)})
		}
		tw.AppendFooter(table.Row{"", "", statusSummary(tasks)})
		_, err := fmt.Fprintln(w, tw.Render())
		return err
	case "json":
		return printJSON(w, tasks)
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}

// statusSummary counts tasks per status in workflow order, e.g.
// "To-Do=2 In-Progress=0 Done=1".
func statusSummary(tasks []models.Task) string {
	counts := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, t := range tasks {
		counts[t.Status]++
	}
	parts := make([]string, 0, len(models.TaskStatuses))
	for _, s := range models.TaskStatuses {
		parts = append(parts, fmt.Sprintf("%s=%d", s, counts[s]))
	}
	return strings.Join(parts, " ")
}
