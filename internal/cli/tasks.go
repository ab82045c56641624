package cli

import (
	"strings"
	"time"

	"taskboard/internal/filter"
	"taskboard/internal/model"
	"taskboard/internal/perm"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}

	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))

	return cmd
}

// taskRows renders a task list as a table.
type taskRows []model.Task

func (r taskRows) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r))
	for _, t := range r {
		rows = append(rows, []string{
			t.ID,
			t.Title,
			string(t.Priority),
			t.State.Label(),
			t.OwnerID,
			strings.Join(t.AssignedUsers, ","),
			t.UpdatedAt.Format(time.RFC3339),
		})
	}
	return []string{"ID", "TITLE", "PRIORITY", "STATE", "OWNER", "ASSIGNED", "UPDATED"}, rows
}

type taskDetail struct {
	Task        model.Task       `json:"task"`
	Permissions perm.Permissions `json:"permissions"`
}

func (d taskDetail) Table() ([]string, [][]string) {
	t := d.Task
	yes := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	return []string{"FIELD", "VALUE"}, [][]string{
		{"id", t.ID},
		{"title", t.Title},
		{"description", t.Description},
		{"priority", string(t.Priority)},
		{"state", t.State.Label()},
		{"image", t.Image},
		{"owner", t.OwnerID},
		{"assigned", strings.Join(t.AssignedUsers, ",")},
		{"created", t.CreatedAt.Format(time.RFC3339)},
		{"updated", t.UpdatedAt.Format(time.RFC3339)},
		{"can edit", yes(d.Permissions.CanEdit)},
		{"can delete", yes(d.Permissions.CanDelete)},
		{"can move", yes(d.Permissions.CanUpdateStatus)},
	}
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var title, description, priority, state, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task owned by the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := model.ParseState(state)
			if err != nil {
				return writeErr(cmd, err)
			}

			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			res, err := sess.Board.CreateTask(cmd.Context(), model.Draft{
				Title:       title,
				Description: description,
				Priority:    p,
				State:       s,
				Image:       image,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.persisted(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res.Task)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Task title (at least 3 characters)")
	cmd.Flags().StringVar(&description, "description", "", "Task description (markdown)")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "Priority (low|medium|high)")
	cmd.Flags().StringVar(&state, "state", string(model.StateTodo), "State (todo|doing|done)")
	cmd.Flags().StringVar(&image, "image", "", "Image URL")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var search, priority, state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (store order), optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := filter.ParsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := filter.ParseState(state)
			if err != nil {
				return writeErr(cmd, err)
			}

			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			out := filter.Apply(sess.Board.Tasks(), filter.Criteria{Search: search, Priority: p, State: s})
			return writeOut(cmd, app, taskRows(out))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive title search")
	cmd.Flags().StringVar(&priority, "priority", filter.All, "Priority filter (all|low|medium|high)")
	cmd.Flags().StringVar(&state, "state", filter.All, "State filter (all|todo|doing|done)")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task and what the signed-in user may do with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			t, ok := sess.Board.Task(args[0])
			if !ok {
				return writeErr(cmd, errTaskNotFound(args[0]))
			}
			return writeOut(cmd, app, taskDetail{Task: t, Permissions: perm.For(&t, sess.Board.Actor())})
		},
	}
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var title, description, priority, state, image string
	var assign []string

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Edit a task (owner or admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.Patch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("priority") {
				p, err := model.ParsePriority(priority)
				if err != nil {
					return writeErr(cmd, err)
				}
				patch.Priority = &p
			}
			if flags.Changed("state") {
				s, err := model.ParseState(state)
				if err != nil {
					return writeErr(cmd, err)
				}
				patch.State = &s
			}
			if flags.Changed("image") {
				patch.Image = &image
			}
			if flags.Changed("assign") {
				patch.AssignedUsers = &assign
			}
			if patch.Empty() {
				return writeErr(cmd, errUsage("nothing to update; pass at least one of --title --description --priority --state --image --assign"))
			}

			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			res, err := sess.Board.UpdateTask(cmd.Context(), args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.persisted(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res.Task)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority (low|medium|high)")
	cmd.Flags().StringVar(&state, "state", "", "New state (todo|doing|done)")
	cmd.Flags().StringVar(&image, "image", "", "New image URL (empty clears)")
	cmd.Flags().StringSliceVar(&assign, "assign", nil, "Replace assignees (comma separated user ids; empty clears)")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task (owner or admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			res, err := sess.Board.DeleteTask(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.persisted(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"id": res.Task.ID, "deleted": res.Changed})
		},
	}
}

func newTasksMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <state>",
		Short: "Move a task to another column (owner, admin or assignee)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := model.ParseState(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}

			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			res, err := sess.Board.MoveTask(cmd.Context(), args[0], s)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.persisted(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res.Task)
		},
	}
}
