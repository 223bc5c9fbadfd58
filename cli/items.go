package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"todo-app/model"
)

type notFoundError struct {
	id int64
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("item not found: %d", e.id)
}

func newListCmd(a *App) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := model.ParseFilter(filter)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown filter %q (want all, active or complete)", filter))
			}
			return withSession(cmd, a, func(s *session) error {
				if err := s.svc.SetFilter(f); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, it := range s.svc.Visible() {
					fmt.Fprintf(out, "%d\t%s\t%s\n", it.ID, checkbox(it.Complete), it.Title)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "Which items to print (all|active|complete)")
	return cmd
}

func newAddCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return withSession(cmd, a, func(s *session) error {
				it, ok := s.svc.Create(title)
				if !ok {
					return fmt.Errorf("title is empty")
				}
				fmt.Fprintln(cmd.OutOrStdout(), it.ID)
				return nil
			})
		},
	}
}

func newDoneCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle an item between active and complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, a, func(s *session) error {
				if !s.svc.Toggle(id) {
					return notFoundError{id: id}
				}
				it, _ := s.svc.Get(id)
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", it.ID, checkbox(it.Complete), it.Title)
				return nil
			})
		},
	}
}

func newRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, a, func(s *session) error {
				if !s.svc.Delete(id) {
					return notFoundError{id: id}
				}
				return nil
			})
		},
	}
}

func newClearCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all complete items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, a, func(s *session) error {
				before := len(s.svc.Items())
				s.svc.ClearCompleted()
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", before-len(s.svc.Items()))
				return nil
			})
		},
	}
}

func newToggleAllCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-all",
		Short: "Complete every item, or reopen all when all are complete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, a, func(s *session) error {
				s.svc.ToggleAll()
				fmt.Fprintf(cmd.OutOrStdout(), "%d left\n", s.svc.ActiveCount())
				return nil
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}

func checkbox(complete bool) string {
	if complete {
		return "[x]"
	}
	return "[ ]"
}
