package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"todo-app/model"
	"todo-app/store"
)

const exportWordWrap = 80

func newExportCmd(a *App) *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored list as JSON, or as a rendered checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, a, func(s *session) error {
				state := s.svc.State()
				if !markdown {
					data, err := store.Encode(state)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}
				out, err := renderChecklist(state.Items, a.cfg.NoColor)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the list as a markdown checklist")
	return cmd
}

func checklistMarkdown(items []model.Item) string {
	var b strings.Builder
	b.WriteString("# todos\n\n")
	if len(items) == 0 {
		b.WriteString("_no result_\n")
		return b.String()
	}
	for _, it := range items {
		fmt.Fprintf(&b, "- %s %s\n", checkbox(it.Complete), it.Title)
	}
	fmt.Fprintf(&b, "\n%d left\n", model.ActiveCount(items))
	return b.String()
}

func renderChecklist(items []model.Item, noColor bool) (string, error) {
	style := glamour.WithAutoStyle()
	if noColor {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(exportWordWrap))
	if err != nil {
		return "", err
	}
	return r.Render(checklistMarkdown(items))
}
