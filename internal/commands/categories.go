package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/feeaudit/internal/detect"
)

func newCategoriesCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List fee categories and their keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("KEY"),
				headerStyle.Render("TITLE"),
				headerStyle.Render("KEYWORDS"))

			for _, d := range detect.DefaultRegistry(rt.cfg.Tariff).All() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Category, d.Title, strings.Join(d.Keywords, ", "))
			}
			return nil
		},
	}
}
