package suggest

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/query"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
	"github.com/Paintersrp/sleuth/pkg/shared/arg"
)

func NewCmdSuggest(a *app.App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <text...>",
		Short: "Complete a partial query",
		Long: heredoc.Doc(`
			Prints completions for text, one per line followed by a tab and where
			it came from: history, bookmark or mapping.
		`),
		Example: heredoc.Doc(`
			sleuth suggest 파
			sleuth suggest gui --limit 3
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State(cmd.Context())
			if err != nil {
				return err
			}

			titles, err := st.Index.Titles(cmd.Context())
			if err != nil {
				return err
			}

			text := arg.HandleQuery(args)
			for _, s := range query.Suggest(text, st.History.List(), titles, st.Engine.Mapping(), limit) {
				fmt.Fprintf(a.Out, "%s\t%s\n", s.Text, s.Kind)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", query.DefaultSuggestionLimit, "maximum number of suggestions")

	return cmd
}
