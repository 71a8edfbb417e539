package lang

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/prefs"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
	"github.com/Paintersrp/sleuth/pkg/shared/arg"
)

func NewCmdLang(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "lang [toggle|ko|en]",
		Aliases:   []string{"language"},
		Short:     "Show or change the interface language",
		ValidArgs: []string{"toggle", prefs.Korean, prefs.English},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: heredoc.Doc(`
			The language picks the interface text and which side of the keyword
			table a query is read from: with ko, Korean keywords gain their English
			counterpart; with en, the other way round.
		`),
		Example: heredoc.Doc(`
			sleuth lang
			sleuth lang toggle
			sleuth lang ko
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State(cmd.Context())
			if err != nil {
				return err
			}

			switch choice := arg.HandleChoice(args, ""); choice {
			case "":
				fmt.Fprintln(a.Out, st.Prefs.Language())
				return nil
			case "toggle":
				if _, err := st.Prefs.ToggleLanguage(cmd.Context()); err != nil {
					return err
				}
			default:
				if err := st.Prefs.SetLanguage(cmd.Context(), choice); err != nil {
					return err
				}
			}

			msgs := st.Messages()
			fmt.Fprintln(a.Err, msgs.LanguageName(st.Prefs.Language()))
			return nil
		},
	}

	return cmd
}
