package theme

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/prefs"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
	"github.com/Paintersrp/sleuth/pkg/shared/arg"
)

func NewCmdTheme(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "theme [toggle|dark|light]",
		Short:     "Show or change the popup theme",
		ValidArgs: []string{"toggle", prefs.Dark, prefs.Light},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Example: heredoc.Doc(`
			sleuth theme
			sleuth theme toggle
			sleuth theme light
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State(cmd.Context())
			if err != nil {
				return err
			}

			switch choice := arg.HandleChoice(args, ""); choice {
			case "":
				fmt.Fprintln(a.Out, st.Prefs.Theme())
				return nil
			case "toggle":
				if _, err := st.Prefs.ToggleTheme(cmd.Context()); err != nil {
					return err
				}
			default:
				if err := st.Prefs.SetTheme(cmd.Context(), choice); err != nil {
					return err
				}
			}

			fmt.Fprintln(a.Err, st.Messages().ThemeName(st.Prefs.Theme()))
			return nil
		},
	}

	return cmd
}
