package settings

import (
	"errors"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/tui/settings"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
)

var errNotTerminal = errors.New("settings needs an interactive terminal; use 'sleuth theme' or 'sleuth lang'")

func NewCmdSettings(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"prefs"},
		Short:   "Change the theme and language interactively",
		Long: heredoc.Doc(`
			Opens a menu of the saved preferences. Pick one with enter, choose a
			value, and it is stored right away.
		`),
		Example: "sleuth settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.InIsTerminal() {
				return errNotTerminal
			}
			st, err := a.State(cmd.Context())
			if err != nil {
				return err
			}
			return settings.Run(cmd.Context(), st.Prefs)
		},
	}

	return cmd
}
