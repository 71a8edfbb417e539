package root

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/constants"
	"github.com/Paintersrp/sleuth/internal/tui/popup"
	"github.com/Paintersrp/sleuth/pkg/cmd/find"
	"github.com/Paintersrp/sleuth/pkg/cmd/history"
	"github.com/Paintersrp/sleuth/pkg/cmd/initialize"
	"github.com/Paintersrp/sleuth/pkg/cmd/lang"
	"github.com/Paintersrp/sleuth/pkg/cmd/search"
	"github.com/Paintersrp/sleuth/pkg/cmd/settings"
	"github.com/Paintersrp/sleuth/pkg/cmd/sources"
	statecmd "github.com/Paintersrp/sleuth/pkg/cmd/state"
	"github.com/Paintersrp/sleuth/pkg/cmd/suggest"
	"github.com/Paintersrp/sleuth/pkg/cmd/theme"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
)

func NewCmdRoot(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Search your bookmarks in Korean and English at once.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			sleuth searches browser bookmarks, exported bookmark files and
			postgres tables. Every query is also run through a Korean/English
			keyword table, so 파일 finds "file" bookmarks and the other way round.

			Run without a command to open the interactive search window.
		`),
		Example: heredoc.Doc(`
			sleuth
			sleuth search 문서
			sleuth find guide
		`),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.InIsTerminal() || !a.OutIsTerminal() {
				return cmd.Help()
			}
			return runPopup(cmd, a)
		},
	}

	a.BindPersistentFlags(cmd)

	cmd.AddCommand(
		initialize.NewCmdInit(a),
		search.NewCmdSearch(a),
		find.NewCmdFind(a),
		suggest.NewCmdSuggest(a),
		history.NewCmdHistory(a),
		theme.NewCmdTheme(a),
		lang.NewCmdLang(a),
		settings.NewCmdSettings(a),
		sources.NewCmdSources(a),
		statecmd.NewCmdState(a),
	)

	return cmd
}

func runPopup(cmd *cobra.Command, a *app.App) error {
	st, err := a.State(cmd.Context(), app.WithWatch())
	if err != nil {
		return err
	}

	p := tea.NewProgram(popup.New(cmd.Context(), popup.FromState(st)), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(popup.Model); ok && m.Opened() != "" {
		fmt.Fprintln(a.Out, m.Opened())
	}
	return nil
}
