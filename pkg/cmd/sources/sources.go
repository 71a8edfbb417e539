package sources

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/config"
	indexsvc "github.com/Paintersrp/sleuth/internal/services/index"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func NewCmdSources(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List bookmark sources and how many bookmarks each holds",
		Long: heredoc.Doc(`
			Loads every configured source and prints its name, type, location and
			bookmark count. A source that could not be read shows its error
			instead; the other sources are still searched.
		`),
		Example: "sleuth sources",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State(cmd.Context())
			if err != nil {
				return err
			}
			if len(st.Config.Sources) == 0 {
				fmt.Fprintln(a.Err, "no bookmark sources configured; run 'sleuth init'")
				return nil
			}
			if err := st.Index.Warm(cmd.Context()); err != nil {
				return err
			}
			return Print(a.Out, st.Config.Sources, st.Sources, st.Index.Stats())
		},
	}

	return cmd
}

// Print writes one row per configured source.
func Print(w io.Writer, cfgs []config.SourceConfig, srcs []bookmark.Source, stats indexsvc.Stats) error {
	locations := make(map[string]string, len(srcs))
	for _, src := range srcs {
		if fs, ok := src.(bookmark.FileSource); ok {
			locations[src.Name()] = fs.Path()
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers("NAME", "TYPE", "LOCATION", "BOOKMARKS")
	for _, c := range cfgs {
		location := locations[c.Name]
		if location == "" {
			location = c.Table
		}
		count := fmt.Sprintf("%d", stats.Sources[c.Name])
		if err, ok := stats.Errors[c.Name]; ok && err != nil {
			count = "error: " + err.Error()
		}
		t.Row(c.Name, c.Type, location, count)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
