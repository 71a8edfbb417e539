package history

import (
	"fmt"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/pkg/shared/app"
)

func NewCmdHistory(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Show or edit recent searches",
		Long: heredoc.Doc(`
			Lists the recent searches, newest first. Entries are numbered from 1;
			use the number with 'history remove'.
		`),
		Example: heredoc.Doc(`
			sleuth history
			sleuth history remove 2
			sleuth history clear
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(a, cmd)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recent searches",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return list(a, cmd)
			},
		},
		&cobra.Command{
			Use:     "remove <n>",
			Aliases: []string{"rm"},
			Short:   "Forget one recent search",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := ParseIndex(args[0])
				if err != nil {
					return err
				}
				st, err := a.State(cmd.Context())
				if err != nil {
					return err
				}
				if err := st.History.Remove(cmd.Context(), n); err != nil {
					return fmt.Errorf("remove %s: %w", args[0], err)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget every recent search",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.State(cmd.Context())
				if err != nil {
					return err
				}
				if err := st.History.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.Err, st.Messages().HistoryCleared)
				return nil
			},
		},
	)

	return cmd
}

func list(a *app.App, cmd *cobra.Command) error {
	st, err := a.State(cmd.Context())
	if err != nil {
		return err
	}

	entries := st.History.List()
	if len(entries) == 0 {
		fmt.Fprintln(a.Err, st.Messages().HistoryEmpty)
		return nil
	}
	for i, q := range entries {
		fmt.Fprintf(a.Out, "%d. %s\n", i+1, q)
	}
	return nil
}

// ParseIndex converts the 1-based number shown by 'history list' into a
// store index.
func ParseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid history number %q", raw)
	}
	return n - 1, nil
}
