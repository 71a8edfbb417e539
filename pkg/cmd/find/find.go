package find

import (
	"context"
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/browser"
	"github.com/Paintersrp/sleuth/internal/fzf"
	"github.com/Paintersrp/sleuth/internal/i18n"
	"github.com/Paintersrp/sleuth/internal/state"
	"github.com/Paintersrp/sleuth/pkg/cmd/search"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
	"github.com/Paintersrp/sleuth/pkg/shared/arg"
	"github.com/Paintersrp/sleuth/pkg/shared/flags"
)

// Overridden in tests.
var (
	pick = func(records []bookmark.Record, header string, msgs i18n.Messages) (bookmark.Record, error) {
		return fzf.NewFuzzyFinder(records, header, msgs).Run("")
	}
	openURL = browser.Open
)

func NewCmdFind(a *app.App) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:     "find [query...]",
		Aliases: []string{"f"},
		Short:   "Pick a bookmark with the fuzzy finder",
		Long: heredoc.Doc(`
			Runs the bilingual search and opens the results in a fuzzy finder.
			Without a query every bookmark is listed. The chosen bookmark is
			opened in the browser, or printed with --print.
		`),
		Example: heredoc.Doc(`
			sleuth find
			sleuth find 문서
			sleuth find guide --print
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			since, err := flags.HandleSince(cmd)
			if err != nil {
				return err
			}
			st, err := a.State(cmd.Context(), app.WithSince(since))
			if err != nil {
				return err
			}

			q := arg.HandleQuery(args)
			records, header, err := candidates(cmd.Context(), st, q)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(a.Err, st.Messages().NoResultsFor(q))
				return nil
			}

			rec, err := pick(records, header, st.Messages())
			if errors.Is(err, fzf.ErrNoSelection) {
				return nil
			}
			if err != nil {
				return err
			}

			if printOnly {
				fmt.Fprintln(a.Out, rec.URL)
				return nil
			}
			if err := openURL(rec.URL); err != nil {
				return err
			}
			fmt.Fprintln(a.Err, st.Messages().Opened)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "print the chosen url instead of opening it")
	flags.AddSince(cmd)

	return cmd
}

// candidates returns the finder input: the expanded search results for q, or
// every bookmark with a url when q is empty.
func candidates(ctx context.Context, st *state.State, q string) ([]bookmark.Record, string, error) {
	msgs := st.Messages()
	if err := st.Index.Warm(ctx); err != nil {
		return nil, "", err
	}
	if q == "" {
		all, err := st.Index.All(ctx)
		if err != nil {
			return nil, "", err
		}
		records := make([]bookmark.Record, 0, len(all))
		for _, rec := range all {
			if rec.HasURL() {
				records = append(records, rec)
			}
		}
		return records, msgs.Title, nil
	}

	out, err := st.Engine.Submit(ctx, q)
	if err != nil {
		return nil, "", err
	}
	return out.Results, msgs.Title + ": " + q + " · " + search.Summary(msgs, out), nil
}
