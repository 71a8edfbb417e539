package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/browser"
	"github.com/Paintersrp/sleuth/internal/i18n"
	"github.com/Paintersrp/sleuth/internal/query"
	"github.com/Paintersrp/sleuth/internal/templater"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
	"github.com/Paintersrp/sleuth/pkg/shared/arg"
	"github.com/Paintersrp/sleuth/pkg/shared/flags"
)

const wordWrap = 100

// Overridden in tests.
var (
	copyURL = clipboard.WriteAll
	openURL = browser.Open
)

// RenderOptions select how an outcome is printed.
type RenderOptions struct {
	Format string
	// Style is the glamour style for markdown on a terminal.
	Style string
	TTY   bool
}

func NewCmdSearch(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search <query...>",
		Aliases: []string{"s"},
		Short:   "Search bookmarks in Korean and English at once",
		Long: heredoc.Doc(`
			Searches every configured bookmark source for the query and for its
			translation through the keyword table, then prints the merged results.

			The query is recorded in the search history unless --no-history is set.
		`),
		Example: heredoc.Doc(`
			sleuth search 파일
			sleuth search api docs --format markdown
			sleuth search github --since "2024-01-01" --format urls
			sleuth search 뉴스 --open
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.HandleFormat(cmd)
			if err != nil {
				return err
			}
			since, err := flags.HandleSince(cmd)
			if err != nil {
				return err
			}

			st, err := a.State(cmd.Context(), app.WithSince(since))
			if err != nil {
				return err
			}
			msgs := st.Messages()
			if err := st.Index.Warm(cmd.Context()); err != nil {
				return err
			}

			run := st.Engine.Submit
			if flags.HandleNoHistory(cmd) {
				run = st.Engine.Preview
			}
			out, err := run(cmd.Context(), arg.HandleQuery(args))
			if err != nil {
				return err
			}

			if out.Empty {
				fmt.Fprintln(a.Err, msgs.RandomEmptyState(nil).Text)
				return nil
			}
			if out.NoResults() {
				fmt.Fprintln(a.Err, msgs.NoResultsFor(out.Query))
				return nil
			}

			opts := RenderOptions{Format: format, Style: st.Prefs.Theme(), TTY: a.OutIsTerminal()}
			if err := Render(a.Out, st.Templater, msgs, out, opts); err != nil {
				return err
			}

			first := out.Results[0]
			if flags.HandleCopy(cmd) {
				if err := copyURL(first.URL); err != nil {
					return fmt.Errorf("copy url: %w", err)
				}
				fmt.Fprintln(a.Err, msgs.Copied)
			}
			if flags.HandleOpen(cmd) {
				if err := openURL(first.URL); err != nil {
					return err
				}
				fmt.Fprintln(a.Err, msgs.Opened)
			}
			return nil
		},
	}

	flags.AddFormat(cmd)
	flags.AddSince(cmd)
	flags.AddCopy(cmd)
	flags.AddOpen(cmd)
	flags.AddNoHistory(cmd)

	return cmd
}

type jsonResult struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Folder string `json:"folder,omitempty"`
	Source string `json:"source"`
	Added  string `json:"added,omitempty"`
}

type jsonOutcome struct {
	Query     string       `json:"query"`
	Expanded  []string     `json:"expanded"`
	Partial   bool         `json:"partial"`
	ElapsedMS int64        `json:"elapsed_ms"`
	Results   []jsonResult `json:"results"`
}

// Render writes out in the requested format. Markdown is styled with glamour
// only when printing to a terminal.
func Render(w io.Writer, t *templater.Templater, msgs i18n.Messages, out query.Outcome, opts RenderOptions) error {
	if opts.Format == "" {
		opts.Format = flags.FormatPlain
	}
	if opts.Format == flags.FormatJSON {
		return renderJSON(w, msgs, out)
	}
	if t == nil {
		return errors.New("no templater")
	}

	data := templater.NewTemplateData(msgs, out.Query, out.Expanded, out.Results, out.Partial, out.Elapsed)
	text, err := t.Execute(opts.Format, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.Format, err)
	}

	if opts.Format == flags.FormatMarkdown && opts.TTY {
		text, err = styleMarkdown(text, opts.Style)
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, text)
	return err
}

func styleMarkdown(text, style string) (string, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

func renderJSON(w io.Writer, msgs i18n.Messages, out query.Outcome) error {
	doc := jsonOutcome{
		Query:     out.Query,
		Expanded:  out.Expanded,
		Partial:   out.Partial,
		ElapsedMS: out.Elapsed.Milliseconds(),
		Results:   make([]jsonResult, len(out.Results)),
	}
	for i, rec := range out.Results {
		doc.Results[i] = jsonResult{
			Title:  msgs.TitleOr(rec.Title),
			URL:    rec.URL,
			Folder: rec.Folder,
			Source: rec.Source,
		}
		if !rec.AddedAt.IsZero() {
			doc.Results[i].Added = rec.AddedAt.UTC().Format(time.RFC3339)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Summary is the one-line status printed after interactive pickers.
func Summary(msgs i18n.Messages, out query.Outcome) string {
	parts := []string{fmt.Sprintf("%d", len(out.Results)), out.Elapsed.Round(time.Millisecond).String()}
	if out.Partial {
		parts = append(parts, msgs.Partial)
	}
	return strings.Join(parts, " · ")
}
