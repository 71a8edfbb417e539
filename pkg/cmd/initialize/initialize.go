/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package initialize

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/bookmark/chrome"
	"github.com/Paintersrp/sleuth/internal/config"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
)

// Browsers are probed in this order.
var Browsers = []string{"chrome", "chromium", "brave", "edge"}

var ErrNoBrowser = errors.New("no browser bookmarks found; pass --path or --browser")

// Overridden in tests.
var choose = func(prompt string, options []string) (string, error) {
	sel := selection.New(prompt, options)
	sel.Filter = nil
	return sel.RunPrompt()
}

// Candidate is a browser whose bookmark file exists.
type Candidate struct {
	Browser string
	Path    string
}

// Detect lists the browsers with a bookmark file under home.
func Detect(home string) []Candidate {
	var found []Candidate
	for _, b := range Browsers {
		path, err := chrome.DefaultPath(home, b)
		if err != nil {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			found = append(found, Candidate{Browser: b, Path: path})
		}
	}
	return found
}

type options struct {
	name    string
	kind    string
	browser string
	path    string
	dsn     string
	table   string
}

func NewCmdInit(a *app.App) *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"i", "initialize"},
		Short:   "Add a bookmark source to the config",
		Long: heredoc.Doc(`
			Creates ~/.sleuth/cfg.yaml if needed and adds a bookmark source to it.

			With no flags the installed Chromium-family browsers are detected; when
			more than one has bookmarks you are asked which to use. Exported
			bookmark files (netscape HTML or markdown) and postgres tables are
			added with --type.
		`),
		Example: heredoc.Doc(`
			sleuth init
			sleuth init --browser brave
			sleuth init --type netscape --path ~/Downloads/bookmarks.html --name export
			sleuth init --type postgres --dsn postgres://localhost/links --table saved
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.Config()
			if err != nil {
				return err
			}
			home, err := a.HomeDir()
			if err != nil {
				return err
			}

			src, err := resolve(a, home, o)
			if err != nil {
				return err
			}
			if err := cfg.AddSource(src); err != nil {
				return err
			}

			fmt.Fprintf(a.Err, "added %s source %q to %s\n", src.Type, src.Name, cfg.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "source name (default: browser or type)")
	cmd.Flags().StringVarP(&o.kind, "type", "t", config.SourceChrome, "source type: "+strings.Join(config.ValidSources, ", "))
	cmd.Flags().StringVarP(&o.browser, "browser", "b", "", "chromium-family browser: "+strings.Join(Browsers, ", "))
	cmd.Flags().StringVarP(&o.path, "path", "p", "", "bookmark file path")
	cmd.Flags().StringVar(&o.dsn, "dsn", "", "postgres connection string")
	cmd.Flags().StringVar(&o.table, "table", "", "postgres table (default bookmarks)")

	return cmd
}

func resolve(a *app.App, home string, o options) (config.SourceConfig, error) {
	src := config.SourceConfig{
		Name:    o.name,
		Type:    strings.ToLower(o.kind),
		Path:    o.path,
		Browser: strings.ToLower(o.browser),
		DSN:     o.dsn,
		Table:   o.table,
	}
	if src.Type != config.SourceChrome || src.Path != "" {
		return src, nil
	}

	if src.Browser == "" {
		found := Detect(home)
		switch {
		case len(found) == 0:
			return src, ErrNoBrowser
		case len(found) == 1 || !a.InIsTerminal():
			src.Browser = found[0].Browser
		default:
			names := make([]string, len(found))
			for i, c := range found {
				names[i] = c.Browser
			}
			picked, err := choose("Which browser's bookmarks should sleuth search?", names)
			if err != nil {
				return src, err
			}
			src.Browser = picked
		}
	}
	if _, err := chrome.DefaultPath(home, src.Browser); err != nil {
		return src, err
	}
	if src.Name == "" {
		src.Name = src.Browser
	}
	return src, nil
}
